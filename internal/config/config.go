// Package config provides viper-backed configuration for each of the
// three services, following the teacher's env-prefixed Load() pattern.
package config

import (
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// ServerConfig is shared by every service's HTTP listener.
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

// DatabaseConfig is shared by every service's Postgres connection.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return "host=" + d.Host +
		" port=" + strconv.Itoa(d.Port) +
		" dbname=" + d.Name +
		" user=" + d.User +
		" password=" + d.Password +
		" sslmode=disable"
}

// KafkaConfig is shared by every service's bus consumer.
type KafkaConfig struct {
	Brokers         []string `mapstructure:"brokers"`
	ConsumerGroupID string   `mapstructure:"consumer_group_id"`
	Topics          []string `mapstructure:"topics"`
}

// RedisConfig configures the feed/score cache client.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ElasticsearchConfig configures the search index client.
type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
}

// PushConfig gates vendor push fan-out (§4.2.2): a vendor is only
// attempted when both its token field on the preference row and its
// service-level credential here are present.
type PushConfig struct {
	FCMServerKey string `mapstructure:"fcm_server_key"`
	APNSKeyID    string `mapstructure:"apns_key_id"`
	APNSTeamID   string `mapstructure:"apns_team_id"`
	APNSBundleID string `mapstructure:"apns_bundle_id"`
}

// AggregationConfig controls the comment-aggregation rolling window (§4.1).
type AggregationConfig struct {
	WindowMinutes int `mapstructure:"window_minutes"` // Default: 5
}

// RetentionConfig controls the TTL sweep (§4.1.4).
type RetentionConfig struct {
	RetentionDays int `mapstructure:"retention_days"` // Default: 30
}

// ScoringConfig holds the relevance-score weights and decay constant (§4.3).
type ScoringConfig struct {
	LikeWeight    float64 `mapstructure:"like_weight"`    // Default: 1
	CommentWeight float64 `mapstructure:"comment_weight"` // Default: 2
	ShareWeight   float64 `mapstructure:"share_weight"`   // Default: 3
	DecayHours    float64 `mapstructure:"decay_hours"`    // Default: 24
}

// FeedCacheConfig controls feed/score cache TTLs and page sizing (§4.4).
type FeedCacheConfig struct {
	FeedTTLSeconds    int `mapstructure:"feed_ttl_seconds"`    // Default: 300
	ScoreTTLSeconds   int `mapstructure:"score_ttl_seconds"`   // Default: 600
	MaxFeedSize       int `mapstructure:"max_feed_size"`       // Default: 200
	DefaultPageSize   int `mapstructure:"default_page_size"`   // Default: 20
	TrendingWindowHrs int `mapstructure:"trending_window_hrs"` // Default: 168 (7 days)
}

// IndexingConfig controls the search indexer's retry discipline (§4.6).
type IndexingConfig struct {
	MaxRetries  int `mapstructure:"max_retries"`   // Default: 3
	TimeoutMS   int `mapstructure:"timeout_ms"`    // Default: 500
	PageSizeMax int `mapstructure:"page_size_max"` // Default: 50
}

func setSharedDefaults(v *viper.Viper, port, groupID string, topics []string) {
	v.SetDefault("server.port", port)
	v.SetDefault("server.env", "development")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "password")
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.consumer_group_id", groupID)
	v.SetDefault("kafka.topics", topics)
}

func bindSharedEnv(v *viper.Viper) {
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.port", "DB_PORT")
	v.BindEnv("database.name", "DB_NAME")
	v.BindEnv("database.user", "DB_USER")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("server.port", "PORT")
}

func newViper(envPrefix string) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	return v
}
