package config

// FeedConfig is the Feed Engine's full configuration.
type FeedConfig struct {
	Server   ServerConfig    `mapstructure:"server"`
	Database DatabaseConfig  `mapstructure:"database"`
	Kafka    KafkaConfig     `mapstructure:"kafka"`
	Redis    RedisConfig     `mapstructure:"redis"`
	Scoring  ScoringConfig   `mapstructure:"scoring"`
	Cache    FeedCacheConfig `mapstructure:"cache"`
}

// LoadFeedConfig reads configuration for the feed-engine binary.
// Environment variables override file values. Prefix: ARDA_FEED.
func LoadFeedConfig() (*FeedConfig, error) {
	v := newViper("ARDA_FEED")

	setSharedDefaults(v, "8091", "feed-engine", []string{"content.events", "social.events"})
	v.SetDefault("database.name", "arda_feed")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("scoring.like_weight", 1.0)
	v.SetDefault("scoring.comment_weight", 2.0)
	v.SetDefault("scoring.share_weight", 3.0)
	v.SetDefault("scoring.decay_hours", 24.0)

	v.SetDefault("cache.feed_ttl_seconds", 300)
	v.SetDefault("cache.score_ttl_seconds", 600)
	v.SetDefault("cache.max_feed_size", 200)
	v.SetDefault("cache.default_page_size", 20)
	v.SetDefault("cache.trending_window_hrs", 168)

	bindSharedEnv(v)
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	_ = v.ReadInConfig() // optional

	var cfg FeedConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
