package config

// NotificationConfig is the Notification Engine's full configuration.
type NotificationConfig struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Kafka       KafkaConfig       `mapstructure:"kafka"`
	Push        PushConfig        `mapstructure:"push"`
	Aggregation AggregationConfig `mapstructure:"aggregation"`
	Retention   RetentionConfig   `mapstructure:"retention"`
}

// LoadNotificationConfig reads configuration for the notification-engine
// binary. Environment variables override file values. Prefix: ARDA_NOTIF.
func LoadNotificationConfig() (*NotificationConfig, error) {
	v := newViper("ARDA_NOTIF")

	setSharedDefaults(v, "8090", "notification-engine", []string{"content.events", "social.events"})
	v.SetDefault("database.name", "arda_notification")
	v.SetDefault("aggregation.window_minutes", 5)
	v.SetDefault("retention.retention_days", 30)
	v.SetDefault("push.fcm_server_key", "")
	v.SetDefault("push.apns_key_id", "")
	v.SetDefault("push.apns_team_id", "")
	v.SetDefault("push.apns_bundle_id", "")

	bindSharedEnv(v)
	v.BindEnv("push.fcm_server_key", "FCM_SERVER_KEY")
	v.BindEnv("push.apns_key_id", "APNS_KEY_ID")
	v.BindEnv("push.apns_team_id", "APNS_TEAM_ID")
	v.BindEnv("push.apns_bundle_id", "APNS_BUNDLE_ID")
	v.BindEnv("aggregation.window_minutes", "AGGREGATION_WINDOW_MINUTES")
	v.BindEnv("retention.retention_days", "RETENTION_DAYS")

	_ = v.ReadInConfig() // optional

	var cfg NotificationConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
