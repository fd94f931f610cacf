package config

// SearchConfig is the Search Engine's full configuration.
type SearchConfig struct {
	Server        ServerConfig        `mapstructure:"server"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Indexing      IndexingConfig      `mapstructure:"indexing"`
}

// LoadSearchConfig reads configuration for the search-engine binary.
// Environment variables override file values. Prefix: ARDA_SEARCH.
func LoadSearchConfig() (*SearchConfig, error) {
	v := newViper("ARDA_SEARCH")

	setSharedDefaults(v, "8092", "search-engine", []string{"content.events", "user.events"})
	v.SetDefault("elasticsearch.addresses", []string{"http://localhost:9200"})
	v.SetDefault("elasticsearch.username", "")
	v.SetDefault("elasticsearch.password", "")

	v.SetDefault("indexing.max_retries", 3)
	v.SetDefault("indexing.timeout_ms", 500)
	v.SetDefault("indexing.page_size_max", 50)

	bindSharedEnv(v)
	v.BindEnv("elasticsearch.addresses", "ELASTICSEARCH_URL")
	v.BindEnv("elasticsearch.username", "ELASTICSEARCH_USERNAME")
	v.BindEnv("elasticsearch.password", "ELASTICSEARCH_PASSWORD")

	_ = v.ReadInConfig() // optional

	var cfg SearchConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
