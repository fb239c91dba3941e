package config

// FeedConfig holds the live status websocket feed configuration
type FeedConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Address the HTTP server listens on (host:port)
	Address string `mapstructure:"address" validate:"required_if=Enabled true"`
}

// BusConfig holds the NATS event bus configuration
type BusConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// URL of the NATS server
	URL string `mapstructure:"url" validate:"required_if=Enabled true"`

	// SubjectPrefix is prepended to every event subject
	SubjectPrefix string `mapstructure:"subject_prefix"`
}
