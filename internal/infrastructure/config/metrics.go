package config

// MetricsConfig controls the Prometheus exposition of tick and command metrics.
// Only live runs (run, tick) start collectors.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Port of the dedicated metrics listener
	Port int `mapstructure:"port" validate:"omitempty,min=1024,max=65535"`
	Host string `mapstructure:"host"`

	// Path is mounted on the metrics listener and, when the status feed is enabled,
	// on the feed's HTTP server as well. It must be an absolute mux path.
	Path string `mapstructure:"path" validate:"omitempty,startswith=/"`
}
