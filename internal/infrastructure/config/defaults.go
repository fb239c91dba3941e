package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "processor-sim.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "processor"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "processor"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 10
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 2
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Simulation defaults
	if cfg.Simulation.Cadence.Normal == 0 {
		cfg.Simulation.Cadence.Normal = 100
	}
	if cfg.Simulation.Cadence.Rare == 0 {
		cfg.Simulation.Cadence.Rare = 250
	}
	if cfg.Simulation.Cadence.Long == 0 {
		cfg.Simulation.Cadence.Long = 2000
	}
	if cfg.Simulation.AmbientTemperature == 0 {
		cfg.Simulation.AmbientTemperature = 20
	}
	if cfg.Simulation.TicksPerSecond == 0 {
		cfg.Simulation.TicksPerSecond = 60
	}
	if cfg.Simulation.Ruin.AccrualPerTick == 0 {
		cfg.Simulation.Ruin.AccrualPerTick = 0.0004
	}
	if cfg.Simulation.Ruin.DecayPerTick == 0 {
		cfg.Simulation.Ruin.DecayPerTick = 0.0002
	}

	if cfg.Simulation.PIDFile == "" {
		cfg.Simulation.PIDFile = "processor-sim.pid"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	// Metrics defaults
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9464
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	// Feed defaults
	if cfg.Feed.Address == "" {
		cfg.Feed.Address = "localhost:8787"
	}

	// Bus defaults
	if cfg.Bus.URL == "" {
		cfg.Bus.URL = "nats://127.0.0.1:4222"
	}
	if cfg.Bus.SubjectPrefix == "" {
		cfg.Bus.SubjectPrefix = "processor"
	}
}
