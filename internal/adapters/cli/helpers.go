package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"

	"github.com/andrescamacho/processor-go/internal/adapters/definitions"
	"github.com/andrescamacho/processor-go/internal/infrastructure/config"
)

// loadConfig loads the configuration named by the --config flag
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// loadWorld reads and validates the world file named by --file
func loadWorld(path string) (*definitions.World, error) {
	if path == "" {
		return nil, fmt.Errorf("--file is required")
	}
	return definitions.LoadWorldFile(path)
}

// maskPassword hides the password of a connection URL for display
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Redacted()
}

// writeJSON prints v as indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
