package config

import (
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
)

// SaveTo writes cfg as indented JSON, creating parent directories as needed.
func SaveTo(cfg *Config, path string) error {
	if path == "" {
		path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
