package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
)

const (
	configDir  = ".config/treenav"
	configFile = "config.json"
)

// rawConfig is the JSON-unmarshaling intermediary. Pointer fields
// distinguish "absent" from zero so the merge never clobbers defaults.
type rawConfig struct {
	Lister rawListerConfig `json:"lister"`
	Icons  rawIconsConfig  `json:"icons"`
	UI     rawUIConfig     `json:"ui"`
	Keymap KeymapConfig    `json:"keymap"`
}

type rawListerConfig struct {
	Strategy      string `json:"strategy"`
	TreeBin       string `json:"treeBin"`
	RespectIgnore *bool  `json:"respectIgnore"`
	DepthLimit    *int   `json:"depthLimit"`
	ChunkSize     *int   `json:"chunkSize"`
}

type rawIconsConfig struct {
	Enabled *bool `json:"enabled"`
}

type rawUIConfig struct {
	CloseOnSelect *bool `json:"closeOnSelect"`
	Watch         *bool `json:"watch"`
	ShowFooter    *bool `json:"showFooter"`
}

// Load loads configuration from the default location.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from a specific path.
// If path is empty, uses ~/.config/treenav/config.json.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, nil // Return defaults on error
		}
		path = filepath.Join(home, configDir, configFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	mergeConfig(cfg, &raw)

	cfg.Lister.TreeBin = ExpandPath(cfg.Lister.TreeBin)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// mergeConfig merges raw config values into the defaults.
func mergeConfig(cfg *Config, raw *rawConfig) {
	if raw.Lister.Strategy != "" {
		cfg.Lister.Strategy = raw.Lister.Strategy
	}
	if raw.Lister.TreeBin != "" {
		cfg.Lister.TreeBin = raw.Lister.TreeBin
	}
	if raw.Lister.RespectIgnore != nil {
		cfg.Lister.RespectIgnore = *raw.Lister.RespectIgnore
	}
	if raw.Lister.DepthLimit != nil {
		cfg.Lister.DepthLimit = *raw.Lister.DepthLimit
	}
	if raw.Lister.ChunkSize != nil {
		cfg.Lister.ChunkSize = *raw.Lister.ChunkSize
	}

	if raw.Icons.Enabled != nil {
		cfg.Icons.Enabled = *raw.Icons.Enabled
	}

	if raw.UI.CloseOnSelect != nil {
		cfg.UI.CloseOnSelect = *raw.UI.CloseOnSelect
	}
	if raw.UI.Watch != nil {
		cfg.UI.Watch = *raw.UI.Watch
	}
	if raw.UI.ShowFooter != nil {
		cfg.UI.ShowFooter = *raw.UI.ShowFooter
	}

	if raw.Keymap.Overrides != nil {
		for k, v := range raw.Keymap.Overrides {
			cfg.Keymap.Overrides[k] = v
		}
	}
}

// ExpandPath expands ~ to home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDir, configFile)
}
