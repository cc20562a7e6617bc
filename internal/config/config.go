package config

// Config is the root configuration structure.
type Config struct {
	Lister ListerConfig `json:"lister"`
	Icons  IconsConfig  `json:"icons"`
	UI     UIConfig     `json:"ui"`
	Keymap KeymapConfig `json:"keymap"`
}

// ListerConfig selects and tunes the listing provider.
type ListerConfig struct {
	// Strategy is "tree-json", "tree-text" or "walk". "auto" (the default)
	// uses tree-json when tree(1) is installed, walk otherwise.
	Strategy string `json:"strategy"`
	// TreeBin overrides the tree binary path.
	TreeBin string `json:"treeBin"`
	// RespectIgnore passes --gitignore to the provider.
	RespectIgnore bool `json:"respectIgnore"`
	// DepthLimit is the initial depth limit for a fresh view.
	DepthLimit int `json:"depthLimit"`
	// ChunkSize caps entries handed to the view per scheduling tick.
	ChunkSize int `json:"chunkSize"`
}

// IconsConfig configures the icon overlay.
type IconsConfig struct {
	Enabled bool `json:"enabled"`
}

// UIConfig configures view behavior.
type UIConfig struct {
	// CloseOnSelect closes the view after a file is opened.
	CloseOnSelect bool `json:"closeOnSelect"`
	// Watch refreshes the listing on external filesystem changes.
	Watch bool `json:"watch"`
	// ShowFooter renders the keybinding footer.
	ShowFooter bool `json:"showFooter"`
}

// KeymapConfig holds key binding overrides, key -> action name.
type KeymapConfig struct {
	Overrides map[string]string `json:"overrides"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Lister: ListerConfig{
			Strategy:   "auto",
			DepthLimit: 1,
			ChunkSize:  256,
		},
		Icons: IconsConfig{
			Enabled: true,
		},
		UI: UIConfig{
			CloseOnSelect: true,
			Watch:         true,
			ShowFooter:    true,
		},
		Keymap: KeymapConfig{
			Overrides: make(map[string]string),
		},
	}
}

// Validate checks the configuration for errors, repairing what it can.
func (c *Config) Validate() error {
	switch c.Lister.Strategy {
	case "", "auto", "tree-json", "tree-text", "walk":
	default:
		return &StrategyError{Strategy: c.Lister.Strategy}
	}
	if c.Lister.DepthLimit < 1 {
		c.Lister.DepthLimit = 1
	}
	if c.Lister.ChunkSize <= 0 {
		c.Lister.ChunkSize = 256
	}
	return nil
}

// StrategyError reports an unrecognized lister strategy.
type StrategyError struct {
	Strategy string
}

func (e *StrategyError) Error() string {
	return "unknown lister strategy " + e.Strategy + " (want auto, tree-json, tree-text or walk)"
}
