package config

import "path/filepath"

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level" json:"level,omitempty"`           // debug, info, warn, error
	DebugMode  bool            `yaml:"debug_mode" json:"debug_mode,omitempty"` // per-category log files
	Dir        string          `yaml:"dir" json:"dir,omitempty"`               // defaults to .prebuild/logs
	Categories map[string]bool `yaml:"categories" json:"categories,omitempty"` // Per-category toggles
}

// LogsDir returns the directory for per-category log files.
func (c *LoggingConfig) LogsDir() string {
	if c.Dir != "" {
		return c.Dir
	}
	return filepath.Join(".prebuild", "logs")
}
