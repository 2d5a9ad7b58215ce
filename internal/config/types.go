package config

import (
	"time"

	"github.com/raaihank/regex-splitter/internal/splitter"
)

// Config represents the main configuration structure
type Config struct {
	Splitter splitter.Config `yaml:"splitter" mapstructure:"splitter"`
	Logging  LoggingConfig   `yaml:"logging" mapstructure:"logging"`
	Watch    WatchConfig     `yaml:"watch" mapstructure:"watch"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json or console
	File   struct {
		Enabled    bool   `yaml:"enabled" mapstructure:"enabled"`
		Path       string `yaml:"path" mapstructure:"path"`
		MaxSize    int    `yaml:"max_size" mapstructure:"max_size"`
		MaxAge     int    `yaml:"max_age" mapstructure:"max_age"`
		MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
		Compress   bool   `yaml:"compress" mapstructure:"compress"`
	} `yaml:"file" mapstructure:"file"`
}

// WatchConfig contains watch mode configuration
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" mapstructure:"debounce"`
}

// GetDefaults returns a configuration with sensible defaults
func GetDefaults() *Config {
	config := &Config{
		Splitter: *splitter.DefaultConfig(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
	}
	config.Logging.File.Path = "logs/splitter.log"
	config.Logging.File.MaxSize = 100 // MB
	config.Logging.File.MaxAge = 30   // days
	config.Logging.File.MaxBackups = 5
	config.Logging.File.Compress = true
	return config
}
