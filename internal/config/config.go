package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/raaihank/regex-splitter/internal/matcher"
	"github.com/raaihank/regex-splitter/internal/sink"
)

// EnvPrefix prefixes environment variable overrides, e.g. SPLITTER_LOGGING_LEVEL
const EnvPrefix = "SPLITTER"

// Load loads configuration from file and environment variables. A missing
// config file is not an error unless configPath names it explicitly.
func Load(configPath string) (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v, GetDefaults())

	v.SetConfigName("splitter")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("$HOME/.regex-splitter/")

	// Environment variable overrides
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Use specific config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
	}

	// Read configuration
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults registers every key so that environment overrides apply even
// when no config file sets them
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("splitter.default_output", d.Splitter.DefaultOutput)
	v.SetDefault("splitter.engine", d.Splitter.Engine)
	v.SetDefault("splitter.output_format", d.Splitter.OutputFormat)
	v.SetDefault("splitter.match_timeout", d.Splitter.MatchTimeout)
	v.SetDefault("splitter.pattern_cache_size", d.Splitter.PatternCacheSize)
	v.SetDefault("splitter.max_line_bytes", d.Splitter.MaxLineBytes)
	v.SetDefault("splitter.progress_report", d.Splitter.ProgressReport)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.file.enabled", d.Logging.File.Enabled)
	v.SetDefault("logging.file.path", d.Logging.File.Path)
	v.SetDefault("logging.file.max_size", d.Logging.File.MaxSize)
	v.SetDefault("logging.file.max_age", d.Logging.File.MaxAge)
	v.SetDefault("logging.file.max_backups", d.Logging.File.MaxBackups)
	v.SetDefault("logging.file.compress", d.Logging.File.Compress)

	v.SetDefault("watch.debounce", d.Watch.Debounce)
}

// validateConfig validates the loaded configuration
func validateConfig(config *Config) error {
	if _, err := matcher.ParseEngine(config.Splitter.Engine); err != nil {
		return err
	}

	if _, err := sink.ParseFormat(config.Splitter.OutputFormat); err != nil {
		return err
	}

	if config.Splitter.DefaultOutput == "" {
		return fmt.Errorf("splitter.default_output must not be empty")
	}

	if config.Splitter.MatchTimeout < 0 {
		return fmt.Errorf("invalid match timeout: %s", config.Splitter.MatchTimeout)
	}

	if config.Splitter.PatternCacheSize < 0 {
		return fmt.Errorf("invalid pattern cache size: %d", config.Splitter.PatternCacheSize)
	}

	if config.Splitter.MaxLineBytes <= 0 {
		return fmt.Errorf("invalid max line bytes: %d", config.Splitter.MaxLineBytes)
	}

	if config.Logging.Level != "debug" && config.Logging.Level != "info" && config.Logging.Level != "warn" && config.Logging.Level != "error" {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", config.Logging.Level)
	}

	if config.Logging.Format != "json" && config.Logging.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", config.Logging.Format)
	}

	if config.Watch.Debounce < 0 {
		return fmt.Errorf("invalid watch debounce: %s", config.Watch.Debounce)
	}

	return nil
}
