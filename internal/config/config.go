// Package config handles configuration management for relaykit.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Counter CounterConfig `mapstructure:"counter" yaml:"counter"`
	Journal JournalConfig `mapstructure:"journal" yaml:"journal"`
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // "console" or "json"
}

// CounterConfig holds the served counter's configuration.
type CounterConfig struct {
	Initial    int    `mapstructure:"initial" yaml:"initial"`
	InputFile  string `mapstructure:"input_file" yaml:"input_file"` // Optional: file whose integer content drives the counter
	DebounceMS int    `mapstructure:"debounce_ms" yaml:"debounce_ms"`
}

// JournalConfig holds value journal configuration.
type JournalConfig struct {
	Enabled      bool   `mapstructure:"enabled" yaml:"enabled"`
	Path         string `mapstructure:"path" yaml:"path"` // Empty means <config dir>/journal.db
	HistoryLimit int    `mapstructure:"history_limit" yaml:"history_limit"`
}

// Load loads configuration from files and environment.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.relaykit")
		v.AddConfigPath("/etc/relaykit")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - not an error if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := postProcess(&cfg); err != nil {
		return nil, err
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Counter: CounterConfig{
			DebounceMS: DefaultDebounceMS,
		},
		Journal: JournalConfig{
			HistoryLimit: DefaultHistoryLimit,
		},
	}
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", DefaultHost)
	v.SetDefault("server.port", DefaultPort)

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)

	v.SetDefault("counter.initial", 0)
	v.SetDefault("counter.input_file", "")
	v.SetDefault("counter.debounce_ms", DefaultDebounceMS)

	v.SetDefault("journal.enabled", false)
	v.SetDefault("journal.path", "")
	v.SetDefault("journal.history_limit", DefaultHistoryLimit)
}

// postProcess applies post-processing to configuration.
func postProcess(cfg *Config) error {
	if cfg.Counter.InputFile != "" {
		abs, err := filepath.Abs(cfg.Counter.InputFile)
		if err != nil {
			return fmt.Errorf("failed to resolve counter.input_file: %w", err)
		}
		cfg.Counter.InputFile = abs
	}

	if cfg.Journal.Enabled && cfg.Journal.Path == "" {
		dir, err := GetConfigDir()
		if err != nil {
			return fmt.Errorf("failed to resolve journal.path: %w", err)
		}
		cfg.Journal.Path = filepath.Join(dir, DefaultJournalFile)
	}

	return nil
}

// GetConfigDir returns the user config directory for relaykit.
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".relaykit"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
