package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/example/ledger/internal/ledger"
)

// EnvPrefix prefixes every environment override, e.g. LEDGER_STORE_PATH.
const EnvPrefix = "LEDGER"

// Config represents the application configuration
type Config struct {
	Store StoreConfig `mapstructure:"store"`
	Log   LogConfig   `mapstructure:"log"`
}

// StoreConfig locates the ledger file
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig controls the CLI logger
type LogConfig struct {
	Level  string `mapstructure:"level"`  // zerolog level name
	Format string `mapstructure:"format"` // "console" or "json"
}

// LoadConfig loads configuration from an optional TOML file and environment
// variables. An empty configPath uses defaults and the environment only.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("store.path", "finance_data.csv")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Store.Path) == "" {
		return fmt.Errorf("invalid config: store.path is empty")
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid config: log.level %q: %w", c.Log.Level, err)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid config: log.format %q must be console or json", c.Log.Format)
	}
	return nil
}

// Ledger returns the store configuration for the ledger file
func (c *Config) Ledger() ledger.Config {
	return ledger.DefaultConfig(c.Store.Path)
}
