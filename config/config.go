package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. COBWEB_SEARCH_WAIT=true
const EnvPrefix = "COBWEB"

// Load loads the configuration. A missing config file is not an error when
// no explicit path was given; defaults and environment overrides apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".cobweb"))
		}

		// Check /etc
		v.AddConfigPath("/etc/cobweb/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Search defaults
	v.SetDefault("search.base_url", "https://www.maimmunizations.org")
	v.SetDefault("search.show_all", false)
	v.SetDefault("search.from_date", "")
	v.SetDefault("search.venue_name", "")
	v.SetDefault("search.wait", false)
	v.SetDefault("search.wait_interval", "10s")
	v.SetDefault("search.max_pages", 0)
	v.SetDefault("search.timeout", "30s")
	v.SetDefault("search.user_agent", "")

	// Output defaults
	v.SetDefault("output.format", "text")

	// Filter defaults
	v.SetDefault("filter.default", "")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Search.BaseURL) == "" {
		return fmt.Errorf("search.base_url is required")
	}

	if cfg.Search.WaitInterval <= 0 {
		return fmt.Errorf("search.wait_interval must be positive, got %s", cfg.Search.WaitInterval)
	}

	if cfg.Search.Timeout <= 0 {
		return fmt.Errorf("search.timeout must be positive, got %s", cfg.Search.Timeout)
	}

	if cfg.Search.MaxPages < 0 {
		return fmt.Errorf("search.max_pages must not be negative, got %d", cfg.Search.MaxPages)
	}

	// Validate output format
	validOutputs := map[string]bool{
		"text":  true,
		"table": true,
	}
	if !validOutputs[strings.ToLower(cfg.Output.Format)] {
		return fmt.Errorf("invalid output format: %s", cfg.Output.Format)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
