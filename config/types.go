package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Search  SearchConfig  `mapstructure:"search"`
	Output  OutputConfig  `mapstructure:"output"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SearchConfig holds the PrepMod site and search parameters
type SearchConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	ShowAll      bool          `mapstructure:"show_all"`
	FromDate     string        `mapstructure:"from_date"`
	VenueName    string        `mapstructure:"venue_name"`
	Wait         bool          `mapstructure:"wait"`
	WaitInterval time.Duration `mapstructure:"wait_interval"`
	MaxPages     int           `mapstructure:"max_pages"`
	Timeout      time.Duration `mapstructure:"timeout"`
	// UserAgent defaults to cobweb/<version> when empty
	UserAgent string `mapstructure:"user_agent"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// FilterConfig contains the default filter and named presets
type FilterConfig struct {
	Default string            `mapstructure:"default"`
	Presets map[string]string `mapstructure:"presets"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
