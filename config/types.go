package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Canvas  CanvasConfig  `mapstructure:"canvas"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Logging LoggingConfig `mapstructure:"logging"`

	// File is the config file that was read, empty if none was found
	File string `mapstructure:"-"`
}

// CanvasConfig holds Canvas API connection details
type CanvasConfig struct {
	URL       string        `mapstructure:"url"`
	Token     string        `mapstructure:"token"`
	AccountID int64         `mapstructure:"account_id"`
	PageSize  int           `mapstructure:"page_size"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// FetchConfig contains settings for the fetch commands
type FetchConfig struct {
	// AssignmentFilter picks the assignments "fetch subs" caches when no
	// assignment is named
	AssignmentFilter string `mapstructure:"assignment_filter"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
