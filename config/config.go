package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/s0up4200/staffeli/canvas"
	"github.com/s0up4200/staffeli/filter"
)

// EnvPrefix prefixes environment overrides, e.g. STAFFELI_CANVAS_TOKEN.
const EnvPrefix = "STAFFELI"

// Load loads the configuration from file and environment. Without an
// explicit path a missing config file is not an error.
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
		v.SetConfigName("staffeli")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "staffeli"))
		}

		// Check /etc
		v.AddConfigPath("/etc/staffeli/")
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
	cfg.File = v.ConfigFileUsed()

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values. Every key needs one so
// that AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	// Canvas defaults
	v.SetDefault("canvas.url", "https://absalon.ku.dk/")
	v.SetDefault("canvas.token", "")
	v.SetDefault("canvas.account_id", 0)
	v.SetDefault("canvas.page_size", canvas.DefaultPageSize)
	v.SetDefault("canvas.timeout", canvas.DefaultTimeout)

	// Fetch defaults
	v.SetDefault("fetch.assignment_filter", filter.DefaultAssignmentFilter)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Canvas.URL == "" {
		return fmt.Errorf("canvas.url is required")
	}
	if u, err := url.Parse(cfg.Canvas.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("canvas.url must be an absolute URL: %s", cfg.Canvas.URL)
	}

	if cfg.Canvas.PageSize <= 0 {
		return fmt.Errorf("canvas.page_size must be positive: %d", cfg.Canvas.PageSize)
	}
	if cfg.Canvas.Timeout <= 0 {
		return fmt.Errorf("canvas.timeout must be positive: %s", cfg.Canvas.Timeout)
	}
	if cfg.Canvas.AccountID < 0 {
		return fmt.Errorf("canvas.account_id must not be negative: %d", cfg.Canvas.AccountID)
	}

	if cfg.Fetch.AssignmentFilter != "" {
		if _, err := filter.Compile(cfg.Fetch.AssignmentFilter); err != nil {
			return fmt.Errorf("invalid fetch.assignment_filter: %w", err)
		}
	}

	// Validate logging level
	validLevels := map[string]bool{
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
