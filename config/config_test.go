package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Canvas: CanvasConfig{
			URL:      "https://absalon.ku.dk/",
			PageSize: 100,
			Timeout:  30 * time.Second,
		},
		Fetch: FetchConfig{
			AssignmentFilter: `grading_type != "not_graded"`,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "missing url",
			mutate:  func(c *Config) { c.Canvas.URL = "" },
			wantErr: "canvas.url is required",
		},
		{
			name:    "relative url",
			mutate:  func(c *Config) { c.Canvas.URL = "absalon.ku.dk" },
			wantErr: "absolute URL",
		},
		{
			name:    "zero page size",
			mutate:  func(c *Config) { c.Canvas.PageSize = 0 },
			wantErr: "canvas.page_size",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Canvas.Timeout = 0 },
			wantErr: "canvas.timeout",
		},
		{
			name:    "bad filter",
			mutate:  func(c *Config) { c.Fetch.AssignmentFilter = `grading_type ==` },
			wantErr: "fetch.assignment_filter",
		},
		{
			name:    "bad level",
			mutate:  func(c *Config) { c.Logging.Level = "trace" },
			wantErr: "invalid logging level: trace",
		},
		{
			name:    "bad format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "invalid logging format: xml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "staffeli.yaml")
	content := `canvas:
  url: https://canvas.example.edu
  token: from-file
  account_id: 12
  page_size: 50
  timeout: 5s
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://canvas.example.edu", cfg.Canvas.URL)
	assert.Equal(t, "from-file", cfg.Canvas.Token)
	assert.Equal(t, int64(12), cfg.Canvas.AccountID)
	assert.Equal(t, 50, cfg.Canvas.PageSize)
	assert.Equal(t, 5*time.Second, cfg.Canvas.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, path, cfg.File)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://absalon.ku.dk/", cfg.Canvas.URL)
	assert.Empty(t, cfg.Canvas.Token)
	assert.Equal(t, 100, cfg.Canvas.PageSize)
	assert.Equal(t, 30*time.Second, cfg.Canvas.Timeout)
	assert.Equal(t, `grading_type != "not_graded"`, cfg.Fetch.AssignmentFilter)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Color)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())
	t.Setenv("STAFFELI_CANVAS_TOKEN", "from-env")
	t.Setenv("STAFFELI_CANVAS_ACCOUNT_ID", "7")
	t.Setenv("STAFFELI_LOGGING_FORMAT", "json")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Canvas.Token)
	assert.Equal(t, int64(7), cfg.Canvas.AccountID)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestResolveCredentials(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "course", "subs")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "token.txt"), []byte("  file-token\n"), 0o600))

	t.Run("config wins", func(t *testing.T) {
		cfg := validConfig()
		cfg.Canvas.Token = "config-token"
		creds, err := ResolveCredentials(ConfigSource{Config: cfg}, &TokenFileSource{StartDir: sub, MaxDepth: 9})
		require.NoError(t, err)
		assert.Equal(t, "config-token", creds.Token)
		assert.Equal(t, "config", creds.Source)
	})

	t.Run("token file from a parent", func(t *testing.T) {
		creds, err := ResolveCredentials(ConfigSource{Config: validConfig()}, &TokenFileSource{StartDir: sub, MaxDepth: 9})
		require.NoError(t, err)
		assert.Equal(t, "file-token", creds.Token)
		assert.Contains(t, creds.Source, "token.txt")
	})

	t.Run("nothing found", func(t *testing.T) {
		_, err := ResolveCredentials(ConfigSource{Config: validConfig()}, &TokenFileSource{StartDir: sub, MaxDepth: 1})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNoToken))
		assert.Contains(t, err.Error(), "token, token.txt, .token")
	})
}

// chdir changes the working directory for the duration of the test
// (equivalent to testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
