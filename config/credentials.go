package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/s0up4200/staffeli/workspace"
)

// TokenFileNames are the files searched for an access token, closest first.
var TokenFileNames = []string{"token", "token.txt", ".token"}

// ErrNoToken indicates no credential source produced a token
var ErrNoToken = errors.New("no canvas access token found")

// Credentials is a resolved access token and where it came from.
type Credentials struct {
	Token  string
	Source string
}

// CredentialSource yields an access token, or "" if it has none.
type CredentialSource interface {
	Name() string
	Token() (string, error)
}

// ConfigSource reads canvas.token from the loaded configuration, which
// includes STAFFELI_CANVAS_TOKEN.
type ConfigSource struct {
	Config *Config
}

func (s ConfigSource) Name() string {
	if s.Config != nil && s.Config.File != "" {
		return "config " + s.Config.File
	}
	return "config"
}

func (s ConfigSource) Token() (string, error) {
	if s.Config == nil {
		return "", nil
	}
	return strings.TrimSpace(s.Config.Canvas.Token), nil
}

// TokenFileSource reads the closest token file in StartDir or its parents.
type TokenFileSource struct {
	StartDir string
	MaxDepth int

	found string
}

func (s *TokenFileSource) Name() string {
	if s.found != "" {
		return "token file " + s.found
	}
	return "token file"
}

func (s *TokenFileSource) Token() (string, error) {
	start := s.StartDir
	if start == "" {
		start = "."
	}

	path, err := workspace.FindAnyUpward(TokenFileNames, start, s.MaxDepth)
	if errors.Is(err, workspace.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	s.found = path
	return strings.TrimSpace(string(data)), nil
}

// DefaultSources are the configuration followed by the token file search
// from the working directory.
func DefaultSources(cfg *Config) []CredentialSource {
	return []CredentialSource{
		ConfigSource{Config: cfg},
		&TokenFileSource{MaxDepth: workspace.MaxSearchDepth},
	}
}

// ResolveCredentials returns the token of the first source that has one.
func ResolveCredentials(sources ...CredentialSource) (Credentials, error) {
	tried := make([]string, 0, len(sources))
	for _, src := range sources {
		token, err := src.Token()
		if err != nil {
			return Credentials{}, fmt.Errorf("%s: %w", src.Name(), err)
		}
		if token != "" {
			return Credentials{Token: token, Source: src.Name()}, nil
		}
		tried = append(tried, src.Name())
	}
	return Credentials{}, fmt.Errorf("%w: tried %s; set canvas.token or %s_CANVAS_TOKEN, or put a file named %s in this or a parent directory",
		ErrNoToken, strings.Join(tried, ", "), EnvPrefix, strings.Join(TokenFileNames, ", "))
}
