// Package config handles the XDG configuration directory, client state file
// paths, and the backend base URL.
package config

import (
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v9"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "todoctl"

	// ConfigFile is the optional settings filename.
	ConfigFile = "config.yaml"

	// TokenFile is the stored bearer token filename.
	TokenFile = "token.json"

	// UserIDFile caches the signed-in account id between runs.
	UserIDFile = "user_id"

	// ChatSessionFile holds the chat transcript and thread id.
	ChatSessionFile = "chat_session.json"

	// DefaultBaseURL is used when neither config.yaml nor the environment
	// names a backend.
	DefaultBaseURL = "http://localhost:8000"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// BaseURL is the backend API base URL.
	BaseURL string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// fileSettings is the config.yaml schema.
type fileSettings struct {
	APIURL string `yaml:"api_url"`
}

// envSettings are environment overrides, applied after config.yaml.
type envSettings struct {
	APIURL    string `env:"TODOCTL_API_URL"`
	ConfigDir string `env:"TODOCTL_CONFIG_DIR"`
}

// New creates a Config with the default or specified config directory and
// resolves the base URL: built-in default, then config.yaml, then environment.
func New(configDir string) (*Config, error) {
	var overrides envSettings
	if err := env.Parse(&overrides); err != nil {
		return nil, err
	}

	dir := configDir
	if dir == "" {
		dir = overrides.ConfigDir
	}
	if dir == "" {
		dir = DefaultConfigDir()
	}

	cfg := &Config{Dir: dir, BaseURL: DefaultBaseURL}

	if data, err := os.ReadFile(filepath.Join(dir, ConfigFile)); err == nil {
		var fs fileSettings
		if err := yaml.Unmarshal(data, &fs); err != nil {
			return nil, err
		}
		if fs.APIURL != "" {
			cfg.BaseURL = fs.APIURL
		}
	}

	if overrides.APIURL != "" {
		cfg.BaseURL = overrides.APIURL
	}

	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// TokenPath returns the path to the stored bearer token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// UserIDPath returns the path to the cached user id file.
func (c *Config) UserIDPath() string {
	return filepath.Join(c.Dir, UserIDFile)
}

// ChatSessionPath returns the path to the persisted chat transcript.
func (c *Config) ChatSessionPath() string {
	return filepath.Join(c.Dir, ChatSessionFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}
