package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default env var names for the credential pair.
const (
	DefaultKeyEnv   = "HERD_API_KEY"
	DefaultTokenEnv = "HERD_API_TOKEN"
)

// DefaultTimeoutSec is the per-request timeout when none is configured.
const DefaultTimeoutSec = 30

// Config is the root configuration for herd.
type Config struct {
	Version     int         `yaml:"version"`
	Board       Board       `yaml:"board"`
	Credentials Credentials `yaml:"credentials"`
	HTTP        HTTP        `yaml:"http"`
	Log         Log         `yaml:"log"`
}

// Board identifies the remote board.
type Board struct {
	ID      string `yaml:"id"`
	BaseURL string `yaml:"base_url,omitempty"` // empty = public Trello API
}

// Credentials holds the key/token pair, or the env vars that contain them.
// Inline values win over env vars.
type Credentials struct {
	KeyEnv   string `yaml:"key_env,omitempty"`
	TokenEnv string `yaml:"token_env,omitempty"`
	Key      string `yaml:"key,omitempty"`
	Token    string `yaml:"token,omitempty"`
}

// HTTP tunes the transport.
type HTTP struct {
	TimeoutSec int `yaml:"timeout_sec,omitempty"` // 0 = DefaultTimeoutSec
}

// Log configures diagnostics on stderr.
type Log struct {
	Level string `yaml:"level,omitempty"` // debug, info, warn, error
}

// Timeout returns the effective per-request timeout.
func (h HTTP) Timeout() time.Duration {
	if h.TimeoutSec > 0 {
		return time.Duration(h.TimeoutSec) * time.Second
	}
	return DefaultTimeoutSec * time.Second
}

// Load reads the config file at path, fills the gaps from the environment
// and validates the result. A missing file is not an error: everything can
// come from env vars.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to the given path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// DefaultConfig returns a starter config that reads credentials from the
// default env vars.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Credentials: Credentials{
			KeyEnv:   DefaultKeyEnv,
			TokenEnv: DefaultTokenEnv,
		},
		HTTP: HTTP{TimeoutSec: DefaultTimeoutSec},
		Log:  Log{Level: "warn"},
	}
}

// applyEnv overrides file values with HERD_* variables and resolves the
// credential env vars.
func (c *Config) applyEnv() {
	if val := os.Getenv("HERD_BOARD_ID"); val != "" {
		c.Board.ID = val
	}
	if val := os.Getenv("HERD_BASE_URL"); val != "" {
		c.Board.BaseURL = val
	}
	if val := os.Getenv("HERD_LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}

	if c.Credentials.KeyEnv == "" {
		c.Credentials.KeyEnv = DefaultKeyEnv
	}
	if c.Credentials.TokenEnv == "" {
		c.Credentials.TokenEnv = DefaultTokenEnv
	}
	if c.Credentials.Key == "" {
		c.Credentials.Key = os.Getenv(c.Credentials.KeyEnv)
	}
	if c.Credentials.Token == "" {
		c.Credentials.Token = os.Getenv(c.Credentials.TokenEnv)
	}
}

func (c *Config) validate() error {
	if c.Board.ID == "" {
		return fmt.Errorf("board id is required (board.id or HERD_BOARD_ID)")
	}
	if c.Credentials.Key == "" {
		return fmt.Errorf("api key is required (credentials.key or $%s)", c.Credentials.KeyEnv)
	}
	if c.Credentials.Token == "" {
		return fmt.Errorf("api token is required (credentials.token or $%s)", c.Credentials.TokenEnv)
	}
	if c.HTTP.TimeoutSec < 0 {
		return fmt.Errorf("http.timeout_sec must not be negative, got %d", c.HTTP.TimeoutSec)
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	return nil
}
