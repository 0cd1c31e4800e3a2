package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultBaseURL is used when neither config.toml nor SHLOK_API_URL set a backend.
	DefaultBaseURL = "http://localhost:5000/api"
	// DefaultStorageKey names the persisted credential.
	DefaultStorageKey = "adminToken"
	// DefaultPageSize is the fixed page size of the paginated resources.
	DefaultPageSize = 20

	EnvBaseURL  = "SHLOK_API_URL"
	EnvLogLevel = "SHLOK_LOG_LEVEL"
)

// Config represents the global ~/.shlokadmin/config.toml.
type Config struct {
	BaseURL        string `toml:"base_url"`
	StorageKey     string `toml:"storage_key"`
	PageSize       int    `toml:"page_size"`
	LogLevel       string `toml:"log_level"`
	DefaultProfile string `toml:"default_profile"`
}

// Env abstracts environment lookups so tests can inject values.
type Env interface {
	Getenv(key string) string
}

type osEnv struct{}

func (osEnv) Getenv(key string) string { return os.Getenv(key) }

// OSEnv returns an Env backed by the process environment.
func OSEnv() Env { return osEnv{} }

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		BaseURL:    DefaultBaseURL,
		StorageKey: DefaultStorageKey,
		PageSize:   DefaultPageSize,
		LogLevel:   "info",
	}
}

// Load reads config from the given path. Returns zero config and error if file missing.
func Load(path string) (*Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}

// Resolve layers defaults, the config file at path (if present) and the
// environment, in that order, then validates the result.
func Resolve(path string, env Env) (*Config, error) {
	cfg := Default()

	if path != "" {
		fileCfg, err := Load(path)
		switch {
		case err == nil:
			cfg.merge(fileCfg)
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	if env != nil {
		if v := env.Getenv(EnvBaseURL); v != "" {
			cfg.BaseURL = v
		}
		if v := env.Getenv(EnvLogLevel); v != "" {
			cfg.LogLevel = v
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the resolved values.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid base_url %q: must be an absolute http(s) URL", c.BaseURL)
	}
	if c.StorageKey == "" {
		return fmt.Errorf("storage_key must not be empty")
	}
	if c.PageSize < 1 || c.PageSize > 200 {
		return fmt.Errorf("invalid page_size %d: must be within 1..200", c.PageSize)
	}
	return nil
}

func (c *Config) merge(o *Config) {
	if o.BaseURL != "" {
		c.BaseURL = o.BaseURL
	}
	if o.StorageKey != "" {
		c.StorageKey = o.StorageKey
	}
	if o.PageSize != 0 {
		c.PageSize = o.PageSize
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.DefaultProfile != "" {
		c.DefaultProfile = o.DefaultProfile
	}
}
