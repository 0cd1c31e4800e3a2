package config

import (
	"os"
	"path/filepath"
	"testing"
)

type mapEnv map[string]string

func (m mapEnv) Getenv(key string) string { return m[key] }

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	cfg := &Config{BaseURL: "https://admin.example.com/api", DefaultProfile: "work"}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.DefaultProfile != "work" {
		t.Errorf("DefaultProfile = %q, want %q", loaded.DefaultProfile, "work")
	}
	if loaded.BaseURL != "https://admin.example.com/api" {
		t.Errorf("BaseURL = %q", loaded.BaseURL)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("/nonexistent/config.toml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestSavePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	if err := Save(path, &Config{DefaultProfile: "main"}); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	perm := info.Mode().Perm()
	if perm != 0600 {
		t.Errorf("file permission = %o, want 0600", perm)
	}
}

func TestResolveDefaults(t *testing.T) {
	cfg, err := Resolve(filepath.Join(t.TempDir(), "missing.toml"), mapEnv{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, DefaultBaseURL)
	}
	if cfg.StorageKey != "adminToken" {
		t.Errorf("StorageKey = %q, want adminToken", cfg.StorageKey)
	}
	if cfg.PageSize != 20 {
		t.Errorf("PageSize = %d, want 20", cfg.PageSize)
	}
}

func TestResolvePrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := Save(path, &Config{BaseURL: "http://file.local/api", PageSize: 50, LogLevel: "warn"}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		env      mapEnv
		wantURL  string
		wantLvl  string
		wantSize int
	}{
		{"file only", mapEnv{}, "http://file.local/api", "warn", 50},
		{"env wins", mapEnv{EnvBaseURL: "http://env.local/api", EnvLogLevel: "debug"}, "http://env.local/api", "debug", 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Resolve(path, tt.env)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if cfg.BaseURL != tt.wantURL {
				t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, tt.wantURL)
			}
			if cfg.LogLevel != tt.wantLvl {
				t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, tt.wantLvl)
			}
			if cfg.PageSize != tt.wantSize {
				t.Errorf("PageSize = %d, want %d", cfg.PageSize, tt.wantSize)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"relative base", func(c *Config) { c.BaseURL = "/api" }, true},
		{"ftp scheme", func(c *Config) { c.BaseURL = "ftp://host/api" }, true},
		{"empty storage key", func(c *Config) { c.StorageKey = "" }, true},
		{"zero page size", func(c *Config) { c.PageSize = 0 }, true},
		{"huge page size", func(c *Config) { c.PageSize = 500 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
