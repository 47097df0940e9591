// Package config loads quill settings from a YAML file, .env files and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/pablasso/quill/internal/comment"
)

// Config holds user configuration persisted to disk.
type Config struct {
	// Author is recorded on new comments.
	Author string `yaml:"author,omitempty"`
	// DBPath is the SQLite database used when no server is configured.
	DBPath string `yaml:"db_path,omitempty"`
	// ServerURL points the client at a remote quill server.
	ServerURL string `yaml:"server_url,omitempty"`
	APIKey    string `yaml:"api_key,omitempty"`
	// Listen is the address used by `quill serve`.
	Listen string    `yaml:"listen,omitempty"`
	Log    LogConfig `yaml:"log,omitempty"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
	File   string `yaml:"file,omitempty"`
}

const (
	defaultListen   = "127.0.0.1:8787"
	defaultLogLevel = "info"
)

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Author: comment.DefaultAuthor,
		Listen: defaultListen,
		Log:    LogConfig{Level: defaultLogLevel, Format: "text"},
	}
}

// DefaultPath returns the path to the config file: ~/.config/quill/config.yaml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "quill", "config.yaml"), nil
}

// Load reads the config file at path, fills unset fields with defaults and
// applies QUILL_* environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("reading config: %w", err)
	default:
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
		cfg = merge(cfg, fileCfg)
	}

	applyEnv(&cfg)
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// LoadDotEnv loads variables from the given .env files (default: ./.env)
// without overriding variables already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// merge overlays the non-empty fields of override onto base.
func merge(base, override Config) Config {
	set := func(dst *string, v string) {
		if strings.TrimSpace(v) != "" {
			*dst = v
		}
	}

	set(&base.Author, override.Author)
	set(&base.DBPath, override.DBPath)
	set(&base.ServerURL, override.ServerURL)
	set(&base.APIKey, override.APIKey)
	set(&base.Listen, override.Listen)
	set(&base.Log.Level, override.Log.Level)
	set(&base.Log.Format, override.Log.Format)
	set(&base.Log.File, override.Log.File)
	return base
}

// envOverrides maps environment variables onto config fields.
var envOverrides = []struct {
	name  string
	field func(*Config) *string
}{
	{"QUILL_AUTHOR", func(c *Config) *string { return &c.Author }},
	{"QUILL_DB", func(c *Config) *string { return &c.DBPath }},
	{"QUILL_SERVER_URL", func(c *Config) *string { return &c.ServerURL }},
	{"QUILL_API_KEY", func(c *Config) *string { return &c.APIKey }},
	{"QUILL_LISTEN", func(c *Config) *string { return &c.Listen }},
	{"QUILL_LOG_LEVEL", func(c *Config) *string { return &c.Log.Level }},
	{"QUILL_LOG_FORMAT", func(c *Config) *string { return &c.Log.Format }},
	{"QUILL_LOG_FILE", func(c *Config) *string { return &c.Log.File }},
}

func applyEnv(cfg *Config) {
	for _, o := range envOverrides {
		if v := strings.TrimSpace(os.Getenv(o.name)); v != "" {
			*o.field(cfg) = v
		}
	}
}
