// Package config loads the visionspec configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/visionspec/config.toml
// (falling back to ~/.config/visionspec/config.toml). VISIONSPEC_CONFIG
// names another file. A missing file yields [Default]; a broken one is an
// error. A handful of deployment settings can also be set from the
// environment, which wins over the file:
//
//	VISIONSPEC_ADDR        server.addr
//	VISIONSPEC_REDIS_ADDR  redis.addr
//	VISIONSPEC_MONGO_URI   mongo.uri
//	BASE_TVS_FILE          catalog
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/visionspec/visionspec/pkg/catalog"
)

const (
	appName        = "visionspec"
	configFileName = "config.toml"

	// EnvConfig overrides the config file path.
	EnvConfig = "VISIONSPEC_CONFIG"

	envAddr      = "VISIONSPEC_ADDR"
	envRedisAddr = "VISIONSPEC_REDIS_ADDR"
	envMongoURI  = "VISIONSPEC_MONGO_URI"
)

// Config holds every user-tunable setting.
type Config struct {
	// Catalog is the size catalog path; empty means catalog.Resolve.
	Catalog string       `toml:"catalog"`
	Render  RenderConfig `toml:"render"`
	Server  ServerConfig `toml:"server"`
	Redis   RedisConfig  `toml:"redis"`
	Mongo   MongoConfig  `toml:"mongo"`
}

// RenderConfig controls report layout.
type RenderConfig struct {
	// Scale in points per meter; 0 fits the ceiling span to each slot.
	Scale        float64 `toml:"scale"`
	SlotsPerPage int     `toml:"slots_per_page"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr       string `toml:"addr"`
	RateLimit  int    `toml:"rate_limit"`
	RateWindow string `toml:"rate_window"`
}

// RedisConfig enables the Redis report cache when Addr is set. KeyPrefix
// namespaces every key, for deployments sharing one instance.
type RedisConfig struct {
	Addr      string `toml:"addr"`
	Password  string `toml:"password"`
	DB        int    `toml:"db"`
	KeyPrefix string `toml:"key_prefix"`
}

// MongoConfig enables the MongoDB study store when URI is set.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Render: RenderConfig{SlotsPerPage: 2},
		Server: ServerConfig{Addr: ":8080", RateLimit: 60, RateWindow: "1m"},
		Mongo:  MongoConfig{Database: appName},
	}
}

// RateWindowDuration parses Server.RateWindow, defaulting to one minute.
func (c Config) RateWindowDuration() (time.Duration, error) {
	if strings.TrimSpace(c.Server.RateWindow) == "" {
		return time.Minute, nil
	}
	d, err := time.ParseDuration(c.Server.RateWindow)
	if err != nil {
		return 0, fmt.Errorf("invalid server.rate_window: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid server.rate_window: must be positive, got %s", d)
	}
	return d, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Render.Scale < 0 {
		return fmt.Errorf("invalid render.scale: must not be negative, got %g", c.Render.Scale)
	}
	if c.Render.SlotsPerPage < 1 {
		return fmt.Errorf("invalid render.slots_per_page: must be at least 1, got %d", c.Render.SlotsPerPage)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("invalid server.rate_limit: must not be negative, got %d", c.Server.RateLimit)
	}
	_, err := c.RateWindowDuration()
	return err
}

// Path returns the config file path.
func Path() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, configFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", appName, configFileName), nil
}

// Load reads the config file at [Path].
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, err
	}
	return LoadFile(path)
}

// LoadFile reads the config file at path. Keys absent from the file keep
// their defaults; environment overrides are applied last.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	default:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if cfg.Catalog != "" {
		if cfg.Catalog, err = expandHome(cfg.Catalog); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg to path as TOML, creating parent directories.
func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(envAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(envRedisAddr); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv(envMongoURI); v != "" {
		c.Mongo.URI = v
	}
	if v := os.Getenv(catalog.EnvFile); v != "" {
		c.Catalog = v
	}
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/")), nil
}
