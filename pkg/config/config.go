// Package config loads the optional diaglot configuration file.
//
// The file lives at ~/.config/diaglot/config.toml (or $DIAGLOT_CONFIG)
// and provides defaults for flags the CLI and server would otherwise
// take from the command line. Flags always win over file values.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the full file schema. Zero values mean "use the built-in
// default".
type Config struct {
	// Dialect forces a parse dialect instead of auto-detection.
	Dialect string `toml:"dialect"`

	// Format is the default render format.
	Format string `toml:"format"`

	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Fonts  FontConfig   `toml:"fonts"`
}

// CacheConfig controls the pipeline cache.
type CacheConfig struct {
	// Disabled turns caching off entirely.
	Disabled bool `toml:"disabled"`

	// Dir overrides the cache directory.
	Dir string `toml:"dir"`

	// RedisAddr switches the backend to Redis when set.
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// ServerConfig controls the serve command.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// FontConfig controls text measurement.
type FontConfig struct {
	// Estimate skips font loading and uses the character estimator.
	Estimate bool `toml:"estimate"`
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	if p := os.Getenv("DIAGLOT_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "diaglot", "config.toml")
}

// Load reads the config file at path. A missing file is not an error;
// it yields the zero config so every setting falls back to its
// built-in default. DIAGLOT_REDIS_ADDR overrides the file's redis
// address either way.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg.applyEnv(), nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg.applyEnv(), nil
	}
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg.applyEnv(), nil
}

func (c Config) applyEnv() Config {
	if addr := os.Getenv("DIAGLOT_REDIS_ADDR"); addr != "" {
		c.Cache.RedisAddr = addr
	}
	return c
}

// CacheDir returns the configured cache directory, defaulting to the
// user cache dir.
func (c Config) CacheDir() string {
	if c.Cache.Dir != "" {
		return c.Cache.Dir
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".diaglot-cache"
	}
	return filepath.Join(dir, "diaglot")
}
