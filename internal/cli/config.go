package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/modgraph/modgraph/pkg/render"
)

// Cache backend names accepted in the config file.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendNone  = "none"
)

// Config holds user preferences loaded from the TOML config file. Every
// field has a sensible zero-configuration default, so the file is optional.
type Config struct {
	Strict StrictConfig `toml:"strict"`
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
}

// StrictConfig controls optional validation strictness.
type StrictConfig struct {
	// SuggestedInCycles treats suggested relations as blocking in the
	// cycle check.
	SuggestedInCycles bool `toml:"suggested_in_cycles"`

	// GlobalNames requires module names to be unique across programmes.
	GlobalNames bool `toml:"global_names"`
}

// RenderConfig sets rendering defaults. Command-line flags override these.
type RenderConfig struct {
	RankDir string `toml:"rank_dir"`
	Reduce  bool   `toml:"reduce"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	// Backend is "file" (default), "redis", or "none".
	Backend string `toml:"backend"`

	// Dir overrides the file cache directory (default ~/.cache/modgraph).
	Dir string `toml:"dir"`

	// RedisAddr is the host:port of the Redis instance for the redis backend.
	RedisAddr string `toml:"redis_addr"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Render: RenderConfig{RankDir: render.DefaultRankDir},
		Cache:  CacheConfig{Backend: CacheBackendFile, RedisAddr: "localhost:6379"},
	}
}

// LoadConfig reads the TOML config from path, or from the default location
// if path is empty. A missing default file is not an error; an explicitly
// named file must exist.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		var err error
		path, err = defaultConfigPath()
		if err != nil {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case CacheBackendFile, CacheBackendRedis, CacheBackendNone:
	default:
		return fmt.Errorf("invalid cache backend: %q (must be file, redis, or none)", c.Cache.Backend)
	}
	if c.Render.RankDir != "" {
		if err := render.ValidateRankDir(c.Render.RankDir); err != nil {
			return err
		}
	}
	return nil
}

// defaultConfigPath returns the config location using XDG standard
// (~/.config/modgraph/config.toml).
func defaultConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
