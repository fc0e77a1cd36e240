// Package config loads circuitview settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/circuitview/config.toml (falling back
// to ~/.config) unless a path is given explicitly. A missing file yields
// [Default]; fields absent from the file keep their default values.
//
// Example:
//
//	[api]
//	base_url = "http://localhost:8001"
//	timeout = "10s"
//
//	[defaults]
//	entanglement = "circular"
//	reps = 3
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/circuitview/pkg/circuit/synth"
	"github.com/matzehuels/circuitview/pkg/errors"
	"github.com/matzehuels/circuitview/pkg/source"
	"github.com/matzehuels/circuitview/pkg/store"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Duration is a time.Duration written as a Go duration string ("10s").
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Config is the full settings file.
type Config struct {
	API      API      `toml:"api"`
	Defaults Defaults `toml:"defaults"`
	Canvas   Canvas   `toml:"canvas"`
	Cache    Cache    `toml:"cache"`
	Store    Store    `toml:"store"`
	Server   Server   `toml:"server"`
}

// API locates the classification backend.
type API struct {
	BaseURL string   `toml:"base_url"`
	Timeout Duration `toml:"timeout"`
	// Offline skips the backend and always uses synthetic circuits.
	Offline bool `toml:"offline"`
}

// Defaults are the circuit settings used when no flag is given.
type Defaults struct {
	Entanglement string `toml:"entanglement"`
	Reps         int    `toml:"reps"`
	Palette      string `toml:"palette"`
}

// Canvas is the default viewport. Zero means natural size.
type Canvas struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Cache selects the artifact cache backend.
type Cache struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	TTL           Duration `toml:"ttl"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
}

// Store configures the experiment log. An empty URI disables it.
type Store struct {
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// Server configures "circuitview serve".
type Server struct {
	Addr       string `toml:"addr"`
	MaxViewers int    `toml:"max_viewers"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		API: API{
			BaseURL: source.DefaultBaseURL,
			Timeout: Duration{source.DefaultTimeout},
		},
		Defaults: Defaults{
			Entanglement: string(synth.DefaultTopology),
			Reps:         source.DefaultReps,
			Palette:      "dark",
		},
		Cache: Cache{
			Backend:   CacheFile,
			TTL:       Duration{24 * time.Hour},
			RedisAddr: "localhost:6379",
		},
		Store: Store{
			Database: store.DefaultDatabase,
		},
		Server: Server{
			Addr:       ":8080",
			MaxViewers: 256,
		},
	}
}

// DefaultPath returns the config file location.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "circuitview", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "circuitview", "config.toml"), nil
}

// Load reads path over the defaults. An empty path uses [DefaultPath]; a
// missing file at the default path is not an error, but a missing explicit
// path is.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "unknown config key %q", undecoded[0].String())
	}
	return cfg, cfg.Validate()
}

// Validate checks values that would otherwise fail later.
func (c Config) Validate() error {
	if !c.API.Offline {
		if err := errors.ValidateURL(c.API.BaseURL); err != nil {
			return err
		}
	}
	if c.API.Timeout.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "api.timeout cannot be negative")
	}
	if _, err := c.Settings(); err != nil {
		return err
	}
	if err := errors.ValidateDimension("canvas.width", c.Canvas.Width); err != nil {
		return err
	}
	if err := errors.ValidateDimension("canvas.height", c.Canvas.Height); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "cache.backend must be file, redis, or none, got %q", c.Cache.Backend)
	}
	return nil
}

// Settings returns the configured default circuit settings.
func (c Config) Settings() (source.Settings, error) {
	return source.ParseSettings(c.Defaults.Entanglement, c.Defaults.Reps)
}
