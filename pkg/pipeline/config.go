package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/layerview/pkg/cache"
	"github.com/matzehuels/layerview/pkg/errors"
	"github.com/matzehuels/layerview/pkg/layout"
)

// Cache backends.
const (
	BackendFile   = "file"
	BackendNone   = "none"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"
)

// Environment variables that select a remote cache backend. They override
// the config file.
const (
	EnvRedisURL = "LAYERVIEW_REDIS_URL"
	EnvMongoURI = "LAYERVIEW_MONGO_URI"
)

// Config is the layerview.toml file.
//
//	[layout]
//	max_width = 6
//
//	[render]
//	formats = ["svg", "json"]
//
//	[cache]
//	backend = "redis"
//	url = "redis://localhost:6379/0"
//	ttl = "72h"
//
//	[server]
//	addr = ":8080"
type Config struct {
	Layout layout.Options `toml:"layout"`
	Render RenderConfig   `toml:"render"`
	Cache  CacheConfig    `toml:"cache"`
	Server ServerConfig   `toml:"server"`
}

// RenderConfig holds the default render options.
type RenderConfig struct {
	Formats    []string `toml:"formats"`
	Detailed   bool     `toml:"detailed"`
	HideRelays bool     `toml:"hide_relays"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend  string `toml:"backend"`  // file, none, sqlite, redis or mongo
	URL      string `toml:"url"`      // Server URL, or the database file for sqlite
	Database string `toml:"database"` // Mongo only
	Prefix   string `toml:"prefix"`   // Key namespace
	TTL      string `toml:"ttl"`      // Go duration; empty means the default
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr         string  `toml:"addr"`
	Rate         float64 `toml:"rate"`  // Requests per second
	Burst        int     `toml:"burst"` // Requests allowed at once
	MaxBodyBytes int64   `toml:"max_body_bytes"`
	Timeout      string  `toml:"timeout"` // Per-request layout timeout
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() Config {
	return Config{
		Layout: layout.DefaultOptions(),
		Render: RenderConfig{Formats: []string{FormatSVG}},
		Cache:  CacheConfig{Backend: BackendFile, Database: "layerview"},
		Server: ServerConfig{
			Addr:         ":8080",
			Rate:         10,
			Burst:        20,
			MaxBodyBytes: 1 << 20,
			Timeout:      "30s",
		},
	}
}

// LoadConfig reads a TOML config file over the defaults. An empty path
// loads only the defaults. Unknown keys are rejected. Environment
// variables are applied last.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", path)
		}
		if err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q in %s", undecoded[0].String(), path)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if url := os.Getenv(EnvRedisURL); url != "" {
		c.Cache.Backend = BackendRedis
		c.Cache.URL = url
	} else if uri := os.Getenv(EnvMongoURI); uri != "" {
		c.Cache.Backend = BackendMongo
		c.Cache.URL = uri
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	if err := ValidateFormats(c.Render.Formats); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case "", BackendFile, BackendNone:
	case BackendSQLite:
		if c.Cache.URL != "" {
			if err := errors.ValidatePath(c.Cache.URL); err != nil {
				return err
			}
		}
	case BackendRedis, BackendMongo:
		if err := errors.ValidateURL(c.Cache.URL); err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (must be one of: file, none, sqlite, redis, mongo)", c.Cache.Backend)
	}
	if _, err := c.Cache.TTLDuration(); err != nil {
		return err
	}
	if _, err := c.Server.TimeoutDuration(); err != nil {
		return err
	}
	if c.Server.Rate <= 0 || c.Server.Burst < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "server rate must be positive and burst at least 1")
	}
	return nil
}

// Options returns pipeline options seeded from the config.
func (c Config) Options() Options {
	return Options{
		MaxWidth:       c.Layout.MaxWidth,
		MaxRounds:      c.Layout.MaxRounds,
		TransposeAfter: c.Layout.TransposeAfter,
		LayerSpacing:   c.Layout.LayerSpacing,
		VertexSpacing:  c.Layout.VertexSpacing,
		Formats:        append([]string(nil), c.Render.Formats...),
		Detailed:       c.Render.Detailed,
		HideRelays:     c.Render.HideRelays,
	}
}

// TTLDuration parses the TTL. An empty TTL returns zero, meaning the
// default lifetime.
func (c CacheConfig) TTLDuration() (time.Duration, error) {
	return parseDuration("cache ttl", c.TTL)
}

// TimeoutDuration parses the request timeout.
func (c ServerConfig) TimeoutDuration() (time.Duration, error) {
	return parseDuration("server timeout", c.Timeout)
}

func parseDuration(name, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "invalid %s %q", name, s)
	}
	return d, nil
}

// Keyer returns the keyer for the configured prefix.
func (c CacheConfig) Keyer() cache.Keyer {
	if c.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Prefix)
}

// OpenCache opens the configured backend. dir is the file cache directory;
// the sqlite backend keeps its database there unless a URL names a file.
func OpenCache(ctx context.Context, c CacheConfig, dir string) (cache.Cache, error) {
	switch c.Backend {
	case "", BackendFile:
		return cache.NewFileCache(dir)
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendSQLite:
		path := c.URL
		if path == "" {
			path = filepath.Join(dir, "cache.db")
		}
		return cache.NewSQLiteCache(ctx, path)
	case BackendRedis:
		return cache.NewRedisCache(ctx, c.URL)
	case BackendMongo:
		return cache.NewMongoCache(ctx, c.URL, c.Database)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Backend)
	}
}

// NewRunnerFromConfig opens the configured cache and returns a runner on it.
// The caller closes the runner.
func NewRunnerFromConfig(ctx context.Context, cfg Config, dir string, logger *log.Logger) (*Runner, error) {
	c, err := OpenCache(ctx, cfg.Cache, dir)
	if err != nil {
		return nil, err
	}
	ttl, err := cfg.Cache.TTLDuration()
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	r := NewRunner(c, cfg.Cache.Keyer(), logger)
	r.TTL = ttl
	if logger != nil {
		logger.Debug("opened cache", "backend", cfg.Cache.Backend)
	}
	return r, nil
}
