package pipeline

import (
	"context"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/edgebundle/pkg/cache"
	"github.com/matzehuels/edgebundle/pkg/errors"
)

// Cache backend names accepted in config files and flags.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNone   = "none"
)

// Config is the on-disk TOML configuration. All fields are optional;
// zero values fall back to the built-in defaults.
//
// Example:
//
//	[bundle]
//	cycles = 6
//	threshold = 0.6
//	normalize_weights = true
//
//	[cache]
//	backend = "redis"
//	url = "redis://localhost:6379/0"
type Config struct {
	Bundle BundleConfig `toml:"bundle"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// BundleConfig holds the simulation parameters. NormalizeWeights is a
// pointer because false is a meaningful setting: nil means "not set in the
// file", and only a written key overrides the default.
type BundleConfig struct {
	K                float64 `toml:"k"`
	Electrostatic    float64 `toml:"electrostatic"`
	Cycles           int     `toml:"cycles"`
	Threshold        float64 `toml:"threshold"`
	Iterations       int     `toml:"iterations"`
	StepSize         float64 `toml:"step_size"`
	InitialPoints    int     `toml:"initial_points"`
	IterationDecay   float64 `toml:"iteration_decay"`
	NormalizeWeights *bool   `toml:"normalize_weights"`
	Workers          int     `toml:"workers"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	// Backend is one of "file", "memory", "redis", "mongo", "none".
	// Empty selects the file backend.
	Backend string `toml:"backend"`

	// Dir is the cache directory for the file backend.
	Dir string `toml:"dir"`

	// URL is the connection URL for the redis backend.
	URL string `toml:"url"`

	// URI, Database and Collection configure the mongo backend.
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`

	// Scope prefixes all cache keys, for shared backends.
	Scope string `toml:"scope"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// LoadConfig reads a TOML config file. A missing path returns the zero
// Config without error so callers can treat the file as optional.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
	}
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parsing config file %s", path)
	}
	return cfg, nil
}

// Options converts the config into pipeline options, filling unset
// fields with defaults.
func (c Config) Options() Options {
	opts := DefaultOptions()
	b := c.Bundle
	if b.K != 0 {
		opts.K = b.K
	}
	if b.Electrostatic != 0 {
		opts.Electrostatic = b.Electrostatic
	}
	if b.Cycles != 0 {
		opts.Cycles = b.Cycles
	}
	if b.Threshold != 0 {
		opts.Threshold = b.Threshold
	}
	if b.Iterations != 0 {
		opts.Iterations = b.Iterations
	}
	if b.StepSize != 0 {
		opts.StepSize = b.StepSize
	}
	if b.InitialPoints != 0 {
		opts.InitialPoints = b.InitialPoints
	}
	if b.IterationDecay != 0 {
		opts.IterationDecay = b.IterationDecay
	}
	if b.NormalizeWeights != nil {
		opts.NormalizeWeights = *b.NormalizeWeights
	}
	opts.Workers = b.Workers
	return opts
}

// NewCache builds the cache backend described by the config.
// defaultDir is used for the file backend when no directory is set.
func (c CacheConfig) NewCache(ctx context.Context, defaultDir string) (cache.Cache, error) {
	switch c.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendMemory:
		return cache.NewMemoryCache(), nil
	case BackendRedis:
		if c.URL == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "redis cache requires a url")
		}
		return cache.NewRedisCache(ctx, c.URL)
	case BackendMongo:
		if c.URI == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo cache requires a uri")
		}
		db, coll := c.Database, c.Collection
		if db == "" {
			db = "edgebundle"
		}
		if coll == "" {
			coll = "cache"
		}
		return cache.NewMongoCache(ctx, c.URI, db, coll)
	case BackendFile, "":
		dir := c.Dir
		if dir == "" {
			dir = defaultDir
		}
		return cache.NewFileCache(dir)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend: %q", c.Backend)
	}
}

// Keyer builds the cache keyer, applying the scope prefix if set.
func (c CacheConfig) Keyer() cache.Keyer {
	keyer := cache.NewDefaultKeyer()
	if c.Scope != "" {
		keyer = cache.NewScopedKeyer(keyer, c.Scope)
	}
	return keyer
}
