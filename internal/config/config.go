// Package config loads the graphgen TOML configuration file.
//
// Every section is optional. A missing file yields [Default]; command-line
// flags override the loaded values.
//
//	[generate]
//	max_depth = 5
//	new_vertices_num = 3
//	workers = 4
//	seed = 0
//
//	[probabilities]
//	green = 0.1
//	blue = 0.25
//	yellow = 1.0
//	red = 0.33
//
//	[cache]
//	backend = "file"        # file, redis or none
//	dir = "~/.cache/graphgen"
//	redis_addr = "localhost:6379"
//
//	[archive]
//	mongo_uri = "mongodb://localhost:27017"
//
//	[server]
//	addr = ":8080"
//
//	[log]
//	file = "graphgen.log"
//	max_size = 10           # megabytes
//	max_age = 28            # days
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/natefinch/lumberjack"

	"github.com/matzehuels/graphgen/pkg/archive"
	"github.com/matzehuels/graphgen/pkg/cache"
	errs "github.com/matzehuels/graphgen/pkg/errors"
	"github.com/matzehuels/graphgen/pkg/generator"
	"github.com/matzehuels/graphgen/pkg/pipeline"
)

const appName = "graphgen"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Backends lists the accepted [cache].backend values.
var Backends = []string{BackendFile, BackendRedis, BackendNone}

// DefaultServerAddr is the listen address of "graphgen serve".
const DefaultServerAddr = ":8080"

// Config is the parsed configuration file.
type Config struct {
	Generate      GenerateConfig           `toml:"generate"`
	Probabilities *generator.Probabilities `toml:"probabilities"`
	Cache         CacheConfig              `toml:"cache"`
	Archive       ArchiveConfig            `toml:"archive"`
	Server        ServerConfig             `toml:"server"`
	Log           LogConfig                `toml:"log"`

	// Path is the file the configuration was read from, if any.
	Path string `toml:"-"`
}

type GenerateConfig struct {
	MaxDepth       int    `toml:"max_depth"`
	NewVerticesNum *int   `toml:"new_vertices_num"`
	Workers        int    `toml:"workers"`
	MaxVertices    int    `toml:"max_vertices"`
	Seed           uint64 `toml:"seed"`
}

type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	Prefix        string `toml:"prefix"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

type ArchiveConfig struct {
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

// LogConfig configures an optional rotating log file.
type LogConfig struct {
	File    string `toml:"file"`
	MaxSize int    `toml:"max_size"` // megabytes
	MaxAge  int    `toml:"max_age"`  // days
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Generate: GenerateConfig{
			MaxDepth: pipeline.DefaultMaxDepth,
			Workers:  pipeline.DefaultWorkers,
		},
		Cache:  CacheConfig{Backend: BackendFile},
		Server: ServerConfig{Addr: DefaultServerAddr},
	}
}

// DefaultPath returns the config file location using the XDG standard
// (~/.config/graphgen/config.toml).
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// DefaultCacheDir returns the cache directory using the XDG standard
// (~/.cache/graphgen/).
func DefaultCacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Load reads the configuration file at path on top of [Default].
// An empty path reads [DefaultPath] if that file exists. An explicit path
// that does not exist is an error. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return Default(), nil
	}
	if err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errs.New(errs.ErrCodeInvalidInput, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path

	cfg.convertPathsToAbsolute(filepath.Dir(path))
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// convertPathsToAbsolute resolves relative file settings against the
// directory holding the config file.
func (c *Config) convertPathsToAbsolute(dir string) {
	for _, p := range []*string{&c.Cache.Dir, &c.Log.File} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}

// Validate checks enumerated and bounded settings.
func (c Config) Validate() error {
	if !slices.Contains(Backends, c.Cache.Backend) {
		return errs.New(errs.ErrCodeInvalidInput, "cache backend %q must be one of %s", c.Cache.Backend, strings.Join(Backends, ", "))
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisAddr == "" {
		return errs.New(errs.ErrCodeInvalidInput, "cache backend redis needs redis_addr")
	}
	if c.Probabilities != nil {
		if err := c.Probabilities.Validate(); err != nil {
			return err
		}
	}
	if c.Generate.MaxDepth < 0 || c.Generate.Workers < 0 || c.Generate.MaxVertices < 0 {
		return errs.New(errs.ErrCodeInvalidParams, "generate settings must not be negative")
	}
	return nil
}

// PipelineOptions returns pipeline options seeded from the [generate] and
// [probabilities] sections.
func (c Config) PipelineOptions() pipeline.Options {
	opts := pipeline.Options{
		MaxDepth:    c.Generate.MaxDepth,
		Workers:     c.Generate.Workers,
		MaxVertices: c.Generate.MaxVertices,
		Seed:        c.Generate.Seed,
	}
	if c.Generate.NewVerticesNum != nil {
		opts.NewVerticesNum = pipeline.Ints(*c.Generate.NewVerticesNum)
	}
	if c.Probabilities != nil {
		probs := *c.Probabilities
		opts.Probabilities = &probs
	}
	return opts
}

// OpenCache opens the configured cache backend. With noCache set, or the
// "none" backend, it returns a NullCache.
func (c Config) OpenCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Cache.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
		})
	default:
		dir := c.Cache.Dir
		if dir == "" {
			d, err := DefaultCacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
			dir = d
		}
		return cache.NewFileCache(dir)
	}
}

// Keyer returns the cache keyer, scoped when [cache].prefix is set.
func (c Config) Keyer() cache.Keyer {
	if c.Cache.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Cache.Prefix)
}

// OpenArchive connects the configured archive. It returns nil without error
// when no MongoDB URI is set.
func (c Config) OpenArchive(ctx context.Context) (archive.Archive, error) {
	if c.Archive.MongoURI == "" {
		return nil, nil
	}
	a, err := archive.NewMongoArchive(ctx, archive.MongoOptions{
		URI:        c.Archive.MongoURI,
		Database:   c.Archive.Database,
		Collection: c.Archive.Collection,
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Writer returns a rotating writer for the log file, or nil when no file is
// configured.
func (l LogConfig) Writer() *lumberjack.Logger {
	if l.File == "" {
		return nil
	}
	return &lumberjack.Logger{
		Filename: l.File,
		MaxSize:  l.MaxSize, // megabytes
		MaxAge:   l.MaxAge,  // days
	}
}
