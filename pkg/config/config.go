// Package config loads scenegen configuration files.
//
// A config file holds the pipeline options plus the collaborators a run
// needs: the cache backend, the catalog URL, the renderer command line and
// the HTTP listen address. TOML and YAML are both accepted and take the same
// keys:
//
//	[pipeline]
//	tests = 4
//	angles = 8
//
//	[pipeline.placement]
//	count = 12
//	max_attempts = 100000
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
// Fields left out keep their zero value, so [pipeline.Options] defaults
// still apply. Command-line flags override anything set here.
package config

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/scenegen/pkg/cache"
	"github.com/matzehuels/scenegen/pkg/errors"
	"github.com/matzehuels/scenegen/pkg/pipeline"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// DefaultAddr is the HTTP listen address used when none is configured.
const DefaultAddr = ":8080"

// Names looked up by [Discover], in order.
var Names = []string{"scenegen.toml", "scenegen.yaml", "scenegen.yml"}

// File is the decoded content of a config file.
type File struct {
	Pipeline pipeline.Options `toml:"pipeline" yaml:"pipeline"`
	Cache    Cache            `toml:"cache" yaml:"cache"`

	// Catalog is a catalog store URL (sqlite://, mongodb://, memory://).
	Catalog string `toml:"catalog" yaml:"catalog"`

	// Renderer is the engine command line. Empty writes scene files only.
	Renderer string `toml:"renderer" yaml:"renderer"`

	Server Server `toml:"server" yaml:"server"`
}

// Cache selects and configures the placement cache.
type Cache struct {
	Backend  string `toml:"backend" yaml:"backend"`
	Dir      string `toml:"dir" yaml:"dir"`
	RedisURL string `toml:"redis_url" yaml:"redis_url"`
	Prefix   string `toml:"prefix" yaml:"prefix"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr" yaml:"addr"`
}

// Default returns the configuration used when no file is given.
func Default() File {
	return File{
		Cache:  Cache{Backend: BackendFile},
		Server: Server{Addr: DefaultAddr},
	}
}

// Load reads the file at path. The format follows the extension: .toml,
// .yaml or .yml. An empty path returns [Default]. Unknown keys are errors so
// that typos do not silently fall back to defaults.
func Load(path string) (File, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = decodeTOML(data, &cfg)
	case ".yaml", ".yml":
		err = decodeYAML(data, &cfg)
	default:
		return cfg, errors.New(errors.ErrCodeUnsupported, "config format %q (want .toml, .yaml or .yml)", ext)
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", filepath.Base(path))
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

func decodeTOML(data []byte, cfg *File) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func decodeYAML(data []byte, cfg *File) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// Discover returns the first config file from [Names] found in dir, or ""
// when there is none.
func Discover(dir string) string {
	for _, name := range Names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Normalize trims string fields and fills empty ones with defaults.
func (f *File) Normalize() {
	f.Cache.Backend = strings.ToLower(strings.TrimSpace(f.Cache.Backend))
	if f.Cache.Backend == "" {
		f.Cache.Backend = BackendFile
	}
	f.Catalog = strings.TrimSpace(f.Catalog)
	f.Renderer = strings.TrimSpace(f.Renderer)
	if strings.TrimSpace(f.Server.Addr) == "" {
		f.Server.Addr = DefaultAddr
	}
}

// Validate checks the file without touching the filesystem or network.
func (f *File) Validate() error {
	switch f.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if f.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidOptions, "cache backend redis needs redis_url")
		}
	default:
		return errors.New(errors.ErrCodeInvalidOptions, "unknown cache backend %q", f.Cache.Backend)
	}
	opts := f.Pipeline
	return opts.ValidateAndSetDefaults()
}

// Open builds the configured cache and its keyer.
func (c Cache) Open(ctx context.Context) (cache.Cache, cache.Keyer, error) {
	keyer := cache.NewScopedKeyer(nil, c.Prefix)
	switch c.Backend {
	case BackendNone:
		return cache.NewNullCache(), keyer, nil
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: c.RedisURL})
		if err != nil {
			return nil, nil, err
		}
		return rc, keyer, nil
	case BackendFile, "":
		dir := c.Dir
		if dir == "" {
			d, err := cache.DefaultDir()
			if err != nil {
				return nil, nil, err
			}
			dir = d
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, nil, err
		}
		return fc, keyer, nil
	default:
		return nil, nil, errors.New(errors.ErrCodeInvalidOptions, "unknown cache backend %q", c.Backend)
	}
}
