package gen

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/syssam/rdb/dialect"
)

// ConfigFileName is the name of the optional configuration file looked up
// next to the schema file.
const ConfigFileName = "rdb.yaml"

// Config holds the configuration of a generation run.
type Config struct {
	// Vendors to generate DDL for, in order.
	Vendors []dialect.Vendor
	// Target is the directory receiving the .sql files.
	Target string
	// Migrations, if set, is the root of the Atlas migration directories
	// that receive a new versioned file on each run.
	Migrations string
	// Strict reports missing or nullable primary keys as errors.
	Strict bool
	// Workers bounds the number of vendors compiled in parallel.
	Workers int
	// Logger receives warnings and progress. Defaults to slog.Default().
	Logger *slog.Logger
	// Now returns the time used for migration versions.
	Now func() time.Time
}

// Option configures a generation run.
type Option func(*Config) error

// NewConfig returns a configuration with the options applied and checked.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Workers: runtime.GOMAXPROCS(0),
		Logger:  slog.Default(),
		Now:     time.Now,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if err := c.check(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) check() error {
	if len(c.Vendors) == 0 {
		return NewConfigError("Vendors", nil, "at least one vendor is required")
	}
	if c.Target == "" {
		return NewConfigError("Target", nil, "missing target directory")
	}
	return nil
}

// WithVendors sets the vendors by name, replacing any previous list.
// Duplicates are ignored.
func WithVendors(names ...string) Option {
	return func(c *Config) error {
		c.Vendors = nil
		for _, name := range names {
			v, err := dialect.ParseVendor(name)
			if err != nil {
				return NewConfigError("Vendors", name, "unknown vendor; use mysql, mariadb, postgres, oracle, derby or sqlite")
			}
			if !slices.Contains(c.Vendors, v) {
				c.Vendors = append(c.Vendors, v)
			}
		}
		return nil
	}
}

// WithTarget sets the output directory.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithMigrations enables the output of versioned migration files under
// dir, one sub-directory per vendor.
func WithMigrations(dir string) Option {
	return func(c *Config) error {
		c.Migrations = dir
		return nil
	}
}

// WithStrictPrimaryKey makes missing or nullable primary keys fatal.
func WithStrictPrimaryKey(strict bool) Option {
	return func(c *Config) error {
		c.Strict = strict
		return nil
	}
}

// WithWorkers sets the number of parallel workers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("Workers", n, "workers must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// WithClock sets the clock used for migration versions.
func WithClock(now func() time.Time) Option {
	return func(c *Config) error {
		if now == nil {
			return NewConfigError("Clock", nil, "clock cannot be nil")
		}
		c.Now = now
		return nil
	}
}

// fileConfig is the layout of rdb.yaml.
type fileConfig struct {
	Vendors    []string `yaml:"vendors"`
	Target     string   `yaml:"target"`
	Migrations string   `yaml:"migrations"`
	Strict     bool     `yaml:"strict"`
	Workers    int      `yaml:"workers"`
}

// FromFile returns the options stored in a YAML configuration file:
//
//	vendors: [postgres, mysql]
//	target: ddl
//	migrations: migrations
//	strict: true
//
// A missing file yields no options.
func FromFile(path string) ([]Option, error) {
	buf, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("gen: read config: %w", err)
	}
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)
	switch err := dec.Decode(&fc); {
	case errors.Is(err, io.EOF):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("gen: decode %s: %w", path, err)
	}
	var opts []Option
	if len(fc.Vendors) > 0 {
		opts = append(opts, WithVendors(fc.Vendors...))
	}
	if fc.Target != "" {
		opts = append(opts, WithTarget(fc.Target))
	}
	if fc.Migrations != "" {
		opts = append(opts, WithMigrations(fc.Migrations))
	}
	if fc.Strict {
		opts = append(opts, WithStrictPrimaryKey(true))
	}
	if fc.Workers != 0 {
		opts = append(opts, WithWorkers(fc.Workers))
	}
	return opts, nil
}
