package gen

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/rdb"
	"github.com/syssam/rdb/compiler/load"
	"github.com/syssam/rdb/dialect"
	"github.com/syssam/rdb/dialect/sql/schema"
)

// Generator compiles schema files to DDL scripts.
type Generator struct {
	cfg *Config
}

// New returns a generator for the configuration.
func New(cfg *Config) *Generator {
	return &Generator{cfg: cfg}
}

// Config returns the configuration of the generator.
func (g *Generator) Config() *Config { return g.cfg }

// Output describes the files written for one vendor.
type Output struct {
	Vendor dialect.Vendor
	// File is the path of the DDL script.
	File string
	// Migration is the path of the new migration file, or empty when
	// migrations are disabled or the schema did not change since the
	// previous migration.
	Migration  string
	Statements int
	Warnings   int
}

// Generate loads the schema file at path and writes its DDL for every
// configured vendor. Vendors are processed in parallel; the failure of one
// vendor does not stop the others. The outputs of the vendors that succeeded
// are returned together with the failures of the others.
func (g *Generator) Generate(ctx context.Context, path string) ([]*Output, error) {
	s, err := load.Load(path)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return g.GenerateSchema(ctx, name, s)
}

// GenerateSchema writes the DDL of s under the given base file name.
func (g *Generator) GenerateSchema(ctx context.Context, name string, s *schema.Schema) ([]*Output, error) {
	var (
		vendors = g.cfg.Vendors
		outs    = make([]*Output, len(vendors))
		errs    = make([]error, len(vendors))
		version = g.cfg.Now().UTC().Format("20060102150405")
	)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.Workers)
	for i, v := range vendors {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = &GenerationError{Vendor: v, Cause: err}
				return nil
			}
			out, err := g.generate(v, name, version, s)
			if err != nil {
				errs[i] = err
				return nil
			}
			outs[i] = out
			return nil
		})
	}
	_ = eg.Wait()
	outs = slices.DeleteFunc(outs, func(o *Output) bool { return o == nil })
	return outs, rdb.NewAggregateError(errs...)
}

func (g *Generator) generate(v dialect.Vendor, name, version string, s *schema.Schema) (*Output, error) {
	var (
		log  = g.cfg.Logger.With("vendor", v.String())
		opts = []schema.CompileOption{schema.WithLogger(log)}
	)
	if g.cfg.Strict {
		opts = append(opts, schema.WithValidateOptions(schema.StrictPrimaryKey()))
	}
	b, err := schema.Compile(s, v, opts...)
	if err != nil {
		return nil, &GenerationError{Vendor: v, Cause: err}
	}
	out := &Output{
		Vendor:     v,
		File:       filepath.Join(g.cfg.Target, g.fileName(name, v)),
		Statements: len(b.Statements),
		Warnings:   len(b.Warnings),
	}
	if err := writeScript(out.File, b); err != nil {
		return nil, &GenerationError{Vendor: v, File: out.File, Cause: err}
	}
	if g.cfg.Migrations != "" {
		dir := g.cfg.Migrations
		if len(g.cfg.Vendors) > 1 {
			dir = filepath.Join(dir, v.String())
		}
		if out.Migration, err = writeMigration(dir, version, name, b); err != nil {
			return nil, &GenerationError{Vendor: v, File: dir, Cause: err}
		}
	}
	log.Debug("ddl generated", "file", out.File, "statements", out.Statements, "warnings", out.Warnings)
	return out, nil
}

// fileName returns <name>.sql, or <name>.<vendor>.sql when several vendors
// share the target directory.
func (g *Generator) fileName(name string, v dialect.Vendor) string {
	if len(g.cfg.Vendors) > 1 {
		return fmt.Sprintf("%s.%s.sql", name, v)
	}
	return name + ".sql"
}
