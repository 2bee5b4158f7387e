package schema

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/syssam/rdb/dialect"
)

// CompileOption configures Compile.
type CompileOption func(*compileConfig)

type compileConfig struct {
	logger   *slog.Logger
	validate []ValidateOption
}

// WithLogger sets the logger that receives compilation warnings.
// Defaults to slog.Default().
func WithLogger(l *slog.Logger) CompileOption {
	return func(c *compileConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithValidateOptions passes options to the schema validation that
// precedes emission.
func WithValidateOptions(opts ...ValidateOption) CompileOption {
	return func(c *compileConfig) {
		c.validate = append(c.validate, opts...)
	}
}

// Batch is the ordered DDL of a schema for one vendor.
type Batch struct {
	Vendor     dialect.Vendor
	Statements []string
	// Warnings lists the non-fatal findings of validation and emission,
	// such as reserved words and features the vendor lacks.
	Warnings []*ValidationError
}

// Compile flattens, validates and renders s for vendor v.
//
// Statements are ordered so that the batch can be replayed on a database
// holding a previous version of the schema: the schema is created (on
// Postgres), every table is dropped in reverse declaration order, enum types
// are dropped, and then each table is created in declaration order together
// with its types, sequences, triggers and indexes. Abstract and skipped
// tables are not emitted.
//
// Validation errors are returned joined, each one a *CompilationError.
// A type whose facets exceed the vendor maxima fails the whole compilation
// and no statements are returned.
func Compile(s *Schema, v dialect.Vendor, opts ...CompileOption) (*Batch, error) {
	cfg := &compileConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}
	c, err := newDDLCompiler(v, cfg.logger)
	if err != nil {
		return nil, err
	}
	flat, err := Flatten(s)
	if err != nil {
		return nil, err
	}
	res := ValidateSchema(flat.Tables, cfg.validate...)
	if res.HasErrors() {
		errs := make([]error, len(res.Errors))
		for i, e := range res.Errors {
			errs[i] = &CompilationError{Table: e.Table, Column: e.Column, Message: e.Message}
		}
		return nil, errors.Join(errs...)
	}
	for _, w := range res.Warnings {
		cfg.logger.Warn(w.Message, "vendor", v.String(), "table", w.Table, "column", w.Column)
	}
	var (
		tables = slices.DeleteFunc(slices.Clone(flat.Tables), func(t *Table) bool { return t.Abstract || t.Skip })
		stmts  []string
	)
	if s.Name != "" {
		stmts = append(stmts, c.v.createSchema(s.Name)...)
	}
	for i := len(tables) - 1; i >= 0; i-- {
		stmts = append(stmts, c.v.dropTable(tables[i])...)
	}
	for _, t := range tables {
		stmts = append(stmts, c.v.dropTypes(t)...)
	}
	for _, t := range tables {
		block, err := c.createBlock(t)
		if err != nil {
			return nil, &CompilationError{Table: t.Name, Message: "cannot compile table", Cause: err}
		}
		stmts = append(stmts, block...)
	}
	return &Batch{
		Vendor:     v,
		Statements: stmts,
		Warnings:   append(res.Warnings, c.warnings...),
	}, nil
}

// WriteTo writes the statements as a script. Statements are terminated by
// a semicolon, and Oracle PL/SQL blocks by a slash line.
func (b *Batch) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, stmt := range b.Statements {
		term := ";\n"
		if b.Vendor == dialect.Oracle && strings.HasSuffix(stmt, "END;") {
			term = "\n/\n"
		}
		n, err := io.WriteString(w, stmt+term)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// String returns the script form of the batch.
func (b *Batch) String() string {
	var sb strings.Builder
	_, _ = b.WriteTo(&sb)
	return sb.String()
}

// Exec executes the statements in order, stopping at the first failure.
func (b *Batch) Exec(ctx context.Context, conn dialect.ExecQuerier) error {
	for i, stmt := range b.Statements {
		if err := conn.Exec(ctx, stmt, []any{}, nil); err != nil {
			return fmt.Errorf("schema: statement %d: %w", i+1, err)
		}
	}
	return nil
}
