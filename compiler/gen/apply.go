package gen

import (
	"context"
	"fmt"

	"github.com/syssam/rdb/dialect"
	"github.com/syssam/rdb/dialect/sql"
	"github.com/syssam/rdb/dialect/sql/schema"
)

// Apply runs the DDL of s against the database behind drv.
//
// The live tables named by the schema are inspected first and compared with
// the desired ones. Dropped tables, dropped columns and columns becoming NOT
// NULL are rejected with a *ValidationError unless the database holds no
// such table yet. Tables of the database that the schema does not declare
// are left alone. The batch recreates the declared tables, so Apply is meant
// for development and test databases.
func (g *Generator) Apply(ctx context.Context, drv *sql.Driver, s *schema.Schema, opts ...schema.ValidateOption) error {
	v := drv.Vendor()
	log := g.cfg.Logger.With("vendor", v.String())
	flat, err := schema.Flatten(s)
	if err != nil {
		return &GenerationError{Vendor: v, Cause: err}
	}
	name := s.Name
	if v == dialect.SQLite {
		name = ""
	}
	live, err := schema.Inspect(ctx, drv.DB(), v, name)
	if err != nil {
		return fmt.Errorf("gen: apply: %w", err)
	}
	var desired, current []*schema.Table
	for _, t := range flat.Tables {
		if t.Abstract || t.Skip {
			continue
		}
		desired = append(desired, t)
		if c, ok := live.Table(t.Name); ok {
			current = append(current, c)
		}
	}
	res := schema.ValidateDiff(current, desired, opts...)
	if res.HasErrors() {
		return &ValidationError{Vendor: v, Details: res.String()}
	}
	for _, w := range res.Warnings {
		log.Warn(w.Message, "table", w.Table, "column", w.Column)
	}
	copts := []schema.CompileOption{schema.WithLogger(log)}
	if g.cfg.Strict {
		copts = append(copts, schema.WithValidateOptions(schema.StrictPrimaryKey()))
	}
	b, err := schema.Compile(s, v, copts...)
	if err != nil {
		return &GenerationError{Vendor: v, Cause: err}
	}
	if err := b.Exec(ctx, drv); err != nil {
		return &GenerationError{Vendor: v, Cause: err}
	}
	log.Info("schema applied", "tables", len(desired), "statements", len(b.Statements))
	return nil
}
