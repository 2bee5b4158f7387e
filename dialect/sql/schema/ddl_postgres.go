package schema

import (
	"fmt"
	"strings"

	"github.com/syssam/rdb/dialect"
	"github.com/syssam/rdb/schema/field"
)

// postgresDDL renders PostgreSQL DDL. Enums are backed by named types and
// auto-increment columns by sequences.
type postgresDDL struct{ ddlBase }

func (p *postgresDDL) createSchema(name string) []string {
	return []string{"CREATE SCHEMA IF NOT EXISTS " + p.c.q(name)}
}

func (p *postgresDDL) dropTable(t *Table) []string {
	stmts := p.ddlBase.dropTable(t)
	for _, col := range t.Columns {
		if col.AutoIncrement() {
			stmts = append(stmts, "DROP SEQUENCE IF EXISTS "+p.c.q(sequenceName(t, col)))
		}
	}
	return stmts
}

func (p *postgresDDL) dropTypes(t *Table) []string {
	var stmts []string
	for _, col := range t.Columns {
		if col.Type == field.TypeEnum {
			stmts = append(stmts, "DROP TYPE IF EXISTS "+p.c.q(dialect.EnumTypeName(t.Name, col.Name)))
		}
	}
	return stmts
}

func (p *postgresDDL) types(t *Table) []string {
	var stmts []string
	for _, col := range t.Columns {
		switch {
		case col.Type == field.TypeEnum:
			values := make([]string, len(col.Values))
			for i, v := range col.Values {
				values[i] = dialect.QuoteString(v)
			}
			stmts = append(stmts, fmt.Sprintf("CREATE TYPE %s AS ENUM (%s)", p.c.q(dialect.EnumTypeName(t.Name, col.Name)), strings.Join(values, ", ")))
		case col.AutoIncrement():
			stmts = append(stmts, fmt.Sprintf("CREATE SEQUENCE IF NOT EXISTS %s START %d", p.c.q(sequenceName(t, col)), autoIncrementStart(col)))
		}
	}
	return stmts
}

func (p *postgresDDL) autoIncrement(t *Table, col *Column) string {
	return " DEFAULT nextval('" + p.c.q(sequenceName(t, col)) + "')"
}

func (p *postgresDDL) checks(t *Table) []string {
	return p.rangeChecks(t)
}

func (p *postgresDDL) triggers(t *Table) []string {
	var stmts []string
	for _, tr := range t.Triggers {
		stmts = append(stmts, fmt.Sprintf("CREATE TRIGGER %s %s %s ON %s FOR EACH ROW EXECUTE PROCEDURE %s",
			p.c.q(tr.Name), strings.ToUpper(tr.Timing), strings.ToUpper(strings.Join(tr.Events, " OR ")), p.c.q(t.Name), tr.Body))
	}
	return stmts
}

func (p *postgresDDL) createIndex(t *Table, idx *Index, name string) string {
	typ := idx.Type
	if typ == IndexHash && idx.Unique {
		p.c.warn(t.Name, "", "HASH is not supported for UNIQUE indexes on postgres, creating index with default type")
		typ = IndexDefault
	}
	var b strings.Builder
	b.WriteString("CREATE ")
	if idx.Unique {
		b.WriteString("UNIQUE ")
	}
	fmt.Fprintf(&b, "INDEX IF NOT EXISTS %s ON %s", p.c.q(name), p.c.q(t.Name))
	if typ != IndexDefault {
		b.WriteString(" USING ")
		b.WriteString(typ.String())
	}
	fmt.Fprintf(&b, " (%s)", p.c.qList(idx.Columns))
	return b.String()
}
