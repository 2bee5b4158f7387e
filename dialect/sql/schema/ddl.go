package schema

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/syssam/rdb/dialect"
	"github.com/syssam/rdb/schema/field"
)

// vendorDDL renders the vendor specific parts of the DDL. The shared
// statement layout lives in ddlCompiler; ddlBase provides the defaults that
// vendors override.
type vendorDDL interface {
	createSchema(name string) []string
	dropTable(t *Table) []string
	dropTypes(t *Table) []string
	// types returns statements that must precede CREATE TABLE, such as
	// enum types and sequences.
	types(t *Table) []string
	columnType(t *Table, c *Column) (string, error)
	autoIncrement(t *Table, c *Column) string
	// inlinePrimaryKey reports whether the primary key was declared by a
	// column definition and must not be repeated as a table constraint.
	inlinePrimaryKey(t *Table) bool
	checks(t *Table) []string
	referenceOption(action string, o ReferenceOption) string
	createTable(t *Table, body string) string
	alters(t *Table) []string
	triggers(t *Table) []string
	createIndex(t *Table, idx *Index, name string) string
}

// ddlCompiler emits the DDL of one schema for one vendor.
type ddlCompiler struct {
	vendor   dialect.Vendor
	d        *dialect.Dialect
	v        vendorDDL
	logger   *slog.Logger
	warned   map[string]bool
	warnings []*ValidationError
	indexes  map[string]bool
}

func newDDLCompiler(v dialect.Vendor, logger *slog.Logger) (*ddlCompiler, error) {
	d, err := dialect.For(v)
	if err != nil {
		return nil, err
	}
	c := &ddlCompiler{
		vendor:  v,
		d:       d,
		logger:  logger,
		warned:  make(map[string]bool),
		indexes: make(map[string]bool),
	}
	base := ddlBase{c}
	switch v {
	case dialect.MySQL, dialect.MariaDB:
		c.v = &mysqlDDL{base}
	case dialect.Postgres:
		c.v = &postgresDDL{base}
	case dialect.Oracle:
		c.v = &oracleDDL{base}
	case dialect.Derby:
		c.v = &derbyDDL{base}
	case dialect.SQLite:
		c.v = &sqliteDDL{base}
	default:
		return nil, fmt.Errorf("schema: unsupported vendor %s", v)
	}
	return c, nil
}

// warn records a non-fatal capability gap. Each message is reported once
// per compilation.
func (c *ddlCompiler) warn(table, column, msg string) {
	if c.warned[msg] {
		return
	}
	c.warned[msg] = true
	c.warnings = append(c.warnings, &ValidationError{Table: table, Column: column, Message: msg})
	c.logger.Warn(msg, "vendor", c.vendor.String(), "table", table)
}

func (c *ddlCompiler) q(name string) string {
	return c.d.QuoteIdentifier(name)
}

func (c *ddlCompiler) qList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = c.q(n)
	}
	return strings.Join(quoted, ", ")
}

// createBlock returns the statements that create the table: types, the
// table itself, deferred alters, triggers and indexes.
func (c *ddlCompiler) createBlock(t *Table) ([]string, error) {
	stmts := c.v.types(t)
	body, err := c.tableBody(t)
	if err != nil {
		return nil, err
	}
	stmts = append(stmts, c.v.createTable(t, body))
	stmts = append(stmts, c.v.alters(t)...)
	stmts = append(stmts, c.v.triggers(t)...)
	for _, idx := range t.Indexes {
		stmts = append(stmts, c.v.createIndex(t, idx, c.indexName(t, idx)))
	}
	return stmts, nil
}

func (c *ddlCompiler) tableBody(t *Table) (string, error) {
	parts := make([]string, 0, len(t.Columns)+4)
	for _, col := range t.Columns {
		def, err := c.columnDefinition(t, col)
		if err != nil {
			return "", err
		}
		parts = append(parts, def)
	}
	if len(t.PrimaryKey) > 0 && !c.v.inlinePrimaryKey(t) {
		parts = append(parts, "PRIMARY KEY ("+c.qList(t.PrimaryKey)+")")
	}
	for _, u := range t.Uniques {
		parts = append(parts, "UNIQUE ("+c.qList(u)+")")
	}
	for _, fk := range t.ForeignKeys {
		parts = append(parts, c.foreignKey(fk))
	}
	parts = append(parts, c.v.checks(t)...)
	return strings.Join(parts, ", "), nil
}

func (c *ddlCompiler) columnDefinition(t *Table, col *Column) (string, error) {
	typ, err := c.v.columnType(t, col)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(c.q(col.Name))
	b.WriteString(" ")
	b.WriteString(typ)
	if col.AutoIncrement() {
		b.WriteString(c.v.autoIncrement(t, col))
	} else if col.Default != nil {
		lit, err := c.defaultValue(col)
		if err != nil {
			return "", fmt.Errorf("default of column %s: %w", col.Name, err)
		}
		b.WriteString(" DEFAULT ")
		b.WriteString(lit)
	}
	if !col.Nullable {
		b.WriteString(" NOT NULL")
	}
	return b.String(), nil
}

// defaultValue renders the column default. The names of the current
// date and time functions are passed through.
func (c *ddlCompiler) defaultValue(col *Column) (string, error) {
	if s, ok := col.Default.(string); ok && col.Type.Temporal() {
		switch strings.ToUpper(s) {
		case "CURRENT_DATE":
			return c.d.CurrentDate(), nil
		case "CURRENT_TIME":
			return c.d.CurrentTime(), nil
		case "CURRENT_TIMESTAMP", "NOW":
			return c.d.CurrentTimestamp(), nil
		}
	}
	return c.d.Literal(col.Type, col.Default)
}

func (c *ddlCompiler) foreignKey(fk *ForeignKey) string {
	var b strings.Builder
	if fk.Symbol != "" {
		b.WriteString("CONSTRAINT ")
		b.WriteString(c.q(fk.Symbol))
		b.WriteString(" ")
	}
	fmt.Fprintf(&b, "FOREIGN KEY (%s) REFERENCES %s (%s)", c.qList(fk.Columns), c.q(fk.RefTable), c.qList(fk.RefColumns))
	if fk.OnDelete != "" {
		b.WriteString(c.v.referenceOption("DELETE", fk.OnDelete))
	}
	if fk.OnUpdate != "" {
		b.WriteString(c.v.referenceOption("UPDATE", fk.OnUpdate))
	}
	return b.String()
}

// indexName returns the declared index name, or derives one of the form
// idx_<table>_<columns> with a numeric suffix when the name is taken.
func (c *ddlCompiler) indexName(t *Table, idx *Index) string {
	if idx.Name != "" {
		c.indexes[idx.Name] = true
		return idx.Name
	}
	base := indexBaseName(t, idx)
	name := base
	for i := 2; c.indexes[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	c.indexes[name] = true
	return name
}

func indexBaseName(t *Table, idx *Index) string {
	return "idx_" + t.Name + "_" + strings.Join(idx.Columns, "_")
}

// autoIncrementStart returns the first value of an auto-increment column:
// its default, else its minimum, else 1.
func autoIncrementStart(col *Column) int64 {
	if n, ok := toInt64(col.Default); ok {
		return n
	}
	if col.Min != nil {
		return *col.Min
	}
	return 1
}

func toInt64(v any) (int64, bool) {
	switch v := v.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint64:
		return int64(v), true
	case float64:
		return int64(v), v == float64(int64(v))
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	}
	return 0, false
}

// sequenceName returns the name of the sequence backing an auto-increment
// column on vendors without identity columns.
func sequenceName(t *Table, c *Column) string {
	return "seq_" + t.Name + "_" + c.Name
}

// ddlBase holds the default, mostly standard SQL, renderings.
type ddlBase struct {
	c *ddlCompiler
}

func (ddlBase) createSchema(string) []string { return nil }

func (b ddlBase) dropTable(t *Table) []string {
	return []string{"DROP TABLE IF EXISTS " + b.c.q(t.Name)}
}

func (ddlBase) dropTypes(*Table) []string { return nil }
func (ddlBase) types(*Table) []string     { return nil }

func (b ddlBase) columnType(t *Table, c *Column) (string, error) {
	return b.c.d.Declare(t.Name, c.Name, c.Spec)
}

func (ddlBase) autoIncrement(*Table, *Column) string { return "" }
func (ddlBase) inlinePrimaryKey(*Table) bool         { return false }

// checks returns enum and range CHECK constraints.
func (b ddlBase) checks(t *Table) []string {
	return append(b.enumChecks(t), b.rangeChecks(t)...)
}

func (b ddlBase) enumChecks(t *Table) []string {
	var checks []string
	for _, col := range t.Columns {
		if col.Type != field.TypeEnum || len(col.Values) == 0 {
			continue
		}
		values := make([]string, len(col.Values))
		for i, v := range col.Values {
			values[i] = b.c.d.QuoteString(v)
		}
		checks = append(checks, fmt.Sprintf("CHECK (%s IN (%s))", b.c.q(col.Name), strings.Join(values, ", ")))
	}
	return checks
}

func (b ddlBase) rangeChecks(t *Table) []string {
	var checks []string
	for _, col := range t.Columns {
		if !col.Type.Numeric() || col.AutoIncrement() {
			continue
		}
		if col.Min != nil {
			checks = append(checks, fmt.Sprintf("CHECK (%s >= %d)", b.c.q(col.Name), *col.Min))
		}
		if col.Max != nil {
			checks = append(checks, fmt.Sprintf("CHECK (%s <= %d)", b.c.q(col.Name), *col.Max))
		}
	}
	return checks
}

func (ddlBase) referenceOption(action string, o ReferenceOption) string {
	return " ON " + action + " " + string(o)
}

func (b ddlBase) createTable(t *Table, body string) string {
	return "CREATE TABLE IF NOT EXISTS " + b.c.q(t.Name) + " (" + body + ")"
}

func (ddlBase) alters(*Table) []string { return nil }

// triggers renders user triggers with all events in one statement.
func (b ddlBase) triggers(t *Table) []string {
	var stmts []string
	for _, tr := range t.Triggers {
		stmts = append(stmts, fmt.Sprintf("CREATE TRIGGER %s %s %s ON %s FOR EACH ROW %s",
			b.c.q(tr.Name), strings.ToUpper(tr.Timing), strings.ToUpper(strings.Join(tr.Events, " OR ")), b.c.q(t.Name), tr.Body))
	}
	return stmts
}

// triggerPerEvent renders user triggers for vendors that accept a single
// event per trigger. Triggers with several events are split and suffixed
// with the event name.
func (b ddlBase) triggerPerEvent(t *Table, format func(name, timing, event string, tr *Trigger) string) []string {
	var stmts []string
	for _, tr := range t.Triggers {
		for _, ev := range tr.Events {
			name := tr.Name
			if len(tr.Events) > 1 {
				name += "_" + strings.ToLower(ev)
			}
			stmts = append(stmts, format(name, strings.ToUpper(tr.Timing), strings.ToUpper(ev), tr))
		}
	}
	return stmts
}

func (b ddlBase) createIndex(t *Table, idx *Index, name string) string {
	if idx.Type == IndexHash {
		b.c.warn(t.Name, "", fmt.Sprintf("HASH index type specification is not supported by %s, creating index with default type", b.c.vendor))
	}
	return b.indexStatement(t, idx, name, "")
}

func (b ddlBase) indexStatement(t *Table, idx *Index, name, ifNotExists string) string {
	unique := ""
	if idx.Unique {
		unique = "UNIQUE "
	}
	return fmt.Sprintf("CREATE %sINDEX %s%s ON %s (%s)", unique, ifNotExists, b.c.q(name), b.c.q(t.Name), b.c.qList(idx.Columns))
}
