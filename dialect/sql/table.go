package sql

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/syssam/rdb/dialect/sql/schema"
	"github.com/syssam/rdb/schema/field"
)

// Table is a runtime row of a database table. Its columns hold values that
// are bound into statements and filled by cursors. A Table value doubles as
// a table reference in a statement tree: every *Table is a distinct
// reference and gets its own alias, so self-joins use New.
type Table struct {
	name    string
	columns []*Column
}

// NewTable returns an empty table with the given name.
func NewTable(name string) *Table {
	return &Table{name: name}
}

// TableOf builds a runtime table from a schema table. Inherited columns are
// included when the schema was flattened.
func TableOf(t *schema.Table) *Table {
	rt := NewTable(t.Name)
	pk := make(map[string]bool, len(t.PrimaryKey))
	for _, name := range t.PrimaryKey {
		pk[name] = true
	}
	for _, c := range t.Columns {
		opts := []ColumnOption{
			GenerateOnInsert(c.GenerateOnInsert),
			GenerateOnUpdate(c.GenerateOnUpdate),
		}
		if pk[c.Name] || c.Primary {
			opts = append(opts, Primary())
		}
		if c.Nullable {
			opts = append(opts, Nullable())
		}
		if c.KeyForUpdate {
			opts = append(opts, KeyForUpdate())
		}
		rt.AddColumn(c.Name, c.Spec, opts...)
	}
	return rt
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Columns returns the columns in declaration order.
func (t *Table) Columns() []*Column { return t.columns }

// C returns the column with the given name, or nil.
func (t *Table) C(name string) *Column {
	for _, c := range t.columns {
		if c.name == name {
			return c
		}
	}
	return nil
}

// AddColumn appends a column to the table and returns it.
func (t *Table) AddColumn(name string, spec field.Spec, opts ...ColumnOption) *Column {
	c := &Column{table: t, name: name, spec: spec}
	for _, opt := range opts {
		opt(c)
	}
	t.columns = append(t.columns, c)
	return c
}

// New returns a new reference to the same table with no values set.
func (t *Table) New() *Table {
	nt := &Table{name: t.name, columns: make([]*Column, len(t.columns))}
	for i, c := range t.columns {
		nc := *c
		nc.table = nt
		nc.value, nc.valid, nc.set = nil, false, false
		nc.increment = nil
		nt.columns[i] = &nc
	}
	return nt
}

// Reset clears the set flags of all columns. Values are kept.
func (t *Table) Reset() {
	for _, c := range t.columns {
		c.Reset()
	}
}

// String implements the fmt.Stringer interface.
func (t *Table) String() string {
	return fmt.Sprintf("Table(%s)", t.name)
}

func (*Table) subject() {}

// ColumnOption configures a column when it is added to a table.
type ColumnOption func(*Column)

// Primary marks the column as part of the primary key.
func Primary() ColumnOption {
	return func(c *Column) { c.primary = true }
}

// Nullable marks the column as accepting NULL.
func Nullable() ColumnOption {
	return func(c *Column) { c.nullable = true }
}

// KeyForUpdate adds the column's loaded value to the WHERE clause of
// object-style updates.
func KeyForUpdate() ColumnOption {
	return func(c *Column) { c.keyForUpdate = true }
}

// GenerateOnInsert sets the strategy that fills the column on insert.
func GenerateOnInsert(g field.Generate) ColumnOption {
	return func(c *Column) { c.onInsert = g }
}

// GenerateOnUpdate sets the strategy that fills the column on update.
func GenerateOnUpdate(g field.Generate) ColumnOption {
	return func(c *Column) { c.onUpdate = g }
}

// Column is a table column together with its current value. A column
// without a table is a free value and compiles to a bound parameter.
type Column struct {
	table *Table
	name  string
	spec  field.Spec

	primary      bool
	nullable     bool
	keyForUpdate bool
	onInsert     field.Generate
	onUpdate     field.Generate

	value any
	// valid reports that value holds a loaded or assigned value.
	valid bool
	// set reports that the value was assigned since the last load or Reset.
	set bool
	// increment is a pending server-side addition applied by UPDATE.
	increment any
}

// Value returns a free value of the given Go value. The column type is
// inferred from the value.
func Value(v any) *Column {
	return &Column{spec: field.Spec{Type: typeOfValue(v)}, value: v, valid: true, set: true}
}

// TypedValue returns a free value with an explicit column type.
func TypedValue(v any, spec field.Spec) *Column {
	return &Column{spec: spec, value: v, valid: true, set: true}
}

// Null returns a free NULL value.
func Null() *Column {
	return &Column{valid: true, set: true}
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Table returns the owning table, or nil for free values.
func (c *Column) Table() *Table { return c.table }

// Spec returns the column type.
func (c *Column) Spec() field.Spec { return c.spec }

// Type returns the scalar type of the column.
func (c *Column) Type() field.Type { return c.spec.Type }

// IsPrimary reports whether the column is part of the primary key.
func (c *Column) IsPrimary() bool { return c.primary }

// IsNullable reports whether the column accepts NULL.
func (c *Column) IsNullable() bool { return c.nullable }

// Set assigns a value to the column and marks it as set.
func (c *Column) Set(v any) *Column {
	c.value, c.valid, c.set = v, true, true
	c.increment = nil
	return c
}

// SetNull assigns NULL to the column.
func (c *Column) SetNull() *Column { return c.Set(nil) }

// Get returns the current value of the column.
func (c *Column) Get() any { return c.value }

// Valid reports whether the column holds a value.
func (c *Column) Valid() bool { return c.valid }

// WasSet reports whether a value was assigned since the column was
// loaded or reset.
func (c *Column) WasSet() bool { return c.set }

// Reset clears the set flag. The value is kept.
func (c *Column) Reset() {
	c.set = false
	c.increment = nil
}

// Increment schedules an in-place addition for the next object-style
// update: the statement sets the column to its own value plus delta and
// the new value is stored back after a successful execution.
func (c *Column) Increment(delta any) *Column {
	c.increment = delta
	return c
}

// String implements the fmt.Stringer interface.
func (c *Column) String() string {
	if c.table == nil {
		return fmt.Sprintf("Value(%v)", c.value)
	}
	return fmt.Sprintf("Column(%s.%s)", c.table.name, c.name)
}

func (*Column) subject() {}

// load stores a value read from the database.
func (c *Column) load(v any) {
	c.value, c.valid, c.set = v, true, false
	c.increment = nil
}

// generated returns the client-side value of the strategy g, or false if
// the strategy is left to the database.
func generated(g field.Generate, spec field.Spec, now time.Time) (any, bool) {
	switch g {
	case field.GenerateUUID:
		id := uuid.New()
		if spec.Type.Binary() {
			return id[:], true
		}
		return id.String(), true
	case field.GenerateTimestamp:
		switch spec.Type {
		case field.TypeDate:
			y, m, d := now.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), true
		case field.TypeTime:
			return time.Date(0, 1, 1, now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), now.Location()), true
		}
		return now, true
	case field.GenerateEpochSeconds:
		return now.Unix(), true
	case field.GenerateEpochMinutes:
		return now.Unix() / 60, true
	case field.GenerateEpochMillis:
		return now.UnixMilli(), true
	}
	return nil, false
}

// typeOfValue infers the column type of a Go value.
func typeOfValue(v any) field.Type {
	switch v.(type) {
	case bool:
		return field.TypeBoolean
	case int8, uint8:
		return field.TypeTinyint
	case int16, uint16:
		return field.TypeSmallint
	case int32, uint32:
		return field.TypeInt
	case int, int64, uint, uint64:
		return field.TypeBigint
	case float32:
		return field.TypeFloat
	case float64:
		return field.TypeDouble
	case decimal.Decimal, *decimal.Decimal:
		return field.TypeDecimal
	case string, uuid.UUID:
		return field.TypeChar
	case []byte:
		return field.TypeBinary
	case time.Time:
		return field.TypeDateTime
	case time.Duration:
		return field.TypeInterval
	}
	return field.TypeInvalid
}
