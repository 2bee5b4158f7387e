package schema

import "github.com/syssam/rdb/schema/field"

// Schema is an ordered set of tables. Declaration order drives the order of
// the emitted DDL: tables are created in order and dropped in reverse.
type Schema struct {
	Name   string   `json:"name,omitempty"`
	Tables []*Table `json:"tables"`
}

// Table returns the table with the given name.
func (s *Schema) Table(name string) (*Table, bool) {
	for _, t := range s.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// Table schema definition for SQL dialects.
type Table struct {
	Name string `json:"name"`
	// Extends names the abstract table this table inherits its columns
	// and constraints from.
	Extends string `json:"extends,omitempty"`
	// Abstract tables only exist to be extended. They are not created.
	Abstract bool `json:"abstract,omitempty"`
	// Skip excludes a concrete table from the DDL output. It is still
	// available for inheritance.
	Skip        bool          `json:"skip,omitempty"`
	Columns     []*Column     `json:"columns"`
	PrimaryKey  []string      `json:"primary_key,omitempty"`
	Uniques     [][]string    `json:"uniques,omitempty"`
	ForeignKeys []*ForeignKey `json:"foreign_keys,omitempty"`
	Indexes     []*Index      `json:"indexes,omitempty"`
	Triggers    []*Trigger    `json:"triggers,omitempty"`
	Comment     string        `json:"comment,omitempty"`
}

// NewTable returns a new table with the given name.
func NewTable(name string) *Table {
	return &Table{Name: name}
}

// AddColumns appends the columns to the table.
func (t *Table) AddColumns(cs ...*Column) *Table {
	t.Columns = append(t.Columns, cs...)
	return t
}

// AddPrimary appends the named columns to the primary key.
func (t *Table) AddPrimary(names ...string) *Table {
	t.PrimaryKey = append(t.PrimaryKey, names...)
	return t
}

// AddUnique adds a UNIQUE constraint over the named columns.
func (t *Table) AddUnique(names ...string) *Table {
	t.Uniques = append(t.Uniques, names)
	return t
}

// AddForeignKey adds foreign-key constraints to the table.
func (t *Table) AddForeignKey(fks ...*ForeignKey) *Table {
	t.ForeignKeys = append(t.ForeignKeys, fks...)
	return t
}

// AddIndex adds indexes to the table.
func (t *Table) AddIndex(idx ...*Index) *Table {
	t.Indexes = append(t.Indexes, idx...)
	return t
}

// AddTrigger adds triggers to the table.
func (t *Table) AddTrigger(tr ...*Trigger) *Table {
	t.Triggers = append(t.Triggers, tr...)
	return t
}

// SetExtends sets the parent of the table.
func (t *Table) SetExtends(parent string) *Table {
	t.Extends = parent
	return t
}

// SetAbstract marks the table as abstract.
func (t *Table) SetAbstract() *Table {
	t.Abstract = true
	return t
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// HasPrimaryKey reports whether the table declares a primary key.
func (t *Table) HasPrimaryKey() bool {
	return len(t.PrimaryKey) > 0
}

// Column schema definition for SQL dialects.
type Column struct {
	Name string `json:"name"`
	field.Spec
	Nullable bool `json:"nullable,omitempty"`
	// Default is the value used when an INSERT omits the column.
	Default any  `json:"default,omitempty"`
	Unique  bool `json:"unique,omitempty"`
	Primary bool `json:"primary,omitempty"`
	// Inherited marks a column copied from an ancestor table.
	Inherited        bool           `json:"inherited,omitempty"`
	GenerateOnInsert field.Generate `json:"generate_on_insert,omitempty"`
	GenerateOnUpdate field.Generate `json:"generate_on_update,omitempty"`
	// KeyForUpdate columns are compared with their previous value in the
	// WHERE clause of object-style updates (optimistic locking).
	KeyForUpdate bool   `json:"key_for_update,omitempty"`
	Min          *int64 `json:"min,omitempty"`
	Max          *int64 `json:"max,omitempty"`
	Comment      string `json:"comment,omitempty"`
}

// AutoIncrement reports whether the column value is assigned by the database.
func (c *Column) AutoIncrement() bool {
	return c.GenerateOnInsert == field.GenerateAutoIncrement
}

// clone returns a shallow copy of the column with its own slices.
func (c *Column) clone() *Column {
	cc := *c
	cc.Values = cloneStrings(c.Values)
	return &cc
}

// ReferenceOption for constraint actions.
type ReferenceOption string

// Reference options.
const (
	NoAction   ReferenceOption = "NO ACTION"
	Restrict   ReferenceOption = "RESTRICT"
	Cascade    ReferenceOption = "CASCADE"
	SetNull    ReferenceOption = "SET NULL"
	SetDefault ReferenceOption = "SET DEFAULT"
)

// ForeignKey definition for creation.
type ForeignKey struct {
	Symbol     string          `json:"symbol,omitempty"`
	Columns    []string        `json:"columns"`
	RefTable   string          `json:"ref_table"`
	RefColumns []string        `json:"ref_columns"`
	OnUpdate   ReferenceOption `json:"on_update,omitempty"`
	OnDelete   ReferenceOption `json:"on_delete,omitempty"`
}

// IndexType is a hint for the index structure.
type IndexType uint8

// Index types.
const (
	IndexDefault IndexType = iota
	IndexBTree
	IndexHash
)

// String returns the SQL name of the index type.
func (t IndexType) String() string {
	switch t {
	case IndexBTree:
		return "BTREE"
	case IndexHash:
		return "HASH"
	}
	return ""
}

// Index definition for table index.
type Index struct {
	Name    string    `json:"name,omitempty"`
	Columns []string  `json:"columns"`
	Unique  bool      `json:"unique,omitempty"`
	Type    IndexType `json:"type,omitempty"`
}

// Trigger is a user-defined row trigger.
type Trigger struct {
	Name string `json:"name"`
	// Timing is BEFORE or AFTER.
	Timing string `json:"timing"`
	// Events lists INSERT, UPDATE and DELETE.
	Events []string `json:"events"`
	// Body is the trigger action. On Postgres it names the trigger
	// function to execute.
	Body string `json:"body"`
}

func cloneTable(t *Table) *Table {
	c := *t
	c.Columns = nil
	for _, col := range t.Columns {
		c.Columns = append(c.Columns, col.clone())
	}
	c.PrimaryKey = cloneStrings(t.PrimaryKey)
	c.Uniques = nil
	for _, u := range t.Uniques {
		c.Uniques = append(c.Uniques, cloneStrings(u))
	}
	c.ForeignKeys = nil
	for _, fk := range t.ForeignKeys {
		f := *fk
		f.Columns = cloneStrings(fk.Columns)
		f.RefColumns = cloneStrings(fk.RefColumns)
		c.ForeignKeys = append(c.ForeignKeys, &f)
	}
	c.Indexes = nil
	for _, idx := range t.Indexes {
		x := *idx
		x.Columns = cloneStrings(idx.Columns)
		c.Indexes = append(c.Indexes, &x)
	}
	c.Triggers = append([]*Trigger(nil), t.Triggers...)
	return &c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
