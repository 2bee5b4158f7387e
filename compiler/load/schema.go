// Package load reads schema definitions from YAML and XML documents into
// the schema model compiled by dialect/sql/schema.
//
// Both formats decode into a Document first. The Document is then checked
// and converted with Document.Schema, so the two formats accept exactly
// the same definitions.
package load

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/syssam/rdb/dialect/sql/schema"
	"github.com/syssam/rdb/schema/field"
)

// Format is the encoding of a schema document.
type Format uint8

// Supported formats.
const (
	FormatYAML Format = iota + 1
	FormatXML
)

// String returns the name of the format.
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatXML:
		return "xml"
	}
	return "unknown"
}

// FormatOf returns the format of a schema file by its extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".xml", ".ddlx":
		return FormatXML, nil
	}
	return 0, fmt.Errorf("load: unsupported schema file %q (want .yaml, .yml or .xml)", path)
}

// Load reads and converts the schema file at path.
func Load(path string) (*schema.Schema, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	s, err := Unmarshal(buf, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return s, nil
}

// Unmarshal decodes and converts a schema document of the given format.
func Unmarshal(buf []byte, f Format) (*schema.Schema, error) {
	var (
		doc *Document
		err error
	)
	switch f {
	case FormatYAML:
		doc, err = decodeYAML(buf)
	case FormatXML:
		doc, err = decodeXML(buf)
	default:
		return nil, fmt.Errorf("load: unknown format %d", f)
	}
	if err != nil {
		return nil, err
	}
	return doc.Schema()
}

// Document is the decoded form of a schema file.
type Document struct {
	Name   string      `yaml:"name,omitempty"`
	Tables []*TableDoc `yaml:"tables"`
}

// TableDoc is a table of a Document.
type TableDoc struct {
	Name        string           `yaml:"name"`
	Extends     string           `yaml:"extends,omitempty"`
	Abstract    bool             `yaml:"abstract,omitempty"`
	Skip        bool             `yaml:"skip,omitempty"`
	Comment     string           `yaml:"comment,omitempty"`
	Columns     []*ColumnDoc     `yaml:"columns"`
	PrimaryKey  []string         `yaml:"primary_key,omitempty"`
	Unique      [][]string       `yaml:"unique,omitempty"`
	ForeignKeys []*ForeignKeyDoc `yaml:"foreign_keys,omitempty"`
	Indexes     []*IndexDoc      `yaml:"indexes,omitempty"`
	Triggers    []*TriggerDoc    `yaml:"triggers,omitempty"`
}

// ColumnDoc is a column of a TableDoc. Columns are nullable unless
// Nullable is set to false or the column is part of the primary key.
type ColumnDoc struct {
	Name             string   `yaml:"name"`
	Type             string   `yaml:"type"`
	Length           int64    `yaml:"length,omitempty"`
	Precision        int      `yaml:"precision,omitempty"`
	Scale            int      `yaml:"scale,omitempty"`
	Unsigned         bool     `yaml:"unsigned,omitempty"`
	Varying          bool     `yaml:"varying,omitempty"`
	Values           []string `yaml:"values,omitempty"`
	Nullable         *bool    `yaml:"nullable,omitempty"`
	Default          any      `yaml:"default,omitempty"`
	Unique           bool     `yaml:"unique,omitempty"`
	Primary          bool     `yaml:"primary,omitempty"`
	KeyForUpdate     bool     `yaml:"key_for_update,omitempty"`
	GenerateOnInsert string   `yaml:"generate_on_insert,omitempty"`
	GenerateOnUpdate string   `yaml:"generate_on_update,omitempty"`
	Min              *int64   `yaml:"min,omitempty"`
	Max              *int64   `yaml:"max,omitempty"`
	Comment          string   `yaml:"comment,omitempty"`
}

// ForeignKeyDoc is a foreign key of a TableDoc.
type ForeignKeyDoc struct {
	Name       string   `yaml:"name,omitempty"`
	Columns    []string `yaml:"columns"`
	References string   `yaml:"references"`
	RefColumns []string `yaml:"ref_columns"`
	OnDelete   string   `yaml:"on_delete,omitempty"`
	OnUpdate   string   `yaml:"on_update,omitempty"`
}

// IndexDoc is an index of a TableDoc.
type IndexDoc struct {
	Name    string   `yaml:"name,omitempty"`
	Columns []string `yaml:"columns"`
	Unique  bool     `yaml:"unique,omitempty"`
	Type    string   `yaml:"type,omitempty"`
}

// TriggerDoc is a row trigger of a TableDoc.
type TriggerDoc struct {
	Name   string   `yaml:"name"`
	Time   string   `yaml:"time"`
	Events []string `yaml:"events"`
	Body   string   `yaml:"body"`
}

// decodeYAML decodes a single YAML document, rejecting unknown keys.
func decodeYAML(buf []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)
	doc := &Document{}
	if err := dec.Decode(doc); err != nil {
		return nil, fmt.Errorf("load: decode yaml: %w", err)
	}
	return doc, nil
}

// Schema checks the document and converts it to the schema model. All
// problems are reported, joined in a single error.
func (d *Document) Schema() (*schema.Schema, error) {
	var (
		errs []error
		s    = &schema.Schema{Name: d.Name}
	)
	if len(d.Tables) == 0 {
		return nil, errors.New("load: schema has no tables")
	}
	for i, td := range d.Tables {
		t, err := td.table()
		if err != nil {
			name := td.Name
			if name == "" {
				name = "#" + strconv.Itoa(i+1)
			}
			errs = append(errs, fmt.Errorf("load: table %s: %w", name, err))
			continue
		}
		s.Tables = append(s.Tables, t)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return s, nil
}

func (td *TableDoc) table() (*schema.Table, error) {
	if td.Name == "" {
		return nil, errors.New("missing name")
	}
	t := schema.NewTable(td.Name)
	t.Extends, t.Abstract, t.Skip, t.Comment = td.Extends, td.Abstract, td.Skip, td.Comment
	var errs []error
	for _, cd := range td.Columns {
		c, err := cd.column()
		if err != nil {
			errs = append(errs, fmt.Errorf("column %s: %w", cd.Name, err))
			continue
		}
		t.AddColumns(c)
	}
	t.AddPrimary(td.PrimaryKey...)
	for _, u := range td.Unique {
		t.AddUnique(u...)
	}
	for _, fd := range td.ForeignKeys {
		fk, err := fd.foreignKey()
		if err != nil {
			errs = append(errs, fmt.Errorf("foreign key %s: %w", fd.Name, err))
			continue
		}
		t.AddForeignKey(fk)
	}
	for _, id := range td.Indexes {
		idx, err := id.index()
		if err != nil {
			errs = append(errs, fmt.Errorf("index %s: %w", id.Name, err))
			continue
		}
		t.AddIndex(idx)
	}
	for _, tr := range td.Triggers {
		trig, err := tr.trigger()
		if err != nil {
			errs = append(errs, fmt.Errorf("trigger %s: %w", tr.Name, err))
			continue
		}
		t.AddTrigger(trig)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	// A primary key declared on the columns is kept in declaration order.
	if len(t.PrimaryKey) == 0 {
		for _, c := range t.Columns {
			if c.Primary {
				t.AddPrimary(c.Name)
			}
		}
	}
	for _, c := range t.Columns {
		for _, pk := range t.PrimaryKey {
			if c.Name == pk && td.column(c.Name).Nullable == nil {
				c.Nullable = false
			}
		}
	}
	return t, nil
}

func (td *TableDoc) column(name string) *ColumnDoc {
	for _, cd := range td.Columns {
		if cd.Name == name {
			return cd
		}
	}
	return &ColumnDoc{}
}

func (cd *ColumnDoc) column() (*schema.Column, error) {
	if cd.Name == "" {
		return nil, errors.New("missing name")
	}
	typ, err := field.ParseType(cd.Type)
	if err != nil {
		return nil, err
	}
	c := &schema.Column{
		Name: cd.Name,
		Spec: field.Spec{
			Type:      typ,
			Length:    cd.Length,
			Precision: cd.Precision,
			Scale:     cd.Scale,
			Unsigned:  cd.Unsigned,
			Varying:   cd.Varying || strings.HasPrefix(strings.ToLower(cd.Type), "var"),
			Values:    cd.Values,
		},
		Nullable:     cd.Nullable == nil || *cd.Nullable,
		Unique:       cd.Unique,
		Primary:      cd.Primary,
		KeyForUpdate: cd.KeyForUpdate,
		Min:          cd.Min,
		Max:          cd.Max,
		Comment:      cd.Comment,
	}
	if typ == field.TypeEnum && len(c.Values) == 0 {
		return nil, errors.New("enum without values")
	}
	if c.GenerateOnInsert, err = field.ParseGenerate(cd.GenerateOnInsert); err != nil {
		return nil, err
	}
	if c.GenerateOnUpdate, err = field.ParseGenerate(cd.GenerateOnUpdate); err != nil {
		return nil, err
	}
	if c.Default, err = coerceDefault(typ, cd.Default); err != nil {
		return nil, err
	}
	return c, nil
}

// coerceDefault converts textual defaults of boolean and numeric columns.
// XML attributes are always text, YAML scalars may already be typed.
func coerceDefault(t field.Type, v any) (any, error) {
	if n, ok := v.(int); ok {
		return int64(n), nil
	}
	s, ok := v.(string)
	if !ok {
		return v, nil
	}
	switch {
	case t == field.TypeBoolean:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("default %q is not a boolean", s)
		}
		return b, nil
	case t.Integer():
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("default %q is not an integer", s)
		}
		return n, nil
	case t == field.TypeFloat || t == field.TypeDouble:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("default %q is not a number", s)
		}
		return f, nil
	}
	return s, nil
}

func (fd *ForeignKeyDoc) foreignKey() (*schema.ForeignKey, error) {
	if fd.References == "" {
		return nil, errors.New("missing referenced table")
	}
	if len(fd.Columns) == 0 || len(fd.Columns) != len(fd.RefColumns) {
		return nil, fmt.Errorf("%d columns reference %d columns", len(fd.Columns), len(fd.RefColumns))
	}
	onDelete, err := referenceOption(fd.OnDelete)
	if err != nil {
		return nil, err
	}
	onUpdate, err := referenceOption(fd.OnUpdate)
	if err != nil {
		return nil, err
	}
	return &schema.ForeignKey{
		Symbol:     fd.Name,
		Columns:    fd.Columns,
		RefTable:   fd.References,
		RefColumns: fd.RefColumns,
		OnDelete:   onDelete,
		OnUpdate:   onUpdate,
	}, nil
}

func referenceOption(s string) (schema.ReferenceOption, error) {
	name := strings.ToUpper(strings.Join(strings.Fields(strings.ReplaceAll(s, "_", " ")), " "))
	switch opt := schema.ReferenceOption(name); opt {
	case "", schema.NoAction, schema.Restrict, schema.Cascade, schema.SetNull, schema.SetDefault:
		return opt, nil
	}
	return "", fmt.Errorf("unknown reference option %q", s)
}

func (id *IndexDoc) index() (*schema.Index, error) {
	if len(id.Columns) == 0 {
		return nil, errors.New("no columns")
	}
	idx := &schema.Index{Name: id.Name, Columns: id.Columns, Unique: id.Unique}
	switch strings.ToUpper(id.Type) {
	case "":
	case "BTREE":
		idx.Type = schema.IndexBTree
	case "HASH":
		idx.Type = schema.IndexHash
	default:
		return nil, fmt.Errorf("unknown index type %q", id.Type)
	}
	return idx, nil
}

func (tr *TriggerDoc) trigger() (*schema.Trigger, error) {
	timing := strings.ToUpper(tr.Time)
	if timing != "BEFORE" && timing != "AFTER" {
		return nil, fmt.Errorf("unknown trigger time %q", tr.Time)
	}
	if len(tr.Events) == 0 {
		return nil, errors.New("no events")
	}
	events := make([]string, len(tr.Events))
	for i, e := range tr.Events {
		events[i] = strings.ToUpper(e)
		switch events[i] {
		case "INSERT", "UPDATE", "DELETE":
		default:
			return nil, fmt.Errorf("unknown trigger event %q", e)
		}
	}
	return &schema.Trigger{Name: tr.Name, Timing: timing, Events: events, Body: strings.TrimSpace(tr.Body)}, nil
}
