package schema

import (
	"context"
	"fmt"
	"strings"

	"ariga.io/atlas/sql/migrate"
	atlas "ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/sqlite"

	"github.com/syssam/rdb/dialect"
	"github.com/syssam/rdb/schema/field"
)

// Inspect reads the tables of a live database into the schema model, so
// that they can be compared with a desired schema using ValidateDiff.
// Inspection is supported for MySQL, MariaDB, Postgres and SQLite.
func Inspect(ctx context.Context, db atlas.ExecQuerier, v dialect.Vendor, name string) (*Schema, error) {
	var (
		drv migrate.Driver
		err error
	)
	switch v {
	case dialect.MySQL, dialect.MariaDB:
		drv, err = mysql.Open(db)
	case dialect.Postgres:
		drv, err = postgres.Open(db)
	case dialect.SQLite:
		drv, err = sqlite.Open(db)
	default:
		return nil, fmt.Errorf("schema: inspection is not supported for %s", v)
	}
	if err != nil {
		return nil, fmt.Errorf("schema: open %s inspector: %w", v, err)
	}
	s, err := drv.InspectSchema(ctx, name, nil)
	if err != nil {
		return nil, fmt.Errorf("schema: inspect: %w", err)
	}
	out := &Schema{Name: name}
	for _, t := range s.Tables {
		out.Tables = append(out.Tables, fromAtlasTable(t))
	}
	return out, nil
}

func fromAtlasTable(t *atlas.Table) *Table {
	tbl := NewTable(t.Name)
	for _, c := range t.Columns {
		tbl.AddColumns(fromAtlasColumn(c))
	}
	if t.PrimaryKey != nil {
		tbl.PrimaryKey = partNames(t.PrimaryKey.Parts)
		// SQLite reports rowid aliases as nullable.
		for _, name := range tbl.PrimaryKey {
			if c, ok := tbl.Column(name); ok {
				c.Nullable = false
			}
		}
	}
	for _, idx := range t.Indexes {
		tbl.AddIndex(&Index{Name: idx.Name, Unique: idx.Unique, Columns: partNames(idx.Parts)})
	}
	for _, fk := range t.ForeignKeys {
		f := &ForeignKey{
			Symbol:   fk.Symbol,
			Columns:  columnNames(fk.Columns),
			OnUpdate: ReferenceOption(fk.OnUpdate),
			OnDelete: ReferenceOption(fk.OnDelete),
		}
		if fk.RefTable != nil {
			f.RefTable = fk.RefTable.Name
		}
		f.RefColumns = columnNames(fk.RefColumns)
		tbl.AddForeignKey(f)
	}
	return tbl
}

func fromAtlasColumn(c *atlas.Column) *Column {
	col := &Column{Name: c.Name}
	if c.Type != nil {
		col.Nullable = c.Type.Null
		col.Spec = specOf(c.Type.Type)
	}
	for _, a := range c.Attrs {
		switch a.(type) {
		case *sqlite.AutoIncrement, *mysql.AutoIncrement, *postgres.Identity:
			col.GenerateOnInsert = field.GenerateAutoIncrement
		}
	}
	switch x := c.Default.(type) {
	case *atlas.Literal:
		col.Default = strings.Trim(x.V, "'")
	case *atlas.RawExpr:
		if strings.HasPrefix(strings.ToLower(x.X), "nextval(") {
			col.GenerateOnInsert = field.GenerateAutoIncrement
		} else {
			col.Default = x.X
		}
	}
	return col
}

// specOf maps an inspected column type to the closest field type.
func specOf(t atlas.Type) field.Spec {
	switch t := t.(type) {
	case *atlas.IntegerType:
		s := field.Spec{Unsigned: t.Unsigned}
		switch strings.ToLower(t.T) {
		case "tinyint":
			s.Type = field.TypeTinyint
		case "smallint", "int2":
			s.Type = field.TypeSmallint
		case "bigint", "int8", "bigserial":
			s.Type = field.TypeBigint
		default:
			s.Type = field.TypeInt
		}
		return s
	case *atlas.BoolType:
		return field.Spec{Type: field.TypeBoolean}
	case *atlas.DecimalType:
		return field.Spec{Type: field.TypeDecimal, Precision: t.Precision, Scale: t.Scale, Unsigned: t.Unsigned}
	case *atlas.FloatType:
		if strings.Contains(strings.ToLower(t.T), "double") || t.Precision > 24 {
			return field.Spec{Type: field.TypeDouble, Unsigned: t.Unsigned}
		}
		return field.Spec{Type: field.TypeFloat, Unsigned: t.Unsigned}
	case *atlas.StringType:
		typ := strings.ToLower(t.T)
		if strings.Contains(typ, "text") || strings.Contains(typ, "clob") {
			return field.Spec{Type: field.TypeClob, Length: int64(t.Size)}
		}
		return field.Spec{Type: field.TypeChar, Length: int64(t.Size), Varying: strings.Contains(typ, "var")}
	case *atlas.BinaryType:
		s := field.Spec{Type: field.TypeBlob}
		if t.Size != nil {
			s.Length = int64(*t.Size)
		}
		if typ := strings.ToLower(t.T); strings.Contains(typ, "binary") {
			s.Type, s.Varying = field.TypeBinary, strings.Contains(typ, "var")
		}
		return s
	case *atlas.TimeType:
		s := field.Spec{}
		if t.Precision != nil {
			s.Precision = *t.Precision
		}
		switch typ := strings.ToLower(t.T); {
		case typ == "date":
			s.Type = field.TypeDate
		case strings.HasPrefix(typ, "time") && !strings.HasPrefix(typ, "timestamp"):
			s.Type = field.TypeTime
		default:
			s.Type = field.TypeDateTime
		}
		return s
	case *atlas.EnumType:
		return field.Spec{Type: field.TypeEnum, Values: t.Values}
	case *postgres.IntervalType:
		return field.Spec{Type: field.TypeInterval}
	}
	return field.Spec{}
}

func partNames(parts []*atlas.IndexPart) []string {
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p.C != nil {
			names = append(names, p.C.Name)
		}
	}
	return names
}

func columnNames(cs []*atlas.Column) []string {
	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = c.Name
	}
	return names
}
