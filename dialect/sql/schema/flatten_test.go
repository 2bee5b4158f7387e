package schema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/rdb/schema/field"
)

func inheritanceSchema() *Schema {
	return &Schema{Tables: []*Table{
		NewTable("entity").SetAbstract().
			AddColumns(
				&Column{Name: "id", Spec: field.Spec{Type: field.TypeBigint}, Primary: true},
				&Column{Name: "created", Spec: field.Spec{Type: field.TypeDateTime}, GenerateOnInsert: field.GenerateTimestamp},
			).
			AddIndex(&Index{Columns: []string{"created"}}),
		NewTable("named").SetAbstract().SetExtends("entity").
			AddColumns(&Column{Name: "label", Spec: field.Spec{Type: field.TypeChar, Length: 64, Varying: true}}).
			AddUnique("label"),
		NewTable("product").SetExtends("named").
			AddColumns(&Column{Name: "price", Spec: field.Spec{Type: field.TypeDecimal, Precision: 10, Scale: 2}}),
	}}
}

func TestFlatten_Inheritance(t *testing.T) {
	flat, err := Flatten(inheritanceSchema())
	require.NoError(t, err)
	product, ok := flat.Table("product")
	require.True(t, ok)
	names := make([]string, len(product.Columns))
	for i, c := range product.Columns {
		names[i] = c.Name
	}
	require.Equal(t, []string{"id", "created", "label", "price"}, names)
	require.True(t, product.Columns[0].Inherited)
	require.True(t, product.Columns[2].Inherited)
	require.False(t, product.Columns[3].Inherited)
	require.Equal(t, []string{"id"}, product.PrimaryKey)
	require.Equal(t, [][]string{{"label"}}, product.Uniques)
	require.Len(t, product.Indexes, 1)
	require.Equal(t, "product", product.Name)
	require.Equal(t, "named", product.Extends)
}

func TestFlatten_Idempotent(t *testing.T) {
	once, err := Flatten(inheritanceSchema())
	require.NoError(t, err)
	twice, err := Flatten(once)
	require.NoError(t, err)
	require.Equal(t, once, twice)
}

func TestFlatten_DoesNotModifyInput(t *testing.T) {
	s := inheritanceSchema()
	_, err := Flatten(s)
	require.NoError(t, err)
	product, _ := s.Table("product")
	require.Len(t, product.Columns, 1)
	require.Empty(t, product.PrimaryKey)
}

func TestFlatten_Errors(t *testing.T) {
	tests := []struct {
		name   string
		tables []*Table
		msg    string
	}{
		{
			name: "cycle",
			tables: []*Table{
				NewTable("a").SetAbstract().SetExtends("b"),
				NewTable("b").SetAbstract().SetExtends("a"),
			},
			msg: "circular table dependency detected",
		},
		{
			name:   "unknown parent",
			tables: []*Table{NewTable("a").SetExtends("ghost")},
			msg:    "extends unknown table ghost",
		},
		{
			name:   "concrete parent",
			tables: []*Table{NewTable("a"), NewTable("b").SetExtends("a")},
			msg:    "extends non-abstract table a",
		},
		{
			name:   "duplicate",
			tables: []*Table{NewTable("a"), NewTable("a")},
			msg:    "duplicate table definition",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Flatten(&Schema{Tables: tt.tables})
			require.Error(t, err)
			require.ErrorIs(t, err, ErrSchemaCompilation)
			require.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestAudit(t *testing.T) {
	flat, err := Flatten(inheritanceSchema())
	require.NoError(t, err)
	a := NewAudit(flat)
	require.True(t, a.IsPrimary("product", "id"))
	require.True(t, a.IsPrimary("entity", "id"))
	require.False(t, a.IsPrimary("product", "price"))
	require.True(t, a.IsUnique("product", "label"))
	require.False(t, a.IsUnique("product", "price"))
	require.False(t, a.IsPrimary("missing", "id"))

	// Every flattened concrete table keeps a non-null primary key.
	for _, tbl := range flat.Tables {
		res := ValidateTable(tbl, StrictPrimaryKey())
		require.False(t, res.HasErrors(), res.String())
	}
}

func TestAudit_WalksExtends(t *testing.T) {
	s := &Schema{Tables: []*Table{
		NewTable("base").SetAbstract().AddColumns(&Column{Name: "id", Spec: field.Spec{Type: field.TypeInt}}).AddPrimary("id"),
		NewTable("leaf").SetExtends("base"),
	}}
	a := NewAudit(s)
	require.True(t, a.IsPrimary("leaf", "id"))
	tbl, ok := a.Table("leaf")
	require.True(t, ok)
	require.Empty(t, tbl.Columns)
}
