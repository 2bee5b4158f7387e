package schema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/rdb/schema/field"
)

func TestValidateTable(t *testing.T) {
	tbl := NewTable("orders").
		AddColumns(
			&Column{Name: "id", Spec: field.Spec{Type: field.TypeInt}, Nullable: true},
			&Column{Name: "user", Spec: field.Spec{Type: field.TypeInt}},
		).
		AddPrimary("id").
		AddIndex(&Index{Name: "i", Columns: []string{"user"}}, &Index{Name: "i", Columns: []string{"nope"}}).
		AddForeignKey(&ForeignKey{Columns: []string{"user"}, RefTable: "users", RefColumns: []string{"id", "tenant"}})

	res := ValidateTable(tbl)
	require.Len(t, res.Warnings, 2)
	require.Equal(t, "The name 'user' is reserved word in SQL-92, SQL-99, SQL-2003", res.Warnings[0].Message)
	require.Equal(t, "primary key column is NULL", res.Warnings[1].Message)
	require.Len(t, res.Errors, 3)
	require.Equal(t, "duplicate index name: i", res.Errors[0].Message)
	require.Equal(t, `index "i" references non-existent column "nope"`, res.Errors[1].Message)
	require.Contains(t, res.Errors[2].Message, "has 1 columns but references 2")

	res = ValidateTable(tbl, StrictPrimaryKey())
	require.Len(t, res.Errors, 4)
}

func TestValidateSchema_References(t *testing.T) {
	users := NewTable("users").AddColumns(&Column{Name: "id", Spec: field.Spec{Type: field.TypeInt}}).AddPrimary("id")
	posts := NewTable("posts").
		AddColumns(
			&Column{Name: "id", Spec: field.Spec{Type: field.TypeInt}},
			&Column{Name: "author", Spec: field.Spec{Type: field.TypeInt}},
		).
		AddPrimary("id").
		AddForeignKey(
			&ForeignKey{Columns: []string{"author"}, RefTable: "users", RefColumns: []string{"uid"}},
			&ForeignKey{Columns: []string{"author"}, RefTable: "people", RefColumns: []string{"id"}},
		)
	res := ValidateSchema([]*Table{users, posts})
	require.Len(t, res.Errors, 2)
	require.Equal(t, `foreign key references non-existent column "uid" of table "users"`, res.Errors[0].Message)
	require.Equal(t, `foreign key references non-existent table "people"`, res.Errors[1].Message)
}

func TestValidateDiff(t *testing.T) {
	current := []*Table{
		NewTable("users").
			AddColumns(
				&Column{Name: "id", Spec: field.Spec{Type: field.TypeInt}},
				&Column{Name: "name", Spec: field.Spec{Type: field.TypeChar, Length: 100, Varying: true}, Nullable: true},
				&Column{Name: "nick", Spec: field.Spec{Type: field.TypeChar, Length: 10, Varying: true}},
			).
			AddIndex(&Index{Name: "idx_users_name", Columns: []string{"name"}}),
		NewTable("old"),
	}
	desired := []*Table{
		NewTable("users").
			AddColumns(
				&Column{Name: "id", Spec: field.Spec{Type: field.TypeBigint}},
				&Column{Name: "name", Spec: field.Spec{Type: field.TypeChar, Length: 50, Varying: true}},
				&Column{Name: "age", Spec: field.Spec{Type: field.TypeInt}},
			).
			AddIndex(&Index{Columns: []string{"name"}}),
	}
	res := ValidateDiff(current, desired)
	require.True(t, res.HasBreakingChanges())
	messages := func(errs []*ValidationError) []string {
		var out []string
		for _, e := range errs {
			out = append(out, e.Error())
		}
		return out
	}
	require.ElementsMatch(t, []string{
		"old: table will be dropped",
		"users.nick: column will be dropped",
		"users.name: column changing from NULL to NOT NULL may fail if column has NULL values",
	}, messages(res.Errors))
	require.ElementsMatch(t, []string{
		"users.id: column type changing from int to bigint",
		"users.name: column length reducing from 100 to 50 may truncate data",
		"users.age: new NOT NULL column without default value may fail if table has data",
	}, messages(res.Warnings))

	res = ValidateDiff(current, desired, AllowDropTable(), AllowDropColumn(), AllowNullToNotNull())
	require.False(t, res.HasErrors())
	require.Len(t, res.Warnings, 6)
}
