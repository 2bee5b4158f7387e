// Package sql compiles statement trees to vendor-specific SQL and executes
// them over database/sql.
//
// Statements are built from tables and columns, either declared in code
// or derived from a flattened schema with TableOf. The same tree compiles
// to MySQL, MariaDB, PostgreSQL, Oracle, Derby and SQLite; the compiler
// assigns table aliases, binds values as placeholders in text order and
// rewrites the constructs a vendor spells differently.
//
// # Building Statements
//
//	office := sql.NewTable("office")
//	id := office.AddColumn("id", field.Spec{Type: field.TypeBigint}, sql.Primary(), sql.GenerateOnInsert(field.GenerateAutoIncrement))
//	city := office.AddColumn("city", field.Spec{Type: field.TypeChar, Length: 50, Varying: true})
//
//	sel := sql.Select(office).
//	    Where(sql.And(sql.GT(id, 10), sql.HasPrefix(city, "Par"))).
//	    OrderBy(sql.Desc(id)).
//	    Limit(10)
//
//	c, err := sql.Compile(sel, dialect.Postgres)
//	// SELECT a."id", a."city" FROM "office" a WHERE a."id" > $1 AND a."city" LIKE 'Par%' ESCAPE '!' ORDER BY a."id" DESC LIMIT 10
//
// FROM is derived from the select items when it is not given. Joins take
// their condition from the following On call.
//
// # Object Statements
//
// A table whose columns hold values acts as a record. Selecting only
// tables without Where matches the set columns; Insert writes the set
// columns and client-generated values; Update writes the changed columns
// keyed by the primary key; Delete matches the set columns:
//
//	city.Set("Paris")
//	n, err := sql.Exec(ctx, drv, sql.Update(office))
//
// Generated keys and values are stored back into the columns once the
// statement succeeds.
//
// # Vendor Differences
//
// Paging, locking, upserts, date arithmetic, casts and several functions
// are rewritten per vendor. When a vendor cannot express a construct and
// a weaker substitute exists, such as FOR SHARE on Oracle, the substitute
// is used and a warning is recorded in Compiled.Warnings and logged once.
//
// # Execution
//
// Exec and Query run compiled statements on a Session, which is a Driver,
// a Tx or one of the stats and debug wrappers:
//
//	drv, err := sql.Open(dialect.SQLite, "file:rdb.db")
//	cur, err := sql.Query(ctx, drv, sel)
//	defer cur.Close()
//	for cur.Next() {
//	    row := cur.Row()[0].(*sql.Table)
//	    fmt.Println(row.C("city").Get())
//	}
//
// Derby sessions install the functions and procedures the compiled SQL
// relies on through the driver's Registry before the first statement.
package sql
