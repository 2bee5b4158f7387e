package sql

import (
	"context"
	stdsql "database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/syssam/rdb"
	"github.com/syssam/rdb/dialect"
	"github.com/syssam/rdb/dialect/sql/sqlerr"
	"github.com/syssam/rdb/schema/field"
)

// openSQLite returns a driver over a private in-memory database with the
// office, emp and account tables.
func openSQLite(t *testing.T) *Driver {
	t.Helper()
	db, err := stdsql.Open("sqlite", "file:"+t.Name()+"?mode=memory")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	for _, stmt := range []string{
		`CREATE TABLE "office" ("id" INTEGER PRIMARY KEY AUTOINCREMENT, "city" VARCHAR(50), "budget" DECIMAL(10, 2), "opened" DATE, "active" BOOLEAN)`,
		`CREATE TABLE "emp" ("id" INTEGER PRIMARY KEY, "office_id" INTEGER NOT NULL, "name" VARCHAR(40) NOT NULL, "hired" DATETIME NOT NULL)`,
		`CREATE TABLE "account" ("id" INTEGER PRIMARY KEY, "balance" INTEGER NOT NULL, "version" INTEGER NOT NULL)`,
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return OpenDB(dialect.SQLite, db)
}

func TestExec_SQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	drv := openSQLite(t)
	office, _, _ := testTables()
	office.C("city").Set("Rome")
	office.C("active").Set(true)
	office.C("budget").Set(decimal.RequireFromString("1250.50"))
	n, err := Exec(ctx, drv, Insert(office))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	require.Equal(t, int64(1), office.C("id").Get())

	q, _, _ := testTables()
	cur, err := Query(ctx, drv, Select(q).Where(EQ(q.C("id"), office.C("id").Get())))
	require.NoError(t, err)
	require.True(t, cur.Next())
	row := cur.Row()
	require.Len(t, row, 1)
	got := row[0].(*Table)
	assert.NotSame(t, q, got)
	assert.Equal(t, "Rome", got.C("city").Get())
	assert.Equal(t, true, got.C("active").Get())
	assert.True(t, decimal.RequireFromString("1250.5").Equal(got.C("budget").Get().(decimal.Decimal)))
	assert.Nil(t, got.C("opened").Get())
	assert.False(t, got.C("city").WasSet())
	require.False(t, cur.Next())
	require.NoError(t, cur.Err())
	require.NoError(t, cur.Close())
	require.NoError(t, cur.Close())

	got.C("city").Set("Milan")
	n, err = Exec(ctx, drv, Update(got))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	n, err = Exec(ctx, drv, Update(got.New()))
	require.NoError(t, err)
	require.Zero(t, n)

	cur, err = Query(ctx, drv, Select(q.C("city")).Where(EQ(q.C("id"), 1)))
	require.NoError(t, err)
	require.True(t, cur.Next())
	require.Equal(t, []any{"Milan"}, cur.Values())
	require.NoError(t, cur.Close())

	n, err = Exec(ctx, drv, Delete(q).Where(EQ(q.C("id"), 1)))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestExec_SQLiteCrossJoin(t *testing.T) {
	ctx := context.Background()
	drv := openSQLite(t)
	office, emp, _ := testTables()
	hired := time.Date(2021, 3, 4, 9, 0, 0, 0, time.UTC)
	for i := 1; i <= 3; i++ {
		_, err := Exec(ctx, drv, Insert(office).Columns(office.C("id"), office.C("city")).Values(int64(i), "city"))
		require.NoError(t, err)
	}
	for i := 1; i <= 4; i++ {
		_, err := Exec(ctx, drv, Insert(emp).Values(int64(i), int64(1), "name", hired))
		require.NoError(t, err)
	}
	cur, err := Query(ctx, drv, Select(CountAll()).From(office).CrossJoin(emp))
	require.NoError(t, err)
	defer cur.Close()
	require.True(t, cur.Next())
	require.Equal(t, int64(12), cur.Row()[0].(*Column).Get())
}

func TestExec_SQLitePaging(t *testing.T) {
	ctx := context.Background()
	drv := openSQLite(t)
	office, _, _ := testTables()
	for i := 1; i <= 5; i++ {
		o := office.New()
		o.C("city").Set("c")
		_, err := Exec(ctx, drv, Insert(o))
		require.NoError(t, err)
		require.Equal(t, int64(i), o.C("id").Get())
	}
	cur, err := Query(ctx, drv, Select(office.C("id")).OrderBy(office.C("id")).Limit(2).Offset(1))
	require.NoError(t, err)
	defer cur.Close()
	var ids []any
	for cur.Next() {
		ids = append(ids, cur.Row()[0].(*Column).Get())
	}
	require.NoError(t, cur.Err())
	require.Equal(t, []any{int64(2), int64(3)}, ids)
}

func TestExec_SQLiteIncrement(t *testing.T) {
	ctx := context.Background()
	drv := openSQLite(t)
	_, _, account := testTables()
	_, err := Exec(ctx, drv, Insert(account).Values(int64(1), int64(100), int64(4)))
	require.NoError(t, err)

	cur, err := Query(ctx, drv, Select(account).Where(EQ(account.C("id"), 1)))
	require.NoError(t, err)
	require.True(t, cur.Next())
	acc := cur.Row()[0].(*Table)
	require.NoError(t, cur.Close())

	acc.C("balance").Increment(int64(5))
	n, err := Exec(ctx, drv, Update(acc))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	require.Equal(t, int64(105), acc.C("balance").Get())
	require.Equal(t, int64(5), acc.C("version").Get())

	// A stale version matches no row.
	stale := acc.New()
	stale.C("id").Set(int64(1))
	stale.C("version").load(int64(4))
	stale.C("balance").Set(int64(0))
	n, err = Exec(ctx, drv, Update(stale))
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestExec_SQLiteIncrementDouble(t *testing.T) {
	ctx := context.Background()
	drv := openSQLite(t)
	_, err := drv.DB().ExecContext(ctx, `CREATE TABLE "gauge" ("id" INTEGER PRIMARY KEY, "score" DOUBLE NOT NULL)`)
	require.NoError(t, err)
	gauge := NewTable("gauge")
	gauge.AddColumn("id", field.Spec{Type: field.TypeBigint}, Primary())
	gauge.AddColumn("score", field.Spec{Type: field.TypeDouble})
	_, err = Exec(ctx, drv, Insert(gauge).Values(int64(1), 1.5))
	require.NoError(t, err)

	row := gauge.New()
	row.C("id").load(int64(1))
	row.C("score").load(1.5)
	row.C("score").Increment(int64(2))
	n, err := Exec(ctx, drv, Update(row))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	assert.Equal(t, 3.5, row.C("score").Get())

	// The delta is consumed: a second update leaves the score alone.
	n, err = Exec(ctx, drv, Update(row))
	require.NoError(t, err)
	assert.Zero(t, n)
	var score float64
	require.NoError(t, drv.DB().QueryRowContext(ctx, `SELECT "score" FROM "gauge" WHERE "id" = 1`).Scan(&score))
	assert.Equal(t, 3.5, score)
}

func TestExec_RejectsSelect(t *testing.T) {
	office, _, _ := testTables()
	_, err := Exec(context.Background(), openSQLite(t), Select(office))
	require.Error(t, err)
}

func TestExec_PostgresReturning(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB(dialect.Postgres, db)

	office, _, _ := testTables()
	office.C("city").Set("Rome")
	mock.ExpectQuery(`INSERT INTO "office" ("city") VALUES ($1) RETURNING "id"`).
		WithArgs("Rome").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))
	n, err := Exec(context.Background(), drv, Insert(office))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	require.Equal(t, int64(42), office.C("id").Get())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExec_FailedKeepsValues(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB(dialect.MySQL, db)

	_, _, account := testTables()
	account.C("id").load(int64(1))
	account.C("version").load(int64(4))
	account.C("balance").Set(int64(10))
	mock.ExpectExec("UPDATE `account` SET `balance` = ?, `version` = (`version` + ?) WHERE `id` = ? AND `version` = ?").
		WithArgs(int64(10), int64(1), int64(1), int64(4)).
		WillReturnError(errors.New("deadlock"))
	_, err = Exec(context.Background(), drv, Update(account))
	require.ErrorContains(t, err, "deadlock")
	require.True(t, rdb.IsMutationError(err))
	require.False(t, rdb.IsConstraintError(err))
	require.Equal(t, int64(4), account.C("version").Get())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExec_DerbyRegistry(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB(dialect.Derby, db)

	routines := drv.Registry().Routines()
	require.Len(t, routines, 14)
	for i, stmt := range routines {
		e := mock.ExpectExec(stmt)
		if i == 0 {
			e.WillReturnError(errors.New("SQLState X0Y68: FUNCTION 'LOG' already exists"))
			continue
		}
		e.WillReturnResult(sqlmock.NewResult(0, 0))
	}
	_, emp, _ := testTables()
	mock.ExpectExec(`DELETE FROM "emp" WHERE "id" = ?`).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "emp" WHERE "id" = ?`).WithArgs(int64(4)).WillReturnResult(sqlmock.NewResult(0, 0))

	emp.C("id").Set(int64(3))
	n, err := Exec(context.Background(), drv, Delete(emp))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	emp.C("id").Set(int64(4))
	n, err = Exec(context.Background(), drv, Delete(emp))
	require.NoError(t, err)
	require.Zero(t, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExec_DerbyRegistryRetry(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB(dialect.Derby, db, FunctionClass("com.example.Fn"))

	routines := drv.Registry().Routines()
	require.Contains(t, routines[0], "EXTERNAL NAME 'com.example.Fn.log'")
	mock.ExpectExec(routines[0]).WillReturnError(errors.New("connection reset"))
	_, emp, _ := testTables()
	emp.C("id").Set(int64(3))
	_, err = Exec(context.Background(), drv, Delete(emp))
	require.ErrorContains(t, err, "register routine")
	require.NoError(t, mock.ExpectationsWereMet())

	for _, stmt := range routines {
		mock.ExpectExec(stmt).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectExec(`DELETE FROM "emp" WHERE "id" = ?`).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 1))
	_, err = Exec(context.Background(), drv, Delete(emp))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistry_OtherVendors(t *testing.T) {
	for _, v := range dialect.Vendors {
		if v == dialect.Derby {
			continue
		}
		r := NewRegistry(v)
		assert.Empty(t, r.Routines(), v.String())
		assert.NoError(t, r.Ensure(context.Background(), nil), v.String())
	}
	var r *Registry
	assert.NoError(t, r.Ensure(context.Background(), nil))
}

func TestQuery_OracleSkipsRownum(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB(dialect.Oracle, db)

	office, _, _ := testTables()
	sel := Select(office.C("id"), office.C("city")).OrderBy(office.C("id")).Limit(1).Offset(1)
	c, err := Compile(sel, dialect.Oracle, quiet)
	require.NoError(t, err)
	mock.ExpectQuery(c.SQL).WillReturnRows(
		sqlmock.NewRows([]string{"rnum3729", "id", "city"}).AddRow(int64(2), int64(8), " "),
	)
	cur, err := Query(context.Background(), drv, sel)
	require.NoError(t, err)
	require.True(t, cur.Next())
	require.Equal(t, []any{int64(8), ""}, cur.Values())
	require.NoError(t, cur.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCursor_CloseError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB(dialect.Postgres, db)

	office, _, _ := testTables()
	mock.ExpectQuery(`SELECT a."city" FROM "office" a`).
		WillReturnRows(sqlmock.NewRows([]string{"city"}).AddRow("Paris").CloseError(errors.New("boom")))
	cur, err := Query(context.Background(), drv, Select(office.C("city")))
	require.NoError(t, err)
	require.True(t, cur.Next())
	require.Equal(t, "Paris", cur.Row()[0].(*Column).Get())
	require.ErrorContains(t, cur.Close(), "boom")
	require.NoError(t, cur.Close())
}

func TestExec_SQLiteConstraint(t *testing.T) {
	ctx := context.Background()
	drv := openSQLite(t)
	hired := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		_, emp, _ := testTables()
		emp.C("id").Set(int64(1))
		emp.C("office_id").Set(int64(1))
		emp.C("name").Set("Ada")
		emp.C("hired").Set(hired)
		_, err := Exec(ctx, drv, Insert(emp))
		if i == 0 {
			require.NoError(t, err)
			continue
		}
		require.Error(t, err)
		var me *rdb.MutationError
		require.ErrorAs(t, err, &me)
		assert.Equal(t, "emp", me.Table)
		assert.Equal(t, "insert", me.Op)
		var ce rdb.ConstraintError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, sqlerr.KindUnique, ce.Kind())
	}
}

func TestQueryOne(t *testing.T) {
	ctx := context.Background()
	drv := openSQLite(t)
	for _, city := range []string{"Oslo", "Lima", "Lima"} {
		office, _, _ := testTables()
		office.C("city").Set(city)
		_, err := Exec(ctx, drv, Insert(office))
		require.NoError(t, err)
	}

	q, _, _ := testTables()
	row, err := QueryOne(ctx, drv, Select(q).Where(EQ(q.C("city"), "Oslo")))
	require.NoError(t, err)
	require.Equal(t, int64(1), row[0].(*Table).C("id").Get())

	_, err = QueryOne(ctx, drv, Select(q).Where(EQ(q.C("city"), "Quito")))
	require.True(t, rdb.IsNotFound(err))
	require.ErrorContains(t, err, "office not found")

	_, err = QueryOne(ctx, drv, Select(q.C("id")).Where(EQ(q.C("city"), "Lima")))
	var ns *rdb.NotSingularError
	require.ErrorAs(t, err, &ns)
	require.Equal(t, 2, ns.Count())
}

func TestQuery_Error(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB(dialect.Postgres, db)

	office, _, _ := testTables()
	mock.ExpectQuery(`SELECT a."city" FROM "office" a`).WillReturnError(errors.New("relation does not exist"))
	_, err = Query(context.Background(), drv, Select(office.C("city")))
	var qe *rdb.QueryError
	require.ErrorAs(t, err, &qe)
	require.Equal(t, "office", qe.Table)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()
	drv := openSQLite(t)

	err := WithTx(ctx, drv, func(tx *Tx) error {
		_, _, account := testTables()
		account.C("id").Set(int64(1))
		account.C("balance").Set(int64(10))
		account.C("version").Set(int64(1))
		_, err := Exec(ctx, tx, Insert(account))
		return err
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = WithTx(ctx, drv, func(tx *Tx) error {
		_, _, account := testTables()
		account.C("id").Set(int64(2))
		account.C("balance").Set(int64(20))
		account.C("version").Set(int64(1))
		if _, err := Exec(ctx, tx, Insert(account)); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, _, q := testTables()
	cur, err := Query(ctx, drv, Select(q.C("id")))
	require.NoError(t, err)
	var ids []any
	for cur.Next() {
		ids = append(ids, cur.Values()[0])
	}
	require.NoError(t, cur.Close())
	require.Equal(t, []any{int64(1)}, ids)
}

func TestWithTx_RollbackError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB(dialect.MySQL, db)

	mock.ExpectBegin()
	mock.ExpectRollback().WillReturnError(errors.New("connection lost"))
	boom := errors.New("boom")
	err = WithTx(context.Background(), drv, func(*Tx) error { return boom })
	require.ErrorIs(t, err, boom)
	var re *rdb.RollbackError
	require.ErrorAs(t, err, &re)
	require.NoError(t, mock.ExpectationsWereMet())
}
