package sqlerr

import (
	"context"
	stdsql "database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stateErr string

func (e stateErr) Error() string    { return "derby: " + string(e) }
func (e stateErr) SQLState() string { return string(e) }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindNone},
		{"plain", errors.New("boom"), KindNone},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, KindUnique},
		{"mysql parent", &mysql.MySQLError{Number: 1451}, KindForeignKey},
		{"mysql child", &mysql.MySQLError{Number: 1452}, KindForeignKey},
		{"mysql check", &mysql.MySQLError{Number: 3819}, KindCheck},
		{"mysql not null", &mysql.MySQLError{Number: 1048}, KindNotNull},
		{"mysql other", &mysql.MySQLError{Number: 1146}, KindNone},
		{"pgx unique", &pgconn.PgError{Code: "23505"}, KindUnique},
		{"pgx check", &pgconn.PgError{Code: "23514"}, KindCheck},
		{"pq foreign key", &pq.Error{Code: "23503"}, KindForeignKey},
		{"pq not null", &pq.Error{Code: "23502"}, KindNotNull},
		{"derby check", stateErr("23513"), KindCheck},
		{"derby unique", stateErr("23505"), KindUnique},
		{"wrapped", fmt.Errorf("dialect/sql: exec: %w", &mysql.MySQLError{Number: 1062}), KindUnique},
		{"oracle message", errors.New("ORA-00001: unique constraint (X.PK) violated"), KindUnique},
		{"sqlite message", errors.New("NOT NULL constraint failed: t.c"), KindNotNull},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestPredicates(t *testing.T) {
	err := &pgconn.PgError{Code: "23505"}
	assert.True(t, IsConstraintError(err))
	assert.True(t, IsUniqueConstraintError(err))
	assert.False(t, IsForeignKeyConstraintError(err))
	assert.False(t, IsCheckConstraintError(err))
	assert.False(t, IsNotNullConstraintError(err))
	assert.False(t, IsConstraintError(errors.New("connection refused")))
}

func TestSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := stdsql.Open("sqlite", "file:sqlerr?mode=memory&_pragma=foreign_keys(1)")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)
	_, err = db.ExecContext(ctx, `CREATE TABLE "p" ("id" INTEGER PRIMARY KEY, "v" INTEGER NOT NULL CHECK ("v" > 0))`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `CREATE TABLE "c" ("id" INTEGER PRIMARY KEY, "p" INTEGER REFERENCES "p" ("id"))`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO "p" ("id", "v") VALUES (1, 1)`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO "p" ("id", "v") VALUES (1, 2)`)
	assert.Equal(t, KindUnique, Classify(err))
	_, err = db.ExecContext(ctx, `INSERT INTO "p" ("id", "v") VALUES (2, 0)`)
	assert.Equal(t, KindCheck, Classify(err))
	_, err = db.ExecContext(ctx, `INSERT INTO "p" ("id", "v") VALUES (3, NULL)`)
	assert.Equal(t, KindNotNull, Classify(err))
	_, err = db.ExecContext(ctx, `INSERT INTO "c" ("id", "p") VALUES (1, 9)`)
	assert.Equal(t, KindForeignKey, Classify(err))
}
