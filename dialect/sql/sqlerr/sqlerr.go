// Package sqlerr classifies the constraint violations reported by the
// database drivers of the supported vendors.
//
// Errors are matched on their typed driver error first (MySQL error
// numbers, PostgreSQL SQLSTATEs from pgx and lib/pq, SQLite extended
// result codes) and on the SQLSTATE of any error implementing
// SQLState() string, which covers Derby and Oracle bridges. Message
// matching is the last resort for wrapped errors that lost their type.
package sqlerr

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Kind is the kind of a constraint violation.
type Kind uint8

// Constraint violation kinds.
const (
	KindNone Kind = iota
	KindUnique
	KindForeignKey
	KindCheck
	KindNotNull
)

func (k Kind) String() string {
	switch k {
	case KindUnique:
		return "unique"
	case KindForeignKey:
		return "foreign key"
	case KindCheck:
		return "check"
	case KindNotNull:
		return "not null"
	}
	return "none"
}

// SQLSTATE codes of class 23. Derby reports check violations as 23513.
var sqlStates = map[string]Kind{
	"23505": KindUnique,
	"23503": KindForeignKey,
	"23514": KindCheck,
	"23513": KindCheck,
	"23502": KindNotNull,
}

// MySQL and MariaDB error numbers.
var mysqlNumbers = map[uint16]Kind{
	1062: KindUnique,
	1451: KindForeignKey, // cannot delete or update a parent row
	1452: KindForeignKey, // cannot add or update a child row
	3819: KindCheck,
	4025: KindCheck, // MariaDB
	1048: KindNotNull,
}

// SQLite extended result codes.
var sqliteCodes = map[int]Kind{
	sqlite3.SQLITE_CONSTRAINT_UNIQUE:     KindUnique,
	sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY: KindUnique,
	sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY: KindForeignKey,
	sqlite3.SQLITE_CONSTRAINT_CHECK:      KindCheck,
	sqlite3.SQLITE_CONSTRAINT_NOTNULL:    KindNotNull,
}

// messages are matched when no typed error is found.
var messages = []struct {
	text string
	kind Kind
}{
	{"Error 1062", KindUnique},
	{"violates unique constraint", KindUnique},
	{"UNIQUE constraint failed", KindUnique},
	{"ORA-00001", KindUnique},
	{"Error 1451", KindForeignKey},
	{"Error 1452", KindForeignKey},
	{"violates foreign key constraint", KindForeignKey},
	{"FOREIGN KEY constraint failed", KindForeignKey},
	{"ORA-02291", KindForeignKey},
	{"ORA-02292", KindForeignKey},
	{"Error 3819", KindCheck},
	{"violates check constraint", KindCheck},
	{"CHECK constraint failed", KindCheck},
	{"ORA-02290", KindCheck},
	{"Error 1048", KindNotNull},
	{"violates not-null constraint", KindNotNull},
	{"NOT NULL constraint failed", KindNotNull},
	{"ORA-01400", KindNotNull},
}

// sqlStateError is implemented by drivers exposing the SQLSTATE.
type sqlStateError interface {
	SQLState() string
}

// Classify returns the kind of constraint violated by err, or KindNone.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	var (
		myErr *mysql.MySQLError
		pgErr *pgconn.PgError
		pqErr *pq.Error
		ltErr *sqlite.Error
		state sqlStateError
	)
	switch {
	case errors.As(err, &myErr):
		return mysqlNumbers[myErr.Number]
	case errors.As(err, &pgErr):
		return sqlStates[pgErr.Code]
	case errors.As(err, &pqErr):
		return sqlStates[string(pqErr.Code)]
	case errors.As(err, &ltErr):
		return sqliteCodes[ltErr.Code()]
	case errors.As(err, &state):
		if k, ok := sqlStates[state.SQLState()]; ok {
			return k
		}
	}
	msg := err.Error()
	for _, m := range messages {
		if strings.Contains(msg, m.text) {
			return m.kind
		}
	}
	return KindNone
}

// IsConstraintError reports whether err is a constraint violation.
func IsConstraintError(err error) bool { return Classify(err) != KindNone }

// IsUniqueConstraintError reports whether err is a uniqueness violation,
// such as a duplicate value in a unique index or primary key.
func IsUniqueConstraintError(err error) bool { return Classify(err) == KindUnique }

// IsForeignKeyConstraintError reports whether err is a foreign key
// violation.
func IsForeignKeyConstraintError(err error) bool { return Classify(err) == KindForeignKey }

// IsCheckConstraintError reports whether err is a check violation.
func IsCheckConstraintError(err error) bool { return Classify(err) == KindCheck }

// IsNotNullConstraintError reports whether err is a NOT NULL violation.
func IsNotNullConstraintError(err error) bool { return Classify(err) == KindNotNull }
