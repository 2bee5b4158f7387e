package dialect

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"
)

// Vendor identifies one of the supported database products. The set is
// closed: every Vendor has exactly one Dialect and one statement compiler.
type Vendor uint8

// Supported vendors.
const (
	MySQL Vendor = iota + 1
	MariaDB
	Postgres
	Oracle
	Derby
	SQLite
)

// Vendors lists all supported vendors in declaration order.
var Vendors = []Vendor{MySQL, MariaDB, Postgres, Oracle, Derby, SQLite}

var vendorNames = map[Vendor]string{
	MySQL:    "mysql",
	MariaDB:  "mariadb",
	Postgres: "postgres",
	Oracle:   "oracle",
	Derby:    "derby",
	SQLite:   "sqlite",
}

// String returns the lower-case vendor name.
func (v Vendor) String() string {
	if n, ok := vendorNames[v]; ok {
		return n
	}
	return fmt.Sprintf("Vendor(%d)", uint8(v))
}

// Valid reports whether v is one of the supported vendors.
func (v Vendor) Valid() bool {
	_, ok := vendorNames[v]
	return ok
}

// DriverName returns the database/sql driver name conventionally
// registered for the vendor. Derby has no Go driver and returns "".
func (v Vendor) DriverName() string {
	switch v {
	case MySQL, MariaDB:
		return "mysql"
	case Postgres:
		return "postgres"
	case SQLite:
		return "sqlite"
	case Oracle:
		return "godror"
	}
	return ""
}

// ParseVendor returns the vendor for the given name. Matching is
// case-insensitive and accepts driver names and common aliases
// ("postgresql", "pgx", "sqlite3", "db2").
func ParseVendor(name string) (Vendor, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mysql":
		return MySQL, nil
	case "mariadb":
		return MariaDB, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "oracle", "godror", "oci8":
		return Oracle, nil
	case "derby", "db2":
		return Derby, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	}
	return 0, fmt.Errorf("dialect: unknown vendor %q", name)
}

// ExecQuerier wraps the 2 database operations.
type ExecQuerier interface {
	// Exec executes a query that does not return records. For example, in SQL, INSERT or UPDATE.
	// It scans the result into the pointer v. For SQL drivers, it is dialect/sql.Result.
	Exec(ctx context.Context, query string, args, v any) error
	// Query executes a query that returns rows, typically a SELECT in SQL.
	// It scans the result into the pointer v. For SQL drivers, it is *dialect/sql.Rows.
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the interface that wraps all necessary operations for a
// connection provided by the caller.
type Driver interface {
	ExecQuerier
	// Tx starts and returns a new transaction.
	Tx(context.Context) (Tx, error)
	// Close closes the underlying connection.
	Close() error
	// Vendor returns the vendor of the connected database.
	Vendor() Vendor
}

// Tx wraps the Exec and Query operations in transaction.
type Tx interface {
	ExecQuerier
	driver.Tx
}

// NopTx returns a Tx with a no-op Commit / Rollback methods wrapping
// the provided Driver d.
func NopTx(d Driver) Tx {
	return nopTx{d}
}

type nopTx struct {
	Driver
}

func (nopTx) Commit() error   { return nil }
func (nopTx) Rollback() error { return nil }
