package dialect

import (
	"fmt"
	"strconv"
	"strings"
)

type postgresDecl struct{}

// quoteDouble quotes an identifier with double quotes, the SQL standard form.
func quoteDouble(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (postgresDecl) quote(name string) string { return quoteDouble(name) }
func (postgresDecl) placeholder(n int) string { return "$" + strconv.Itoa(n) }
func (postgresDecl) allowsUnsigned() bool     { return false }

func (postgresDecl) limits() limits {
	return limits{
		decimalPrecision: 1000,
		decimalScale:     1000,
		defaultPrecision: 10,
		defaultScale:     0,
		char:             10485760,
		varchar:          10485760,
		binary:           1 << 30,
		varbinary:        1 << 30,
		clob:             1 << 30,
		blob:             1 << 30,
		timePrecision:    6,
	}
}

func (postgresDecl) tinyint(int, bool) string  { return "SMALLINT" }
func (postgresDecl) smallint(int, bool) string { return "SMALLINT" }
func (postgresDecl) integer(int, bool) string  { return "INTEGER" }
func (postgresDecl) bigint(int, bool) string   { return "BIGINT" }
func (postgresDecl) float(bool) string         { return "REAL" }
func (postgresDecl) double(bool) string        { return "DOUBLE PRECISION" }

func (postgresDecl) decimal(p, s int, _ bool) string {
	return fmt.Sprintf("DECIMAL(%d, %d)", p, s)
}

func (postgresDecl) char(n int64, varying bool) string {
	if varying {
		return fmt.Sprintf("VARCHAR(%d)", n)
	}
	return fmt.Sprintf("CHAR(%d)", n)
}

func (postgresDecl) clob(int64) string         { return "TEXT" }
func (postgresDecl) binary(int64, bool) string { return "BYTEA" }
func (postgresDecl) blob(int64) string         { return "BYTEA" }
func (postgresDecl) boolean() string           { return "BOOLEAN" }
func (postgresDecl) date() string              { return "DATE" }

func (postgresDecl) time(p int) string {
	if p == 0 {
		return "TIME"
	}
	return fmt.Sprintf("TIME(%d)", p)
}

func (postgresDecl) datetime(p int) string {
	if p == 0 {
		return "TIMESTAMP"
	}
	return fmt.Sprintf("TIMESTAMP(%d)", p)
}

func (postgresDecl) interval() string { return "INTERVAL" }

// enum refers to the type created by CREATE TYPE .. AS ENUM.
func (postgresDecl) enum(table, column string, _ []string) string {
	return quoteDouble(EnumTypeName(table, column))
}

func (postgresDecl) currentDate() string      { return "CURRENT_DATE" }
func (postgresDecl) currentTime() string      { return "CURRENT_TIME" }
func (postgresDecl) currentTimestamp() string { return "CURRENT_TIMESTAMP" }
