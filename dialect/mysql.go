package dialect

import (
	"fmt"
	"strings"
)

// mysqlDecl declares types for MySQL and MariaDB.
type mysqlDecl struct {
	mariadb bool
}

func (mysqlDecl) quote(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (mysqlDecl) placeholder(int) string { return "?" }

func (mysqlDecl) allowsUnsigned() bool { return true }

func (mysqlDecl) limits() limits {
	return limits{
		decimalPrecision: 65,
		decimalScale:     30,
		defaultPrecision: 10,
		defaultScale:     0,
		char:             255,
		varchar:          65535,
		binary:           255,
		varbinary:        65535,
		clob:             4294967295,
		blob:             4294967295,
		timePrecision:    6,
	}
}

func unsignedSuffix(unsigned bool) string {
	if unsigned {
		return " UNSIGNED"
	}
	return ""
}

func (mysqlDecl) tinyint(p int, u bool) string {
	return fmt.Sprintf("TINYINT(%d)%s", p, unsignedSuffix(u))
}

func (mysqlDecl) smallint(p int, u bool) string {
	return fmt.Sprintf("SMALLINT(%d)%s", p, unsignedSuffix(u))
}

// integer declares MEDIUMINT when the requested digits fit in 24 bits.
func (mysqlDecl) integer(p int, u bool) string {
	if u && p < 9 || !u && p < 8 {
		return fmt.Sprintf("MEDIUMINT(%d)%s", p, unsignedSuffix(u))
	}
	return fmt.Sprintf("INT(%d)%s", p, unsignedSuffix(u))
}

func (mysqlDecl) bigint(p int, u bool) string {
	return fmt.Sprintf("BIGINT(%d)%s", p, unsignedSuffix(u))
}

func (mysqlDecl) float(u bool) string  { return "FLOAT" + unsignedSuffix(u) }
func (mysqlDecl) double(u bool) string { return "DOUBLE" + unsignedSuffix(u) }

func (mysqlDecl) decimal(p, s int, u bool) string {
	return fmt.Sprintf("DECIMAL(%d, %d)%s", p, s, unsignedSuffix(u))
}

func (mysqlDecl) char(n int64, varying bool) string {
	if varying {
		return fmt.Sprintf("VARCHAR(%d)", n)
	}
	return fmt.Sprintf("CHAR(%d)", n)
}

// lobScale picks the smallest of the TINY, plain, MEDIUM and LONG variants
// that holds length bytes.
func lobScale(kind string, length int64) string {
	switch {
	case length == 0:
		return "LONG" + kind
	case length < 1<<8:
		return "TINY" + kind
	case length < 1<<16:
		return kind
	case length < 1<<24:
		return "MEDIUM" + kind
	}
	return "LONG" + kind
}

func (mysqlDecl) clob(n int64) string { return lobScale("TEXT", n) }

func (mysqlDecl) binary(n int64, varying bool) string {
	if varying {
		return fmt.Sprintf("VARBINARY(%d)", n)
	}
	return fmt.Sprintf("BINARY(%d)", n)
}

func (mysqlDecl) blob(n int64) string { return lobScale("BLOB", n) }
func (mysqlDecl) boolean() string     { return "BOOLEAN" }
func (mysqlDecl) date() string        { return "DATE" }

func (mysqlDecl) time(p int) string {
	if p == 0 {
		return "TIME"
	}
	return fmt.Sprintf("TIME(%d)", p)
}

func (mysqlDecl) datetime(p int) string {
	if p == 0 {
		return "DATETIME"
	}
	return fmt.Sprintf("DATETIME(%d)", p)
}

// interval stores durations as microseconds.
func (mysqlDecl) interval() string { return "BIGINT" }

func (mysqlDecl) enum(_, _ string, values []string) string {
	return "ENUM(" + quoteList(values) + ")"
}

func (mysqlDecl) currentDate() string      { return "CURRENT_DATE" }
func (mysqlDecl) currentTime() string      { return "CURRENT_TIME" }
func (mysqlDecl) currentTimestamp() string { return "CURRENT_TIMESTAMP" }

// quoteList renders values as a comma separated list of string literals.
func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = quoteBackslash(v)
	}
	return strings.Join(quoted, ", ")
}
