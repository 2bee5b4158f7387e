package dialect

import "fmt"

type derbyDecl struct{}

func (derbyDecl) quote(name string) string { return quoteDouble(name) }
func (derbyDecl) placeholder(int) string   { return "?" }
func (derbyDecl) allowsUnsigned() bool     { return false }

func (derbyDecl) limits() limits {
	return limits{
		decimalPrecision: 31,
		decimalScale:     31,
		defaultPrecision: 5,
		defaultScale:     0,
		char:             254,
		varchar:          32672,
		binary:           254,
		varbinary:        32672,
		clob:             2147483647,
		blob:             2147483647,
		timePrecision:    9,
	}
}

func (derbyDecl) tinyint(int, bool) string  { return "SMALLINT" }
func (derbyDecl) smallint(int, bool) string { return "SMALLINT" }
func (derbyDecl) integer(int, bool) string  { return "INTEGER" }
func (derbyDecl) bigint(int, bool) string   { return "BIGINT" }
func (derbyDecl) float(bool) string         { return "FLOAT" }
func (derbyDecl) double(bool) string        { return "DOUBLE" }

func (derbyDecl) decimal(p, s int, _ bool) string {
	return fmt.Sprintf("DECIMAL(%d, %d)", p, s)
}

func (derbyDecl) char(n int64, varying bool) string {
	if varying {
		return fmt.Sprintf("VARCHAR(%d)", n)
	}
	return fmt.Sprintf("CHAR(%d)", n)
}

func (derbyDecl) clob(n int64) string {
	if n == 0 {
		return "CLOB"
	}
	return fmt.Sprintf("CLOB(%d)", n)
}

func (derbyDecl) binary(n int64, varying bool) string {
	if varying {
		return fmt.Sprintf("VARCHAR(%d) FOR BIT DATA", n)
	}
	return fmt.Sprintf("CHAR(%d) FOR BIT DATA", n)
}

func (derbyDecl) blob(n int64) string {
	if n == 0 {
		return "BLOB"
	}
	return fmt.Sprintf("BLOB(%d)", n)
}

func (derbyDecl) boolean() string { return "BOOLEAN" }
func (derbyDecl) date() string    { return "DATE" }

// time ignores the precision: Derby keeps whole seconds only.
func (derbyDecl) time(int) string     { return "TIME" }
func (derbyDecl) datetime(int) string { return "TIMESTAMP" }
func (derbyDecl) interval() string    { return "BIGINT" }

func (derbyDecl) enum(_, _ string, values []string) string {
	return fmt.Sprintf("VARCHAR(%d)", maxLength(values))
}

func (derbyDecl) currentDate() string      { return "CURRENT_DATE" }
func (derbyDecl) currentTime() string      { return "CURRENT_TIME" }
func (derbyDecl) currentTimestamp() string { return "CURRENT_TIMESTAMP" }
