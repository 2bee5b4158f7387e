package dialect

import "fmt"

// sqliteDecl uses type names that map onto SQLite's storage affinities and
// that the modernc driver recognizes when converting temporal values.
type sqliteDecl struct{}

func (sqliteDecl) quote(name string) string { return quoteDouble(name) }
func (sqliteDecl) placeholder(int) string   { return "?" }
func (sqliteDecl) allowsUnsigned() bool     { return false }

func (sqliteDecl) limits() limits {
	return limits{
		decimalPrecision: 1000,
		decimalScale:     1000,
		defaultPrecision: 10,
		defaultScale:     0,
		char:             1000000000,
		varchar:          1000000000,
		binary:           1000000000,
		varbinary:        1000000000,
		clob:             1000000000,
		blob:             1000000000,
		timePrecision:    9,
	}
}

func (sqliteDecl) tinyint(int, bool) string  { return "TINYINT" }
func (sqliteDecl) smallint(int, bool) string { return "SMALLINT" }
func (sqliteDecl) integer(int, bool) string  { return "INT" }
func (sqliteDecl) bigint(int, bool) string   { return "BIGINT" }
func (sqliteDecl) float(bool) string         { return "FLOAT" }
func (sqliteDecl) double(bool) string        { return "DOUBLE" }

func (sqliteDecl) decimal(p, s int, _ bool) string {
	return fmt.Sprintf("DECIMAL(%d, %d)", p, s)
}

func (sqliteDecl) char(n int64, varying bool) string {
	if varying {
		return fmt.Sprintf("VARCHAR(%d)", n)
	}
	return fmt.Sprintf("CHAR(%d)", n)
}

func (sqliteDecl) clob(int64) string         { return "TEXT" }
func (sqliteDecl) binary(int64, bool) string { return "BLOB" }
func (sqliteDecl) blob(int64) string         { return "BLOB" }
func (sqliteDecl) boolean() string           { return "BOOLEAN" }
func (sqliteDecl) date() string              { return "DATE" }
func (sqliteDecl) time(int) string           { return "TIME" }
func (sqliteDecl) datetime(int) string       { return "DATETIME" }
func (sqliteDecl) interval() string          { return "BIGINT" }

func (sqliteDecl) enum(_, _ string, values []string) string {
	return fmt.Sprintf("VARCHAR(%d)", maxLength(values))
}

func (sqliteDecl) currentDate() string      { return "CURRENT_DATE" }
func (sqliteDecl) currentTime() string      { return "CURRENT_TIME" }
func (sqliteDecl) currentTimestamp() string { return "CURRENT_TIMESTAMP" }
