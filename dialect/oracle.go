package dialect

import (
	"fmt"
	"strconv"
)

type oracleDecl struct{}

func (oracleDecl) quote(name string) string { return quoteDouble(name) }
func (oracleDecl) placeholder(n int) string { return ":" + strconv.Itoa(n) }
func (oracleDecl) allowsUnsigned() bool     { return false }

func (oracleDecl) limits() limits {
	return limits{
		decimalPrecision: 38,
		decimalScale:     38,
		defaultPrecision: 10,
		defaultScale:     0,
		char:             2000,
		varchar:          4000,
		binary:           2000,
		varbinary:        2000,
		clob:             4294967295,
		blob:             4294967295,
		timePrecision:    9,
	}
}

func number(p int) string { return fmt.Sprintf("NUMBER(%d)", p) }

func (oracleDecl) tinyint(p int, _ bool) string  { return number(p) }
func (oracleDecl) smallint(p int, _ bool) string { return number(p) }
func (oracleDecl) integer(p int, _ bool) string  { return number(p) }
func (oracleDecl) bigint(p int, _ bool) string   { return number(p) }
func (oracleDecl) float(bool) string             { return "BINARY_FLOAT" }
func (oracleDecl) double(bool) string            { return "BINARY_DOUBLE" }

func (oracleDecl) decimal(p, s int, _ bool) string {
	return fmt.Sprintf("NUMBER(%d, %d)", p, s)
}

func (oracleDecl) char(n int64, varying bool) string {
	if varying {
		return fmt.Sprintf("VARCHAR2(%d)", n)
	}
	return fmt.Sprintf("CHAR(%d)", n)
}

func (oracleDecl) clob(int64) string { return "CLOB" }

func (oracleDecl) binary(n int64, _ bool) string { return fmt.Sprintf("RAW(%d)", n) }
func (oracleDecl) blob(int64) string             { return "BLOB" }
func (oracleDecl) boolean() string               { return "NUMBER(1)" }
func (oracleDecl) date() string                  { return "DATE" }

// time has no native type; a zero-day interval holds the time of day.
func (oracleDecl) time(p int) string {
	if p == 0 {
		p = 6
	}
	return fmt.Sprintf("INTERVAL DAY(0) TO SECOND(%d)", p)
}

func (oracleDecl) datetime(p int) string {
	if p == 0 {
		return "TIMESTAMP"
	}
	return fmt.Sprintf("TIMESTAMP(%d)", p)
}

func (oracleDecl) interval() string { return "INTERVAL DAY(9) TO SECOND(9)" }

func (oracleDecl) enum(_, _ string, values []string) string {
	return fmt.Sprintf("VARCHAR2(%d)", maxLength(values))
}

func (oracleDecl) currentDate() string      { return "CURRENT_DATE" }
func (oracleDecl) currentTime() string      { return "CURRENT_TIMESTAMP" }
func (oracleDecl) currentTimestamp() string { return "CURRENT_TIMESTAMP" }

func maxLength(values []string) int {
	n := 1
	for _, v := range values {
		if len(v) > n {
			n = len(v)
		}
	}
	return n
}
