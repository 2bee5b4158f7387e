package sql

import (
	"strconv"
	"strings"

	"github.com/syssam/rdb/schema/field"
)

// sqliteDML compiles DML for SQLite.
type sqliteDML struct {
	dmlBase
}

func (*sqliteDML) closePaging(c *scope, s *Selector) {
	switch {
	case s.limit != nil:
		c.write(" LIMIT ", strconv.Itoa(*s.limit))
		if s.offset != nil {
			c.write(" OFFSET ", strconv.Itoa(*s.offset))
		}
	case s.offset != nil:
		c.write(" LIMIT -1 OFFSET ", strconv.Itoa(*s.offset))
	}
}

// SQLite has no row locks; the whole database is locked by writers.
func (*sqliteDML) lock(c *scope, _ *lockClause) {
	c.warn("row locking is not supported, omitting the locking clause")
}

// temporal writes DATETIME(x, '+1 months', '+2 days'), or DATE and TIME
// for date and time operands.
func (s *sqliteDML) temporal(c *scope, e *temporal) error {
	iv := e.interval.convertTo(Micros, Millis, Seconds, Minutes, Hours, Days, Months, Years)
	switch specOf(e.expr).Type {
	case field.TypeDate:
		c.write("DATE(")
	case field.TypeTime:
		c.write("TIME(")
	default:
		c.write("DATETIME(")
	}
	if err := s.cm.expr(c, e.expr); err != nil {
		return err
	}
	for _, t := range iv.terms {
		n := t.n
		if e.op == '-' {
			n = -n
		}
		c.write(", '", sqliteModifier(n, t.unit), "'")
	}
	c.write(")")
	return nil
}

// sqliteModifier formats a date function modifier. Sub-second units are
// expressed as fractional seconds.
func sqliteModifier(n int64, u Unit) string {
	var b strings.Builder
	if n >= 0 {
		b.WriteByte('+')
	}
	switch u {
	case Micros:
		b.WriteString(strconv.FormatFloat(float64(n)/1e6, 'f', -1, 64))
		b.WriteString(" seconds")
	case Millis:
		b.WriteString(strconv.FormatFloat(float64(n)/1e3, 'f', -1, 64))
		b.WriteString(" seconds")
	default:
		b.WriteString(strconv.FormatInt(n, 10))
		b.WriteString(" ")
		b.WriteString(strings.ToLower(u.String()))
		b.WriteString("s")
	}
	return b.String()
}

func (*sqliteDML) returning() returnMode { return returnLastInsertID }
