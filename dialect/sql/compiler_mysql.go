package sql

import (
	"strconv"

	"github.com/syssam/rdb/schema/field"
)

// mysqlDML compiles DML for MySQL and MariaDB.
type mysqlDML struct {
	dmlBase
	mariadb bool
}

// MySQL has no FULL OUTER JOIN.
func (m *mysqlDML) joinKind(c *scope, k JoinKind) JoinKind {
	if k == JoinFull {
		c.warn("FULL OUTER JOIN is not supported, using LEFT OUTER JOIN")
		return JoinLeft
	}
	return k
}

func (*mysqlDML) closePaging(c *scope, s *Selector) {
	switch {
	case s.limit != nil:
		c.write(" LIMIT ", strconv.Itoa(*s.limit))
		if s.offset != nil {
			c.write(" OFFSET ", strconv.Itoa(*s.offset))
		}
	case s.offset != nil:
		// MySQL requires a row count with OFFSET.
		c.write(" LIMIT 18446744073709551615 OFFSET ", strconv.Itoa(*s.offset))
	}
}

func (m *mysqlDML) lock(c *scope, l *lockClause) {
	if !m.mariadb {
		m.dmlBase.lock(c, l)
		return
	}
	if len(l.of) > 0 {
		c.warn("FOR UPDATE OF is not supported, locking all tables")
	}
	if l.strength == LockShare {
		c.write(" LOCK IN SHARE MODE")
	} else {
		c.write(" FOR UPDATE")
	}
	if l.action != LockWait {
		c.write(" ", l.action.String())
	}
}

func (m *mysqlDML) concat(c *scope, e *concat) error {
	return m.cm.call(c, "CONCAT", e.parts...)
}

// cast maps the target to the types accepted by CAST in MySQL.
func (m *mysqlDML) cast(c *scope, e *cast) error {
	to := e.to
	var decl string
	switch to.Type {
	case field.TypeTinyint, field.TypeSmallint, field.TypeInt, field.TypeBigint, field.TypeBoolean, field.TypeInterval:
		decl = "SIGNED"
		if to.Unsigned {
			decl = "UNSIGNED"
		}
	case field.TypeFloat, field.TypeDouble:
		decl = "DOUBLE"
	case field.TypeDecimal:
		p, s := to.Precision, to.Scale
		if p == 0 {
			p, s = m.cm.d.DecimalDefaults()
		}
		decl = "DECIMAL(" + strconv.Itoa(p) + ", " + strconv.Itoa(s) + ")"
	case field.TypeChar, field.TypeClob, field.TypeEnum:
		decl = "CHAR"
		n := to.Length
		if to.Type == field.TypeEnum {
			n = to.MaxValueLength()
		}
		if n > 0 && to.Type != field.TypeClob {
			decl += "(" + strconv.FormatInt(n, 10) + ")"
		}
	case field.TypeBinary, field.TypeBlob:
		decl = "BINARY"
		if to.Length > 0 && to.Type == field.TypeBinary {
			decl += "(" + strconv.FormatInt(to.Length, 10) + ")"
		}
	case field.TypeDate:
		decl = "DATE"
	case field.TypeTime:
		decl = "TIME"
	case field.TypeDateTime:
		decl = "DATETIME"
	default:
		return m.dmlBase.cast(c, e)
	}
	c.write("CAST(")
	if err := m.cm.expr(c, e.expr); err != nil {
		return err
	}
	c.write(" AS ", decl, ")")
	return nil
}

// temporal nests DATE_ADD or DATE_SUB once per unit.
func (m *mysqlDML) temporal(c *scope, e *temporal) error {
	iv := e.interval.convertTo(Micros, Seconds, Minutes, Hours, Days, Weeks, Months, Quarters, Years)
	name := "DATE_ADD("
	if e.op == '-' {
		name = "DATE_SUB("
	}
	for range iv.terms {
		c.write(name)
	}
	if err := m.cm.expr(c, e.expr); err != nil {
		return err
	}
	for _, t := range iv.terms {
		c.write(", INTERVAL ", strconv.FormatInt(t.n, 10), " ", t.unit.String(), ")")
	}
	return nil
}

func (*mysqlDML) emptyInsert(c *scope, _ *Table) error {
	c.write(" () VALUES ()")
	return nil
}

// upsert writes INSERT .. ON DUPLICATE KEY UPDATE, or INSERT IGNORE when
// conflicting rows are skipped.
func (m *mysqlDML) upsert(c *scope, i *InsertBuilder, cols []*Column, rows [][]Subject) error {
	_, update, err := conflictKeys(i, cols)
	if err != nil {
		return err
	}
	if len(update) == 0 {
		c.write("INSERT IGNORE INTO ", c.q(i.table.name))
		return m.cm.insertBody(c, i, cols, rows)
	}
	c.write("INSERT INTO ", c.q(i.table.name))
	if err := m.cm.insertBody(c, i, cols, rows); err != nil {
		return err
	}
	c.write(" ON DUPLICATE KEY UPDATE ")
	for n, col := range update {
		if n > 0 {
			c.write(", ")
		}
		c.write(c.q(col.name), " = VALUES(", c.q(col.name), ")")
	}
	return nil
}

func (*mysqlDML) returning() returnMode { return returnLastInsertID }
