package sql

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/syssam/rdb/schema/field"
)

// derbyDML compiles DML for Derby. Functions Derby lacks are provided by
// the routines installed with the Registry.
type derbyDML struct {
	dmlBase
}

func (*derbyDML) dual() string { return " FROM SYSIBM.SYSDUMMY1" }

func (*derbyDML) joinKind(c *scope, k JoinKind) JoinKind {
	if k == JoinFull {
		c.warn("FULL OUTER JOIN is not supported, using LEFT OUTER JOIN")
		return JoinLeft
	}
	return k
}

func (*derbyDML) groupByAlias() bool { return false }

// groupBy derives the grouping of a query with HAVING but no GROUP BY from
// its non-aggregate select items.
func (*derbyDML) groupBy(_ *scope, s *Selector) []Subject {
	if len(s.groupBy) > 0 || s.having == nil {
		return s.groupBy
	}
	var derived []Subject
	for _, it := range s.items {
		e := it
		if as, ok := it.(*As); ok {
			e = as.expr
		}
		if _, ok := e.(*aggregate); !ok {
			derived = append(derived, e)
		}
	}
	return derived
}

func (*derbyDML) closePaging(c *scope, s *Selector) {
	if s.offset != nil {
		c.write(" OFFSET ", strconv.Itoa(*s.offset), " ROWS")
	}
	if s.limit != nil {
		c.write(" FETCH NEXT ", strconv.Itoa(*s.limit), " ROWS ONLY")
	}
}

// lock always writes FOR UPDATE. OF lists unqualified column names.
func (*derbyDML) lock(c *scope, l *lockClause) {
	if l.strength == LockShare {
		c.warn("FOR SHARE is not supported, using FOR UPDATE")
	}
	if l.action != LockWait {
		c.warn(l.action.String() + " is not supported, waiting for locks")
	}
	c.write(" FOR UPDATE")
	var names []string
	for _, s := range l.of {
		switch s := s.(type) {
		case *Table:
			for _, col := range s.columns {
				names = append(names, c.q(col.name))
			}
		case *Column:
			names = append(names, c.q(s.name))
		}
	}
	for i, n := range names {
		if i == 0 {
			c.write(" OF ")
		} else {
			c.write(", ")
		}
		c.write(n)
	}
}

func (d *derbyDML) fn(c *scope, f *fn) error {
	switch f.op {
	case opMod:
		return d.cm.call(c, "DMOD", f.args...)
	case opRound:
		if len(f.args) == 1 {
			c.write("ROUND(")
			if err := d.cm.expr(c, f.args[0]); err != nil {
				return err
			}
			c.write(", 0)")
			return nil
		}
	}
	return d.dmlBase.fn(c, f)
}

// temporal nests the DATE, TIME or TIMESTAMP add and subtract routines
// once per unit.
func (d *derbyDML) temporal(c *scope, e *temporal) error {
	iv := e.interval.convertTo(Micros, Seconds, Minutes, Hours, Days, Months, Years)
	prefix := "TIMESTAMP_"
	switch specOf(e.expr).Type {
	case field.TypeDate:
		prefix = "DATE_"
	case field.TypeTime:
		prefix = "TIME_"
	}
	name := prefix + "ADD("
	if e.op == '-' {
		name = prefix + "SUB("
	}
	for range iv.terms {
		c.write(name)
	}
	if err := d.cm.expr(c, e.expr); err != nil {
		return err
	}
	for _, t := range iv.terms {
		c.write(", '", strconv.FormatInt(t.n, 10), " ", t.unit.String(), "')")
	}
	return nil
}

func (d *derbyDML) emptyInsert(c *scope, t *Table) error {
	return d.defaultColumnInsert(c, t)
}

// upsert writes a single row MERGE against SYSIBM.SYSDUMMY1. Values are
// bound once per use.
func (d *derbyDML) upsert(c *scope, i *InsertBuilder, cols []*Column, rows [][]Subject) error {
	keys, update, err := conflictKeys(i, cols)
	if err != nil {
		return err
	}
	if len(rows) != 1 || len(cols) == 0 {
		return errors.New("dialect/sql: derby upserts a single row")
	}
	row := rows[0]
	valueOf := func(col *Column) (Subject, error) {
		for n, cc := range cols {
			if cc == col {
				return row[n], nil
			}
		}
		return nil, fmt.Errorf("dialect/sql: upsert column %s is not inserted", col.name)
	}
	c.write("MERGE INTO ", c.q(i.table.name), " a USING SYSIBM.SYSDUMMY1 ON ")
	for n, k := range keys {
		if n > 0 {
			c.write(" AND ")
		}
		v, err := valueOf(k)
		if err != nil {
			return err
		}
		c.write("a.", c.q(k.name), " = ")
		if err := d.cm.expr(c, v); err != nil {
			return err
		}
	}
	if len(update) > 0 {
		c.write(" WHEN MATCHED THEN UPDATE SET ")
		for n, col := range update {
			if n > 0 {
				c.write(", ")
			}
			v, err := valueOf(col)
			if err != nil {
				return err
			}
			c.write(c.q(col.name), " = ")
			if err := d.cm.expr(c, v); err != nil {
				return err
			}
		}
	}
	c.write(" WHEN NOT MATCHED THEN INSERT (")
	for n, col := range cols {
		if n > 0 {
			c.write(", ")
		}
		c.write(c.q(col.name))
	}
	c.write(") VALUES (")
	if err := d.cm.args(c, row...); err != nil {
		return err
	}
	c.write(")")
	return nil
}
