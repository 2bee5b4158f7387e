package sql

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// oracleDML compiles DML for Oracle.
type oracleDML struct {
	dmlBase
}

// rownumColumn names the row number column of the paging wrapper. It is
// the first result column and skipped when reading rows.
const rownumColumn = "rnum3729"

func (*oracleDML) dual() string { return " FROM dual" }

// selectItem gives computed items a column alias so that the paging
// wrapper can select them with r.*, and turns predicates into numbers.
func (o *oracleDML) selectItem(c *scope, it Subject, i int) error {
	switch it := it.(type) {
	case *As:
		if err := o.value(c, it.expr); err != nil {
			return err
		}
		c.write(" ", c.q(it.name))
		return nil
	case *Column:
		if it.table != nil {
			return o.cm.expr(c, it)
		}
	}
	if err := o.value(c, it); err != nil {
		return err
	}
	c.write(" c", strconv.Itoa(i))
	return nil
}

// value writes an expression in a value position. Oracle has no boolean
// values, so predicates become CASE WHEN p THEN 1 ELSE 0 END.
func (o *oracleDML) value(c *scope, s Subject) error {
	p, ok := s.(Predicate)
	if !ok {
		return o.cm.expr(c, s)
	}
	c.write("CASE WHEN ")
	if err := o.cm.expr(c, p); err != nil {
		return err
	}
	c.write(" THEN 1 ELSE 0 END")
	return nil
}

// Oracle does not accept select item aliases in GROUP BY.
func (*oracleDML) groupByAlias() bool { return false }

// openPaging starts the ROWNUM wrapper of a paged query. The row number
// column is skipped when reading the rows of a top-level query. A sub-query
// selects the wrapped items by name so that it keeps its own shape.
func (*oracleDML) openPaging(c *scope, s *Selector) {
	switch {
	case s.offset != nil:
		if c.root {
			c.write("SELECT * FROM (")
			c.skip = 1
		} else {
			c.write("SELECT ", strings.Join(outputNames(c, s), ", "), " FROM (")
		}
		c.write("SELECT ROWNUM ", rownumColumn, ", r.* FROM (")
	case s.limit != nil:
		c.write("SELECT * FROM (")
	}
}

// outputNames returns the column names of the select list as written by
// selectItem.
func outputNames(c *scope, s *Selector) []string {
	var names []string
	for i, it := range s.items {
		switch it := it.(type) {
		case *Table:
			for _, col := range it.columns {
				names = append(names, c.q(col.name))
			}
			continue
		case *As:
			names = append(names, c.q(it.name))
			continue
		case *Column:
			if it.table != nil {
				names = append(names, c.q(it.name))
				continue
			}
		}
		names = append(names, "c"+strconv.Itoa(i))
	}
	return names
}

func (*oracleDML) closePaging(c *scope, s *Selector) {
	switch {
	case s.offset != nil && s.limit != nil:
		c.write(") r WHERE ROWNUM <= ", strconv.Itoa(*s.limit+*s.offset), ") WHERE ", rownumColumn, " > ", strconv.Itoa(*s.offset))
	case s.offset != nil:
		c.write(") r) WHERE ", rownumColumn, " > ", strconv.Itoa(*s.offset))
	case s.limit != nil:
		c.write(") r WHERE ROWNUM <= ", strconv.Itoa(*s.limit))
	}
}

func (*oracleDML) lock(c *scope, l *lockClause) {
	if l.strength == LockShare {
		c.warn("FOR SHARE is not supported, using FOR UPDATE")
	}
	if len(l.of) > 0 {
		c.warn("FOR UPDATE OF is not supported, locking all tables")
	}
	c.write(" FOR UPDATE")
	if l.action != LockWait {
		c.write(" ", l.action.String())
	}
}

func (o *oracleDML) fn(c *scope, f *fn) error {
	switch f.op {
	case opPi:
		c.write("ACOS(-1)")
		return nil
	case opLog2, opLog10:
		c.write("LOG(", logBase(f.op), ", ")
		if err := o.cm.expr(c, f.args[0]); err != nil {
			return err
		}
		c.write(")")
		return nil
	case opDegrees:
		c.write("(")
		if err := o.cm.expr(c, f.args[0]); err != nil {
			return err
		}
		c.write(" * 180 / ACOS(-1))")
		return nil
	case opRadians:
		c.write("(")
		if err := o.cm.expr(c, f.args[0]); err != nil {
			return err
		}
		c.write(" * ACOS(-1) / 180)")
		return nil
	}
	return o.dmlBase.fn(c, f)
}

// temporal writes (x + NUMTOYMINTERVAL(1, 'MONTH') + NUMTODSINTERVAL(2,
// 'DAY')) with one term per unit.
func (o *oracleDML) temporal(c *scope, e *temporal) error {
	iv := e.interval.convertTo(Micros, Seconds, Minutes, Hours, Days, Months, Years)
	c.write("(")
	if err := o.cm.expr(c, e.expr); err != nil {
		return err
	}
	for _, t := range iv.terms {
		c.write(" ", string(e.op), " ")
		switch {
		case t.unit.calendar():
			c.write("NUMTOYMINTERVAL(", strconv.FormatInt(t.n, 10), ", '", t.unit.String(), "')")
		case t.unit == Micros:
			c.write("NUMTODSINTERVAL(", strconv.FormatFloat(float64(t.n)/1e6, 'f', -1, 64), ", 'SECOND')")
		default:
			c.write("NUMTODSINTERVAL(", strconv.FormatInt(t.n, 10), ", '", t.unit.String(), "')")
		}
	}
	c.write(")")
	return nil
}

func (o *oracleDML) emptyInsert(c *scope, t *Table) error {
	return o.defaultColumnInsert(c, t)
}

// upsert writes a MERGE with one row of the USING source per inserted row.
func (o *oracleDML) upsert(c *scope, i *InsertBuilder, cols []*Column, rows [][]Subject) error {
	keys, update, err := conflictKeys(i, cols)
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		return errors.New("dialect/sql: upsert without columns")
	}
	c.write("MERGE INTO ", c.q(i.table.name), " a USING (")
	for n, row := range rows {
		if n > 0 {
			c.write(" UNION ALL ")
		}
		c.write("SELECT ")
		for k, v := range row {
			if k > 0 {
				c.write(", ")
			}
			if err := o.cm.expr(c, v); err != nil {
				return err
			}
			c.write(" ", c.q(cols[k].name))
		}
		c.write(" FROM dual")
	}
	c.write(") b ON (")
	for n, k := range keys {
		if !containsColumn(cols, k) {
			return fmt.Errorf("dialect/sql: upsert key %s is not inserted", k.name)
		}
		if n > 0 {
			c.write(" AND ")
		}
		c.write("a.", c.q(k.name), " = b.", c.q(k.name))
	}
	c.write(")")
	if len(update) > 0 {
		c.write(" WHEN MATCHED THEN UPDATE SET ")
		for n, col := range update {
			if n > 0 {
				c.write(", ")
			}
			c.write("a.", c.q(col.name), " = b.", c.q(col.name))
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
	for n, col := range cols {
		if n > 0 {
			c.write(", ")
		}
		c.write("b.", c.q(col.name))
	}
	c.write(")")
	return nil
}

func containsColumn(cols []*Column, col *Column) bool {
	for _, c := range cols {
		if c == col {
			return true
		}
	}
	return false
}
