package sql

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/syssam/rdb/dialect"
	"github.com/syssam/rdb/schema/field"
)

// vendorDML holds the vendor divergence points of DML compilation. The
// dmlBase implementation renders the common SQL forms and vendors override
// what they spell differently.
type vendorDML interface {
	// dual returns the FROM clause of a SELECT without tables.
	dual() string
	joinKind(c *scope, k JoinKind) JoinKind
	selectItem(c *scope, it Subject, i int) error
	groupByAlias() bool
	groupBy(c *scope, s *Selector) []Subject
	openPaging(c *scope, s *Selector)
	closePaging(c *scope, s *Selector)
	lock(c *scope, l *lockClause)
	fn(c *scope, f *fn) error
	concat(c *scope, e *concat) error
	cast(c *scope, e *cast) error
	temporal(c *scope, e *temporal) error
	emptyInsert(c *scope, t *Table) error
	upsert(c *scope, i *InsertBuilder, cols []*Column, rows [][]Subject) error
	// returning reports how generated keys are read back: with a
	// RETURNING clause, or through the driver's last insert id.
	returning() returnMode
}

type returnMode uint8

const (
	returnNone returnMode = iota
	returnLastInsertID
	returnClause
)

// compiler is the process-wide DML compiler of one vendor. It holds no
// per-statement state; one-time warnings are deduplicated in warned.
type compiler struct {
	vendor dialect.Vendor
	d      *dialect.Dialect
	hooks  vendorDML
	warned sync.Map
}

var (
	compilersOnce sync.Once
	compilers     map[dialect.Vendor]*compiler
)

func compilerFor(v dialect.Vendor) (*compiler, error) {
	compilersOnce.Do(func() {
		compilers = make(map[dialect.Vendor]*compiler, len(dialect.Vendors))
		for _, v := range dialect.Vendors {
			cm := &compiler{vendor: v, d: dialect.MustFor(v)}
			base := dmlBase{cm: cm}
			switch v {
			case dialect.MySQL, dialect.MariaDB:
				cm.hooks = &mysqlDML{dmlBase: base, mariadb: v == dialect.MariaDB}
			case dialect.Postgres:
				cm.hooks = &postgresDML{base}
			case dialect.Oracle:
				cm.hooks = &oracleDML{base}
			case dialect.Derby:
				cm.hooks = &derbyDML{base}
			case dialect.SQLite:
				cm.hooks = &sqliteDML{base}
			}
			compilers[v] = cm
		}
	})
	cm, ok := compilers[v]
	if !ok {
		return nil, fmt.Errorf("dialect/sql: unsupported vendor %s", v)
	}
	return cm, nil
}

// query compiles a top-level SELECT and records its result columns.
func (cm *compiler) query(c *scope, s *Selector, out *Compiled) error {
	c.root = true
	return cm.selectStmt(c, s, out)
}

// selectStmt writes a SELECT in scope c. out is nil for sub-queries.
func (cm *compiler) selectStmt(c *scope, s *Selector, out *Compiled) error {
	if s == nil {
		return errors.New("dialect/sql: nil sub-query")
	}
	if s.err != nil {
		return s.err
	}
	if len(s.items) == 0 {
		return errors.New("dialect/sql: SELECT without items")
	}
	from, where := s.resolve()
	c.assignAliases(from, s.joins)
	cm.hooks.openPaging(c, s)
	c.write("SELECT ")
	if s.distinct {
		c.write("DISTINCT ")
	}
	for i, it := range s.items {
		if i > 0 {
			c.write(", ")
		}
		if t, ok := it.(*Table); ok {
			cm.tableColumns(c, t)
			if out != nil {
				out.items = append(out.items, resultItem{subject: t, columns: t.columns})
			}
			continue
		}
		if as, ok := it.(*As); ok {
			if ref, ok := c.exportsAs(as); ok {
				c.write(ref)
				if out != nil {
					out.items = append(out.items, resultItem{subject: it, columns: []*Column{resultColumn(it)}})
				}
				continue
			}
		}
		if err := cm.hooks.selectItem(c, it, i); err != nil {
			return err
		}
		if out != nil {
			out.items = append(out.items, resultItem{subject: it, columns: []*Column{resultColumn(it)}})
		}
	}
	if len(from) == 0 {
		c.write(cm.hooks.dual())
	} else {
		c.write(" FROM ")
		for i, f := range from {
			if i > 0 {
				c.write(", ")
			}
			if err := cm.fromItem(c, f); err != nil {
				return err
			}
		}
	}
	for _, j := range s.joins {
		c.write(" ", cm.hooks.joinKind(c, j.kind).String(), " ")
		if err := cm.fromItem(c, j.target); err != nil {
			return err
		}
		if j.on != nil {
			c.write(" ON (")
			if err := cm.expr(c, j.on); err != nil {
				return err
			}
			c.write(")")
		}
	}
	if where != nil {
		c.write(" WHERE ")
		if err := cm.expr(c, where); err != nil {
			return err
		}
	}
	if groupBy := cm.hooks.groupBy(c, s); len(groupBy) > 0 {
		c.write(" GROUP BY ")
		for i, g := range groupBy {
			if i > 0 {
				c.write(", ")
			}
			if err := cm.groupItem(c, g); err != nil {
				return err
			}
		}
	}
	if s.having != nil {
		c.write(" HAVING ")
		if err := cm.expr(c, s.having); err != nil {
			return err
		}
	}
	for _, u := range s.unions {
		c.write(" UNION ")
		if u.all {
			c.write("ALL ")
		}
		if err := cm.selectStmt(c.state.scope(nil), u.sel, nil); err != nil {
			return err
		}
	}
	if len(s.orderBy) > 0 {
		c.write(" ORDER BY ")
		for i, o := range s.orderBy {
			if i > 0 {
				c.write(", ")
			}
			if err := cm.orderItem(c, o); err != nil {
				return err
			}
		}
	}
	cm.hooks.closePaging(c, s)
	if s.lock != nil {
		cm.hooks.lock(c, s.lock)
	}
	return nil
}

// subSelect writes a sub-query in a child scope of c.
func (cm *compiler) subSelect(c *scope, s *Selector) error {
	c.write("(")
	if err := cm.selectStmt(c.state.scope(c), s, nil); err != nil {
		return err
	}
	c.write(")")
	return nil
}

func (cm *compiler) fromItem(c *scope, f Subject) error {
	switch f := f.(type) {
	case *Table:
		c.write(c.q(f.name), " ", alias(c.register(f)))
	case *Selector:
		sq := c.subquery(f)
		c.write("(")
		if err := cm.selectStmt(sq.scope, f, nil); err != nil {
			return err
		}
		c.write(") ", alias(sq.index))
	default:
		return fmt.Errorf("dialect/sql: unsupported FROM item %T", f)
	}
	return nil
}

// tableColumns expands a table to its qualified columns.
func (cm *compiler) tableColumns(c *scope, t *Table) {
	for i, col := range t.columns {
		if i > 0 {
			c.write(", ")
		}
		c.write(c.resolve(col))
	}
}

func (cm *compiler) groupItem(c *scope, g Subject) error {
	switch g := g.(type) {
	case *Table:
		cm.tableColumns(c, g)
		return nil
	case *As:
		if ref, ok := c.exportsAs(g); ok {
			c.write(ref)
			return nil
		}
		if cm.hooks.groupByAlias() {
			c.write(c.q(g.name))
			return nil
		}
		return cm.expr(c, g.expr)
	}
	return cm.expr(c, g)
}

func (cm *compiler) orderItem(c *scope, o Subject) error {
	switch o := o.(type) {
	case *Table:
		cm.tableColumns(c, o)
		return nil
	case *As:
		return cm.expr(c, o)
	case *order:
		if err := cm.orderItem(c, o.expr); err != nil {
			return err
		}
		if o.desc {
			c.write(" DESC")
		} else {
			c.write(" ASC")
		}
		return nil
	}
	return cm.expr(c, o)
}

// resultColumn returns the template column of a non-table select item.
func resultColumn(it Subject) *Column {
	switch it := it.(type) {
	case *Column:
		if it.table != nil {
			return it
		}
	case *As:
		return &Column{name: it.name, spec: specOf(it.expr)}
	}
	return &Column{spec: specOf(it)}
}

// expr writes an expression or predicate.
func (cm *compiler) expr(c *scope, s Subject) error {
	switch x := s.(type) {
	case nil:
		return errors.New("dialect/sql: nil expression")
	case *Column:
		if x.table == nil {
			return c.bind(x.value, x.spec)
		}
		c.write(c.resolve(x))
	case *Table:
		return fmt.Errorf("dialect/sql: table %s used as a value", x.name)
	case *As:
		if ref, ok := c.exportsAs(x); ok {
			c.write(ref)
			return nil
		}
		return cm.expr(c, x.expr)
	case *Selector:
		return cm.subSelect(c, x)
	case *fn:
		return cm.hooks.fn(c, x)
	case *arith:
		c.write("(")
		if err := cm.expr(c, x.left); err != nil {
			return err
		}
		c.write(" ", string(x.op), " ")
		if err := cm.expr(c, x.right); err != nil {
			return err
		}
		c.write(")")
	case *concat:
		return cm.hooks.concat(c, x)
	case *cast:
		return cm.hooks.cast(c, x)
	case *aggregate:
		c.write(aggNames[x.op], "(")
		if x.expr == nil {
			c.write("*")
		} else {
			if x.distinct {
				c.write("DISTINCT ")
			}
			if err := cm.expr(c, x.expr); err != nil {
				return err
			}
		}
		c.write(")")
	case *CaseBuilder:
		return cm.caseExpr(c, x)
	case *temporal:
		return cm.hooks.temporal(c, x)
	case *order, position:
		return errors.New("dialect/sql: ordering used outside ORDER BY")
	case *quantified:
		c.write(x.kind, " ")
		return cm.subSelect(c, x.sub)
	case Predicate:
		return cm.predicate(c, x)
	default:
		return fmt.Errorf("dialect/sql: unsupported subject %T", s)
	}
	return nil
}

// args writes a comma separated argument list.
func (cm *compiler) args(c *scope, args ...Subject) error {
	for i, a := range args {
		if i > 0 {
			c.write(", ")
		}
		if err := cm.expr(c, a); err != nil {
			return err
		}
	}
	return nil
}

// call writes name(args...).
func (cm *compiler) call(c *scope, name string, args ...Subject) error {
	c.write(name, "(")
	if err := cm.args(c, args...); err != nil {
		return err
	}
	c.write(")")
	return nil
}

func (cm *compiler) caseExpr(c *scope, x *CaseBuilder) error {
	if x.err != nil {
		return x.err
	}
	if len(x.whens) == 0 {
		return errors.New("dialect/sql: CASE without WHEN")
	}
	c.write("CASE")
	if x.value != nil {
		c.write(" ")
		if err := cm.expr(c, x.value); err != nil {
			return err
		}
	}
	for _, w := range x.whens {
		c.write(" WHEN ")
		if err := cm.expr(c, w.cond); err != nil {
			return err
		}
		c.write(" THEN ")
		if err := cm.expr(c, w.then); err != nil {
			return err
		}
	}
	if x.els != nil {
		c.write(" ELSE ")
		if err := cm.expr(c, x.els); err != nil {
			return err
		}
	}
	c.write(" END")
	return nil
}

// isNullValue reports whether s is a free NULL value.
func isNullValue(s Subject) bool {
	c, ok := s.(*Column)
	return ok && c.table == nil && c.value == nil
}

func (cm *compiler) predicate(c *scope, p Predicate) error {
	switch x := p.(type) {
	case *comparison:
		if isNullValue(x.right) && (x.op == "=" || x.op == "<>") {
			return cm.predicate(c, &isNull{not: x.op == "<>", expr: x.left})
		}
		if err := cm.expr(c, x.left); err != nil {
			return err
		}
		c.write(" ", x.op, " ")
		return cm.expr(c, x.right)
	case *boolTerm:
		for i, t := range x.terms {
			if i > 0 {
				c.write(" ", x.op, " ")
			}
			nested, ok := t.(*boolTerm)
			if ok && nested.op != x.op {
				c.write("(")
			}
			if err := cm.expr(c, t); err != nil {
				return err
			}
			if ok && nested.op != x.op {
				c.write(")")
			}
		}
	case *not:
		c.write("NOT (")
		if err := cm.expr(c, x.p); err != nil {
			return err
		}
		c.write(")")
	case *in:
		if x.sub == nil && len(x.values) == 0 {
			// An empty list matches nothing.
			if x.not {
				c.write("1 = 1")
			} else {
				c.write("1 = 0")
			}
			return nil
		}
		if err := cm.expr(c, x.expr); err != nil {
			return err
		}
		if x.not {
			c.write(" NOT")
		}
		c.write(" IN ")
		if x.sub != nil {
			return cm.subSelect(c, x.sub)
		}
		c.write("(")
		if err := cm.args(c, x.values...); err != nil {
			return err
		}
		c.write(")")
	case *exists:
		if x.not {
			c.write("NOT ")
		}
		c.write("EXISTS ")
		return cm.subSelect(c, x.sub)
	case *like:
		if err := cm.expr(c, x.expr); err != nil {
			return err
		}
		if x.not {
			c.write(" NOT")
		}
		c.write(" LIKE ", c.compiler.d.QuoteString(x.pattern))
		if x.escaped {
			c.write(" ESCAPE '!'")
		}
	case *between:
		if err := cm.expr(c, x.expr); err != nil {
			return err
		}
		if x.not {
			c.write(" NOT")
		}
		c.write(" BETWEEN ")
		if err := cm.expr(c, x.lo); err != nil {
			return err
		}
		c.write(" AND ")
		return cm.expr(c, x.hi)
	case *isNull:
		if err := cm.expr(c, x.expr); err != nil {
			return err
		}
		if x.not {
			c.write(" IS NOT NULL")
		} else {
			c.write(" IS NULL")
		}
	default:
		return fmt.Errorf("dialect/sql: unsupported predicate %T", p)
	}
	return nil
}

// insert compiles INSERT statements and upserts.
func (cm *compiler) insert(c *scope, i *InsertBuilder, out *Compiled) error {
	if i.err != nil {
		return i.err
	}
	if i.table == nil {
		return errors.New("dialect/sql: INSERT without table")
	}
	var (
		cols []*Column
		rows [][]Subject
	)
	switch {
	case i.sel != nil:
		cols = i.columns
		if len(cols) == 0 {
			cols = i.table.columns
		}
	case len(i.values) > 0:
		cols = i.columns
		if len(cols) == 0 {
			cols = i.table.columns
		}
		for n, row := range i.values {
			if len(row) != len(cols) {
				return fmt.Errorf("dialect/sql: INSERT row %d has %d values for %d columns", n+1, len(row), len(cols))
			}
		}
		rows = i.values
	default:
		var row []Subject
		cols, row = cm.objectRow(c, i)
		rows = [][]Subject{row}
		if i.conflict == nil {
			cm.captureKeys(c, i, out)
		}
	}
	if i.conflict != nil {
		if i.sel != nil && cm.vendor != dialect.Postgres && cm.vendor != dialect.SQLite && cm.vendor != dialect.MySQL && cm.vendor != dialect.MariaDB {
			return fmt.Errorf("dialect/sql: upsert from a query is not supported by %s", cm.vendor)
		}
		return cm.hooks.upsert(c, i, cols, rows)
	}
	c.write("INSERT INTO ", c.q(i.table.name))
	if err := cm.insertBody(c, i, cols, rows); err != nil {
		return err
	}
	if len(out.returning) > 0 && cm.hooks.returning() == returnClause {
		c.write(" RETURNING ")
		for n, col := range out.returning {
			if n > 0 {
				c.write(", ")
			}
			c.write(c.q(col.name))
		}
	}
	return nil
}

// insertBody writes the column list and the VALUES or SELECT source.
func (cm *compiler) insertBody(c *scope, i *InsertBuilder, cols []*Column, rows [][]Subject) error {
	if len(cols) == 0 {
		return cm.hooks.emptyInsert(c, i.table)
	}
	c.write(" (")
	for n, col := range cols {
		if n > 0 {
			c.write(", ")
		}
		c.write(c.q(col.name))
	}
	c.write(")")
	if i.sel != nil {
		c.write(" ")
		return cm.selectStmt(c.state.scope(nil), i.sel, nil)
	}
	c.write(" VALUES ")
	for n, row := range rows {
		if n > 0 {
			c.write(", ")
		}
		c.write("(")
		if err := cm.args(c, row...); err != nil {
			return err
		}
		c.write(")")
	}
	return nil
}

// objectRow returns the columns and values of an object-style insert: set
// columns and unset columns with a client-side generation strategy.
// Explicitly listed columns are always written.
func (cm *compiler) objectRow(c *scope, i *InsertBuilder) ([]*Column, []Subject) {
	candidates, explicit := i.table.columns, len(i.columns) > 0
	if explicit {
		candidates = i.columns
	}
	var (
		cols []*Column
		row  []Subject
	)
	for _, col := range candidates {
		switch {
		case col.set:
			cols, row = append(cols, col), append(row, TypedValue(col.value, col.spec))
		case col.onInsert != field.GenerateNone:
			v, ok := generated(col.onInsert, col.spec, c.cfg.now())
			if !ok {
				continue
			}
			col := col
			c.afterExecute(func(success bool) {
				if success {
					col.load(v)
				}
			})
			cols, row = append(cols, col), append(row, TypedValue(v, col.spec))
		case explicit:
			cols, row = append(cols, col), append(row, TypedValue(col.value, col.spec))
		}
	}
	return cols, row
}

// captureKeys records the unset auto-increment columns of an object-style
// insert so that execution can read the generated values back.
func (cm *compiler) captureKeys(c *scope, i *InsertBuilder, out *Compiled) {
	mode := cm.hooks.returning()
	if mode == returnNone {
		return
	}
	var keys []*Column
	for _, col := range i.table.columns {
		if col.onInsert == field.GenerateAutoIncrement && !col.set {
			keys = append(keys, col)
		}
	}
	if mode == returnLastInsertID && len(keys) != 1 {
		return
	}
	out.returning = keys
}

// update compiles explicit and object-style UPDATE statements. An object
// update without changes compiles to an empty statement.
func (cm *compiler) update(c *scope, u *UpdateBuilder) error {
	if u.err != nil {
		return u.err
	}
	if u.table == nil {
		return errors.New("dialect/sql: UPDATE without table")
	}
	if len(u.sets) > 0 {
		c.write("UPDATE ", c.q(u.table.name), " SET ")
		for n, a := range u.sets {
			if n > 0 {
				c.write(", ")
			}
			c.write(c.q(a.column.name), " = ")
			if err := cm.expr(c, a.value); err != nil {
				return err
			}
		}
		if u.where != nil {
			c.write(" WHERE ")
			return cm.expr(c, u.where)
		}
		return nil
	}
	var keys []*Column
	for _, col := range u.table.columns {
		if col.primary || col.keyForUpdate {
			keys = append(keys, col)
		}
	}
	if len(keys) == 0 && u.where == nil {
		return fmt.Errorf("dialect/sql: object-style UPDATE of %s requires a primary key", u.table.name)
	}
	// Key values are captured before generation replaces them.
	where := make([]Predicate, 0, len(keys)+1)
	for _, k := range keys {
		where = append(where, EQ(k, TypedValue(k.value, k.spec)))
	}
	where = append(where, u.where)
	n := 0
	for _, col := range u.table.columns {
		if col.primary {
			continue
		}
		value, ok, err := cm.updateValue(c, col)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if n == 0 {
			c.write("UPDATE ", c.q(u.table.name), " SET ")
		} else {
			c.write(", ")
		}
		c.write(c.q(col.name), " = ")
		if err := cm.expr(c, value); err != nil {
			return err
		}
		n++
	}
	if n == 0 {
		return nil
	}
	if w := And(where...); w != nil {
		c.write(" WHERE ")
		return cm.expr(c, w)
	}
	return nil
}

// updateValue returns the new value of a column in an object-style update
// and registers the callbacks that store it back after execution.
func (cm *compiler) updateValue(c *scope, col *Column) (Subject, bool, error) {
	switch {
	case col.increment != nil:
		delta, old := col.increment, col.value
		c.afterExecute(func(success bool) {
			if sum, ok := addNumbers(old, delta); success && ok {
				col.load(sum)
			}
		})
		return Add(col, TypedValue(delta, col.spec)), true, nil
	case col.set && !(col.keyForUpdate && col.onUpdate != field.GenerateNone):
		return TypedValue(col.value, col.spec), true, nil
	case col.onUpdate == field.GenerateIncrement:
		old := col.value
		c.afterExecute(func(success bool) {
			if sum, ok := addNumbers(old, int64(1)); success && ok {
				col.load(sum)
			}
		})
		return Add(col, TypedValue(int64(1), col.spec)), true, nil
	case col.onUpdate != field.GenerateNone:
		v, ok := generated(col.onUpdate, col.spec, c.cfg.now())
		if !ok {
			return nil, false, nil
		}
		c.afterExecute(func(success bool) {
			if success {
				col.load(v)
			}
		})
		return TypedValue(v, col.spec), true, nil
	}
	return nil, false, nil
}

// delete compiles explicit and object-style DELETE statements.
func (cm *compiler) delete(c *scope, d *DeleteBuilder) error {
	if d.table == nil {
		return errors.New("dialect/sql: DELETE without table")
	}
	c.write("DELETE FROM ", c.q(d.table.name))
	where := d.where
	if where == nil {
		var ps []Predicate
		for _, col := range d.table.columns {
			if col.set {
				ps = append(ps, EQ(col, TypedValue(col.value, col.spec)))
			}
		}
		where = And(ps...)
	}
	if where != nil {
		c.write(" WHERE ")
		return cm.expr(c, where)
	}
	return nil
}

// addNumbers adds two numeric values of compatible Go types.
func addNumbers(a, b any) (any, bool) {
	switch x := a.(type) {
	case decimal.Decimal:
		switch y := b.(type) {
		case decimal.Decimal:
			return x.Add(y), true
		case int64:
			return x.Add(decimal.NewFromInt(y)), true
		case int:
			return x.Add(decimal.NewFromInt(int64(y))), true
		case float64:
			return x.Add(decimal.NewFromFloat(y)), true
		}
	case float64:
		if y, ok := asFloat(b); ok {
			return x + y, true
		}
	case float32:
		if y, ok := asFloat(b); ok {
			return float64(x) + y, true
		}
	default:
		xi, ok := toInt(a)
		if !ok {
			return nil, false
		}
		if y, ok := toInt(b); ok {
			return xi + y, true
		}
		if y, ok := toFloat(b); ok {
			return float64(xi) + y, true
		}
	}
	return nil, false
}

func toInt(v any) (int64, bool) {
	switch v := v.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	}
	return 0, false
}

// asFloat accepts any integer or floating-point value.
func asFloat(v any) (float64, bool) {
	if i, ok := toInt(v); ok {
		return float64(i), true
	}
	return toFloat(v)
}

func toFloat(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	}
	return 0, false
}

// dmlBase renders the common forms, which are those of PostgreSQL.
type dmlBase struct {
	cm *compiler
}

func (dmlBase) dual() string { return "" }

func (dmlBase) joinKind(_ *scope, k JoinKind) JoinKind { return k }

func (b dmlBase) selectItem(c *scope, it Subject, _ int) error {
	if as, ok := it.(*As); ok {
		if err := b.cm.expr(c, as.expr); err != nil {
			return err
		}
		c.write(" AS ", c.q(as.name))
		return nil
	}
	return b.cm.expr(c, it)
}

func (dmlBase) groupByAlias() bool { return true }

func (dmlBase) groupBy(_ *scope, s *Selector) []Subject { return s.groupBy }

func (dmlBase) openPaging(*scope, *Selector) {}

func (dmlBase) closePaging(c *scope, s *Selector) {
	if s.limit != nil {
		c.write(" LIMIT ", strconv.Itoa(*s.limit))
	}
	if s.offset != nil {
		c.write(" OFFSET ", strconv.Itoa(*s.offset))
	}
}

func (b dmlBase) lock(c *scope, l *lockClause) {
	c.write(" FOR ", l.strength.String())
	b.lockOf(c, l)
	if l.action != LockWait {
		c.write(" ", l.action.String())
	}
}

// lockOf writes the OF clause with the aliases of the locked tables.
func (dmlBase) lockOf(c *scope, l *lockClause) {
	var (
		seen  = make(map[*Table]bool)
		names []string
	)
	for _, s := range l.of {
		var t *Table
		switch s := s.(type) {
		case *Table:
			t = s
		case *Column:
			t = s.table
		}
		if t == nil || seen[t] {
			continue
		}
		seen[t] = true
		if i, ok := c.lookup(t); ok {
			names = append(names, alias(i))
		} else {
			names = append(names, c.q(t.name))
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

func (b dmlBase) fn(c *scope, f *fn) error {
	switch f.op {
	case opPi:
		c.write("PI()")
		return nil
	case opNow:
		c.write(b.cm.d.CurrentTimestamp())
		return nil
	case opCurrentDate:
		c.write(b.cm.d.CurrentDate())
		return nil
	case opCurrentTime:
		c.write(b.cm.d.CurrentTime())
		return nil
	}
	return b.cm.call(c, fnNames[f.op], f.args...)
}

// logBase returns the base of the fixed-base logarithms.
func logBase(op fnOp) string {
	if op == opLog2 {
		return "2"
	}
	return "10"
}

func (b dmlBase) concat(c *scope, e *concat) error {
	c.write("(")
	for i, p := range e.parts {
		if i > 0 {
			c.write(" || ")
		}
		if err := b.cm.expr(c, p); err != nil {
			return err
		}
	}
	c.write(")")
	return nil
}

func (b dmlBase) cast(c *scope, e *cast) error {
	decl, err := b.castType(e.to)
	if err != nil {
		return err
	}
	c.write("CAST(")
	if err := b.cm.expr(c, e.expr); err != nil {
		return err
	}
	c.write(" AS ", decl, ")")
	return nil
}

// castType declares the target type of a CAST. Enums are cast to
// character data of their longest value.
func (b dmlBase) castType(to field.Spec) (string, error) {
	if to.Type == field.TypeEnum {
		to = field.Spec{Type: field.TypeChar, Varying: true, Length: to.MaxValueLength()}
	}
	decl, err := b.cm.d.Declare("", "", to)
	if err != nil {
		return "", fmt.Errorf("dialect/sql: cast: %w", err)
	}
	return decl, nil
}

// temporal writes (x + INTERVAL '1 MONTH 2 DAY').
func (b dmlBase) temporal(c *scope, e *temporal) error {
	iv := e.interval.convertTo(Micros, Millis, Seconds, Minutes, Hours, Days, Weeks, Months, Years, Decades, Centuries, Millennia)
	c.write("(")
	if err := b.cm.expr(c, e.expr); err != nil {
		return err
	}
	c.write(" ", string(e.op), " INTERVAL ", c.compiler.d.QuoteString(iv.String()), ")")
	return nil
}

func (b dmlBase) emptyInsert(c *scope, _ *Table) error {
	c.write(" DEFAULT VALUES")
	return nil
}

// defaultColumnInsert writes ("c") VALUES (DEFAULT) for vendors without
// DEFAULT VALUES.
func (dmlBase) defaultColumnInsert(c *scope, t *Table) error {
	if len(t.columns) == 0 {
		return fmt.Errorf("dialect/sql: table %s has no columns", t.name)
	}
	c.write(" (", c.q(t.columns[0].name), ") VALUES (DEFAULT)")
	return nil
}

// conflictKeys returns the conflict target of an upsert and the columns
// updated on conflict.
func conflictKeys(i *InsertBuilder, cols []*Column) (keys, update []*Column, err error) {
	keys = i.conflict.columns
	if len(keys) == 0 {
		for _, col := range i.table.columns {
			if col.primary {
				keys = append(keys, col)
			}
		}
	}
	if len(keys) == 0 {
		return nil, nil, fmt.Errorf("dialect/sql: upsert into %s requires conflict columns or a primary key", i.table.name)
	}
	if i.conflict.nothing {
		return keys, nil, nil
	}
	update = i.conflict.update
	if len(update) == 0 {
		isKey := make(map[*Column]bool, len(keys))
		for _, k := range keys {
			isKey[k] = true
		}
		for _, col := range cols {
			if !isKey[col] {
				update = append(update, col)
			}
		}
	}
	return keys, update, nil
}

// upsert writes INSERT .. ON CONFLICT (..) DO UPDATE SET .. = EXCLUDED.. or
// DO NOTHING.
func (b dmlBase) upsert(c *scope, i *InsertBuilder, cols []*Column, rows [][]Subject) error {
	keys, update, err := conflictKeys(i, cols)
	if err != nil {
		return err
	}
	c.write("INSERT INTO ", c.q(i.table.name))
	if err := b.cm.insertBody(c, i, cols, rows); err != nil {
		return err
	}
	c.write(" ON CONFLICT (")
	for n, k := range keys {
		if n > 0 {
			c.write(", ")
		}
		c.write(c.q(k.name))
	}
	c.write(")")
	if len(update) == 0 {
		c.write(" DO NOTHING")
		return nil
	}
	c.write(" DO UPDATE SET ")
	for n, col := range update {
		if n > 0 {
			c.write(", ")
		}
		c.write(c.q(col.name), " = EXCLUDED.", c.q(col.name))
	}
	return nil
}

func (dmlBase) returning() returnMode { return returnNone }
