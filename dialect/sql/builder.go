package sql

import (
	"errors"
	"sync"
)

// Statement is a compilable DML statement: a *Selector, *InsertBuilder,
// *UpdateBuilder or *DeleteBuilder.
type Statement interface {
	statement()
}

// JoinKind is the kind of a JOIN clause.
type JoinKind uint8

// Join kinds.
const (
	JoinInner JoinKind = iota + 1
	JoinLeft
	JoinRight
	JoinFull
	JoinCross
	JoinNatural
)

var joinNames = map[JoinKind]string{
	JoinInner:   "INNER JOIN",
	JoinLeft:    "LEFT OUTER JOIN",
	JoinRight:   "RIGHT OUTER JOIN",
	JoinFull:    "FULL OUTER JOIN",
	JoinCross:   "CROSS JOIN",
	JoinNatural: "NATURAL JOIN",
}

// String returns the SQL keywords of the join kind.
func (k JoinKind) String() string { return joinNames[k] }

// joinClause is one JOIN of a SELECT. A join without ON keeps a nil
// condition so joins and conditions stay index aligned.
type joinClause struct {
	kind   JoinKind
	target Subject
	on     Predicate
}

// LockStrength is the row lock requested by FOR UPDATE or FOR SHARE.
type LockStrength uint8

// Lock strengths.
const (
	LockUpdate LockStrength = iota + 1
	LockShare
)

// String returns the SQL keyword of the lock strength.
func (l LockStrength) String() string {
	if l == LockShare {
		return "SHARE"
	}
	return "UPDATE"
}

// LockAction is the behavior when a row lock cannot be acquired.
type LockAction uint8

// Lock actions.
const (
	LockWait LockAction = iota
	LockNoWait
	LockSkipLocked
)

// String returns the SQL keywords of the lock action.
func (a LockAction) String() string {
	switch a {
	case LockNoWait:
		return "NOWAIT"
	case LockSkipLocked:
		return "SKIP LOCKED"
	}
	return ""
}

type lockClause struct {
	strength LockStrength
	action   LockAction
	of       []Subject
}

// LockOption configures a FOR UPDATE or FOR SHARE clause.
type LockOption func(*lockClause)

// LockOf restricts the lock to the given tables or columns.
func LockOf(subjects ...Subject) LockOption {
	return func(l *lockClause) { l.of = append(l.of, subjects...) }
}

// NoWait fails instead of waiting for locked rows.
func NoWait() LockOption {
	return func(l *lockClause) { l.action = LockNoWait }
}

// SkipLocked skips locked rows.
func SkipLocked() LockOption {
	return func(l *lockClause) { l.action = LockSkipLocked }
}

type union struct {
	all bool
	sel *Selector
}

// Selector is a builder for the SELECT statement.
//
// When FROM is not given, it is derived from the tables of the select
// items. When every item is a table and no WHERE is given, the statement is
// an object-style query: the WHERE clause compares every set column of the
// tables with its value.
type Selector struct {
	distinct bool
	items    []Subject
	from     []Subject
	joins    []joinClause
	where    Predicate
	groupBy  []Subject
	having   Predicate
	orderBy  []Subject
	limit    *int
	offset   *int
	unions   []union
	lock     *lockClause
	err      error

	derive  sync.Once
	derived struct {
		from  []Subject
		where Predicate
	}
}

// Select returns a SELECT of the given items. Tables expand to all their
// columns.
func Select(items ...Subject) *Selector {
	return &Selector{items: items}
}

// SelectDistinct returns a SELECT DISTINCT of the given items.
func SelectDistinct(items ...Subject) *Selector {
	return &Selector{items: items, distinct: true}
}

func (*Selector) statement() {}
func (*Selector) subject()   {}

// Items returns the select items.
func (s *Selector) Items() []Subject { return s.items }

// From sets the tables or sub-queries to select from.
func (s *Selector) From(ts ...Subject) *Selector {
	for _, t := range ts {
		switch t.(type) {
		case *Table, *Selector:
		default:
			s.setErr(errors.New("dialect/sql: FROM accepts tables and sub-queries only"))
		}
	}
	s.from = append(s.from, ts...)
	return s
}

func (s *Selector) addJoin(kind JoinKind, t Subject) *Selector {
	switch t.(type) {
	case *Table, *Selector:
	default:
		s.setErr(errors.New("dialect/sql: JOIN accepts tables and sub-queries only"))
	}
	s.joins = append(s.joins, joinClause{kind: kind, target: t})
	return s
}

// Join appends an INNER JOIN.
func (s *Selector) Join(t Subject) *Selector { return s.addJoin(JoinInner, t) }

// LeftJoin appends a LEFT OUTER JOIN.
func (s *Selector) LeftJoin(t Subject) *Selector { return s.addJoin(JoinLeft, t) }

// RightJoin appends a RIGHT OUTER JOIN.
func (s *Selector) RightJoin(t Subject) *Selector { return s.addJoin(JoinRight, t) }

// FullJoin appends a FULL OUTER JOIN.
func (s *Selector) FullJoin(t Subject) *Selector { return s.addJoin(JoinFull, t) }

// CrossJoin appends a CROSS JOIN.
func (s *Selector) CrossJoin(t Subject) *Selector { return s.addJoin(JoinCross, t) }

// NaturalJoin appends a NATURAL JOIN.
func (s *Selector) NaturalJoin(t Subject) *Selector { return s.addJoin(JoinNatural, t) }

// On sets the condition of the last join.
func (s *Selector) On(p Predicate) *Selector {
	n := len(s.joins)
	switch {
	case n == 0:
		s.setErr(errors.New("dialect/sql: ON without JOIN"))
	case s.joins[n-1].kind == JoinCross || s.joins[n-1].kind == JoinNatural:
		s.setErr(errors.New("dialect/sql: ON is not allowed for " + s.joins[n-1].kind.String()))
	default:
		s.joins[n-1].on = And(s.joins[n-1].on, p)
	}
	return s
}

// Where adds a predicate to the WHERE clause. Multiple calls are joined
// with AND.
func (s *Selector) Where(p Predicate) *Selector {
	s.where = And(s.where, p)
	return s
}

// GroupBy sets the GROUP BY items.
func (s *Selector) GroupBy(items ...Subject) *Selector {
	s.groupBy = append(s.groupBy, items...)
	return s
}

// Having adds a predicate to the HAVING clause.
func (s *Selector) Having(p Predicate) *Selector {
	s.having = And(s.having, p)
	return s
}

// OrderBy appends ORDER BY items. Use Asc, Desc and Position to control
// the direction or to refer to a select item by index.
func (s *Selector) OrderBy(items ...Subject) *Selector {
	s.orderBy = append(s.orderBy, items...)
	return s
}

// Limit limits the number of returned rows.
func (s *Selector) Limit(n int) *Selector {
	if n < 0 {
		s.setErr(errors.New("dialect/sql: negative LIMIT"))
	}
	s.limit = &n
	return s
}

// Offset skips the first n rows.
func (s *Selector) Offset(n int) *Selector {
	if n < 0 {
		s.setErr(errors.New("dialect/sql: negative OFFSET"))
	}
	s.offset = &n
	return s
}

// Union appends a UNION with the given query.
func (s *Selector) Union(o *Selector) *Selector {
	s.unions = append(s.unions, union{sel: o})
	return s
}

// UnionAll appends a UNION ALL with the given query.
func (s *Selector) UnionAll(o *Selector) *Selector {
	s.unions = append(s.unions, union{all: true, sel: o})
	return s
}

// ForUpdate locks the selected rows for update.
func (s *Selector) ForUpdate(opts ...LockOption) *Selector {
	return s.For(LockUpdate, opts...)
}

// ForShare locks the selected rows in share mode.
func (s *Selector) ForShare(opts ...LockOption) *Selector {
	return s.For(LockShare, opts...)
}

// For sets the row locking clause.
func (s *Selector) For(l LockStrength, opts ...LockOption) *Selector {
	s.lock = &lockClause{strength: l}
	for _, opt := range opts {
		opt(s.lock)
	}
	return s
}

// Err returns the first construction error.
func (s *Selector) Err() error { return s.err }

func (s *Selector) setErr(err error) {
	if s.err == nil {
		s.err = err
	}
}

// resolve returns the FROM items and the WHERE clause, deriving them on the
// first call when they were not given.
func (s *Selector) resolve() ([]Subject, Predicate) {
	s.derive.Do(func() {
		s.derived.from, s.derived.where = s.from, s.where
		if len(s.from) == 0 {
			s.derived.from = s.itemTables()
		}
		if s.where == nil && s.objectQuery() {
			var ps []Predicate
			for _, it := range s.items {
				for _, c := range it.(*Table).columns {
					if c.set {
						ps = append(ps, EQ(c, TypedValue(c.value, c.spec)))
					}
				}
			}
			s.derived.where = And(ps...)
		}
	})
	return s.derived.from, s.derived.where
}

// objectQuery reports whether all items are whole tables.
func (s *Selector) objectQuery() bool {
	if len(s.items) == 0 {
		return false
	}
	for _, it := range s.items {
		if _, ok := it.(*Table); !ok {
			return false
		}
	}
	return true
}

// itemTables returns the distinct tables referenced by the select items,
// in order of first appearance, excluding tables that are joined.
func (s *Selector) itemTables() []Subject {
	var (
		out  []Subject
		seen = make(map[*Table]bool)
	)
	for _, j := range s.joins {
		if t, ok := j.target.(*Table); ok {
			seen[t] = true
		}
	}
	var visit func(Subject)
	visit = func(x Subject) {
		switch x := x.(type) {
		case *Table:
			if !seen[x] {
				seen[x] = true
				out = append(out, x)
			}
		case *Column:
			if x.table != nil {
				visit(x.table)
			}
		case *As:
			visit(x.expr)
		case *fn:
			for _, a := range x.args {
				visit(a)
			}
		case *arith:
			visit(x.left)
			visit(x.right)
		case *concat:
			for _, p := range x.parts {
				visit(p)
			}
		case *cast:
			visit(x.expr)
		case *aggregate:
			if x.expr != nil {
				visit(x.expr)
			}
		case *temporal:
			visit(x.expr)
		case *comparison:
			visit(x.left)
			visit(x.right)
		case *boolTerm:
			for _, t := range x.terms {
				visit(t)
			}
		case *not:
			visit(x.p)
		case *like:
			visit(x.expr)
		case *between:
			visit(x.expr)
			visit(x.lo)
			visit(x.hi)
		case *isNull:
			visit(x.expr)
		case *in:
			visit(x.expr)
			for _, v := range x.values {
				visit(v)
			}
		case *CaseBuilder:
			if x.value != nil {
				visit(x.value)
			}
			for _, w := range x.whens {
				visit(w.cond)
				visit(w.then)
			}
			if x.els != nil {
				visit(x.els)
			}
		}
	}
	for _, it := range s.items {
		visit(it)
	}
	return out
}

// InsertBuilder is a builder for the INSERT statement.
//
// Without Columns, Values or Select the insert is object style: it writes
// the set columns of the table and fills unset columns that have a
// client-side generation strategy.
type InsertBuilder struct {
	table    *Table
	columns  []*Column
	values   [][]Subject
	sel      *Selector
	conflict *conflict
	err      error
}

type conflict struct {
	columns []*Column
	update  []*Column
	nothing bool
}

// Insert returns an INSERT into the table.
func Insert(t *Table) *InsertBuilder { return &InsertBuilder{table: t} }

func (*InsertBuilder) statement() {}

// Table returns the target table.
func (i *InsertBuilder) Table() *Table { return i.table }

// Columns sets the inserted columns.
func (i *InsertBuilder) Columns(cs ...*Column) *InsertBuilder {
	for _, c := range cs {
		if c.table != i.table {
			i.setErr(errors.New("dialect/sql: INSERT column " + c.name + " does not belong to " + i.table.name))
		}
	}
	i.columns = append(i.columns, cs...)
	return i
}

// Values appends a row of values. Each call adds a row.
func (i *InsertBuilder) Values(vs ...any) *InsertBuilder {
	i.values = append(i.values, toSubjects(vs))
	return i
}

// Select inserts the rows of the query.
func (i *InsertBuilder) Select(sel *Selector) *InsertBuilder {
	i.sel = sel
	return i
}

// OnConflict turns the insert into an upsert keyed by the given unique
// columns. The primary key is used when no column is given.
func (i *InsertBuilder) OnConflict(cs ...*Column) *InsertBuilder {
	i.conflict = &conflict{columns: cs}
	return i
}

// DoUpdate updates the given columns of the existing row on conflict. All
// inserted non-key columns are updated when no column is given.
func (i *InsertBuilder) DoUpdate(cs ...*Column) *InsertBuilder {
	if i.conflict == nil {
		i.setErr(errors.New("dialect/sql: DO UPDATE without ON CONFLICT"))
		return i
	}
	i.conflict.update = cs
	return i
}

// DoNothing ignores conflicting rows.
func (i *InsertBuilder) DoNothing() *InsertBuilder {
	if i.conflict == nil {
		i.setErr(errors.New("dialect/sql: DO NOTHING without ON CONFLICT"))
		return i
	}
	i.conflict.nothing = true
	return i
}

func (i *InsertBuilder) setErr(err error) {
	if i.err == nil {
		i.err = err
	}
}

// UpdateBuilder is a builder for the UPDATE statement.
//
// Without Set the update is object style: it writes the set non-key
// columns of the table and matches the row by its primary key and
// key-for-update columns.
type UpdateBuilder struct {
	table *Table
	sets  []assignment
	where Predicate
	err   error
}

type assignment struct {
	column *Column
	value  Subject
}

// Update returns an UPDATE of the table.
func Update(t *Table) *UpdateBuilder { return &UpdateBuilder{table: t} }

func (*UpdateBuilder) statement() {}

// Set assigns a value or an expression to the column.
func (u *UpdateBuilder) Set(c *Column, v any) *UpdateBuilder {
	if c.table != u.table {
		u.err = errors.New("dialect/sql: SET column " + c.name + " does not belong to " + u.table.name)
	}
	u.sets = append(u.sets, assignment{column: c, value: toSubject(v)})
	return u
}

// Where adds a predicate to the WHERE clause.
func (u *UpdateBuilder) Where(p Predicate) *UpdateBuilder {
	u.where = And(u.where, p)
	return u
}

// DeleteBuilder is a builder for the DELETE statement.
//
// Without Where the delete is object style: it matches rows on every set
// column of the table.
type DeleteBuilder struct {
	table *Table
	where Predicate
}

// Delete returns a DELETE from the table.
func Delete(t *Table) *DeleteBuilder { return &DeleteBuilder{table: t} }

func (*DeleteBuilder) statement() {}

// Where adds a predicate to the WHERE clause.
func (d *DeleteBuilder) Where(p Predicate) *DeleteBuilder {
	d.where = And(d.where, p)
	return d
}
