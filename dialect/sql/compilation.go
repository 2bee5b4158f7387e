package sql

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/syssam/rdb/dialect"
	"github.com/syssam/rdb/schema/field"
)

// Compiled is the result of compiling a statement: the SQL text and its
// bound arguments in placeholder order.
type Compiled struct {
	SQL    string
	Args   []any
	Vendor dialect.Vendor
	// Warnings lists the capability gaps resolved by substitution.
	Warnings []string

	// items describes the result columns of a query.
	items []resultItem
	// skip is the number of leading result columns that are not items.
	skip  int
	after []func(success bool)
	// returning holds the columns filled from the result of an insert.
	returning  []*Column
	returnMode returnMode
}

// String returns the SQL text.
func (c *Compiled) String() string { return c.SQL }

// resultItem maps a select item to its result columns.
type resultItem struct {
	subject Subject
	columns []*Column
}

// CompileOption configures a compilation.
type CompileOption func(*compileConfig)

type compileConfig struct {
	inline bool
	logger *slog.Logger
	now    func() time.Time
}

// Inline writes all values as literals instead of bound parameters, for
// drivers or tools that cannot prepare statements.
func Inline() CompileOption {
	return func(c *compileConfig) { c.inline = true }
}

// WithLogger sets the logger of capability-gap warnings.
func WithLogger(l *slog.Logger) CompileOption {
	return func(c *compileConfig) { c.logger = l }
}

// WithClock sets the clock of client-side generated timestamps.
func WithClock(now func() time.Time) CompileOption {
	return func(c *compileConfig) { c.now = now }
}

// Compile compiles the statement for the vendor. Construction errors of
// the statement tree are returned and no SQL is produced.
func Compile(stmt Statement, v dialect.Vendor, opts ...CompileOption) (*Compiled, error) {
	cfg := compileConfig{logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	comp, err := compilerFor(v)
	if err != nil {
		return nil, err
	}
	st := &state{compiler: comp, cfg: cfg}
	root := st.scope(nil)
	out := &Compiled{Vendor: v, returnMode: comp.hooks.returning()}
	switch stmt := stmt.(type) {
	case *Selector:
		err = comp.query(root, stmt, out)
	case *InsertBuilder:
		err = comp.insert(root, stmt, out)
	case *UpdateBuilder:
		err = comp.update(root, stmt)
	case *DeleteBuilder:
		err = comp.delete(root, stmt)
	case nil:
		err = fmt.Errorf("dialect/sql: nil statement")
	default:
		err = fmt.Errorf("dialect/sql: unsupported statement %T", stmt)
	}
	if err != nil {
		return nil, err
	}
	out.SQL = st.b.String()
	out.Args = st.args
	out.Warnings = st.warnings
	out.after = st.after
	out.skip = st.skip
	return out, nil
}

// state is shared by all scopes of one compilation.
type state struct {
	compiler *compiler
	cfg      compileConfig
	b        strings.Builder
	args     []any
	after    []func(bool)
	warnings []string
	// skip counts leading result columns added by paging wrappers.
	skip int
	// nodes is the alias arena. A node's alias is derived from its index,
	// so aliases are unique across the whole statement.
	nodes []node
}

type node struct {
	subject Subject
	scope   *scope
}

// scope is the alias frame of one SELECT. Sub-queries get a child scope
// linked to their parent for correlated references.
type scope struct {
	*state
	parent *scope
	// subs are the sub-queries of the FROM and JOIN clauses.
	subs []*subquery
	// owned are the arena indices registered in this scope.
	owned []int
	// root marks the scope of the top-level query.
	root bool
}

type subquery struct {
	sel   *Selector
	index int
	scope *scope
}

func (st *state) scope(parent *scope) *scope {
	return &scope{state: st, parent: parent}
}

// register returns the arena index of s in this scope, adding it when
// missing. Registration is idempotent.
func (c *scope) register(s Subject) int {
	if i, ok := c.lookup(s); ok {
		return i
	}
	c.nodes = append(c.nodes, node{subject: s, scope: c})
	i := len(c.nodes) - 1
	c.owned = append(c.owned, i)
	return i
}

// lookup returns the arena index of s in this scope.
func (c *scope) lookup(s Subject) (int, bool) {
	for _, i := range c.owned {
		if c.nodes[i].subject == s {
			return i, true
		}
	}
	return 0, false
}

// alias returns the label of the arena index: a, b, .., z, aa, ab, ...
func alias(i int) string {
	var b []byte
	for i++; i > 0; i = (i - 1) / 26 {
		b = append([]byte{byte('a' + (i-1)%26)}, b...)
	}
	return string(b)
}

// subquery returns the FROM sub-query scope of sel, preparing it when
// missing.
func (c *scope) subquery(sel *Selector) *subquery {
	for _, sq := range c.subs {
		if sq.sel == sel {
			return sq
		}
	}
	sq := &subquery{sel: sel, index: c.register(sel), scope: c.state.scope(c)}
	from, _ := sel.resolve()
	sq.scope.assignAliases(from, sel.joins)
	c.subs = append(c.subs, sq)
	return sq
}

// assignAliases registers the FROM and JOIN items in clause order.
func (c *scope) assignAliases(from []Subject, joins []joinClause) {
	for _, f := range from {
		c.registerItem(f)
	}
	for _, j := range joins {
		c.registerItem(j.target)
	}
}

func (c *scope) registerItem(s Subject) {
	switch s := s.(type) {
	case *Table:
		c.register(s)
	case *Selector:
		c.subquery(s)
	}
}

// resolve returns the qualified reference of a table column: the local
// alias, a FROM sub-query alias, or an ancestor alias for correlated
// sub-queries. Unresolved columns are written unqualified.
func (c *scope) resolve(col *Column) string {
	q := c.compiler.d.QuoteIdentifier
	if i, ok := c.lookup(col.table); ok {
		return alias(i) + "." + q(col.name)
	}
	for _, sq := range c.subs {
		if ref, ok := sq.exports(col); ok {
			return alias(sq.index) + "." + ref
		}
	}
	for p := c.parent; p != nil; p = p.parent {
		if i, ok := p.lookup(col.table); ok {
			return alias(i) + "." + q(col.name)
		}
		for _, sq := range p.subs {
			if ref, ok := sq.exports(col); ok {
				return alias(sq.index) + "." + ref
			}
		}
	}
	return q(col.name)
}

// exports reports how an enclosing query refers to col through the
// sub-query: by its alias when selected with As, or by name.
func (sq *subquery) exports(col *Column) (string, bool) {
	q := sq.scope.compiler.d.QuoteIdentifier
	for _, it := range sq.sel.items {
		switch it := it.(type) {
		case *As:
			if it.expr == Subject(col) {
				return q(it.name), true
			}
		case *Column:
			if it == col {
				return q(col.name), true
			}
		case *Table:
			if it == col.table {
				return q(col.name), true
			}
		}
	}
	return "", false
}

// exportsAs returns the reference to an As selected by a FROM sub-query
// visible from c, excluding the sub-query being compiled.
func (c *scope) exportsAs(a *As) (string, bool) {
	for s := c; s != nil; s = s.parent {
		for _, sq := range s.subs {
			if c.within(sq.scope) {
				continue
			}
			for _, it := range sq.sel.items {
				if it == Subject(a) {
					return alias(sq.index) + "." + c.compiler.d.QuoteIdentifier(a.name), true
				}
			}
		}
	}
	return "", false
}

// within reports whether c is s or one of its descendants.
func (c *scope) within(s *scope) bool {
	for p := c; p != nil; p = p.parent {
		if p == s {
			return true
		}
	}
	return false
}

func (c *scope) write(ss ...string) {
	for _, s := range ss {
		c.b.WriteString(s)
	}
}

func (c *scope) q(name string) string { return c.compiler.d.QuoteIdentifier(name) }

// bind writes v as a placeholder, or as a literal in inline mode.
func (c *scope) bind(v any, spec field.Spec) error {
	if v == nil {
		c.write("NULL")
		return nil
	}
	if c.cfg.inline {
		if id, ok := v.(uuid.UUID); ok {
			v = c.compiler.arg(spec, id)
		}
		lit, err := c.compiler.d.Literal(spec.Type, v)
		if err != nil {
			return fmt.Errorf("dialect/sql: inline value: %w", err)
		}
		c.write(lit)
		return nil
	}
	c.args = append(c.args, c.compiler.arg(spec, v))
	c.write(c.compiler.d.Placeholder(len(c.args)))
	return nil
}

// warn records a capability gap and logs it once per compiler.
func (c *scope) warn(msg string) {
	c.warnings = append(c.warnings, msg)
	if _, loaded := c.compiler.warned.LoadOrStore(msg, true); !loaded {
		c.cfg.logger.Warn(msg, "vendor", c.compiler.vendor.String())
	}
}

// afterExecute registers a callback run with the outcome of the execution.
func (c *scope) afterExecute(f func(success bool)) {
	c.after = append(c.after, f)
}

// arg converts a Go value to the form bound for the vendor.
func (cm *compiler) arg(spec field.Spec, v any) any {
	switch x := v.(type) {
	case uuid.UUID:
		if spec.Type.Binary() {
			return x[:]
		}
		return x.String()
	case bool:
		if cm.vendor == dialect.Oracle {
			if x {
				return 1
			}
			return 0
		}
	case string:
		if cm.vendor == dialect.Oracle && spec.Type.Textual() && (x == "" || x[0] == ' ') {
			return " " + x
		}
	case time.Duration:
		switch cm.vendor {
		case dialect.Postgres:
			return strconv.FormatInt(x.Microseconds(), 10) + " microseconds"
		case dialect.Oracle:
			return x
		}
		return x.Microseconds()
	}
	return v
}
