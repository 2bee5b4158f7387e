package sql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/rdb"
	"github.com/syssam/rdb/dialect"
)

// Session is a connection or transaction of a known vendor. Driver, Tx
// and the stats and debug wrappers are sessions.
type Session interface {
	dialect.ExecQuerier
	Vendor() dialect.Vendor
}

// registryOf returns the routine registry of the session, if any.
func registryOf(sess Session) *Registry {
	if r, ok := sess.(interface{ Registry() *Registry }); ok {
		return r.Registry()
	}
	return nil
}

// Exec compiles and executes an INSERT, UPDATE or DELETE statement and
// returns the number of affected rows. An object-style UPDATE without
// changes executes nothing and returns 0. Values generated by the client
// or the database are stored into the statement's columns once the
// statement succeeds.
func Exec(ctx context.Context, sess Session, stmt Statement, opts ...CompileOption) (n int64, err error) {
	if _, ok := stmt.(*Selector); ok {
		return 0, errors.New("dialect/sql: use Query to execute a SELECT")
	}
	c, err := Compile(stmt, sess.Vendor(), opts...)
	if err != nil {
		return 0, err
	}
	if c.SQL == "" {
		return 0, nil
	}
	defer func() {
		for _, f := range c.after {
			f(err == nil)
		}
	}()
	if err := registryOf(sess).Ensure(ctx, sess); err != nil {
		return 0, err
	}
	table, op := target(stmt)
	if len(c.returning) > 0 && c.returnMode == returnClause {
		if n, err = execReturning(ctx, sess, c); err != nil {
			return n, rdb.NewMutationError(table, op, rdb.ClassifyError(err))
		}
		return n, nil
	}
	var res Result
	if err := sess.Exec(ctx, c.SQL, c.Args, &res); err != nil {
		return 0, rdb.NewMutationError(table, op, rdb.ClassifyError(err))
	}
	if len(c.returning) == 1 {
		id, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("dialect/sql: last insert id: %w", err)
		}
		c.returning[0].load(id)
	}
	return res.RowsAffected()
}

// target returns the table and the operation name of a DML statement.
func target(stmt Statement) (table, op string) {
	switch s := stmt.(type) {
	case *InsertBuilder:
		return s.table.name, "insert"
	case *UpdateBuilder:
		return s.table.name, "update"
	case *DeleteBuilder:
		return s.table.name, "delete"
	}
	return "", ""
}

// execReturning executes an INSERT .. RETURNING and loads the returned
// values into the returning columns.
func execReturning(ctx context.Context, sess Session, c *Compiled) (n int64, err error) {
	var rows Rows
	if err := sess.Query(ctx, c.SQL, c.Args, &rows); err != nil {
		return 0, err
	}
	defer func() { err = errors.Join(err, rows.Close()) }()
	for rows.Next() {
		raw := make([]any, len(c.returning))
		dest := make([]any, len(raw))
		for i := range raw {
			dest[i] = &raw[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return n, fmt.Errorf("dialect/sql: scan returning: %w", err)
		}
		for i, col := range c.returning {
			v, err := normalize(col.spec, raw[i])
			if err != nil {
				return n, err
			}
			col.load(v)
		}
		n++
	}
	return n, rows.Err()
}

// Query compiles and executes a SELECT and returns a cursor over its rows.
// The cursor must be closed.
func Query(ctx context.Context, sess Session, sel *Selector, opts ...CompileOption) (*Cursor, error) {
	c, err := Compile(sel, sess.Vendor(), opts...)
	if err != nil {
		return nil, err
	}
	if err := registryOf(sess).Ensure(ctx, sess); err != nil {
		return nil, err
	}
	var rows Rows
	if err := sess.Query(ctx, c.SQL, c.Args, &rows); err != nil {
		return nil, rdb.NewQueryError(fromTable(sel), err)
	}
	width := c.skip
	for _, it := range c.items {
		width += len(it.columns)
	}
	return &Cursor{rows: rows, compiled: c, vendor: sess.Vendor(), raw: make([]any, width)}, nil
}

// QueryOne executes a SELECT that must return exactly one row and returns
// its subjects. It fails with a NotFoundError when no row matches and with
// a NotSingularError when several do.
func QueryOne(ctx context.Context, sess Session, sel *Selector, opts ...CompileOption) (row []Subject, err error) {
	cur, err := Query(ctx, sess, sel, opts...)
	if err != nil {
		return nil, err
	}
	defer func() { err = errors.Join(err, cur.Close()) }()
	n := 0
	for cur.Next() {
		if n == 0 {
			row = cur.Row()
		}
		n++
	}
	if err := cur.Err(); err != nil {
		return nil, rdb.NewQueryError(fromTable(sel), err)
	}
	switch n {
	case 0:
		return nil, rdb.NewNotFoundError(fromTable(sel))
	case 1:
		return row, nil
	default:
		return nil, rdb.NewNotSingularErrorWithCount(fromTable(sel), n)
	}
}

// fromTable returns the name of the first table the selector reads.
func fromTable(sel *Selector) string {
	from := sel.from
	if len(from) == 0 {
		from = sel.itemTables()
	}
	for _, s := range from {
		switch t := s.(type) {
		case *Table:
			return t.name
		case *Selector:
			return fromTable(t)
		}
	}
	return ""
}

// WithTx runs fn in a transaction of the driver. The transaction is
// committed when fn returns nil and rolled back otherwise. A failed
// rollback is reported as a RollbackError joined with the error of fn.
func WithTx(ctx context.Context, d *Driver, fn func(tx *Tx) error) (err error) {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if v := recover(); v != nil {
			_ = tx.Rollback()
			panic(v)
		}
	}()
	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return errors.Join(err, &rdb.RollbackError{Err: rerr})
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("dialect/sql: commit: %w", err)
	}
	return nil
}

// Cursor iterates the rows of a query. Each row is presented as one
// subject per select item: a fresh copy of the table for table items,
// and a free column holding the value for the other items.
type Cursor struct {
	rows     Rows
	compiled *Compiled
	vendor   dialect.Vendor
	raw      []any
	row      []Subject
	values   []any
	err      error
	closed   bool
}

// Next advances to the next row. It returns false at the end of the rows
// or on error, see Err.
func (c *Cursor) Next() bool {
	if c.err != nil || c.closed || !c.rows.Next() {
		return false
	}
	dest := make([]any, len(c.raw))
	for i := range c.raw {
		c.raw[i] = nil
		dest[i] = &c.raw[i]
	}
	if err := c.rows.Scan(dest...); err != nil {
		c.err = fmt.Errorf("dialect/sql: scan: %w", err)
		return false
	}
	if err := c.build(); err != nil {
		c.err = err
		return false
	}
	return true
}

// build converts the scanned values to the subjects of the current row.
func (c *Cursor) build() error {
	var (
		at     = c.compiled.skip
		tables = make(map[*Table]*Table)
	)
	c.row, c.values = c.row[:0], c.values[:0]
	for _, it := range c.compiled.items {
		if t, ok := it.subject.(*Table); ok {
			nt, seen := tables[t]
			if !seen {
				nt = t.New()
				tables[t] = nt
			}
			for i, col := range nt.columns {
				v, err := c.value(col, c.raw[at+i])
				if err != nil {
					return err
				}
				col.load(v)
				c.values = append(c.values, v)
			}
			at += len(nt.columns)
			c.row = append(c.row, nt)
			continue
		}
		tmpl := it.columns[0]
		v, err := c.value(tmpl, c.raw[at])
		if err != nil {
			return err
		}
		at++
		free := &Column{name: tmpl.name, spec: tmpl.spec}
		free.load(v)
		c.values = append(c.values, v)
		c.row = append(c.row, free)
	}
	return nil
}

func (c *Cursor) value(col *Column, raw any) (any, error) {
	v, err := normalize(col.spec, raw)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: column %s: %w", col.name, err)
	}
	// Oracle strings were written with a leading blank when empty or
	// starting with a blank.
	if s, ok := v.(string); ok && c.vendor == dialect.Oracle && strings.HasPrefix(s, " ") {
		v = s[1:]
	}
	return v, nil
}

// Row returns the subjects of the current row, one per select item.
func (c *Cursor) Row() []Subject {
	return append([]Subject(nil), c.row...)
}

// Values returns the normalized values of the current row, with table
// items expanded to their columns.
func (c *Cursor) Values() []any {
	return append([]any(nil), c.values...)
}

// Err returns the error that stopped the iteration, if any.
func (c *Cursor) Err() error {
	if c.err != nil {
		return c.err
	}
	return c.rows.Err()
}

// Close closes the rows. Closing twice is a no-op.
func (c *Cursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if err := c.rows.Close(); err != nil {
		return fmt.Errorf("dialect/sql: close cursor: %w", err)
	}
	return nil
}

var (
	_ Session = (*Driver)(nil)
	_ Session = (*Tx)(nil)
)
