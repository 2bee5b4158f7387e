// Package rdb holds the errors shared by the packages of the module. The
// statement compiler lives in dialect/sql, the schema model and the DDL
// compiler in dialect/sql/schema.
package rdb

import (
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/rdb/dialect/sql/sqlerr"
)

// Standard sentinel errors.
var (
	// ErrNotFound is returned when a query that expects a row returns none.
	ErrNotFound = errors.New("rdb: row not found")

	// ErrNotSingular is returned when a query that expects exactly one row
	// returns several.
	ErrNotSingular = errors.New("rdb: row not singular")

	// ErrTxStarted is returned when attempting to start a new transaction
	// within an existing transaction.
	ErrTxStarted = errors.New("rdb: cannot start a transaction within a transaction")
)

// NotFoundError is returned when a table has no row matching a query.
type NotFoundError struct {
	table string
	key   any
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	if e.key != nil {
		return fmt.Sprintf("rdb: %s not found (key=%v)", e.table, e.key)
	}
	return fmt.Sprintf("rdb: %s not found", e.table)
}

// Is reports whether the target error matches NotFoundError.
// This allows errors.Is(notFoundErr, ErrNotFound) to return true.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// Table returns the name of the queried table.
func (e *NotFoundError) Table() string {
	return e.table
}

// Key returns the key that was searched for, if available.
func (e *NotFoundError) Key() any {
	return e.key
}

// NewNotFoundError returns a new NotFoundError for the given table.
func NewNotFoundError(table string) *NotFoundError {
	return &NotFoundError{table: table}
}

// NewNotFoundErrorWithKey returns a new NotFoundError with the key that
// was searched for.
func NewNotFoundErrorWithKey(table string, key any) *NotFoundError {
	return &NotFoundError{table: table, key: key}
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// NotSingularError is returned when a query expects a single row but
// receives several.
type NotSingularError struct {
	table string
	count int // -1 if unknown
}

// Error returns the error string.
func (e *NotSingularError) Error() string {
	if e.count >= 0 {
		return fmt.Sprintf("rdb: %s not singular (got %d rows, expected 1)", e.table, e.count)
	}
	return fmt.Sprintf("rdb: %s not singular", e.table)
}

// Is reports whether the target error matches NotSingularError.
func (e *NotSingularError) Is(err error) bool {
	return err == ErrNotSingular
}

// Table returns the name of the queried table.
func (e *NotSingularError) Table() string {
	return e.table
}

// Count returns the number of rows, or -1 if unknown.
func (e *NotSingularError) Count() int {
	return e.count
}

// NewNotSingularError returns a new NotSingularError for the given table.
func NewNotSingularError(table string) *NotSingularError {
	return &NotSingularError{table: table, count: -1}
}

// NewNotSingularErrorWithCount returns a new NotSingularError with the
// row count.
func NewNotSingularErrorWithCount(table string, count int) *NotSingularError {
	return &NotSingularError{table: table, count: count}
}

// IsNotSingular returns true if the error is a NotSingularError.
func IsNotSingular(err error) bool {
	if err == nil {
		return false
	}
	var e *NotSingularError
	return errors.As(err, &e) || errors.Is(err, ErrNotSingular)
}

// ConstraintError represents a database constraint violation.
type ConstraintError struct {
	kind sqlerr.Kind
	msg  string
	wrap error
}

// Error returns the error string.
func (e ConstraintError) Error() string {
	return fmt.Sprintf("rdb: %s constraint failed: %s", e.kind, e.msg)
}

// Unwrap returns the underlying error.
func (e ConstraintError) Unwrap() error {
	return e.wrap
}

// Kind returns the class of the violated constraint.
func (e ConstraintError) Kind() sqlerr.Kind {
	return e.kind
}

// NewConstraintError returns a new ConstraintError with the given message.
func NewConstraintError(kind sqlerr.Kind, msg string, wrap error) error {
	return ConstraintError{kind: kind, msg: msg, wrap: wrap}
}

// IsConstraintError returns true if the error is a ConstraintError.
func IsConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var e ConstraintError
	return errors.As(err, &e)
}

// ClassifyError returns err as a ConstraintError when the database
// reported a constraint violation, and err unchanged otherwise.
func ClassifyError(err error) error {
	if err == nil || IsConstraintError(err) {
		return err
	}
	if kind := sqlerr.Classify(err); kind != sqlerr.KindNone {
		return NewConstraintError(kind, err.Error(), err)
	}
	return err
}

// RollbackError wraps an error that occurred during a transaction rollback.
type RollbackError struct {
	Err error // Original error that triggered rollback
}

// Error returns the error string.
func (e *RollbackError) Error() string {
	return fmt.Sprintf("rdb: rollback failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *RollbackError) Unwrap() error {
	return e.Err
}

// AggregateError represents multiple errors collected during an operation.
type AggregateError struct {
	Errors []error
}

// Error returns the error string.
func (e *AggregateError) Error() string {
	if len(e.Errors) == 0 {
		return "rdb: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("rdb: multiple errors:")
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  [%d] %v", i+1, err)
	}
	return sb.String()
}

// Unwrap returns the collected errors.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// NewAggregateError returns a new AggregateError if there are errors,
// otherwise returns nil.
func NewAggregateError(errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &AggregateError{Errors: filtered}
}

// QueryError wraps a failed SELECT with the queried table.
type QueryError struct {
	Table string // First table of the FROM clause
	Err   error  // Underlying error
}

// Error returns the error string.
func (e *QueryError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("rdb: query: %v", e.Err)
	}
	return fmt.Sprintf("rdb: querying %s: %v", e.Table, e.Err)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewQueryError returns a new QueryError.
func NewQueryError(table string, err error) *QueryError {
	return &QueryError{Table: table, Err: err}
}

// IsQueryError returns true if the error is a QueryError.
func IsQueryError(err error) bool {
	if err == nil {
		return false
	}
	var e *QueryError
	return errors.As(err, &e)
}

// MutationError wraps a failed INSERT, UPDATE or DELETE.
type MutationError struct {
	Table string // Target table
	Op    string // "insert", "update" or "delete"
	Err   error  // Underlying error
}

// Error returns the error string.
func (e *MutationError) Error() string {
	return fmt.Sprintf("rdb: %s %s: %v", e.Op, e.Table, e.Err)
}

// Unwrap returns the underlying error.
func (e *MutationError) Unwrap() error {
	return e.Err
}

// NewMutationError returns a new MutationError.
func NewMutationError(table, op string, err error) *MutationError {
	return &MutationError{Table: table, Op: op, Err: err}
}

// IsMutationError returns true if the error is a MutationError.
func IsMutationError(err error) bool {
	if err == nil {
		return false
	}
	var e *MutationError
	return errors.As(err, &e)
}
