package sql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/syssam/rdb/dialect"
)

// Default Java classes implementing the Derby routines.
const (
	DefaultFunctionClass  = "org.syssam.rdb.derby.Function"
	DefaultProcedureClass = "org.syssam.rdb.derby.Procedure"
)

// sqlStateExists is the Derby SQLSTATE of creating a routine that exists.
const sqlStateExists = "X0Y68"

// Registry installs the routines a vendor needs before the first
// statement of a session runs. Installation happens at most once per
// Registry, concurrent callers wait for the same attempt, and a failed
// attempt is retried by the next caller. Only Derby needs routines: the
// math and temporal functions it lacks and the DDL procedures used by
// compiled schemas.
type Registry struct {
	vendor         dialect.Vendor
	functionClass  string
	procedureClass string
	logger         *slog.Logger
	group          singleflight.Group
	done           atomic.Bool
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// FunctionClass sets the Java class of the Derby functions.
func FunctionClass(name string) RegistryOption {
	return func(r *Registry) { r.functionClass = name }
}

// ProcedureClass sets the Java class of the Derby procedures.
func ProcedureClass(name string) RegistryOption {
	return func(r *Registry) { r.procedureClass = name }
}

// RegistryLogger sets the logger of the registration progress.
func RegistryLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) { r.logger = l }
}

// NewRegistry returns the routine registry of a session on v.
func NewRegistry(v dialect.Vendor, opts ...RegistryOption) *Registry {
	r := &Registry{
		vendor:         v,
		functionClass:  DefaultFunctionClass,
		procedureClass: DefaultProcedureClass,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Routines returns the CREATE statements installed by Ensure.
func (r *Registry) Routines() []string {
	if r.vendor != dialect.Derby {
		return nil
	}
	fn := func(sig, ret, method string) string {
		return "CREATE FUNCTION " + sig + " RETURNS " + ret + " PARAMETER STYLE JAVA NO SQL LANGUAGE JAVA EXTERNAL NAME '" + r.functionClass + "." + method + "'"
	}
	proc := func(sig, method string) string {
		return "CREATE PROCEDURE " + sig + " PARAMETER STYLE JAVA LANGUAGE JAVA EXTERNAL NAME '" + r.procedureClass + "." + method + "'"
	}
	return []string{
		fn("LOG(b DOUBLE, n DOUBLE)", "DOUBLE", "log"),
		fn("LOG2(a DOUBLE)", "DOUBLE", "log2"),
		fn("POWER(a DOUBLE, b DOUBLE)", "DOUBLE", "power"),
		fn("ROUND(a DOUBLE, b INT)", "DOUBLE", "round"),
		fn("DMOD(a DOUBLE, b DOUBLE)", "DOUBLE", "mod"),
		fn("DATE_ADD(a DATE, b VARCHAR(255))", "DATE", "add"),
		fn("DATE_SUB(a DATE, b VARCHAR(255))", "DATE", "sub"),
		fn("TIME_ADD(a TIME, b VARCHAR(255))", "TIME", "add"),
		fn("TIME_SUB(a TIME, b VARCHAR(255))", "TIME", "sub"),
		fn("TIMESTAMP_ADD(a TIMESTAMP, b VARCHAR(255))", "TIMESTAMP", "add"),
		fn("TIMESTAMP_SUB(a TIMESTAMP, b VARCHAR(255))", "TIMESTAMP", "sub"),
		proc("CREATE_TABLE_IF_NOT_EXISTS(IN tableName VARCHAR(128), IN createClause CLOB)", "createTableIfNotExists"),
		proc("DROP_TABLE_IF_EXISTS(IN tableName VARCHAR(128))", "dropTableIfExists"),
		proc("DROP_INDEX_IF_EXISTS(IN indexName VARCHAR(128))", "dropIndexIfExists"),
	}
}

// Ensure installs the routines through ex unless a previous call
// succeeded. Routines that already exist in the database are kept.
func (r *Registry) Ensure(ctx context.Context, ex dialect.ExecQuerier) error {
	if r == nil || r.done.Load() {
		return nil
	}
	routines := r.Routines()
	if len(routines) == 0 {
		r.done.Store(true)
		return nil
	}
	_, err, _ := r.group.Do("routines", func() (any, error) {
		if r.done.Load() {
			return nil, nil
		}
		for _, stmt := range routines {
			if err := ex.Exec(ctx, stmt, []any{}, nil); err != nil {
				if isRoutineExists(err) {
					continue
				}
				return nil, fmt.Errorf("dialect/sql: register routine: %w", err)
			}
		}
		r.done.Store(true)
		r.logger.Debug("registered routines", "vendor", r.vendor.String(), "count", len(routines))
		return nil, nil
	})
	return err
}

// isRoutineExists reports whether err is Derby's SQLSTATE X0Y68.
func isRoutineExists(err error) bool {
	var state interface{ SQLState() string }
	if errors.As(err, &state) {
		return state.SQLState() == sqlStateExists
	}
	return strings.Contains(err.Error(), sqlStateExists)
}
