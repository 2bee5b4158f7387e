package schema

import (
	"errors"
	"strings"
)

// ErrSchemaCompilation is the sentinel matched by every CompilationError.
var ErrSchemaCompilation = errors.New("schema: compilation failed")

// CompilationError reports a fatal problem in a schema definition, such as
// a duplicate column, a circular inheritance chain or a non-abstract parent.
type CompilationError struct {
	Table   string
	Column  string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *CompilationError) Error() string {
	var b strings.Builder
	b.WriteString("schema: ")
	if e.Table != "" {
		b.WriteString(e.Table)
		if e.Column != "" {
			b.WriteString(".")
			b.WriteString(e.Column)
		}
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *CompilationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrSchemaCompilation.
func (e *CompilationError) Is(target error) bool {
	return target == ErrSchemaCompilation
}

// IsCompilationError reports whether the error is a CompilationError.
func IsCompilationError(err error) bool {
	var e *CompilationError
	return errors.As(err, &e)
}
