package dialect

import (
	"errors"
	"fmt"

	"github.com/syssam/rdb/schema/field"
)

// ErrTypeBounds is the sentinel matched by every TypeBoundsError.
var ErrTypeBounds = errors.New("dialect: type bounds exceeded")

// TypeBoundsError is returned when a type facet (precision, scale, length)
// is outside the range a vendor documents for the type.
type TypeBoundsError struct {
	Vendor Vendor
	Type   field.Type
	Facet  string // "precision", "scale" or "length"
	Value  int64
	Max    int64
}

// Error implements the error interface.
func (e *TypeBoundsError) Error() string {
	if e.Value < 0 {
		return fmt.Sprintf("dialect: %s %s %s must not be negative: %d", e.Vendor, e.Type, e.Facet, e.Value)
	}
	return fmt.Sprintf("dialect: %s %s %s %d exceeds maximum %d", e.Vendor, e.Type, e.Facet, e.Value, e.Max)
}

// Is reports whether the target matches ErrTypeBounds.
func (e *TypeBoundsError) Is(target error) bool {
	return target == ErrTypeBounds
}

// IsTypeBoundsError reports whether the error is a TypeBoundsError.
func IsTypeBoundsError(err error) bool {
	var e *TypeBoundsError
	return errors.As(err, &e)
}
