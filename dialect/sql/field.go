package sql

import (
	"time"

	"github.com/shopspring/decimal"
)

// Field is a typed handle to a table column. It provides type-safe
// accessors and predicate constructors on top of the untyped Column.
//
// Usage:
//
//	office := sql.NewTable("office")
//	city := sql.StringFieldOf(office.AddColumn("city", field.Spec{Type: field.TypeChar, Length: 50, Varying: true}))
//	city.Set("Paris")
//	sel := sql.Select(office).Where(city.HasPrefix("Par"))
type Field[T any] struct {
	c *Column
}

// FieldOf returns a typed handle to c.
func FieldOf[T any](c *Column) Field[T] { return Field[T]{c: c} }

type (
	// IntField is a handle to an integer column.
	IntField = Field[int64]
	// FloatField is a handle to a FLOAT or DOUBLE column.
	FloatField = Field[float64]
	// DecimalField is a handle to a DECIMAL column.
	DecimalField = Field[decimal.Decimal]
	// BoolField is a handle to a BOOLEAN column.
	BoolField = Field[bool]
	// TimeField is a handle to a DATE, TIME or DATETIME column.
	TimeField = Field[time.Time]
	// BytesField is a handle to a BINARY or BLOB column.
	BytesField = Field[[]byte]
	// DurationField is a handle to an INTERVAL column.
	DurationField = Field[time.Duration]
)

// Column returns the underlying column.
func (f Field[T]) Column() *Column { return f.c }

// Name returns the column name.
func (f Field[T]) Name() string { return f.c.name }

// Set assigns a value to the column.
func (f Field[T]) Set(v T) { f.c.Set(v) }

// Get returns the column value converted to T. The boolean is false when
// the column holds no value, holds NULL, or holds a value that cannot be
// converted.
func (f Field[T]) Get() (T, bool) {
	var zero T
	if !f.c.valid || f.c.value == nil {
		return zero, false
	}
	if v, ok := f.c.value.(T); ok {
		return v, true
	}
	v, err := normalize(f.c.spec, f.c.value)
	if err != nil {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// WasSet reports whether the column was assigned since it was loaded.
func (f Field[T]) WasSet() bool { return f.c.set }

// EQ returns a predicate that checks if the field equals the given value.
func (f Field[T]) EQ(v T) Predicate { return EQ(f.c, TypedValue(v, f.c.spec)) }

// NEQ returns a predicate that checks if the field does not equal the given value.
func (f Field[T]) NEQ(v T) Predicate { return NEQ(f.c, TypedValue(v, f.c.spec)) }

// GT returns a predicate that checks if the field is greater than the given value.
func (f Field[T]) GT(v T) Predicate { return GT(f.c, TypedValue(v, f.c.spec)) }

// GTE returns a predicate that checks if the field is greater than or equal to the given value.
func (f Field[T]) GTE(v T) Predicate { return GTE(f.c, TypedValue(v, f.c.spec)) }

// LT returns a predicate that checks if the field is less than the given value.
func (f Field[T]) LT(v T) Predicate { return LT(f.c, TypedValue(v, f.c.spec)) }

// LTE returns a predicate that checks if the field is less than or equal to the given value.
func (f Field[T]) LTE(v T) Predicate { return LTE(f.c, TypedValue(v, f.c.spec)) }

// In returns a predicate that checks if the field value is in the given list.
func (f Field[T]) In(vs ...T) Predicate { return In(f.c, f.values(vs)...) }

// NotIn returns a predicate that checks if the field value is not in the given list.
func (f Field[T]) NotIn(vs ...T) Predicate { return NotIn(f.c, f.values(vs)...) }

// Between returns a predicate that checks if the field lies within [lo, hi].
func (f Field[T]) Between(lo, hi T) Predicate {
	return Between(f.c, TypedValue(lo, f.c.spec), TypedValue(hi, f.c.spec))
}

// IsNull returns a predicate that checks if the field is NULL.
func (f Field[T]) IsNull() Predicate { return IsNull(f.c) }

// NotNull returns a predicate that checks if the field is not NULL.
func (f Field[T]) NotNull() Predicate { return NotNull(f.c) }

func (f Field[T]) values(vs []T) []any {
	v := make([]any, len(vs))
	for i := range vs {
		v[i] = TypedValue(vs[i], f.c.spec)
	}
	return v
}

// StringField is a handle to a CHAR, CLOB or ENUM column with string
// matching predicates.
type StringField struct {
	Field[string]
}

// StringFieldOf returns a string handle to c.
func StringFieldOf(c *Column) StringField { return StringField{Field[string]{c: c}} }

// Contains returns a predicate that checks if the field contains the given substring.
func (f StringField) Contains(v string) Predicate { return Contains(f.c, v) }

// HasPrefix returns a predicate that checks if the field has the given prefix.
func (f StringField) HasPrefix(v string) Predicate { return HasPrefix(f.c, v) }

// HasSuffix returns a predicate that checks if the field has the given suffix.
func (f StringField) HasSuffix(v string) Predicate { return HasSuffix(f.c, v) }

// EqualFold returns a predicate that checks if the field equals the given value (case-insensitive).
func (f StringField) EqualFold(v string) Predicate { return EqualFold(f.c, v) }

// Like returns a predicate that matches the field against a LIKE pattern.
func (f StringField) Like(pattern string) Predicate { return Like(f.c, pattern) }
