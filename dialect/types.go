package dialect

import (
	"fmt"

	"github.com/syssam/rdb/schema/field"
)

// declarer renders the vendor spelling of each scalar type. Facets passed
// to a declarer have already been bounds checked and defaulted.
type declarer interface {
	quote(name string) string
	placeholder(n int) string
	allowsUnsigned() bool
	limits() limits

	tinyint(precision int, unsigned bool) string
	smallint(precision int, unsigned bool) string
	integer(precision int, unsigned bool) string
	bigint(precision int, unsigned bool) string
	float(unsigned bool) string
	double(unsigned bool) string
	decimal(precision, scale int, unsigned bool) string
	char(length int64, varying bool) string
	clob(length int64) string
	binary(length int64, varying bool) string
	blob(length int64) string
	boolean() string
	date() string
	time(precision int) string
	datetime(precision int) string
	interval() string
	enum(table, column string, values []string) string

	currentDate() string
	currentTime() string
	currentTimestamp() string
}

// limits holds the documented maxima of a vendor.
type limits struct {
	decimalPrecision int
	decimalScale     int
	defaultPrecision int
	defaultScale     int
	char             int64
	varchar          int64
	binary           int64
	varbinary        int64
	clob             int64
	blob             int64
	timePrecision    int
}

// Maximum digits of the integer types. BIGINT UNSIGNED holds one more
// digit where the vendor supports unsigned numerics.
const (
	tinyintPrecision        = 3
	smallintPrecision       = 5
	intPrecision            = 10
	bigintPrecision         = 19
	unsignedBigintPrecision = 20
)

// Dialect holds the rules of one vendor for quoting identifiers, declaring
// column types and formatting literals. A Dialect is stateless and safe for
// concurrent use.
type Dialect struct {
	vendor Vendor
	decl   declarer
}

var dialects = map[Vendor]*Dialect{
	MySQL:    {vendor: MySQL, decl: mysqlDecl{}},
	MariaDB:  {vendor: MariaDB, decl: mysqlDecl{mariadb: true}},
	Postgres: {vendor: Postgres, decl: postgresDecl{}},
	Oracle:   {vendor: Oracle, decl: oracleDecl{}},
	Derby:    {vendor: Derby, decl: derbyDecl{}},
	SQLite:   {vendor: SQLite, decl: sqliteDecl{}},
}

// For returns the Dialect of the vendor.
func For(v Vendor) (*Dialect, error) {
	d, ok := dialects[v]
	if !ok {
		return nil, fmt.Errorf("dialect: unsupported vendor %s", v)
	}
	return d, nil
}

// MustFor is like For but panics if the vendor is unknown. It is meant for
// vendors that were validated at startup.
func MustFor(v Vendor) *Dialect {
	d, err := For(v)
	if err != nil {
		panic(err)
	}
	return d
}

// Vendor returns the vendor of the dialect.
func (d *Dialect) Vendor() Vendor { return d.vendor }

// QuoteIdentifier wraps the name in the vendor's identifier quotes,
// escaping embedded quote characters.
func (d *Dialect) QuoteIdentifier(name string) string { return d.decl.quote(name) }

// Placeholder returns the bind marker of the n-th (1-based) parameter.
func (d *Dialect) Placeholder(n int) string { return d.decl.placeholder(n) }

// AllowsUnsignedNumeric reports whether UNSIGNED qualifiers are legal.
func (d *Dialect) AllowsUnsignedNumeric() bool { return d.decl.allowsUnsigned() }

// CurrentDate returns the expression that yields the current date.
func (d *Dialect) CurrentDate() string { return d.decl.currentDate() }

// CurrentTime returns the expression that yields the current time of day.
func (d *Dialect) CurrentTime() string { return d.decl.currentTime() }

// CurrentTimestamp returns the expression that yields the current date and time.
func (d *Dialect) CurrentTimestamp() string { return d.decl.currentTimestamp() }

// DecimalDefaults returns the precision and scale used for a DECIMAL
// declared without them.
func (d *Dialect) DecimalDefaults() (precision, scale int) {
	l := d.decl.limits()
	return l.defaultPrecision, l.defaultScale
}

func (d *Dialect) bounds(t field.Type, facet string, v, max int64) error {
	if v < 0 || v > max {
		return &TypeBoundsError{Vendor: d.vendor, Type: t, Facet: facet, Value: v, Max: max}
	}
	return nil
}

func (d *Dialect) integerPrecision(t field.Type, precision int, unsigned bool, max int) (int, error) {
	if t == field.TypeBigint && unsigned && d.decl.allowsUnsigned() {
		max = unsignedBigintPrecision
	}
	if precision == 0 {
		return max, nil
	}
	if err := d.bounds(t, "precision", int64(precision), int64(max)); err != nil {
		return 0, err
	}
	return precision, nil
}

// CompileTinyint declares an 8-bit integer. A zero precision selects the
// maximum number of digits.
func (d *Dialect) CompileTinyint(precision int, unsigned bool) (string, error) {
	p, err := d.integerPrecision(field.TypeTinyint, precision, unsigned, tinyintPrecision)
	if err != nil {
		return "", err
	}
	return d.decl.tinyint(p, unsigned && d.decl.allowsUnsigned()), nil
}

// CompileSmallint declares a 16-bit integer.
func (d *Dialect) CompileSmallint(precision int, unsigned bool) (string, error) {
	p, err := d.integerPrecision(field.TypeSmallint, precision, unsigned, smallintPrecision)
	if err != nil {
		return "", err
	}
	return d.decl.smallint(p, unsigned && d.decl.allowsUnsigned()), nil
}

// CompileInt declares a 32-bit integer.
func (d *Dialect) CompileInt(precision int, unsigned bool) (string, error) {
	p, err := d.integerPrecision(field.TypeInt, precision, unsigned, intPrecision)
	if err != nil {
		return "", err
	}
	return d.decl.integer(p, unsigned && d.decl.allowsUnsigned()), nil
}

// CompileBigint declares a 64-bit integer. Unsigned BIGINT allows 20
// digits on vendors with unsigned numerics, 19 otherwise.
func (d *Dialect) CompileBigint(precision int, unsigned bool) (string, error) {
	p, err := d.integerPrecision(field.TypeBigint, precision, unsigned, bigintPrecision)
	if err != nil {
		return "", err
	}
	return d.decl.bigint(p, unsigned && d.decl.allowsUnsigned()), nil
}

// CompileFloat declares a single precision floating point number.
func (d *Dialect) CompileFloat(unsigned bool) string {
	return d.decl.float(unsigned && d.decl.allowsUnsigned())
}

// CompileDouble declares a double precision floating point number.
func (d *Dialect) CompileDouble(unsigned bool) string {
	return d.decl.double(unsigned && d.decl.allowsUnsigned())
}

// CompileDecimal declares an exact number. A zero precision selects the
// vendor default precision and scale. The scale may not exceed the
// precision.
func (d *Dialect) CompileDecimal(precision, scale int, unsigned bool) (string, error) {
	l := d.decl.limits()
	if precision == 0 {
		precision = l.defaultPrecision
		if scale == 0 {
			scale = l.defaultScale
		}
	}
	if err := d.bounds(field.TypeDecimal, "precision", int64(precision), int64(l.decimalPrecision)); err != nil {
		return "", err
	}
	if err := d.bounds(field.TypeDecimal, "scale", int64(scale), int64(l.decimalScale)); err != nil {
		return "", err
	}
	if err := d.bounds(field.TypeDecimal, "scale", int64(scale), int64(precision)); err != nil {
		return "", err
	}
	return d.decl.decimal(precision, scale, unsigned && d.decl.allowsUnsigned()), nil
}

// CompileChar declares a fixed or varying character string. A zero
// length declares a single character.
func (d *Dialect) CompileChar(length int64, varying bool) (string, error) {
	l := d.decl.limits()
	max := l.char
	if varying {
		max = l.varchar
	}
	if length == 0 {
		length = 1
	}
	if err := d.bounds(field.TypeChar, "length", length, max); err != nil {
		return "", err
	}
	return d.decl.char(length, varying), nil
}

// CompileClob declares a character large object. A zero length selects the
// vendor default.
func (d *Dialect) CompileClob(length int64) (string, error) {
	if err := d.bounds(field.TypeClob, "length", length, d.decl.limits().clob); err != nil {
		return "", err
	}
	return d.decl.clob(length), nil
}

// CompileBinary declares a fixed or varying binary string.
func (d *Dialect) CompileBinary(length int64, varying bool) (string, error) {
	l := d.decl.limits()
	max := l.binary
	if varying {
		max = l.varbinary
	}
	if length == 0 {
		length = 1
	}
	if err := d.bounds(field.TypeBinary, "length", length, max); err != nil {
		return "", err
	}
	return d.decl.binary(length, varying), nil
}

// CompileBlob declares a binary large object.
func (d *Dialect) CompileBlob(length int64) (string, error) {
	if err := d.bounds(field.TypeBlob, "length", length, d.decl.limits().blob); err != nil {
		return "", err
	}
	return d.decl.blob(length), nil
}

// CompileBoolean declares a boolean.
func (d *Dialect) CompileBoolean() string { return d.decl.boolean() }

// CompileDate declares a calendar date.
func (d *Dialect) CompileDate() string { return d.decl.date() }

// CompileTime declares a time of day with the given fractional seconds
// precision.
func (d *Dialect) CompileTime(precision int) (string, error) {
	if err := d.bounds(field.TypeTime, "precision", int64(precision), int64(d.decl.limits().timePrecision)); err != nil {
		return "", err
	}
	return d.decl.time(precision), nil
}

// CompileDateTime declares a date and time with the given fractional
// seconds precision.
func (d *Dialect) CompileDateTime(precision int) (string, error) {
	if err := d.bounds(field.TypeDateTime, "precision", int64(precision), int64(d.decl.limits().timePrecision)); err != nil {
		return "", err
	}
	return d.decl.datetime(precision), nil
}

// CompileInterval declares a duration.
func (d *Dialect) CompileInterval() string { return d.decl.interval() }

// CompileEnum declares an enumerated type of the given column. Vendors
// without native enums declare a character column wide enough for the
// longest value.
func (d *Dialect) CompileEnum(table, column string, values []string) (string, error) {
	if len(values) == 0 {
		return "", fmt.Errorf("dialect: enum %s.%s has no values", table, column)
	}
	return d.decl.enum(table, column, values), nil
}

// Declare returns the declaration of the column type described by s.
func (d *Dialect) Declare(table, column string, s field.Spec) (string, error) {
	switch s.Type {
	case field.TypeTinyint:
		return d.CompileTinyint(s.Precision, s.Unsigned)
	case field.TypeSmallint:
		return d.CompileSmallint(s.Precision, s.Unsigned)
	case field.TypeInt:
		return d.CompileInt(s.Precision, s.Unsigned)
	case field.TypeBigint:
		return d.CompileBigint(s.Precision, s.Unsigned)
	case field.TypeFloat:
		return d.CompileFloat(s.Unsigned), nil
	case field.TypeDouble:
		return d.CompileDouble(s.Unsigned), nil
	case field.TypeDecimal:
		return d.CompileDecimal(s.Precision, s.Scale, s.Unsigned)
	case field.TypeChar:
		return d.CompileChar(s.Length, s.Varying)
	case field.TypeClob:
		return d.CompileClob(s.Length)
	case field.TypeBinary:
		return d.CompileBinary(s.Length, s.Varying)
	case field.TypeBlob:
		return d.CompileBlob(s.Length)
	case field.TypeBoolean:
		return d.CompileBoolean(), nil
	case field.TypeDate:
		return d.CompileDate(), nil
	case field.TypeTime:
		return d.CompileTime(s.Precision)
	case field.TypeDateTime:
		return d.CompileDateTime(s.Precision)
	case field.TypeEnum:
		return d.CompileEnum(table, column, s.Values)
	case field.TypeInterval:
		return d.CompileInterval(), nil
	}
	return "", fmt.Errorf("dialect: cannot declare column %s.%s of type %s", table, column, s.Type)
}

// EnumTypeName returns the name of the type backing an enum column on
// vendors that declare enums as separate types.
func EnumTypeName(table, column string) string {
	return "ty_" + table + "_" + column
}
