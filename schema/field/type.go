package field

import (
	"fmt"
	"strings"
)

// A Type represents a scalar column type.
type Type uint8

// List of column types.
const (
	TypeInvalid Type = iota
	TypeTinyint
	TypeSmallint
	TypeInt
	TypeBigint
	TypeFloat
	TypeDouble
	TypeDecimal
	TypeChar
	TypeClob
	TypeBinary
	TypeBlob
	TypeBoolean
	TypeDate
	TypeTime
	TypeDateTime
	TypeEnum
	TypeInterval
	endTypes
)

var typeNames = [...]string{
	TypeInvalid:  "invalid",
	TypeTinyint:  "tinyint",
	TypeSmallint: "smallint",
	TypeInt:      "int",
	TypeBigint:   "bigint",
	TypeFloat:    "float",
	TypeDouble:   "double",
	TypeDecimal:  "decimal",
	TypeChar:     "char",
	TypeClob:     "clob",
	TypeBinary:   "binary",
	TypeBlob:     "blob",
	TypeBoolean:  "boolean",
	TypeDate:     "date",
	TypeTime:     "time",
	TypeDateTime: "datetime",
	TypeEnum:     "enum",
	TypeInterval: "interval",
}

// String returns the lower-case name of the type.
func (t Type) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return typeNames[TypeInvalid]
}

// Valid reports if the given type if known type.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// Integer reports if the type is one of the integer types.
func (t Type) Integer() bool {
	return t >= TypeTinyint && t <= TypeBigint
}

// Numeric reports if the type is an exact or approximate number.
func (t Type) Numeric() bool {
	return t >= TypeTinyint && t <= TypeDecimal
}

// Textual reports if values of the type are strings.
func (t Type) Textual() bool {
	return t == TypeChar || t == TypeClob || t == TypeEnum
}

// Binary reports if values of the type are byte slices.
func (t Type) Binary() bool {
	return t == TypeBinary || t == TypeBlob
}

// Temporal reports if the type holds a date, a time or both.
func (t Type) Temporal() bool {
	return t == TypeDate || t == TypeTime || t == TypeDateTime
}

// ParseType returns the Type with the given name. Common SQL spellings such
// as "varchar", "integer" or "timestamp" are accepted as aliases.
func ParseType(s string) (Type, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for t := TypeTinyint; t < endTypes; t++ {
		if typeNames[t] == name {
			return t, nil
		}
	}
	switch name {
	case "int8", "byte":
		return TypeTinyint, nil
	case "int16", "short":
		return TypeSmallint, nil
	case "integer", "int32", "mediumint":
		return TypeInt, nil
	case "int64", "long":
		return TypeBigint, nil
	case "real":
		return TypeFloat, nil
	case "double precision", "float64":
		return TypeDouble, nil
	case "numeric", "number":
		return TypeDecimal, nil
	case "varchar", "string", "text":
		return TypeChar, nil
	case "varbinary", "bytes":
		return TypeBinary, nil
	case "bool":
		return TypeBoolean, nil
	case "timestamp":
		return TypeDateTime, nil
	}
	return TypeInvalid, fmt.Errorf("field: unknown column type %q", s)
}

// Spec describes a column type together with its facets. Zero facets select
// the vendor default for the type.
type Spec struct {
	Type Type `json:"type"`
	// Length of CHAR, BINARY, CLOB and BLOB columns.
	Length int64 `json:"length,omitempty"`
	// Precision is the number of digits of numeric types, or the
	// fractional seconds precision of TIME and DATETIME.
	Precision int  `json:"precision,omitempty"`
	Scale     int  `json:"scale,omitempty"`
	Unsigned  bool `json:"unsigned,omitempty"`
	// Varying selects VARCHAR and VARBINARY.
	Varying bool     `json:"varying,omitempty"`
	Values  []string `json:"values,omitempty"`
}

// MaxValueLength returns the length of the longest enum value.
func (s Spec) MaxValueLength() int64 {
	var n int64
	for _, v := range s.Values {
		if l := int64(len(v)); l > n {
			n = l
		}
	}
	return n
}

// Generate is a strategy for producing a column value when a row is
// inserted or updated.
type Generate uint8

// List of generation strategies.
const (
	GenerateNone Generate = iota
	GenerateAutoIncrement
	GenerateUUID
	GenerateTimestamp
	GenerateEpochSeconds
	GenerateEpochMinutes
	GenerateEpochMillis
	GenerateIncrement
)

var generateNames = [...]string{
	GenerateNone:          "",
	GenerateAutoIncrement: "AUTO_INCREMENT",
	GenerateUUID:          "UUID",
	GenerateTimestamp:     "TIMESTAMP",
	GenerateEpochSeconds:  "EPOCH_SECONDS",
	GenerateEpochMinutes:  "EPOCH_MINUTES",
	GenerateEpochMillis:   "EPOCH_MILLIS",
	GenerateIncrement:     "INCREMENT",
}

// String returns the name of the strategy as it appears in schema files.
func (g Generate) String() string {
	if int(g) < len(generateNames) {
		return generateNames[g]
	}
	return fmt.Sprintf("Generate(%d)", g)
}

// ParseGenerate returns the strategy with the given name. An empty string
// yields GenerateNone.
func ParseGenerate(s string) (Generate, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "" {
		return GenerateNone, nil
	}
	for g, n := range generateNames {
		if n == name {
			return Generate(g), nil
		}
	}
	return GenerateNone, fmt.Errorf("field: unknown generate strategy %q", s)
}
