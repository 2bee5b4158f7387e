package dialect

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/syssam/rdb/schema/field"
)

// Layouts of temporal literals. Fractional seconds are printed only when
// present, without trailing zeros.
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05.999999999"
	DateTimeLayout = "2006-01-02 15:04:05.999999999"
)

// FormatNumber formats an integer, float or decimal without exponent
// notation or grouping separators.
func FormatNumber(v any) (string, error) {
	switch v := v.(type) {
	case int:
		return strconv.Itoa(v), nil
	case int8:
		return strconv.FormatInt(int64(v), 10), nil
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float32:
		return formatFloat(float64(v), 32)
	case float64:
		return formatFloat(v, 64)
	case decimal.Decimal:
		return v.String(), nil
	case *decimal.Decimal:
		return v.String(), nil
	}
	return "", fmt.Errorf("dialect: %T is not a number", v)
}

func formatFloat(f float64, bits int) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("dialect: %v has no SQL literal", f)
	}
	return strconv.FormatFloat(f, 'f', -1, bits), nil
}

// QuoteString returns s as a string literal, doubling embedded quotes.
func QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// QuoteString returns s as a string literal of the vendor. MySQL and
// MariaDB read a backslash as an escape character, so it is doubled too.
func (d *Dialect) QuoteString(s string) string {
	switch d.vendor {
	case MySQL, MariaDB:
		return quoteBackslash(s)
	}
	return QuoteString(s)
}

func quoteBackslash(s string) string {
	return "'" + strings.NewReplacer("'", "''", `\`, `\\`).Replace(s) + "'"
}

// FormatBinary returns b as a hexadecimal X'..' literal.
func FormatBinary(b []byte) string {
	return "X'" + strings.ToUpper(hex.EncodeToString(b)) + "'"
}

// FormatBool returns TRUE or FALSE.
func FormatBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// ParseEnum splits a space separated list of enum values. A backslash
// escapes the following character, so `A\ B C` yields "A B" and "C".
func ParseEnum(s string) []string {
	var (
		values []string
		b      strings.Builder
		escape bool
	)
	for _, r := range s {
		switch {
		case escape:
			b.WriteRune(r)
			escape = false
		case r == '\\':
			escape = true
		case r == ' ':
			if b.Len() > 0 {
				values = append(values, b.String())
				b.Reset()
			}
		default:
			b.WriteRune(r)
		}
	}
	if b.Len() > 0 {
		values = append(values, b.String())
	}
	return values
}

// Literal returns the SQL literal of v as a value of type t. A nil value
// yields NULL.
func (d *Dialect) Literal(t field.Type, v any) (string, error) {
	if v == nil {
		return "NULL", nil
	}
	switch v := v.(type) {
	case bool:
		if d.vendor == Oracle {
			if v {
				return "1", nil
			}
			return "0", nil
		}
		return FormatBool(v), nil
	case string:
		if t.Numeric() {
			n, err := decimal.NewFromString(v)
			if err != nil {
				return "", fmt.Errorf("dialect: %q is not a number", v)
			}
			return n.String(), nil
		}
		if d.vendor == Oracle && (v == "" || v[0] == ' ') {
			// Oracle reads '' as NULL and trims a leading blank.
			v = " " + v
		}
		return d.QuoteString(v), nil
	case []byte:
		switch {
		case d.vendor == Derby && t == field.TypeBlob:
			return "CAST (" + FormatBinary(v) + " AS BLOB)", nil
		case d.vendor == Oracle:
			return "HEXTORAW('" + strings.ToUpper(hex.EncodeToString(v)) + "')", nil
		case d.vendor == Postgres:
			return "'\\x" + hex.EncodeToString(v) + "'", nil
		}
		return FormatBinary(v), nil
	case time.Time:
		return d.temporal(t, v), nil
	case time.Duration:
		if d.vendor == Postgres {
			return QuoteString(strconv.FormatInt(v.Microseconds(), 10) + " microseconds"), nil
		}
		if d.vendor == Oracle {
			return fmt.Sprintf("NUMTODSINTERVAL(%s, 'SECOND')", strconv.FormatFloat(v.Seconds(), 'f', -1, 64)), nil
		}
		return strconv.FormatInt(v.Microseconds(), 10), nil
	}
	return FormatNumber(v)
}

func (d *Dialect) temporal(t field.Type, v time.Time) string {
	switch t {
	case field.TypeDate:
		s := v.Format(DateLayout)
		if d.vendor == Oracle {
			return "TO_DATE('" + s + "', 'YYYY-MM-DD')"
		}
		return QuoteString(s)
	case field.TypeTime:
		if d.vendor == Derby {
			return QuoteString(v.Format("15:04:05"))
		}
		return QuoteString(v.Format(TimeLayout))
	}
	s := v.Format(DateTimeLayout)
	if d.vendor == Oracle {
		return "TO_TIMESTAMP('" + s + "', 'YYYY-MM-DD HH24:MI:SS.FF')"
	}
	return QuoteString(s)
}
