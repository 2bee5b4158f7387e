package sql

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/syssam/rdb/dialect"
	"github.com/syssam/rdb/schema/field"
)

// normalize converts a value read from a driver to the Go type of the
// column spec: int64, float64, decimal.Decimal, string, []byte, bool,
// time.Time or time.Duration. NULL stays nil.
func normalize(spec field.Spec, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	switch t := spec.Type; {
	case t.Integer():
		return toInt64(raw)
	case t == field.TypeFloat || t == field.TypeDouble:
		return toFloat64(raw)
	case t == field.TypeDecimal:
		return toDecimal(raw)
	case t.Textual():
		switch v := raw.(type) {
		case string:
			return v, nil
		case []byte:
			return string(v), nil
		}
		return fmt.Sprint(raw), nil
	case t.Binary():
		switch v := raw.(type) {
		case []byte:
			return v, nil
		case string:
			return []byte(v), nil
		}
	case t == field.TypeBoolean:
		return toBool(raw)
	case t.Temporal():
		return toTime(t, raw)
	case t == field.TypeInterval:
		return toDuration(raw)
	case t == field.TypeInvalid:
		if b, ok := raw.([]byte); ok {
			return string(b), nil
		}
		return raw, nil
	}
	return nil, fmt.Errorf("dialect/sql: cannot convert %T to %s", raw, spec.Type)
}

func toInt64(raw any) (int64, error) {
	if i, ok := toInt(raw); ok {
		return i, nil
	}
	switch v := raw.(type) {
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case float64:
		return int64(v), nil
	case float32:
		return int64(v), nil
	case decimal.Decimal:
		return v.IntPart(), nil
	case []byte:
		return parseInt(string(v))
	case string:
		return parseInt(v)
	}
	return 0, fmt.Errorf("dialect/sql: cannot convert %T to int64", raw)
}

// parseInt also accepts integral decimals such as "42.000" returned for
// NUMBER columns.
func parseInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("dialect/sql: parse integer %q: %w", s, err)
	}
	return d.IntPart(), nil
}

func toFloat64(raw any) (float64, error) {
	if f, ok := toFloat(raw); ok {
		return f, nil
	}
	if i, ok := toInt(raw); ok {
		return float64(i), nil
	}
	switch v := raw.(type) {
	case decimal.Decimal:
		return v.InexactFloat64(), nil
	case []byte:
		return strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	}
	return 0, fmt.Errorf("dialect/sql: cannot convert %T to float64", raw)
}

func toDecimal(raw any) (decimal.Decimal, error) {
	if i, ok := toInt(raw); ok {
		return decimal.NewFromInt(i), nil
	}
	switch v := raw.(type) {
	case decimal.Decimal:
		return v, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case []byte:
		return decimal.NewFromString(strings.TrimSpace(string(v)))
	case string:
		return decimal.NewFromString(strings.TrimSpace(v))
	}
	return decimal.Decimal{}, fmt.Errorf("dialect/sql: cannot convert %T to decimal", raw)
}

func toBool(raw any) (bool, error) {
	if i, ok := toInt(raw); ok {
		return i != 0, nil
	}
	switch v := raw.(type) {
	case bool:
		return v, nil
	case []byte:
		return strconv.ParseBool(strings.TrimSpace(string(v)))
	case string:
		return strconv.ParseBool(strings.TrimSpace(v))
	}
	return false, fmt.Errorf("dialect/sql: cannot convert %T to bool", raw)
}

// timeLayouts are tried in order when a driver returns temporal values
// as text.
var timeLayouts = []string{
	time.RFC3339Nano,
	dialect.DateTimeLayout,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	dialect.DateLayout,
	dialect.TimeLayout,
	"15:04:05.999999999-07",
}

func toTime(t field.Type, raw any) (time.Time, error) {
	var s string
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case []byte:
		s = string(v)
	case string:
		s = v
	case int64:
		// SQLite stores DATETIME as unix seconds when written as integers.
		return time.Unix(v, 0).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("dialect/sql: cannot convert %T to %s", raw, t)
	}
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if v, err := time.Parse(layout, s); err == nil {
			return v, nil
		}
	}
	return time.Time{}, fmt.Errorf("dialect/sql: parse %s %q", t, s)
}

// toDuration reads intervals stored as microseconds, and the text forms
// of PostgreSQL such as "1 day 02:03:04.5". Months count 30 days and
// years 365 days.
func toDuration(raw any) (time.Duration, error) {
	switch v := raw.(type) {
	case time.Duration:
		return v, nil
	case []byte:
		return parseDuration(string(v))
	case string:
		return parseDuration(v)
	}
	us, err := toInt64(raw)
	if err != nil {
		return 0, err
	}
	return time.Duration(us) * time.Microsecond, nil
}

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if us, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(us) * time.Microsecond, nil
	}
	var (
		d      time.Duration
		fields = strings.Fields(s)
	)
	for i := 0; i < len(fields); i++ {
		f := fields[i]
		if strings.Contains(f, ":") {
			clock, err := parseClock(f)
			if err != nil {
				return 0, err
			}
			d += clock
			continue
		}
		if i+1 >= len(fields) {
			return 0, fmt.Errorf("dialect/sql: parse interval %q", s)
		}
		n, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return 0, fmt.Errorf("dialect/sql: parse interval %q: %w", s, err)
		}
		i++
		unit, ok := durationUnits[strings.TrimSuffix(strings.ToLower(fields[i]), "s")]
		if !ok {
			return 0, fmt.Errorf("dialect/sql: unknown interval unit %q", fields[i])
		}
		d += time.Duration(n * float64(unit))
	}
	return d, nil
}

var durationUnits = map[string]time.Duration{
	"microsecond": time.Microsecond,
	"millisecond": time.Millisecond,
	"second":      time.Second,
	"minute":      time.Minute,
	"hour":        time.Hour,
	"day":         24 * time.Hour,
	"week":        7 * 24 * time.Hour,
	"mon":         30 * 24 * time.Hour,
	"month":       30 * 24 * time.Hour,
	"year":        365 * 24 * time.Hour,
}

// parseClock parses [-]HH:MM:SS[.ffffff].
func parseClock(s string) (time.Duration, error) {
	neg := strings.HasPrefix(s, "-")
	parts := strings.Split(strings.TrimLeft(s, "+-"), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("dialect/sql: parse interval clock %q", s)
	}
	h, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("dialect/sql: parse interval clock %q: %w", s, err)
	}
	m, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("dialect/sql: parse interval clock %q: %w", s, err)
	}
	sec, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, fmt.Errorf("dialect/sql: parse interval clock %q: %w", s, err)
	}
	d := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec*float64(time.Second))
	if neg {
		d = -d
	}
	return d, nil
}
