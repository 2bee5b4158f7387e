package sql

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit is a calendar or clock unit of an Interval.
type Unit uint8

// Interval units from the smallest to the largest.
const (
	Micros Unit = iota + 1
	Millis
	Seconds
	Minutes
	Hours
	Days
	Weeks
	Months
	Quarters
	Years
	Decades
	Centuries
	Millennia
)

var unitNames = map[Unit]string{
	Micros:    "MICROSECOND",
	Millis:    "MILLISECOND",
	Seconds:   "SECOND",
	Minutes:   "MINUTE",
	Hours:     "HOUR",
	Days:      "DAY",
	Weeks:     "WEEK",
	Months:    "MONTH",
	Quarters:  "QUARTER",
	Years:     "YEAR",
	Decades:   "DECADE",
	Centuries: "CENTURY",
	Millennia: "MILLENNIUM",
}

// String returns the singular SQL name of the unit.
func (u Unit) String() string {
	if n, ok := unitNames[u]; ok {
		return n
	}
	return fmt.Sprintf("Unit(%d)", uint8(u))
}

// calendar reports whether the unit is month based.
func (u Unit) calendar() bool { return u >= Months }

// Interval is a sum of amounts in distinct units, such as 1 month and 2 days.
// Terms keep their insertion order and adding to an existing unit sums
// the amounts.
type Interval struct {
	terms []term
}

type term struct {
	n    int64
	unit Unit
}

// NewInterval returns an interval of n units.
func NewInterval(n int64, unit Unit) *Interval {
	return (&Interval{}).And(n, unit)
}

// And adds n units to the interval.
func (iv *Interval) And(n int64, unit Unit) *Interval {
	for i := range iv.terms {
		if iv.terms[i].unit == unit {
			iv.terms[i].n += n
			return iv
		}
	}
	iv.terms = append(iv.terms, term{n: n, unit: unit})
	return iv
}

// Units returns the units of the interval in insertion order.
func (iv *Interval) Units() []Unit {
	us := make([]Unit, len(iv.terms))
	for i, t := range iv.terms {
		us[i] = t.unit
	}
	return us
}

// Amount returns the amount of the given unit.
func (iv *Interval) Amount(unit Unit) int64 {
	for _, t := range iv.terms {
		if t.unit == unit {
			return t.n
		}
	}
	return 0
}

// String returns the interval in the form "1 MONTH 2 DAY".
func (iv *Interval) String() string {
	parts := make([]string, len(iv.terms))
	for i, t := range iv.terms {
		parts[i] = strconv.FormatInt(t.n, 10) + " " + t.unit.String()
	}
	return strings.Join(parts, " ")
}

// conversions maps units to the multiple of a smaller unit they are
// rewritten into when a vendor lacks them.
var conversions = map[Unit]term{
	Millis:    {n: 1000, unit: Micros},
	Weeks:     {n: 7, unit: Days},
	Quarters:  {n: 3, unit: Months},
	Decades:   {n: 10, unit: Years},
	Centuries: {n: 100, unit: Years},
	Millennia: {n: 1000, unit: Years},
}

// convertTo rewrites the interval so that it only uses the given units.
// Units without a supported conversion are kept.
func (iv *Interval) convertTo(supported ...Unit) *Interval {
	ok := make(map[Unit]bool, len(supported))
	for _, u := range supported {
		ok[u] = true
	}
	out := &Interval{}
	for _, t := range iv.terms {
		n, u := t.n, t.unit
		for !ok[u] {
			c, found := conversions[u]
			if !found {
				break
			}
			n, u = n*c.n, c.unit
		}
		out.And(n, u)
	}
	return out
}

// temporal adds or subtracts an interval to a date, time or datetime
// expression.
type temporal struct {
	op       byte
	expr     Subject
	interval *Interval
}

func (*temporal) subject() {}

// DateAdd returns x plus the interval.
func DateAdd(x any, iv *Interval) Subject {
	return &temporal{op: '+', expr: toSubject(x), interval: iv}
}

// DateSub returns x minus the interval.
func DateSub(x any, iv *Interval) Subject {
	return &temporal{op: '-', expr: toSubject(x), interval: iv}
}
