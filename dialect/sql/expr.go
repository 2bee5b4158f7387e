package sql

import (
	"fmt"

	"github.com/syssam/rdb/schema/field"
)

// Subject is a node of a statement tree: a table, a column or value, an
// expression, a predicate or a sub-query. The set of subjects is closed.
type Subject interface {
	subject()
}

// toSubject wraps plain Go values into free values.
func toSubject(v any) Subject {
	switch v := v.(type) {
	case Subject:
		return v
	case nil:
		return Null()
	}
	return Value(v)
}

func toSubjects(vs []any) []Subject {
	s := make([]Subject, len(vs))
	for i, v := range vs {
		s[i] = toSubject(v)
	}
	return s
}

// As names an expression in a select list. GROUP BY refers to the
// expression by its name and enclosing queries read it as a column of the
// sub-query.
type As struct {
	expr Subject
	name string
}

// Alias returns the expression named as name.
func Alias(expr any, name string) *As {
	return &As{expr: toSubject(expr), name: name}
}

// Name returns the alias name.
func (a *As) Name() string { return a.name }

// Expr returns the aliased expression.
func (a *As) Expr() Subject { return a.expr }

func (*As) subject() {}

type fnOp uint8

const (
	opPi fnOp = iota + 1
	opAbs
	opSign
	opRound
	opFloor
	opCeil
	opSqrt
	opExp
	opLn
	opLog
	opLog2
	opLog10
	opPow
	opMod
	opSin
	opAsin
	opCos
	opAcos
	opTan
	opAtan
	opAtan2
	opDegrees
	opRadians
	opUpper
	opLower
	opNow
	opCurrentDate
	opCurrentTime
)

var fnNames = map[fnOp]string{
	opPi:          "PI",
	opAbs:         "ABS",
	opSign:        "SIGN",
	opRound:       "ROUND",
	opFloor:       "FLOOR",
	opCeil:        "CEIL",
	opSqrt:        "SQRT",
	opExp:         "EXP",
	opLn:          "LN",
	opLog:         "LOG",
	opLog2:        "LOG2",
	opLog10:       "LOG10",
	opPow:         "POWER",
	opMod:         "MOD",
	opSin:         "SIN",
	opAsin:        "ASIN",
	opCos:         "COS",
	opAcos:        "ACOS",
	opTan:         "TAN",
	opAtan:        "ATAN",
	opAtan2:       "ATAN2",
	opDegrees:     "DEGREES",
	opRadians:     "RADIANS",
	opUpper:       "UPPER",
	opLower:       "LOWER",
	opNow:         "NOW",
	opCurrentDate: "CURRENT_DATE",
	opCurrentTime: "CURRENT_TIME",
}

// fn is a scalar function call.
type fn struct {
	op   fnOp
	args []Subject
}

func (*fn) subject() {}

func call(op fnOp, args ...any) *fn { return &fn{op: op, args: toSubjects(args)} }

// Pi returns the constant π.
func Pi() Subject { return call(opPi) }

// Abs returns the absolute value of x.
func Abs(x any) Subject { return call(opAbs, x) }

// Sign returns -1, 0 or 1 depending on the sign of x.
func Sign(x any) Subject { return call(opSign, x) }

// Round rounds x to the nearest integer.
func Round(x any) Subject { return call(opRound, x) }

// RoundTo rounds x to the given number of decimal places.
func RoundTo(x any, places int) Subject { return call(opRound, x, places) }

// Floor returns the largest integer not greater than x.
func Floor(x any) Subject { return call(opFloor, x) }

// Ceil returns the smallest integer not less than x.
func Ceil(x any) Subject { return call(opCeil, x) }

// Sqrt returns the square root of x.
func Sqrt(x any) Subject { return call(opSqrt, x) }

// Exp returns e raised to x.
func Exp(x any) Subject { return call(opExp, x) }

// Ln returns the natural logarithm of x.
func Ln(x any) Subject { return call(opLn, x) }

// Log returns the logarithm of x in the given base.
func Log(base, x any) Subject { return call(opLog, base, x) }

// Log2 returns the base 2 logarithm of x.
func Log2(x any) Subject { return call(opLog2, x) }

// Log10 returns the base 10 logarithm of x.
func Log10(x any) Subject { return call(opLog10, x) }

// Pow returns x raised to y.
func Pow(x, y any) Subject { return call(opPow, x, y) }

// Mod returns the remainder of x divided by y.
func Mod(x, y any) Subject { return call(opMod, x, y) }

// Sin returns the sine of x.
func Sin(x any) Subject { return call(opSin, x) }

// Asin returns the arcsine of x.
func Asin(x any) Subject { return call(opAsin, x) }

// Cos returns the cosine of x.
func Cos(x any) Subject { return call(opCos, x) }

// Acos returns the arccosine of x.
func Acos(x any) Subject { return call(opAcos, x) }

// Tan returns the tangent of x.
func Tan(x any) Subject { return call(opTan, x) }

// Atan returns the arctangent of x.
func Atan(x any) Subject { return call(opAtan, x) }

// Atan2 returns the arctangent of y/x.
func Atan2(y, x any) Subject { return call(opAtan2, y, x) }

// Degrees converts radians to degrees.
func Degrees(x any) Subject { return call(opDegrees, x) }

// Radians converts degrees to radians.
func Radians(x any) Subject { return call(opRadians, x) }

// Upper converts x to upper case.
func Upper(x any) Subject { return call(opUpper, x) }

// Lower converts x to lower case.
func Lower(x any) Subject { return call(opLower, x) }

// Now returns the current timestamp of the database.
func Now() Subject { return call(opNow) }

// CurrentDate returns the current date of the database.
func CurrentDate() Subject { return call(opCurrentDate) }

// CurrentTime returns the current time of the database.
func CurrentTime() Subject { return call(opCurrentTime) }

// arith is a binary arithmetic expression.
type arith struct {
	op          byte
	left, right Subject
}

func (*arith) subject() {}

// Add returns x + y.
func Add(x, y any) Subject { return &arith{op: '+', left: toSubject(x), right: toSubject(y)} }

// Sub returns x - y.
func Sub(x, y any) Subject { return &arith{op: '-', left: toSubject(x), right: toSubject(y)} }

// Mul returns x * y.
func Mul(x, y any) Subject { return &arith{op: '*', left: toSubject(x), right: toSubject(y)} }

// Div returns x / y.
func Div(x, y any) Subject { return &arith{op: '/', left: toSubject(x), right: toSubject(y)} }

// concat joins string expressions.
type concat struct {
	parts []Subject
}

func (*concat) subject() {}

// Concat concatenates the string values of its arguments.
func Concat(parts ...any) Subject { return &concat{parts: toSubjects(parts)} }

// cast converts an expression to another column type.
type cast struct {
	expr Subject
	to   field.Spec
}

func (*cast) subject() {}

// Cast converts x to the given column type.
func Cast(x any, to field.Spec) Subject { return &cast{expr: toSubject(x), to: to} }

type aggOp uint8

const (
	aggCount aggOp = iota + 1
	aggSum
	aggAvg
	aggMax
	aggMin
)

var aggNames = map[aggOp]string{
	aggCount: "COUNT",
	aggSum:   "SUM",
	aggAvg:   "AVG",
	aggMax:   "MAX",
	aggMin:   "MIN",
}

// aggregate is a set function. A nil expr is COUNT(*).
type aggregate struct {
	op       aggOp
	distinct bool
	expr     Subject
}

func (*aggregate) subject() {}

// CountAll returns COUNT(*).
func CountAll() Subject { return &aggregate{op: aggCount} }

// Count returns COUNT(x).
func Count(x any) Subject { return &aggregate{op: aggCount, expr: toSubject(x)} }

// CountDistinct returns COUNT(DISTINCT x).
func CountDistinct(x any) Subject { return &aggregate{op: aggCount, distinct: true, expr: toSubject(x)} }

// Sum returns SUM(x).
func Sum(x any) Subject { return &aggregate{op: aggSum, expr: toSubject(x)} }

// SumDistinct returns SUM(DISTINCT x).
func SumDistinct(x any) Subject { return &aggregate{op: aggSum, distinct: true, expr: toSubject(x)} }

// Avg returns AVG(x).
func Avg(x any) Subject { return &aggregate{op: aggAvg, expr: toSubject(x)} }

// AvgDistinct returns AVG(DISTINCT x).
func AvgDistinct(x any) Subject { return &aggregate{op: aggAvg, distinct: true, expr: toSubject(x)} }

// Max returns MAX(x).
func Max(x any) Subject { return &aggregate{op: aggMax, expr: toSubject(x)} }

// Min returns MIN(x).
func Min(x any) Subject { return &aggregate{op: aggMin, expr: toSubject(x)} }

// CaseBuilder builds simple and searched CASE expressions.
type CaseBuilder struct {
	value Subject
	whens []when
	els   Subject
	err   error
}

type when struct {
	cond, then Subject
}

func (*CaseBuilder) subject() {}

// Case starts a simple CASE expression comparing value against each WHEN.
func Case(value any) *CaseBuilder { return &CaseBuilder{value: toSubject(value)} }

// Search starts a searched CASE expression where each WHEN is a predicate.
func Search() *CaseBuilder { return &CaseBuilder{} }

// When adds a WHEN .. THEN branch.
func (b *CaseBuilder) When(cond, then any) *CaseBuilder {
	if b.value == nil {
		if _, ok := cond.(Predicate); !ok {
			b.err = fmt.Errorf("dialect/sql: searched CASE requires a predicate, got %T", cond)
		}
	}
	b.whens = append(b.whens, when{cond: toSubject(cond), then: toSubject(then)})
	return b
}

// Else sets the ELSE branch.
func (b *CaseBuilder) Else(v any) *CaseBuilder {
	b.els = toSubject(v)
	return b
}

// order is an ORDER BY item.
type order struct {
	expr Subject
	desc bool
}

func (*order) subject() {}

// Asc orders by x ascending.
func Asc(x any) Subject { return &order{expr: toSubject(x)} }

// Desc orders by x descending.
func Desc(x any) Subject { return &order{expr: toSubject(x), desc: true} }

// position refers to a select item by its 1-based index.
type position int

func (position) subject() {}

// Position refers to the n-th select item in ORDER BY.
func Position(n int) Subject { return position(n) }

// quantified is ALL, ANY or SOME over a sub-query.
type quantified struct {
	kind string
	sub  *Selector
}

func (*quantified) subject() {}

// All compares against every row of the sub-query.
func All(sub *Selector) Subject { return &quantified{kind: "ALL", sub: sub} }

// Any compares against any row of the sub-query.
func Any(sub *Selector) Subject { return &quantified{kind: "ANY", sub: sub} }

// Some is a synonym of Any.
func Some(sub *Selector) Subject { return &quantified{kind: "SOME", sub: sub} }

// specOf infers the column type produced by a subject.
func specOf(s Subject) field.Spec {
	switch s := s.(type) {
	case *Column:
		return s.spec
	case *As:
		return specOf(s.expr)
	case *cast:
		return s.to
	case *temporal:
		return specOf(s.expr)
	case *concat:
		return field.Spec{Type: field.TypeChar, Varying: true}
	case *aggregate:
		switch s.op {
		case aggCount:
			return field.Spec{Type: field.TypeBigint}
		case aggAvg:
			return field.Spec{Type: field.TypeDecimal}
		}
		if s.expr != nil {
			return specOf(s.expr)
		}
	case *arith:
		l, r := specOf(s.left), specOf(s.right)
		if l.Type.Temporal() {
			return l
		}
		if r.Type > l.Type && r.Type.Numeric() {
			return r
		}
		return l
	case *fn:
		switch s.op {
		case opUpper, opLower:
			return field.Spec{Type: field.TypeChar, Varying: true}
		case opNow:
			return field.Spec{Type: field.TypeDateTime}
		case opCurrentDate:
			return field.Spec{Type: field.TypeDate}
		case opCurrentTime:
			return field.Spec{Type: field.TypeTime}
		case opAbs, opRound, opFloor, opCeil, opMod:
			if len(s.args) > 0 {
				return specOf(s.args[0])
			}
		case opSign:
			return field.Spec{Type: field.TypeInt}
		}
		return field.Spec{Type: field.TypeDouble}
	case *CaseBuilder:
		for _, w := range s.whens {
			if t := specOf(w.then); t.Type.Valid() {
				return t
			}
		}
	case *Selector:
		if len(s.items) == 1 {
			return specOf(s.items[0])
		}
	case Predicate:
		return field.Spec{Type: field.TypeBoolean}
	}
	return field.Spec{}
}
