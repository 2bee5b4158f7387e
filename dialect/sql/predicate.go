package sql

import "strings"

// Predicate is a boolean-valued subject used in WHERE, ON, HAVING and
// searched CASE clauses. Predicates are subjects too and may be selected.
type Predicate interface {
	Subject
	predicate()
}

// comparison is a binary comparison.
type comparison struct {
	op          string
	left, right Subject
}

func (*comparison) subject()   {}
func (*comparison) predicate() {}

func compare(op string, x, y any) Predicate {
	return &comparison{op: op, left: toSubject(x), right: toSubject(y)}
}

// EQ returns x = y.
func EQ(x, y any) Predicate { return compare("=", x, y) }

// NEQ returns x <> y.
func NEQ(x, y any) Predicate { return compare("<>", x, y) }

// LT returns x < y.
func LT(x, y any) Predicate { return compare("<", x, y) }

// LTE returns x <= y.
func LTE(x, y any) Predicate { return compare("<=", x, y) }

// GT returns x > y.
func GT(x, y any) Predicate { return compare(">", x, y) }

// GTE returns x >= y.
func GTE(x, y any) Predicate { return compare(">=", x, y) }

// boolTerm joins predicates with AND or OR.
type boolTerm struct {
	op    string
	terms []Predicate
}

func (*boolTerm) subject()   {}
func (*boolTerm) predicate() {}

// And returns the conjunction of the predicates. Nil predicates are
// skipped and a single predicate is returned as is.
func And(ps ...Predicate) Predicate { return join("AND", ps) }

// Or returns the disjunction of the predicates.
func Or(ps ...Predicate) Predicate { return join("OR", ps) }

func join(op string, ps []Predicate) Predicate {
	terms := make([]Predicate, 0, len(ps))
	for _, p := range ps {
		if p != nil {
			terms = append(terms, p)
		}
	}
	switch len(terms) {
	case 0:
		return nil
	case 1:
		return terms[0]
	}
	return &boolTerm{op: op, terms: terms}
}

// not negates a predicate.
type not struct {
	p Predicate
}

func (*not) subject()   {}
func (*not) predicate() {}

// Not returns NOT (p).
func Not(p Predicate) Predicate { return &not{p: p} }

// in is [NOT] IN over a value list or a sub-query.
type in struct {
	not    bool
	expr   Subject
	values []Subject
	sub    *Selector
}

func (*in) subject()   {}
func (*in) predicate() {}

// In returns x IN (vs...).
func In(x any, vs ...any) Predicate {
	return &in{expr: toSubject(x), values: toSubjects(vs)}
}

// NotIn returns x NOT IN (vs...).
func NotIn(x any, vs ...any) Predicate {
	return &in{not: true, expr: toSubject(x), values: toSubjects(vs)}
}

// InQuery returns x IN (sub).
func InQuery(x any, sub *Selector) Predicate {
	return &in{expr: toSubject(x), sub: sub}
}

// NotInQuery returns x NOT IN (sub).
func NotInQuery(x any, sub *Selector) Predicate {
	return &in{not: true, expr: toSubject(x), sub: sub}
}

// exists is [NOT] EXISTS over a sub-query.
type exists struct {
	not bool
	sub *Selector
}

func (*exists) subject()   {}
func (*exists) predicate() {}

// Exists returns EXISTS (sub).
func Exists(sub *Selector) Predicate { return &exists{sub: sub} }

// NotExists returns NOT EXISTS (sub).
func NotExists(sub *Selector) Predicate { return &exists{not: true, sub: sub} }

// like is [NOT] LIKE with a pattern that is always inlined.
type like struct {
	not     bool
	expr    Subject
	pattern string
	// escaped patterns use '!' as the escape character.
	escaped bool
}

func (*like) subject()   {}
func (*like) predicate() {}

// Like returns x LIKE 'pattern'. The pattern is written into the statement
// text as a quoted literal.
func Like(x any, pattern string) Predicate {
	return &like{expr: toSubject(x), pattern: pattern}
}

// NotLike returns x NOT LIKE 'pattern'.
func NotLike(x any, pattern string) Predicate {
	return &like{not: true, expr: toSubject(x), pattern: pattern}
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func likeEscaped(x any, pattern string) Predicate {
	return &like{expr: toSubject(x), pattern: pattern, escaped: true}
}

// Contains returns a LIKE predicate matching values that contain s.
func Contains(x any, s string) Predicate { return likeEscaped(x, "%"+likeEscaper.Replace(s)+"%") }

// HasPrefix returns a LIKE predicate matching values that start with s.
func HasPrefix(x any, s string) Predicate { return likeEscaped(x, likeEscaper.Replace(s)+"%") }

// HasSuffix returns a LIKE predicate matching values that end with s.
func HasSuffix(x any, s string) Predicate { return likeEscaped(x, "%"+likeEscaper.Replace(s)) }

// EqualFold returns LOWER(x) = LOWER(s).
func EqualFold(x any, s string) Predicate { return EQ(Lower(x), Lower(s)) }

// between is [NOT] BETWEEN.
type between struct {
	not          bool
	expr, lo, hi Subject
}

func (*between) subject()   {}
func (*between) predicate() {}

// Between returns x BETWEEN lo AND hi.
func Between(x, lo, hi any) Predicate {
	return &between{expr: toSubject(x), lo: toSubject(lo), hi: toSubject(hi)}
}

// NotBetween returns x NOT BETWEEN lo AND hi.
func NotBetween(x, lo, hi any) Predicate {
	return &between{not: true, expr: toSubject(x), lo: toSubject(lo), hi: toSubject(hi)}
}

// isNull is IS [NOT] NULL.
type isNull struct {
	not  bool
	expr Subject
}

func (*isNull) subject()   {}
func (*isNull) predicate() {}

// IsNull returns x IS NULL.
func IsNull(x any) Predicate { return &isNull{expr: toSubject(x)} }

// NotNull returns x IS NOT NULL.
func NotNull(x any) Predicate { return &isNull{not: true, expr: toSubject(x)} }
