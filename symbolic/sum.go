package symbolic

import (
	"sort"
	"strings"
)

// Add is a sum of terms.
type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

func (a *Add) Terms() []Expr { return a.terms }
func (a *Add) node()         {}

// like collects the multiples of one term.
type like struct {
	base  Expr
	coeff *Num
}

// Simplify flattens nested sums, folds numbers and combines multiples of
// the same term. Leaf terms come first sorted by key, other terms keep
// their first-seen order, numbers go last.
func (a *Add) Simplify() Expr {
	constant := N(0)
	byKey := map[string]*like{}
	var leaves, others []string

	collect := func(t Expr) {
		if v, ok := t.(*Num); ok {
			constant = constant.plus(v)
			return
		}
		c, rest := Coeff(t)
		var base Expr = &Mul{factors: rest}
		if len(rest) == 1 {
			base = rest[0]
		}
		k := base.String()
		l, seen := byKey[k]
		if !seen {
			l = &like{base: base, coeff: N(0)}
			byKey[k] = l
			if _, isLeaf := base.(Leaf); isLeaf {
				leaves = append(leaves, k)
			} else {
				others = append(others, k)
			}
		}
		l.coeff = l.coeff.plus(c)
	}
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			for _, it := range inner.terms {
				collect(it)
			}
			continue
		}
		collect(s)
	}

	sort.Strings(leaves)
	var out []Expr
	for _, k := range append(leaves, others...) {
		l := byKey[k]
		switch {
		case l.coeff.IsZero():
		case l.coeff.IsOne():
			out = append(out, l.base)
		default:
			out = append(out, MulOf(l.coeff, l.base))
		}
	}
	if !constant.IsZero() {
		out = append(out, constant)
	}
	switch len(out) {
	case 0:
		return N(0)
	case 1:
		return out[0]
	}
	return &Add{terms: out}
}

func (a *Add) String() string {
	if len(a.terms) == 0 {
		return "0"
	}
	return joinTerms(a.terms, Expr.String, " + ")
}

func (a *Add) LaTeX() string { return joinTerms(a.terms, Expr.LaTeX, " + ") }

func joinTerms(es []Expr, show func(Expr) string, sep string) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = show(e)
	}
	return strings.Join(parts, sep)
}

func (a *Add) Subs(s Substitution) Expr {
	return AddOf(mapExprs(a.terms, func(t Expr) Expr { return t.Subs(s) })...)
}

func (a *Add) Diff(key string) Expr {
	return AddOf(mapExprs(a.terms, func(t Expr) Expr { return t.Diff(key) })...)
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	return ok && equalAll(a.terms, o.terms)
}

func mapExprs(es []Expr, f func(Expr) Expr) []Expr {
	out := make([]Expr, len(es))
	for i, e := range es {
		out[i] = f(e)
	}
	return out
}

func equalAll(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
