package symbolic

import "sort"

// Mul is a product of factors. A numeric coefficient, when present, is
// the first factor.
type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

func (m *Mul) Factors() []Expr { return m.factors }
func (m *Mul) node()           {}

// Simplify flattens nested products, multiplies the numbers into one
// coefficient, merges powers of a common base and sorts the remaining
// factors by their printed form.
func (m *Mul) Simplify() Expr {
	coeff := N(1)
	var rest []Expr
	take := func(f Expr) {
		if v, ok := f.(*Num); ok {
			coeff = coeff.times(v)
		} else {
			rest = append(rest, f)
		}
	}
	for _, f := range m.factors {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			for _, g := range inner.factors {
				take(g)
			}
			continue
		}
		take(s)
	}

	if coeff.IsZero() {
		return N(0)
	}
	if len(rest) == 0 {
		return coeff
	}
	if merged, ok := combinePowers(rest); ok {
		return MulOf(append([]Expr{coeff}, merged...)...)
	}

	keys := make([]string, len(rest))
	order := make([]int, len(rest))
	for i, f := range rest {
		keys[i] = f.String()
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return keys[order[i]] < keys[order[j]] })
	sorted := make([]Expr, 0, len(rest)+1)
	if !coeff.IsOne() {
		sorted = append(sorted, coeff)
	}
	for _, i := range order {
		sorted = append(sorted, rest[i])
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	return &Mul{factors: sorted}
}

// combinePowers merges factors sharing a base by adding their exponents.
// It reports false when no two factors share a base.
func combinePowers(factors []Expr) ([]Expr, bool) {
	type power struct {
		base Expr
		exps []Expr
	}
	var powers []*power
	byBase := map[string]*power{}
	merged := false
	for _, f := range factors {
		base, exp := f, Expr(N(1))
		if p, ok := f.(*Pow); ok {
			base, exp = p.base, p.exp
		}
		k := base.String()
		if p, seen := byBase[k]; seen {
			p.exps = append(p.exps, exp)
			merged = true
			continue
		}
		p := &power{base: base, exps: []Expr{exp}}
		byBase[k] = p
		powers = append(powers, p)
	}
	if !merged {
		return nil, false
	}
	out := make([]Expr, len(powers))
	for i, p := range powers {
		out[i] = PowOf(p.base, AddOf(p.exps...))
	}
	return out, true
}

// Coeff splits a product into its numeric coefficient and the remaining
// factors. Non-products return a coefficient of one.
func Coeff(e Expr) (*Num, []Expr) {
	switch v := e.(type) {
	case *Num:
		return v, nil
	case *Mul:
		if c, ok := v.factors[0].(*Num); ok {
			return c, v.factors[1:]
		}
		return N(1), v.factors
	}
	return N(1), []Expr{e}
}

func (m *Mul) String() string {
	if len(m.factors) == 0 {
		return "1"
	}
	return joinTerms(m.factors, func(f Expr) string {
		if _, ok := f.(*Add); ok {
			return "(" + f.String() + ")"
		}
		return f.String()
	}, "*")
}

func (m *Mul) LaTeX() string {
	return joinTerms(m.factors, func(f Expr) string {
		if _, ok := f.(*Add); ok {
			return `\left(` + f.LaTeX() + `\right)`
		}
		return f.LaTeX()
	}, " ")
}

func (m *Mul) Subs(s Substitution) Expr {
	return MulOf(mapExprs(m.factors, func(f Expr) Expr { return f.Subs(s) })...)
}

// Diff applies the product rule: one term per factor, that factor
// differentiated and the others kept.
func (m *Mul) Diff(key string) Expr {
	terms := make([]Expr, len(m.factors))
	for i := range m.factors {
		d := m.factors[i].Diff(key)
		if len(m.factors) == 1 {
			terms[i] = d
			continue
		}
		product := make([]Expr, 0, len(m.factors))
		product = append(product, d)
		product = append(product, m.factors[:i]...)
		product = append(product, m.factors[i+1:]...)
		terms[i] = MulOf(product...)
	}
	return AddOf(terms...)
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	return ok && equalAll(m.factors, o.factors)
}
