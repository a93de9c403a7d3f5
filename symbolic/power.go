package symbolic

// maxFoldedExponent bounds the integer powers of numbers that are
// evaluated; larger ones stay symbolic.
const maxFoldedExponent = 20

// Pow is base^exp.
type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

func (p *Pow) Base() Expr    { return p.base }
func (p *Pow) ExpExpr() Expr { return p.exp }
func (p *Pow) node()         {}

func (p *Pow) Simplify() Expr {
	base, exp := p.base.Simplify(), p.exp.Simplify()
	en, expIsNum := exp.(*Num)
	bn, baseIsNum := base.(*Num)

	switch {
	case expIsNum && en.IsZero():
		return N(1)
	case expIsNum && en.IsOne():
		return base
	case baseIsNum && bn.IsZero():
		// 0^negative is a division by zero and stays unevaluated.
		if expIsNum && en.IsNegative() {
			return &Pow{base: base, exp: exp}
		}
		return N(0)
	case baseIsNum && bn.IsOne():
		return N(1)
	case baseIsNum && expIsNum && en.IsInteger():
		if v, ok := intPow(bn, en); ok {
			return v
		}
	}
	if inner, ok := base.(*Pow); ok {
		return PowOf(inner.base, MulOf(inner.exp, exp))
	}
	return &Pow{base: base, exp: exp}
}

// intPow evaluates b^e for integer exponents up to maxFoldedExponent in
// magnitude.
func intPow(b, e *Num) (*Num, bool) {
	if !e.val.Num().IsInt64() {
		return nil, false
	}
	n := e.val.Num().Int64()
	if n < -maxFoldedExponent || n > maxFoldedExponent {
		return nil, false
	}
	result := N(1)
	for i := int64(0); i < n || i < -n; i++ {
		result = result.times(b)
	}
	if n < 0 {
		return result.inverse(), true
	}
	return result, true
}

func (p *Pow) String() string {
	return parenthesized(p.base, p.base.String(), "(", ")") + "^" + p.exp.String()
}

func (p *Pow) LaTeX() string {
	return parenthesized(p.base, p.base.LaTeX(), `\left(`, `\right)`) + "^{" + p.exp.LaTeX() + "}"
}

func (p *Pow) Subs(s Substitution) Expr {
	return PowOf(p.base.Subs(s), p.exp.Subs(s))
}

// Diff uses the power rule for numeric exponents, the exponential rule
// for numeric bases and the general rule d(u^v) = u^v (v' ln u + v u'/u)
// otherwise.
func (p *Pow) Diff(key string) Expr {
	du, dv := p.base.Diff(key), p.exp.Diff(key)
	if _, ok := p.exp.(*Num); ok {
		return MulOf(p.exp, PowOf(p.base, AddOf(p.exp, N(-1))), du)
	}
	if _, ok := p.base.(*Num); ok {
		return MulOf(p, LnOf(p.base), dv)
	}
	return MulOf(p, AddOf(
		MulOf(dv, LnOf(p.base)),
		MulOf(p.exp, du, PowOf(p.base, N(-1))),
	))
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}
