package symbolic

import (
	"math/big"
)

var (
	ratOne    = big.NewRat(1, 1)
	ratNegOne = big.NewRat(-1, 1)
)

// Num is an exact rational number.
type Num struct{ val *big.Rat }

func N(n int64) *Num { return &Num{val: big.NewRat(n, 1)} }

// F is the fraction p/q. It panics when q is zero.
func F(p, q int64) *Num {
	if q == 0 {
		panic("symbolic: denominator is zero")
	}
	return &Num{val: big.NewRat(p, q)}
}

// NFloat converts f exactly, so 0.1 becomes its binary fraction rather
// than 1/10.
func NFloat(f float64) *Num { return &Num{val: new(big.Rat).SetFloat64(f)} }

func NRat(r *big.Rat) *Num { return &Num{val: new(big.Rat).Set(r)} }

func (n *Num) Simplify() Expr         { return n }
func (n *Num) Subs(Substitution) Expr { return n }
func (n *Num) Diff(string) Expr       { return N(0) }
func (n *Num) node()                  {}

func (n *Num) Equal(other Expr) bool {
	o, ok := other.(*Num)
	return ok && o.val.Cmp(n.val) == 0
}

func (n *Num) Float64() float64 {
	f, _ := n.val.Float64()
	return f
}

func (n *Num) IsZero() bool     { return n.val.Sign() == 0 }
func (n *Num) IsPositive() bool { return n.val.Sign() > 0 }
func (n *Num) IsNegative() bool { return n.val.Sign() < 0 }
func (n *Num) IsOne() bool      { return n.val.Cmp(ratOne) == 0 }
func (n *Num) IsNegOne() bool   { return n.val.Cmp(ratNegOne) == 0 }
func (n *Num) IsInteger() bool  { return n.val.IsInt() }

// Rat returns a copy of the value.
func (n *Num) Rat() *big.Rat { return new(big.Rat).Set(n.val) }

func (n *Num) Neg() *Num { return &Num{val: new(big.Rat).Neg(n.val)} }

func (n *Num) abs() *Num {
	if n.IsNegative() {
		return n.Neg()
	}
	return n
}

func (n *Num) plus(o *Num) *Num  { return &Num{val: new(big.Rat).Add(n.val, o.val)} }
func (n *Num) times(o *Num) *Num { return &Num{val: new(big.Rat).Mul(n.val, o.val)} }

func (n *Num) inverse() *Num {
	if n.IsZero() {
		panic("symbolic: division by zero")
	}
	return &Num{val: new(big.Rat).Inv(n.val)}
}

// String prints integers plainly and other values as p/q.
func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func (n *Num) LaTeX() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	a := n.abs()
	frac := `\frac{` + a.val.Num().String() + "}{" + a.val.Denom().String() + "}"
	if n.IsNegative() {
		return "-" + frac
	}
	return frac
}
