package symbolic

import (
	"strconv"
	"strings"
)

// TimeKey is the key of the time variable. Every TimeFunc is a function of
// it, and Calculation never records it as an output.
const TimeKey = "t"

// Time is the time variable as an expression.
var Time = S(TimeKey)

// ============================================================
// TimeFunc: a symbol applied to time, with a derivative order
// ============================================================

type TimeFunc struct {
	name  string
	order int
}

// TF returns the time-dependent symbol name(t).
func TF(name string) *TimeFunc { return &TimeFunc{name: name} }

// Derivative returns the order-th time derivative of the underlying symbol.
func (f *TimeFunc) Derivative(order int) *TimeFunc {
	if order < 0 {
		panic("symbolic: negative derivative order")
	}
	return &TimeFunc{name: f.name, order: order}
}

func (f *TimeFunc) Name() string   { return f.name }
func (f *TimeFunc) Order() int     { return f.order }
func (f *TimeFunc) Simplify() Expr { return f }
func (f *TimeFunc) String() string { return f.Key() }

// Key is name(t) with one prime per derivative order.
func (f *TimeFunc) Key() string {
	return f.name + strings.Repeat("'", f.order) + "(" + TimeKey + ")"
}

func (f *TimeFunc) LaTeX() string {
	switch f.order {
	case 0:
		return f.name
	case 1:
		return "\\dot{" + f.name + "}"
	case 2:
		return "\\ddot{" + f.name + "}"
	}
	return f.name + "^{(" + strconv.Itoa(f.order) + ")}"
}

func (f *TimeFunc) Subs(s Substitution) Expr {
	if v, ok := s[f.Key()]; ok {
		return v
	}
	return f
}

func (f *TimeFunc) Diff(key string) Expr {
	switch key {
	case f.Key():
		return N(1)
	case TimeKey:
		return f.Derivative(f.order + 1)
	}
	return N(0)
}

func (f *TimeFunc) Equal(other Expr) bool {
	o, ok := other.(*TimeFunc)
	return ok && f.name == o.name && f.order == o.order
}

func (f *TimeFunc) node()            {}

// DiffT is the total time derivative of expr.
func DiffT(expr Expr) Expr { return Diff(expr, TimeKey) }
