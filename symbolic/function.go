package symbolic

import "math"

// Func is a named function applied to one argument.
type Func struct {
	name string
	arg  Expr
}

// function describes a known function. eval folds a numeric argument and
// reports false when it cannot; outer is the derivative with respect to
// the argument, nil when it is zero everywhere.
type function struct {
	eval  func(n *Num) (Expr, bool)
	outer func(arg Expr) Expr
	latex string
}

// viaFloat folds through float64. Results outside the reals, such as
// asin(2), stay symbolic.
func viaFloat(f func(float64) float64) func(*Num) (Expr, bool) {
	return func(n *Num) (Expr, bool) {
		v := f(n.Float64())
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, false
		}
		return NFloat(v), true
	}
}

// oneMinusSquare is 1 - arg^2.
func oneMinusSquare(arg Expr) Expr {
	return AddOf(N(1), MulOf(N(-1), PowOf(arg, N(2))))
}

var functions map[string]function

func init() {
	functions = map[string]function{
		"sin": {eval: viaFloat(math.Sin), outer: CosOf, latex: `\sin`},
		"cos": {eval: viaFloat(math.Cos), outer: func(a Expr) Expr { return MulOf(N(-1), SinOf(a)) }, latex: `\cos`},
		"tan": {eval: viaFloat(math.Tan), outer: func(a Expr) Expr { return AddOf(N(1), PowOf(TanOf(a), N(2))) }, latex: `\tan`},
		"exp": {eval: viaFloat(math.Exp), outer: ExpOf, latex: `\exp`},
		"ln": {
			eval: func(n *Num) (Expr, bool) {
				if !n.IsPositive() {
					return nil, false
				}
				return NFloat(math.Log(n.Float64())), true
			},
			outer: func(a Expr) Expr { return PowOf(a, N(-1)) },
			latex: `\ln`,
		},
		"asin": {eval: viaFloat(math.Asin), outer: func(a Expr) Expr { return PowOf(oneMinusSquare(a), F(-1, 2)) }, latex: `\arcsin`},
		"acos": {eval: viaFloat(math.Acos), outer: func(a Expr) Expr { return MulOf(N(-1), PowOf(oneMinusSquare(a), F(-1, 2))) }, latex: `\arccos`},
		"atan": {eval: viaFloat(math.Atan), outer: func(a Expr) Expr { return PowOf(AddOf(N(1), PowOf(a, N(2))), N(-1)) }, latex: `\arctan`},
		"sinh": {eval: viaFloat(math.Sinh), outer: CoshOf, latex: `\sinh`},
		"cosh": {eval: viaFloat(math.Cosh), outer: SinhOf, latex: `\cosh`},
		"tanh": {eval: viaFloat(math.Tanh), outer: func(a Expr) Expr { return oneMinusSquare(TanhOf(a)) }, latex: `\tanh`},
		"abs":   {eval: func(n *Num) (Expr, bool) { return n.abs(), true }, outer: SignOf},
		"floor": {eval: viaFloat(math.Floor)},
		"ceil":  {eval: viaFloat(math.Ceil)},
		"sign": {eval: func(n *Num) (Expr, bool) {
			return N(int64(n.val.Sign())), true
		}},
	}
}

func funcOf(name string, arg Expr) *Func { return &Func{name: name, arg: arg} }

func SinOf(arg Expr) Expr   { return FuncOf("sin", arg) }
func CosOf(arg Expr) Expr   { return FuncOf("cos", arg) }
func TanOf(arg Expr) Expr   { return FuncOf("tan", arg) }
func ExpOf(arg Expr) Expr   { return FuncOf("exp", arg) }
func LnOf(arg Expr) Expr    { return FuncOf("ln", arg) }
func SqrtOf(arg Expr) Expr  { return PowOf(arg, F(1, 2)) }
func AbsOf(arg Expr) Expr   { return FuncOf("abs", arg) }
func AsinOf(arg Expr) Expr  { return FuncOf("asin", arg) }
func AcosOf(arg Expr) Expr  { return FuncOf("acos", arg) }
func AtanOf(arg Expr) Expr  { return FuncOf("atan", arg) }
func SinhOf(arg Expr) Expr  { return FuncOf("sinh", arg) }
func CoshOf(arg Expr) Expr  { return FuncOf("cosh", arg) }
func TanhOf(arg Expr) Expr  { return FuncOf("tanh", arg) }
func FloorOf(arg Expr) Expr { return FuncOf("floor", arg) }
func CeilOf(arg Expr) Expr  { return FuncOf("ceil", arg) }
func SignOf(arg Expr) Expr  { return FuncOf("sign", arg) }

// FuncOf applies a function by name. Unknown names stay opaque and
// differentiate to D[name].
func FuncOf(name string, arg Expr) Expr { return funcOf(name, arg).Simplify() }

func (f *Func) FuncName() string { return f.name }
func (f *Func) Arg() Expr        { return f.arg }
func (f *Func) node()            {}

// Simplify folds numeric arguments and cancels ln(exp(x)), exp(ln(x))
// and the sign inside abs(-x).
func (f *Func) Simplify() Expr {
	arg := f.arg.Simplify()
	if n, ok := arg.(*Num); ok {
		if fn, known := functions[f.name]; known {
			if v, ok := fn.eval(n); ok {
				return v
			}
		}
	}
	inner, _ := arg.(*Func)
	switch {
	case f.name == "ln" && inner != nil && inner.name == "exp",
		f.name == "exp" && inner != nil && inner.name == "ln":
		return inner.arg
	case f.name == "abs":
		if m, ok := arg.(*Mul); ok && len(m.factors) >= 2 {
			if c, ok := m.factors[0].(*Num); ok && c.IsNegOne() {
				return AbsOf(MulOf(m.factors[1:]...))
			}
		}
	}
	return &Func{name: f.name, arg: arg}
}

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Func) LaTeX() string {
	arg := f.arg.LaTeX()
	switch f.name {
	case "abs":
		return `\left|` + arg + `\right|`
	case "floor":
		return `\lfloor ` + arg + ` \rfloor`
	case "ceil":
		return `\lceil ` + arg + ` \rceil`
	}
	cmd := `\operatorname{` + f.name + `}`
	if fn, ok := functions[f.name]; ok && fn.latex != "" {
		cmd = fn.latex
	}
	return cmd + `\left(` + arg + `\right)`
}

func (f *Func) Subs(s Substitution) Expr {
	return FuncOf(f.name, f.arg.Subs(s))
}

// Diff applies the chain rule.
func (f *Func) Diff(key string) Expr {
	fn, known := functions[f.name]
	if !known {
		return MulOf(funcOf("D["+f.name+"]", f.arg), f.arg.Diff(key))
	}
	if fn.outer == nil {
		return N(0)
	}
	return MulOf(fn.outer(f.arg), f.arg.Diff(key))
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.name == o.name && f.arg.Equal(o.arg)
}
