package symbolic_test

import (
	"strings"
	"testing"

	"github.com/njchilds90/symgen/symbolic"
)

// ============================================================
// Num tests
// ============================================================

func TestNum_Integer(t *testing.T) {
	n := symbolic.N(42)
	if n.String() != "42" {
		t.Errorf("want 42, got %s", n.String())
	}
}

func TestNum_Rational(t *testing.T) {
	n := symbolic.F(1, 3)
	if n.String() != "1/3" {
		t.Errorf("want 1/3, got %s", n.String())
	}
}

func TestNum_LaTeX_Rational(t *testing.T) {
	n := symbolic.F(2, 5)
	if n.LaTeX() != `\frac{2}{5}` {
		t.Errorf("want \\frac{2}{5}, got %s", n.LaTeX())
	}
}

func TestNum_FloatIsExact(t *testing.T) {
	n := symbolic.NFloat(0.5)
	if n.String() != "1/2" {
		t.Errorf("want 1/2, got %s", n.String())
	}
}

func TestNum_Diff_IsZero(t *testing.T) {
	result := symbolic.N(5).Diff("x")
	if symbolic.String(result) != "0" {
		t.Errorf("d/dx(5) should be 0, got %s", symbolic.String(result))
	}
}

// ============================================================
// Sym tests
// ============================================================

func TestSym_String(t *testing.T) {
	x := symbolic.S("x")
	if x.String() != "x" {
		t.Errorf("want x, got %s", x.String())
	}
}

func TestSym_Sub_Match(t *testing.T) {
	result := symbolic.Sub(symbolic.S("x"), "x", symbolic.N(3))
	if symbolic.String(result) != "3" {
		t.Errorf("want 3, got %s", symbolic.String(result))
	}
}

func TestSym_Sub_NoMatch(t *testing.T) {
	result := symbolic.Sub(symbolic.S("x"), "y", symbolic.N(3))
	if symbolic.String(result) != "x" {
		t.Errorf("want x, got %s", symbolic.String(result))
	}
}

func TestSym_Diff_Self(t *testing.T) {
	result := symbolic.S("x").Diff("x")
	if symbolic.String(result) != "1" {
		t.Errorf("d/dx(x) should be 1, got %s", symbolic.String(result))
	}
}

func TestSym_Diff_Other(t *testing.T) {
	result := symbolic.S("y").Diff("x")
	if symbolic.String(result) != "0" {
		t.Errorf("d/dx(y) should be 0, got %s", symbolic.String(result))
	}
}

// ============================================================
// Add tests
// ============================================================

func TestAdd_Simple(t *testing.T) {
	expr := symbolic.AddOf(symbolic.S("x"), symbolic.N(3))
	if symbolic.String(expr) != "x + 3" {
		t.Errorf("want 'x + 3', got %s", symbolic.String(expr))
	}
}

func TestAdd_LeavesSorted(t *testing.T) {
	expr := symbolic.AddOf(symbolic.N(3), symbolic.S("y"), symbolic.S("x"))
	if symbolic.String(expr) != "x + y + 3" {
		t.Errorf("want 'x + y + 3', got %s", symbolic.String(expr))
	}
}

func TestAdd_CollapseToZero(t *testing.T) {
	expr := symbolic.AddOf(symbolic.N(1), symbolic.N(-1))
	if symbolic.String(expr) != "0" {
		t.Errorf("want 0, got %s", symbolic.String(expr))
	}
}

func TestAdd_LikeTerms(t *testing.T) {
	expr := symbolic.AddOf(symbolic.S("x"), symbolic.S("x"))
	if symbolic.String(expr) != "2*x" {
		t.Errorf("want '2*x', got %s", symbolic.String(expr))
	}
}

func TestAdd_LikeCompositeTerms(t *testing.T) {
	s := symbolic.SinOf(symbolic.S("x"))
	expr := symbolic.AddOf(s, symbolic.MulOf(symbolic.N(-1), s))
	if symbolic.String(expr) != "0" {
		t.Errorf("sin(x) - sin(x) should be 0, got %s", symbolic.String(expr))
	}
}

func TestAdd_Diff(t *testing.T) {
	// d/dx(x^2 + 3x + 1) = 2x + 3
	x := symbolic.S("x")
	expr := symbolic.AddOf(symbolic.PowOf(x, symbolic.N(2)), symbolic.MulOf(symbolic.N(3), x), symbolic.N(1))
	d := symbolic.Diff(expr, "x")
	if symbolic.String(d) != "2*x + 3" {
		t.Errorf("want '2*x + 3', got %s", symbolic.String(d))
	}
}

func TestAdd_SingleTerm(t *testing.T) {
	expr := symbolic.AddOf(symbolic.N(5))
	if symbolic.String(expr) != "5" {
		t.Errorf("single-term Add should unwrap, got %s", symbolic.String(expr))
	}
}

// ============================================================
// Mul tests
// ============================================================

func TestMul_Simple(t *testing.T) {
	expr := symbolic.MulOf(symbolic.N(3), symbolic.S("x"))
	if symbolic.String(expr) != "3*x" {
		t.Errorf("want '3*x', got %s", symbolic.String(expr))
	}
}

func TestMul_Factors(t *testing.T) {
	m, ok := symbolic.MulOf(symbolic.S("y"), symbolic.N(3), symbolic.S("x")).(*symbolic.Mul)
	if !ok {
		t.Fatal("want a product")
	}
	if got := joined(m.Factors()); got != "3 x y" {
		t.Errorf("want '3 x y', got %s", got)
	}
}

func TestMul_ZeroCollapse(t *testing.T) {
	expr := symbolic.MulOf(symbolic.N(0), symbolic.S("x"))
	if symbolic.String(expr) != "0" {
		t.Errorf("0*x should be 0, got %s", symbolic.String(expr))
	}
}

func TestMul_OneElide(t *testing.T) {
	expr := symbolic.MulOf(symbolic.N(1), symbolic.S("x"))
	if symbolic.String(expr) != "x" {
		t.Errorf("1*x should be x, got %s", symbolic.String(expr))
	}
}

func TestMul_CombinePowers(t *testing.T) {
	x := symbolic.S("x")
	expr := symbolic.MulOf(x, x)
	if symbolic.String(expr) != "x^2" {
		t.Errorf("x*x should be x^2, got %s", symbolic.String(expr))
	}
	cancel := symbolic.MulOf(x, symbolic.PowOf(x, symbolic.N(-1)))
	if symbolic.String(cancel) != "1" {
		t.Errorf("x*x^-1 should be 1, got %s", symbolic.String(cancel))
	}
}

func TestMul_ProductRule(t *testing.T) {
	// d/dx(x * y) = y
	expr := symbolic.MulOf(symbolic.S("x"), symbolic.S("y"))
	d := symbolic.Diff(expr, "x")
	if symbolic.String(d) != "y" {
		t.Errorf("d/dx(x*y) should be y, got %s", symbolic.String(d))
	}
}

func TestCoeff(t *testing.T) {
	c, rest := symbolic.Coeff(symbolic.MulOf(symbolic.N(-2), symbolic.S("x")))
	if c.String() != "-2" || len(rest) != 1 || rest[0].String() != "x" {
		t.Errorf("want -2 and [x], got %s and %v", c, rest)
	}
}

// ============================================================
// Pow tests
// ============================================================

func TestPow_Simple(t *testing.T) {
	expr := symbolic.PowOf(symbolic.S("x"), symbolic.N(2))
	if symbolic.String(expr) != "x^2" {
		t.Errorf("want x^2, got %s", symbolic.String(expr))
	}
}

func TestPow_ZeroExp(t *testing.T) {
	expr := symbolic.PowOf(symbolic.S("x"), symbolic.N(0))
	if symbolic.String(expr) != "1" {
		t.Errorf("x^0 should be 1, got %s", symbolic.String(expr))
	}
}

func TestPow_OneExp(t *testing.T) {
	expr := symbolic.PowOf(symbolic.S("x"), symbolic.N(1))
	if symbolic.String(expr) != "x" {
		t.Errorf("x^1 should be x, got %s", symbolic.String(expr))
	}
}

func TestPow_NumericFold(t *testing.T) {
	expr := symbolic.PowOf(symbolic.N(2), symbolic.N(3))
	if symbolic.String(expr) != "8" {
		t.Errorf("2^3 should be 8, got %s", symbolic.String(expr))
	}
}

func TestPow_Diff_PowerRule(t *testing.T) {
	// d/dx(x^3) = 3*x^2
	expr := symbolic.PowOf(symbolic.S("x"), symbolic.N(3))
	d := symbolic.Diff(expr, "x")
	if symbolic.String(d) != "3*x^2" {
		t.Errorf("want 3*x^2, got %s", symbolic.String(d))
	}
}

func TestPow_LaTeX(t *testing.T) {
	expr := symbolic.PowOf(symbolic.S("x"), symbolic.N(2))
	if expr.LaTeX() != "x^{2}" {
		t.Errorf("want x^{2}, got %s", expr.LaTeX())
	}
}

// ============================================================
// Func tests
// ============================================================

func TestFunc_Sin_String(t *testing.T) {
	expr := symbolic.SinOf(symbolic.S("x"))
	if symbolic.String(expr) != "sin(x)" {
		t.Errorf("want sin(x), got %s", symbolic.String(expr))
	}
}

func TestFunc_Sin_Diff(t *testing.T) {
	d := symbolic.Diff(symbolic.SinOf(symbolic.S("x")), "x")
	if symbolic.String(d) != "cos(x)" {
		t.Errorf("d/dx(sin(x)) should be cos(x), got %s", symbolic.String(d))
	}
}

func TestFunc_Cos_Diff(t *testing.T) {
	d := symbolic.Diff(symbolic.CosOf(symbolic.S("x")), "x")
	if symbolic.String(d) != "-1*sin(x)" {
		t.Errorf("d/dx(cos(x)) should be -1*sin(x), got %s", symbolic.String(d))
	}
}

func TestFunc_Abs_Diff(t *testing.T) {
	d := symbolic.Diff(symbolic.AbsOf(symbolic.S("x")), "x")
	if symbolic.String(d) != "sign(x)" {
		t.Errorf("d/dx(abs(x)) should be sign(x), got %s", symbolic.String(d))
	}
}

func TestFunc_Unknown_Diff(t *testing.T) {
	d := symbolic.Diff(symbolic.FuncOf("f", symbolic.S("x")), "x")
	if symbolic.String(d) != "D[f](x)" {
		t.Errorf("want D[f](x), got %s", symbolic.String(d))
	}
}

func TestFunc_NumericFold(t *testing.T) {
	expr := symbolic.SinOf(symbolic.N(0))
	if symbolic.String(expr) != "0" {
		t.Errorf("sin(0) should fold to 0, got %s", symbolic.String(expr))
	}
}

func TestFunc_LaTeX_Sin(t *testing.T) {
	l := symbolic.SinOf(symbolic.S("x")).LaTeX()
	if !strings.Contains(l, `\sin`) {
		t.Errorf("LaTeX for sin should contain \\sin, got %s", l)
	}
}

// ============================================================
// Substitution tests
// ============================================================

func TestSubs_Simultaneous(t *testing.T) {
	x, y := symbolic.S("x"), symbolic.S("y")
	expr := symbolic.AddOf(x, symbolic.MulOf(symbolic.N(2), y))
	got := symbolic.Subs(expr, symbolic.Substitution{"x": y, "y": x})
	if symbolic.String(got) != "2*x + y" {
		t.Errorf("want '2*x + y', got %s", symbolic.String(got))
	}
}

func TestSubs_Fold(t *testing.T) {
	expr := symbolic.AddOf(symbolic.S("a"), symbolic.S("b"))
	got := symbolic.Subs(expr, symbolic.Substitution{"a": symbolic.N(1), "b": symbolic.N(2)})
	if symbolic.String(got) != "3" {
		t.Errorf("want 3, got %s", symbolic.String(got))
	}
}

// ============================================================
// TimeFunc tests
// ============================================================

func TestTimeFunc_Key(t *testing.T) {
	q := symbolic.TF("q")
	if q.Key() != "q(t)" {
		t.Errorf("want q(t), got %s", q.Key())
	}
	if q.Derivative(2).Key() != "q''(t)" {
		t.Errorf("want q''(t), got %s", q.Derivative(2).Key())
	}
}

func TestTimeFunc_LaTeX(t *testing.T) {
	q := symbolic.TF("q")
	cases := map[int]string{0: "q", 1: `\dot{q}`, 2: `\ddot{q}`, 3: "q^{(3)}"}
	for order, want := range cases {
		if got := q.Derivative(order).LaTeX(); got != want {
			t.Errorf("order %d: want %s, got %s", order, want, got)
		}
	}
}

func TestDiffN(t *testing.T) {
	d := symbolic.DiffN(symbolic.PowOf(symbolic.S("x"), symbolic.N(3)), "x", 2)
	if symbolic.String(d) != "6*x" {
		t.Errorf("want 6*x, got %s", symbolic.String(d))
	}
}

func TestDiffT_Leaf(t *testing.T) {
	d := symbolic.DiffT(symbolic.TF("q"))
	if symbolic.String(d) != "q'(t)" {
		t.Errorf("want q'(t), got %s", symbolic.String(d))
	}
}

func TestDiffT_ChainRule(t *testing.T) {
	d := symbolic.DiffT(symbolic.SinOf(symbolic.TF("q")))
	if symbolic.String(d) != "cos(q(t))*q'(t)" {
		t.Errorf("want cos(q(t))*q'(t), got %s", symbolic.String(d))
	}
}

func TestDiffT_StaticSymbolIsConstant(t *testing.T) {
	d := symbolic.DiffT(symbolic.MulOf(symbolic.S("m"), symbolic.TF("q")))
	if symbolic.String(d) != "m*q'(t)" {
		t.Errorf("want m*q'(t), got %s", symbolic.String(d))
	}
}

func TestTimeFunc_DiffByKey(t *testing.T) {
	q := symbolic.TF("q")
	d := symbolic.Diff(symbolic.PowOf(q, symbolic.N(2)), q.Key())
	if symbolic.String(d) != "2*q(t)" {
		t.Errorf("want 2*q(t), got %s", symbolic.String(d))
	}
}

// ============================================================
// FreeLeaves tests
// ============================================================

func TestFreeLeaves_FirstSeenOrder(t *testing.T) {
	expr := symbolic.AddOf(symbolic.S("b"), symbolic.MulOf(symbolic.S("a"), symbolic.SinOf(symbolic.S("c"))))
	leaves := symbolic.FreeLeaves(expr, symbolic.S("a"), symbolic.TF("q"))
	var keys []string
	for _, l := range leaves {
		keys = append(keys, l.Key())
	}
	if strings.Join(keys, ",") != "b,a,c,q(t)" {
		t.Errorf("want b,a,c,q(t), got %s", strings.Join(keys, ","))
	}
}

func TestFreeLeaves_Constant(t *testing.T) {
	if leaves := symbolic.FreeLeaves(symbolic.N(5)); len(leaves) != 0 {
		t.Errorf("constant should have no free leaves, got %d", len(leaves))
	}
}

func TestContains(t *testing.T) {
	expr := symbolic.CosOf(symbolic.AddOf(symbolic.S("x"), symbolic.N(1)))
	if !symbolic.Contains(expr, "x") || symbolic.Contains(expr, "y") {
		t.Error("Contains should find x and not y")
	}
}
