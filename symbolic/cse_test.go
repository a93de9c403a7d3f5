package symbolic_test

import (
	"testing"

	"github.com/njchilds90/symgen/symbolic"
)

func rotation() *symbolic.Matrix {
	a := symbolic.AddOf(symbolic.S("q1"), symbolic.S("q2"))
	c, s := symbolic.CosOf(a), symbolic.SinOf(a)
	return symbolic.RowsOf(
		[]symbolic.Expr{c, symbolic.MulOf(symbolic.N(-1), s), symbolic.N(0)},
		[]symbolic.Expr{s, c, symbolic.N(0)},
		[]symbolic.Expr{symbolic.N(0), symbolic.N(0), symbolic.N(1)},
	)
}

func TestCSE_Rotation(t *testing.T) {
	reps, reduced := symbolic.CSE(rotation().Vec())
	want := []string{"x0 = q1 + q2", "x1 = cos(x0)", "x2 = sin(x0)"}
	if len(reps) != len(want) {
		t.Fatalf("want %d replacements, got %d", len(want), len(reps))
	}
	for i, r := range reps {
		if got := r.Sym.String() + " = " + r.Expr.String(); got != want[i] {
			t.Errorf("replacement %d: want %s, got %s", i, want[i], got)
		}
	}
	if got := joined(reduced); got != "x1 x2 0 -1*x2 x1 0 0 0 1" {
		t.Errorf("unexpected reduced expressions %s", got)
	}
}

func TestCSE_NothingShared(t *testing.T) {
	reps, reduced := symbolic.CSE([]symbolic.Expr{symbolic.AddOf(symbolic.S("q1"), symbolic.S("q2"))})
	if len(reps) != 0 {
		t.Errorf("want no replacements, got %d", len(reps))
	}
	if reduced[0].String() != "q1 + q2" {
		t.Errorf("want q1 + q2, got %s", reduced[0])
	}
}

func TestCSE_NegatedLeafIsNotExtracted(t *testing.T) {
	neg := symbolic.MulOf(symbolic.N(-1), symbolic.S("a"))
	reps, _ := symbolic.CSE([]symbolic.Expr{neg, neg})
	if len(reps) != 0 {
		t.Errorf("-a should not become a temporary, got %d replacements", len(reps))
	}
}

func TestCSE_SkipsTakenNames(t *testing.T) {
	a := symbolic.AddOf(symbolic.S("x0"), symbolic.S("y"))
	reps, _ := symbolic.CSE([]symbolic.Expr{symbolic.CosOf(a), symbolic.SinOf(a)}, symbolic.WithReserved("x1"))
	if len(reps) != 1 || reps[0].Sym.Name() != "x2" {
		t.Fatalf("want a single temporary x2, got %v", reps)
	}
}

func TestCSE_Prefix(t *testing.T) {
	a := symbolic.AddOf(symbolic.S("p"), symbolic.S("q"))
	reps, _ := symbolic.CSE([]symbolic.Expr{symbolic.CosOf(a), symbolic.SinOf(a)}, symbolic.WithPrefix("tmp"))
	if len(reps) != 1 || reps[0].Sym.Name() != "tmp0" {
		t.Fatalf("want a single temporary tmp0, got %v", reps)
	}
}

func TestCSE_Nested(t *testing.T) {
	// (a+b)^2 appears twice and contains a+b, which appears once more.
	x := symbolic.AddOf(symbolic.S("a"), symbolic.S("b"))
	sq := symbolic.PowOf(x, symbolic.N(2))
	reps, reduced := symbolic.CSE([]symbolic.Expr{sq, symbolic.SinOf(sq), symbolic.CosOf(x)})
	if len(reps) != 2 {
		t.Fatalf("want 2 replacements, got %d", len(reps))
	}
	if reps[0].Expr.String() != "a + b" || reps[1].Expr.String() != "x0^2" {
		t.Errorf("unexpected replacements %s, %s", reps[0].Expr, reps[1].Expr)
	}
	if joined(reduced) != "x1 sin(x1) cos(x0)" {
		t.Errorf("unexpected reduced expressions %s", joined(reduced))
	}
}
