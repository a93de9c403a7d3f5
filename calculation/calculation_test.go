package calculation_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/symgen/calculation"
	"github.com/njchilds90/symgen/symbolic"
)

func keys(ls []symbolic.Leaf) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.Key()
	}
	return out
}

func syms(names ...string) []symbolic.Expr {
	out := make([]symbolic.Expr, len(names))
	for i, n := range names {
		out[i] = symbolic.S(n)
	}
	return out
}

func TestNew_IsEmpty(t *testing.T) {
	c := calculation.New()
	assert.Empty(t, c.Inputs())
	assert.Empty(t, c.Outputs())
	assert.Empty(t, c.Groups())
	assert.Equal(t, 0, c.Len())
}

func TestAddCalculation_Simple(t *testing.T) {
	c := calculation.New()
	in1 := symbolic.S("input1")
	require.NoError(t, c.AddCalculation(calculation.ScalarOf(symbolic.S("output1")), calculation.ScalarOf(symbolic.SinOf(in1)), false))

	assert.Equal(t, []string{"output1"}, keys(c.Outputs()))
	assert.Equal(t, []string{"input1"}, keys(c.Inputs()))
	groups := c.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, "[[output1]]", groups[0].Target.String())
	assert.Equal(t, "[[sin(input1)]]", groups[0].Expr.String())
}

func TestAddCalculation_Vector(t *testing.T) {
	c := calculation.New()
	ins := syms("in1", "in2")
	require.NoError(t, c.AddCalculation(
		calculation.VectorOf(syms("out1", "out2")...),
		calculation.VectorOf(symbolic.SinOf(ins[0]), symbolic.SinOf(ins[1])),
		false,
	))
	assert.Equal(t, []string{"out1", "out2"}, keys(c.Outputs()))
	assert.Equal(t, []string{"in1", "in2"}, keys(c.Inputs()))
}

func outerProduct() (*symbolic.Matrix, *symbolic.Matrix) {
	s := symbolic.Column(
		symbolic.SinOf(symbolic.S("in1")),
		symbolic.SinOf(symbolic.S("in2")),
		symbolic.SinOf(symbolic.S("in3")),
	)
	outs := symbolic.MatrixFromSlice(3, 3, syms("out1", "out2", "out3", "out4", "out5", "out6", "out7", "out8", "out9"))
	return outs, s.MatMul(s.Transpose())
}

func TestAddCalculation_Matrix(t *testing.T) {
	c := calculation.New()
	outs, mat := outerProduct()
	require.NoError(t, c.AddCalculation(calculation.MatrixOf(outs), calculation.MatrixOf(mat), false))

	assert.Equal(t, []string{"out1", "out2", "out3", "out4", "out5", "out6", "out7", "out8", "out9"}, keys(c.Outputs()))
	assert.Equal(t, []string{"in1", "in2", "in3"}, keys(c.Inputs()))
	assert.Equal(t, 9, c.Len())
}

func TestAddCalculation_ShapeMismatch(t *testing.T) {
	c := calculation.New()
	v := syms("var1", "var2")
	err := c.AddCalculation(calculation.VectorOf(v...), calculation.MatrixOf(symbolic.MatrixFromSlice(1, 1, []symbolic.Expr{symbolic.SinOf(v[0])})), false)
	require.ErrorIs(t, err, calculation.ErrShape)
	assert.Empty(t, c.Outputs(), "a rejected group must not register anything")
	assert.Empty(t, c.Inputs())
}

func TestAddCalculation_MatrixTargetScalarExpr(t *testing.T) {
	c := calculation.New()
	v := syms("var1", "var2")
	err := c.AddCalculation(calculation.VectorOf(v...), calculation.ScalarOf(symbolic.SinOf(v[0])), false)
	require.ErrorIs(t, err, calculation.ErrType)
	assert.Empty(t, c.Outputs())
	assert.Empty(t, c.Groups())
}

func TestAddCalculation_TargetMustBeSymbols(t *testing.T) {
	c := calculation.New()
	err := c.AddCalculation(calculation.ScalarOf(symbolic.N(1)), calculation.ScalarOf(symbolic.S("a")), false)
	require.ErrorIs(t, err, calculation.ErrType)

	err = c.AddCalculation(calculation.Value{}, calculation.ScalarOf(symbolic.S("a")), false)
	require.ErrorIs(t, err, calculation.ErrType)
}

func TestAddCalculation_MatrixInputAlias(t *testing.T) {
	c := calculation.New()
	q := syms("q1", "q2")
	require.NoError(t, c.AddCalculation(calculation.VectorOf(q...), calculation.ScalarOf(symbolic.S("x")), true))
	assert.Equal(t, []string{"q1", "q2"}, keys(c.Outputs()))
	assert.Equal(t, []string{"x"}, keys(c.Inputs()))

	err := c.AddCalculation(calculation.VectorOf(q...), calculation.ScalarOf(symbolic.AddOf(q...)), true)
	require.ErrorIs(t, err, calculation.ErrType, "a block alias must be a single symbol")
}

func TestAddCalculation_AliasOfDefinedNameIsRejected(t *testing.T) {
	c := calculation.New()
	require.NoError(t, c.AddCalculation(calculation.ScalarOf(symbolic.S("x")), calculation.ScalarOf(symbolic.AddOf(syms("q1", "q2")...)), false))

	err := c.AddCalculation(calculation.VectorOf(syms("a", "b")...), calculation.ScalarOf(symbolic.S("x")), true)
	require.ErrorIs(t, err, calculation.ErrType)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, []string{"x"}, keys(c.Outputs()))
	assert.Equal(t, []string{"q1", "q2"}, keys(c.Inputs()))
}

func TestAddCalculation_ScalarNamesMatrix(t *testing.T) {
	c := calculation.New()
	_, mat := outerProduct()
	require.NoError(t, c.AddCalculation(calculation.ScalarOf(symbolic.S("R")), calculation.MatrixOf(mat), false))
	slots, _ := c.ShapeIndexList()
	assert.Equal(t, []calculation.Slot{{Start: 0, End: 9, Rows: 3, Cols: 3}}, slots)
}

func TestAddCalculation_BackSubstitution(t *testing.T) {
	c := calculation.New()
	a, b, y := symbolic.S("a"), symbolic.S("b"), symbolic.S("y")
	require.NoError(t, c.AddCalculation(calculation.ScalarOf(a), calculation.ScalarOf(symbolic.PowOf(b, symbolic.N(2))), false))
	require.NoError(t, c.AddCalculation(calculation.ScalarOf(y), calculation.ScalarOf(symbolic.AddOf(a, symbolic.N(1))), false))

	assert.Equal(t, "[[b^2 + 1]]", c.Groups()[1].Expr.String())
	assert.Equal(t, []string{"a", "y"}, keys(c.Outputs()))
	assert.Equal(t, []string{"b"}, keys(c.Inputs()))
}

func TestAddCalculation_LatestDefinitionWins(t *testing.T) {
	var buf bytes.Buffer
	c := calculation.New(calculation.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	a, b := symbolic.S("a"), symbolic.S("b")
	require.NoError(t, c.AddCalculation(calculation.ScalarOf(a), calculation.ScalarOf(b), false))
	require.NoError(t, c.AddCalculation(calculation.ScalarOf(a), calculation.ScalarOf(symbolic.MulOf(symbolic.N(2), a)), false))
	require.NoError(t, c.AddCalculation(calculation.ScalarOf(symbolic.S("y")), calculation.ScalarOf(a), false))

	assert.Equal(t, "[[2*b]]", c.Groups()[1].Expr.String())
	assert.Equal(t, "[[2*b]]", c.Groups()[2].Expr.String())
	assert.Equal(t, []string{"a", "y"}, keys(c.Outputs()), "redefinition must not duplicate the output")
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "output=a")
}

func TestAddCalculation_TimeIsNeverAnOutputOrInput(t *testing.T) {
	c := calculation.New()
	q := symbolic.TF("q")
	require.NoError(t, c.AddCalculation(
		calculation.VectorOf(symbolic.Time, symbolic.S("v")),
		calculation.VectorOf(symbolic.Time, symbolic.MulOf(symbolic.Time, q)),
		false,
	))
	assert.Equal(t, []string{"v"}, keys(c.Outputs()))
	assert.Equal(t, []string{"q(t)"}, keys(c.Inputs()))
}

func TestShapeIndexList(t *testing.T) {
	c := calculation.New()
	outs, mat := outerProduct()
	col := symbolic.Column(outs.Get(0, 0), outs.Get(1, 0), outs.Get(2, 0))
	sines := symbolic.Column(
		symbolic.SinOf(symbolic.S("in1")),
		symbolic.SinOf(symbolic.S("in2")),
		symbolic.SinOf(symbolic.S("in3")),
	)
	require.NoError(t, c.AddCalculation(calculation.ScalarOf(outs.Get(0, 0)), calculation.ScalarOf(sines.At(0)), false))
	require.NoError(t, c.AddCalculation(calculation.MatrixOf(col), calculation.MatrixOf(sines), false))
	require.NoError(t, c.AddCalculation(calculation.MatrixOf(outs), calculation.MatrixOf(mat), false))

	assert.Len(t, c.Outputs(), 9)
	assert.Equal(t, []string{"in1", "in2", "in3"}, keys(c.Inputs()))

	slots, vec := c.ShapeIndexList()
	assert.Equal(t, []calculation.Slot{
		{Start: 0, End: 1, Rows: 1, Cols: 1},
		{Start: 1, End: 4, Rows: 3, Cols: 1},
		{Start: 4, End: 13, Rows: 3, Cols: 3},
	}, slots)

	want := symbolic.Column(sines.At(0)).ColJoin(sines).ColJoin(mat.Reshape(9, 1))
	assert.True(t, want.Equal(vec), "want %s, got %s", want, vec)
	assert.Equal(t, 13, c.Len())
}

func TestAppend(t *testing.T) {
	v := syms("var1", "var2", "var3", "var4")
	c := calculation.New()
	require.NoError(t, c.AddCalculation(calculation.ScalarOf(v[0]), calculation.ScalarOf(symbolic.PowOf(v[1], symbolic.N(2))), false))
	c2 := calculation.New()
	require.NoError(t, c2.AddCalculation(calculation.ScalarOf(v[2]), calculation.ScalarOf(symbolic.PowOf(v[3], symbolic.N(2))), false))

	got, err := c.Append(c2)
	require.NoError(t, err)
	assert.Same(t, c, got)
	assert.Equal(t, []string{"var1", "var3"}, keys(c.Outputs()))
	assert.Equal(t, []string{"var2", "var4"}, keys(c.Inputs()))
	groups := c.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, "[[var4^2]]", groups[1].Expr.String())
}

func TestAppend_ResolvesAgainstReceiver(t *testing.T) {
	a, b := symbolic.S("a"), symbolic.S("b")
	c := calculation.New()
	require.NoError(t, c.AddCalculation(calculation.ScalarOf(a), calculation.ScalarOf(symbolic.CosOf(b)), false))
	c2 := calculation.New()
	require.NoError(t, c2.AddCalculation(calculation.VectorOf(symbolic.S("y1"), symbolic.S("y2")), calculation.VectorOf(a, b), false))

	_, err := c.Append(c2)
	require.NoError(t, err)
	assert.Equal(t, "[[cos(b)], [b]]", c.Groups()[1].Expr.String())
	assert.Equal(t, []string{"b"}, keys(c.Inputs()))
}

func TestAppend_FailureLeavesReceiverUnchanged(t *testing.T) {
	c := calculation.New()
	require.NoError(t, c.AddCalculation(calculation.ScalarOf(symbolic.S("y")), calculation.ScalarOf(symbolic.SinOf(symbolic.S("q1"))), false))
	other := calculation.New()
	require.NoError(t, other.AddCalculation(calculation.ScalarOf(symbolic.S("z")), calculation.ScalarOf(symbolic.S("q2")), false))
	require.NoError(t, other.AddCalculation(calculation.VectorOf(syms("a", "b")...), calculation.ScalarOf(symbolic.S("y")), true))

	got, err := c.Append(other)
	require.ErrorIs(t, err, calculation.ErrType)
	assert.Same(t, c, got)
	require.Len(t, c.Groups(), 1)
	assert.Equal(t, []string{"y"}, keys(c.Outputs()))
	assert.Equal(t, []string{"q1"}, keys(c.Inputs()))
}

func TestAppend_Nil(t *testing.T) {
	_, err := calculation.New().Append(nil)
	require.ErrorIs(t, err, calculation.ErrType)
}

func TestSubs_RenamesEverything(t *testing.T) {
	c := calculation.New()
	q1, q2 := symbolic.S("q1"), symbolic.S("q2")
	require.NoError(t, c.AddCalculation(calculation.ScalarOf(symbolic.S("y")), calculation.ScalarOf(symbolic.AddOf(q1, q2)), false))

	c.Subs(symbolic.Substitution{"q1": symbolic.S("x(1)"), "q2": symbolic.S("x(2)"), "y": symbolic.S("sys")})
	assert.Equal(t, []string{"x(1)", "x(2)"}, keys(c.Inputs()))
	assert.Equal(t, []string{"sys"}, keys(c.Outputs()))
	assert.Equal(t, "[[x(1) + x(2)]]", c.Groups()[0].Expr.String())
}

func TestSubs_NumericInputDisappears(t *testing.T) {
	c := calculation.New()
	require.NoError(t, c.AddCalculation(calculation.ScalarOf(symbolic.S("y")), calculation.ScalarOf(symbolic.MulOf(symbolic.S("k"), symbolic.S("q"))), false))
	c.Subs(symbolic.Substitution{"k": symbolic.N(2)})
	assert.Equal(t, []string{"q"}, keys(c.Inputs()))
}

func TestClone_IsIndependent(t *testing.T) {
	c := calculation.New()
	require.NoError(t, c.AddCalculation(calculation.ScalarOf(symbolic.S("y")), calculation.ScalarOf(symbolic.S("q")), false))
	cl := c.Clone()
	cl.Subs(symbolic.Substitution{"q": symbolic.S("u(1)")})
	assert.Equal(t, []string{"q"}, keys(c.Inputs()))
	assert.Equal(t, []string{"u(1)"}, keys(cl.Inputs()))
}

func TestResolve(t *testing.T) {
	c := calculation.New()
	require.NoError(t, c.AddCalculation(calculation.ScalarOf(symbolic.S("w")), calculation.ScalarOf(symbolic.S("q")), false))
	got := c.Resolve(symbolic.SinOf(symbolic.S("w")))
	assert.Equal(t, "sin(q)", got.String())
}

func TestValue_Kinds(t *testing.T) {
	assert.Equal(t, calculation.Scalar, calculation.ScalarOf(symbolic.S("a")).Kind())
	assert.Equal(t, calculation.Vector, calculation.VectorOf(syms("a", "b")...).Kind())
	assert.Equal(t, calculation.Vector, calculation.MatrixOf(symbolic.Column(syms("a", "b")...)).Kind())
	m := calculation.MatrixOf(symbolic.MatrixFromSlice(1, 2, syms("a", "b")))
	assert.Equal(t, calculation.Matrix, m.Kind())
	r, cols := m.Shape()
	assert.Equal(t, [2]int{1, 2}, [2]int{r, cols})
	assert.True(t, strings.HasPrefix(calculation.Matrix.String(), "matrix"))
}
