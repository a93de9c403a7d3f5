package model

import (
	"fmt"
	"math/big"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/njchilds90/symgen/symbolic"
)

// functions maps the one-argument functions a model may call. pow is
// handled separately because HCL has no power operator.
var functions = map[string]func(symbolic.Expr) symbolic.Expr{
	"sin":   symbolic.SinOf,
	"cos":   symbolic.CosOf,
	"tan":   symbolic.TanOf,
	"asin":  symbolic.AsinOf,
	"acos":  symbolic.AcosOf,
	"atan":  symbolic.AtanOf,
	"sinh":  symbolic.SinhOf,
	"cosh":  symbolic.CoshOf,
	"tanh":  symbolic.TanhOf,
	"exp":   symbolic.ExpOf,
	"ln":    symbolic.LnOf,
	"log":   symbolic.LnOf,
	"sqrt":  symbolic.SqrtOf,
	"abs":   symbolic.AbsOf,
	"sign":  symbolic.SignOf,
	"floor": symbolic.FloorOf,
	"ceil":  symbolic.CeilOf,
}

// scope resolves the variable names of model expressions to symbols.
type scope map[string]symbolic.Expr

// translate turns an HCL expression tree into a symbolic expression.
// Only arithmetic on numbers, declared symbols and known functions is
// accepted.
func (s scope) translate(e hclsyntax.Expression) (symbolic.Expr, error) {
	switch e := e.(type) {
	case *hclsyntax.LiteralValueExpr:
		return number(e.Val, e.SrcRange)
	case *hclsyntax.ScopeTraversalExpr:
		if len(e.Traversal) != 1 {
			return nil, fmt.Errorf("%w: %s: only plain symbol names can be referenced", ErrModel, e.SrcRange)
		}
		name := e.Traversal.RootName()
		v, ok := s[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s: unknown symbol %q", ErrModel, e.SrcRange, name)
		}
		return v, nil
	case *hclsyntax.ParenthesesExpr:
		return s.translate(e.Expression)
	case *hclsyntax.TemplateWrapExpr:
		return s.translate(e.Wrapped)
	case *hclsyntax.UnaryOpExpr:
		v, err := s.translate(e.Val)
		if err != nil {
			return nil, err
		}
		if e.Op != hclsyntax.OpNegate {
			return nil, fmt.Errorf("%w: %s: unsupported unary operator", ErrModel, e.SrcRange)
		}
		return symbolic.MulOf(symbolic.N(-1), v), nil
	case *hclsyntax.BinaryOpExpr:
		return s.binary(e)
	case *hclsyntax.FunctionCallExpr:
		return s.call(e)
	}
	return nil, fmt.Errorf("%w: %s: unsupported expression", ErrModel, e.Range())
}

func (s scope) binary(e *hclsyntax.BinaryOpExpr) (symbolic.Expr, error) {
	lhs, err := s.translate(e.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := s.translate(e.RHS)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case hclsyntax.OpAdd:
		return symbolic.AddOf(lhs, rhs), nil
	case hclsyntax.OpSubtract:
		return symbolic.AddOf(lhs, symbolic.MulOf(symbolic.N(-1), rhs)), nil
	case hclsyntax.OpMultiply:
		return symbolic.MulOf(lhs, rhs), nil
	case hclsyntax.OpDivide:
		if n, ok := rhs.(*symbolic.Num); ok && n.IsZero() {
			return nil, fmt.Errorf("%w: %s: division by zero", ErrModel, e.SrcRange)
		}
		return symbolic.MulOf(lhs, symbolic.PowOf(rhs, symbolic.N(-1))), nil
	}
	return nil, fmt.Errorf("%w: %s: unsupported operator", ErrModel, e.SrcRange)
}

func (s scope) call(e *hclsyntax.FunctionCallExpr) (symbolic.Expr, error) {
	if e.ExpandFinal {
		return nil, fmt.Errorf("%w: %s: argument expansion is not supported", ErrModel, e.NameRange)
	}
	args := make([]symbolic.Expr, len(e.Args))
	for i, a := range e.Args {
		v, err := s.translate(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	if e.Name == "pow" {
		if len(args) != 2 {
			return nil, fmt.Errorf("%w: %s: pow takes 2 arguments, got %d", ErrModel, e.NameRange, len(args))
		}
		return symbolic.PowOf(args[0], args[1]), nil
	}
	f, ok := functions[e.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %s: unknown function %q", ErrModel, e.NameRange, e.Name)
	}
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: %s: %s takes 1 argument, got %d", ErrModel, e.NameRange, e.Name, len(args))
	}
	return f(args[0]), nil
}

// number converts a cty number exactly: 9.81 becomes 981/100, not the
// nearest binary fraction.
func number(v cty.Value, rng hcl.Range) (symbolic.Expr, error) {
	if v.IsNull() || !v.IsKnown() || v.Type() != cty.Number {
		return nil, fmt.Errorf("%w: %s: expected a number, got %s", ErrModel, rng, v.Type().FriendlyName())
	}
	bf := v.AsBigFloat()
	if bf.IsInf() {
		return nil, fmt.Errorf("%w: %s: number is infinite", ErrModel, rng)
	}
	r, ok := new(big.Rat).SetString(bf.Text('g', -1))
	if !ok {
		return nil, fmt.Errorf("%w: %s: cannot represent %s", ErrModel, rng, bf.Text('g', -1))
	}
	return symbolic.NRat(r), nil
}

// translateAll translates a list of expressions into a column vector.
func (s scope) translateAll(es []hclsyntax.Expression) (*symbolic.Matrix, error) {
	out := make([]symbolic.Expr, len(es))
	for i, e := range es {
		v, err := s.translate(e)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return symbolic.Column(out...), nil
}

// parseExpression reads a single expression from source text, the way
// YAML models carry them.
func parseExpression(src, filename string) (hclsyntax.Expression, error) {
	e, diags := hclsyntax.ParseExpression([]byte(src), filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse expression %q: %w", src, diags)
	}
	return e, nil
}
