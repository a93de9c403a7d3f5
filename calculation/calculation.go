// Package calculation tracks ordered assignments of symbolic expressions to
// named targets, together with the symbols they consume and produce.
//
// A Calculation only grows. Every new right-hand side is resolved against
// the groups already stored, so a stored expression never refers to an
// earlier target: it holds that target's value at definition time.
package calculation

import (
	"fmt"
	"log/slog"

	"github.com/njchilds90/symgen/symbolic"
)

// Group is one stored assignment. Target holds symbolic leaves; Expr holds
// the resolved right-hand side in its original shape.
type Group struct {
	Target *symbolic.Matrix
	Expr   *symbolic.Matrix
}

// Slot locates a group inside the concatenated vector built by
// ShapeIndexList. Start and End are a half-open range.
type Slot struct {
	Start, End int
	Rows, Cols int
}

type Calculation struct {
	groups  []Group
	outputs []symbolic.Leaf
	inputs  []symbolic.Leaf
	logger  *slog.Logger
}

type Option func(*Calculation)

// WithLogger sets the logger used for redefinition warnings.
func WithLogger(l *slog.Logger) Option {
	return func(c *Calculation) { c.logger = l }
}

// New returns an empty Calculation.
func New(opts ...Option) *Calculation {
	c := &Calculation{logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddCalculation stores target = expr.
//
// A vector or matrix target needs an expression with the same number of
// elements. With matrixInput set, a vector or matrix target may instead be
// paired with a single symbol that names the whole block, and a scalar
// target may name a whole matrix expression. Validation happens before
// anything is recorded.
func (c *Calculation) AddCalculation(target, expr Value, matrixInput bool) error {
	if !target.valid() {
		return fmt.Errorf("%w: target is empty", ErrType)
	}
	if !expr.valid() {
		return fmt.Errorf("%w: expression is empty", ErrType)
	}
	leaves := make([]symbolic.Leaf, 0, target.Len())
	for _, e := range target.m.Elements() {
		l, ok := e.(symbolic.Leaf)
		if !ok {
			return fmt.Errorf("%w: target element %s is not a symbol", ErrType, e)
		}
		leaves = append(leaves, l)
	}
	resolved := expr.m.ApplySubs(c.Substitution())
	switch {
	case target.kind != Scalar && expr.kind == Scalar && !matrixInput:
		return fmt.Errorf("%w: %s target %s needs a vector or matrix expression, got scalar %s",
			ErrType, target.kind, target, expr)
	case target.kind != Scalar && expr.kind == Scalar:
		// The alias must still be a symbol once earlier targets are
		// substituted into it.
		if _, ok := resolved.Get(0, 0).(symbolic.Leaf); !ok {
			return fmt.Errorf("%w: matrix input %s must be named by a symbol, got %s", ErrType, target, resolved)
		}
	case target.kind != Scalar && target.Len() != expr.Len():
		er, ec := expr.Shape()
		tr, tc := target.Shape()
		return fmt.Errorf("%w: target %s is %dx%d but expression is %dx%d", ErrShape, target, tr, tc, er, ec)
	}

	for _, l := range leaves {
		c.addOutput(l)
	}
	for _, l := range symbolic.FreeLeaves(resolved.Vec()...) {
		c.addInput(l)
	}
	c.groups = append(c.groups, Group{Target: target.m.Clone(), Expr: resolved})
	return nil
}

func (c *Calculation) addOutput(l symbolic.Leaf) {
	if l.Key() == symbolic.TimeKey {
		return
	}
	if indexOf(c.outputs, l.Key()) >= 0 {
		c.logger.Warn("Output is already defined and will be overwritten", "output", l.Key())
		return
	}
	c.outputs = append(c.outputs, l)
}

func (c *Calculation) addInput(l symbolic.Leaf) {
	if l.Key() == symbolic.TimeKey || indexOf(c.outputs, l.Key()) >= 0 || indexOf(c.inputs, l.Key()) >= 0 {
		return
	}
	c.inputs = append(c.inputs, l)
}

func indexOf(ls []symbolic.Leaf, key string) int {
	for i, l := range ls {
		if l.Key() == key {
			return i
		}
	}
	return -1
}

// Substitution maps every stored target leaf to its latest value. Groups
// that alias a block under one name do not take part.
func (c *Calculation) Substitution() symbolic.Substitution {
	s := symbolic.Substitution{}
	for _, g := range c.groups {
		if g.Target.Len() != g.Expr.Len() {
			continue
		}
		ts, es := g.Target.Vec(), g.Expr.Vec()
		for i, t := range ts {
			if l, ok := t.(symbolic.Leaf); ok {
				s[l.Key()] = es[i]
			}
		}
	}
	return s
}

// Resolve rewrites e in terms of this calculation's inputs.
func (c *Calculation) Resolve(e symbolic.Expr) symbolic.Expr {
	return symbolic.Subs(e, c.Substitution())
}

// Append replays every group of other into c, one AddCalculation per
// group, and returns c. Either every group is added or c is left as it
// was.
func (c *Calculation) Append(other *Calculation) (*Calculation, error) {
	if other == nil {
		return c, fmt.Errorf("%w: cannot append a nil calculation", ErrType)
	}
	next := c.Clone()
	for i, g := range other.groups {
		target, expr := MatrixOf(g.Target), MatrixOf(g.Expr)
		if g.Target.Len() == 1 {
			target = ScalarOf(g.Target.At(0))
		}
		if g.Expr.Len() == 1 {
			expr = ScalarOf(g.Expr.At(0))
		}
		if err := next.AddCalculation(target, expr, true); err != nil {
			return c, fmt.Errorf("appending group %d: %w", i, err)
		}
	}
	*c = *next
	return c, nil
}

// Subs rewrites targets, expressions, inputs and outputs under s. It is how
// symbols get their positional names before rendering.
func (c *Calculation) Subs(s symbolic.Substitution) {
	for i := range c.groups {
		c.groups[i].Target = c.groups[i].Target.ApplySubs(s)
		c.groups[i].Expr = c.groups[i].Expr.ApplySubs(s)
	}
	c.inputs = subsLeaves(c.inputs, s)
	c.outputs = subsLeaves(c.outputs, s)
}

// subsLeaves keeps leaf results and replaces anything else by its own free
// leaves.
func subsLeaves(ls []symbolic.Leaf, s symbolic.Substitution) []symbolic.Leaf {
	out := make([]symbolic.Leaf, 0, len(ls))
	add := func(l symbolic.Leaf) {
		if indexOf(out, l.Key()) < 0 {
			out = append(out, l)
		}
	}
	for _, l := range ls {
		r := symbolic.Subs(l, s)
		if rl, ok := r.(symbolic.Leaf); ok {
			add(rl)
			continue
		}
		for _, fl := range symbolic.FreeLeaves(r) {
			add(fl)
		}
	}
	return out
}

// ShapeIndexList flattens every group column-major into one column vector
// and reports where each group lives in it.
func (c *Calculation) ShapeIndexList() ([]Slot, *symbolic.Matrix) {
	slots := make([]Slot, 0, len(c.groups))
	var all []symbolic.Expr
	for _, g := range c.groups {
		start := len(all)
		all = append(all, g.Expr.Vec()...)
		slots = append(slots, Slot{Start: start, End: len(all), Rows: g.Expr.Rows(), Cols: g.Expr.Cols()})
	}
	return slots, symbolic.Column(all...)
}

// Len is the total number of expression elements over all groups.
func (c *Calculation) Len() int {
	n := 0
	for _, g := range c.groups {
		n += g.Expr.Len()
	}
	return n
}

// Groups returns copies of the stored groups in insertion order.
func (c *Calculation) Groups() []Group {
	out := make([]Group, len(c.groups))
	for i, g := range c.groups {
		out[i] = Group{Target: g.Target.Clone(), Expr: g.Expr.Clone()}
	}
	return out
}

func (c *Calculation) Inputs() []symbolic.Leaf  { return append([]symbolic.Leaf(nil), c.inputs...) }
func (c *Calculation) Outputs() []symbolic.Leaf { return append([]symbolic.Leaf(nil), c.outputs...) }

// Clone returns an independent copy sharing only the logger.
func (c *Calculation) Clone() *Calculation {
	return &Calculation{
		groups:  c.Groups(),
		outputs: c.Outputs(),
		inputs:  c.Inputs(),
		logger:  c.logger,
	}
}
