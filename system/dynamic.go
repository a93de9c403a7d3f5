package system

import (
	"fmt"
	"strings"

	"github.com/njchilds90/symgen/calculation"
	"github.com/njchilds90/symgen/matlab"
	"github.com/njchilds90/symgen/symbolic"
)

// StateSpace holds the matrices of a linearised system
//
//	dx = A dx + B du
//	dy = C dx + D du
type StateSpace struct {
	A, B, C, D *symbolic.Matrix
}

// DynamicSystem is a nonlinear state-space model xdot = f(x, u), y = h(x, u).
type DynamicSystem struct {
	opts options
	jac  *Jacobians

	x, u          []symbolic.Leaf
	states        *calculation.Calculation
	intermediates *calculation.Calculation
	outputs       []output
	params        []Parameter
	ic            *symbolic.Matrix

	ss         StateSpace
	linearized bool
}

// New creates a system with state vector x and input vector u. Both must
// be column vectors of symbols; u may be empty.
func New(x, u *symbolic.Matrix, opts ...Option) (*DynamicSystem, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	xs, err := leavesOf("state", x)
	if err != nil {
		return nil, err
	}
	if len(xs) == 0 {
		return nil, fmt.Errorf("%w: state vector is empty", calculation.ErrShape)
	}
	us, err := leavesOf("input", u)
	if err != nil {
		return nil, err
	}
	jac, err := NewJacobians(o.cacheSize)
	if err != nil {
		return nil, err
	}
	return &DynamicSystem{
		opts:          o,
		jac:           jac,
		x:             xs,
		u:             us,
		states:        calculation.New(calculation.WithLogger(o.logger)),
		intermediates: calculation.New(calculation.WithLogger(o.logger)),
	}, nil
}

func (s *DynamicSystem) X() *symbolic.Matrix { return leafVector(s.x) }
func (s *DynamicSystem) U() *symbolic.Matrix { return leafVector(s.u) }

// XDot is the vector of state derivatives. A time function's derivative
// is its next derivative order; a plain symbol q gets the symbol qdot.
func (s *DynamicSystem) XDot() *symbolic.Matrix { return leafVector(s.xdot()) }

func (s *DynamicSystem) xdot() []symbolic.Leaf {
	out := make([]symbolic.Leaf, len(s.x))
	for i, x := range s.x {
		if tf, ok := x.(*symbolic.TimeFunc); ok {
			out[i] = tf.Derivative(tf.Order() + 1)
			continue
		}
		out[i] = symbolic.S(x.Key() + "dot")
	}
	return out
}

// AddStateEquations sets f in xdot = f(x, u). f must be a column with one
// entry per state and can be set once. With asOutputs every state is
// added to the outputs.
func (s *DynamicSystem) AddStateEquations(f *symbolic.Matrix, asOutputs bool) error {
	if f == nil || f.Cols() != 1 {
		return fmt.Errorf("%w: state equations must be a column vector", calculation.ErrShape)
	}
	if f.Rows() != len(s.x) {
		return fmt.Errorf("%w: %d state equations for %d states", calculation.ErrShape, f.Rows(), len(s.x))
	}
	if s.states.Len() != 0 {
		return fmt.Errorf("%w: state equations are already set", calculation.ErrState)
	}
	if err := s.states.AddCalculation(calculation.MatrixOf(s.XDot()), calculation.MatrixOf(f), false); err != nil {
		return err
	}
	s.linearized = false
	if asOutputs {
		for _, x := range s.x {
			s.outputs = append(s.outputs, output{Name: x, Expr: x})
		}
	}
	return nil
}

// AddCalculation adds an intermediate target = expr that outputs may
// refer to.
func (s *DynamicSystem) AddCalculation(target, expr calculation.Value) error {
	return s.intermediates.AddCalculation(target, expr, false)
}

// AppendCalculation adds every group of c as intermediates.
func (s *DynamicSystem) AppendCalculation(c *calculation.Calculation) error {
	_, err := s.intermediates.Append(c)
	return err
}

// AddOutput appends expr to the output vector. Without a name expr must be
// a symbol, which then is the output's name.
func (s *DynamicSystem) AddOutput(expr symbolic.Expr, name string) error {
	o, err := newOutput(expr, name)
	if err != nil {
		return err
	}
	s.outputs = append(s.outputs, o)
	s.linearized = false
	return nil
}

// AddParameter declares a constant. A nil value is written as 0 in the
// init file.
func (s *DynamicSystem) AddParameter(p symbolic.Leaf, value symbolic.Expr) {
	if value == nil {
		value = symbolic.N(0)
	}
	s.params = append(s.params, Parameter{Symbol: p, Value: value})
}

// AddParameters declares several constants at once. values may be nil
// for all zeros; otherwise it needs one entry per parameter.
func (s *DynamicSystem) AddParameters(ps []symbolic.Leaf, values []symbolic.Expr) error {
	if values != nil && len(values) != len(ps) {
		return fmt.Errorf("%w: %d parameters but %d values", calculation.ErrShape, len(ps), len(values))
	}
	for i, p := range ps {
		var v symbolic.Expr
		if values != nil {
			v = values[i]
		}
		s.AddParameter(p, v)
	}
	return nil
}

func (s *DynamicSystem) Parameters() []Parameter { return append([]Parameter(nil), s.params...) }

// SetInitialConditions sets x_ic of the init file. Without a call it is a
// zero vector.
func (s *DynamicSystem) SetInitialConditions(ic *symbolic.Matrix) error {
	if ic == nil || ic.Len() != len(s.x) || (ic.Cols() != 1 && ic.Len() > 0) {
		return fmt.Errorf("%w: initial conditions need a column of %d entries", calculation.ErrShape, len(s.x))
	}
	s.ic = ic.Clone()
	return nil
}

// F is the right-hand side of the state equations, nil before they are
// set.
func (s *DynamicSystem) F() *symbolic.Matrix {
	gs := s.states.Groups()
	if len(gs) == 0 {
		return nil
	}
	return symbolic.Column(gs[0].Expr.Vec()...)
}

// Y is the output vector with every intermediate resolved.
func (s *DynamicSystem) Y() *symbolic.Matrix {
	es := make([]symbolic.Expr, len(s.outputs))
	for i, o := range s.outputs {
		es[i] = s.intermediates.Resolve(o.Expr)
	}
	return symbolic.Column(es...)
}

func (s *DynamicSystem) outputNames() []symbolic.Leaf {
	out := make([]symbolic.Leaf, len(s.outputs))
	for i, o := range s.outputs {
		out[i] = o.Name
	}
	return out
}

// Linearize computes A, B, C and D around the operating point (xss, uss).
// A nil operating point is replaced by the placeholders x1_ss, x2_ss, ...
// and u1_ss, u2_ss, .... It always recomputes.
func (s *DynamicSystem) Linearize(xss, uss *symbolic.Matrix) (StateSpace, error) {
	f := s.F()
	if f == nil || len(s.outputs) == 0 {
		return StateSpace{}, fmt.Errorf("%w: state and output equations have to be set before linearization", calculation.ErrState)
	}
	if xss == nil {
		xss = placeholders("x", len(s.x))
	}
	if uss == nil {
		uss = placeholders("u", len(s.u))
	}
	if xss.Len() != len(s.x) || uss.Len() != len(s.u) || (xss.Cols() != 1 && xss.Len() > 0) || (uss.Cols() != 1 && uss.Len() > 0) {
		return StateSpace{}, fmt.Errorf("%w: operating point must be %dx1 and %dx1, got %dx%d and %dx%d",
			calculation.ErrShape, len(s.x), len(s.u), xss.Rows(), xss.Cols(), uss.Rows(), uss.Cols())
	}

	at := symbolic.Substitution{}
	for i, x := range s.x {
		at[x.Key()] = xss.At(i)
	}
	for i, u := range s.u {
		at[u.Key()] = uss.At(i)
	}

	fs, ys := f.Vec(), s.Y().Vec()
	s.ss = StateSpace{
		A: s.jac.Of(fs, s.x).ApplySubs(at),
		B: s.jac.Of(fs, s.u).ApplySubs(at),
		C: s.jac.Of(ys, s.x).ApplySubs(at),
		D: s.jac.Of(ys, s.u).ApplySubs(at),
	}
	s.linearized = true
	s.opts.logger.Debug("System linearized", "states", len(s.x), "inputs", len(s.u), "outputs", len(s.outputs), "cached", s.jac.Len())
	return StateSpace{A: s.ss.A.Clone(), B: s.ss.B.Clone(), C: s.ss.C.Clone(), D: s.ss.D.Clone()}, nil
}

func placeholders(prefix string, n int) *symbolic.Matrix {
	es := make([]symbolic.Expr, n)
	for i := range es {
		es[i] = symbolic.S(fmt.Sprintf("%s%d_ss", prefix, i+1))
	}
	return symbolic.Column(es...)
}

func (s *DynamicSystem) matrix(name string, m *symbolic.Matrix) (*symbolic.Matrix, error) {
	if !s.linearized {
		return nil, fmt.Errorf("%w: system has to be linearized before accessing the %s matrix", calculation.ErrState, name)
	}
	return m.Clone(), nil
}

func (s *DynamicSystem) A() (*symbolic.Matrix, error) { return s.matrix("A", s.ss.A) }
func (s *DynamicSystem) B() (*symbolic.Matrix, error) { return s.matrix("B", s.ss.B) }
func (s *DynamicSystem) C() (*symbolic.Matrix, error) { return s.matrix("C", s.ss.C) }
func (s *DynamicSystem) D() (*symbolic.Matrix, error) { return s.matrix("D", s.ss.D) }

// WriteABCD writes A, B, C and D as one script sharing its temporaries.
func (s *DynamicSystem) WriteABCD(opts matlab.FileOptions) error {
	if !s.linearized {
		return fmt.Errorf("%w: system has to be linearized before writing A, B, C and D", calculation.ErrState)
	}
	c := calculation.New(calculation.WithLogger(s.opts.logger))
	for _, m := range []struct {
		name string
		m    *symbolic.Matrix
	}{{"A", s.ss.A}, {"B", s.ss.B}, {"C", s.ss.C}, {"D", s.ss.D}} {
		if err := c.AddCalculation(calculation.ScalarOf(symbolic.S(m.name)), calculation.MatrixOf(m.m), false); err != nil {
			return fmt.Errorf("adding %s: %w", m.name, err)
		}
	}
	f := matlab.NewMFile(s.opts.fileOptions(opts))
	if err := f.AddCalculation(c); err != nil {
		return err
	}
	_, err := f.Generate()
	return err
}

// WriteInitFile writes the parameter values, the params vector and the
// initial conditions x_ic.
func (s *DynamicSystem) WriteInitFile(opts matlab.FileOptions) error {
	opts = s.opts.fileOptions(opts)
	f := matlab.NewMFile(opts)
	f.AddText(s.initText(matlab.NewPrinter(opts.Renamer)))
	_, err := f.Generate()
	return err
}

func (s *DynamicSystem) initText(p *matlab.Printer) string {
	var b strings.Builder
	b.WriteString("%% System parameters\n")
	names := make([]string, len(s.params))
	for i, par := range s.params {
		names[i] = p.Name(par.Symbol)
		fmt.Fprintf(&b, "%s = %s;\n", names[i], p.Expr(par.Value))
	}
	fmt.Fprintf(&b, "params = [%s];\n\n", strings.Join(names, ", "))
	b.WriteString("%% Initial conditions\n")
	ic := s.ic
	if ic == nil {
		ic = symbolic.NewMatrix(len(s.x), 1)
	}
	fmt.Fprintf(&b, "x_ic = %s;\n", p.Matrix(ic))
	return b.String()
}

// WriteSFunction writes the nonlinear system as a Simulink S-Function.
// Its outputs are Y with every intermediate resolved.
func (s *DynamicSystem) WriteSFunction(opts matlab.FileOptions) error {
	f := s.F()
	if f == nil {
		return fmt.Errorf("%w: S-Function needs state equations", calculation.ErrState)
	}
	sf := matlab.NewSFunction(s.opts.fileOptions(opts))
	if err := sf.AddStates(s.x, s.xdot(), f.Vec()); err != nil {
		return err
	}
	sf.AddInputs(s.u...)
	for i, y := range s.Y().Vec() {
		sf.AddOutput(s.outputs[i].Name, y)
	}
	sf.AddParameters(paramLeaves(s.params)...)
	_, err := sf.Generate()
	return err
}

// WriteMFunctions writes <name>_dyn computing xdot from x, u and params,
// and <name>_out computing y.
func (s *DynamicSystem) WriteMFunctions(opts matlab.FileOptions) error {
	if s.F() == nil {
		return fmt.Errorf("%w: M-Functions need state equations", calculation.ErrState)
	}
	opts = s.opts.fileOptions(opts)
	base := strings.TrimSuffix(opts.Filename, ".m")

	dynOpts := opts
	dynOpts.Filename = base + "_dyn"
	dyn := matlab.NewMFunction(dynOpts)
	s.addPorts(dyn)
	dyn.AddOutput("xdot", s.xdot()...)
	if err := dyn.AddCalculation(s.states.Clone()); err != nil {
		return err
	}
	if _, err := dyn.Generate(); err != nil {
		return err
	}

	outCalc, err := s.outputCalculation()
	if err != nil {
		return err
	}
	outOpts := opts
	outOpts.Filename = base + "_out"
	out := matlab.NewMFunction(outOpts)
	s.addPorts(out)
	out.AddOutput("y", s.outputNames()...)
	if err := out.AddCalculation(outCalc); err != nil {
		return err
	}
	_, err = out.Generate()
	return err
}

func (s *DynamicSystem) addPorts(f *matlab.MFunction) {
	f.AddInput("x", s.x...)
	f.AddInput("u", s.u...)
	f.AddInput("params", paramLeaves(s.params)...)
}

// outputCalculation is the intermediates followed by one assignment per
// named output.
func (s *DynamicSystem) outputCalculation() (*calculation.Calculation, error) {
	c := s.intermediates.Clone()
	for _, o := range s.outputs {
		if o.plain() {
			continue
		}
		if err := c.AddCalculation(calculation.ScalarOf(o.Name), calculation.ScalarOf(o.Expr), false); err != nil {
			return nil, fmt.Errorf("output %s: %w", o.Name.Key(), err)
		}
	}
	return c, nil
}

func leafVector(ls []symbolic.Leaf) *symbolic.Matrix {
	es := make([]symbolic.Expr, len(ls))
	for i, l := range ls {
		es[i] = l
	}
	return symbolic.Column(es...)
}
