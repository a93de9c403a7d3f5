package system

import (
	"fmt"

	"github.com/njchilds90/symgen/calculation"
	"github.com/njchilds90/symgen/matlab"
	"github.com/njchilds90/symgen/symbolic"
)

// StaticSystem is an algebraic model: named inputs, a chain of
// calculations and named outputs, written as one MATLAB function.
type StaticSystem struct {
	opts options

	inputs    []string
	inputCalc *calculation.Calculation
	eqs       *calculation.Calculation
	outputs   []output
	outCalc   *calculation.Calculation
	params    []Parameter
}

func NewStatic(opts ...Option) *StaticSystem {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	newCalc := func() *calculation.Calculation { return calculation.New(calculation.WithLogger(o.logger)) }
	return &StaticSystem{opts: o, inputCalc: newCalc(), eqs: newCalc(), outCalc: newCalc()}
}

// AddInput declares a function argument. Without a name in must be a
// single symbol, which becomes the argument. With a name the argument is
// called name and in, a symbol or a whole vector or matrix of symbols, is
// unpacked from it.
func (s *StaticSystem) AddInput(in calculation.Value, name string) error {
	if name == "" {
		if in.Kind() != calculation.Scalar {
			return fmt.Errorf("%w: %s input %s needs a name", calculation.ErrType, in.Kind(), in)
		}
		l, ok := in.Matrix().At(0).(symbolic.Leaf)
		if !ok {
			return fmt.Errorf("%w: input %s is not a symbol", calculation.ErrType, in)
		}
		s.inputs = append(s.inputs, matlab.NewPrinter(s.opts.renamer).Name(l))
		return nil
	}
	if err := s.inputCalc.AddCalculation(in, calculation.ScalarOf(symbolic.S(name)), in.Kind() != calculation.Scalar); err != nil {
		return err
	}
	s.inputs = append(s.inputs, name)
	return nil
}

func (s *StaticSystem) AddCalculation(target, expr calculation.Value) error {
	return s.eqs.AddCalculation(target, expr, false)
}

func (s *StaticSystem) AppendCalculation(c *calculation.Calculation) error {
	_, err := s.eqs.Append(c)
	return err
}

// AddOutput declares a return value. Without a name expr must be a symbol
// computed by the calculations; with a name the function returns expr
// under that name.
func (s *StaticSystem) AddOutput(expr symbolic.Expr, name string) error {
	o, err := newOutput(expr, name)
	if err != nil {
		return err
	}
	if !o.plain() {
		if err := s.outCalc.AddCalculation(calculation.ScalarOf(o.Name), calculation.ScalarOf(o.Expr), false); err != nil {
			return err
		}
	}
	s.outputs = append(s.outputs, o)
	return nil
}

// AddParameter declares a constant read from the params argument.
func (s *StaticSystem) AddParameter(p symbolic.Leaf) {
	s.params = append(s.params, Parameter{Symbol: p, Value: symbolic.N(0)})
}

// Calculation is the calculations followed by the output assignments,
// with every output resolved down to the inputs.
func (s *StaticSystem) Calculation() (*calculation.Calculation, error) {
	c := calculation.New(calculation.WithLogger(s.opts.logger))
	for _, part := range []*calculation.Calculation{s.eqs, s.outCalc} {
		if _, err := c.Append(part); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// WriteMFunction writes the system as one function taking the inputs (and
// params when parameters were declared) and returning the outputs.
func (s *StaticSystem) WriteMFunction(opts matlab.FileOptions) error {
	opts = s.opts.fileOptions(opts)
	c, err := s.Calculation()
	if err != nil {
		return err
	}
	f := matlab.NewMFunction(opts)
	for _, in := range s.inputs {
		f.AddInput(in)
	}
	if len(s.params) > 0 {
		f.AddInput("params", paramLeaves(s.params)...)
	}
	p := matlab.NewPrinter(opts.Renamer)
	for _, o := range s.outputs {
		f.AddOutput(p.Name(o.Name))
	}
	// Unpacking gets its own block so temporaries never read an input
	// before it is assigned.
	if s.inputCalc.Len() > 0 {
		if err := f.AddCalculation(s.inputCalc.Clone()); err != nil {
			return err
		}
	}
	if err := f.AddCalculation(c); err != nil {
		return err
	}
	_, err = f.Generate()
	return err
}
