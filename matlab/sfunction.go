package matlab

import (
	"fmt"
	"strings"

	"github.com/njchilds90/symgen/calculation"
	"github.com/njchilds90/symgen/symbolic"
)

// sfunctionReserved are the names the S-Function skeleton itself uses.
var sfunctionReserved = []string{"sys", "x0", "str", "ts", "t", "x", "u", "flag", "params", "x_ic"}

// SFunction is a level-1 MATLAB S-Function with continuous states. States
// and inputs are read from the x and u arguments by position, parameters
// are unpacked from params.
type SFunction struct {
	file
	states  []symbolic.Leaf
	derivs  []symbolic.Leaf
	eqs     []symbolic.Expr
	inputs  []symbolic.Leaf
	outputs []symbolic.Leaf
	outEqs  []symbolic.Expr
	params  []symbolic.Leaf
}

func NewSFunction(opts FileOptions) *SFunction {
	return &SFunction{file: newFile(opts)}
}

// AddStates appends states together with the equations of their time
// derivatives; derivs names each derivative.
func (s *SFunction) AddStates(states, derivs []symbolic.Leaf, eqs []symbolic.Expr) error {
	if len(states) != len(eqs) || len(derivs) != len(eqs) {
		return fmt.Errorf("%w: %d states, %d derivatives and %d equations", calculation.ErrShape, len(states), len(derivs), len(eqs))
	}
	s.states = append(s.states, states...)
	s.derivs = append(s.derivs, derivs...)
	s.eqs = append(s.eqs, eqs...)
	return nil
}

func (s *SFunction) AddInputs(inputs ...symbolic.Leaf) { s.inputs = append(s.inputs, inputs...) }

func (s *SFunction) AddOutput(name symbolic.Leaf, eq symbolic.Expr) {
	s.outputs = append(s.outputs, name)
	s.outEqs = append(s.outEqs, eq)
}

// AddParameters declares constants read from the params argument, in order.
func (s *SFunction) AddParameters(params ...symbolic.Leaf) { s.params = append(s.params, params...) }

// positional maps states to x(i) and inputs to u(i).
func (s *SFunction) positional() symbolic.Substitution {
	sub := symbolic.Substitution{}
	for i, st := range s.states {
		sub[st.Key()] = symbolic.S(fmt.Sprintf("x(%d)", i+1))
	}
	for i, in := range s.inputs {
		sub[in.Key()] = symbolic.S(fmt.Sprintf("u(%d)", i+1))
	}
	return sub
}

func (s *SFunction) block(targets []symbolic.Leaf, eqs []symbolic.Expr, sub symbolic.Substitution) (Element, error) {
	c := calculation.New(calculation.WithLogger(s.opts.Logger))
	if len(eqs) > 0 {
		ts := make([]symbolic.Expr, len(targets))
		for i, t := range targets {
			ts[i] = t
		}
		if err := c.AddCalculation(calculation.VectorOf(ts...), calculation.VectorOf(eqs...), false); err != nil {
			return nil, err
		}
		c.Subs(sub)
	}
	reserved := append([]string(nil), sfunctionReserved...)
	p := NewPrinter(s.opts.Renamer)
	for _, par := range s.params {
		reserved = append(reserved, p.Name(par))
	}
	ce, err := NewCodeElement(c, WithIndent(2), WithClear(false), WithRenamer(s.opts.Renamer), WithReserved(reserved...))
	if err != nil {
		return nil, err
	}
	return ce.OverrideLHS("sys"), nil
}

// feedthrough reports whether any output reads an input directly.
func (s *SFunction) feedthrough() int {
	for _, eq := range s.outEqs {
		for _, in := range s.inputs {
			if symbolic.Contains(eq, in.Key()) {
				return 1
			}
		}
	}
	return 0
}

// Render returns the file content. It fails with a state error when no
// state equations were added.
func (s *SFunction) Render() (string, error) {
	if len(s.eqs) == 0 {
		return "", fmt.Errorf("%w: S-Function %s has no state equations", calculation.ErrState, s.name())
	}
	sub := s.positional()
	derivs, err := s.block(s.derivs, s.eqs, sub)
	if err != nil {
		return "", err
	}
	outs, err := s.block(s.outputs, s.outEqs, sub)
	if err != nil {
		return "", err
	}

	p := NewPrinter(s.opts.Renamer)
	var unpack strings.Builder
	for i, par := range s.params {
		fmt.Fprintf(&unpack, "%s = params(%d);\n", p.Name(par), i+1)
	}

	var head strings.Builder
	fmt.Fprintf(&head, "function [sys,x0,str,ts] = %s(t,x,u,flag,params,x_ic)\n", s.name())
	head.WriteString("switch flag,\n")
	head.WriteString("\tcase 0, % initialization\n")
	init := []string{
		"sizes = simsizes;",
		fmt.Sprintf("sizes.NumContStates = %d;\t%% number of continuous states", len(s.eqs)),
		"sizes.NumDiscStates = 0;\t% number of discrete states",
		fmt.Sprintf("sizes.NumOutputs = %d;\t%% number of system outputs", len(s.outEqs)),
		fmt.Sprintf("sizes.NumInputs = %d;\t%% number of system inputs", len(s.inputs)),
		fmt.Sprintf("sizes.DirFeedthrough = %d;\t%% direct feedthrough flag", s.feedthrough()),
		"sizes.NumSampleTimes = 1;\t% at least one sample time is needed",
		"sys = simsizes(sizes);",
		"",
		"% initial conditions",
		"x0 = x_ic;",
		"",
		"str = [];\t% str is always an empty matrix",
		"",
		"ts = [0 0];\t% initialize the array of sample times",
		"",
	}

	elems := []Element{
		NewStringElement(head.String(), 0),
		NewStringElement(indentLines(init, 2), 0),
		NewStringElement("\tcase 1, % derivatives\n", 0),
		NewStringElement(unpack.String(), 2),
		NewStringElement(fmt.Sprintf("sys = zeros(%d,1);\n", len(s.eqs)), 2),
		derivs,
		NewStringElement("\n\tcase 3, % outputs\n", 0),
		NewStringElement(unpack.String(), 2),
		NewStringElement(fmt.Sprintf("sys = zeros(%d,1);\n", len(s.outEqs)), 2),
		outs,
		NewStringElement("\n\tcase {2,4,9}, % unused flags\n", 0),
		NewStringElement("sys = [];\n", 2),
		NewStringElement("\n\totherwise\n", 0),
		NewStringElement("error(['Unhandled flag = ',num2str(flag)]);\n", 2),
		NewStringElement("end\n", 0),
	}
	return render(elems), nil
}

// indentLines indents each non-empty line by n tabs.
func indentLines(lines []string, n int) string {
	var sb strings.Builder
	for _, l := range lines {
		if l != "" {
			sb.WriteString(strings.Repeat("\t", n) + l)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Generate renders and writes the file.
func (s *SFunction) Generate() (bool, error) {
	text, err := s.Render()
	if err != nil {
		return false, err
	}
	return s.write(text)
}
