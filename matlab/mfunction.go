package matlab

import (
	"fmt"
	"strings"

	"github.com/njchilds90/symgen/calculation"
	"github.com/njchilds90/symgen/symbolic"
)

// port is a function argument or return value. A port without leaves is a
// plain scalar named Name; otherwise it is a column vector whose elements
// are the leaves.
type port struct {
	name   string
	leaves []symbolic.Leaf
}

// MFunction is a MATLAB function file:
//
//	function [outs] = name(ins)
//		unpacking of vector inputs
//		zero initialised vector outputs
//		calculations
//		gathering of vector outputs
//	end
type MFunction struct {
	file
	inputs  []port
	outputs []port
	calcs   []*calculation.Calculation
}

func NewMFunction(opts FileOptions) *MFunction {
	return &MFunction{file: newFile(opts)}
}

// AddInput declares an argument. With leaves it is a vector unpacked into
// them, one element each.
func (f *MFunction) AddInput(name string, leaves ...symbolic.Leaf) {
	f.inputs = append(f.inputs, port{name: name, leaves: leaves})
}

// AddOutput declares a return value. With leaves it is a vector gathered
// from them after the calculations ran.
func (f *MFunction) AddOutput(name string, leaves ...symbolic.Leaf) {
	f.outputs = append(f.outputs, port{name: name, leaves: leaves})
}

func (f *MFunction) AddCalculation(c *calculation.Calculation) error {
	if c == nil {
		return fmt.Errorf("%w: function %s needs a calculation", calculation.ErrType, f.name())
	}
	f.calcs = append(f.calcs, c)
	return nil
}

func (f *MFunction) reserved() []string {
	names := []string{f.name()}
	for _, p := range f.inputs {
		names = append(names, p.name)
	}
	for _, p := range f.outputs {
		names = append(names, p.name)
	}
	return names
}

func portNames(ps []port) string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.name
	}
	return strings.Join(names, ", ")
}

func (f *MFunction) elements() []Element {
	p := NewPrinter(f.opts.Renamer)
	var top, bottom strings.Builder
	for _, in := range f.inputs {
		for k, l := range in.leaves {
			fmt.Fprintf(&top, "%s = %s(%d);\n", p.Name(l), in.name, k+1)
		}
	}
	for _, out := range f.outputs {
		if len(out.leaves) == 0 {
			continue
		}
		fmt.Fprintf(&top, "%s = zeros(%d,1);\n", out.name, len(out.leaves))
		for k, l := range out.leaves {
			fmt.Fprintf(&bottom, "%s(%d) = %s;\n", out.name, k+1, p.Name(l))
		}
	}

	elems := []Element{
		NewStringElement(fmt.Sprintf("function [%s] = %s(%s)\n", portNames(f.outputs), f.name(), portNames(f.inputs)), 0),
		NewStringElement(top.String(), 1),
	}
	for _, c := range f.calcs {
		// Construction cannot fail: nil calculations are rejected when added.
		ce, _ := NewCodeElement(c, WithIndent(1), WithClear(false), WithRenamer(f.opts.Renamer), WithReserved(f.reserved()...))
		elems = append(elems, ce)
	}
	elems = append(elems, NewStringElement(bottom.String(), 1), NewStringElement("end\n", 0))
	return elems
}

// Render returns the file content. It does not change the MFunction.
func (f *MFunction) Render() string { return render(f.elements()) }

// Generate renders and writes the file.
func (f *MFunction) Generate() (bool, error) { return f.write(f.Render()) }
