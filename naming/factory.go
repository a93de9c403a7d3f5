package naming

import (
	"fmt"

	"github.com/njchilds90/symgen/symbolic"
)

// Style selects how symbols are named.
type Style int

const (
	// LaTeX names symbols by their display name and registers the MATLAB
	// identifier for printing.
	LaTeX Style = iota
	// Plain names symbols by their MATLAB identifier directly.
	Plain
)

func (s Style) String() string {
	switch s {
	case LaTeX:
		return "latex"
	case Plain:
		return "plain"
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// Factory creates static and dynamic symbols and records their printable
// names in a Registry.
type Factory struct {
	style Style
	reg   *Registry
}

// NewFactory returns a factory writing into reg; a nil reg gets a fresh
// Registry.
func NewFactory(style Style, reg *Registry) *Factory {
	if reg == nil {
		reg = NewRegistry()
	}
	return &Factory{style: style, reg: reg}
}

func (f *Factory) Registry() *Registry { return f.reg }

func (f *Factory) name(notation string, index, order int) (string, string, error) {
	display, safe, err := Notation(notation, index, order)
	if err != nil {
		return "", "", err
	}
	if f.style == Plain {
		return safe, safe, nil
	}
	return display, safe, nil
}

// Static returns count symbols for notation. A single symbol is
// unnumbered; more are numbered from 1.
func (f *Factory) Static(notation string, count int) ([]*symbolic.Sym, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: %q needs at least one symbol, got %d", ErrNotation, notation, count)
	}
	out := make([]*symbolic.Sym, count)
	for i := range out {
		index := i + 1
		if count == 1 {
			index = 0
		}
		name, safe, err := f.name(notation, index, 0)
		if err != nil {
			return nil, err
		}
		out[i] = symbolic.S(name)
		f.reg.Put(out[i].Key(), safe)
	}
	return out, nil
}

// StaticNamed returns one unnumbered symbol per notation.
func (f *Factory) StaticNamed(notations ...string) ([]*symbolic.Sym, error) {
	out := make([]*symbolic.Sym, 0, len(notations))
	for _, n := range notations {
		s, err := f.Static(n, 1)
		if err != nil {
			return nil, err
		}
		out = append(out, s[0])
	}
	return out, nil
}

// Dynamic returns count time functions for notation together with their
// derivatives up to the given order, laid out as [order][index].
func (f *Factory) Dynamic(notation string, count, derivatives int) ([][]*symbolic.TimeFunc, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: %q needs at least one symbol, got %d", ErrNotation, notation, count)
	}
	if derivatives < 0 {
		return nil, fmt.Errorf("%w: negative derivative count %d for %q", ErrNotation, derivatives, notation)
	}
	out := make([][]*symbolic.TimeFunc, derivatives+1)
	for i := 0; i < count; i++ {
		index := i + 1
		if count == 1 {
			index = 0
		}
		name, _, err := f.name(notation, index, 0)
		if err != nil {
			return nil, err
		}
		base := symbolic.TF(name)
		for order := 0; order <= derivatives; order++ {
			_, safe, err := f.name(notation, index, order)
			if err != nil {
				return nil, err
			}
			d := base.Derivative(order)
			f.reg.Put(d.Key(), safe)
			out[order] = append(out[order], d)
		}
	}
	return out, nil
}

// DynamicNamed creates Dynamic symbols for every notation and concatenates
// them per order: out[order] lists all notations' symbols of that order.
func (f *Factory) DynamicNamed(notations []string, count, derivatives int) ([][]*symbolic.TimeFunc, error) {
	out := make([][]*symbolic.TimeFunc, derivatives+1)
	for _, n := range notations {
		syms, err := f.Dynamic(n, count, derivatives)
		if err != nil {
			return nil, err
		}
		for order := range syms {
			out[order] = append(out[order], syms[order]...)
		}
	}
	return out, nil
}

// DynamicBlocks creates Dynamic symbols for every notation and returns one
// list per notation, each symbol followed by its derivatives.
func (f *Factory) DynamicBlocks(notations []string, count, derivatives int) ([][]*symbolic.TimeFunc, error) {
	out := make([][]*symbolic.TimeFunc, 0, len(notations))
	for _, n := range notations {
		syms, err := f.Dynamic(n, count, derivatives)
		if err != nil {
			return nil, err
		}
		var block []*symbolic.TimeFunc
		for i := range syms[0] {
			for order := range syms {
				block = append(block, syms[order][i])
			}
		}
		out = append(out, block)
	}
	return out, nil
}

// Vector stacks symbols into a column vector.
func Vector[T symbolic.Expr](syms []T) *symbolic.Matrix {
	es := make([]symbolic.Expr, len(syms))
	for i, s := range syms {
		es[i] = s
	}
	return symbolic.Column(es...)
}

// Leaves converts concrete symbols to leaves.
func Leaves[T symbolic.Leaf](syms []T) []symbolic.Leaf {
	out := make([]symbolic.Leaf, len(syms))
	for i, s := range syms {
		out[i] = s
	}
	return out
}
