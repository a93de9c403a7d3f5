// Package system assembles symbolic equations into dynamic (state-space)
// and static (algebraic) models and writes them out as MATLAB files.
package system

import (
	"fmt"
	"log/slog"

	"github.com/njchilds90/symgen/calculation"
	"github.com/njchilds90/symgen/matlab"
	"github.com/njchilds90/symgen/symbolic"
)

// Option configures a DynamicSystem or StaticSystem.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	renamer   matlab.Renamer
	cacheSize int
}

func defaultOptions() options {
	return options{logger: slog.Default(), cacheSize: DefaultCacheSize}
}

func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// WithRenamer sets the printable names used by every file the system
// writes, typically a naming.Registry.
func WithRenamer(r matlab.Renamer) Option { return func(o *options) { o.renamer = r } }

// WithCacheSize bounds the partial derivative memo used for linearisation.
func WithCacheSize(n int) Option { return func(o *options) { o.cacheSize = n } }

// fileOptions fills the renamer and logger of opts from the system when
// the caller left them empty.
func (o options) fileOptions(opts matlab.FileOptions) matlab.FileOptions {
	if opts.Renamer == nil {
		opts.Renamer = o.renamer
	}
	if opts.Logger == nil {
		opts.Logger = o.logger
	}
	return opts
}

// Parameter is a named constant together with the value the init file
// assigns to it.
type Parameter struct {
	Symbol symbolic.Leaf
	Value  symbolic.Expr
}

// output is one entry of a system's output vector: Name is what generated
// code calls it and Expr its definition. Expr equals Name for plain
// outputs.
type output struct {
	Name symbolic.Leaf
	Expr symbolic.Expr
}

func (o output) plain() bool { return o.Name.Equal(o.Expr) }

// newOutput checks that an unnamed output is a symbol.
func newOutput(expr symbolic.Expr, name string) (output, error) {
	if name != "" {
		return output{Name: symbolic.S(name), Expr: expr}, nil
	}
	l, ok := expr.(symbolic.Leaf)
	if !ok {
		return output{}, fmt.Errorf("%w: output %s needs a name", calculation.ErrType, expr)
	}
	return output{Name: l, Expr: l}, nil
}

// leavesOf checks that m is a column vector of leaves.
func leavesOf(what string, m *symbolic.Matrix) ([]symbolic.Leaf, error) {
	if m == nil {
		return nil, nil
	}
	if m.Cols() != 1 && m.Len() > 0 {
		return nil, fmt.Errorf("%w: %s vector must be a column, got %dx%d", calculation.ErrShape, what, m.Rows(), m.Cols())
	}
	out := make([]symbolic.Leaf, 0, m.Len())
	for _, e := range m.Vec() {
		l, ok := e.(symbolic.Leaf)
		if !ok {
			return nil, fmt.Errorf("%w: %s entry %s is not a symbol", calculation.ErrType, what, e)
		}
		out = append(out, l)
	}
	return out, nil
}

func paramLeaves(ps []Parameter) []symbolic.Leaf {
	out := make([]symbolic.Leaf, len(ps))
	for i, p := range ps {
		out[i] = p.Symbol
	}
	return out
}
