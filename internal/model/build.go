package model

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/njchilds90/symgen/calculation"
	"github.com/njchilds90/symgen/matlab"
	"github.com/njchilds90/symgen/naming"
	"github.com/njchilds90/symgen/symbolic"
	"github.com/njchilds90/symgen/system"
)

// System is a built model. Exactly one of Dynamic and Static is set.
type System struct {
	Model    *Model
	Registry *naming.Registry
	Dynamic  *system.DynamicSystem
	Static   *system.StaticSystem

	logger *slog.Logger
}

type builder struct {
	m       *Model
	factory *naming.Factory
	scope   scope
	logger  *slog.Logger
}

// Build creates the symbols of m and assembles its system. A dynamic
// model with a linearize block is linearised right away.
func Build(m *Model, logger *slog.Logger) (*System, error) {
	if logger == nil {
		logger = slog.Default()
	}
	b := &builder{
		m:       m,
		factory: naming.NewFactory(naming.Plain, nil),
		scope:   scope{},
		logger:  logger.With("system", m.Name),
	}
	s := &System{Model: m, Registry: b.factory.Registry(), logger: b.logger}
	var err error
	switch m.Kind {
	case Static:
		s.Static, err = b.static()
	default:
		s.Dynamic, err = b.dynamic()
	}
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", m.Name, err)
	}
	b.logger.Debug("System built.", "kind", m.Kind, "symbols", s.Registry.Len())
	return s, nil
}

// declare creates the symbols of one block and makes them referable.
func (b *builder) declare(notation string, count int) ([]*symbolic.Sym, error) {
	syms, err := b.factory.Static(notation, count)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModel, err)
	}
	for _, s := range syms {
		if _, dup := b.scope[s.Key()]; dup {
			return nil, fmt.Errorf("%w: symbol %q is declared twice", ErrModel, s.Key())
		}
		b.scope[s.Key()] = s
	}
	return syms, nil
}

func (b *builder) declareAll(groups []Symbols) ([]*symbolic.Sym, error) {
	var out []*symbolic.Sym
	for _, g := range groups {
		syms, err := b.declare(g.Notation, g.Count)
		if err != nil {
			return nil, err
		}
		out = append(out, syms...)
	}
	return out, nil
}

// parameters declares every parameter before translating any value, so
// values may refer to each other.
func (b *builder) parameters() ([]*symbolic.Sym, []symbolic.Expr, error) {
	syms := make([]*symbolic.Sym, len(b.m.Parameters))
	for i, p := range b.m.Parameters {
		s, err := b.declare(p.Name, 1)
		if err != nil {
			return nil, nil, err
		}
		syms[i] = s[0]
	}
	values := make([]symbolic.Expr, len(b.m.Parameters))
	for i, p := range b.m.Parameters {
		if p.Expr == nil {
			continue
		}
		v, err := b.scope.translate(p.Expr)
		if err != nil {
			return nil, nil, err
		}
		values[i] = v
	}
	return syms, values, nil
}

// calculation translates one definition and declares its target after
// the expression, so a definition cannot refer to itself.
func (b *builder) calculation(d Definition) (*symbolic.Sym, symbolic.Expr, error) {
	e, err := b.scope.translate(d.Expr)
	if err != nil {
		return nil, nil, err
	}
	s, err := b.declare(d.Name, 1)
	if err != nil {
		return nil, nil, err
	}
	return s[0], e, nil
}

func (b *builder) dynamic() (*system.DynamicSystem, error) {
	x, err := b.declareAll(b.m.States)
	if err != nil {
		return nil, err
	}
	u, err := b.declareAll(b.m.Inputs)
	if err != nil {
		return nil, err
	}
	ps, values, err := b.parameters()
	if err != nil {
		return nil, err
	}
	ds, err := system.New(naming.Vector(x), naming.Vector(u),
		system.WithLogger(b.logger), system.WithRenamer(b.factory.Registry()))
	if err != nil {
		return nil, err
	}
	for i, p := range ps {
		ds.AddParameter(p, values[i])
	}

	// Calculations are intermediates of the outputs and are inlined into
	// the state equations.
	inline := symbolic.Substitution{}
	for _, d := range b.m.Calculations {
		s, e, err := b.calculation(d)
		if err != nil {
			return nil, err
		}
		inline[s.Key()] = e.Subs(inline)
		if err := ds.AddCalculation(calculation.ScalarOf(s), calculation.ScalarOf(e)); err != nil {
			return nil, err
		}
	}

	if b.m.Equations != nil {
		f, err := b.scope.translateAll(b.m.Equations)
		if err != nil {
			return nil, err
		}
		if err := ds.AddStateEquations(f.ApplySubs(inline), b.m.StatesAsOutputs); err != nil {
			return nil, err
		}
	}
	for _, o := range b.m.Outputs {
		expr, name, err := b.output(o)
		if err != nil {
			return nil, err
		}
		if err := ds.AddOutput(expr, name); err != nil {
			return nil, err
		}
	}
	if b.m.InitialConditions != nil {
		ic, err := b.scope.translateAll(b.m.InitialConditions)
		if err != nil {
			return nil, err
		}
		if err := ds.SetInitialConditions(ic); err != nil {
			return nil, err
		}
	}
	if op := b.m.Linearize; op != nil {
		xss, err := b.operatingPoint(op.X)
		if err != nil {
			return nil, err
		}
		uss, err := b.operatingPoint(op.U)
		if err != nil {
			return nil, err
		}
		if _, err := ds.Linearize(xss, uss); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

func (b *builder) operatingPoint(es []hclsyntax.Expression) (*symbolic.Matrix, error) {
	if es == nil {
		return nil, nil
	}
	return b.scope.translateAll(es)
}

// output resolves an output definition to the arguments of AddOutput. A
// definition without expression names an existing symbol.
func (b *builder) output(d Definition) (symbolic.Expr, string, error) {
	if d.Expr == nil {
		s, ok := b.scope[d.Name]
		if !ok {
			return nil, "", fmt.Errorf("%w: output %q is not a declared symbol", ErrModel, d.Name)
		}
		return s, "", nil
	}
	e, err := b.scope.translate(d.Expr)
	if err != nil {
		return nil, "", err
	}
	return e, d.Name, nil
}

func (b *builder) static() (*system.StaticSystem, error) {
	ss := system.NewStatic(system.WithLogger(b.logger), system.WithRenamer(b.factory.Registry()))
	for _, g := range b.m.Inputs {
		syms, err := b.declare(g.Notation, g.Count)
		if err != nil {
			return nil, err
		}
		in := calculation.VectorOf(naming.Vector(syms).Vec()...)
		port := g.Port
		if len(syms) == 1 {
			in = calculation.ScalarOf(syms[0])
		} else if port == "" {
			if _, port, err = naming.Notation(g.Notation, 0, 0); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrModel, err)
			}
		}
		if err := ss.AddInput(in, port); err != nil {
			return nil, err
		}
	}
	ps, values, err := b.parameters()
	if err != nil {
		return nil, err
	}
	for i, p := range ps {
		if values[i] != nil {
			b.logger.Warn("Static systems read parameters from params, value ignored", "parameter", p.Key())
		}
		ss.AddParameter(p)
	}
	for _, d := range b.m.Calculations {
		s, e, err := b.calculation(d)
		if err != nil {
			return nil, err
		}
		if err := ss.AddCalculation(calculation.ScalarOf(s), calculation.ScalarOf(e)); err != nil {
			return nil, err
		}
	}
	for _, o := range b.m.Outputs {
		expr, name, err := b.output(o)
		if err != nil {
			return nil, err
		}
		if err := ss.AddOutput(expr, name); err != nil {
			return nil, err
		}
	}
	return ss, nil
}

// Generate writes every file the model's generate block names into
// outDir, or into the block's path resolved against outDir.
func (s *System) Generate(outDir string, overwrite bool) error {
	t := s.Model.Generate
	dir := outDir
	if t.Path != "" {
		dir = t.Path
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(outDir, dir)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	opts := func(name string) matlab.FileOptions {
		return matlab.FileOptions{Filename: name, Path: dir, Overwrite: overwrite}
	}

	type target struct {
		kind, name string
		write      func(matlab.FileOptions) error
	}
	var targets []target
	if ss := s.Static; ss != nil {
		targets = append(targets, target{"mfunction", t.MFunction, ss.WriteMFunction})
	}
	if ds := s.Dynamic; ds != nil {
		targets = append(targets,
			target{"init", t.Init, ds.WriteInitFile},
			target{"sfunction", t.SFunction, ds.WriteSFunction},
			target{"mfunctions", t.MFunctions, ds.WriteMFunctions},
			target{"abcd", t.ABCD, s.writeABCD},
		)
	}
	for _, tg := range targets {
		if tg.name == "" {
			continue
		}
		if err := tg.write(opts(tg.name)); err != nil {
			return fmt.Errorf("generating %s %s: %w", tg.kind, tg.name, err)
		}
		s.logger.Info("Generated.", "target", tg.kind, "name", tg.name, "dir", dir)
	}
	return nil
}

// writeABCD linearises around the steady-state placeholders when the
// model gave no operating point.
func (s *System) writeABCD(opts matlab.FileOptions) error {
	if _, err := s.Dynamic.A(); err != nil {
		if _, err := s.Dynamic.Linearize(nil, nil); err != nil {
			return err
		}
	}
	return s.Dynamic.WriteABCD(opts)
}
