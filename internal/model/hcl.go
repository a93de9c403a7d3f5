package model

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// fileRoot decodes the top-level blocks of an HCL model file.
type fileRoot struct {
	Systems []*systemBlock `hcl:"system,block"`
}

type systemBlock struct {
	Name              string             `hcl:"name,label"`
	Kind              string             `hcl:"kind,optional"`
	States            []*symbolsBlock    `hcl:"state,block"`
	Inputs            []*symbolsBlock    `hcl:"input,block"`
	Parameters        []*parameterBlock  `hcl:"parameter,block"`
	Calculations      []*definitionBlock `hcl:"calculation,block"`
	Outputs           []*definitionBlock `hcl:"output,block"`
	Equations         hcl.Expression     `hcl:"equations,optional"`
	StatesAsOutputs   bool               `hcl:"states_as_outputs,optional"`
	InitialConditions hcl.Expression     `hcl:"initial_conditions,optional"`
	Linearize         *linearizeBlock    `hcl:"linearize,block"`
	Generate          *generateBlock     `hcl:"generate,block"`
}

type symbolsBlock struct {
	Notation string `hcl:"notation,label"`
	Count    *int   `hcl:"count,optional"`
	Port     string `hcl:"port,optional"`
}

type parameterBlock struct {
	Name  string         `hcl:"name,label"`
	Value hcl.Expression `hcl:"value,optional"`
}

type definitionBlock struct {
	Name string         `hcl:"name,label"`
	Expr hcl.Expression `hcl:"expr,optional"`
}

type linearizeBlock struct {
	X hcl.Expression `hcl:"x,optional"`
	U hcl.Expression `hcl:"u,optional"`
}

type generateBlock struct {
	Path       string `hcl:"path,optional"`
	SFunction  string `hcl:"sfunction,optional"`
	MFunctions string `hcl:"mfunctions,optional"`
	MFunction  string `hcl:"mfunction,optional"`
	Init       string `hcl:"init,optional"`
	ABCD       string `hcl:"abcd,optional"`
}

func loadHCL(parser *hclparse.Parser, file string) ([]*Model, error) {
	hclFile, diags := parser.ParseHCLFile(file)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
	}

	models := make([]*Model, 0, len(root.Systems))
	for _, b := range root.Systems {
		m, err := b.translate(file)
		if err != nil {
			return nil, fmt.Errorf("system %q in %s: %w", b.Name, file, err)
		}
		models = append(models, m)
	}
	return models, nil
}

func (b *systemBlock) translate(file string) (*Model, error) {
	kind, err := parseKind(b.Kind)
	if err != nil {
		return nil, err
	}
	m := &Model{
		Name:            b.Name,
		Kind:            kind,
		Source:          file,
		States:          symbolsOf(b.States),
		Inputs:          symbolsOf(b.Inputs),
		StatesAsOutputs: b.StatesAsOutputs,
	}

	for _, p := range b.Parameters {
		d := Definition{Name: p.Name}
		if !absent(p.Value) {
			if d.Expr, err = syntaxOf(p.Value); err != nil {
				return nil, err
			}
		}
		m.Parameters = append(m.Parameters, d)
	}
	for _, c := range b.Calculations {
		if absent(c.Expr) {
			return nil, fmt.Errorf("%w: calculation %q has no expr", ErrModel, c.Name)
		}
		e, err := syntaxOf(c.Expr)
		if err != nil {
			return nil, err
		}
		m.Calculations = append(m.Calculations, Definition{Name: c.Name, Expr: e})
	}
	for _, o := range b.Outputs {
		d := Definition{Name: o.Name}
		if !absent(o.Expr) {
			if d.Expr, err = syntaxOf(o.Expr); err != nil {
				return nil, err
			}
		}
		m.Outputs = append(m.Outputs, d)
	}

	if m.Equations, err = listOf(b.Equations); err != nil {
		return nil, err
	}
	if m.InitialConditions, err = listOf(b.InitialConditions); err != nil {
		return nil, err
	}
	if b.Linearize != nil {
		m.Linearize = &OperatingPoint{}
		if m.Linearize.X, err = listOf(b.Linearize.X); err != nil {
			return nil, err
		}
		if m.Linearize.U, err = listOf(b.Linearize.U); err != nil {
			return nil, err
		}
	}
	if g := b.Generate; g != nil {
		m.Generate = Targets{
			Path:       g.Path,
			SFunction:  g.SFunction,
			MFunctions: g.MFunctions,
			MFunction:  g.MFunction,
			Init:       g.Init,
			ABCD:       g.ABCD,
		}
	}
	return m, nil
}

func symbolsOf(bs []*symbolsBlock) []Symbols {
	out := make([]Symbols, 0, len(bs))
	for _, b := range bs {
		s := Symbols{Notation: b.Notation, Count: 1, Port: b.Port}
		if b.Count != nil {
			s.Count = *b.Count
		}
		out = append(out, s)
	}
	return out
}

// absent reports whether an optional attribute was left out. gohcl fills
// missing expression fields with a static null.
func absent(e hcl.Expression) bool {
	if e == nil {
		return true
	}
	if _, ok := e.(hclsyntax.Expression); ok {
		return false
	}
	v, diags := e.Value(nil)
	return !diags.HasErrors() && v.IsNull()
}

func syntaxOf(e hcl.Expression) (hclsyntax.Expression, error) {
	s, ok := e.(hclsyntax.Expression)
	if !ok {
		return nil, fmt.Errorf("%w: %s: expression is not native syntax", ErrModel, e.Range())
	}
	return s, nil
}

// listOf splits a tuple expression such as [q2, -sin(q1)] into its
// elements. An absent attribute is a nil list.
func listOf(e hcl.Expression) ([]hclsyntax.Expression, error) {
	if absent(e) {
		return nil, nil
	}
	items, diags := hcl.ExprList(e)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: %w", ErrModel, diags)
	}
	out := make([]hclsyntax.Expression, len(items))
	for i, item := range items {
		s, err := syntaxOf(item)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}
