package model

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"gopkg.in/yaml.v3"
)

// yamlFile mirrors the HCL layout. Expressions are strings in HCL
// expression syntax; numbers may be written bare.
type yamlFile struct {
	Systems []yamlSystem `yaml:"systems"`
}

type yamlSystem struct {
	Name              string           `yaml:"name"`
	Kind              string           `yaml:"kind"`
	States            []yamlSymbols    `yaml:"states"`
	Inputs            []yamlSymbols    `yaml:"inputs"`
	Parameters        []yamlDefinition `yaml:"parameters"`
	Calculations      []yamlDefinition `yaml:"calculations"`
	Outputs           []yamlDefinition `yaml:"outputs"`
	Equations         []string         `yaml:"equations"`
	StatesAsOutputs   bool             `yaml:"states_as_outputs"`
	InitialConditions []string         `yaml:"initial_conditions"`
	Linearize         *yamlLinearize   `yaml:"linearize"`
	Generate          Targets          `yaml:"generate"`
}

type yamlSymbols struct {
	Notation string `yaml:"notation"`
	Count    *int   `yaml:"count"`
	Port     string `yaml:"port"`
}

// yamlDefinition is a parameter (Value), a calculation or an output
// (Expr).
type yamlDefinition struct {
	Name  string `yaml:"name"`
	Expr  string `yaml:"expr"`
	Value string `yaml:"value"`
}

type yamlLinearize struct {
	X []string `yaml:"x"`
	U []string `yaml:"u"`
}

func loadYAML(file string) ([]*Model, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML file %s: %w", file, err)
	}
	var root yamlFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&root); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", file, err)
	}

	models := make([]*Model, 0, len(root.Systems))
	for _, s := range root.Systems {
		m, err := s.translate(file)
		if err != nil {
			return nil, fmt.Errorf("system %q in %s: %w", s.Name, file, err)
		}
		models = append(models, m)
	}
	return models, nil
}

func (s yamlSystem) translate(file string) (*Model, error) {
	kind, err := parseKind(s.Kind)
	if err != nil {
		return nil, err
	}
	m := &Model{
		Name:            s.Name,
		Kind:            kind,
		Source:          file,
		StatesAsOutputs: s.StatesAsOutputs,
		Generate:        s.Generate,
	}
	m.States = yamlSymbolsOf(s.States)
	m.Inputs = yamlSymbolsOf(s.Inputs)

	for _, p := range s.Parameters {
		d := Definition{Name: p.Name}
		if p.Value != "" {
			if d.Expr, err = parseExpression(p.Value, file); err != nil {
				return nil, err
			}
		}
		m.Parameters = append(m.Parameters, d)
	}
	for _, c := range s.Calculations {
		if c.Expr == "" {
			return nil, fmt.Errorf("%w: calculation %q has no expr", ErrModel, c.Name)
		}
		e, err := parseExpression(c.Expr, file)
		if err != nil {
			return nil, err
		}
		m.Calculations = append(m.Calculations, Definition{Name: c.Name, Expr: e})
	}
	for _, o := range s.Outputs {
		d := Definition{Name: o.Name}
		if o.Expr != "" {
			if d.Expr, err = parseExpression(o.Expr, file); err != nil {
				return nil, err
			}
		}
		m.Outputs = append(m.Outputs, d)
	}

	if m.Equations, err = parseAll(s.Equations, file); err != nil {
		return nil, err
	}
	if m.InitialConditions, err = parseAll(s.InitialConditions, file); err != nil {
		return nil, err
	}
	if s.Linearize != nil {
		m.Linearize = &OperatingPoint{}
		if m.Linearize.X, err = parseAll(s.Linearize.X, file); err != nil {
			return nil, err
		}
		if m.Linearize.U, err = parseAll(s.Linearize.U, file); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func yamlSymbolsOf(ys []yamlSymbols) []Symbols {
	out := make([]Symbols, 0, len(ys))
	for _, y := range ys {
		s := Symbols{Notation: y.Notation, Count: 1, Port: y.Port}
		if y.Count != nil {
			s.Count = *y.Count
		}
		out = append(out, s)
	}
	return out
}

func parseAll(srcs []string, file string) ([]hclsyntax.Expression, error) {
	if srcs == nil {
		return nil, nil
	}
	out := make([]hclsyntax.Expression, len(srcs))
	for i, src := range srcs {
		e, err := parseExpression(src, file)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}
