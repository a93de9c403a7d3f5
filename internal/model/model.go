// Package model reads system descriptions from HCL or YAML files and turns
// them into dynamic or static systems ready to be written as MATLAB code.
package model

import (
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// ErrModel marks a model file that parses but does not describe a valid
// system.
var ErrModel = errors.New("invalid model")

// Kind tells which system a model builds.
type Kind string

const (
	Dynamic Kind = "dynamic"
	Static  Kind = "static"
)

func parseKind(s string) (Kind, error) {
	switch Kind(s) {
	case "", Dynamic:
		return Dynamic, nil
	case Static:
		return Static, nil
	}
	return "", fmt.Errorf("%w: unknown system kind %q", ErrModel, s)
}

// Symbols declares count symbols sharing one notation. Port names the
// function argument a static system unpacks them from.
type Symbols struct {
	Notation string
	Count    int
	Port     string
}

// Definition binds Name to an expression. Expr is nil for outputs that
// refer to an existing symbol.
type Definition struct {
	Name string
	Expr hclsyntax.Expression
}

// OperatingPoint is where a dynamic system is linearised. A nil X or U
// stands for symbolic steady-state placeholders.
type OperatingPoint struct {
	X, U []hclsyntax.Expression
}

// Targets names the files to generate. Empty names are skipped.
type Targets struct {
	Path       string `yaml:"path"`
	SFunction  string `yaml:"sfunction"`
	MFunctions string `yaml:"mfunctions"`
	MFunction  string `yaml:"mfunction"`
	Init       string `yaml:"init"`
	ABCD       string `yaml:"abcd"`
}

// Model is one system as read from a file, before any symbol is created.
type Model struct {
	Name   string
	Kind   Kind
	Source string

	States            []Symbols
	Inputs            []Symbols
	Parameters        []Definition
	Calculations      []Definition
	Equations         []hclsyntax.Expression
	StatesAsOutputs   bool
	Outputs           []Definition
	InitialConditions []hclsyntax.Expression
	Linearize         *OperatingPoint
	Generate          Targets
}

func (m *Model) validate() error {
	if m.Name == "" {
		return fmt.Errorf("%w: %s: system needs a name", ErrModel, m.Source)
	}
	for _, group := range [][]Symbols{m.States, m.Inputs} {
		for _, s := range group {
			if s.Count < 1 {
				return fmt.Errorf("%w: %s: %q needs a positive count, got %d", ErrModel, m.Name, s.Notation, s.Count)
			}
		}
	}
	switch m.Kind {
	case Dynamic:
		if len(m.States) == 0 {
			return fmt.Errorf("%w: %s: dynamic system declares no state", ErrModel, m.Name)
		}
		if m.Generate.MFunction != "" {
			return fmt.Errorf("%w: %s: mfunction is only generated for static systems", ErrModel, m.Name)
		}
	case Static:
		if len(m.States) > 0 || len(m.Equations) > 0 || m.Linearize != nil {
			return fmt.Errorf("%w: %s: static system has states", ErrModel, m.Name)
		}
		g := m.Generate
		if g.SFunction != "" || g.MFunctions != "" || g.Init != "" || g.ABCD != "" {
			return fmt.Errorf("%w: %s: static systems only generate an mfunction", ErrModel, m.Name)
		}
	}
	return nil
}
