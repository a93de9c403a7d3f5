package matlab

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/njchilds90/symgen/calculation"
	"github.com/njchilds90/symgen/symbolic"
)

// CodeElement renders a Calculation as MATLAB assignments. With CSE on, one
// elimination pass runs over every group at once and the reduced vector is
// sliced back into the groups' shapes.
type CodeElement struct {
	calc     *calculation.Calculation
	indent   int
	cse      bool
	clear    bool
	lhs      string
	printer  *Printer
	reserved []string
}

type CodeOption func(*CodeElement)

func WithIndent(n int) CodeOption { return func(e *CodeElement) { e.indent = n } }

// WithCSE toggles common subexpression elimination. It is on by default.
func WithCSE(on bool) CodeOption { return func(e *CodeElement) { e.cse = on } }

// WithClear toggles the clear statement for temporaries. It is on by
// default.
func WithClear(on bool) CodeOption { return func(e *CodeElement) { e.clear = on } }

func WithRenamer(r Renamer) CodeOption {
	return func(e *CodeElement) { e.printer = NewPrinter(r) }
}

// WithReserved keeps names in use by the surrounding code away from
// temporaries.
func WithReserved(names ...string) CodeOption {
	return func(e *CodeElement) { e.reserved = append(e.reserved, names...) }
}

func NewCodeElement(c *calculation.Calculation, opts ...CodeOption) (*CodeElement, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: code element needs a calculation", calculation.ErrType)
	}
	e := &CodeElement{calc: c, cse: true, clear: true, printer: NewPrinter(nil)}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// OverrideLHS writes every group into the single variable name instead of
// the group's own targets.
func (e *CodeElement) OverrideLHS(name string) *CodeElement {
	e.lhs = name
	return e
}

func (e *CodeElement) GenerateCode() string {
	groups := e.calc.Groups()
	slots, vec := e.calc.ShapeIndexList()
	exprs := vec.Vec()

	var sb strings.Builder
	line := func(s string) {
		sb.WriteString(strings.Repeat("\t", e.indent))
		sb.WriteString(s)
		sb.WriteString(";\n")
	}

	p := e.printer
	var reps []symbolic.Replacement
	if e.cse {
		reps, exprs = symbolic.CSE(exprs, symbolic.WithReserved(e.taken(groups, exprs)...))
		p = e.printer.withTemporaries(reps)
		for _, r := range reps {
			line(p.Name(r.Sym) + " = " + p.Expr(r.Expr))
		}
		if len(reps) > 0 {
			sb.WriteString("\n")
		}
	}

	for i, g := range groups {
		for _, l := range e.assignments(p, g, slots[i], exprs[slots[i].Start:slots[i].End], len(groups) == 1) {
			line(l)
		}
	}

	// Temporaries are shared by every group, so they are cleared once at
	// the end rather than after each group.
	if e.cse && e.clear {
		if len(reps) == 0 {
			// Nothing to clear: the blank line closes the block instead.
			sb.WriteString("\n")
		} else {
			names := make([]string, len(reps))
			for i, r := range reps {
				names[i] = p.Name(r.Sym)
			}
			line("clear " + strings.Join(names, " "))
		}
	}
	return sb.String()
}

// taken lists the printed names temporaries must not shadow.
func (e *CodeElement) taken(groups []calculation.Group, exprs []symbolic.Expr) []string {
	names := append([]string(nil), e.reserved...)
	if e.lhs != "" {
		names = append(names, e.lhs)
	}
	var leaves []symbolic.Expr
	for _, g := range groups {
		leaves = append(leaves, g.Target.Vec()...)
	}
	leaves = append(leaves, exprs...)
	for _, l := range symbolic.FreeLeaves(leaves...) {
		names = append(names, e.printer.Name(l))
	}
	return names
}

// assignments renders one group given its slice of the (possibly reduced)
// expression vector.
func (e *CodeElement) assignments(p *Printer, g calculation.Group, slot calculation.Slot, exprs []symbolic.Expr, only bool) []string {
	block := func() string { return p.Matrix(symbolic.FromVec(slot.Rows, slot.Cols, exprs)) }

	if e.lhs != "" {
		switch {
		case only:
			return []string{e.lhs + " = " + block()}
		case len(exprs) == 1:
			return []string{fmt.Sprintf("%s(%d) = %s", e.lhs, slot.Start+1, p.Expr(exprs[0]))}
		default:
			col := p.Matrix(symbolic.Column(exprs...))
			return []string{fmt.Sprintf("%s(%d:%d) = %s", e.lhs, slot.Start+1, slot.End, col)}
		}
	}

	targets := g.Target.Vec()
	names := make([]string, len(targets))
	for i, t := range targets {
		names[i] = p.Name(t.(symbolic.Leaf))
	}
	switch {
	case len(targets) == 1:
		return []string{names[0] + " = " + block()}
	case len(exprs) == 1:
		// One symbol names the whole block.
		src := p.Expr(exprs[0])
		out := make([]string, len(names))
		for k, n := range names {
			out[k] = n + " = " + src + "(" + strconv.Itoa(k+1) + ")"
		}
		return out
	}
	out := make([]string, len(names))
	for k, n := range names {
		out[k] = n + " = " + p.Expr(exprs[k])
	}
	return out
}
