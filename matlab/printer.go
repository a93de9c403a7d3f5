// Package matlab renders symbolic expressions and calculations as MATLAB
// source and assembles them into .m files.
package matlab

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/njchilds90/symgen/symbolic"
)

// Renamer maps a leaf key to the identifier printed for it.
type Renamer interface {
	Printable(key string) (string, bool)
}

// Printer writes element-wise MATLAB syntax. Products and powers use the
// dotted operators so generated code works on arrays as well as scalars.
type Printer struct {
	renamer Renamer
}

// NewPrinter returns a printer that consults r for leaf names. r may be nil.
func NewPrinter(r Renamer) *Printer { return &Printer{renamer: r} }

const (
	precAdd = iota + 1
	precMul
	precPow
	precAtom
)

// maxDenominator bounds the rationals printed as p/q; larger denominators
// come from float input and are printed as floats.
const maxDenominator = 1000000

func (p *Printer) Expr(e symbolic.Expr) string {
	s, _ := p.expr(e)
	return s
}

// Matrix prints m as a MATLAB matrix literal. A 1x1 matrix is printed as its
// element.
func (p *Printer) Matrix(m *symbolic.Matrix) string {
	if m.Len() == 0 {
		return "zeros(" + strconv.Itoa(m.Rows()) + ", " + strconv.Itoa(m.Cols()) + ")"
	}
	if m.Len() == 1 {
		return p.Expr(m.Get(0, 0))
	}
	var sb strings.Builder
	sb.WriteString("[")
	for i := 0; i < m.Rows(); i++ {
		if i > 0 {
			sb.WriteString("; ")
		}
		for j := 0; j < m.Cols(); j++ {
			if j > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(p.Expr(m.Get(i, j)))
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// temporaries prints CSE temporaries under their own names and defers
// every other key to next.
type temporaries struct {
	keys map[string]bool
	next Renamer
}

func (t temporaries) Printable(key string) (string, bool) {
	if t.keys[key] {
		return key, true
	}
	if t.next == nil {
		return "", false
	}
	return t.next.Printable(key)
}

// withTemporaries returns a printer that never renames the symbols
// introduced by reps.
func (p *Printer) withTemporaries(reps []symbolic.Replacement) *Printer {
	if len(reps) == 0 {
		return p
	}
	keys := make(map[string]bool, len(reps))
	for _, r := range reps {
		keys[r.Sym.Key()] = true
	}
	return NewPrinter(temporaries{keys: keys, next: p.renamer})
}

// Name prints a leaf.
func (p *Printer) Name(l symbolic.Leaf) string {
	if p.renamer != nil {
		if s, ok := p.renamer.Printable(l.Key()); ok {
			return s
		}
	}
	if f, ok := l.(*symbolic.TimeFunc); ok {
		return timeFuncName(f)
	}
	return l.Key()
}

func timeFuncName(f *symbolic.TimeFunc) string {
	if f.Order() == 0 {
		return f.Name()
	}
	return f.Name() + strings.Repeat("d", f.Order()) + "ot"
}

// expr returns the printed form and its precedence.
func (p *Printer) expr(e symbolic.Expr) (string, int) {
	switch v := e.(type) {
	case *symbolic.Num:
		return p.num(v)
	case symbolic.Leaf:
		return p.Name(v), precAtom
	case *symbolic.Add:
		return p.add(v), precAdd
	case *symbolic.Mul:
		c, rest := symbolic.Coeff(v)
		return p.mul(c, rest)
	case *symbolic.Pow:
		return p.pow(v)
	case *symbolic.Func:
		return funcName(v.FuncName()) + "(" + p.Expr(v.Arg()) + ")", precAtom
	}
	return e.String(), precAtom
}

func funcName(name string) string {
	if name == "ln" {
		return "log"
	}
	return name
}

func (p *Printer) num(n *symbolic.Num) (string, int) {
	r := n.Rat()
	prec := precAtom
	if r.Sign() < 0 {
		prec = precAdd
	}
	if r.IsInt() {
		return r.Num().String(), prec
	}
	if r.Denom().Cmp(big.NewInt(maxDenominator)) <= 0 {
		return r.Num().String() + "/" + r.Denom().String(), precMul
	}
	f, _ := r.Float64()
	return strconv.FormatFloat(f, 'g', -1, 64), prec
}

// wrap parenthesises s when its precedence is below min.
func wrap(s string, prec, min int) string {
	if prec < min {
		return "(" + s + ")"
	}
	return s
}

func (p *Printer) add(a *symbolic.Add) string {
	var sb strings.Builder
	for i, t := range a.Terms() {
		c, rest := symbolic.Coeff(t)
		negative := c.IsNegative()
		if negative {
			c = c.Neg()
		}
		var s string
		if _, isNum := t.(*symbolic.Num); isNum {
			s, _ = p.num(c)
		} else {
			s, _ = p.mul(c, rest)
		}
		switch {
		case i == 0 && negative:
			sb.WriteString("-" + s)
		case i == 0:
			sb.WriteString(s)
		case negative:
			sb.WriteString(" - " + s)
		default:
			sb.WriteString(" + " + s)
		}
	}
	return sb.String()
}

// mul prints c times the product of factors, moving factors with negative
// numeric exponents below a division.
func (p *Printer) mul(c *symbolic.Num, factors []symbolic.Expr) (string, int) {
	sign := ""
	if c.IsNegative() {
		sign = "-"
		c = c.Neg()
	}
	var num, den []string
	numIsNumeric := false
	r := c.Rat()
	if r.IsInt() || r.Denom().Cmp(big.NewInt(maxDenominator)) <= 0 {
		if r.Num().Cmp(big.NewInt(1)) != 0 || len(factors) == 0 {
			num = append(num, r.Num().String())
			numIsNumeric = true
		}
		if !r.IsInt() {
			den = append(den, r.Denom().String())
		}
	} else {
		s, _ := p.num(c)
		num = append(num, s)
		numIsNumeric = true
	}
	symbolicDen := false
	for _, f := range factors {
		if pw, ok := f.(*symbolic.Pow); ok {
			if en, ok := pw.ExpExpr().(*symbolic.Num); ok && en.IsNegative() {
				s, prec := p.expr(symbolic.PowOf(pw.Base(), en.Neg()))
				den = append(den, wrap(s, prec, precPow))
				symbolicDen = true
				continue
			}
		}
		s, prec := p.expr(f)
		num = append(num, wrap(s, prec, precMul))
	}

	var sb strings.Builder
	sb.WriteString(sign)
	if len(num) == 0 {
		sb.WriteString("1")
	}
	for i, s := range num {
		if i > 0 {
			if i == 1 && numIsNumeric {
				sb.WriteString("*")
			} else {
				sb.WriteString(".*")
			}
		}
		sb.WriteString(s)
	}
	switch {
	case len(den) == 1 && !symbolicDen:
		sb.WriteString("/" + den[0])
	case len(den) == 1:
		sb.WriteString("./" + den[0])
	case len(den) > 1:
		sb.WriteString("./(" + strings.Join(den, ".*") + ")")
	}
	prec := precMul
	if sign != "" {
		prec = precAdd
	}
	return sb.String(), prec
}

func (p *Printer) pow(pw *symbolic.Pow) (string, int) {
	base, bprec := p.expr(pw.Base())
	if en, ok := pw.ExpExpr().(*symbolic.Num); ok {
		switch {
		case en.Equal(symbolic.F(1, 2)):
			return "sqrt(" + base + ")", precAtom
		case en.Equal(symbolic.F(-1, 2)):
			return "1./sqrt(" + base + ")", precMul
		case en.IsNegative():
			s, prec := p.expr(symbolic.PowOf(pw.Base(), en.Neg()))
			return "1./" + wrap(s, prec, precPow), precMul
		}
	}
	exp, eprec := p.expr(pw.ExpExpr())
	return wrap(base, bprec, precAtom) + ".^" + wrap(exp, eprec, precAtom), precPow
}
