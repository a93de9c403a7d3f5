// Package symbolic is the expression kernel behind symgen.
//
// Numbers are exact rationals, simplification is deterministic so that
// generated code is stable between runs, and leaves are addressed by key
// so plain symbols and time-dependent functions share one substitution
// and differentiation path.
package symbolic

// Expr is a simplified, immutable expression tree. Constructors such as
// AddOf and MulOf always return simplified trees.
type Expr interface {
	Simplify() Expr
	String() string
	LaTeX() string
	Subs(s Substitution) Expr
	Diff(key string) Expr
	Equal(other Expr) bool
	node()
}

// Leaf is an atomic, nameable expression: a Sym or a TimeFunc.
// Key identifies the leaf for substitution and differentiation.
type Leaf interface {
	Expr
	Key() string
}

// Substitution maps leaf keys to replacement expressions. It is applied
// simultaneously: replacements are not substituted into each other.
type Substitution map[string]Expr

// Sym is a static symbol.
type Sym struct{ name string }

func S(name string) *Sym { return &Sym{name: name} }

func (s *Sym) Simplify() Expr { return s }
func (s *Sym) String() string { return s.name }
func (s *Sym) LaTeX() string  { return s.name }
func (s *Sym) Key() string    { return s.name }
func (s *Sym) Name() string   { return s.name }
func (s *Sym) node()          {}

func (s *Sym) Equal(other Expr) bool {
	o, ok := other.(*Sym)
	return ok && o.name == s.name
}

func (s *Sym) Subs(sub Substitution) Expr {
	if v, ok := sub[s.name]; ok {
		return v
	}
	return s
}

func (s *Sym) Diff(key string) Expr {
	if key == s.name {
		return N(1)
	}
	return N(0)
}

// parenthesized wraps a sum or product operand in open/close.
func parenthesized(e Expr, s, open, close string) string {
	switch e.(type) {
	case *Add, *Mul:
		return open + s + close
	}
	return s
}
