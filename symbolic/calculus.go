package symbolic

// ============================================================
// Top-level convenience functions
// ============================================================

func Simplify(e Expr) Expr { return e.Simplify() }
func String(e Expr) string { return e.String() }
func LaTeX(e Expr) string  { return e.LaTeX() }

// Subs applies s to expr simultaneously and simplifies the result.
func Subs(expr Expr, s Substitution) Expr {
	return expr.Subs(s).Simplify()
}

// Sub replaces a single leaf.
func Sub(expr Expr, key string, value Expr) Expr {
	return Subs(expr, Substitution{key: value})
}

func Diff(expr Expr, key string) Expr {
	return expr.Diff(key).Simplify()
}

func DiffN(expr Expr, key string, n int) Expr {
	result := expr
	for i := 0; i < n; i++ {
		result = Diff(result, key)
	}
	return result
}

// ============================================================
// Jacobian
// ============================================================

// Jacobian returns the len(f) x len(wrt) matrix of partial derivatives of
// the column-major entries of f.
func Jacobian(f *Matrix, wrt []Leaf) *Matrix {
	exprs := f.Vec()
	mat := NewMatrix(len(exprs), len(wrt))
	for i, e := range exprs {
		for j, v := range wrt {
			mat.Set(i, j, Diff(e, v.Key()))
		}
	}
	return mat
}

// ============================================================
// Free leaves
// ============================================================

// FreeLeaves lists the leaves of exprs depth-first, each once, in the order
// they are first seen.
func FreeLeaves(exprs ...Expr) []Leaf {
	seen := map[string]struct{}{}
	var out []Leaf
	var walk func(Expr)
	walk = func(e Expr) {
		if l, ok := e.(Leaf); ok {
			if _, dup := seen[l.Key()]; !dup {
				seen[l.Key()] = struct{}{}
				out = append(out, l)
			}
			return
		}
		for _, a := range args(e) {
			walk(a)
		}
	}
	for _, e := range exprs {
		walk(e)
	}
	return out
}

// Contains reports whether the leaf with the given key occurs in e.
func Contains(e Expr, key string) bool {
	if l, ok := e.(Leaf); ok {
		return l.Key() == key
	}
	for _, a := range args(e) {
		if Contains(a, key) {
			return true
		}
	}
	return false
}

// args returns the direct children of e. Atoms have none.
func args(e Expr) []Expr {
	switch v := e.(type) {
	case *Add:
		return v.terms
	case *Mul:
		return v.factors
	case *Pow:
		return []Expr{v.base, v.exp}
	case *Func:
		return []Expr{v.arg}
	}
	return nil
}

// rebuild returns a node of e's kind with the given children, without
// simplifying, so the shape of an already simplified tree is preserved.
func rebuild(e Expr, children []Expr) Expr {
	switch v := e.(type) {
	case *Add:
		return &Add{terms: children}
	case *Mul:
		return &Mul{factors: children}
	case *Pow:
		return &Pow{base: children[0], exp: children[1]}
	case *Func:
		return &Func{name: v.name, arg: children[0]}
	}
	return e
}
