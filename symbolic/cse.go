package symbolic

import "strconv"

// ============================================================
// Common subexpression elimination
// ============================================================

// Replacement binds a temporary symbol to the subexpression it stands for.
type Replacement struct {
	Sym  *Sym
	Expr Expr
}

type cseConfig struct {
	prefix   string
	reserved map[string]struct{}
}

type CSEOption func(*cseConfig)

// WithPrefix sets the temporary name prefix. The default is "x".
func WithPrefix(prefix string) CSEOption {
	return func(c *cseConfig) { c.prefix = prefix }
}

// WithReserved keeps the given names from being used for temporaries.
func WithReserved(names ...string) CSEOption {
	return func(c *cseConfig) {
		for _, n := range names {
			c.reserved[n] = struct{}{}
		}
	}
}

// CSE finds every subexpression that occurs more than once across exprs and
// replaces it by a temporary. Replacements are returned in dependency
// order: each one only refers to leaves and earlier temporaries. Names
// already taken by a leaf of exprs are never used.
func CSE(exprs []Expr, opts ...CSEOption) ([]Replacement, []Expr) {
	cfg := &cseConfig{prefix: "x", reserved: map[string]struct{}{}}
	for _, opt := range opts {
		opt(cfg)
	}
	for _, l := range FreeLeaves(exprs...) {
		cfg.reserved[l.Key()] = struct{}{}
	}

	seen := map[string]bool{}
	repeated := map[string]bool{}
	var find func(Expr)
	find = func(e Expr) {
		if isCandidate(e) {
			k := e.String()
			if seen[k] {
				repeated[k] = true
				return
			}
			seen[k] = true
		}
		for _, a := range args(e) {
			find(a)
		}
	}
	for _, e := range exprs {
		find(e)
	}

	var reps []Replacement
	memo := map[string]Expr{}
	counter := 0
	nextName := func() string {
		for {
			name := cfg.prefix + strconv.Itoa(counter)
			counter++
			if _, taken := cfg.reserved[name]; !taken {
				return name
			}
		}
	}
	var replace func(Expr) Expr
	replace = func(e Expr) Expr {
		children := args(e)
		if len(children) == 0 {
			return e
		}
		k := e.String()
		if done, ok := memo[k]; ok {
			return done
		}
		changed := false
		next := make([]Expr, len(children))
		for i, c := range children {
			next[i] = replace(c)
			if next[i] != c {
				changed = true
			}
		}
		node := e
		if changed {
			node = rebuild(e, next)
		}
		if repeated[k] {
			sym := S(nextName())
			reps = append(reps, Replacement{Sym: sym, Expr: node})
			memo[k] = sym
			return sym
		}
		memo[k] = node
		return node
	}
	reduced := make([]Expr, len(exprs))
	for i, e := range exprs {
		reduced[i] = replace(e)
	}
	return reps, reduced
}

// isCandidate excludes atoms and negated or scaled leaves, which are no
// shorter as a temporary.
func isCandidate(e Expr) bool {
	switch v := e.(type) {
	case *Num, Leaf:
		return false
	case *Mul:
		if len(v.factors) == 2 {
			_, isNum := v.factors[0].(*Num)
			_, isLeaf := v.factors[1].(Leaf)
			return !(isNum && isLeaf)
		}
	}
	return true
}
