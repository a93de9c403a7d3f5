package system

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/njchilds90/symgen/symbolic"
)

// DefaultCacheSize bounds the number of partial derivatives a Jacobians
// memo keeps.
const DefaultCacheSize = 4096

type partial struct {
	expr string
	wrt  string
}

// Jacobians builds Jacobian matrices and remembers every partial
// derivative it computed. Linearising the same equations around a new
// operating point then only costs the substitution.
type Jacobians struct {
	cache *lru.Cache[partial, symbolic.Expr]
}

func NewJacobians(size int) (*Jacobians, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[partial, symbolic.Expr](size)
	if err != nil {
		return nil, fmt.Errorf("creating derivative cache: %w", err)
	}
	return &Jacobians{cache: c}, nil
}

// Of returns the len(f) x len(wrt) matrix of partial derivatives.
func (j *Jacobians) Of(f []symbolic.Expr, wrt []symbolic.Leaf) *symbolic.Matrix {
	m := symbolic.NewMatrix(len(f), len(wrt))
	for r, e := range f {
		key := e.String()
		for c, v := range wrt {
			k := partial{expr: key, wrt: v.Key()}
			d, ok := j.cache.Get(k)
			if !ok {
				d = symbolic.Diff(e, v.Key())
				j.cache.Add(k, d)
			}
			m.Set(r, c, d)
		}
	}
	return m
}

// Len is the number of cached partial derivatives.
func (j *Jacobians) Len() int { return j.cache.Len() }
