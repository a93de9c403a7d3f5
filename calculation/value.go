package calculation

import (
	"fmt"

	"github.com/njchilds90/symgen/symbolic"
)

// Kind tags the shape of a Value.
type Kind int

const (
	Scalar Kind = iota
	Vector
	Matrix
)

func (k Kind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case Vector:
		return "vector"
	case Matrix:
		return "matrix"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is a scalar expression, a column vector or a matrix. The kind is
// fixed when the value is built; internally every value is a matrix so
// indexing is uniform.
type Value struct {
	kind Kind
	m    *symbolic.Matrix
}

// ScalarOf wraps a single expression.
func ScalarOf(e symbolic.Expr) Value {
	return Value{kind: Scalar, m: symbolic.Column(e)}
}

// VectorOf builds a column vector.
func VectorOf(es ...symbolic.Expr) Value {
	return Value{kind: Vector, m: symbolic.Column(es...)}
}

// MatrixOf wraps m. A single-column matrix is a Vector.
func MatrixOf(m *symbolic.Matrix) Value {
	if m != nil && m.Cols() == 1 {
		return Value{kind: Vector, m: m.Clone()}
	}
	if m != nil {
		m = m.Clone()
	}
	return Value{kind: Matrix, m: m}
}

func (v Value) Kind() Kind { return v.kind }

// Len is the number of elements.
func (v Value) Len() int {
	if v.m == nil {
		return 0
	}
	return v.m.Len()
}

func (v Value) Shape() (rows, cols int) {
	if v.m == nil {
		return 0, 0
	}
	return v.m.Rows(), v.m.Cols()
}

// Matrix returns a copy of the value as a matrix; a scalar is 1x1.
func (v Value) Matrix() *symbolic.Matrix {
	if v.m == nil {
		return symbolic.NewMatrix(0, 0)
	}
	return v.m.Clone()
}

func (v Value) String() string {
	if v.m == nil {
		return "<nil>"
	}
	if v.kind == Scalar {
		return v.m.Get(0, 0).String()
	}
	return v.m.String()
}

func (v Value) valid() bool { return v.m != nil && (v.kind != Scalar || v.m.Len() == 1) }
