package symbolic

import (
	"fmt"
	"strings"
)

// Matrix stores its entries row-major. Vec and Reshape use column-major
// order, which is the order MATLAB uses for the same operations.
type Matrix struct {
	rows, cols int
	data       []Expr
}

// NewMatrix returns a rows x cols matrix of zeros.
func NewMatrix(rows, cols int) *Matrix {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("symbolic: negative matrix shape %dx%d", rows, cols))
	}
	data := make([]Expr, rows*cols)
	for k := range data {
		data[k] = N(0)
	}
	return &Matrix{rows: rows, cols: cols, data: data}
}

// MatrixFromSlice fills a rows x cols matrix from row-major entries.
func MatrixFromSlice(rows, cols int, entries []Expr) *Matrix {
	if len(entries) != rows*cols {
		panic(fmt.Sprintf("symbolic: MatrixFromSlice needs %d entries, got %d", rows*cols, len(entries)))
	}
	m := NewMatrix(rows, cols)
	copy(m.data, entries)
	return m
}

// Column builds a column vector.
func Column(entries ...Expr) *Matrix { return MatrixFromSlice(len(entries), 1, entries) }

// RowsOf builds a matrix from row slices of equal length.
func RowsOf(rows ...[]Expr) *Matrix {
	if len(rows) == 0 {
		return NewMatrix(0, 0)
	}
	cols := len(rows[0])
	m := NewMatrix(len(rows), cols)
	for i, r := range rows {
		if len(r) != cols {
			panic(fmt.Sprintf("symbolic: RowsOf row %d has %d entries, want %d", i, len(r), cols))
		}
		copy(m.data[i*cols:], r)
	}
	return m
}

// FromVec fills a rows x cols matrix from column-major entries.
func FromVec(rows, cols int, entries []Expr) *Matrix {
	if len(entries) != rows*cols {
		panic(fmt.Sprintf("symbolic: FromVec needs %d entries, got %d", rows*cols, len(entries)))
	}
	out := NewMatrix(rows, cols)
	for k, e := range entries {
		out.data[out.index(k%rows, k/rows)] = e
	}
	return out
}

func (m *Matrix) index(row, col int) int {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("symbolic: matrix index out of range [%d,%d] for %dx%d", row, col, m.rows, m.cols))
	}
	return row*m.cols + col
}

func (m *Matrix) Get(row, col int) Expr      { return m.data[m.index(row, col)] }
func (m *Matrix) Set(row, col int, val Expr) { m.data[m.index(row, col)] = val }

func (m *Matrix) Rows() int { return m.rows }
func (m *Matrix) Cols() int { return m.cols }
func (m *Matrix) Len() int  { return len(m.data) }

// IsColumn reports whether m has exactly one column.
func (m *Matrix) IsColumn() bool { return m.cols == 1 }

// At indexes the column-major flattening of m.
func (m *Matrix) At(k int) Expr {
	if m.rows == 0 {
		panic(fmt.Sprintf("symbolic: matrix index %d out of range for %dx%d", k, m.rows, m.cols))
	}
	return m.Get(k%m.rows, k/m.rows)
}

// Elements returns the entries in row-major order.
func (m *Matrix) Elements() []Expr { return append([]Expr(nil), m.data...) }

// Vec returns the entries in column-major order.
func (m *Matrix) Vec() []Expr {
	out := make([]Expr, 0, m.Len())
	for j := 0; j < m.cols; j++ {
		for i := 0; i < m.rows; i++ {
			out = append(out, m.data[i*m.cols+j])
		}
	}
	return out
}

// Reshape refills a rows x cols matrix column-major from m's column-major
// entries.
func (m *Matrix) Reshape(rows, cols int) *Matrix {
	if rows*cols != m.Len() {
		panic(fmt.Sprintf("symbolic: cannot reshape %dx%d into %dx%d", m.rows, m.cols, rows, cols))
	}
	return FromVec(rows, cols, m.Vec())
}

// ColJoin stacks other below m. An empty operand yields a copy of the
// other one.
func (m *Matrix) ColJoin(other *Matrix) *Matrix {
	switch {
	case m.Len() == 0:
		return other.Clone()
	case other.Len() == 0:
		return m.Clone()
	case m.cols != other.cols:
		panic("symbolic: matrix column mismatch in ColJoin")
	}
	return MatrixFromSlice(m.rows+other.rows, m.cols, append(m.Elements(), other.data...))
}

func (m *Matrix) Clone() *Matrix { return MatrixFromSlice(m.rows, m.cols, m.data) }

func (m *Matrix) Equal(other *Matrix) bool {
	if other == nil || m.rows != other.rows || m.cols != other.cols {
		return false
	}
	return equalAll(m.data, other.data)
}

// apply returns the matrix of f applied to every entry.
func (m *Matrix) apply(f func(Expr) Expr) *Matrix {
	return &Matrix{rows: m.rows, cols: m.cols, data: mapExprs(m.data, f)}
}

func (m *Matrix) Scale(scalar Expr) *Matrix {
	return m.apply(func(e Expr) Expr { return MulOf(scalar, e) })
}

func (m *Matrix) Transpose() *Matrix {
	out := NewMatrix(m.cols, m.rows)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			out.Set(j, i, m.Get(i, j))
		}
	}
	return out
}

// ApplySubs substitutes into every entry.
func (m *Matrix) ApplySubs(s Substitution) *Matrix {
	return m.apply(func(e Expr) Expr { return e.Subs(s).Simplify() })
}

func (m *Matrix) ApplyDiff(key string) *Matrix {
	return m.apply(func(e Expr) Expr { return e.Diff(key).Simplify() })
}

func (m *Matrix) MatAdd(other *Matrix) *Matrix {
	if m.rows != other.rows || m.cols != other.cols {
		panic("symbolic: matrix dimension mismatch in MatAdd")
	}
	out := &Matrix{rows: m.rows, cols: m.cols, data: make([]Expr, m.Len())}
	for k := range m.data {
		out.data[k] = AddOf(m.data[k], other.data[k])
	}
	return out
}

func (m *Matrix) MatMul(other *Matrix) *Matrix {
	if m.cols != other.rows {
		panic("symbolic: matrix dimension mismatch in MatMul")
	}
	out := NewMatrix(m.rows, other.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < other.cols; j++ {
			terms := make([]Expr, m.cols)
			for k := range terms {
				terms[k] = MulOf(m.Get(i, k), other.Get(k, j))
			}
			out.Set(i, j, AddOf(terms...))
		}
	}
	return out
}

// format joins the entries of each row with colSep and the rows with
// rowSep, wrapping each row in open/close.
func (m *Matrix) format(show func(Expr) string, open, colSep, close, rowSep string) string {
	var sb strings.Builder
	for i := 0; i < m.rows; i++ {
		if i > 0 {
			sb.WriteString(rowSep)
		}
		sb.WriteString(open)
		sb.WriteString(joinTerms(m.data[i*m.cols:(i+1)*m.cols], show, colSep))
		sb.WriteString(close)
	}
	return sb.String()
}

func (m *Matrix) String() string {
	return "[" + m.format(Expr.String, "[", ", ", "]", ", ") + "]"
}

func (m *Matrix) LaTeX() string {
	return `\begin{pmatrix}` + m.format(Expr.LaTeX, "", " & ", "", ` \\ `) + `\end{pmatrix}`
}
