package symbolic

// ============================================================
// Rotation matrices
// ============================================================

// RotationX is the rotation by angle about the x axis.
func RotationX(angle Expr) *Matrix {
	c, s := CosOf(angle), SinOf(angle)
	return RowsOf(
		[]Expr{N(1), N(0), N(0)},
		[]Expr{N(0), c, MulOf(N(-1), s)},
		[]Expr{N(0), s, c},
	)
}

// RotationY is the rotation by angle about the y axis.
func RotationY(angle Expr) *Matrix {
	c, s := CosOf(angle), SinOf(angle)
	return RowsOf(
		[]Expr{c, N(0), s},
		[]Expr{N(0), N(1), N(0)},
		[]Expr{MulOf(N(-1), s), N(0), c},
	)
}

// RotationZ is the rotation by angle about the z axis.
func RotationZ(angle Expr) *Matrix {
	c, s := CosOf(angle), SinOf(angle)
	return RowsOf(
		[]Expr{c, MulOf(N(-1), s), N(0)},
		[]Expr{s, c, N(0)},
		[]Expr{N(0), N(0), N(1)},
	)
}

// Rotation composes rotations about x, y and z, applied in that order:
// Rz * Ry * Rx.
func Rotation(x, y, z Expr) *Matrix {
	return RotationZ(z).MatMul(RotationY(y)).MatMul(RotationX(x))
}
