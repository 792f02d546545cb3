package core

import "math"

// ONB is an orthonormal basis used to rotate locally generated samples
// into world space around a given axis
type ONB struct {
	U, V, W Vec3
}

// NewONBFromW builds a right-handed basis whose W axis is the normalized n
func NewONBFromW(n Vec3) ONB {
	w := n.Normalize()
	var a Vec3
	if math.Abs(w.X) > 0.9 {
		a = NewVec3(0, 1, 0)
	} else {
		a = NewVec3(1, 0, 0)
	}
	v := w.Cross(a).Normalize()
	u := w.Cross(v)
	return ONB{U: u, V: v, W: w}
}

// Local maps local coordinates (a, b, c) to a*U + b*V + c*W
func (o ONB) Local(a, b, c float64) Vec3 {
	return o.U.Multiply(a).Add(o.V.Multiply(b)).Add(o.W.Multiply(c))
}

// LocalVec maps a vector expressed in the basis to world space
func (o ONB) LocalVec(a Vec3) Vec3 {
	return o.Local(a.X, a.Y, a.Z)
}
