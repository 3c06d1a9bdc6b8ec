package FEM2D

import (
	"fmt"
)

// ElementBasis evaluates a space's shape functions at the quadrature points
// of one element at a time. Reference values are computed once, Evaluate
// maps gradients and weights onto element k through its affine Jacobian.
type ElementBasis struct {
	Space  *LagrangeSpace
	Cub    Cubature
	N      [][]float64 // [q][a], identical on every element
	Dx, Dy [][]float64 // [q][a] physical gradients on the current element
	W      []float64   // Physical quadrature weights
	X, Y   []float64   // Physical quadrature points
	Det    float64
	nr, ns [][]float64
}

func NewElementBasis(space *LagrangeSpace, cub Cubature) (eb *ElementBasis) {
	eb = &ElementBasis{
		Space: space,
		Cub:   cub,
		N:     make([][]float64, cub.Nq),
		Dx:    make([][]float64, cub.Nq),
		Dy:    make([][]float64, cub.Nq),
		W:     make([]float64, cub.Nq),
		X:     make([]float64, cub.Nq),
		Y:     make([]float64, cub.Nq),
		nr:    make([][]float64, cub.Nq),
		ns:    make([][]float64, cub.Nq),
	}
	for q := 0; q < cub.Nq; q++ {
		eb.N[q], eb.nr[q], eb.ns[q] = ShapeFunctions(space.Order, cub.R[q], cub.S[q])
		eb.Dx[q] = make([]float64, space.Np)
		eb.Dy[q] = make([]float64, space.Np)
	}
	return
}

func (eb *ElementBasis) Np() int { return eb.Space.Np }
func (eb *ElementBasis) Nq() int { return eb.Cub.Nq }

// Evaluate loads element k
func (eb *ElementBasis) Evaluate(k int) {
	var (
		m      = eb.Space.mesh
		v      = m.EToV[k]
		x0, y0 = m.VX[v[0]], m.VY[v[0]]
		xr, yr = m.VX[v[1]] - x0, m.VY[v[1]] - y0
		xs, ys = m.VX[v[2]] - x0, m.VY[v[2]] - y0
	)
	eb.Det = xr*ys - xs*yr
	if eb.Det <= 0 {
		panic(fmt.Errorf("element %d has non-positive Jacobian %g", k, eb.Det))
	}
	rdet := 1. / eb.Det
	for q := 0; q < eb.Cub.Nq; q++ {
		r, s := eb.Cub.R[q], eb.Cub.S[q]
		eb.X[q], eb.Y[q] = x0+xr*r+xs*s, y0+yr*r+ys*s
		eb.W[q] = eb.Cub.W[q] * eb.Det
		for a := range eb.nr[q] {
			eb.Dx[q][a] = (ys*eb.nr[q][a] - yr*eb.ns[q][a]) * rdet
			eb.Dy[q][a] = (-xs*eb.nr[q][a] + xr*eb.ns[q][a]) * rdet
		}
	}
}

// Gradient returns the gradient at quadrature point q of the field with element values ue
func (eb *ElementBasis) Gradient(q int, ue []float64) (gx, gy float64) {
	for a, u := range ue {
		gx += eb.Dx[q][a] * u
		gy += eb.Dy[q][a] * u
	}
	return
}

// Value returns the field with element values ue at quadrature point q
func (eb *ElementBasis) Value(q int, ue []float64) (u float64) {
	for a, ua := range ue {
		u += eb.N[q][a] * ua
	}
	return
}
