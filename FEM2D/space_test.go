package FEM2D

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func factorial(n int) float64 {
	f := 1.
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}

func TestCubature(t *testing.T) {
	for _, P := range []int{0, 1, 2, 3, 4, 5} {
		cub := NewCubature(P)
		assert.GreaterOrEqual(t, cub.Degree, P)
		assert.Equal(t, cub.Nq, len(cub.W))
		for i := 0; i <= cub.Degree; i++ {
			for j := 0; i+j <= cub.Degree; j++ {
				var sum float64
				for q := 0; q < cub.Nq; q++ {
					sum += cub.W[q] * math.Pow(cub.R[q], float64(i)) * math.Pow(cub.S[q], float64(j))
				}
				exact := factorial(i) * factorial(j) / factorial(i+j+2)
				assert.InDeltaf(t, exact, sum, 1.e-14, "degree %d rule, r^%d s^%d", cub.Degree, i, j)
			}
		}
	}
	assert.Panics(t, func() { NewCubature(6) })
	assert.Panics(t, func() { NewCubature(-1) })
}

func TestShapeFunctions(t *testing.T) {
	for _, order := range []int{1, 2} {
		R, S := ReferenceNodes(order)
		for i := range R {
			N, _, _ := ShapeFunctions(order, R[i], S[i])
			for a := range N {
				want := 0.
				if a == i {
					want = 1
				}
				assert.InDelta(t, want, N[a], 1.e-14)
			}
		}
		// Partition of unity and derivatives checked by differences
		r, s, h := 0.21, 0.33, 1.e-6
		N, Nr, Ns := ShapeFunctions(order, r, s)
		Np, _, _ := ShapeFunctions(order, r+h, s)
		Nm, _, _ := ShapeFunctions(order, r-h, s)
		Nsp, _, _ := ShapeFunctions(order, r, s+h)
		Nsm, _, _ := ShapeFunctions(order, r, s-h)
		var sum float64
		for a := range N {
			sum += N[a]
			assert.InDelta(t, (Np[a]-Nm[a])/(2*h), Nr[a], 1.e-8)
			assert.InDelta(t, (Nsp[a]-Nsm[a])/(2*h), Ns[a], 1.e-8)
		}
		assert.InDelta(t, 1., sum, 1.e-14)
	}
	assert.Panics(t, func() { ShapeFunctions(3, 0, 0) })
}

func TestLagrangeSpace(t *testing.T) {
	m, err := NewChannelMesh(0, 2, 0.5, 4, 2)
	require.NoError(t, err)
	nEdges := m.Nv() + m.K() - 1
	{
		ls, err := NewLagrangeSpace(m, 1)
		require.NoError(t, err)
		assert.Equal(t, m.Nv(), ls.NNodes)
		assert.Len(t, ls.FaceNodes(0, 0), 2)
	}
	ls, err := NewLagrangeSpace(m, 2)
	require.NoError(t, err)
	assert.Equal(t, m.Nv()+nEdges, ls.NNodes)
	// Midpoint nodes sit halfway along their edges
	for k, nodes := range ls.ElemNodes {
		for f := 0; f < 3; f++ {
			a, b := m.FaceVertices(k, f)
			assert.InDelta(t, 0.5*(m.VX[a]+m.VX[b]), ls.X[nodes[3+f]], 1.e-14)
			assert.InDelta(t, 0.5*(m.VY[a]+m.VY[b]), ls.Y[nodes[3+f]], 1.e-14)
		}
	}
	inlet := ls.BoundaryNodes(RegionInlet)
	assert.Len(t, inlet, 5)
	for _, n := range inlet {
		assert.InDelta(t, 0., ls.X[n], 1.e-14)
	}
	assert.Equal(t, 0, ls.NodeAt(0, -0.5, 1.e-9))
	assert.Equal(t, -1, ls.NodeAt(0.1, 0.1, 1.e-9))

	_, err = NewLagrangeSpace(m, 3)
	assert.Error(t, err)
}

func TestMixedSpace(t *testing.T) {
	m, err := NewChannelCylinderMesh(DefaultChannelCylinder(2))
	require.NoError(t, err)
	ms, err := NewTaylorHoodSpace(m)
	require.NoError(t, err)
	nEdges := m.Nv() + m.K()
	assert.Equal(t, 2*(m.Nv()+nEdges), ms.NVelocity)
	assert.Equal(t, ms.NVelocity+m.Nv(), ms.NDOF)

	dofs := ms.ElementDOFs(3, nil)
	require.Len(t, dofs, 15)
	for a := 0; a < 6; a++ {
		n := ms.V.ElemNodes[3][a]
		assert.Equal(t, 2*n, dofs[2*a])
		assert.Equal(t, 2*n+1, dofs[2*a+1])
	}
	for b := 0; b < 3; b++ {
		assert.Equal(t, ms.NVelocity+m.EToV[3][b], dofs[12+b])
	}

	w := make([]float64, ms.NDOF)
	for i := range w {
		w[i] = float64(i)
	}
	ux, uy, p := ms.Split(w)
	assert.Equal(t, 1., ux[0]+uy[0])
	assert.Equal(t, float64(ms.NVelocity), p[0])
	assert.Equal(t, w, ms.Join(ux, uy, p))
	assert.Panics(t, func() { ms.Split(w[1:]) })
}

func TestElementBasis(t *testing.T) {
	m, err := NewChannelCylinderMesh(DefaultChannelCylinder(2))
	require.NoError(t, err)
	for _, order := range []int{1, 2} {
		ls, err := NewLagrangeSpace(m, order)
		require.NoError(t, err)
		eb := NewElementBasis(ls, NewCubature(2*order))
		var (
			f     = ls.Interpolate(func(x, y float64) float64 { return 2*x - 3*y + 1 })
			fe    = make([]float64, ls.Np)
			area  float64
			total float64
		)
		for k := 0; k < m.K(); k++ {
			eb.Evaluate(k)
			for a, n := range ls.ElemNodes[k] {
				fe[a] = f[n]
			}
			for q := 0; q < eb.Nq(); q++ {
				gx, gy := eb.Gradient(q, fe)
				assert.InDelta(t, 2., gx, 1.e-10)
				assert.InDelta(t, -3., gy, 1.e-10)
				assert.InDelta(t, 2*eb.X[q]-3*eb.Y[q]+1, eb.Value(q, fe), 1.e-12)
				area += eb.W[q]
			}
			assert.InDelta(t, 2*m.Area(k), eb.Det, 1.e-14)
		}
		for k := 0; k < m.K(); k++ {
			total += m.Area(k)
		}
		assert.InDelta(t, total, area, 1.e-12)
	}
}

func TestAssembler(t *testing.T) {
	m, err := NewChannelMesh(0, 2, 0.5, 4, 2)
	require.NoError(t, err)
	ls, err := NewLagrangeSpace(m, 1)
	require.NoError(t, err)
	var (
		eb = NewElementBasis(ls, NewCubature(2))
		as = NewScalarAssembler(ls)
	)
	mass := func(k int, dofs []int, Ke [][]float64) {
		eb.Evaluate(k)
		for q := 0; q < eb.Nq(); q++ {
			for a := range dofs {
				for b := range dofs {
					Ke[a][b] += eb.W[q] * eb.N[q][a] * eb.N[q][b]
				}
			}
		}
	}
	M := as.Matrix("mass", nil, mass)
	ones := make([]float64, ls.NNodes)
	for i := range ones {
		ones[i] = 1
	}
	var sum float64
	for _, v := range M.MulVec(ones, nil) {
		sum += v
	}
	assert.InDelta(t, 2.0, sum, 1.e-12)

	F := make([]float64, ls.NNodes)
	as.Vector(F, func(k int, dofs []int, Fe []float64) {
		eb.Evaluate(k)
		for q := 0; q < eb.Nq(); q++ {
			for a := range dofs {
				Fe[a] += eb.W[q] * eb.N[q][a]
			}
		}
	})
	sum = 0
	for _, v := range F {
		sum += v
	}
	assert.InDelta(t, 2.0, sum, 1.e-12)

	// Masked rows become identity rows
	mask := make([]bool, ls.NNodes)
	mask[0] = true
	Mm := as.Matrix("masked mass", mask, mass)
	assert.Equal(t, 1., Mm.At(0, 0))
	assert.Equal(t, 0., Mm.At(0, 1))
	assert.Equal(t, M.At(1, 0), Mm.At(1, 0))
}
