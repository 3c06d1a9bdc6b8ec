package NavierStokes2D

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/steadyns/FEM2D"
)

func TestStressTensor(t *testing.T) {
	gradU := [2][2]float64{{1, 2}, {3, 4}}
	T := StressTensor(0.5, gradU, 10)
	assert.Equal(t, [2][2]float64{{1 - 10, 2.5}, {2.5, 4 - 10}}, T)
	// Symmetric for any velocity gradient
	T = StressTensor(0.01, [2][2]float64{{0, 7}, {-3, 0}}, 0)
	assert.Equal(t, T[0][1], T[1][0])
}

func newTestForm(t *testing.T, resolution int, Re float64) *WeakForm {
	ms := cylinderSpace(t, resolution)
	params, err := DefaultParameters(Re)
	require.NoError(t, err)
	bcs, err := DefaultBoundaryConditions(ms)
	require.NoError(t, err)
	return NewWeakForm(ms, params, bcs)
}

func TestJacobianMatchesDifferences(t *testing.T) {
	var (
		wf  = newTestForm(t, 1, 10)
		n   = wf.Space.NDOF
		rng = rand.New(rand.NewSource(12))
		w   = make([]float64, n)
		dw  = make([]float64, n)
	)
	for i := range w {
		w[i], dw[i] = 2*rng.Float64()-1, 2*rng.Float64()-1
	}
	Jdw, err := wf.Directional(w, dw)
	require.NoError(t, err)
	// The residual is quadratic in w so central differences are exact up to roundoff
	var (
		h      = 1.e-3
		wp, wm = make([]float64, n), make([]float64, n)
		Fp, Fm = make([]float64, n), make([]float64, n)
	)
	floats.AddScaledTo(wp, w, h, dw)
	floats.AddScaledTo(wm, w, -h, dw)
	require.NoError(t, wf.Residual(wp, Fp))
	require.NoError(t, wf.Residual(wm, Fm))
	fd := make([]float64, n)
	floats.SubTo(fd, Fp, Fm)
	floats.Scale(1/(2*h), fd)
	scale := floats.Norm(Jdw, math.Inf(1))
	for i := range fd {
		assert.InDelta(t, fd[i], Jdw[i], 1.e-8*scale, "row %d", i)
	}
	// Pinned rows are identity rows
	for _, eq := range wf.BCs.Eqs {
		assert.InDelta(t, dw[eq], Jdw[eq], 1.e-14)
	}

	_, err = wf.Jacobian(w[1:])
	assert.Error(t, err)
	assert.Error(t, wf.Residual(w, Fp[1:]))
}

func TestResidualOfRestState(t *testing.T) {
	wf := newTestForm(t, 1, 20)
	var (
		n = wf.Space.NDOF
		w = make([]float64, n)
		F = make([]float64, n)
	)
	// A state at rest with constant pressure only violates the inlet rows
	for i := wf.Space.NVelocity; i < n; i++ {
		w[i] = 3
	}
	require.NoError(t, wf.Residual(w, F))
	fixed := wf.BCs.Fixed()
	for i, eq := range wf.BCs.Eqs {
		assert.Equal(t, -wf.BCs.Vals[i], F[eq])
	}
	// Momentum rows reduce to -(p, div v), which vanishes for a constant
	// pressure unless v reaches the open outlet
	outlet := make(map[int]bool)
	for _, n := range wf.Space.V.BoundaryNodes(FEM2D.RegionOutlet) {
		outlet[n] = true
	}
	for i := 0; i < wf.Space.NVelocity; i++ {
		if !fixed[i] && !outlet[i/2] {
			assert.InDelta(t, 0., F[i], 1.e-12, "row %d", i)
		}
	}
	for _, d := range wf.Divergence(w) {
		assert.Equal(t, 0., d)
	}
}
