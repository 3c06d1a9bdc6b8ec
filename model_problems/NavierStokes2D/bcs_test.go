package NavierStokes2D

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/steadyns/FEM2D"
)

func cylinderSpace(t *testing.T, resolution int) *FEM2D.MixedSpace {
	m, err := FEM2D.NewChannelCylinderMesh(FEM2D.DefaultChannelCylinder(resolution))
	require.NoError(t, err)
	ms, err := FEM2D.NewTaylorHoodSpace(m)
	require.NoError(t, err)
	return ms
}

func TestParameters(t *testing.T) {
	p, err := DefaultParameters(20)
	require.NoError(t, err)
	assert.Equal(t, 20., p.Re())
	assert.Equal(t, 0.1, p.D())
	assert.Equal(t, 1., p.Uinf())
	assert.InDelta(t, 0.005, p.Nu(), 1.e-15)
	for _, Re := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err = DefaultParameters(Re)
		assert.True(t, errors.Is(err, ErrUsage), "Re = %g", Re)
	}
	_, err = NewParameters(20, 0, 1)
	assert.ErrorIs(t, err, ErrUsage)
	_, err = NewParameters(20, 0.1, -1)
	assert.ErrorIs(t, err, ErrUsage)
}

func TestBoundaryConditions(t *testing.T) {
	ms := cylinderSpace(t, 2)
	bcs, err := DefaultBoundaryConditions(ms)
	require.NoError(t, err)
	var (
		ls     = ms.V
		fixed  = bcs.Fixed()
		inlet  = ls.BoundaryNodes(FEM2D.RegionInlet)
		wall   = ls.BoundaryNodes(FEM2D.RegionWall)
		outlet = ls.BoundaryNodes(FEM2D.RegionOutlet)
		w      = make([]float64, ms.NDOF)
	)
	bcs.Apply(w)
	for _, n := range wall {
		if ls.X[n] > -0.4+1.e-12 {
			assert.Equal(t, 0., w[2*n])
			assert.Equal(t, 0., w[2*n+1])
		}
		assert.True(t, fixed[2*n] && fixed[2*n+1])
	}
	for _, n := range inlet {
		y := ls.Y[n]
		assert.InDelta(t, 1-(y/0.2)*(y/0.2), w[2*n], 1.e-14)
		assert.Equal(t, 0., w[2*n+1])
	}
	// Outlet nodes away from the walls stay free, so does every pressure
	for _, n := range outlet {
		if math.Abs(ls.Y[n]) < 0.2-1.e-12 {
			assert.False(t, fixed[2*n])
			assert.False(t, fixed[2*n+1])
		}
	}
	for i := ms.NVelocity; i < ms.NDOF; i++ {
		assert.False(t, fixed[i])
	}
	assert.Equal(t, 2*(len(inlet)+len(wall)-2), bcs.Len())

	// Residual rows of pinned unknowns measure the distance to the boundary values
	F := make([]float64, ms.NDOF)
	w[2*inlet[0]] += 0.5
	bcs.ApplyResidual(w, F)
	assert.InDelta(t, 0.5, F[2*inlet[0]], 1.e-14)
	assert.Equal(t, 0., F[2*wall[0]])
	assert.Contains(t, bcs.List(), "inlet")
	assert.Contains(t, bcs.List(), "noslip")

	{ // The later of two overlapping constraints wins
		one := VelocityConstraint{Name: "one", Tag: FEM2D.RegionInlet,
			Value: func(x, y float64) [2]float64 { return [2]float64{1, 1} }}
		two := VelocityConstraint{Name: "two", Tag: FEM2D.RegionInlet,
			Value: func(x, y float64) [2]float64 { return [2]float64{2, 2} }}
		bcs, err := NewBoundaryConditions(ms, ms.Mesh(), one, two)
		require.NoError(t, err)
		w := make([]float64, ms.NDOF)
		bcs.Apply(w)
		for _, n := range inlet {
			assert.Equal(t, 2., w[2*n])
		}
	}
	{ // The inlet profile does not follow the height of a loaded channel
		m, err := FEM2D.NewChannelMesh(0, 1, 0.1, 2, 2)
		require.NoError(t, err)
		narrow, err := FEM2D.NewTaylorHoodSpace(m)
		require.NoError(t, err)
		bcs, err := DefaultBoundaryConditions(narrow)
		require.NoError(t, err)
		w := make([]float64, narrow.NDOF)
		bcs.Apply(w)
		top := narrow.V.NodeAt(0, 0.05, 1.e-12)
		require.GreaterOrEqual(t, top, 0)
		assert.InDelta(t, 1-0.25*0.25, w[2*top], 1.e-14)
	}
	{ // Constraints must name a region present on the mesh
		_, err := NewBoundaryConditions(ms, ms.Mesh(), NoSlip(7))
		assert.ErrorIs(t, err, ErrUsage)
		other := cylinderSpace(t, 1)
		_, err = NewBoundaryConditions(ms, other.Mesh(), NoSlip(FEM2D.RegionWall))
		assert.ErrorIs(t, err, ErrUsage)
	}
}
