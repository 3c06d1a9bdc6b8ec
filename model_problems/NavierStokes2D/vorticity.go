package NavierStokes2D

import (
	"fmt"

	"github.com/notargets/steadyns/FEM2D"
	"github.com/notargets/steadyns/utils"
)

// ComputeVorticity projects du_x/dy - du_y/dx of the velocity in w onto the
// linear space in the L2 sense, solving M omega = b with the P1 mass matrix
func ComputeVorticity(space *FEM2D.MixedSpace, w []float64) (omega []float64, err error) {
	if len(w) != space.NDOF {
		err = fmt.Errorf("%w: state has %d unknowns, space has %d", ErrUsage, len(w), space.NDOF)
		return
	}
	var (
		// Mass and load integrands are both quadratic
		cub = FEM2D.NewCubature(2)
		vb  = FEM2D.NewElementBasis(space.V, cub)
		qb  = FEM2D.NewElementBasis(space.Q, cub)
		asm = FEM2D.NewScalarAssembler(space.Q)
		b   = make([]float64, space.Q.NNodes)
		ux  = make([]float64, 6)
		uy  = make([]float64, 6)
	)
	M := asm.Matrix("P1 mass", nil, func(k int, dofs []int, Ke [][]float64) {
		qb.Evaluate(k)
		for q := 0; q < qb.Nq(); q++ {
			for i := range dofs {
				for j := range dofs {
					Ke[i][j] += qb.W[q] * qb.N[q][i] * qb.N[q][j]
				}
			}
		}
	})
	asm.Vector(b, func(k int, dofs []int, Fe []float64) {
		vb.Evaluate(k)
		qb.Evaluate(k)
		for a, n := range space.V.ElemNodes[k] {
			ux[a], uy[a] = w[space.VelocityDOF(n, 0)], w[space.VelocityDOF(n, 1)]
		}
		for q := 0; q < vb.Nq(); q++ {
			_, duxdy := vb.Gradient(q, ux)
			duydx, _ := vb.Gradient(q, uy)
			curl := duxdy - duydx
			for i := range dofs {
				Fe[i] += qb.W[q] * qb.N[q][i] * curl
			}
		}
	})
	if omega, err = utils.SolveSPD(M, utils.ReverseCuthillMcKee(M.Adjacency()), b); err != nil {
		err = &LinearSolveError{Stage: "vorticity projection", Err: err}
	}
	return
}
