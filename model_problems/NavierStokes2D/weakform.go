package NavierStokes2D

import (
	"fmt"

	"github.com/notargets/steadyns/FEM2D"
	"github.com/notargets/steadyns/solvers"
	"github.com/notargets/steadyns/utils"
)

// StressTensor returns T = nu (grad u + grad u^T) - p I, gradU[c][d] = du_c/dx_d
func StressTensor(nu float64, gradU [2][2]float64, p float64) (T [2][2]float64) {
	for c := 0; c < 2; c++ {
		for d := 0; d < 2; d++ {
			T[c][d] = nu * (gradU[c][d] + gradU[d][c])
		}
		T[c][c] -= p
	}
	return
}

// WeakForm evaluates the steady Navier-Stokes residual
//
//	F(w; v, q) = (grad u . u, v) + (T, grad v) - (q, div u)
//
// and its exact linearization on the Taylor-Hood space. The outlet carries
// the natural condition T.n = 0. Pinned velocity rows are replaced by w - g.
type WeakForm struct {
	Space  *FEM2D.MixedSpace
	Params Parameters
	BCs    *BoundaryConditions
	vb, qb *FEM2D.ElementBasis
	asm    FEM2D.Assembler
}

func NewWeakForm(space *FEM2D.MixedSpace, params Parameters, bcs *BoundaryConditions) (wf *WeakForm) {
	// Degree 5 covers the cubic convection integrand exactly
	cub := FEM2D.NewCubature(5)
	wf = &WeakForm{
		Space:  space,
		Params: params,
		BCs:    bcs,
		vb:     FEM2D.NewElementBasis(space.V, cub),
		qb:     FEM2D.NewElementBasis(space.Q, cub),
		asm:    FEM2D.NewMixedAssembler(space),
	}
	return
}

// pointState holds the fields at one quadrature point
type pointState struct {
	u    [2]float64
	grad [2][2]float64 // grad[c][d] = du_c/dx_d
	p    float64
}

func (wf *WeakForm) evaluate(q int, we []float64) (ps pointState) {
	var (
		vb, qb = wf.vb, wf.qb
	)
	for a := 0; a < 6; a++ {
		for c := 0; c < 2; c++ {
			uac := we[2*a+c]
			ps.u[c] += vb.N[q][a] * uac
			ps.grad[c][0] += vb.Dx[q][a] * uac
			ps.grad[c][1] += vb.Dy[q][a] * uac
		}
	}
	for b := 0; b < 3; b++ {
		ps.p += qb.N[q][b] * we[12+b]
	}
	return
}

func (wf *WeakForm) load(k int, dofs []int, w, we []float64) {
	wf.vb.Evaluate(k)
	wf.qb.Evaluate(k)
	for i, I := range dofs {
		we[i] = w[I]
	}
}

// Residual assembles F(w), pinned rows included
func (wf *WeakForm) Residual(w, F []float64) (err error) {
	if len(w) != wf.Space.NDOF || len(F) != wf.Space.NDOF {
		return fmt.Errorf("residual needs %d unknowns, have state %d and residual %d",
			wf.Space.NDOF, len(w), len(F))
	}
	var (
		nu = wf.Params.Nu()
		we = make([]float64, 15)
	)
	wf.asm.Vector(F, func(k int, dofs []int, Fe []float64) {
		wf.load(k, dofs, w, we)
		vb, qb := wf.vb, wf.qb
		for q := 0; q < vb.Nq(); q++ {
			var (
				ps = wf.evaluate(q, we)
				T  = StressTensor(nu, ps.grad, ps.p)
				W  = vb.W[q]
			)
			for a := 0; a < 6; a++ {
				dphi := [2]float64{vb.Dx[q][a], vb.Dy[q][a]}
				for c := 0; c < 2; c++ {
					conv := ps.grad[c][0]*ps.u[0] + ps.grad[c][1]*ps.u[1]
					Fe[2*a+c] += W * (conv*vb.N[q][a] + T[c][0]*dphi[0] + T[c][1]*dphi[1])
				}
			}
			div := ps.grad[0][0] + ps.grad[1][1]
			for b := 0; b < 3; b++ {
				Fe[12+b] -= W * qb.N[q][b] * div
			}
		}
	})
	wf.BCs.ApplyResidual(w, F)
	return
}

// Jacobian assembles dF/dw at w
func (wf *WeakForm) Jacobian(w []float64) (J utils.CSR, err error) {
	if len(w) != wf.Space.NDOF {
		err = fmt.Errorf("jacobian needs %d unknowns, have %d", wf.Space.NDOF, len(w))
		return
	}
	var (
		nu = wf.Params.Nu()
		we = make([]float64, 15)
	)
	J = wf.asm.Matrix("Jacobian", wf.BCs.Fixed(), func(k int, dofs []int, Ke [][]float64) {
		wf.load(k, dofs, w, we)
		vb, qb := wf.vb, wf.qb
		for q := 0; q < vb.Nq(); q++ {
			var (
				ps = wf.evaluate(q, we)
				W  = vb.W[q]
			)
			for a := 0; a < 6; a++ {
				var (
					phiA  = vb.N[q][a]
					dphiA = [2]float64{vb.Dx[q][a], vb.Dy[q][a]}
				)
				for e := 0; e < 6; e++ {
					var (
						phiE  = vb.N[q][e]
						dphiE = [2]float64{vb.Dx[q][e], vb.Dy[q][e]}
						adv   = ps.u[0]*dphiE[0] + ps.u[1]*dphiE[1]
						lap   = dphiE[0]*dphiA[0] + dphiE[1]*dphiA[1]
					)
					for c := 0; c < 2; c++ {
						for f := 0; f < 2; f++ {
							val := phiA*phiE*ps.grad[c][f] + nu*dphiE[c]*dphiA[f]
							if c == f {
								val += phiA*adv + nu*lap
							}
							Ke[2*a+c][2*e+f] += W * val
						}
					}
				}
				for g := 0; g < 3; g++ {
					for c := 0; c < 2; c++ {
						v := -W * qb.N[q][g] * dphiA[c]
						Ke[2*a+c][12+g] += v
						Ke[12+g][2*a+c] += v
					}
				}
			}
		}
	})
	return
}

// Directional returns J(w) dw
func (wf *WeakForm) Directional(w, dw []float64) (Jdw []float64, err error) {
	var (
		J utils.CSR
	)
	if J, err = wf.Jacobian(w); err != nil {
		return
	}
	Jdw = J.MulVec(dw, nil)
	return
}

// Divergence returns (q, div u) for every pressure test function
func (wf *WeakForm) Divergence(w []float64) (b []float64) {
	var (
		ms   = wf.Space
		F    = make([]float64, ms.NDOF)
		nvel = ms.NVelocity
	)
	we := make([]float64, 15)
	wf.asm.Vector(F, func(k int, dofs []int, Fe []float64) {
		wf.load(k, dofs, w, we)
		for q := 0; q < wf.vb.Nq(); q++ {
			ps := wf.evaluate(q, we)
			div := ps.grad[0][0] + ps.grad[1][1]
			for b := 0; b < 3; b++ {
				Fe[12+b] += wf.vb.W[q] * wf.qb.N[q][b] * div
			}
		}
	})
	return F[nvel:]
}

func (wf *WeakForm) ResidualFunc() solvers.ResidualFunc { return wf.Residual }

func (wf *WeakForm) JacobianFunc() solvers.JacobianFunc { return wf.Jacobian }
