package FEM2D

import (
	"github.com/notargets/steadyns/utils"
)

// Assembler scatters element vectors and matrices into global ones
type Assembler struct {
	NDOF, K int
	Nloc    int
	DOFs    func(k int, dofs []int) []int
}

func NewMixedAssembler(ms *MixedSpace) Assembler {
	return Assembler{
		NDOF: ms.NDOF,
		K:    ms.Mesh().K(),
		Nloc: 15,
		DOFs: ms.ElementDOFs,
	}
}

func NewScalarAssembler(ls *LagrangeSpace) Assembler {
	return Assembler{
		NDOF: ls.NNodes,
		K:    ls.mesh.K(),
		Nloc: ls.Np,
		DOFs: func(k int, dofs []int) []int {
			return append(dofs[:0], ls.ElemNodes[k]...)
		},
	}
}

// Vector adds every element contribution into F, F is zeroed first
func (as Assembler) Vector(F []float64, kernel func(k int, dofs []int, Fe []float64)) {
	var (
		dofs = make([]int, as.Nloc)
		Fe   = make([]float64, as.Nloc)
	)
	for i := range F {
		F[i] = 0
	}
	for k := 0; k < as.K; k++ {
		dofs = as.DOFs(k, dofs)
		for i := range Fe {
			Fe[i] = 0
		}
		kernel(k, dofs, Fe)
		for i, I := range dofs {
			F[I] += Fe[i]
		}
	}
}

// Matrix assembles a sparse matrix, rows flagged in mask are replaced by identity rows
func (as Assembler) Matrix(name string, mask []bool, kernel func(k int, dofs []int, Ke [][]float64)) utils.CSR {
	var (
		dofs = make([]int, as.Nloc)
		Ke   = make([][]float64, as.Nloc)
		A    = utils.NewDOK(as.NDOF, as.NDOF, mask)
	)
	A.SetName(name)
	for i := range Ke {
		Ke[i] = make([]float64, as.Nloc)
	}
	for k := 0; k < as.K; k++ {
		dofs = as.DOFs(k, dofs)
		for i := range Ke {
			for j := range Ke[i] {
				Ke[i][j] = 0
			}
		}
		kernel(k, dofs, Ke)
		A.AddBlock(dofs, dofs, Ke)
	}
	return A.ToCSR()
}
