package solvers

import (
	"fmt"

	"github.com/notargets/steadyns/utils"
)

// LinearSolver solves A*x = b
type LinearSolver interface {
	Solve(A utils.CSR, b, x []float64) error
}

// BandLUSolver factors each matrix with a banded LU after a reverse
// Cuthill-McKee reordering. The ordering is recomputed only when the
// size or number of nonzeros of the matrix changes.
type BandLUSolver struct {
	Verbose  bool
	perm     utils.Permutation
	n, nnz   int
	havePerm bool
}

func NewBandLUSolver(verbose bool) *BandLUSolver {
	return &BandLUSolver{Verbose: verbose}
}

func (s *BandLUSolver) Solve(A utils.CSR, b, x []float64) (err error) {
	var (
		n, _ = A.Dims()
		lu   *utils.BandLU
	)
	if !s.havePerm || n != s.n || A.NNZ() != s.nnz {
		adj := A.Adjacency()
		s.perm = utils.ReverseCuthillMcKee(adj)
		s.n, s.nnz, s.havePerm = n, A.NNZ(), true
		if s.Verbose {
			kl0, _ := utils.Bandwidth(adj, utils.NewIdentityPermutation(n))
			kl, _ := utils.Bandwidth(adj, s.perm)
			fmt.Printf("Reordered %d unknowns, bandwidth %d -> %d\n", n, kl0, kl)
		}
	}
	if lu, err = utils.NewBandLU(A, s.perm); err != nil {
		return fmt.Errorf("factoring %s: %w", A.Name(), err)
	}
	lu.SolveVec(b, x)
	return
}
