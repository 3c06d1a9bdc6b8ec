package utils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SolveSPD solves A*x = b for a symmetric positive definite sparse matrix,
// reordered with p and factored in banded form
func SolveSPD(A CSR, p Permutation, b []float64) (x []float64, err error) {
	var (
		n, nc = A.Dims()
		k     int
		ch    mat.BandCholesky
	)
	if n != nc || p.Len() != n || len(b) != n {
		err = fmt.Errorf("dimension mismatch: matrix %d x %d, permutation %d, rhs %d", n, nc, p.Len(), len(b))
		return
	}
	A.DoNonZero(func(i, j int, v float64) {
		if d := p.Inverse[j] - p.Inverse[i]; d > k {
			k = d
		}
	})
	S := mat.NewSymBandDense(n, k, nil)
	A.DoNonZero(func(i, j int, v float64) {
		ni, nj := p.Inverse[i], p.Inverse[j]
		if nj >= ni {
			S.SetSymBand(ni, nj, S.At(ni, nj)+v)
		}
	})
	if ok := ch.Factorize(S); !ok {
		err = fmt.Errorf("matrix %q is not positive definite", A.Name())
		return
	}
	bp := make([]float64, n)
	p.Forward(b, bp)
	xv := mat.NewVecDense(n, nil)
	if err = ch.SolveVecTo(xv, mat.NewVecDense(n, bp)); err != nil {
		return
	}
	x = make([]float64, n)
	p.Backward(xv.RawVector().Data, x)
	return
}
