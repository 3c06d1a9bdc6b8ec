package utils

import (
	"fmt"
	"math"
)

// BandLU is an LU factorization with partial pivoting of a banded matrix,
// stored column by column the way LAPACK's dgbtrf stores it: element (i,j)
// lives at ab[j*ldab+kv+i-j] with kv = KL+KU, leaving KL extra superdiagonals
// for the fill created by row interchanges.
type BandLU struct {
	N, KL, KU int
	ldab, kv  int
	ab        []float64
	ipiv      []int
	perm      Permutation
}

// NewBandLU reorders A with p, copies it into band storage and factors it
func NewBandLU(A CSR, p Permutation) (lu *BandLU, err error) {
	var (
		nr, nc = A.Dims()
	)
	if nr != nc {
		err = fmt.Errorf("band LU needs a square matrix, have %d x %d", nr, nc)
		return
	}
	if p.Len() != nr {
		err = fmt.Errorf("permutation length %d does not match matrix order %d", p.Len(), nr)
		return
	}
	lu = &BandLU{N: nr, perm: p}
	A.DoNonZero(func(i, j int, v float64) {
		ni, nj := p.Inverse[i], p.Inverse[j]
		if d := ni - nj; d > lu.KL {
			lu.KL = d
		}
		if d := nj - ni; d > lu.KU {
			lu.KU = d
		}
	})
	lu.kv = lu.KL + lu.KU
	lu.ldab = 2*lu.KL + lu.KU + 1
	lu.ab = make([]float64, lu.ldab*lu.N)
	lu.ipiv = make([]int, lu.N)
	A.DoNonZero(func(i, j int, v float64) {
		ni, nj := p.Inverse[i], p.Inverse[j]
		lu.ab[lu.index(ni, nj)] += v
	})
	if err = lu.factor(); err != nil {
		lu = nil
	}
	return
}

func (lu *BandLU) index(i, j int) int {
	return j*lu.ldab + lu.kv + i - j
}

func (lu *BandLU) factor() (err error) {
	var (
		n, kl, ku = lu.N, lu.KL, lu.KU
		ab        = lu.ab
		ju        int
	)
	for j := 0; j < n; j++ {
		km := kl
		if n-1-j < km {
			km = n - 1 - j
		}
		// Find pivot
		jp := 0
		pmax := math.Abs(ab[lu.index(j, j)])
		for i := 1; i <= km; i++ {
			if v := math.Abs(ab[lu.index(j+i, j)]); v > pmax {
				pmax, jp = v, i
			}
		}
		lu.ipiv[j] = j + jp
		if pmax == 0 || math.IsNaN(pmax) {
			return fmt.Errorf("matrix is singular: zero pivot in column %d", j)
		}
		if last := j + ku + jp; last > ju {
			ju = last
		}
		if ju > n-1 {
			ju = n - 1
		}
		if jp != 0 {
			for c := j; c <= ju; c++ {
				a, b := lu.index(j, c), lu.index(j+jp, c)
				ab[a], ab[b] = ab[b], ab[a]
			}
		}
		rpiv := 1. / ab[lu.index(j, j)]
		for i := 1; i <= km; i++ {
			ab[lu.index(j+i, j)] *= rpiv
		}
		for c := j + 1; c <= ju; c++ {
			a := ab[lu.index(j, c)]
			if a == 0 {
				continue
			}
			for i := 1; i <= km; i++ {
				ab[lu.index(j+i, c)] -= ab[lu.index(j+i, j)] * a
			}
		}
	}
	return
}

// SolveVec solves A*x = b in the original numbering, b is not modified
func (lu *BandLU) SolveVec(b, x []float64) {
	var (
		n  = lu.N
		ab = lu.ab
		y  = make([]float64, n)
	)
	if len(b) != n || len(x) != n {
		panic(fmt.Errorf("vector lengths %d and %d do not match matrix order %d", len(b), len(x), n))
	}
	lu.perm.Forward(b, y)
	// Apply row interchanges and L
	for j := 0; j < n; j++ {
		km := lu.KL
		if n-1-j < km {
			km = n - 1 - j
		}
		if jp := lu.ipiv[j]; jp != j {
			y[j], y[jp] = y[jp], y[j]
		}
		yj := y[j]
		if yj == 0 {
			continue
		}
		for i := 1; i <= km; i++ {
			y[j+i] -= ab[lu.index(j+i, j)] * yj
		}
	}
	// Back substitution with U, upper bandwidth KL+KU
	for j := n - 1; j >= 0; j-- {
		y[j] /= ab[lu.index(j, j)]
		yj := y[j]
		if yj == 0 {
			continue
		}
		i0 := j - lu.kv
		if i0 < 0 {
			i0 = 0
		}
		for i := i0; i < j; i++ {
			y[i] -= ab[lu.index(i, j)] * yj
		}
	}
	lu.perm.Backward(y, x)
}
