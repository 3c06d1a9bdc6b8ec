package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// convectionDiffusion assembles a nonsymmetric five point operator on an n by n grid
func convectionDiffusion(n int) DOK {
	A := NewDOK(n*n, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			k := i*n + j
			A.Add(k, k, 4)
			if i > 0 {
				A.Add(k, k-n, -1.3)
			}
			if i < n-1 {
				A.Add(k, k+n, -0.7)
			}
			if j > 0 {
				A.Add(k, k-1, -1.1)
			}
			if j < n-1 {
				A.Add(k, k+1, -0.9)
			}
		}
	}
	return A
}

// saddlePoint builds [[K, B^T], [B, 0]], which needs row interchanges
func saddlePoint() DOK {
	var (
		nk = 6
		nb = 2
		A  = NewDOK(nk+nb, nk+nb)
	)
	for i := 0; i < nk; i++ {
		A.Add(i, i, 2)
		if i > 0 {
			A.Add(i, i-1, -1)
			A.Add(i-1, i, -1)
		}
	}
	for r := 0; r < nb; r++ {
		for c := 0; c < nk; c++ {
			if (c+r)%2 == 0 {
				v := float64(c + 1)
				A.Add(nk+r, c, v)
				A.Add(c, nk+r, v)
			}
		}
	}
	return A
}

func denseSolve(t *testing.T, A CSR, b []float64) []float64 {
	n, _ := A.Dims()
	D := mat.NewDense(n, n, nil)
	A.DoNonZero(func(i, j int, v float64) { D.Set(i, j, v) })
	var x mat.VecDense
	require.NoError(t, x.SolveVec(D, mat.NewVecDense(n, b)))
	return x.RawVector().Data
}

func TestBandLU(t *testing.T) {
	for _, tc := range []struct {
		name string
		A    CSR
	}{
		{"convection-diffusion", convectionDiffusion(7).ToCSR()},
		{"saddle point", saddlePoint().ToCSR()},
	} {
		t.Run(tc.name, func(t *testing.T) {
			n, _ := tc.A.Dims()
			b := make([]float64, n)
			for i := range b {
				b[i] = math.Sin(float64(i) + 0.5)
			}
			want := denseSolve(t, tc.A, b)
			for _, p := range []Permutation{
				NewIdentityPermutation(n),
				ReverseCuthillMcKee(tc.A.Adjacency()),
			} {
				lu, err := NewBandLU(tc.A, p)
				require.NoError(t, err)
				x := make([]float64, n)
				lu.SolveVec(b, x)
				assert.InDeltaSlice(t, want, x, 1.e-10)
				// Residual check in the original numbering
				r := tc.A.MulVec(x, nil)
				assert.InDeltaSlice(t, b, r, 1.e-10)
			}
		})
	}
}

func TestBandLUSingular(t *testing.T) {
	A := NewDOK(3, 3)
	A.Add(0, 0, 1)
	A.Add(0, 1, 2)
	A.Add(1, 0, 2)
	A.Add(1, 1, 4)
	A.Add(2, 2, 1)
	_, err := NewBandLU(A.ToCSR(), NewIdentityPermutation(3))
	assert.Error(t, err)
	_, err = NewBandLU(A.ToCSR(), NewIdentityPermutation(2))
	assert.Error(t, err)
}

func TestSolveSPD(t *testing.T) {
	var (
		n = 12
		A = NewDOK(n, n)
		b = make([]float64, n)
	)
	for i := 0; i < n; i++ {
		A.Add(i, i, 4)
		if i > 0 {
			A.Add(i, i-1, -1)
			A.Add(i-1, i, -1)
		}
		if i > 2 {
			A.Add(i, i-3, -0.5)
			A.Add(i-3, i, -0.5)
		}
		b[i] = float64(i%3) - 1
	}
	C := A.ToCSR()
	want := denseSolve(t, C, b)
	x, err := SolveSPD(C, ReverseCuthillMcKee(C.Adjacency()), b)
	require.NoError(t, err)
	assert.InDeltaSlice(t, want, x, 1.e-12)

	// Indefinite matrices are rejected
	N := NewDOK(2, 2)
	N.Add(0, 0, 1)
	N.Add(1, 1, -1)
	_, err = SolveSPD(N.ToCSR(), NewIdentityPermutation(2), []float64{1, 1})
	assert.Error(t, err)
}
