package FEM2D

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Cubature holds a quadrature rule on the reference triangle
// (0,0), (1,0), (0,1), the weights sum to the reference area 1/2
type Cubature struct {
	R, S, W []float64
	Nq      int
	Degree  int
}

// NewCubature returns the cheapest rule in the table integrating polynomials of degree P exactly
func NewCubature(P int) (cb Cubature) {
	var (
		cub2d  []float64
		degree int
	)
	switch {
	case P < 0:
		panic(fmt.Errorf("polynomial degree must be >= 0, have %d", P))
	case P <= 1:
		cub2d, degree = cub1, 1
	case P == 2:
		cub2d, degree = cub2, 2
	case P <= 5:
		cub2d, degree = cub5, 5
	default:
		panic(fmt.Errorf("no cubature rule for degree %d, highest is 5", P))
	}
	Nq := len(cub2d) / 3
	cubMat := mat.NewDense(Nq, 3, cub2d)
	cb = Cubature{
		R:      mat.Col(nil, 0, cubMat),
		S:      mat.Col(nil, 1, cubMat),
		W:      mat.Col(nil, 2, cubMat),
		Nq:     Nq,
		Degree: degree,
	}
	return
}

var cub1 = []float64{
	1. / 3., 1. / 3., 0.5,
}

var cub2 = []float64{
	1. / 6., 1. / 6., 1. / 6.,
	2. / 3., 1. / 6., 1. / 6.,
	1. / 6., 2. / 3., 1. / 6.,
}

// Dunavant's seven point rule
var cub5 = []float64{
	1. / 3., 1. / 3., 0.5 * 0.225,
	0.059715871789770, 0.470142064105115, 0.5 * 0.132394152788506,
	0.470142064105115, 0.059715871789770, 0.5 * 0.132394152788506,
	0.470142064105115, 0.470142064105115, 0.5 * 0.132394152788506,
	0.797426985353087, 0.101286507323456, 0.5 * 0.125939180544827,
	0.101286507323456, 0.797426985353087, 0.5 * 0.125939180544827,
	0.101286507323456, 0.101286507323456, 0.5 * 0.125939180544827,
}
