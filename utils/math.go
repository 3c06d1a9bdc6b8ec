package utils

import (
	"math"
)

// GradedSpacing returns N+1 stations from 0 to 1 whose successive intervals
// grow by the factor ratio, a ratio of 1 gives uniform spacing
func GradedSpacing(N int, ratio float64) (s []float64) {
	s = make([]float64, N+1)
	if N == 0 {
		return
	}
	var total, h float64
	for i := 0; i < N; i++ {
		total += math.Pow(ratio, float64(i))
	}
	for i := 0; i < N; i++ {
		h += math.Pow(ratio, float64(i)) / total
		s[i+1] = h
	}
	s[N] = 1
	return
}

func POW(x float64, pp int) (y float64) {
	var (
		p       = pp
		flipped bool
	)
	if pp > 8 || pp < -8 {
		goto MATHPOW
	}

	if p < 0 {
		p = -pp
		flipped = true
	}
	switch p {
	case 0:
		y = 1
	case 1:
		y = x
	case 2:
		y = x * x
	case 3:
		y = x * x * x
	case 4:
		y = x * x
		y = y * y
	}
	if p > 4 {
		goto MATHPOW
	}
	if flipped {
		y = 1. / y
	}
	return
MATHPOW:
	return math.Pow(x, float64(pp))
}
