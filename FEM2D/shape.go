package FEM2D

import "fmt"

// Shape functions on the reference triangle in barycentric form,
// L0 = 1-r-s, L1 = r, L2 = s. Quadratic nodes are the three vertices followed
// by the midpoints of edges 0-1, 1-2 and 2-0.

func NodesPerElement(order int) int {
	switch order {
	case 1:
		return 3
	case 2:
		return 6
	}
	panic(fmt.Errorf("only linear and quadratic triangles are available, have order %d", order))
}

// ShapeFunctions evaluates the basis and its reference derivatives at (r,s)
func ShapeFunctions(order int, r, s float64) (N, Nr, Ns []float64) {
	L0, L1, L2 := 1-r-s, r, s
	switch order {
	case 1:
		N = []float64{L0, L1, L2}
		Nr = []float64{-1, 1, 0}
		Ns = []float64{-1, 0, 1}
	case 2:
		N = []float64{
			L0 * (2*L0 - 1), L1 * (2*L1 - 1), L2 * (2*L2 - 1),
			4 * L0 * L1, 4 * L1 * L2, 4 * L2 * L0,
		}
		Nr = []float64{
			1 - 4*L0, 4*L1 - 1, 0,
			4 * (L0 - L1), 4 * L2, -4 * L2,
		}
		Ns = []float64{
			1 - 4*L0, 0, 4*L2 - 1,
			-4 * L1, 4 * L1, 4 * (L0 - L2),
		}
	default:
		panic(fmt.Errorf("only linear and quadratic triangles are available, have order %d", order))
	}
	return
}

// ReferenceNodes returns the (r,s) location of each local node
func ReferenceNodes(order int) (R, S []float64) {
	R = []float64{0, 1, 0, 0.5, 0.5, 0}
	S = []float64{0, 0, 1, 0, 0.5, 0.5}
	np := NodesPerElement(order)
	return R[:np], S[:np]
}
