package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// gridAdjacency connects each node of an nx by ny grid to its four neighbors,
// numbered with a stride so the natural bandwidth is poor
func gridAdjacency(nx, ny int) (adj [][]int) {
	var (
		n  = nx * ny
		id = func(i, j int) int { return ((i*ny + j) * 37) % n }
	)
	adj = make([][]int, n)
	link := func(a, b int) {
		adj[a] = append(adj[a], b)
		adj[b] = append(adj[b], a)
	}
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			if i+1 < nx {
				link(id(i, j), id(i+1, j))
			}
			if j+1 < ny {
				link(id(i, j), id(i, j+1))
			}
		}
	}
	return
}

func TestReverseCuthillMcKee(t *testing.T) {
	{ // Result is a permutation and its inverse
		adj := gridAdjacency(6, 20)
		p := ReverseCuthillMcKee(adj)
		assert.Equal(t, len(adj), p.Len())
		seen := make([]bool, p.Len())
		for k, old := range p.Order {
			assert.False(t, seen[old])
			seen[old] = true
			assert.Equal(t, k, p.Inverse[old])
		}
	}
	{ // Bandwidth drops to about the short grid dimension
		adj := gridAdjacency(6, 20)
		kl0, ku0 := Bandwidth(adj, NewIdentityPermutation(len(adj)))
		p := ReverseCuthillMcKee(adj)
		kl, ku := Bandwidth(adj, p)
		assert.Equal(t, kl, ku)
		assert.Less(t, kl, kl0)
		assert.Less(t, ku, ku0)
		assert.LessOrEqual(t, kl, 11)
	}
	{ // Disconnected components and isolated nodes are all numbered
		adj := [][]int{{1}, {0}, {}, {4}, {3}}
		p := ReverseCuthillMcKee(adj)
		assert.Equal(t, 5, p.Len())
		kl, ku := Bandwidth(adj, p)
		assert.Equal(t, 1, kl)
		assert.Equal(t, 1, ku)
	}
	{ // Forward and Backward are inverses
		p := ReverseCuthillMcKee(gridAdjacency(3, 4))
		x := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
		y := make([]float64, len(x))
		z := make([]float64, len(x))
		p.Forward(x, y)
		p.Backward(y, z)
		assert.Equal(t, x, z)
	}
}
