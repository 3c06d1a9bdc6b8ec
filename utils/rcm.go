package utils

import (
	"sort"
)

// Permutation maps between the original and the reordered numbering:
// Order[new] = old and Inverse[old] = new
type Permutation struct {
	Order, Inverse []int
}

func NewIdentityPermutation(n int) (p Permutation) {
	p = Permutation{
		Order:   make([]int, n),
		Inverse: make([]int, n),
	}
	for i := 0; i < n; i++ {
		p.Order[i], p.Inverse[i] = i, i
	}
	return
}

func (p Permutation) Len() int { return len(p.Order) }

// Forward gathers x from the original numbering into dst in the reordered numbering
func (p Permutation) Forward(x, dst []float64) {
	for k, old := range p.Order {
		dst[k] = x[old]
	}
}

// Backward scatters x from the reordered numbering into dst in the original numbering
func (p Permutation) Backward(x, dst []float64) {
	for k, old := range p.Order {
		dst[old] = x[k]
	}
}

// ReverseCuthillMcKee computes a bandwidth reducing ordering of the graph adj.
// Each connected component is started from a pseudo-peripheral node.
func ReverseCuthillMcKee(adj [][]int) (p Permutation) {
	var (
		n       = len(adj)
		visited = make([]bool, n)
		order   = make([]int, 0, n)
		degree  = make([]int, n)
	)
	for i, nbrs := range adj {
		degree[i] = len(nbrs)
	}
	byDegree := func(nodes []int) {
		sort.SliceStable(nodes, func(a, b int) bool {
			if degree[nodes[a]] == degree[nodes[b]] {
				return nodes[a] < nodes[b]
			}
			return degree[nodes[a]] < degree[nodes[b]]
		})
	}
	for {
		start := -1
		for i := 0; i < n; i++ {
			if !visited[i] && (start < 0 || degree[i] < degree[start]) {
				start = i
			}
		}
		if start < 0 {
			break
		}
		start = pseudoPeripheral(adj, degree, start)
		visited[start] = true
		queue := []int{start}
		for len(queue) > 0 {
			node := queue[0]
			queue = queue[1:]
			order = append(order, node)
			var next []int
			for _, nbr := range adj[node] {
				if !visited[nbr] {
					visited[nbr] = true
					next = append(next, nbr)
				}
			}
			byDegree(next)
			queue = append(queue, next...)
		}
	}
	p = Permutation{
		Order:   make([]int, n),
		Inverse: make([]int, n),
	}
	for k, old := range order {
		p.Order[n-1-k] = old
	}
	for k, old := range p.Order {
		p.Inverse[old] = k
	}
	return
}

// pseudoPeripheral walks to the far end of the level structure rooted at start
// until the eccentricity stops growing
func pseudoPeripheral(adj [][]int, degree []int, start int) int {
	var (
		node  = start
		depth = -1
	)
	for iter := 0; iter < 8; iter++ {
		levels := levelStructure(adj, node)
		if len(levels) <= depth {
			break
		}
		depth = len(levels)
		last := levels[len(levels)-1]
		candidate := last[0]
		for _, c := range last {
			if degree[c] < degree[candidate] {
				candidate = c
			}
		}
		if candidate == node {
			break
		}
		node = candidate
	}
	return node
}

func levelStructure(adj [][]int, root int) (levels [][]int) {
	var (
		seen    = map[int]bool{root: true}
		current = []int{root}
	)
	for len(current) > 0 {
		levels = append(levels, current)
		var next []int
		for _, node := range current {
			for _, nbr := range adj[node] {
				if !seen[nbr] {
					seen[nbr] = true
					next = append(next, nbr)
				}
			}
		}
		current = next
	}
	return
}

// Bandwidth returns the lower and upper bandwidth of a matrix with sparsity adj
// after it is reordered by p
func Bandwidth(adj [][]int, p Permutation) (kl, ku int) {
	for i, nbrs := range adj {
		ni := p.Inverse[i]
		for _, j := range nbrs {
			nj := p.Inverse[j]
			if d := ni - nj; d > kl {
				kl = d
			}
			if d := nj - ni; d > ku {
				ku = d
			}
		}
	}
	return
}
