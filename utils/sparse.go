package utils

import (
	"fmt"
	"sort"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// DOK accumulates a global matrix one element block at a time. Rows flagged
// in the row mask ignore every contribution and are closed with a unit
// diagonal when converted to CSR.
type DOK struct {
	M    *sparse.DOK
	mask []bool
	name string
}

func NewDOK(nr, nc int, rowMask ...[]bool) (R DOK) {
	R = DOK{
		M:    sparse.NewDOK(nr, nc),
		name: "unnamed - hint: pass a variable name to SetName()",
	}
	if len(rowMask) != 0 && rowMask[0] != nil {
		if len(rowMask[0]) != nr {
			panic(fmt.Errorf("row mask length %d does not match row count %d", len(rowMask[0]), nr))
		}
		R.mask = rowMask[0]
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix       { return m.M.T() }
func (m DOK) NNZ() int            { return m.M.NNZ() }

func (m *DOK) SetName(name string) DOK {
	m.name = name
	return *m
}

func (m DOK) Masked(i int) bool {
	return m.mask != nil && m.mask[i]
}

func (m DOK) Add(i, j int, val float64) { // Changes receiver
	if m.Masked(i) {
		return
	}
	m.M.Set(i, j, m.M.At(i, j)+val)
}

// AddBlock scatters a dense element block into the global matrix
func (m DOK) AddBlock(rows, cols []int, blk [][]float64) { // Changes receiver
	if len(blk) != len(rows) {
		panic(fmt.Errorf("block has %d rows, index has %d", len(blk), len(rows)))
	}
	for ii, i := range rows {
		if m.Masked(i) {
			continue
		}
		for jj, j := range cols {
			if val := blk[ii][jj]; val != 0 {
				m.Add(i, j, val)
			}
		}
	}
}

func (m DOK) ToCSR() CSR {
	for i, fixed := range m.mask {
		if fixed {
			m.M.Set(i, i, 1)
		}
	}
	return CSR{
		M:    m.M.ToCSR(),
		name: m.name,
	}
}

type CSR struct {
	M    *sparse.CSR
	name string
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)    { return m.M.Dims() }
func (m CSR) At(i, j int) float64 { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix       { return m.M.T() }
func (m CSR) NNZ() int            { return m.M.NNZ() }
func (m CSR) Name() string        { return m.name }

func (m CSR) DoNonZero(fn func(i, j int, v float64)) {
	m.M.DoNonZero(fn)
}

// MulVec computes dst = A*x, allocating dst when nil
func (m CSR) MulVec(x, dst []float64) []float64 {
	var (
		nr, nc = m.Dims()
	)
	if len(x) != nc {
		panic(fmt.Errorf("vector length %d does not match column count %d", len(x), nc))
	}
	if dst == nil {
		dst = make([]float64, nr)
	}
	for i := range dst {
		dst[i] = 0
	}
	m.M.DoNonZero(func(i, j int, v float64) {
		dst[i] += v * x[j]
	})
	return dst
}

// Adjacency returns the symmetrized off-diagonal sparsity graph of the matrix
func (m CSR) Adjacency() (adj [][]int) {
	var (
		nr, _ = m.Dims()
		seen  = make([]map[int]struct{}, nr)
	)
	for i := range seen {
		seen[i] = make(map[int]struct{})
	}
	m.M.DoNonZero(func(i, j int, v float64) {
		if i == j {
			return
		}
		seen[i][j] = struct{}{}
		seen[j][i] = struct{}{}
	})
	adj = make([][]int, nr)
	for i, nbrs := range seen {
		adj[i] = make([]int, 0, len(nbrs))
		for j := range nbrs {
			adj[i] = append(adj[i], j)
		}
		sort.Ints(adj[i])
	}
	return
}
