package FEM2D

import (
	"fmt"
	"sort"
)

// LagrangeSpace is a continuous piecewise polynomial space of order 1 or 2
// on a TriMesh. Nodes 0..Nv-1 are the mesh vertices, quadratic spaces number
// their edge midpoints after them in order of first appearance.
type LagrangeSpace struct {
	Order     int
	Np        int // Nodes per element
	NNodes    int
	X, Y      []float64
	ElemNodes [][]int
	mesh      *TriMesh
}

func NewLagrangeSpace(mesh *TriMesh, order int) (ls *LagrangeSpace, err error) {
	if order != 1 && order != 2 {
		err = fmt.Errorf("only linear and quadratic spaces are available, have order %d", order)
		return
	}
	var (
		Nv = mesh.Nv()
		K  = mesh.K()
	)
	ls = &LagrangeSpace{
		Order:     order,
		Np:        NodesPerElement(order),
		NNodes:    Nv,
		X:         append([]float64{}, mesh.VX...),
		Y:         append([]float64{}, mesh.VY...),
		ElemNodes: make([][]int, K),
		mesh:      mesh,
	}
	edgeNode := make(map[[2]int]int)
	for k, tri := range mesh.EToV {
		nodes := make([]int, ls.Np)
		copy(nodes, tri[:])
		if order == 2 {
			for f := 0; f < 3; f++ {
				a, b := mesh.FaceVertices(k, f)
				key := edgeKey(a, b)
				id, ok := edgeNode[key]
				if !ok {
					id = ls.NNodes
					edgeNode[key] = id
					ls.NNodes++
					ls.X = append(ls.X, 0.5*(mesh.VX[a]+mesh.VX[b]))
					ls.Y = append(ls.Y, 0.5*(mesh.VY[a]+mesh.VY[b]))
				}
				nodes[3+f] = id
			}
		}
		ls.ElemNodes[k] = nodes
	}
	return
}

func (ls *LagrangeSpace) Mesh() *TriMesh { return ls.mesh }

// FaceNodes returns the nodes on face f of element k, end points first
func (ls *LagrangeSpace) FaceNodes(k, f int) (nodes []int) {
	nodes = []int{ls.ElemNodes[k][f], ls.ElemNodes[k][(f+1)%3]}
	if ls.Order == 2 {
		nodes = append(nodes, ls.ElemNodes[k][3+f])
	}
	return
}

// BoundaryNodes returns the sorted nodes lying on faces labeled tag
func (ls *LagrangeSpace) BoundaryNodes(tag int) (nodes []int) {
	seen := make(map[int]bool)
	for _, fc := range ls.mesh.BoundaryFaces() {
		if ls.mesh.FaceTag[fc.K][fc.F] != tag {
			continue
		}
		for _, n := range ls.FaceNodes(fc.K, fc.F) {
			if !seen[n] {
				seen[n] = true
				nodes = append(nodes, n)
			}
		}
	}
	sort.Ints(nodes)
	return
}

// NodeAt finds the node located at (x,y) within tol, -1 if there is none
func (ls *LagrangeSpace) NodeAt(x, y, tol float64) int {
	for i := range ls.X {
		if dx, dy := ls.X[i]-x, ls.Y[i]-y; dx*dx+dy*dy <= tol*tol {
			return i
		}
	}
	return -1
}

// Interpolate evaluates f at every node
func (ls *LagrangeSpace) Interpolate(f func(x, y float64) float64) (v []float64) {
	v = make([]float64, ls.NNodes)
	for i := range v {
		v[i] = f(ls.X[i], ls.Y[i])
	}
	return
}

// MixedSpace is the Taylor-Hood product of a quadratic vector velocity space
// and a linear pressure space. Velocity unknowns are interleaved per node
// (2*node+component), pressure unknowns follow per vertex.
type MixedSpace struct {
	V, Q      *LagrangeSpace
	NVelocity int
	NDOF      int
}

func NewTaylorHoodSpace(mesh *TriMesh) (ms *MixedSpace, err error) {
	ms = &MixedSpace{}
	if ms.V, err = NewLagrangeSpace(mesh, 2); err != nil {
		return nil, err
	}
	if ms.Q, err = NewLagrangeSpace(mesh, 1); err != nil {
		return nil, err
	}
	ms.NVelocity = 2 * ms.V.NNodes
	ms.NDOF = ms.NVelocity + ms.Q.NNodes
	return
}

func (ms *MixedSpace) Mesh() *TriMesh { return ms.V.mesh }

func (ms *MixedSpace) VelocityDOF(node, comp int) int { return 2*node + comp }

func (ms *MixedSpace) PressureDOF(vertex int) int { return ms.NVelocity + vertex }

// ElementDOFs fills dofs with the 15 unknowns of element k: velocity node by
// node (x then y), then the three pressures
func (ms *MixedSpace) ElementDOFs(k int, dofs []int) []int {
	if len(dofs) < 15 {
		dofs = make([]int, 15)
	}
	for a, n := range ms.V.ElemNodes[k] {
		dofs[2*a] = ms.VelocityDOF(n, 0)
		dofs[2*a+1] = ms.VelocityDOF(n, 1)
	}
	for b, n := range ms.Q.ElemNodes[k] {
		dofs[12+b] = ms.PressureDOF(n)
	}
	return dofs[:15]
}

// Split copies a mixed state into its velocity components and pressure
func (ms *MixedSpace) Split(w []float64) (ux, uy, p []float64) {
	if len(w) != ms.NDOF {
		panic(fmt.Errorf("state length %d does not match the space, need %d", len(w), ms.NDOF))
	}
	ux, uy = make([]float64, ms.V.NNodes), make([]float64, ms.V.NNodes)
	for n := range ux {
		ux[n], uy[n] = w[2*n], w[2*n+1]
	}
	p = append([]float64{}, w[ms.NVelocity:]...)
	return
}

// Join is the inverse of Split
func (ms *MixedSpace) Join(ux, uy, p []float64) (w []float64) {
	w = make([]float64, ms.NDOF)
	for n := range ux {
		w[2*n], w[2*n+1] = ux[n], uy[n]
	}
	copy(w[ms.NVelocity:], p)
	return
}
