package FEM2D

import (
	"fmt"
	"math"
	"sort"
)

// Boundary region labels carried by the mesh faces
const (
	RegionInterior = -1
	RegionWall     = 0 // Channel walls and the cylinder
	RegionInlet    = 1
	RegionOutlet   = 2
)

// Face identifies face F of element K, face f joins local vertices f and (f+1)%3
type Face struct {
	K, F int
}

// TriMesh is a conforming mesh of straight sided triangles with counter
// clockwise vertex order
type TriMesh struct {
	Title       string
	VX, VY      []float64
	EToV        [][3]int
	EToE        [][3]int // Neighbor across each face, -1 on the boundary
	FaceTag     [][3]int // Region label of each face, RegionInterior off the boundary
	RegionNames map[int]string
	edges       map[[2]int][]Face
}

// NewTriMesh reorients elements counter clockwise and builds face connectivity
func NewTriMesh(VX, VY []float64, EToV [][3]int) (m *TriMesh, err error) {
	var (
		Nv = len(VX)
		K  = len(EToV)
	)
	if len(VY) != Nv {
		err = fmt.Errorf("vertex coordinate lengths differ: %d x, %d y", Nv, len(VY))
		return
	}
	m = &TriMesh{
		VX:          VX,
		VY:          VY,
		EToV:        make([][3]int, K),
		EToE:        make([][3]int, K),
		FaceTag:     make([][3]int, K),
		RegionNames: make(map[int]string),
		edges:       make(map[[2]int][]Face),
	}
	for k, tri := range EToV {
		for _, v := range tri {
			if v < 0 || v >= Nv {
				err = fmt.Errorf("element %d references vertex %d, mesh has %d vertices", k, v, Nv)
				return nil, err
			}
		}
		if tri[0] == tri[1] || tri[1] == tri[2] || tri[2] == tri[0] {
			return nil, fmt.Errorf("element %d has repeated vertices %v", k, tri)
		}
		m.EToV[k] = tri
		a := m.signedArea(k)
		if math.Abs(a) < 1.e-14 {
			return nil, fmt.Errorf("element %d is degenerate, area %g", k, a)
		}
		if a < 0 {
			m.EToV[k][1], m.EToV[k][2] = tri[2], tri[1]
		}
		for f := 0; f < 3; f++ {
			m.FaceTag[k][f] = RegionInterior
			m.EToE[k][f] = -1
			key := edgeKey(m.FaceVertices(k, f))
			m.edges[key] = append(m.edges[key], Face{K: k, F: f})
		}
	}
	for key, faces := range m.edges {
		switch len(faces) {
		case 1:
		case 2:
			f0, f1 := faces[0], faces[1]
			m.EToE[f0.K][f0.F] = f1.K
			m.EToE[f1.K][f1.F] = f0.K
		default:
			return nil, fmt.Errorf("edge %v is shared by %d elements", key, len(faces))
		}
	}
	return
}

func edgeKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

func (m *TriMesh) K() int  { return len(m.EToV) }
func (m *TriMesh) Nv() int { return len(m.VX) }

func (m *TriMesh) FaceVertices(k, f int) (a, b int) {
	return m.EToV[k][f], m.EToV[k][(f+1)%3]
}

func (m *TriMesh) signedArea(k int) float64 {
	var (
		v      = m.EToV[k]
		x0, y0 = m.VX[v[0]], m.VY[v[0]]
		x1, y1 = m.VX[v[1]], m.VY[v[1]]
		x2, y2 = m.VX[v[2]], m.VY[v[2]]
	)
	return 0.5 * ((x1-x0)*(y2-y0) - (x2-x0)*(y1-y0))
}

func (m *TriMesh) Area(k int) float64 {
	return m.signedArea(k)
}

func (m *TriMesh) IsBoundaryFace(k, f int) bool {
	return m.EToE[k][f] < 0
}

// BoundaryFaces returns all faces with no neighbor, ordered by element then face
func (m *TriMesh) BoundaryFaces() (faces []Face) {
	for k := range m.EToV {
		for f := 0; f < 3; f++ {
			if m.IsBoundaryFace(k, f) {
				faces = append(faces, Face{K: k, F: f})
			}
		}
	}
	return
}

// SetFaceTagByVertices labels the boundary face joining vertices v1 and v2
func (m *TriMesh) SetFaceTagByVertices(v1, v2, tag int) (err error) {
	faces, ok := m.edges[edgeKey(v1, v2)]
	if !ok {
		return fmt.Errorf("no face joins vertices %d and %d", v1, v2)
	}
	if len(faces) != 1 {
		return fmt.Errorf("face joining vertices %d and %d is interior", v1, v2)
	}
	m.FaceTag[faces[0].K][faces[0].F] = tag
	return
}

// TagBoundary labels every boundary face with the region picked from its midpoint
func (m *TriMesh) TagBoundary(region func(xm, ym float64) int) {
	for _, fc := range m.BoundaryFaces() {
		a, b := m.FaceVertices(fc.K, fc.F)
		m.FaceTag[fc.K][fc.F] = region(0.5*(m.VX[a]+m.VX[b]), 0.5*(m.VY[a]+m.VY[b]))
	}
}

// Tags returns the distinct boundary labels present, sorted
func (m *TriMesh) Tags() (tags []int) {
	seen := make(map[int]bool)
	for _, fc := range m.BoundaryFaces() {
		if tag := m.FaceTag[fc.K][fc.F]; !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	sort.Ints(tags)
	return
}

func (m *TriMesh) HasTag(tag int) bool {
	for _, t := range m.Tags() {
		if t == tag {
			return true
		}
	}
	return false
}

// Validate checks that every boundary face carries a label and no interior face does
func (m *TriMesh) Validate() (err error) {
	if m.K() == 0 {
		return fmt.Errorf("mesh has no elements")
	}
	for k := range m.EToV {
		for f := 0; f < 3; f++ {
			tag := m.FaceTag[k][f]
			switch {
			case m.IsBoundaryFace(k, f) && tag < 0:
				a, b := m.FaceVertices(k, f)
				return fmt.Errorf("boundary face %d of element %d (vertices %d, %d) has no region label",
					f, k, a, b)
			case !m.IsBoundaryFace(k, f) && tag >= 0:
				return fmt.Errorf("interior face %d of element %d carries region label %d", f, k, tag)
			}
		}
	}
	return
}

func (m *TriMesh) BoundingBox() (xmin, xmax, ymin, ymax float64) {
	xmin, ymin = math.Inf(1), math.Inf(1)
	xmax, ymax = math.Inf(-1), math.Inf(-1)
	for i, x := range m.VX {
		y := m.VY[i]
		xmin, xmax = math.Min(xmin, x), math.Max(xmax, x)
		ymin, ymax = math.Min(ymin, y), math.Max(ymax, y)
	}
	return
}

func (m *TriMesh) RegionName(tag int) string {
	if name, ok := m.RegionNames[tag]; ok {
		return name
	}
	switch tag {
	case RegionWall:
		return "wall"
	case RegionInlet:
		return "inlet"
	case RegionOutlet:
		return "outlet"
	}
	return fmt.Sprintf("region%d", tag)
}
