package FEM2D

import (
	"fmt"
	"math"

	"github.com/notargets/steadyns/utils"
)

// ChannelCylinderGeometry describes a channel y in [-HalfHeight, HalfHeight],
// x in [XMin, XMax] with a cylinder of Radius centered at the origin
type ChannelCylinderGeometry struct {
	XMin, XMax float64
	HalfHeight float64
	Radius     float64
	Resolution int     // Cells along the cylinder quarter and the channel half height
	Grading    float64 // Growth ratio of the radial layers away from the cylinder
}

func DefaultChannelCylinder(resolution int) ChannelCylinderGeometry {
	return ChannelCylinderGeometry{
		XMin:       -0.4,
		XMax:       1.6,
		HalfHeight: 0.2,
		Radius:     0.05,
		Resolution: resolution,
		Grading:    1.15,
	}
}

func (g ChannelCylinderGeometry) check() (err error) {
	H := g.HalfHeight
	switch {
	case g.Resolution < 1:
		err = fmt.Errorf("mesh resolution must be at least 1, have %d", g.Resolution)
	case H <= 0 || g.Radius <= 0 || g.Radius >= H:
		err = fmt.Errorf("cylinder radius %g must lie inside the half height %g", g.Radius, H)
	case g.XMin > -H || g.XMax < H:
		err = fmt.Errorf("channel [%g, %g] must contain the block [%g, %g] around the cylinder",
			g.XMin, g.XMax, -H, H)
	case g.Grading <= 0:
		err = fmt.Errorf("grading ratio must be positive, have %g", g.Grading)
	}
	return
}

// meshBuilder collects quads and merges coincident vertices
type meshBuilder struct {
	VX, VY []float64
	index  map[utils.NodeKey]int
	EToV   [][3]int
}

func newMeshBuilder() *meshBuilder {
	return &meshBuilder{index: make(map[utils.NodeKey]int)}
}

func (mb *meshBuilder) vertex(x, y float64) int {
	key := utils.NewNodeKey(x, y)
	if id, ok := mb.index[key]; ok {
		return id
	}
	mb.VX = append(mb.VX, x)
	mb.VY = append(mb.VY, y)
	mb.index[key] = len(mb.VX) - 1
	return len(mb.VX) - 1
}

// quad splits a quadrilateral given in cyclic order along its shorter
// diagonal. Ties go to the diagonal through the vertex farthest from the
// centerline (then farthest downstream), which keeps the mesh mirror
// symmetric about y = 0.
func (mb *meshBuilder) quad(v [4]int) {
	var (
		d02 = math.Hypot(mb.VX[v[2]]-mb.VX[v[0]], mb.VY[v[2]]-mb.VY[v[0]])
		d13 = math.Hypot(mb.VX[v[3]]-mb.VX[v[1]], mb.VY[v[3]]-mb.VY[v[1]])
		use02 bool
	)
	switch {
	case d02 < d13*(1-1.e-9):
		use02 = true
	case d13 < d02*(1-1.e-9):
		use02 = false
	default:
		best := 0
		for i := 1; i < 4; i++ {
			ay, by := math.Abs(mb.VY[v[i]]), math.Abs(mb.VY[v[best]])
			if ay > by+1.e-12 || (math.Abs(ay-by) <= 1.e-12 && mb.VX[v[i]] > mb.VX[v[best]]) {
				best = i
			}
		}
		use02 = best%2 == 0
	}
	if use02 {
		mb.EToV = append(mb.EToV, [3]int{v[0], v[1], v[2]}, [3]int{v[0], v[2], v[3]})
	} else {
		mb.EToV = append(mb.EToV, [3]int{v[0], v[1], v[3]}, [3]int{v[1], v[2], v[3]})
	}
}

// block meshes the rectangle [x0,x1] x [y0,y1] with nx by ny quads
func (mb *meshBuilder) block(x0, x1, y0, y1 float64, nx, ny int) {
	var (
		dx = (x1 - x0) / float64(nx)
		dy = (y1 - y0) / float64(ny)
	)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			xa, xb := x0+float64(i)*dx, x0+float64(i+1)*dx
			ya, yb := y0+float64(j)*dy, y0+float64(j+1)*dy
			if i == nx-1 {
				xb = x1
			}
			if j == ny-1 {
				yb = y1
			}
			mb.quad([4]int{mb.vertex(xa, ya), mb.vertex(xb, ya), mb.vertex(xb, yb), mb.vertex(xa, yb)})
		}
	}
}

// NewChannelCylinderMesh builds an O-grid around the cylinder inside the
// square [-H,H]^2 and structured blocks up and downstream of it, then labels
// the inlet (x = XMin), the outlet (x = XMax) and the walls
func NewChannelCylinderMesh(g ChannelCylinderGeometry) (m *TriMesh, err error) {
	if err = g.check(); err != nil {
		return
	}
	var (
		n     = g.Resolution
		N     = 2 * n // Perimeter points per side of the square
		H     = g.HalfHeight
		h     = H / float64(n)
		mb    = newMeshBuilder()
		s     = utils.GradedSpacing(n, g.Grading)
		ring  = make([][]int, 4*N)
		nUp   = int(math.Round((-H - g.XMin) / h))
		nDown = int(math.Round((g.XMax - H) / h))
	)
	for i := 0; i < 4*N; i++ {
		side, j := i/N, float64(i%N)/float64(N)
		var px, py float64
		switch side {
		case 0:
			px, py = H, -H+2*H*j
		case 1:
			px, py = H-2*H*j, H
		case 2:
			px, py = -H, H-2*H*j
		case 3:
			px, py = -H+2*H*j, -H
		}
		theta := math.Atan2(py, px)
		cx, cy := g.Radius*math.Cos(theta), g.Radius*math.Sin(theta)
		ring[i] = make([]int, n+1)
		for l := 0; l <= n; l++ {
			ring[i][l] = mb.vertex(cx+s[l]*(px-cx), cy+s[l]*(py-cy))
		}
	}
	for i := 0; i < 4*N; i++ {
		ip := (i + 1) % (4 * N)
		for l := 0; l < n; l++ {
			mb.quad([4]int{ring[i][l], ring[ip][l], ring[ip][l+1], ring[i][l+1]})
		}
	}
	if nUp > 0 {
		mb.block(g.XMin, -H, -H, H, nUp, N)
	}
	if nDown > 0 {
		mb.block(H, g.XMax, -H, H, nDown, N)
	}
	if m, err = NewTriMesh(mb.VX, mb.VY, mb.EToV); err != nil {
		return
	}
	m.Title = fmt.Sprintf("cylinder in channel, resolution %d", n)
	tagChannel(m, g.XMin, g.XMax)
	err = m.Validate()
	return
}

// NewChannelMesh builds an empty channel [xmin,xmax] x [-halfHeight,halfHeight]
func NewChannelMesh(xmin, xmax, halfHeight float64, nx, ny int) (m *TriMesh, err error) {
	if nx < 1 || ny < 1 || xmax <= xmin || halfHeight <= 0 {
		err = fmt.Errorf("bad channel: [%g, %g] x +-%g with %d x %d cells", xmin, xmax, halfHeight, nx, ny)
		return
	}
	mb := newMeshBuilder()
	mb.block(xmin, xmax, -halfHeight, halfHeight, nx, ny)
	if m, err = NewTriMesh(mb.VX, mb.VY, mb.EToV); err != nil {
		return
	}
	m.Title = fmt.Sprintf("channel %d x %d", nx, ny)
	tagChannel(m, xmin, xmax)
	err = m.Validate()
	return
}

func tagChannel(m *TriMesh, xmin, xmax float64) {
	tol := 1.e-9 * (xmax - xmin)
	m.TagBoundary(func(xm, ym float64) int {
		switch {
		case math.Abs(xm-xmin) < tol:
			return RegionInlet
		case math.Abs(xm-xmax) < tol:
			return RegionOutlet
		}
		return RegionWall
	})
}
