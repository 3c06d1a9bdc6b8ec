package NavierStokes2D

import (
	"fmt"
	"sort"

	"github.com/notargets/steadyns/FEM2D"
	"github.com/notargets/steadyns/utils"
)

// VelocityConstraint pins both velocity components on every node of the
// boundary region Tag
type VelocityConstraint struct {
	Name  string
	Tag   int
	Value func(x, y float64) [2]float64
}

func NoSlip(tag int) VelocityConstraint {
	return VelocityConstraint{
		Name:  "noslip",
		Tag:   tag,
		Value: func(x, y float64) [2]float64 { return [2]float64{0, 0} },
	}
}

// ParabolicInlet imposes (1-(y/halfWidth)^2, 0)
func ParabolicInlet(tag int, halfWidth float64) VelocityConstraint {
	return VelocityConstraint{
		Name: "inlet",
		Tag:  tag,
		Value: func(x, y float64) [2]float64 {
			return [2]float64{1 - utils.POW(y/halfWidth, 2), 0}
		},
	}
}

// BoundaryConditions is the resolved set of pinned velocity unknowns. A node
// shared by two constraints takes the value of the later one.
type BoundaryConditions struct {
	space       *FEM2D.MixedSpace
	constraints []VelocityConstraint
	Eqs         []int     // Pinned unknowns, ascending
	Vals        []float64 // Prescribed value of each pinned unknown
	owner       []int     // Constraint that set each pinned unknown
	fixed       []bool
}

func NewBoundaryConditions(space *FEM2D.MixedSpace, mesh *FEM2D.TriMesh,
	constraints ...VelocityConstraint) (bcs *BoundaryConditions, err error) {
	if mesh != space.Mesh() {
		err = fmt.Errorf("%w: boundary conditions built on a mesh other than the space's", ErrUsage)
		return
	}
	type pin struct {
		val   float64
		owner int
	}
	var (
		pins = make(map[int]pin)
		ls   = space.V
	)
	for ic, c := range constraints {
		if c.Value == nil {
			return nil, fmt.Errorf("%w: constraint %q has no value function", ErrUsage, c.Name)
		}
		if !mesh.HasTag(c.Tag) {
			return nil, fmt.Errorf("%w: constraint %q refers to region %d, mesh regions are %v",
				ErrUsage, c.Name, c.Tag, mesh.Tags())
		}
		for _, n := range ls.BoundaryNodes(c.Tag) {
			v := c.Value(ls.X[n], ls.Y[n])
			pins[space.VelocityDOF(n, 0)] = pin{v[0], ic}
			pins[space.VelocityDOF(n, 1)] = pin{v[1], ic}
		}
	}
	bcs = &BoundaryConditions{
		space:       space,
		constraints: constraints,
		fixed:       make([]bool, space.NDOF),
	}
	for eq := range pins {
		bcs.Eqs = append(bcs.Eqs, eq)
	}
	sort.Ints(bcs.Eqs)
	bcs.Vals = make([]float64, len(bcs.Eqs))
	bcs.owner = make([]int, len(bcs.Eqs))
	for i, eq := range bcs.Eqs {
		bcs.Vals[i], bcs.owner[i] = pins[eq].val, pins[eq].owner
		bcs.fixed[eq] = true
	}
	return
}

// InletHalfHeight scales the inlet profile, the channel spans y in [-0.2, 0.2]
const InletHalfHeight = 0.2

// DefaultBoundaryConditions applies no-slip on the walls and the parabolic
// profile (1-(y/0.2)^2, 0) on the inlet whatever mesh is loaded, the outlet
// is left free
func DefaultBoundaryConditions(space *FEM2D.MixedSpace) (*BoundaryConditions, error) {
	return NewBoundaryConditions(space, space.Mesh(),
		NoSlip(FEM2D.RegionWall),
		ParabolicInlet(FEM2D.RegionInlet, InletHalfHeight))
}

func (bcs *BoundaryConditions) Len() int { return len(bcs.Eqs) }

// Fixed flags the pinned rows of the mixed system
func (bcs *BoundaryConditions) Fixed() []bool { return bcs.fixed }

// Apply writes the prescribed values into w
func (bcs *BoundaryConditions) Apply(w []float64) {
	for i, eq := range bcs.Eqs {
		w[eq] = bcs.Vals[i]
	}
}

// ApplyResidual replaces the pinned rows of F by w - g
func (bcs *BoundaryConditions) ApplyResidual(w, F []float64) {
	for i, eq := range bcs.Eqs {
		F[eq] = w[eq] - bcs.Vals[i]
	}
}

// List tabulates the pinned unknowns
func (bcs *BoundaryConditions) List() (l string) {
	l = "\n==================================================================\n"
	l += fmt.Sprintf("%8s%8s%6s%12s%12s%20s\n", "eq", "node", "comp", "x", "y", "value")
	l += "------------------------------------------------------------------\n"
	for i, eq := range bcs.Eqs {
		node, comp := eq/2, eq%2
		c := bcs.constraints[bcs.owner[i]]
		l += fmt.Sprintf("%8d%8d%6d%12.5f%12.5f%20.13f  %s\n", eq, node, comp,
			bcs.space.V.X[node], bcs.space.V.Y[node], bcs.Vals[i], c.Name)
	}
	l += "==================================================================\n"
	return
}
