package utils

import "strings"

// BCType represents the kind of boundary a mesh region belongs to
type BCType uint16

const (
	// BCNone indicates no boundary condition (interior face)
	BCNone BCType = iota

	BCWall     // No-slip wall, includes immersed bodies
	BCInflow   // Inflow/inlet boundary
	BCOutflow  // Outflow/outlet boundary, natural (do-nothing) condition
	BCSlipWall // Slip/inviscid wall
	BCSymmetry // Symmetry plane
	BCFarfield // Far-field boundary
)

// String returns the string representation of a BCType
func (bc BCType) String() string {
	names := map[BCType]string{
		BCNone:     "None",
		BCWall:     "Wall",
		BCInflow:   "Inflow",
		BCOutflow:  "Outflow",
		BCSlipWall: "SlipWall",
		BCSymmetry: "Symmetry",
		BCFarfield: "Farfield",
	}
	if name, ok := names[bc]; ok {
		return name
	}
	return "Unknown"
}

// RegionTag returns the boundary region label conventionally baked into mesh
// files for this boundary type: 0 walls, 1 inlet, 2 outlet, 3 and up for the rest
func (bc BCType) RegionTag() int {
	switch bc {
	case BCWall:
		return 0
	case BCInflow:
		return 1
	case BCOutflow:
		return 2
	case BCNone:
		return -1
	}
	return int(bc) - 1
}

// BCNameMap provides a mapping from common boundary condition names to BCType
// Keys are lowercase for case-insensitive matching
var BCNameMap = map[string]BCType{
	"inlet":  BCInflow,
	"inflow": BCInflow,
	"in":     BCInflow,

	"outlet":  BCOutflow,
	"outflow": BCOutflow,
	"out":     BCOutflow,
	"exit":    BCOutflow,

	"wall":     BCWall,
	"no_slip":  BCWall,
	"noslip":   BCWall,
	"cyl":      BCWall,
	"cylinder": BCWall,

	"slip":      BCSlipWall,
	"slip_wall": BCSlipWall,

	"symmetry":  BCSymmetry,
	"symmetric": BCSymmetry,
	"farfield":  BCFarfield,
	"far":       BCFarfield,
}

// ParseBCName converts a boundary condition name string to BCType
// The matching is case-insensitive and trims whitespace
func ParseBCName(name string) (bc BCType, ok bool) {
	bc, ok = BCNameMap[strings.ToLower(strings.TrimSpace(name))]
	return
}
