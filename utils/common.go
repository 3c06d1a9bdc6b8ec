package utils

import "math"

const (
	NODETOL = 1.e-12
)

// NodeKey quantizes a coordinate pair so that coincident nodes computed along
// different paths compare equal
type NodeKey [2]int64

func NewNodeKey(x, y float64) NodeKey {
	const scale = 1. / (1.e3 * NODETOL)
	return NodeKey{int64(math.Round(x * scale)), int64(math.Round(y * scale))}
}
