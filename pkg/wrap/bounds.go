package wrap

import (
	"math"

	"github.com/chazu/stlwrap/pkg/mesh"
)

// Bounds is the range of the wrap axis over a mesh.
type Bounds struct {
	Min, Max float64
}

// Width returns Max - Min.
func (b Bounds) Width() float64 {
	return b.Max - b.Min
}

// ScanBounds returns the minimum and maximum of axis over every vertex of m.
// An empty mesh has no bounds and yields ErrEmptyMesh.
func ScanBounds(m *mesh.Mesh, axis Axis) (Bounds, error) {
	if m == nil || m.IsEmpty() {
		return Bounds{}, ErrEmptyMesh
	}
	b := Bounds{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, t := range m.Triangles {
		for _, v := range t.V {
			c := component(v, axis)
			b.Min = math.Min(b.Min, c)
			b.Max = math.Max(b.Max, c)
		}
	}
	return b, nil
}

// component returns the coordinate of v along axis.
func component(v mesh.Vertex, axis Axis) float64 {
	switch axis {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	default:
		return v.Z
	}
}

// withComponent returns v with its coordinate along axis replaced by c.
func withComponent(v mesh.Vertex, axis Axis, c float64) mesh.Vertex {
	switch axis {
	case AxisX:
		v.X = c
	case AxisY:
		v.Y = c
	default:
		v.Z = c
	}
	return v
}
