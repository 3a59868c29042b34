package wrap

import (
	"math"

	"github.com/chazu/stlwrap/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// degenerateRatio bounds |e1 x e2| relative to the squared longest edge.
// Below it the triangle is treated as having zero area; this catches
// vertices that coincide only up to rounding, such as the two ends of a
// full 2π wrap.
const degenerateRatio = 1e-12

// Normal returns the unit normal of the triangle (a, b, c) following the
// right-hand rule. Degenerate triangles get the zero vector.
func Normal(a, b, c mesh.Vertex) v3.Vec {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	n := e1.Cross(e2)
	l := n.Length()
	scale := math.Max(e1.Length(), e2.Length())
	if l == 0 || l <= degenerateRatio*scale*scale {
		return v3.Vec{}
	}
	return n.DivScalar(l)
}

// RecomputeNormals returns a copy of m with every normal rebuilt from its
// vertices, and the number of triangles that got a zero normal.
func RecomputeNormals(m *mesh.Mesh) (*mesh.Mesh, int) {
	out := &mesh.Mesh{
		Header:    m.Header,
		Triangles: make([]mesh.Triangle, len(m.Triangles)),
	}
	degenerate := 0
	for i, t := range m.Triangles {
		t.Normal = Normal(t.V[0], t.V[1], t.V[2])
		if t.Normal == (v3.Vec{}) {
			degenerate++
		}
		out.Triangles[i] = t
	}
	return out, degenerate
}
