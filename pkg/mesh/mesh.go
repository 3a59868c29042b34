// Package mesh defines the in-memory triangle mesh shared by the wrap
// pipeline, the STL codec and the geometry kernel. Meshes are treated as
// immutable values: every transform builds a new Mesh.
package mesh

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Vertex is a position in model space.
type Vertex = v3.Vec

// Triangle is a single facet. Attr is opaque and carried through unchanged.
type Triangle struct {
	Normal v3.Vec
	V      [3]Vertex
	Attr   uint16
}

// Mesh is an ordered list of triangles plus a free-text header label.
type Mesh struct {
	Header    string
	Triangles []Triangle
}

// New returns a mesh holding a copy of tris.
func New(header string, tris []Triangle) *Mesh {
	out := make([]Triangle, len(tris))
	copy(out, tris)
	return &Mesh{Header: header, Triangles: out}
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// IsEmpty returns true if the mesh has no triangles.
func (m *Mesh) IsEmpty() bool {
	return len(m.Triangles) == 0
}

// Clone returns a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	return New(m.Header, m.Triangles)
}

// SurfaceArea returns the summed area of all triangles.
func (m *Mesh) SurfaceArea() float64 {
	total := 0.0
	for _, t := range m.Triangles {
		total += t.Area()
	}
	return total
}

// Area returns the area of the triangle.
func (t Triangle) Area() float64 {
	e1 := t.V[1].Sub(t.V[0])
	e2 := t.V[2].Sub(t.V[0])
	return e1.Cross(e2).Length() / 2
}

// EdgeLengths returns the lengths of edges v0-v1, v1-v2 and v2-v0.
func (t Triangle) EdgeLengths() [3]float64 {
	return [3]float64{
		t.V[1].Sub(t.V[0]).Length(),
		t.V[2].Sub(t.V[1]).Length(),
		t.V[0].Sub(t.V[2]).Length(),
	}
}

// MaxEdge returns the length of the longest edge.
func (t Triangle) MaxEdge() float64 {
	l := t.EdgeLengths()
	m := l[0]
	if l[1] > m {
		m = l[1]
	}
	if l[2] > m {
		m = l[2]
	}
	return m
}
