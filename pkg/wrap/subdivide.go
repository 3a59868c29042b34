package wrap

import (
	"github.com/chazu/stlwrap/pkg/mesh"
)

// pending is a work-list entry: a triangle still to be checked and how many
// splits separate it from its input triangle.
type pending struct {
	tri   mesh.Triangle
	depth int
}

// Subdivide splits t until every edge is at most cfg.MaxEdgeLength and
// returns the pieces in depth-first order. A triangle that already fits is
// returned unchanged. Children inherit the parent's normal and attribute.
//
// Refinement runs off an explicit stack. If any piece needs more than
// cfg.MaxDepth splits a *RefinementOverflowError naming t is returned; the
// index field is left for the caller to fill in.
func Subdivide(t mesh.Triangle, cfg Config) ([]mesh.Triangle, int, error) {
	var out []mesh.Triangle
	deepest := 0
	stack := []pending{{tri: t}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if fits(p.tri, cfg.MaxEdgeLength) {
			out = append(out, p.tri)
			if p.depth > deepest {
				deepest = p.depth
			}
			continue
		}
		if p.depth >= cfg.MaxDepth {
			return nil, p.depth, &RefinementOverflowError{Triangle: t, Depth: p.depth}
		}

		children := split(p.tri, cfg.Strategy)
		// Push in reverse so the first child is popped first.
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, pending{tri: children[i], depth: p.depth + 1})
		}
	}
	return out, deepest, nil
}

// fits reports whether every edge of t is at most limit.
func fits(t mesh.Triangle, limit float64) bool {
	for _, l := range t.EdgeLengths() {
		if !(l <= limit) {
			return false
		}
	}
	return true
}

func split(t mesh.Triangle, s Strategy) []mesh.Triangle {
	if s == Centroid {
		return splitCentroid(t)
	}
	return splitMidpoint(t)
}

// splitMidpoint returns the three corner triangles followed by the centre
// triangle. Winding matches the parent.
func splitMidpoint(t mesh.Triangle) []mesh.Triangle {
	a, b, c := t.V[0], t.V[1], t.V[2]
	ab := midpoint(a, b)
	bc := midpoint(b, c)
	ca := midpoint(c, a)
	return []mesh.Triangle{
		child(t, a, ab, ca),
		child(t, ab, b, bc),
		child(t, ca, bc, c),
		child(t, ab, bc, ca),
	}
}

// splitCentroid fans t around its centroid.
func splitCentroid(t mesh.Triangle) []mesh.Triangle {
	a, b, c := t.V[0], t.V[1], t.V[2]
	m := a.Add(b).Add(c).DivScalar(3)
	return []mesh.Triangle{
		child(t, a, b, m),
		child(t, b, c, m),
		child(t, c, a, m),
	}
}

func midpoint(a, b mesh.Vertex) mesh.Vertex {
	return a.Add(b).MulScalar(0.5)
}

func child(parent mesh.Triangle, a, b, c mesh.Vertex) mesh.Triangle {
	return mesh.Triangle{
		Normal: parent.Normal,
		V:      [3]mesh.Vertex{a, b, c},
		Attr:   parent.Attr,
	}
}

// SubdivideMesh refines every triangle of m and returns a new mesh along
// with the deepest refinement level used. Input order is preserved.
func SubdivideMesh(m *mesh.Mesh, cfg Config) (*mesh.Mesh, int, error) {
	out := &mesh.Mesh{
		Header:    m.Header,
		Triangles: make([]mesh.Triangle, 0, len(m.Triangles)),
	}
	deepest := 0
	for i, t := range m.Triangles {
		pieces, depth, err := Subdivide(t, cfg)
		if err != nil {
			if ov, ok := err.(*RefinementOverflowError); ok {
				ov.Index = i
			}
			return nil, 0, err
		}
		if depth > deepest {
			deepest = depth
		}
		out.Triangles = append(out.Triangles, pieces...)
	}
	return out, deepest, nil
}
