package wrap

import (
	"math"

	"github.com/chazu/stlwrap/pkg/mesh"
)

// Angle maps x from [b.Min, b.Max] linearly onto [0, sweep]. When the
// bounds are zero-width or narrower than eps every x maps to 0.
func Angle(x float64, b Bounds, sweep, eps float64) float64 {
	w := b.Width()
	if w == 0 || math.Abs(w) < eps {
		return 0
	}
	k := (x - b.Min) / w
	return k * sweep
}

// MapXY wraps the planar pair (x, y) onto the cylinder: x becomes an angle
// and y the radius. It returns the cartesian position on the cylinder.
func MapXY(x, y float64, b Bounds, sweep, eps float64) (float64, float64) {
	angle := Angle(x, b, sweep, eps)
	radius := y
	return radius * math.Cos(angle), radius * math.Sin(angle)
}

// MapVertex wraps v using cfg's axes. The wrap-axis slot receives the
// cosine term, the radius-axis slot the sine term, and cfg.PassAxis()
// is copied through unchanged.
func MapVertex(v mesh.Vertex, b Bounds, cfg Config) mesh.Vertex {
	x, y := MapXY(component(v, cfg.WrapAxis), component(v, cfg.RadiusAxis), b, cfg.Sweep, cfg.Epsilon)
	pass := cfg.PassAxis()
	var out mesh.Vertex
	out = withComponent(out, cfg.WrapAxis, x)
	out = withComponent(out, cfg.RadiusAxis, y)
	return withComponent(out, pass, component(v, pass))
}

// MapMesh wraps every vertex of m. Normals and attributes are copied as is;
// call RecomputeNormals afterwards.
func MapMesh(m *mesh.Mesh, b Bounds, cfg Config) (*mesh.Mesh, error) {
	if m == nil || m.IsEmpty() {
		return nil, ErrEmptyMesh
	}
	out := &mesh.Mesh{
		Header:    m.Header,
		Triangles: make([]mesh.Triangle, len(m.Triangles)),
	}
	for i, t := range m.Triangles {
		out.Triangles[i] = mesh.Triangle{
			Normal: t.Normal,
			V: [3]mesh.Vertex{
				MapVertex(t.V[0], b, cfg),
				MapVertex(t.V[1], b, cfg),
				MapVertex(t.V[2], b, cfg),
			},
			Attr: t.Attr,
		}
	}
	return out, nil
}
