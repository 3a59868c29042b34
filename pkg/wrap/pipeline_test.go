package wrap_test

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/stlwrap/pkg/kernel/sdfx"
	"github.com/chazu/stlwrap/pkg/mesh"
	"github.com/chazu/stlwrap/pkg/wrap"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// strip returns a 10x2 rectangle in the plane y=radius, spanning x in
// [0,10] and z in [0,2].
func strip(radius float64) *mesh.Mesh {
	a := v3.Vec{X: 0, Y: radius, Z: 0}
	b := v3.Vec{X: 10, Y: radius, Z: 0}
	c := v3.Vec{X: 10, Y: radius, Z: 2}
	d := v3.Vec{X: 0, Y: radius, Z: 2}
	return mesh.New("strip", []mesh.Triangle{
		{V: [3]mesh.Vertex{a, b, c}, Attr: 1},
		{V: [3]mesh.Vertex{a, c, d}, Attr: 2},
	})
}

func checkNormals(t *testing.T, m *mesh.Mesh) {
	t.Helper()
	for i, tri := range m.Triangles {
		l := tri.Normal.Length()
		if l != 0 && math.Abs(l-1) > 1e-9 {
			t.Fatalf("triangle %d normal length %v, want 1 or 0", i, l)
		}
	}
}

func TestWrapStrip(t *testing.T) {
	in := strip(5)
	before := in.Clone()

	out, st, err := wrap.Wrap(in, wrap.DefaultConfig())
	if err != nil {
		t.Fatalf("Wrap() error = %v", err)
	}
	if out.Header != "strip" {
		t.Errorf("Header = %q, want %q", out.Header, "strip")
	}
	if out.TriangleCount() <= in.TriangleCount() {
		t.Errorf("expected refinement, got %d triangles", out.TriangleCount())
	}
	if st.InputTriangles != 2 || st.OutputTriangles != out.TriangleCount() {
		t.Errorf("stats = %+v", st)
	}
	if !st.HasBounds || st.Bounds.Min != 0 || st.Bounds.Max != 10 {
		t.Errorf("bounds = %+v, want {0 10}", st.Bounds)
	}
	if st.Depth == 0 {
		t.Error("expected non-zero refinement depth")
	}
	for i, tri := range out.Triangles {
		for _, v := range tri.V {
			if r := math.Hypot(v.X, v.Y); math.Abs(r-5) > 1e-9 {
				t.Fatalf("triangle %d vertex %v radius %v, want 5", i, v, r)
			}
			if v.Z < 0 || v.Z > 2 {
				t.Fatalf("triangle %d vertex %v: z left [0,2]", i, v)
			}
		}
	}
	checkNormals(t, out)

	// Normals of a cylinder wall point radially.
	for i, tri := range out.Triangles {
		c := tri.V[0].Add(tri.V[1]).Add(tri.V[2]).DivScalar(3)
		radial := v3.Vec{X: c.X, Y: c.Y}
		if math.Abs(tri.Normal.Dot(radial)/radial.Length()) < 0.9 {
			t.Fatalf("triangle %d normal %v is not radial", i, tri.Normal)
		}
	}

	for i := range before.Triangles {
		if in.Triangles[i] != before.Triangles[i] {
			t.Fatal("Wrap mutated its input")
		}
	}
}

func TestWrapNoRefine(t *testing.T) {
	cfg := wrap.DefaultConfig()
	cfg.Refine = false
	out, st, err := wrap.Wrap(strip(3), cfg)
	if err != nil {
		t.Fatalf("Wrap() error = %v", err)
	}
	if out.TriangleCount() != 2 {
		t.Fatalf("TriangleCount() = %d, want 2", out.TriangleCount())
	}
	if st.Depth != 0 {
		t.Errorf("Depth = %d, want 0", st.Depth)
	}
	// Full sweep closes the strip: x=0 and x=10 both land on (3, 0).
	a, b := out.Triangles[0].V[0], out.Triangles[0].V[1]
	if a.Sub(b).Length() > 1e-9 {
		t.Errorf("seam vertices %v and %v differ", a, b)
	}
	// Which makes the first triangle degenerate.
	if out.Triangles[0].Normal != (v3.Vec{}) {
		t.Errorf("normal = %v, want zero", out.Triangles[0].Normal)
	}
	if st.Degenerate != 2 {
		t.Errorf("Degenerate = %d, want 2", st.Degenerate)
	}
	if out.Triangles[0].Attr != 1 || out.Triangles[1].Attr != 2 {
		t.Error("attributes not preserved")
	}
}

func TestWrapEmpty(t *testing.T) {
	out, st, err := wrap.Wrap(&mesh.Mesh{Header: "nothing"}, wrap.DefaultConfig())
	if err != nil {
		t.Fatalf("Wrap() error = %v", err)
	}
	if !out.IsEmpty() || out.Header != "nothing" {
		t.Errorf("Wrap(empty) = %+v", out)
	}
	if st.HasBounds {
		t.Error("empty mesh should have no bounds")
	}
}

func TestWrapInvalid(t *testing.T) {
	cfg := wrap.DefaultConfig()
	cfg.MaxEdgeLength = 0
	if _, _, err := wrap.Wrap(strip(1), cfg); !errors.Is(err, wrap.ErrInvalidInput) {
		t.Errorf("Wrap() error = %v, want ErrInvalidInput", err)
	}
	if _, _, err := wrap.Wrap(nil, wrap.DefaultConfig()); !errors.Is(err, wrap.ErrInvalidInput) {
		t.Errorf("Wrap(nil) error = %v, want ErrInvalidInput", err)
	}
}

func TestWrapOverflow(t *testing.T) {
	cfg := wrap.DefaultConfig()
	cfg.Strategy = wrap.Centroid
	_, _, err := wrap.Wrap(strip(5), cfg)
	var ov *wrap.RefinementOverflowError
	if !errors.As(err, &ov) {
		t.Fatalf("Wrap() error = %v, want *RefinementOverflowError", err)
	}
	if ov.Index != 0 {
		t.Errorf("Index = %d, want 0", ov.Index)
	}
	if !errors.Is(err, wrap.ErrRefinementOverflow) {
		t.Error("errors.Is(err, ErrRefinementOverflow) = false")
	}
}

func TestWrapSdfxSlab(t *testing.T) {
	k := sdfx.New(40)
	box, err := k.Box(20, 2, 4)
	if err != nil {
		t.Fatalf("Box() error = %v", err)
	}
	in, err := k.ToMesh(k.Translate(box, 0, 10, 0), "slab")
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}

	out, st, err := wrap.Wrap(in, wrap.DefaultConfig())
	if err != nil {
		t.Fatalf("Wrap() error = %v", err)
	}
	if out.TriangleCount() < in.TriangleCount() {
		t.Errorf("output has %d triangles, input %d", out.TriangleCount(), in.TriangleCount())
	}
	const slack = 1.0
	for i, tri := range out.Triangles {
		for _, v := range tri.V {
			r := math.Hypot(v.X, v.Y)
			if r < 10-slack || r > 12+slack {
				t.Fatalf("triangle %d vertex %v radius %v outside slab", i, v, r)
			}
		}
	}
	checkNormals(t, out)
	t.Logf("slab: %d -> %d triangles, bounds %+v", st.InputTriangles, st.OutputTriangles, st.Bounds)
}

func TestWrapZeroWidthBounds(t *testing.T) {
	flat := mesh.New("flat", []mesh.Triangle{{V: [3]mesh.Vertex{
		{X: 2, Y: 1, Z: 0}, {X: 2, Y: 3, Z: 0}, {X: 2, Y: 1, Z: 4},
	}}})

	cfg := wrap.DefaultConfig()
	cfg.Epsilon = 0
	if _, _, err := wrap.Wrap(flat, cfg); !errors.Is(err, wrap.ErrInvalidInput) {
		t.Fatalf("Wrap() with zero epsilon error = %v, want ErrInvalidInput", err)
	}

	out, st, err := wrap.Wrap(flat, wrap.DefaultConfig())
	if err != nil {
		t.Fatalf("Wrap() error = %v", err)
	}
	if st.Bounds.Width() != 0 {
		t.Errorf("bounds width = %v, want 0", st.Bounds.Width())
	}
	for i, tri := range out.Triangles {
		for _, v := range tri.V {
			if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z) {
				t.Fatalf("triangle %d has NaN vertex %v", i, v)
			}
			if math.Abs(v.Y) > 1e-12 {
				t.Fatalf("triangle %d vertex %v: want angle 0", i, v)
			}
		}
	}
}
