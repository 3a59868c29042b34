// Package kernel defines the geometry kernel used to synthesise flat
// meshes for wrapping. Implementations (sdfx) build solids and tessellate
// them into mesh.Mesh values; the wrap pipeline never sees the kernel.
package kernel

import "github.com/chazu/stlwrap/pkg/mesh"

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) (Solid, error)

	// Transforms
	Translate(s Solid, x, y, z float64) Solid

	// Mesh output
	ToMesh(s Solid, header string) (*mesh.Mesh, error)
}
