package wrap

import (
	"github.com/chazu/stlwrap/pkg/mesh"
	"github.com/pkg/errors"
)

// Stats summarises a Wrap run.
type Stats struct {
	InputTriangles  int
	OutputTriangles int
	Bounds          Bounds
	HasBounds       bool
	Depth           int // deepest refinement level reached
	Degenerate      int // triangles left with a zero normal
}

// Wrap runs the full pipeline on in: scan bounds, refine, map onto the
// cylinder and recompute normals. The input is never modified.
//
// An empty input yields an empty output carrying the same header. A
// refinement overflow aborts the run and is returned as a
// *RefinementOverflowError.
func Wrap(in *mesh.Mesh, cfg Config) (*mesh.Mesh, Stats, error) {
	var st Stats
	if err := cfg.Validate(); err != nil {
		return nil, st, err
	}
	if in == nil {
		return nil, st, errors.Wrap(ErrInvalidInput, "wrap: nil mesh")
	}
	st.InputTriangles = in.TriangleCount()
	if in.IsEmpty() {
		return &mesh.Mesh{Header: in.Header}, st, nil
	}

	b, err := ScanBounds(in, cfg.WrapAxis)
	if err != nil {
		return nil, st, errors.Wrap(err, "wrap: scan bounds")
	}
	st.Bounds, st.HasBounds = b, true

	refined := in
	if cfg.Refine {
		refined, st.Depth, err = SubdivideMesh(in, cfg)
		if err != nil {
			return nil, st, errors.Wrap(err, "wrap: subdivide")
		}
	}

	mapped, err := MapMesh(refined, b, cfg)
	if err != nil {
		return nil, st, errors.Wrap(err, "wrap: map")
	}

	out, degenerate := RecomputeNormals(mapped)
	st.OutputTriangles = out.TriangleCount()
	st.Degenerate = degenerate
	return out, st, nil
}
