package wrap

import (
	"errors"
	"fmt"

	"github.com/chazu/stlwrap/pkg/mesh"
)

var (
	// ErrInvalidInput is returned for bad configuration or unusable input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmptyMesh is returned when bounds or mapping are asked of a mesh
	// with no triangles.
	ErrEmptyMesh = fmt.Errorf("%w: empty mesh", ErrInvalidInput)
	// ErrRefinementOverflow matches any *RefinementOverflowError.
	ErrRefinementOverflow = errors.New("refinement overflow")
)

// RefinementOverflowError reports an input triangle whose refinement went
// deeper than Config.MaxDepth. Triangle is the original, unsplit input.
type RefinementOverflowError struct {
	Index    int
	Triangle mesh.Triangle
	Depth    int
}

func (e *RefinementOverflowError) Error() string {
	v := e.Triangle.V
	return fmt.Sprintf("degenerate triangle %d: refinement exceeded depth %d, vertices (%g, %g, %g) (%g, %g, %g) (%g, %g, %g)",
		e.Index, e.Depth,
		v[0].X, v[0].Y, v[0].Z,
		v[1].X, v[1].Y, v[1].Z,
		v[2].X, v[2].Y, v[2].Z)
}

// Is lets errors.Is match ErrRefinementOverflow.
func (e *RefinementOverflowError) Is(target error) bool {
	return target == ErrRefinementOverflow
}
