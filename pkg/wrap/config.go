// Package wrap bends a flat triangle mesh onto a cylinder. One axis of the
// input becomes the angle around the cylinder, a second axis becomes the
// radius, and the third passes through. Triangles are optionally refined
// first so that no edge exceeds a maximum length, since large flat facets
// show visible faceting once curved.
//
// Every stage takes an immutable Config and an input mesh and returns a new
// mesh; nothing reads ambient state and nothing is mutated in place.
package wrap

import (
	"fmt"
	"math"
	"strings"
)

// Axis selects a coordinate of a vertex.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// ParseAxis converts "x", "y" or "z" (any case) to an Axis.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("%w: invalid axis %q, expected x, y, or z", ErrInvalidInput, s)
}

func (a Axis) valid() bool {
	return a >= AxisX && a <= AxisZ
}

// Strategy selects how an oversized triangle is split.
type Strategy int

const (
	// Midpoint splits a triangle into four through its edge midpoints.
	// Every child's longest edge is at most half the parent's, so
	// refinement always terminates.
	Midpoint Strategy = iota
	// Centroid fans a triangle into three around its centroid. It does not
	// shorten the longest edge on every branch; needle-shaped triangles can
	// hit the depth cap.
	Centroid
)

func (s Strategy) String() string {
	switch s {
	case Midpoint:
		return "midpoint"
	case Centroid:
		return "centroid"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy converts "midpoint" or "centroid" to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "midpoint", "quad":
		return Midpoint, nil
	case "centroid", "fan":
		return Centroid, nil
	}
	return 0, fmt.Errorf("%w: invalid strategy %q, expected midpoint or centroid", ErrInvalidInput, s)
}

// Angular sweeps the wrap axis range can be mapped onto.
const (
	FullSweep = 2 * math.Pi
	HalfSweep = math.Pi / 2
)

// Defaults.
const (
	DefaultMaxEdgeLength = 1.0
	DefaultMaxDepth      = 32
	DefaultEpsilon       = 1e-9
)

// Config holds every parameter of a wrap run.
type Config struct {
	WrapAxis      Axis     // becomes the angle
	RadiusAxis    Axis     // becomes the distance from the cylinder axis
	MaxEdgeLength float64  // refinement threshold, must be > 0
	Sweep         float64  // angle the full wrap-axis range maps onto
	Strategy      Strategy // refinement split strategy
	MaxDepth      int      // hard cap on refinement levels per input triangle
	Epsilon       float64  // bounds widths below this map everything to angle 0, must be > 0
	Refine        bool     // subdivide before mapping
}

// DefaultConfig returns a full 2π wrap of X around Y with 1.0 max edges.
func DefaultConfig() Config {
	return Config{
		WrapAxis:      AxisX,
		RadiusAxis:    AxisY,
		MaxEdgeLength: DefaultMaxEdgeLength,
		Sweep:         FullSweep,
		Strategy:      Midpoint,
		MaxDepth:      DefaultMaxDepth,
		Epsilon:       DefaultEpsilon,
		Refine:        true,
	}
}

// PassAxis returns the axis that is neither the wrap nor the radius axis.
func (c Config) PassAxis() Axis {
	return Axis(3 - int(c.WrapAxis) - int(c.RadiusAxis))
}

// Validate reports the first problem with c, wrapped in ErrInvalidInput.
func (c Config) Validate() error {
	switch {
	case !c.WrapAxis.valid():
		return fmt.Errorf("%w: wrap axis %v out of range", ErrInvalidInput, c.WrapAxis)
	case !c.RadiusAxis.valid():
		return fmt.Errorf("%w: radius axis %v out of range", ErrInvalidInput, c.RadiusAxis)
	case c.WrapAxis == c.RadiusAxis:
		return fmt.Errorf("%w: wrap and radius axis are both %v", ErrInvalidInput, c.WrapAxis)
	case !(c.MaxEdgeLength > 0) || math.IsInf(c.MaxEdgeLength, 0):
		return fmt.Errorf("%w: max edge length must be positive and finite, got %v", ErrInvalidInput, c.MaxEdgeLength)
	case !(c.Sweep > 0) || math.IsInf(c.Sweep, 0):
		return fmt.Errorf("%w: sweep must be positive and finite, got %v", ErrInvalidInput, c.Sweep)
	case c.Strategy != Midpoint && c.Strategy != Centroid:
		return fmt.Errorf("%w: unknown strategy %v", ErrInvalidInput, c.Strategy)
	case c.MaxDepth <= 0:
		return fmt.Errorf("%w: max depth must be positive, got %d", ErrInvalidInput, c.MaxDepth)
	case !(c.Epsilon > 0) || math.IsInf(c.Epsilon, 0):
		return fmt.Errorf("%w: epsilon must be positive and finite, got %v", ErrInvalidInput, c.Epsilon)
	}
	return nil
}
