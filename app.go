package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chazu/stlwrap/pkg/engine"
	"github.com/chazu/stlwrap/pkg/kernel"
	"github.com/chazu/stlwrap/pkg/kernel/sdfx"
	"github.com/chazu/stlwrap/pkg/mesh"
	"github.com/chazu/stlwrap/pkg/stl"
	"github.com/chazu/stlwrap/pkg/wrap"
)

// OutputSuffix is appended to the input file name to name the result.
const OutputSuffix = ".wrap"

// Options selects where the mesh comes from and where it goes.
type Options struct {
	Input  string // binary STL to wrap
	Output string // defaults to Input + OutputSuffix

	// Slab, when set to "LxWxH", synthesises a flat box instead of reading
	// Input. The box starts at the origin and is raised SlabRadius along
	// the radius axis.
	Slab       string
	SlabRadius float64
	Cells      int // marching cubes resolution for Slab
}

// Result reports what a run produced.
type Result struct {
	Output string
	Stats  wrap.Stats
}

// App ties the script engine, the geometry kernel and the wrap pipeline
// together for the command line.
type App struct {
	engine *engine.Engine
	logf   func(format string, v ...interface{})
	kernel func(cells int) kernel.Kernel
}

// NewApp creates a new App logging through logf.
func NewApp(logf func(format string, v ...interface{})) *App {
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}
	return &App{
		engine: engine.NewEngine(),
		logf:   logf,
		kernel: func(cells int) kernel.Kernel { return sdfx.New(cells) },
	}
}

// LoadConfig evaluates the wrap-job script at path on top of base.
func (a *App) LoadConfig(path string, base wrap.Config) (wrap.Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("script: %w", err)
	}
	cfg, evalErrs, err := a.engine.Evaluate(string(src), base)
	if err != nil {
		return base, fmt.Errorf("script %s: %w", path, err)
	}
	if len(evalErrs) > 0 {
		msgs := make([]string, len(evalErrs))
		for i, e := range evalErrs {
			msgs[i] = e.Error()
		}
		return base, fmt.Errorf("script %s: %s", path, strings.Join(msgs, "; "))
	}
	return *cfg, nil
}

// Run loads or synthesises the input mesh, wraps it and writes the result.
func (a *App) Run(opts Options, cfg wrap.Config) (Result, error) {
	var res Result
	if err := cfg.Validate(); err != nil {
		return res, err
	}

	in, name, err := a.source(opts, cfg)
	if err != nil {
		return res, err
	}
	res.Output = OutputPath(name, opts.Output)

	a.logf("Max. side length is %g", cfg.MaxEdgeLength)
	out, st, err := wrap.Wrap(in, cfg)
	if err != nil {
		return res, fmt.Errorf("wrap %s: %w", name, err)
	}
	res.Stats = st
	if st.HasBounds {
		a.logf("%s ranges from %g to %g", cfg.WrapAxis, st.Bounds.Min, st.Bounds.Max)
	} else {
		a.logf("%s has no triangles, nothing to wrap", name)
	}
	a.logf("%d triangles in, %d out (refinement depth %d, %d degenerate)",
		st.InputTriangles, st.OutputTriangles, st.Depth, st.Degenerate)

	if err := stl.WriteFile(res.Output, out); err != nil {
		return res, fmt.Errorf("write: %w", err)
	}
	a.logf("wrote %s", res.Output)
	return res, nil
}

// source returns the mesh to wrap and a name to derive the output from.
func (a *App) source(opts Options, cfg wrap.Config) (*mesh.Mesh, string, error) {
	if opts.Slab == "" {
		if opts.Input == "" {
			return nil, "", fmt.Errorf("no input file given")
		}
		m, err := stl.ReadFile(opts.Input)
		if err != nil {
			return nil, "", fmt.Errorf("read: %w", err)
		}
		return m, opts.Input, nil
	}

	dims, err := ParseDims(opts.Slab)
	if err != nil {
		return nil, "", err
	}
	k := a.kernel(opts.Cells)
	box, err := k.Box(dims[0], dims[1], dims[2])
	if err != nil {
		return nil, "", fmt.Errorf("slab: %w", err)
	}
	var shift [3]float64
	shift[cfg.RadiusAxis] = opts.SlabRadius
	box = k.Translate(box, shift[0], shift[1], shift[2])
	m, err := k.ToMesh(box, "stlwrap slab "+opts.Slab)
	if err != nil {
		return nil, "", fmt.Errorf("slab: %w", err)
	}
	return m, "slab.stl", nil
}

// OutputPath returns explicit if set, otherwise input + OutputSuffix.
func OutputPath(input, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return input + OutputSuffix
}

// ParseDims parses "LxWxH" into three positive sizes.
func ParseDims(s string) ([3]float64, error) {
	var dims [3]float64
	parts := strings.Split(strings.ToLower(s), "x")
	if len(parts) != 3 {
		return dims, fmt.Errorf("slab %q: want LxWxH", s)
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || !(v > 0) {
			return dims, fmt.Errorf("slab %q: bad size %q", s, p)
		}
		dims[i] = v
	}
	return dims, nil
}
