// Command stlwrap wraps a flat binary STL mesh onto a cylinder.
//
//	stlwrap [flags] FILE
//
// The result is written to FILE.wrap unless -o is given. Triangles are
// first refined so that no edge is longer than -m.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/chazu/stlwrap/pkg/wrap"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("stlwrap: ")

	def := wrap.DefaultConfig()
	var (
		maxLength = flag.Float64("m", def.MaxEdgeLength, "maximum length of triangle sides before wrapping")
		sweep     = flag.Float64("sweep", def.Sweep, "angle in radians the wrap axis range maps onto")
		half      = flag.Bool("half", false, "map onto a quarter turn (π/2) instead of a full wrap; excludes -sweep")
		wrapAxis  = flag.String("axis", def.WrapAxis.String(), "axis that becomes the angle (x, y or z)")
		radius    = flag.String("radius", def.RadiusAxis.String(), "axis that becomes the radius (x, y or z)")
		strategy  = flag.String("strategy", def.Strategy.String(), "triangle split strategy (midpoint or centroid)")
		maxDepth  = flag.Int("depth", def.MaxDepth, "maximum refinement levels per triangle")
		noRefine  = flag.Bool("no-refine", false, "skip triangle refinement")
		script    = flag.String("script", "", "wrap-job script setting the parameters; flags override it")
		output    = flag.String("o", "", "output file (default FILE"+OutputSuffix+")")
		slab      = flag.String("slab", "", "wrap a generated LxWxH slab instead of reading FILE")
		slabR     = flag.Float64("slab-radius", 10, "distance of the generated slab from the cylinder axis")
		cells     = flag.Int("cells", 0, "marching cubes resolution for -slab")
		quiet     = flag.Bool("q", false, "only report errors")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: stlwrap [flags] FILE\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	logf := log.Printf
	if *quiet {
		logf = log.New(io.Discard, "", 0).Printf
	}
	app := NewApp(logf)

	cfg := def
	if *script != "" {
		var err error
		cfg, err = app.LoadConfig(*script, cfg)
		if err != nil {
			log.Fatal(err)
		}
	}

	// Explicit flags win over the script.
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if err := exclusiveFlags(set, "half", "sweep"); err != nil {
		log.Fatal(err)
	}

	var flagErr error
	flag.Visit(func(f *flag.Flag) {
		var err error
		switch f.Name {
		case "m":
			cfg.MaxEdgeLength = *maxLength
		case "sweep":
			cfg.Sweep = *sweep
		case "half":
			if *half {
				cfg.Sweep = wrap.HalfSweep
			}
		case "axis":
			cfg.WrapAxis, err = wrap.ParseAxis(*wrapAxis)
		case "radius":
			cfg.RadiusAxis, err = wrap.ParseAxis(*radius)
		case "strategy":
			cfg.Strategy, err = wrap.ParseStrategy(*strategy)
		case "depth":
			cfg.MaxDepth = *maxDepth
		case "no-refine":
			cfg.Refine = !*noRefine
		}
		if err != nil && flagErr == nil {
			flagErr = fmt.Errorf("-%s: %w", f.Name, err)
		}
	})
	if flagErr != nil {
		log.Fatal(flagErr)
	}

	opts := Options{
		Input:      flag.Arg(0),
		Output:     *output,
		Slab:       *slab,
		SlabRadius: *slabR,
		Cells:      *cells,
	}
	if opts.Input == "" && opts.Slab == "" {
		flag.Usage()
		os.Exit(2)
	}

	if _, err := app.Run(opts, cfg); err != nil {
		log.Fatalf("%v", err)
	}
}

// exclusiveFlags reports an error if more than one of names was set.
func exclusiveFlags(set map[string]bool, names ...string) error {
	var given []string
	for _, n := range names {
		if set[n] {
			given = append(given, "-"+n)
		}
	}
	if len(given) > 1 {
		return fmt.Errorf("%s cannot be combined", strings.Join(given, " and "))
	}
	return nil
}
