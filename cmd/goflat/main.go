package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/plan-systems/klog"

	"github.com/flat-structures/flat.SDK/goflat"
	"github.com/flat-structures/flat.SDK/libflat"
	"github.com/flat-structures/flat.SDK/libflat/surfparse"
)

var (
	surfaceExpr = flag.String("surface", "", "surface in textual form, e.g. '(1 2 3)(-1 -2 -3) with vectors {1: (1, 0), 2: (0, 1), 3: (-1, -1)}'")
	named       = flag.String("named", "square", "named surface: square | centered-square")
	bound       = flag.Int64("bound", 3, "search radius for saddle connections")
	byLength    = flag.Bool("bylength", false, "emit connections ordered by length")
	collapse    = flag.String("collapse", "", "vertical direction 'x,y'; prints the collapsed surface instead of enumerating")
)

func main() {
	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	fset.Set("v", "1")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	flag.Parse()

	surface, err := loadSurface()
	if err != nil {
		klog.Fatalf("loading surface: %v", err)
	}
	fmt.Println(surface)

	if *collapse != "" {
		vertical, err := parseVector(*collapse)
		if err != nil {
			klog.Fatalf("parsing vertical: %v", err)
		}
		collapsed, err := libflat.NewCollapsed(surface, vertical)
		if err != nil {
			klog.Fatalf("collapsing: %v", err)
		}
		fmt.Println(collapsed)
		klog.Flush()
		return
	}

	query := surface.Connections().Bound(goflat.Int64(*bound))
	opts := goflat.DefaultPrintOpts
	opts.Numbered = true

	var count int
	if *byLength {
		count = query.ByLength().Stream().Print(os.Stdout, opts).PullAll()
	} else {
		count = query.Stream().Print(os.Stdout, opts).PullAll()
	}
	klog.V(1).Infof("%d connections within %d", count, *bound)
	klog.Flush()
}

func loadSurface() (*libflat.FlatTriangulation[goflat.Int64], error) {
	if *surfaceExpr != "" {
		return surfparse.ParseSurface(*surfaceExpr)
	}
	switch *named {
	case "square":
		return libflat.SquareTorus()
	case "centered-square":
		return libflat.CenteredSquareTorus()
	}
	return nil, fmt.Errorf("unknown named surface %q", *named)
}

func parseVector(s string) (libflat.Vector[goflat.Int64], error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return libflat.Vector[goflat.Int64]{}, fmt.Errorf("expected 'x,y', got %q", s)
	}
	var x, y int64
	if _, err := fmt.Sscanf(strings.TrimSpace(parts[0]), "%d", &x); err != nil {
		return libflat.Vector[goflat.Int64]{}, err
	}
	if _, err := fmt.Sscanf(strings.TrimSpace(parts[1]), "%d", &y); err != nil {
		return libflat.Vector[goflat.Int64]{}, err
	}
	return libflat.Vector[goflat.Int64]{X: goflat.Int64(x), Y: goflat.Int64(y)}, nil
}
