package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/momrefine/internal/box"
)

var (
	boxPoint []string
	boxDepth int
)

var boxCmd = &cobra.Command{
	Use:   "box [path]",
	Short: "Describe a box",
	Long: `Print the center, cover, corners and cusp area range of the box reached by
following path (a string of 0 and 1 digits) from the root.

An empty path ("") names the root box. With --point, the box is instead the
one at --depth that contains the given lattice, loxodromic and parabolic
coordinates.`,
	Example: `  momrefine box 010011
  momrefine box --point 0.5+1i,0.2+0.9i,1.1+0.3i --depth 42`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBox,
}

func init() {
	f := boxCmd.Flags()
	f.StringSliceVar(&boxPoint, "point", nil, "Locate a point given as lattice,loxodromic,parabolic complex numbers")
	f.IntVar(&boxDepth, "depth", 60, "Depth of the box located with --point")
}

// checkBoxPath rejects paths that FromPath would misread or that would
// exhaust box subdivision.
func checkBoxPath(path string) error {
	if strings.Trim(path, "01") != "" {
		return fmt.Errorf("box path %q has characters other than 0 and 1", path)
	}
	if len(path) > box.MaxDepth {
		return fmt.Errorf("box path is %d deep, deepest is %d", len(path), box.MaxDepth)
	}
	return nil
}

// parsePoint reads three complex coordinates in lattice, loxodromic,
// parabolic order.
func parsePoint(values []string) (box.Point, error) {
	var p box.Point
	if len(values) != 3 {
		return p, fmt.Errorf("point needs 3 coordinates, got %d", len(values))
	}
	var z [3]complex128
	for i, v := range values {
		c, err := strconv.ParseComplex(strings.TrimSpace(v), 128)
		if err != nil {
			return p, fmt.Errorf("parse coordinate %q: %w", v, err)
		}
		z[i] = c
	}
	p.Lattice, p.Loxodromic, p.Parabolic = z[0], z[1], z[2]
	return p, nil
}

// resolveBoxPath picks the path named by the arguments or located by
// --point.
func resolveBoxPath(args, point []string, depth int) (string, error) {
	switch {
	case len(point) > 0 && len(args) > 0:
		return "", errors.New("give either a path or --point, not both")
	case len(point) > 0:
		if depth < 0 || depth > box.MaxDepth {
			return "", fmt.Errorf("depth %d out of range [0, %d]", depth, box.MaxDepth)
		}
		p, err := parsePoint(point)
		if err != nil {
			return "", err
		}
		return box.PathTo(p, depth), nil
	case len(args) == 0:
		return "", errors.New("give a box path or --point")
	}
	return args[0], checkBoxPath(args[0])
}

func runBox(cmd *cobra.Command, args []string) error {
	path, err := resolveBoxPath(args, boxPoint, boxDepth)
	if err != nil {
		return err
	}

	b := box.FromPath(path, nil)
	out := cmd.OutOrStdout()

	name := b.Name
	if name == "" {
		name = "(root)"
	}
	fmt.Fprintf(out, "Box: %s\n", name)
	fmt.Fprintf(out, "  Depth: %d\n", b.Depth())

	center := b.Center()
	fmt.Fprintln(out, "  Center:")
	printPoint(out, center)

	cover := b.Cover()
	fmt.Fprintln(out, "  Cover:")
	fmt.Fprintf(out, "    lattice:    %s\n", cover.Lattice)
	fmt.Fprintf(out, "    loxodromic: %s\n", cover.Loxodromic)
	fmt.Fprintf(out, "    parabolic:  %s\n", cover.Parabolic)

	fmt.Fprintln(out, "  Minimum:")
	printPoint(out, b.Minimum())
	fmt.Fprintln(out, "  Maximum:")
	printPoint(out, b.Maximum())

	low, high := b.VolumeRange()
	fmt.Fprintf(out, "  Cusp area: [%g, %g]\n", low, high)
	return nil
}

func printPoint(w io.Writer, p box.Point) {
	fmt.Fprintf(w, "    lattice:    %v\n", p.Lattice)
	fmt.Fprintf(w, "    loxodromic: %v\n", p.Loxodromic)
	fmt.Fprintf(w, "    parabolic:  %v\n", p.Parabolic)
}
