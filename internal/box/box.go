// Package box models regions of the six real dimensional parameter space as
// nodes of an implicit binary subdivision tree.
//
// A Box stores center and half-size digits per dimension. Child boxes halve
// one dimension at a time, cycling through all six, so the digit encoding of
// every node is reached by exactly one path from the root.
package box

import (
	"fmt"
	"math"
	"strings"

	"github.com/ShayCichocki/momrefine/internal/arith"
)

// Dims is the number of real dimensions of the parameter space.
const Dims = 6

// MaxDepth is the deepest subdivision the float64 digit encoding represents
// exactly.
const MaxDepth = Dims * 52

// rootHalfSize is the half-size of every dimension of the root box.
const rootHalfSize = 8

// scale maps digits of dimension i into parameter coordinates.
var scale [Dims]float64

func init() {
	for i := range scale {
		scale[i] = math.Pow(2, -float64(i)/Dims)
	}
}

// Params holds the three complex coordinates of a parameter-space point or
// of an enclosure of a region.
type Params[T any] struct {
	Lattice    T
	Loxodromic T
	Parabolic  T
}

// Point is a single parameter-space point.
type Point = Params[complex128]

// Cover is a rigorous enclosure of a region.
type Cover = Params[arith.Complex]

// Box is immutable; Child returns a new value.
type Box struct {
	center [Dims]float64
	size   [Dims]float64
	depth  int
}

// Root returns the box covering the whole search space.
func Root() Box {
	var b Box
	for i := range b.size {
		b.size[i] = rootHalfSize
	}
	return b
}

// Depth returns the number of subdivisions from the root.
func (b Box) Depth() int {
	return b.depth
}

// Child returns sub-box dir (0 or 1) of b. It panics when b is already at
// MaxDepth or dir is out of range.
func (b Box) Child(dir int) Box {
	if dir != 0 && dir != 1 {
		panic(fmt.Sprintf("box: invalid child direction %d", dir))
	}
	if b.depth >= MaxDepth {
		panic(fmt.Sprintf("box: subdivision capacity %d exhausted", MaxDepth))
	}
	pos := b.depth % Dims
	child := b
	child.size[pos] *= 0.5
	child.center[pos] += float64(2*dir-1) * child.size[pos]
	child.depth++
	return child
}

// Center returns the representative point of b.
func (b Box) Center() Point {
	return toPoint(b.center)
}

// Offset returns the point displaced from the center by delta[i] half-sizes
// in dimension i. |delta[i]| <= 1 stays inside b.
func (b Box) Offset(delta [Dims]float64) Point {
	var d [Dims]float64
	for i := range d {
		d[i] = b.center[i] + delta[i]*b.size[i]
	}
	return toPoint(d)
}

// Minimum returns the corner closest to the origin in every coordinate.
func (b Box) Minimum() Point {
	var d [Dims]float64
	for i := range d {
		c := math.Abs(b.center[i])
		d[i] = math.Copysign(math.Max(c-b.size[i], 0), b.center[i])
	}
	return toPoint(d)
}

// Maximum returns the corner farthest from the origin in every coordinate.
func (b Box) Maximum() Point {
	var d [Dims]float64
	for i := range d {
		d[i] = math.Copysign(math.Abs(b.center[i])+b.size[i], b.center[i])
	}
	return toPoint(d)
}

// Cover returns an outward-rounded enclosure of every point of b.
func (b Box) Cover() Cover {
	rect := func(re, im int) arith.Complex {
		z := complex(scale[re]*b.center[re], scale[im]*b.center[im])
		return arith.Rect(z, scale[re]*b.size[re], scale[im]*b.size[im])
	}
	return Cover{
		Lattice:    rect(3, 0),
		Loxodromic: rect(4, 1),
		Parabolic:  rect(5, 2),
	}
}

// VolumeRange returns lower and upper bounds of the cusp area |Im(Lattice)|
// over b. A child's range always lies within its parent's.
func (b Box) VolumeRange() (low, high float64) {
	c := math.Abs(b.center[0])
	low = math.Max(c-b.size[0], 0) * scale[0]
	high = (c + b.size[0]) * scale[0]
	return low, high
}

// String prints the digit encoding.
func (b Box) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "depth=%d", b.depth)
	for i := range b.center {
		fmt.Fprintf(&sb, " %g±%g", b.center[i], b.size[i])
	}
	return sb.String()
}

func toPoint(d [Dims]float64) Point {
	var m [Dims]float64
	for i := range m {
		m[i] = scale[i] * d[i]
	}
	return Point{
		Lattice:    complex(m[3], m[0]),
		Loxodromic: complex(m[4], m[1]),
		Parabolic:  complex(m[5], m[2]),
	}
}

// PathTo returns the path of the box at the given depth that contains p.
// Points on a split boundary go to child 1.
func PathTo(p Point, depth int) string {
	if depth > MaxDepth {
		depth = MaxDepth
	}
	target := fromPoint(p)
	b := Root()
	path := make([]byte, 0, depth)
	for b.depth < depth {
		pos := b.depth % Dims
		dir := 0
		if target[pos] >= b.center[pos] {
			dir = 1
		}
		b = b.Child(dir)
		path = append(path, byte('0'+dir))
	}
	return string(path)
}

func fromPoint(p Point) [Dims]float64 {
	m := [Dims]float64{
		imag(p.Lattice), imag(p.Loxodromic), imag(p.Parabolic),
		real(p.Lattice), real(p.Loxodromic), real(p.Parabolic),
	}
	for i := range m {
		m[i] /= scale[i]
	}
	return m
}
