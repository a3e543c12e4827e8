package box

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShayCichocki/momrefine/internal/relator"
)

func samplePaths() []string {
	return []string{"", "0", "1", "0110", "101101", "0000000", "1110001011", "010101010101010"}
}

func TestChild_VolumeRangeNested(t *testing.T) {
	for _, p := range samplePaths() {
		b := FromPath(p, nil)
		lo, hi := b.VolumeRange()
		for dir := 0; dir < 2; dir++ {
			clo, chi := b.Child(dir).VolumeRange()
			assert.GreaterOrEqual(t, clo, lo, "path %q child %d low", p, dir)
			assert.LessOrEqual(t, chi, hi, "path %q child %d high", p, dir)
			assert.LessOrEqual(t, clo, chi)
		}
	}
}

func TestChild_CoversPartitionParent(t *testing.T) {
	for _, p := range samplePaths() {
		b := FromPath(p, nil)
		c0, c1 := b.Child(0), b.Child(1)

		// Probe the parent at a grid of offsets; each point must lie in
		// the cover of at least one child.
		for _, s := range []float64{-1, -0.5, 0, 0.5, 1} {
			var delta [Dims]float64
			for i := range delta {
				delta[i] = s
			}
			pt := b.Offset(delta)
			in0 := coverContains(c0.Cover(), pt)
			in1 := coverContains(c1.Cover(), pt)
			assert.True(t, in0 || in1, "path %q offset %g escapes both children", p, s)
		}
	}
}

func TestCover_EnclosesRepresentatives(t *testing.T) {
	for _, p := range samplePaths() {
		b := FromPath(p, nil)
		cov := b.Cover()
		assert.True(t, coverContains(cov, b.Center()), "center of %q", p)
		assert.True(t, coverContains(cov, b.Minimum()), "minimum of %q", p)
		assert.True(t, coverContains(cov, b.Maximum()), "maximum of %q", p)
	}
}

func TestChild_Deterministic(t *testing.T) {
	b := FromPath("0110", nil)
	assert.Equal(t, b.Child(1), b.Child(1))
	assert.NotEqual(t, b.Child(0).Box, b.Child(1).Box)
	assert.Equal(t, b.Depth()+1, b.Child(0).Depth())
}

func TestNamedBox_ChildName(t *testing.T) {
	ctx := relator.NewContext([]string{"gg"}, nil)
	b := FromPath("01x1", ctx)
	require.Equal(t, "011", b.Name)
	require.Equal(t, 3, b.Depth())

	assert.Equal(t, "0110", b.Child(0).Name)
	assert.Equal(t, "0111", b.Child(1).Name)
	assert.Same(t, ctx, b.Child(1).Context)
	assert.Equal(t, "gg", b.Desc())
}

func TestChild_CapacityPanics(t *testing.T) {
	b := Root()
	for i := 0; i < MaxDepth; i++ {
		b = b.Child(i % 2)
	}
	assert.Panics(t, func() { b.Child(0) })
	assert.Panics(t, func() { Root().Child(2) })
}

func TestMinimumMaximum(t *testing.T) {
	b := FromPath("1", nil)
	// Dimension 0 (Im Lattice) is now [0, 8]; closest point has 0.
	assert.Equal(t, 0.0, imag(b.Minimum().Lattice))
	assert.Equal(t, 8.0, imag(b.Maximum().Lattice))

	lo, hi := b.VolumeRange()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 8.0, hi)
}

func coverContains(c Cover, p Point) bool {
	return c.Lattice.Contains(p.Lattice) &&
		c.Loxodromic.Contains(p.Loxodromic) &&
		c.Parabolic.Contains(p.Parabolic)
}

func TestPathTo_ContainsPoint(t *testing.T) {
	pts := []Point{
		{Lattice: complex(0.3, 2), Loxodromic: complex(0, 1), Parabolic: 0},
		{Lattice: complex(-1.5, 0.7), Loxodromic: complex(1, 0), Parabolic: complex(0.5, -0.25)},
	}
	for _, p := range pts {
		for _, depth := range []int{0, 6, 37, 60} {
			path := PathTo(p, depth)
			require.Len(t, path, depth)
			assert.True(t, coverContains(FromPath(path, nil).Cover(), p), "depth %d path %q", depth, path)
		}
	}
}
