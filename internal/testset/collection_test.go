package testset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ShayCichocki/momrefine/internal/box"
)

// boxAt returns a small box (ten halvings per dimension) around p.
func boxAt(p box.Point) box.NamedBox {
	return box.FromPath(box.PathTo(p, 60), nil)
}

func TestEvaluateBox_Verdicts(t *testing.T) {
	tests := []struct {
		name string
		word string
		at   box.Point
		want Verdict
	}{
		{
			name: "horoball overlap everywhere",
			word: "g",
			at:   box.Point{Lattice: 2i, Loxodromic: 1, Parabolic: 0.5},
			want: BoxImpossible,
		},
		{
			name: "fixes cusp but wrong multiplier",
			word: "g",
			at:   box.Point{Lattice: 2i, Loxodromic: 0.5, Parabolic: 0},
			want: IdentityImpossible,
		},
		{
			name: "translation between lattice rows",
			word: "gm",
			at:   box.Point{Lattice: complex(0.3, 2), Loxodromic: 1i, Parabolic: 0},
			want: LatticeImpossible,
		},
		{
			name: "proper power of impossible word",
			word: "gg",
			at:   box.Point{Lattice: 2i, Loxodromic: 1, Parabolic: 0},
			want: PowerImpossible,
		},
		{
			name: "could be a relation",
			word: "g",
			at:   box.Point{Lattice: 2i, Loxodromic: 1, Parabolic: 0},
			want: VarietyCandidate,
		},
		{
			name: "far from cusp",
			word: "g",
			at:   box.Point{Lattice: 2i, Loxodromic: 1, Parabolic: 2},
			want: Outside,
		},
		{
			name: "freely trivial word",
			word: "gmMG",
			at:   box.Point{Lattice: 2i, Loxodromic: 1, Parabolic: 2},
			want: InvalidIdentity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(nil)
			c.SetImpossiblePowers([]string{"g"})
			i := c.Add(tt.word)
			assert.Equal(t, tt.want, c.EvaluateBox(i, boxAt(tt.at)))
		})
	}
}

func TestEvaluateBox_SingularIsUndecided(t *testing.T) {
	c := New(nil)
	i := c.Add("g")
	assert.Equal(t, Undecided, c.EvaluateBox(i, box.NewRoot(nil)))
}

func TestEvaluatePoint(t *testing.T) {
	c := New(nil)
	i := c.Add("g")

	assert.True(t, c.EvaluatePoint(i, boxAt(box.Point{Lattice: 2i, Loxodromic: 1, Parabolic: 0.5})))
	assert.False(t, c.EvaluatePoint(i, boxAt(box.Point{Lattice: 2i, Loxodromic: 1, Parabolic: 2})))
	// The root center has a vanishing loxodromic parameter.
	assert.True(t, c.EvaluatePoint(i, box.NewRoot(nil)))
}

func TestVerdict_Classes(t *testing.T) {
	eliminating := map[Verdict]bool{
		BoxImpossible: true, IdentityImpossible: true, LatticeImpossible: true,
		PowerImpossible: true, InvalidIdentity: true,
	}
	for v := Outside; v <= InvalidIdentity; v++ {
		assert.Equal(t, eliminating[v], v.Eliminates(), "Eliminates(%v)", v)
	}
	assert.Equal(t, "verdict(9)", Verdict(9).String())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words")
	content := "# seed words\ng\n\n  gm \nGnGm\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	c := New(nil)
	require.NoError(t, c.Load(path))
	assert.Equal(t, []string{"g", "gm", "GnGm"}, c.Names())
	assert.Equal(t, 3, c.Count())
	assert.Equal(t, "gm", c.Name(1))

	assert.Error(t, c.Load(filepath.Join(dir, "missing")))
}

func TestAdd_WarnsOnForeignLetters(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	c := New(zap.New(core))

	assert.Equal(t, 0, c.Add("gm"))
	assert.Equal(t, 1, c.Add("gxm"))
	assert.Equal(t, 2, c.Add("gm"))
	assert.Equal(t, 1, logs.Len())
}
