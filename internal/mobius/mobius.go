// Package mobius evaluates words in the generators g, m, n (and their
// inverses G, M, N) as SL(2,C) matrices, either at a parameter point or as
// interval enclosures over a whole box cover.
//
// At parameters (L, l, p):
//
//	m = [[1, 1], [0, 1]]
//	n = [[1, L], [0, 1]]
//	g = [[l, p], [p, (1+p^2)/l]]
package mobius

import (
	"errors"
	"fmt"

	"github.com/ShayCichocki/momrefine/internal/arith"
	"github.com/ShayCichocki/momrefine/internal/box"
)

var (
	// ErrSingular is returned when the loxodromic parameter vanishes (or
	// may vanish, for covers) so g is undefined.
	ErrSingular = errors.New("loxodromic parameter may vanish")
	// ErrLetter is returned for letters outside the alphabet.
	ErrLetter = errors.New("letter outside alphabet")
)

// Matrix is [[A, B], [C, D]].
type Matrix struct {
	A, B, C, D complex128
}

// Identity is the identity matrix.
var Identity = Matrix{A: 1, D: 1}

// Mul returns m*o.
func (m Matrix) Mul(o Matrix) Matrix {
	return Matrix{
		A: m.A*o.A + m.B*o.C,
		B: m.A*o.B + m.B*o.D,
		C: m.C*o.A + m.D*o.C,
		D: m.C*o.B + m.D*o.D,
	}
}

// Generators returns the six generator matrices at p.
func Generators(p box.Point) (map[byte]Matrix, error) {
	l := p.Loxodromic
	if l == 0 {
		return nil, ErrSingular
	}
	par := p.Parabolic
	d := (1 + par*par) / l
	return map[byte]Matrix{
		'm': {A: 1, B: 1, D: 1},
		'M': {A: 1, B: -1, D: 1},
		'n': {A: 1, B: p.Lattice, D: 1},
		'N': {A: 1, B: -p.Lattice, D: 1},
		'g': {A: l, B: par, C: par, D: d},
		'G': {A: d, B: -par, C: -par, D: l},
	}, nil
}

// Eval returns the matrix of word at p.
func Eval(word string, p box.Point) (Matrix, error) {
	gens, err := Generators(p)
	if err != nil {
		return Matrix{}, err
	}
	result := Identity
	for i := 0; i < len(word); i++ {
		g, ok := gens[word[i]]
		if !ok {
			return Matrix{}, fmt.Errorf("%w: %q in %q", ErrLetter, word[i], word)
		}
		result = result.Mul(g)
	}
	return result, nil
}

// IMatrix is an entrywise enclosure of a set of matrices.
type IMatrix struct {
	A, B, C, D arith.Complex
}

// Mul returns an enclosure of the products m*o.
func (m IMatrix) Mul(o IMatrix) IMatrix {
	return IMatrix{
		A: m.A.Mul(o.A).Add(m.B.Mul(o.C)),
		B: m.A.Mul(o.B).Add(m.B.Mul(o.D)),
		C: m.C.Mul(o.A).Add(m.D.Mul(o.C)),
		D: m.C.Mul(o.B).Add(m.D.Mul(o.D)),
	}
}

// CoverGenerators returns enclosures of the generator matrices over c.
func CoverGenerators(c box.Cover) (map[byte]IMatrix, error) {
	l := c.Loxodromic
	inv, ok := l.Inv()
	if !ok {
		return nil, ErrSingular
	}
	one := arith.Point(1)
	zero := arith.Point(0)
	par := c.Parabolic
	d := one.Add(par.Mul(par)).Mul(inv)
	return map[byte]IMatrix{
		'm': {A: one, B: one, C: zero, D: one},
		'M': {A: one, B: one.Neg(), C: zero, D: one},
		'n': {A: one, B: c.Lattice, C: zero, D: one},
		'N': {A: one, B: c.Lattice.Neg(), C: zero, D: one},
		'g': {A: l, B: par, C: par, D: d},
		'G': {A: d, B: par.Neg(), C: par.Neg(), D: l},
	}, nil
}

// EvalCover returns an enclosure of the matrices of word over c.
func EvalCover(word string, c box.Cover) (IMatrix, error) {
	gens, err := CoverGenerators(c)
	if err != nil {
		return IMatrix{}, err
	}
	one := arith.Point(1)
	zero := arith.Point(0)
	result := IMatrix{A: one, B: zero, C: zero, D: one}
	for i := 0; i < len(word); i++ {
		g, ok := gens[word[i]]
		if !ok {
			return IMatrix{}, fmt.Errorf("%w: %q in %q", ErrLetter, word[i], word)
		}
		result = result.Mul(g)
	}
	return result, nil
}
