// Package relator holds the quasi-relator context attached to a box: the
// relator words known to hold there and the canonical-name engine they
// define.
package relator

import (
	"strings"

	"go.uber.org/zap"

	"github.com/ShayCichocki/momrefine/internal/canonical"
)

// Generators is the base vocabulary of single-letter words.
var Generators = []string{"g", "G", "m", "M", "n", "N"}

// Context is immutable once built and may be shared between boxes.
type Context struct {
	relators []string
	engine   *canonical.Engine
}

// NewContext builds a context from the given defining relators.
func NewContext(relators []string, logger *zap.Logger) *Context {
	rs := make([]string, 0, len(relators))
	for _, r := range relators {
		if r = strings.TrimSpace(r); r != "" {
			rs = append(rs, r)
		}
	}
	return &Context{
		relators: rs,
		engine:   canonical.New(rs, canonical.WithLogger(logger)),
	}
}

// Empty returns a context with no relators.
func Empty() *Context {
	return NewContext(nil, nil)
}

// Relators returns the defining relators.
func (c *Context) Relators() []string {
	return append([]string(nil), c.relators...)
}

// Engine returns the canonical-name engine of the context.
func (c *Context) Engine() *canonical.Engine {
	return c.engine
}

// Name returns the canonical name of word after folding its leading lattice
// letters into normal position.
func (c *Context) Name(word string) string {
	return c.engine.CanonicalName(LatticeNormalize(word, 0, 0))
}

// Desc describes the context for logs.
func (c *Context) Desc() string {
	if len(c.relators) == 0 {
		return "-"
	}
	return strings.Join(c.relators, ",")
}

// AllWords returns the ball-search vocabulary: the generators followed by
// the relators.
func (c *Context) AllWords() []string {
	words := make([]string, 0, len(Generators)+len(c.relators))
	words = append(words, Generators...)
	return append(words, c.relators...)
}

// LatticeNormalize consumes the leading run of lattice letters of word,
// starting from the offset (x, y), and re-emits the offset as m^x n^y
// (capitals for negative powers) in front of the remainder.
func LatticeNormalize(word string, x, y int) string {
	i := 0
loop:
	for ; i < len(word); i++ {
		switch word[i] {
		case 'm':
			x++
		case 'M':
			x--
		case 'n':
			y++
		case 'N':
			y--
		default:
			break loop
		}
	}

	var b strings.Builder
	b.Grow(abs(x) + abs(y) + len(word) - i)
	writeRun(&b, 'm', 'M', x)
	writeRun(&b, 'n', 'N', y)
	b.WriteString(word[i:])
	return b.String()
}

func writeRun(b *strings.Builder, pos, neg byte, k int) {
	c := pos
	if k < 0 {
		c, k = neg, -k
	}
	for j := 0; j < k; j++ {
		b.WriteByte(c)
	}
}

func abs(k int) int {
	if k < 0 {
		return -k
	}
	return k
}
