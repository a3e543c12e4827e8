// Package testset holds the collection of word tests used to eliminate
// boxes. Each test is a word in g, m, n and their inverses; a test fires on
// a box when the word's matrix is forced to move the cusp horoball by less
// than its own size.
package testset

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/ShayCichocki/momrefine/internal/box"
	"github.com/ShayCichocki/momrefine/internal/canonical"
	"github.com/ShayCichocki/momrefine/internal/mobius"
)

// Collection is an append-only list of word tests. It is not safe for
// concurrent use.
type Collection struct {
	words  []string
	powers map[string]struct{}
	free   *canonical.Engine
	logger *zap.Logger
}

// New creates an empty collection.
func New(logger *zap.Logger) *Collection {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collection{
		powers: make(map[string]struct{}),
		free:   canonical.New(nil, canonical.WithLogger(logger)),
		logger: logger,
	}
}

// ReadWords reads a line-oriented word file. Blank lines and lines starting
// with '#' are skipped.
func ReadWords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word file: %w", err)
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read word file %s: %w", path, err)
	}
	return words, nil
}

// Load appends every word of the file at path.
func (c *Collection) Load(path string) error {
	words, err := ReadWords(path)
	if err != nil {
		return err
	}
	c.AddAll(words)
	return nil
}

// LoadImpossiblePowers reads words none of whose proper powers can be the
// identity.
func (c *Collection) LoadImpossiblePowers(path string) error {
	words, err := ReadWords(path)
	if err != nil {
		return err
	}
	c.SetImpossiblePowers(words)
	return nil
}

// SetImpossiblePowers adds words to the impossible-power set.
func (c *Collection) SetImpossiblePowers(words []string) {
	for _, w := range words {
		c.powers[c.free.Reduce(w)] = struct{}{}
	}
}

// AddAll appends each word in order.
func (c *Collection) AddAll(words []string) {
	for _, w := range words {
		c.Add(w)
	}
}

// Add appends word and returns its index. Duplicates are not detected.
func (c *Collection) Add(word string) int {
	if strings.Trim(word, "gGmMnN") != "" {
		c.logger.Warn("test word has letters outside alphabet", zap.String("word", word))
	}
	c.words = append(c.words, word)
	return len(c.words) - 1
}

// Count returns the number of tests.
func (c *Collection) Count() int {
	return len(c.words)
}

// Name returns the word of test i.
func (c *Collection) Name(i int) string {
	return c.words[i]
}

// Names returns a copy of all test words in index order.
func (c *Collection) Names() []string {
	return append([]string(nil), c.words...)
}

// EvaluatePoint reports whether test i may still fire near the center of b:
// the lower-left entry of its matrix is smaller than 1 in modulus there.
// Points where the word cannot be evaluated keep the test alive.
func (c *Collection) EvaluatePoint(i int, b box.NamedBox) bool {
	m, err := mobius.Eval(c.words[i], b.Center())
	if err != nil {
		return true
	}
	cc := m.C
	return real(cc)*real(cc)+imag(cc)*imag(cc) < 1
}

// EvaluateBox classifies test i over the whole of b.
func (c *Collection) EvaluateBox(i int, b box.NamedBox) Verdict {
	word := c.words[i]
	reduced := c.free.Reduce(word)
	if reduced == "" {
		return InvalidIdentity
	}

	cov := b.Cover()
	m, err := mobius.EvalCover(word, cov)
	if err != nil {
		return Undecided
	}

	c2 := m.C.Abs2()
	if !c2.Below(1) {
		if c2.Lo >= 1 {
			return Outside
		}
		return Undecided
	}
	if c2.Above(0) {
		return BoxImpossible
	}

	// c may vanish, so the word must fix the cusp: a = ±1 and the
	// translation must be a lattice vector.
	if m.A.Abs2().Excludes(1) {
		return IdentityImpossible
	}
	if inv, ok := cov.Lattice.Im.Recip(); ok {
		rows := m.B.Im.Mul(inv)
		if !rows.ContainsInteger() {
			return LatticeImpossible
		}
	}
	if c.isImpossiblePower(reduced) {
		return PowerImpossible
	}
	return VarietyCandidate
}

// isImpossiblePower reports whether w is u^k for k >= 2 and u in the
// impossible-power set.
func (c *Collection) isImpossiblePower(w string) bool {
	for k := 2; k <= len(w); k++ {
		if len(w)%k != 0 {
			continue
		}
		u := w[:len(w)/k]
		if _, ok := c.powers[u]; !ok {
			continue
		}
		if strings.Repeat(u, k) == w {
			return true
		}
	}
	return false
}
