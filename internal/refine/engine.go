// Package refine grows a partial proof tree over a box. Each node either
// finds a test that eliminates its box or is split in two, until the tree is
// complete or a budget turns the remaining nodes into holes.
package refine

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ShayCichocki/momrefine/internal/box"
	"github.com/ShayCichocki/momrefine/internal/relator"
	"github.com/ShayCichocki/momrefine/internal/testset"
	"github.com/ShayCichocki/momrefine/internal/tree"
)

// ErrCapacity is returned when refinement would split a box past
// box.MaxDepth, counted from the root rather than the start box.
var ErrCapacity = errors.New("refinement deeper than box capacity")

// TestCollection is the growing list of tests the engine draws from.
type TestCollection interface {
	Count() int
	Name(i int) string
	Add(word string) int
	EvaluatePoint(i int, b box.NamedBox) bool
	EvaluateBox(i int, b box.NamedBox) testset.Verdict
}

// BallSearch proposes new test words near a box. Only the last proposal is
// used.
type BallSearch interface {
	ProposeWords(b box.Box, excluded []string, minScore float64, maxLength int, vocabulary []string) []string
}

// Engine runs refinements. Options and varieties are fixed at construction;
// the test collection grows as ball search invents words.
type Engine struct {
	opts      Options
	tests     TestCollection
	search    BallSearch
	varieties Varieties
	logger    *zap.Logger

	// backtrack, when set, is called after child 0 of a node at depth has
	// been processed and the path state trimmed.
	backtrack func(depth int, st *state)
}

// New creates an engine. search may be nil when ball search is disabled.
func New(opts Options, tests TestCollection, search BallSearch, varieties Varieties, logger *zap.Logger) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.BallSearchDepth >= 0 && search == nil {
		return nil, fmt.Errorf("ball search enabled without a searcher: %w", ErrInvalidOptions)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		opts:      opts,
		tests:     tests,
		search:    search,
		varieties: varieties,
		logger:    logger,
	}, nil
}

// state is the mutable context of one run.
type state struct {
	// history[i][d] records whether test i may still fire at place[d].
	history [][]bool
	// place[d] is the box at depth d on the current path.
	place         []box.NamedBox
	searchedDepth int
	visited       int
	invented      []string
	err           error
	result        *Result
}

// Run refines t in place over root and reports what happened. An error is
// returned only when the tree cannot be walked at all.
func (e *Engine) Run(root box.NamedBox, t *tree.Node) (*Result, error) {
	if root.Context == nil {
		root.Context = relator.Empty()
	}
	st := &state{
		history: make([][]bool, e.tests.Count()),
		result:  newResult(),
	}
	complete := e.refine(root, t, 0, 0, st)
	if st.err != nil {
		return nil, st.err
	}
	st.result.Complete = complete
	st.result.NodesAdded = st.visited
	return st.result, nil
}

func (e *Engine) refine(b box.NamedBox, n *tree.Node, depth, newDepth int, st *state) bool {
	st.place = append(st.place, b)
	oldTest := n.Test

	if n.Test >= 0 {
		if e.eliminated(n.Test, e.tests.EvaluateBox(n.Test, b), b, st) {
			return true
		}
		e.logger.Debug("stale leaf",
			zap.String("test", e.tests.Name(n.Test)),
			zap.String("box", b.Name))
	}
	if n.Test == tree.Hole && !e.opts.FillHoles {
		return true
	}

	explore := e.opts.ImproveTree || !n.HasChildren()
	if e.opts.BallSearchDepth >= 0 && explore {
		e.ballSearch(b, depth, st)
	}
	if explore {
		if i, ok := e.sweep(b, depth, st); ok {
			n.SetLeaf(i)
			return true
		}
	}

	n.Test = tree.Unresolved

	if !n.HasChildren() {
		if reason := e.exhausted(depth, &newDepth, st); reason != "" {
			n.MakeHole()
			e.logger.Info("HOLE",
				zap.String("box", b.Name),
				zap.String("desc", b.Desc()),
				zap.String("reason", reason))
			st.result.Holes = append(st.result.Holes, Hole{Box: b.Name, Desc: b.Desc(), Depth: depth, Reason: reason})
			return false
		}
	}
	// depth counts from the start box, which need not be the root.
	if b.Depth() >= box.MaxDepth {
		st.err = fmt.Errorf("box %s: %w", b.Name, ErrCapacity)
		return false
	}
	if !n.HasChildren() {
		n.Split()
	}

	complete := e.refine(b.Child(0), n.Left, depth+1, newDepth, st)
	if st.err != nil {
		return false
	}
	st.trim(depth)
	if e.backtrack != nil {
		e.backtrack(depth, st)
	}

	if complete || depth < e.opts.TruncateDepth {
		complete = e.refine(b.Child(1), n.Right, depth+1, newDepth, st) && complete
		if st.err != nil {
			return false
		}
	}

	if oldTest >= 0 && n.Test != oldTest {
		size := n.Size()
		status := "Unpatched"
		if complete {
			status = "Patched"
		}
		e.logger.Warn("invalid box",
			zap.String("test", e.tests.Name(oldTest)),
			zap.String("box", b.Name),
			zap.Int("size", size),
			zap.String("status", status))
		st.result.Drifts = append(st.result.Drifts, Drift{
			Test: e.tests.Name(oldTest), Box: b.Name, Size: size, Patched: complete,
		})
	}
	if !complete && depth >= e.opts.TruncateDepth {
		n.Truncate()
		st.result.Truncated++
	}
	return complete
}

// trim drops path state belonging to the subtree below depth.
func (st *state) trim(depth int) {
	if len(st.place) > depth+1 {
		st.place = st.place[:depth+1]
	}
	for i, h := range st.history {
		if len(h) > depth+1 {
			st.history[i] = h[:depth+1]
		}
	}
	if st.searchedDepth > depth {
		st.searchedDepth = depth
	}
}

// exhausted returns why b may not be split, or "".
func (e *Engine) exhausted(depth int, newDepth *int, st *state) string {
	if depth >= e.opts.MaxDepth {
		return "max depth"
	}
	st.visited++
	if st.visited >= e.opts.MaxSize {
		return "max size"
	}
	*newDepth++
	if *newDepth > e.opts.InventDepth {
		return "invent depth"
	}
	return ""
}

// ballSearch invents tests while b lies more than BallSearchDepth levels
// below the last searched ancestor. Each search examines the ancestor just
// below that one and advances the mark by BallSearchDepth levels, at least
// one.
func (e *Engine) ballSearch(b box.NamedBox, depth int, st *state) {
	for depth-st.searchedDepth > e.opts.BallSearchDepth {
		at := st.place[st.searchedDepth+1]
		st.searchedDepth += max(e.opts.BallSearchDepth, 1)
		st.result.BallSearches++

		words := e.search.ProposeWords(at.Box, st.invented, e.opts.MinScore, e.opts.MaxWordLength, b.Context.AllWords())
		if len(words) == 0 {
			e.logger.Info("search found nothing",
				zap.String("desc", at.Desc()),
				zap.String("box", at.Name))
			continue
		}
		word := words[len(words)-1]
		index := e.tests.Add(word)
		st.history = append(st.history, nil)
		st.invented = append(st.invented, word)
		st.result.Invented = append(st.result.Invented, Invented{Word: word, Box: at.Name, From: b.Name, Index: index})
		e.logger.Info("search found",
			zap.String("desc", at.Desc()),
			zap.String("word", word),
			zap.String("box", at.Name))
	}
}

// sweep runs every live test against b and returns the first that
// eliminates it.
func (e *Engine) sweep(b box.NamedBox, depth int, st *state) (int, bool) {
	for i := 0; i < e.tests.Count(); i++ {
		if i >= len(st.history) {
			st.history = append(st.history, make([][]bool, i+1-len(st.history))...)
		}
		h := st.history[i]
		for len(h) <= depth && (len(h) == 0 || h[len(h)-1]) {
			h = append(h, e.tests.EvaluatePoint(i, st.place[len(h)]))
		}
		st.history[i] = h
		if len(h) == 0 || !h[len(h)-1] {
			continue
		}
		if e.eliminated(i, e.tests.EvaluateBox(i, b), b, st) {
			return i, true
		}
	}
	return 0, false
}

// eliminated interprets verdict v of test i on b, logging and counting
// eliminations.
func (e *Engine) eliminated(i int, v testset.Verdict, b box.NamedBox, st *state) bool {
	res := st.result
	if v == testset.VarietyCandidate {
		name := b.Context.Name(e.tests.Name(i))
		kind := e.varieties.Lookup(name)
		if kind == "" {
			return false
		}
		e.logger.Info(kind, zap.String("name", name), zap.String("box", b.Name))
		res.Eliminations[kind]++
		return true
	}
	if !v.Eliminates() {
		return false
	}

	switch v {
	case testset.BoxImpossible:
		e.logger.Debug(v.String(), zap.String("test", e.tests.Name(i)), zap.String("box", b.Name))
	case testset.InvalidIdentity:
		e.logger.Error(v.String(),
			zap.String("test", e.tests.Name(i)),
			zap.String("box", b.Name),
			zap.String("desc", b.Desc()))
		res.InvalidIdentities++
	default:
		e.logger.Info(v.String(), zap.String("test", e.tests.Name(i)), zap.String("box", b.Name))
	}
	res.Eliminations[v.String()]++
	return true
}
