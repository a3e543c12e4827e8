package refine

import (
	"errors"
	"fmt"

	"github.com/ShayCichocki/momrefine/internal/box"
)

// ErrInvalidOptions is wrapped by every Options validation failure.
var ErrInvalidOptions = errors.New("invalid refine options")

// Options bounds a refinement run. It is not modified by the engine.
type Options struct {
	// MaxDepth is the deepest box that may be split further.
	MaxDepth int `json:"max_depth" yaml:"max_depth"`
	// TruncateDepth is the depth from which incomplete subtrees are
	// replaced by holes, and below which both children are always visited.
	TruncateDepth int `json:"truncate_depth" yaml:"truncate_depth"`
	// InventDepth bounds the number of new splits along one path.
	InventDepth int `json:"invent_depth" yaml:"invent_depth"`
	// MaxSize bounds the number of boxes split in one run.
	MaxSize int `json:"max_size" yaml:"max_size"`
	// ImproveTree re-runs tests on nodes that already have children.
	ImproveTree bool `json:"improve_tree" yaml:"improve_tree"`
	// FillHoles refines holes instead of accepting them.
	FillHoles bool `json:"fill_holes" yaml:"fill_holes"`
	// BallSearchDepth is the gap, in levels, between ball searches along a
	// path. Negative disables ball search.
	BallSearchDepth int `json:"ball_search_depth" yaml:"ball_search_depth"`
	// MaxWordLength bounds invented words.
	MaxWordLength int `json:"max_word_length" yaml:"max_word_length"`
	// MinScore is the lowest score an invented word may have.
	MinScore float64 `json:"min_score" yaml:"min_score"`
}

// DefaultOptions returns the stock search budgets.
func DefaultOptions() Options {
	return Options{
		MaxDepth:        18,
		TruncateDepth:   6,
		InventDepth:     12,
		MaxSize:         1000000,
		BallSearchDepth: -1,
		MaxWordLength:   10,
		MinScore:        -200,
	}
}

// Validate checks the budgets.
func (o Options) Validate() error {
	switch {
	case o.MaxDepth < 0:
		return fmt.Errorf("max depth %d is negative: %w", o.MaxDepth, ErrInvalidOptions)
	case o.MaxDepth > box.MaxDepth:
		return fmt.Errorf("max depth %d exceeds box capacity %d: %w", o.MaxDepth, box.MaxDepth, ErrInvalidOptions)
	case o.TruncateDepth < 0:
		return fmt.Errorf("truncate depth %d is negative: %w", o.TruncateDepth, ErrInvalidOptions)
	case o.InventDepth < 0:
		return fmt.Errorf("invent depth %d is negative: %w", o.InventDepth, ErrInvalidOptions)
	case o.MaxSize < 0:
		return fmt.Errorf("max size %d is negative: %w", o.MaxSize, ErrInvalidOptions)
	case o.BallSearchDepth >= 0 && o.MaxWordLength <= 0:
		return fmt.Errorf("ball search needs a positive max word length: %w", ErrInvalidOptions)
	}
	return nil
}

// Varieties holds the canonical names of relations already known to cut
// out non-viable varieties.
type Varieties struct {
	Mom           map[string]struct{}
	Parameterized map[string]struct{}
}

// NewVarieties builds the lookup sets.
func NewVarieties(mom, parameterized []string) Varieties {
	set := func(words []string) map[string]struct{} {
		m := make(map[string]struct{}, len(words))
		for _, w := range words {
			m[w] = struct{}{}
		}
		return m
	}
	return Varieties{Mom: set(mom), Parameterized: set(parameterized)}
}

// Lookup returns which set contains name, or "".
func (v Varieties) Lookup(name string) string {
	if _, ok := v.Mom[name]; ok {
		return "mom variety"
	}
	if _, ok := v.Parameterized[name]; ok {
		return "parameterized variety"
	}
	return ""
}
