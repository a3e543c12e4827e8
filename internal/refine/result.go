package refine

import (
	"sort"
)

// Result summarises one run.
type Result struct {
	Complete bool `yaml:"complete"`
	// NodesAdded counts boxes split during the run.
	NodesAdded int `yaml:"nodes_added"`
	// Eliminations counts eliminating verdicts by class, replayed leaves
	// included.
	Eliminations      map[string]int `yaml:"eliminations"`
	InvalidIdentities int            `yaml:"invalid_identities"`
	BallSearches      int            `yaml:"ball_searches"`
	Truncated         int            `yaml:"truncated"`
	Holes             []Hole         `yaml:"holes"`
	Invented          []Invented     `yaml:"invented"`
	Drifts            []Drift        `yaml:"drifts"`
}

// Hole is a box left unresolved because a budget ran out.
type Hole struct {
	Box    string `yaml:"box"`
	Desc   string `yaml:"desc"`
	Depth  int    `yaml:"depth"`
	Reason string `yaml:"reason"`
}

// Invented is a test word added by ball search. Box is the probed
// ancestor and From the box being refined at the time.
type Invented struct {
	Word  string `yaml:"word"`
	Box   string `yaml:"box"`
	From  string `yaml:"from"`
	Index int    `yaml:"index"`
}

// Drift is a leaf whose certifying test no longer eliminates its box.
type Drift struct {
	Test    string `yaml:"test"`
	Box     string `yaml:"box"`
	Size    int    `yaml:"size"`
	Patched bool   `yaml:"patched"`
}

func newResult() *Result {
	return &Result{Eliminations: make(map[string]int)}
}

// TotalEliminations sums Eliminations.
func (r *Result) TotalEliminations() int {
	total := 0
	for _, n := range r.Eliminations {
		total += n
	}
	return total
}

// EliminationClasses returns the classes in Eliminations, sorted.
func (r *Result) EliminationClasses() []string {
	classes := make([]string, 0, len(r.Eliminations))
	for c := range r.Eliminations {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	return classes
}
