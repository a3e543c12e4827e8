// Package canonical reduces words over the six-letter alphabet g G m M n N
// to a normal form so that differently derived labels for the same group
// element can be compared.
//
// The lattice letters m and n commute. Each defining relator contributes
// rewrite rules derived from its cyclic rotations; rules only ever lower the
// number of g-letters, or keep it and lower the word's class.
package canonical

import (
	"strings"

	"go.uber.org/zap"
)

// Substitution rewrites Pattern to Replacement. Both sides denote the same
// group element.
type Substitution struct {
	Pattern     string
	Replacement string
}

var baseSubstitutions = []Substitution{
	{"nm", "mn"},
	{"nM", "Mn"},
	{"Nm", "mN"},
	{"NM", "MN"},
	{"nN", ""},
	{"Nn", ""},
	{"mM", ""},
	{"Mm", ""},
	{"gG", ""},
	{"Gg", ""},
}

// Engine holds an ordered rule set. It is not safe to add relators while
// other goroutines reduce words.
type Engine struct {
	substitutions []Substitution
	logger        *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used to report reduction loops.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an engine with the base rules plus the rules derived from
// each relator, in order.
func New(relators []string, opts ...Option) *Engine {
	e := &Engine{
		substitutions: append([]Substitution(nil), baseSubstitutions...),
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	for _, r := range relators {
		e.AddRelator(r)
	}
	return e
}

// Substitutions returns a copy of the rule list in application order.
func (e *Engine) Substitutions() []Substitution {
	return append([]Substitution(nil), e.substitutions...)
}

// AddRelator derives rules from every split of every cyclic rotation of
// relator: for rotation r and split point sl, r[:sl] equals the inverse of
// r[sl:].
func (e *Engine) AddRelator(relator string) {
	l := len(relator)
	rr := relator + relator
	for pos := 0; pos < l; pos++ {
		for sl := 1; sl < l; sl++ {
			a := rr[pos : pos+sl]
			b := Inverse(rr[pos+sl : pos+l])
			e.addSubstitution(a, b)
		}
	}
}

func (e *Engine) addSubstitution(a, b string) {
	ac := e.Reduce(a)
	bc := e.Reduce(b)
	if ac == bc {
		return
	}

	ap := gPower(ac)
	bp := gPower(bc)
	switch {
	case ap < bp:
		if Class(bc) == bc {
			e.substitutions = append(e.substitutions, Substitution{bc, ac})
		}
	case ap > bp:
		if Class(ac) == ac {
			e.substitutions = append(e.substitutions, Substitution{ac, bc})
		}
	default:
		aclass := Class(ac)
		bclass := Class(bc)
		if aclass < bclass {
			if bclass == bc {
				e.substitutions = append(e.substitutions, Substitution{bc, ac})
			}
		} else if bclass < aclass {
			if aclass == ac {
				e.substitutions = append(e.substitutions, Substitution{ac, bc})
			}
		}
	}
}

// Reduce rewrites s with the first applicable rule, at its leftmost match,
// until no rule applies. If an intermediate word repeats, the loop is logged
// and the current word is returned.
func (e *Engine) Reduce(s string) string {
	visited := map[string]struct{}{s: {}}
	for {
		applied := false
		for _, sub := range e.substitutions {
			pos := strings.Index(s, sub.Pattern)
			if pos < 0 {
				continue
			}
			s = s[:pos] + sub.Replacement + s[pos+len(sub.Pattern):]
			if _, seen := visited[s]; seen {
				e.logger.Error("loop detected in reduction", zap.String("word", s))
				return s
			}
			visited[s] = struct{}{}
			applied = true
			break
		}
		if !applied {
			return s
		}
	}
}

// CanonicalName reduces s through an inversion round trip, which settles
// words the rule set alone would leave in different forms.
func (e *Engine) CanonicalName(s string) string {
	return e.Reduce(Inverse(e.Reduce(Inverse(s))))
}

// CanonicalClass returns the class of the canonical name of s.
func (e *Engine) CanonicalClass(s string) string {
	return Class(e.CanonicalName(s))
}

// Inverse returns the formal inverse of s: letters reversed and each
// swapped with its partner. Letters outside the alphabet become '?'.
func Inverse(s string) string {
	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		b[len(s)-1-i] = InvertLetter(s[i])
	}
	return string(b)
}

// InvertLetter returns the inverse generator of c, or '?' if c is not in
// the alphabet.
func InvertLetter(c byte) byte {
	switch c {
	case 'g':
		return 'G'
	case 'G':
		return 'g'
	case 'm':
		return 'M'
	case 'M':
		return 'm'
	case 'n':
		return 'N'
	case 'N':
		return 'n'
	default:
		return '?'
	}
}

// Class returns the span of s from its first to its last g-letter, or ""
// when s has none.
func Class(s string) string {
	first := strings.IndexAny(s, "gG")
	if first < 0 {
		return ""
	}
	last := strings.LastIndexAny(s, "gG")
	return s[first : last+1]
}

// gPower counts the g-letters in s.
func gPower(s string) int {
	return strings.Count(s, "g") + strings.Count(s, "G")
}
