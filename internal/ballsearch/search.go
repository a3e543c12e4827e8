// Package ballsearch invents candidate test words for a box. It grows words
// from a vocabulary with a beam search and scores each one by how small the
// lower-left entry of its matrix gets near the box center.
package ballsearch

import (
	"math"
	"math/cmplx"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ShayCichocki/momrefine/internal/box"
	"github.com/ShayCichocki/momrefine/internal/canonical"
	"github.com/ShayCichocki/momrefine/internal/mobius"
)

// Default tuning values.
const (
	DefaultBeamWidth   = 64
	DefaultProbeRadius = 0.5
)

// Searcher proposes new test words. The zero value is usable.
type Searcher struct {
	// BeamWidth is the number of partial words kept per length.
	BeamWidth int
	// ProbeRadius is the offset, in half-sizes, of the probes taken along
	// each axis around the center. Zero probes the center only.
	ProbeRadius float64
	Logger      *zap.Logger

	free *canonical.Engine
}

// New returns a searcher with the given tuning.
func New(beamWidth int, probeRadius float64, logger *zap.Logger) *Searcher {
	return &Searcher{
		BeamWidth:   beamWidth,
		ProbeRadius: probeRadius,
		Logger:      logger,
	}
}

type candidate struct {
	word  string
	score float64
}

// ProposeWords returns the words of length at most maxLength built from
// vocabulary whose score near b is at least minScore, ordered by ascending
// score so that the best proposal is last. Words containing no g-letter and
// words in excluded are never proposed.
func (s *Searcher) ProposeWords(b box.Box, excluded []string, minScore float64, maxLength int, vocabulary []string) []string {
	logger := s.logger()
	free := s.engine()

	probes := s.probes(b)
	skip := make(map[string]struct{}, len(excluded))
	for _, w := range excluded {
		skip[free.Reduce(w)] = struct{}{}
	}

	letters := make([]string, 0, len(vocabulary))
	for _, v := range vocabulary {
		if v = free.Reduce(strings.TrimSpace(v)); v != "" {
			letters = append(letters, v)
		}
	}

	seen := make(map[string]struct{})
	var found []candidate
	beam := []candidate{{word: ""}}
	for len(beam) > 0 {
		var next []candidate
		for _, parent := range beam {
			for _, v := range letters {
				w := free.Reduce(parent.word + v)
				if w == "" || len(w) > maxLength {
					continue
				}
				if _, dup := seen[w]; dup {
					continue
				}
				seen[w] = struct{}{}

				score, ok := scoreWord(w, probes)
				if !ok {
					continue
				}
				c := candidate{word: w, score: score}
				next = append(next, c)

				if !strings.ContainsAny(w, "gG") {
					continue
				}
				if _, ex := skip[w]; ex {
					continue
				}
				if score >= minScore {
					found = append(found, c)
				}
			}
		}
		beam = s.prune(next)
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].score != found[j].score {
			return found[i].score < found[j].score
		}
		return found[i].word < found[j].word
	})
	words := make([]string, len(found))
	for i, c := range found {
		words[i] = c.word
	}
	if len(words) > 0 {
		best := found[len(found)-1]
		logger.Debug("ball search",
			zap.Int("candidates", len(words)),
			zap.String("best", best.word),
			zap.Float64("score", best.score))
	}
	return words
}

// prune keeps the BeamWidth highest scoring candidates.
func (s *Searcher) prune(cs []candidate) []candidate {
	width := s.BeamWidth
	if width <= 0 {
		width = DefaultBeamWidth
	}
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].score > cs[j].score })
	if len(cs) > width {
		cs = cs[:width]
	}
	return cs
}

// probes returns the center of b and, when ProbeRadius is set, the points
// displaced by ±ProbeRadius along each axis.
func (s *Searcher) probes(b box.Box) []box.Point {
	pts := []box.Point{b.Center()}
	if s.ProbeRadius == 0 {
		return pts
	}
	for i := 0; i < box.Dims; i++ {
		for _, sign := range []float64{-1, 1} {
			var delta [box.Dims]float64
			delta[i] = sign * s.ProbeRadius
			pts = append(pts, b.Offset(delta))
		}
	}
	return pts
}

// scoreWord is -log|c| minimised over the probes, so a word scores well
// only if it is short-translating at every probe.
func scoreWord(w string, probes []box.Point) (float64, bool) {
	score := math.Inf(1)
	for _, p := range probes {
		m, err := mobius.Eval(w, p)
		if err != nil {
			return 0, false
		}
		score = math.Min(score, -math.Log(cmplx.Abs(m.C)))
	}
	return score, true
}

func (s *Searcher) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *Searcher) engine() *canonical.Engine {
	if s.free == nil {
		s.free = canonical.New(nil, canonical.WithLogger(s.Logger))
	}
	return s.free
}
