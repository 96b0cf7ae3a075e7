package match

import (
	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Scorer rates string similarity on a 0-100 scale. The matcher only depends
// on this interface so the similarity algorithm is swappable.
type Scorer interface {
	Score(a, b string) float64
}

// ScorerFunc adapts a function to the Scorer interface.
type ScorerFunc func(a, b string) float64

func (f ScorerFunc) Score(a, b string) float64 { return f(a, b) }

// LevenshteinScorer scores with normalized edit-distance similarity.
type LevenshteinScorer struct {
	metric *metrics.Levenshtein
}

// NewLevenshteinScorer returns the default production scorer.
func NewLevenshteinScorer() *LevenshteinScorer {
	return &LevenshteinScorer{metric: metrics.NewLevenshtein()}
}

func (s *LevenshteinScorer) Score(a, b string) float64 {
	return strutil.Similarity(a, b, s.metric) * 100
}
