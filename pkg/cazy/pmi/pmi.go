package pmi

import (
	"fmt"
	"math"
)

// Scorer rates how strongly two adjacent tokens form a phrase.
// Scores are only meaningful relative to the scorer's own threshold scale.
type Scorer interface {
	Score(c *Counter, a, b string, minCount int64) float64
}

// Scorer names accepted by NewScorer.
const (
	ScorerDefault = "default"
	ScorerNPMI    = "npmi"
)

// NewScorer returns the scorer registered under name.
func NewScorer(name string) (Scorer, error) {
	switch name {
	case "", ScorerDefault:
		return FrequencyScorer{}, nil
	case ScorerNPMI:
		return NPMIScorer{}, nil
	default:
		return nil, fmt.Errorf("unknown phrase scorer %q", name)
	}
}

// FrequencyScorer compares the joint frequency against the independent
// frequencies, scaled by the vocabulary size:
//
//	score(a,b) = (N_ab - minCount) / N_a / N_b * |V|
//
// Where:
//   - N_ab = number of times a is immediately followed by b
//   - N_a, N_b = frequency of each token
//   - |V| = unique tokens plus unique adjacent pairs
type FrequencyScorer struct{}

// Score implements Scorer. Unknown tokens score negative infinity.
func (FrequencyScorer) Score(c *Counter, a, b string, minCount int64) float64 {
	nA, nB := c.GetTokenCount(a), c.GetTokenCount(b)
	if nA == 0 || nB == 0 {
		return math.Inf(-1)
	}
	nAB := c.GetPairCount(a, b)
	return float64(nAB-minCount) / float64(nA) / float64(nB) * float64(c.VocabSize())
}

// NPMIScorer computes normalized PMI (range: -1 to 1) over token frequencies
//
//	NPMI(a,b) = log(P(a,b) / (P(a) P(b))) / -log(P(a,b))
//
// Pairs seen fewer than minCount times score negative infinity.
type NPMIScorer struct{}

// Score implements Scorer.
func (NPMIScorer) Score(c *Counter, a, b string, minCount int64) float64 {
	nAB := c.GetPairCount(a, b)
	if nAB == 0 || nAB < minCount || c.N == 0 {
		return math.Inf(-1)
	}
	N := float64(c.N)
	pA := float64(c.GetTokenCount(a)) / N
	pB := float64(c.GetTokenCount(b)) / N
	pAB := float64(nAB) / N

	logPAB := math.Log(pAB)
	if logPAB == 0 {
		return 1
	}
	return math.Log(pAB/(pA*pB)) / -logPAB
}
