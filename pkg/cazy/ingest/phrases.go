package ingest

import (
	"sort"

	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/pmi"
)

// PhraseOptions controls phrase detection
type PhraseOptions struct {
	MinCount  int64   // pairs seen fewer times are never merged
	Threshold float64 // a pair is merged when its score is strictly above this
	Delimiter string  // joins the two halves of a merged pair
	Scorer    pmi.Scorer
}

// DefaultPhraseOptions matches the settings the shipped models were trained with.
func DefaultPhraseOptions() PhraseOptions {
	return PhraseOptions{
		MinCount:  5,
		Threshold: 100,
		Delimiter: "_",
		Scorer:    pmi.FrequencyScorer{},
	}
}

// Phrase is an accepted adjacent pair and its score
type Phrase struct {
	Left, Right string
	Count       int64
	Score       float64
}

// PhraseModel holds the adjacent pairs accepted for merging.
// It is immutable once built.
type PhraseModel struct {
	accepted  map[pmi.TokenPair]Phrase
	delimiter string

	tokens     int64
	vocabulary int
	pairs      int
}

// PassStats summarises the corpus one phrase model was built on.
type PassStats struct {
	Tokens     int64 // tokens counted
	Vocabulary int   // distinct tokens
	Pairs      int   // distinct adjacent pairs
	Accepted   int   // pairs accepted for merging
	Top        []Phrase
}

// BuildPhraseModel counts the corpus and keeps every adjacent pair whose
// count reaches MinCount and whose score exceeds Threshold.
func BuildPhraseModel(corpus [][]string, opts PhraseOptions) PhraseModel {
	opts = opts.withDefaults()
	counter := pmi.CountCorpus(corpus)

	accepted := make(map[pmi.TokenPair]Phrase)
	for pair, n := range counter.Nxy {
		if n < opts.MinCount {
			continue
		}
		score := opts.Scorer.Score(counter, pair.T1, pair.T2, opts.MinCount)
		if score > opts.Threshold {
			accepted[pair] = Phrase{Left: pair.T1, Right: pair.T2, Count: n, Score: score}
		}
	}

	return PhraseModel{
		accepted:   accepted,
		delimiter:  opts.Delimiter,
		tokens:     counter.TotalTokens(),
		vocabulary: counter.UniqueTokens(),
		pairs:      counter.UniquePairs(),
	}
}

// Apply merges accepted pairs greedily from left to right. A token that
// was merged with its left neighbour is not considered again as the left
// half of the next pair.
func (m PhraseModel) Apply(tokens []string) []string {
	if len(m.accepted) == 0 {
		return append([]string(nil), tokens...)
	}

	result := make([]string, 0, len(tokens))
	i := 0
	for i < len(tokens) {
		if i+1 < len(tokens) {
			if _, ok := m.accepted[pmi.TokenPair{T1: tokens[i], T2: tokens[i+1]}]; ok {
				result = append(result, tokens[i]+m.delimiter+tokens[i+1])
				i += 2
				continue
			}
		}
		result = append(result, tokens[i])
		i++
	}
	return result
}

// ApplyCorpus applies the model to every document.
func (m PhraseModel) ApplyCorpus(corpus [][]string) [][]string {
	out := make([][]string, len(corpus))
	for i, doc := range corpus {
		out[i] = m.Apply(doc)
	}
	return out
}

// Len returns the number of accepted pairs.
func (m PhraseModel) Len() int {
	return len(m.accepted)
}

// Phrases lists accepted pairs, highest score first.
func (m PhraseModel) Phrases() []Phrase {
	out := make([]Phrase, 0, len(m.accepted))
	for _, p := range m.accepted {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].Left != out[j].Left {
			return out[i].Left < out[j].Left
		}
		return out[i].Right < out[j].Right
	})
	return out
}

// Stats reports the counts behind the model and its top accepted pairs.
func (m PhraseModel) Stats(top int) PassStats {
	phrases := m.Phrases()
	if top < len(phrases) {
		phrases = phrases[:top]
	}
	return PassStats{
		Tokens:     m.tokens,
		Vocabulary: m.vocabulary,
		Pairs:      m.pairs,
		Accepted:   m.Len(),
		Top:        phrases,
	}
}

// CollapsePhrases runs two phrase passes over the corpus: a bigram model
// built and applied on the input, then a second model built on the merged
// corpus, which can join a merged pair with a neighbour into a trigram.
// The models are returned in pass order.
func CollapsePhrases(corpus [][]string, opts PhraseOptions) ([][]string, []PhraseModel) {
	bigrams := BuildPhraseModel(corpus, opts)
	merged := bigrams.ApplyCorpus(corpus)

	trigrams := BuildPhraseModel(merged, opts)
	return trigrams.ApplyCorpus(merged), []PhraseModel{bigrams, trigrams}
}

func (o PhraseOptions) withDefaults() PhraseOptions {
	def := DefaultPhraseOptions()
	if o.MinCount <= 0 {
		o.MinCount = def.MinCount
	}
	if o.Delimiter == "" {
		o.Delimiter = def.Delimiter
	}
	if o.Scorer == nil {
		o.Scorer = def.Scorer
	}
	return o
}
