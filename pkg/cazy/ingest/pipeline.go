package ingest

import (
	"fmt"

	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/internalerr"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/stoplist"
)

// Preprocessor orchestrates the document flow:
// clean → tokenize → stopword filter → phrase collapse → normalize.
// Each stage finishes for the whole corpus before the next starts.
type Preprocessor struct {
	stoplist   *stoplist.Manager
	phrases    PhraseOptions
	normalizer *Normalizer
}

// NewPreprocessor creates a preprocessor. Nil components fall back to
// the default stoplist and a stemming normalizer without lexicon.
func NewPreprocessor(stops *stoplist.Manager, phrases PhraseOptions, normalizer *Normalizer) *Preprocessor {
	if stops == nil {
		stops = stoplist.Default()
	}
	if normalizer == nil {
		normalizer = NewNormalizer(nil, true)
	}
	return &Preprocessor{
		stoplist:   stops,
		phrases:    phrases.withDefaults(),
		normalizer: normalizer,
	}
}

// TopPhrases bounds Report.Phrases[i].Top.
const TopPhrases = 10

// Report is the outcome of one preprocessing run.
type Report struct {
	Corpus  [][]string
	Phrases []PassStats // one entry per phrase pass
}

// Run preprocesses documents. The i-th output sequence belongs to docs[i].
func (p *Preprocessor) Run(docs []Document) ([][]string, error) {
	r, err := p.RunReport(docs)
	if err != nil {
		return nil, err
	}
	return r.Corpus, nil
}

// RunReport is Run with the phrase pass statistics attached.
func (p *Preprocessor) RunReport(docs []Document) (Report, error) {
	seen := make(map[string]struct{}, len(docs))
	texts := make([]string, len(docs))
	for i := range docs {
		if err := docs[i].Validate(); err != nil {
			return Report{}, fmt.Errorf("document %d: %v: %w", i, err, internalerr.ErrInvalidInput)
		}
		if _, dup := seen[docs[i].ID]; dup {
			return Report{}, fmt.Errorf("duplicate document id %q: %w", docs[i].ID, internalerr.ErrInvalidInput)
		}
		seen[docs[i].ID] = struct{}{}
		texts[i] = docs[i].Body()
	}
	return p.run(texts)
}

func (p *Preprocessor) run(texts []string) (Report, error) {
	n := len(texts)

	// 1. Clean and tokenize, per document
	corpus := CleanAndTokenize(texts)
	if err := checkAligned("tokenize", n, corpus); err != nil {
		return Report{}, err
	}

	// 2. Stopwords, short and numeric tokens
	corpus = p.stoplist.FilterCorpus(corpus)
	if err := checkAligned("filter", n, corpus); err != nil {
		return Report{}, err
	}

	// 3. Phrase collapse, corpus-wide
	corpus, models := CollapsePhrases(corpus, p.phrases)
	if err := checkAligned("phrases", n, corpus); err != nil {
		return Report{}, err
	}

	// 4. Root forms
	corpus = p.normalizer.Normalize(corpus)
	if err := checkAligned("normalize", n, corpus); err != nil {
		return Report{}, err
	}

	report := Report{Corpus: corpus, Phrases: make([]PassStats, len(models))}
	for i, m := range models {
		report.Phrases[i] = m.Stats(TopPhrases)
	}
	return report, nil
}

func checkAligned(stage string, want int, corpus [][]string) error {
	if len(corpus) != want {
		return fmt.Errorf("%s stage produced %d sequences for %d documents: %w",
			stage, len(corpus), want, internalerr.ErrMisaligned)
	}
	return nil
}
