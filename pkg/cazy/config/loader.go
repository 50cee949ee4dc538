package config

import (
	"fmt"

	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/ingest"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/internalerr"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/lexicon"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/pmi"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/stoplist"
)

// Loader loads the preprocessing files and constructs components
type Loader struct {
	StoplistPath string
	LexiconPath  string
	DisableStem  bool

	MinCount  int64
	Threshold float64
	Delimiter string
	Scorer    string // "default" or "npmi"; empty means default
}

// Components holds all loaded preprocessing components
type Components struct {
	Stoplist     *stoplist.Manager
	Lexicon      *lexicon.Lexicon
	Phrases      ingest.PhraseOptions
	Normalizer   *ingest.Normalizer
	Preprocessor *ingest.Preprocessor
}

// Summary describes loaded components in numbers
type Summary struct {
	Stopwords     int
	LemmaGroups   int
	LemmaVariants int
	MinCount      int64
	Threshold     float64
}

// Summary reports the size of the stoplist and lexicon and the phrase settings.
func (c *Components) Summary() Summary {
	lex := c.Lexicon.Stats()
	return Summary{
		Stopwords:     c.Stoplist.Len(),
		LemmaGroups:   lex.Groups,
		LemmaVariants: lex.TotalVariants,
		MinCount:      c.Phrases.MinCount,
		Threshold:     c.Phrases.Threshold,
	}
}

// Load reads the configured files and returns initialized components
func (l *Loader) Load() (*Components, error) {
	comp := &Components{}

	// Load stoplist
	comp.Stoplist = stoplist.Default()
	if l.StoplistPath != "" {
		sl, err := LoadStoplist(l.StoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		if sl.Replace {
			comp.Stoplist = stoplist.NewManager(sl.Terms)
		} else {
			for _, term := range sl.Terms {
				comp.Stoplist.Add(term)
			}
		}
		for _, term := range sl.Keep {
			comp.Stoplist.Remove(term)
		}
	}

	// Load lexicon
	if l.LexiconPath != "" {
		lex, err := lexicon.LoadFromYAML(l.LexiconPath)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
		comp.Lexicon = lex
	} else {
		comp.Lexicon = lexicon.New()
	}

	// Phrase settings
	phrases := ingest.DefaultPhraseOptions()
	if l.MinCount != 0 {
		phrases.MinCount = l.MinCount
	}
	if l.Threshold != 0 {
		phrases.Threshold = l.Threshold
	}
	if l.Delimiter != "" {
		phrases.Delimiter = l.Delimiter
	}
	if l.Scorer != "" {
		scorer, err := pmi.NewScorer(l.Scorer)
		if err != nil {
			return nil, fmt.Errorf("phrase scorer: %v: %w", err, internalerr.ErrInvalidConfig)
		}
		phrases.Scorer = scorer
	}
	if phrases.MinCount < 0 {
		return nil, fmt.Errorf("phrase min count %d: %w", phrases.MinCount, internalerr.ErrInvalidConfig)
	}
	comp.Phrases = phrases

	comp.Normalizer = ingest.NewNormalizer(comp.Lexicon, !l.DisableStem)
	comp.Preprocessor = ingest.NewPreprocessor(comp.Stoplist, comp.Phrases, comp.Normalizer)

	return comp, nil
}
