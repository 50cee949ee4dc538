package ingest

import (
	"github.com/kljensen/snowball"

	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/lexicon"
)

const stemLanguage = "english"

// Normalizer reduces tokens to a root form: Snowball stem, then lexicon lemma.
type Normalizer struct {
	stem    bool
	lexicon *lexicon.Lexicon
}

// NewNormalizer creates a normalizer. A nil lexicon skips the lemma step.
func NewNormalizer(lex *lexicon.Lexicon, stem bool) *Normalizer {
	return &Normalizer{stem: stem, lexicon: lex}
}

// Token returns the root form of a single token.
func (n *Normalizer) Token(token string) string {
	if n.stem {
		if stemmed, err := snowball.Stem(token, stemLanguage, true); err == nil && stemmed != "" {
			token = stemmed
		}
	}
	if n.lexicon != nil {
		token = n.lexicon.Normalize(token)
	}
	return token
}

// Normalize maps every token of every document. Sequence lengths and
// order are unchanged.
func (n *Normalizer) Normalize(corpus [][]string) [][]string {
	out := make([][]string, len(corpus))
	for i, doc := range corpus {
		seq := make([]string, len(doc))
		for j, tok := range doc {
			seq[j] = n.Token(tok)
		}
		out[i] = seq
	}
	return out
}
