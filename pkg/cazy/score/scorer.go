package score

import (
	"fmt"
	"strings"

	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/internalerr"
)

// Classifier is a trained binary text classifier. PredictProba returns,
// for each input text, the probabilities of the negative and positive class.
type Classifier interface {
	PredictProba(texts []string) ([][2]float64, error)
}

// Scorer turns preprocessed documents into confidence scores
type Scorer struct {
	clf Classifier
}

// NewScorer wraps a classifier.
func NewScorer(clf Classifier) *Scorer {
	return &Scorer{clf: clf}
}

// LoadScorer loads a model artifact and wraps it.
func LoadScorer(path string) (*Scorer, error) {
	m, err := LoadModel(path)
	if err != nil {
		return nil, err
	}
	return NewScorer(m), nil
}

// Score joins every token sequence with single spaces and returns the
// positive-class probability times 100, aligned with the corpus.
func (s *Scorer) Score(corpus [][]string) ([]float64, error) {
	if len(corpus) == 0 {
		return nil, fmt.Errorf("empty corpus: %w", internalerr.ErrScoring)
	}
	if s.clf == nil {
		return nil, fmt.Errorf("no classifier: %w", internalerr.ErrScoring)
	}

	batch := make([]string, len(corpus))
	for i, doc := range corpus {
		batch[i] = strings.Join(doc, " ")
	}

	proba, err := s.clf.PredictProba(batch)
	if err != nil {
		return nil, fmt.Errorf("predict: %v: %w", err, internalerr.ErrScoring)
	}
	if len(proba) != len(batch) {
		return nil, fmt.Errorf("classifier returned %d rows for %d documents: %w",
			len(proba), len(batch), internalerr.ErrScoring)
	}

	scores := make([]float64, len(proba))
	for i, p := range proba {
		scores[i] = p[1] * 100
	}
	return scores, nil
}
