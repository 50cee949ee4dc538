package score

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/internalerr"
)

// ModelVersion is the artifact format written by Save.
const ModelVersion = 1

// Model is a TF-IDF vectorizer followed by a logistic linear classifier.
// It implements Classifier.
type Model struct {
	Version    int         `json:"version"`
	CreatedAt  time.Time   `json:"created_at"`
	Vectorizer *Vectorizer `json:"vectorizer"`
	Weights    []float64   `json:"weights"`
	Bias       float64     `json:"bias"`
}

// PredictProba implements Classifier.
func (m *Model) PredictProba(texts []string) ([][2]float64, error) {
	if m.Vectorizer == nil {
		return nil, fmt.Errorf("model has no vectorizer")
	}
	out := make([][2]float64, len(texts))
	for i, text := range texts {
		p := m.probability(m.Vectorizer.transform(text))
		out[i] = [2]float64{1 - p, p}
	}
	return out, nil
}

// Predict returns the class label (0 or 1) of each text.
func (m *Model) Predict(texts []string) ([]int, error) {
	proba, err := m.PredictProba(texts)
	if err != nil {
		return nil, err
	}
	labels := make([]int, len(proba))
	for i, p := range proba {
		if p[1] >= 0.5 {
			labels[i] = 1
		}
	}
	return labels, nil
}

func (m *Model) probability(x []feature) float64 {
	z := m.Bias
	for _, f := range x {
		z += m.Weights[f.index] * f.value
	}
	return sigmoid(z)
}

// Save writes the model as JSON.
func (m *Model) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	return nil
}

// LoadModel reads a model written by Save. Any failure is reported as
// internalerr.ErrModelLoad.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %v: %w", path, err, internalerr.ErrModelLoad)
	}

	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode %s: %v: %w", path, err, internalerr.ErrModelLoad)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", path, err, internalerr.ErrModelLoad)
	}
	return &m, nil
}

func (m *Model) validate() error {
	if m.Version != ModelVersion {
		return fmt.Errorf("unsupported model version %d", m.Version)
	}
	if m.Vectorizer == nil {
		return fmt.Errorf("missing vectorizer")
	}
	n := len(m.Vectorizer.IDF)
	if len(m.Vectorizer.Vocabulary) != n {
		return fmt.Errorf("vocabulary has %d terms for %d idf weights", len(m.Vectorizer.Vocabulary), n)
	}
	if len(m.Weights) != n {
		return fmt.Errorf("model has %d weights for %d features", len(m.Weights), n)
	}
	for term, idx := range m.Vectorizer.Vocabulary {
		if idx < 0 || idx >= n {
			return fmt.Errorf("term %q has index %d out of range", term, idx)
		}
	}
	return nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
