package score

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/internalerr"
)

// TrainOptions controls model fitting
type TrainOptions struct {
	Epochs       int
	LearningRate float64
	L2           float64 // weight decay applied to active features
	Seed         int64
}

// DefaultTrainOptions returns the settings used by the create command.
func DefaultTrainOptions() TrainOptions {
	return TrainOptions{
		Epochs:       60,
		LearningRate: 0.5,
		L2:           1e-4,
		Seed:         42,
	}
}

// Train fits a vectorizer on texts and a logistic model on the vectors
// with stochastic gradient descent. Labels must be 0 or 1 and both classes
// must be present.
func Train(texts []string, labels []int, opts TrainOptions) (*Model, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no training documents: %w", internalerr.ErrInvalidInput)
	}
	if len(texts) != len(labels) {
		return nil, fmt.Errorf("%d documents for %d labels: %w", len(texts), len(labels), internalerr.ErrInvalidInput)
	}
	var positives int
	for i, y := range labels {
		if y != 0 && y != 1 {
			return nil, fmt.Errorf("label %d at row %d: %w", y, i, internalerr.ErrInvalidInput)
		}
		positives += y
	}
	if positives == 0 || positives == len(labels) {
		return nil, fmt.Errorf("training set needs both classes: %w", internalerr.ErrInvalidInput)
	}

	def := DefaultTrainOptions()
	if opts.Epochs <= 0 {
		opts.Epochs = def.Epochs
	}
	if opts.LearningRate <= 0 {
		opts.LearningRate = def.LearningRate
	}
	if opts.L2 < 0 {
		opts.L2 = 0
	}

	vec := FitVectorizer(texts)
	xs := make([][]feature, len(texts))
	for i, text := range texts {
		xs[i] = vec.transform(text)
	}

	m := &Model{
		Version:    ModelVersion,
		CreatedAt:  time.Now().UTC(),
		Vectorizer: vec,
		Weights:    make([]float64, vec.Size()),
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	for epoch := 0; epoch < opts.Epochs; epoch++ {
		lr := opts.LearningRate / (1 + 0.05*float64(epoch))
		for _, i := range rng.Perm(len(xs)) {
			g := m.probability(xs[i]) - float64(labels[i])
			for _, f := range xs[i] {
				m.Weights[f.index] -= lr * (g*f.value + opts.L2*m.Weights[f.index])
			}
			m.Bias -= lr * g
		}
	}

	return m, nil
}

// Split shuffles n row indices and holds out ceil(n*valFraction) of them
// for validation. Both parts are non-empty.
func Split(n int, valFraction float64, seed int64) (train, val []int, err error) {
	if valFraction <= 0 || valFraction >= 1 {
		return nil, nil, fmt.Errorf("validation fraction %v not in (0,1): %w", valFraction, internalerr.ErrInvalidInput)
	}
	nVal := int(math.Ceil(float64(n) * valFraction))
	if nVal < 1 || n-nVal < 1 {
		return nil, nil, fmt.Errorf("cannot split %d rows with fraction %v: %w", n, valFraction, internalerr.ErrInvalidInput)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return perm[nVal:], perm[:nVal], nil
}
