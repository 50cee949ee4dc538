package score

import (
	"fmt"
	"strings"

	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/internalerr"
)

// ClassMetrics holds per-class validation metrics
type ClassMetrics struct {
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Report summarizes predictions against true labels for classes 0 and 1
type Report struct {
	Classes  [2]ClassMetrics
	Accuracy float64
	Total    int
}

// Evaluate compares predicted and true labels.
func Evaluate(truth, predicted []int) (Report, error) {
	if len(truth) != len(predicted) {
		return Report{}, fmt.Errorf("%d labels for %d predictions: %w", len(truth), len(predicted), internalerr.ErrInvalidInput)
	}

	// confusion[actual][predicted]
	var confusion [2][2]int
	for i := range truth {
		a, p := truth[i], predicted[i]
		if a < 0 || a > 1 || p < 0 || p > 1 {
			return Report{}, fmt.Errorf("label out of range at row %d: %w", i, internalerr.ErrInvalidInput)
		}
		confusion[a][p]++
	}

	r := Report{Total: len(truth)}
	correct := confusion[0][0] + confusion[1][1]
	if r.Total > 0 {
		r.Accuracy = float64(correct) / float64(r.Total)
	}

	for c := 0; c < 2; c++ {
		tp := confusion[c][c]
		predictedC := confusion[0][c] + confusion[1][c]
		actualC := confusion[c][0] + confusion[c][1]

		m := ClassMetrics{Support: actualC}
		if predictedC > 0 {
			m.Precision = float64(tp) / float64(predictedC)
		}
		if actualC > 0 {
			m.Recall = float64(tp) / float64(actualC)
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		r.Classes[c] = m
	}
	return r, nil
}

// EvaluateModel predicts texts with m and evaluates against labels.
func EvaluateModel(m *Model, texts []string, labels []int) (Report, error) {
	predicted, err := m.Predict(texts)
	if err != nil {
		return Report{}, err
	}
	return Evaluate(labels, predicted)
}

// String renders the report as a fixed-width table.
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%12s %10s %10s %10s %10s\n\n", "", "precision", "recall", "f1-score", "support")
	for c, m := range r.Classes {
		fmt.Fprintf(&b, "%12d %10.2f %10.2f %10.2f %10d\n", c, m.Precision, m.Recall, m.F1, m.Support)
	}
	fmt.Fprintf(&b, "\n%12s %10s %10s %10.2f %10d\n", "accuracy", "", "", r.Accuracy, r.Total)
	return b.String()
}
