package cazy

import (
	"context"
	"errors"
	"fmt"

	"github.com/dabane-ghassan/cazy-little-helper/internal/logging"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/internalerr"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/score"
)

// Labeled is one row of a training dataset: a PMCID and its class
type Labeled struct {
	ID    string
	Label int
}

// CreateOptions controls model creation
type CreateOptions struct {
	ValSize float64 // fraction held out for the report
	Train   score.TrainOptions
	OutPath string // where to save the model; empty skips saving
}

// CreateResult is a trained model and its validation report
type CreateResult struct {
	Model  *score.Model
	Report score.Report
	Rows   int // labeled rows with retrieved text
}

// CreateModel retrieves the full text of every labeled PMCID, preprocesses
// it, trains a classifier on a split of the rows and evaluates it on the
// rest. Rows whose text could not be retrieved are dropped.
func (h *Helper) CreateModel(ctx context.Context, labeled []Labeled, opts CreateOptions) (CreateResult, error) {
	if h.retriever == nil {
		return CreateResult{}, errors.New("create needs a retriever")
	}
	if len(labeled) == 0 {
		return CreateResult{}, fmt.Errorf("empty labeled dataset: %w", internalerr.ErrInvalidInput)
	}

	var pmcids []string
	seen := make(map[string]struct{}, len(labeled))
	for _, row := range labeled {
		if _, ok := seen[row.ID]; ok {
			continue
		}
		seen[row.ID] = struct{}{}
		pmcids = append(pmcids, row.ID)
	}

	articles, err := h.retriever.CollectFullText(ctx, pmcids)
	if err != nil {
		return CreateResult{}, fmt.Errorf("retrieve: %w", err)
	}
	if len(articles) == 0 {
		return CreateResult{}, fmt.Errorf("no training text retrieved: %w", internalerr.ErrInvalidInput)
	}

	corpus, err := h.preprocess(articles)
	if err != nil {
		return CreateResult{}, err
	}
	textByID := make(map[string]string, len(articles))
	for i, a := range articles {
		textByID[a.ID] = joinTokens(corpus[i])
	}

	var texts []string
	var labels []int
	for _, row := range labeled {
		text, ok := textByID[row.ID]
		if !ok {
			continue
		}
		texts = append(texts, text)
		labels = append(labels, row.Label)
	}
	if dropped := len(labeled) - len(texts); dropped > 0 {
		h.log.Warn("labeled rows without text dropped", logging.Int("dropped", dropped))
	}

	trainIdx, valIdx, err := score.Split(len(texts), opts.ValSize, opts.Train.Seed)
	if err != nil {
		return CreateResult{}, err
	}
	trainTexts, trainLabels := pick(texts, labels, trainIdx)
	valTexts, valLabels := pick(texts, labels, valIdx)

	model, err := score.Train(trainTexts, trainLabels, opts.Train)
	if err != nil {
		return CreateResult{}, err
	}
	report, err := score.EvaluateModel(model, valTexts, valLabels)
	if err != nil {
		return CreateResult{}, err
	}

	if opts.OutPath != "" {
		if err := model.Save(opts.OutPath); err != nil {
			return CreateResult{}, fmt.Errorf("save model: %w", err)
		}
		h.log.Info("model saved", logging.String("path", opts.OutPath))
	}

	h.log.Info("model created",
		logging.Int("train", len(trainIdx)),
		logging.Int("validation", len(valIdx)),
		logging.Float64("accuracy", report.Accuracy))
	return CreateResult{Model: model, Report: report, Rows: len(texts)}, nil
}

func pick(texts []string, labels []int, idx []int) ([]string, []int) {
	outT := make([]string, len(idx))
	outL := make([]int, len(idx))
	for i, j := range idx {
		outT[i] = texts[j]
		outL[i] = labels[j]
	}
	return outT, outL
}
