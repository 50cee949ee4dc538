// Package cazy wires identifier reconciliation, retrieval, preprocessing
// and scoring into the three operations of the command-line tool.
package cazy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dabane-ghassan/cazy-little-helper/internal/logging"
	"github.com/dabane-ghassan/cazy-little-helper/internal/metrics"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/ids"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/ingest"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/internalerr"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/store"
)

// Retriever fetches article texts for a retrieval plan
type Retriever interface {
	Collect(ctx context.Context, plan ids.Plan) ([]ingest.Article, error)
	CollectFullText(ctx context.Context, pmcids []string) ([]ingest.Article, error)
}

// ConfidenceScorer scores preprocessed documents on a 0-100 scale
type ConfidenceScorer interface {
	Score(corpus [][]string) ([]float64, error)
}

// Helper is the application facade
type Helper struct {
	translator   ids.Translator
	retriever    Retriever
	preprocessor *ingest.Preprocessor
	scorer       ConfidenceScorer
	store        store.Store
	log          logging.Logger
	metrics      *metrics.Metrics
	now          func() time.Time
}

// Options configures a Helper. Store, Logger and Metrics are optional;
// with a Store, runs are persisted and translations cached.
type Options struct {
	Translator   ids.Translator
	Retriever    Retriever
	Preprocessor *ingest.Preprocessor
	Scorer       ConfidenceScorer
	Store        store.Store
	Logger       logging.Logger
	Metrics      *metrics.Metrics
	Now          func() time.Time
}

// New creates a Helper with the given dependencies
func New(opts Options) *Helper {
	h := &Helper{
		translator:   opts.Translator,
		retriever:    opts.Retriever,
		preprocessor: opts.Preprocessor,
		scorer:       opts.Scorer,
		store:        opts.Store,
		log:          opts.Logger,
		metrics:      opts.Metrics,
		now:          opts.Now,
	}
	if h.translator != nil && h.store != nil {
		h.translator = ids.NewCachedTranslator(h.translator, h.store)
	}
	if h.preprocessor == nil {
		h.preprocessor = ingest.NewPreprocessor(nil, ingest.DefaultPhraseOptions(), nil)
	}
	if h.log == nil {
		h.log = logging.NewNop()
	}
	if h.metrics == nil {
		h.metrics = metrics.New()
	}
	if h.now == nil {
		h.now = time.Now
	}
	return h
}

// Close releases the store, if any.
func (h *Helper) Close() error {
	if h.store == nil {
		return nil
	}
	return h.store.Close()
}

// Store returns the run store, nil when runs are not persisted.
func (h *Helper) Store() store.Store {
	return h.store
}

// PredictRequest names the identifiers to score and where they came from
type PredictRequest struct {
	IDs       []string
	InputPath string
	ModelPath string
}

// Predict resolves, retrieves, preprocesses and scores the identifiers.
// Every input id gets exactly one row in the result table; ids whose text
// could not be retrieved are unscored.
func (h *Helper) Predict(ctx context.Context, req PredictRequest) (store.Run, error) {
	if h.translator == nil || h.retriever == nil {
		return store.Run{}, errors.New("predict needs a translator and a retriever")
	}
	started := h.now()
	log := h.log.With(logging.Int("ids", len(req.IDs)))

	resolved := ids.NewResolver(h.translator).ResolvePMC(ctx, req.IDs)
	if err := ctx.Err(); err != nil {
		return store.Run{}, err
	}
	misses := 0
	for _, r := range resolved {
		if !r.PMCID.Found {
			misses++
		}
	}
	h.metrics.TranslationMisses.WithLabelValues(ids.PMCID.String()).Add(float64(misses))

	plan := ids.Partition(resolved)
	log.Info("identifiers resolved",
		logging.Int("full_text", len(plan.FullText)),
		logging.Int("abstract", len(plan.Abstract)),
		logging.Int("excluded", len(plan.Excluded)))

	articles, err := h.retriever.Collect(ctx, plan)
	if err != nil {
		return store.Run{}, fmt.Errorf("retrieve: %w", err)
	}

	scores, err := h.scoreArticles(articles)
	if err != nil {
		return store.Run{}, err
	}

	now := h.now()
	run := store.Run{
		ID:        store.NewRunID(now),
		CreatedAt: now,
		InputPath: req.InputPath,
		ModelPath: req.ModelPath,
		Articles:  articles,
		Results:   ids.BuildResultTable(resolved, scores),
	}

	if h.store != nil {
		if err := h.store.SaveRun(ctx, run); err != nil {
			return store.Run{}, fmt.Errorf("save run: %w", err)
		}
	}

	log.Info("prediction done",
		logging.String("run", run.ID),
		logging.Int("articles", len(articles)),
		logging.Int("scored", run.Results.Scored()),
		logging.Duration("elapsed", now.Sub(started)))
	return run, nil
}

// scoreArticles maps article ids to confidences. No articles means no
// scores, and the scorer is not consulted.
func (h *Helper) scoreArticles(articles []ingest.Article) (map[string]float64, error) {
	scores := make(map[string]float64, len(articles))
	if len(articles) == 0 {
		h.log.Warn("no article text retrieved, every row is unscored")
		return scores, nil
	}
	if h.scorer == nil {
		return nil, fmt.Errorf("no model loaded: %w", internalerr.ErrScoring)
	}

	corpus, err := h.preprocess(articles)
	if err != nil {
		return nil, err
	}
	values, err := h.scorer.Score(corpus)
	if err != nil {
		return nil, err
	}
	for i, a := range articles {
		scores[a.ID] = values[i]
	}
	h.metrics.ArticlesScored.Add(float64(len(values)))
	return scores, nil
}

func (h *Helper) preprocess(articles []ingest.Article) ([][]string, error) {
	docs := make([]ingest.Document, len(articles))
	for i, a := range articles {
		docs[i] = a.Document()
	}
	report, err := h.preprocessor.RunReport(docs)
	if err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}
	for i, pass := range report.Phrases {
		top := make([]string, len(pass.Top))
		for j, p := range pass.Top {
			top[j] = p.Left + " " + p.Right
		}
		h.log.Debug("phrase pass",
			logging.Int("pass", i+1),
			logging.Int("tokens", int(pass.Tokens)),
			logging.Int("vocabulary", pass.Vocabulary),
			logging.Int("pairs", pass.Pairs),
			logging.Int("accepted", pass.Accepted),
			logging.Any("top", top))
	}
	h.metrics.DocumentsPreprocessed.Add(float64(len(docs)))
	return report.Corpus, nil
}

// FindIDs translates every id into target. Misses become ids.NotFoundID.
func (h *Helper) FindIDs(ctx context.Context, input []string, target ids.IDType) ([]ids.Found, error) {
	if h.translator == nil {
		return nil, errors.New("find needs a translator")
	}
	finder, err := ids.NewFinder(h.translator, target)
	if err != nil {
		return nil, err
	}

	found, err := finder.FindIDs(ctx, input)
	if err != nil {
		return found, err
	}
	misses := 0
	for _, f := range found {
		if f.Value == ids.NotFoundID {
			misses++
		}
	}
	h.metrics.TranslationMisses.WithLabelValues(target.String()).Add(float64(misses))
	h.log.Info("identifiers translated",
		logging.String("target", target.String()),
		logging.Int("ids", len(input)),
		logging.Int("not_found", misses))
	return found, nil
}

// joinTokens turns a preprocessed document back into classifier input.
func joinTokens(tokens []string) string {
	return strings.Join(tokens, " ")
}
