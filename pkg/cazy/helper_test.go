package cazy

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dabane-ghassan/cazy-little-helper/internal/logging"
	"github.com/dabane-ghassan/cazy-little-helper/internal/metrics"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/ids"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/ingest"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/internalerr"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/score"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/store/memstore"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/store/sqlite"
)

type fakeTranslator struct {
	pmcid map[string]string
	pmid  map[string]string
	calls int
}

func (f *fakeTranslator) PMID(_ context.Context, id string) (string, error) {
	f.calls++
	return f.pmid[id], nil
}

func (f *fakeTranslator) PMCID(_ context.Context, id string) (string, error) {
	f.calls++
	return f.pmcid[id], nil
}

func (f *fakeTranslator) DOI(_ context.Context, id string) (string, error) {
	f.calls++
	return "", errors.New("doi lookups are down")
}

type fakeRetriever struct {
	texts map[string]string
	plans []ids.Plan
}

func (f *fakeRetriever) Collect(_ context.Context, plan ids.Plan) ([]ingest.Article, error) {
	f.plans = append(f.plans, plan)
	var out []ingest.Article
	for _, id := range append(append([]string(nil), plan.FullText...), plan.Abstract...) {
		if text, ok := f.texts[id]; ok {
			out = append(out, ingest.Article{ID: id, Title: "title " + id, Text: text})
		}
	}
	return out, nil
}

func (f *fakeRetriever) CollectFullText(ctx context.Context, pmcids []string) ([]ingest.Article, error) {
	return f.Collect(ctx, ids.Plan{FullText: pmcids})
}

type fakeScorer struct {
	values []float64
	calls  int
}

func (f *fakeScorer) Score(corpus [][]string) ([]float64, error) {
	f.calls++
	if len(corpus) != len(f.values) {
		return nil, fmt.Errorf("%d docs: %w", len(corpus), internalerr.ErrScoring)
	}
	return f.values, nil
}

func scenario() (*fakeTranslator, *fakeRetriever) {
	tr := &fakeTranslator{pmcid: map[string]string{"PMC100": "PMC100"}}
	rt := &fakeRetriever{texts: map[string]string{
		"PMC100": "carbohydrate active enzymes degrade plant cell walls",
		"55555":  "glycoside hydrolase family structure",
	}}
	return tr, rt
}

func TestPredictScenario(t *testing.T) {
	tr, rt := scenario()
	sc := &fakeScorer{values: []float64{90, 40}}
	m := metrics.New()
	h := New(Options{Translator: tr, Retriever: rt, Scorer: sc, Metrics: m})

	run, err := h.Predict(context.Background(), PredictRequest{
		IDs:       []string{"10.1/xyz", "55555", "PMC100"},
		InputPath: "input.csv",
	})
	require.NoError(t, err)

	assert.Equal(t, ids.ResultTable{
		{ID: "PMC100", PMCID: "PMC100", Confidence: score.Scored(90)},
		{ID: "55555", PMCID: ids.NotFound, Confidence: score.Scored(40)},
		{ID: "10.1/xyz", PMCID: ids.NotFound, Confidence: score.Unscored},
	}, run.Results)

	require.Len(t, rt.plans, 1)
	assert.Equal(t, []string{"10.1/xyz"}, rt.plans[0].Excluded)
	assert.Len(t, run.Articles, 2)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "input.csv", run.InputPath)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TranslationMisses.WithLabelValues("PMCID")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DocumentsPreprocessed))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ArticlesScored))
}

func TestPredictLogsPhrasePasses(t *testing.T) {
	tr, rt := scenario()
	core, logs := observer.New(zap.DebugLevel)
	h := New(Options{
		Translator: tr,
		Retriever:  rt,
		Scorer:     &fakeScorer{values: []float64{90, 40}},
		Logger:     logging.NewFromCore(core),
	})

	_, err := h.Predict(context.Background(), PredictRequest{IDs: []string{"PMC100", "55555"}})
	require.NoError(t, err)

	passes := logs.FilterMessage("phrase pass").All()
	require.Len(t, passes, 2)
	for i, entry := range passes {
		fields := entry.ContextMap()
		assert.Equal(t, int64(i+1), fields["pass"])
		assert.Contains(t, fields, "tokens")
		assert.Contains(t, fields, "pairs")
		assert.Contains(t, fields, "accepted")
	}
	assert.Positive(t, passes[0].ContextMap()["tokens"])
}

func TestPredictWithoutArticlesSkipsScorer(t *testing.T) {
	tr := &fakeTranslator{}
	sc := &fakeScorer{}
	h := New(Options{Translator: tr, Retriever: &fakeRetriever{}, Scorer: sc})

	run, err := h.Predict(context.Background(), PredictRequest{IDs: []string{"1", "2"}})
	require.NoError(t, err)

	assert.Zero(t, sc.calls)
	require.Len(t, run.Results, 2)
	for _, row := range run.Results {
		assert.False(t, row.Confidence.IsScored())
	}
}

func TestPredictScorerFailure(t *testing.T) {
	tr, rt := scenario()
	h := New(Options{Translator: tr, Retriever: rt, Scorer: &fakeScorer{values: []float64{1}}})

	_, err := h.Predict(context.Background(), PredictRequest{IDs: []string{"PMC100", "55555"}})
	assert.ErrorIs(t, err, internalerr.ErrScoring)
}

func TestPredictPersistsRunAndCachesTranslations(t *testing.T) {
	ctx := context.Background()
	st, err := sqlite.OpenSQLite(ctx, filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)

	tr, rt := scenario()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	h := New(Options{
		Translator: tr,
		Retriever:  rt,
		Scorer:     &fakeScorer{values: []float64{90, 40}},
		Store:      st,
		Now:        func() time.Time { return now },
	})
	defer h.Close()

	input := []string{"PMC100", "55555", "10.1/xyz"}
	run, err := h.Predict(ctx, PredictRequest{IDs: input, ModelPath: "model.json"})
	require.NoError(t, err)
	assert.Equal(t, 3, tr.calls)

	stored, err := h.Store().GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.Results, stored.Results)
	assert.Equal(t, "model.json", stored.ModelPath)

	_, err = h.Predict(ctx, PredictRequest{IDs: input})
	require.NoError(t, err)
	assert.Equal(t, 3, tr.calls, "second run answers from the translation cache")
}

func TestPredictRecordsLatestRun(t *testing.T) {
	ctx := context.Background()
	tr, rt := scenario()
	st := memstore.New()
	h := New(Options{Translator: tr, Retriever: rt, Scorer: &fakeScorer{values: []float64{90, 40}}, Store: st})

	run, err := h.Predict(ctx, PredictRequest{IDs: []string{"PMC100", "55555"}})
	require.NoError(t, err)

	latest, ok, err := st.LatestRun(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, run.ID, latest.ID)
	assert.Equal(t, 2, latest.Summary().Scored)

	cached, ok, err := st.GetTranslation(ctx, "55555", "PMCID")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, cached)
}

func TestFindIDs(t *testing.T) {
	tr := &fakeTranslator{pmid: map[string]string{"PMC100": "55555"}}
	m := metrics.New()
	h := New(Options{Translator: tr, Metrics: m})

	found, err := h.FindIDs(context.Background(), []string{"PMC100", "PMC200"}, ids.PMID)
	require.NoError(t, err)
	assert.Equal(t, []ids.Found{
		{ID: "PMC100", Value: "55555"},
		{ID: "PMC200", Value: ids.NotFoundID},
	}, found)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TranslationMisses.WithLabelValues("PMID")))

	found, err = h.FindIDs(context.Background(), []string{"PMC100"}, ids.DOI)
	require.NoError(t, err)
	assert.Equal(t, ids.NotFoundID, found[0].Value)

	_, err = h.FindIDs(context.Background(), []string{"PMC100"}, ids.IDType(0))
	assert.ErrorIs(t, err, internalerr.ErrUnsupportedIDType)
}

func TestCreateModel(t *testing.T) {
	texts := make(map[string]string)
	var labeled []Labeled
	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("PMC%d", i)
		label := i % 2
		if label == 1 {
			texts[id] = strings.Repeat("cellulase xylanase glycoside hydrolase substrate binding ", 3)
		} else {
			texts[id] = strings.Repeat("football league season goalkeeper transfer stadium ", 3)
		}
		labeled = append(labeled, Labeled{ID: id, Label: label})
	}
	labeled = append(labeled, Labeled{ID: "PMC999", Label: 1})

	out := filepath.Join(t.TempDir(), "model.json")
	h := New(Options{Retriever: &fakeRetriever{texts: texts}})

	opts := CreateOptions{ValSize: 0.2, Train: score.DefaultTrainOptions(), OutPath: out}
	res, err := h.CreateModel(context.Background(), labeled, opts)
	require.NoError(t, err)

	assert.Equal(t, 20, res.Rows)
	assert.Equal(t, 4, res.Report.Total)
	assert.InDelta(t, 1.0, res.Report.Accuracy, 1e-9)

	loaded, err := score.LoadModel(out)
	require.NoError(t, err)
	assert.Equal(t, res.Model.Weights, loaded.Weights)
}

func TestCreateModelNeedsText(t *testing.T) {
	h := New(Options{Retriever: &fakeRetriever{}})

	_, err := h.CreateModel(context.Background(), []Labeled{{ID: "PMC1", Label: 1}}, CreateOptions{ValSize: 0.15})
	assert.ErrorIs(t, err, internalerr.ErrInvalidInput)

	_, err = h.CreateModel(context.Background(), nil, CreateOptions{ValSize: 0.15})
	assert.ErrorIs(t, err, internalerr.ErrInvalidInput)
}
