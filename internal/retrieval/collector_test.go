package retrieval

import (
	"context"
	"errors"
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
)

type fakeSource struct {
	articles map[string]ingest.Article
	calls    []string
}

func (f *fakeSource) fetch(id string) (ingest.Article, error) {
	f.calls = append(f.calls, id)
	a, ok := f.articles[id]
	if !ok {
		return ingest.Article{}, errors.New("no such article")
	}
	return a, nil
}

func (f *fakeSource) FetchFullText(_ context.Context, pmcid string) (ingest.Article, error) {
	return f.fetch(pmcid)
}

func (f *fakeSource) FetchAbstract(_ context.Context, id string) (ingest.Article, error) {
	return f.fetch(id)
}

func TestCollect(t *testing.T) {
	full := &fakeSource{articles: map[string]ingest.Article{
		"PMC100": {Title: "Xylanase", Text: "ﬁbre degradation"},
	}}
	abs := &fakeSource{articles: map[string]ingest.Article{
		"55555": {Title: "Chitinase", OnlyAbstract: true, Text: "abstract"},
	}}
	core, logs := observer.New(zap.WarnLevel)
	m := metrics.New()

	c := NewCollector(Options{
		FullText:  full,
		Abstracts: abs,
		Logger:    logging.NewFromCore(core),
		Metrics:   m,
	})

	plan := ids.Plan{
		FullText: []string{"PMC100", "PMC404"},
		Abstract: []string{"55555"},
		Excluded: []string{"10.1/xyz"},
	}
	articles, err := c.Collect(context.Background(), plan)
	require.NoError(t, err)

	require.Len(t, articles, 2)
	assert.Equal(t, "PMC100", articles[0].ID)
	assert.Equal(t, "fibre degradation", articles[0].Text, "text is NFKC-normalized")
	assert.Equal(t, "55555", articles[1].ID)
	assert.True(t, articles[1].OnlyAbstract)

	assert.Equal(t, []string{"PMC100", "PMC404"}, full.calls)
	assert.Equal(t, []string{"55555"}, abs.calls)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RetrievalGaps.WithLabelValues(SourceFullText)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RetrievalGaps.WithLabelValues(SourceAbstract)))

	gaps := logs.FilterMessage("retrieval gap").All()
	require.Len(t, gaps, 1)
	assert.Equal(t, "PMC404", gaps[0].ContextMap()["id"])
}

func TestCollectPausesBetweenCalls(t *testing.T) {
	src := &fakeSource{articles: map[string]ingest.Article{"1": {}, "2": {}, "3": {}}}
	c := NewCollector(Options{Abstracts: src, Delay: 3 * time.Second})

	var pauses []time.Duration
	c.pause = func(_ context.Context, d time.Duration) error {
		pauses = append(pauses, d)
		return nil
	}

	_, err := c.Collect(context.Background(), ids.Plan{Abstract: []string{"1", "2", "3"}})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{3 * time.Second, 3 * time.Second}, pauses)
}

func TestCollectCancelled(t *testing.T) {
	src := &fakeSource{articles: map[string]ingest.Article{"PMC1": {}}}
	c := NewCollector(Options{FullText: src})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.CollectFullText(ctx, []string{"PMC1"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, src.calls)
}

func TestSleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleep(ctx, time.Hour), context.Canceled)
	assert.NoError(t, sleep(context.Background(), time.Millisecond))
}
