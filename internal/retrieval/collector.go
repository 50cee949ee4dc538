// Package retrieval collects article texts from the external services and
// keeps them in the text table.
package retrieval

import (
	"context"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/dabane-ghassan/cazy-little-helper/internal/logging"
	"github.com/dabane-ghassan/cazy-little-helper/internal/metrics"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/ids"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/ingest"
)

// Sources label gaps and latencies in metrics and logs.
const (
	SourceFullText = "biblio"
	SourceAbstract = "pubmed"
)

// FullTextSource fetches a full article by PMCID
type FullTextSource interface {
	FetchFullText(ctx context.Context, pmcid string) (ingest.Article, error)
}

// AbstractSource fetches the title and abstract of a PMID or other id
type AbstractSource interface {
	FetchAbstract(ctx context.Context, id string) (ingest.Article, error)
}

// Options configures a Collector
type Options struct {
	FullText  FullTextSource
	Abstracts AbstractSource
	Delay     time.Duration // pause between two external calls
	Logger    logging.Logger
	Metrics   *metrics.Metrics
}

// Collector runs retrieval calls one at a time. A failed call is a gap:
// it is logged and counted, and the batch goes on.
type Collector struct {
	fullText  FullTextSource
	abstracts AbstractSource
	delay     time.Duration
	log       logging.Logger
	metrics   *metrics.Metrics
	pause     func(ctx context.Context, d time.Duration) error
}

// NewCollector creates a collector. Nil logger and metrics are replaced
// by no-op and private instances.
func NewCollector(opts Options) *Collector {
	log := opts.Logger
	if log == nil {
		log = logging.NewNop()
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}
	return &Collector{
		fullText:  opts.FullText,
		abstracts: opts.Abstracts,
		delay:     opts.Delay,
		log:       log.Named("retrieval"),
		metrics:   m,
		pause:     sleep,
	}
}

// Collect retrieves full texts for plan.FullText, then abstracts for
// plan.Abstract. Excluded ids are skipped. Returned articles carry the id
// they were requested under.
func (c *Collector) Collect(ctx context.Context, plan ids.Plan) ([]ingest.Article, error) {
	if len(plan.Excluded) > 0 {
		c.log.Info("skipping DOIs without PMC alternate", logging.Int("count", len(plan.Excluded)))
	}

	b := batch{c: c}
	for _, pmcid := range plan.FullText {
		if err := b.fetch(ctx, SourceFullText, pmcid, c.fetchFullText); err != nil {
			return b.articles, err
		}
	}
	for _, id := range plan.Abstract {
		if err := b.fetch(ctx, SourceAbstract, id, c.fetchAbstract); err != nil {
			return b.articles, err
		}
	}

	c.log.Info("retrieval done",
		logging.Int("requested", len(plan.FullText)+len(plan.Abstract)),
		logging.Int("retrieved", len(b.articles)),
		logging.Int("gaps", b.gaps))
	return b.articles, nil
}

// CollectFullText retrieves full texts only.
func (c *Collector) CollectFullText(ctx context.Context, pmcids []string) ([]ingest.Article, error) {
	return c.Collect(ctx, ids.Plan{FullText: pmcids})
}

func (c *Collector) fetchFullText(ctx context.Context, id string) (ingest.Article, error) {
	return c.fullText.FetchFullText(ctx, id)
}

func (c *Collector) fetchAbstract(ctx context.Context, id string) (ingest.Article, error) {
	return c.abstracts.FetchAbstract(ctx, id)
}

type batch struct {
	c        *Collector
	calls    int
	gaps     int
	articles []ingest.Article
}

func (b *batch) fetch(ctx context.Context, source, id string, fn func(context.Context, string) (ingest.Article, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.calls > 0 && b.c.delay > 0 {
		if err := b.c.pause(ctx, b.c.delay); err != nil {
			return err
		}
	}
	b.calls++

	start := time.Now()
	article, err := fn(ctx, id)
	b.c.metrics.ObserveRetrieval(source, time.Since(start))
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		b.gaps++
		b.c.metrics.RetrievalGaps.WithLabelValues(source).Inc()
		b.c.log.Warn("retrieval gap",
			logging.String("source", source),
			logging.String("id", id),
			logging.Err(err))
		return nil
	}

	article.ID = id
	article.Title = norm.NFKC.String(article.Title)
	article.Text = norm.NFKC.String(article.Text)
	b.articles = append(b.articles, article)
	b.c.log.Debug("retrieved", logging.String("source", source), logging.String("id", id))
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
