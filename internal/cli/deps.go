package cli

import (
	"context"
	"net/http"

	"github.com/dabane-ghassan/cazy-little-helper/internal/biblio"
	"github.com/dabane-ghassan/cazy-little-helper/internal/logging"
	"github.com/dabane-ghassan/cazy-little-helper/internal/ncbi"
	"github.com/dabane-ghassan/cazy-little-helper/internal/retrieval"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy"
	pkgconfig "github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/config"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/score"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/store"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/store/sqlite"
)

// helperOptions are the per-command choices that override the config
type helperOptions struct {
	BiblioURL string
	ModelPath string // empty: no scorer
}

// newHelper assembles the facade from config, flags and injected deps.
// The returned helper owns the store and must be closed.
func (a *App) newHelper(ctx context.Context, opts helperOptions) (*cazy.Helper, error) {
	cfg := a.Config

	loader := pkgconfig.Loader{
		StoplistPath: cfg.Preprocess.StoplistPath,
		LexiconPath:  cfg.Preprocess.LexiconPath,
		DisableStem:  !cfg.Preprocess.Stem,
		MinCount:     cfg.Preprocess.MinCount,
		Threshold:    cfg.Preprocess.Threshold,
		Delimiter:    cfg.Preprocess.Delimiter,
		Scorer:       cfg.Preprocess.Scorer,
	}
	components, err := loader.Load()
	if err != nil {
		return nil, err
	}
	sum := components.Summary()
	a.Logger.Debug("preprocessing loaded",
		logging.Int("stopwords", sum.Stopwords),
		logging.Int("lemma_groups", sum.LemmaGroups),
		logging.Int("lemma_variants", sum.LemmaVariants),
		logging.Int("min_count", int(sum.MinCount)),
		logging.Float64("threshold", sum.Threshold))

	var scorer cazy.ConfidenceScorer
	if opts.ModelPath != "" {
		s, err := score.LoadScorer(opts.ModelPath)
		if err != nil {
			return nil, err
		}
		scorer = s
	}

	deps := a.deps
	if deps.Translator == nil || deps.Abstracts == nil {
		client := ncbi.New(ncbi.Options{
			EutilsURL: cfg.NCBI.EutilsURL,
			IDConvURL: cfg.NCBI.IDConvURL,
			Tool:      cfg.NCBI.Tool,
			Email:     cfg.NCBI.Email,
			APIKey:    cfg.NCBI.APIKey,
			HTTP:      &http.Client{Timeout: cfg.NCBI.Timeout},
		})
		if deps.Translator == nil {
			deps.Translator = client
		}
		if deps.Abstracts == nil {
			deps.Abstracts = client
		}
	}
	if deps.FullText == nil {
		base := opts.BiblioURL
		if base == "" {
			base = cfg.Biblio.BaseURL
		}
		deps.FullText = biblio.New(base, &http.Client{Timeout: cfg.Biblio.Timeout})
	}

	var st store.Store
	if cfg.Store.Path != "" {
		st, err = sqlite.OpenSQLite(ctx, cfg.Store.Path)
		if err != nil {
			return nil, err
		}
	}

	collector := retrieval.NewCollector(retrieval.Options{
		FullText:  deps.FullText,
		Abstracts: deps.Abstracts,
		Delay:     cfg.Retrieval.Delay,
		Logger:    a.Logger,
		Metrics:   a.Metrics,
	})

	return cazy.New(cazy.Options{
		Translator:   deps.Translator,
		Retriever:    collector,
		Preprocessor: components.Preprocessor,
		Scorer:       scorer,
		Store:        st,
		Logger:       a.Logger,
		Metrics:      a.Metrics,
	}), nil
}
