package store

import (
	"context"
	"time"

	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/ids"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/ingest"
)

// Store persists prediction runs and cached identifier translations
type Store interface {
	Close() error

	// Runs
	SaveRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, id string) (Run, error)
	LatestRun(ctx context.Context) (Run, bool, error)
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)

	// Translations, keyed by source id and target type name
	GetTranslation(ctx context.Context, id, target string) (string, bool, error)
	PutTranslation(ctx context.Context, id, target, value string) error
}

// Run is one predict execution
type Run struct {
	ID        string
	CreatedAt time.Time
	InputPath string
	ModelPath string
	Articles  []ingest.Article
	Results   ids.ResultTable
}

// RunSummary is a run without its articles and rows
type RunSummary struct {
	ID        string
	CreatedAt time.Time
	InputPath string
	ModelPath string
	Articles  int
	Rows      int
	Scored    int
}

// Summary condenses a run.
func (r Run) Summary() RunSummary {
	return RunSummary{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		InputPath: r.InputPath,
		ModelPath: r.ModelPath,
		Articles:  len(r.Articles),
		Rows:      len(r.Results),
		Scored:    r.Results.Scored(),
	}
}
