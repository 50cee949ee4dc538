package ids

import (
	"context"
	"fmt"
	"strings"

	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/internalerr"
)

// Sentinels written in place of an identifier that could not be translated.
const (
	// NotFound fills the pmcid column of a result table
	NotFound = "not found"
	// NotFoundID fills the target column of a find output
	NotFoundID = "not_found"
)

// Translator looks up the alternate identifiers of an article. A miss is
// an empty value with a nil error; errors are transport or decoding
// failures.
type Translator interface {
	PMID(ctx context.Context, id string) (string, error)
	PMCID(ctx context.Context, id string) (string, error)
	DOI(ctx context.Context, id string) (string, error)
}

// LookupFunc translates one identifier into one target type
type LookupFunc func(ctx context.Context, id string) (string, error)

// lookupTable maps every supported IDType to its translation function.
func lookupTable(t Translator) map[IDType]LookupFunc {
	return map[IDType]LookupFunc{
		PMID:  t.PMID,
		PMCID: t.PMCID,
		DOI:   t.DOI,
	}
}

// Resolution is the outcome of a translation: a value or a miss.
type Resolution struct {
	Value string
	Found bool
}

// Hit wraps a resolved value.
func Hit(v string) Resolution {
	return Resolution{Value: v, Found: true}
}

// Miss is a failed translation.
var Miss = Resolution{}

// Or returns the value, or fallback on a miss.
func (r Resolution) Or(fallback string) string {
	if !r.Found {
		return fallback
	}
	return r.Value
}

// Resolver turns translator calls into Resolutions
type Resolver struct {
	table map[IDType]LookupFunc
}

// NewResolver creates a resolver over a translator.
func NewResolver(t Translator) *Resolver {
	return &Resolver{table: lookupTable(t)}
}

// ResolveAlternate translates id into the target type. Every failure,
// including an unsupported target, is a miss.
func (r *Resolver) ResolveAlternate(ctx context.Context, id string, target IDType) Resolution {
	fn, ok := r.table[target]
	if !ok {
		return Miss
	}
	return safeLookup(ctx, fn, id)
}

func safeLookup(ctx context.Context, fn LookupFunc, id string) (res Resolution) {
	// a translator choking on a malformed response is a miss like any other
	defer func() {
		if recover() != nil {
			res = Miss
		}
	}()

	v, err := fn(ctx, id)
	v = strings.TrimSpace(v)
	if err != nil || v == "" {
		return Miss
	}
	return Hit(v)
}

// Found pairs an input identifier with the translated value or NotFoundID
type Found struct {
	ID    string
	Value string
}

// Finder translates identifiers into one fixed target type
type Finder struct {
	target IDType
	lookup LookupFunc
}

// NewFinder selects the lookup for target. Unsupported targets are
// rejected here, before any identifier is read.
func NewFinder(t Translator, target IDType) (*Finder, error) {
	fn, ok := lookupTable(t)[target]
	if !ok {
		return nil, fmt.Errorf("%v: %w", target, internalerr.ErrUnsupportedIDType)
	}
	return &Finder{target: target, lookup: fn}, nil
}

// Target returns the identifier type the finder produces.
func (f *Finder) Target() IDType {
	return f.target
}

// FindIDs translates every id in order. A miss yields NotFoundID and never
// stops the batch; only context cancellation does.
func (f *Finder) FindIDs(ctx context.Context, ids []string) ([]Found, error) {
	out := make([]Found, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		res := safeLookup(ctx, f.lookup, id)
		out = append(out, Found{ID: id, Value: res.Or(NotFoundID)})
	}
	return out, nil
}
