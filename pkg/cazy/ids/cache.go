package ids

import "context"

// TranslationCache persists translator answers between runs.
// A cached empty value records a known miss.
type TranslationCache interface {
	GetTranslation(ctx context.Context, id, target string) (value string, ok bool, err error)
	PutTranslation(ctx context.Context, id, target, value string) error
}

// CachedTranslator answers from the cache first and stores every
// definite answer of the wrapped translator. Translator errors are not
// cached; cache errors fall through to the translator.
type CachedTranslator struct {
	next  Translator
	cache TranslationCache
}

// NewCachedTranslator wraps next with cache.
func NewCachedTranslator(next Translator, cache TranslationCache) *CachedTranslator {
	return &CachedTranslator{next: next, cache: cache}
}

func (c *CachedTranslator) PMID(ctx context.Context, id string) (string, error) {
	return c.lookup(ctx, id, PMID, c.next.PMID)
}

func (c *CachedTranslator) PMCID(ctx context.Context, id string) (string, error) {
	return c.lookup(ctx, id, PMCID, c.next.PMCID)
}

func (c *CachedTranslator) DOI(ctx context.Context, id string) (string, error) {
	return c.lookup(ctx, id, DOI, c.next.DOI)
}

func (c *CachedTranslator) lookup(ctx context.Context, id string, target IDType, fn LookupFunc) (string, error) {
	if v, ok, err := c.cache.GetTranslation(ctx, id, target.String()); err == nil && ok {
		return v, nil
	}

	v, err := fn(ctx, id)
	if err != nil {
		return "", err
	}
	// best effort; the answer is still returned
	_ = c.cache.PutTranslation(ctx, id, target.String(), v)
	return v, nil
}
