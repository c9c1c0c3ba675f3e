package extraction

import (
	"context"

	"github.com/promotoria-nhamunda/controle-prazos/pkg/logger"
)

// ResultCache stores extraction results by key
type ResultCache interface {
	Get(key string) (any, bool)
	Set(key string, value any) error
}

// CachedExtractor remembers the results of an inner extractor by document
// content, so uploading the same file twice costs one extraction
type CachedExtractor struct {
	inner  Extractor
	cache  ResultCache
	keyFn  func(kind, extractor, digest string) string
	logger *logger.Logger
}

// NewCachedExtractor wraps inner. keyFn builds cache keys from the
// collection kind, the extractor name and the document digest.
func NewCachedExtractor(inner Extractor, cache ResultCache, keyFn func(kind, extractor, digest string) string, logger *logger.Logger) *CachedExtractor {
	return &CachedExtractor{
		inner:  inner,
		cache:  cache,
		keyFn:  keyFn,
		logger: logger,
	}
}

func (c *CachedExtractor) Name() string {
	return c.inner.Name()
}

func (c *CachedExtractor) ExtractDeadlines(ctx context.Context, doc Document) (*DeadlineResult, error) {
	return cached(c, KindDeadlines, doc, func() (*DeadlineResult, error) {
		return c.inner.ExtractDeadlines(ctx, doc)
	})
}

func (c *CachedExtractor) ExtractAudiences(ctx context.Context, doc Document) (*AudienceResult, error) {
	return cached(c, KindAudiences, doc, func() (*AudienceResult, error) {
		return c.inner.ExtractAudiences(ctx, doc)
	})
}

func (c *CachedExtractor) ExtractAdministrative(ctx context.Context, doc Document) (*AdministrativeResult, error) {
	return cached(c, KindAdministrative, doc, func() (*AdministrativeResult, error) {
		return c.inner.ExtractAdministrative(ctx, doc)
	})
}

// cached returns a remembered result or runs extract. Failures and empty
// results are not remembered.
func cached[T any](c *CachedExtractor, kind Kind, doc Document, extract func() (*T, error)) (*T, error) {
	key := c.keyFn(string(kind), c.inner.Name(), doc.Digest())

	if value, found := c.cache.Get(key); found {
		if result, ok := value.(*T); ok {
			c.logger.Debug("Extraction cache hit", "kind", kind, "document", doc.Name)
			return result, nil
		}
	}

	result, err := extract()
	if err != nil {
		return nil, err
	}
	if result == nil || empty(result) {
		return result, nil
	}

	if err := c.cache.Set(key, result); err != nil {
		c.logger.Warn("Failed to cache extraction result", "kind", kind, "error", err)
	}
	return result, nil
}

func empty(result any) bool {
	switch r := result.(type) {
	case *DeadlineResult:
		return len(r.Deadlines) == 0
	case *AudienceResult:
		return len(r.Audiences) == 0
	case *AdministrativeResult:
		return len(r.Processes) == 0
	}
	return false
}
