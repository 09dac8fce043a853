package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/laliga-scout/internal/domain/document"
	"github.com/riskibarqy/laliga-scout/internal/platform/logging"
)

// documentCache pairs the persistent store with the provider for cache-or-fetch lookups.
type documentCache struct {
	repo   document.Repository
	source document.Source
	logger *logging.Logger
}

func newDocumentCache(repo document.Repository, source document.Source, logger *logging.Logger) documentCache {
	if logger == nil {
		logger = logging.Default()
	}
	return documentCache{repo: repo, source: source, logger: logger}
}

// read decodes a cached document into target. A corrupt entry counts as a miss
// so the caller refetches and overwrites it.
func (c documentCache) read(ctx context.Context, key document.Key, target any) (bool, error) {
	err := c.repo.Read(ctx, key, target)
	switch {
	case err == nil:
		c.logger.DebugContext(ctx, "cache hit", "key", key.String())
		return true, nil
	case errors.Is(err, document.ErrNotFound):
		return false, nil
	case errors.Is(err, document.ErrCorrupt):
		c.logger.WarnContext(ctx, "discarding corrupt cache entry", "key", key.String(), "error", err)
		return false, nil
	default:
		return false, fmt.Errorf("read cache %s: %w", key, err)
	}
}

// write persists a document. Failures are logged and do not fail the request
// because the value was already computed.
func (c documentCache) write(ctx context.Context, key document.Key, value any) {
	if err := c.repo.Write(ctx, key, value); err != nil {
		c.logger.ErrorContext(ctx, "write cache entry failed", "key", key.String(), "error", err)
	}
}

func (c documentCache) fetch(ctx context.Context, endpoint document.Endpoint, params map[string]string) (document.Raw, error) {
	doc, err := c.source.Fetch(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		doc = document.Raw{}
	}
	return doc, nil
}

// load returns the raw provider document for key, fetching and persisting it on a miss.
func (c documentCache) load(ctx context.Context, key document.Key, endpoint document.Endpoint, params map[string]string) (document.Raw, error) {
	var doc document.Raw
	found, err := c.read(ctx, key, &doc)
	if err != nil {
		return nil, err
	}
	if found && doc != nil {
		return doc, nil
	}

	doc, err = c.fetch(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	c.write(ctx, key, doc)
	return doc, nil
}
