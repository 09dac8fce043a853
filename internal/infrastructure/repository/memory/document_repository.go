package memory

import (
	"context"
	"sync"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/laliga-scout/internal/domain/document"
	"github.com/riskibarqy/laliga-scout/internal/platform/jsoncodec"
)

// DocumentRepository keeps encoded documents in process memory.
type DocumentRepository struct {
	mu      sync.RWMutex
	entries map[document.Key][]byte
}

func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{entries: make(map[document.Key][]byte)}
}

func (r *DocumentRepository) Exists(_ context.Context, key document.Key) (bool, error) {
	if !key.Valid() {
		return false, crerr.Newf("invalid document key %q", key)
	}

	r.mu.RLock()
	_, ok := r.entries[key]
	r.mu.RUnlock()
	return ok, nil
}

func (r *DocumentRepository) Read(_ context.Context, key document.Key, target any) error {
	if !key.Valid() {
		return crerr.Newf("invalid document key %q", key)
	}

	r.mu.RLock()
	raw, ok := r.entries[key]
	r.mu.RUnlock()
	if !ok {
		return crerr.Wrapf(document.ErrNotFound, "read %s", key)
	}

	if err := jsoncodec.Unmarshal(raw, target); err != nil {
		return crerr.Wrapf(document.ErrCorrupt, "decode %s: %v", key, err)
	}
	return nil
}

func (r *DocumentRepository) Write(_ context.Context, key document.Key, value any) error {
	if !key.Valid() {
		return crerr.Newf("invalid document key %q", key)
	}

	raw, err := jsoncodec.Marshal(value)
	if err != nil {
		return crerr.Wrapf(err, "encode %s", key)
	}

	r.mu.Lock()
	r.entries[key] = raw
	r.mu.Unlock()
	return nil
}

// Put stores raw bytes as-is. Tests use it to seed corrupt entries.
func (r *DocumentRepository) Put(key document.Key, raw []byte) {
	r.mu.Lock()
	r.entries[key] = append([]byte(nil), raw...)
	r.mu.Unlock()
}

func (r *DocumentRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Keys lists stored keys in no particular order.
func (r *DocumentRepository) Keys() []document.Key {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]document.Key, 0, len(r.entries))
	for key := range r.entries {
		out = append(out, key)
	}
	return out
}
