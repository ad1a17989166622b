package repository

import (
	"context"
	"sync"
)

// MemoryAPIKeyRepository keeps hashes in process memory. It backs the memory store driver,
// seeded from AUTH_STATIC_API_KEYS.
type MemoryAPIKeyRepository struct {
	mu     sync.RWMutex
	hashes map[string]struct{}
}

// NewMemoryAPIKeyRepository creates a repository pre-populated with keyHashes.
func NewMemoryAPIKeyRepository(keyHashes ...string) *MemoryAPIKeyRepository {
	hashes := make(map[string]struct{}, len(keyHashes))
	for _, h := range keyHashes {
		hashes[h] = struct{}{}
	}
	return &MemoryAPIKeyRepository{hashes: hashes}
}

func (r *MemoryAPIKeyRepository) Create(_ context.Context, keyHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hashes[keyHash] = struct{}{}
	return nil
}

func (r *MemoryAPIKeyRepository) Exists(_ context.Context, keyHash string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.hashes[keyHash]
	return ok, nil
}

func (r *MemoryAPIKeyRepository) Delete(_ context.Context, keyHash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.hashes[keyHash]; !ok {
		return false, nil
	}
	delete(r.hashes, keyHash)
	return true, nil
}
