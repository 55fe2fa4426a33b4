package embedding

import (
	"context"
	"sync"
)

// CachedProvider memoizes embeddings by exact text. Catalog statements are
// embedded on every turn, so the cache turns repeat lookups into map reads.
// Safe for concurrent use from multiple sessions.
type CachedProvider struct {
	inner Provider
	mu    sync.RWMutex
	cache map[string][]float64
}

// NewCachedProvider wraps a provider with an in-memory embedding cache.
func NewCachedProvider(inner Provider) *CachedProvider {
	return &CachedProvider{
		inner: inner,
		cache: make(map[string][]float64),
	}
}

// Embed returns the cached embedding for text, computing it once on miss.
func (c *CachedProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	c.mu.RLock()
	vector, ok := c.cache[text]
	c.mu.RUnlock()
	if ok {
		return vector, nil
	}

	vector, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[text] = vector
	c.mu.Unlock()
	return vector, nil
}

// EmbedBatch resolves each text from the cache and computes the misses in a
// single provider call.
func (c *CachedProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	missing := make([]string, 0)
	missingIdx := make([]int, 0)

	c.mu.RLock()
	for i, text := range texts {
		if vector, ok := c.cache[text]; ok {
			vectors[i] = vector
		} else {
			missing = append(missing, text)
			missingIdx = append(missingIdx, i)
		}
	}
	c.mu.RUnlock()

	if len(missing) == 0 {
		return vectors, nil
	}

	computed, err := c.inner.EmbedBatch(ctx, missing)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	for i, vector := range computed {
		vectors[missingIdx[i]] = vector
		c.cache[missing[i]] = vector
	}
	c.mu.Unlock()
	return vectors, nil
}

// Size returns the number of cached embeddings.
func (c *CachedProvider) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}
