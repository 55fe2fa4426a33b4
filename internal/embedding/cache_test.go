package embedding

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingProvider records how many texts were actually embedded, so tests
// can tell cache hits from misses.
type countingProvider struct {
	vectors map[string][]float64
	calls   int
	texts   int
}

func (p *countingProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	vectors, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (p *countingProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	p.calls++
	p.texts += len(texts)
	out := make([][]float64, len(texts))
	for i, text := range texts {
		vector, ok := p.vectors[text]
		if !ok {
			return nil, fmt.Errorf("no vector for %q", text)
		}
		out[i] = vector
	}
	return out, nil
}

func TestCachedProviderEmbed(t *testing.T) {
	inner := &countingProvider{vectors: map[string][]float64{
		"firewall": {1, 0},
	}}
	cached := NewCachedProvider(inner)

	for i := 0; i < 3; i++ {
		vector, err := cached.Embed(context.Background(), "firewall")
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 0}, vector)
	}

	assert.Equal(t, 1, inner.calls, "repeat lookups should not reach the inner provider")
	assert.Equal(t, 1, cached.Size())
}

func TestCachedProviderEmbedBatchPartialMiss(t *testing.T) {
	inner := &countingProvider{vectors: map[string][]float64{
		"firewall":   {1, 0},
		"encryption": {0, 1},
		"backups":    {0.5, 0.5},
	}}
	cached := NewCachedProvider(inner)

	_, err := cached.Embed(context.Background(), "firewall")
	require.NoError(t, err)

	vectors, err := cached.EmbedBatch(context.Background(), []string{"encryption", "firewall", "backups"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	assert.Equal(t, []float64{0, 1}, vectors[0])
	assert.Equal(t, []float64{1, 0}, vectors[1])
	assert.Equal(t, []float64{0.5, 0.5}, vectors[2])

	// One call for the warm-up, one for the two misses.
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 3, inner.texts)
	assert.Equal(t, 3, cached.Size())
}

func TestCachedProviderAllHits(t *testing.T) {
	inner := &countingProvider{vectors: map[string][]float64{
		"firewall":   {1, 0},
		"encryption": {0, 1},
	}}
	cached := NewCachedProvider(inner)

	_, err := cached.EmbedBatch(context.Background(), []string{"firewall", "encryption"})
	require.NoError(t, err)

	vectors, err := cached.EmbedBatch(context.Background(), []string{"firewall", "encryption"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedProviderErrorNotCached(t *testing.T) {
	inner := &countingProvider{vectors: map[string][]float64{}}
	cached := NewCachedProvider(inner)

	_, err := cached.Embed(context.Background(), "unknown")
	require.Error(t, err)
	assert.Equal(t, 0, cached.Size())
}
