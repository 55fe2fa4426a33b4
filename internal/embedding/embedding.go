package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkoukk/tiktoken-go"

	"secsentry/internal/errors"
)

// Provider maps text to fixed-length embedding vectors. Implementations must
// be safe for concurrent use: the same provider is shared across assessment
// sessions.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// Config represents embedding service configuration
type Config struct {
	APIKey    string
	Endpoint  string
	Model     string
	MaxTokens int // answers longer than this are truncated before embedding
}

// HTTPProvider calls an external embedding service. Requests are blocking;
// timeout and retry policy belong to the caller, not here.
type HTTPProvider struct {
	config     Config
	httpClient *http.Client
	encoder    *tiktoken.Tiktoken
}

// NewHTTPProvider creates a provider backed by an external embedding service.
func NewHTTPProvider(config Config) (*HTTPProvider, error) {
	if config.Endpoint == "" {
		return nil, errors.NewConfigurationError("embedding endpoint is required", nil)
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = 512
	}

	encoder, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, errors.NewConfigurationError("failed to load token encoder", err)
	}

	return &HTTPProvider{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		encoder: encoder,
	}, nil
}

// Embed generates an embedding for a single text.
func (p *HTTPProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	vectors, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, errors.NewEmbeddingError("embedding service returned no vectors", nil)
	}
	return vectors[0], nil
}

// EmbedBatch generates embeddings for multiple texts in one request.
func (p *HTTPProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	truncated := make([]string, len(texts))
	for i, text := range texts {
		truncated[i] = p.truncate(text)
	}

	reqBody := map[string]interface{}{
		"texts": truncated,
	}
	if p.config.Model != "" {
		reqBody["model"] = p.config.Model
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, errors.NewEmbeddingError("failed to marshal embedding request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.Endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, errors.NewEmbeddingError("failed to create embedding request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.config.APIKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewEmbeddingError("failed to call embedding service", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewEmbeddingError("failed to read embedding response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewEmbeddingError(
			fmt.Sprintf("embedding service returned status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var response struct {
		Success    bool        `json:"success"`
		Embeddings [][]float64 `json:"embeddings"`
		Error      string      `json:"error,omitempty"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, errors.NewEmbeddingError("failed to parse embedding response", err)
	}
	if !response.Success {
		return nil, errors.NewEmbeddingError(fmt.Sprintf("embedding service error: %s", response.Error), nil)
	}
	if len(response.Embeddings) != len(texts) {
		return nil, errors.NewEmbeddingError(
			fmt.Sprintf("embedding service returned %d vectors for %d texts", len(response.Embeddings), len(texts)), nil)
	}

	return response.Embeddings, nil
}

// truncate caps a text at the configured token budget so oversized answers
// do not exceed the embedding model's context window.
func (p *HTTPProvider) truncate(text string) string {
	tokens := p.encoder.Encode(text, nil, nil)
	if len(tokens) <= p.config.MaxTokens {
		return text
	}
	return p.encoder.Decode(tokens[:p.config.MaxTokens])
}

// Dot computes the dot product between two embeddings. Vectors of unequal
// length compare as 0.
func Dot(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}
	var product float64
	for i := range a {
		product += a[i] * b[i]
	}
	return product
}

// ToFloat32 converts an embedding to float32 for storage backends that
// require it.
func ToFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, val := range v {
		out[i] = float32(val)
	}
	return out
}
