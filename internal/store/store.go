// Package store archives processed assessment responses in a chromem-go
// vector database, so past answers can be searched semantically across
// sessions.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/philippgille/chromem-go"

	"secsentry/internal/config"
	"secsentry/internal/embedding"
	"secsentry/internal/errors"
	"secsentry/types"
)

// SearchResult is one archived response matched by a semantic query.
type SearchResult struct {
	SessionID  string                  `json:"session_id"`
	Response   *types.SecurityResponse `json:"response"`
	Similarity float32                 `json:"similarity"`
}

// Archive persists processed responses and answers semantic queries over
// them. Safe for concurrent use; chromem serializes writes internally.
type Archive struct {
	db         *chromem.DB
	collection *chromem.Collection
	provider   embedding.Provider
}

// NewArchive opens (or creates) the response archive. An empty path keeps the
// archive in memory only.
func NewArchive(cfg config.StoreConfig, provider embedding.Provider) (*Archive, error) {
	var db *chromem.DB
	if cfg.Path == "" {
		db = chromem.NewDB()
		log.Printf("⚠️  No store path configured, archived responses will not persist")
	} else {
		var err error
		db, err = chromem.NewPersistentDB(cfg.Path, false)
		if err != nil {
			return nil, errors.NewConfigurationError(fmt.Sprintf("failed to open response archive at %s", cfg.Path), err)
		}
	}

	collection, err := db.GetOrCreateCollection(cfg.Collection, map[string]string{"type": "response"}, embedding.ChromemFunc(provider))
	if err != nil {
		return nil, errors.NewConfigurationError(fmt.Sprintf("failed to create collection %s", cfg.Collection), err)
	}

	log.Printf("✅ Response archive ready (collection: %s, %d documents)", cfg.Collection, collection.Count())

	return &Archive{
		db:         db,
		collection: collection,
		provider:   provider,
	}, nil
}

// SaveResponse archives one processed response under its session. The
// document embedding is computed from the answer text, which is what semantic
// search queries against.
func (a *Archive) SaveResponse(ctx context.Context, sessionID string, response *types.SecurityResponse) error {
	content, err := json.Marshal(response)
	if err != nil {
		return errors.NewInternalError("failed to marshal response for archiving", err)
	}

	vector, err := a.provider.Embed(ctx, response.Answer)
	if err != nil {
		return err
	}

	docID := fmt.Sprintf("%s_%d", sessionID, response.Timestamp.UnixNano())
	metadata := map[string]string{
		"session_id": sessionID,
		"domain":     response.Domain,
		"risk_level": response.RiskLevel.String(),
		"risk_score": strconv.FormatFloat(response.RiskScore, 'f', 4, 64),
		"timestamp":  response.Timestamp.Format(time.RFC3339),
		"type":       "response",
	}

	err = a.collection.Add(ctx,
		[]string{docID},
		[][]float32{embedding.ToFloat32(vector)},
		[]map[string]string{metadata},
		[]string{string(content)},
	)
	if err != nil {
		return errors.NewInternalError("failed to archive response", err)
	}

	return nil
}

// Search returns up to limit archived responses most similar to the query
// text, across all sessions.
func (a *Archive) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 10
	}
	// chromem rejects nResults larger than the collection size.
	if count := a.collection.Count(); count < limit {
		limit = count
	}
	if limit == 0 {
		return []SearchResult{}, nil
	}

	results, err := a.collection.Query(ctx, query, limit, nil, nil)
	if err != nil {
		return nil, errors.NewInternalError("archive search failed", err)
	}

	matches := make([]SearchResult, 0, len(results))
	for _, result := range results {
		var response types.SecurityResponse
		if err := json.Unmarshal([]byte(result.Content), &response); err != nil {
			log.Printf("⚠️  Skipping malformed archived response %s: %v", result.ID, err)
			continue
		}
		matches = append(matches, SearchResult{
			SessionID:  result.Metadata["session_id"],
			Response:   &response,
			Similarity: result.Similarity,
		})
	}

	return matches, nil
}

// Count returns the number of archived responses.
func (a *Archive) Count() int {
	return a.collection.Count()
}
