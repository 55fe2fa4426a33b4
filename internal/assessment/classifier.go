package assessment

import (
	"context"
	"math"
	"strings"

	"secsentry/internal/embedding"
)

// Classifier picks the best-matching security domain for a question/answer
// pair by embedding similarity against each domain's keyword and
// best-practice vocabulary.
type Classifier struct {
	catalog  *Catalog
	provider embedding.Provider
}

// NewClassifier creates a classifier over the given catalog.
func NewClassifier(catalog *Catalog, provider embedding.Provider) *Classifier {
	return &Classifier{
		catalog:  catalog,
		provider: provider,
	}
}

// Classify returns the winning domain key and its similarity score. The
// confidence is a raw dot product and is not normalized to any fixed range.
// Ties go to the domain declared first in the catalog.
func (c *Classifier) Classify(ctx context.Context, question, answer string) (string, float64, error) {
	combined := question + " " + answer
	textEmbedding, err := c.provider.Embed(ctx, combined)
	if err != nil {
		return "", 0, err
	}

	bestMatch := ""
	bestScore := math.Inf(-1)

	for _, name := range c.catalog.Names() {
		domain, _ := c.catalog.Get(name)
		domainEmbedding, err := c.provider.Embed(ctx, domainContext(domain.Keywords, domain.BestPractices))
		if err != nil {
			return "", 0, err
		}

		if similarity := embedding.Dot(textEmbedding, domainEmbedding); similarity > bestScore {
			bestScore = similarity
			bestMatch = name
		}
	}

	return bestMatch, bestScore, nil
}

// domainContext joins a domain's keywords and best practices into the single
// text whose embedding represents the domain.
func domainContext(keywords, bestPractices []string) string {
	parts := make([]string, 0, len(keywords)+len(bestPractices))
	parts = append(parts, keywords...)
	parts = append(parts, bestPractices...)
	return strings.Join(parts, " ")
}
