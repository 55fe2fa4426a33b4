package assessment

import (
	"context"

	"secsentry/internal/embedding"
	"secsentry/internal/errors"
)

// recommendationCutoff is the similarity below which a best practice counts
// as unmet by the answer.
const recommendationCutoff = 0.5

// Recommender lists the best practices an answer does not cover.
type Recommender struct {
	catalog  *Catalog
	provider embedding.Provider
}

// NewRecommender creates a recommender over the given catalog.
func NewRecommender(catalog *Catalog, provider embedding.Provider) *Recommender {
	return &Recommender{
		catalog:  catalog,
		provider: provider,
	}
}

// Recommend returns one recommendation per unmet best practice, in catalog
// order. An empty result means the answer covers every practice.
func (r *Recommender) Recommend(ctx context.Context, domainName, answer string) ([]string, error) {
	domain, ok := r.catalog.Get(domainName)
	if !ok {
		return nil, errors.NewUnknownDomainError(domainName)
	}

	answerEmbedding, err := r.provider.Embed(ctx, answer)
	if err != nil {
		return nil, err
	}

	practiceEmbeddings, err := r.provider.EmbedBatch(ctx, domain.BestPractices)
	if err != nil {
		return nil, err
	}

	recommendations := make([]string, 0)
	for i, practiceEmbedding := range practiceEmbeddings {
		if embedding.Dot(answerEmbedding, practiceEmbedding) < recommendationCutoff {
			recommendations = append(recommendations, "Consider implementing: "+domain.BestPractices[i])
		}
	}

	return recommendations, nil
}
