package assessment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	networkContext  = "firewall segmentation Deploy perimeter firewalls Segment internal networks"
	dataContext     = "encryption privacy Encrypt sensitive data at rest"
	incidentContext = "incident escalation Maintain documented runbooks"
)

func TestClassifyPicksHighestSimilarity(t *testing.T) {
	catalog := mustCatalog(t, testKnowledgeBase)
	provider := &stubProvider{vectors: map[string][]float64{
		"Q A":           {1, 0},
		networkContext:  {0.8, 0},
		dataContext:     {0.2, 0},
		incidentContext: {0.1, 0},
	}}
	classifier := NewClassifier(catalog, provider)

	domain, confidence, err := classifier.Classify(context.Background(), "Q", "A")
	require.NoError(t, err)
	assert.Equal(t, "network_security", domain)
	assert.InDelta(t, 0.8, confidence, 1e-9)
}

func TestClassifyCombinesQuestionAndAnswer(t *testing.T) {
	catalog := mustCatalog(t, testKnowledgeBase)
	// Only the concatenated "question answer" text has a vector, so the
	// classifier errors if it embeds anything else.
	provider := &stubProvider{vectors: map[string][]float64{
		"What about backups? We encrypt them.": {0, 1},
		networkContext:                         {1, 0},
		dataContext:                            {0, 1},
		incidentContext:                        {0, 0},
	}}
	classifier := NewClassifier(catalog, provider)

	domain, confidence, err := classifier.Classify(context.Background(), "What about backups?", "We encrypt them.")
	require.NoError(t, err)
	assert.Equal(t, "data_protection", domain)
	assert.InDelta(t, 1.0, confidence, 1e-9)
}

func TestClassifyTieGoesToFirstDeclaredDomain(t *testing.T) {
	catalog := mustCatalog(t, testKnowledgeBase)
	provider := &stubProvider{vectors: map[string][]float64{
		"Q A":           {1, 0},
		networkContext:  {0.5, 0},
		dataContext:     {0.5, 0},
		incidentContext: {0.5, 0},
	}}
	classifier := NewClassifier(catalog, provider)

	domain, _, err := classifier.Classify(context.Background(), "Q", "A")
	require.NoError(t, err)
	assert.Equal(t, "network_security", domain)
}

func TestClassifyPropagatesProviderError(t *testing.T) {
	catalog := mustCatalog(t, testKnowledgeBase)
	providerErr := errors.New("embedding service unavailable")
	classifier := NewClassifier(catalog, &failingProvider{err: providerErr})

	_, _, err := classifier.Classify(context.Background(), "Q", "A")
	assert.ErrorIs(t, err, providerErr)
}
