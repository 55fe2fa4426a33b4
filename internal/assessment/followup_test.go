package assessment

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secsentry/internal/errors"
)

func TestSelectProbingQuestionForRiskyAnswer(t *testing.T) {
	catalog := mustCatalog(t, testKnowledgeBase)
	selector := NewFollowUpSelector(catalog, rand.New(rand.NewSource(1)))

	question, err := selector.Select("network_security", 0.3)
	require.NoError(t, err)
	assert.Equal(t, "What measures do you plan for Network Security?", question)
}

func TestSelectOversightQuestionForSolidAnswer(t *testing.T) {
	catalog := mustCatalog(t, testKnowledgeBase)
	selector := NewFollowUpSelector(catalog, rand.New(rand.NewSource(1)))

	question, err := selector.Select("network_security", 0.9)
	require.NoError(t, err)
	assert.Equal(t, "Do you regularly audit Network Security controls?", question)
}

func TestSelectThresholdBoundaryUsesOversightBranch(t *testing.T) {
	catalog := mustCatalog(t, testKnowledgeBase)
	selector := NewFollowUpSelector(catalog, rand.New(rand.NewSource(1)))

	question, err := selector.Select("network_security", 0.5)
	require.NoError(t, err)
	assert.Equal(t, "Do you regularly audit Network Security controls?", question)
}

func TestSelectFallsBackToAllTemplates(t *testing.T) {
	// incident_response's only template matches neither trigger set, so both
	// branches fall back to the full template list.
	catalog := mustCatalog(t, testKnowledgeBase)
	selector := NewFollowUpSelector(catalog, rand.New(rand.NewSource(1)))

	for _, riskScore := range []float64{0.1, 0.9} {
		question, err := selector.Select("incident_response", riskScore)
		require.NoError(t, err)
		assert.Equal(t, "Describe your escalation path for Incident Response.", question)
	}
}

func TestSelectUnknownDomain(t *testing.T) {
	catalog := mustCatalog(t, testKnowledgeBase)
	selector := NewFollowUpSelector(catalog, rand.New(rand.NewSource(1)))

	_, err := selector.Select("physical_security", 0.5)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnknownDomain))
}
