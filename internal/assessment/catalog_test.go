package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secsentry/internal/errors"
)

func TestParseCatalogPreservesDeclarationOrder(t *testing.T) {
	catalog := mustCatalog(t, testKnowledgeBase)

	assert.Equal(t, 3, catalog.Len())
	assert.Equal(t, []string{"network_security", "data_protection", "incident_response"}, catalog.Names())
}

func TestParseCatalogValidation(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "invalid json",
			data: `{"domains": `,
		},
		{
			name: "no domains",
			data: `{"domains": {}, "risk_thresholds": {}}`,
		},
		{
			name: "missing display name",
			data: `{"domains": {"d": {"keywords": ["k"], "best_practices": ["p"], "risk_indicators": ["r"], "follow_up_templates": ["t"]}}}`,
		},
		{
			name: "no best practices",
			data: `{"domains": {"d": {"name": "D", "keywords": ["k"], "best_practices": [], "risk_indicators": ["r"], "follow_up_templates": ["t"]}}}`,
		},
		{
			name: "no risk indicators",
			data: `{"domains": {"d": {"name": "D", "keywords": ["k"], "best_practices": ["p"], "risk_indicators": [], "follow_up_templates": ["t"]}}}`,
		},
		{
			name: "no follow-up templates",
			data: `{"domains": {"d": {"name": "D", "keywords": ["k"], "best_practices": ["p"], "risk_indicators": ["r"], "follow_up_templates": []}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog, err := ParseCatalog([]byte(tt.data))
			require.Error(t, err)
			assert.Nil(t, catalog)
			assert.True(t, errors.IsType(err, errors.ErrorTypeConfiguration))
		})
	}
}

func TestCatalogThresholdFallback(t *testing.T) {
	catalog := mustCatalog(t, testKnowledgeBase)

	assert.Equal(t, 0.7, catalog.Threshold("network_security"))
	assert.Equal(t, 0.6, catalog.Threshold("data_protection"))
	assert.Equal(t, DefaultRiskThreshold, catalog.Threshold("incident_response"))
}

func TestCatalogGet(t *testing.T) {
	catalog := mustCatalog(t, testKnowledgeBase)

	domain, ok := catalog.Get("data_protection")
	require.True(t, ok)
	assert.Equal(t, "Data Protection", domain.Name)

	_, ok = catalog.Get("physical_security")
	assert.False(t, ok)
}
