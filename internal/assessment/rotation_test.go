package assessment

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"secsentry/types"
)

func TestShouldRotate(t *testing.T) {
	catalog := mustCatalog(t, testKnowledgeBase)
	policy := NewRotationPolicy(catalog, rand.New(rand.NewSource(1)))

	assert.False(t, policy.ShouldRotate(0))
	assert.False(t, policy.ShouldRotate(1))
	assert.True(t, policy.ShouldRotate(2))
	assert.True(t, policy.ShouldRotate(3))
}

func TestNextDomainExcludesCurrentAndRecent(t *testing.T) {
	catalog := mustCatalog(t, testKnowledgeBase)
	policy := NewRotationPolicy(catalog, rand.New(rand.NewSource(1)))

	history := []*types.SecurityResponse{
		{Domain: "network_security"},
		{Domain: "data_protection"},
	}

	// network_security is current, data_protection is in the recent window:
	// incident_response is the only candidate left.
	next := policy.NextDomain("network_security", history, 2)
	assert.Equal(t, "incident_response", next)
}

func TestNextDomainAvoidsCurrentWhenPossible(t *testing.T) {
	catalog := mustCatalog(t, testKnowledgeBase)
	policy := NewRotationPolicy(catalog, rand.New(rand.NewSource(7)))

	history := []*types.SecurityResponse{
		{Domain: "network_security"},
		{Domain: "network_security"},
	}

	for i := 0; i < 20; i++ {
		next := policy.NextDomain("network_security", history, 2)
		assert.NotEqual(t, "network_security", next)
		assert.Contains(t, []string{"data_protection", "incident_response"}, next)
	}
}

func TestNextDomainFallsBackToFullCatalog(t *testing.T) {
	singleDomain := `{
	  "domains": {
	    "network_security": {
	      "name": "Network Security",
	      "keywords": ["firewall"],
	      "best_practices": ["Deploy perimeter firewalls"],
	      "risk_indicators": ["no firewall"],
	      "follow_up_templates": ["Do you regularly audit {topic} controls?"]
	    }
	  }
	}`
	catalog := mustCatalog(t, singleDomain)
	policy := NewRotationPolicy(catalog, rand.New(rand.NewSource(1)))

	history := []*types.SecurityResponse{
		{Domain: "network_security"},
		{Domain: "network_security"},
	}

	next := policy.NextDomain("network_security", history, 2)
	assert.Equal(t, "network_security", next)
}
