package assessment

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// testKnowledgeBase is a small but fully valid catalog used across the
// package tests. Follow-up templates are written so each selection branch
// matches exactly one template, keeping selection deterministic.
const testKnowledgeBase = `{
  "domains": {
    "network_security": {
      "name": "Network Security",
      "keywords": ["firewall", "segmentation"],
      "best_practices": ["Deploy perimeter firewalls", "Segment internal networks"],
      "risk_indicators": ["no firewall", "flat network topology"],
      "follow_up_templates": [
        "What measures do you plan for {topic}?",
        "Do you regularly audit {topic} controls?"
      ]
    },
    "data_protection": {
      "name": "Data Protection",
      "keywords": ["encryption", "privacy"],
      "best_practices": ["Encrypt sensitive data at rest"],
      "risk_indicators": ["lack of encryption"],
      "follow_up_templates": [
        "What measures protect {topic}?",
        "Do you review {topic} handling?"
      ]
    },
    "incident_response": {
      "name": "Incident Response",
      "keywords": ["incident", "escalation"],
      "best_practices": ["Maintain documented runbooks"],
      "risk_indicators": ["no runbooks"],
      "follow_up_templates": ["Describe your escalation path for {topic}."]
    }
  },
  "risk_thresholds": {
    "network_security": 0.7,
    "data_protection": 0.6
  }
}`

func mustCatalog(t *testing.T, data string) *Catalog {
	t.Helper()
	catalog, err := ParseCatalog([]byte(data))
	require.NoError(t, err)
	return catalog
}

// stubProvider returns canned vectors keyed by exact input text, so every
// similarity in a test is a hand-computed dot product.
type stubProvider struct {
	vectors map[string][]float64
}

func (p *stubProvider) Embed(_ context.Context, text string) ([]float64, error) {
	vector, ok := p.vectors[text]
	if !ok {
		return nil, fmt.Errorf("no stub vector for %q", text)
	}
	return vector, nil
}

func (p *stubProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, 0, len(texts))
	for _, text := range texts {
		vector, err := p.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, vector)
	}
	return vectors, nil
}

// failingProvider returns a fixed error from every call.
type failingProvider struct {
	err error
}

func (p *failingProvider) Embed(context.Context, string) ([]float64, error) {
	return nil, p.err
}

func (p *failingProvider) EmbedBatch(context.Context, []string) ([][]float64, error) {
	return nil, p.err
}
