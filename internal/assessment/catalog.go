// Package assessment implements the adaptive security-assessment interview
// engine: domain classification, two-sided risk scoring, follow-up selection,
// domain rotation and the per-session conversation manager.
package assessment

import (
	"encoding/json"
	"fmt"
	"os"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"secsentry/internal/errors"
	"secsentry/types"
)

// DefaultRiskThreshold applies to domains without an explicit threshold.
const DefaultRiskThreshold = 0.7

// Catalog is the loaded set of security domains plus their risk thresholds.
// Domains keep their declaration order, which makes classification tie-breaks
// deterministic. Read-only after loading.
type Catalog struct {
	domains    *orderedmap.OrderedMap[string, *types.SecurityDomain]
	thresholds map[string]float64
}

// LoadCatalog reads and validates a knowledge base file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigurationError(fmt.Sprintf("failed to read knowledge base %s", path), err)
	}
	return ParseCatalog(data)
}

// ParseCatalog parses and validates a knowledge base document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var raw struct {
		Domains        json.RawMessage    `json:"domains"`
		RiskThresholds map[string]float64 `json:"risk_thresholds"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.NewConfigurationError("failed to parse knowledge base", err)
	}

	domains := orderedmap.New[string, *types.SecurityDomain]()
	if len(raw.Domains) > 0 {
		if err := json.Unmarshal(raw.Domains, domains); err != nil {
			return nil, errors.NewConfigurationError("failed to parse domains", err)
		}
	}
	if domains.Len() == 0 {
		return nil, errors.NewConfigurationError("knowledge base defines no domains", nil)
	}

	for pair := domains.Oldest(); pair != nil; pair = pair.Next() {
		if err := validateDomain(pair.Key, pair.Value); err != nil {
			return nil, err
		}
	}

	thresholds := raw.RiskThresholds
	if thresholds == nil {
		thresholds = make(map[string]float64)
	}

	return &Catalog{
		domains:    domains,
		thresholds: thresholds,
	}, nil
}

// validateDomain enforces the invariants the scorer and selector rely on:
// a mean over zero best practices or a weighted average over zero risk
// indicators would be undefined, and the selector's fallback needs at least
// one template.
func validateDomain(key string, domain *types.SecurityDomain) error {
	if domain == nil {
		return errors.NewConfigurationError(fmt.Sprintf("domain %q has no definition", key), nil)
	}
	if domain.Name == "" {
		return errors.NewConfigurationError(fmt.Sprintf("domain %q is missing a display name", key), nil)
	}
	if len(domain.BestPractices) == 0 {
		return errors.NewConfigurationError(fmt.Sprintf("domain %q defines no best practices", key), nil)
	}
	if len(domain.RiskIndicators) == 0 {
		return errors.NewConfigurationError(fmt.Sprintf("domain %q defines no risk indicators", key), nil)
	}
	if len(domain.FollowUpTemplates) == 0 {
		return errors.NewConfigurationError(fmt.Sprintf("domain %q defines no follow-up templates", key), nil)
	}
	return nil
}

// Len returns the number of domains.
func (c *Catalog) Len() int {
	return c.domains.Len()
}

// Names returns the domain keys in declaration order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, c.domains.Len())
	for pair := c.domains.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Get returns the domain for a key.
func (c *Catalog) Get(name string) (*types.SecurityDomain, bool) {
	return c.domains.Get(name)
}

// Threshold returns the risk threshold for a domain, falling back to
// DefaultRiskThreshold for domains without an explicit entry.
func (c *Catalog) Threshold(name string) float64 {
	if threshold, ok := c.thresholds[name]; ok {
		return threshold
	}
	return DefaultRiskThreshold
}
