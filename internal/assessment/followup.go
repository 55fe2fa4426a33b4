package assessment

import (
	"math/rand"
	"strings"

	"secsentry/internal/errors"
)

// followUpThreshold splits follow-ups into two branches: risky answers get
// probing questions, solid answers get oversight questions.
const followUpThreshold = 0.5

var (
	probingWords   = []string{"how", "what measures", "plan"}
	oversightWords = []string{"monitor", "review", "audit"}
)

// FollowUpSelector picks the next question template for a domain based on
// the risk score of the answer just given. The randomness source is
// injected so selection can be made deterministic in tests.
type FollowUpSelector struct {
	catalog *Catalog
	rng     *rand.Rand
}

// NewFollowUpSelector creates a selector over the given catalog.
func NewFollowUpSelector(catalog *Catalog, rng *rand.Rand) *FollowUpSelector {
	return &FollowUpSelector{
		catalog: catalog,
		rng:     rng,
	}
}

// Select renders the next follow-up question for a domain. Templates whose
// text matches the branch's trigger words are preferred; if none match, the
// full template set is used instead.
func (s *FollowUpSelector) Select(domainName string, riskScore float64) (string, error) {
	domain, ok := s.catalog.Get(domainName)
	if !ok {
		return "", errors.NewUnknownDomainError(domainName)
	}

	words := oversightWords
	if riskScore < followUpThreshold {
		words = probingWords
	}

	templates := make([]string, 0, len(domain.FollowUpTemplates))
	for _, template := range domain.FollowUpTemplates {
		if containsAny(strings.ToLower(template), words) {
			templates = append(templates, template)
		}
	}
	if len(templates) == 0 {
		templates = domain.FollowUpTemplates
	}

	template := templates[s.rng.Intn(len(templates))]
	return strings.ReplaceAll(template, "{topic}", domain.Topic()), nil
}

// containsAny reports whether text contains at least one of the words.
func containsAny(text string, words []string) bool {
	for _, word := range words {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}
