package assessment

import (
	"math/rand"

	"secsentry/types"
)

// rotationTurnLimit is the number of consecutive turns in one domain before
// the conversation rotates to another.
const rotationTurnLimit = 2

// RotationPolicy decides when and to which domain the conversation moves.
// The very first domain of a session comes from classification, not from
// rotation.
type RotationPolicy struct {
	catalog *Catalog
	rng     *rand.Rand
}

// NewRotationPolicy creates a rotation policy over the given catalog.
func NewRotationPolicy(catalog *Catalog, rng *rand.Rand) *RotationPolicy {
	return &RotationPolicy{
		catalog: catalog,
		rng:     rng,
	}
}

// ShouldRotate reports whether a domain's turn counter has reached the
// rotation limit.
func (p *RotationPolicy) ShouldRotate(turnCount int) bool {
	return turnCount >= rotationTurnLimit
}

// NextDomain picks the new active domain. Domains used in the most recent
// `window` history entries and the current domain are excluded; if nothing
// remains, the full catalog is eligible again, so rotation may legitimately
// re-select the current domain when there is no better option.
func (p *RotationPolicy) NextDomain(current string, history []*types.SecurityResponse, window int) string {
	recent := make(map[string]struct{}, window)
	start := len(history) - window
	if start < 0 {
		start = 0
	}
	for _, response := range history[start:] {
		recent[response.Domain] = struct{}{}
	}

	candidates := make([]string, 0, p.catalog.Len())
	for _, name := range p.catalog.Names() {
		if name == current {
			continue
		}
		if _, used := recent[name]; used {
			continue
		}
		candidates = append(candidates, name)
	}
	if len(candidates) == 0 {
		candidates = p.catalog.Names()
	}

	return candidates[p.rng.Intn(len(candidates))]
}
