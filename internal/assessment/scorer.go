package assessment

import (
	"context"
	"fmt"
	"strings"

	"secsentry/internal/embedding"
	"secsentry/internal/errors"
	"secsentry/types"
)

// negationWeight is applied to risk indicators phrased as an absence
// ("no ...", "lack of ..."): matching one of those is a stronger signal.
const negationWeight = 1.5

// Scorer computes a blended risk score for an answer: alignment with the
// domain's best practices pushes the score up, similarity to its risk
// indicators pushes it down.
type Scorer struct {
	catalog  *Catalog
	provider embedding.Provider
}

// NewScorer creates a scorer over the given catalog.
func NewScorer(catalog *Catalog, provider embedding.Provider) *Scorer {
	return &Scorer{
		catalog:  catalog,
		provider: provider,
	}
}

// Score returns the risk score, the threshold-relative risk level and a
// deterministic reasoning string for an answer within a domain. Higher
// scores mean lower risk.
func (s *Scorer) Score(ctx context.Context, domainName, answer string) (float64, types.RiskLevel, string, error) {
	domain, ok := s.catalog.Get(domainName)
	if !ok {
		return 0, 0, "", errors.NewUnknownDomainError(domainName)
	}

	answerEmbedding, err := s.provider.Embed(ctx, answer)
	if err != nil {
		return 0, 0, "", err
	}

	practiceEmbeddings, err := s.provider.EmbedBatch(ctx, domain.BestPractices)
	if err != nil {
		return 0, 0, "", err
	}
	var practiceSum float64
	for _, practiceEmbedding := range practiceEmbeddings {
		practiceSum += embedding.Dot(answerEmbedding, practiceEmbedding)
	}
	bestPracticesScore := practiceSum / float64(len(practiceEmbeddings))

	indicatorEmbeddings, err := s.provider.EmbedBatch(ctx, domain.RiskIndicators)
	if err != nil {
		return 0, 0, "", err
	}
	var weightedSum, weightTotal float64
	for i, indicatorEmbedding := range indicatorEmbeddings {
		weight := indicatorWeight(domain.RiskIndicators[i])
		weightedSum += embedding.Dot(answerEmbedding, indicatorEmbedding) * weight
		weightTotal += weight
	}
	weightedRiskScore := weightedSum / weightTotal

	riskScore := (bestPracticesScore + (1 - weightedRiskScore)) / 2
	level := levelForThreshold(riskScore, s.catalog.Threshold(domainName))

	reasoning := fmt.Sprintf("Domain: %s\nAlignment with best practices: %.2f\nPresence of risk indicators: %.2f",
		domainName, bestPracticesScore, weightedRiskScore)

	return riskScore, level, reasoning, nil
}

// indicatorWeight returns the aggregation weight for a risk indicator.
func indicatorWeight(indicator string) float64 {
	lower := strings.ToLower(indicator)
	if strings.Contains(lower, "no") || strings.Contains(lower, "lack") {
		return negationWeight
	}
	return 1.0
}

// levelForThreshold maps a risk score to a level relative to the domain's
// threshold T: >=T Low, >=T-0.2 Medium, >=T-0.4 High, else Critical.
func levelForThreshold(score, threshold float64) types.RiskLevel {
	switch {
	case score >= threshold:
		return types.RiskLow
	case score >= threshold-0.2:
		return types.RiskMedium
	case score >= threshold-0.4:
		return types.RiskHigh
	default:
		return types.RiskCritical
	}
}
