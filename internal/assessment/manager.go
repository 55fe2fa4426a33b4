package assessment

import (
	"context"
	"math/rand"
	"time"

	"secsentry/internal/embedding"
	"secsentry/types"
)

// Aggregate risk cutoffs for per-domain mean scores. These are global
// constants, deliberately distinct from the per-domain threshold-relative
// cutoffs used for individual turns.
const (
	aggregateLowCutoff    = 0.8
	aggregateMediumCutoff = 0.6
	aggregateHighCutoff   = 0.4
)

// Manager orchestrates one assessment conversation: it classifies each
// turn, scores it, collects recommendations, selects the next question and
// applies the rotation policy. One Manager owns one session's state; it is
// not safe for concurrent use.
type Manager struct {
	catalog     *Catalog
	classifier  *Classifier
	scorer      *Scorer
	recommender *Recommender
	selector    *FollowUpSelector
	rotation    *RotationPolicy

	history        []*types.SecurityResponse
	riskScores     map[string][]float64
	questionCounts map[string]int
	activeDomain   string
}

// Option configures a Manager.
type Option func(*managerOptions)

type managerOptions struct {
	rng *rand.Rand
}

// WithRand injects the randomness source used for follow-up selection and
// domain rotation. Tests pass a fixed seed for deterministic selection.
func WithRand(rng *rand.Rand) Option {
	return func(o *managerOptions) {
		o.rng = rng
	}
}

// NewManager creates a conversation manager for one assessment session.
func NewManager(catalog *Catalog, provider embedding.Provider, opts ...Option) *Manager {
	options := &managerOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.rng == nil {
		options.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	counts := make(map[string]int, catalog.Len())
	for _, name := range catalog.Names() {
		counts[name] = 0
	}

	return &Manager{
		catalog:        catalog,
		classifier:     NewClassifier(catalog, provider),
		scorer:         NewScorer(catalog, provider),
		recommender:    NewRecommender(catalog, provider),
		selector:       NewFollowUpSelector(catalog, options.rng),
		rotation:       NewRotationPolicy(catalog, options.rng),
		history:        make([]*types.SecurityResponse, 0),
		riskScores:     make(map[string][]float64),
		questionCounts: counts,
	}
}

// ProcessTurn processes one question/answer pair: classify, score,
// recommend, record, rotate and select the next question. Embedding
// failures propagate untouched and leave the conversation state unchanged.
func (m *Manager) ProcessTurn(ctx context.Context, question, answer string) (*types.TurnResult, error) {
	domainName, confidence, err := m.classifier.Classify(ctx, question, answer)
	if err != nil {
		return nil, err
	}

	riskScore, riskLevel, reasoning, err := m.scorer.Score(ctx, domainName, answer)
	if err != nil {
		return nil, err
	}

	recommendations, err := m.recommender.Recommend(ctx, domainName, answer)
	if err != nil {
		return nil, err
	}

	response := &types.SecurityResponse{
		Question:        question,
		Answer:          answer,
		Domain:          domainName,
		RiskScore:       riskScore,
		RiskLevel:       riskLevel,
		Timestamp:       time.Now(),
		Recommendations: recommendations,
		Reasoning:       reasoning,
	}
	m.history = append(m.history, response)
	m.riskScores[domainName] = append(m.riskScores[domainName], riskScore)
	m.questionCounts[domainName]++

	nextDomain := domainName
	if m.rotation.ShouldRotate(m.questionCounts[domainName]) {
		nextDomain = m.rotation.NextDomain(domainName, m.history, m.questionCounts[domainName])
		m.questionCounts[nextDomain] = 0
	}
	m.activeDomain = nextDomain

	nextQuestion, err := m.selector.Select(nextDomain, riskScore)
	if err != nil {
		return nil, err
	}

	return &types.TurnResult{
		Response:         response,
		NextQuestion:     nextQuestion,
		NextDomain:       nextDomain,
		DomainConfidence: confidence,
		RiskAssessment:   m.Assessment(),
	}, nil
}

// Assessment computes the running aggregate: the mean score per touched
// domain mapped to a level by the global cutoffs, and the overall score as
// the mean of the per-domain means.
func (m *Manager) Assessment() *types.RiskAssessment {
	assessment := &types.RiskAssessment{
		DomainScores: make(map[string]types.DomainScore, len(m.riskScores)),
		Timestamp:    time.Now(),
	}
	if len(m.riskScores) == 0 {
		return assessment
	}

	var total float64
	for domainName, scores := range m.riskScores {
		var sum float64
		for _, score := range scores {
			sum += score
		}
		mean := sum / float64(len(scores))
		assessment.DomainScores[domainName] = types.DomainScore{
			Score:     mean,
			RiskLevel: aggregateLevel(mean).String(),
		}
		total += mean
	}
	assessment.OverallRiskScore = total / float64(len(m.riskScores))

	return assessment
}

// aggregateLevel maps a mean domain score to a level using the fixed global
// cutoffs.
func aggregateLevel(score float64) types.RiskLevel {
	switch {
	case score >= aggregateLowCutoff:
		return types.RiskLow
	case score >= aggregateMediumCutoff:
		return types.RiskMedium
	case score >= aggregateHighCutoff:
		return types.RiskHigh
	default:
		return types.RiskCritical
	}
}

// GenerateReport builds the end-of-session report: full history, the
// aggregate assessment and per-domain recommendations with duplicates
// removed in first-seen order.
func (m *Manager) GenerateReport() *types.Report {
	history := make([]*types.SecurityResponse, len(m.history))
	copy(history, m.history)

	return &types.Report{
		AssessmentSummary:   m.Assessment(),
		ConversationHistory: history,
		Recommendations:     m.compileRecommendations(),
		Timestamp:           time.Now(),
	}
}

// compileRecommendations groups recommendations by domain, dropping
// duplicates while preserving first-occurrence order.
func (m *Manager) compileRecommendations() map[string][]string {
	compiled := make(map[string][]string)
	seen := make(map[string]map[string]struct{})

	for _, response := range m.history {
		if _, ok := seen[response.Domain]; !ok {
			seen[response.Domain] = make(map[string]struct{})
			compiled[response.Domain] = make([]string, 0)
		}
		for _, recommendation := range response.Recommendations {
			if _, dup := seen[response.Domain][recommendation]; dup {
				continue
			}
			seen[response.Domain][recommendation] = struct{}{}
			compiled[response.Domain] = append(compiled[response.Domain], recommendation)
		}
	}

	return compiled
}

// History returns the append-ordered conversation history.
func (m *Manager) History() []*types.SecurityResponse {
	return m.history
}

// ActiveDomain returns the domain the next question targets. Empty until
// the first turn has been processed.
func (m *Manager) ActiveDomain() string {
	return m.activeDomain
}

// Catalog returns the catalog this session runs against.
func (m *Manager) Catalog() *Catalog {
	return m.catalog
}

// TurnCount returns the number of processed turns.
func (m *Manager) TurnCount() int {
	return len(m.history)
}
