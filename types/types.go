package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// ============================================================================
// RISK LEVELS
// ============================================================================

// RiskLevel is the discrete severity assigned to a scored answer. Levels are
// ordered: a higher value means a more severe finding.
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
	RiskCritical
)

// riskLevelLabels maps each level to its report label.
var riskLevelLabels = map[RiskLevel]string{
	RiskLow:      "Low",
	RiskMedium:   "Medium",
	RiskHigh:     "High",
	RiskCritical: "Critical",
}

// String returns the report label for the level.
func (l RiskLevel) String() string {
	if label, ok := riskLevelLabels[l]; ok {
		return label
	}
	return "Unknown"
}

// DescribeRiskLevel returns a human-readable description for a level. Kept as
// a free function so the level type stays a plain ordered tag.
func DescribeRiskLevel(l RiskLevel) string {
	switch l {
	case RiskLow:
		return "Response aligns with established best practices"
	case RiskMedium:
		return "Response partially aligns with best practices"
	case RiskHigh:
		return "Response shows significant gaps against best practices"
	case RiskCritical:
		return "Response indicates critical exposure requiring immediate attention"
	default:
		return "Unknown risk level"
	}
}

// MarshalJSON serializes the level as its string label.
func (l RiskLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON parses a level from its string label.
func (l *RiskLevel) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	for level, name := range riskLevelLabels {
		if name == label {
			*l = level
			return nil
		}
	}
	return fmt.Errorf("unknown risk level: %q", label)
}

// ============================================================================
// DOMAIN CATALOG
// ============================================================================

// SecurityDomain describes one security topic area of the assessment catalog.
// Instances are immutable once loaded.
type SecurityDomain struct {
	Name              string   `json:"name"`
	Keywords          []string `json:"keywords"`
	BestPractices     []string `json:"best_practices"`
	RiskIndicators    []string `json:"risk_indicators"`
	FollowUpTemplates []string `json:"follow_up_templates"`
}

// Topic returns the domain's display name with underscores replaced by
// spaces, as substituted into follow-up templates.
func (d *SecurityDomain) Topic() string {
	topic := make([]rune, 0, len(d.Name))
	for _, r := range d.Name {
		if r == '_' {
			r = ' '
		}
		topic = append(topic, r)
	}
	return string(topic)
}

// ============================================================================
// CONVERSATION TURNS
// ============================================================================

// SecurityResponse records one processed conversation turn. It is created
// once by the conversation manager and never mutated afterwards.
type SecurityResponse struct {
	Question        string    `json:"question"`
	Answer          string    `json:"answer"`
	Domain          string    `json:"domain"`
	RiskScore       float64   `json:"risk_score"`
	RiskLevel       RiskLevel `json:"risk_level"`
	Timestamp       time.Time `json:"timestamp"`
	Recommendations []string  `json:"recommendations"`
	Reasoning       string    `json:"reasoning"`
}

// TurnResult is the combined outcome of processing one question/answer pair.
type TurnResult struct {
	Response         *SecurityResponse `json:"current_response"`
	NextQuestion     string            `json:"next_question"`
	NextDomain       string            `json:"next_domain"`
	DomainConfidence float64           `json:"domain_confidence"`
	RiskAssessment   *RiskAssessment   `json:"risk_assessment"`
}

// ============================================================================
// AGGREGATE ASSESSMENT & REPORT
// ============================================================================

// DomainScore is the running aggregate for a single domain.
type DomainScore struct {
	Score     float64 `json:"score"`
	RiskLevel string  `json:"risk_level"`
}

// RiskAssessment is the running aggregate across all domains touched so far.
type RiskAssessment struct {
	OverallRiskScore float64                `json:"overall_risk_score"`
	DomainScores     map[string]DomainScore `json:"domain_scores"`
	Timestamp        time.Time              `json:"timestamp"`
}

// Report is the end-of-session artifact: full history, the aggregate
// assessment and compiled per-domain recommendations.
type Report struct {
	AssessmentSummary   *RiskAssessment     `json:"assessment_summary"`
	ConversationHistory []*SecurityResponse `json:"conversation_history"`
	Recommendations     map[string][]string `json:"recommendations"`
	Timestamp           time.Time           `json:"timestamp"`
}
