package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"secsentry/types"
)

func sampleReport() *types.Report {
	return &types.Report{
		AssessmentSummary: &types.RiskAssessment{
			OverallRiskScore: 0.725,
			DomainScores: map[string]types.DomainScore{
				"network_security": {Score: 0.9, RiskLevel: "Low"},
				"data_protection":  {Score: 0.55, RiskLevel: "High"},
			},
			Timestamp: time.Now(),
		},
		ConversationHistory: []*types.SecurityResponse{
			{
				Question:  "How is your network protected?",
				Answer:    "We deploy firewalls at every boundary.",
				Domain:    "network_security",
				RiskScore: 0.9,
				RiskLevel: types.RiskLow,
				Timestamp: time.Now(),
				Reasoning: "Domain: network_security\nAlignment with best practices: 0.90\nPresence of risk indicators: 0.10",
			},
			{
				Question:        "How is data stored?",
				Answer:          "We have not rolled out encryption yet.",
				Domain:          "data_protection",
				RiskScore:       0.55,
				RiskLevel:       types.RiskMedium,
				Timestamp:       time.Now(),
				Recommendations: []string{"Consider implementing: Encrypt sensitive data at rest"},
			},
		},
		Recommendations: map[string][]string{
			"data_protection": {"Consider implementing: Encrypt sensitive data at rest"},
		},
		Timestamp: time.Now(),
	}
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")

	require.NoError(t, WriteJSON(sampleReport(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded types.Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.InDelta(t, 0.725, decoded.AssessmentSummary.OverallRiskScore, 1e-9)
	require.Len(t, decoded.ConversationHistory, 2)
	assert.Equal(t, types.RiskLow, decoded.ConversationHistory[0].RiskLevel)
	assert.Equal(t, "data_protection", decoded.ConversationHistory[1].Domain)
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	require.NoError(t, WriteXLSX(sampleReport(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Question", header)

	domain, err := f.GetCellValue(sheetName, "C2")
	require.NoError(t, err)
	assert.Equal(t, "network_security", domain)

	level, err := f.GetCellValue(sheetName, "D3")
	require.NoError(t, err)
	assert.Equal(t, "Medium", level)

	recommendation, err := f.GetCellValue(sheetName, "G3")
	require.NoError(t, err)
	assert.Contains(t, recommendation, "Encrypt sensitive data at rest")

	summaryLabel, err := f.GetCellValue(sheetName, "A5")
	require.NoError(t, err)
	assert.Equal(t, "Overall Risk Score", summaryLabel)
}
