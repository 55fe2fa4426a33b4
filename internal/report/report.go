// Package report renders finished assessment reports to files: JSON for
// machine consumers and XLSX for reviewers.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"secsentry/internal/errors"
	"secsentry/types"
)

const sheetName = "Assessment"

// Row fill colors by risk level. Critical shares the High fill with a
// stronger font color applied separately.
var levelFills = map[string]string{
	"Low":      "D5E8D4",
	"Medium":   "FFEBB5",
	"High":     "FFCCCC",
	"Critical": "FFCCCC",
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(report *types.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return errors.NewInternalError("failed to marshal report", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewInternalError(fmt.Sprintf("failed to write report to %s", path), err)
	}
	return nil
}

// WriteXLSX writes the report as a spreadsheet: one row per conversation
// turn, colored by risk level, followed by a per-domain summary block.
func WriteXLSX(report *types.Report, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return errors.NewInternalError("failed to create report sheet", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return errors.NewInternalError("failed to remove default sheet", err)
	}

	headers := []string{"Question", "Answer", "Domain", "Risk Level", "Risk Score", "Reasoning", "Recommendations"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return errors.NewInternalError("failed to write report header", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDDDDD"}, Pattern: 1},
	})
	if err != nil {
		return errors.NewInternalError("failed to create header style", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", "G1", headerStyle); err != nil {
		return errors.NewInternalError("failed to apply header style", err)
	}

	levelStyles := make(map[string]int, len(levelFills))
	for level, fill := range levelFills {
		style, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{fill}, Pattern: 1},
		})
		if err != nil {
			return errors.NewInternalError("failed to create risk level style", err)
		}
		levelStyles[level] = style
	}

	for i, response := range report.ConversationHistory {
		row := i + 2
		values := []interface{}{
			response.Question,
			response.Answer,
			response.Domain,
			response.RiskLevel.String(),
			response.RiskScore,
			response.Reasoning,
			strings.Join(response.Recommendations, "\n"),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return errors.NewInternalError("failed to write report row", err)
			}
		}

		if style, ok := levelStyles[response.RiskLevel.String()]; ok {
			first, _ := excelize.CoordinatesToCellName(1, row)
			last, _ := excelize.CoordinatesToCellName(len(values), row)
			if err := f.SetCellStyle(sheetName, first, last, style); err != nil {
				return errors.NewInternalError("failed to apply risk level style", err)
			}
		}
	}

	if err := writeSummary(f, report, len(report.ConversationHistory)+3); err != nil {
		return err
	}

	if err := f.SetColWidth(sheetName, "A", "B", 45); err != nil {
		return errors.NewInternalError("failed to size report columns", err)
	}
	if err := f.SetColWidth(sheetName, "F", "G", 50); err != nil {
		return errors.NewInternalError("failed to size report columns", err)
	}

	if err := f.SaveAs(path); err != nil {
		return errors.NewInternalError(fmt.Sprintf("failed to save report to %s", path), err)
	}
	return nil
}

// writeSummary appends the aggregate block below the turn rows.
func writeSummary(f *excelize.File, report *types.Report, startRow int) error {
	set := func(col, row int, value interface{}) error {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		return f.SetCellValue(sheetName, cell, value)
	}

	if err := set(1, startRow, "Overall Risk Score"); err != nil {
		return errors.NewInternalError("failed to write report summary", err)
	}
	if report.AssessmentSummary != nil {
		if err := set(2, startRow, report.AssessmentSummary.OverallRiskScore); err != nil {
			return errors.NewInternalError("failed to write report summary", err)
		}

		row := startRow + 1
		for domain, score := range report.AssessmentSummary.DomainScores {
			if err := set(1, row, domain); err != nil {
				return errors.NewInternalError("failed to write report summary", err)
			}
			if err := set(2, row, score.Score); err != nil {
				return errors.NewInternalError("failed to write report summary", err)
			}
			if err := set(3, row, score.RiskLevel); err != nil {
				return errors.NewInternalError("failed to write report summary", err)
			}
			row++
		}
	}

	return nil
}
