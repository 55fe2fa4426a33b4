package cli

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"secsentry/internal/assessment"
	"secsentry/internal/report"
	"secsentry/types"
)

var interviewOutput string

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run an interactive assessment in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		catalog, err := buildCatalog(cfg)
		if err != nil {
			return err
		}

		provider, err := buildProvider(cfg)
		if err != nil {
			return err
		}

		manager := assessment.NewManager(catalog, provider)
		scanner := bufio.NewScanner(os.Stdin)

		fmt.Println("🛡️  SecSentry security assessment")
		fmt.Println("Answer each question in a sentence or two. Type 'exit' to finish.")

		question := cfg.FirstQuestion
		for {
			fmt.Printf("\n❓ %s\n> ", question)
			if !scanner.Scan() {
				break
			}
			answer := strings.TrimSpace(scanner.Text())

			if strings.EqualFold(answer, "exit") {
				break
			}
			if answer == "" {
				fmt.Println("Please provide an answer, or type 'exit' to finish.")
				continue
			}
			if len(strings.Fields(answer)) < 2 {
				fmt.Println("Please provide a more detailed answer (at least a few words).")
				continue
			}

			result, err := manager.ProcessTurn(cmd.Context(), question, answer)
			if err != nil {
				fmt.Printf("⚠️  Could not process that answer: %v\n", err)
				continue
			}

			response := result.Response
			fmt.Printf("\n📋 Domain: %s (confidence %.2f)\n", response.Domain, result.DomainConfidence)
			fmt.Printf("📊 Risk: %s (score %.2f)\n", response.RiskLevel, response.RiskScore)
			if len(response.Recommendations) > 0 {
				fmt.Println("💡 Recommendations:")
				for _, recommendation := range response.Recommendations {
					fmt.Printf("   - %s\n", recommendation)
				}
			}

			question = result.NextQuestion
		}

		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		if manager.TurnCount() == 0 {
			fmt.Println("\nNo answers recorded, nothing to report.")
			return nil
		}

		finalReport := manager.GenerateReport()
		printSummary(finalReport)

		path := interviewOutput
		if path == "" {
			path = fmt.Sprintf("security_assessment_report_%s.json", time.Now().Format("20060102_150405"))
		}
		if err := report.WriteJSON(finalReport, path); err != nil {
			return err
		}
		fmt.Printf("\n💾 Report saved to %s\n", path)
		return nil
	},
}

// printSummary prints the aggregate and the leading recommendations per
// domain.
func printSummary(r *types.Report) {
	fmt.Println("\n============ Assessment Summary ============")
	fmt.Printf("Overall risk score: %.2f\n", r.AssessmentSummary.OverallRiskScore)

	domains := make([]string, 0, len(r.AssessmentSummary.DomainScores))
	for domain := range r.AssessmentSummary.DomainScores {
		domains = append(domains, domain)
	}
	sort.Strings(domains)

	for _, domain := range domains {
		score := r.AssessmentSummary.DomainScores[domain]
		fmt.Printf("  %-25s %.2f (%s)\n", domain, score.Score, score.RiskLevel)
	}

	for _, domain := range domains {
		recommendations := r.Recommendations[domain]
		if len(recommendations) == 0 {
			continue
		}
		if len(recommendations) > 3 {
			recommendations = recommendations[:3]
		}
		fmt.Printf("\nTop recommendations for %s:\n", domain)
		for _, recommendation := range recommendations {
			fmt.Printf("  - %s\n", recommendation)
		}
	}
}

func init() {
	interviewCmd.Flags().StringVarP(&interviewOutput, "output", "o", "", "path for the JSON report (default: timestamped file)")
	rootCmd.AddCommand(interviewCmd)
}
