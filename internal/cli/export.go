package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"secsentry/internal/report"
	"secsentry/types"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <report.json>",
	Short: "Convert a JSON assessment report to a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]
		data, err := os.ReadFile(input)
		if err != nil {
			return fmt.Errorf("failed to read report %s: %w", input, err)
		}

		var r types.Report
		if err := json.Unmarshal(data, &r); err != nil {
			return fmt.Errorf("failed to parse report %s: %w", input, err)
		}

		output := exportOutput
		if output == "" {
			output = strings.TrimSuffix(input, ".json") + ".xlsx"
		}

		if err := report.WriteXLSX(&r, output); err != nil {
			return err
		}

		fmt.Printf("💾 Spreadsheet written to %s\n", output)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "path for the spreadsheet (default: input name with .xlsx)")
	rootCmd.AddCommand(exportCmd)
}
