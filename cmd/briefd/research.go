package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"
)

var researchJSON bool

func init() {
	researchCmd.Flags().BoolVar(&researchJSON, "json", false, "print the full result as JSON")
}

var researchCmd = &cobra.Command{
	Use:   "research <query>",
	Short: "Research a company and print the redacted briefing",
	Long: `Run one research query through the full loop and print the
redacted briefing document.

Examples:
  # Research a company
  briefd research "Acme Corporation, the manufacturer in Ohio"

  # Get the full structured result
  briefd research --json "Acme Corporation"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResearch,
}

func runResearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	assistant, _, err := buildAssistant(cfg, logger, nil)
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	out, err := assistant.Research(cmd.Context(), query)
	if err != nil {
		return err
	}

	if researchJSON {
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(out.BriefingContent)
	cmd.Printf("\n-- run %s: %d iteration(s), %d redaction match(es), steps: %s\n",
		out.RunID,
		out.Iterations,
		out.RedactionSummary.MatchesFound,
		formatSteps(out.ResearchSteps),
	)
	return nil
}

func formatSteps(steps []string) string {
	if len(steps) == 0 {
		return "(none)"
	}
	return strings.Join(steps, " -> ")
}
