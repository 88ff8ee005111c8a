package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/briefd/internal/redact"
)

var redactJSON bool

func init() {
	redactCmd.Flags().BoolVar(&redactJSON, "json", false, "print the full redaction result as JSON")
}

var redactCmd = &cobra.Command{
	Use:   "redact [file]",
	Short: "Redact sensitive information from a file or stdin",
	Long: `Run text through the redaction pipeline and print the result.

Examples:
  # Redact a file
  briefd redact notes.txt

  # Redact from stdin
  cat report.txt | briefd redact -

  # Get the structured result with match details
  briefd redact --json notes.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRedact,
}

func runRedact(cmd *cobra.Command, args []string) error {
	var (
		content []byte
		err     error
	)
	if len(args) == 0 || args[0] == "-" {
		content, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
	} else {
		content, err = os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
	}

	redactor := redact.New(nil)
	result := redactor.Redact(string(content), false)

	if redactJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Print(result.RedactedText)
	return nil
}
