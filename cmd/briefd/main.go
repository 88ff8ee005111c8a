// Package main implements the briefd CLI: autonomous company research
// briefings with mandatory redaction.
package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/briefd/internal/agents"
	"github.com/fyrsmithlabs/briefd/internal/config"
	"github.com/fyrsmithlabs/briefd/internal/llm"
	"github.com/fyrsmithlabs/briefd/internal/logging"
	"github.com/fyrsmithlabs/briefd/internal/orchestrator"
	"github.com/fyrsmithlabs/briefd/internal/redact"
)

var (
	// configPath is the --config flag value. Empty means defaults plus
	// environment variables only.
	configPath string
	// version information (set via ldflags during build)
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "briefd",
	Short: "Autonomous company research briefings",
	Long: `briefd researches a company through a bounded loop of pluggable
capabilities and produces an executive briefing. Every briefing passes
through a multi-pass redaction pipeline before it is returned.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(researchCmd)
	rootCmd.AddCommand(redactCmd)
	rootCmd.AddCommand(capabilitiesCmd)
}

// loadConfig resolves the effective configuration for a command run.
func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

// newLogger builds the process logger from config.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Logging)
}

// buildAssistant wires the full research stack: model client, company
// records, redaction pipeline, and the orchestrator over both.
func buildAssistant(cfg *config.Config, logger *zap.Logger, registerer prometheus.Registerer) (*orchestrator.Assistant, *redact.Redactor, error) {
	client, err := llm.NewOpenAIClient(cfg.Model)
	if err != nil {
		return nil, nil, err
	}

	var records []agents.CompanyRecord
	if cfg.Database.Path != "" {
		records, err = agents.LoadRecords(cfg.Database.Path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, nil, err
			}
			logger.Warn("company database not found, lookups will return no candidates",
				zap.String("path", cfg.Database.Path))
		}
	}

	redactor := redact.New(&redact.Config{Registerer: registerer})
	assistant, err := orchestrator.New(cfg.Research, client, redactor, records, logger)
	if err != nil {
		return nil, nil, err
	}
	return assistant, redactor, nil
}
