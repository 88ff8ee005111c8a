package main

import (
	"github.com/spf13/cobra"
)

var capabilitiesCmd = &cobra.Command{
	Use:   "capabilities",
	Short: "List registered agents and tools",
	Long: `Print the capability catalogues the research loop chooses from:
the agent registry and the tool registry.`,
	RunE: runCapabilities,
}

func runCapabilities(cmd *cobra.Command, _ []string) error {
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

	cmd.Println("Agents")
	cmd.Println("======")
	cmd.Println(assistant.Agents().Catalogue())
	cmd.Println("Tools")
	cmd.Println("=====")
	cmd.Println(assistant.Tools().Catalogue())
	return nil
}
