package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leadpilot/leadpilot/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	RunE:  runConfigValidate,
}

func init() {
	configValidateCmd.Flags().StringVarP(&configFile, "config", "c", "/etc/leadpilot/leadpilot.yaml", "Path to configuration file")
	configCmd.AddCommand(configValidateCmd)
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	fmt.Println("Configuration is valid")
	fmt.Printf("  Listen address: %s\n", cfg.Server.ListenAddr)
	fmt.Printf("  TLS: %v\n", cfg.Server.TLS.Enabled)
	fmt.Printf("  Database path: %s\n", cfg.Database.Path)
	fmt.Printf("  Backend URL: %s\n", cfg.Backend.BaseURL)
	fmt.Printf("  DM poll interval: %s\n", cfg.Polling.DMInterval)
	fmt.Printf("  Job poll interval: %s\n", cfg.Polling.JobInterval)
	fmt.Printf("  Stuck threshold: %s\n", cfg.Polling.StuckThreshold)
	fmt.Printf("  Metrics: %v\n", cfg.Metrics.Enabled)
	if cfg.Metrics.Enabled {
		fmt.Printf("  Metrics address: %s\n", cfg.Metrics.ListenAddr)
	}

	return nil
}
