package main

import (
	"fmt"

	"github.com/derpetermann/contact-zones/pkg/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration file helpers",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Args:  cobra.MaximumNArgs(1),
	Short: "Write a default config.yaml",
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configInitCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := "config.yaml"
	if len(args) == 1 {
		path = args[0]
	}

	cfg := config.DefaultConfig()
	if err := cfg.Save(path); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}

	fmt.Printf("wrote default configuration to %s\n", path)
	return nil
}
