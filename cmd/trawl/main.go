package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "trawl",
	Short: "trawl - import workflows from GA4GH Tool Registry Servers",
	Long:  `trawl browses GA4GH Tool Registry Servers (Dockstore, WorkflowHub, custom) and imports workflow versions into a Galaxy instance.`,
	// No RunE - defaults to showing help when no subcommand is provided
}

var (
	galaxyURL string
	galaxyKey string
	configDir string
)

func init() {
	defaultGalaxy := os.Getenv("GALAXY_URL")
	if defaultGalaxy == "" {
		defaultGalaxy = "http://127.0.0.1:8080"
	}

	rootCmd.PersistentFlags().StringVar(&galaxyURL, "galaxy", defaultGalaxy, "Galaxy instance URL")
	rootCmd.PersistentFlags().StringVar(&galaxyKey, "api-key", os.Getenv("GALAXY_API_KEY"), "Galaxy API key")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", defaultConfigDir(), "Directory for config and history")

	// Add subcommands
	rootCmd.AddCommand(toolCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(serversCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(tuiCmd)
}

func defaultConfigDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".trawl")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
