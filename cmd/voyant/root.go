package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "voyant",
	Short: "Voyant is a terminal travel search wizard",
	Long:  `Voyant walks you through a flight and accommodation search step by step, submits it to a planning service, and renders the resulting itinerary.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("server", "http://localhost:8000", "Base URL of the planning service")
}
