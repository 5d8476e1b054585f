package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/voyant"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of voyant",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("voyant version %s\n", strings.TrimSpace(voyant.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
