package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/voyant/internal/cli"
	"github.com/aretw0/voyant/pkg/planner"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the interactive travel search wizard",
	Long:  `Starts the five-step wizard, submits the search to the planning service, and follows the plan run until your itinerary is ready.`,
	Run: func(cmd *cobra.Command, args []string) {
		serverURL, _ := cmd.Flags().GetString("server")
		interval, _ := cmd.Flags().GetDuration("interval")
		headless, _ := cmd.Flags().GetBool("headless")
		noBanner, _ := cmd.Flags().GetBool("no-banner")
		debug, _ := cmd.Flags().GetBool("debug")

		err := cli.Run(cli.RunOptions{
			ServerURL: serverURL,
			Interval:  interval,
			Headless:  headless,
			NoBanner:  noBanner,
			Debug:     debug,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Duration("interval", planner.DefaultInterval, "Poll interval while the plan is processing")
	runCmd.Flags().Bool("headless", false, "Exit after the first completed search (for scripting)")
	runCmd.Flags().Bool("no-banner", false, "Skip the startup banner")
	runCmd.Flags().Bool("debug", false, "Enable debug logging to stderr")
}
