package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/voyant/internal/cli"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the development planning service",
	Long: `Starts a local planning service implementing the plan-run API the wizard
polls. Itineraries are synthesized deterministically, with optional YAML
fixtures to pin or fail specific routes.`,
	Run: func(cmd *cobra.Command, args []string) {
		addr, _ := cmd.Flags().GetString("addr")
		redisURL, _ := cmd.Flags().GetString("redis")
		redisTTL, _ := cmd.Flags().GetDuration("redis-ttl")
		stepDelay, _ := cmd.Flags().GetDuration("step-delay")
		fixtures, _ := cmd.Flags().GetString("fixtures")
		storeKey, _ := cmd.Flags().GetString("store-key")
		maskKeys, _ := cmd.Flags().GetStringSlice("mask-keys")
		debug, _ := cmd.Flags().GetBool("debug")

		err := cli.Serve(cli.ServeOptions{
			Addr:      addr,
			RedisURL:  redisURL,
			RedisTTL:  redisTTL,
			StepDelay: stepDelay,
			Fixtures:  fixtures,
			StoreKey:  storeKey,
			MaskKeys:  maskKeys,
			Debug:     debug,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8000", "Address to listen on")
	serveCmd.Flags().String("redis", "", "Redis URL for a shared plan store (e.g. redis://localhost:6379/0)")
	serveCmd.Flags().Duration("redis-ttl", 0, "Expiration for stored plan runs (0 keeps them forever)")
	serveCmd.Flags().Duration("step-delay", 2*time.Second, "Pause between plan steps")
	serveCmd.Flags().String("fixtures", "fixtures.yaml", "Path to route fixtures")
	serveCmd.Flags().String("store-key", "", "Hex-encoded 32-byte key to encrypt stored plan runs")
	serveCmd.Flags().StringSlice("mask-keys", nil, "Regex patterns for output keys to mask before storage")
	serveCmd.Flags().Bool("debug", false, "Enable debug logging to stderr")
}
