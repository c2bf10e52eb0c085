package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listing-extractor",
		Short: "Extract structured product records from marketplace product pages",
		Long: `listing-extractor fetches a marketplace product page and recovers a best-effort
record: title, description, price, rating, review count, images, category and keywords.

It runs as an HTTP service (serve) or one-shot from the command line (extract, batch).
Configuration is read from config.yaml and LISTING_* environment variables.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Path to a config file")
	cmd.PersistentFlags().String("log-level", "", "Override logging.level (debug, info, warn, error)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewExtractCmd())
	cmd.AddCommand(NewBatchCmd())
	cmd.AddCommand(NewSitesCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
