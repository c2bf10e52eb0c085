package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// NewExtractCmd creates the extract command.
func NewExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [product-url]",
		Short: "Extract a single product page and print the record as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runExtractCmd,
	}
	cmd.Flags().StringP("market", "m", "US", "Target market recorded on the product")
	return cmd
}

func runExtractCmd(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	market, _ := cmd.Flags().GetString("market")

	product, err := a.service.Extract(cmd.Context(), args[0], market)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(product)
}
