package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/maltedev/listing-extractor/internal/resolver"
	"github.com/spf13/cobra"
)

// NewSitesCmd creates the sites command.
func NewSitesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sites",
		Short: "List the supported storefronts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DOMAIN\tCURRENCY\tLOCALE")
			for _, site := range resolver.Sites() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", site.Domain, site.Currency, site.Locale)
			}
			return w.Flush()
		},
	}
}
