package cmd

import (
	"github.com/spf13/cobra"

	"github.com/donaldgifford/fiscus-ingest/internal/scraper"
)

func storesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stores",
		Short: "List the supported retail chains",
		Long: "Lists every chain with a registered scraper, its home page and the\n" +
			"domains whose URLs it accepts.",
		Example: `  fiscus-ingest stores
  fiscus-ingest stores --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stores := scraper.Default().Describe()
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), stores)
			}
			return printStoresTable(cmd.OutOrStdout(), stores)
		},
	}
}
