package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/fiscus-ingest/internal/api/client"
)

func compareCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "compare <query>",
		Short: "Compare current prices of a product across stores",
		Long: "Matches products whose normalized name contains the normalized query\n" +
			"and lists one row per store, cheapest first.",
		Args: cobra.ExactArgs(1),
		Example: `  fiscus-ingest compare "гречка 800г"
  fiscus-ingest compare молоко --limit 10 --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmp, err := newClient().ComparePrices(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), cmp)
			}
			if len(cmp.Rows) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No prices found for %q.\n", args[0])
				return nil
			}
			return printComparison(cmd.OutOrStdout(), cmp)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows to return")

	return cmd
}

func promotionsCmd() *cobra.Command {
	var params apiclient.PromotionsParams

	cmd := &cobra.Command{
		Use:   "promotions <store_id>",
		Short: "List recent price drops in a store",
		Args:  cobra.ExactArgs(1),
		Example: `  fiscus-ingest promotions 3
  fiscus-ingest promotions 3 --window-days 14 --min-drop 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			promos, err := newClient().Promotions(cmd.Context(), id, &params)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), promos)
			}
			if len(promos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No promotions found.")
				return nil
			}
			return printPromotions(cmd.OutOrStdout(), promos)
		},
	}

	cmd.Flags().IntVar(&params.WindowDays, "window-days", 0, "days of history to inspect (server default 30)")
	cmd.Flags().Float64Var(&params.MinDrop, "min-drop", 0, "minimum drop in percent (server default 10)")
	cmd.Flags().IntVar(&params.Limit, "limit", 0, "maximum promotions to return")

	return cmd
}
