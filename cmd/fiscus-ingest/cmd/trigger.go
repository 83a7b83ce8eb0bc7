package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	domain "github.com/donaldgifford/fiscus-ingest/pkg/types"
)

func triggerCmd() *cobra.Command {
	triggerRoot := &cobra.Command{
		Use:   "trigger",
		Short: "Queue scrape tasks on the server",
		Long: "Queues work for the server's workers and returns at once with the\n" +
			"pending task. Follow it with 'fiscus-ingest tasks get <task_id>'.",
	}

	triggerRoot.AddCommand(
		triggerStoreCmd(),
		triggerAllCmd(),
		triggerCategoryCmd(),
		triggerItemCmd(),
	)

	return triggerRoot
}

func triggerStoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "store <store_id>",
		Short:   "Re-scrape every item of one store",
		Args:    cobra.ExactArgs(1),
		Example: `  fiscus-ingest trigger store 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			t, err := newClient().TriggerStore(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printQueued(cmd, t)
		},
	}
}

func triggerAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Re-scrape every item of every active store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := newClient().TriggerAll(cmd.Context())
			if err != nil {
				return err
			}
			return printQueued(cmd, t)
		},
	}
}

func triggerCategoryCmd() *cobra.Command {
	var storeName string

	cmd := &cobra.Command{
		Use:   "category <url>",
		Short: "Ingest one category listing page for a store",
		Args:  cobra.ExactArgs(1),
		Example: `  fiscus-ingest trigger category https://www.atbmarket.com/catalog/287-bakaliia --store ATB-Kyiv-1
  fiscus-ingest trigger category https://silpo.ua/category/krupy-5 --store Silpo-Kyiv-3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := newClient().TriggerCategory(cmd.Context(), args[0], storeName)
			if err != nil {
				return err
			}
			return printQueued(cmd, t)
		},
	}

	cmd.Flags().StringVar(&storeName, "store", "", "name of the store to ingest into (required)")
	cobra.CheckErr(cmd.MarkFlagRequired("store"))

	return cmd
}

func triggerItemCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "item <item_id>",
		Short: "Re-scrape one store item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			t, err := newClient().TriggerItem(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printQueued(cmd, t)
		},
	}
}

func printQueued(cmd *cobra.Command, t *domain.TaskLog) error {
	if jsonOutput() {
		return outputJSON(cmd.OutOrStdout(), t)
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "Queued task %s (%s): %s\n", t.TaskID, t.Kind, t.Name)
	return err
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", s)
	}
	return id, nil
}
