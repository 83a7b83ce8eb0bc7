package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/fiscus-ingest/internal/api/client"
)

func tasksCmd() *cobra.Command {
	tasksRoot := &cobra.Command{
		Use:   "tasks",
		Short: "Inspect and manage scrape tasks",
		Long: "Every scrape request creates a task in the ledger. A task moves from\n" +
			"pending through started and progress to completed, failed or cancelled.",
	}

	tasksRoot.AddCommand(
		tasksListCmd(),
		tasksGetCmd(),
		tasksCancelCmd(),
		tasksDeleteCmd(),
	)

	return tasksRoot
}

func tasksListCmd() *cobra.Command {
	var params apiclient.ListTasksParams

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, newest first",
		Example: `  fiscus-ingest tasks list
  fiscus-ingest tasks list --status failed --limit 20
  fiscus-ingest tasks list --kind scrape_store --store-id 3 --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := newClient().ListTasks(cmd.Context(), &params)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), resp)
			}
			if len(resp.Tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks found.")
				return nil
			}
			if err := printTaskTable(cmd.OutOrStdout(), resp.Tasks); err != nil {
				return err
			}
			if resp.Total > len(resp.Tasks) {
				fmt.Fprintf(cmd.OutOrStdout(), "\nShowing %d of %d tasks.\n", len(resp.Tasks), resp.Total)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&params.Status, "status", "",
		"filter by status (pending, started, progress, completed, failed, cancelled)")
	cmd.Flags().StringVar(&params.Kind, "kind", "",
		"filter by kind (scrape_item, scrape_store, scrape_all, scrape_category)")
	cmd.Flags().Int64Var(&params.StoreID, "store-id", 0, "filter by store")
	cmd.Flags().IntVar(&params.Limit, "limit", 0, "maximum tasks to return")
	cmd.Flags().IntVar(&params.Offset, "offset", 0, "tasks to skip")

	return cmd
}

func tasksGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <task_id>",
		Short:   "Show one task",
		Args:    cobra.ExactArgs(1),
		Example: `  fiscus-ingest tasks get 5b0e6a0e-3f5c-4a53-9b7e-0d3c1f1d2a11`,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := newClient().GetTask(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), t)
			}
			return printTaskDetail(cmd.OutOrStdout(), t)
		},
	}
}

func tasksCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <task_id>",
		Short: "Cancel a pending or running task",
		Long: "Marks the task cancelled. Jobs already running finish their current\n" +
			"page; queued jobs of the task are skipped.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := newClient().CancelTask(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), t)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %s cancelled.\n", t.TaskID)
			return nil
		},
	}
}

func tasksDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task_id>",
		Short: "Delete a completed task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newClient().DeleteTask(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %s deleted.\n", args[0])
			return nil
		},
	}
}
