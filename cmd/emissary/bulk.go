package main

import (
	"github.com/spf13/cobra"
)

func bulkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Apply an operation to many items at once",
		Long: `Bulk operations evaluate every id independently and report a per-item
outcome. One bad id never blocks the rest of the batch. Every applied
change is audited with a shared batch reference.`,
	}

	cmd.AddCommand(bulkApproveCmd())
	cmd.AddCommand(bulkDeleteCmd())

	return cmd
}

func bulkApproveCmd() *cobra.Command {
	var minConfidence float64

	cmd := &cobra.Command{
		Use:   "approve <id> [id...]",
		Short: "Approve multiple pending items",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			var gate *float64
			if cmd.Flags().Changed("min-confidence") {
				gate = &minConfidence
			}

			result, err := app.queue.BulkApprove(cmd.Context(), args, currentActor(), gate)
			if err != nil {
				return err
			}
			printBulkResult(result)
			return nil
		},
	}

	cmd.Flags().Float64Var(&minConfidence, "min-confidence", 0, "skip items below this confidence")

	return cmd
}

func bulkDeleteCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "delete <id> [id...]",
		Short: "Delete multiple reviewed items",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.queue.BulkDelete(cmd.Context(), args, currentActor(), reason)
			if err != nil {
				return err
			}
			printBulkResult(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "shared reason recorded for every delete")

	return cmd
}
