package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evergrid/emissary/internal/model"
)

func approveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <id>",
		Short: "Approve a pending item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			item, err := app.queue.Approve(cmd.Context(), args[0], currentActor())
			if err != nil {
				return err
			}
			printItem(item)
			return nil
		},
	}
}

func rejectCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "reject <id>",
		Short: "Reject a pending item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			item, err := app.queue.Reject(cmd.Context(), args[0], currentActor(), reason)
			if err != nil {
				return err
			}
			printItem(item)
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "why the item is rejected (required)")
	_ = cmd.MarkFlagRequired("reason")

	return cmd
}

func deleteCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a reviewed item (the audit trail survives)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			item, err := app.queue.Delete(cmd.Context(), args[0], currentActor(), reason)
			if err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", item.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "why the item is deleted")

	return cmd
}

func editCmd() *cobra.Command {
	var docType string

	cmd := &cobra.Command{
		Use:   "edit <id> field=value [field=value...]",
		Short: "Manually correct extracted fields and recompute emissions",
		Long: `Replace an item's extraction with manually corrected fields. The
emission record is recomputed and the item returns to pending review with
full confidence. Only items in needs_manual_extraction or pending can be
edited.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			id := args[0]
			fields, err := parseFieldArgs(args[1:])
			if err != nil {
				return err
			}

			target := docType
			if target == "" {
				item, err := app.queue.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				target = string(item.DocumentType)
			}

			item, err := app.pipeline.Reextract(cmd.Context(), id, model.DocumentType(target), fields, currentActor())
			if err != nil {
				return err
			}
			printItem(item)
			return nil
		},
	}

	cmd.Flags().StringVar(&docType, "type", "", "corrected document type (defaults to the item's current type)")

	return cmd
}
