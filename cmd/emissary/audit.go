package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evergrid/emissary/internal/cli"
)

func auditCmd() *cobra.Command {
	var (
		targetID string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the audit trail, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			entries, err := app.storage.ListAuditEntries(cmd.Context(), targetID, limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("no audit entries")
				return nil
			}

			fmt.Println(cli.TitleStyle.Render("Audit trail"))
			for _, e := range entries {
				line := fmt.Sprintf("%s  %-14s %-12s %s", e.Timestamp.Format("2006-01-02 15:04:05"), e.Action, e.Actor, e.TargetID)
				if e.BatchRef != "" {
					line += "  batch=" + e.BatchRef
				}
				fmt.Println(line)
				if e.Details != "" {
					fmt.Println(cli.SubtleStyle.Render("    " + e.Details))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&targetID, "item", "", "only entries for this item id")
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum entries to return")

	return cmd
}
