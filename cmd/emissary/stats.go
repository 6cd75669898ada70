package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/evergrid/emissary/internal/cli"
	"github.com/evergrid/emissary/internal/model"
)

func statsCmd() *cobra.Command {
	var (
		sinceStr string
		untilStr string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate emission and queue statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			since, err := parseDateFlag(sinceStr)
			if err != nil {
				return err
			}
			until, err := parseDateFlag(untilStr)
			if err != nil {
				return err
			}

			summary, err := app.queue.Summary(cmd.Context(), since, until)
			if err != nil {
				return err
			}

			fmt.Println(cli.TitleStyle.Render("Emission summary"))
			fmt.Printf("total: %.2f kg CO2e\n\n", summary.TotalCO2eKg)

			if len(summary.ByCategory) > 0 {
				fmt.Println(cli.BoldStyle.Render("By document type"))
				types := make([]model.DocumentType, 0, len(summary.ByCategory))
				for t := range summary.ByCategory {
					types = append(types, t)
				}
				sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
				for _, t := range types {
					cat := summary.ByCategory[t]
					fmt.Printf("  %-24s %4d items  %10.2f kg\n", t, cat.Count, cat.CO2eKg)
				}
				fmt.Println()
			}

			if len(summary.ByScope) > 0 {
				fmt.Println(cli.BoldStyle.Render("By GHG scope"))
				scopes := make([]model.Scope, 0, len(summary.ByScope))
				for s := range summary.ByScope {
					scopes = append(scopes, s)
				}
				sort.Slice(scopes, func(i, j int) bool { return scopes[i] < scopes[j] })
				for _, s := range scopes {
					fmt.Printf("  scope %d  %10.2f kg\n", s, summary.ByScope[s])
				}
				fmt.Println()
			}

			if len(summary.ByStatus) > 0 {
				fmt.Println(cli.BoldStyle.Render("By status"))
				statuses := make([]model.Status, 0, len(summary.ByStatus))
				for s := range summary.ByStatus {
					statuses = append(statuses, s)
				}
				sort.Slice(statuses, func(i, j int) bool { return statuses[i] < statuses[j] })
				for _, s := range statuses {
					fmt.Printf("  %-24s %4d\n", cli.StatusStyle(string(s)).Render(string(s)), summary.ByStatus[s])
				}
				fmt.Println()
			}

			fmt.Printf("auto-approve rate: %.1f%%\n", summary.AutoApproveRate*100)
			return nil
		},
	}

	cmd.Flags().StringVar(&sinceStr, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&untilStr, "until", "", "end date (YYYY-MM-DD)")

	return cmd
}

func parseDateFlag(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", value, err)
	}
	return &t, nil
}
