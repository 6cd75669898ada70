package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evergrid/emissary/internal/cli"
	"github.com/evergrid/emissary/internal/model"
	"github.com/evergrid/emissary/internal/service"
)

func queueCmd() *cobra.Command {
	var (
		status        string
		docType       string
		companyID     string
		minConfidence float64
		maxConfidence float64
		limit         int
		offset        int
	)

	cmd := &cobra.Command{
		Use:   "queue",
		Short: "List items in the review queue",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			filter := service.ListFilter{
				CompanyID: companyID,
				Limit:     limit,
				Offset:    offset,
			}
			if status != "" {
				s := model.Status(status)
				filter.Status = &s
			}
			if docType != "" {
				d := model.DocumentType(docType)
				filter.DocumentType = &d
			}
			if cmd.Flags().Changed("min-confidence") {
				filter.MinConfidence = &minConfidence
			}
			if cmd.Flags().Changed("max-confidence") {
				filter.MaxConfidence = &maxConfidence
			}

			items, err := app.queue.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Println("queue is empty")
				return nil
			}

			fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Review queue (%d items)", len(items))))
			for i := range items {
				printItem(&items[i])
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().StringVar(&docType, "type", "", "filter by document type")
	cmd.Flags().StringVar(&companyID, "company", "", "filter by company")
	cmd.Flags().Float64Var(&minConfidence, "min-confidence", 0, "minimum confidence")
	cmd.Flags().Float64Var(&maxConfidence, "max-confidence", 1, "maximum confidence")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum items to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "pagination offset")

	return cmd
}
