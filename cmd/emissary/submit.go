package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/evergrid/emissary/internal/cli"
	"github.com/evergrid/emissary/internal/model"
	"github.com/evergrid/emissary/internal/pipeline"
)

func submitCmd() *cobra.Command {
	var (
		text      string
		file      string
		dir       string
		typeHint  string
		companyID string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a document for extraction and review",
		Long: `Submit raw document text (or files containing it) to the ingestion
pipeline. Each submission is classified, its fields extracted, emissions
computed, and the resulting record queued for review.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			actor := currentActor()
			hint := model.DocumentType(typeHint)

			switch {
			case text != "":
				item, err := app.pipeline.Submit(cmd.Context(), pipeline.SubmitRequest{
					RawText:    text,
					TypeHint:   hint,
					Source:     model.SourceText,
					UploadedBy: actor.Name,
					CompanyID:  companyID,
					Origin:     actor.Origin,
				})
				if err != nil {
					return err
				}
				printItem(item)
				return nil

			case file != "":
				content, err := os.ReadFile(file) // #nosec G304 -- user-supplied path
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", file, err)
				}
				item, err := app.pipeline.Submit(cmd.Context(), pipeline.SubmitRequest{
					RawText:    string(content),
					TypeHint:   hint,
					Source:     model.SourceUpload,
					Filename:   filepath.Base(file),
					UploadedBy: actor.Name,
					CompanyID:  companyID,
					Origin:     actor.Origin,
				})
				if err != nil {
					return err
				}
				printItem(item)
				return nil

			case dir != "":
				return submitDirectory(cmd, app, dir, hint, companyID)

			default:
				return fmt.Errorf("one of --text, --file, or --dir is required")
			}
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "raw document text to ingest")
	cmd.Flags().StringVar(&file, "file", "", "path to a text file to ingest")
	cmd.Flags().StringVar(&dir, "dir", "", "directory of text files to ingest as a batch")
	cmd.Flags().StringVar(&typeHint, "type", "", "optional document type hint")
	cmd.Flags().StringVar(&companyID, "company", "", "company the documents belong to")

	return cmd
}

func submitDirectory(cmd *cobra.Command, app *app, dir string, hint model.DocumentType, companyID string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".txt") || strings.HasSuffix(name, ".text") {
			files = append(files, name)
		}
	}
	if len(files) == 0 {
		fmt.Println("no text files found")
		return nil
	}

	actor := currentActor()
	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription("Ingesting documents"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	var queued, failed int
	for _, name := range files {
		content, err := os.ReadFile(filepath.Join(dir, name)) // #nosec G304 -- user-supplied path
		if err != nil {
			fmt.Println(cli.ErrorStyle.Render(fmt.Sprintf("✗ %s: %v", name, err)))
			failed++
			_ = bar.Add(1)
			continue
		}

		if _, err := app.pipeline.Submit(cmd.Context(), pipeline.SubmitRequest{
			RawText:    string(content),
			TypeHint:   hint,
			Source:     model.SourceBatch,
			Filename:   name,
			UploadedBy: actor.Name,
			CompanyID:  companyID,
			Origin:     actor.Origin,
		}); err != nil {
			fmt.Println(cli.ErrorStyle.Render(fmt.Sprintf("✗ %s: %v", name, err)))
			failed++
		} else {
			queued++
		}
		_ = bar.Add(1)
	}

	fmt.Printf("%d queued, %d failed\n", queued, failed)
	return nil
}
