package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/evergrid/emissary/internal/calc"
	"github.com/evergrid/emissary/internal/cli"
	"github.com/evergrid/emissary/internal/extract"
	"github.com/evergrid/emissary/internal/model"
	"github.com/evergrid/emissary/internal/pipeline"
	"github.com/evergrid/emissary/internal/policy"
	"github.com/evergrid/emissary/internal/queue"
	"github.com/evergrid/emissary/internal/registry"
	"github.com/evergrid/emissary/internal/service"
	"github.com/evergrid/emissary/internal/storage"
)

// app bundles the wired services a command needs.
type app struct {
	storage  service.Storage
	registry *registry.Registry
	queue    *queue.ReviewQueue
	pipeline *pipeline.Pipeline
}

func newApp() (*app, error) {
	store, err := openStorage()
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	reg, err := registry.NewWithBuiltins()
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	dispatcher := extract.NewDispatcher(reg, extract.NewPatternCollaborator(), extract.Config{
		MaxRetries: viper.GetInt("extract.max_retries"),
		RetryDelay: viper.GetDuration("extract.retry_delay"),
		Timeout:    viper.GetDuration("extract.timeout"),
	}, nil)

	reviewQueue := queue.New(store, nil)

	thresholds := policy.Thresholds{
		AutoApprove: viper.GetFloat64("review.auto_approve_threshold"),
		Version:     1,
	}

	return &app{
		storage:  store,
		registry: reg,
		queue:    reviewQueue,
		pipeline: pipeline.New(reg, dispatcher, calc.NewRegistry(), reviewQueue, extract.UnavailableOCR{}, thresholds, nil),
	}, nil
}

func (a *app) Close() {
	_ = a.storage.Close()
}

func openStorage() (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".local", "share", "emissary", "emissary.db")
	}
	return storage.NewSQLiteStorage(dbPath)
}

// currentActor builds the acting user from flags with full review
// capabilities. Capability resolution belongs to the surrounding deployment;
// the CLI is a trusted operator surface.
func currentActor() policy.Actor {
	name := viper.GetString("actor")
	if name == "" {
		name = os.Getenv("USER")
	}
	if name == "" {
		name = "cli"
	}
	return policy.Actor{
		Name:         name,
		Origin:       "cli",
		Capabilities: []policy.Capability{policy.CapApprove, policy.CapReject, policy.CapDelete},
	}
}

func printItem(item *model.QueueItem) {
	fmt.Printf("%s  %s\n", cli.BoldStyle.Render(item.ID), cli.StatusStyle(string(item.Status)).Render(string(item.Status)))
	fmt.Printf("  type:       %s\n", item.DocumentType)
	fmt.Printf("  confidence: %.2f (threshold %.2f)\n", item.Confidence(), item.ConfidenceThreshold)
	fmt.Printf("  co2e:       %.2f kg", item.Emission.CO2eKg)
	if scope := item.Emission.PrimaryScope(); scope > 0 {
		fmt.Printf("  (scope %d)", scope)
	}
	fmt.Println()
	if eq := item.Emission.Equivalents; eq.TreesNeeded > 0 {
		fmt.Printf("  equivalents: %.1f trees/yr, %.0f car km\n", eq.TreesNeeded, eq.CarKm)
	}
	if item.Extraction.PartialExtraction {
		fmt.Println(cli.WarningStyle.Render("  partial extraction: required fields missing"))
	}
	if item.Extraction.ExtractionError != "" {
		fmt.Println(cli.ErrorStyle.Render("  extraction error: " + item.Extraction.ExtractionError))
	}
}

func printBulkResult(result *service.BulkResult) {
	fmt.Printf("batch %s: %d applied, %d skipped, %d failed\n",
		result.BatchRef, result.Applied, result.Skipped, result.Failed)
	for _, r := range result.Results {
		switch {
		case r.Err != nil:
			fmt.Printf("  %s %s: %s\n", cli.ErrorStyle.Render("✗"), r.ID, r.Detail)
		case r.Skipped:
			fmt.Printf("  %s %s: %s\n", cli.SubtleStyle.Render("-"), r.ID, r.Detail)
		default:
			fmt.Printf("  %s %s\n", cli.SuccessStyle.Render("✓"), r.ID)
		}
	}
}

// parseFieldArgs turns k=v pairs into a typed field map. Numbers and bools
// are coerced; everything else stays a string.
func parseFieldArgs(args []string) (map[string]any, error) {
	fields := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid field %q, expected name=value", arg)
		}
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			fields[key] = n
		} else if b, err := strconv.ParseBool(value); err == nil {
			fields[key] = b
		} else {
			fields[key] = value
		}
	}
	return fields, nil
}
