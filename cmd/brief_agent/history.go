package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/briefing-monitor/internal/config"
	"github.com/jonathan/briefing-monitor/internal/db"
	"github.com/jonathan/briefing-monitor/internal/observability"
)

var historyCommand = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show recent runs from the ledger",
	Long: `Without arguments, lists recent runs newest first. With a run id, prints one stored
artifact of that run (--artifact) or deletes the run and its artifacts (--delete).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

var (
	historyDatabaseURL string
	historyVariant     string
	historyStatus      string
	historyLimit       int
	historyArtifact    string
	historyDelete      bool
)

func init() {
	historyCommand.Flags().StringVar(&historyDatabaseURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	historyCommand.Flags().StringVar(&historyVariant, "variant", "", "Only show runs of this variant")
	historyCommand.Flags().StringVar(&historyStatus, "status", "", "Only show runs with this status")
	historyCommand.Flags().IntVarP(&historyLimit, "limit", "n", config.HistoryPageSize(), "Maximum number of runs to list")
	historyCommand.Flags().StringVar(&historyArtifact, "artifact", db.ArtifactSynthesis, "Artifact kind to print for a run: prompt, synthesis, html, text")
	historyCommand.Flags().BoolVar(&historyDelete, "delete", false, "Delete the given run")

	rootCmd.AddCommand(historyCommand)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if historyDelete && len(args) == 0 {
		return fmt.Errorf("--delete needs a run id")
	}
	if err := validateArtifactKind(historyArtifact); err != nil {
		return err
	}

	databaseURL, err := databaseURLFrom(historyDatabaseURL, os.Getenv)
	if err != nil {
		return err
	}
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if len(args) == 0 {
		runs, err := database.ListBriefRuns(ctx, db.RunFilters{
			Variant: historyVariant,
			Status:  historyStatus,
			Limit:   historyLimit,
		})
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			_, _ = fmt.Fprintln(os.Stdout, "No runs recorded.")
			return nil
		}
		observability.NewPrinter(os.Stdout).PrintRuns(runs)
		return nil
	}

	runID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", args[0], err)
	}

	if historyDelete {
		if err := database.DeleteBriefRun(ctx, runID); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(os.Stdout, "Deleted run %s\n", runID)
		return nil
	}

	run, err := database.GetBriefRun(ctx, runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run not found: %s", runID)
	}
	artifact, err := database.GetBriefArtifact(ctx, runID, historyArtifact)
	if err != nil {
		return err
	}
	if artifact == nil {
		return fmt.Errorf("run %s (%s) has no %s artifact", runID, run.Status, historyArtifact)
	}
	_, _ = fmt.Fprintln(os.Stdout, artifact.Content)
	return nil
}

func validateArtifactKind(kind string) error {
	switch kind {
	case db.ArtifactPrompt, db.ArtifactSynthesis, db.ArtifactHTML, db.ArtifactText:
		return nil
	default:
		return fmt.Errorf("unknown artifact kind %q (want prompt, synthesis, html or text)", kind)
	}
}
