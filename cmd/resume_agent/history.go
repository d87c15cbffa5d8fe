package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/spf13/cobra"
)

var (
	historyDatabase string
	runsLimit       int
	runsID          string
	purgeMaxAge     time.Duration
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded generation runs",
	Long:  `Shows the most recent runs recorded in PostgreSQL, or one run with --id.`,
	RunE:  runRuns,
}

var purgeCacheCmd = &cobra.Command{
	Use:   "purge-cache",
	Short: "Delete stale scrape cache entries",
	RunE:  runPurgeCache,
}

func init() {
	for _, c := range []*cobra.Command{runsCmd, purgeCacheCmd} {
		c.Flags().StringVar(&historyDatabase, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
		rootCmd.AddCommand(c)
	}
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Number of runs to show")
	runsCmd.Flags().StringVar(&runsID, "id", "", "Show a single run")
	purgeCacheCmd.Flags().DurationVar(&purgeMaxAge, "max-age", 24*time.Hour, "Remove entries scraped longer ago than this")
}

// openDatabase connects and migrates, failing when no URL is configured.
func openDatabase(ctx context.Context) (*db.DB, error) {
	url := historyDatabase
	if url == "" {
		url = config.FromEnv().DatabaseURL
	}
	if url == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}

	database, err := db.Connect(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

func runRuns(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	database, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	out := cmd.OutOrStdout()
	if runsID != "" {
		id, err := uuid.Parse(runsID)
		if err != nil {
			return fmt.Errorf("invalid run id: %w", err)
		}
		run, err := database.GetRun(ctx, id)
		if err != nil {
			return err
		}
		if run == nil {
			return fmt.Errorf("run %s not found", id)
		}
		writeRun(out, *run, true)
		return nil
	}

	runs, err := database.ListRecentRuns(ctx, runsLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		_, _ = fmt.Fprintln(out, "No runs recorded.")
	}
	for _, run := range runs {
		writeRun(out, run, false)
	}
	return nil
}

// writeRun prints a one-line summary, plus failure and document details when detailed.
func writeRun(out io.Writer, run db.Run, detailed bool) {
	line := fmt.Sprintf("%s  %-12s %-9s %s", run.StartedAt.Format(time.RFC3339), run.Mode, run.Status, run.ID)
	if run.JobURL != nil {
		line += "  " + *run.JobURL
	}
	_, _ = fmt.Fprintln(out, line)
	if !detailed {
		return
	}
	if run.ErrorKind != nil {
		msg := ""
		if run.ErrorMessage != nil {
			msg = *run.ErrorMessage
		}
		_, _ = fmt.Fprintf(out, "  error: %s: %s\n", *run.ErrorKind, msg)
	}
	if len(run.Documents) > 0 {
		_, _ = fmt.Fprintf(out, "  documents: %s\n", strings.Join(run.Documents, ", "))
	}
	if run.CompletedAt != nil {
		_, _ = fmt.Fprintf(out, "  duration: %s\n", run.CompletedAt.Sub(run.StartedAt).Round(time.Millisecond))
	}
}

func runPurgeCache(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	database, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	removed, err := database.PurgeExtractions(ctx, purgeMaxAge)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached extraction(s)\n", removed)
	return nil
}
