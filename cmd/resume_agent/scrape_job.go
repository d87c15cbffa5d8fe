package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/scraping"
	"github.com/spf13/cobra"
)

var (
	scrapeConfigPath string
	scrapeURL        string
	scrapeOutDir     string
	scrapeUseBrowser bool
	scrapeDatabase   string
	scrapeVerbose    bool
)

var scrapeJobCmd = &cobra.Command{
	Use:   "scrape-job",
	Short: "Extract a job description from a posting URL",
	Long: `Fetches a job posting, extracts the description with the site-specific strategy
(LinkedIn, Indeed, Glassdoor) or the generic fallback, and prints the result.

With --out the text is written to job_posting.cleaned.txt and job_posting.meta.json.
Successful results are cached in PostgreSQL when a database URL is configured.`,
	RunE: runScrapeJob,
}

func init() {
	scrapeJobCmd.Flags().StringVar(&scrapeConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	scrapeJobCmd.Flags().StringVarP(&scrapeURL, "url", "u", "", "Job posting URL")
	scrapeJobCmd.Flags().StringVar(&scrapeOutDir, "out", "", "Output directory for the extracted text")
	scrapeJobCmd.Flags().BoolVar(&scrapeUseBrowser, "use-browser", false, "Retry short pages in headless Chrome (requires Chrome)")
	scrapeJobCmd.Flags().StringVar(&scrapeDatabase, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	scrapeJobCmd.Flags().BoolVarP(&scrapeVerbose, "verbose", "v", false, "Print detailed debug information")
	_ = scrapeJobCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(scrapeJobCmd)
}

func runScrapeJob(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := resolveConfig(scrapeConfigPath, func(c *config.Config) {
		c.JobURL = scrapeURL
		if cmd.Flags().Changed("use-browser") {
			c.UseBrowser = scrapeUseBrowser
		}
		if cmd.Flags().Changed("db-url") {
			c.DatabaseURL = scrapeDatabase
		}
		if cmd.Flags().Changed("verbose") {
			c.Verbose = scrapeVerbose
		}
		c.Job = ""
	})
	if err != nil {
		return err
	}

	database := connectDatabase(ctx, cfg)
	if database != nil {
		defer database.Close()
	}

	return scrapeJob(ctx, cmd.OutOrStdout(), newExtractor(cfg, database), cfg.JobURL, scrapeOutDir)
}

// scrapeJob runs one extraction, prints it and optionally writes it to outDir.
func scrapeJob(ctx context.Context, out io.Writer, extractor scraping.Extractor, url, outDir string) error {
	result := extractor.ExtractJobDescription(ctx, url)
	observability.NewPrinter(out).PrintExtraction(result)

	if !result.Success {
		return fmt.Errorf("job extraction failed: %s", result.Diagnostic)
	}
	if outDir == "" {
		return nil
	}

	metadata := ingestion.NewMetadata(result.Text, result.SourceURLUsed)
	if strategy, ok := scraping.DefaultRegistry().Lookup(result.SourceURLUsed); ok {
		metadata.Site = strategy.Name
	}
	metadata.Strategy = result.Strategy
	metadata.Diagnostic = string(result.Diagnostic)
	if err := ingestion.WriteOutput(outDir, "job_posting", result.Text, metadata); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Wrote %s\n", filepath.Join(outDir, "job_posting.cleaned.txt"))
	return nil
}

// readJobFile loads a pasted job description from disk.
func readJobFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read job file: %w", err)
	}
	return string(data), nil
}
