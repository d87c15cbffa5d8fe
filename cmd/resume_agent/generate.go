package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/rendering"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Tailor a resume to a job posting",
	Long: `Rewrites a resume for one job and renders it as a PDF, optionally with a cover letter.

The job description comes from a text file (--job) or is scraped from a URL (--job-url).
If the posting cannot be scraped, paste its text into a file and pass --job instead.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runGenerate,
}

var (
	genConfigPath      string
	genResume          string
	genJob             string
	genJobURL          string
	genName            string
	genCompany         string
	genTone            string
	genProvider        string
	genAPIKey          string
	genOutputDir       string
	genCoverLetter     bool
	genCoverLetterOnly bool
	genPlainText       bool
	genUseBrowser      bool
	genVerbose         bool
)

func init() {
	// Config file flag (processed first)
	generateCmd.Flags().StringVar(&genConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	generateCmd.Flags().StringVarP(&genResume, "resume", "r", "", "Path to resume file (.pdf, .docx, .txt)")
	generateCmd.Flags().StringVarP(&genJob, "job", "j", "", "Path to job description text file (mutually exclusive with --job-url)")
	generateCmd.Flags().StringVar(&genJobURL, "job-url", "", "URL to scrape the job description from (mutually exclusive with --job)")
	generateCmd.Flags().StringVarP(&genName, "name", "n", "", "Candidate name used in output filenames")
	generateCmd.Flags().StringVarP(&genCompany, "company", "c", "", "Company name for the cover letter")
	generateCmd.Flags().StringVar(&genTone, "tone", "", "Cover letter tone, e.g. professional, enthusiastic")
	generateCmd.Flags().BoolVar(&genCoverLetter, "cover-letter", false, "Also write a cover letter")
	generateCmd.Flags().BoolVar(&genCoverLetterOnly, "cover-letter-only", false, "Write only a cover letter")
	generateCmd.Flags().BoolVar(&genPlainText, "txt", false, "Write plain text documents instead of PDFs")
	generateCmd.Flags().StringVarP(&genOutputDir, "output-dir", "o", "", "Directory documents are written to")
	generateCmd.Flags().StringVar(&genProvider, "provider", "", "Generation provider: gemini or anthropic")
	generateCmd.Flags().BoolVar(&genUseBrowser, "use-browser", false, "Retry short job pages in headless Chrome (requires Chrome)")
	generateCmd.Flags().BoolVarP(&genVerbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from GEMINI_API_KEY / ANTHROPIC_API_KEY
	generateCmd.Flags().StringVar(&genAPIKey, "api-key", "", "Provider API key (optional, defaults to the provider's env var)")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(genConfigPath, func(c *config.Config) {
		flags := cmd.Flags()
		if flags.Changed("resume") {
			c.Resume = genResume
		}
		if flags.Changed("job") {
			c.Job = genJob
		}
		if flags.Changed("job-url") {
			c.JobURL = genJobURL
		}
		if flags.Changed("name") {
			c.Name = genName
		}
		if flags.Changed("company") {
			c.Company = genCompany
		}
		if flags.Changed("tone") {
			c.Tone = genTone
		}
		if flags.Changed("provider") {
			c.Provider = genProvider
		}
		if flags.Changed("api-key") {
			c.APIKey = genAPIKey
		}
		if flags.Changed("output-dir") {
			c.OutputDir = genOutputDir
		}
		if flags.Changed("use-browser") {
			c.UseBrowser = genUseBrowser
		}
		if flags.Changed("verbose") {
			c.Verbose = genVerbose
		}
	})
	if err != nil {
		return err
	}

	mode := pipeline.ModeTailor
	if genCoverLetterOnly {
		mode = pipeline.ModeCoverLetter
	}
	req, err := buildRequest(cfg, mode)
	if err != nil {
		return err
	}
	req.IncludeCoverLetter = genCoverLetter && mode == pipeline.ModeTailor

	return execute(cmd.OutOrStdout(), cfg, req, genPlainText)
}

// buildRequest checks the required inputs and loads the resume and job text.
func buildRequest(cfg config.Config, mode pipeline.Mode) (pipeline.Request, error) {
	if cfg.Resume == "" {
		return pipeline.Request{}, fmt.Errorf("--resume is required (via flag or config)")
	}
	if cfg.Job == "" && cfg.JobURL == "" {
		return pipeline.Request{}, fmt.Errorf("either --job or --job-url must be provided (via flag or config)")
	}
	if !ingestion.IsSupported(cfg.Resume) {
		return pipeline.Request{}, fmt.Errorf("unsupported resume type %q: use .pdf, .docx or .txt", filepath.Ext(cfg.Resume))
	}

	data, err := os.ReadFile(cfg.Resume)
	if err != nil {
		return pipeline.Request{}, fmt.Errorf("failed to read resume: %w", err)
	}
	doc := ingestion.NewSourceDocument(filepath.Base(cfg.Resume), data)

	req := pipeline.Request{
		Mode:        mode,
		ResumeFile:  &doc,
		JobURL:      cfg.JobURL,
		Name:        cfg.Name,
		CompanyName: cfg.Company,
		Tone:        cfg.Tone,
	}
	if cfg.Job != "" {
		if req.JobDescription, err = readJobFile(cfg.Job); err != nil {
			return pipeline.Request{}, err
		}
	}
	return req, nil
}

// execute runs one request through a freshly wired pipeline and prints the outcome.
func execute(out io.Writer, cfg config.Config, req pipeline.Request, plainText bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	svc, err := buildServices(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer svc.Close()

	if cfg.Verbose {
		req.OnProgress = func(e pipeline.ProgressEvent) {
			log.Printf("[%s] %s", e.Stage, e.Message)
		}
	}

	result := svc.newOrchestrator(cfg, plainText).Run(ctx, req)
	return report(out, &result, cfg.Verbose)
}

// report prints a run result and turns failure into a command error.
func report(out io.Writer, result *pipeline.Result, verbose bool) error {
	printer := observability.NewPrinter(out)
	if verbose && result.Resume != nil && result.Resume.Content != "" {
		printer.PrintSections(rendering.ParseSections(result.Resume.Content))
	}
	printer.PrintFitAnalysis(result.Analysis, result.Keywords)
	printer.PrintRunResult(result)

	if !result.Success {
		return fmt.Errorf("%s: %s", result.ErrorKind, result.Message)
	}
	return nil
}
