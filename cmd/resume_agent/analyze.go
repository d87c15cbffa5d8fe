package main

import (
	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score how well a resume fits a job posting",
	Long: `Compares a resume with a job description: keyword overlap is computed locally and a
model returns a match score, matching and missing skills, and recommendations.
Nothing is rendered.`,
	RunE: runAnalyze,
}

var (
	analyzeConfigPath string
	analyzeResume     string
	analyzeJob        string
	analyzeJobURL     string
	analyzeProvider   string
	analyzeVerbose    bool
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	analyzeCmd.Flags().StringVarP(&analyzeResume, "resume", "r", "", "Path to resume file (.pdf, .docx, .txt)")
	analyzeCmd.Flags().StringVarP(&analyzeJob, "job", "j", "", "Path to job description text file (mutually exclusive with --job-url)")
	analyzeCmd.Flags().StringVar(&analyzeJobURL, "job-url", "", "URL to scrape the job description from (mutually exclusive with --job)")
	analyzeCmd.Flags().StringVar(&analyzeProvider, "provider", "", "Generation provider: gemini or anthropic")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print detailed debug information")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(analyzeConfigPath, func(c *config.Config) {
		flags := cmd.Flags()
		if flags.Changed("resume") {
			c.Resume = analyzeResume
		}
		if flags.Changed("job") {
			c.Job = analyzeJob
		}
		if flags.Changed("job-url") {
			c.JobURL = analyzeJobURL
		}
		if flags.Changed("provider") {
			c.Provider = analyzeProvider
		}
		if flags.Changed("verbose") {
			c.Verbose = analyzeVerbose
		}
	})
	if err != nil {
		return err
	}

	req, err := buildRequest(cfg, pipeline.ModeAnalyze)
	if err != nil {
		return err
	}
	return execute(cmd.OutOrStdout(), cfg, req, true)
}
