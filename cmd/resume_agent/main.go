// Package main provides the resume_agent CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_agent",
	Short: "Resume tailoring CLI and HTTP API server",
	Long: `resume_agent rewrites a resume for a specific job posting, writes matching cover letters,
and scores how well a resume fits a job. Job descriptions can be pasted or scraped from a URL.

Configuration is layered: --config file values are overridden by flags, and anything left
unset falls back to environment variables and then built-in defaults.`,
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
