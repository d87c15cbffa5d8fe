package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/server"
	"github.com/spf13/cobra"
)

var (
	serveConfigPath string
	servePort       int
	serveOutputDir  string
	serveProvider   string
	serveDatabase   string
	serveUseBrowser bool
	serveVerbose    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the tailoring, generation, cover letter, analysis and
job extraction endpoints, plus downloads of rendered documents.

The server starts without an API key; generation endpoints then answer 503.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on (defaults to PORT env var or 8080)")
	serveCmd.Flags().StringVarP(&serveOutputDir, "output-dir", "o", "", "Directory rendered documents are written to")
	serveCmd.Flags().StringVar(&serveProvider, "provider", "", "Generation provider: gemini or anthropic")
	serveCmd.Flags().StringVar(&serveDatabase, "db-url", "", "PostgreSQL connection URL for the scrape cache (optional, defaults to DATABASE_URL env var)")
	serveCmd.Flags().BoolVar(&serveUseBrowser, "use-browser", false, "Retry short job pages in headless Chrome")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Print detailed debug information")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := resolveConfig(serveConfigPath, func(c *config.Config) {
		if cmd.Flags().Changed("port") {
			c.Addr = ":" + strconv.Itoa(servePort)
		}
		if cmd.Flags().Changed("output-dir") {
			c.OutputDir = serveOutputDir
		}
		if cmd.Flags().Changed("provider") {
			c.Provider = serveProvider
		}
		if cmd.Flags().Changed("db-url") {
			c.DatabaseURL = serveDatabase
		}
		if cmd.Flags().Changed("use-browser") {
			c.UseBrowser = serveUseBrowser
		}
		if cmd.Flags().Changed("verbose") {
			c.Verbose = serveVerbose
		}
	})
	if err != nil {
		return err
	}

	svc, err := buildServices(ctx, cfg, false)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Addr:       cfg.Addr,
		OutputDir:  cfg.OutputDir,
		Runner:     svc.newOrchestrator(cfg, false),
		Extractor:  svc.extractor,
		OnShutdown: []func(){svc.Close},
	})
	if err != nil {
		svc.Close()
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
