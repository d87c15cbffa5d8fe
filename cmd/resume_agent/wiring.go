package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/fetch"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/rendering"
	"github.com/jonathan/resume-tailor/internal/scraping"
)

// resolveConfig layers configuration: the --config file first, then flag
// overrides applied by the caller, then the environment, then built-in defaults.
func resolveConfig(path string, applyFlags func(*config.Config)) (config.Config, error) {
	var cfg config.Config
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	if applyFlags != nil {
		applyFlags(&cfg)
	}

	// The env key is picked after the provider is known.
	env := config.FromEnv()
	env.APIKey = ""
	cfg = cfg.MergeWithDefaults(env)
	cfg = cfg.MergeWithDefaults(config.Defaults())
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(config.APIKeyEnv(cfg.Provider))
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	if cfg.Verbose && path != "" {
		log.Printf("[config] loaded %s", path)
	}
	return cfg, nil
}

// services holds the collaborators built from a resolved Config.
type services struct {
	database  *db.DB
	client    llm.Client
	extractor scraping.Extractor
	generator *llm.Generator
}

// Close releases the database pool and provider client.
func (s *services) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			log.Printf("[llm] close failed: %v", err)
		}
	}
	if s.database != nil {
		s.database.Close()
	}
}

// connectDatabase opens and migrates the optional scrape cache. A failure is
// logged and the command continues without persistence.
func connectDatabase(ctx context.Context, cfg config.Config) *db.DB {
	if cfg.DatabaseURL == "" {
		return nil
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Printf("[db] continuing without database: %v", err)
		return nil
	}
	if err := database.Migrate(ctx); err != nil {
		log.Printf("[db] continuing without database: %v", err)
		database.Close()
		return nil
	}
	return database
}

// scraperOptions maps configuration onto scraping options.
func scraperOptions(cfg config.Config) scraping.Options {
	opts := scraping.DefaultOptions()
	opts.Timeout = cfg.FetchTimeout()
	opts.PoliteDelay = cfg.PoliteDelay()
	opts.MinLength = cfg.MinJobDescriptionLength
	opts.UseBrowser = cfg.UseBrowser
	opts.Browser = fetch.BrowserOptions{
		Timeout:    cfg.FetchTimeout(),
		ChromePath: cfg.ChromePath,
		Verbose:    cfg.Verbose,
	}
	opts.Verbose = cfg.Verbose
	return opts
}

// newExtractor builds the scraper, wrapped in the persistent cache when a
// database is available.
func newExtractor(cfg config.Config, database *db.DB) scraping.Extractor {
	var store scraping.Store
	if database != nil {
		store = database
	}
	cached := scraping.NewCachedScraper(scraping.New(nil, scraperOptions(cfg)), store, cfg.CacheTTL())
	cached.Verbose = cfg.Verbose
	return cached
}

// llmConfig returns the provider model table with an optional model override
// applied to every tier.
func llmConfig(cfg config.Config) *llm.Config {
	lc := llm.ConfigForProvider(cfg.Provider)
	if cfg.Model != "" {
		for _, tier := range []llm.ModelTier{llm.TierLite, llm.TierStandard, llm.TierAdvanced} {
			lc = lc.WithModel(tier, cfg.Model)
		}
	}
	return lc
}

// buildServices connects everything a command may need. Without an API key
// the generator reports ServiceUnavailable instead of failing startup, unless
// requireKey is set.
func buildServices(ctx context.Context, cfg config.Config, requireKey bool) (*services, error) {
	if requireKey && cfg.APIKey == "" {
		return nil, fmt.Errorf("%s environment variable or --api-key flag is required", config.APIKeyEnv(cfg.Provider))
	}

	s := &services{database: connectDatabase(ctx, cfg)}
	s.extractor = newExtractor(cfg, s.database)

	lc := llmConfig(cfg)
	if cfg.APIKey != "" {
		client, err := llm.NewClient(ctx, lc, cfg.APIKey)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to create %s client: %w", cfg.Provider, err)
		}
		s.client = client
	} else {
		log.Printf("[llm] %s is not set; generation requests will be rejected", config.APIKeyEnv(cfg.Provider))
	}
	s.generator = llm.NewGenerator(s.client, lc, cfg.GenerationTimeout(), cfg.Verbose)
	return s, nil
}

// newOrchestrator assembles the pipeline. With textOnly the PDF renderer is
// skipped and documents go straight to plain text.
func (s *services) newOrchestrator(cfg config.Config, textOnly bool) *pipeline.Orchestrator {
	deps := pipeline.Dependencies{
		Extractor: s.extractor,
		Generator: s.generator,
		Fallback:  rendering.NewTextRenderer(cfg.OutputDir),
	}
	if !textOnly {
		deps.Renderer = rendering.NewPDFRenderer(rendering.NewChromeEngine(cfg.ChromePath), cfg.OutputDir, cfg.Verbose)
	}
	if s.database != nil {
		deps.Recorder = s.database
	}

	return pipeline.New(deps, pipeline.Options{
		MinJobDescriptionLength: cfg.MinJobDescriptionLength,
		MinResumeLength:         cfg.MinResumeLength,
		Verbose:                 cfg.Verbose,
	})
}
