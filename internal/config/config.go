// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/resume-tailor/internal/fetch"
	"github.com/jonathan/resume-tailor/internal/llm"
)

// Supported generation providers.
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// Default values applied by Defaults and MergeWithDefaults.
const (
	DefaultOutputDir                = "output"
	DefaultGenerationTimeoutSeconds = int(llm.DefaultGenerationTimeout / time.Second)
	DefaultFetchTimeoutSeconds      = int(fetch.DefaultTimeout / time.Second)
	DefaultPoliteDelayMillis        = 1000
	DefaultMinJobDescriptionLength  = 50
	DefaultMinResumeLength          = 50
	DefaultCacheTTLHours            = 24
	DefaultServerAddr               = ":8080"
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Inputs
	Resume string `json:"resume,omitempty"`  // Path to resume file (.pdf, .docx, .txt)
	Job    string `json:"job,omitempty"`     // Path to job description text file
	JobURL string `json:"job_url,omitempty"` // URL to scrape the job description from

	// Candidate Info
	Name    string `json:"name,omitempty"`    // Candidate name used in output filenames
	Company string `json:"company,omitempty"` // Target company for cover letters
	Tone    string `json:"tone,omitempty"`    // Cover letter tone

	// Generation
	Provider                 string `json:"provider,omitempty"`                   // gemini or anthropic
	Model                    string `json:"model,omitempty"`                      // Explicit model override
	APIKey                   string `json:"api_key,omitempty"`                    // Provider API key
	GenerationTimeoutSeconds int    `json:"generation_timeout_seconds,omitempty"` // Per-call generation deadline

	// Scraping
	UseBrowser          bool   `json:"use_browser,omitempty"`           // Retry short pages in headless Chrome
	ChromePath          string `json:"chrome_path,omitempty"`           // Chrome binary for scraping and PDF output
	FetchTimeoutSeconds int    `json:"fetch_timeout_seconds,omitempty"` // HTTP fetch deadline
	PoliteDelayMillis   int    `json:"polite_delay_ms,omitempty"`       // Wait before each outbound request
	CacheTTLHours       int    `json:"cache_ttl_hours,omitempty"`       // Scrape cache lifetime

	// Thresholds
	MinJobDescriptionLength int `json:"min_job_description_length,omitempty"`
	MinResumeLength         int `json:"min_resume_length,omitempty"`

	// Behavior
	OutputDir   string `json:"output_dir,omitempty"`   // Directory rendered documents are written to
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL for the scrape cache
	Addr        string `json:"addr,omitempty"`         // HTTP listen address
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Provider:                 ProviderGemini,
		GenerationTimeoutSeconds: DefaultGenerationTimeoutSeconds,
		FetchTimeoutSeconds:      DefaultFetchTimeoutSeconds,
		PoliteDelayMillis:        DefaultPoliteDelayMillis,
		CacheTTLHours:            DefaultCacheTTLHours,
		MinJobDescriptionLength:  DefaultMinJobDescriptionLength,
		MinResumeLength:          DefaultMinResumeLength,
		OutputDir:                DefaultOutputDir,
		Addr:                     DefaultServerAddr,
	}
}

// FromEnv returns a Config populated from environment variables.
// The API key is chosen to match the provider.
func FromEnv() Config {
	cfg := Config{
		Provider:    os.Getenv("LLM_PROVIDER"),
		Model:       os.Getenv("LLM_MODEL"),
		OutputDir:   os.Getenv("OUTPUT_DIR"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		ChromePath:  os.Getenv("CHROME_PATH"),
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}
	cfg.APIKey = os.Getenv(APIKeyEnv(cfg.Provider))
	return cfg
}

// APIKeyEnv names the environment variable holding the key for provider.
func APIKeyEnv(provider string) string {
	if provider == ProviderAnthropic {
		return "ANTHROPIC_API_KEY"
	}
	return "GEMINI_API_KEY"
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required inputs are checked by the commands after merging.
func (c *Config) Validate() error {
	if c.Job != "" && c.JobURL != "" {
		return fmt.Errorf("config error: 'job' and 'job_url' are mutually exclusive")
	}

	if c.Provider != "" && c.Provider != ProviderGemini && c.Provider != ProviderAnthropic {
		return fmt.Errorf("config error: unknown provider %q", c.Provider)
	}

	numeric := []struct {
		name  string
		value int
	}{
		{"generation_timeout_seconds", c.GenerationTimeoutSeconds},
		{"fetch_timeout_seconds", c.FetchTimeoutSeconds},
		{"polite_delay_ms", c.PoliteDelayMillis},
		{"cache_ttl_hours", c.CacheTTLHours},
		{"min_job_description_length", c.MinJobDescriptionLength},
		{"min_resume_length", c.MinResumeLength},
	}
	for _, n := range numeric {
		if n.value < 0 {
			return fmt.Errorf("config error: '%s' must be non-negative", n.name)
		}
	}

	if c.Resume != "" {
		if _, err := os.Stat(c.Resume); os.IsNotExist(err) {
			return fmt.Errorf("config error: resume file not found: %s", c.Resume)
		}
	}

	if c.Job != "" {
		if _, err := os.Stat(c.Job); os.IsNotExist(err) {
			return fmt.Errorf("config error: job file not found: %s", c.Job)
		}
	}

	return nil
}

// MergeWithDefaults returns a copy of c with zero-valued string and int
// fields taken from defaults. Booleans are left as set, since an explicit
// false cannot be told apart from unset.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	r := *c
	for _, f := range []struct{ dst *string; def string }{
		{&r.Resume, defaults.Resume},
		{&r.Job, defaults.Job},
		{&r.JobURL, defaults.JobURL},
		{&r.Name, defaults.Name},
		{&r.Company, defaults.Company},
		{&r.Tone, defaults.Tone},
		{&r.Provider, defaults.Provider},
		{&r.Model, defaults.Model},
		{&r.APIKey, defaults.APIKey},
		{&r.ChromePath, defaults.ChromePath},
		{&r.OutputDir, defaults.OutputDir},
		{&r.DatabaseURL, defaults.DatabaseURL},
		{&r.Addr, defaults.Addr},
	} {
		fill(f.dst, f.def)
	}
	fill(&r.GenerationTimeoutSeconds, defaults.GenerationTimeoutSeconds)
	fill(&r.FetchTimeoutSeconds, defaults.FetchTimeoutSeconds)
	fill(&r.PoliteDelayMillis, defaults.PoliteDelayMillis)
	fill(&r.CacheTTLHours, defaults.CacheTTLHours)
	fill(&r.MinJobDescriptionLength, defaults.MinJobDescriptionLength)
	fill(&r.MinResumeLength, defaults.MinResumeLength)
	return r
}

func fill[T comparable](dst *T, def T) {
	var zero T
	if *dst == zero {
		*dst = def
	}
}

// GenerationTimeout returns the generation deadline as a duration.
func (c *Config) GenerationTimeout() time.Duration {
	return time.Duration(c.GenerationTimeoutSeconds) * time.Second
}

// FetchTimeout returns the fetch deadline as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// PoliteDelay returns the pre-request delay as a duration.
func (c *Config) PoliteDelay() time.Duration {
	return time.Duration(c.PoliteDelayMillis) * time.Millisecond
}

// CacheTTL returns the scrape cache lifetime as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLHours) * time.Hour
}
