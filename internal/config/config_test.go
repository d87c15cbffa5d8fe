package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/fetch"
	"github.com/jonathan/resume-tailor/internal/llm"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"job_url": "https://example.com/job",
		"name": "Test User",
		"provider": "anthropic",
		"min_job_description_length": 80,
		"polite_delay_ms": 250,
		"verbose": true
	}`

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/job", cfg.JobURL)
	assert.Equal(t, "Test User", cfg.Name)
	assert.Equal(t, ProviderAnthropic, cfg.Provider)
	assert.Equal(t, 80, cfg.MinJobDescriptionLength)
	assert.Equal(t, 250*time.Millisecond, cfg.PoliteDelay())
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{ invalid json }`), 0644))

	tests := []struct {
		name      string
		path      string
		errString string
	}{
		{"empty path", "", "config path is empty"},
		{"missing file", filepath.Join(dir, "missing.json"), "failed to read config file"},
		{"invalid json", broken, "failed to parse config JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(tt.path)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.errString)
		})
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		errString string
	}{
		{"job and job url", Config{Job: "job.txt", JobURL: "https://example.com/job"}, "mutually exclusive"},
		{"negative fetch timeout", Config{FetchTimeoutSeconds: -1}, "fetch_timeout_seconds"},
		{"negative polite delay", Config{PoliteDelayMillis: -5}, "polite_delay_ms"},
		{"negative resume length", Config{MinResumeLength: -1}, "min_resume_length"},
		{"unknown provider", Config{Provider: "openai"}, "unknown provider"},
		{"missing resume", Config{Resume: filepath.Join(t.TempDir(), "missing.pdf")}, "resume file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errString)
		})
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	resume := filepath.Join(t.TempDir(), "resume.txt")
	require.NoError(t, os.WriteFile(resume, []byte("Jane Doe"), 0644))

	cfg := &Config{
		Resume:   resume,
		Name:     "Test User",
		Provider: ProviderGemini,
	}

	assert.NoError(t, cfg.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	partial := Config{
		Name:            "Custom Name",
		MinResumeLength: 120,
	}

	merged := partial.MergeWithDefaults(Defaults())

	assert.Equal(t, "Custom Name", merged.Name)
	assert.Equal(t, 120, merged.MinResumeLength)

	assert.Equal(t, ProviderGemini, merged.Provider)
	assert.Equal(t, DefaultOutputDir, merged.OutputDir)
	assert.Equal(t, DefaultMinJobDescriptionLength, merged.MinJobDescriptionLength)
	assert.Equal(t, llm.DefaultGenerationTimeout, merged.GenerationTimeout())
	assert.Equal(t, 60*time.Second, merged.GenerationTimeout())
	assert.Equal(t, fetch.DefaultTimeout, merged.FetchTimeout())
	assert.Equal(t, 15*time.Second, merged.FetchTimeout())
	assert.Equal(t, 24*time.Hour, merged.CacheTTL())
}

func TestMergeWithDefaults_KeepsSetFields(t *testing.T) {
	cfg := Config{Name: "Test", OutputDir: "out", UseBrowser: true}

	merged := cfg.MergeWithDefaults(Config{OutputDir: "elsewhere"})
	assert.Equal(t, "out", merged.OutputDir)
	assert.True(t, merged.UseBrowser)
	assert.Zero(t, merged.FetchTimeoutSeconds, "zero defaults leave zero fields alone")
}

func TestFromEnv_SelectsKeyByProvider(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("ANTHROPIC_API_KEY", "anthropic-key")
	t.Setenv("OUTPUT_DIR", "/tmp/docs")
	t.Setenv("PORT", "9090")

	t.Setenv("LLM_PROVIDER", "")
	cfg := FromEnv()
	assert.Equal(t, "gemini-key", cfg.APIKey)
	assert.Equal(t, "/tmp/docs", cfg.OutputDir)
	assert.Equal(t, ":9090", cfg.Addr)

	t.Setenv("LLM_PROVIDER", ProviderAnthropic)
	cfg = FromEnv()
	assert.Equal(t, ProviderAnthropic, cfg.Provider)
	assert.Equal(t, "anthropic-key", cfg.APIKey)
}
