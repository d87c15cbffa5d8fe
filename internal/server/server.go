// Package server provides the HTTP API for resume tailoring.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/scraping"
	"github.com/jonathan/resume-tailor/internal/server/ratelimit"
)

// DefaultMaxUploadBytes bounds multipart request bodies.
const DefaultMaxUploadBytes = 10 << 20

const shutdownGrace = 30 * time.Second

// Runner executes one pipeline request.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) pipeline.Result
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	runner      Runner
	extractor   scraping.Extractor
	outputDir   string
	maxUpload   int64
	rateLimiter *ratelimit.Limiter
	validate    *validator.Validate
	onShutdown  []func()
}

// Config holds server configuration
type Config struct {
	Addr      string
	OutputDir string
	Runner    Runner
	// Extractor serves /api/extract-job; nil reports ServiceUnavailable.
	Extractor scraping.Extractor
	// RateLimit defaults to ratelimit.LoadConfig.
	RateLimit      *ratelimit.Config
	MaxUploadBytes int64
	// OnShutdown hooks run after the listener stops, e.g. closing the database.
	OnShutdown []func()
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Runner == nil {
		return nil, errors.New("server: pipeline runner is required")
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("server: output directory is required")
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.RateLimit == nil {
		cfg.RateLimit = ratelimit.LoadConfig()
	}

	s := &Server{
		runner:      cfg.Runner,
		extractor:   cfg.Extractor,
		outputDir:   cfg.OutputDir,
		maxUpload:   cfg.MaxUploadBytes,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		validate:    validator.New(),
		onShutdown:  cfg.OnShutdown,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /generate", s.handleGenerate)
	mux.HandleFunc("POST /generate/stream", s.handleGenerateStream)
	mux.HandleFunc("POST /generate/from-profile", s.handleGenerateFromProfile)
	mux.HandleFunc("GET /download/{filename}", s.handleDownload)
	mux.HandleFunc("GET /health", s.handleHealth)

	// JSON endpoints for exercising one stage at a time
	mux.HandleFunc("POST /api/extract-job", s.handleExtractJob)
	mux.HandleFunc("POST /api/tailor-resume", s.handleTailorResume)
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      chain(mux, s.withCORS, s.withLogging, s.withRateLimit),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // generation plus rendering
		IdleTimeout:  time.Minute,
	}

	return s, nil
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer s.Close()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[server] listening on %s", s.httpServer.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Printf("[server] shutting down, draining for up to %s", shutdownGrace)
	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := s.httpServer.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Printf("[server] stopped")
	return nil
}

// Close stops background work and runs the shutdown hooks once.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	hooks := s.onShutdown
	s.onShutdown = nil
	for _, fn := range hooks {
		fn()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[server] failed to encode response: %v", err)
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
