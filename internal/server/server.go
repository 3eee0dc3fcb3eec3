// Package server provides the HTTP API for job listings and salary
// normalization.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/sixfigure-jobs/internal/db"
	"github.com/jonathan/sixfigure-jobs/internal/salary"
	"github.com/jonathan/sixfigure-jobs/internal/server/ratelimit"
)

// JobStore is the read side of the job store used by the handlers.
type JobStore interface {
	ListJobs(ctx context.Context, opts db.ListJobsOptions) ([]db.Job, int, error)
	GetJobByID(ctx context.Context, id uuid.UUID) (*db.Job, error)
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       JobStore
	closeStore  func()
	salaries    *salary.Registry
	validate    *validator.Validate
	rateLimiter *ratelimit.Limiter
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string
	// Salaries overrides the built-in band tables when set.
	Salaries  *salary.Registry
	RateLimit *ratelimit.Config
}

// New connects to the database and creates a server.
func New(cfg Config) (*Server, error) {
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	s := NewWithStore(database, cfg)
	s.closeStore = database.Close
	return s, nil
}

// NewWithStore creates a server over an existing store.
func NewWithStore(store JobStore, cfg Config) *Server {
	salaries := cfg.Salaries
	if salaries == nil {
		salaries = salary.DefaultRegistry()
	}
	rl := cfg.RateLimit
	if rl == nil {
		rl = ratelimit.LoadConfig()
	}

	s := &Server{
		store:       store,
		salaries:    salaries,
		validate:    validator.New(),
		rateLimiter: ratelimit.NewLimiter(rl),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /jobs", s.handleListJobs)
	mux.HandleFunc("GET /jobs/{id}", s.handleGetJob)

	mux.HandleFunc("POST /salary/normalize", s.handleNormalize)
	mux.HandleFunc("GET /salary/bands", s.handleListBands)
	mux.HandleFunc("GET /salary/bands/{country}", s.handleGetBands)

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.rateLimiter.Stop()
	if s.closeStore != nil {
		s.closeStore()
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects clients over their per-route budget with 429.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("[%s] %s %d %v", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// clientID identifies the caller by remote IP.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":   "rate_limit_exceeded",
		"message": "Rate limit exceeded. Please try again later.",
		"limit":   info.Limit,
	}
	if info.RetryAfter > 0 {
		secs := int(info.RetryAfter.Seconds() + 0.999)
		response["retry_after"] = secs
		w.Header().Set("Retry-After", fmt.Sprintf("%d", secs))
	}
	log.Printf("[rate-limit] limit exceeded: limit=%d retry_after=%v", info.Limit, info.RetryAfter)
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
