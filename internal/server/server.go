// Package server provides the HTTP REST API for the resume builder.
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

	"github.com/jonkmatsumo/resume-builder/internal/config"
	"github.com/jonkmatsumo/resume-builder/internal/server/middleware"
	"github.com/jonkmatsumo/resume-builder/internal/server/ratelimit"
	"github.com/jonkmatsumo/resume-builder/internal/store"
	"github.com/jonkmatsumo/resume-builder/internal/suggest"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	resumes     store.ResumeStore
	users       store.UserStore
	suggester   suggest.Suggester
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
	onClose     func()
}

// New creates a server connected to PostgreSQL. The suggestion endpoint is
// only enabled when cfg.GeminiAPIKey is set.
func New(cfg *config.Server) (*Server, error) {
	database, err := store.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	var suggester suggest.Suggester
	if cfg.GeminiAPIKey != "" {
		suggester, err = suggest.NewGemini(context.Background(), cfg.GeminiAPIKey)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to create suggester: %w", err)
		}
	}

	s := newServer(cfg, database, database, suggester)
	s.onClose = func() {
		if suggester != nil {
			_ = suggester.Close()
		}
		database.Close()
	}
	return s, nil
}

// newServer wires services and routes on top of already constructed
// backends. Tests call this directly with the in-memory store.
func newServer(cfg *config.Server, resumes store.ResumeStore, users store.UserStore, suggester suggest.Suggester) *Server {
	s := &Server{
		resumes:   resumes,
		users:     users,
		suggester: suggester,
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())
	s.userService = NewUserService(users, cfg.Password)
	s.jwtService = NewJWTService(cfg.JWT)
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", s.authHandler.Login)

	// Everything below requires a valid bearer token.
	protected := http.NewServeMux()
	protected.HandleFunc("POST /api/auth/password", s.handleUpdatePassword)

	protected.HandleFunc("GET /api/resumes", s.handleListResumes)
	protected.HandleFunc("POST /api/resumes", s.handleCreateResume)
	protected.HandleFunc("GET /api/resumes/{id}", s.handleGetResume)
	protected.HandleFunc("PUT /api/resumes/{id}", s.handleUpdateResume)
	protected.HandleFunc("DELETE /api/resumes/{id}", s.handleDeleteResume)

	protected.HandleFunc("POST /api/resumes/{id}/sections", s.handleAddSection)
	protected.HandleFunc("POST /api/resumes/{id}/sections/reorder", s.handleReorderSections)
	protected.HandleFunc("POST /api/resumes/{id}/sections/{sectionID}/visibility", s.handleToggleSectionVisibility)

	protected.HandleFunc("GET /api/resumes/{id}/completion", s.handleCompletion)
	protected.HandleFunc("GET /api/resumes/{id}/export", s.handleExportResume)
	protected.HandleFunc("POST /api/resumes/{id}/suggest-summary", s.handleSuggestSummary)

	protected.HandleFunc("GET /api/jobs/preview", s.handleJobPreview)

	authed := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(protected)
	mux.Handle("/api/auth/password", authed)
	mux.Handle("/api/resumes", authed)
	mux.Handle("/api/resumes/", authed)
	mux.Handle("/api/jobs/", authed)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler exposes the full middleware-wrapped router.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests and blocks until shutdown.
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

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.onClose != nil {
		s.onClose()
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
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
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
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

// extractClientID extracts the client identifier from the request.
// Uses the IP address from RemoteAddr; X-Forwarded-For would only be
// safe behind a trusted proxy.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
