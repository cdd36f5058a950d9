// Package web provides the HTTP server and handlers for the catalog dashboard.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/asharibshahid/dashboard/internal/config"
	"github.com/asharibshahid/dashboard/internal/store"
	"github.com/asharibshahid/dashboard/internal/web/middleware"
)

// Server is the HTTP server for the catalog dashboard API.
type Server struct {
	cfg     *config.Config
	store   *store.Store
	imports *ImportLimiter
	router  *chi.Mux
	server  *http.Server
}

// NewServer creates a new Server instance.
func NewServer(st *store.Store, cfg *config.Config) *Server {
	s := &Server{
		cfg:     cfg,
		store:   st,
		imports: NewImportLimiter(cfg.Import.MaxConcurrent, cfg.Import.MaxWaitTime),
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Compress(5))
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))

	// Security hardening
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		limiter := newRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.router.Use(limiter.middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	// Import endpoints get a tighter per-IP budget than the rest of the API.
	importRate := func(next http.Handler) http.Handler { return next }
	if s.cfg.Rate.Enabled {
		importRate = newRateLimiter(s.cfg.Rate.ImportLimit, time.Minute).middleware
	}

	s.router.Route("/api", func(r chi.Router) {
		// Template download
		r.Get("/template/{catalog}", s.handleDownloadTemplate)

		r.Route("/restaurants", func(r chi.Router) {
			r.Get("/", s.handleListRestaurants)
			r.Post("/", s.handleCreateRestaurant)

			r.Route("/{restaurantID}", func(r chi.Router) {
				r.Use(s.restaurantCtx)

				r.Get("/", s.handleGetRestaurant)
				r.Put("/", s.handleUpdateRestaurant)
				r.Delete("/", s.handleDeleteRestaurant)

				// Import history
				r.Get("/imports", s.handleListImports)

				r.Route("/menu", func(r chi.Router) {
					r.Get("/", s.handleGetMenu)
					r.Put("/", s.handleSaveMenu)
					r.Get("/export", s.handleExportMenu)
					r.With(importRate).Post("/import", s.handleImportMenu)
				})

				r.Route("/zones", func(r chi.Router) {
					r.Get("/", s.handleGetZones)
					r.Put("/", s.handleSaveZones)
					r.Get("/export", s.handleExportZones)
					r.With(importRate).Post("/import", s.handleImportZones)
				})
			})
		})
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// WaitForImports blocks until in-flight imports finish or ctx expires.
func (s *Server) WaitForImports(ctx context.Context) error {
	return s.imports.WaitForDrain(ctx)
}

// ImportStatus reports the import limiter state.
func (s *Server) ImportStatus() ImportLimiterStatus {
	return s.imports.Status()
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Prevent MIME type sniffing
			w.Header().Set("X-Content-Type-Options", "nosniff")

			// Prevent clickjacking
			w.Header().Set("X-Frame-Options", "DENY")

			// XSS protection (legacy but still useful for older browsers)
			w.Header().Set("X-XSS-Protection", "1; mode=block")

			// Control referrer information
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			if enableCSP {
				// The server only emits JSON and CSV; lock everything down
				w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// errRateLimited feeds the error mapper so throttled clients get the
// standard message and code.
var errRateLimited = errors.New("rate limit exceeded")

// rateLimiter implements a simple token bucket rate limiter per IP.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     int           // requests per window
	window   time.Duration // time window
}

type visitor struct {
	tokens    int
	lastReset time.Time
}

// newRateLimiter creates a rate limiter with the specified rate per window.
func newRateLimiter(rate int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		window:   window,
	}
	// Start cleanup goroutine
	go rl.cleanup()
	return rl
}

// cleanup removes stale visitor entries every minute.
func (rl *rateLimiter) cleanup() {
	for {
		time.Sleep(time.Minute)
		rl.mu.Lock()
		for ip, v := range rl.visitors {
			if time.Since(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// allow checks if the request should be allowed and consumes a token if so.
func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		rl.visitors[ip] = &visitor{
			tokens:    rl.rate - 1, // consume one token
			lastReset: time.Now(),
		}
		return true
	}

	// Reset tokens if window has passed
	if time.Since(v.lastReset) > rl.window {
		v.tokens = rl.rate - 1
		v.lastReset = time.Now()
		return true
	}

	// Check if we have tokens left
	if v.tokens <= 0 {
		return false
	}

	v.tokens--
	return true
}

// middleware returns an HTTP middleware that rate limits by IP.
func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// TrustedRealIP has already resolved the client address
		if !rl.allow(r.RemoteAddr) {
			w.Header().Set("Retry-After", "60")
			respondErrorJSON(w, store.MapError(errRateLimited), http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON and writes it with the given status code.
// Encoding errors are logged; headers are already sent by then.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", "error", err)
	}
}
