// Package http serves the JSON API over net/http.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
)

type Server struct {
	http.Server
	limiter  *ratelimit.Limiter
	detector *security.Detector
	logger   *log.Logger

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware. Bearer auth guards /api/ when
// cfg.JWTSecret is set; user registration stays public so the first user
// can be created.
func NewServer(cfg *config.Config, svc Services, pinger Pinger, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: cfg.RateLimitPerMinute,
			CleanupInterval:   5 * time.Minute,
		}),
		detector: security.NewDetector(logger),
		logger:   logger,
	}

	api := http.NewServeMux()
	registerResource(api, "/api/accounts", svc.Accounts)
	registerResource(api, "/api/categories", svc.Categories)
	registerResource(api, "/api/transactions", svc.Transactions)
	registerResource(api, "/api/users", svc.Users)
	registerSettings(api, "/api/settings", svc.Settings)

	var apiHandler http.Handler = api
	if cfg.JWTSecret != "" {
		apiHandler = auth.New(cfg.JWTSecret, svc.Users, logger).Middleware(api)
	} else {
		logger.Warn("JWT_SECRET not set, API is served without authentication")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /ready", handleReady(pinger))
	register := createHandler(svc.Users)
	mux.Handle("POST /api/users", register)
	mux.Handle("POST /api/users/{$}", register)
	mux.Handle("/api/", apiHandler)

	s.Addr = ":" + cfg.Port
	s.Handler = s.chain(mux, cfg)
	s.ReadHeaderTimeout = 5 * time.Second
	s.ReadTimeout = 15 * time.Second
	s.WriteTimeout = 30 * time.Second
	s.IdleTimeout = 60 * time.Second
	return s
}

// chain wraps h with the middleware stack, outermost first.
func (s *Server) chain(h http.Handler, cfg *config.Config) http.Handler {
	middlewares := []func(http.Handler) http.Handler{
		log.Middleware(s.logger),
		trace.NewMiddleware(s.detector.ExtractClientIP, s.logger).Middleware,
		log.RequestIDMiddleware(trace.RequestIDFromRequest),
		security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware,
		s.detector.Middleware,
		newCORS(cfg.CORSOrigins),
		s.limiter.Middleware(s.detector.ExtractClientIP, s.rateLimited),
	}
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

func (s *Server) rateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.detector.ExtractClientIP(r),
		log.FieldPath, r.URL.Path)
	writeDetail(w, http.StatusTooManyRequests, "rate limit exceeded")
}

// Shutdown stops background cleanup and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.logger.Info("Shutting down HTTP server", log.FieldOperation, log.OpShutdown)
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
