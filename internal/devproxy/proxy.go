// Package devproxy serves the API and auth routes of a backend on a local
// origin, so a client configured for same-origin requests can reach a
// backend running elsewhere during development.
package devproxy

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/expensify/internal/logger"
)

// Prefixes lists the path prefixes forwarded to the backend.
var Prefixes = []string{"/api", "/auth"}

// New returns a handler forwarding Prefixes to backend with the Host header
// rewritten to the backend's. Everything else is answered with 404.
func New(backend string, allowedOrigins []string, log *slog.Logger) (http.Handler, error) {
	target, err := url.Parse(backend)
	if err != nil {
		return nil, fmt.Errorf("parsing backend url: %w", err)
	}

	if target.Scheme == "" || target.Host == "" {
		return nil, errors.New("backend url must be absolute")
	}

	proxy := &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			r.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.FromContext(r.Context()).ErrorContext(r.Context(), "proxying request failed", "error", err)

			writeError(w, http.StatusBadGateway, "backend unavailable")
		},
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(requestLogger(log))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	for _, p := range Prefixes {
		router.Handle(p, proxy)
		router.Handle(p+"/*", proxy)
	}

	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	return router, nil
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			reqLog, ctx := logger.With(logger.ToContext(r.Context(), log),
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", middleware.GetReqID(r.Context()),
			)

			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLog.InfoContext(ctx, "request",
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(map[string]string{"error": msg}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
