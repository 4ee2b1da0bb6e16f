// Package router sets up all HTTP routes and middleware chains for the
// awards API. Routes are grouped into public, authenticated and admin
// sections under /api.
package router

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"nordicos/internal/handlers"
	"nordicos/internal/metrics"
	"nordicos/internal/middleware"
)

// Config carries everything the router wires together. Limiter, Metrics
// and Uploads are optional.
type Config struct {
	Auth   *handlers.Auth
	API    *handlers.API
	Tokens middleware.TokenParser
	Users  middleware.UserLookup

	Limiter *middleware.RateLimiter
	Metrics http.Handler

	// Uploads serves locally stored media when set. UploadPrefix is the
	// public path it is mounted under, e.g. "/uploads".
	Uploads      http.FileSystem
	UploadPrefix string
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(cfg Config) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(metrics.Middleware)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}
	if cfg.Uploads != nil && cfg.UploadPrefix != "" {
		prefix := "/" + strings.Trim(cfg.UploadPrefix, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix, noListing(http.FileServer(cfg.Uploads))))
	}

	r.Route("/api", func(r chi.Router) {
		if cfg.Limiter != nil {
			r.Use(cfg.Limiter.Middleware)
		}
		r.Use(middleware.Authenticate(cfg.Tokens, cfg.Users))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", cfg.Auth.Register)
			r.Post("/login", cfg.Auth.Login)
			r.With(middleware.RequireAuth).Get("/me", cfg.Auth.Me)
		})

		api := cfg.API

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", api.ListCategories)
			r.Get("/{id}", api.GetCategory)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/", api.CreateCategory)
				r.Put("/{id}", api.UpdateCategory)
				r.Delete("/{id}", api.DeleteCategory)
			})
		})

		r.Route("/nominees", func(r chi.Router) {
			r.Get("/", api.ListNominees)
			r.Get("/{id}", api.GetNominee)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/", api.CreateNominee)
				r.Put("/{id}", api.UpdateNominee)
				r.Delete("/{id}", api.DeleteNominee)
			})
		})

		r.Route("/votes", func(r chi.Router) {
			r.Get("/results", api.Results)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/", api.CastVote)
				r.Get("/my", api.MyVotes)
				r.Delete("/my/{categoryId}", api.WithdrawVote)
				r.Delete("/{voteId}", api.WithdrawVoteByID)
			})
		})

		r.Route("/media", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/upload", api.UploadMedia)
			r.Get("/my", api.MyMedia)
			r.Get("/", api.ListMedia)
			r.Delete("/{id}", api.DeleteMedia)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/review", api.ReviewMedia)
				r.Get("/pending", api.PendingMedia)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"message":"Route not found"}`))
	})

	return r
}

// noListing hides directory indexes from the uploads file server.
func noListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
