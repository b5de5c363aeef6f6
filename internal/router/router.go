// Package router sets up all HTTP routes and middleware chains for the
// shop API. Everything except the health check lives under /v1, where
// every request passes through token authentication and protected routes
// add a role requirement.
package router

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"shop/internal/cache"
	"shop/internal/handlers"
	"shop/internal/middleware"
	"shop/internal/models"
	"shop/internal/observability"
)

// idPattern restricts {id} segments to digits; anything else is a 404.
const idPattern = "/{id:[0-9]+}"

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. responseCache may be nil.
func New(tokens middleware.TokenVerifier, responseCache *cache.ResponseCache, cacheTTL time.Duration, health *handlers.Health, categories *handlers.Categories, products *handlers.Products, users *handlers.Users) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders)
	r.Use(observability.Trace)
	r.Use(observability.ServerTiming)
	r.Use(chimw.StripSlashes)
	r.Use(chimw.Compress(5, "application/json"))

	r.Get("/health", health.Check)

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(tokens))

		r.Route("/categories", func(r chi.Router) {
			r.With(middleware.CacheControl(cacheTTL), responseCache.Middleware).Get("/", categories.List)
			r.Get(idPattern, categories.Get)
			r.Post("/", categories.Create)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleEmployee))
				r.Put(idPattern, categories.Update)
				r.Delete(idPattern, categories.Delete)
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", products.List)
			r.Get(idPattern, products.Get)
			r.Get("/categories"+idPattern, products.ListByCategory)
			r.With(middleware.RequireRole(models.RoleEmployee)).Post("/", products.Create)
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", users.Create)
			r.Post("/login", users.Login)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleManager))
				r.Get("/", users.List)
				r.Get(idPattern, users.Get)
				r.Put(idPattern, users.Update)
			})
		})
	})

	return r
}
