// Package router sets up all HTTP routes and middleware chains for the
// portfolio API. It organizes routes into public and admin groups with
// appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"portfolio/internal/handlers"
	"portfolio/internal/middleware"
)

// Options carries the handler groups and the middleware settings.
type Options struct {
	Gate   middleware.Authenticator
	Public *handlers.Public
	Admin  *handlers.Admin
	Auth   *handlers.Auth

	// AllowedOrigins may be empty, in which case no cross-origin request
	// is allowed.
	AllowedOrigins []string
	// Secure marks cookies Secure and enables HSTS.
	Secure bool

	// Requests per minute per client IP. Zero disables the limiter.
	ContactRateLimit int
	LoginRateLimit   int
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(middleware.SecureHeaders(opts.Secure))
	r.Use(middleware.CORS(opts.AllowedOrigins))

	r.Get("/health", healthHandler)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Public site.
	r.Get("/about", opts.Public.About)
	r.Get("/journey", opts.Public.Journey)
	r.Get("/profile", opts.Public.Profile)
	r.Get("/project-filters", opts.Public.Filters)
	r.Get("/projects", opts.Public.Projects)
	r.Get("/skills", opts.Public.Skills)
	r.With(middleware.RateLimit("contact", opts.ContactRateLimit, time.Minute)).
		Post("/contact", opts.Public.Contact)

	r.Route("/admin", func(r chi.Router) {
		// Accessible without credentials.
		r.With(middleware.RateLimit("login", opts.LoginRateLimit, time.Minute)).
			Post("/login", opts.Auth.Login)
		r.Post("/logout", opts.Auth.Logout)

		// Everything else requires the gate, then CSRF for cookie sessions.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(opts.Gate))
			r.Use(middleware.NewCSRF(opts.Secure))

			r.Get("/session", opts.Auth.Session)
			r.Post("/2fa/setup", opts.Auth.TwoFASetup)
			r.Post("/2fa/enable", opts.Auth.TwoFAEnable)
			r.Post("/2fa/disable", opts.Auth.TwoFADisable)

			r.Get("/about", opts.Admin.AboutGet)
			r.Put("/about", opts.Admin.AboutPut)
			r.Get("/journey", opts.Admin.JourneyGet)
			r.Put("/journey", opts.Admin.JourneyPut)
			r.Get("/profile", opts.Admin.ProfileGet)
			r.Put("/profile", opts.Admin.ProfilePut)

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", opts.Admin.ProjectsList)
				r.Post("/", opts.Admin.ProjectCreate)
				r.Put("/", opts.Admin.ProjectUpdate)
				r.Delete("/", opts.Admin.ProjectDelete)
			})

			r.Route("/project-filters", func(r chi.Router) {
				r.Get("/", opts.Admin.FiltersList)
				r.Post("/", opts.Admin.FilterCreate)
				r.Put("/", opts.Admin.FilterUpdate)
				r.Delete("/", opts.Admin.FilterDelete)
				r.Post("/swap", opts.Admin.FiltersSwap)
			})

			r.Route("/skills", func(r chi.Router) {
				r.Get("/", opts.Admin.SkillsList)
				r.Post("/", opts.Admin.SkillCreate)
				r.Put("/", opts.Admin.SkillUpdate)
				r.Patch("/", opts.Admin.SkillsReorder)
				r.Delete("/", opts.Admin.SkillDelete)
			})

			r.Route("/contacts", func(r chi.Router) {
				r.Get("/", opts.Admin.ContactsList)
				r.Put("/", opts.Admin.ContactMarkRead)
				r.Delete("/", opts.Admin.ContactDelete)
			})

			r.Post("/uploads", opts.Admin.Upload)
			r.Delete("/uploads", opts.Admin.DeleteUpload)

			r.Get("/audit", opts.Admin.AuditList)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
