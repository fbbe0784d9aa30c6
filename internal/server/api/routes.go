package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handler builds the router.
//
//	POST   /api/auth/register
//	POST   /api/auth/login
//	PUT    /api/auth/password      (bearer)
//	DELETE /api/auth               (bearer)
//	GET    /api/auth/me            (bearer)
//	GET    /api/passwords          (bearer)
//	POST   /api/passwords          (bearer)
//	DELETE /api/passwords/{id}     (bearer)
//	GET    /  /healthz  /metrics
func (s *HTTPServer) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(s.recoverer)
	r.Use(s.metrics.HTTPMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/", s.root)
	r.Get("/healthz", s.health)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(s.opts.RequestTimeout))

		r.Post("/auth/register", s.register)
		r.Post("/auth/login", s.login)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Put("/auth/password", s.changePassword)
			r.Delete("/auth", s.deleteAccount)
			r.Get("/auth/me", s.me)

			r.Get("/passwords", s.listPasswords)
			r.Post("/passwords", s.savePassword)
			r.Delete("/passwords/{id}", s.deletePassword)
		})
	})

	return r
}
