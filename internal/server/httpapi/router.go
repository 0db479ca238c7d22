package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Page prefixes that need a session.
var protectedPages = []string{"/dashboard", "/profile", "/cahier", "/new-cahier"}

// Entry pages, left for the dashboard when a session exists.
var entryPages = []string{"/", "/login", "/register"}

// Router builds the full route tree.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(h.instrument)
	if len(h.opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.opts.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.Use(h.loadSession)

	r.Get("/healthz", h.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if h.opts.RateLimit > 0 {
				r.Use(httprate.LimitByIP(h.opts.RateLimit, time.Minute))
			}
			r.Post("/auth/login", h.login)
			r.Post("/auth/register", h.register)
		})
		r.Get("/auth/user", h.currentUser)

		r.Group(func(r chi.Router) {
			r.Use(requireAPISession)

			r.Post("/auth/logout", h.logout)

			r.Get("/profile", h.getProfile)
			r.Put("/profile", h.updateProfile)
			r.Put("/profile/signature", h.setSignature)
			r.Put("/profile/paraphe", h.setParaphe)

			r.Get("/dashboard", h.getDashboard)

			r.Get("/cahiers", h.listCahiers)
			r.Post("/cahiers", h.createCahier)
			r.Get("/cahiers/{id}", h.getCahier)
			r.Put("/cahiers/{id}", h.updateCahier)
			r.Post("/cahiers/{id}/archive", h.archiveCahier)
			r.Get("/cahiers/{id}/export", h.exportCahier)
			r.Delete("/cahiers/{id}/communications/{commId}", h.deleteCommunication)

			r.Get("/cahiers/{id}/indicatifs", h.listIndicatifs)
			r.Post("/cahiers/{id}/indicatifs", h.addIndicatif)
			r.Delete("/cahiers/{id}/indicatifs/{label}", h.removeIndicatif)

			r.Post("/save-cahier", h.saveCahierLegacy)
		})

		r.NotFound(requireAPISession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusNotFound, msgNotFound)
		})).ServeHTTP)
	})

	pages := h.pages()
	r.Group(func(r chi.Router) {
		r.Use(redirectWithSession)
		for _, p := range entryPages {
			r.Get(p, pages)
		}
	})
	r.Group(func(r chi.Router) {
		r.Use(requirePageSession)
		for _, p := range protectedPages {
			r.Get(p, pages)
			r.Get(p+"/*", pages)
		}
	})
	r.NotFound(pages)

	return r
}
