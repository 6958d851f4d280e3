package rest

import (
	"net/http"
	"time"

	"github.com/Abdurahmanit/meraroom-service/internal/adapter/rest/middleware"
	"github.com/Abdurahmanit/meraroom-service/internal/domain"
	"github.com/Abdurahmanit/meraroom-service/internal/platform/logger"
	"github.com/Abdurahmanit/meraroom-service/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth           *AuthHandler
	Accommodations *AccommodationHandler
	Users          *UserHandler
	Bookings       *BookingHandler
	Files          *FileHandler
	Health         *HealthHandler
}

// RouterConfig carries the cross-cutting pieces of the router. Metrics and
// LoginLimiter are optional.
type RouterConfig struct {
	Tokens             middleware.TokenParser
	Metrics            *metrics.MetricsManager
	LoginLimiter       *middleware.ClientRateLimiter
	CORSAllowedOrigins []string
	RequestTimeout     time.Duration
}

// NewRouter builds the /api/v1 surface plus /uploads and /healthz.
func NewRouter(h Handlers, cfg RouterConfig, log *logger.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Tracing)
	r.Use(middleware.Logger(log))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if cfg.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
	}

	authn := middleware.Authenticate(cfg.Tokens, log)

	r.Get("/healthz", h.Health.Check)
	r.Get("/uploads/*", h.Files.Serve)

	r.Route("/api/v1", func(api chi.Router) {
		setupAuthRoutes(api, h.Auth, authn, cfg.LoginLimiter)
		setupAccommodationRoutes(api, h.Accommodations, authn)
		setupUserRoutes(api, h.Users, h.Auth, authn)
		setupBookingRoutes(api, h.Bookings, authn)
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		responder{logger: log}.fail(w, req, domain.Errorf(domain.ErrNotFound, "Route %s not found", req.URL.Path))
	})
	return r
}

func setupAuthRoutes(r chi.Router, h *AuthHandler, authn func(http.Handler) http.Handler, limiter *middleware.ClientRateLimiter) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/seeker/register", h.RegisterSeeker)
		r.Post("/owner/register", h.RegisterOwner)
		if limiter != nil {
			r.With(limiter.Handler).Post("/login", h.Login)
		} else {
			r.Post("/login", h.Login)
		}

		r.Group(func(r chi.Router) {
			r.Use(authn)
			r.Get("/me", h.GetMe)
			r.Get("/logout", h.Logout)
			r.Put("/me/update", h.UpdateMyDetails)
		})
	})
}

func setupAccommodationRoutes(r chi.Router, h *AccommodationHandler, authn func(http.Handler) http.Handler) {
	r.Route("/accommodations", func(r chi.Router) {
		r.Get("/", h.Search)

		r.Group(func(r chi.Router) {
			r.Use(authn, middleware.RequireRoles(domain.RoleOwner))
			r.Get("/my", h.ListMine)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})

		r.Get("/{id}", h.Get)
	})
}

func setupUserRoutes(r chi.Router, h *UserHandler, auth *AuthHandler, authn func(http.Handler) http.Handler) {
	r.Route("/users", func(r chi.Router) {
		r.Use(authn)
		r.Get("/preferences", h.GetPreferences)
		r.Put("/preferences", h.UpdatePreferences)
		r.Put("/me/update", auth.UpdateMyDetails)
	})
}

func setupBookingRoutes(r chi.Router, h *BookingHandler, authn func(http.Handler) http.Handler) {
	r.Route("/bookings", func(r chi.Router) {
		r.Use(authn)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoles(domain.RoleSeeker))
			r.Post("/request", h.Create)
			r.Get("/my-request/{accommodationId}", h.GetMyRequest)
			r.Get("/my", h.ListMine)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoles(domain.RoleOwner))
			r.Get("/owner", h.ListForOwner)
			r.Put("/{id}/accept", h.Accept)
			r.Put("/{id}/reject", h.Reject)
			r.Put("/{id}/book", h.MarkBooked)
			r.Put("/{id}/living", h.MarkLiving)
		})

		r.With(middleware.RequireRoles(domain.RoleSeeker, domain.RoleOwner)).Put("/{id}/cancel", h.Cancel)
	})
}
