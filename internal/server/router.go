package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"rwa-backend/internal/config"
	"rwa-backend/internal/domain"
	"rwa-backend/internal/handler"
	"rwa-backend/internal/repository"
)

// Handlers groups everything NewRouter mounts.
type Handlers struct {
	Health        handler.HealthHandler
	Home          handler.HomeHandler
	Docs          handler.DocsHandler
	Auth          handler.AuthHandler
	Users         handler.UserHandler
	Bills         handler.BillHandler
	Complaints    handler.ComplaintHandler
	Notices       handler.NoticeHandler
	BillingFields handler.BillingFieldHandler
	Dashboard     handler.DashboardHandler
	Activities    handler.ActivityLogHandler
	Reports       handler.ReportHandler
}

// NewRouter wires HTTP routes and middleware.
func NewRouter(cfg config.Config, logger *slog.Logger, users repository.UserStore, h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if cfg.RateLimit > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimit, 1*time.Minute))
	}

	h.Health.RegisterRoutes(r)
	h.Home.RegisterRoutes(r)
	h.Docs.RegisterRoutes(r)
	r.Method("GET", "/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		h.Auth.RegisterRoutes(api)

		api.Group(func(pr chi.Router) {
			pr.Use(AuthMiddleware(cfg.JWTSecret, users))
			// any signed-in user; handlers scope residents to their own data
			h.Auth.RegisterProtectedRoutes(pr)
			h.Users.RegisterRoutes(pr)
			h.Bills.RegisterRoutes(pr)
			h.Complaints.RegisterRoutes(pr)
			h.Notices.RegisterRoutes(pr)
			h.BillingFields.RegisterRoutes(pr)

			pr.Group(func(sr chi.Router) {
				sr.Use(RequireRole(domain.RoleAdmin, domain.RoleWatchman))
				h.Complaints.RegisterStaffRoutes(sr)
			})
			pr.Group(func(ar chi.Router) {
				ar.Use(RequireRole(domain.RoleAdmin))
				h.Users.RegisterAdminRoutes(ar)
				h.Bills.RegisterAdminRoutes(ar)
				h.Complaints.RegisterAdminRoutes(ar)
				h.Notices.RegisterAdminRoutes(ar)
				h.BillingFields.RegisterAdminRoutes(ar)
				h.Dashboard.RegisterRoutes(ar)
				h.Activities.RegisterRoutes(ar)
				h.Reports.RegisterRoutes(ar)
			})
		})
	})

	return r
}
