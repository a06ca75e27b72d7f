// Package app wires storage, services and handlers into an http.Handler.
package app

import (
	"log/slog"
	"net/http"

	"rwa-backend/internal/config"
	"rwa-backend/internal/handler"
	"rwa-backend/internal/otp"
	"rwa-backend/internal/ports"
	"rwa-backend/internal/repository"
	"rwa-backend/internal/server"
	"rwa-backend/internal/service"
)

const Version = "1.0.0"

type Deps struct {
	Config config.Config
	Logger *slog.Logger
	Store  repository.Store
	OTP    otp.Store
	// Cache is checked by /health when set.
	Cache ports.HealthChecker
}

// NewHandler builds the services and returns the routed HTTP handler.
func NewHandler(d Deps) http.Handler {
	cfg, logger, store := d.Config, d.Logger, d.Store

	// services
	authSvc := service.AuthService{
		Config: cfg,
		Users:  store,
		OTP: otp.NewIssuer(d.OTP, otp.Options{
			TTL:            cfg.OTP.TTL,
			MaxAttempts:    cfg.OTP.MaxAttempts,
			ResendInterval: cfg.OTP.ResendInterval,
			IssuePerMinute: cfg.OTP.IssuePerMinute,
		}),
		Logger: logger,
	}
	billingSvc := service.BillingService{Store: store, Config: cfg.Billing, Logger: logger}
	complaintSvc := service.ComplaintService{Store: store, StrictTransitions: cfg.Billing.StrictTransitions, Logger: logger}

	// handlers
	h := server.Handlers{
		Health:        handler.HealthHandler{DB: store, Cache: d.Cache},
		Home:          handler.HomeHandler{Version: Version},
		Docs:          handler.DocsHandler{},
		Auth:          handler.AuthHandler{Service: &authSvc, Users: store, Logger: logger},
		Users:         handler.UserHandler{Service: service.UserService{Users: store}, Users: store, Logger: logger},
		Bills:         handler.BillHandler{Service: billingSvc, Bills: store, Logger: logger},
		Complaints:    handler.ComplaintHandler{Service: complaintSvc, Complaints: store, Logger: logger},
		Notices:       handler.NoticeHandler{Service: service.NoticeService{Store: store}, Notices: store, Logger: logger},
		BillingFields: handler.BillingFieldHandler{Service: service.BillingFieldService{Fields: store}, Logger: logger},
		Dashboard:     handler.DashboardHandler{Service: service.DashboardService{Store: store}, Logger: logger},
		Activities:    handler.ActivityLogHandler{Repo: store, Logger: logger},
		Reports:       handler.ReportHandler{Store: store, Currency: cfg.Billing.CurrencySymbol, Logger: logger},
	}
	return server.NewRouter(cfg, logger, store, h)
}
