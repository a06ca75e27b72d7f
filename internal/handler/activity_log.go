package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"rwa-backend/internal/repository"
	"rwa-backend/internal/server/authctx"
)

const maxActivityLimit = 100

type ActivityLogHandler struct {
	Repo   repository.ActivityStore
	Logger *slog.Logger
}

func (h ActivityLogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/activities", h.list)
	r.Post("/activities", h.create)
}

// create records a manual log entry, such as a note about an offline payment.
func (h ActivityLogHandler) create(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req struct {
		Type        string  `json:"type"`
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Metadata    *string `json:"metadata"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeValidation(w, "title", "is required")
		return
	}
	typ := strings.TrimSpace(req.Type)
	if typ == "" {
		typ = "note"
	}
	a, err := h.Repo.CreateActivity(r.Context(), repository.NewActivity{
		Type:        typ,
		Title:       req.Title,
		Description: strings.TrimSpace(req.Description),
		UserID:      &user.ID,
		Metadata:    req.Metadata,
	})
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toActivityResponse(*a))
}

// list returns the most recent entries, newest first. limit defaults to 10.
func (h ActivityLogHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = min(parsed, maxActivityLimit)
		}
	}
	items, err := h.Repo.ListRecentActivities(r.Context(), limit)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	resp := make([]activityResponse, 0, len(items))
	for _, a := range items {
		resp = append(resp, toActivityResponse(a))
	}
	writeJSON(w, http.StatusOK, resp)
}
