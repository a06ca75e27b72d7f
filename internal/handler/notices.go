package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"rwa-backend/internal/repository"
	"rwa-backend/internal/server/authctx"
	"rwa-backend/internal/service"
)

type NoticeHandler struct {
	Service service.NoticeService
	Notices repository.NoticeStore
	Logger  *slog.Logger
}

func (h NoticeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/notices", h.list)
}

func (h NoticeHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/notices", h.create)
	r.Put("/notices/{id}", h.update)
	r.Delete("/notices/{id}", h.delete)
}

func (h NoticeHandler) list(w http.ResponseWriter, r *http.Request) {
	notices, err := h.Notices.ListNotices(r.Context())
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	out := make([]noticeResponse, 0, len(notices))
	for _, n := range notices {
		out = append(out, toNoticeResponse(n))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h NoticeHandler) create(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		IsImportant bool   `json:"isImportant"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	n, err := h.Service.Create(r.Context(), service.CreateNoticeInput{
		Title:       req.Title,
		Description: req.Description,
		AdminID:     user.ID,
		IsImportant: req.IsImportant,
	})
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toNoticeResponse(*n))
}

func (h NoticeHandler) update(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		IsImportant *bool   `json:"isImportant"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	n, err := h.Service.Update(r.Context(), id, service.UpdateNoticeInput{
		Title:       req.Title,
		Description: req.Description,
		IsImportant: req.IsImportant,
		ActorID:     user.ID,
	})
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toNoticeResponse(*n))
}

func (h NoticeHandler) delete(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), id, user.ID); err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
