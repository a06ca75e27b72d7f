package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"rwa-backend/internal/server/authctx"
	"rwa-backend/internal/service"
)

type BillingFieldHandler struct {
	Service service.BillingFieldService
	Logger  *slog.Logger
}

func (h BillingFieldHandler) RegisterRoutes(r chi.Router) {
	r.Get("/billing-fields", h.list)
}

func (h BillingFieldHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/billing-fields", h.create)
	r.Put("/billing-fields/{id}", h.update)
	r.Delete("/billing-fields/{id}", h.delete)
}

type billingFieldPayload struct {
	Name         string           `json:"name"`
	Label        *string          `json:"label"`
	Type         *string          `json:"type"`
	Category     *string          `json:"category"`
	DefaultValue *decimal.Decimal `json:"defaultValue"`
	Rate         *decimal.Decimal `json:"rate"`
	Unit         *string          `json:"unit"`
	Description  *string          `json:"description"`
	Formula      *string          `json:"formula"`
	SortOrder    *int             `json:"sortOrder"`
	IsActive     *bool            `json:"isActive"`
}

// list returns active fields. Admins may pass includeInactive=true.
func (h BillingFieldHandler) list(w http.ResponseWriter, r *http.Request) {
	includeInactive := false
	if cur := authctx.FromContext(r.Context()); cur != nil && cur.IsAdmin() {
		includeInactive = r.URL.Query().Get("includeInactive") == "true"
	}
	fields, err := h.Service.List(r.Context(), includeInactive)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	out := make([]billingFieldResponse, 0, len(fields))
	for _, f := range fields {
		out = append(out, toBillingFieldResponse(f))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h BillingFieldHandler) create(w http.ResponseWriter, r *http.Request) {
	var req billingFieldPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	sortOrder := 0
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}
	f, err := h.Service.Create(r.Context(), service.BillingFieldInput{
		Name:         req.Name,
		Label:        deref(req.Label),
		Type:         deref(req.Type),
		Category:     deref(req.Category),
		DefaultValue: req.DefaultValue,
		Rate:         req.Rate,
		Unit:         req.Unit,
		Description:  req.Description,
		Formula:      req.Formula,
		SortOrder:    sortOrder,
		IsActive:     req.IsActive,
	})
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBillingFieldResponse(*f))
}

func (h BillingFieldHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req billingFieldPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	f, err := h.Service.Update(r.Context(), id, service.BillingFieldPatch{
		Label:        req.Label,
		Type:         req.Type,
		Category:     req.Category,
		DefaultValue: req.DefaultValue,
		Rate:         req.Rate,
		Unit:         req.Unit,
		Description:  req.Description,
		Formula:      req.Formula,
		SortOrder:    req.SortOrder,
		IsActive:     req.IsActive,
	})
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toBillingFieldResponse(*f))
}

func (h BillingFieldHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
