package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"rwa-backend/internal/domain"
	"rwa-backend/internal/repository"
	"rwa-backend/internal/server/authctx"
	"rwa-backend/internal/service"
)

type ComplaintHandler struct {
	Service    service.ComplaintService
	Complaints repository.ComplaintStore
	Logger     *slog.Logger
}

func (h ComplaintHandler) RegisterRoutes(r chi.Router) {
	r.Get("/complaints", h.list)
	r.Get("/complaints/{id}", h.get)
	r.Post("/complaints", h.create)
}

// RegisterStaffRoutes mounts routes shared by admins and watchmen.
func (h ComplaintHandler) RegisterStaffRoutes(r chi.Router) {
	r.Put("/complaints/{id}/status", h.updateStatus)
}

func (h ComplaintHandler) RegisterAdminRoutes(r chi.Router) {
	r.Put("/complaints/{id}", h.update)
}

func (h ComplaintHandler) list(w http.ResponseWriter, r *http.Request) {
	cur := authctx.FromContext(r.Context())
	var (
		items []domain.Complaint
		err   error
	)
	switch {
	case cur != nil && !cur.IsStaff():
		items, err = h.Complaints.ListComplaintsByResident(r.Context(), cur.ID)
	case r.URL.Query().Get("residentId") != "":
		id, perr := strconv.ParseInt(r.URL.Query().Get("residentId"), 10, 64)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "invalid residentId")
			return
		}
		items, err = h.Complaints.ListComplaintsByResident(r.Context(), id)
	default:
		items, err = h.Complaints.ListComplaints(r.Context())
	}
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	staff := cur == nil || cur.IsStaff()
	out := make([]complaintResponse, 0, len(items))
	for _, c := range items {
		out = append(out, toComplaintResponse(c, staff))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h ComplaintHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := h.Complaints.GetComplaint(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	cur := authctx.FromContext(r.Context())
	if cur != nil && !cur.IsStaff() && c.ResidentID != cur.ID {
		writeServiceError(w, h.Logger, repository.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toComplaintResponse(*c, cur == nil || cur.IsStaff()))
}

// create files a complaint. Residents always file for themselves and their
// flat; staff may file on behalf of a resident.
func (h ComplaintHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ResidentID  int64   `json:"residentId"`
		FlatNumber  string  `json:"flatNumber"`
		Type        string  `json:"type"`
		Subject     string  `json:"subject"`
		Description string  `json:"description"`
		PhotoURL    *string `json:"photoUrl"`
		Priority    string  `json:"priority"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	cur := authctx.FromContext(r.Context())
	if cur != nil && !cur.IsStaff() {
		req.ResidentID = cur.ID
		req.FlatNumber = cur.FlatNumber
	}
	c, err := h.Service.Create(r.Context(), service.CreateComplaintInput{
		ResidentID:  req.ResidentID,
		FlatNumber:  req.FlatNumber,
		Type:        req.Type,
		Subject:     req.Subject,
		Description: req.Description,
		PhotoURL:    req.PhotoURL,
		Priority:    req.Priority,
	})
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toComplaintResponse(*c, cur == nil || cur.IsStaff()))
}

func (h ComplaintHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Type          *string `json:"type"`
		Subject       *string `json:"subject"`
		Description   *string `json:"description"`
		PhotoURL      *string `json:"photoUrl"`
		Priority      *string `json:"priority"`
		AssignedTo    *string `json:"assignedTo"`
		InternalNotes *string `json:"internalNotes"`
		Status        *string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	in := service.UpdateComplaintInput{
		Type:          req.Type,
		Subject:       req.Subject,
		Description:   req.Description,
		PhotoURL:      req.PhotoURL,
		Priority:      req.Priority,
		AssignedTo:    req.AssignedTo,
		InternalNotes: req.InternalNotes,
		Status:        req.Status,
	}
	if cur := authctx.FromContext(r.Context()); cur != nil {
		in.ActorID = &cur.ID
	}
	c, err := h.Service.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toComplaintResponse(*c, true))
}

func (h ComplaintHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	c, err := h.Service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toComplaintResponse(*c, true))
}
