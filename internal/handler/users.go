package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"rwa-backend/internal/repository"
	"rwa-backend/internal/server/authctx"
	"rwa-backend/internal/service"
)

type UserHandler struct {
	Service service.UserService
	Users   repository.UserStore
	Logger  *slog.Logger
}

// RegisterRoutes mounts lookups available to any signed-in user. Residents may
// only read their own record.
func (h UserHandler) RegisterRoutes(r chi.Router) {
	r.Get("/users/phone/{phone}", h.getByPhone)
	r.Get("/users/{id}", h.get)
}

func (h UserHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/users", h.list)
	r.Post("/users", h.create)
	r.Put("/users/{id}", h.update)
}

type userPayload struct {
	PhoneNumber  *string `json:"phoneNumber"`
	Name         *string `json:"name"`
	FlatNumber   *string `json:"flatNumber"`
	Tower        *string `json:"tower"`
	Role         *string `json:"role"`
	ResidentType *string `json:"residentType"`
	FlatStatus   *string `json:"flatStatus"`
	IsActive     *bool   `json:"isActive"`
}

func (h UserHandler) list(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	users, err := h.Users.ListResidents(r.Context(), activeOnly)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h UserHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if cur := authctx.FromContext(r.Context()); cur != nil && !cur.IsStaff() && cur.ID != id {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	user, err := h.Users.GetUser(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(*user))
}

func (h UserHandler) getByPhone(w http.ResponseWriter, r *http.Request) {
	phone, ok := service.NormalizePhone(chi.URLParam(r, "phone"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid phone number")
		return
	}
	if cur := authctx.FromContext(r.Context()); cur != nil && !cur.IsStaff() && cur.Phone != phone {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	user, err := h.Users.GetUserByPhone(r.Context(), phone)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(*user))
}

func (h UserHandler) create(w http.ResponseWriter, r *http.Request) {
	var req userPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	user, err := h.Service.Create(r.Context(), service.CreateUserInput{
		PhoneNumber:  deref(req.PhoneNumber),
		Name:         deref(req.Name),
		FlatNumber:   deref(req.FlatNumber),
		Tower:        deref(req.Tower),
		Role:         deref(req.Role),
		ResidentType: deref(req.ResidentType),
		FlatStatus:   deref(req.FlatStatus),
		IsActive:     req.IsActive,
	})
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(*user))
}

func (h UserHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req userPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	user, err := h.Service.Update(r.Context(), id, service.UpdateUserInput{
		PhoneNumber:  req.PhoneNumber,
		Name:         req.Name,
		FlatNumber:   req.FlatNumber,
		Tower:        req.Tower,
		Role:         req.Role,
		ResidentType: req.ResidentType,
		FlatStatus:   req.FlatStatus,
		IsActive:     req.IsActive,
	})
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(*user))
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
