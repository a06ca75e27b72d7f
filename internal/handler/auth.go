package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"rwa-backend/internal/repository"
	"rwa-backend/internal/server/authctx"
	"rwa-backend/internal/service"
)

type AuthHandler struct {
	Service *service.AuthService
	Users   repository.UserStore
	Logger  *slog.Logger
}

func (h AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/otp", h.requestOTP)
	r.Post("/auth/login", h.login)
	r.Post("/auth/refresh", h.refresh)
}

func (h AuthHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/me", h.me)
}

func (h AuthHandler) requestOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PhoneNumber string `json:"phoneNumber"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	res, err := h.Service.RequestOTP(r.Context(), req.PhoneNumber)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	payload := map[string]any{
		"phoneNumber": res.Phone,
		"expiresIn":   int(res.ExpiresIn / time.Second),
	}
	if res.Code != "" {
		payload["code"] = res.Code
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PhoneNumber string `json:"phoneNumber"`
		OTP         string `json:"otp"`
		Name        string `json:"name"`
		FlatNumber  string `json:"flatNumber"`
		Tower       string `json:"tower"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	res, err := h.Service.Login(r.Context(), service.LoginInput{
		PhoneNumber: req.PhoneNumber,
		OTP:         req.OTP,
		Name:        req.Name,
		FlatNumber:  req.FlatNumber,
		Tower:       req.Tower,
	})
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeAuthResponse(w, res)
}

func (h AuthHandler) refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	res, err := h.Service.Refresh(r.Context(), service.RefreshInput{RefreshToken: req.RefreshToken})
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeAuthResponse(w, res)
}

func (h AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	cur := authctx.FromContext(r.Context())
	if cur == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	user, err := h.Users.GetUser(r.Context(), cur.ID)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(*user))
}

func writeAuthResponse(w http.ResponseWriter, res *service.AuthResult) {
	writeJSON(w, http.StatusOK, map[string]any{
		"token":        res.AccessToken,
		"refreshToken": res.RefreshToken,
		"expiresAt":    res.ExpiresAt.UTC().Format(time.RFC3339),
		"registered":   res.Registered,
		"user":         toUserResponse(res.User),
	})
}
