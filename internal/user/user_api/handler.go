package user_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"jastip-express/internal/auth"
	"jastip-express/internal/logger"
	"jastip-express/internal/models"
	"jastip-express/internal/user"
)

type Handler struct {
	UserService *user.UserService
	Logger      *logger.Logger
}

func NewHandler(userService *user.UserService, log *logger.Logger) *Handler {
	return &Handler{UserService: userService, Logger: log}
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, user.ErrEmailTaken):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, user.ErrInvalidCredentials):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	default:
		http.Error(w, err.Error(), http.StatusNotFound)
	}
}

type authResponse struct {
	User  *models.UserProfile   `json:"user"`
	Token *models.TokenResponse `json:"token"`
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info("API", "Signup")

	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("Signup: failed to decode request body: %v", err))
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	profile, token, err := h.UserService.Signup(r.Context(), req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("Signup: %v", err))
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(authResponse{User: profile, Token: token})
	h.Logger.LogSecurity("SIGNUP", fmt.Sprintf("account registered for %s", profile.ID))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info("API", "Login")

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("Login: failed to decode request body: %v", err))
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	profile, token, err := h.UserService.Login(r.Context(), req)
	if err != nil {
		h.Logger.Warn("API", fmt.Sprintf("Login failed for %s: %v", req.Email, err))
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(authResponse{User: profile, Token: token})
	h.Logger.LogSecurity("LOGIN", fmt.Sprintf("user %s logged in", profile.ID))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := auth.TokenClaims(r.Context())
	h.Logger.Info("API", "Logout")

	if err := h.UserService.Logout(r.Context(), claims); err != nil {
		h.Logger.Error("API", fmt.Sprintf("Logout: %v", err))
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
	h.Logger.LogSecurity("LOGOUT", fmt.Sprintf("token revoked for user %s", auth.UserID(r.Context())))
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	h.Logger.Info("API", fmt.Sprintf("GetProfile: userId=%s", userID))

	profile, err := h.UserService.GetProfile(r.Context(), userID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetProfile: %v", err))
		http.Error(w, "Profile not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(profile); err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetProfile: failed to encode response: %v", err))
	}
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	h.Logger.Info("API", fmt.Sprintf("UpdateProfile: userId=%s", userID))

	var req models.ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateProfile: failed to decode request body: %v", err))
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.UserService.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateProfile: %v", err))
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(updated); err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateProfile: failed to encode response: %v", err))
	}
}
