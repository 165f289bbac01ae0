package api

import (
	"encoding/json"
	"net/http"

	"instapark/internal/service"
)

type AdminAuthHandler struct {
	service service.AdminAuthService
}

func NewAdminAuthHandler(svc service.AdminAuthService) *AdminAuthHandler {
	return &AdminAuthHandler{service: svc}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// Login handles POST /admin/login.
func (h *AdminAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, MessageResponse{Message: "Invalid request body"})
		return
	}

	token, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, MessageResponse{Message: "Invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Token: token})
}

// Register handles POST /admin/register.
func (h *AdminAuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, MessageResponse{Message: "Invalid request body"})
		return
	}

	if err := h.service.CreateAdmin(req.Email, req.Password); err != nil {
		writeJSON(w, http.StatusInternalServerError, MessageResponse{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Admin registered successfully"})
}
