package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	apperrors "instapark/internal/errors"
	"instapark/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type AdminHandler struct {
	admin   *service.AdminService
	contact *service.ContactService
	log     *zap.Logger
}

func NewAdminHandler(admin *service.AdminService, contact *service.ContactService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, contact: contact, log: log}
}

// ListBookings handles GET /admin/bookings.
func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	list, err := h.admin.ListBookings(limit, offset)
	if err != nil {
		h.log.Error("listing bookings failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, MessageResponse{Message: "Could not list bookings"})
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// UpdateBookingStatus handles PUT /admin/bookings/{id}/status.
func (h *AdminHandler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, MessageResponse{Message: "Invalid booking id"})
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, MessageResponse{Message: "Invalid request body"})
		return
	}

	if err := h.admin.UpdateBookingStatus(id, req.Status); err != nil {
		writeJSON(w, apperrors.StatusOf(err), MessageResponse{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Booking status updated"})
}

// DeleteBooking handles DELETE /admin/bookings/{id}.
func (h *AdminHandler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, MessageResponse{Message: "Invalid booking id"})
		return
	}
	if err := h.admin.DeleteBooking(id); err != nil {
		writeJSON(w, apperrors.StatusOf(err), MessageResponse{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Booking deleted"})
}

// ListContactMessages handles GET /admin/messages.
func (h *AdminHandler) ListContactMessages(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	messages, err := h.contact.ListMessages(limit, offset)
	if err != nil {
		h.log.Error("listing contact messages failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, MessageResponse{Message: "Could not list messages"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}
