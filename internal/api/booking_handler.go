package api

import (
	"encoding/json"
	"net/http"

	"instapark/internal/entities"
	"instapark/internal/utils"

	"go.uber.org/zap"
)

// BookingCreator persists a booking record.
type BookingCreator interface {
	CreateBooking(req *entities.BookingRequest) (int, error)
}

type BookingHandler struct {
	svc BookingCreator
	log *zap.Logger
}

func NewBookingHandler(svc BookingCreator, log *zap.Logger) *BookingHandler {
	return &BookingHandler{svc: svc, log: log}
}

// CreateBooking handles POST /api/bookings.
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req entities.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, MessageResponse{Message: "Invalid request body"})
		return
	}
	if errs := utils.ValidateStruct(req); errs != nil {
		writeJSON(w, http.StatusBadRequest, ValidationResponse{
			Message: "Validation failed",
			Errors:  errs,
		})
		return
	}

	if _, err := h.svc.CreateBooking(&req); err != nil {
		h.log.Error("booking creation failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, MessageResponse{Message: "Internal server error"})
		return
	}
	writeJSON(w, http.StatusCreated, MessageResponse{Message: "Booking created successfully"})
}
