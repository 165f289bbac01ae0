package api

import (
	"encoding/json"
	"net/http"

	"instapark/internal/booking"
	"instapark/internal/entities"
	"instapark/internal/utils"
)

type SlotHandler struct {
	slots booking.SlotSet
}

func NewSlotHandler(slots booking.SlotSet) *SlotHandler {
	return &SlotHandler{slots: slots}
}

// ListSlots handles GET /api/slots.
func (h *SlotHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"slots": h.slots})
}

// QuotePrice handles POST /api/price.
func (h *SlotHandler) QuotePrice(w http.ResponseWriter, r *http.Request) {
	var req entities.PriceRequest
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

	price := booking.Price(req.StartTime, req.EndTime)
	writeJSON(w, http.StatusOK, entities.PriceResponse{
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Hours:      price / booking.HourlyRate,
		HourlyRate: booking.HourlyRate,
		Price:      booking.FormatPrice(price),
	})
}
