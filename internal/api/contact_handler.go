package api

import (
	"encoding/json"
	"net/http"

	"instapark/internal/entities"
	"instapark/internal/utils"

	"go.uber.org/zap"
)

// ContactSaver persists contact-form submissions.
type ContactSaver interface {
	SaveMessage(req *entities.ContactRequest) error
}

type ContactHandler struct {
	svc ContactSaver
	log *zap.Logger
}

func NewContactHandler(svc ContactSaver, log *zap.Logger) *ContactHandler {
	return &ContactHandler{svc: svc, log: log}
}

// SubmitMessage handles POST /api/contact.
func (h *ContactHandler) SubmitMessage(w http.ResponseWriter, r *http.Request) {
	var req entities.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	if errs := utils.ValidateStruct(req); errs != nil {
		writeJSON(w, http.StatusBadRequest, ValidationResponse{
			Message: "Validation failed",
			Errors:  errs,
		})
		return
	}

	if err := h.svc.SaveMessage(&req); err != nil {
		h.log.Error("contact submission failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Something went wrong. Try again later."})
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Your message has been received!"})
}
