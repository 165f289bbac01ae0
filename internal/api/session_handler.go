package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"instapark/internal/booking"
	"instapark/internal/entities"
	"instapark/internal/session"
	"instapark/internal/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// CheckoutCreator is the payment collaborator for the wizard's final step.
type CheckoutCreator interface {
	Enabled() bool
	CreateCheckoutSession(amountCents int64, description, customerEmail string) (string, string, error)
	RefundBySessionID(sessionID string) error
}

// SessionHandler exposes the booking wizard over HTTP. Every call responds
// with the full wizard state so the client never tracks it separately.
type SessionHandler struct {
	mgr      *session.Manager
	payments CheckoutCreator
	log      *zap.Logger
}

func NewSessionHandler(mgr *session.Manager, payments CheckoutCreator, log *zap.Logger) *SessionHandler {
	return &SessionHandler{mgr: mgr, payments: payments, log: log}
}

// Create handles POST /api/sessions.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.mgr.Create()
	resp, _ := h.snapshot(s)
	writeJSON(w, http.StatusCreated, resp)
}

// Get handles GET /api/sessions/{id}.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.mgr.Get(mux.Vars(r)["id"])
	if !ok {
		writeJSON(w, http.StatusNotFound, MessageResponse{Message: "Session not found"})
		return
	}
	resp, err := h.snapshot(s)
	if err != nil {
		writeJSON(w, http.StatusNotFound, MessageResponse{Message: "Session not found"})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// UpdateSelection handles PUT /api/sessions/{id}/selection.
func (h *SessionHandler) UpdateSelection(w http.ResponseWriter, r *http.Request) {
	var req entities.SelectionRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.withSession(w, r, func(ctx context.Context, seq *booking.Sequencer) error {
		return seq.UpdateSelection(booking.Selection{
			Location:    req.Location,
			Date:        req.Date,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			VehicleType: booking.VehicleType(req.VehicleType),
			SlotID:      req.SelectedSlot,
		})
	})
}

// UpdateDetails handles PUT /api/sessions/{id}/details.
func (h *SessionHandler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	var req entities.DetailsRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.withSession(w, r, func(ctx context.Context, seq *booking.Sequencer) error {
		return seq.UpdateDetails(booking.UserDetails{
			Name:  req.Name,
			Email: req.Email,
			Phone: req.Phone,
		})
	})
}

// Advance handles POST /api/sessions/{id}/advance.
func (h *SessionHandler) Advance(w http.ResponseWriter, r *http.Request) {
	var req entities.AdvanceRequest
	if !h.decode(w, r, &req) {
		return
	}

	s, ok := h.mgr.Get(mux.Vars(r)["id"])
	if !ok {
		writeJSON(w, http.StatusNotFound, MessageResponse{Message: "Session not found"})
		return
	}
	err := s.Do(func(ctx context.Context, seq *booking.Sequencer) error {
		if err := seq.Advance(ctx, booking.Step(req.Step)); err != nil {
			return err
		}
		h.ensureCheckout(s, seq)
		return nil
	})
	h.respond(w, s, err)
}

// Back handles POST /api/sessions/{id}/back.
func (h *SessionHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(ctx context.Context, seq *booking.Sequencer) error {
		seq.Back()
		return nil
	})
}

// Extend handles POST /api/sessions/{id}/extend.
func (h *SessionHandler) Extend(w http.ResponseWriter, r *http.Request) {
	var req entities.ExtendRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.withSession(w, r, func(ctx context.Context, seq *booking.Sequencer) error {
		return seq.Extend(ctx, req.EndTime)
	})
}

// Cancel handles POST /api/sessions/{id}/cancel. A paid booking is refunded
// after the cancellation commit succeeds.
func (h *SessionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	s, ok := h.mgr.Get(mux.Vars(r)["id"])
	if !ok {
		writeJSON(w, http.StatusNotFound, MessageResponse{Message: "Session not found"})
		return
	}
	err := s.Do(func(ctx context.Context, seq *booking.Sequencer) error {
		if err := seq.Cancel(ctx); err != nil {
			return err
		}
		if s.PaymentRef != "" && h.payments != nil && h.payments.Enabled() {
			if err := h.payments.RefundBySessionID(s.PaymentRef); err != nil {
				h.log.Warn("refund failed", zap.String("session", s.ID), zap.Error(err))
			}
		}
		return nil
	})
	h.respond(w, s, err)
}

// Delete handles DELETE /api/sessions/{id}: the user navigated away and the
// draft is abandoned.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.mgr.Close(mux.Vars(r)["id"]) {
		writeJSON(w, http.StatusNotFound, MessageResponse{Message: "Session not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ensureCheckout creates the checkout link once the wizard reaches the
// payment step. Failures are logged only; checkout is an optional extra on
// top of the flow.
func (h *SessionHandler) ensureCheckout(s *session.Session, seq *booking.Sequencer) {
	if h.payments == nil || !h.payments.Enabled() {
		return
	}
	if seq.Step() != booking.StepPayment || s.PaymentRef != "" {
		return
	}
	d := seq.Draft()
	url, id, err := h.payments.CreateCheckoutSession(
		booking.PriceCents(seq.Price()),
		"InstaPark parking "+d.Date+" "+d.StartTime+"-"+d.EndTime,
		d.UserDetails.Email,
	)
	if err != nil {
		h.log.Warn("checkout session not created", zap.String("session", s.ID), zap.Error(err))
		return
	}
	s.PaymentRef = id
	s.PaymentURL = url
}

func (h *SessionHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, MessageResponse{Message: "Invalid request body"})
		return false
	}
	if errs := utils.ValidateStruct(v); errs != nil {
		writeJSON(w, http.StatusBadRequest, ValidationResponse{
			Message: "Validation failed",
			Errors:  errs,
		})
		return false
	}
	return true
}

func (h *SessionHandler) withSession(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, seq *booking.Sequencer) error) {
	s, ok := h.mgr.Get(mux.Vars(r)["id"])
	if !ok {
		writeJSON(w, http.StatusNotFound, MessageResponse{Message: "Session not found"})
		return
	}
	h.respond(w, s, s.Do(fn))
}

// respond maps the sequencer's errors to statuses, then returns the wizard
// state. Commit failures are retryable: the state in the body shows the step
// and draft untouched.
func (h *SessionHandler) respond(w http.ResponseWriter, s *session.Session, err error) {
	if err != nil {
		var verr *booking.ValidationError
		switch {
		case errors.Is(err, session.ErrSessionClosed):
			writeJSON(w, http.StatusNotFound, MessageResponse{Message: "Session not found"})
			return
		case errors.As(err, &verr):
			writeJSON(w, http.StatusBadRequest, ValidationResponse{
				Message: "Validation failed",
				Errors:  verr.Fields,
			})
			return
		case errors.Is(err, booking.ErrSlotUnavailable):
			writeJSON(w, http.StatusBadRequest, MessageResponse{Message: "This slot is not available."})
			return
		case errors.Is(err, booking.ErrEndBeforeCurrent):
			writeJSON(w, http.StatusBadRequest, MessageResponse{Message: "The new end time must not be earlier than the current one."})
			return
		case errors.Is(err, booking.ErrStepMismatch),
			errors.Is(err, booking.ErrFlowFinished),
			errors.Is(err, booking.ErrNotActive),
			errors.Is(err, booking.ErrNotCancellable):
			writeJSON(w, http.StatusConflict, MessageResponse{Message: err.Error()})
			return
		default:
			h.log.Warn("session commit failed", zap.String("session", s.ID), zap.Error(err))
			writeJSON(w, http.StatusBadGateway, MessageResponse{Message: "Network error. Please try again."})
			return
		}
	}

	resp, err := h.snapshot(s)
	if err != nil {
		writeJSON(w, http.StatusNotFound, MessageResponse{Message: "Session not found"})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SessionHandler) snapshot(s *session.Session) (entities.SessionResponse, error) {
	var resp entities.SessionResponse
	err := s.Do(func(ctx context.Context, seq *booking.Sequencer) error {
		var notice *booking.Notice
		if n := seq.Notice(); n != nil {
			copied := *n
			notice = &copied
		}
		resp = entities.SessionResponse{
			ID:         s.ID,
			Step:       int(seq.Step()),
			Confirmed:  seq.Confirmed(),
			Draft:      *seq.Draft(),
			Price:      booking.FormatPrice(seq.Price()),
			Notice:     notice,
			PaymentURL: s.PaymentURL,
		}
		return nil
	})
	return resp, err
}
