package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"instapark/internal/booking"
	"instapark/internal/entities"
	"instapark/internal/session"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type wizardCommitter struct {
	mu         sync.Mutex
	failDraft  bool
	draftCalls int
	cancels    int
}

func (c *wizardCommitter) CommitDraft(ctx context.Context, ref string, d *booking.Draft) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draftCalls++
	if c.failDraft {
		return "", errors.New("backend unavailable")
	}
	if ref == "" {
		return "41", nil
	}
	return ref, nil
}

func (c *wizardCommitter) CommitExtend(ctx context.Context, ref string, d *booking.Draft) error {
	return nil
}

func (c *wizardCommitter) CommitCancel(ctx context.Context, ref string, d *booking.Draft) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancels++
	return nil
}

type stubPayments struct{ enabled bool }

func (p *stubPayments) Enabled() bool { return p.enabled }

func (p *stubPayments) CreateCheckoutSession(amountCents int64, description, customerEmail string) (string, string, error) {
	return "https://pay.example/cs_test_1", "cs_test_1", nil
}

func (p *stubPayments) RefundBySessionID(sessionID string) error { return nil }

func newWizardRouter(t *testing.T, committer booking.Committer, payments CheckoutCreator) (*mux.Router, *session.Manager) {
	t.Helper()
	mgr := session.NewManager(booking.DefaultSlots(), committer, time.Hour, zap.NewNop())
	h := NewSessionHandler(mgr, payments, zap.NewNop())

	r := mux.NewRouter()
	r.HandleFunc("/api/sessions", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/api/sessions/{id}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/api/sessions/{id}", h.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/api/sessions/{id}/selection", h.UpdateSelection).Methods(http.MethodPut)
	r.HandleFunc("/api/sessions/{id}/details", h.UpdateDetails).Methods(http.MethodPut)
	r.HandleFunc("/api/sessions/{id}/advance", h.Advance).Methods(http.MethodPost)
	r.HandleFunc("/api/sessions/{id}/back", h.Back).Methods(http.MethodPost)
	r.HandleFunc("/api/sessions/{id}/extend", h.Extend).Methods(http.MethodPost)
	r.HandleFunc("/api/sessions/{id}/cancel", h.Cancel).Methods(http.MethodPost)
	return r, mgr
}

func doJSON(t *testing.T, r *mux.Router, method, path, body string) (*httptest.ResponseRecorder, entities.SessionResponse) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var resp entities.SessionResponse
	if rec.Code < 300 && rec.Code != http.StatusNoContent {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

const selectionBody = `{
	"location": "downtown",
	"date": "2099-01-01",
	"startTime": "10:00",
	"endTime": "12:00",
	"vehicleType": "suv",
	"selectedSlot": "A1"
}`

const detailsBody = `{"name": "Ada", "email": "ada@example.com", "phone": "+15550100"}`

func TestWizard_HappyPath(t *testing.T) {
	committer := &wizardCommitter{}
	r, _ := newWizardRouter(t, committer, &stubPayments{enabled: true})

	rec, resp := doJSON(t, r, http.MethodPost, "/api/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotEmpty(t, resp.ID)
	assert.Equal(t, 1, resp.Step)
	id := resp.ID

	rec, resp = doJSON(t, r, http.MethodPut, "/api/sessions/"+id+"/selection", selectionBody)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "A1", resp.Draft.SelectedSlot)
	assert.Equal(t, "5.00", resp.Price)

	rec, resp = doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/advance", `{"step": 1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, resp.Step)

	rec, _ = doJSON(t, r, http.MethodPut, "/api/sessions/"+id+"/details", detailsBody)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp = doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/advance", `{"step": 2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, resp.Step)
	assert.Equal(t, "https://pay.example/cs_test_1", resp.PaymentURL)

	rec, resp = doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/advance", `{"step": 3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Confirmed)
	require.NotNil(t, resp.Notice)
	assert.Equal(t, booking.NoticeSuccess, resp.Notice.Kind)

	assert.Equal(t, 3, committer.draftCalls)
}

func TestAdvance_CommitFailureLeavesStateUntouched(t *testing.T) {
	committer := &wizardCommitter{failDraft: true}
	r, _ := newWizardRouter(t, committer, nil)

	_, created := doJSON(t, r, http.MethodPost, "/api/sessions", "")
	id := created.ID
	doJSON(t, r, http.MethodPut, "/api/sessions/"+id+"/selection", selectionBody)

	rec, _ := doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/advance", `{"step": 1}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var body MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Network error. Please try again.", body.Message)

	rec, resp := doJSON(t, r, http.MethodGet, "/api/sessions/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, resp.Step)
	assert.Equal(t, "A1", resp.Draft.SelectedSlot, "draft survives the failed commit")
}

func TestAdvance_DuplicateSubmissionRejected(t *testing.T) {
	r, _ := newWizardRouter(t, &wizardCommitter{}, nil)

	_, created := doJSON(t, r, http.MethodPost, "/api/sessions", "")
	id := created.ID
	doJSON(t, r, http.MethodPut, "/api/sessions/"+id+"/selection", selectionBody)

	rec, _ := doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/advance", `{"step": 1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// The retry of the same submission finds the wizard on step 2 already.
	rec, _ = doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/advance", `{"step": 1}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAdvance_IncompleteStepReportsFields(t *testing.T) {
	r, _ := newWizardRouter(t, &wizardCommitter{}, nil)

	_, created := doJSON(t, r, http.MethodPost, "/api/sessions", "")
	id := created.ID

	rec, _ := doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/advance", `{"step": 1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body ValidationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Errors, "location")
}

func TestSelection_UnavailableSlotKeepsPrevious(t *testing.T) {
	r, _ := newWizardRouter(t, &wizardCommitter{}, nil)

	_, created := doJSON(t, r, http.MethodPost, "/api/sessions", "")
	id := created.ID
	doJSON(t, r, http.MethodPut, "/api/sessions/"+id+"/selection", selectionBody)

	rec, _ := doJSON(t, r, http.MethodPut, "/api/sessions/"+id+"/selection", `{"selectedSlot": "A3"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "This slot is not available.", body.Message)

	rec, resp := doJSON(t, r, http.MethodGet, "/api/sessions/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "A1", resp.Draft.SelectedSlot)
}

func TestCancel_RefundsAndFinishesFlow(t *testing.T) {
	committer := &wizardCommitter{}
	r, _ := newWizardRouter(t, committer, &stubPayments{enabled: true})

	_, created := doJSON(t, r, http.MethodPost, "/api/sessions", "")
	id := created.ID
	doJSON(t, r, http.MethodPut, "/api/sessions/"+id+"/selection", selectionBody)
	doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/advance", `{"step": 1}`)

	rec, _ := doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/cancel", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, committer.cancels)

	// The flow is over; further advances are rejected.
	rec, _ = doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/advance", `{"step": 2}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDelete_ClosesSession(t *testing.T) {
	r, mgr := newWizardRouter(t, &wizardCommitter{}, nil)

	_, created := doJSON(t, r, http.MethodPost, "/api/sessions", "")
	id := created.ID

	rec, _ := doJSON(t, r, http.MethodDelete, "/api/sessions/"+id, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, mgr.Len())

	rec, _ = doJSON(t, r, http.MethodGet, "/api/sessions/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
