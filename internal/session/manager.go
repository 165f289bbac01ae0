package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"instapark/internal/booking"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSessionClosed is returned when a session has been abandoned or was
// never created.
var ErrSessionClosed = errors.New("session is closed")

// DefaultTickInterval is the reference cadence for the lifecycle check.
const DefaultTickInterval = time.Minute

// Session owns one booking wizard. HTTP requests may race on a session even
// though the flow is logically single-threaded, so every access goes through
// Do, which serializes on the session mutex.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu     sync.Mutex
	seq    *booking.Sequencer
	ctx    context.Context
	cancel context.CancelFunc
	closed bool

	// PaymentRef and PaymentURL describe the checkout session created when
	// the wizard reached the payment step, if payments are enabled. They are
	// only touched under the session mutex.
	PaymentRef string
	PaymentURL string
}

// Do runs fn with exclusive access to the sequencer. The context it passes is
// the session's own: closing the session cancels it, so a commit still in
// flight when the user navigates away resolves into a cancelled context and
// its result is discarded instead of being applied to a discarded draft.
func (s *Session) Do(fn func(ctx context.Context, seq *booking.Sequencer) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	return fn(s.ctx, s.seq)
}

// Manager tracks the in-memory wizard sessions. Drafts live only here; there
// is no durable session state across restarts.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	slots     booking.SlotSet
	committer booking.Committer
	interval  time.Duration
	log       *zap.Logger
}

// NewManager wires a session manager over the given slot fixture and committer.
func NewManager(slots booking.SlotSet, committer booking.Committer, interval time.Duration, log *zap.Logger) *Manager {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Manager{
		sessions:  make(map[string]*Session),
		slots:     slots,
		committer: committer,
		interval:  interval,
		log:       log,
	}
}

// Create opens a new wizard session, runs the lifecycle check once
// immediately, and starts the periodic re-check.
func (m *Manager) Create() *Session {
	ctx, cancel := context.WithCancel(context.Background())
	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		seq:       booking.NewSequencer(m.slots, m.committer, nil),
		ctx:       ctx,
		cancel:    cancel,
	}
	s.seq.Tick(now)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	go m.watch(s)

	m.log.Info("booking session opened", zap.String("session", s.ID))
	return s
}

// Get returns the session with the given ID, if still open.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Close abandons a session: the periodic check stops and any in-flight
// commit is discarded via context cancellation.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return false
	}

	s.cancel()
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	m.log.Info("booking session closed", zap.String("session", s.ID))
	return true
}

// Len reports the number of open sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// watch drives the periodic lifecycle check until the session closes.
func (m *Manager) watch(s *Session) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case now := <-ticker.C:
			s.mu.Lock()
			if !s.closed {
				if tr, changed := s.seq.Tick(now); changed {
					m.log.Info("booking status advanced",
						zap.String("session", s.ID),
						zap.String("from", tr.From.String()),
						zap.String("to", tr.To.String()))
				}
			}
			s.mu.Unlock()
		}
	}
}
