package session

import (
	"context"
	"testing"
	"time"

	"instapark/internal/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubCommitter struct {
	block chan struct{} // when set, CommitDraft waits for ctx or the channel
}

func (c *stubCommitter) CommitDraft(ctx context.Context, ref string, d *booking.Draft) (string, error) {
	if c.block != nil {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-c.block:
		}
	}
	return "1", nil
}

func (c *stubCommitter) CommitExtend(ctx context.Context, ref string, d *booking.Draft) error {
	return nil
}

func (c *stubCommitter) CommitCancel(ctx context.Context, ref string, d *booking.Draft) error {
	return nil
}

func newTestManager(c booking.Committer) *Manager {
	return NewManager(booking.DefaultSlots(), c, time.Hour, zap.NewNop())
}

func TestCreateAndGet(t *testing.T) {
	m := newTestManager(&stubCommitter{})
	s := m.Create()
	require.NotEmpty(t, s.ID)
	assert.Equal(t, 1, m.Len())

	got, ok := m.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)

	_, ok = m.Get("nope")
	assert.False(t, ok)
}

func TestDoSerializesAccess(t *testing.T) {
	m := newTestManager(&stubCommitter{})
	s := m.Create()

	err := s.Do(func(ctx context.Context, seq *booking.Sequencer) error {
		seq.Draft().Location = "mall"
		return nil
	})
	require.NoError(t, err)

	err = s.Do(func(ctx context.Context, seq *booking.Sequencer) error {
		assert.Equal(t, "mall", seq.Draft().Location)
		return nil
	})
	require.NoError(t, err)
}

func TestCloseStopsSession(t *testing.T) {
	m := newTestManager(&stubCommitter{})
	s := m.Create()

	require.True(t, m.Close(s.ID))
	assert.Equal(t, 0, m.Len())
	assert.False(t, m.Close(s.ID), "double close")

	err := s.Do(func(ctx context.Context, seq *booking.Sequencer) error { return nil })
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestCloseDiscardsInFlightCommit(t *testing.T) {
	c := &stubCommitter{block: make(chan struct{})}
	m := newTestManager(c)
	s := m.Create()

	done := make(chan error, 1)
	go func() {
		done <- s.Do(func(ctx context.Context, seq *booking.Sequencer) error {
			require.NoError(t, seq.UpdateSelection(booking.Selection{
				Location:    "downtown",
				Date:        "2099-01-01",
				StartTime:   "10:00",
				EndTime:     "12:00",
				VehicleType: booking.VehicleSedan,
			}))
			return seq.Advance(ctx, booking.StepSlot)
		})
	}()

	// Give the goroutine time to enter the blocked commit, then abandon the
	// session. Close cancels the session context, which unblocks the commit
	// with an error, so its result is never applied.
	time.Sleep(50 * time.Millisecond)
	go m.Close(s.ID)

	err := <-done
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTickAdvancesDraftThroughManager(t *testing.T) {
	m := newTestManager(&stubCommitter{})
	s := m.Create()

	err := s.Do(func(ctx context.Context, seq *booking.Sequencer) error {
		d := seq.Draft()
		d.Date = "2024-06-01"
		d.StartTime = "10:00"
		d.EndTime = "12:00"
		_, changed := seq.Tick(time.Date(2024, 6, 1, 11, 0, 0, 0, time.Local))
		assert.True(t, changed)
		assert.Equal(t, booking.StatusActive, d.Status)
		return nil
	})
	require.NoError(t, err)
}
