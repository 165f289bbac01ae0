package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCommitter records calls and can be told to fail.
type fakeCommitter struct {
	failDraft  error
	failExtend error
	failCancel error

	creates int
	extends int
	cancels int
}

func (f *fakeCommitter) CommitDraft(ctx context.Context, ref string, d *Draft) (string, error) {
	if f.failDraft != nil {
		return "", f.failDraft
	}
	f.creates++
	if ref == "" {
		ref = "1"
	}
	return ref, nil
}

func (f *fakeCommitter) CommitExtend(ctx context.Context, ref string, d *Draft) error {
	if f.failExtend != nil {
		return f.failExtend
	}
	f.extends++
	return nil
}

func (f *fakeCommitter) CommitCancel(ctx context.Context, ref string, d *Draft) error {
	if f.failCancel != nil {
		return f.failCancel
	}
	f.cancels++
	return nil
}

func testSequencer(t *testing.T, c Committer) *Sequencer {
	t.Helper()
	now := testNow(t)
	return NewSequencer(DefaultSlots(), c, func() time.Time { return now })
}

func fillStepOne(t *testing.T, s *Sequencer) {
	t.Helper()
	require.NoError(t, s.UpdateSelection(Selection{
		Location:    "downtown",
		Date:        "2024-06-01",
		StartTime:   "10:00",
		EndTime:     "12:00",
		VehicleType: VehicleSedan,
		SlotID:      "A1",
	}))
}

func TestAdvanceRequiresStepOneFields(t *testing.T) {
	c := &fakeCommitter{}
	s := testSequencer(t, c)

	err := s.Advance(context.Background(), StepSlot)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "location")
	assert.Contains(t, verr.Fields, "startTime")
	assert.Contains(t, verr.Fields, "endTime")
	assert.Equal(t, StepSlot, s.Step())
	assert.Zero(t, c.creates, "validation failure must not commit")
}

func TestAdvanceRejectsInvertedWindow(t *testing.T) {
	s := testSequencer(t, &fakeCommitter{})
	fillStepOne(t, s)
	require.NoError(t, s.UpdateSelection(Selection{StartTime: "12:00", EndTime: "10:00"}))

	err := s.Advance(context.Background(), StepSlot)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "endTime")
}

func TestAdvanceHappyPath(t *testing.T) {
	c := &fakeCommitter{}
	s := testSequencer(t, c)
	fillStepOne(t, s)

	require.NoError(t, s.Advance(context.Background(), StepSlot))
	assert.Equal(t, StepDetails, s.Step())
	assert.Equal(t, "1", s.Ref())

	notice := s.Notice()
	require.NotNil(t, notice)
	assert.Equal(t, NoticeSuccess, notice.Kind)

	require.NoError(t, s.UpdateDetails(UserDetails{Name: "Ada", Email: "ada@example.com", Phone: "+15550100"}))
	require.NoError(t, s.Advance(context.Background(), StepDetails))
	assert.Equal(t, StepPayment, s.Step())

	require.NoError(t, s.Advance(context.Background(), StepPayment))
	assert.Equal(t, StepPayment, s.Step(), "final confirmation stays on the payment step")
	assert.True(t, s.Confirmed())
	assert.Equal(t, 3, c.creates)
}

func TestAdvanceRejectsDuplicateSubmission(t *testing.T) {
	c := &fakeCommitter{}
	s := testSequencer(t, c)
	fillStepOne(t, s)

	require.NoError(t, s.Advance(context.Background(), StepSlot))
	err := s.Advance(context.Background(), StepSlot)
	assert.ErrorIs(t, err, ErrStepMismatch)
	assert.Equal(t, StepDetails, s.Step())
	assert.Equal(t, 1, c.creates)
}

func TestAdvanceCommitFailureLeavesEverythingUnchanged(t *testing.T) {
	c := &fakeCommitter{failDraft: errors.New("boom")}
	s := testSequencer(t, c)
	fillStepOne(t, s)
	before := *s.Draft()

	err := s.Advance(context.Background(), StepSlot)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrStepMismatch)

	assert.Equal(t, StepSlot, s.Step(), "step counter unchanged")
	assert.Equal(t, before, *s.Draft(), "draft unchanged")
	assert.Empty(t, s.Ref())

	notice := s.Notice()
	require.NotNil(t, notice)
	assert.Equal(t, NoticeError, notice.Kind)

	// The user retries without re-entering anything.
	c.failDraft = nil
	require.NoError(t, s.Advance(context.Background(), StepSlot))
	assert.Equal(t, StepDetails, s.Step())
}

func TestBack(t *testing.T) {
	s := testSequencer(t, &fakeCommitter{})
	fillStepOne(t, s)
	require.NoError(t, s.Advance(context.Background(), StepSlot))
	require.Equal(t, StepDetails, s.Step())

	s.Back()
	assert.Equal(t, StepSlot, s.Step())
	s.Back()
	assert.Equal(t, StepSlot, s.Step(), "cannot back out of the first step")
}

func toActivePaymentStep(t *testing.T, s *Sequencer) {
	t.Helper()
	fillStepOne(t, s)
	require.NoError(t, s.Advance(context.Background(), StepSlot))
	require.NoError(t, s.UpdateDetails(UserDetails{Name: "Ada", Email: "ada@example.com", Phone: "+15550100"}))
	require.NoError(t, s.Advance(context.Background(), StepDetails))
	_, changed := s.Tick(time.Date(2024, 6, 1, 11, 0, 0, 0, time.Local))
	require.True(t, changed)
	require.Equal(t, StatusActive, s.Draft().Status)
}

func TestExtendRejectsEarlierEnd(t *testing.T) {
	c := &fakeCommitter{}
	s := testSequencer(t, c)
	toActivePaymentStep(t, s)

	err := s.Extend(context.Background(), "11:00")
	require.ErrorIs(t, err, ErrEndBeforeCurrent)
	assert.Equal(t, "12:00", s.Draft().EndTime)
	assert.Zero(t, c.extends)
}

func TestExtendSucceeds(t *testing.T) {
	c := &fakeCommitter{}
	s := testSequencer(t, c)
	toActivePaymentStep(t, s)

	require.NoError(t, s.Extend(context.Background(), "13:00"))
	assert.Equal(t, "13:00", s.Draft().EndTime)
	assert.Equal(t, 1, c.extends)
}

func TestExtendCommitFailureLeavesEndTime(t *testing.T) {
	c := &fakeCommitter{failExtend: errors.New("down")}
	s := testSequencer(t, c)
	toActivePaymentStep(t, s)

	err := s.Extend(context.Background(), "13:00")
	require.Error(t, err)
	assert.Equal(t, "12:00", s.Draft().EndTime)
}

func TestExtendOnlyWhileActive(t *testing.T) {
	s := testSequencer(t, &fakeCommitter{})
	fillStepOne(t, s)
	err := s.Extend(context.Background(), "13:00")
	assert.ErrorIs(t, err, ErrNotActive)
}

func TestCancelCommitsFirst(t *testing.T) {
	c := &fakeCommitter{failCancel: errors.New("down")}
	s := testSequencer(t, c)
	toActivePaymentStep(t, s)

	err := s.Cancel(context.Background())
	require.Error(t, err)
	assert.Equal(t, StatusActive, s.Draft().Status, "cancellation not applied until commit succeeds")
	assert.False(t, s.Finished())

	c.failCancel = nil
	require.NoError(t, s.Cancel(context.Background()))
	assert.Equal(t, StatusCancelled, s.Draft().Status)
	assert.True(t, s.Finished())

	assert.ErrorIs(t, s.Advance(context.Background(), StepPayment), ErrFlowFinished)
}

func TestNoticeExpires(t *testing.T) {
	now := testNow(t)
	clock := func() time.Time { return now }
	s := NewSequencer(DefaultSlots(), &fakeCommitter{}, clock)
	fillStepOne(t, s)
	require.NoError(t, s.Advance(context.Background(), StepSlot))
	require.NotNil(t, s.Notice())

	now = now.Add(6 * time.Second)
	assert.Nil(t, s.Notice(), "banners auto-dismiss after five seconds")
}

func TestFreshDraftDefaults(t *testing.T) {
	s := testSequencer(t, &fakeCommitter{})
	d := s.Draft()
	assert.Equal(t, StatusUpcoming, d.Status)
	assert.Equal(t, VehicleSedan, d.VehicleType)
	assert.Equal(t, "2024-06-01", d.Date)
	assert.Empty(t, d.SelectedSlot)
}
