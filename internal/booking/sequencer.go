package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Step identifies a wizard stage.
type Step int

const (
	StepSlot Step = iota + 1
	StepDetails
	StepPayment
)

func (s Step) String() string {
	switch s {
	case StepSlot:
		return "slot"
	case StepDetails:
		return "details"
	case StepPayment:
		return "payment"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Committer persists draft changes to the booking backend. The ref identifies
// the persisted record; it is empty until the first successful create.
// A failed commit must leave no partial record behind: the sequencer
// guarantees the local draft and step stay untouched on error.
type Committer interface {
	// CommitDraft creates or refreshes the persisted record for the draft
	// and returns its ref.
	CommitDraft(ctx context.Context, ref string, d *Draft) (string, error)
	// CommitExtend persists a changed end time.
	CommitExtend(ctx context.Context, ref string, d *Draft) error
	// CommitCancel marks the persisted record cancelled.
	CommitCancel(ctx context.Context, ref string, d *Draft) error
}

// NoticeKind classifies a transient user-facing message.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeInfo    NoticeKind = "info"
)

// Notice is a transient banner. Clients dismiss it once ExpiresAt passes.
type Notice struct {
	Kind      NoticeKind `json:"kind"`
	Message   string     `json:"message"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

// noticeTTL matches the reference auto-dismiss of five seconds.
const noticeTTL = 5 * time.Second

var (
	// ErrStepMismatch is returned when an advance names a step the wizard is
	// no longer on, which is how duplicate submissions are rejected.
	ErrStepMismatch = errors.New("wizard is not on the requested step")
	// ErrFlowFinished is returned once the flow has ended in cancellation.
	ErrFlowFinished = errors.New("booking flow has finished")
	// ErrNotActive guards the session operations only available while parked.
	ErrNotActive = errors.New("parking session is not active")
)

// ValidationError lists the fields blocking a step advance.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return "invalid fields: " + strings.Join(names, ", ")
}

// Selection carries the step-1 inputs.
type Selection struct {
	Location    string
	Date        string
	StartTime   string
	EndTime     string
	VehicleType VehicleType
	SlotID      string
}

// Sequencer drives the three-step booking wizard over a single draft. It is
// not safe for concurrent use; the owning session serializes access.
type Sequencer struct {
	draft     *Draft
	step      Step
	slots     SlotSet
	committer Committer
	clock     func() time.Time

	ref       string
	confirmed bool
	finished  bool
	notice    *Notice
}

// NewSequencer starts a wizard at the slot step with a fresh draft.
// A nil clock means the wall clock.
func NewSequencer(slots SlotSet, committer Committer, clock func() time.Time) *Sequencer {
	if clock == nil {
		clock = time.Now
	}
	return &Sequencer{
		draft:     NewDraft(clock()),
		step:      StepSlot,
		slots:     slots,
		committer: committer,
		clock:     clock,
	}
}

// Draft exposes the in-progress reservation.
func (s *Sequencer) Draft() *Draft { return s.draft }

// Step returns the wizard stage currently shown.
func (s *Sequencer) Step() Step { return s.step }

// Confirmed reports whether the final confirmation commit has succeeded.
func (s *Sequencer) Confirmed() bool { return s.confirmed }

// Finished reports whether the flow has ended and no further input is taken.
func (s *Sequencer) Finished() bool { return s.finished }

// Ref returns the persisted record reference, empty before the first commit.
func (s *Sequencer) Ref() string { return s.ref }

// Notice returns the pending banner, dropping it once expired.
func (s *Sequencer) Notice() *Notice {
	if s.notice != nil && !s.clock().Before(s.notice.ExpiresAt) {
		s.notice = nil
	}
	return s.notice
}

// Price quotes the draft's current window.
func (s *Sequencer) Price() float64 { return s.draft.Price() }

// UpdateSelection applies the step-1 inputs to the draft. Empty fields are
// left as they were so partial edits are possible; an unavailable slot is
// rejected without touching the previous selection.
func (s *Sequencer) UpdateSelection(sel Selection) error {
	if s.finished {
		return ErrFlowFinished
	}
	if sel.VehicleType != "" && !sel.VehicleType.IsValid() {
		verr := &ValidationError{Fields: map[string]string{"vehicleType": "must be one of: sedan, suv, compact"}}
		s.setNotice(NoticeError, "Please choose a valid vehicle type.")
		return verr
	}
	if sel.SlotID != "" {
		if err := s.draft.SelectSlot(sel.SlotID, s.slots); err != nil {
			s.setNotice(NoticeError, "This slot is not available.")
			return err
		}
	}
	if sel.Location != "" {
		s.draft.Location = sel.Location
	}
	if sel.Date != "" {
		s.draft.Date = sel.Date
	}
	if sel.StartTime != "" {
		s.draft.StartTime = sel.StartTime
	}
	if sel.EndTime != "" {
		s.draft.EndTime = sel.EndTime
	}
	if sel.VehicleType != "" {
		s.draft.VehicleType = sel.VehicleType
	}
	return nil
}

// UpdateDetails applies the step-2 contact fields.
func (s *Sequencer) UpdateDetails(details UserDetails) error {
	if s.finished {
		return ErrFlowFinished
	}
	s.draft.UserDetails = details
	return nil
}

// Advance validates the current step centrally, commits the draft, and moves
// the wizard one step forward. from must name the step being submitted;
// a stale value means a duplicate submission and is rejected. On commit
// failure the step and the draft are left untouched so the user can retry.
// Advancing from the payment step is the final confirmation.
func (s *Sequencer) Advance(ctx context.Context, from Step) error {
	if s.finished {
		return ErrFlowFinished
	}
	if from != s.step {
		return ErrStepMismatch
	}
	if verr := s.validateStep(); verr != nil {
		s.setNotice(NoticeError, "Please complete the highlighted fields.")
		return verr
	}

	ref, err := s.committer.CommitDraft(ctx, s.ref, s.draft)
	if err != nil {
		s.setNotice(NoticeError, "Network error. Please try again.")
		return fmt.Errorf("commit booking: %w", err)
	}
	s.ref = ref

	if s.step < StepPayment {
		s.step++
		s.setNotice(NoticeSuccess, "Booking successful!")
	} else {
		s.confirmed = true
		s.setNotice(NoticeSuccess, "Booking confirmed!")
	}
	return nil
}

// Back returns to the previous step without committing anything.
func (s *Sequencer) Back() {
	if s.finished {
		return
	}
	if s.step > StepSlot {
		s.step--
	}
}

// Extend lengthens an active parking session, persisting the new end time
// before applying it. Only reachable from the payment step.
func (s *Sequencer) Extend(ctx context.Context, newEndTime string) error {
	if s.finished {
		return ErrFlowFinished
	}
	if s.step != StepPayment || s.draft.Status != StatusActive {
		return ErrNotActive
	}

	extended := *s.draft
	if err := extended.Extend(newEndTime); err != nil {
		s.setNotice(NoticeError, "The new end time must not be earlier than the current one.")
		return err
	}
	if err := s.committer.CommitExtend(ctx, s.ref, &extended); err != nil {
		s.setNotice(NoticeError, "Failed to extend session. Please try again.")
		return fmt.Errorf("commit extend: %w", err)
	}
	s.draft.EndTime = extended.EndTime
	s.setNotice(NoticeSuccess, "Session extended successfully!")
	return nil
}

// Cancel ends the booking. The cancellation is committed first; on failure
// the status is left unchanged so the user can retry. On success the flow is
// finished and the caller returns the user to the entry view.
func (s *Sequencer) Cancel(ctx context.Context) error {
	if s.finished {
		return ErrFlowFinished
	}
	if !s.draft.Status.CanBeCancelled() {
		return fmt.Errorf("%w: status is %s", ErrNotCancellable, s.draft.Status)
	}

	if err := s.committer.CommitCancel(ctx, s.ref, s.draft); err != nil {
		s.setNotice(NoticeError, "Failed to cancel booking. Please try again.")
		return fmt.Errorf("commit cancel: %w", err)
	}
	if err := s.draft.Cancel(); err != nil {
		return err
	}
	s.finished = true
	s.setNotice(NoticeInfo, "Booking cancelled successfully.")
	return nil
}

// Tick feeds the lifecycle evaluator and surfaces the transition as a banner.
func (s *Sequencer) Tick(now time.Time) (Transition, bool) {
	tr, ok := Evaluate(s.draft, now)
	if !ok {
		return Transition{}, false
	}
	switch tr.To {
	case StatusActive:
		s.setNotice(NoticeSuccess, "Your parking session has started!")
	case StatusCompleted:
		s.setNotice(NoticeInfo, "Your parking session has ended.")
	}
	return tr, true
}

// validateStep re-checks the current step's required fields server-side
// rather than trusting input-layer enforcement.
func (s *Sequencer) validateStep() *ValidationError {
	fields := map[string]string{}
	switch s.step {
	case StepSlot:
		if s.draft.Location == "" {
			fields["location"] = "required"
		}
		if s.draft.Date == "" {
			fields["date"] = "required"
		}
		if s.draft.StartTime == "" {
			fields["startTime"] = "required"
		}
		if s.draft.EndTime == "" {
			fields["endTime"] = "required"
		}
		if s.draft.VehicleType == "" {
			fields["vehicleType"] = "required"
		}
		if s.draft.StartTime != "" && s.draft.EndTime != "" {
			if start, end, ok := s.draft.Window(); ok && !end.After(start) {
				fields["endTime"] = "must be after start time"
			}
		}
	case StepDetails:
		if s.draft.UserDetails.Name == "" {
			fields["name"] = "required"
		}
		if s.draft.UserDetails.Email == "" {
			fields["email"] = "required"
		}
		if s.draft.UserDetails.Phone == "" {
			fields["phone"] = "required"
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func (s *Sequencer) setNotice(kind NoticeKind, message string) {
	s.notice = &Notice{
		Kind:      kind,
		Message:   message,
		ExpiresAt: s.clock().Add(noticeTTL),
	}
}
