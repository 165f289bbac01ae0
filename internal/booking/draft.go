package booking

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrSlotUnavailable is returned when a slot is unknown or occupied.
	ErrSlotUnavailable = errors.New("slot is not available")
	// ErrNotCancellable is returned when cancelling from a terminal status.
	ErrNotCancellable = errors.New("booking can no longer be cancelled")
	// ErrEndBeforeCurrent is returned when an extension would shorten the session.
	ErrEndBeforeCurrent = errors.New("new end time is earlier than current end time")
)

// VehicleType is the kind of vehicle a booking is for.
type VehicleType string

const (
	VehicleSedan   VehicleType = "sedan"
	VehicleSUV     VehicleType = "suv"
	VehicleCompact VehicleType = "compact"
)

// IsValid returns true for one of the recognized vehicle types.
func (v VehicleType) IsValid() bool {
	switch v {
	case VehicleSedan, VehicleSUV, VehicleCompact:
		return true
	}
	return false
}

// UserDetails are the contact fields collected in the details step.
type UserDetails struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Draft is the in-progress reservation owned by a single wizard session.
// It is never persisted as-is; commits send a snapshot of it to the backend.
type Draft struct {
	Location     string      `json:"location"`
	Date         string      `json:"date"`
	StartTime    string      `json:"startTime"`
	EndTime      string      `json:"endTime"`
	VehicleType  VehicleType `json:"vehicleType"`
	SelectedSlot string      `json:"selectedSlot"`
	UserDetails  UserDetails `json:"userDetails"`
	Status       Status      `json:"status"`
}

// NewDraft returns a fresh draft dated today, defaulting to a sedan.
func NewDraft(now time.Time) *Draft {
	return &Draft{
		Date:        now.Format(dateLayout),
		VehicleType: VehicleSedan,
		Status:      StatusUpcoming,
	}
}

// SelectSlot records the chosen slot after checking it against the slot set.
// On failure the previous selection is kept.
func (d *Draft) SelectSlot(id string, slots SlotSet) error {
	if !slots.CheckAvailability(id) {
		return fmt.Errorf("%w: %q", ErrSlotUnavailable, id)
	}
	d.SelectedSlot = id
	return nil
}

// Window resolves the draft's date and times into local instants. ok is false
// when any part is missing or malformed, which is the normal shape of a draft
// the user has not finished filling in.
func (d *Draft) Window() (start, end time.Time, ok bool) {
	if d.Date == "" || d.StartTime == "" || d.EndTime == "" {
		return time.Time{}, time.Time{}, false
	}
	layout := dateLayout + "T" + timeLayout
	start, err := time.ParseInLocation(layout, d.Date+"T"+d.StartTime, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err = time.ParseInLocation(layout, d.Date+"T"+d.EndTime, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// Extend moves the end time forward. The new end may not be earlier than the
// current one; the slot is retained without re-checking availability.
func (d *Draft) Extend(newEndTime string) error {
	current, err := time.Parse(timeLayout, d.EndTime)
	if err != nil {
		return fmt.Errorf("current end time %q is not valid: %w", d.EndTime, err)
	}
	next, err := time.Parse(timeLayout, newEndTime)
	if err != nil {
		return fmt.Errorf("new end time %q is not valid: %w", newEndTime, err)
	}
	if next.Before(current) {
		return ErrEndBeforeCurrent
	}
	d.EndTime = newEndTime
	return nil
}

// Cancel moves the draft to cancelled if it is not already terminal.
func (d *Draft) Cancel() error {
	if !d.Status.CanBeCancelled() {
		return fmt.Errorf("%w: status is %s", ErrNotCancellable, d.Status)
	}
	d.Status = StatusCancelled
	return nil
}

// Price quotes the draft's current window.
func (d *Draft) Price() float64 {
	return Price(d.StartTime, d.EndTime)
}
