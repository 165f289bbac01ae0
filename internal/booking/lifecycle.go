package booking

import "time"

// Transition records a single status change fired by the evaluator.
type Transition struct {
	From Status
	To   Status
}

// Evaluate advances the draft's status against the clock and reports the
// transition it fired, if any. An upcoming booking becomes active while now
// is strictly inside the window; an upcoming or active booking becomes
// completed once now reaches the end. Terminal statuses never move, and a
// draft whose window is incomplete or malformed is skipped, so re-running
// the evaluation with no elapsed time is a no-op.
func Evaluate(d *Draft, now time.Time) (Transition, bool) {
	if d.Status.IsTerminal() {
		return Transition{}, false
	}
	start, end, ok := d.Window()
	if !ok {
		return Transition{}, false
	}

	switch {
	case d.Status == StatusUpcoming && now.After(start) && now.Before(end):
		d.Status = StatusActive
		return Transition{From: StatusUpcoming, To: StatusActive}, true
	case !now.Before(end):
		from := d.Status
		d.Status = StatusCompleted
		return Transition{From: from, To: StatusCompleted}, true
	}
	return Transition{}, false
}
