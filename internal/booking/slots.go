package booking

// Slot is a single parking space with a fixed availability flag. Availability
// is a static fixture; there is no cross-session reservation tracking.
type Slot struct {
	ID        string `json:"id"`
	Available bool   `json:"available"`
}

// SlotSet is the reference set of slots a session validates against.
type SlotSet []Slot

// DefaultSlots returns the lot layout of the reference deployment.
func DefaultSlots() SlotSet {
	return SlotSet{
		{ID: "A1", Available: true},
		{ID: "A2", Available: true},
		{ID: "A3", Available: false},
		{ID: "B1", Available: true},
		{ID: "B2", Available: true},
		{ID: "B3", Available: true},
		{ID: "C1", Available: false},
		{ID: "C2", Available: true},
		{ID: "C3", Available: true},
	}
}

// Find returns the slot with the given ID, if present.
func (s SlotSet) Find(id string) (Slot, bool) {
	for _, slot := range s {
		if slot.ID == id {
			return slot, true
		}
	}
	return Slot{}, false
}

// CheckAvailability reports whether id names a known, available slot.
// Unknown identifiers are treated the same as occupied ones.
func (s SlotSet) CheckAvailability(id string) bool {
	slot, ok := s.Find(id)
	return ok && slot.Available
}
