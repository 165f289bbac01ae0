package db

import "time"

// Booking is the persisted record; its fields mirror the wizard draft 1:1.
// Date and times keep the client's string form, status is constrained to the
// four-value lifecycle enumeration.
type Booking struct {
	ID           int
	Location     string
	Date         string
	StartTime    string
	EndTime      string
	VehicleType  string
	SelectedSlot string
	Status       string
	UserName     string
	UserEmail    string
	UserPhone    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ContactMessage is a persisted contact-form submission.
type ContactMessage struct {
	ID        int
	Name      string
	Email     string
	Subject   string
	Message   string
	CreatedAt time.Time
}
