package entities

import "time"

// BookingResponse is a persisted booking as returned to admin listings.
type BookingResponse struct {
	ID           int         `json:"id"`
	Location     string      `json:"location"`
	Date         string      `json:"date"`
	StartTime    string      `json:"startTime"`
	EndTime      string      `json:"endTime"`
	VehicleType  string      `json:"vehicleType"`
	SelectedSlot string      `json:"selectedSlot"`
	Status       string      `json:"status"`
	UserDetails  UserDetails `json:"userDetails"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// BookingsList is a paged admin listing.
type BookingsList struct {
	Total    int64             `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
	Bookings []BookingResponse `json:"bookings"`
}
