package entities

// UserDetails are the contact fields nested in a booking body.
type UserDetails struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required"`
}

// BookingRequest is the body of POST /api/bookings. It mirrors the wizard
// draft one to one.
type BookingRequest struct {
	Location     string      `json:"location" validate:"required"`
	Date         string      `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime    string      `json:"startTime" validate:"required,datetime=15:04"`
	EndTime      string      `json:"endTime" validate:"required,datetime=15:04"`
	VehicleType  string      `json:"vehicleType" validate:"required,oneof=sedan suv compact"`
	SelectedSlot string      `json:"selectedSlot"`
	Status       string      `json:"status" validate:"omitempty,oneof=upcoming active completed cancelled"`
	UserDetails  UserDetails `json:"userDetails"`
}
