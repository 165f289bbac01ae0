package entities

import "instapark/internal/booking"

// SelectionRequest carries the step-1 inputs of the wizard. All fields are
// optional so the client can save partial edits; presence is enforced
// centrally when the step is advanced.
type SelectionRequest struct {
	Location     string `json:"location"`
	Date         string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	StartTime    string `json:"startTime" validate:"omitempty,datetime=15:04"`
	EndTime      string `json:"endTime" validate:"omitempty,datetime=15:04"`
	VehicleType  string `json:"vehicleType" validate:"omitempty,oneof=sedan suv compact"`
	SelectedSlot string `json:"selectedSlot"`
}

// DetailsRequest carries the step-2 contact fields.
type DetailsRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required"`
}

// AdvanceRequest names the step being submitted, guarding double submits.
type AdvanceRequest struct {
	Step int `json:"step" validate:"required,min=1,max=3"`
}

// ExtendRequest asks for a later end time on an active session.
type ExtendRequest struct {
	EndTime string `json:"endTime" validate:"required,datetime=15:04"`
}

// SessionResponse is the wizard state returned after every session call.
type SessionResponse struct {
	ID         string          `json:"id"`
	Step       int             `json:"step"`
	Confirmed  bool            `json:"confirmed"`
	Draft      booking.Draft   `json:"draft"`
	Price      string          `json:"price"`
	Notice     *booking.Notice `json:"notice,omitempty"`
	PaymentURL string          `json:"paymentUrl,omitempty"`
}
