package entities

// PriceRequest asks for a quote over a time-of-day window.
type PriceRequest struct {
	StartTime string `json:"startTime" validate:"required,datetime=15:04"`
	EndTime   string `json:"endTime" validate:"required,datetime=15:04"`
}

// PriceResponse is a quote at the hourly rate, formatted to two decimals.
type PriceResponse struct {
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	Hours      float64 `json:"hours"`
	HourlyRate float64 `json:"hourlyRate"`
	Price      string  `json:"price"`
}
