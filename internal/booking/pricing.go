package booking

import (
	"fmt"
	"time"
)

// HourlyRate is the parking price per hour, in currency units.
const HourlyRate = 2.5

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Price returns the total for the given time-of-day window at HourlyRate.
// A missing or malformed time yields 0. Only the time of day matters: both
// times are taken on the same calendar day, so an end before the start
// produces a negative total. Callers validate the window before quoting.
func Price(startTime, endTime string) float64 {
	if startTime == "" || endTime == "" {
		return 0
	}
	start, err := time.Parse(timeLayout, startTime)
	if err != nil {
		return 0
	}
	end, err := time.Parse(timeLayout, endTime)
	if err != nil {
		return 0
	}
	return HourlyRate * end.Sub(start).Hours()
}

// FormatPrice renders a price to two decimal places.
func FormatPrice(p float64) string {
	return fmt.Sprintf("%.2f", p)
}

// PriceCents returns the price rounded to the nearest cent, for payment
// providers that bill in minor units.
func PriceCents(p float64) int64 {
	if p < 0 {
		return int64(p*100 - 0.5)
	}
	return int64(p*100 + 0.5)
}
