package service

import (
	"math"
	"time"

	apperrors "parkzone/internal/errors"
)

// BilledHours returns the number of whole hours charged for the interval:
// the duration rounded up, floored at 1 for sub-hour bookings.
func BilledHours(start, end time.Time) (int, error) {
	if !end.After(start) {
		return 0, apperrors.ErrInvalidInterval
	}
	d := end.Sub(start)
	hours := int(d / time.Hour)
	if d%time.Hour != 0 {
		hours++
	}
	if hours < 1 {
		hours = 1
	}
	return hours, nil
}

// Price computes the frozen reservation total: billed hours times the zone's
// hourly rate, rounded to 2 decimal places.
func Price(start, end time.Time, pricePerHour float64) (int, float64, error) {
	hours, err := BilledHours(start, end)
	if err != nil {
		return 0, 0, err
	}
	total := math.Round(float64(hours)*pricePerHour*100) / 100
	return hours, total, nil
}
