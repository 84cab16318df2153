package entities

import (
	"parkzone/internal/db"
)

// PricingBreakdown echoes how a reservation's frozen total was computed.
type PricingBreakdown struct {
	Hours        int     `json:"hours"`
	PricePerHour float64 `json:"price_per_hour"`
	TotalPrice   float64 `json:"total_price"`
}

// CreateReservationResult is returned by ReservationService.Create.
// FreeSpotsAfter is a snapshot for immediate UI feedback, not a guarantee:
// capacity is re-checked at Pay time since cancellations and zone resizes
// can change it in the meantime.
type CreateReservationResult struct {
	Reservation    db.Reservation
	FreeSpotsAfter int
	Pricing        PricingBreakdown
	// CheckoutURL is set when a real payment provider is configured.
	CheckoutURL string
}
