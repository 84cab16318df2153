package entities

import "time"

// AdminStats is the dashboard aggregate.
type AdminStats struct {
	Users               int `json:"users"`
	Vehicles            int `json:"vehicles"`
	Zones               int `json:"zones"`
	ActiveReservations  int `json:"activeReservations"`
	ExpiredReservations int `json:"expiredReservations"`
}

// AdminReservationRow is one entry of the latest-reservations feed, with the
// zone, plate and owner joined in for display.
type AdminReservationRow struct {
	ID          int       `json:"id"`
	Code        string    `json:"code"`
	UserID      int       `json:"user_id"`
	VehicleID   int       `json:"vehicle_id"`
	ZoneID      int       `json:"zone_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	TotalPrice  float64   `json:"total_price"`
	Status      string    `json:"status"`
	PaymentRef  string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ZoneName    string    `json:"zone_name"`
	PlateNumber string    `json:"plate_number"`
	UserEmail   string    `json:"user_email"`
}
