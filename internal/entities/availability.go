package entities

import "time"

// AvailabilityResponse reports occupancy for a zone over a window.
type AvailabilityResponse struct {
	ZoneID        int       `json:"zone_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	TotalSpots    int       `json:"total_spots"`
	ReservedCount int       `json:"reserved_count"`
	FreeSpots     int       `json:"free_spots"`
}
