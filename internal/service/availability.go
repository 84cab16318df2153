package service

import (
	"fmt"
	"log"
	"time"

	"parkzone/internal/entities"
	apperrors "parkzone/internal/errors"
	"parkzone/internal/utils"
)

// FreeSpots derives the free-spot count from a zone's capacity and the
// number of overlapping active reservations. Never negative.
func FreeSpots(totalSpots, overlapCount int) int {
	free := totalSpots - overlapCount
	if free < 0 {
		return 0
	}
	return free
}

// Availability reports occupancy for a zone over the given window. When the
// caller supplies no window, the next two hours are assumed.
func (s *ReservationService) Availability(zoneID int, start, end time.Time) (*entities.AvailabilityResponse, error) {
	zone, err := s.Zones.ZoneByID(zoneID)
	if err != nil {
		return nil, fmt.Errorf("loading zone %d: %w", zoneID, err)
	}
	if zone == nil {
		return nil, apperrors.ErrZoneNotFound
	}

	if start.IsZero() || end.IsZero() {
		now := s.now()
		start, end = now, now.Add(utils.DefaultAvailabilityWindow)
	}
	if !utils.ValidInterval(start, end) {
		return nil, apperrors.ErrInvalidInterval
	}

	count, err := s.Repo.CountOverlappingActive(zoneID, start, end)
	if err != nil {
		log.Printf("Error counting overlap for zone %d [%s, %s): %v", zoneID, start, end, err)
		return nil, fmt.Errorf("counting overlapping reservations: %w", err)
	}

	return &entities.AvailabilityResponse{
		ZoneID:        zoneID,
		StartTime:     start,
		EndTime:       end,
		TotalSpots:    zone.TotalSpots,
		ReservedCount: count,
		FreeSpots:     FreeSpots(zone.TotalSpots, count),
	}, nil
}
