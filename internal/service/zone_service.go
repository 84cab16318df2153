package service

import (
	"fmt"
	"net/http"

	"parkzone/internal/db"
	apperrors "parkzone/internal/errors"
)

// ZoneAdminStore is the persistence contract of zone administration.
type ZoneAdminStore interface {
	ZoneByID(id int) (*db.Zone, error)
	ListZones() ([]db.Zone, error)
	CreateZone(z *db.Zone) error
	UpdateZone(z *db.Zone) error
}

type ZoneService struct {
	Repo ZoneAdminStore
}

func NewZoneService(repo ZoneAdminStore) *ZoneService {
	return &ZoneService{Repo: repo}
}

func validateZone(name string, totalSpots int, pricePerHour float64, status string) error {
	if name == "" {
		return apperrors.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if totalSpots <= 0 {
		return apperrors.NewHTTPError(http.StatusBadRequest, "total_spots must be positive")
	}
	if pricePerHour < 0 {
		return apperrors.NewHTTPError(http.StatusBadRequest, "price_per_hour must not be negative")
	}
	if status != db.ZoneActive && status != db.ZoneInactive {
		return apperrors.NewHTTPError(http.StatusBadRequest, "status must be ACTIVE or INACTIVE")
	}
	return nil
}

func (s *ZoneService) List() ([]db.Zone, error) {
	return s.Repo.ListZones()
}

func (s *ZoneService) Create(name, location string, totalSpots int, pricePerHour float64, status string) (*db.Zone, error) {
	if status == "" {
		status = db.ZoneActive
	}
	if err := validateZone(name, totalSpots, pricePerHour, status); err != nil {
		return nil, err
	}
	zone := &db.Zone{
		Name:         name,
		Location:     location,
		TotalSpots:   totalSpots,
		PricePerHour: pricePerHour,
		Status:       status,
	}
	if err := s.Repo.CreateZone(zone); err != nil {
		return nil, fmt.Errorf("creating zone %q: %w", name, err)
	}
	return zone, nil
}

// Update replaces the administrative fields of a zone. Zones are never
// deleted: retiring one means setting it INACTIVE.
func (s *ZoneService) Update(id int, name, location string, totalSpots int, pricePerHour float64, status string) (*db.Zone, error) {
	zone, err := s.Repo.ZoneByID(id)
	if err != nil {
		return nil, fmt.Errorf("loading zone %d: %w", id, err)
	}
	if zone == nil {
		return nil, apperrors.ErrZoneNotFound
	}
	if err := validateZone(name, totalSpots, pricePerHour, status); err != nil {
		return nil, err
	}
	zone.Name = name
	zone.Location = location
	zone.TotalSpots = totalSpots
	zone.PricePerHour = pricePerHour
	zone.Status = status
	if err := s.Repo.UpdateZone(zone); err != nil {
		return nil, fmt.Errorf("updating zone %d: %w", id, err)
	}
	return zone, nil
}
