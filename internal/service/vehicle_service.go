package service

import (
	"fmt"
	"net/http"

	"parkzone/internal/db"
	apperrors "parkzone/internal/errors"
)

// VehicleAccountStore is the persistence contract of vehicle ownership.
type VehicleAccountStore interface {
	VehicleByID(id int) (*db.Vehicle, error)
	VehiclesByUser(userID int) ([]db.Vehicle, error)
	CreateVehicle(v *db.Vehicle) error
	DeleteVehicle(id int) error
	// CountBlockingReservations counts the vehicle's reservations in a
	// blocking state (PENDING_PAYMENT or ACTIVE).
	CountBlockingReservations(vehicleID int) (int, error)
}

type VehicleService struct {
	Repo VehicleAccountStore
}

func NewVehicleService(repo VehicleAccountStore) *VehicleService {
	return &VehicleService{Repo: repo}
}

func (s *VehicleService) Create(userID int, plateNumber, model, color string) (*db.Vehicle, error) {
	if plateNumber == "" {
		return nil, apperrors.NewHTTPError(http.StatusBadRequest, "plate_number is required")
	}
	vehicle := &db.Vehicle{
		UserID:      userID,
		PlateNumber: plateNumber,
		Model:       model,
		Color:       color,
	}
	if err := s.Repo.CreateVehicle(vehicle); err != nil {
		return nil, fmt.Errorf("creating vehicle %q: %w", plateNumber, err)
	}
	return vehicle, nil
}

func (s *VehicleService) ListMine(userID int) ([]db.Vehicle, error) {
	return s.Repo.VehiclesByUser(userID)
}

// Delete removes an owned vehicle unless a reservation in a blocking state
// still references it.
func (s *VehicleService) Delete(userID, vehicleID int) error {
	vehicle, err := s.Repo.VehicleByID(vehicleID)
	if err != nil {
		return fmt.Errorf("loading vehicle %d: %w", vehicleID, err)
	}
	if vehicle == nil || vehicle.UserID != userID {
		return apperrors.ErrVehicleNotOwned
	}
	blocking, err := s.Repo.CountBlockingReservations(vehicleID)
	if err != nil {
		return fmt.Errorf("checking reservations for vehicle %d: %w", vehicleID, err)
	}
	if blocking > 0 {
		return apperrors.ErrVehicleInUse
	}
	return s.Repo.DeleteVehicle(vehicleID)
}
