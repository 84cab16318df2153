package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"parkzone/internal/db"
	"parkzone/internal/entities"
	apperrors "parkzone/internal/errors"
	"parkzone/internal/utils"

	"github.com/google/uuid"
)

// ZoneStore supplies the zone records the lifecycle reads. A nil zone with a
// nil error means the zone does not exist.
type ZoneStore interface {
	ZoneByID(id int) (*db.Zone, error)
}

// VehicleStore supplies vehicle records for the ownership check.
type VehicleStore interface {
	VehicleByID(id int) (*db.Vehicle, error)
}

// UserStore supplies the owner record for payment and notification fan-out.
type UserStore interface {
	UserByID(id int) (*db.User, error)
}

// ReservationStore is the persistence contract of the lifecycle. The store is
// the only synchronization point: CreatePending and ActivateIfCapacity must
// run their count, compare and write sequence atomically with respect to other
// concurrent calls on the same zone (the SQL implementation locks the zone
// row for the duration).
type ReservationStore interface {
	// CreatePending atomically counts overlapping reservations in blocking
	// states (ACTIVE and PENDING_PAYMENT holds), enforces capacity and
	// inserts the reservation as PENDING_PAYMENT. It returns the free-spot
	// count observed before the insert, or a CapacityError.
	CreatePending(res *db.Reservation) (int, error)
	// ActivateIfCapacity atomically re-counts overlap for the reservation's
	// own interval (excluding its own hold) and transitions it to ACTIVE,
	// or returns a CapacityError.
	ActivateIfCapacity(res *db.Reservation) error
	ReservationByID(id int) (*db.Reservation, error)
	SetStatus(id int, status string) error
	CountOverlappingActive(zoneID int, start, end time.Time) (int, error)
	ExpireOverdueForUser(userID int, now time.Time) (int64, error)
	ListByUser(userID int) ([]db.Reservation, error)
}

type ReservationService struct {
	Repo     ReservationStore
	Zones    ZoneStore
	Vehicles VehicleStore
	Users    UserStore

	payments *PaymentService
	notifier *NotifyService
	now      func() time.Time
}

func NewReservationService(repo ReservationStore, zones ZoneStore, vehicles VehicleStore, users UserStore, payments *PaymentService, notifier *NotifyService) *ReservationService {
	return &ReservationService{
		Repo:     repo,
		Zones:    zones,
		Vehicles: vehicles,
		Users:    users,
		payments: payments,
		notifier: notifier,
		now:      time.Now,
	}
}

// Create validates the request, runs admission control, freezes the price and
// persists the reservation as PENDING_PAYMENT.
func (s *ReservationService) Create(userID, vehicleID, zoneID int, start, end time.Time) (*entities.CreateReservationResult, error) {
	zone, err := s.Zones.ZoneByID(zoneID)
	if err != nil {
		return nil, fmt.Errorf("loading zone %d: %w", zoneID, err)
	}
	if zone == nil {
		return nil, apperrors.ErrZoneNotFound
	}
	if zone.Status != db.ZoneActive {
		return nil, apperrors.ErrZoneInactive
	}

	vehicle, err := s.Vehicles.VehicleByID(vehicleID)
	if err != nil {
		return nil, fmt.Errorf("loading vehicle %d: %w", vehicleID, err)
	}
	if vehicle == nil || vehicle.UserID != userID {
		return nil, apperrors.ErrVehicleNotOwned
	}

	if !utils.ValidInterval(start, end) {
		return nil, apperrors.ErrInvalidInterval
	}

	hours, total, err := Price(start, end, zone.PricePerHour)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	res := &db.Reservation{
		Code:       newReservationCode(),
		UserID:     userID,
		VehicleID:  vehicleID,
		ZoneID:     zoneID,
		StartTime:  start.UTC(),
		EndTime:    end.UTC(),
		TotalPrice: total,
		Status:     db.StatusPendingPayment,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var checkoutURL string
	if s.payments.Enabled() {
		user, err := s.Users.UserByID(userID)
		if err != nil || user == nil {
			return nil, fmt.Errorf("loading user %d: %w", userID, err)
		}
		url, sessionID, err := s.payments.CreateCheckout(total, res.Code, user.Email)
		if err != nil {
			return nil, fmt.Errorf("opening checkout for reservation %s: %w", res.Code, err)
		}
		res.PaymentRef = sessionID
		checkoutURL = url
	}

	free, err := s.Repo.CreatePending(res)
	if err != nil {
		var capErr *apperrors.CapacityError
		if errors.As(err, &capErr) {
			return nil, err
		}
		log.Printf("Error creating reservation (zone %d, [%s, %s)): %v", zoneID, start, end, err)
		return nil, fmt.Errorf("creating reservation: %w", err)
	}

	return &entities.CreateReservationResult{
		Reservation:    *res,
		FreeSpotsAfter: free - 1,
		Pricing: entities.PricingBreakdown{
			Hours:        hours,
			PricePerHour: zone.PricePerHour,
			TotalPrice:   total,
		},
		CheckoutURL: checkoutURL,
	}, nil
}

// Pay confirms a pending reservation. The capacity and zone checks run again
// here: the snapshot taken at Create is deliberately not trusted, since a
// competing reservation may have consumed the spot in the meantime.
func (s *ReservationService) Pay(userID, reservationID int) (*db.Reservation, error) {
	res, err := s.Repo.ReservationByID(reservationID)
	if err != nil {
		return nil, fmt.Errorf("loading reservation %d: %w", reservationID, err)
	}
	if res == nil || res.UserID != userID {
		return nil, apperrors.ErrReservationNotFound
	}

	// Idempotent: a second Pay after success is a no-op, nothing is charged
	// twice.
	if res.Status == db.StatusActive {
		return res, nil
	}
	if res.Terminal() {
		return nil, apperrors.ErrAlreadyTerminal
	}

	if !s.now().Before(res.EndTime) {
		s.transition(res, db.StatusExpired)
		return nil, apperrors.ErrReservationExpired
	}

	zone, err := s.Zones.ZoneByID(res.ZoneID)
	if err != nil {
		return nil, fmt.Errorf("loading zone %d: %w", res.ZoneID, err)
	}
	if zone == nil || zone.Status != db.ZoneActive {
		s.transition(res, db.StatusCancelled)
		s.notifyOwner(res)
		return nil, apperrors.ErrZoneInactive
	}

	if err := s.Repo.ActivateIfCapacity(res); err != nil {
		var capErr *apperrors.CapacityError
		if errors.As(err, &capErr) {
			s.transition(res, db.StatusCancelled)
			s.notifyOwner(res)
			return nil, err
		}
		log.Printf("Error activating reservation %s (zone %d, [%s, %s)): %v",
			res.Code, res.ZoneID, res.StartTime, res.EndTime, err)
		return nil, fmt.Errorf("activating reservation %s: %w", res.Code, err)
	}

	res.Status = db.StatusActive
	s.notifyOwner(res)
	return res, nil
}

// Cancel transitions an owned, non-terminal reservation to CANCELLED,
// refunding an already-paid one through the payment provider.
func (s *ReservationService) Cancel(userID, reservationID int) (*db.Reservation, error) {
	res, err := s.Repo.ReservationByID(reservationID)
	if err != nil {
		return nil, fmt.Errorf("loading reservation %d: %w", reservationID, err)
	}
	if res == nil || res.UserID != userID {
		return nil, apperrors.ErrReservationNotFound
	}
	if res.Terminal() {
		return nil, apperrors.ErrAlreadyTerminal
	}

	if res.Status == db.StatusActive && res.PaymentRef != "" {
		if err := s.payments.Refund(res.PaymentRef); err != nil {
			log.Printf("Error refunding reservation %s: %v", res.Code, err)
			return nil, fmt.Errorf("refunding reservation %s: %w", res.Code, err)
		}
	}

	if err := s.Repo.SetStatus(res.ID, db.StatusCancelled); err != nil {
		log.Printf("Error cancelling reservation %s: %v", res.Code, err)
		return nil, fmt.Errorf("cancelling reservation %s: %w", res.Code, err)
	}
	res.Status = db.StatusCancelled
	s.notifyOwner(res)
	return res, nil
}

// ListMine returns the user's reservations, most recent start time first.
// Overdue ACTIVE reservations are swept to EXPIRED before the read, so a
// caller never observes a stale ACTIVE row whose window has passed.
func (s *ReservationService) ListMine(userID int) ([]db.Reservation, error) {
	if _, err := s.Repo.ExpireOverdueForUser(userID, s.now()); err != nil {
		log.Printf("Error sweeping overdue reservations for user %d: %v", userID, err)
		return nil, fmt.Errorf("sweeping overdue reservations: %w", err)
	}
	return s.Repo.ListByUser(userID)
}

// transition persists a system-detected terminal state. The write failure is
// logged, not surfaced: the caller-facing error is the terminal condition
// itself.
func (s *ReservationService) transition(res *db.Reservation, status string) {
	if err := s.Repo.SetStatus(res.ID, status); err != nil {
		log.Printf("Error transitioning reservation %s to %s: %v", res.Code, status, err)
		return
	}
	res.Status = status
}

func (s *ReservationService) notifyOwner(res *db.Reservation) {
	if s.notifier == nil {
		return
	}
	user, err := s.Users.UserByID(res.UserID)
	if err != nil || user == nil {
		log.Printf("Error loading user %d for reservation %s notification: %v", res.UserID, res.Code, err)
		return
	}
	s.notifier.ReservationStatusChanged(user, res)
}

func newReservationCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
}
