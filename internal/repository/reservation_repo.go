package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"parkzone/internal/db"
	apperrors "parkzone/internal/errors"

	"github.com/lib/pq"
)

type ReservationRepository struct {
	DB *sql.DB
}

func NewReservationRepository(database *sql.DB) *ReservationRepository {
	return &ReservationRepository{DB: database}
}

const overlapCountQuery = `
	SELECT COUNT(*) FROM reservations
	WHERE zone_id = $1 AND status = ANY($2)
	  AND start_time < $4 AND end_time > $3
	  AND id <> $5`

// blockingStatuses are the states that consume zone capacity at admission
// time. Pending holds count until paid, cancelled or reaped by the hold-TTL
// sweep, so two callers cannot both hold the last spot.
var blockingStatuses = []string{db.StatusActive, db.StatusPendingPayment}

// CountOverlappingActive counts ACTIVE reservations whose interval overlaps
// [start, end). Half-open semantics: touching boundaries do not overlap.
// This is the display-path count; admission control additionally counts
// pending holds.
func (r *ReservationRepository) CountOverlappingActive(zoneID int, start, end time.Time) (int, error) {
	var count int
	err := r.DB.QueryRow(overlapCountQuery, zoneID, pq.Array([]string{db.StatusActive}), start, end, 0).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting overlapping reservations for zone %d: %w", zoneID, err)
	}
	return count, nil
}

// CreatePending inserts the reservation as PENDING_PAYMENT after an
// admission check. The zone row is locked for the duration of the
// transaction so that counting, comparing and inserting is atomic with respect to
// concurrent Create and Pay calls on the same zone.
func (r *ReservationRepository) CreatePending(res *db.Reservation) (int, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	free, err := lockZoneAndCountFree(tx, res.ZoneID, res.StartTime, res.EndTime, 0)
	if err != nil {
		return 0, err
	}
	if free <= 0 {
		return 0, apperrors.NoCapacity(free)
	}

	err = tx.QueryRow(`
		INSERT INTO reservations
		(code, user_id, vehicle_id, zone_id, start_time, end_time, total_price, status, payment_ref, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		res.Code, res.UserID, res.VehicleID, res.ZoneID,
		res.StartTime, res.EndTime, res.TotalPrice, res.Status,
		res.PaymentRef, res.CreatedAt, res.UpdatedAt,
	).Scan(&res.ID)
	if err != nil {
		return 0, fmt.Errorf("inserting reservation %s: %w", res.Code, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing reservation %s: %w", res.Code, err)
	}
	return free, nil
}

// ActivateIfCapacity re-runs the admission check for the reservation's own
// interval and transitions it to ACTIVE, under the same zone-row lock
// discipline as CreatePending. The reservation's own pending hold is
// excluded from the count.
func (r *ReservationRepository) ActivateIfCapacity(res *db.Reservation) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	free, err := lockZoneAndCountFree(tx, res.ZoneID, res.StartTime, res.EndTime, res.ID)
	if err != nil {
		return err
	}
	if free <= 0 {
		return apperrors.NoCapacity(free)
	}

	result, err := tx.Exec(
		`UPDATE reservations SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		db.StatusActive, res.ID, db.StatusPendingPayment,
	)
	if err != nil {
		return fmt.Errorf("activating reservation %d: %w", res.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("activating reservation %d: %w", res.ID, err)
	}
	if affected == 0 {
		return apperrors.ErrAlreadyTerminal
	}

	return tx.Commit()
}

func lockZoneAndCountFree(tx *sql.Tx, zoneID int, start, end time.Time, excludeID int) (int, error) {
	var totalSpots int
	err := tx.QueryRow(`SELECT total_spots FROM parking_zones WHERE id = $1 FOR UPDATE`, zoneID).Scan(&totalSpots)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperrors.ErrZoneNotFound
		}
		return 0, fmt.Errorf("locking zone %d: %w", zoneID, err)
	}

	var overlap int
	err = tx.QueryRow(overlapCountQuery, zoneID, pq.Array(blockingStatuses), start, end, excludeID).Scan(&overlap)
	if err != nil {
		return 0, fmt.Errorf("counting overlap for zone %d [%s, %s): %w", zoneID, start, end, err)
	}
	return totalSpots - overlap, nil
}

func (r *ReservationRepository) ReservationByID(id int) (*db.Reservation, error) {
	var res db.Reservation
	err := r.DB.QueryRow(`
		SELECT id, code, user_id, vehicle_id, zone_id, start_time, end_time, total_price, status, payment_ref, created_at, updated_at
		FROM reservations WHERE id = $1`, id).Scan(
		&res.ID, &res.Code, &res.UserID, &res.VehicleID, &res.ZoneID,
		&res.StartTime, &res.EndTime, &res.TotalPrice, &res.Status,
		&res.PaymentRef, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying reservation %d: %w", id, err)
	}
	return &res, nil
}

func (r *ReservationRepository) SetStatus(id int, status string) error {
	_, err := r.DB.Exec(`UPDATE reservations SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("updating reservation %d to %s: %w", id, status, err)
	}
	return nil
}

// ExpireOverdueForUser lazily transitions the user's overdue ACTIVE
// reservations to EXPIRED. Only the calling user's rows are touched, so the
// read path introduces no cross-user contention.
func (r *ReservationRepository) ExpireOverdueForUser(userID int, now time.Time) (int64, error) {
	result, err := r.DB.Exec(`
		UPDATE reservations SET status = $1, updated_at = NOW()
		WHERE user_id = $2 AND status = $3 AND end_time < $4`,
		db.StatusExpired, userID, db.StatusActive, now,
	)
	if err != nil {
		return 0, fmt.Errorf("expiring overdue reservations for user %d: %w", userID, err)
	}
	return result.RowsAffected()
}

func (r *ReservationRepository) ListByUser(userID int) ([]db.Reservation, error) {
	rows, err := r.DB.Query(`
		SELECT id, code, user_id, vehicle_id, zone_id, start_time, end_time, total_price, status, payment_ref, created_at, updated_at
		FROM reservations WHERE user_id = $1
		ORDER BY start_time DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing reservations for user %d: %w", userID, err)
	}
	defer rows.Close()

	var reservations []db.Reservation
	for rows.Next() {
		var res db.Reservation
		if err := rows.Scan(
			&res.ID, &res.Code, &res.UserID, &res.VehicleID, &res.ZoneID,
			&res.StartTime, &res.EndTime, &res.TotalPrice, &res.Status,
			&res.PaymentRef, &res.CreatedAt, &res.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning reservation row: %w", err)
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reservation rows: %w", err)
	}
	return reservations, nil
}
