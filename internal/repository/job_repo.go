package repository

import (
	"database/sql"
	"fmt"
	"time"

	"parkzone/internal/db"

	"github.com/lib/pq"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

func (r *JobRepository) ActiveReservationIDsPastEndTime(now time.Time) ([]int, error) {
	return r.reservationIDs(
		`SELECT id FROM reservations WHERE status = $1 AND end_time < $2`,
		db.StatusActive, now,
	)
}

func (r *JobRepository) PendingReservationIDsOlderThan(before time.Time) ([]int, error) {
	return r.reservationIDs(
		`SELECT id FROM reservations WHERE status = $1 AND created_at < $2`,
		db.StatusPendingPayment, before,
	)
}

func (r *JobRepository) reservationIDs(query string, args ...interface{}) ([]int, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying reservation ids: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning reservation id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reservation ids: %w", err)
	}
	return ids, nil
}

func (r *JobRepository) UpdateReservationStatuses(ids []int, newStatus string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.DB.Exec(
		`UPDATE reservations SET status = $1, updated_at = NOW() WHERE id = ANY($2)`,
		newStatus, pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("updating reservation statuses to %s: %w", newStatus, err)
	}
	return nil
}
