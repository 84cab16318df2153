package repository

import (
	"database/sql"
	"fmt"

	"parkzone/internal/db"
	"parkzone/internal/entities"
)

type AdminRepository struct {
	DB *sql.DB
}

func NewAdminRepository(database *sql.DB) *AdminRepository {
	return &AdminRepository{DB: database}
}

// Stats gathers the dashboard counts in one round trip.
func (r *AdminRepository) Stats() (*entities.AdminStats, error) {
	var stats entities.AdminStats
	err := r.DB.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM vehicles),
			(SELECT COUNT(*) FROM parking_zones),
			(SELECT COUNT(*) FROM reservations WHERE status = $1),
			(SELECT COUNT(*) FROM reservations WHERE status = $2 AND end_time < NOW())`,
		db.StatusActive, db.StatusExpired,
	).Scan(&stats.Users, &stats.Vehicles, &stats.Zones, &stats.ActiveReservations, &stats.ExpiredReservations)
	if err != nil {
		return nil, fmt.Errorf("querying admin stats: %w", err)
	}
	return &stats, nil
}

func (r *AdminRepository) LatestReservations(limit int) ([]entities.AdminReservationRow, error) {
	rows, err := r.DB.Query(`
		SELECT
			r.id, r.code, r.user_id, r.vehicle_id, r.zone_id,
			r.start_time, r.end_time, r.total_price, r.status, r.payment_ref,
			r.created_at, r.updated_at,
			z.name, v.plate_number, u.email
		FROM reservations r
		JOIN parking_zones z ON z.id = r.zone_id
		JOIN vehicles v ON v.id = r.vehicle_id
		JOIN users u ON u.id = r.user_id
		ORDER BY r.created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing latest reservations: %w", err)
	}
	defer rows.Close()

	var result []entities.AdminReservationRow
	for rows.Next() {
		var row entities.AdminReservationRow
		if err := rows.Scan(
			&row.ID, &row.Code, &row.UserID, &row.VehicleID, &row.ZoneID,
			&row.StartTime, &row.EndTime, &row.TotalPrice, &row.Status, &row.PaymentRef,
			&row.CreatedAt, &row.UpdatedAt,
			&row.ZoneName, &row.PlateNumber, &row.UserEmail,
		); err != nil {
			return nil, fmt.Errorf("scanning latest reservation row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating latest reservation rows: %w", err)
	}
	return result, nil
}
