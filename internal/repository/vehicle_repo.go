package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"parkzone/internal/db"

	"github.com/lib/pq"
)

type VehicleRepository struct {
	DB *sql.DB
}

func NewVehicleRepository(database *sql.DB) *VehicleRepository {
	return &VehicleRepository{DB: database}
}

func (r *VehicleRepository) VehicleByID(id int) (*db.Vehicle, error) {
	var v db.Vehicle
	err := r.DB.QueryRow(`
		SELECT id, user_id, plate_number, model, color, created_at
		FROM vehicles WHERE id = $1`, id).Scan(
		&v.ID, &v.UserID, &v.PlateNumber, &v.Model, &v.Color, &v.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying vehicle %d: %w", id, err)
	}
	return &v, nil
}

func (r *VehicleRepository) VehiclesByUser(userID int) ([]db.Vehicle, error) {
	rows, err := r.DB.Query(`
		SELECT id, user_id, plate_number, model, color, created_at
		FROM vehicles WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing vehicles for user %d: %w", userID, err)
	}
	defer rows.Close()

	var vehicles []db.Vehicle
	for rows.Next() {
		var v db.Vehicle
		if err := rows.Scan(&v.ID, &v.UserID, &v.PlateNumber, &v.Model, &v.Color, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning vehicle row: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vehicle rows: %w", err)
	}
	return vehicles, nil
}

func (r *VehicleRepository) CreateVehicle(v *db.Vehicle) error {
	err := r.DB.QueryRow(`
		INSERT INTO vehicles (user_id, plate_number, model, color)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		v.UserID, v.PlateNumber, v.Model, v.Color,
	).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting vehicle %q: %w", v.PlateNumber, err)
	}
	return nil
}

func (r *VehicleRepository) DeleteVehicle(id int) error {
	_, err := r.DB.Exec(`DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting vehicle %d: %w", id, err)
	}
	return nil
}

func (r *VehicleRepository) CountBlockingReservations(vehicleID int) (int, error) {
	var count int
	err := r.DB.QueryRow(
		`SELECT COUNT(*) FROM reservations WHERE vehicle_id = $1 AND status = ANY($2)`,
		vehicleID, pq.Array([]string{db.StatusPendingPayment, db.StatusActive}),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting blocking reservations for vehicle %d: %w", vehicleID, err)
	}
	return count, nil
}
