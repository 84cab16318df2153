package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"parkzone/internal/db"
)

type ZoneRepository struct {
	DB *sql.DB
}

func NewZoneRepository(database *sql.DB) *ZoneRepository {
	return &ZoneRepository{DB: database}
}

func (r *ZoneRepository) ZoneByID(id int) (*db.Zone, error) {
	var z db.Zone
	err := r.DB.QueryRow(`
		SELECT id, name, location, total_spots, price_per_hour, status, created_at, updated_at
		FROM parking_zones WHERE id = $1`, id).Scan(
		&z.ID, &z.Name, &z.Location, &z.TotalSpots, &z.PricePerHour, &z.Status, &z.CreatedAt, &z.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying zone %d: %w", id, err)
	}
	return &z, nil
}

func (r *ZoneRepository) ListZones() ([]db.Zone, error) {
	rows, err := r.DB.Query(`
		SELECT id, name, location, total_spots, price_per_hour, status, created_at, updated_at
		FROM parking_zones ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing zones: %w", err)
	}
	defer rows.Close()

	var zones []db.Zone
	for rows.Next() {
		var z db.Zone
		if err := rows.Scan(&z.ID, &z.Name, &z.Location, &z.TotalSpots, &z.PricePerHour, &z.Status, &z.CreatedAt, &z.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning zone row: %w", err)
		}
		zones = append(zones, z)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating zone rows: %w", err)
	}
	return zones, nil
}

func (r *ZoneRepository) CreateZone(z *db.Zone) error {
	err := r.DB.QueryRow(`
		INSERT INTO parking_zones (name, location, total_spots, price_per_hour, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		z.Name, z.Location, z.TotalSpots, z.PricePerHour, z.Status,
	).Scan(&z.ID, &z.CreatedAt, &z.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting zone %q: %w", z.Name, err)
	}
	return nil
}

func (r *ZoneRepository) UpdateZone(z *db.Zone) error {
	err := r.DB.QueryRow(`
		UPDATE parking_zones
		SET name = $1, location = $2, total_spots = $3, price_per_hour = $4, status = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at`,
		z.Name, z.Location, z.TotalSpots, z.PricePerHour, z.Status, z.ID,
	).Scan(&z.UpdatedAt)
	if err != nil {
		return fmt.Errorf("updating zone %d: %w", z.ID, err)
	}
	return nil
}
