package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"parkzone/internal/db"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(database *sql.DB) *UserRepository {
	return &UserRepository{DB: database}
}

func (r *UserRepository) UserByEmail(email string) (*db.User, error) {
	var u db.User
	var role string
	err := r.DB.QueryRow(`
		SELECT id, name, email, phone, password_hash, role, created_at
		FROM users WHERE email = $1`, email).Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &role, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying user by email: %w", err)
	}
	u.Role, _ = db.ParseRole(role)
	return &u, nil
}

func (r *UserRepository) UserByID(id int) (*db.User, error) {
	var u db.User
	var role string
	err := r.DB.QueryRow(`
		SELECT id, name, email, phone, password_hash, role, created_at
		FROM users WHERE id = $1`, id).Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &role, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying user %d: %w", id, err)
	}
	u.Role, _ = db.ParseRole(role)
	return &u, nil
}

func (r *UserRepository) CreateUser(u *db.User) error {
	err := r.DB.QueryRow(`
		INSERT INTO users (name, email, phone, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		u.Name, u.Email, u.Phone, u.PasswordHash, string(u.Role),
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting user %s: %w", u.Email, err)
	}
	return nil
}
