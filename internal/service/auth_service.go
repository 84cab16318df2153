package service

import (
	"fmt"
	"net/http"

	"parkzone/internal/auth"
	"parkzone/internal/db"
	apperrors "parkzone/internal/errors"

	"golang.org/x/crypto/bcrypt"
)

// UserAccountStore is the persistence contract of registration and login.
type UserAccountStore interface {
	UserByEmail(email string) (*db.User, error)
	UserByID(id int) (*db.User, error)
	CreateUser(u *db.User) error
}

type AuthService struct {
	Repo UserAccountStore
}

func NewAuthService(repo UserAccountStore) *AuthService {
	return &AuthService{Repo: repo}
}

// Register creates a resident or visitor account. ADMIN is never
// self-assignable.
func (s *AuthService) Register(name, email, phone, password, roleName string) (*db.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, apperrors.NewHTTPError(http.StatusBadRequest, "name, email and password are required")
	}

	role := db.RoleResident
	if parsed, ok := db.ParseRole(roleName); ok && parsed != db.RoleAdmin {
		role = parsed
	}

	existing, err := s.Repo.UserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("checking email %s: %w", email, err)
	}
	if existing != nil {
		return nil, apperrors.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &db.User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.Repo.CreateUser(user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

// Login verifies the password and issues a signed token.
func (s *AuthService) Login(email, password string) (string, error) {
	user, err := s.Repo.UserByEmail(email)
	if err != nil {
		return "", fmt.Errorf("loading user %s: %w", email, err)
	}
	if user == nil {
		return "", apperrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperrors.ErrInvalidCredentials
	}
	return auth.SignToken(user.ID, user.Role)
}

// Me returns the authenticated user's own record.
func (s *AuthService) Me(userID int) (*db.User, error) {
	user, err := s.Repo.UserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("loading user %d: %w", userID, err)
	}
	if user == nil {
		return nil, apperrors.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return user, nil
}
