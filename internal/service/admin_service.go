package service

import (
	"parkzone/internal/entities"
)

// StatsStore is the persistence contract of the admin dashboard.
type StatsStore interface {
	Stats() (*entities.AdminStats, error)
	LatestReservations(limit int) ([]entities.AdminReservationRow, error)
}

type AdminService struct {
	Repo StatsStore
}

func NewAdminService(repo StatsStore) *AdminService {
	return &AdminService{Repo: repo}
}

func (s *AdminService) Stats() (*entities.AdminStats, error) {
	return s.Repo.Stats()
}

func (s *AdminService) LatestReservations(limit int) ([]entities.AdminReservationRow, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.Repo.LatestReservations(limit)
}
