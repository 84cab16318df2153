package service

import (
	"fmt"
	"log"
	"time"

	"parkzone/internal/db"
)

// JobStore is the persistence contract of the periodic sweeps.
type JobStore interface {
	ActiveReservationIDsPastEndTime(now time.Time) ([]int, error)
	PendingReservationIDsOlderThan(before time.Time) ([]int, error)
	UpdateReservationStatuses(ids []int, status string) error
}

// JobService runs the cron sweeps. These complement the lazy read-triggered
// sweep: overdue ACTIVE reservations become EXPIRED, and PENDING_PAYMENT
// holds older than HoldTTL are cancelled so an abandoned checkout cannot
// block a spot indefinitely.
type JobService struct {
	Repo    JobStore
	HoldTTL time.Duration
}

func NewJobService(repo JobStore, holdTTL time.Duration) *JobService {
	return &JobService{Repo: repo, HoldTTL: holdTTL}
}

func (s *JobService) ExpireFinishedReservations() error {
	ids, err := s.Repo.ActiveReservationIDsPastEndTime(time.Now().UTC())
	if err != nil {
		return fmt.Errorf("cron job: getting active reservations past end time: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}
	log.Printf("Cron Job: marking %d reservations EXPIRED. IDs: %v", len(ids), ids)
	if err := s.Repo.UpdateReservationStatuses(ids, db.StatusExpired); err != nil {
		return fmt.Errorf("cron job: updating reservation statuses: %w", err)
	}
	return nil
}

func (s *JobService) CancelStalePendingReservations() error {
	before := time.Now().UTC().Add(-s.HoldTTL)
	ids, err := s.Repo.PendingReservationIDsOlderThan(before)
	if err != nil {
		return fmt.Errorf("cron job: getting stale pending reservations: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}
	log.Printf("Cron Job: cancelling %d stale pending holds. IDs: %v", len(ids), ids)
	if err := s.Repo.UpdateReservationStatuses(ids, db.StatusCancelled); err != nil {
		return fmt.Errorf("cron job: cancelling stale pending holds: %w", err)
	}
	return nil
}
