package service

import (
	"testing"
	"time"

	"parkzone/internal/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memJobStore struct {
	overdueActive []int
	stalePending  []int
	updated       map[string][]int
}

func newMemJobStore() *memJobStore {
	return &memJobStore{updated: make(map[string][]int)}
}

func (m *memJobStore) ActiveReservationIDsPastEndTime(now time.Time) ([]int, error) {
	return m.overdueActive, nil
}

func (m *memJobStore) PendingReservationIDsOlderThan(before time.Time) ([]int, error) {
	return m.stalePending, nil
}

func (m *memJobStore) UpdateReservationStatuses(ids []int, status string) error {
	m.updated[status] = append(m.updated[status], ids...)
	return nil
}

func TestExpireFinishedReservations(t *testing.T) {
	store := newMemJobStore()
	store.overdueActive = []int{3, 7}
	svc := NewJobService(store, 30*time.Minute)

	require.NoError(t, svc.ExpireFinishedReservations())
	assert.Equal(t, []int{3, 7}, store.updated[db.StatusExpired])

	// nothing overdue: no status writes
	store.overdueActive = nil
	store.updated = make(map[string][]int)
	require.NoError(t, svc.ExpireFinishedReservations())
	assert.Empty(t, store.updated)
}

func TestCancelStalePendingReservations(t *testing.T) {
	store := newMemJobStore()
	store.stalePending = []int{5}
	svc := NewJobService(store, 30*time.Minute)

	require.NoError(t, svc.CancelStalePendingReservations())
	assert.Equal(t, []int{5}, store.updated[db.StatusCancelled])

	store.stalePending = nil
	store.updated = make(map[string][]int)
	require.NoError(t, svc.CancelStalePendingReservations())
	assert.Empty(t, store.updated)
}
