package service

import (
	"sort"
	"sync"
	"testing"
	"time"

	"parkzone/internal/db"
	apperrors "parkzone/internal/errors"
	"parkzone/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory stand-in for the SQL repositories. Its mutex
// plays the role of the zone-row lock: the count, compare and write sequence
// of CreatePending and ActivateIfCapacity runs atomically.
type memStore struct {
	mu           sync.Mutex
	zones        map[int]*db.Zone
	vehicles     map[int]*db.Vehicle
	users        map[int]*db.User
	reservations map[int]*db.Reservation
	nextID       int
}

func newMemStore() *memStore {
	return &memStore{
		zones:        make(map[int]*db.Zone),
		vehicles:     make(map[int]*db.Vehicle),
		users:        make(map[int]*db.User),
		reservations: make(map[int]*db.Reservation),
	}
}

func (m *memStore) ZoneByID(id int) (*db.Zone, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	z, ok := m.zones[id]
	if !ok {
		return nil, nil
	}
	cp := *z
	return &cp, nil
}

func (m *memStore) VehicleByID(id int) (*db.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vehicles[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (m *memStore) UserByID(id int) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) countLocked(zoneID int, start, end time.Time, statuses []string, excludeID int) int {
	count := 0
	for _, r := range m.reservations {
		if r.ZoneID != zoneID || r.ID == excludeID {
			continue
		}
		for _, s := range statuses {
			if r.Status == s && utils.Overlaps(r.StartTime, r.EndTime, start, end) {
				count++
				break
			}
		}
	}
	return count
}

var blockingStatuses = []string{db.StatusActive, db.StatusPendingPayment}

func (m *memStore) CreatePending(res *db.Reservation) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	zone, ok := m.zones[res.ZoneID]
	if !ok {
		return 0, apperrors.ErrZoneNotFound
	}
	free := zone.TotalSpots - m.countLocked(res.ZoneID, res.StartTime, res.EndTime, blockingStatuses, 0)
	if free <= 0 {
		return 0, apperrors.NoCapacity(free)
	}
	m.nextID++
	res.ID = m.nextID
	cp := *res
	m.reservations[res.ID] = &cp
	return free, nil
}

func (m *memStore) ActivateIfCapacity(res *db.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.reservations[res.ID]
	if !ok || stored.Status != db.StatusPendingPayment {
		return apperrors.ErrAlreadyTerminal
	}
	zone, ok := m.zones[res.ZoneID]
	if !ok {
		return apperrors.ErrZoneNotFound
	}
	free := zone.TotalSpots - m.countLocked(res.ZoneID, res.StartTime, res.EndTime, blockingStatuses, res.ID)
	if free <= 0 {
		return apperrors.NoCapacity(free)
	}
	stored.Status = db.StatusActive
	return nil
}

func (m *memStore) ReservationByID(id int) (*db.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m *memStore) SetStatus(id int, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.reservations[id]; ok {
		r.Status = status
	}
	return nil
}

func (m *memStore) CountOverlappingActive(zoneID int, start, end time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.countLocked(zoneID, start, end, []string{db.StatusActive}, 0), nil
}

func (m *memStore) ExpireOverdueForUser(userID int, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var swept int64
	for _, r := range m.reservations {
		if r.UserID == userID && r.Status == db.StatusActive && r.EndTime.Before(now) {
			r.Status = db.StatusExpired
			swept++
		}
	}
	return swept, nil
}

func (m *memStore) ListByUser(userID int) ([]db.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []db.Reservation
	for _, r := range m.reservations {
		if r.UserID == userID {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartTime.After(result[j].StartTime)
	})
	return result, nil
}

// seed inserts a reservation directly, bypassing admission control.
func (m *memStore) seed(res db.Reservation) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	res.ID = m.nextID
	m.reservations[res.ID] = &res
	return res.ID
}

var testNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestService(store *memStore) *ReservationService {
	svc := NewReservationService(store, store, store, store, &PaymentService{}, nil)
	svc.now = func() time.Time { return testNow }
	return svc
}

func seedZoneUserVehicle(store *memStore, totalSpots int, rate float64) {
	store.zones[1] = &db.Zone{ID: 1, Name: "Center", TotalSpots: totalSpots, PricePerHour: rate, Status: db.ZoneActive}
	store.users[1] = &db.User{ID: 1, Name: "Alice", Email: "alice@example.com", Role: db.RoleResident}
	store.users[2] = &db.User{ID: 2, Name: "Bob", Email: "bob@example.com", Role: db.RoleResident}
	store.vehicles[1] = &db.Vehicle{ID: 1, UserID: 1, PlateNumber: "AA-111"}
	store.vehicles[2] = &db.Vehicle{ID: 2, UserID: 2, PlateNumber: "BB-222"}
}

func at(hour int) time.Time {
	return time.Date(2025, 6, 1, hour, 0, 0, 0, time.UTC)
}

func TestCreateValidation(t *testing.T) {
	store := newMemStore()
	seedZoneUserVehicle(store, 2, 2.0)
	svc := newTestService(store)

	_, err := svc.Create(1, 1, 99, at(10), at(11))
	assert.ErrorIs(t, err, apperrors.ErrZoneNotFound)

	store.zones[2] = &db.Zone{ID: 2, Name: "Closed", TotalSpots: 5, PricePerHour: 1, Status: db.ZoneInactive}
	_, err = svc.Create(1, 1, 2, at(10), at(11))
	assert.ErrorIs(t, err, apperrors.ErrZoneInactive)

	// Bob's vehicle
	_, err = svc.Create(1, 2, 1, at(10), at(11))
	assert.ErrorIs(t, err, apperrors.ErrVehicleNotOwned)

	_, err = svc.Create(1, 99, 1, at(10), at(11))
	assert.ErrorIs(t, err, apperrors.ErrVehicleNotOwned)

	_, err = svc.Create(1, 1, 1, at(11), at(10))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInterval)

	_, err = svc.Create(1, 1, 1, at(10), at(10))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInterval)
}

func TestCreateFreezesPrice(t *testing.T) {
	store := newMemStore()
	seedZoneUserVehicle(store, 3, 2.5)
	svc := newTestService(store)

	result, err := svc.Create(1, 1, 1, at(10), at(10).Add(90*time.Minute))
	require.NoError(t, err)

	assert.Equal(t, db.StatusPendingPayment, result.Reservation.Status)
	assert.Equal(t, 5.0, result.Reservation.TotalPrice)
	assert.Equal(t, 2, result.Pricing.Hours)
	assert.Equal(t, 2.5, result.Pricing.PricePerHour)
	assert.Equal(t, 5.0, result.Pricing.TotalPrice)
	assert.Equal(t, 2, result.FreeSpotsAfter)
	assert.NotEmpty(t, result.Reservation.Code)

	// rate change after creation must not touch the frozen total
	store.zones[1].PricePerHour = 99
	res, err := svc.Pay(1, result.Reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, res.TotalPrice)
}

func TestCreateNoCapacity(t *testing.T) {
	store := newMemStore()
	seedZoneUserVehicle(store, 1, 2.0)
	svc := newTestService(store)

	store.seed(db.Reservation{
		Code: "TAKEN", UserID: 2, VehicleID: 2, ZoneID: 1,
		StartTime: at(10), EndTime: at(12), Status: db.StatusActive,
	})

	_, err := svc.Create(1, 1, 1, at(11), at(13))
	var capErr *apperrors.CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 0, capErr.FreeSpots)
}

func TestCreateTouchingIntervalsDoNotCollide(t *testing.T) {
	store := newMemStore()
	seedZoneUserVehicle(store, 1, 2.0)
	svc := newTestService(store)

	store.seed(db.Reservation{
		Code: "TAKEN", UserID: 2, VehicleID: 2, ZoneID: 1,
		StartTime: at(10), EndTime: at(11), Status: db.StatusActive,
	})

	// [11,12) touches [10,11) at 11:00, half-open semantics: no overlap
	result, err := svc.Create(1, 1, 1, at(11), at(12))
	require.NoError(t, err)
	assert.Equal(t, 0, result.FreeSpotsAfter)
}

func TestPayIdempotent(t *testing.T) {
	store := newMemStore()
	seedZoneUserVehicle(store, 1, 2.0)
	svc := newTestService(store)

	result, err := svc.Create(1, 1, 1, at(10), at(11))
	require.NoError(t, err)

	first, err := svc.Pay(1, result.Reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, db.StatusActive, first.Status)

	second, err := svc.Pay(1, result.Reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, db.StatusActive, second.Status)
	assert.Equal(t, first.TotalPrice, second.TotalPrice)
}

func TestPayNotFoundAndForeign(t *testing.T) {
	store := newMemStore()
	seedZoneUserVehicle(store, 1, 2.0)
	svc := newTestService(store)

	_, err := svc.Pay(1, 42)
	assert.ErrorIs(t, err, apperrors.ErrReservationNotFound)

	result, err := svc.Create(1, 1, 1, at(10), at(11))
	require.NoError(t, err)

	// Bob cannot pay Alice's reservation
	_, err = svc.Pay(2, result.Reservation.ID)
	assert.ErrorIs(t, err, apperrors.ErrReservationNotFound)
}

func TestPayAfterEndTimeExpires(t *testing.T) {
	store := newMemStore()
	seedZoneUserVehicle(store, 1, 2.0)
	svc := newTestService(store)

	// window already over at testNow (09:00)
	id := store.seed(db.Reservation{
		Code: "LATE", UserID: 1, VehicleID: 1, ZoneID: 1,
		StartTime: at(6), EndTime: at(8), Status: db.StatusPendingPayment,
	})

	_, err := svc.Pay(1, id)
	assert.ErrorIs(t, err, apperrors.ErrReservationExpired)

	stored, _ := store.ReservationByID(id)
	assert.Equal(t, db.StatusExpired, stored.Status)

	// terminal now: a later Pay is rejected outright
	_, err = svc.Pay(1, id)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyTerminal)
}

func TestPayZoneDeactivatedCancels(t *testing.T) {
	store := newMemStore()
	seedZoneUserVehicle(store, 1, 2.0)
	svc := newTestService(store)

	result, err := svc.Create(1, 1, 1, at(10), at(11))
	require.NoError(t, err)

	store.zones[1].Status = db.ZoneInactive

	_, err = svc.Pay(1, result.Reservation.ID)
	assert.ErrorIs(t, err, apperrors.ErrZoneInactive)

	stored, _ := store.ReservationByID(result.Reservation.ID)
	assert.Equal(t, db.StatusCancelled, stored.Status)
}

func TestPayLostCapacityCancels(t *testing.T) {
	store := newMemStore()
	seedZoneUserVehicle(store, 1, 2.0)
	svc := newTestService(store)

	result, err := svc.Create(1, 1, 1, at(10), at(11))
	require.NoError(t, err)

	// a competing ACTIVE reservation lands in the window before payment
	store.seed(db.Reservation{
		Code: "RIVAL", UserID: 2, VehicleID: 2, ZoneID: 1,
		StartTime: at(10), EndTime: at(11), Status: db.StatusActive,
	})

	_, err = svc.Pay(1, result.Reservation.ID)
	var capErr *apperrors.CapacityError
	require.ErrorAs(t, err, &capErr)

	stored, _ := store.ReservationByID(result.Reservation.ID)
	assert.Equal(t, db.StatusCancelled, stored.Status)
}

func TestCancelLifecycle(t *testing.T) {
	store := newMemStore()
	seedZoneUserVehicle(store, 1, 2.0)
	svc := newTestService(store)

	result, err := svc.Create(1, 1, 1, at(10), at(11))
	require.NoError(t, err)

	res, err := svc.Cancel(1, result.Reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, db.StatusCancelled, res.Status)

	_, err = svc.Cancel(1, result.Reservation.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyTerminal)

	// the cancelled hold no longer blocks the spot
	result2, err := svc.Create(1, 1, 1, at(10), at(11))
	require.NoError(t, err)
	assert.Equal(t, 0, result2.FreeSpotsAfter)
}

func TestListMineSweepsOverdue(t *testing.T) {
	store := newMemStore()
	seedZoneUserVehicle(store, 5, 2.0)
	svc := newTestService(store)

	overdueID := store.seed(db.Reservation{
		Code: "OLD", UserID: 1, VehicleID: 1, ZoneID: 1,
		StartTime: at(6), EndTime: at(8), Status: db.StatusActive,
	})
	currentID := store.seed(db.Reservation{
		Code: "NOW", UserID: 1, VehicleID: 1, ZoneID: 1,
		StartTime: at(8), EndTime: at(12), Status: db.StatusActive,
	})

	list, err := svc.ListMine(1)
	require.NoError(t, err)
	require.Len(t, list, 2)

	// most recent start first
	assert.Equal(t, currentID, list[0].ID)
	assert.Equal(t, db.StatusActive, list[0].Status)
	assert.Equal(t, overdueID, list[1].ID)
	assert.Equal(t, db.StatusExpired, list[1].Status)

	// capacity counts exclude the swept reservation
	avail, err := svc.Availability(1, at(6), at(8))
	require.NoError(t, err)
	assert.Equal(t, 0, avail.ReservedCount)
	assert.Equal(t, 5, avail.FreeSpots)
}

func TestAvailabilityDefaultWindow(t *testing.T) {
	store := newMemStore()
	seedZoneUserVehicle(store, 4, 2.0)
	svc := newTestService(store)

	store.seed(db.Reservation{
		Code: "A", UserID: 2, VehicleID: 2, ZoneID: 1,
		StartTime: at(9), EndTime: at(10), Status: db.StatusActive,
	})
	// pending holds are not shown as reserved on the display path
	store.seed(db.Reservation{
		Code: "B", UserID: 2, VehicleID: 2, ZoneID: 1,
		StartTime: at(9), EndTime: at(10), Status: db.StatusPendingPayment,
	})

	avail, err := svc.Availability(1, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, testNow, avail.StartTime)
	assert.Equal(t, testNow.Add(2*time.Hour), avail.EndTime)
	assert.Equal(t, 4, avail.TotalSpots)
	assert.Equal(t, 1, avail.ReservedCount)
	assert.Equal(t, 3, avail.FreeSpots)

	_, err = svc.Availability(99, time.Time{}, time.Time{})
	assert.ErrorIs(t, err, apperrors.ErrZoneNotFound)

	_, err = svc.Availability(1, at(12), at(11))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInterval)
}

func TestConcurrentCreateLastSpot(t *testing.T) {
	store := newMemStore()
	seedZoneUserVehicle(store, 1, 2.0)
	svc := newTestService(store)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for _, booking := range []struct{ userID, vehicleID int }{{1, 1}, {2, 2}} {
		wg.Add(1)
		go func(userID, vehicleID int) {
			defer wg.Done()
			_, err := svc.Create(userID, vehicleID, 1, at(10), at(11))
			errs <- err
		}(booking.userID, booking.vehicleID)
	}
	wg.Wait()
	close(errs)

	var successes, capacityFailures int
	for err := range errs {
		if err == nil {
			successes++
			continue
		}
		var capErr *apperrors.CapacityError
		require.ErrorAs(t, err, &capErr)
		capacityFailures++
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, capacityFailures)
}

// The booking walkthrough: one spot, 2.0/h. Alice books and pays; Bob is
// turned away; Alice's second payment is a no-op.
func TestBookingScenario(t *testing.T) {
	store := newMemStore()
	seedZoneUserVehicle(store, 1, 2.0)
	svc := newTestService(store)

	created, err := svc.Create(1, 1, 1, at(10), at(11))
	require.NoError(t, err)
	assert.Equal(t, db.StatusPendingPayment, created.Reservation.Status)
	assert.Equal(t, 2.0, created.Reservation.TotalPrice)
	assert.Equal(t, 0, created.FreeSpotsAfter)

	_, err = svc.Create(2, 2, 1, at(10), at(11))
	var capErr *apperrors.CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 0, capErr.FreeSpots)

	paid, err := svc.Pay(1, created.Reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, db.StatusActive, paid.Status)

	again, err := svc.Pay(1, created.Reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, db.StatusActive, again.Status)
}
