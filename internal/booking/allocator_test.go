package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	appdb "autocare-backend/internal/db"
	"autocare-backend/internal/model"
	"autocare-backend/internal/store"
)

// newTestStore opens an in-memory SQLite database restricted to a single
// connection, so the conditional UPDATEs are exercised exactly as they
// would be against Postgres.
func newTestStore(t *testing.T) store.Store {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, appdb.Migrate(gdb))
	return store.NewGormStore(gdb)
}

type fixture struct {
	customer model.Customer
	vehicle  model.Vehicle
	service  model.ServiceType
	slot     model.TimeSlot
}

func seedFixture(t *testing.T, s store.Store, capacity int) fixture {
	t.Helper()

	f := fixture{
		customer: model.Customer{FullName: "Ada Park", Phone: "+15550100", Email: "ada@example.com"},
		service:  model.ServiceType{Name: "Full Service", VehicleType: "car", DurationMinutes: 60, Price: 89.99, Active: true},
	}
	require.NoError(t, s.DB().Create(&f.customer).Error)
	require.NoError(t, s.DB().Create(&f.service).Error)

	f.vehicle = model.Vehicle{
		CustomerID:         f.customer.ID,
		VehicleType:        "car",
		Make:               "Toyota",
		Model:              "Corolla",
		Year:               2020,
		RegistrationNumber: "KA01AB" + uuid.NewString()[:4],
	}
	require.NoError(t, s.DB().Create(&f.vehicle).Error)

	f.slot = model.TimeSlot{
		Date:      datatypes.Date(time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)),
		StartTime: "09:00",
		EndTime:   "10:00",
		Capacity:  capacity,
		Active:    true,
	}
	require.NoError(t, s.DB().Create(&f.slot).Error)
	return f
}

func draftFor(f fixture) Draft {
	return Draft{
		CustomerID:    f.customer.ID,
		VehicleID:     f.vehicle.ID,
		ServiceTypeID: f.service.ID,
		Notes:         "please check brakes",
	}
}

type dispatchEvent struct {
	bookingID uuid.UUID
	status    model.BookingStatus
}

// recordingNotifier captures dispatches synchronously for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []dispatchEvent
}

func (r *recordingNotifier) Dispatch(bookingID uuid.UUID, status model.BookingStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, dispatchEvent{bookingID: bookingID, status: status})
}

func (r *recordingNotifier) Events() []dispatchEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]dispatchEvent, len(r.events))
	copy(out, r.events)
	return out
}

func reloadSlot(t *testing.T, s store.Store, id uuid.UUID) model.TimeSlot {
	t.Helper()
	slot, err := s.GetTimeSlot(context.Background(), id.String())
	require.NoError(t, err)
	return *slot
}

func TestReserveCreatesPendingBooking(t *testing.T) {
	s := newTestStore(t)
	f := seedFixture(t, s, 3)
	notifier := &recordingNotifier{}
	alloc := NewAllocator(s, notifier)

	b, err := alloc.Reserve(context.Background(), f.slot.ID, draftFor(f))
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, b.Status)
	assert.Equal(t, f.slot.ID, b.TimeSlotID)

	assert.Equal(t, 1, reloadSlot(t, s, f.slot.ID).BookedCount)

	history, err := s.ListBookingHistory(context.Background(), b.ID.String())
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Nil(t, history[0].OldStatus)
	assert.Equal(t, model.StatusPending, history[0].NewStatus)
	assert.Equal(t, f.customer.ID.String(), history[0].ChangedBy)

	events := notifier.Events()
	require.Len(t, events, 1)
	assert.Equal(t, b.ID, events[0].bookingID)
	assert.Equal(t, model.StatusPending, events[0].status)
}

func TestReserveConcurrentSlotCapacity(t *testing.T) {
	s := newTestStore(t)
	f := seedFixture(t, s, 2)
	alloc := NewAllocator(s, nil)

	const attempts = 3
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := alloc.Reserve(context.Background(), f.slot.ID, draftFor(f))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded, full int
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrSlotFull):
			full++
		default:
			t.Fatalf("unexpected reserve error: %v", err)
		}
	}
	assert.Equal(t, 2, succeeded)
	assert.Equal(t, 1, full)

	assert.Equal(t, 2, reloadSlot(t, s, f.slot.ID).BookedCount)

	var count int64
	require.NoError(t, s.DB().Model(&model.Booking{}).
		Where("time_slot_id = ? AND status = ?", f.slot.ID, model.StatusPending).
		Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestReserveFullSlotWritesNothing(t *testing.T) {
	s := newTestStore(t)
	f := seedFixture(t, s, 1)
	alloc := NewAllocator(s, nil)

	_, err := alloc.Reserve(context.Background(), f.slot.ID, draftFor(f))
	require.NoError(t, err)

	_, err = alloc.Reserve(context.Background(), f.slot.ID, draftFor(f))
	assert.ErrorIs(t, err, ErrSlotFull)

	assert.Equal(t, 1, reloadSlot(t, s, f.slot.ID).BookedCount)

	var bookings int64
	require.NoError(t, s.DB().Model(&model.Booking{}).Count(&bookings).Error)
	assert.EqualValues(t, 1, bookings)
}

func TestReserveUnknownSlot(t *testing.T) {
	s := newTestStore(t)
	f := seedFixture(t, s, 1)
	alloc := NewAllocator(s, nil)

	_, err := alloc.Reserve(context.Background(), uuid.New(), draftFor(f))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReserveInactiveSlot(t *testing.T) {
	s := newTestStore(t)
	f := seedFixture(t, s, 1)
	require.NoError(t, s.DB().Model(&model.TimeSlot{}).
		Where("id = ?", f.slot.ID).
		Update("active", false).Error)

	alloc := NewAllocator(s, nil)
	_, err := alloc.Reserve(context.Background(), f.slot.ID, draftFor(f))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReleaseFloorsAtZero(t *testing.T) {
	s := newTestStore(t)
	f := seedFixture(t, s, 2)
	alloc := NewAllocator(s, nil)

	// Releasing an unclaimed slot is a no-op, not an underflow.
	require.NoError(t, alloc.Release(context.Background(), f.slot.ID))
	assert.Equal(t, 0, reloadSlot(t, s, f.slot.ID).BookedCount)

	_, err := alloc.Reserve(context.Background(), f.slot.ID, draftFor(f))
	require.NoError(t, err)

	require.NoError(t, alloc.Release(context.Background(), f.slot.ID))
	require.NoError(t, alloc.Release(context.Background(), f.slot.ID))
	assert.Equal(t, 0, reloadSlot(t, s, f.slot.ID).BookedCount)
}
