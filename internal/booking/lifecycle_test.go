package booking

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autocare-backend/internal/model"
	"autocare-backend/internal/store"
)

var defaultReleaseFrom = []model.BookingStatus{model.StatusPending, model.StatusConfirmed}

// seedBooking inserts a booking directly, bypassing the allocator, so
// lifecycle tests control the starting status and history precisely.
func seedBooking(t *testing.T, s store.Store, f fixture, status model.BookingStatus) model.Booking {
	t.Helper()
	b := model.Booking{
		CustomerID:    f.customer.ID,
		VehicleID:     f.vehicle.ID,
		ServiceTypeID: f.service.ID,
		TimeSlotID:    f.slot.ID,
		Status:        status,
	}
	require.NoError(t, s.DB().Create(&b).Error)
	return b
}

func TestCanTransition(t *testing.T) {
	valid := []struct{ from, to model.BookingStatus }{
		{model.StatusPending, model.StatusConfirmed},
		{model.StatusPending, model.StatusCancelled},
		{model.StatusConfirmed, model.StatusInProgress},
		{model.StatusConfirmed, model.StatusCompleted},
		{model.StatusConfirmed, model.StatusCancelled},
		{model.StatusInProgress, model.StatusCompleted},
	}
	for _, tc := range valid {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	invalid := []struct{ from, to model.BookingStatus }{
		{model.StatusCompleted, model.StatusConfirmed},
		{model.StatusCompleted, model.StatusCancelled},
		{model.StatusCancelled, model.StatusPending},
		{model.StatusInProgress, model.StatusCancelled},
		{model.StatusPending, model.StatusCompleted},
		{model.StatusPending, model.StatusPending},
	}
	for _, tc := range invalid {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s should be rejected", tc.from, tc.to)
	}
}

func TestTransitionHappyPath(t *testing.T) {
	s := newTestStore(t)
	f := seedFixture(t, s, 2)
	b := seedBooking(t, s, f, model.StatusPending)

	notifier := &recordingNotifier{}
	lc := NewLifecycle(s, NewAllocator(s, nil), notifier, defaultReleaseFrom)

	rec, err := lc.Transition(context.Background(), b.ID, model.StatusConfirmed, "staff:maria", "called customer")
	require.NoError(t, err)
	require.NotNil(t, rec.OldStatus)
	assert.Equal(t, model.StatusPending, *rec.OldStatus)
	assert.Equal(t, model.StatusConfirmed, rec.NewStatus)
	assert.Equal(t, "staff:maria", rec.ChangedBy)

	_, err = lc.Transition(context.Background(), b.ID, model.StatusCompleted, "staff:maria", "")
	require.NoError(t, err)

	got, err := s.GetBooking(context.Background(), b.ID.String())
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, got.Status)

	history, err := s.ListBookingHistory(context.Background(), b.ID.String())
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, model.StatusPending, *history[0].OldStatus)
	assert.Equal(t, model.StatusConfirmed, history[0].NewStatus)
	assert.Equal(t, model.StatusConfirmed, *history[1].OldStatus)
	assert.Equal(t, model.StatusCompleted, history[1].NewStatus)

	events := notifier.Events()
	require.Len(t, events, 2)
	assert.Equal(t, model.StatusConfirmed, events[0].status)
	assert.Equal(t, model.StatusCompleted, events[1].status)
}

func TestTransitionInvalidLeavesEverythingUnchanged(t *testing.T) {
	s := newTestStore(t)
	f := seedFixture(t, s, 2)
	b := seedBooking(t, s, f, model.StatusCompleted)

	notifier := &recordingNotifier{}
	lc := NewLifecycle(s, NewAllocator(s, nil), notifier, defaultReleaseFrom)

	_, err := lc.Transition(context.Background(), b.ID, model.StatusConfirmed, "staff:maria", "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	got, err := s.GetBooking(context.Background(), b.ID.String())
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, got.Status)

	history, err := s.ListBookingHistory(context.Background(), b.ID.String())
	require.NoError(t, err)
	assert.Empty(t, history)

	assert.Equal(t, 0, reloadSlot(t, s, f.slot.ID).BookedCount)
	assert.Empty(t, notifier.Events())
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	s := newTestStore(t)
	f := seedFixture(t, s, 2)
	b := seedBooking(t, s, f, model.StatusPending)

	lc := NewLifecycle(s, NewAllocator(s, nil), nil, defaultReleaseFrom)

	_, err := lc.Transition(context.Background(), b.ID, model.BookingStatus("shipped"), "staff:maria", "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransitionUnknownBooking(t *testing.T) {
	s := newTestStore(t)
	seedFixture(t, s, 2)

	lc := NewLifecycle(s, NewAllocator(s, nil), nil, defaultReleaseFrom)

	_, err := lc.Transition(context.Background(), uuid.New(), model.StatusConfirmed, "staff:maria", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelPendingReleasesCapacity(t *testing.T) {
	s := newTestStore(t)
	f := seedFixture(t, s, 2)

	notifier := &recordingNotifier{}
	alloc := NewAllocator(s, notifier)
	lc := NewLifecycle(s, alloc, notifier, defaultReleaseFrom)

	b, err := alloc.Reserve(context.Background(), f.slot.ID, draftFor(f))
	require.NoError(t, err)
	require.Equal(t, 1, reloadSlot(t, s, f.slot.ID).BookedCount)

	rec, err := lc.Transition(context.Background(), b.ID, model.StatusCancelled, "customer", "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, *rec.OldStatus)
	assert.Equal(t, model.StatusCancelled, rec.NewStatus)

	assert.Equal(t, 0, reloadSlot(t, s, f.slot.ID).BookedCount)

	got, err := s.GetBooking(context.Background(), b.ID.String())
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, got.Status)

	// Creation row plus the cancellation row.
	history, err := s.ListBookingHistory(context.Background(), b.ID.String())
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, model.StatusCancelled, history[1].NewStatus)
}

func TestCancelOutsideReleasePolicyKeepsCapacity(t *testing.T) {
	s := newTestStore(t)
	f := seedFixture(t, s, 2)

	alloc := NewAllocator(s, nil)
	// Policy: only pending cancellations give the seat back.
	lc := NewLifecycle(s, alloc, nil, []model.BookingStatus{model.StatusPending})

	b, err := alloc.Reserve(context.Background(), f.slot.ID, draftFor(f))
	require.NoError(t, err)
	_, err = lc.Transition(context.Background(), b.ID, model.StatusConfirmed, "staff:maria", "")
	require.NoError(t, err)

	_, err = lc.Transition(context.Background(), b.ID, model.StatusCancelled, "staff:maria", "no-show")
	require.NoError(t, err)

	assert.Equal(t, 1, reloadSlot(t, s, f.slot.ID).BookedCount)
}
