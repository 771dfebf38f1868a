package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"autocare-backend/internal/model"
)

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestGormStore_ListBookingHistoryOrdersOldestFirst(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB)

	bookingID := uuid.New()
	first := uuid.New()
	second := uuid.New()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT * FROM "booking_status_histories" WHERE booking_id = $1 ORDER BY created_at ASC`)).
		WithArgs(bookingID.String()).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "booking_id", "old_status", "new_status", "changed_by", "notes", "created_at"}).
			AddRow(first.String(), bookingID.String(), nil, "pending", "customer", "", now.Add(-time.Hour)).
			AddRow(second.String(), bookingID.String(), "pending", "confirmed", "staff:maria", "", now))

	history, err := s.ListBookingHistory(context.Background(), bookingID.String())
	require.NoError(t, err)
	require.Len(t, history, 2)

	assert.Nil(t, history[0].OldStatus)
	assert.Equal(t, model.StatusPending, history[0].NewStatus)
	require.NotNil(t, history[1].OldStatus)
	assert.Equal(t, model.StatusPending, *history[1].OldStatus)
	assert.Equal(t, model.StatusConfirmed, history[1].NewStatus)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_GetTimeSlotNotFound(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "time_slots" WHERE id = $1`)).
		WithArgs(id.String(), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.GetTimeSlot(context.Background(), id.String())
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_ListBookingsAppliesStatusFilter(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT * FROM "bookings" WHERE status = $1 ORDER BY created_at DESC`)).
		WithArgs("pending").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	bookings, err := s.ListBookings(context.Background(), model.StatusPending)
	require.NoError(t, err)
	assert.Empty(t, bookings)

	assert.NoError(t, mock.ExpectationsWereMet())
}
