package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"autocare-backend/internal/model"
)

// ErrNotFound is returned when a point lookup names an unknown id.
var ErrNotFound = errors.New("record not found")

// Store defines the persistence boundary the booking core talks to. All
// state is durable and re-read per operation; nothing is cached here.
type Store interface {
	// DB exposes the underlying handle for reference-data handlers and
	// migrations. Core components must go through the typed methods.
	DB() *gorm.DB

	// Transaction runs fn atomically. The write pairs of the core (slot row
	// + booking row, booking row + history row) always go through here.
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error

	GetBooking(ctx context.Context, id string) (*model.Booking, error)
	GetTimeSlot(ctx context.Context, id string) (*model.TimeSlot, error)
	GetCustomer(ctx context.Context, id string) (*model.Customer, error)

	ListBookingsByCustomer(ctx context.Context, customerID string) ([]model.Booking, error)
	ListBookings(ctx context.Context, status model.BookingStatus) ([]model.Booking, error)
	ListBookingHistory(ctx context.Context, bookingID string) ([]model.BookingStatusHistory, error)
	ListActiveServiceTypes(ctx context.Context) ([]model.ServiceType, error)
	ListSlotsByDate(ctx context.Context, date time.Time) ([]model.TimeSlot, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func (s *gormStore) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn)
}

// GetBooking loads a booking with its reference data preloaded.
func (s *gormStore) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	var b model.Booking
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Vehicle").
		Preload("ServiceType").
		Preload("TimeSlot").
		First(&b, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "booking %s", id)
	}
	return &b, nil
}

func (s *gormStore) GetTimeSlot(ctx context.Context, id string) (*model.TimeSlot, error) {
	var slot model.TimeSlot
	if err := s.db.WithContext(ctx).First(&slot, "id = ?", id).Error; err != nil {
		return nil, translate(err, "time slot %s", id)
	}
	return &slot, nil
}

func (s *gormStore) GetCustomer(ctx context.Context, id string) (*model.Customer, error) {
	var c model.Customer
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err, "customer %s", id)
	}
	return &c, nil
}

func (s *gormStore) ListBookingsByCustomer(ctx context.Context, customerID string) ([]model.Booking, error) {
	var bookings []model.Booking
	err := s.db.WithContext(ctx).
		Preload("Vehicle").
		Preload("ServiceType").
		Preload("TimeSlot").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("list bookings for customer %s: %w", customerID, err)
	}
	return bookings, nil
}

// ListBookings is the admin-facing listing joined with vehicle, service and
// slot reference data. An empty status means no status filter.
func (s *gormStore) ListBookings(ctx context.Context, status model.BookingStatus) ([]model.Booking, error) {
	q := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Vehicle").
		Preload("ServiceType").
		Preload("TimeSlot").
		Order("created_at DESC")

	if status != "" {
		q = q.Where("status = ?", status)
	}

	var bookings []model.Booking
	if err := q.Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// ListBookingHistory returns the audit trail oldest-first, so the ordered
// rows reconstruct the booking's full status path.
func (s *gormStore) ListBookingHistory(ctx context.Context, bookingID string) ([]model.BookingStatusHistory, error) {
	var history []model.BookingStatusHistory
	err := s.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").
		Find(&history).Error
	if err != nil {
		return nil, fmt.Errorf("list history for booking %s: %w", bookingID, err)
	}
	return history, nil
}

func (s *gormStore) ListActiveServiceTypes(ctx context.Context) ([]model.ServiceType, error) {
	var services []model.ServiceType
	err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&services).Error
	if err != nil {
		return nil, fmt.Errorf("list service types: %w", err)
	}
	return services, nil
}

// ListSlotsByDate returns the active slots on one service day. The day is
// matched as a half-open range so the query behaves the same on date and
// timestamp column types.
func (s *gormStore) ListSlotsByDate(ctx context.Context, date time.Time) ([]model.TimeSlot, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	var slots []model.TimeSlot
	err := s.db.WithContext(ctx).
		Where("date >= ? AND date < ? AND active = ?", day, day.AddDate(0, 0, 1), true).
		Order("start_time ASC").
		Find(&slots).Error
	if err != nil {
		return nil, fmt.Errorf("list slots for %s: %w", day.Format("2006-01-02"), err)
	}
	return slots, nil
}

func translate(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
