package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"autocare-backend/internal/model"
	"autocare-backend/internal/store"
)

// Notifier is the post-commit side effect invoked once per status change.
// Implementations must not block; failures never reach the caller.
type Notifier interface {
	Dispatch(bookingID uuid.UUID, status model.BookingStatus)
}

// Draft carries everything needed to create a booking except the slot,
// which is claimed separately.
type Draft struct {
	CustomerID    uuid.UUID
	VehicleID     uuid.UUID
	ServiceTypeID uuid.UUID
	Notes         string
}

// Allocator claims and releases capacity on time slots. The capacity check
// and the increment are a single conditional UPDATE executed by the
// database, so concurrent reservations against the same slot can never
// over-book it.
type Allocator struct {
	store    store.Store
	notifier Notifier
}

// NewAllocator creates an allocator. notifier may be nil (no dispatch).
func NewAllocator(s store.Store, notifier Notifier) *Allocator {
	return &Allocator{store: s, notifier: notifier}
}

// Reserve atomically claims one seat on the slot and creates the booking in
// status pending, together with its creation audit row. Either all three
// writes commit or none do. Returns ErrSlotFull when capacity is exhausted
// and ErrNotFound when no active slot has that id.
func (a *Allocator) Reserve(ctx context.Context, slotID uuid.UUID, draft Draft) (*model.Booking, error) {
	var created *model.Booking

	err := a.store.Transaction(ctx, func(tx *gorm.DB) error {
		res := tx.Model(&model.TimeSlot{}).
			Where("id = ? AND active = ? AND booked_count < capacity", slotID, true).
			UpdateColumn("booked_count", gorm.Expr("booked_count + 1"))
		if res.Error != nil {
			return fmt.Errorf("claim slot %s: %w", slotID, res.Error)
		}
		if res.RowsAffected == 0 {
			// Nothing was claimed. Distinguish a missing slot from a full one.
			var slot model.TimeSlot
			if err := tx.First(&slot, "id = ? AND active = ?", slotID, true).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("time slot %s: %w", slotID, ErrNotFound)
				}
				return fmt.Errorf("load slot %s: %w", slotID, err)
			}
			return ErrSlotFull
		}

		b := &model.Booking{
			CustomerID:    draft.CustomerID,
			VehicleID:     draft.VehicleID,
			ServiceTypeID: draft.ServiceTypeID,
			TimeSlotID:    slotID,
			Status:        model.StatusPending,
			Notes:         draft.Notes,
		}
		if err := tx.Create(b).Error; err != nil {
			return fmt.Errorf("create booking: %w", err)
		}

		// Creation is the implicit first transition: old status is nil.
		h := &model.BookingStatusHistory{
			BookingID: b.ID,
			OldStatus: nil,
			NewStatus: model.StatusPending,
			ChangedBy: draft.CustomerID.String(),
			Notes:     draft.Notes,
		}
		if err := tx.Create(h).Error; err != nil {
			return fmt.Errorf("create booking history: %w", err)
		}

		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	if a.notifier != nil {
		a.notifier.Dispatch(created.ID, model.StatusPending)
	}
	return created, nil
}

// Release gives one claimed seat back, floored at zero. It is a standalone
// compensating operation: it runs after a cancellation has already
// committed and its failure never undoes the status change.
func (a *Allocator) Release(ctx context.Context, slotID uuid.UUID) error {
	res := a.store.DB().WithContext(ctx).
		Model(&model.TimeSlot{}).
		Where("id = ? AND booked_count > 0", slotID).
		UpdateColumn("booked_count", gorm.Expr("booked_count - 1"))
	if res.Error != nil {
		return fmt.Errorf("release slot %s: %w", slotID, res.Error)
	}
	// RowsAffected == 0 means the count was already zero; nothing to do.
	return nil
}
