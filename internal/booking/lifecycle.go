package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"autocare-backend/internal/model"
	"autocare-backend/internal/store"
)

// transitions is the authoritative gate for all status changes. A target
// status absent from the current status's row is rejected outright;
// completed and cancelled have no outgoing edges.
var transitions = map[model.BookingStatus][]model.BookingStatus{
	model.StatusPending:    {model.StatusConfirmed, model.StatusCancelled},
	model.StatusConfirmed:  {model.StatusInProgress, model.StatusCompleted, model.StatusCancelled},
	model.StatusInProgress: {model.StatusCompleted},
	model.StatusCompleted:  {},
	model.StatusCancelled:  {},
}

// CanTransition reports whether from -> to is a valid edge.
func CanTransition(from, to model.BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Lifecycle enforces the booking status state machine and writes the audit
// trail. Every status change in the system routes through Transition; there
// is no other writer of the status column.
type Lifecycle struct {
	store     store.Store
	allocator *Allocator
	notifier  Notifier

	// releaseFrom lists the statuses that still hold slot capacity when a
	// booking is cancelled out of them.
	releaseFrom map[model.BookingStatus]bool
}

// NewLifecycle creates a lifecycle engine. releaseFrom is the set of
// statuses whose cancellation gives the slot seat back; notifier may be nil.
func NewLifecycle(s store.Store, allocator *Allocator, notifier Notifier, releaseFrom []model.BookingStatus) *Lifecycle {
	set := make(map[model.BookingStatus]bool, len(releaseFrom))
	for _, st := range releaseFrom {
		set[st] = true
	}
	return &Lifecycle{store: s, allocator: allocator, notifier: notifier, releaseFrom: set}
}

// Transition moves the booking to newStatus if the transition table allows
// it, updating the status and appending exactly one history row in a single
// transaction. On success, capacity release (for cancellations) and
// notification dispatch run after the commit and cannot roll it back.
func (l *Lifecycle) Transition(ctx context.Context, bookingID uuid.UUID, newStatus model.BookingStatus, actor, notes string) (*model.BookingStatusHistory, error) {
	if !newStatus.Valid() {
		return nil, fmt.Errorf("status %q: %w", newStatus, ErrInvalidTransition)
	}

	// Two attempts: the status column is updated with a guard on the value
	// we read, so a concurrent transition shows up as zero rows affected
	// and the whole unit is retried against the fresh status.
	var (
		record    *model.BookingStatusHistory
		oldStatus model.BookingStatus
		slotID    uuid.UUID
		conflict  = errors.New("concurrent status change")
	)
	for attempt := 0; ; attempt++ {
		record = nil
		err := l.store.Transaction(ctx, func(tx *gorm.DB) error {
			var b model.Booking
			if err := tx.First(&b, "id = ?", bookingID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
				}
				return fmt.Errorf("load booking %s: %w", bookingID, err)
			}

			if !CanTransition(b.Status, newStatus) {
				return fmt.Errorf("%s -> %s: %w", b.Status, newStatus, ErrInvalidTransition)
			}

			res := tx.Model(&model.Booking{}).
				Where("id = ? AND status = ?", b.ID, b.Status).
				Updates(map[string]any{
					"status":     newStatus,
					"updated_at": time.Now().UTC(),
				})
			if res.Error != nil {
				return fmt.Errorf("update booking %s: %w", b.ID, res.Error)
			}
			if res.RowsAffected == 0 {
				return conflict
			}

			old := b.Status
			h := &model.BookingStatusHistory{
				BookingID: b.ID,
				OldStatus: &old,
				NewStatus: newStatus,
				ChangedBy: actor,
				Notes:     notes,
			}
			if err := tx.Create(h).Error; err != nil {
				return fmt.Errorf("create booking history: %w", err)
			}

			record = h
			oldStatus = old
			slotID = b.TimeSlotID
			return nil
		})
		if err == nil {
			break
		}
		if errors.Is(err, conflict) && attempt == 0 {
			continue
		}
		return nil, err
	}

	if newStatus == model.StatusCancelled && l.releaseFrom[oldStatus] {
		if err := l.allocator.Release(ctx, slotID); err != nil {
			// Compensating action: the cancellation is already committed,
			// a failed release is logged and left to operators.
			log.Printf("failed to release slot %s after cancelling booking %s: %v", slotID, bookingID, err)
		}
	}

	if l.notifier != nil {
		l.notifier.Dispatch(bookingID, newStatus)
	}
	return record, nil
}
