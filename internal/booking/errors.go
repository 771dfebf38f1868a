package booking

import (
	"errors"

	"autocare-backend/internal/store"
)

var (
	// ErrSlotFull means the slot's capacity is exhausted. User-correctable:
	// pick another slot.
	ErrSlotFull = errors.New("time slot is fully booked")

	// ErrInvalidTransition means the requested status is not reachable from
	// the booking's current status. Nothing is written.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotFound mirrors the store sentinel for unknown booking/slot ids.
	ErrNotFound = store.ErrNotFound
)
