package notification

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"autocare-backend/internal/model"
	"autocare-backend/internal/store"
)

// PayloadSender is what a worker hands a finished payload to. Dispatcher
// implements it; tests substitute a recorder.
type PayloadSender interface {
	Notify(ctx context.Context, p Payload) DispatchResult
}

type job struct {
	bookingID uuid.UUID
	status    model.BookingStatus
}

// WorkerPool decouples notification delivery from the transactions that
// trigger it. Jobs carry only the booking id and the new status; workers
// re-read the booking so delivery never holds a lock on the committed rows.
type WorkerPool struct {
	size   int
	jobs   chan job
	store  store.Store
	sender PayloadSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, s store.Store, sender PayloadSender) *WorkerPool {
	return &WorkerPool{
		size:   size,
		jobs:   make(chan job, size*4),
		store:  s,
		sender: sender,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("notification worker %d started", id)
	for {
		select {
		case j := <-wp.jobs:
			wp.notifyBooking(ctx, j)
		case <-ctx.Done():
			log.Printf("notification worker %d shutting down", id)
			return
		}
	}
}

// Dispatch enqueues a notification job. It never blocks the caller: when
// the queue is full the job is dropped and logged, matching the best-effort
// contract of the channel deliveries themselves.
func (wp *WorkerPool) Dispatch(bookingID uuid.UUID, status model.BookingStatus) {
	select {
	case wp.jobs <- job{bookingID: bookingID, status: status}:
	default:
		log.Printf("notification queue full, dropping job for booking %s", bookingID)
	}
}

func (wp *WorkerPool) notifyBooking(ctx context.Context, j job) {
	b, err := wp.store.GetBooking(ctx, j.bookingID.String())
	if err != nil {
		log.Printf("notification: cannot load booking %s: %v", j.bookingID, err)
		return
	}
	wp.sender.Notify(ctx, buildPayload(b, j.status))
}

func buildPayload(b *model.Booking, status model.BookingStatus) Payload {
	p := Payload{
		BookingID: b.ID.String(),
		Status:    string(status),
	}
	if b.Customer != nil {
		p.Phone = b.Customer.Phone
		p.Email = b.Customer.Email
		p.CustomerName = b.Customer.FullName
	}
	if b.ServiceType != nil {
		p.ServiceName = b.ServiceType.Name
	}
	if b.TimeSlot != nil {
		p.Date = time.Time(b.TimeSlot.Date).Format("2006-01-02")
		p.Time = b.TimeSlot.StartTime
	}
	return p
}
