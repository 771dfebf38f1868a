package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingStatus is the lifecycle state of a booking. The persisted string
// tokens are part of the notification contract and must not change.
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
)

// Valid reports whether s is one of the five known statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Booking is a reservation of one time slot for one vehicle and service.
// The slot reference is immutable once created; cancellation is a terminal
// status, never a row deletion.
type Booking struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"customer_id"`
	VehicleID     uuid.UUID     `gorm:"type:uuid;not null;index" json:"vehicle_id"`
	ServiceTypeID uuid.UUID     `gorm:"type:uuid;not null" json:"service_type_id"`
	TimeSlotID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"time_slot_id"`
	Status        BookingStatus `gorm:"type:varchar(32);not null;index" json:"status"`
	Notes         string        `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time     `gorm:"not null;index" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"not null" json:"updated_at"`

	// Associations
	Customer    *Customer    `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Vehicle     *Vehicle     `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	ServiceType *ServiceType `gorm:"foreignKey:ServiceTypeID" json:"service_type,omitempty"`
	TimeSlot    *TimeSlot    `gorm:"foreignKey:TimeSlotID" json:"time_slot,omitempty"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
