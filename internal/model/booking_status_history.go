package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingStatusHistory is the append-only audit trail of a booking. One row
// is written per transition; OldStatus is nil only for the creation event.
// Rows are never updated or deleted.
type BookingStatusHistory struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	BookingID uuid.UUID      `gorm:"type:uuid;not null;index" json:"booking_id"`
	OldStatus *BookingStatus `gorm:"type:varchar(32)" json:"old_status"`
	NewStatus BookingStatus  `gorm:"type:varchar(32);not null" json:"new_status"`
	ChangedBy string         `gorm:"size:128;not null" json:"changed_by"`
	Notes     string         `gorm:"type:text" json:"notes"`
	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
}

func (h *BookingStatusHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
