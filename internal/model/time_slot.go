package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TimeSlot is a finite-capacity window on a service day.
// Invariant: 0 <= BookedCount <= Capacity, enforced by the allocator's
// conditional updates, never by client-side checks.
type TimeSlot struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Date        datatypes.Date `gorm:"type:date;not null;index" json:"date"`
	StartTime   string         `gorm:"size:8;not null" json:"start_time"`
	EndTime     string         `gorm:"size:8;not null" json:"end_time"`
	Capacity    int            `gorm:"not null" json:"capacity"`
	BookedCount int            `gorm:"not null;default:0" json:"booked_count"`
	Active      bool           `gorm:"not null;default:true;index" json:"active"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
}

func (s *TimeSlot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
