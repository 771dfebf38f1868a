package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServiceType is reference data consumed read-only by the booking core.
type ServiceType struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string    `gorm:"size:255;not null" json:"name"`
	Description     string    `gorm:"type:text" json:"description"`
	VehicleType     string    `gorm:"size:16;not null" json:"vehicle_type"` // car, bike or both
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`
	Price           float64   `gorm:"not null" json:"price"`
	Active          bool      `gorm:"not null;default:true;index" json:"active"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
}

func (s *ServiceType) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
