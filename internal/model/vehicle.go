package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vehicle belongs to one customer. Its CRUD lifecycle is plain reference
// data from the booking core's point of view.
type Vehicle struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID         uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
	VehicleType        string    `gorm:"size:16;not null" json:"vehicle_type"` // car or bike
	Make               string    `gorm:"size:128;not null" json:"make"`
	Model              string    `gorm:"size:128;not null" json:"model"`
	Year               int       `gorm:"not null" json:"year"`
	RegistrationNumber string    `gorm:"size:32;not null;uniqueIndex" json:"registration_number"`
	CreatedAt          time.Time `gorm:"not null" json:"created_at"`

	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

func (v *Vehicle) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
