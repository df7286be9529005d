package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RideEvent is an append-only child record of a ride describing something
// that happened during the trip. Events are deleted together with their
// parent ride and, as a deliberate exception to append-only semantics,
// the description remains editable through the generic update path.
type RideEvent struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	RideID      uuid.UUID `json:"ride_id" gorm:"type:char(36);not null;index"`
	Description string    `json:"description" gorm:"size:255;not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`

	// Relations
	Ride *Ride `json:"-" gorm:"foreignKey:RideID"`
}

// BeforeCreate sets UUID before creating the record.
func (e *RideEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// IsPickup reports whether the event describes a pickup.
func (e *RideEvent) IsPickup() bool {
	return strings.Contains(strings.ToLower(e.Description), "pickup")
}

// IsDropoff reports whether the event describes a dropoff.
func (e *RideEvent) IsDropoff() bool {
	return strings.Contains(strings.ToLower(e.Description), "dropoff")
}
