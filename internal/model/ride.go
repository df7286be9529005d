package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RideStatus represents the current stage of a ride. Status values are
// free-form writes: any transition between known statuses is accepted.
type RideStatus string

const (
	RideStatusEnRoute   RideStatus = "en-route"
	RideStatusPickup    RideStatus = "pickup"
	RideStatusDropoff   RideStatus = "dropoff"
	RideStatusCompleted RideStatus = "completed"
	RideStatusCancelled RideStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s RideStatus) Valid() bool {
	switch s {
	case RideStatusEnRoute, RideStatusPickup, RideStatusDropoff,
		RideStatusCompleted, RideStatusCancelled:
		return true
	}
	return false
}

// ActiveRideStatuses are the statuses of rides still in progress.
var ActiveRideStatuses = []RideStatus{
	RideStatusEnRoute, RideStatusPickup, RideStatusDropoff,
}

// Ride represents a single dispatch trip between a rider and a driver.
// Invariants enforced at the service boundary: RiderID != DriverID and
// both coordinate pairs inside valid lat/lon ranges.
type Ride struct {
	ID               uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Status           RideStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	RiderID          uuid.UUID  `json:"rider_id" gorm:"type:char(36);not null;index"`
	DriverID         uuid.UUID  `json:"driver_id" gorm:"type:char(36);not null;index"`
	PickupLatitude   float64    `json:"pickup_latitude" gorm:"not null"`
	PickupLongitude  float64    `json:"pickup_longitude" gorm:"not null"`
	DropoffLatitude  float64    `json:"dropoff_latitude" gorm:"not null"`
	DropoffLongitude float64    `json:"dropoff_longitude" gorm:"not null"`
	PickupTime       time.Time  `json:"pickup_time" gorm:"not null;index"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Relations
	Rider  *User       `json:"rider,omitempty" gorm:"foreignKey:RiderID"`
	Driver *User       `json:"driver,omitempty" gorm:"foreignKey:DriverID"`
	Events []RideEvent `json:"-" gorm:"foreignKey:RideID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (r *Ride) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// IsActive reports whether the ride is still in progress.
func (r *Ride) IsActive() bool {
	switch r.Status {
	case RideStatusCompleted, RideStatusCancelled:
		return false
	}
	return true
}
