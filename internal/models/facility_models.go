package models

import "time"

// Facility is a venue that owns courts and has members.
type Facility struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Address     *string   `json:"address,omitempty" db:"address"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Court is a bookable playing surface at a facility.
type Court struct {
	ID          string    `json:"id" db:"id"`
	FacilityID  string    `json:"facilityId" db:"facility_id"`
	Name        string    `json:"name" db:"name"`
	SurfaceType *string   `json:"surfaceType,omitempty" db:"surface_type"`
	IsIndoor    bool      `json:"isIndoor" db:"is_indoor"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
