package models

import "time"

// RoomFacility is a facility type that can be attached to rooms (for example
// "air conditioning"). FacilityID is the display identifier ("RF-0001") and
// Name is unique across facilities.
type RoomFacility struct {
	ID          string    `json:"-"`
	FacilityID  string    `json:"facilityId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateRoomFacilityRequest is the write payload for facility creation.
type CreateRoomFacilityRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// UpdateRoomFacilityRequest carries optional field updates for an existing
// facility.
type UpdateRoomFacilityRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
}
