package models

import "time"

// Building is a physical property that contains rooms. BuildingID is the
// human-readable display identifier ("B-0001"); ID is the internal storage key
// and is never exposed through the API.
type Building struct {
	ID         string    `json:"-"`
	BuildingID string    `json:"buildingId"`
	Name       string    `json:"name"`
	Location   string    `json:"location"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CreateBuildingRequest is the write payload for building creation.
// The display identifier is always server-assigned.
type CreateBuildingRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// UpdateBuildingRequest carries optional field updates for an existing
// building. Nil pointers mean "leave unchanged".
type UpdateBuildingRequest struct {
	Name     *string `json:"name,omitempty"`
	Location *string `json:"location,omitempty"`
}
