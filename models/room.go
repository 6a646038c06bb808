package models

import "time"

// PriceInterval is one entry of a room's append-only price history.
// EndDate == nil marks the open interval: the price currently in effect.
// For a given room at most one interval is open at any time, intervals are
// ordered by StartDate and never overlap.
type PriceInterval struct {
	Price     float64    `json:"price"`
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
}

// Open reports whether the interval is currently in effect.
func (p PriceInterval) Open() bool {
	return p.EndDate == nil
}

// RoomFacilityItem is a facility attached to a room together with the
// surcharge it adds on top of the room's base price.
type RoomFacilityItem struct {
	Name            string  `json:"name"`
	AdditionalPrice float64 `json:"additionalPrice"`
}

// Room is a rentable unit inside a building. RoomID is the display
// identifier ("R-0001"). Version is the optimistic-concurrency guard used
// when the price history is mutated.
type Room struct {
	ID          string             `json:"-"`
	RoomID      string             `json:"roomId"`
	BuildingID  string             `json:"buildingId"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Facilities  []RoomFacilityItem `json:"facilities"`
	Prices      []PriceInterval    `json:"prices"`
	IsActive    bool               `json:"isActive"`
	Version     int64              `json:"-"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// CreateRoomRequest is the write payload for room creation. BasePrice seeds
// the first (open) price interval; interval dates are always computed by the
// server.
type CreateRoomRequest struct {
	BuildingID  string             `json:"buildingId"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Facilities  []RoomFacilityItem `json:"facilities"`
	BasePrice   float64            `json:"basePrice"`
}

// UpdateRoomRequest carries optional field updates for an existing room.
// NewPrice, when set, closes the current open price interval and opens a new
// one; callers can never supply interval dates directly.
type UpdateRoomRequest struct {
	Name        *string             `json:"name,omitempty"`
	Description *string             `json:"description,omitempty"`
	Facilities  *[]RoomFacilityItem `json:"facilities,omitempty"`
	NewPrice    *float64            `json:"newPrice,omitempty"`
}
