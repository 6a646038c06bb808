package models

import "time"

// Meter is a per-room utility meter. MeterID is the display identifier
// ("M-0001"). A meter is decommissioned by setting RemovedAt and EndReading
// rather than deleting the record, preserving its reading history.
type Meter struct {
	ID           string     `json:"-"`
	MeterID      string     `json:"meterId"`
	RoomID       string     `json:"roomId"`
	InstalledAt  time.Time  `json:"installedAt"`
	RemovedAt    *time.Time `json:"removedAt"`
	StartReading float64    `json:"startReading"`
	EndReading   *float64   `json:"endReading"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// MainMeter is a building-level utility meter owned by the utility company.
// MeterNo is the utility company's own identifier and is unique; MainMeterID
// is the display identifier assigned by this system.
type MainMeter struct {
	ID          string     `json:"-"`
	MainMeterID string     `json:"mainMeterId"`
	MeterType   string     `json:"meterType"`
	BuildingID  string     `json:"buildingId"`
	MeterNo     string     `json:"meterNo"`
	InstalledAt time.Time  `json:"installedAt"`
	RemovedAt   *time.Time `json:"removedAt"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CreateMeterRequest is the write payload for room meter installation.
type CreateMeterRequest struct {
	RoomID       string     `json:"roomId"`
	InstalledAt  *time.Time `json:"installedAt,omitempty"`
	StartReading float64    `json:"startReading"`
}

// CloseMeterRequest decommissions a room meter with its final reading.
type CloseMeterRequest struct {
	EndReading float64 `json:"endReading"`
}

// CreateMainMeterRequest is the write payload for main meter registration.
type CreateMainMeterRequest struct {
	MeterType   string     `json:"meterType"`
	BuildingID  string     `json:"buildingId"`
	MeterNo     string     `json:"meterNo"`
	InstalledAt *time.Time `json:"installedAt,omitempty"`
}
