package service

import (
	"context"

	"github.com/ashenlk/tenant-keeper/models"
)

// BuildingService manages buildings and their display identifiers.
type BuildingService interface {
	Create(ctx context.Context, req models.CreateBuildingRequest) (models.Building, error)
	Get(ctx context.Context, buildingID string) (models.Building, error)
	List(ctx context.Context, filter models.ListFilter) ([]models.Building, models.Pagination, error)
	Update(ctx context.Context, buildingID string, req models.UpdateBuildingRequest) (models.Building, error)
	SetActive(ctx context.Context, buildingID string, active bool) error
}

// RoomService manages rooms and their append-only price histories.
type RoomService interface {
	Create(ctx context.Context, req models.CreateRoomRequest) (models.Room, error)
	Get(ctx context.Context, roomID string) (models.Room, error)
	List(ctx context.Context, filter models.ListFilter) ([]models.Room, models.Pagination, error)

	// Update applies field changes; when req.NewPrice is set it additionally
	// records one price transition, closing the open interval and opening a
	// new one at the submitted price.
	Update(ctx context.Context, roomID string, req models.UpdateRoomRequest) (models.Room, error)

	// CurrentPrice returns the price of the room's open interval.
	CurrentPrice(ctx context.Context, roomID string) (float64, error)

	SetActive(ctx context.Context, roomID string, active bool) error
}

// TenantService manages tenants. PII fields are encrypted before they reach
// the store and decrypted on the way out; read results are [models.TenantView]
// values, never raw storage rows.
type TenantService interface {
	Create(ctx context.Context, req models.CreateTenantRequest) (models.TenantView, error)
	Get(ctx context.Context, tenantID string) (models.TenantView, error)
	List(ctx context.Context, filter models.ListFilter) ([]models.TenantView, models.Pagination, error)
	Update(ctx context.Context, tenantID string, req models.UpdateTenantRequest) (models.TenantView, error)
	SetActive(ctx context.Context, tenantID string, active bool) error
}

// FacilityService manages room facility types.
type FacilityService interface {
	Create(ctx context.Context, req models.CreateRoomFacilityRequest) (models.RoomFacility, error)
	Get(ctx context.Context, facilityID string) (models.RoomFacility, error)
	List(ctx context.Context, filter models.ListFilter) ([]models.RoomFacility, models.Pagination, error)
	Update(ctx context.Context, facilityID string, req models.UpdateRoomFacilityRequest) (models.RoomFacility, error)
	SetActive(ctx context.Context, facilityID string, active bool) error
}

// MeterService manages room meters and building-level main meters.
type MeterService interface {
	CreateMeter(ctx context.Context, req models.CreateMeterRequest) (models.Meter, error)
	ListMeters(ctx context.Context, filter models.ListFilter) ([]models.Meter, models.Pagination, error)
	CloseMeter(ctx context.Context, meterID string, req models.CloseMeterRequest) error

	CreateMainMeter(ctx context.Context, req models.CreateMainMeterRequest) (models.MainMeter, error)
	ListMainMeters(ctx context.Context, filter models.ListFilter) ([]models.MainMeter, models.Pagination, error)
	SetMainMeterActive(ctx context.Context, mainMeterID string, active bool) error
}
