package store

import (
	"context"
	"time"

	"github.com/ashenlk/tenant-keeper/models"
)

// SequenceRepository backs display-id allocation with an atomic per-type
// counter. The counter is the authoritative source of the next sequence
// number; it is never derived by scanning entity tables at allocation time.
type SequenceRepository interface {
	// NextNumber atomically increments and returns the counter for the
	// entity type, creating it at 1 on first use.
	NextNumber(ctx context.Context, entityType string) (int64, error)

	// EnsureFloor raises the counter to at least floor. Used at startup to
	// align the counter with identifiers assigned before the counter
	// existed; a counter already past floor is left untouched.
	EnsureFloor(ctx context.Context, entityType string, floor int64) error
}

// BuildingRepository persists buildings.
type BuildingRepository interface {
	Create(ctx context.Context, building *models.Building) error
	GetByDisplayID(ctx context.Context, buildingID string) (models.Building, error)
	List(ctx context.Context, filter models.ListFilter) ([]models.Building, int64, error)
	Update(ctx context.Context, buildingID string, upd models.UpdateBuildingRequest, now time.Time) error
	SetActive(ctx context.Context, buildingID string, active bool, now time.Time) error
	LatestDisplayID(ctx context.Context) (string, error)
}

// RoomRepository persists rooms and their append-only price ledgers.
type RoomRepository interface {
	// Create inserts the room together with its initial price intervals in
	// one transaction.
	Create(ctx context.Context, room *models.Room) error
	GetByDisplayID(ctx context.Context, roomID string) (models.Room, error)
	List(ctx context.Context, filter models.ListFilter) ([]models.Room, int64, error)
	UpdateFields(ctx context.Context, roomID string, upd models.UpdateRoomRequest, now time.Time) error

	// AppendPrice applies one ledger transition atomically: bump the room
	// version (guarded by expectedVersion), close the single open interval
	// at closedAt, and insert next as the new open interval. Returns
	// [ErrVersionConflict] when the guard fails and
	// [ErrNoOpenPriceInterval] / [ErrMultipleOpenPriceIntervals] when the
	// stored ledger violates the invariant.
	AppendPrice(ctx context.Context, roomID string, expectedVersion int64, closedAt time.Time, next models.PriceInterval) error

	SetActive(ctx context.Context, roomID string, active bool, now time.Time) error
	LatestDisplayID(ctx context.Context) (string, error)
}

// TenantPatch carries a partial tenant update with PII fields already
// protected. Nil pointers mean "leave unchanged".
type TenantPatch struct {
	FullName    *string
	CallingName *string
	NIC         *models.EncryptedField
	Contact     *models.EncryptedField
	Address     *string // ciphertext
}

// TenantRepository persists tenants. All PII columns hold ciphertext or
// fingerprints by the time they reach this interface.
type TenantRepository interface {
	Create(ctx context.Context, tenant *models.Tenant) error
	GetByDisplayID(ctx context.Context, tenantID string) (models.Tenant, error)
	List(ctx context.Context, filter models.ListFilter) ([]models.Tenant, int64, error)
	Update(ctx context.Context, tenantID string, patch TenantPatch, now time.Time) error
	SetActive(ctx context.Context, tenantID string, active bool, now time.Time) error
	LatestDisplayID(ctx context.Context) (string, error)
}

// FacilityRepository persists room facility types.
type FacilityRepository interface {
	Create(ctx context.Context, facility *models.RoomFacility) error
	GetByDisplayID(ctx context.Context, facilityID string) (models.RoomFacility, error)
	List(ctx context.Context, filter models.ListFilter) ([]models.RoomFacility, int64, error)
	Update(ctx context.Context, facilityID string, upd models.UpdateRoomFacilityRequest, now time.Time) error
	SetActive(ctx context.Context, facilityID string, active bool, now time.Time) error
	LatestDisplayID(ctx context.Context) (string, error)
}

// MeterRepository persists room meters and building-level main meters.
type MeterRepository interface {
	CreateMeter(ctx context.Context, meter *models.Meter) error
	ListMeters(ctx context.Context, filter models.ListFilter) ([]models.Meter, int64, error)
	CloseMeter(ctx context.Context, meterID string, endReading float64, removedAt time.Time) error
	LatestMeterDisplayID(ctx context.Context) (string, error)

	CreateMainMeter(ctx context.Context, meter *models.MainMeter) error
	ListMainMeters(ctx context.Context, filter models.ListFilter) ([]models.MainMeter, int64, error)
	SetMainMeterActive(ctx context.Context, mainMeterID string, active bool, now time.Time) error
	LatestMainMeterDisplayID(ctx context.Context) (string, error)
}

// Repositories aggregates every repository over one shared connection.
type Repositories struct {
	Sequences  SequenceRepository
	Buildings  BuildingRepository
	Rooms      RoomRepository
	Tenants    TenantRepository
	Facilities FacilityRepository
	Meters     MeterRepository
}
