package service

import (
	"context"
	"sync"
	"time"

	"github.com/ashenlk/tenant-keeper/internal/store"
	"github.com/ashenlk/tenant-keeper/models"
)

// ─────────────────────────────────────────────
// Fake: store.SequenceRepository (in-memory)
// ─────────────────────────────────────────────

// memSequenceRepo is an in-memory counter store with the same atomicity
// guarantees as the SQL implementation.
type memSequenceRepo struct {
	mu       sync.Mutex
	counters map[string]int64
}

func newMemSequenceRepo() *memSequenceRepo {
	return &memSequenceRepo{counters: make(map[string]int64)}
}

func (m *memSequenceRepo) NextNumber(_ context.Context, entityType string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[entityType]++
	return m.counters[entityType], nil
}

func (m *memSequenceRepo) EnsureFloor(_ context.Context, entityType string, floor int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counters[entityType] < floor {
		m.counters[entityType] = floor
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: store.BuildingRepository
// ─────────────────────────────────────────────

type mockBuildingRepo struct {
	createFn    func(ctx context.Context, building *models.Building) error
	getFn       func(ctx context.Context, buildingID string) (models.Building, error)
	listFn      func(ctx context.Context, filter models.ListFilter) ([]models.Building, int64, error)
	updateFn    func(ctx context.Context, buildingID string, upd models.UpdateBuildingRequest, now time.Time) error
	setActiveFn func(ctx context.Context, buildingID string, active bool, now time.Time) error
	latestFn    func(ctx context.Context) (string, error)
}

func (m *mockBuildingRepo) Create(ctx context.Context, building *models.Building) error {
	if m.createFn != nil {
		return m.createFn(ctx, building)
	}
	return nil
}

func (m *mockBuildingRepo) GetByDisplayID(ctx context.Context, buildingID string) (models.Building, error) {
	if m.getFn != nil {
		return m.getFn(ctx, buildingID)
	}
	return models.Building{BuildingID: buildingID, IsActive: true}, nil
}

func (m *mockBuildingRepo) List(ctx context.Context, filter models.ListFilter) ([]models.Building, int64, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockBuildingRepo) Update(ctx context.Context, buildingID string, upd models.UpdateBuildingRequest, now time.Time) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, buildingID, upd, now)
	}
	return nil
}

func (m *mockBuildingRepo) SetActive(ctx context.Context, buildingID string, active bool, now time.Time) error {
	if m.setActiveFn != nil {
		return m.setActiveFn(ctx, buildingID, active, now)
	}
	return nil
}

func (m *mockBuildingRepo) LatestDisplayID(ctx context.Context) (string, error) {
	if m.latestFn != nil {
		return m.latestFn(ctx)
	}
	return "", store.ErrNotFound
}

// ─────────────────────────────────────────────
// Mock: store.RoomRepository
// ─────────────────────────────────────────────

type mockRoomRepo struct {
	createFn       func(ctx context.Context, room *models.Room) error
	getFn          func(ctx context.Context, roomID string) (models.Room, error)
	listFn         func(ctx context.Context, filter models.ListFilter) ([]models.Room, int64, error)
	updateFieldsFn func(ctx context.Context, roomID string, upd models.UpdateRoomRequest, now time.Time) error
	appendPriceFn  func(ctx context.Context, roomID string, expectedVersion int64, closedAt time.Time, next models.PriceInterval) error
	setActiveFn    func(ctx context.Context, roomID string, active bool, now time.Time) error
	latestFn       func(ctx context.Context) (string, error)
}

func (m *mockRoomRepo) Create(ctx context.Context, room *models.Room) error {
	if m.createFn != nil {
		return m.createFn(ctx, room)
	}
	return nil
}

func (m *mockRoomRepo) GetByDisplayID(ctx context.Context, roomID string) (models.Room, error) {
	if m.getFn != nil {
		return m.getFn(ctx, roomID)
	}
	return models.Room{RoomID: roomID, IsActive: true}, nil
}

func (m *mockRoomRepo) List(ctx context.Context, filter models.ListFilter) ([]models.Room, int64, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockRoomRepo) UpdateFields(ctx context.Context, roomID string, upd models.UpdateRoomRequest, now time.Time) error {
	if m.updateFieldsFn != nil {
		return m.updateFieldsFn(ctx, roomID, upd, now)
	}
	return nil
}

func (m *mockRoomRepo) AppendPrice(ctx context.Context, roomID string, expectedVersion int64, closedAt time.Time, next models.PriceInterval) error {
	if m.appendPriceFn != nil {
		return m.appendPriceFn(ctx, roomID, expectedVersion, closedAt, next)
	}
	return nil
}

func (m *mockRoomRepo) SetActive(ctx context.Context, roomID string, active bool, now time.Time) error {
	if m.setActiveFn != nil {
		return m.setActiveFn(ctx, roomID, active, now)
	}
	return nil
}

func (m *mockRoomRepo) LatestDisplayID(ctx context.Context) (string, error) {
	if m.latestFn != nil {
		return m.latestFn(ctx)
	}
	return "", store.ErrNotFound
}

// ─────────────────────────────────────────────
// Mock: store.TenantRepository
// ─────────────────────────────────────────────

type mockTenantRepo struct {
	createFn    func(ctx context.Context, tenant *models.Tenant) error
	getFn       func(ctx context.Context, tenantID string) (models.Tenant, error)
	listFn      func(ctx context.Context, filter models.ListFilter) ([]models.Tenant, int64, error)
	updateFn    func(ctx context.Context, tenantID string, patch store.TenantPatch, now time.Time) error
	setActiveFn func(ctx context.Context, tenantID string, active bool, now time.Time) error
	latestFn    func(ctx context.Context) (string, error)
}

func (m *mockTenantRepo) Create(ctx context.Context, tenant *models.Tenant) error {
	if m.createFn != nil {
		return m.createFn(ctx, tenant)
	}
	return nil
}

func (m *mockTenantRepo) GetByDisplayID(ctx context.Context, tenantID string) (models.Tenant, error) {
	if m.getFn != nil {
		return m.getFn(ctx, tenantID)
	}
	return models.Tenant{TenantID: tenantID, IsActive: true}, nil
}

func (m *mockTenantRepo) List(ctx context.Context, filter models.ListFilter) ([]models.Tenant, int64, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockTenantRepo) Update(ctx context.Context, tenantID string, patch store.TenantPatch, now time.Time) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, tenantID, patch, now)
	}
	return nil
}

func (m *mockTenantRepo) SetActive(ctx context.Context, tenantID string, active bool, now time.Time) error {
	if m.setActiveFn != nil {
		return m.setActiveFn(ctx, tenantID, active, now)
	}
	return nil
}

func (m *mockTenantRepo) LatestDisplayID(ctx context.Context) (string, error) {
	if m.latestFn != nil {
		return m.latestFn(ctx)
	}
	return "", store.ErrNotFound
}
