package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ashenlk/tenant-keeper/internal/logger"
	"github.com/ashenlk/tenant-keeper/internal/sequence"
	"github.com/ashenlk/tenant-keeper/internal/store"
	"github.com/ashenlk/tenant-keeper/models"
)

// meterService is the concrete implementation of [MeterService].
//
// Room meters and main meters share the "M" display prefix but draw from
// independent counters, so "M-0003" may exist as both a room meter and a main
// meter. The two live in separate tables and never clash.
type meterService struct {
	meters    store.MeterRepository
	rooms     store.RoomRepository
	buildings store.BuildingRepository
	allocator *Allocator
	logger    *logger.Logger
}

// NewMeterService constructs a [MeterService].
func NewMeterService(meters store.MeterRepository, rooms store.RoomRepository, buildings store.BuildingRepository, allocator *Allocator, logger *logger.Logger) MeterService {
	return &meterService{
		meters:    meters,
		rooms:     rooms,
		buildings: buildings,
		allocator: allocator,
		logger:    logger,
	}
}

// CreateMeter validates the payload, verifies the target room exists and
// persists the meter under the next "M-NNNN" identifier.
func (s *meterService) CreateMeter(ctx context.Context, req models.CreateMeterRequest) (models.Meter, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(req.RoomID) == "" {
		return models.Meter{}, invalidField("roomId", "must not be empty")
	}
	if req.StartReading < 0 {
		return models.Meter{}, invalidField("startReading", "must not be negative")
	}

	if _, err := s.rooms.GetByDisplayID(ctx, req.RoomID); err != nil {
		log.Err(err).
			Str("func", "meterService.CreateMeter").
			Str("room_id", req.RoomID).
			Msg("target room lookup failed")
		return models.Meter{}, fmt.Errorf("room %s: %w", req.RoomID, err)
	}

	now := time.Now().UTC()
	installed := now
	if req.InstalledAt != nil {
		installed = req.InstalledAt.UTC()
	}

	meter := models.Meter{
		ID:           uuid.NewString(),
		RoomID:       req.RoomID,
		InstalledAt:  installed,
		StartReading: req.StartReading,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	displayID, err := s.allocator.CreateWithID(ctx, sequence.Meter, func(ctx context.Context, displayID string) error {
		meter.MeterID = displayID
		return s.meters.CreateMeter(ctx, &meter)
	})
	if err != nil {
		log.Err(err).Str("func", "meterService.CreateMeter").Msg("meter creation ended with error")
		return models.Meter{}, fmt.Errorf("meter creation ended with error: %w", err)
	}

	meter.MeterID = displayID
	return meter, nil
}

// ListMeters returns one page of room meters with pagination metadata.
func (s *meterService) ListMeters(ctx context.Context, filter models.ListFilter) ([]models.Meter, models.Pagination, error) {
	meters, total, err := s.meters.ListMeters(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	return meters, paginate(filter, total), nil
}

// CloseMeter decommissions an installed meter with its final reading.
// Closing a meter that is already removed reports [store.ErrNotFound]; the
// recorded history is never amended.
func (s *meterService) CloseMeter(ctx context.Context, meterID string, req models.CloseMeterRequest) error {
	if req.EndReading < 0 {
		return invalidField("endReading", "must not be negative")
	}

	return s.meters.CloseMeter(ctx, meterID, req.EndReading, time.Now().UTC())
}

// CreateMainMeter validates the payload, verifies the target building exists
// and persists the main meter under the next "M-NNNN" identifier from the
// main-meter counter.
func (s *meterService) CreateMainMeter(ctx context.Context, req models.CreateMainMeterRequest) (models.MainMeter, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(req.MeterType) == "" {
		return models.MainMeter{}, invalidField("meterType", "must not be empty")
	}
	if strings.TrimSpace(req.MeterNo) == "" {
		return models.MainMeter{}, invalidField("meterNo", "must not be empty")
	}
	if strings.TrimSpace(req.BuildingID) == "" {
		return models.MainMeter{}, invalidField("buildingId", "must not be empty")
	}

	if _, err := s.buildings.GetByDisplayID(ctx, req.BuildingID); err != nil {
		log.Err(err).
			Str("func", "meterService.CreateMainMeter").
			Str("building_id", req.BuildingID).
			Msg("target building lookup failed")
		return models.MainMeter{}, fmt.Errorf("building %s: %w", req.BuildingID, err)
	}

	now := time.Now().UTC()
	installed := now
	if req.InstalledAt != nil {
		installed = req.InstalledAt.UTC()
	}

	meter := models.MainMeter{
		ID:          uuid.NewString(),
		MeterType:   req.MeterType,
		BuildingID:  req.BuildingID,
		MeterNo:     req.MeterNo,
		InstalledAt: installed,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	displayID, err := s.allocator.CreateWithID(ctx, sequence.MainMeter, func(ctx context.Context, displayID string) error {
		meter.MainMeterID = displayID
		return s.meters.CreateMainMeter(ctx, &meter)
	})
	if err != nil {
		log.Err(err).Str("func", "meterService.CreateMainMeter").Msg("main meter creation ended with error")
		return models.MainMeter{}, fmt.Errorf("main meter creation ended with error: %w", err)
	}

	meter.MainMeterID = displayID
	return meter, nil
}

// ListMainMeters returns one page of main meters with pagination metadata.
func (s *meterService) ListMainMeters(ctx context.Context, filter models.ListFilter) ([]models.MainMeter, models.Pagination, error) {
	meters, total, err := s.meters.ListMainMeters(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	return meters, paginate(filter, total), nil
}

// SetMainMeterActive flips the soft-delete flag on a main meter.
func (s *meterService) SetMainMeterActive(ctx context.Context, mainMeterID string, active bool) error {
	return s.meters.SetMainMeterActive(ctx, mainMeterID, active, time.Now().UTC())
}
