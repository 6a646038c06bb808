package service

import (
	"context"
	"fmt"

	"github.com/ashenlk/tenant-keeper/internal/crypto"
	"github.com/ashenlk/tenant-keeper/internal/logger"
	"github.com/ashenlk/tenant-keeper/internal/sequence"
	"github.com/ashenlk/tenant-keeper/internal/store"
)

// Services aggregates every domain service over one repository set.
type Services struct {
	Buildings  BuildingService
	Rooms      RoomService
	Tenants    TenantService
	Facilities FacilityService
	Meters     MeterService

	allocator *Allocator
	repos     *store.Repositories
	logger    *logger.Logger
}

// NewServices wires the service layer: one shared display-id allocator plus
// one service per entity family.
func NewServices(repos *store.Repositories, codec crypto.PiiCodec, logger *logger.Logger) *Services {
	logger.Debug().Msg("creating services")

	allocator := NewAllocator(repos.Sequences, logger)

	return &Services{
		Buildings:  NewBuildingService(repos.Buildings, allocator, logger),
		Rooms:      NewRoomService(repos.Rooms, repos.Buildings, allocator, logger),
		Tenants:    NewTenantService(repos.Tenants, codec, allocator, logger),
		Facilities: NewFacilityService(repos.Facilities, allocator, logger),
		Meters:     NewMeterService(repos.Meters, repos.Rooms, repos.Buildings, allocator, logger),
		allocator:  allocator,
		repos:      repos,
		logger:     logger,
	}
}

// ResyncSequences raises every display-id counter to cover the latest
// persisted identifier of its entity type. Run once at startup, before the
// server accepts requests, so counters survive restores from backups taken
// before the counter table existed.
//
// Fails closed: a single malformed persisted id aborts startup with
// [ErrMalformedSequenceState].
func (s *Services) ResyncSequences(ctx context.Context) error {
	resyncs := []struct {
		entityType sequence.EntityType
		latest     func(ctx context.Context) (string, error)
	}{
		{sequence.Building, s.repos.Buildings.LatestDisplayID},
		{sequence.Room, s.repos.Rooms.LatestDisplayID},
		{sequence.Tenant, s.repos.Tenants.LatestDisplayID},
		{sequence.RoomFacility, s.repos.Facilities.LatestDisplayID},
		{sequence.Meter, s.repos.Meters.LatestMeterDisplayID},
		{sequence.MainMeter, s.repos.Meters.LatestMainMeterDisplayID},
	}

	for _, r := range resyncs {
		if err := s.allocator.Resync(ctx, r.entityType, r.latest); err != nil {
			return fmt.Errorf("sequence resync: %w", err)
		}
	}

	s.logger.Info().Msg("sequence counters resynced")
	return nil
}
