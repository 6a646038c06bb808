package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ashenlk/tenant-keeper/internal/ledger"
	"github.com/ashenlk/tenant-keeper/internal/logger"
	"github.com/ashenlk/tenant-keeper/internal/sequence"
	"github.com/ashenlk/tenant-keeper/internal/store"
	"github.com/ashenlk/tenant-keeper/models"
)

// roomService is the concrete implementation of [RoomService].
//
// Price history rules live here and in package ledger: intervals are
// server-dated, closed intervals are immutable, and every change goes through
// one close-and-append transition guarded by the room version.
type roomService struct {
	rooms     store.RoomRepository
	buildings store.BuildingRepository
	allocator *Allocator
	logger    *logger.Logger
}

// NewRoomService constructs a [RoomService].
func NewRoomService(rooms store.RoomRepository, buildings store.BuildingRepository, allocator *Allocator, logger *logger.Logger) RoomService {
	return &roomService{
		rooms:     rooms,
		buildings: buildings,
		allocator: allocator,
		logger:    logger,
	}
}

// Create validates the payload, verifies the target building exists,
// allocates the next "R-NNNN" identifier and persists the room with its
// initial price interval open at the base price.
func (s *roomService) Create(ctx context.Context, req models.CreateRoomRequest) (models.Room, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(req.Name) == "" {
		return models.Room{}, invalidField("name", "must not be empty")
	}
	if req.BasePrice <= 0 {
		return models.Room{}, invalidField("basePrice", "must be positive")
	}
	if strings.TrimSpace(req.BuildingID) == "" {
		return models.Room{}, invalidField("buildingId", "must not be empty")
	}

	if _, err := s.buildings.GetByDisplayID(ctx, req.BuildingID); err != nil {
		log.Err(err).
			Str("func", "roomService.Create").
			Str("building_id", req.BuildingID).
			Msg("target building lookup failed")
		return models.Room{}, fmt.Errorf("building %s: %w", req.BuildingID, err)
	}

	facilities := req.Facilities
	if facilities == nil {
		facilities = []models.RoomFacilityItem{}
	}

	now := time.Now().UTC()
	room := models.Room{
		ID:          uuid.NewString(),
		BuildingID:  req.BuildingID,
		Name:        req.Name,
		Description: req.Description,
		Facilities:  facilities,
		Prices:      ledger.Initialize(req.BasePrice, now),
		IsActive:    true,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	displayID, err := s.allocator.CreateWithID(ctx, sequence.Room, func(ctx context.Context, displayID string) error {
		room.RoomID = displayID
		return s.rooms.Create(ctx, &room)
	})
	if err != nil {
		log.Err(err).Str("func", "roomService.Create").Msg("room creation ended with error")
		return models.Room{}, fmt.Errorf("room creation ended with error: %w", err)
	}

	room.RoomID = displayID
	return room, nil
}

// Get returns one room with its full price history.
func (s *roomService) Get(ctx context.Context, roomID string) (models.Room, error) {
	return s.rooms.GetByDisplayID(ctx, roomID)
}

// List returns one page of rooms with pagination metadata.
func (s *roomService) List(ctx context.Context, filter models.ListFilter) ([]models.Room, models.Pagination, error) {
	rooms, total, err := s.rooms.List(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	return rooms, paginate(filter, total), nil
}

// Update applies field changes and, when NewPrice is set, one price
// transition. The transition is computed against the room's current ledger
// and applied under its version guard, so a concurrent price change surfaces
// as [store.ErrVersionConflict] instead of silently rewriting history.
//
// Submitting the current price again is accepted and recorded as a redundant
// transition.
func (s *roomService) Update(ctx context.Context, roomID string, req models.UpdateRoomRequest) (models.Room, error) {
	log := logger.FromContext(ctx)

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return models.Room{}, invalidField("name", "must not be empty")
	}
	if req.NewPrice != nil && *req.NewPrice <= 0 {
		return models.Room{}, invalidField("newPrice", "must be positive")
	}

	if req.NewPrice != nil {
		room, err := s.rooms.GetByDisplayID(ctx, roomID)
		if err != nil {
			return models.Room{}, err
		}

		now := time.Now().UTC()

		// Dry-run against the loaded ledger first: a corrupt history is
		// reported before any write happens.
		if _, err := ledger.Append(room.Prices, *req.NewPrice, now); err != nil {
			log.Err(err).
				Str("func", "roomService.Update").
				Str("room_id", roomID).
				Msg("price ledger rejected the transition")
			return models.Room{}, err
		}

		next := models.PriceInterval{Price: *req.NewPrice, StartDate: now}
		if err := s.rooms.AppendPrice(ctx, roomID, room.Version, now, next); err != nil {
			log.Err(err).
				Str("func", "roomService.Update").
				Str("room_id", roomID).
				Msg("price transition ended with error")
			return models.Room{}, err
		}
	}

	if req.Name != nil || req.Description != nil || req.Facilities != nil {
		if err := s.rooms.UpdateFields(ctx, roomID, req, time.Now().UTC()); err != nil {
			log.Err(err).
				Str("func", "roomService.Update").
				Str("room_id", roomID).
				Msg("room update ended with error")
			return models.Room{}, err
		}
	}

	return s.rooms.GetByDisplayID(ctx, roomID)
}

// CurrentPrice returns the price of the room's open interval.
func (s *roomService) CurrentPrice(ctx context.Context, roomID string) (float64, error) {
	room, err := s.rooms.GetByDisplayID(ctx, roomID)
	if err != nil {
		return 0, err
	}

	return ledger.Current(room.Prices)
}

// SetActive flips the soft-delete flag. The price history is untouched: a
// disabled room keeps its open interval.
func (s *roomService) SetActive(ctx context.Context, roomID string, active bool) error {
	return s.rooms.SetActive(ctx, roomID, active, time.Now().UTC())
}
