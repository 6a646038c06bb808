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

// facilityService is the concrete implementation of [FacilityService].
type facilityService struct {
	facilities store.FacilityRepository
	allocator  *Allocator
	logger     *logger.Logger
}

// NewFacilityService constructs a [FacilityService].
func NewFacilityService(facilities store.FacilityRepository, allocator *Allocator, logger *logger.Logger) FacilityService {
	return &facilityService{
		facilities: facilities,
		allocator:  allocator,
		logger:     logger,
	}
}

// Create validates the payload and persists the facility under the next
// "RF-NNNN" identifier. Facility names are unique; a duplicate surfaces as
// [store.ErrFacilityNameTaken].
func (s *facilityService) Create(ctx context.Context, req models.CreateRoomFacilityRequest) (models.RoomFacility, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(req.Name) == "" {
		return models.RoomFacility{}, invalidField("name", "must not be empty")
	}
	if req.Price < 0 {
		return models.RoomFacility{}, invalidField("price", "must not be negative")
	}

	now := time.Now().UTC()
	facility := models.RoomFacility{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	displayID, err := s.allocator.CreateWithID(ctx, sequence.RoomFacility, func(ctx context.Context, displayID string) error {
		facility.FacilityID = displayID
		return s.facilities.Create(ctx, &facility)
	})
	if err != nil {
		log.Err(err).Str("func", "facilityService.Create").Msg("facility creation ended with error")
		return models.RoomFacility{}, fmt.Errorf("facility creation ended with error: %w", err)
	}

	facility.FacilityID = displayID
	return facility, nil
}

// Get returns one facility by display id.
func (s *facilityService) Get(ctx context.Context, facilityID string) (models.RoomFacility, error) {
	return s.facilities.GetByDisplayID(ctx, facilityID)
}

// List returns one page of facilities with pagination metadata.
func (s *facilityService) List(ctx context.Context, filter models.ListFilter) ([]models.RoomFacility, models.Pagination, error) {
	facilities, total, err := s.facilities.List(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	return facilities, paginate(filter, total), nil
}

// Update applies a partial update and returns the refreshed facility.
func (s *facilityService) Update(ctx context.Context, facilityID string, req models.UpdateRoomFacilityRequest) (models.RoomFacility, error) {
	log := logger.FromContext(ctx)

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return models.RoomFacility{}, invalidField("name", "must not be empty")
	}
	if req.Price != nil && *req.Price < 0 {
		return models.RoomFacility{}, invalidField("price", "must not be negative")
	}

	if err := s.facilities.Update(ctx, facilityID, req, time.Now().UTC()); err != nil {
		log.Err(err).
			Str("func", "facilityService.Update").
			Str("facility_id", facilityID).
			Msg("facility update ended with error")
		return models.RoomFacility{}, err
	}

	return s.facilities.GetByDisplayID(ctx, facilityID)
}

// SetActive flips the soft-delete flag.
func (s *facilityService) SetActive(ctx context.Context, facilityID string, active bool) error {
	return s.facilities.SetActive(ctx, facilityID, active, time.Now().UTC())
}
