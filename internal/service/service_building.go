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

// buildingService is the concrete implementation of [BuildingService].
type buildingService struct {
	buildings store.BuildingRepository
	allocator *Allocator
	logger    *logger.Logger
}

// NewBuildingService constructs a [BuildingService].
func NewBuildingService(buildings store.BuildingRepository, allocator *Allocator, logger *logger.Logger) BuildingService {
	return &buildingService{
		buildings: buildings,
		allocator: allocator,
		logger:    logger,
	}
}

// Create validates the payload, allocates the next "B-NNNN" identifier and
// persists the building as active.
func (s *buildingService) Create(ctx context.Context, req models.CreateBuildingRequest) (models.Building, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(req.Name) == "" {
		return models.Building{}, invalidField("name", "must not be empty")
	}

	now := time.Now().UTC()
	building := models.Building{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Location:  req.Location,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	displayID, err := s.allocator.CreateWithID(ctx, sequence.Building, func(ctx context.Context, displayID string) error {
		building.BuildingID = displayID
		return s.buildings.Create(ctx, &building)
	})
	if err != nil {
		log.Err(err).Str("func", "buildingService.Create").Msg("building creation ended with error")
		return models.Building{}, fmt.Errorf("building creation ended with error: %w", err)
	}

	building.BuildingID = displayID
	return building, nil
}

// Get returns one building by display id.
func (s *buildingService) Get(ctx context.Context, buildingID string) (models.Building, error) {
	return s.buildings.GetByDisplayID(ctx, buildingID)
}

// List returns one page of buildings with pagination metadata.
func (s *buildingService) List(ctx context.Context, filter models.ListFilter) ([]models.Building, models.Pagination, error) {
	buildings, total, err := s.buildings.List(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	return buildings, paginate(filter, total), nil
}

// Update applies a partial update and returns the refreshed building.
func (s *buildingService) Update(ctx context.Context, buildingID string, req models.UpdateBuildingRequest) (models.Building, error) {
	log := logger.FromContext(ctx)

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return models.Building{}, invalidField("name", "must not be empty")
	}

	if err := s.buildings.Update(ctx, buildingID, req, time.Now().UTC()); err != nil {
		log.Err(err).
			Str("func", "buildingService.Update").
			Str("building_id", buildingID).
			Msg("building update ended with error")
		return models.Building{}, err
	}

	return s.buildings.GetByDisplayID(ctx, buildingID)
}

// SetActive flips the soft-delete flag. Repeating the operation with the
// same value succeeds without observable change.
func (s *buildingService) SetActive(ctx context.Context, buildingID string, active bool) error {
	return s.buildings.SetActive(ctx, buildingID, active, time.Now().UTC())
}

// paginate derives the page window of a list response from its filter and
// total match count. Page and size defaults mirror the store normalisation.
func paginate(filter models.ListFilter, total int64) models.Pagination {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size < 1 {
		size = 10
	}
	if size > 100 {
		size = 100
	}

	totalPages := total / size
	if total%size != 0 {
		totalPages++
	}

	return models.Pagination{
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: page,
		PageSize:    size,
	}
}
