package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashenlk/tenant-keeper/internal/logger"
	"github.com/ashenlk/tenant-keeper/models"
)

func newBuildingService(repo *mockBuildingRepo) BuildingService {
	allocator := NewAllocator(newMemSequenceRepo(), logger.Nop())
	return NewBuildingService(repo, allocator, logger.Nop())
}

func TestBuildingCreate_AssignsSequentialDisplayIDs(t *testing.T) {
	repo := &mockBuildingRepo{}
	svc := newBuildingService(repo)
	ctx := context.Background()

	want := []string{"B-0001", "B-0002", "B-0003", "B-0004", "B-0005"}
	for i, expected := range want {
		building, err := svc.Create(ctx, models.CreateBuildingRequest{Name: "Building", Location: "Colombo"})
		require.NoError(t, err, "create %d", i)
		assert.Equal(t, expected, building.BuildingID)
		assert.True(t, building.IsActive)
	}
}

func TestBuildingCreate_RejectsEmptyName(t *testing.T) {
	svc := newBuildingService(&mockBuildingRepo{})

	_, err := svc.Create(context.Background(), models.CreateBuildingRequest{Name: "   "})
	require.ErrorIs(t, err, ErrInvalidDataProvided)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "name", vErr.Field)
}

func TestBuildingList_PaginationMetadata(t *testing.T) {
	repo := &mockBuildingRepo{
		listFn: func(_ context.Context, filter models.ListFilter) ([]models.Building, int64, error) {
			return make([]models.Building, 10), 25, nil
		},
	}
	svc := newBuildingService(repo)

	_, page, err := svc.List(context.Background(), models.ListFilter{Page: 2, PageSize: 10})
	require.NoError(t, err)

	assert.EqualValues(t, 25, page.Total)
	assert.EqualValues(t, 3, page.TotalPages)
	assert.EqualValues(t, 2, page.CurrentPage)
	assert.EqualValues(t, 10, page.PageSize)
}

func TestBuildingList_DefaultsAppliedToPagination(t *testing.T) {
	repo := &mockBuildingRepo{
		listFn: func(_ context.Context, filter models.ListFilter) ([]models.Building, int64, error) {
			return nil, 0, nil
		},
	}
	svc := newBuildingService(repo)

	_, page, err := svc.List(context.Background(), models.ListFilter{})
	require.NoError(t, err)

	assert.EqualValues(t, 1, page.CurrentPage)
	assert.EqualValues(t, 10, page.PageSize)
	assert.Zero(t, page.TotalPages)
}
