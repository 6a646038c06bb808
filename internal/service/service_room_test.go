package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashenlk/tenant-keeper/internal/ledger"
	"github.com/ashenlk/tenant-keeper/internal/logger"
	"github.com/ashenlk/tenant-keeper/internal/store"
	"github.com/ashenlk/tenant-keeper/models"
)

func newRoomService(rooms *mockRoomRepo, buildings *mockBuildingRepo) RoomService {
	allocator := NewAllocator(newMemSequenceRepo(), logger.Nop())
	return NewRoomService(rooms, buildings, allocator, logger.Nop())
}

func TestRoomCreate_SeedsOpenPriceInterval(t *testing.T) {
	var stored models.Room
	rooms := &mockRoomRepo{
		createFn: func(_ context.Context, room *models.Room) error {
			stored = *room
			return nil
		},
	}
	svc := newRoomService(rooms, &mockBuildingRepo{})

	room, err := svc.Create(context.Background(), models.CreateRoomRequest{
		BuildingID: "B-0001",
		Name:       "Room 1A",
		BasePrice:  1000,
	})
	require.NoError(t, err)

	assert.Equal(t, "R-0001", room.RoomID)
	assert.EqualValues(t, 1, stored.Version)
	require.Len(t, stored.Prices, 1)
	assert.Equal(t, 1000.0, stored.Prices[0].Price)
	assert.True(t, stored.Prices[0].Open())
	require.NoError(t, ledger.Validate(stored.Prices))
}

func TestRoomCreate_RejectsNonPositiveBasePrice(t *testing.T) {
	svc := newRoomService(&mockRoomRepo{}, &mockBuildingRepo{})

	for _, price := range []float64{0, -100} {
		_, err := svc.Create(context.Background(), models.CreateRoomRequest{
			BuildingID: "B-0001",
			Name:       "Room 1A",
			BasePrice:  price,
		})
		require.ErrorIs(t, err, ErrInvalidDataProvided)

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "basePrice", vErr.Field)
	}
}

func TestRoomCreate_UnknownBuilding(t *testing.T) {
	buildings := &mockBuildingRepo{
		getFn: func(context.Context, string) (models.Building, error) {
			return models.Building{}, store.ErrNotFound
		},
	}
	svc := newRoomService(&mockRoomRepo{}, buildings)

	_, err := svc.Create(context.Background(), models.CreateRoomRequest{
		BuildingID: "B-9999",
		Name:       "Room 1A",
		BasePrice:  1000,
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRoomUpdate_PriceTransitionGoesThroughVersionGuard(t *testing.T) {
	start := time.Now().UTC().Add(-24 * time.Hour)
	existing := models.Room{
		RoomID:  "R-0001",
		Version: 3,
		Prices:  ledger.Initialize(1000, start),
	}

	var gotVersion int64
	var gotNext models.PriceInterval
	rooms := &mockRoomRepo{
		getFn: func(context.Context, string) (models.Room, error) {
			return existing, nil
		},
		appendPriceFn: func(_ context.Context, _ string, expectedVersion int64, _ time.Time, next models.PriceInterval) error {
			gotVersion = expectedVersion
			gotNext = next
			return nil
		},
	}
	svc := newRoomService(rooms, &mockBuildingRepo{})

	newPrice := 1200.0
	_, err := svc.Update(context.Background(), "R-0001", models.UpdateRoomRequest{NewPrice: &newPrice})
	require.NoError(t, err)

	assert.EqualValues(t, 3, gotVersion)
	assert.Equal(t, 1200.0, gotNext.Price)
	assert.True(t, gotNext.Open())
}

func TestRoomUpdate_VersionConflictSurfaces(t *testing.T) {
	rooms := &mockRoomRepo{
		getFn: func(context.Context, string) (models.Room, error) {
			return models.Room{RoomID: "R-0001", Version: 1, Prices: ledger.Initialize(1000, time.Now())}, nil
		},
		appendPriceFn: func(context.Context, string, int64, time.Time, models.PriceInterval) error {
			return store.ErrVersionConflict
		},
	}
	svc := newRoomService(rooms, &mockBuildingRepo{})

	newPrice := 1200.0
	_, err := svc.Update(context.Background(), "R-0001", models.UpdateRoomRequest{NewPrice: &newPrice})
	assert.ErrorIs(t, err, store.ErrVersionConflict)
}

func TestRoomUpdate_SamePriceIsARecordedTransition(t *testing.T) {
	appended := false
	rooms := &mockRoomRepo{
		getFn: func(context.Context, string) (models.Room, error) {
			return models.Room{RoomID: "R-0001", Version: 1, Prices: ledger.Initialize(1000, time.Now().Add(-time.Hour))}, nil
		},
		appendPriceFn: func(context.Context, string, int64, time.Time, models.PriceInterval) error {
			appended = true
			return nil
		},
	}
	svc := newRoomService(rooms, &mockBuildingRepo{})

	samePrice := 1000.0
	_, err := svc.Update(context.Background(), "R-0001", models.UpdateRoomRequest{NewPrice: &samePrice})
	require.NoError(t, err)
	assert.True(t, appended, "a same-price submission still records a transition")
}

func TestRoomUpdate_CorruptLedgerAbortsBeforeWrite(t *testing.T) {
	rooms := &mockRoomRepo{
		getFn: func(context.Context, string) (models.Room, error) {
			// Two open intervals: the invariant is broken.
			now := time.Now()
			return models.Room{RoomID: "R-0001", Version: 1, Prices: []models.PriceInterval{
				{Price: 1000, StartDate: now.Add(-2 * time.Hour)},
				{Price: 1100, StartDate: now.Add(-time.Hour)},
			}}, nil
		},
		appendPriceFn: func(context.Context, string, int64, time.Time, models.PriceInterval) error {
			t.Fatal("AppendPrice must not be called on a corrupt ledger")
			return nil
		},
	}
	svc := newRoomService(rooms, &mockBuildingRepo{})

	newPrice := 1200.0
	_, err := svc.Update(context.Background(), "R-0001", models.UpdateRoomRequest{NewPrice: &newPrice})
	assert.ErrorIs(t, err, ledger.ErrMultipleOpenIntervals)
}

func TestRoomCurrentPrice(t *testing.T) {
	start := time.Now().UTC().Add(-48 * time.Hour)
	prices := ledger.Initialize(1000, start)
	prices, err := ledger.Append(prices, 1200, start.Add(24*time.Hour))
	require.NoError(t, err)

	rooms := &mockRoomRepo{
		getFn: func(context.Context, string) (models.Room, error) {
			return models.Room{RoomID: "R-0001", Prices: prices}, nil
		},
	}
	svc := newRoomService(rooms, &mockBuildingRepo{})

	price, err := svc.CurrentPrice(context.Background(), "R-0001")
	require.NoError(t, err)
	assert.Equal(t, 1200.0, price)
}

func TestRoomSetActive_LeavesLedgerUntouched(t *testing.T) {
	rooms := &mockRoomRepo{
		appendPriceFn: func(context.Context, string, int64, time.Time, models.PriceInterval) error {
			t.Fatal("disabling a room must not touch the price ledger")
			return nil
		},
	}
	svc := newRoomService(rooms, &mockBuildingRepo{})

	require.NoError(t, svc.SetActive(context.Background(), "R-0001", false))
}
