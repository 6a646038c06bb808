package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/ashenlk/tenant-keeper/internal/logger"
	"github.com/ashenlk/tenant-keeper/models"
)

func testRoom() *models.Room {
	now := time.Now()
	return &models.Room{
		ID:          "b5a7c1c2-4d7a-4f3a-8a7e-1f2d3c4b5a60",
		RoomID:      "R-0001",
		BuildingID:  "B-0001",
		Name:        "Room 1A",
		Description: "corner unit",
		Facilities:  []models.RoomFacilityItem{{Name: "air conditioning", AdditionalPrice: 500}},
		Prices:      []models.PriceInterval{{Price: 1000, StartDate: now}},
		IsActive:    true,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestCreateRoom_InsertsRoomAndIntervalsInOneTx(t *testing.T) {
	db, mock, raw := newTestDB(t)
	defer raw.Close()

	repo := NewRoomRepository(db, logger.Nop())
	room := testRoom()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO rooms").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO room_prices").
		WithArgs(room.RoomID, room.Prices[0].Price, room.Prices[0].StartDate, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := repo.Create(context.Background(), room); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreateRoom_DisplayIDCollisionRollsBack(t *testing.T) {
	db, mock, raw := newTestDB(t)
	defer raw.Close()

	repo := NewRoomRepository(db, logger.Nop())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO rooms").
		WillReturnError(pgUniqueError("uq_rooms_room_id"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), testRoom())
	if !errors.Is(err, ErrDisplayIDTaken) {
		t.Fatalf("expected ErrDisplayIDTaken, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestAppendPrice_ClosesOpenIntervalAndInsertsNext(t *testing.T) {
	db, mock, raw := newTestDB(t)
	defer raw.Close()

	repo := NewRoomRepository(db, logger.Nop())
	now := time.Now()
	next := models.PriceInterval{Price: 1200, StartDate: now}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE rooms SET version").
		WithArgs(now, "R-0001", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("R-0001").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec("UPDATE room_prices SET end_date").
		WithArgs(now, "R-0001").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO room_prices").
		WithArgs("R-0001", next.Price, next.StartDate, nil).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	if err := repo.AppendPrice(context.Background(), "R-0001", 1, now, next); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestAppendPrice_VersionConflict(t *testing.T) {
	db, mock, raw := newTestDB(t)
	defer raw.Close()

	repo := NewRoomRepository(db, logger.Nop())
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE rooms SET version").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.AppendPrice(context.Background(), "R-0001", 1, now, models.PriceInterval{Price: 1200, StartDate: now})
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestAppendPrice_NoOpenInterval(t *testing.T) {
	db, mock, raw := newTestDB(t)
	defer raw.Close()

	repo := NewRoomRepository(db, logger.Nop())
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE rooms SET version").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectRollback()

	err := repo.AppendPrice(context.Background(), "R-0001", 1, now, models.PriceInterval{Price: 1200, StartDate: now})
	if !errors.Is(err, ErrNoOpenPriceInterval) {
		t.Fatalf("expected ErrNoOpenPriceInterval, got %v", err)
	}
}

func TestAppendPrice_MultipleOpenIntervals(t *testing.T) {
	db, mock, raw := newTestDB(t)
	defer raw.Close()

	repo := NewRoomRepository(db, logger.Nop())
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE rooms SET version").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	err := repo.AppendPrice(context.Background(), "R-0001", 1, now, models.PriceInterval{Price: 1200, StartDate: now})
	if !errors.Is(err, ErrMultipleOpenPriceIntervals) {
		t.Fatalf("expected ErrMultipleOpenPriceIntervals, got %v", err)
	}
}

func TestGetRoomByDisplayID_LoadsPriceHistory(t *testing.T) {
	db, mock, raw := newTestDB(t)
	defer raw.Close()

	repo := NewRoomRepository(db, logger.Nop())
	now := time.Now()
	earlier := now.Add(-24 * time.Hour)

	roomRows := sqlmock.
		NewRows([]string{"id", "room_id", "building_id", "name", "description", "facilities", "is_active", "version", "created_at", "updated_at"}).
		AddRow("uuid-1", "R-0001", "B-0001", "Room 1A", "corner unit", `[{"name":"fan","additionalPrice":100}]`, true, 2, earlier, now)
	mock.ExpectQuery("SELECT id, room_id").
		WithArgs("R-0001").
		WillReturnRows(roomRows)

	priceRows := sqlmock.
		NewRows([]string{"price", "start_date", "end_date"}).
		AddRow(1000.0, earlier, now).
		AddRow(1200.0, now, nil)
	mock.ExpectQuery("SELECT price, start_date, end_date").
		WithArgs("R-0001").
		WillReturnRows(priceRows)

	room, err := repo.GetByDisplayID(context.Background(), "R-0001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(room.Prices) != 2 {
		t.Fatalf("expected 2 price intervals, got %d", len(room.Prices))
	}
	if room.Prices[0].Open() {
		t.Error("first interval should be closed")
	}
	if !room.Prices[1].Open() {
		t.Error("second interval should be open")
	}
	if len(room.Facilities) != 1 || room.Facilities[0].Name != "fan" {
		t.Errorf("unexpected facilities: %+v", room.Facilities)
	}
}

func TestGetRoomByDisplayID_NotFound(t *testing.T) {
	db, mock, raw := newTestDB(t)
	defer raw.Close()

	repo := NewRoomRepository(db, logger.Nop())

	mock.ExpectQuery("SELECT id, room_id").
		WithArgs("R-9999").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByDisplayID(context.Background(), "R-9999")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
