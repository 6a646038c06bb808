package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/ashenlk/tenant-keeper/internal/logger"
	"github.com/ashenlk/tenant-keeper/models"
)

// roomRepository is the SQL-backed implementation of [RoomRepository].
//
// A room's price history lives in the room_prices table, one row per
// interval. Every mutation of the history runs in a transaction guarded by
// the room's version column, and a partial unique index on
// (room_id) WHERE end_date IS NULL backstops the single-open-interval
// invariant at the storage layer.
type roomRepository struct {
	*DB
	logger *logger.Logger
}

// NewRoomRepository constructs a [RoomRepository] backed by the provided
// database connection and logger.
func NewRoomRepository(db *DB, logger *logger.Logger) RoomRepository {
	logger.Debug().Msg("creating room repository")
	return &roomRepository{
		DB:     db,
		logger: logger,
	}
}

// Create inserts the room and its initial price intervals in one
// transaction, so a room is never visible without a price history.
func (r *roomRepository) Create(ctx context.Context, room *models.Room) error {
	log := logger.FromContext(ctx)

	facilities, err := json.Marshal(room.Facilities)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "roomRepository.Create").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, createRoom,
		room.ID,
		room.RoomID,
		room.BuildingID,
		room.Name,
		room.Description,
		string(facilities),
		room.IsActive,
		room.Version,
		room.CreatedAt,
		room.UpdatedAt,
	)
	if err != nil {
		log.Err(err).
			Str("func", "roomRepository.Create").
			Str("room_id", room.RoomID).
			Msg("failed to insert room")

		switch {
		case isUniqueViolation(err, "room_id"):
			return ErrDisplayIDTaken
		case isUniqueViolation(err, "name"):
			return ErrRoomNameTaken
		}
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	for _, interval := range room.Prices {
		if _, err := tx.ExecContext(ctx, insertPriceInterval,
			room.RoomID,
			interval.Price,
			interval.StartDate,
			interval.EndDate,
		); err != nil {
			log.Err(err).
				Str("func", "roomRepository.Create").
				Str("room_id", room.RoomID).
				Msg("failed to insert price interval")
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Err(err).Str("func", "roomRepository.Create").Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

// GetByDisplayID retrieves a room and its full price history.
// Returns [ErrNotFound] when no room carries the id.
func (r *roomRepository) GetByDisplayID(ctx context.Context, roomID string) (models.Room, error) {
	log := logger.FromContext(ctx)

	var (
		room       models.Room
		facilities string
	)
	err := r.DB.QueryRowContext(ctx, getRoomByDisplayID, roomID).Scan(
		&room.ID,
		&room.RoomID,
		&room.BuildingID,
		&room.Name,
		&room.Description,
		&facilities,
		&room.IsActive,
		&room.Version,
		&room.CreatedAt,
		&room.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Room{}, ErrNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "roomRepository.GetByDisplayID").
			Str("room_id", roomID).
			Msg("failed to query room")
		return models.Room{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if err := json.Unmarshal([]byte(facilities), &room.Facilities); err != nil {
		log.Err(err).
			Str("func", "roomRepository.GetByDisplayID").
			Str("room_id", roomID).
			Msg("failed to decode room facilities")
		return models.Room{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	room.Prices, err = r.prices(ctx, r.DB, roomID)
	if err != nil {
		return models.Room{}, err
	}

	return room, nil
}

// List returns a page of rooms with their price histories, newest first.
// Search filters on the name column; filter.BuildingID narrows to one
// building.
func (r *roomRepository) List(ctx context.Context, filter models.ListFilter) ([]models.Room, int64, error) {
	log := logger.FromContext(ctx)
	filter = normalizeFilter(filter)

	conds := sq.Eq{}
	if filter.BuildingID != "" {
		conds["building_id"] = filter.BuildingID
	}

	columns := []string{"id", "room_id", "building_id", "name", "description", "facilities", "is_active", "version", "created_at", "updated_at"}
	listSQL, listArgs, countSQL, countArgs, err := buildListQuery("rooms", columns, "name", filter, conds)
	if err != nil {
		log.Err(err).Str("func", "roomRepository.List").Msg("failed to build list query")
		return nil, 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		log.Err(err).Str("func", "roomRepository.List").Msg("failed to count rooms")
		return nil, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, listSQL, listArgs...)
	if err != nil {
		log.Err(err).Str("func", "roomRepository.List").Msg("failed to query rooms")
		return nil, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	rooms := make([]models.Room, 0, filter.PageSize)
	for rows.Next() {
		var (
			room       models.Room
			facilities string
		)
		if err := rows.Scan(
			&room.ID,
			&room.RoomID,
			&room.BuildingID,
			&room.Name,
			&room.Description,
			&facilities,
			&room.IsActive,
			&room.Version,
			&room.CreatedAt,
			&room.UpdatedAt,
		); err != nil {
			log.Err(err).Str("func", "roomRepository.List").Msg("failed to scan room row")
			return nil, 0, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		if err := json.Unmarshal([]byte(facilities), &room.Facilities); err != nil {
			log.Err(err).Str("func", "roomRepository.List").Msg("failed to decode room facilities")
			return nil, 0, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		rooms = append(rooms, room)
	}

	if err := rows.Err(); err != nil {
		log.Err(err).Str("func", "roomRepository.List").Msg("error occurred during rows iteration")
		return nil, 0, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	for i := range rooms {
		rooms[i].Prices, err = r.prices(ctx, r.DB, rooms[i].RoomID)
		if err != nil {
			return nil, 0, err
		}
	}

	return rooms, total, nil
}

// UpdateFields applies a partial update of the room's plain fields. Price
// transitions go through [roomRepository.AppendPrice], never through here.
func (r *roomRepository) UpdateFields(ctx context.Context, roomID string, upd models.UpdateRoomRequest, now time.Time) error {
	log := logger.FromContext(ctx)

	update := queryBuilder.Update("rooms").Set("updated_at", now)
	changed := false
	if upd.Name != nil {
		update = update.Set("name", *upd.Name)
		changed = true
	}
	if upd.Description != nil {
		update = update.Set("description", *upd.Description)
		changed = true
	}
	if upd.Facilities != nil {
		facilities, err := json.Marshal(*upd.Facilities)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		update = update.Set("facilities", string(facilities))
		changed = true
	}
	if !changed {
		return nil
	}

	query, args, err := update.Where(sq.Eq{"room_id": roomID}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "roomRepository.UpdateFields").
			Str("room_id", roomID).
			Msg("failed to update room")

		if isUniqueViolation(err, "name") {
			return ErrRoomNameTaken
		}
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound
	}

	return nil
}

// AppendPrice applies one price transition in a single transaction:
//
//  1. bump the room version, guarded by expectedVersion — zero rows affected
//     means another writer got there first ([ErrVersionConflict]);
//  2. verify the history holds exactly one open interval
//     ([ErrNoOpenPriceInterval] / [ErrMultipleOpenPriceIntervals] otherwise);
//  3. close that interval at closedAt and insert next as the new open one.
//
// Closed intervals are never modified again.
func (r *roomRepository) AppendPrice(ctx context.Context, roomID string, expectedVersion int64, closedAt time.Time, next models.PriceInterval) error {
	log := logger.FromContext(ctx)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "roomRepository.AppendPrice").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, bumpRoomVersion, closedAt, roomID, expectedVersion)
	if err != nil {
		log.Err(err).
			Str("func", "roomRepository.AppendPrice").
			Str("room_id", roomID).
			Msg("failed to bump room version")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		log.Warn().
			Str("func", "roomRepository.AppendPrice").
			Str("room_id", roomID).
			Int64("expected_version", expectedVersion).
			Msg("room version moved underneath the price transition")
		return ErrVersionConflict
	}

	var open int64
	if err := tx.QueryRowContext(ctx, countOpenPriceIntervals, roomID).Scan(&open); err != nil {
		log.Err(err).
			Str("func", "roomRepository.AppendPrice").
			Str("room_id", roomID).
			Msg("failed to count open price intervals")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	switch {
	case open == 0:
		return ErrNoOpenPriceInterval
	case open > 1:
		return ErrMultipleOpenPriceIntervals
	}

	if _, err := tx.ExecContext(ctx, closeOpenPriceInterval, closedAt, roomID); err != nil {
		log.Err(err).
			Str("func", "roomRepository.AppendPrice").
			Str("room_id", roomID).
			Msg("failed to close open price interval")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if _, err := tx.ExecContext(ctx, insertPriceInterval,
		roomID,
		next.Price,
		next.StartDate,
		next.EndDate,
	); err != nil {
		log.Err(err).
			Str("func", "roomRepository.AppendPrice").
			Str("room_id", roomID).
			Msg("failed to insert price interval")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if err := tx.Commit(); err != nil {
		log.Err(err).Str("func", "roomRepository.AppendPrice").Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

// SetActive flips the soft-delete flag.
func (r *roomRepository) SetActive(ctx context.Context, roomID string, active bool, now time.Time) error {
	log := logger.FromContext(ctx)

	result, err := r.DB.ExecContext(ctx, setRoomActive, active, now, roomID)
	if err != nil {
		log.Err(err).
			Str("func", "roomRepository.SetActive").
			Str("room_id", roomID).
			Bool("active", active).
			Msg("failed to update room active flag")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound
	}

	return nil
}

// LatestDisplayID returns the display id of the most recently created room,
// or [ErrNotFound] when the table is empty.
func (r *roomRepository) LatestDisplayID(ctx context.Context) (string, error) {
	return latestDisplayID(ctx, r.DB, latestRoomDisplayID)
}

// prices loads a room's full price history ordered by start date.
func (r *roomRepository) prices(ctx context.Context, db *DB, roomID string) ([]models.PriceInterval, error) {
	log := logger.FromContext(ctx)

	rows, err := db.QueryContext(ctx, getRoomPrices, roomID)
	if err != nil {
		log.Err(err).
			Str("func", "roomRepository.prices").
			Str("room_id", roomID).
			Msg("failed to query price intervals")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var intervals []models.PriceInterval
	for rows.Next() {
		var interval models.PriceInterval
		if err := rows.Scan(&interval.Price, &interval.StartDate, &interval.EndDate); err != nil {
			log.Err(err).
				Str("func", "roomRepository.prices").
				Str("room_id", roomID).
				Msg("failed to scan price interval row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		intervals = append(intervals, interval)
	}

	if err := rows.Err(); err != nil {
		log.Err(err).
			Str("func", "roomRepository.prices").
			Str("room_id", roomID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return intervals, nil
}
