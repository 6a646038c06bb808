package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/ashenlk/tenant-keeper/internal/logger"
	"github.com/ashenlk/tenant-keeper/models"
)

// facilityRepository is the SQL-backed implementation of
// [FacilityRepository].
type facilityRepository struct {
	*DB
	logger *logger.Logger
}

// NewFacilityRepository constructs a [FacilityRepository] backed by the
// provided database connection and logger.
func NewFacilityRepository(db *DB, logger *logger.Logger) FacilityRepository {
	logger.Debug().Msg("creating facility repository")
	return &facilityRepository{
		DB:     db,
		logger: logger,
	}
}

// Create persists a new facility type. Facility names are unique; a
// duplicate maps to [ErrFacilityNameTaken].
func (r *facilityRepository) Create(ctx context.Context, facility *models.RoomFacility) error {
	log := logger.FromContext(ctx)

	_, err := r.DB.ExecContext(ctx, createFacility,
		facility.ID,
		facility.FacilityID,
		facility.Name,
		facility.Description,
		facility.Price,
		facility.IsActive,
		facility.CreatedAt,
		facility.UpdatedAt,
	)
	if err != nil {
		log.Err(err).
			Str("func", "facilityRepository.Create").
			Str("facility_id", facility.FacilityID).
			Msg("failed to insert facility")

		switch {
		case isUniqueViolation(err, "facility_id"):
			return ErrDisplayIDTaken
		case isUniqueViolation(err, "name"):
			return ErrFacilityNameTaken
		}
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// GetByDisplayID retrieves a facility by its display identifier.
// Returns [ErrNotFound] when no facility carries the id.
func (r *facilityRepository) GetByDisplayID(ctx context.Context, facilityID string) (models.RoomFacility, error) {
	log := logger.FromContext(ctx)

	var facility models.RoomFacility
	err := r.DB.QueryRowContext(ctx, getFacilityByDisplayID, facilityID).Scan(
		&facility.ID,
		&facility.FacilityID,
		&facility.Name,
		&facility.Description,
		&facility.Price,
		&facility.IsActive,
		&facility.CreatedAt,
		&facility.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RoomFacility{}, ErrNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "facilityRepository.GetByDisplayID").
			Str("facility_id", facilityID).
			Msg("failed to query facility")
		return models.RoomFacility{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return facility, nil
}

// List returns a page of facilities, newest first. Search filters on the
// name column.
func (r *facilityRepository) List(ctx context.Context, filter models.ListFilter) ([]models.RoomFacility, int64, error) {
	log := logger.FromContext(ctx)
	filter = normalizeFilter(filter)

	columns := []string{"id", "facility_id", "name", "description", "price", "is_active", "created_at", "updated_at"}
	listSQL, listArgs, countSQL, countArgs, err := buildListQuery("room_facilities", columns, "name", filter, nil)
	if err != nil {
		log.Err(err).Str("func", "facilityRepository.List").Msg("failed to build list query")
		return nil, 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		log.Err(err).Str("func", "facilityRepository.List").Msg("failed to count facilities")
		return nil, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, listSQL, listArgs...)
	if err != nil {
		log.Err(err).Str("func", "facilityRepository.List").Msg("failed to query facilities")
		return nil, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	facilities := make([]models.RoomFacility, 0, filter.PageSize)
	for rows.Next() {
		var facility models.RoomFacility
		if err := rows.Scan(
			&facility.ID,
			&facility.FacilityID,
			&facility.Name,
			&facility.Description,
			&facility.Price,
			&facility.IsActive,
			&facility.CreatedAt,
			&facility.UpdatedAt,
		); err != nil {
			log.Err(err).Str("func", "facilityRepository.List").Msg("failed to scan facility row")
			return nil, 0, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		facilities = append(facilities, facility)
	}

	if err := rows.Err(); err != nil {
		log.Err(err).Str("func", "facilityRepository.List").Msg("error occurred during rows iteration")
		return nil, 0, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return facilities, total, nil
}

// Update applies a partial field update.
func (r *facilityRepository) Update(ctx context.Context, facilityID string, upd models.UpdateRoomFacilityRequest, now time.Time) error {
	log := logger.FromContext(ctx)

	update := queryBuilder.Update("room_facilities").Set("updated_at", now)
	changed := false
	if upd.Name != nil {
		update = update.Set("name", *upd.Name)
		changed = true
	}
	if upd.Description != nil {
		update = update.Set("description", *upd.Description)
		changed = true
	}
	if upd.Price != nil {
		update = update.Set("price", *upd.Price)
		changed = true
	}
	if !changed {
		return nil
	}

	query, args, err := update.Where(sq.Eq{"facility_id": facilityID}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "facilityRepository.Update").
			Str("facility_id", facilityID).
			Msg("failed to update facility")

		if isUniqueViolation(err, "name") {
			return ErrFacilityNameTaken
		}
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound
	}

	return nil
}

// SetActive flips the soft-delete flag.
func (r *facilityRepository) SetActive(ctx context.Context, facilityID string, active bool, now time.Time) error {
	log := logger.FromContext(ctx)

	result, err := r.DB.ExecContext(ctx, setFacilityActive, active, now, facilityID)
	if err != nil {
		log.Err(err).
			Str("func", "facilityRepository.SetActive").
			Str("facility_id", facilityID).
			Bool("active", active).
			Msg("failed to update facility active flag")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound
	}

	return nil
}

// LatestDisplayID returns the display id of the most recently created
// facility, or [ErrNotFound] when the table is empty.
func (r *facilityRepository) LatestDisplayID(ctx context.Context) (string, error) {
	return latestDisplayID(ctx, r.DB, latestFacilityDisplayID)
}
