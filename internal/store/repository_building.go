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

// buildingRepository is the SQL-backed implementation of
// [BuildingRepository].
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type buildingRepository struct {
	*DB
	logger *logger.Logger
}

// NewBuildingRepository constructs a [BuildingRepository] backed by the
// provided database connection and logger.
func NewBuildingRepository(db *DB, logger *logger.Logger) BuildingRepository {
	logger.Debug().Msg("creating building repository")
	return &buildingRepository{
		DB:     db,
		logger: logger,
	}
}

// Create persists a new building record.
//
// Error handling:
//   - unique violation on the display id → [ErrDisplayIDTaken] (allocation
//     race; the caller retries with a fresh id).
//   - Any other driver-level error → wrapped [ErrExecutingQuery].
func (r *buildingRepository) Create(ctx context.Context, building *models.Building) error {
	log := logger.FromContext(ctx)

	_, err := r.DB.ExecContext(ctx, createBuilding,
		building.ID,
		building.BuildingID,
		building.Name,
		building.Location,
		building.IsActive,
		building.CreatedAt,
		building.UpdatedAt,
	)
	if err != nil {
		log.Err(err).
			Str("func", "buildingRepository.Create").
			Str("building_id", building.BuildingID).
			Msg("failed to insert building")

		if isUniqueViolation(err, "building_id") {
			return ErrDisplayIDTaken
		}
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// GetByDisplayID retrieves a building by its display identifier.
// Returns [ErrNotFound] when no building carries the id.
func (r *buildingRepository) GetByDisplayID(ctx context.Context, buildingID string) (models.Building, error) {
	log := logger.FromContext(ctx)

	var building models.Building
	err := r.DB.QueryRowContext(ctx, getBuildingByDisplayID, buildingID).Scan(
		&building.ID,
		&building.BuildingID,
		&building.Name,
		&building.Location,
		&building.IsActive,
		&building.CreatedAt,
		&building.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Building{}, ErrNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "buildingRepository.GetByDisplayID").
			Str("building_id", buildingID).
			Msg("failed to query building")
		return models.Building{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return building, nil
}

// List returns a page of buildings ordered by creation time descending,
// newest first, together with the total number of matches. Search filters on
// the name column.
func (r *buildingRepository) List(ctx context.Context, filter models.ListFilter) ([]models.Building, int64, error) {
	log := logger.FromContext(ctx)
	filter = normalizeFilter(filter)

	columns := []string{"id", "building_id", "name", "location", "is_active", "created_at", "updated_at"}
	listSQL, listArgs, countSQL, countArgs, err := buildListQuery("buildings", columns, "name", filter, nil)
	if err != nil {
		log.Err(err).Str("func", "buildingRepository.List").Msg("failed to build list query")
		return nil, 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		log.Err(err).Str("func", "buildingRepository.List").Msg("failed to count buildings")
		return nil, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, listSQL, listArgs...)
	if err != nil {
		log.Err(err).Str("func", "buildingRepository.List").Msg("failed to query buildings")
		return nil, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	buildings := make([]models.Building, 0, filter.PageSize)
	for rows.Next() {
		var building models.Building
		if err := rows.Scan(
			&building.ID,
			&building.BuildingID,
			&building.Name,
			&building.Location,
			&building.IsActive,
			&building.CreatedAt,
			&building.UpdatedAt,
		); err != nil {
			log.Err(err).Str("func", "buildingRepository.List").Msg("failed to scan building row")
			return nil, 0, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		buildings = append(buildings, building)
	}

	if err := rows.Err(); err != nil {
		log.Err(err).Str("func", "buildingRepository.List").Msg("error occurred during rows iteration")
		return nil, 0, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return buildings, total, nil
}

// Update applies a partial field update. A request with no set fields is a
// no-op.
func (r *buildingRepository) Update(ctx context.Context, buildingID string, upd models.UpdateBuildingRequest, now time.Time) error {
	log := logger.FromContext(ctx)

	update := queryBuilder.Update("buildings").Set("updated_at", now)
	changed := false
	if upd.Name != nil {
		update = update.Set("name", *upd.Name)
		changed = true
	}
	if upd.Location != nil {
		update = update.Set("location", *upd.Location)
		changed = true
	}
	if !changed {
		log.Warn().
			Str("func", "buildingRepository.Update").
			Str("building_id", buildingID).
			Msg("no fields to update, skipping")
		return nil
	}

	query, args, err := update.Where(sq.Eq{"building_id": buildingID}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "buildingRepository.Update").
			Str("building_id", buildingID).
			Msg("failed to update building")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound
	}

	return nil
}

// SetActive flips the soft-delete flag. Repeating the call with the same
// value is an idempotent no-op from the caller's point of view; only
// updated_at moves.
func (r *buildingRepository) SetActive(ctx context.Context, buildingID string, active bool, now time.Time) error {
	log := logger.FromContext(ctx)

	result, err := r.DB.ExecContext(ctx, setBuildingActive, active, now, buildingID)
	if err != nil {
		log.Err(err).
			Str("func", "buildingRepository.SetActive").
			Str("building_id", buildingID).
			Bool("active", active).
			Msg("failed to update building active flag")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound
	}

	return nil
}

// LatestDisplayID returns the display id of the most recently created
// building, or [ErrNotFound] when the table is empty. Used only by the
// startup counter resync.
func (r *buildingRepository) LatestDisplayID(ctx context.Context) (string, error) {
	return latestDisplayID(ctx, r.DB, latestBuildingDisplayID)
}

// latestDisplayID runs one of the latest* queries and maps the empty table
// to [ErrNotFound].
func latestDisplayID(ctx context.Context, db *DB, query string) (string, error) {
	var displayID string
	err := db.QueryRowContext(ctx, query).Scan(&displayID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return displayID, nil
}
