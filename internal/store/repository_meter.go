package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/ashenlk/tenant-keeper/internal/logger"
	"github.com/ashenlk/tenant-keeper/models"
)

// meterRepository is the SQL-backed implementation of [MeterRepository]. It
// covers both per-room meters and building-level main meters; the two share
// one prefix space for display ids but live in separate tables with
// independent counters.
type meterRepository struct {
	*DB
	logger *logger.Logger
}

// NewMeterRepository constructs a [MeterRepository] backed by the provided
// database connection and logger.
func NewMeterRepository(db *DB, logger *logger.Logger) MeterRepository {
	logger.Debug().Msg("creating meter repository")
	return &meterRepository{
		DB:     db,
		logger: logger,
	}
}

// CreateMeter persists a new room meter record.
func (r *meterRepository) CreateMeter(ctx context.Context, meter *models.Meter) error {
	log := logger.FromContext(ctx)

	_, err := r.DB.ExecContext(ctx, createMeter,
		meter.ID,
		meter.MeterID,
		meter.RoomID,
		meter.InstalledAt,
		meter.RemovedAt,
		meter.StartReading,
		meter.EndReading,
		meter.CreatedAt,
		meter.UpdatedAt,
	)
	if err != nil {
		log.Err(err).
			Str("func", "meterRepository.CreateMeter").
			Str("meter_id", meter.MeterID).
			Msg("failed to insert meter")

		if isUniqueViolation(err, "meter_id") {
			return ErrDisplayIDTaken
		}
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// ListMeters returns a page of room meters, newest first. filter.RoomID
// narrows to one room.
func (r *meterRepository) ListMeters(ctx context.Context, filter models.ListFilter) ([]models.Meter, int64, error) {
	log := logger.FromContext(ctx)
	filter = normalizeFilter(filter)

	conds := sq.Eq{}
	if filter.RoomID != "" {
		conds["room_id"] = filter.RoomID
	}

	columns := []string{"id", "meter_id", "room_id", "installed_at", "removed_at", "start_reading", "end_reading", "created_at", "updated_at"}
	listSQL, listArgs, countSQL, countArgs, err := buildListQuery("meters", columns, "meter_id", filter, conds)
	if err != nil {
		log.Err(err).Str("func", "meterRepository.ListMeters").Msg("failed to build list query")
		return nil, 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		log.Err(err).Str("func", "meterRepository.ListMeters").Msg("failed to count meters")
		return nil, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, listSQL, listArgs...)
	if err != nil {
		log.Err(err).Str("func", "meterRepository.ListMeters").Msg("failed to query meters")
		return nil, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	meters := make([]models.Meter, 0, filter.PageSize)
	for rows.Next() {
		var meter models.Meter
		if err := rows.Scan(
			&meter.ID,
			&meter.MeterID,
			&meter.RoomID,
			&meter.InstalledAt,
			&meter.RemovedAt,
			&meter.StartReading,
			&meter.EndReading,
			&meter.CreatedAt,
			&meter.UpdatedAt,
		); err != nil {
			log.Err(err).Str("func", "meterRepository.ListMeters").Msg("failed to scan meter row")
			return nil, 0, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		meters = append(meters, meter)
	}

	if err := rows.Err(); err != nil {
		log.Err(err).Str("func", "meterRepository.ListMeters").Msg("error occurred during rows iteration")
		return nil, 0, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return meters, total, nil
}

// CloseMeter decommissions an installed meter: records the final reading and
// the removal time. Only matches meters still installed, so closing an
// already-removed meter reports [ErrNotFound] and leaves the record intact.
func (r *meterRepository) CloseMeter(ctx context.Context, meterID string, endReading float64, removedAt time.Time) error {
	log := logger.FromContext(ctx)

	result, err := r.DB.ExecContext(ctx, closeMeter, endReading, removedAt, removedAt, meterID)
	if err != nil {
		log.Err(err).
			Str("func", "meterRepository.CloseMeter").
			Str("meter_id", meterID).
			Msg("failed to close meter")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound
	}

	return nil
}

// LatestMeterDisplayID returns the display id of the most recently created
// room meter, or [ErrNotFound] when the table is empty.
func (r *meterRepository) LatestMeterDisplayID(ctx context.Context) (string, error) {
	return latestDisplayID(ctx, r.DB, latestMeterDisplayID)
}

// CreateMainMeter persists a new main meter record.
//
// meter_no is the utility company's identifier and is unique; a duplicate
// maps to [ErrMeterNoTaken]. The meter_no check runs first because the
// main_meter_id constraint identity also contains "meter_id" as a substring.
func (r *meterRepository) CreateMainMeter(ctx context.Context, meter *models.MainMeter) error {
	log := logger.FromContext(ctx)

	_, err := r.DB.ExecContext(ctx, createMainMeter,
		meter.ID,
		meter.MainMeterID,
		meter.MeterType,
		meter.BuildingID,
		meter.MeterNo,
		meter.InstalledAt,
		meter.RemovedAt,
		meter.IsActive,
		meter.CreatedAt,
		meter.UpdatedAt,
	)
	if err != nil {
		log.Err(err).
			Str("func", "meterRepository.CreateMainMeter").
			Str("main_meter_id", meter.MainMeterID).
			Msg("failed to insert main meter")

		switch {
		case isUniqueViolation(err, "meter_no"):
			return ErrMeterNoTaken
		case isUniqueViolation(err, "main_meter_id"):
			return ErrDisplayIDTaken
		}
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// ListMainMeters returns a page of main meters, newest first.
// filter.BuildingID narrows to one building.
func (r *meterRepository) ListMainMeters(ctx context.Context, filter models.ListFilter) ([]models.MainMeter, int64, error) {
	log := logger.FromContext(ctx)
	filter = normalizeFilter(filter)

	conds := sq.Eq{}
	if filter.BuildingID != "" {
		conds["building_id"] = filter.BuildingID
	}

	columns := []string{"id", "main_meter_id", "meter_type", "building_id", "meter_no", "installed_at", "removed_at", "is_active", "created_at", "updated_at"}
	listSQL, listArgs, countSQL, countArgs, err := buildListQuery("main_meters", columns, "meter_no", filter, conds)
	if err != nil {
		log.Err(err).Str("func", "meterRepository.ListMainMeters").Msg("failed to build list query")
		return nil, 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		log.Err(err).Str("func", "meterRepository.ListMainMeters").Msg("failed to count main meters")
		return nil, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, listSQL, listArgs...)
	if err != nil {
		log.Err(err).Str("func", "meterRepository.ListMainMeters").Msg("failed to query main meters")
		return nil, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	meters := make([]models.MainMeter, 0, filter.PageSize)
	for rows.Next() {
		var meter models.MainMeter
		if err := rows.Scan(
			&meter.ID,
			&meter.MainMeterID,
			&meter.MeterType,
			&meter.BuildingID,
			&meter.MeterNo,
			&meter.InstalledAt,
			&meter.RemovedAt,
			&meter.IsActive,
			&meter.CreatedAt,
			&meter.UpdatedAt,
		); err != nil {
			log.Err(err).Str("func", "meterRepository.ListMainMeters").Msg("failed to scan main meter row")
			return nil, 0, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		meters = append(meters, meter)
	}

	if err := rows.Err(); err != nil {
		log.Err(err).Str("func", "meterRepository.ListMainMeters").Msg("error occurred during rows iteration")
		return nil, 0, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return meters, total, nil
}

// SetMainMeterActive flips the soft-delete flag on a main meter.
func (r *meterRepository) SetMainMeterActive(ctx context.Context, mainMeterID string, active bool, now time.Time) error {
	log := logger.FromContext(ctx)

	result, err := r.DB.ExecContext(ctx, setMainMeterActive, active, now, mainMeterID)
	if err != nil {
		log.Err(err).
			Str("func", "meterRepository.SetMainMeterActive").
			Str("main_meter_id", mainMeterID).
			Bool("active", active).
			Msg("failed to update main meter active flag")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound
	}

	return nil
}

// LatestMainMeterDisplayID returns the display id of the most recently
// created main meter, or [ErrNotFound] when the table is empty.
func (r *meterRepository) LatestMainMeterDisplayID(ctx context.Context) (string, error) {
	return latestDisplayID(ctx, r.DB, latestMainMeterDisplayID)
}
