package store

import (
	"context"
	"fmt"

	"github.com/ashenlk/tenant-keeper/internal/logger"
)

// sequenceRepository is the SQL-backed implementation of
// [SequenceRepository]. Counters live in the "entity_sequences" table, one
// row per entity type, mutated only through atomic upserts so that two
// concurrent allocations can never observe the same value.
type sequenceRepository struct {
	*DB
	logger *logger.Logger
}

// NewSequenceRepository constructs a [SequenceRepository] backed by the
// provided database connection and logger.
func NewSequenceRepository(db *DB, logger *logger.Logger) SequenceRepository {
	logger.Debug().Msg("creating sequence repository")
	return &sequenceRepository{
		DB:     db,
		logger: logger,
	}
}

// NextNumber implements [SequenceRepository]. The INSERT .. ON CONFLICT DO
// UPDATE .. RETURNING form performs the read-modify-write inside the store,
// so the returned number is unique per entity type even under concurrent
// allocation from multiple connections.
func (r *sequenceRepository) NextNumber(ctx context.Context, entityType string) (int64, error) {
	log := logger.FromContext(ctx)

	var number int64
	if err := r.DB.QueryRowContext(ctx, nextSequenceNumber, entityType).Scan(&number); err != nil {
		log.Err(err).
			Str("func", "sequenceRepository.NextNumber").
			Str("entity_type", entityType).
			Msg("failed to increment sequence counter")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	log.Debug().
		Str("func", "sequenceRepository.NextNumber").
		Str("entity_type", entityType).
		Int64("number", number).
		Msg("allocated sequence number")

	return number, nil
}

// EnsureFloor implements [SequenceRepository]. The conditional upsert only
// raises the counter, never lowers it, so a concurrent allocation past floor
// is preserved.
func (r *sequenceRepository) EnsureFloor(ctx context.Context, entityType string, floor int64) error {
	log := logger.FromContext(ctx)

	if _, err := r.DB.ExecContext(ctx, ensureSequenceFloor, entityType, floor); err != nil {
		log.Err(err).
			Str("func", "sequenceRepository.EnsureFloor").
			Str("entity_type", entityType).
			Int64("floor", floor).
			Msg("failed to raise sequence counter")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}
