package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/ashenlk/tenant-keeper/internal/logger"
	"github.com/ashenlk/tenant-keeper/internal/sequence"
	"github.com/ashenlk/tenant-keeper/internal/store"
)

// allocationRetries bounds how many times a create is re-attempted with a
// fresh display id after a unique-index collision.
const allocationRetries = 3

// Allocator hands out display identifiers backed by the store's atomic
// per-type counters and re-aligns those counters with persisted data at
// startup.
type Allocator struct {
	sequences store.SequenceRepository
	logger    *logger.Logger
}

// NewAllocator constructs an [Allocator] over the sequence repository.
func NewAllocator(sequences store.SequenceRepository, logger *logger.Logger) *Allocator {
	return &Allocator{
		sequences: sequences,
		logger:    logger,
	}
}

// Next allocates the next display id for the entity type. Each call consumes
// one counter value; under concurrent use ids are unique but an aborted
// create leaves a gap, which is acceptable.
func (a *Allocator) Next(ctx context.Context, entityType sequence.EntityType) (string, error) {
	number, err := a.sequences.NextNumber(ctx, string(entityType))
	if err != nil {
		return "", fmt.Errorf("allocating %s id: %w", entityType, err)
	}

	return sequence.Format(entityType, number)
}

// CreateWithID allocates a display id and runs create with it, retrying with
// a fresh allocation when the store reports a display-id collision. Returns
// the id the entity was finally persisted under.
func (a *Allocator) CreateWithID(ctx context.Context, entityType sequence.EntityType, create func(ctx context.Context, displayID string) error) (string, error) {
	log := logger.FromContext(ctx)

	var displayID string
	backoff := retry.WithMaxRetries(allocationRetries, retry.NewExponential(10*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		id, err := a.Next(ctx, entityType)
		if err != nil {
			return err
		}

		if err := create(ctx, id); err != nil {
			if errors.Is(err, store.ErrDisplayIDTaken) {
				log.Warn().
					Str("func", "Allocator.CreateWithID").
					Str("entity_type", string(entityType)).
					Str("display_id", id).
					Msg("display id collision, retrying with fresh allocation")
				return retry.RetryableError(err)
			}
			return err
		}

		displayID = id
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrDisplayIDTaken) {
			return "", fmt.Errorf("%w: %w", ErrAllocationExhausted, err)
		}
		return "", err
	}

	return displayID, nil
}

// Resync raises the entity type's counter to cover the latest persisted
// display id. latest reports the most recent id or [store.ErrNotFound] for an
// empty table.
//
// A persisted id that does not parse aborts with
// [ErrMalformedSequenceState]; the counter is left untouched so no id can be
// handed out over corrupt state.
func (a *Allocator) Resync(ctx context.Context, entityType sequence.EntityType, latest func(ctx context.Context) (string, error)) error {
	log := logger.FromContext(ctx)

	displayID, err := latest(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("resyncing %s counter: %w", entityType, err)
	}

	number, err := sequence.Parse(entityType, displayID)
	if err != nil {
		log.Error().
			Str("func", "Allocator.Resync").
			Str("entity_type", string(entityType)).
			Str("display_id", displayID).
			Msg("persisted display id does not parse, refusing to resync")
		return fmt.Errorf("%w: %w", ErrMalformedSequenceState, err)
	}

	if err := a.sequences.EnsureFloor(ctx, string(entityType), number); err != nil {
		return fmt.Errorf("resyncing %s counter: %w", entityType, err)
	}

	log.Debug().
		Str("func", "Allocator.Resync").
		Str("entity_type", string(entityType)).
		Int64("floor", number).
		Msg("sequence counter resynced")

	return nil
}
