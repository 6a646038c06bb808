// Package ledger implements the append-only price history of a room as pure
// functions over [models.PriceInterval] slices.
//
// The ledger invariant: intervals are ordered by start date, never overlap,
// and exactly one interval is open (nil end date) once the ledger is
// initialized. History is never rewritten — a price change closes the open
// interval and appends a new one.
//
// Persistence is applied atomically by the room repository; these functions
// only compute the next state so the transformation stays visible and
// unit-testable instead of hiding inside a storage hook.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/ashenlk/tenant-keeper/models"
)

var (
	// ErrNoOpenInterval is returned when a ledger operation expects exactly
	// one open interval and finds none. The ledger is corrupt; the operation
	// must abort rather than guess which interval to close.
	ErrNoOpenInterval = errors.New("price ledger has no open interval")

	// ErrMultipleOpenIntervals is returned when more than one open interval
	// is found, which means a concurrent mutation bypassed the store guard.
	ErrMultipleOpenIntervals = errors.New("price ledger has multiple open intervals")
)

// Initialize returns the singleton ledger of a freshly created room: one open
// interval at basePrice starting at now.
func Initialize(basePrice float64, now time.Time) []models.PriceInterval {
	return []models.PriceInterval{
		{Price: basePrice, StartDate: now, EndDate: nil},
	}
}

// Append closes the single open interval at now and appends a new open
// interval at newPrice starting at now. The input slice is not modified.
//
// A newPrice equal to the current open price is accepted and recorded as a
// redundant close-and-reopen; the history deliberately keeps the transition.
//
// Returns [ErrNoOpenInterval] or [ErrMultipleOpenIntervals] when the
// invariant does not hold on entry.
func Append(intervals []models.PriceInterval, newPrice float64, now time.Time) ([]models.PriceInterval, error) {
	openIdx := -1
	for i, interval := range intervals {
		if !interval.Open() {
			continue
		}
		if openIdx >= 0 {
			return nil, fmt.Errorf("%w: intervals %d and %d", ErrMultipleOpenIntervals, openIdx, i)
		}
		openIdx = i
	}

	if openIdx < 0 {
		return nil, ErrNoOpenInterval
	}

	next := make([]models.PriceInterval, len(intervals), len(intervals)+1)
	copy(next, intervals)

	closedAt := now
	next[openIdx].EndDate = &closedAt

	next = append(next, models.PriceInterval{
		Price:     newPrice,
		StartDate: now,
		EndDate:   nil,
	})

	return next, nil
}

// Current returns the price of the open interval.
//
// Returns [ErrNoOpenInterval] if the ledger holds none; given the invariant
// this only happens on corrupt data.
func Current(intervals []models.PriceInterval) (float64, error) {
	for _, interval := range intervals {
		if interval.Open() {
			return interval.Price, nil
		}
	}

	return 0, ErrNoOpenInterval
}

// Validate checks the full ledger invariant: exactly one open interval, all
// closed intervals have StartDate < EndDate, and intervals sorted by start
// date never overlap. Used by tests and by the startup integrity sweep.
func Validate(intervals []models.PriceInterval) error {
	if len(intervals) == 0 {
		return ErrNoOpenInterval
	}

	open := 0
	for i, interval := range intervals {
		if interval.Open() {
			open++
			continue
		}
		if !interval.StartDate.Before(*interval.EndDate) {
			return fmt.Errorf("interval %d: start %v is not before end %v", i, interval.StartDate, interval.EndDate)
		}
	}

	if open == 0 {
		return ErrNoOpenInterval
	}
	if open > 1 {
		return ErrMultipleOpenIntervals
	}

	for i := 1; i < len(intervals); i++ {
		prev, cur := intervals[i-1], intervals[i]
		if cur.StartDate.Before(prev.StartDate) {
			return fmt.Errorf("interval %d starts before interval %d", i, i-1)
		}
		if prev.EndDate != nil && cur.StartDate.Before(*prev.EndDate) {
			return fmt.Errorf("interval %d overlaps interval %d", i, i-1)
		}
	}

	return nil
}
