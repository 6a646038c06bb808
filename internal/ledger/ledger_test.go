package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/ashenlk/tenant-keeper/models"
)

var t0 = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

func TestInitialize_SingleOpenInterval(t *testing.T) {
	intervals := Initialize(1000, t0)

	if len(intervals) != 1 {
		t.Fatalf("expected 1 interval, got %d", len(intervals))
	}
	if !intervals[0].Open() {
		t.Fatal("initial interval must be open")
	}
	if intervals[0].Price != 1000 {
		t.Fatalf("price = %v, want 1000", intervals[0].Price)
	}
	if !intervals[0].StartDate.Equal(t0) {
		t.Fatalf("start = %v, want %v", intervals[0].StartDate, t0)
	}
	if err := Validate(intervals); err != nil {
		t.Fatalf("invariant violated: %v", err)
	}
}

func TestAppend_ClosesPriorAndOpensNew(t *testing.T) {
	intervals := Initialize(1000, t0)

	t1 := t0.Add(24 * time.Hour)
	next, err := Append(intervals, 1200, t1)
	if err != nil {
		t.Fatalf("Append error: %v", err)
	}

	if len(next) != 2 {
		t.Fatalf("expected 2 intervals, got %d", len(next))
	}
	if next[0].Open() {
		t.Fatal("prior interval must be closed")
	}
	if !next[0].EndDate.Equal(t1) {
		t.Fatalf("prior end = %v, want %v", next[0].EndDate, t1)
	}
	if !next[1].Open() || next[1].Price != 1200 {
		t.Fatalf("new interval = %+v, want open at 1200", next[1])
	}

	price, err := Current(next)
	if err != nil {
		t.Fatalf("Current error: %v", err)
	}
	if price != 1200 {
		t.Fatalf("Current = %v, want 1200", price)
	}

	// input slice must be untouched
	if !intervals[0].Open() {
		t.Fatal("Append must not mutate its input")
	}
}

func TestAppend_InvariantAfterManyTransitions(t *testing.T) {
	intervals := Initialize(500, t0)

	prices := []float64{750, 600, 600, 900, 1250.50}
	now := t0
	for _, price := range prices {
		now = now.Add(30 * 24 * time.Hour)

		var err error
		intervals, err = Append(intervals, price, now)
		if err != nil {
			t.Fatalf("Append(%v) error: %v", price, err)
		}
		if err := Validate(intervals); err != nil {
			t.Fatalf("invariant violated after Append(%v): %v", price, err)
		}
	}

	if len(intervals) != len(prices)+1 {
		t.Fatalf("expected %d intervals, got %d", len(prices)+1, len(intervals))
	}

	price, err := Current(intervals)
	if err != nil {
		t.Fatalf("Current error: %v", err)
	}
	if price != 1250.50 {
		t.Fatalf("Current = %v, want 1250.50", price)
	}
}

func TestAppend_SamePriceRecordsRedundantTransition(t *testing.T) {
	intervals := Initialize(1000, t0)

	next, err := Append(intervals, 1000, t0.Add(time.Hour))
	if err != nil {
		t.Fatalf("Append error: %v", err)
	}
	// history keeps the redundant close+reopen
	if len(next) != 2 {
		t.Fatalf("expected 2 intervals, got %d", len(next))
	}
	if err := Validate(next); err != nil {
		t.Fatalf("invariant violated: %v", err)
	}
}

func TestAppend_NoOpenInterval(t *testing.T) {
	end := t0.Add(time.Hour)
	corrupt := []models.PriceInterval{
		{Price: 1000, StartDate: t0, EndDate: &end},
	}

	if _, err := Append(corrupt, 1200, end.Add(time.Hour)); !errors.Is(err, ErrNoOpenInterval) {
		t.Fatalf("expected ErrNoOpenInterval, got %v", err)
	}
}

func TestAppend_MultipleOpenIntervals(t *testing.T) {
	corrupt := []models.PriceInterval{
		{Price: 1000, StartDate: t0},
		{Price: 1100, StartDate: t0.Add(time.Hour)},
	}

	if _, err := Append(corrupt, 1200, t0.Add(2*time.Hour)); !errors.Is(err, ErrMultipleOpenIntervals) {
		t.Fatalf("expected ErrMultipleOpenIntervals, got %v", err)
	}
}

func TestCurrent_EmptyLedger(t *testing.T) {
	if _, err := Current(nil); !errors.Is(err, ErrNoOpenInterval) {
		t.Fatalf("expected ErrNoOpenInterval, got %v", err)
	}
}

func TestValidate_DetectsOverlap(t *testing.T) {
	end := t0.Add(48 * time.Hour)
	overlapping := []models.PriceInterval{
		{Price: 1000, StartDate: t0, EndDate: &end},
		{Price: 1200, StartDate: t0.Add(24 * time.Hour)}, // starts before prior closed
	}

	if err := Validate(overlapping); err == nil {
		t.Fatal("expected overlap to be rejected")
	}
}

func TestValidate_DetectsInvertedInterval(t *testing.T) {
	end := t0.Add(-time.Hour)
	inverted := []models.PriceInterval{
		{Price: 1000, StartDate: t0, EndDate: &end},
		{Price: 1200, StartDate: t0},
	}

	if err := Validate(inverted); err == nil {
		t.Fatal("expected inverted interval to be rejected")
	}
}
