// Package sequence defines the display identifier scheme shared by all
// domain entities: a short uppercase prefix, a dash, and a zero-padded
// sequence number unique within the entity type ("B-0007", "RF-0012").
//
// The package holds only the pure formatting and parsing half of the scheme;
// allocation of the next number is backed by an atomic per-type counter in
// the store and composed in the service layer.
package sequence

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// EntityType names a sequenced entity kind. Each type owns an independent
// counter; two types may share a prefix (meters and main meters both use "M")
// without sharing numbers.
type EntityType string

const (
	Building     EntityType = "building"
	Room         EntityType = "room"
	Tenant       EntityType = "tenant"
	RoomFacility EntityType = "room_facility"
	Meter        EntityType = "meter"
	MainMeter    EntityType = "main_meter"
)

// prefixes maps each entity type to its display-id prefix.
var prefixes = map[EntityType]string{
	Building:     "B",
	Room:         "R",
	Tenant:       "T",
	RoomFacility: "RF",
	Meter:        "M",
	MainMeter:    "M",
}

// displayIDPattern is the persisted and API-visible identifier shape.
var displayIDPattern = regexp.MustCompile(`^[A-Z]{1,2}-\d{4,}$`)

var (
	// ErrUnknownEntityType is returned when an entity type has no registered
	// prefix.
	ErrUnknownEntityType = errors.New("unknown entity type")

	// ErrMalformedDisplayID is returned when an existing identifier does not
	// parse under the scheme. Allocation must fail closed on this error;
	// silently restarting the sequence at 1 would hand out colliding ids.
	ErrMalformedDisplayID = errors.New("malformed display id")
)

// Prefix returns the display-id prefix for the entity type.
func Prefix(entityType EntityType) (string, error) {
	prefix, ok := prefixes[entityType]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownEntityType, entityType)
	}
	return prefix, nil
}

// Format renders sequence number n as a display id for the entity type.
// Numbers are zero-padded to four digits; the width grows naturally past
// 9999 ("B-10000").
func Format(entityType EntityType, n int64) (string, error) {
	prefix, err := Prefix(entityType)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%04d", prefix, n), nil
}

// Parse extracts the sequence number from an existing display id of the
// given entity type. It is strict: the prefix must match, the suffix must be
// at least four digits, and nothing else is accepted. Any deviation returns
// [ErrMalformedDisplayID] so callers can surface a data-integrity failure
// instead of guessing.
func Parse(entityType EntityType, displayID string) (int64, error) {
	prefix, err := Prefix(entityType)
	if err != nil {
		return 0, err
	}

	if !displayIDPattern.MatchString(displayID) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedDisplayID, displayID)
	}

	rest, found := strings.CutPrefix(displayID, prefix+"-")
	if !found {
		return 0, fmt.Errorf("%w: %q does not carry prefix %q", ErrMalformedDisplayID, displayID, prefix)
	}

	n, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrMalformedDisplayID, displayID, err)
	}

	if n < 1 {
		return 0, fmt.Errorf("%w: %q: sequence numbers start at 1", ErrMalformedDisplayID, displayID)
	}

	return n, nil
}
