package sequence

import (
	"errors"
	"testing"
)

func TestFormat_ZeroPadding(t *testing.T) {
	cases := []struct {
		entityType EntityType
		n          int64
		want       string
	}{
		{Building, 1, "B-0001"},
		{Building, 7, "B-0007"},
		{Tenant, 12, "T-0012"},
		{Room, 999, "R-0999"},
		{RoomFacility, 2, "RF-0002"},
		{Meter, 3, "M-0003"},
		{MainMeter, 3, "M-0003"},
		{Building, 9999, "B-9999"},
		{Building, 10000, "B-10000"}, // width grows past 9999
		{Building, 123456, "B-123456"},
	}

	for _, tc := range cases {
		got, err := Format(tc.entityType, tc.n)
		if err != nil {
			t.Fatalf("Format(%v, %d) error: %v", tc.entityType, tc.n, err)
		}
		if got != tc.want {
			t.Errorf("Format(%v, %d) = %q, want %q", tc.entityType, tc.n, got, tc.want)
		}
	}
}

func TestFormat_UnknownEntityType(t *testing.T) {
	if _, err := Format(EntityType("garage"), 1); !errors.Is(err, ErrUnknownEntityType) {
		t.Fatalf("expected ErrUnknownEntityType, got %v", err)
	}
}

func TestParse_RoundTrip(t *testing.T) {
	for _, entityType := range []EntityType{Building, Room, Tenant, RoomFacility, Meter} {
		for _, n := range []int64{1, 42, 9999, 10000} {
			id, err := Format(entityType, n)
			if err != nil {
				t.Fatalf("Format error: %v", err)
			}
			got, err := Parse(entityType, id)
			if err != nil {
				t.Fatalf("Parse(%v, %q) error: %v", entityType, id, err)
			}
			if got != n {
				t.Errorf("Parse(%v, %q) = %d, want %d", entityType, id, got, n)
			}
		}
	}
}

func TestParse_FailsClosedOnMalformedIDs(t *testing.T) {
	malformed := []string{
		"",
		"B-",
		"B-12",      // too few digits
		"B-12AB",    // non-numeric suffix
		"b-0001",    // lowercase prefix
		"0001",      // no prefix
		"B_0001",    // wrong separator
		"T-0001",    // wrong prefix for building
		"B-0000",    // sequence numbers start at 1
		"BB-x-0001", // junk
	}

	for _, id := range malformed {
		if _, err := Parse(Building, id); !errors.Is(err, ErrMalformedDisplayID) {
			t.Errorf("Parse(Building, %q): expected ErrMalformedDisplayID, got %v", id, err)
		}
	}
}

func TestParse_SharedPrefixSeparateTypes(t *testing.T) {
	// meters and main meters share the M prefix but parse independently
	n, err := Parse(MainMeter, "M-0042")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if n != 42 {
		t.Fatalf("Parse = %d, want 42", n)
	}
}
