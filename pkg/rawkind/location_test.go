// SPDX-License-Identifier: MPL-2.0

package rawkind

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseLocation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want Location
		ok   bool
	}{
		{"vanilla", LocationVanilla, true},
		{"installed", LocationInstalled, true},
		{"workshop", LocationWorkshop, true},
		{"Vanilla", LocationUnknown, false},
		{"steam", LocationUnknown, false},
		{"", LocationUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseLocation(tt.name)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseLocation(%q) = %v, %v; want %v, %v", tt.name, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestLocationIsValid(t *testing.T) {
	t.Parallel()

	for _, l := range Locations() {
		if ok, errs := l.IsValid(); !ok || len(errs) != 0 {
			t.Errorf("%v.IsValid() = %v, %v; want true, none", l, ok, errs)
		}
	}

	ok, errs := LocationUnknown.IsValid()
	if ok {
		t.Fatal("LocationUnknown.IsValid() = true, want false")
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	if !errors.Is(errs[0], ErrInvalidLocation) {
		t.Errorf("expected ErrInvalidLocation, got %v", errs[0])
	}
	var ile *InvalidLocationError
	if !errors.As(errs[0], &ile) {
		t.Errorf("expected *InvalidLocationError, got %T", errs[0])
	}
}

func TestLocations_ScanOrder(t *testing.T) {
	t.Parallel()

	want := []Location{LocationVanilla, LocationInstalled, LocationWorkshop}
	got := Locations()
	if len(got) != len(want) {
		t.Fatalf("Locations() returned %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Locations()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLocationJSONRoundTrip(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(LocationWorkshop)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(data) != `"workshop"` {
		t.Errorf("Marshal = %s, want \"workshop\"", data)
	}

	var l Location
	if err := json.Unmarshal(data, &l); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if l != LocationWorkshop {
		t.Errorf("Unmarshal = %v, want LocationWorkshop", l)
	}

	// Unclassified modules export as "unknown" and must load back.
	if err := json.Unmarshal([]byte(`"unknown"`), &l); err != nil {
		t.Fatalf("Unmarshal(unknown) error: %v", err)
	}
	if l != LocationUnknown {
		t.Errorf("Unmarshal(unknown) = %v, want LocationUnknown", l)
	}

	err = json.Unmarshal([]byte(`"basement"`), &l)
	if err == nil {
		t.Fatal("Unmarshal should reject unknown names")
	}
	if !errors.Is(err, ErrInvalidLocation) {
		t.Errorf("error should wrap ErrInvalidLocation, got: %v", err)
	}
}
