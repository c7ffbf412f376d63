// SPDX-License-Identifier: MPL-2.0

package rawkind

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Location identifies which kind of source root a module was discovered under.
type Location int

const (
	// LocationUnknown is the zero value for modules with no classified root.
	LocationUnknown Location = iota
	// LocationVanilla marks built-in content shipped with the base data set.
	LocationVanilla
	// LocationInstalled marks mods copied into the installed-mods root.
	LocationInstalled
	// LocationWorkshop marks user/workshop mods in the downloads root.
	LocationWorkshop
)

// ErrInvalidLocation is the sentinel error wrapped by InvalidLocationError.
var ErrInvalidLocation = errors.New("invalid source location")

// InvalidLocationError is returned when a location name is not recognized.
// It wraps ErrInvalidLocation for errors.Is() compatibility.
type InvalidLocationError struct {
	Name string
}

// Error implements the error interface for InvalidLocationError.
func (e *InvalidLocationError) Error() string {
	return fmt.Sprintf("invalid source location %q (valid: vanilla, installed, workshop)", e.Name)
}

// Unwrap returns ErrInvalidLocation for errors.Is() compatibility.
func (e *InvalidLocationError) Unwrap() error { return ErrInvalidLocation }

// String returns a human-readable representation of the location.
func (l Location) String() string {
	switch l {
	case LocationVanilla:
		return "vanilla"
	case LocationInstalled:
		return "installed"
	case LocationWorkshop:
		return "workshop"
	default:
		return "unknown"
	}
}

// IsValid returns whether the Location is one of the classified locations,
// and a list of validation errors if it is not. LocationUnknown is not valid
// as a configured value; it only appears on discovered modules.
func (l Location) IsValid() (bool, []error) {
	switch l {
	case LocationVanilla, LocationInstalled, LocationWorkshop:
		return true, nil
	default:
		return false, []error{&InvalidLocationError{Name: l.String()}}
	}
}

// MarshalJSON encodes the location as its string name. Unclassified
// locations export as "unknown".
func (l Location) MarshalJSON() ([]byte, error) {
	return []byte(`"` + l.String() + `"`), nil
}

// UnmarshalJSON decodes a location from its string name. "unknown"
// round-trips back to LocationUnknown.
func (l *Location) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	if name == "unknown" {
		*l = LocationUnknown
		return nil
	}
	parsed, ok := ParseLocation(name)
	if !ok {
		return &InvalidLocationError{Name: name}
	}
	*l = parsed
	return nil
}

// ParseLocation resolves a location name ("vanilla", "installed", "workshop")
// to its Location. The second result reports whether the name is known.
func ParseLocation(name string) (Location, bool) {
	switch name {
	case "vanilla":
		return LocationVanilla, true
	case "installed":
		return LocationInstalled, true
	case "workshop":
		return LocationWorkshop, true
	default:
		return LocationUnknown, false
	}
}

// Locations returns the classified locations in scan order: built-in content
// loads before installed mods, which load before workshop mods.
func Locations() []Location {
	return []Location{LocationVanilla, LocationInstalled, LocationWorkshop}
}
