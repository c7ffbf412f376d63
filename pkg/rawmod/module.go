// SPDX-License-Identifier: MPL-2.0

// Package rawmod models raw definition modules: their descriptors, their
// dependency edges, and the optional metadata bundle shipped next to them.
package rawmod

import (
	"encoding/json"
	"errors"
	"fmt"

	"rawdex/pkg/rawkind"
)

// EdgeKind classifies a dependency edge, read from the declaring module's
// point of view.
type EdgeKind int

const (
	// EdgeRequires demands the target's presence and orders nothing.
	EdgeRequires EdgeKind = iota
	// EdgeRequiresBefore demands the target and makes it load before the
	// declaring module.
	EdgeRequiresBefore
	// EdgeRequiresAfter demands the target and makes it load after the
	// declaring module.
	EdgeRequiresAfter
	// EdgeConflicts forbids activating the target together with the
	// declaring module.
	EdgeConflicts
)

// ErrInvalidEdgeKind is the sentinel error wrapped by InvalidEdgeKindError.
var ErrInvalidEdgeKind = errors.New("invalid dependency edge kind")

// InvalidEdgeKindError is returned when an edge kind value is out of range.
// It wraps ErrInvalidEdgeKind for errors.Is() compatibility.
type InvalidEdgeKindError struct {
	Kind EdgeKind
}

// Error implements the error interface for InvalidEdgeKindError.
func (e *InvalidEdgeKindError) Error() string {
	return fmt.Sprintf("invalid dependency edge kind %d", int(e.Kind))
}

// Unwrap returns ErrInvalidEdgeKind for errors.Is() compatibility.
func (e *InvalidEdgeKindError) Unwrap() error { return ErrInvalidEdgeKind }

// String returns the kind's name as used in logs and exports.
func (k EdgeKind) String() string {
	switch k {
	case EdgeRequires:
		return "requires"
	case EdgeRequiresBefore:
		return "requires-before"
	case EdgeRequiresAfter:
		return "requires-after"
	case EdgeConflicts:
		return "conflicts"
	}
	return "invalid"
}

// IsValid returns whether the EdgeKind is one of the defined kinds, and a
// list of validation errors if it is not.
func (k EdgeKind) IsValid() (bool, []error) {
	switch k {
	case EdgeRequires, EdgeRequiresBefore, EdgeRequiresAfter, EdgeConflicts:
		return true, nil
	}
	return false, []error{&InvalidEdgeKindError{Kind: k}}
}

// MarshalJSON encodes the kind as its string name.
func (k EdgeKind) MarshalJSON() ([]byte, error) {
	if ok, errs := k.IsValid(); !ok {
		return nil, errs[0]
	}
	return []byte(`"` + k.String() + `"`), nil
}

// UnmarshalJSON decodes the kind from its string name.
func (k *EdgeKind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "requires":
		*k = EdgeRequires
	case "requires-before":
		*k = EdgeRequiresBefore
	case "requires-after":
		*k = EdgeRequiresAfter
	case "conflicts":
		*k = EdgeConflicts
	default:
		return fmt.Errorf("%w: unknown name %q", ErrInvalidEdgeKind, name)
	}
	return nil
}

// Edge is one dependency declaration: the declaring module relates to the
// module identified by Target. Targets may dangle; presence checks happen
// at resolution time.
type Edge struct {
	Target string   `json:"target"`
	Kind   EdgeKind `json:"kind"`
}

// Module is a discovered raw definition module. Instances are built once
// during discovery and never mutated afterwards.
type Module struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Author      string `json:"author,omitempty"`
	Description string `json:"description,omitempty"`

	NumericVersion                     uint64 `json:"numeric_version"`
	DisplayedVersion                   string `json:"displayed_version,omitempty"`
	EarliestCompatibleNumericVersion   uint64 `json:"earliest_compatible_numeric_version,omitempty"`
	EarliestCompatibleDisplayedVersion string `json:"earliest_compatible_displayed_version,omitempty"`

	Location  rawkind.Location `json:"location"`
	Directory string           `json:"directory,omitempty"`

	Edges []Edge `json:"edges,omitempty"`

	Bundle *Bundle `json:"bundle,omitempty"`
}

// String renders the module as "id@numeric" for logs.
func (m *Module) String() string {
	return fmt.Sprintf("%s@%d", m.ID, m.NumericVersion)
}

// Targets returns the targets of every edge of the given kind, in
// declaration order.
func (m *Module) Targets(kind EdgeKind) []string {
	var out []string
	for _, e := range m.Edges {
		if e.Kind == kind {
			out = append(out, e.Target)
		}
	}
	return out
}
