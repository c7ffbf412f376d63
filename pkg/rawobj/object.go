// SPDX-License-Identifier: MPL-2.0

// Package rawobj models parsed raw objects: identity, names, flags, typed
// values, and the category-specific structural payloads. Objects are
// assembled during ingestion and read-only once the run finishes.
package rawobj

import (
	"github.com/google/uuid"

	"rawdex/pkg/rawkind"
)

// Key identifies an object within a run: the pair is unique across the
// whole store.
type Key struct {
	Module     string `json:"module"`
	Identifier string `json:"identifier"`
}

// Object is one parsed raw definition.
type Object struct {
	UID        uuid.UUID        `json:"uid"`
	Module     string           `json:"module"`
	Identifier string           `json:"identifier"`
	Category   rawkind.Category `json:"category"`
	SourceFile string           `json:"source_file,omitempty"`
	Line       int              `json:"line,omitempty"`

	Names       []string `json:"names,omitempty"`
	Description string   `json:"description,omitempty"`

	Flags  []Flag     `json:"flags,omitempty"`
	Values []TagValue `json:"values,omitempty"`

	Gaits     []Gait            `json:"gaits,omitempty"`
	BodySizes []BodySize        `json:"body_sizes,omitempty"`
	Tiles     []TileAssociation `json:"tiles,omitempty"`
	Castes    []Caste           `json:"castes,omitempty"`

	// ParseErrors records recoverable problems hit while parsing this
	// object. The object itself stays usable.
	ParseErrors []string `json:"parse_errors,omitempty"`
}

// New creates an object with a fresh stable id.
func New(module, identifier string, category rawkind.Category) *Object {
	return &Object{
		UID:        uuid.New(),
		Module:     module,
		Identifier: identifier,
		Category:   category,
	}
}

// Key returns the object's (module, identifier) pair.
func (o *Object) Key() Key {
	return Key{Module: o.Module, Identifier: o.Identifier}
}

// HasFlag reports whether a flag with the given name is set, recognized
// or not.
func (o *Object) HasFlag(name string) bool {
	for _, f := range o.Flags {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Value returns the first typed value recorded under the given tag name.
func (o *Object) Value(name string) (TagValue, bool) {
	for _, v := range o.Values {
		if v.Name == name {
			return v, true
		}
	}
	return TagValue{}, false
}

// IntValue returns the first integer of the named value, for tags that
// carry a single number.
func (o *Object) IntValue(name string) (int, bool) {
	v, ok := o.Value(name)
	if !ok || len(v.Ints) == 0 {
		return 0, false
	}
	return v.Ints[0], true
}

// Projection returns the text fields search indexes: identifier, names,
// then descriptive text.
func (o *Object) Projection() []string {
	out := make([]string, 0, len(o.Names)+2)
	out = append(out, o.Identifier)
	out = append(out, o.Names...)
	if o.Description != "" {
		out = append(out, o.Description)
	}
	return out
}
