// SPDX-License-Identifier: MPL-2.0

// Package vocab holds the tag vocabulary tables: per object-category data
// describing how each known token name is classified and typed. The tables
// are pure data. Changing how a tag parses is an edit here, not new parser
// code.
package vocab

import (
	"slices"

	"golang.org/x/exp/maps"

	"rawdex/pkg/rawkind"
)

// ValueKind classifies what a tag's arguments carry.
type ValueKind int

const (
	// KindNone marks a bare boolean flag that takes no arguments.
	KindNone ValueKind = iota
	// KindInteger marks a tag whose arguments all parse as integers.
	KindInteger
	// KindEnum marks a tag whose first argument must belong to a fixed set.
	KindEnum
	// KindString marks a tag whose arguments are free text.
	KindString
)

// String returns the lower-case name of the value kind.
func (k ValueKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInteger:
		return "integer"
	case KindEnum:
		return "enum"
	case KindString:
		return "string"
	}
	return "invalid"
}

// Role states what the parser does with a recognized tag.
type Role int

const (
	// RoleFlag records the tag as a flag on the object.
	RoleFlag Role = iota
	// RoleName appends the tag's arguments to the object's name list.
	RoleName
	// RoleDescription appends the tag's text to the object's description.
	RoleDescription
	// RoleStructural hands the tag to a category-specific sub-parser.
	RoleStructural
)

// String returns the lower-case name of the role.
func (r Role) String() string {
	switch r {
	case RoleFlag:
		return "flag"
	case RoleName:
		return "name"
	case RoleDescription:
		return "description"
	case RoleStructural:
		return "structural"
	}
	return "invalid"
}

// TagSpec describes one known tag: how many arguments it needs, how the
// arguments are typed, whether the tag may legally repeat on one object,
// and what the parser does with it.
type TagSpec struct {
	Kind       ValueKind
	MinArgs    int
	Enum       []string
	Repeatable bool
	Role       Role
}

// EnumAllows reports whether v is a member of the tag's enumerated set.
// It is false for tags of any other kind.
func (s TagSpec) EnumAllows(v string) bool {
	return s.Kind == KindEnum && slices.Contains(s.Enum, v)
}

// Table is the vocabulary for one object category: the category's own tags
// merged over the shared core tags.
type Table struct {
	category rawkind.Category
	tags     map[string]TagSpec
}

// Category returns the object category the table serves.
func (t *Table) Category() rawkind.Category { return t.category }

// Lookup returns the TagSpec for a tag name. The second result is false
// for names the vocabulary does not know; the parser records those as
// opaque unrecognized flags.
func (t *Table) Lookup(name string) (TagSpec, bool) {
	s, ok := t.tags[name]
	return s, ok
}

// Names returns every tag name the table knows, sorted.
func (t *Table) Names() []string {
	names := maps.Keys(t.tags)
	slices.Sort(names)
	return names
}

// ForCategory returns the vocabulary table for a category. Categories
// without a dedicated table share the core table. The result is never nil.
func ForCategory(c rawkind.Category) *Table {
	if t, ok := tables[c]; ok {
		return t
	}
	return coreTable
}

// merged builds one category table from the core tags plus the category's
// own, with the category's entries winning on collision.
func merged(c rawkind.Category, own map[string]TagSpec) *Table {
	tags := make(map[string]TagSpec, len(coreTags)+len(own))
	maps.Copy(tags, coreTags)
	maps.Copy(tags, own)
	return &Table{category: c, tags: tags}
}
