// SPDX-License-Identifier: MPL-2.0

package rawobj

// Flag is a boolean marker on an object. Unrecognized flags preserve their
// raw arguments so nothing is silently dropped; unparsed flags are
// recognized tags whose value failed its declared kind.
type Flag struct {
	Name         string   `json:"name"`
	Args         []string `json:"args,omitempty"`
	Unrecognized bool     `json:"unrecognized,omitempty"`
	Unparsed     bool     `json:"unparsed,omitempty"`
}

// TagValue is a typed tag value. Integer tags fill Ints, enum and string
// tags fill Text. Raw always holds the original arguments.
type TagValue struct {
	Name string   `json:"name"`
	Ints []int    `json:"ints,omitempty"`
	Text string   `json:"text,omitempty"`
	Raw  []string `json:"raw"`
}

// Gait is one locomotion record: how fast the creature moves in one mode.
type Gait struct {
	Kind     string   `json:"kind"`
	Name     string   `json:"name"`
	MaxSpeed int      `json:"max_speed"`
	Extra    []string `json:"extra,omitempty"`
}

// BodySize is one growth point: body volume at an age given in years and
// days.
type BodySize struct {
	Years int `json:"years"`
	Days  int `json:"days"`
	Size  int `json:"size"`
}

// TileAssociation links a target object to a cell of a tile page under a
// display condition. Targets and pages are identifiers, not references;
// dangling values are a query-time outcome.
type TileAssociation struct {
	Target    string `json:"target,omitempty"`
	Page      string `json:"page"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Condition string `json:"condition"`
	Secondary string `json:"secondary,omitempty"`
}

// Caste is one caste declared inside a creature. Caste-scoped name and
// description tags accumulate here; everything else stays on the creature.
type Caste struct {
	Name        string   `json:"name"`
	Names       []string `json:"display_names,omitempty"`
	Description string   `json:"description,omitempty"`
	Line        int      `json:"line,omitempty"`
}
