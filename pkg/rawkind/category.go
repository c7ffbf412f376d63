// SPDX-License-Identifier: MPL-2.0

// Package rawkind defines the closed enumerations shared by every raw-definition
// component: the object categories a raw source can define and the source
// locations a module can be discovered under. Adding a category is a code
// change here, never data elsewhere.
package rawkind

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Category identifies the kind of raw object a definition describes.
type Category int

const (
	// Unknown is the zero value for unrecognized or undeclared categories.
	Unknown Category = iota
	Creature
	Inorganic
	Plant
	Item
	ItemAmmo
	ItemArmor
	ItemFood
	ItemGloves
	ItemHelm
	ItemInstrument
	ItemPants
	ItemShield
	ItemShoes
	ItemSiegeAmmo
	ItemTool
	ItemToy
	ItemTrapComponent
	ItemWeapon
	Building
	BuildingWorkshop
	BuildingFurnace
	Reaction
	Graphics
	MaterialTemplate
	BodyDetailPlan
	Body
	Entity
	Language
	Translation
	TissueTemplate
	CreatureVariation
	TextSet
	TilePage
	DescriptorColor
	DescriptorPattern
	DescriptorShape
	Palette
	Music
	Sound
	Interaction
	// SelectCreature marks amendment fragments reopening an existing creature.
	SelectCreature
	// CreatureCaste marks caste sub-definitions inside a creature.
	CreatureCaste
)

// ErrInvalidCategory is the sentinel error wrapped by InvalidCategoryError.
var ErrInvalidCategory = errors.New("invalid object category")

// InvalidCategoryError is returned when a category token is not recognized.
// It wraps ErrInvalidCategory for errors.Is() compatibility.
type InvalidCategoryError struct {
	Token string
}

// Error implements the error interface for InvalidCategoryError.
func (e *InvalidCategoryError) Error() string {
	return fmt.Sprintf("invalid object category token %q", e.Token)
}

// Unwrap returns ErrInvalidCategory for errors.Is() compatibility.
func (e *InvalidCategoryError) Unwrap() error { return ErrInvalidCategory }

// categoryTokens maps each category to its token spelling in raw sources.
var categoryTokens = map[Category]string{
	Creature:          "CREATURE",
	Inorganic:         "INORGANIC",
	Plant:             "PLANT",
	Item:              "ITEM",
	ItemAmmo:          "ITEM_AMMO",
	ItemArmor:         "ITEM_ARMOR",
	ItemFood:          "ITEM_FOOD",
	ItemGloves:        "ITEM_GLOVES",
	ItemHelm:          "ITEM_HELM",
	ItemInstrument:    "ITEM_INSTRUMENT",
	ItemPants:         "ITEM_PANTS",
	ItemShield:        "ITEM_SHIELD",
	ItemShoes:         "ITEM_SHOES",
	ItemSiegeAmmo:     "ITEM_SIEGEAMMO",
	ItemTool:          "ITEM_TOOL",
	ItemToy:           "ITEM_TOY",
	ItemTrapComponent: "ITEM_TRAPCOMP",
	ItemWeapon:        "ITEM_WEAPON",
	Building:          "BUILDING",
	BuildingWorkshop:  "BUILDING_WORKSHOP",
	BuildingFurnace:   "BUILDING_FURNACE",
	Reaction:          "REACTION",
	Graphics:          "GRAPHICS",
	MaterialTemplate:  "MATERIAL_TEMPLATE",
	BodyDetailPlan:    "BODY_DETAIL_PLAN",
	Body:              "BODY",
	Entity:            "ENTITY",
	Language:          "LANGUAGE",
	Translation:       "TRANSLATION",
	TissueTemplate:    "TISSUE_TEMPLATE",
	CreatureVariation: "CREATURE_VARIATION",
	TextSet:           "TEXT_SET",
	TilePage:          "TILE_PAGE",
	DescriptorColor:   "DESCRIPTOR_COLOR",
	DescriptorPattern: "DESCRIPTOR_PATTERN",
	DescriptorShape:   "DESCRIPTOR_SHAPE",
	Palette:           "PALETTE",
	Music:             "MUSIC",
	Sound:             "SOUND",
	Interaction:       "INTERACTION",
	SelectCreature:    "SELECT_CREATURE",
	CreatureCaste:     "CASTE",
}

// tokenCategories is the reverse of categoryTokens, built once at init.
var tokenCategories = func() map[string]Category {
	m := make(map[string]Category, len(categoryTokens))
	for c, tok := range categoryTokens {
		m[tok] = c
	}
	return m
}()

// groupStarts maps an OBJECT header group to the tokens that open a new object
// inside a source of that group, and the category each opened object gets.
// Graphics sources are the notable case: three distinct start tokens all
// produce Graphics objects, while TILE_PAGE produces its own category.
var groupStarts = map[Category]map[string]Category{
	Creature:          {"CREATURE": Creature},
	Inorganic:         {"INORGANIC": Inorganic},
	Plant:             {"PLANT": Plant},
	Item: {
		"ITEM_AMMO":       ItemAmmo,
		"ITEM_ARMOR":      ItemArmor,
		"ITEM_FOOD":       ItemFood,
		"ITEM_GLOVES":     ItemGloves,
		"ITEM_HELM":       ItemHelm,
		"ITEM_INSTRUMENT": ItemInstrument,
		"ITEM_PANTS":      ItemPants,
		"ITEM_SHIELD":     ItemShield,
		"ITEM_SHOES":      ItemShoes,
		"ITEM_SIEGEAMMO":  ItemSiegeAmmo,
		"ITEM_TOOL":       ItemTool,
		"ITEM_TOY":        ItemToy,
		"ITEM_TRAPCOMP":   ItemTrapComponent,
		"ITEM_WEAPON":     ItemWeapon,
	},
	Building: {
		"BUILDING_WORKSHOP": BuildingWorkshop,
		"BUILDING_FURNACE":  BuildingFurnace,
	},
	Reaction: {"REACTION": Reaction},
	Graphics: {
		"CREATURE_GRAPHICS": Graphics,
		"TILE_GRAPHICS":     Graphics,
		"PLANT_GRAPHICS":    Graphics,
		"TILE_PAGE":         TilePage,
		"PALETTE":           Palette,
	},
	MaterialTemplate: {"MATERIAL_TEMPLATE": MaterialTemplate},
	BodyDetailPlan:   {"BODY_DETAIL_PLAN": BodyDetailPlan},
	Body:             {"BODY": Body},
	Entity:           {"ENTITY": Entity},
	Language: {
		"TRANSLATION": Translation,
		"WORD":        Language,
		"SYMBOL":      Language,
	},
	TissueTemplate:    {"TISSUE_TEMPLATE": TissueTemplate},
	CreatureVariation: {"CREATURE_VARIATION": CreatureVariation},
	TextSet:           {"TEXT_SET": TextSet},
	TilePage:          {"TILE_PAGE": TilePage},
	DescriptorColor:   {"COLOR": DescriptorColor},
	DescriptorPattern: {"COLOR_PATTERN": DescriptorPattern},
	DescriptorShape:   {"SHAPE": DescriptorShape},
	Palette:           {"PALETTE": Palette},
	Music:             {"MUSIC": Music},
	Sound:             {"SOUND": Sound},
	Interaction:       {"INTERACTION": Interaction},
}

// String returns the token spelling of the category, or "UNKNOWN" for
// unrecognized values. The token spelling is what raw sources and logs use.
func (c Category) String() string {
	if tok, ok := categoryTokens[c]; ok {
		return tok
	}
	return "UNKNOWN"
}

// MarshalJSON encodes the category as its token spelling.
func (c Category) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// UnmarshalJSON decodes a category from its token spelling.
func (c *Category) UnmarshalJSON(data []byte) error {
	var tok string
	if err := json.Unmarshal(data, &tok); err != nil {
		return err
	}
	parsed, ok := ParseCategory(tok)
	if !ok {
		return &InvalidCategoryError{Token: tok}
	}
	*c = parsed
	return nil
}

// IsValid returns whether the Category is one of the defined categories,
// and a list of validation errors if it is not.
func (c Category) IsValid() (bool, []error) {
	if _, ok := categoryTokens[c]; !ok {
		return false, []error{&InvalidCategoryError{Token: c.String()}}
	}
	return true, nil
}

// ParseCategory resolves a token spelling (e.g. "CREATURE", "ITEM_WEAPON")
// to its Category. The second result reports whether the token is known.
func ParseCategory(token string) (Category, bool) {
	c, ok := tokenCategories[token]
	return c, ok
}

// ParseGroup resolves the argument of an [OBJECT:...] header token to the
// group category governing a source. A group is valid only if objects can
// start under it.
func ParseGroup(token string) (Category, bool) {
	c, ok := tokenCategories[token]
	if !ok {
		return Unknown, false
	}
	if _, ok := groupStarts[c]; !ok {
		return Unknown, false
	}
	return c, true
}

// StartsObject reports whether a token name opens a new object inside a
// source of the given group, and the category the opened object gets.
func StartsObject(group Category, token string) (Category, bool) {
	starts, ok := groupStarts[group]
	if !ok {
		return Unknown, false
	}
	c, ok := starts[token]
	return c, ok
}

// StartsAnyObject reports whether a token name opens an object under any
// group, and the category it would get. Ingestion uses it to tell a
// misplaced object start from an ordinary tag. Names shared by several
// groups (TILE_PAGE, PALETTE) map to the same category under each, so the
// group iteration order does not matter.
func StartsAnyObject(token string) (Category, bool) {
	for _, starts := range groupStarts {
		if c, ok := starts[token]; ok {
			return c, true
		}
	}
	return Unknown, false
}

// Categories returns every defined category except the internal markers
// (Unknown, SelectCreature, CreatureCaste), in a stable order.
func Categories() []Category {
	out := make([]Category, 0, len(categoryTokens))
	for c := Creature; c <= Interaction; c++ {
		out = append(out, c)
	}
	return out
}
