// SPDX-License-Identifier: MPL-2.0

package vocab

import (
	"golang.org/x/exp/maps"

	"rawdex/pkg/rawkind"
)

// The zero TagSpec is a bare boolean flag. Everything else spells out what
// it needs.

// coreTags are the fallback vocabulary for categories without a dedicated
// table and the base layer every dedicated table merges over.
var coreTags = map[string]TagSpec{
	"NAME":        {Kind: KindString, MinArgs: 1, Role: RoleName},
	"DESCRIPTION": {Kind: KindString, MinArgs: 1, Role: RoleDescription},
	"TILE":        {Kind: KindString, MinArgs: 1},
	"COLOR":       {Kind: KindInteger, MinArgs: 3},
	"RGB":         {Kind: KindInteger, MinArgs: 3},
	"ADJ":         {Kind: KindString, MinArgs: 1, Repeatable: true},
	"NOUN":        {Kind: KindString, MinArgs: 1, Repeatable: true},
	"VERB":        {Kind: KindString, MinArgs: 1, Repeatable: true},
}

var biomeTokens = []string{
	"ANY_LAND", "ANY_OCEAN", "ANY_LAKE", "ANY_RIVER", "ANY_POOL", "ANY_WETLAND",
	"ANY_DESERT", "ANY_FOREST", "ANY_GRASSLAND", "ANY_SAVANNA", "ANY_SHRUBLAND",
	"ANY_TEMPERATE", "ANY_TROPICAL", "ANY_TUNDRA",
	"MOUNTAIN", "GLACIER", "TUNDRA",
	"SWAMP_TEMPERATE_FRESHWATER", "SWAMP_TEMPERATE_SALTWATER",
	"MARSH_TEMPERATE_FRESHWATER", "MARSH_TEMPERATE_SALTWATER",
	"SWAMP_TROPICAL_FRESHWATER", "SWAMP_TROPICAL_SALTWATER", "SWAMP_MANGROVE",
	"MARSH_TROPICAL_FRESHWATER", "MARSH_TROPICAL_SALTWATER",
	"FOREST_TAIGA", "FOREST_TEMPERATE_CONIFER", "FOREST_TEMPERATE_BROADLEAF",
	"FOREST_TROPICAL_CONIFER", "FOREST_TROPICAL_DRY_BROADLEAF",
	"FOREST_TROPICAL_MOIST_BROADLEAF",
	"GRASSLAND_TEMPERATE", "SAVANNA_TEMPERATE", "SHRUBLAND_TEMPERATE",
	"GRASSLAND_TROPICAL", "SAVANNA_TROPICAL", "SHRUBLAND_TROPICAL",
	"DESERT_BADLAND", "DESERT_ROCK", "DESERT_SAND",
	"OCEAN_TROPICAL", "OCEAN_TEMPERATE", "OCEAN_ARCTIC",
	"POOL_TEMPERATE_FRESHWATER", "POOL_TEMPERATE_BRACKISHWATER",
	"POOL_TROPICAL_FRESHWATER", "POOL_TROPICAL_BRACKISHWATER",
	"LAKE_TEMPERATE_FRESHWATER", "LAKE_TEMPERATE_SALTWATER",
	"LAKE_TROPICAL_FRESHWATER", "LAKE_TROPICAL_SALTWATER",
	"RIVER_TEMPERATE_FRESHWATER", "RIVER_TROPICAL_FRESHWATER",
	"SUBTERRANEAN_WATER", "SUBTERRANEAN_CHASM", "SUBTERRANEAN_LAVA",
}

var lairTokens = []string{
	"SIMPLE_BURROW", "SIMPLE_MOUND", "WILDERNESS_LOCATION", "SHRINE", "LABYRINTH",
}

var environmentClasses = []string{
	"ALL_MAIN", "SOIL", "SOIL_OCEAN", "SOIL_SAND", "METAMORPHIC", "SEDIMENTARY",
	"IGNEOUS_ALL", "IGNEOUS_EXTRUSIVE", "IGNEOUS_INTRUSIVE", "ALLUVIAL",
}

var siteTokens = []string{
	"CAVE", "CAVE_DETAILED", "CITY", "DARK_FORTRESS", "FOREST_RETREAT",
	"MOUNTAIN_HALLS", "TOWN", "TREE_CITY",
}

var seasonTokens = []string{"SPRING", "SUMMER", "AUTUMN", "WINTER"}

var armorLayers = []string{"UNDER", "OVER", "ARMOR", "COVER"}

// creatureTags covers creature-level and caste-level tags. Caste bodies and
// SELECT_CREATURE amendments share this table.
var creatureTags = map[string]TagSpec{
	// names and prose
	"NAME":               {Kind: KindString, MinArgs: 1, Role: RoleName},
	"CASTE_NAME":         {Kind: KindString, MinArgs: 1, Repeatable: true, Role: RoleName},
	"ALL_NAMES":          {Kind: KindString, MinArgs: 1, Role: RoleName},
	"BABY_NAME":          {Kind: KindString, MinArgs: 2, Role: RoleName},
	"CHILD_NAME":         {Kind: KindString, MinArgs: 2, Role: RoleName},
	"GENERAL_CHILD_NAME": {Kind: KindString, MinArgs: 2, Role: RoleName},
	"DESCRIPTION":        {Kind: KindString, MinArgs: 1, Role: RoleDescription},
	"PREFSTRING":         {Kind: KindString, MinArgs: 1, Repeatable: true, Role: RoleDescription},

	// structural payloads
	"CASTE":                   {Kind: KindString, MinArgs: 1, Repeatable: true, Role: RoleStructural},
	"SELECT_CASTE":            {Kind: KindString, MinArgs: 1, Repeatable: true, Role: RoleStructural},
	"SELECT_ADDITIONAL_CASTE": {Kind: KindString, MinArgs: 1, Repeatable: true, Role: RoleStructural},
	"BODY_SIZE":               {Kind: KindInteger, MinArgs: 3, Repeatable: true, Role: RoleStructural},
	"GAIT":                    {Kind: KindString, MinArgs: 5, Repeatable: true, Role: RoleStructural},

	// typed values
	"PETVALUE":              {Kind: KindInteger, MinArgs: 1},
	"POP_RATIO":             {Kind: KindInteger, MinArgs: 1},
	"FREQUENCY":             {Kind: KindInteger, MinArgs: 1},
	"DIFFICULTY":            {Kind: KindInteger, MinArgs: 1},
	"GRASSTRAMPLE":          {Kind: KindInteger, MinArgs: 1},
	"GRAZER":                {Kind: KindInteger, MinArgs: 1},
	"LOW_LIGHT_VISION":      {Kind: KindInteger, MinArgs: 1},
	"VIEWRANGE":             {Kind: KindInteger, MinArgs: 1},
	"FIXED_TEMP":            {Kind: KindInteger, MinArgs: 1},
	"HOMEOTHERM":            {Kind: KindInteger, MinArgs: 1},
	"BABY":                  {Kind: KindInteger, MinArgs: 1},
	"CHILD":                 {Kind: KindInteger, MinArgs: 1},
	"TRADE_CAPACITY":        {Kind: KindInteger, MinArgs: 1},
	"CHANGE_BODY_SIZE_PERC": {Kind: KindInteger, MinArgs: 1},
	"BEACH_FREQUENCY":       {Kind: KindInteger, MinArgs: 1},
	"CLUTCH_SIZE":           {Kind: KindInteger, MinArgs: 2},
	"LITTERSIZE":            {Kind: KindInteger, MinArgs: 2},
	"MAXAGE":                {Kind: KindInteger, MinArgs: 2},
	"POPULATION_NUMBER":     {Kind: KindInteger, MinArgs: 2},
	"UNDERGROUND_DEPTH":     {Kind: KindInteger, MinArgs: 2},
	"GLOWCOLOR":             {Kind: KindInteger, MinArgs: 3},

	"BIOME": {Kind: KindEnum, MinArgs: 1, Enum: biomeTokens, Repeatable: true},
	"LAIR":  {Kind: KindEnum, MinArgs: 2, Enum: lairTokens, Repeatable: true},

	"CREATURE_TILE":         {Kind: KindString, MinArgs: 1},
	"ALTTILE":               {Kind: KindString, MinArgs: 1},
	"SOLDIER_TILE":          {Kind: KindString, MinArgs: 1},
	"GLOWTILE":              {Kind: KindString, MinArgs: 1},
	"CREATURE_CLASS":        {Kind: KindString, MinArgs: 1, Repeatable: true},
	"BODY":                  {Kind: KindString, MinArgs: 1, Repeatable: true},
	"BODY_DETAIL_PLAN":      {Kind: KindString, MinArgs: 1, Repeatable: true},
	"TISSUE_LAYER":          {Kind: KindString, MinArgs: 2, Repeatable: true},
	"NATURAL_SKILL":         {Kind: KindString, MinArgs: 2, Repeatable: true},
	"ATTACK":                {Kind: KindString, MinArgs: 2, Repeatable: true},
	"EXTRACT":               {Kind: KindString, MinArgs: 1, Repeatable: true},
	"MILKABLE":              {Kind: KindString, MinArgs: 3},
	"WEBBER":                {Kind: KindString, MinArgs: 1},
	"EGG_MATERIAL":          {Kind: KindString, MinArgs: 2},
	"USE_MATERIAL_TEMPLATE": {Kind: KindString, MinArgs: 2, Repeatable: true},

	// boolean flags
	"AMPHIBIOUS":             {},
	"AQUATIC":                {},
	"ARENA_RESTRICTED":       {},
	"AT_PEACE_WITH_WILDLIFE": {},
	"BENIGN":                 {},
	"CAN_LEARN":              {},
	"CAN_SPEAK":              {},
	"CARNIVORE":              {},
	"COMMON_DOMESTIC":        {},
	"CREPUSCULAR":            {},
	"DIURNAL":                {},
	"NOCTURNAL":              {},
	"EVIL":                   {},
	"GOOD":                   {},
	"EXTRAVISION":            {},
	"FANCIFUL":               {},
	"FEATURE_BEAST":          {},
	"FEMALE":                 {},
	"MALE":                   {},
	"FIREIMMUNE":             {},
	"FIREIMMUNE_SUPER":       {},
	"FISHITEM":               {},
	"FLIER":                  {},
	"HAS_NERVES":             {},
	"IMMOBILE":               {},
	"IMMOBILE_LAND":          {},
	"INTELLIGENT":            {},
	"LARGE_PREDATOR":         {},
	"LARGE_ROAMING":          {},
	"LIGHT_GEN":              {},
	"LOCKPICKER":             {},
	"MEANDERER":              {},
	"MEGABEAST":              {},
	"SEMIMEGABEAST":          {},
	"MISCHIEVOUS":            {},
	"MOUNT":                  {},
	"MOUNT_EXOTIC":           {},
	"MULTIPART_FULL_VISION":  {},
	"NATURAL":                {},
	"NOBONES":                {},
	"NOBREATHE":              {},
	"NOEMOTION":              {},
	"NOEXERT":                {},
	"NOFEAR":                 {},
	"NOMEAT":                 {},
	"NONAUSEA":               {},
	"NOPAIN":                 {},
	"NOSTUN":                 {},
	"NOTHOUGHT":              {},
	"NOT_BUTCHERABLE":        {},
	"NOT_LIVING":             {},
	"NO_DIZZINESS":           {},
	"NO_DRINK":               {},
	"NO_EAT":                 {},
	"NO_FEVERS":              {},
	"NO_SLEEP":               {},
	"NO_SKIN":                {},
	"NO_SKULL":               {},
	"NOSMELLYROT":            {},
	"OPPOSED_TO_LIFE":        {},
	"OUTSIDER_CONTROLLABLE":  {},
	"PACK_ANIMAL":            {},
	"PARALYZEIMMUNE":         {},
	"PET":                    {},
	"PET_EXOTIC":             {},
	"POWER":                  {},
	"SAVAGE":                 {},
	"SUPERNATURAL":           {},
	"SWIMS_INNATE":           {},
	"SWIMS_LEARNED":          {},
	"THICKWEB":               {},
	"TRAINABLE":              {},
	"TRAINABLE_HUNTING":      {},
	"TRAINABLE_WAR":          {},
	"TRANCES":                {},
	"TRAPAVOID":              {},
	"UBIQUITOUS":             {},
	"UNDERSWIM":              {},
	"UTTERANCES":             {},
	"VERMIN_EATER":           {},
	"VERMIN_FISH":            {},
	"VERMIN_GROUNDER":        {},
	"VERMIN_MICRO":           {},
	"VERMIN_NOFISH":          {},
	"VERMIN_NOTRAP":          {},
	"VERMIN_ROTTER":          {},
	"WAGON_PULLER":           {},
	"EQUIPS":                 {},
	"CANOPENDOORS":           {},
	"EGG_LAYER":              {},
	"STANDARD_GRAZER":        {},
}

// materialTags are the material property tags shared by material templates
// and inorganic definitions.
var materialTags = map[string]TagSpec{
	"USE_MATERIAL_TEMPLATE":  {Kind: KindString, MinArgs: 1},
	"STATE_NAME":             {Kind: KindString, MinArgs: 2, Repeatable: true},
	"STATE_ADJ":              {Kind: KindString, MinArgs: 2, Repeatable: true},
	"STATE_NAME_ADJ":         {Kind: KindString, MinArgs: 2, Repeatable: true},
	"STATE_COLOR":            {Kind: KindString, MinArgs: 2, Repeatable: true},
	"PREFIX":                 {Kind: KindString, MinArgs: 1},
	"DISPLAY_COLOR":          {Kind: KindInteger, MinArgs: 3},
	"BUILD_COLOR":            {Kind: KindInteger, MinArgs: 3},
	"BASIC_COLOR":            {Kind: KindInteger, MinArgs: 2},
	"ITEM_SYMBOL":            {Kind: KindString, MinArgs: 1},
	"MATERIAL_VALUE":         {Kind: KindInteger, MinArgs: 1},
	"SPEC_HEAT":              {Kind: KindInteger, MinArgs: 1},
	"IGNITE_POINT":           {Kind: KindInteger, MinArgs: 1},
	"MELTING_POINT":          {Kind: KindInteger, MinArgs: 1},
	"BOILING_POINT":          {Kind: KindInteger, MinArgs: 1},
	"HEATDAM_POINT":          {Kind: KindInteger, MinArgs: 1},
	"COLDDAM_POINT":          {Kind: KindInteger, MinArgs: 1},
	"MAT_FIXED_TEMP":         {Kind: KindInteger, MinArgs: 1},
	"SOLID_DENSITY":          {Kind: KindInteger, MinArgs: 1},
	"LIQUID_DENSITY":         {Kind: KindInteger, MinArgs: 1},
	"MOLAR_MASS":             {Kind: KindInteger, MinArgs: 1},
	"IMPACT_YIELD":           {Kind: KindInteger, MinArgs: 1},
	"IMPACT_FRACTURE":        {Kind: KindInteger, MinArgs: 1},
	"IMPACT_STRAIN_AT_YIELD": {Kind: KindInteger, MinArgs: 1},
	"COMPRESSIVE_YIELD":      {Kind: KindInteger, MinArgs: 1},
	"COMPRESSIVE_FRACTURE":   {Kind: KindInteger, MinArgs: 1},
	"TENSILE_YIELD":          {Kind: KindInteger, MinArgs: 1},
	"TENSILE_FRACTURE":       {Kind: KindInteger, MinArgs: 1},
	"TORSION_YIELD":          {Kind: KindInteger, MinArgs: 1},
	"TORSION_FRACTURE":       {Kind: KindInteger, MinArgs: 1},
	"SHEAR_YIELD":            {Kind: KindInteger, MinArgs: 1},
	"SHEAR_FRACTURE":         {Kind: KindInteger, MinArgs: 1},
	"BENDING_YIELD":          {Kind: KindInteger, MinArgs: 1},
	"BENDING_FRACTURE":       {Kind: KindInteger, MinArgs: 1},
	"MAX_EDGE":               {Kind: KindInteger, MinArgs: 1},
	"ABSORPTION":             {Kind: KindInteger, MinArgs: 1},

	// material classes
	"IMPLIES_ANIMAL_KILL":  {},
	"ALCOHOL":              {},
	"ALCOHOL_PLANT":        {},
	"BONE":                 {},
	"CHEESE":               {},
	"LEATHER":              {},
	"SILK":                 {},
	"SOAP":                 {},
	"STRUCTURAL_PLANT_MAT": {},
	"SEED_MAT":             {},
	"THREAD_PLANT":         {},
	"WOOD":                 {},
	"IS_GLASS":             {},
	"IS_STONE":             {},
	"IS_METAL":             {},
	"EVAPORATES":           {},
	"ROTS":                 {},
	"DO_NOT_CLEAN_GLOB":    {},
	"EDIBLE_RAW":           {},
	"EDIBLE_COOKED":        {},
	"EDIBLE_VERMIN":        {},
}

var inorganicOnlyTags = map[string]TagSpec{
	"ENVIRONMENT":      {Kind: KindEnum, MinArgs: 3, Enum: environmentClasses, Repeatable: true},
	"ENVIRONMENT_SPEC": {Kind: KindString, MinArgs: 3, Repeatable: true},
	"METAL_ORE":        {Kind: KindString, MinArgs: 2, Repeatable: true},
	"THREAD_METAL":     {Kind: KindString, MinArgs: 2},

	"AQUIFER":                   {},
	"SEDIMENTARY":               {},
	"SEDIMENTARY_OCEAN_SHALLOW": {},
	"SEDIMENTARY_OCEAN_DEEP":    {},
	"IGNEOUS_EXTRUSIVE":         {},
	"IGNEOUS_INTRUSIVE":         {},
	"METAMORPHIC":               {},
	"SOIL":                      {},
	"SOIL_OCEAN":                {},
	"SOIL_SAND":                 {},
	"SPECIAL":                   {},
	"DEEP_SPECIAL":              {},
	"DEEP_SURFACE":              {},
	"GENERATED":                 {},
	"DIVINE":                    {},
	"LAVA":                      {},
	"NO_STONE_STOCKPILE":        {},
	"DISPLAY_UNGLAZED":          {},
	"WAFERS":                    {},
}

// inorganicTags is materialTags plus the inorganic-only entries: inorganic
// bodies carry material property tags directly.
var inorganicTags = func() map[string]TagSpec {
	m := make(map[string]TagSpec, len(materialTags)+len(inorganicOnlyTags))
	maps.Copy(m, materialTags)
	maps.Copy(m, inorganicOnlyTags)
	return m
}()

var plantTags = map[string]TagSpec{
	"NAME":        {Kind: KindString, MinArgs: 1, Role: RoleName},
	"NAME_PLURAL": {Kind: KindString, MinArgs: 1, Role: RoleName},
	"ALL_NAMES":   {Kind: KindString, MinArgs: 1, Role: RoleName},
	"ADJ":         {Kind: KindString, MinArgs: 1, Role: RoleName},
	"PREFSTRING":  {Kind: KindString, MinArgs: 1, Repeatable: true, Role: RoleDescription},

	"GROWTH": {Kind: KindString, MinArgs: 1, Repeatable: true, Role: RoleStructural},

	"BIOME":             {Kind: KindEnum, MinArgs: 1, Enum: biomeTokens, Repeatable: true},
	"UNDERGROUND_DEPTH": {Kind: KindInteger, MinArgs: 2},
	"FREQUENCY":         {Kind: KindInteger, MinArgs: 1},
	"CLUSTERSIZE":       {Kind: KindInteger, MinArgs: 1},
	"GROWDUR":           {Kind: KindInteger, MinArgs: 1},
	"VALUE":             {Kind: KindInteger, MinArgs: 1},

	"USE_MATERIAL_TEMPLATE": {Kind: KindString, MinArgs: 2, Repeatable: true},
	"BASIC_MAT":             {Kind: KindString, MinArgs: 1},
	"SEED":                  {Kind: KindString, MinArgs: 5},
	"MILL":                  {Kind: KindString, MinArgs: 1},
	"DRINK":                 {Kind: KindString, MinArgs: 1},
	"EXTRACT_BARREL":        {Kind: KindString, MinArgs: 1},
	"EXTRACT_VIAL":          {Kind: KindString, MinArgs: 1},
	"EXTRACT_STILL_VIAL":    {Kind: KindString, MinArgs: 1},
	"THREAD":                {Kind: KindString, MinArgs: 1},
	"PICKED_TILE":           {Kind: KindString, MinArgs: 1},
	"SHRUB_TILE":            {Kind: KindString, MinArgs: 1},
	"DEAD_SHRUB_TILE":       {Kind: KindString, MinArgs: 1},
	"TREE_TILE":             {Kind: KindString, MinArgs: 1},
	"DEAD_TREE_TILE":        {Kind: KindString, MinArgs: 1},
	"SAPLING_TILE":          {Kind: KindString, MinArgs: 1},

	"SPRING":                {},
	"SUMMER":                {},
	"AUTUMN":                {},
	"WINTER":                {},
	"DRY":                   {},
	"WET":                   {},
	"SAPLING":               {},
	"TREE_HAS_MUSHROOM_CAP": {},
	"TWIGS_SIDE_BRANCHES":   {},
	"STANDARD_TILE_NAMES":   {},
	"BROADLEAF":             {},
	"EVERGREEN":             {},
	"DECIDUOUS":             {},
}

var entityTags = map[string]TagSpec{
	"CREATURE":    {Kind: KindString, MinArgs: 1},
	"TRANSLATION": {Kind: KindString, MinArgs: 1},

	"DEFAULT_SITE_TYPE": {Kind: KindEnum, MinArgs: 1, Enum: siteTokens},
	"LIKES_SITE":        {Kind: KindEnum, MinArgs: 1, Enum: siteTokens, Repeatable: true},
	"TOLERATES_SITE":    {Kind: KindEnum, MinArgs: 1, Enum: siteTokens, Repeatable: true},
	"ACTIVE_SEASON":     {Kind: KindEnum, MinArgs: 1, Enum: seasonTokens, Repeatable: true},

	"BIOME_SUPPORT":               {Kind: KindString, MinArgs: 2, Repeatable: true},
	"SETTLEMENT_BIOME":            {Kind: KindEnum, MinArgs: 1, Enum: biomeTokens, Repeatable: true},
	"START_BIOME":                 {Kind: KindEnum, MinArgs: 1, Enum: biomeTokens, Repeatable: true},
	"EXCLUSIVE_START_BIOME":       {Kind: KindEnum, MinArgs: 1, Enum: biomeTokens},
	"PERMITTED_JOB":               {Kind: KindString, MinArgs: 1, Repeatable: true},
	"PERMITTED_BUILDING":          {Kind: KindString, MinArgs: 1, Repeatable: true},
	"PERMITTED_REACTION":          {Kind: KindString, MinArgs: 1, Repeatable: true},
	"WEAPON":                      {Kind: KindString, MinArgs: 1, Repeatable: true},
	"ARMOR":                       {Kind: KindString, MinArgs: 2, Repeatable: true},
	"SHIELD":                      {Kind: KindString, MinArgs: 2, Repeatable: true},
	"AMMO":                        {Kind: KindString, MinArgs: 1, Repeatable: true},
	"SIEGEAMMO":                   {Kind: KindString, MinArgs: 1, Repeatable: true},
	"TOOL":                        {Kind: KindString, MinArgs: 1, Repeatable: true},
	"ETHIC":                       {Kind: KindString, MinArgs: 2, Repeatable: true},
	"VALUE":                       {Kind: KindString, MinArgs: 2, Repeatable: true},
	"POSITION":                    {Kind: KindString, MinArgs: 1, Repeatable: true},
	"CURRENCY":                    {Kind: KindString, MinArgs: 2, Repeatable: true},
	"RELIGION_SPHERE":             {Kind: KindString, MinArgs: 1, Repeatable: true},
	"ADVENTURE_TIER":              {Kind: KindInteger, MinArgs: 1},
	"MAX_POP_NUMBER":              {Kind: KindInteger, MinArgs: 1},
	"MAX_SITE_POP_NUMBER":         {Kind: KindInteger, MinArgs: 1},
	"MAX_STARTING_CIV_NUMBER":     {Kind: KindInteger, MinArgs: 1},
	"PROGRESS_TRIGGER_POPULATION": {Kind: KindInteger, MinArgs: 1},
	"PROGRESS_TRIGGER_PRODUCTION": {Kind: KindInteger, MinArgs: 1},
	"PROGRESS_TRIGGER_TRADE":      {Kind: KindInteger, MinArgs: 1},

	"CIV_CONTROLLABLE":            {},
	"SITE_CONTROLLABLE":           {},
	"ALL_MAIN_POPS_CONTROLLABLE":  {},
	"INDOOR_FARMING":              {},
	"OUTDOOR_FARMING":             {},
	"USE_CAVE_ANIMALS":            {},
	"USE_EVIL_ANIMALS":            {},
	"USE_GOOD_ANIMALS":            {},
	"USE_ANIMAL_PRODUCTS":         {},
	"COMMON_DOMESTIC_PACK":        {},
	"COMMON_DOMESTIC_PULL":        {},
	"COMMON_DOMESTIC_MOUNT":       {},
	"COMMON_DOMESTIC_PET":         {},
	"RIVER_PRODUCTS":              {},
	"OCEAN_PRODUCTS":              {},
	"UNDEAD_CANDIDATE":            {},
	"SKULKING":                    {},
	"LAYERING":                    {},
	"ABUSE_BODIES":                {},
	"UNDERGROUND_METAL_STOCKPILE": {},
	"WOOD_WEAPONS":                {},
	"WOOD_ARMOR":                  {},
}

var graphicsTags = map[string]TagSpec{
	// condition tags map a creature state to a sprite sheet cell
	"DEFAULT":             {Kind: KindString, MinArgs: 4, Repeatable: true, Role: RoleStructural},
	"CHILD":               {Kind: KindString, MinArgs: 4, Repeatable: true, Role: RoleStructural},
	"BABY":                {Kind: KindString, MinArgs: 4, Repeatable: true, Role: RoleStructural},
	"ANIMATED":            {Kind: KindString, MinArgs: 4, Repeatable: true, Role: RoleStructural},
	"CORPSE":              {Kind: KindString, MinArgs: 4, Repeatable: true, Role: RoleStructural},
	"LIST_ICON":           {Kind: KindString, MinArgs: 4, Repeatable: true, Role: RoleStructural},
	"TRAINED_WAR":         {Kind: KindString, MinArgs: 4, Repeatable: true, Role: RoleStructural},
	"TRAINED_HUNTER":      {Kind: KindString, MinArgs: 4, Repeatable: true, Role: RoleStructural},
	"SKELETON":            {Kind: KindString, MinArgs: 4, Repeatable: true, Role: RoleStructural},
	"SKELETON_WITH_SKULL": {Kind: KindString, MinArgs: 4, Repeatable: true, Role: RoleStructural},
	"ZOMBIE":              {Kind: KindString, MinArgs: 4, Repeatable: true, Role: RoleStructural},
	"STATUE":              {Kind: KindString, MinArgs: 4, Repeatable: true, Role: RoleStructural},
}

var tilePageTags = map[string]TagSpec{
	"FILE":            {Kind: KindString, MinArgs: 1},
	"TILE_DIM":        {Kind: KindInteger, MinArgs: 2},
	"PAGE_DIM":        {Kind: KindInteger, MinArgs: 2},
	"PAGE_DIM_PIXELS": {Kind: KindInteger, MinArgs: 2},
}

// variationTags are consumed by the variation engine, not the parser, but
// the vocabulary still names them so template sources classify cleanly.
var variationTags = map[string]TagSpec{
	"CV_NEW_TAG":       {Kind: KindString, MinArgs: 1, Repeatable: true, Role: RoleStructural},
	"CV_ADD_TAG":       {Kind: KindString, MinArgs: 1, Repeatable: true, Role: RoleStructural},
	"CV_REMOVE_TAG":    {Kind: KindString, MinArgs: 1, Repeatable: true, Role: RoleStructural},
	"CV_CONVERT_TAG":   {Kind: KindString, MinArgs: 0, Repeatable: true, Role: RoleStructural},
	"CVCT_MASTER":      {Kind: KindString, MinArgs: 1, Repeatable: true, Role: RoleStructural},
	"CVCT_TARGET":      {Kind: KindString, MinArgs: 1, Repeatable: true, Role: RoleStructural},
	"CVCT_REPLACEMENT": {Kind: KindString, MinArgs: 0, Repeatable: true, Role: RoleStructural},
	"CV_NEW_CTAG":      {Kind: KindString, MinArgs: 2, Repeatable: true, Role: RoleStructural},
	"CV_ADD_CTAG":      {Kind: KindString, MinArgs: 2, Repeatable: true, Role: RoleStructural},
	"CV_REMOVE_CTAG":   {Kind: KindString, MinArgs: 2, Repeatable: true, Role: RoleStructural},
	"CV_CONVERT_CTAG":  {Kind: KindString, MinArgs: 2, Repeatable: true, Role: RoleStructural},
}

var itemTags = map[string]TagSpec{
	"NAME":          {Kind: KindString, MinArgs: 2, Role: RoleName},
	"ADJECTIVE":     {Kind: KindString, MinArgs: 1, Role: RoleName},
	"SIZE":          {Kind: KindInteger, MinArgs: 1},
	"VALUE":         {Kind: KindInteger, MinArgs: 1},
	"TWO_HANDED":    {Kind: KindInteger, MinArgs: 1},
	"MINIMUM_SIZE":  {Kind: KindInteger, MinArgs: 1},
	"MATERIAL_SIZE": {Kind: KindInteger, MinArgs: 1},
	"SHOOT_FORCE":   {Kind: KindInteger, MinArgs: 1},
	"SHOOT_MAXVEL":  {Kind: KindInteger, MinArgs: 1},
	"LAYER_SIZE":    {Kind: KindInteger, MinArgs: 1},
	"LAYER_PERMIT":  {Kind: KindInteger, MinArgs: 1},
	"COVERAGE":      {Kind: KindInteger, MinArgs: 1},
	"ARMORLEVEL":    {Kind: KindInteger, MinArgs: 1},
	"UPSTEP":        {Kind: KindInteger, MinArgs: 1},

	"LAYER": {Kind: KindEnum, MinArgs: 1, Enum: armorLayers},

	"SKILL":       {Kind: KindString, MinArgs: 1},
	"RANGED":      {Kind: KindString, MinArgs: 2},
	"ATTACK":      {Kind: KindString, MinArgs: 5, Repeatable: true},
	"UBSTEP":      {Kind: KindString, MinArgs: 1},
	"LBSTEP":      {Kind: KindString, MinArgs: 1},
	"CLASS":       {Kind: KindString, MinArgs: 1},
	"TOOL_USE":    {Kind: KindString, MinArgs: 1, Repeatable: true},
	"DESCRIPTION": {Kind: KindString, MinArgs: 1, Role: RoleDescription},

	"METAL_ARMOR_LEVELS":                 {},
	"LEATHER":                            {},
	"HARD":                               {},
	"SOFT":                               {},
	"METAL":                              {},
	"BARRED":                             {},
	"SCALED":                             {},
	"SHAPED":                             {},
	"METAL_WEAPON_MAT":                   {},
	"CAN_STONE":                          {},
	"TRAINING":                           {},
	"STRUCTURAL_ELASTICITY_CHAIN_METAL":  {},
	"STRUCTURAL_ELASTICITY_WOVEN_THREAD": {},
	"STRUCTURAL_ELASTICITY_CHAIN_ALL":    {},
}

var reactionTags = map[string]TagSpec{
	"NAME":           {Kind: KindString, MinArgs: 1, Role: RoleName},
	"DESCRIPTION":    {Kind: KindString, MinArgs: 1, Role: RoleDescription},
	"BUILDING":       {Kind: KindString, MinArgs: 2, Repeatable: true},
	"REAGENT":        {Kind: KindString, MinArgs: 2, Repeatable: true},
	"PRODUCT":        {Kind: KindString, MinArgs: 2, Repeatable: true},
	"SKILL":          {Kind: KindString, MinArgs: 1},
	"CATEGORY":       {Kind: KindString, MinArgs: 1},
	"MAX_MULTIPLIER": {Kind: KindInteger, MinArgs: 1},

	"FUEL":                   {},
	"AUTOMATIC":              {},
	"ADVENTURE_MODE_ENABLED": {},
}

var itemCategories = []rawkind.Category{
	rawkind.ItemAmmo, rawkind.ItemArmor, rawkind.ItemFood, rawkind.ItemGloves,
	rawkind.ItemHelm, rawkind.ItemInstrument, rawkind.ItemPants, rawkind.ItemShield,
	rawkind.ItemShoes, rawkind.ItemSiegeAmmo, rawkind.ItemTool, rawkind.ItemToy,
	rawkind.ItemTrapComponent, rawkind.ItemWeapon,
}

var coreTable = &Table{category: rawkind.Unknown, tags: coreTags}

var tables = func() map[rawkind.Category]*Table {
	m := map[rawkind.Category]*Table{
		rawkind.Creature:          merged(rawkind.Creature, creatureTags),
		rawkind.CreatureCaste:     merged(rawkind.CreatureCaste, creatureTags),
		rawkind.SelectCreature:    merged(rawkind.SelectCreature, creatureTags),
		rawkind.Inorganic:         merged(rawkind.Inorganic, inorganicTags),
		rawkind.MaterialTemplate:  merged(rawkind.MaterialTemplate, materialTags),
		rawkind.Plant:             merged(rawkind.Plant, plantTags),
		rawkind.Entity:            merged(rawkind.Entity, entityTags),
		rawkind.Graphics:          merged(rawkind.Graphics, graphicsTags),
		rawkind.TilePage:          merged(rawkind.TilePage, tilePageTags),
		rawkind.CreatureVariation: merged(rawkind.CreatureVariation, variationTags),
		rawkind.Reaction:          merged(rawkind.Reaction, reactionTags),
	}
	for _, c := range itemCategories {
		m[c] = merged(c, itemTags)
	}
	return m
}()
