// SPDX-License-Identifier: MPL-2.0

package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"rawdex/internal/discovery"
	"rawdex/internal/issue"
	"rawdex/pkg/rawkind"
	"rawdex/pkg/rawmod"
)

// buildModule writes raw sources under a fresh module directory and wraps
// them the way discovery hands modules to the runner.
func buildModule(t *testing.T, root, id string, edges []rawmod.Edge, files map[string]string) *discovery.DiscoveredModule {
	t.Helper()
	dir := filepath.Join(root, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	var paths []string
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, path)
	}
	slices.Sort(paths)
	return &discovery.DiscoveredModule{
		Module:   &rawmod.Module{ID: id, Directory: dir, Edges: edges},
		RawFiles: paths,
	}
}

func reportsFor(s *Summary, code issue.Code) []issue.Report {
	var out []issue.Report
	for _, r := range s.Reports {
		if r.Code == code {
			out = append(out, r)
		}
	}
	return out
}

func TestRun_EndToEnd(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	vanilla := buildModule(t, root, "vanilla", nil, map[string]string{
		"objects/c_variation_default.txt": `c_variation_default

[OBJECT:CREATURE_VARIATION]

[CREATURE_VARIATION:GIANT]
	[CV_NEW_TAG:FANCIFUL]
	[CV_REMOVE_TAG:MEANDERER]
`,
		"objects/creature_standard.txt": `creature_standard

[OBJECT:CREATURE]

[CREATURE:TOAD]
	[NAME:toad:toads:toad]
	[DESCRIPTION:A squat amphibian found near pools.]
	[AMPHIBIOUS]
	[BODY_SIZE:1:0:200]

[CREATURE:GIANT_TOAD]
	[COPY_TAGS_FROM:TOAD]
	[NAME:giant toad:giant toads:giant toad]
	[APPLY_CREATURE_VARIATION:GIANT]
	[BODY_SIZE:1:0:4000]
`,
	})
	mod := buildModule(t, root, "mod_cave",
		[]rawmod.Edge{{Target: "vanilla", Kind: rawmod.EdgeRequiresBefore}},
		map[string]string{
			"objects/creature_cave.txt": `creature_cave

[OBJECT:CREATURE]

[CREATURE:CAVE_TOAD]
	[COPY_TAGS_FROM:TOAD]
	[NAME:cave toad:cave toads:cave toad]
	[NOCTURNAL]
`,
		})

	st, summary, err := New(Options{Workers: 2}).Run(context.Background(),
		[]*discovery.DiscoveredModule{mod, vanilla})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(summary.Reports) != 0 {
		t.Fatalf("Reports = %+v, want none", summary.Reports)
	}
	if summary.Modules != 2 || summary.Files != 3 {
		t.Errorf("Modules, Files = %d, %d; want 2, 3", summary.Modules, summary.Files)
	}
	if summary.Objects != 4 || st.Len() != 4 {
		t.Errorf("Objects = %d, store has %d; want 4, 4", summary.Objects, st.Len())
	}
	if summary.ByCategory["CREATURE"] != 3 || summary.ByCategory["CREATURE_VARIATION"] != 1 {
		t.Errorf("ByCategory = %v, want 3 creatures and 1 template", summary.ByCategory)
	}

	order := st.Modules()
	if len(order) != 2 || order[0].ID != "vanilla" || order[1].ID != "mod_cave" {
		t.Errorf("load order = %v, want vanilla before mod_cave", order)
	}

	toad, ok := st.Lookup("vanilla", "TOAD")
	if !ok {
		t.Fatal("TOAD not stored")
	}
	if toad.HasFlag("FANCIFUL") {
		t.Error("TOAD picked up a template it never applied")
	}

	giant, ok := st.Lookup("vanilla", "GIANT_TOAD")
	if !ok {
		t.Fatal("GIANT_TOAD not stored")
	}
	if giant.SourceFile != "objects/creature_standard.txt" {
		t.Errorf("SourceFile = %q", giant.SourceFile)
	}
	if !giant.HasFlag("FANCIFUL") {
		t.Error("template expansion did not add FANCIFUL")
	}
	if giant.HasFlag("APPLY_CREATURE_VARIATION") {
		t.Error("template call survived expansion")
	}
	if !giant.HasFlag("AMPHIBIOUS") {
		t.Error("copied flag AMPHIBIOUS missing")
	}
	if giant.Description != "A squat amphibian found near pools." {
		t.Errorf("Description = %q, want the copied one", giant.Description)
	}
	if len(giant.BodySizes) != 1 || giant.BodySizes[0].Size != 4000 {
		t.Errorf("BodySizes = %+v, want the object's own growth point", giant.BodySizes)
	}
	if giant.Names[0] != "giant toad" || !slices.Contains(giant.Names, "toad") {
		t.Errorf("Names = %v, want own names first and copied ones after", giant.Names)
	}

	cave, ok := st.Lookup("mod_cave", "CAVE_TOAD")
	if !ok {
		t.Fatal("CAVE_TOAD not stored")
	}
	if !cave.HasFlag("AMPHIBIOUS") || !cave.HasFlag("NOCTURNAL") {
		t.Errorf("Flags = %+v, want own NOCTURNAL plus copied AMPHIBIOUS", cave.Flags)
	}
	if len(cave.BodySizes) != 1 || cave.BodySizes[0].Size != 200 {
		t.Errorf("BodySizes = %+v, want growth points cloned from TOAD", cave.BodySizes)
	}
}

func TestRun_SelectAmendments(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	mod := buildModule(t, root, "amend", nil, map[string]string{
		"objects/creature_newt.txt": `creature_newt

[OBJECT:CREATURE]

[CREATURE:NEWT]
	[NAME:newt:newts:newt]
	[AMPHIBIOUS]
	[PETVALUE:10]

[SELECT_CREATURE:NEWT]
	[GO_TO_START]
	[EVIL]
	[GO_TO_TAG:PETVALUE]
	[FLIER]
	[POWER]
`,
	})

	st, summary, err := New(Options{}).Run(context.Background(), []*discovery.DiscoveredModule{mod})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(summary.Reports) != 0 {
		t.Fatalf("Reports = %+v, want none", summary.Reports)
	}
	if st.Len() != 1 {
		t.Fatalf("store has %d objects, want the amended NEWT only", st.Len())
	}

	newt, _ := st.Lookup("amend", "NEWT")
	var got []string
	for _, f := range newt.Flags {
		got = append(got, f.Name)
	}
	want := []string{"EVIL", "AMPHIBIOUS", "FLIER", "POWER"}
	if !slices.Equal(got, want) {
		t.Errorf("flag order = %v, want %v", got, want)
	}
	if v, ok := newt.IntValue("PETVALUE"); !ok || v != 10 {
		t.Errorf("PETVALUE = %d, %v; want 10, true", v, ok)
	}
}

func TestRun_TemplateRedefinitionLastWins(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	creature := `creature_rat

[OBJECT:CREATURE]

[CREATURE:RAT]
	[NAME:rat:rats:rat]
	[APPLY_CREATURE_VARIATION:TWEAK]
`
	vanilla := buildModule(t, root, "vanilla", nil, map[string]string{
		"objects/creature_rat.txt": creature,
		"objects/c_variation.txt": `c_variation

[OBJECT:CREATURE_VARIATION]

[CREATURE_VARIATION:TWEAK]
	[CV_NEW_TAG:FANCIFUL]
`,
	})
	patch := buildModule(t, root, "patch",
		[]rawmod.Edge{{Target: "vanilla", Kind: rawmod.EdgeRequiresBefore}},
		map[string]string{
			"objects/c_variation_patch.txt": `c_variation_patch

[OBJECT:CREATURE_VARIATION]

[CREATURE_VARIATION:TWEAK]
	[CV_NEW_TAG:POWER]
`,
		})

	st, summary, err := New(Options{}).Run(context.Background(),
		[]*discovery.DiscoveredModule{vanilla, patch})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(summary.Reports) != 0 {
		t.Fatalf("Reports = %+v, want none", summary.Reports)
	}

	rat, ok := st.Lookup("vanilla", "RAT")
	if !ok {
		t.Fatal("RAT not stored")
	}
	if !rat.HasFlag("POWER") || rat.HasFlag("FANCIFUL") {
		t.Errorf("Flags = %+v, want the later module's template to win", rat.Flags)
	}
}

func TestRun_DanglingTargets(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	mod := buildModule(t, root, "dangle", nil, map[string]string{
		"objects/creature_dangle.txt": `creature_dangle

[OBJECT:CREATURE]

[CREATURE:MOLE]
	[NAME:mole:moles:mole]
	[COPY_TAGS_FROM:PHANTOM]

[SELECT_CREATURE:GHOST]
	[NOFEAR]
`,
	})

	st, summary, err := New(Options{}).Run(context.Background(), []*discovery.DiscoveredModule{mod})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	dangling := reportsFor(summary, issue.DanglingTargetCode)
	if len(dangling) != 2 {
		t.Fatalf("dangling reports = %+v, want one for the select and one for the copy", summary.Reports)
	}
	for _, r := range dangling {
		if r.Fatal() {
			t.Errorf("report %s is fatal, dangling targets must not abort the run", r)
		}
	}

	mole, ok := st.Lookup("dangle", "MOLE")
	if !ok {
		t.Fatal("MOLE not stored, a dangling copy source must not drop the object")
	}
	if mole.HasFlag("NOFEAR") {
		t.Error("tags after a dangling selection leaked into MOLE")
	}
}

func TestRun_DuplicateIdentifiers(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	first := buildModule(t, root, "first", nil, map[string]string{
		"objects/creature_dup.txt": `creature_dup

[OBJECT:CREATURE]

[CREATURE:TOAD]
	[NAME:toad:toads:toad]

[CREATURE:TOAD]
	[EVIL]
`,
	})
	second := buildModule(t, root, "second", nil, map[string]string{
		"objects/creature_toad.txt": `creature_toad

[OBJECT:CREATURE]

[CREATURE:TOAD]
	[NOCTURNAL]
`,
	})

	st, summary, err := New(Options{}).Run(context.Background(),
		[]*discovery.DiscoveredModule{first, second})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if dups := reportsFor(summary, issue.DuplicateObjectCode); len(dups) != 1 {
		t.Fatalf("duplicate reports = %+v, want exactly one", summary.Reports)
	}
	if st.Len() != 2 {
		t.Errorf("store has %d objects, want one TOAD per module", st.Len())
	}

	kept, _ := st.Lookup("first", "TOAD")
	if kept == nil || kept.HasFlag("EVIL") || len(kept.Names) == 0 {
		t.Errorf("kept = %+v, want the first definition", kept)
	}
	if _, ok := st.Lookup("second", "TOAD"); !ok {
		t.Error("same identifier in another module must still be stored")
	}
}

func TestRun_CategoryMismatchSkipsObject(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	mod := buildModule(t, root, "mixed", nil, map[string]string{
		"objects/creature_mixed.txt": `creature_mixed

[OBJECT:CREATURE]

[CREATURE:ANT]
	[NAME:ant:ants:ant]

[INORGANIC:SLATE]
	[IS_STONE]

[CREATURE:BEE]
	[NAME:bee:bees:bee]
`,
	})

	st, summary, err := New(Options{}).Run(context.Background(), []*discovery.DiscoveredModule{mod})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	mismatches := reportsFor(summary, issue.CategoryMismatchCode)
	if len(mismatches) != 1 {
		t.Fatalf("mismatch reports = %+v, want one", summary.Reports)
	}
	if st.Len() != 2 {
		t.Errorf("store has %d objects, want ANT and BEE", st.Len())
	}
	if _, ok := st.Lookup("mixed", "SLATE"); ok {
		t.Error("misplaced object was stored")
	}
	bee, _ := st.Lookup("mixed", "BEE")
	if bee == nil {
		t.Fatal("BEE not stored, the file must keep loading after a mismatch")
	}
	if bee.HasFlag("IS_STONE") {
		t.Error("tags of the misplaced object leaked into BEE")
	}
}

func TestRun_MissingTemplate(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	mod := buildModule(t, root, "solo", nil, map[string]string{
		"objects/creature_owl.txt": `creature_owl

[OBJECT:CREATURE]

[CREATURE:OWL]
	[NAME:owl:owls:owl]
	[APPLY_CREATURE_VARIATION:NO_SUCH]
	[FLIER]
`,
	})

	st, summary, err := New(Options{}).Run(context.Background(), []*discovery.DiscoveredModule{mod})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	missing := reportsFor(summary, issue.MissingTemplateCode)
	if len(missing) != 1 {
		t.Fatalf("missing-template reports = %+v, want one", summary.Reports)
	}

	owl, ok := st.Lookup("solo", "OWL")
	if !ok {
		t.Fatal("OWL not stored, a skipped call must not drop the object")
	}
	if !owl.HasFlag("FLIER") || owl.HasFlag("APPLY_CREATURE_VARIATION") {
		t.Errorf("Flags = %+v, want FLIER kept and the call consumed", owl.Flags)
	}
}

func TestRun_TemplateCycleDropsObject(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	mod := buildModule(t, root, "loops", nil, map[string]string{
		"objects/c_variation_loop.txt": `c_variation_loop

[OBJECT:CREATURE_VARIATION]

[CREATURE_VARIATION:LOOP_A]
	[APPLY_CREATURE_VARIATION:LOOP_B]

[CREATURE_VARIATION:LOOP_B]
	[APPLY_CREATURE_VARIATION:LOOP_A]
`,
		"objects/creature_serpent.txt": `creature_serpent

[OBJECT:CREATURE]

[CREATURE:OUROBOROS]
	[NAME:serpent:serpents:serpent]
	[APPLY_CREATURE_VARIATION:LOOP_A]
`,
	})

	st, summary, err := New(Options{}).Run(context.Background(), []*discovery.DiscoveredModule{mod})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	cycles := reportsFor(summary, issue.TemplateCycleCode)
	if len(cycles) != 1 {
		t.Fatalf("cycle reports = %+v, want one", summary.Reports)
	}
	if cycles[0].Fatal() {
		t.Error("a template cycle fails its object, not the run")
	}
	if _, ok := st.Lookup("loops", "OUROBOROS"); ok {
		t.Error("object with a cyclic expansion was stored")
	}
	if st.Len() != 2 {
		t.Errorf("store has %d objects, want just the two template definitions", st.Len())
	}
}

func TestRun_ConflictAbortsRun(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	alpha := buildModule(t, root, "alpha",
		[]rawmod.Edge{{Target: "beta", Kind: rawmod.EdgeConflicts}}, nil)
	beta := buildModule(t, root, "beta", nil, nil)

	st, summary, err := New(Options{}).Run(context.Background(),
		[]*discovery.DiscoveredModule{alpha, beta})
	if err == nil {
		t.Fatal("Run() succeeded despite a module conflict")
	}
	if st != nil {
		t.Error("a failed resolution must not return a store")
	}

	var actionable *issue.ActionableError
	if !errors.As(err, &actionable) {
		t.Fatalf("error %T is not actionable", err)
	}
	if actionable.Code != issue.ModuleConflictCode {
		t.Errorf("Code = %s, want %s", actionable.Code, issue.ModuleConflictCode)
	}

	conflicts := reportsFor(summary, issue.ModuleConflictCode)
	if len(conflicts) != 1 || !conflicts[0].Fatal() {
		t.Errorf("Reports = %+v, want one fatal conflict report", summary.Reports)
	}
}

func TestRun_StrictEscalatesMissingRequirement(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	files := map[string]string{
		"objects/creature_goat.txt": `creature_goat

[OBJECT:CREATURE]

[CREATURE:GOAT]
	[NAME:goat:goats:goat]
`,
	}
	edges := []rawmod.Edge{{Target: "ghost_dlc", Kind: rawmod.EdgeRequires}}

	mods := []*discovery.DiscoveredModule{buildModule(t, root, "solo", edges, files)}
	st, summary, err := New(Options{}).Run(context.Background(), mods)
	if err != nil {
		t.Fatalf("lax Run() error = %v", err)
	}
	warnings := reportsFor(summary, issue.MissingModuleCode)
	if len(warnings) != 1 || warnings[0].Module != "solo" {
		t.Fatalf("Reports = %+v, want one missing-module warning for solo", summary.Reports)
	}
	if st.Len() != 1 {
		t.Errorf("store has %d objects, a dangling requirement must not block ingestion", st.Len())
	}

	mods = []*discovery.DiscoveredModule{buildModule(t, root, "solo_strict", edges, files)}
	st, summary, err = New(Options{Strict: true}).Run(context.Background(), mods)
	if err == nil {
		t.Fatal("strict Run() succeeded despite a missing requirement")
	}
	if st != nil {
		t.Error("strict failure must not return a store")
	}
	var actionable *issue.ActionableError
	if !errors.As(err, &actionable) || actionable.Code != issue.MissingModuleCode {
		t.Errorf("error = %v, want an actionable missing-module failure", err)
	}
	if len(reportsFor(summary, issue.MissingModuleCode)) != 1 {
		t.Errorf("Reports = %+v, want the failure recorded", summary.Reports)
	}
}

func TestRun_CancellationStopsBetweenObjects(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	mod := buildModule(t, root, "vanilla", nil, map[string]string{
		"objects/creature_toad.txt": `creature_toad

[OBJECT:CREATURE]

[CREATURE:TOAD]
	[NAME:toad:toads:toad]
`,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	st, summary, err := New(Options{}).Run(ctx, []*discovery.DiscoveredModule{mod})
	if err != nil {
		t.Fatalf("Run() error = %v, cancellation is not a failure", err)
	}
	if !summary.Cancelled {
		t.Error("summary does not record the cancellation")
	}
	if st == nil || st.Len() != 0 {
		t.Errorf("store = %v, want an intact empty store", st)
	}
}

func TestRun_CategoryFilter(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	mod := buildModule(t, root, "vanilla", nil, map[string]string{
		"objects/creature_toad.txt": `creature_toad

[OBJECT:CREATURE]

[CREATURE:TOAD]
	[NAME:toad:toads:toad]
`,
		"objects/inorganic_stone.txt": `inorganic_stone

[OBJECT:INORGANIC]

[INORGANIC:SLATE]
	[IS_STONE]
	[MATERIAL_VALUE:1]
`,
	})

	st, summary, err := New(Options{Categories: []rawkind.Category{rawkind.Inorganic}}).
		Run(context.Background(), []*discovery.DiscoveredModule{mod})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Files != 2 {
		t.Errorf("Files = %d, filtering must not skip reading", summary.Files)
	}
	if st.Len() != 1 || summary.ByCategory["CREATURE"] != 0 {
		t.Errorf("store has %d objects, ByCategory = %v; want SLATE only", st.Len(), summary.ByCategory)
	}
	if _, ok := st.Lookup("vanilla", "SLATE"); !ok {
		t.Error("SLATE not stored")
	}
}

func TestRun_SkipVariations(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	mod := buildModule(t, root, "vanilla", nil, map[string]string{
		"objects/creature_owl.txt": `creature_owl

[OBJECT:CREATURE]

[CREATURE:OWL]
	[NAME:owl:owls:owl]
	[APPLY_CREATURE_VARIATION:NO_SUCH]
`,
	})

	st, summary, err := New(Options{SkipVariations: true}).
		Run(context.Background(), []*discovery.DiscoveredModule{mod})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(summary.Reports) != 0 {
		t.Fatalf("Reports = %+v, disabled expansion must not diagnose calls", summary.Reports)
	}
	owl, _ := st.Lookup("vanilla", "OWL")
	if owl == nil || !owl.HasFlag("APPLY_CREATURE_VARIATION") {
		t.Errorf("owl = %+v, want the call kept verbatim", owl)
	}
}

func TestRun_SourceFormatProblems(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	mod := buildModule(t, root, "vanilla", nil, map[string]string{
		"objects/no_header.txt": `garbage

[CREATURE:LOST]
	[NAME:lost:losts:lost]
`,
		"objects/creature_broken.txt": `creature_broken

[OBJECT:CREATURE]

[CREATURE:CRAB]
	[NAME:crab:crabs:crab]
	[UNTERMINATED
[CREATURE:SHRIMP]
	[NAME:shrimp:shrimps:shrimp]
`,
	})

	st, summary, err := New(Options{}).Run(context.Background(), []*discovery.DiscoveredModule{mod})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	format := reportsFor(summary, issue.SourceFormatCode)
	if len(format) != 2 {
		t.Fatalf("format reports = %+v, want one per problem", summary.Reports)
	}
	if _, ok := st.Lookup("vanilla", "LOST"); ok {
		t.Error("object from a headerless file was stored")
	}
	if _, ok := st.Lookup("vanilla", "CRAB"); ok {
		t.Error("object interrupted by a syntax error was stored")
	}
	if _, ok := st.Lookup("vanilla", "SHRIMP"); !ok {
		t.Error("SHRIMP not stored, scanning must recover after a bad token")
	}
}

func TestRun_VocabularyReports(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	mod := buildModule(t, root, "vanilla", nil, map[string]string{
		"objects/creature_snail.txt": `creature_snail

[OBJECT:CREATURE]

[CREATURE:SNAIL]
	[NAME:snail:snails:snail]
	[PETVALUE:slow]
`,
	})

	st, summary, err := New(Options{}).Run(context.Background(), []*discovery.DiscoveredModule{mod})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	vocab := reportsFor(summary, issue.VocabularyCode)
	if len(vocab) != 1 {
		t.Fatalf("vocabulary reports = %+v, want one", summary.Reports)
	}

	snail, ok := st.Lookup("vanilla", "SNAIL")
	if !ok {
		t.Fatal("SNAIL not stored, tag problems must not drop the object")
	}
	if len(snail.ParseErrors) != 1 {
		t.Errorf("ParseErrors = %v, want the bad tag recorded on the object", snail.ParseErrors)
	}
	if _, ok := snail.Value("PETVALUE"); ok {
		t.Error("unparsable value was stored as typed")
	}
}
