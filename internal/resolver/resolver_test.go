// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"errors"
	"slices"
	"testing"

	"rawdex/pkg/rawmod"
)

func mod(id string, edges ...rawmod.Edge) *rawmod.Module {
	return &rawmod.Module{ID: id, Edges: edges}
}

func req(target string) rawmod.Edge {
	return rawmod.Edge{Target: target, Kind: rawmod.EdgeRequires}
}

func before(target string) rawmod.Edge {
	return rawmod.Edge{Target: target, Kind: rawmod.EdgeRequiresBefore}
}

func after(target string) rawmod.Edge {
	return rawmod.Edge{Target: target, Kind: rawmod.EdgeRequiresAfter}
}

func conflicts(target string) rawmod.Edge {
	return rawmod.Edge{Target: target, Kind: rawmod.EdgeConflicts}
}

func TestResolve_Empty(t *testing.T) {
	t.Parallel()

	res, err := Resolve(nil, false)
	if err != nil {
		t.Fatalf("Resolve(nil) error: %v", err)
	}
	if len(res.Order) != 0 || len(res.Warnings) != 0 {
		t.Errorf("Resolve(nil) = %+v, want empty result", res)
	}
}

func TestResolve_LexicographicWithoutEdges(t *testing.T) {
	t.Parallel()

	res, err := Resolve([]*rawmod.Module{mod("zebra"), mod("apple"), mod("mango")}, false)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	want := []string{"apple", "mango", "zebra"}
	if !slices.Equal(res.Order, want) {
		t.Errorf("Order = %v, want %v", res.Order, want)
	}
}

func TestResolve_BeforeEdgeDirection(t *testing.T) {
	t.Parallel()

	// "aaa" would load first by name alone; the edge forces "zzz" ahead
	// of it.
	res, err := Resolve([]*rawmod.Module{
		mod("aaa", before("zzz")),
		mod("zzz"),
	}, false)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	want := []string{"zzz", "aaa"}
	if !slices.Equal(res.Order, want) {
		t.Errorf("Order = %v, want %v", res.Order, want)
	}
}

func TestResolve_AfterEdgeDirection(t *testing.T) {
	t.Parallel()

	// "zzz" declares that "aaa" loads after it.
	res, err := Resolve([]*rawmod.Module{
		mod("zzz", after("aaa")),
		mod("aaa"),
	}, false)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	want := []string{"zzz", "aaa"}
	if !slices.Equal(res.Order, want) {
		t.Errorf("Order = %v, want %v", res.Order, want)
	}
}

func TestResolve_RequiresOrdersNothing(t *testing.T) {
	t.Parallel()

	// "aaa" requires "zzz", but requires carries no ordering: name order
	// stands.
	res, err := Resolve([]*rawmod.Module{
		mod("aaa", req("zzz")),
		mod("zzz"),
	}, false)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	want := []string{"aaa", "zzz"}
	if !slices.Equal(res.Order, want) {
		t.Errorf("Order = %v, want %v", res.Order, want)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
}

func TestResolve_Deterministic(t *testing.T) {
	t.Parallel()

	build := func() []*rawmod.Module {
		return []*rawmod.Module{
			mod("base"),
			mod("middle_b", before("base")),
			mod("middle_a", before("base")),
			mod("top", before("middle_a"), before("middle_b")),
		}
	}

	first, err := Resolve(build(), false)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	want := []string{"base", "middle_a", "middle_b", "top"}
	if !slices.Equal(first.Order, want) {
		t.Errorf("Order = %v, want %v", first.Order, want)
	}

	// Same set, different input order, same answer.
	shuffled := build()
	slices.Reverse(shuffled)
	second, err := Resolve(shuffled, false)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !slices.Equal(first.Order, second.Order) {
		t.Errorf("orders differ across input permutations: %v vs %v", first.Order, second.Order)
	}
}

func TestResolve_CycleReportsMembers(t *testing.T) {
	t.Parallel()

	_, err := Resolve([]*rawmod.Module{
		mod("alpha", before("beta")),
		mod("beta", before("alpha")),
		mod("bystander"),
	}, false)
	if err == nil {
		t.Fatal("expected a cycle error")
	}

	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("error %v is not a *CycleError", err)
	}
	want := []string{"alpha", "beta"}
	if !slices.Equal(ce.Cycle, want) {
		t.Errorf("Cycle = %v, want %v", ce.Cycle, want)
	}
}

func TestResolve_MissingRequirementWarns(t *testing.T) {
	t.Parallel()

	res, err := Resolve([]*rawmod.Module{
		mod("lonely", req("gone"), before("also_gone")),
	}, false)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !slices.Equal(res.Order, []string{"lonely"}) {
		t.Errorf("Order = %v", res.Order)
	}
	if len(res.Warnings) != 2 {
		t.Fatalf("got %d warnings, want 2: %v", len(res.Warnings), res.Warnings)
	}
	var me *MissingError
	if !errors.As(res.Warnings[0], &me) {
		t.Fatalf("warning %v is not a *MissingError", res.Warnings[0])
	}
	if me.Module != "lonely" || me.Target != "gone" || me.Kind != rawmod.EdgeRequires {
		t.Errorf("MissingError = %+v", me)
	}
}

func TestResolve_StrictEscalatesMissing(t *testing.T) {
	t.Parallel()

	_, err := Resolve([]*rawmod.Module{mod("lonely", req("gone"))}, true)
	if err == nil {
		t.Fatal("expected an error under strict resolution")
	}
	var me *MissingError
	if !errors.As(err, &me) {
		t.Errorf("error %v does not carry a *MissingError", err)
	}
}

func TestResolve_ConflictAborts(t *testing.T) {
	t.Parallel()

	_, err := Resolve([]*rawmod.Module{
		mod("beasts"),
		mod("no_beasts", conflicts("beasts")),
		mod("overhaul", req("no_beasts")),
	}, false)
	if err == nil {
		t.Fatal("expected a conflict error")
	}

	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("error %v is not a *ConflictError", err)
	}
	if ce.A != "beasts" || ce.B != "no_beasts" {
		t.Errorf("conflict pair = %q, %q", ce.A, ce.B)
	}
	if ce.RequiredBy != "overhaul" {
		t.Errorf("RequiredBy = %q, want %q", ce.RequiredBy, "overhaul")
	}
}

func TestResolve_ConflictWithAbsentModuleIsMoot(t *testing.T) {
	t.Parallel()

	res, err := Resolve([]*rawmod.Module{
		mod("beasts", conflicts("long_gone")),
	}, false)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !slices.Equal(res.Order, []string{"beasts"}) {
		t.Errorf("Order = %v", res.Order)
	}
}

func TestResolve_CycleBeatsConflict(t *testing.T) {
	t.Parallel()

	// Ordering fails before the co-activation check runs.
	_, err := Resolve([]*rawmod.Module{
		mod("alpha", before("beta"), conflicts("gamma")),
		mod("beta", before("alpha")),
		mod("gamma"),
	}, false)

	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("error %v is not a *CycleError", err)
	}
}

func TestResolve_DuplicateIdentifierKeepsFirst(t *testing.T) {
	t.Parallel()

	first := mod("twin")
	second := mod("twin", conflicts("other"))
	res, err := Resolve([]*rawmod.Module{first, second, mod("other")}, false)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	want := []string{"other", "twin"}
	if !slices.Equal(res.Order, want) {
		t.Errorf("Order = %v, want %v", res.Order, want)
	}
}
