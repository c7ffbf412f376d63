// SPDX-License-Identifier: MPL-2.0

package rawobj

import (
	"testing"

	"rawdex/pkg/rawkind"
)

func TestNew(t *testing.T) {
	t.Parallel()

	a := New("vanilla_creatures", "DOG", rawkind.Creature)
	b := New("vanilla_creatures", "CAT", rawkind.Creature)

	if a.UID == b.UID {
		t.Error("two objects share a UID")
	}
	if a.Key() != (Key{Module: "vanilla_creatures", Identifier: "DOG"}) {
		t.Errorf("Key() = %+v", a.Key())
	}
	if a.Category != rawkind.Creature {
		t.Errorf("Category = %v", a.Category)
	}
}

func TestObjectFlagsAndValues(t *testing.T) {
	t.Parallel()

	o := New("m", "DOG", rawkind.Creature)
	o.Flags = append(o.Flags,
		Flag{Name: "PET"},
		Flag{Name: "ZZ_CUSTOM", Args: []string{"x"}, Unrecognized: true},
	)
	o.Values = append(o.Values,
		TagValue{Name: "PETVALUE", Ints: []int{30}, Raw: []string{"30"}},
		TagValue{Name: "PETVALUE", Ints: []int{99}, Raw: []string{"99"}},
	)

	if !o.HasFlag("PET") || !o.HasFlag("ZZ_CUSTOM") {
		t.Error("HasFlag missed a present flag")
	}
	if o.HasFlag("FLIER") {
		t.Error("HasFlag reported an absent flag")
	}

	if v, ok := o.IntValue("PETVALUE"); !ok || v != 30 {
		t.Errorf("IntValue(PETVALUE) = %d, %v; want first recorded value 30", v, ok)
	}
	if _, ok := o.IntValue("MAXAGE"); ok {
		t.Error("IntValue reported an absent value")
	}
}

func TestObjectProjection(t *testing.T) {
	t.Parallel()

	o := New("m", "DOG", rawkind.Creature)
	o.Names = []string{"dog", "dogs"}
	o.Description = "A loyal domestic animal."

	got := o.Projection()
	want := []string{"DOG", "dog", "dogs", "A loyal domestic animal."}
	if len(got) != len(want) {
		t.Fatalf("Projection() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Projection()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	bare := New("m", "SLATE", rawkind.Inorganic)
	if got := bare.Projection(); len(got) != 1 || got[0] != "SLATE" {
		t.Errorf("bare Projection() = %v, want just the identifier", got)
	}
}
