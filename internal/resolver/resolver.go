// SPDX-License-Identifier: MPL-2.0

// Package resolver computes a total load order for discovered modules from
// their dependency edges, or fails with a structured cycle or conflict
// report. Requirements whose target is absent are warnings by default and
// errors under strict resolution.
package resolver

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"rawdex/pkg/rawmod"
)

type (
	// ConflictError aborts resolution: two present modules declare they
	// cannot be active together. RequiredBy names a module whose own
	// requirement pulls one of the pair in, when such a module exists;
	// dropping either side blindly would then break someone else.
	ConflictError struct {
		A, B       string
		RequiredBy string
	}

	// MissingError reports a requirement edge whose target is not present.
	MissingError struct {
		Module string
		Target string
		Kind   rawmod.EdgeKind
	}

	// Result is a successful resolution.
	Result struct {
		// Order lists module identifiers in load order.
		Order []string
		// Warnings collects non-fatal problems, dangling requirements
		// mostly, in a deterministic order.
		Warnings []error
	}
)

func (e *ConflictError) Error() string {
	if e.RequiredBy != "" {
		return fmt.Sprintf("modules %q and %q conflict, and %q requires one of them", e.A, e.B, e.RequiredBy)
	}
	return fmt.Sprintf("modules %q and %q conflict", e.A, e.B)
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("module %q %s %q, which is not present", e.Module, e.Kind, e.Target)
}

// Resolve orders mods into a load sequence satisfying every before/after
// edge among present modules. Kahn ordering with lexicographic tie-break
// makes the result a pure function of the input set. Conflicts are checked
// after ordering; a conflicting pair fails the run even when an order
// exists. Duplicate identifiers keep the first module seen.
func Resolve(mods []*rawmod.Module, strict bool) (*Result, error) {
	present := make(map[string]*rawmod.Module, len(mods))
	ids := make([]string, 0, len(mods))
	for _, m := range mods {
		if _, dup := present[m.ID]; dup {
			continue
		}
		present[m.ID] = m
		ids = append(ids, m.ID)
	}
	slices.Sort(ids)

	type pair struct{ a, b string }
	var (
		g            = newGraph()
		warnings     []error
		conflicts    []pair
		conflictSeen = make(map[pair]bool)
	)

	for _, id := range ids {
		g.addNode(id)
		for _, e := range present[id].Edges {
			switch e.Kind {
			case rawmod.EdgeRequires, rawmod.EdgeRequiresBefore, rawmod.EdgeRequiresAfter:
				if _, ok := present[e.Target]; !ok {
					warnings = append(warnings, &MissingError{Module: id, Target: e.Target, Kind: e.Kind})
					continue
				}
				switch e.Kind {
				case rawmod.EdgeRequiresBefore:
					g.addEdge(e.Target, id)
				case rawmod.EdgeRequiresAfter:
					g.addEdge(id, e.Target)
				}
			case rawmod.EdgeConflicts:
				if _, ok := present[e.Target]; !ok || e.Target == id {
					continue
				}
				a, b := id, e.Target
				if b < a {
					a, b = b, a
				}
				p := pair{a, b}
				if !conflictSeen[p] {
					conflictSeen[p] = true
					conflicts = append(conflicts, p)
				}
			}
		}
	}

	if strict && len(warnings) > 0 {
		return nil, errors.Join(warnings...)
	}

	order, err := g.topoSort()
	if err != nil {
		return nil, err
	}

	if len(conflicts) > 0 {
		slices.SortFunc(conflicts, func(x, y pair) int {
			if c := cmp.Compare(x.a, y.a); c != 0 {
				return c
			}
			return cmp.Compare(x.b, y.b)
		})
		first := conflicts[0]
		return nil, &ConflictError{
			A:          first.a,
			B:          first.b,
			RequiredBy: requirerOf(present, ids, first.a, first.b),
		}
	}

	return &Result{Order: order, Warnings: warnings}, nil
}

// requirerOf finds the first module, in identifier order, with a
// requirement edge targeting a or b. It surfaces the requires-versus-
// conflicts tension in the conflict report.
func requirerOf(present map[string]*rawmod.Module, ids []string, a, b string) string {
	for _, id := range ids {
		for _, e := range present[id].Edges {
			if e.Kind == rawmod.EdgeConflicts {
				continue
			}
			if e.Target == a || e.Target == b {
				return id
			}
		}
	}
	return ""
}
