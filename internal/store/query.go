// SPDX-License-Identifier: MPL-2.0

package store

import (
	"cmp"
	"slices"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"rawdex/pkg/rawkind"
	"rawdex/pkg/rawobj"
)

// DefaultLimit caps a result page when the query does not set one.
const DefaultLimit = 18

// Query filters and ranks stored objects. Empty filter fields match
// everything; an empty Text returns the filtered set in load order.
type Query struct {
	Text       string
	Categories []rawkind.Category
	Modules    []string
	Flags      []string
	Limit      int
	Page       int
}

// Match pairs an object with its search score. Lower scores rank first.
type Match struct {
	Object *rawobj.Object
	Score  int
}

// Score tiers. A hit lands in exactly one: the query appearing verbatim
// in a projection field beats every word-prefix hit, which beats every
// fuzzy in-order fragment hit. Within a tier, lower residue wins.
const (
	tierPrefix   = 1 << 20
	tierFragment = 1 << 24
)

// Search returns the requested page of ranked matches.
func (s *Store) Search(q Query) []Match {
	return paginate(s.rank(q), q)
}

// Count returns how many objects match, ignoring pagination.
func (s *Store) Count(q Query) int {
	return len(s.rank(q))
}

func (s *Store) rank(q Query) []Match {
	objs := s.collect(q)
	matches := make([]Match, 0, len(objs))
	if q.Text == "" {
		for _, o := range objs {
			matches = append(matches, Match{Object: o})
		}
		return matches
	}
	for _, o := range objs {
		if score, ok := scoreObject(o, q.Text); ok {
			matches = append(matches, Match{Object: o, Score: score})
		}
	}
	slices.SortStableFunc(matches, func(a, b Match) int {
		if c := cmp.Compare(a.Score, b.Score); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Object.Module, b.Object.Module); c != 0 {
			return c
		}
		return cmp.Compare(a.Object.Identifier, b.Object.Identifier)
	})
	return matches
}

// collect applies the non-text filters and returns the survivors in load
// order.
func (s *Store) collect(q Query) []*rawobj.Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*rawobj.Object, 0, len(s.objects))
	for _, o := range s.objects {
		if len(q.Categories) > 0 && !slices.Contains(q.Categories, o.Category) {
			continue
		}
		if len(q.Modules) > 0 && !slices.Contains(q.Modules, o.Module) {
			continue
		}
		if !hasAllFlags(o, q.Flags) {
			continue
		}
		out = append(out, o)
	}
	s.sortLoadOrder(out)
	return out
}

func hasAllFlags(o *rawobj.Object, flags []string) bool {
	for _, f := range flags {
		if !o.HasFlag(f) {
			return false
		}
	}
	return true
}

// scoreObject scores the best projection field of one object.
func scoreObject(o *rawobj.Object, text string) (int, bool) {
	best := -1
	for _, field := range o.Projection() {
		score, ok := scoreField(field, text)
		if ok && (best < 0 || score < best) {
			best = score
		}
	}
	return best, best >= 0
}

func scoreField(field, text string) (int, bool) {
	f := strings.ToLower(field)
	q := strings.ToLower(strings.TrimSpace(text))
	if q == "" {
		return 0, false
	}
	if idx := strings.Index(f, q); idx >= 0 {
		return idx, true
	}
	if wordsPrefix(f, q) {
		return tierPrefix + len(f) - len(q), true
	}
	if d := fuzzy.RankMatchNormalizedFold(q, f); d >= 0 {
		return tierFragment + d, true
	}
	return 0, false
}

// wordsPrefix reports whether every query word is a prefix of some field
// word.
func wordsPrefix(field, query string) bool {
	queryWords := strings.Fields(query)
	if len(queryWords) == 0 {
		return false
	}
	fieldWords := strings.Fields(field)
	for _, qw := range queryWords {
		hit := false
		for _, fw := range fieldWords {
			if strings.HasPrefix(fw, qw) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

func paginate(matches []Match, q Query) []Match {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	start := 0
	if q.Page > 0 {
		start = q.Page * limit
	}
	if start >= len(matches) {
		return nil
	}
	return matches[start:min(start+limit, len(matches))]
}
