// SPDX-License-Identifier: MPL-2.0

package variation

import (
	"slices"
	"strings"

	"rawdex/pkg/token"
)

// segment is a half-open token index range belonging to one caste. The
// object-wide preamble has caste "".
type segment struct {
	caste      string
	start, end int
}

// segmentsOf partitions a stream at CASTE and SELECT_CASTE markers; the
// markers themselves sit between segments. The second result names the
// most recently defined caste, empty when the stream declares none.
func segmentsOf(stream []token.Token) ([]segment, string) {
	segs := []segment{{}}
	var lastDefined string
	for i, tk := range stream {
		switch tk.Name {
		case "CASTE":
			segs[len(segs)-1].end = i
			segs = append(segs, segment{caste: tk.Arg(0), start: i + 1})
			lastDefined = tk.Arg(0)
		case "SELECT_CASTE", "SELECT_ADDITIONAL_CASTE":
			segs[len(segs)-1].end = i
			name := tk.Arg(0)
			if name == "ALL" {
				name = ""
			}
			segs = append(segs, segment{caste: name, start: i + 1})
		}
	}
	segs[len(segs)-1].end = len(stream)
	return segs, lastDefined
}

// scopeNames resolves a non-ALL scope to concrete caste names against the
// current stream. An empty result makes caste-scoped operations no-ops.
func scopeNames(stream []token.Token, sc Scope) []string {
	if sc.Latest {
		_, lastDefined := segmentsOf(stream)
		if lastDefined == "" {
			return nil
		}
		return []string{lastDefined}
	}
	return sc.Castes
}

// regionsOf returns the index ranges an operation touches. ALL spans the
// whole stream as one region.
func regionsOf(stream []token.Token, sc Scope) []segment {
	if sc.All {
		return []segment{{end: len(stream)}}
	}
	names := scopeNames(stream, sc)
	if len(names) == 0 {
		return nil
	}
	segs, _ := segmentsOf(stream)
	var out []segment
	for _, s := range segs {
		if slices.Contains(names, s.caste) {
			out = append(out, s)
		}
	}
	return out
}

func inRegions(regions []segment, i int) bool {
	for _, r := range regions {
		if i >= r.start && i < r.end {
			return true
		}
	}
	return false
}

// renderToken builds a token from operation arguments at the string level,
// so substituted text containing colons splits the way it reads.
func renderToken(args []string) (token.Token, bool) {
	body := strings.Join(args, ":")
	if body == "" {
		return token.Token{}, false
	}
	t := token.FromBody(body, 0)
	if t.Name == "" {
		return token.Token{}, false
	}
	return t, true
}

// applyNew renders a token and appends it to every in-scope segment: at
// the end of the stream for ALL, at the end of each selected caste's last
// segment otherwise.
func applyNew(stream []token.Token, sc Scope, args []string) []token.Token {
	return insertInScope(stream, sc, args, false)
}

// applyAdd appends like applyNew unless a whole-token-equal token already
// exists in the same scope.
func applyAdd(stream []token.Token, sc Scope, args []string) []token.Token {
	return insertInScope(stream, sc, args, true)
}

func insertInScope(stream []token.Token, sc Scope, args []string, ifAbsent bool) []token.Token {
	tok, ok := renderToken(args)
	if !ok {
		return stream
	}

	if sc.All {
		if ifAbsent {
			for _, t := range stream {
				if t.Equal(tok) {
					return stream
				}
			}
		}
		return slices.Insert(stream, len(stream), tok)
	}

	for _, name := range scopeNames(stream, sc) {
		segs, _ := segmentsOf(stream)
		last := -1
		exists := false
		for _, s := range segs {
			if s.caste != name {
				continue
			}
			last = s.end
			if !ifAbsent || exists {
				continue
			}
			for i := s.start; i < s.end; i++ {
				if stream[i].Equal(tok) {
					exists = true
					break
				}
			}
		}
		if last < 0 || (ifAbsent && exists) {
			continue
		}
		stream = slices.Insert(stream, last, tok)
	}
	return stream
}

// applyRemove drops every in-scope token whose name and leading arguments
// match the rendered payload. A name-only payload removes every token of
// that name in scope.
func applyRemove(stream []token.Token, sc Scope, args []string) []token.Token {
	probe, ok := renderToken(args)
	if !ok {
		return stream
	}
	regions := regionsOf(stream, sc)
	if len(regions) == 0 {
		return stream
	}

	keep := make([]token.Token, 0, len(stream))
	for i, t := range stream {
		if inRegions(regions, i) && matchesPrefix(t, probe) {
			continue
		}
		keep = append(keep, t)
	}
	return keep
}

func matchesPrefix(t, probe token.Token) bool {
	if t.Name != probe.Name || len(t.Args) < len(probe.Args) {
		return false
	}
	return slices.Equal(t.Args[:len(probe.Args)], probe.Args)
}

// applyConvert rewrites the arguments of every in-scope token named
// master: the colon-joined argument text has every occurrence of target
// replaced, or becomes the replacement outright when the operation carries
// no target.
func applyConvert(stream []token.Token, sc Scope, master, target, replacement string, hasTarget bool) []token.Token {
	if master == "" {
		return stream
	}
	regions := regionsOf(stream, sc)
	if len(regions) == 0 {
		return stream
	}

	out := slices.Clone(stream)
	for i := range out {
		if !inRegions(regions, i) || out[i].Name != master {
			continue
		}
		joined := strings.Join(out[i].Args, ":")
		if hasTarget {
			if target == "" {
				continue
			}
			joined = strings.ReplaceAll(joined, target, replacement)
		} else {
			joined = replacement
		}
		if joined == "" {
			out[i].Args = nil
			continue
		}
		out[i].Args = strings.Split(joined, ":")
	}
	return out
}
