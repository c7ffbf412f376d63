// SPDX-License-Identifier: MPL-2.0

package ingest

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"rawdex/internal/issue"
	"rawdex/pkg/rawkind"
	"rawdex/pkg/token"
)

// unit is one object definition cut out of a source file, ready for the
// mutation and parse stages. Amendment fragments splice into the body of
// an earlier unit instead of producing one of their own.
type unit struct {
	module   string
	file     string // path relative to the module directory
	category rawkind.Category
	start    token.Token
	body     []token.Token

	// copyFrom carries a COPY_TAGS_FROM source identifier, resolved
	// against the finished store after every object is parsed.
	copyFrom string
	copyLine int
}

// moduleUnits accumulates one module's units across its source files, in
// definition order. byID keeps the first definition of each identifier;
// later SELECT fragments target it and later redefinitions are dropped.
type moduleUnits struct {
	module string
	list   []*unit
	byID   map[string]*unit
}

func newModuleUnits(module string) *moduleUnits {
	return &moduleUnits{module: module, byID: make(map[string]*unit)}
}

// readSource splits one raw source into object units, appending them to m.
// Cursor and copy markers are consumed here; everything else stays in the
// unit body for the later stages. A bad group header rejects the whole
// file; after that, problems drop at most the object they occur in.
func (m *moduleUnits) readSource(r io.Reader, file string) []issue.Report {
	var reports []issue.Report
	report := func(code issue.Code, line int, format string, args ...any) {
		reports = append(reports, issue.Report{
			Code:   code,
			Module: m.module,
			File:   file,
			Line:   line,
			Detail: fmt.Sprintf(format, args...),
		})
	}

	sc := token.NewScanner(r)
	if _, err := sc.Header(); err != nil {
		if !errors.Is(err, io.EOF) {
			report(issue.SourceFormatCode, 0, "reading source: %v", err)
		}
		return reports
	}

	// The first token declares the source's object group. Files with no
	// tokens at all are commentary, not raw data.
	var group rawkind.Category
	for {
		tk, err := sc.Next()
		if errors.Is(err, io.EOF) {
			return reports
		}
		var syn *token.SyntaxError
		if errors.As(err, &syn) {
			report(issue.SourceFormatCode, syn.Line, "%s", syn.Reason)
			continue
		}
		if err != nil {
			report(issue.SourceFormatCode, 0, "reading source: %v", err)
			return reports
		}
		if tk.Name != "OBJECT" || tk.NumArgs() == 0 {
			report(issue.SourceFormatCode, tk.Line,
				"expected an [OBJECT:...] header before any data, got [%s]", tk.Name)
			return reports
		}
		g, ok := rawkind.ParseGroup(tk.Arg(0))
		if !ok {
			report(issue.SourceFormatCode, tk.Line, "unknown object group %q", tk.Arg(0))
			return reports
		}
		group = g
		break
	}

	var (
		current *unit
		frag    *splice
	)
	closeCurrent := func() {
		if current == nil {
			return
		}
		id := current.start.Arg(0)
		if _, dup := m.byID[id]; dup {
			report(issue.DuplicateObjectCode, current.start.Line,
				"object %s already defined in this module, keeping the first", id)
		} else {
			m.byID[id] = current
			m.list = append(m.list, current)
		}
		current = nil
	}

	for {
		tk, err := sc.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		var syn *token.SyntaxError
		if errors.As(err, &syn) {
			detail := syn.Reason
			if current != nil {
				detail += ", dropping object " + current.start.Arg(0)
				current = nil
			}
			frag = nil
			report(issue.SourceFormatCode, syn.Line, "%s", detail)
			continue
		}
		if err != nil {
			report(issue.SourceFormatCode, 0, "reading source: %v", err)
			break
		}

		// A new object of this source's group.
		if cat, ok := rawkind.StartsObject(group, tk.Name); ok {
			closeCurrent()
			frag = nil
			current = &unit{module: m.module, file: file, category: cat, start: tk}
			continue
		}

		// An amendment fragment reopening an earlier object. Targets
		// resolve within the module only.
		if group == rawkind.Creature && tk.Name == "SELECT_CREATURE" {
			closeCurrent()
			frag = nil
			target, ok := m.byID[tk.Arg(0)]
			if !ok {
				report(issue.DanglingTargetCode, tk.Line,
					"SELECT_CREATURE targets %q, which this module does not define", tk.Arg(0))
				continue
			}
			frag = newSplice(target)
			continue
		}

		// An object start belonging to another group ends whatever is
		// open; the misplaced object and its tags are dropped.
		if _, ok := rawkind.StartsAnyObject(tk.Name); ok {
			closeCurrent()
			frag = nil
			report(issue.CategoryMismatchCode, tk.Line,
				"misplaced %s object inside an OBJECT:%s source, skipping it", tk.Name, group)
			continue
		}

		switch tk.Name {
		case "OBJECT":
			report(issue.SourceFormatCode, tk.Line, "unexpected second OBJECT header")
		case "COPY_TAGS_FROM":
			dst := current
			if frag != nil {
				dst = frag.target
			}
			switch {
			case tk.Arg(0) == "":
				report(issue.DanglingTargetCode, tk.Line, "COPY_TAGS_FROM without a source identifier")
			case dst != nil:
				dst.copyFrom = tk.Arg(0)
				dst.copyLine = tk.Line
			}
		case "GO_TO_END", "GO_TO_START", "GO_TO_TAG":
			if frag != nil {
				frag.moveTo(tk)
			}
		default:
			switch {
			case frag != nil:
				frag.insert(tk)
			case current != nil:
				current.body = append(current.body, tk)
			}
		}
	}
	closeCurrent()
	return reports
}

// splice inserts amendment tokens into an earlier unit's body. The cursor
// starts at the end; GO_TO tokens move it.
type splice struct {
	target *unit
	pos    int
}

func newSplice(target *unit) *splice {
	return &splice{target: target, pos: len(target.body)}
}

func (s *splice) insert(tk token.Token) {
	s.target.body = slices.Insert(s.target.body, s.pos, tk)
	s.pos++
}

// moveTo repositions the cursor. GO_TO_TAG places it after the first body
// token matching the given name and leading arguments; no match falls back
// to the end, like GO_TO_END.
func (s *splice) moveTo(tk token.Token) {
	switch tk.Name {
	case "GO_TO_START":
		s.pos = 0
	case "GO_TO_END":
		s.pos = len(s.target.body)
	case "GO_TO_TAG":
		s.pos = len(s.target.body)
		if tk.NumArgs() == 0 {
			return
		}
		name, prefix := tk.Arg(0), tk.Args[1:]
		for i, bt := range s.target.body {
			if bt.Name == name && len(bt.Args) >= len(prefix) && slices.Equal(bt.Args[:len(prefix)], prefix) {
				s.pos = i + 1
				return
			}
		}
	}
}
