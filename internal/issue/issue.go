// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Code is the stable identifier of a catalog entry. Codes group by phase:
// RDX01xx tokenizing, RDX02xx vocabulary, RDX03xx variations, RDX04xx
// module resolution, RDX05xx store and amendments.
type Code string

const (
	SourceFormatCode     Code = "RDX0101"
	CategoryMismatchCode Code = "RDX0102"
	VocabularyCode       Code = "RDX0201"
	MissingTemplateCode  Code = "RDX0301"
	TemplateCycleCode    Code = "RDX0302"
	MalformedOpCode      Code = "RDX0303"
	MissingModuleCode    Code = "RDX0401"
	ModuleConflictCode   Code = "RDX0402"
	DependencyCycleCode  Code = "RDX0403"
	DuplicateObjectCode  Code = "RDX0501"
	DanglingTargetCode   Code = "RDX0502"
)

type MarkdownMsg string

type Issue struct {
	code  Code        // stable code used to look the issue up
	title string      // one-line label for listings
	fatal bool        // whether the run aborts instead of degrading
	mdMsg MarkdownMsg // Markdown guidance that will be rendered
}

func (i *Issue) Code() Code {
	return i.code
}

func (i *Issue) Title() string {
	return i.title
}

// Fatal reports whether hitting this issue aborts the run. Everything
// non-fatal degrades the affected object or module and continues.
func (i *Issue) Fatal() bool {
	return i.fatal
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

// Report ties a catalog code to one concrete occurrence during a run.
type Report struct {
	Code   Code   `json:"code"`
	Module string `json:"module,omitempty"`
	File   string `json:"file,omitempty"`
	Line   int    `json:"line,omitempty"`
	Detail string `json:"detail"`
}

// Fatal reports whether this occurrence aborts the run.
func (r Report) Fatal() bool {
	if i := Get(r.Code); i != nil {
		return i.fatal
	}
	return false
}

// String renders the report for logs: code, location, detail.
func (r Report) String() string {
	var b strings.Builder
	b.WriteString(string(r.Code))
	if r.Module != "" {
		b.WriteString(" [" + r.Module + "]")
	}
	if r.File != "" {
		b.WriteString(" " + r.File)
		if r.Line > 0 {
			fmt.Fprintf(&b, ":%d", r.Line)
		}
	}
	b.WriteString(": " + r.Detail)
	return b.String()
}

var (
	render = glamour.Render

	sourceFormatIssue = &Issue{
		code:  SourceFormatCode,
		title: "malformed raw source",
		mdMsg: `
# Malformed raw source!

A raw file contains text that cannot be tokenized: an unterminated bracket,
a stray closing bracket, or a dangling escape.

The rest of the file still loads. The offending line is skipped, and if the
breakage lands inside an object definition, that object is dropped and
parsing resumes at the next object start.

## Things you can try:
- Open the reported file at the reported line and balance the brackets
- Escape literal brackets and colons inside argument text with a backslash
- Re-run with verbosity to see every recovered line:
~~~
$ rawdex --verbose scan
~~~`,
	}

	categoryMismatchIssue = &Issue{
		code:  CategoryMismatchCode,
		title: "object category does not match the file header",
		mdMsg: `
# Object category mismatch!

A file whose header declares one OBJECT type defines an object of another,
like a [CREATURE:...] inside an [OBJECT:INORGANIC] file.

The mismatched object is skipped and the rest of the file still loads.

## Things you can try:
- Move the object into a file with the matching OBJECT header
- Fix the header if the whole file is of the other type`,
	}

	vocabularyIssue = &Issue{
		code:  VocabularyCode,
		title: "tag rejected by the vocabulary",
		mdMsg: `
# Tag rejected by the vocabulary!

A known tag carried arguments the vocabulary forbids: too few of them, a
word where a number belongs, or a value outside the tag's enumeration.

The tag is kept on the object as an unparsed flag and the object survives.
Unknown tags are not reported at all; they ride along as unrecognized
flags so newer raws keep loading.

## Things you can try:
- Check the reported reason for the exact argument that failed
- Compare the tag against a vanilla definition of the same object type`,
	}

	missingTemplateIssue = &Issue{
		code:  MissingTemplateCode,
		title: "variation template not found",
		mdMsg: `
# Variation template not found!

An object applies a creature variation that no loaded module defines.

The apply call is skipped and every other variation on the object still
runs.

## Things you can try:
- Check the template identifier for typos
- Make sure the module defining the template is active and loads before
  the module using it:
~~~
$ rawdex order
~~~`,
	}

	templateCycleIssue = &Issue{
		code:  TemplateCycleCode,
		title: "variation templates form a cycle",
		mdMsg: `
# Variation templates form a cycle!

A creature variation applies itself, directly or through other templates.
Expanding it would never terminate, so the affected object is dropped.

Other objects are not touched.

## Things you can try:
- Follow the reported template path and break the loop
- Inline the shared tags instead of chaining the templates back around`,
	}

	malformedOpIssue = &Issue{
		code:  MalformedOpCode,
		title: "malformed variation operation",
		mdMsg: `
# Malformed variation operation!

A template line is not a valid operation: a conditional without its
argument index, a convert sub-token outside a convert block, or an
operation missing its payload.

The broken operation is dropped and the rest of the template still
applies.

## Things you can try:
- Check the reported template and reason
- Conditional operations need the argument number first, like
  ~CV_NEW_CTAG:2:FLIER~`,
	}

	missingModuleIssue = &Issue{
		code:  MissingModuleCode,
		title: "required module is not present",
		mdMsg: `
# Required module is not present!

A module requires another that no scanned source location provides.

The requirement is reported and ordering continues without the missing
edge. In strict mode this aborts the run instead.

## Things you can try:
- Install the missing module, or remove the requirement
- Check which locations are scanned:
~~~
$ rawdex config show
~~~`,
	}

	moduleConflictIssue = &Issue{
		code:  ModuleConflictCode,
		title: "active modules conflict",
		fatal: true,
		mdMsg: `
# Active modules conflict!

Two modules in the active set declare they cannot load together. There is
no safe order, so the run aborts before any raw file is read.

## Things you can try:
- Deactivate one side of the reported pair
- If the conflict declaration is stale, fix the declaring module's info
  file`,
	}

	dependencyCycleIssue = &Issue{
		code:  DependencyCycleCode,
		title: "module dependencies form a cycle",
		fatal: true,
		mdMsg: `
# Module dependencies form a cycle!

The before/after requirements of the active modules loop back on
themselves. No load order can satisfy them, so the run aborts.

## Things you can try:
- Follow the reported member list and drop one ordering edge
- Prefer plain REQUIRES where the load position does not actually matter`,
	}

	duplicateObjectIssue = &Issue{
		code:  DuplicateObjectCode,
		title: "duplicate object identifier",
		mdMsg: `
# Duplicate object identifier!

A module defines the same object identifier twice. The first definition
wins and the later one is dropped.

Identical identifiers across different modules are fine; they are distinct
objects.

## Things you can try:
- Rename or delete one of the duplicate definitions
- If the second definition was meant to amend the first, use
  ~SELECT_CREATURE~ instead of redefining`,
	}

	danglingTargetIssue = &Issue{
		code:  DanglingTargetCode,
		title: "amendment targets a missing object",
		mdMsg: `
# Amendment targets a missing object!

A SELECT or COPY_TAGS_FROM names an object that does not exist after every
module loaded.

The amendment is dropped and everything else is kept.

## Things you can try:
- Check the target identifier for typos
- Make sure the module defining the target is active`,
	}

	issues = map[Code]*Issue{
		sourceFormatIssue.Code():     sourceFormatIssue,
		categoryMismatchIssue.Code(): categoryMismatchIssue,
		vocabularyIssue.Code():       vocabularyIssue,
		missingTemplateIssue.Code():  missingTemplateIssue,
		templateCycleIssue.Code():    templateCycleIssue,
		malformedOpIssue.Code():      malformedOpIssue,
		missingModuleIssue.Code():    missingModuleIssue,
		moduleConflictIssue.Code():   moduleConflictIssue,
		dependencyCycleIssue.Code():  dependencyCycleIssue,
		duplicateObjectIssue.Code():  duplicateObjectIssue,
		danglingTargetIssue.Code():   danglingTargetIssue,
	}
)

// Values returns every catalog entry ordered by code.
func Values() []*Issue {
	out := maps.Values(issues)
	slices.SortFunc(out, func(a, b *Issue) int {
		return strings.Compare(string(a.code), string(b.code))
	})
	return out
}

// Get returns the catalog entry for a code, or nil for unknown codes.
func Get(code Code) *Issue {
	return issues[code]
}
