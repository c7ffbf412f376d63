// SPDX-License-Identifier: MPL-2.0

// Package variation implements mutation templates: reusable token-stream
// rewrites that raw objects invoke with APPLY_VARIATION calls. Templates
// are registered in a first pass across all modules, frozen, and then
// applied to object streams as pure functions.
package variation

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"rawdex/pkg/token"
)

// OpKind classifies one mutation operation.
type OpKind int

const (
	// OpNewTag appends a rendered token to every in-scope segment.
	OpNewTag OpKind = iota
	// OpAddTag appends like OpNewTag unless a whole-token-equal token is
	// already in scope.
	OpAddTag
	// OpRemoveTag removes every in-scope token matching a name and
	// leading-argument prefix.
	OpRemoveTag
	// OpConvertTag rewrites the arguments of every in-scope token named by
	// CVCT_MASTER, replacing CVCT_TARGET text with CVCT_REPLACEMENT.
	OpConvertTag
	// OpApply invokes another template from inside a template body.
	OpApply
)

// String returns the operation kind's name.
func (k OpKind) String() string {
	switch k {
	case OpNewTag:
		return "new-tag"
	case OpAddTag:
		return "add-tag-if-absent"
	case OpRemoveTag:
		return "remove-tag"
	case OpConvertTag:
		return "convert-tag"
	case OpApply:
		return "apply"
	}
	return "invalid"
}

// Scope selects which caste segments of the target stream an operation
// rewrites. The zero value is not meaningful; templates start at All.
type Scope struct {
	// All spans the whole stream as one segment.
	All bool
	// Latest selects the most recently defined caste of the target.
	Latest bool
	// Castes selects the named castes, in order.
	Castes []string
}

// Op is one mutation operation. Args may contain !ARGn placeholders that
// are substituted at call expansion; the registered template never changes.
type Op struct {
	Kind  OpKind
	Args  []string
	Scope Scope
	Line  int

	// convert-tag sub-token state
	Master      string
	HasMaster   bool
	Target      string
	HasTarget   bool
	Replacement string

	// conditional gate: apply only when the call-site argument at
	// CondIndex (1-based) equals CondValue
	Conditional bool
	CondIndex   int
	CondValue   string

	// apply
	TemplateName string
}

// Template is a parsed mutation template: an ordered list of operations.
type Template struct {
	ID  string
	Ops []Op
}

type (
	// CycleError fails the object whose call re-entered a template already
	// on the expansion stack. Path lists the chain up to the repeat.
	CycleError struct {
		Path []string
	}

	// MissingTemplateError skips the call that named an unregistered
	// template.
	MissingTemplateError struct {
		Name string
	}

	// MalformedOpError reports a template operation that cannot apply:
	// missing convert master, unparsable conditional index, empty payload.
	MalformedOpError struct {
		Template string
		Line     int
		Reason   string
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("template cycle: %s", strings.Join(e.Path, " -> "))
}

func (e *MissingTemplateError) Error() string {
	return fmt.Sprintf("unknown mutation template %q", e.Name)
}

func (e *MalformedOpError) Error() string {
	return fmt.Sprintf("template %q line %d: %s", e.Template, e.Line, e.Reason)
}

// ParseTemplate builds a template from the token stream of a template
// object, everything after its start token. Problems are collected as
// warnings; affected operations are dropped and the rest of the template
// stays usable.
func ParseTemplate(id string, toks []token.Token) (*Template, []error) {
	t := &Template{ID: id}
	var warns []error
	scope := Scope{All: true}

	malformed := func(line int, format string, args ...any) {
		warns = append(warns, &MalformedOpError{
			Template: id,
			Line:     line,
			Reason:   fmt.Sprintf(format, args...),
		})
	}

	for _, tk := range toks {
		switch tk.Name {
		case "SELECT_CASTE":
			scope = parseScope(tk.Args)

		case "CV_NEW_TAG", "CV_ADD_TAG", "CV_REMOVE_TAG":
			if tk.NumArgs() == 0 {
				malformed(tk.Line, "%s without a payload", tk.Name)
				continue
			}
			t.Ops = append(t.Ops, Op{
				Kind:  plainKind(tk.Name),
				Args:  slices.Clone(tk.Args),
				Scope: scope,
				Line:  tk.Line,
			})

		case "CV_CONVERT_TAG":
			t.Ops = append(t.Ops, Op{Kind: OpConvertTag, Scope: scope, Line: tk.Line})

		case "CV_NEW_CTAG", "CV_ADD_CTAG", "CV_REMOVE_CTAG", "CV_CONVERT_CTAG":
			idx, err := strconv.Atoi(tk.Arg(0))
			if err != nil {
				malformed(tk.Line, "%s index %q is not a number", tk.Name, tk.Arg(0))
				continue
			}
			op := Op{
				Kind:        conditionalKind(tk.Name),
				Scope:       scope,
				Line:        tk.Line,
				Conditional: true,
				CondIndex:   idx,
				CondValue:   tk.Arg(1),
			}
			if op.Kind != OpConvertTag {
				if tk.NumArgs() < 3 {
					malformed(tk.Line, "%s without a payload", tk.Name)
					continue
				}
				op.Args = slices.Clone(tk.Args[2:])
			}
			t.Ops = append(t.Ops, op)

		case "CVCT_MASTER":
			op := t.lastConvert()
			if op == nil {
				malformed(tk.Line, "CVCT_MASTER outside a convert operation")
				continue
			}
			op.Master = tk.Arg(0)
			op.HasMaster = true

		case "CVCT_TARGET":
			op := t.lastConvert()
			if op == nil {
				malformed(tk.Line, "CVCT_TARGET outside a convert operation")
				continue
			}
			op.Target = strings.Join(tk.Args, ":")
			op.HasTarget = true

		case "CVCT_REPLACEMENT":
			op := t.lastConvert()
			if op == nil {
				malformed(tk.Line, "CVCT_REPLACEMENT outside a convert operation")
				continue
			}
			op.Replacement = strings.Join(tk.Args, ":")

		case "APPLY_VARIATION", "APPLY_CREATURE_VARIATION":
			if tk.NumArgs() == 0 {
				malformed(tk.Line, "%s without a template name", tk.Name)
				continue
			}
			t.Ops = append(t.Ops, Op{
				Kind:         OpApply,
				TemplateName: tk.Arg(0),
				Args:         slices.Clone(tk.Args[1:]),
				Scope:        scope,
				Line:         tk.Line,
			})

		default:
			malformed(tk.Line, "unexpected token %s in template body", tk.Name)
		}
	}

	return t, warns
}

// lastConvert returns the most recent convert operation, which CVCT_*
// sub-tokens attach to.
func (t *Template) lastConvert() *Op {
	for i := len(t.Ops) - 1; i >= 0; i-- {
		if t.Ops[i].Kind == OpConvertTag {
			return &t.Ops[i]
		}
	}
	return nil
}

func plainKind(name string) OpKind {
	switch name {
	case "CV_NEW_TAG":
		return OpNewTag
	case "CV_ADD_TAG":
		return OpAddTag
	}
	return OpRemoveTag
}

func conditionalKind(name string) OpKind {
	switch name {
	case "CV_NEW_CTAG":
		return OpNewTag
	case "CV_ADD_CTAG":
		return OpAddTag
	case "CV_REMOVE_CTAG":
		return OpRemoveTag
	}
	return OpConvertTag
}

// parseScope reads SELECT_CASTE arguments into a Scope. ALL and LATEST are
// keywords; anything else is a named caste list.
func parseScope(args []string) Scope {
	if len(args) == 0 {
		return Scope{All: true}
	}
	if len(args) == 1 {
		switch args[0] {
		case "ALL":
			return Scope{All: true}
		case "LATEST":
			return Scope{Latest: true}
		}
	}
	return Scope{Castes: slices.Clone(args)}
}
