// SPDX-License-Identifier: MPL-2.0

package variation

import (
	"errors"
	"slices"
	"strconv"
	"strings"

	"rawdex/pkg/token"
)

// ErrRegistryFrozen is returned by Add after Freeze.
var ErrRegistryFrozen = errors.New("template registry is frozen")

// Registry holds the templates collected during the first ingestion pass.
// Freeze it before sharing it with the mutation workers; a frozen registry
// is safe for concurrent reads.
type Registry struct {
	templates map[string]*Template
	frozen    bool
}

// NewRegistry returns an empty template registry.
func NewRegistry() *Registry {
	return &Registry{templates: make(map[string]*Template)}
}

// Add registers a template. A template re-registered under the same
// identifier replaces the earlier one, so later modules in load order win;
// the previous template is returned for reporting.
func (r *Registry) Add(t *Template) (*Template, error) {
	if r.frozen {
		return nil, ErrRegistryFrozen
	}
	prev := r.templates[t.ID]
	r.templates[t.ID] = t
	return prev, nil
}

// Get looks a template up by identifier.
func (r *Registry) Get(name string) (*Template, bool) {
	t, ok := r.templates[name]
	return t, ok
}

// Len returns the number of registered templates.
func (r *Registry) Len() int { return len(r.templates) }

// Freeze locks the registry against further Adds.
func (r *Registry) Freeze() { r.frozen = true }

// callTokens are the token names that invoke a template from an object
// stream.
var callTokens = map[string]bool{
	"APPLY_VARIATION":          true,
	"APPLY_CREATURE_VARIATION": true,
}

// Engine expands template calls against a frozen registry.
type Engine struct {
	reg *Registry
}

// NewEngine returns an engine reading templates from reg. Freeze the
// registry first; the engine only reads it.
func NewEngine(reg *Registry) *Engine {
	return &Engine{reg: reg}
}

// Apply expands every template call in stream, in call order, each
// operation seeing the stream as left by the one before. The input slice
// is never modified. A stream without calls is returned unchanged. The
// returned warnings cover skipped calls and operations; a non-nil error
// (a template cycle) fails the whole object.
func (e *Engine) Apply(stream []token.Token) ([]token.Token, []error, error) {
	var hasCall bool
	for _, tk := range stream {
		if callTokens[tk.Name] {
			hasCall = true
			break
		}
	}
	if !hasCall {
		return stream, nil, nil
	}

	var warns []error
	out := slices.Clone(stream)
	for {
		idx := -1
		for i, tk := range out {
			if callTokens[tk.Name] {
				idx = i
				break
			}
		}
		if idx < 0 {
			break
		}

		call := out[idx]
		out = slices.Delete(out, idx, idx+1)
		if call.NumArgs() == 0 {
			warns = append(warns, &MalformedOpError{
				Line:   call.Line,
				Reason: call.Name + " without a template name",
			})
			continue
		}

		var err error
		out, err = e.expand(out, call.Arg(0), call.Args[1:], nil, &warns)
		if err != nil {
			return nil, warns, err
		}
	}
	return out, warns, nil
}

// expand applies the named template to stream with the given call
// arguments. stack holds the templates already being expanded; re-entering
// one is a cycle and fails the object. A missing template or a malformed
// operation skips just this call.
func (e *Engine) expand(stream []token.Token, name string, callArgs []string, stack []string, warns *[]error) ([]token.Token, error) {
	if slices.Contains(stack, name) {
		path := append(slices.Clone(stack), name)
		return nil, &CycleError{Path: path}
	}

	tpl, ok := e.reg.Get(name)
	if !ok {
		*warns = append(*warns, &MissingTemplateError{Name: name})
		return stream, nil
	}

	for _, op := range tpl.Ops {
		if op.Kind == OpConvertTag && !op.HasMaster {
			*warns = append(*warns, &MalformedOpError{
				Template: name,
				Line:     op.Line,
				Reason:   "convert operation without CVCT_MASTER",
			})
			return stream, nil
		}
	}

	stack = append(stack, name)
	for _, op := range tpl.Ops {
		if op.Conditional {
			if op.CondIndex < 1 || op.CondIndex > len(callArgs) {
				*warns = append(*warns, &MalformedOpError{
					Template: name,
					Line:     op.Line,
					Reason:   "conditional argument index " + strconv.Itoa(op.CondIndex) + " out of range",
				})
				continue
			}
			if callArgs[op.CondIndex-1] != op.CondValue {
				continue
			}
		}

		args := substituteAll(op.Args, callArgs)
		switch op.Kind {
		case OpApply:
			sub := substitute(op.TemplateName, callArgs)
			var err error
			stream, err = e.expand(stream, sub, args, stack, warns)
			if err != nil {
				return nil, err
			}
		case OpNewTag:
			stream = applyNew(stream, op.Scope, args)
		case OpAddTag:
			stream = applyAdd(stream, op.Scope, args)
		case OpRemoveTag:
			stream = applyRemove(stream, op.Scope, args)
		case OpConvertTag:
			stream = applyConvert(stream, op.Scope,
				substitute(op.Master, callArgs),
				substitute(op.Target, callArgs),
				substitute(op.Replacement, callArgs),
				op.HasTarget)
		}
	}
	return stream, nil
}

// substitute replaces !ARGn placeholders (1-based) with the literal call
// arguments. An index with no matching argument substitutes the empty
// string. Text that merely starts with !ARG but has no digits stays as is.
func substitute(s string, callArgs []string) string {
	if !strings.Contains(s, "!ARG") {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); {
		if strings.HasPrefix(s[i:], "!ARG") {
			j := i + len("!ARG")
			start := j
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			if j > start {
				n, _ := strconv.Atoi(s[start:j])
				if n >= 1 && n <= len(callArgs) {
					sb.WriteString(callArgs[n-1])
				}
				i = j
				continue
			}
		}
		sb.WriteByte(s[i])
		i++
	}
	return sb.String()
}

func substituteAll(args, callArgs []string) []string {
	if len(args) == 0 {
		return nil
	}
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = substitute(a, callArgs)
	}
	return out
}
