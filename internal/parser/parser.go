// SPDX-License-Identifier: MPL-2.0

// Package parser turns post-mutation token streams into structured raw
// objects. The per-category vocabulary decides what each tag means; the
// parser never rejects an object, it degrades token by token.
package parser

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"rawdex/pkg/rawkind"
	"rawdex/pkg/rawobj"
	"rawdex/pkg/token"
	"rawdex/pkg/vocab"
)

// TagError reports a token that did not fit its vocabulary entry. Tag
// errors are warnings: the token lands on the object as an unparsed or
// unrecognized flag and parsing continues.
type TagError struct {
	Tag    string
	Line   int
	Reason string
}

func (e *TagError) Error() string {
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Tag, e.Reason)
}

// Parse builds an object from its start token and the body tokens that
// follow it. The caller owns source attribution (file path). The returned
// warnings report vocabulary problems; none of them abort the object.
func Parse(module string, category rawkind.Category, start token.Token, body []token.Token) (*rawobj.Object, []error) {
	obj := rawobj.New(module, start.Arg(0), category)
	obj.Line = start.Line

	p := &parser{obj: obj, table: vocab.ForCategory(category), casteIdx: -1}
	for _, tk := range body {
		p.token(tk)
	}
	return obj, p.warns
}

type parser struct {
	obj      *rawobj.Object
	table    *vocab.Table
	casteIdx int // index into obj.Castes, -1 for object scope
	warns    []error
}

func (p *parser) token(tk token.Token) {
	spec, ok := p.table.Lookup(tk.Name)
	if !ok {
		p.obj.Flags = append(p.obj.Flags, rawobj.Flag{
			Name:         tk.Name,
			Args:         slices.Clone(tk.Args),
			Unrecognized: true,
		})
		return
	}

	switch spec.Role {
	case vocab.RoleStructural:
		p.structural(tk, spec)
	case vocab.RoleName:
		p.names(tk)
	case vocab.RoleDescription:
		p.description(tk)
	default:
		if spec.Kind == vocab.KindNone {
			p.obj.Flags = append(p.obj.Flags, rawobj.Flag{Name: tk.Name, Args: slices.Clone(tk.Args)})
			return
		}
		p.value(tk, spec)
	}
}

// names appends every non-empty argument as a display name. Caste-scoped
// names also land on the object so search sees them.
func (p *parser) names(tk token.Token) {
	for _, a := range tk.Args {
		if a == "" {
			continue
		}
		if c := p.caste(); c != nil && !slices.Contains(c.Names, a) {
			c.Names = append(c.Names, a)
		}
		if !slices.Contains(p.obj.Names, a) {
			p.obj.Names = append(p.obj.Names, a)
		}
	}
}

func (p *parser) description(tk token.Token) {
	text := strings.Join(tk.Args, ":")
	if text == "" {
		return
	}
	if c := p.caste(); c != nil {
		c.Description = joinText(c.Description, text)
		return
	}
	p.obj.Description = joinText(p.obj.Description, text)
}

func joinText(base, more string) string {
	if base == "" {
		return more
	}
	return base + " " + more
}

func (p *parser) value(tk token.Token, spec vocab.TagSpec) {
	if tk.NumArgs() < spec.MinArgs {
		p.unparsed(tk, fmt.Sprintf("expects at least %d arguments, got %d", spec.MinArgs, tk.NumArgs()))
		return
	}

	val := rawobj.TagValue{Name: tk.Name, Raw: slices.Clone(tk.Args)}
	switch spec.Kind {
	case vocab.KindInteger:
		ints := make([]int, tk.NumArgs())
		for i, a := range tk.Args {
			n, err := strconv.Atoi(a)
			if err != nil {
				p.unparsed(tk, fmt.Sprintf("argument %d %q is not an integer", i+1, a))
				return
			}
			ints[i] = n
		}
		val.Ints = ints
	case vocab.KindEnum:
		if !spec.EnumAllows(tk.Arg(0)) {
			p.unparsed(tk, fmt.Sprintf("%q is not a known %s value", tk.Arg(0), tk.Name))
			return
		}
		val.Text = tk.Arg(0)
	case vocab.KindString:
		val.Text = strings.Join(tk.Args, ":")
	}

	if !spec.Repeatable {
		for i := range p.obj.Values {
			if p.obj.Values[i].Name == tk.Name {
				p.warn(tk, "repeated value for a single-value tag, keeping the last")
				p.obj.Values[i] = val
				return
			}
		}
	}
	p.obj.Values = append(p.obj.Values, val)
}

func (p *parser) structural(tk token.Token, spec vocab.TagSpec) {
	switch tk.Name {
	case "CASTE":
		p.openCaste(tk)
	case "SELECT_CASTE", "SELECT_ADDITIONAL_CASTE":
		p.selectCaste(tk)
	case "GAIT":
		p.gait(tk, spec)
	case "BODY_SIZE":
		p.bodySize(tk, spec)
	default:
		if p.obj.Category == rawkind.Graphics {
			p.tile(tk, spec)
			return
		}
		// remaining structural payloads (growth stages, template bodies)
		// stay as recognized flags with their raw arguments
		p.obj.Flags = append(p.obj.Flags, rawobj.Flag{Name: tk.Name, Args: slices.Clone(tk.Args)})
	}
}

func (p *parser) openCaste(tk token.Token) {
	name := tk.Arg(0)
	if name == "" {
		p.unparsed(tk, "caste without a name")
		return
	}
	p.obj.Castes = append(p.obj.Castes, rawobj.Caste{Name: name, Line: tk.Line})
	p.casteIdx = len(p.obj.Castes) - 1
}

func (p *parser) selectCaste(tk token.Token) {
	name := tk.Arg(0)
	switch name {
	case "":
		p.warn(tk, "selection without a caste name")
		p.casteIdx = -1
		return
	case "ALL":
		p.casteIdx = -1
		return
	}
	for i := range p.obj.Castes {
		if p.obj.Castes[i].Name == name {
			p.casteIdx = i
			return
		}
	}
	p.warn(tk, fmt.Sprintf("caste %q is not defined", name))
	p.casteIdx = -1
}

func (p *parser) caste() *rawobj.Caste {
	if p.casteIdx < 0 {
		return nil
	}
	return &p.obj.Castes[p.casteIdx]
}

func (p *parser) gait(tk token.Token, spec vocab.TagSpec) {
	if tk.NumArgs() < spec.MinArgs {
		p.unparsed(tk, fmt.Sprintf("expects at least %d arguments, got %d", spec.MinArgs, tk.NumArgs()))
		return
	}
	speed, err := strconv.Atoi(tk.Arg(2))
	if err != nil {
		p.unparsed(tk, fmt.Sprintf("max speed %q is not an integer", tk.Arg(2)))
		return
	}
	p.obj.Gaits = append(p.obj.Gaits, rawobj.Gait{
		Kind:     tk.Arg(0),
		Name:     tk.Arg(1),
		MaxSpeed: speed,
		Extra:    slices.Clone(tk.Args[3:]),
	})
}

func (p *parser) bodySize(tk token.Token, spec vocab.TagSpec) {
	if tk.NumArgs() < spec.MinArgs {
		p.unparsed(tk, fmt.Sprintf("expects at least %d arguments, got %d", spec.MinArgs, tk.NumArgs()))
		return
	}
	var dims [3]int
	for i := range dims {
		n, err := strconv.Atoi(tk.Arg(i))
		if err != nil {
			p.unparsed(tk, fmt.Sprintf("argument %d %q is not an integer", i+1, tk.Arg(i)))
			return
		}
		dims[i] = n
	}
	p.obj.BodySizes = append(p.obj.BodySizes, rawobj.BodySize{Years: dims[0], Days: dims[1], Size: dims[2]})
}

// tile reads a graphics condition token: page, sheet cell, and an optional
// secondary condition after the draw directive.
func (p *parser) tile(tk token.Token, spec vocab.TagSpec) {
	if tk.NumArgs() < spec.MinArgs {
		p.unparsed(tk, fmt.Sprintf("expects at least %d arguments, got %d", spec.MinArgs, tk.NumArgs()))
		return
	}
	x, errX := strconv.Atoi(tk.Arg(1))
	y, errY := strconv.Atoi(tk.Arg(2))
	if errX != nil || errY != nil {
		p.unparsed(tk, fmt.Sprintf("sheet cell %q:%q is not a pair of integers", tk.Arg(1), tk.Arg(2)))
		return
	}
	p.obj.Tiles = append(p.obj.Tiles, rawobj.TileAssociation{
		Target:    p.obj.Identifier,
		Page:      tk.Arg(0),
		X:         x,
		Y:         y,
		Condition: tk.Name,
		Secondary: tk.Arg(4),
	})
}

func (p *parser) unparsed(tk token.Token, reason string) {
	p.obj.Flags = append(p.obj.Flags, rawobj.Flag{
		Name:     tk.Name,
		Args:     slices.Clone(tk.Args),
		Unparsed: true,
	})
	p.obj.ParseErrors = append(p.obj.ParseErrors, fmt.Sprintf("line %d: %s: %s", tk.Line, tk.Name, reason))
	p.warn(tk, reason)
}

func (p *parser) warn(tk token.Token, reason string) {
	p.warns = append(p.warns, &TagError{Tag: tk.Name, Line: tk.Line, Reason: reason})
}
