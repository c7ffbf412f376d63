// SPDX-License-Identifier: MPL-2.0

// Package token implements the bracket-token syntax of raw definition sources.
// A token is written `[NAME:ARG0:ARG1]`; text outside brackets is commentary.
// The package knows syntax only. What a token means is decided by vocabulary
// tables elsewhere.
package token

import (
	"strings"
)

// Token is a single bracket token from a raw source. Args holds the
// colon-separated arguments after the name, already unescaped. Line is the
// 1-based source line the token started on.
type Token struct {
	Name string
	Args []string
	Line int
}

// Arg returns the i-th argument, or the empty string if i is out of range.
// Substitution and vocabulary code rely on missing arguments reading as empty.
func (t Token) Arg(i int) string {
	if i < 0 || i >= len(t.Args) {
		return ""
	}
	return t.Args[i]
}

// NumArgs returns the number of arguments the token carries.
func (t Token) NumArgs() int { return len(t.Args) }

// Body returns the token content without brackets, name and arguments joined
// by colons. It is the in-memory form convert operations match and rewrite.
func (t Token) Body() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	return t.Name + ":" + strings.Join(t.Args, ":")
}

// FromBody splits a bracket-free token body on colons into a Token. It is the
// inverse of Body for values that do not contain literal colons.
func FromBody(body string, line int) Token {
	parts := strings.Split(body, ":")
	t := Token{Name: parts[0], Line: line}
	if len(parts) > 1 {
		t.Args = parts[1:]
	}
	return t
}

// Equal reports whether two tokens have the same name and arguments.
// Source lines are ignored.
func (t Token) Equal(o Token) bool {
	if t.Name != o.Name || len(t.Args) != len(o.Args) {
		return false
	}
	for i := range t.Args {
		if t.Args[i] != o.Args[i] {
			return false
		}
	}
	return true
}

// String renders the token back to bracket syntax, escaping characters that
// would otherwise terminate or split it.
func (t Token) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	sb.WriteString(escape(t.Name))
	for _, a := range t.Args {
		sb.WriteByte(':')
		sb.WriteString(escape(a))
	}
	sb.WriteByte(']')
	return sb.String()
}

func escape(s string) string {
	if !strings.ContainsAny(s, "[]:\\") {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[', ']', ':', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
