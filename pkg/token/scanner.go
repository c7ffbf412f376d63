// SPDX-License-Identifier: MPL-2.0

package token

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformedToken is the sentinel error wrapped by SyntaxError.
var ErrMalformedToken = errors.New("malformed token")

// SyntaxError reports malformed token text at a source line. The scanner
// skips past the offending text, so callers can record the error and keep
// reading the same source.
type SyntaxError struct {
	Line   int
	Reason string
}

// Error implements the error interface for SyntaxError.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s: %s", e.Line, ErrMalformedToken, e.Reason)
}

// Unwrap returns ErrMalformedToken for errors.Is() compatibility.
func (e *SyntaxError) Unwrap() error { return ErrMalformedToken }

// maxLineBytes bounds a single source line. Raw sources are hand-written
// text; anything longer is corrupt.
const maxLineBytes = 1 << 20

// Scanner reads a raw source as a header line followed by a token stream.
// Tokens never span lines: an opening bracket left unterminated at the end
// of its line is a syntax error.
type Scanner struct {
	src        *bufio.Scanner
	line       int
	header     string
	headerRead bool
	headerErr  error
	queue      []scanned
	done       bool
}

type scanned struct {
	tok Token
	err error
}

// NewScanner returns a Scanner reading raw source text from r.
func NewScanner(r io.Reader) *Scanner {
	src := bufio.NewScanner(r)
	src.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &Scanner{src: src}
}

// Header returns the source header: the first non-blank line, which raw
// sources use to restate their file name. io.EOF means the source is empty.
func (s *Scanner) Header() (string, error) {
	if s.headerRead {
		return s.header, s.headerErr
	}
	s.headerRead = true
	for s.src.Scan() {
		s.line++
		line := strings.TrimSpace(s.src.Text())
		if line == "" {
			continue
		}
		s.header = line
		return s.header, nil
	}
	s.done = true
	if err := s.src.Err(); err != nil {
		s.headerErr = err
	} else {
		s.headerErr = io.EOF
	}
	return "", s.headerErr
}

// Next returns the next token in the stream, reading past the header first
// if Header has not been called. It returns io.EOF once the source is
// exhausted. A *SyntaxError reports malformed text; the scanner has already
// skipped past it and later calls keep producing the remaining tokens.
func (s *Scanner) Next() (Token, error) {
	if !s.headerRead {
		if _, err := s.Header(); err != nil {
			return Token{}, err
		}
	}
	for len(s.queue) == 0 {
		if s.done {
			return Token{}, io.EOF
		}
		if !s.src.Scan() {
			s.done = true
			if err := s.src.Err(); err != nil {
				return Token{}, err
			}
			return Token{}, io.EOF
		}
		s.line++
		s.queue = scanLine(s.src.Text(), s.line)
	}
	next := s.queue[0]
	s.queue = s.queue[1:]
	return next.tok, next.err
}

// ScanLine splits a single line of text into its tokens and syntax errors,
// in the order they occur. Module descriptors use it directly because they
// carry no header line.
func ScanLine(text string, line int) ([]Token, []error) {
	var toks []Token
	var errs []error
	for _, sc := range scanLine(text, line) {
		if sc.err != nil {
			errs = append(errs, sc.err)
			continue
		}
		toks = append(toks, sc.tok)
	}
	return toks, errs
}

// scanLine splits one source line into its tokens and syntax errors,
// in the order they occur. Text outside brackets is dropped.
func scanLine(text string, line int) []scanned {
	var out []scanned
	i := 0
	for i < len(text) {
		for i < len(text) && text[i] != '[' {
			i++
		}
		if i >= len(text) {
			break
		}
		i++
		tok, rest, err := scanToken(text, i, line)
		if err != nil {
			out = append(out, scanned{err: err})
		} else {
			out = append(out, scanned{tok: tok})
		}
		i = rest
	}
	return out
}

// scanToken parses a token body starting just after its opening bracket.
// It returns the index scanning should resume at. An unescaped opening
// bracket terminates the current token as malformed and is left in place
// so the next token still parses.
func scanToken(text string, start, line int) (Token, int, error) {
	var (
		seg  strings.Builder
		args []string
		name string
		nseg int
	)
	flush := func() {
		if nseg == 0 {
			name = seg.String()
		} else {
			args = append(args, seg.String())
		}
		nseg++
		seg.Reset()
	}
	i := start
	for i < len(text) {
		switch text[i] {
		case '\\':
			if i+1 < len(text) {
				switch text[i+1] {
				case '[', ']', ':', '\\':
					seg.WriteByte(text[i+1])
					i += 2
					continue
				}
			}
			// a backslash before anything else stays literal
			seg.WriteByte(text[i])
			i++
		case ':':
			flush()
			i++
		case ']':
			flush()
			if name == "" {
				return Token{}, i + 1, &SyntaxError{Line: line, Reason: "empty token name"}
			}
			return Token{Name: name, Args: args, Line: line}, i + 1, nil
		case '[':
			return Token{}, i, &SyntaxError{Line: line, Reason: "unterminated token"}
		default:
			seg.WriteByte(text[i])
			i++
		}
	}
	return Token{}, i, &SyntaxError{Line: line, Reason: "unterminated token"}
}
