// SPDX-License-Identifier: MPL-2.0

package rawmod

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"rawdex/pkg/token"
)

// DescriptorFile is the file name a module descriptor is stored under.
const DescriptorFile = "info.txt"

// BundleFile is the file name of the optional metadata bundle.
const BundleFile = "module.toml"

// ErrInvalidDescriptor is the sentinel error wrapped by InvalidDescriptorError.
var ErrInvalidDescriptor = errors.New("invalid module descriptor")

// InvalidDescriptorError is returned when a descriptor cannot yield a
// usable module. It wraps ErrInvalidDescriptor for errors.Is() compatibility.
type InvalidDescriptorError struct {
	Reason string
}

// Error implements the error interface for InvalidDescriptorError.
func (e *InvalidDescriptorError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidDescriptor, e.Reason)
}

// Unwrap returns ErrInvalidDescriptor for errors.Is() compatibility.
func (e *InvalidDescriptorError) Unwrap() error { return ErrInvalidDescriptor }

// ParseDescriptor reads an info.txt descriptor. The second result collects
// recoverable problems (malformed lines, version fallbacks); the caller
// decides how loudly to report them. Unknown descriptor keys are skipped.
// Location and Directory are left for discovery to fill in.
func ParseDescriptor(r io.Reader) (*Module, []error, error) {
	var (
		m        Module
		warnings []error
		sawID    bool
	)

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		toks, errs := token.ScanLine(sc.Text(), line)
		warnings = append(warnings, errs...)

		for _, t := range toks {
			switch t.Name {
			case "ID":
				m.ID = t.Arg(0)
				sawID = true
			case "NAME":
				m.Name = t.Arg(0)
			case "AUTHOR":
				m.Author = t.Arg(0)
			case "DESCRIPTION":
				m.Description = t.Arg(0)
			case "NUMERIC_VERSION":
				m.NumericVersion = parseNumericVersion(t, &warnings)
			case "DISPLAYED_VERSION":
				m.DisplayedVersion = t.Arg(0)
			case "EARLIEST_COMPATIBLE_NUMERIC_VERSION":
				m.EarliestCompatibleNumericVersion = parseNumericVersion(t, &warnings)
			case "EARLIEST_COMPATIBLE_DISPLAYED_VERSION":
				m.EarliestCompatibleDisplayedVersion = t.Arg(0)
			case "REQUIRES_ID":
				m.Edges = append(m.Edges, Edge{Target: t.Arg(0), Kind: EdgeRequires})
			case "REQUIRES_ID_BEFORE_ME":
				m.Edges = append(m.Edges, Edge{Target: t.Arg(0), Kind: EdgeRequiresBefore})
			case "REQUIRES_ID_AFTER_ME":
				m.Edges = append(m.Edges, Edge{Target: t.Arg(0), Kind: EdgeRequiresAfter})
			case "CONFLICTS_WITH_ID":
				m.Edges = append(m.Edges, Edge{Target: t.Arg(0), Kind: EdgeConflicts})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, warnings, fmt.Errorf("reading module descriptor: %w", err)
	}

	if !sawID || m.ID == "" {
		return nil, warnings, &InvalidDescriptorError{Reason: "missing ID"}
	}
	return &m, warnings, nil
}

// parseNumericVersion parses a version argument. Non-numeric text falls back
// to its digits; text with no digits at all yields zero. Both fallbacks add
// a warning.
func parseNumericVersion(t token.Token, warnings *[]error) uint64 {
	raw := strings.TrimSpace(t.Arg(0))
	if v, err := strconv.ParseUint(raw, 10, 64); err == nil {
		return v
	}

	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		*warnings = append(*warnings, &InvalidDescriptorError{
			Reason: fmt.Sprintf("line %d: %s %q has no digits, using 0", t.Line, t.Name, raw),
		})
		return 0
	}
	v, err := strconv.ParseUint(digits.String(), 10, 64)
	if err != nil {
		*warnings = append(*warnings, &InvalidDescriptorError{
			Reason: fmt.Sprintf("line %d: %s %q overflows, using 0", t.Line, t.Name, raw),
		})
		return 0
	}
	*warnings = append(*warnings, &InvalidDescriptorError{
		Reason: fmt.Sprintf("line %d: %s %q is not numeric, using %d", t.Line, t.Name, raw, v),
	})
	return v
}
