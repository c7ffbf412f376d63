// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/errors"
)

// DefaultMaxFileSize caps CUE files at 5MB. The evaluator allocates
// proportionally to input size, so unbounded files are refused up front.
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

// FormatError formats a CUE error with JSON path prefixes.
//
// Error format: <file-path>: <json-path>: <message>
//
// Examples:
//   - config.cue: ingest.workers: conflicting values
//   - config.cue: sources.vanilla[1]: incomplete value string
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrors := errors.Errors(err)
	if len(cueErrors) == 0 {
		// Not a CUE error, keep it as-is behind the file path.
		return fmt.Errorf("%s: %w", filePath, err)
	}

	lines := make([]string, 0, len(cueErrors))
	for _, e := range cueErrors {
		lines = append(lines, formatOne(e))
	}

	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", filePath, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filePath, strings.Join(lines, "\n  "))
}

// formatOne renders a single CUE error as "<json-path>: <message>", dropping
// the path prefix CUE sometimes repeats inside the message itself.
func formatOne(e errors.Error) string {
	pathStr := formatPath(errors.Path(e))
	msg := e.Error()
	if pathStr == "" {
		return msg
	}
	if rest, ok := strings.CutPrefix(msg, pathStr); ok {
		rest = strings.TrimPrefix(rest, ":")
		msg = strings.TrimSpace(rest)
	}
	return fmt.Sprintf("%s: %s", pathStr, msg)
}

// formatPath converts a CUE error path into JSON-path notation. CUE hands
// paths over as flat string slices where numeric elements are array
// indices, so ["sources", "vanilla", "1"] becomes "sources.vanilla[1]".
func formatPath(path []string) string {
	var b strings.Builder
	for i, part := range path {
		switch {
		case i > 0 && isDigits(part):
			b.WriteString("[")
			b.WriteString(part)
			b.WriteString("]")
		case i > 0:
			b.WriteString(".")
			b.WriteString(part)
		default:
			b.WriteString(part)
		}
	}
	return b.String()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize verifies that data does not exceed the given maximum size.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), maxSize)
	}
	return nil
}
