// SPDX-License-Identifier: MPL-2.0

package cli

import "fmt"

// ExitError carries the process exit code a failed command asks for, so RunE
// handlers can report failure without calling os.Exit themselves. Execute
// unwraps it once fang returns.
type ExitError struct {
	Code int
	Err  error
}

// Error reports the wrapped cause's message, or a generic exit-status line
// when no cause was attached.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap exposes the wrapped cause to errors.Is and errors.As.
func (e *ExitError) Unwrap() error { return e.Err }
