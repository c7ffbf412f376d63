// SPDX-License-Identifier: MPL-2.0

// Package logging hands out the component loggers used across the
// ingestion pipeline. Verbosity is process-wide and set once by the CLI
// before any component starts.
package logging

import (
	"os"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

var verbose atomic.Bool

// SetVerbose switches loggers constructed afterwards to debug level with
// caller reporting.
func SetVerbose(v bool) {
	verbose.Store(v)
}

// Verbose reports the process-wide verbosity.
func Verbose() bool {
	return verbose.Load()
}

// New returns a component logger writing to stderr. Components construct
// one in their constructor and keep it for their lifetime.
func New(prefix string) *log.Logger {
	opts := log.Options{
		Prefix:          prefix,
		ReportTimestamp: true,
	}
	if verbose.Load() {
		opts.Level = log.DebugLevel
		opts.ReportCaller = true
	}
	return log.NewWithOptions(os.Stderr, opts)
}
