// SPDX-License-Identifier: MPL-2.0

// Package queryserve provides an SSH query console using the Wish library.
//
// The console exposes a finished object store to line-oriented clients:
// search, show, count, quit. Sessions are read-only and never allocate a
// PTY or shell. Connections are not authenticated, so the server should
// bind to a loopback address unless the host's network is trusted.
package queryserve
