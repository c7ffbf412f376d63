// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared helpers for CUE-backed files.
//
// Error formatting converts CUE's internal error lists into single
// messages with JSON-path prefixes, so a bad configuration value reports
// as "config.cue: ingest.workers: invalid value" instead of a raw CUE
// error dump. CheckFileSize guards readers against oversized inputs
// before they reach the CUE evaluator.
package cueutil
