// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE
// as the file format.
//
// Configuration is loaded from config.cue in the rawdex config directory
// (~/.config/rawdex on Linux, ~/Library/Application Support/rawdex on
// macOS, %APPDATA%\rawdex on Windows), with a current-directory fallback
// and RAWDEX_* environment overrides. Files are validated against an
// embedded CUE schema (config_schema.cue) before use; category and
// location tokens get a second, Go-level check against the live tables.
//
// The keys cover module source roots, ingestion tuning (worker pool,
// strict resolution, category and location filters, variation expansion),
// search defaults, the SSH query console, and logging.
package config
