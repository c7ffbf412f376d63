// SPDX-License-Identifier: MPL-2.0

// Package cli contains all CLI commands for rawdex.
//
// This package implements the Cobra command hierarchy for the rawdex CLI:
// the root command plus subcommands for scanning raw modules, printing the
// load order, searching and dumping ingested objects, exporting the index,
// serving the SSH query console, and browsing the diagnostic catalog.
package cli
