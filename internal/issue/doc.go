// SPDX-License-Identifier: MPL-2.0

// Package issue catalogs everything an ingestion run can complain about.
//
// Every diagnostic carries a stable RDX code so runs can be filtered and
// compared by code, plus Markdown-formatted guidance rendered on demand.
// A Report ties a code to one concrete occurrence; ActionableError carries
// remediation context for CLI-facing failures.
package issue
