// SPDX-License-Identifier: MPL-2.0

// Package main is the entry point for the rawdex CLI.
package main

import "rawdex/internal/cli"

func main() {
	cli.Execute()
}
