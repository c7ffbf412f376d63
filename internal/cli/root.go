// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"rawdex/internal/config"
	"rawdex/internal/issue"
	"rawdex/internal/logging"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// Build identification, stamped by the release build through -ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

var (
	verbose bool
	// cfgFile pins loading to one config file (--config).
	cfgFile string

	// rootCmd is the bare `rawdex` invocation; subcommands attach in init.
	rootCmd = &cobra.Command{
		Use:   "rawdex",
		Short: "Ingest and query tag-based raw definition modules",
		Long: TitleStyle.Render("rawdex") + SubtitleStyle.Render(" - Ingest and query tag-based raw definition modules") + `

rawdex scans directories of raw definition modules, fixes their load
order from the declared dependencies, expands creature variations, and
parses every object into a searchable in-memory index.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Point rawdex at your raw module directories
  2. Scan them to see what loads and what gets reported
  3. Search the resulting index by identifier, name, or flag

` + SubtitleStyle.Render("Examples:") + `
  rawdex scan ./mods            Ingest modules and print the summary
  rawdex order ./mods           Print the resolved load order
  rawdex search dragon          Search ingested objects by fragment
  rawdex show vanilla DRAGON    Dump one object as JSON
  rawdex serve                  Run the SSH query console
  rawdex issues RDX0101         Explain a diagnostic code`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/rawdex/config.cue)")

	rootCmd.AddCommand(
		scanCmd,
		orderCmd,
		searchCmd,
		showCmd,
		exportCmd,
		serveCmd,
		issuesCmd,
		configCmd,
	)
}

// getVersionString assembles the version line shown by --version.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command and exits the process on failure. fang
// supplies the styled help/version output and signal handling; the version
// goes through fang.WithVersion because fang overrides rootCmd.Version.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig applies configuration that affects global behavior before
// any command runs. Load errors are warnings here; the command's own load
// reports them properly.
func initRootConfig() {
	cfg, err := config.NewProvider().Load(context.Background(), config.LoadOptions{
		ConfigFilePath: cfgFile,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}

	// The flag wins over the configured default.
	if cfg != nil && !verbose {
		verbose = cfg.Log.Verbose
	}
	logging.SetVerbose(verbose)
}

// formatErrorForDisplay renders err for the terminal: ActionableErrors get
// their suggestion bullets (and in verbose mode the error chain), anything
// else prints as-is.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
