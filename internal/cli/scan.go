// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"rawdex/internal/ingest"
	"rawdex/internal/issue"

	"github.com/spf13/cobra"
)

var (
	scanStrict       bool
	scanWorkers      int
	scanJSONPath     string
	scanNoVariations bool

	// scanCmd runs a full ingestion over the configured sources
	scanCmd = &cobra.Command{
		Use:   "scan [dir...]",
		Short: "Discover, order, and ingest raw modules",
		Long: `Discover raw modules, resolve their load order, and ingest every
object into the in-memory index.

Directories given as arguments are scanned as installed modules on top
of the configured sources. The summary lists what loaded and every
recoverable problem hit along the way; fatal problems abort the run
before any raw file is read.`,
		RunE: runScan,
	}
)

func init() {
	scanCmd.Flags().BoolVar(&scanStrict, "strict", false, "treat dangling requirements as fatal")
	scanCmd.Flags().IntVar(&scanWorkers, "workers", 0, "parse workers (0 means one per CPU)")
	scanCmd.Flags().StringVar(&scanJSONPath, "json", "", "also write the JSON export to this path")
	scanCmd.Flags().BoolVar(&scanNoVariations, "no-variations", false, "store objects with variations unexpanded")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.Context())
	if err != nil {
		return err
	}

	opts := ingestOptions(cfg)
	if cmd.Flags().Changed("strict") {
		opts.Strict = scanStrict
	}
	if cmd.Flags().Changed("workers") {
		opts.Workers = scanWorkers
	}
	if cmd.Flags().Changed("no-variations") {
		opts.SkipVariations = scanNoVariations
	}

	st, summary, err := buildStore(cmd.Context(), cfg, args, opts)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
		if summary != nil {
			printReports(cmd.ErrOrStderr(), summary.Reports)
		}
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &ExitError{Code: 1, Err: err}
	}

	printSummary(cmd.OutOrStdout(), summary)

	if summary.Cancelled {
		fmt.Fprintln(cmd.ErrOrStderr(), WarningStyle.Render("Scan cancelled; counts above are partial"))
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &ExitError{Code: 130}
	}

	if scanJSONPath != "" {
		if err := writeExport(st, scanJSONPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote export to %s\n", SuccessStyle.Render("✓"), scanJSONPath)
	}

	return nil
}

// printSummary renders the run summary: headline counts, the per-category
// breakdown, and every recoverable report.
func printSummary(w io.Writer, s *ingest.Summary) {
	fmt.Fprintln(w, TitleStyle.Render("Scan Summary"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s: %d\n", CmdStyle.Render("Modules"), s.Modules)
	fmt.Fprintf(w, "%s: %d\n", CmdStyle.Render("Files"), s.Files)
	fmt.Fprintf(w, "%s: %d\n", CmdStyle.Render("Objects"), s.Objects)
	fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("Duration"), s.Duration.Round(time.Millisecond))

	if len(s.ByCategory) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s:\n", CmdStyle.Render("By category"))
		for _, cat := range slices.Sorted(maps.Keys(s.ByCategory)) {
			fmt.Fprintf(w, "  %-24s %d\n", cat, s.ByCategory[cat])
		}
	}

	if len(s.Reports) > 0 {
		fmt.Fprintln(w)
		printReports(w, s.Reports)
	}
}

func printReports(w io.Writer, reports []issue.Report) {
	if len(reports) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", WarningStyle.Render(fmt.Sprintf("%d report(s)", len(reports))))
	for _, r := range reports {
		fmt.Fprintf(w, "  %s\n", r.String())
	}
}
