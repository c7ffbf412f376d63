// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"os"

	"rawdex/internal/store"

	"github.com/spf13/cobra"
)

var (
	exportOut string

	// exportCmd ingests the sources and writes the JSON document
	exportCmd = &cobra.Command{
		Use:   "export [dir...]",
		Short: "Ingest raw modules and write the JSON export",
		Long: `Run a full ingestion and write the resulting index as a JSON document:
the ordered modules with their descriptors and edges, followed by every
object in load order.

The document is the persisted form of an ingestion. 'rawdex search
--json' queries it directly without rescanning the sources.`,
		RunE: runExport,
	}
)

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (defaults to stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.Context())
	if err != nil {
		return err
	}

	st, summary, err := buildStore(cmd.Context(), cfg, args, ingestOptions(cfg))
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &ExitError{Code: 1, Err: err}
	}
	if summary.Cancelled {
		fmt.Fprintln(cmd.ErrOrStderr(), WarningStyle.Render("Export cancelled; nothing written"))
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &ExitError{Code: 130}
	}

	if exportOut == "" {
		return st.WriteJSON(cmd.OutOrStdout())
	}

	if err := writeExport(st, exportOut); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %d objects to %s\n",
		SuccessStyle.Render("✓"), st.Len(), exportOut)

	return nil
}

// writeExport streams the store's JSON document to a file.
func writeExport(st *store.Store, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := st.WriteJSON(f); err != nil {
		f.Close()
		return fmt.Errorf("writing export: %w", err)
	}
	return f.Close()
}
