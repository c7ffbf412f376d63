// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// showCmd dumps a single ingested object
var showCmd = &cobra.Command{
	Use:   "show <module> <identifier>",
	Short: "Dump one ingested object as JSON",
	Long: `Look up one object by module and identifier and dump the full record:
names, flags, payload values, gaits, body sizes, tiles, castes, and any
parse errors the object survived.`,
	Args: cobra.ExactArgs(2),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.Context())
	if err != nil {
		return err
	}

	st, err := loadOrBuildStore(cmd.Context(), cfg, "")
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &ExitError{Code: 1, Err: err}
	}

	obj, ok := st.Lookup(args[0], args[1])
	if !ok {
		fmt.Fprintf(cmd.ErrOrStderr(), "%sno object %s in module %s\n",
			ErrorStyle.Render("Error: "), CmdStyle.Render(args[1]), CmdStyle.Render(args[0]))
		fmt.Fprintln(cmd.ErrOrStderr(), SubtitleStyle.Render("Try 'rawdex search' to find the exact identifier"))
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &ExitError{Code: 1}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(obj)
}
