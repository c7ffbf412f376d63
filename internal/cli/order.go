// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"strconv"

	"rawdex/internal/resolver"
	"rawdex/pkg/rawmod"

	"github.com/spf13/cobra"
)

var (
	orderStrict bool

	// orderCmd resolves and prints the module load order
	orderCmd = &cobra.Command{
		Use:   "order [dir...]",
		Short: "Print the resolved module load order",
		Long: `Resolve the load order of the discovered modules and print it.

The order satisfies every before/after requirement among the present
modules and is deterministic for a given module set. Dangling
requirements print as warnings unless --strict escalates them.`,
		RunE: runOrder,
	}
)

func init() {
	orderCmd.Flags().BoolVar(&orderStrict, "strict", false, "treat dangling requirements as fatal")
}

func runOrder(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.Context())
	if err != nil {
		return err
	}

	mods, err := discoverModules(cfg, args)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &ExitError{Code: 1, Err: err}
	}

	strict := cfg.Ingest.Strict
	if cmd.Flags().Changed("strict") {
		strict = orderStrict
	}

	plain := make([]*rawmod.Module, 0, len(mods))
	byID := make(map[string]*rawmod.Module, len(mods))
	for _, dm := range mods {
		plain = append(plain, dm.Module)
		byID[dm.Module.ID] = dm.Module
	}

	res, err := resolver.Resolve(plain, strict)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &ExitError{Code: 1, Err: err}
	}

	for _, w := range res.Warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), WarningStyle.Render("Warning: ")+w.Error())
	}

	tbl := newTable("#", "IDENTIFIER", "VERSION", "LOCATION")
	for i, id := range res.Order {
		m := byID[id]
		tbl.Row(strconv.Itoa(i+1), id, moduleVersion(m), m.Location.String())
	}
	fmt.Fprintln(cmd.OutOrStdout(), tbl)

	return nil
}

// moduleVersion prefers the displayed version string over the numeric one.
func moduleVersion(m *rawmod.Module) string {
	if m.DisplayedVersion != "" {
		return m.DisplayedVersion
	}
	return strconv.FormatUint(m.NumericVersion, 10)
}
