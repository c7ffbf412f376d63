// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"rawdex/internal/config"

	"github.com/spf13/cobra"
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage rawdex configuration",
		Long: `Manage rawdex configuration.

Configuration is stored in:
  - Linux: ~/.config/rawdex/config.cue
  - macOS: ~/Library/Application Support/rawdex/config.cue
  - Windows: %APPDATA%\rawdex\config.cue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE:  runConfigShow,
	}

	configInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE:  runConfigInit,
	}

	configPathCmd = &cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE:  runConfigPath,
	}

	configDumpCmd = &cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		RunE:  runConfigDump,
	}
)

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configDumpCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, path, err := config.Resolve(cmd.Context(), config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &ExitError{Code: 1, Err: err}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(out)

	if path != "" {
		fmt.Fprintf(out, "%s: %s\n", CmdStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(out, "%s: %s\n", CmdStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "%s:\n", CmdStyle.Render("sources"))
	printRoots(out, "vanilla", cfg.Sources.Vanilla)
	printRoots(out, "installed", cfg.Sources.Installed)
	printRoots(out, "workshop", cfg.Sources.Workshop)

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", CmdStyle.Render("ingest"))
	fmt.Fprintf(out, "  workers: %s\n", renderValue(fmt.Sprintf("%d", cfg.Ingest.Workers)))
	fmt.Fprintf(out, "  strict: %s\n", renderValue(fmt.Sprintf("%v", cfg.Ingest.Strict)))
	fmt.Fprintf(out, "  apply_variations: %s\n", renderValue(fmt.Sprintf("%v", cfg.Ingest.ApplyVariations)))
	fmt.Fprintf(out, "  attach_metadata: %s\n", renderValue(fmt.Sprintf("%v", cfg.Ingest.AttachMetadata)))
	if len(cfg.Ingest.Categories) > 0 {
		fmt.Fprintf(out, "  categories: %s\n", renderValue(joinTokens(cfg.Ingest.Categories)))
	}
	if len(cfg.Ingest.Locations) > 0 {
		fmt.Fprintf(out, "  locations: %s\n", renderValue(joinTokens(cfg.Ingest.Locations)))
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", CmdStyle.Render("search"))
	fmt.Fprintf(out, "  limit: %s\n", renderValue(fmt.Sprintf("%d", cfg.Search.Limit)))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", CmdStyle.Render("serve"))
	fmt.Fprintf(out, "  address: %s\n", renderValue(cfg.Serve.Address))
	if cfg.Serve.HostKey != "" {
		fmt.Fprintf(out, "  host_key: %s\n", renderValue(cfg.Serve.HostKey))
	} else {
		fmt.Fprintf(out, "  host_key: %s\n", SubtitleStyle.Render("(generated under the config directory)"))
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", CmdStyle.Render("log"))
	fmt.Fprintf(out, "  verbose: %s\n", renderValue(fmt.Sprintf("%v", cfg.Log.Verbose)))

	return nil
}

func printRoots(w io.Writer, name string, roots []string) {
	if len(roots) == 0 {
		fmt.Fprintf(w, "  %s: %s\n", name, SubtitleStyle.Render("(none configured)"))
		return
	}
	fmt.Fprintf(w, "  %s:\n", name)
	for _, root := range roots {
		fmt.Fprintf(w, "    - %s\n", renderValue(root))
	}
}

func renderValue(v string) string {
	return SuccessStyle.Render(v)
}

func joinTokens[T fmt.Stringer](tokens []T) string {
	parts := make([]string, 0, len(tokens))
	for _, t := range tokens {
		parts = append(parts, t.String())
	}
	return strings.Join(parts, ", ")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	if err := config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Created default configuration at %s\n",
		SuccessStyle.Render("✓"), filepath.Join(cfgDir, "config.cue"))

	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Config directory: %s\n", cfgDir)
	fmt.Fprintf(cmd.OutOrStdout(), "Config file: %s\n", filepath.Join(cfgDir, "config.cue"))

	return nil
}

func runConfigDump(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(cfg))
	return nil
}
