// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"path/filepath"

	"rawdex/internal/config"
	"rawdex/internal/queryserve"

	"github.com/spf13/cobra"
)

var (
	serveAddress string

	// serveCmd runs the SSH query console over a fresh ingest
	serveCmd = &cobra.Command{
		Use:   "serve [dir...]",
		Short: "Serve the SSH query console",
		Long: `Ingest the configured sources and serve the result over SSH as a
line-oriented query console. Sessions are read-only and unauthenticated;
bind the listener to localhost unless the network is trusted.

The server loads its host key from serve.host_key, creating one under
the config directory on first use when the setting is empty.`,
		RunE: runServe,
	}
)

func init() {
	serveCmd.Flags().StringVar(&serveAddress, "address", "", "bind address (host:port, defaults to the configured one)")
}

func runServe(cmd *cobra.Command, args []string) error {
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
		return nil
	}

	address := cfg.Serve.Address
	if cmd.Flags().Changed("address") {
		address = serveAddress
	}

	srv := queryserve.New(queryserve.Config{
		Address:     queryserve.BindAddress(address),
		HostKeyPath: resolveHostKeyPath(cfg),
		SearchLimit: cfg.Search.Limit,
	}, st)

	if err := srv.Start(cmd.Context()); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &ExitError{Code: 1, Err: err}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Query console listening on %s (%d objects from %d modules)\n",
		SuccessStyle.Render("✓"), CmdStyle.Render(srv.Address()), st.Len(), summary.Modules)
	fmt.Fprintln(cmd.OutOrStdout(), SubtitleStyle.Render("Connect with any SSH client; Ctrl+C stops the server"))

	go func() {
		<-cmd.Context().Done()
		_ = srv.Stop()
	}()

	if err := srv.Wait(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &ExitError{Code: 1, Err: err}
	}

	return nil
}

// resolveHostKeyPath returns the configured host key path, deriving a
// stable one under the config directory when the setting is empty. An
// empty result makes the server fall back to an ephemeral key.
func resolveHostKeyPath(cfg *config.Config) string {
	if cfg.Serve.HostKey != "" {
		return cfg.Serve.HostKey
	}
	dir, err := config.ConfigDir()
	if err != nil {
		return ""
	}
	if err := config.EnsureConfigDir(); err != nil {
		return ""
	}
	return filepath.Join(dir, "rawdex_ed25519")
}
