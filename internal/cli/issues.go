// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"strings"

	"rawdex/internal/issue"

	"github.com/spf13/cobra"
)

// issuesCmd renders the diagnostic catalog
var issuesCmd = &cobra.Command{
	Use:   "issues [code]",
	Short: "Browse the diagnostic catalog",
	Long: `List every diagnostic code rawdex can report, or render the full
explanation for one code: what happened, how the run degrades, and
what to try.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIssues,
}

func runIssues(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		code := issue.Code(strings.ToUpper(args[0]))
		i := issue.Get(code)
		if i == nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%sunknown issue code %q\n", ErrorStyle.Render("Error: "), args[0])
			fmt.Fprintln(cmd.ErrOrStderr(), SubtitleStyle.Render("Run 'rawdex issues' to list every code"))
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return &ExitError{Code: 1}
		}
		rendered, err := i.Render("dark")
		if err != nil {
			return fmt.Errorf("rendering issue %s: %w", code, err)
		}
		fmt.Fprint(cmd.OutOrStdout(), rendered)
		return nil
	}

	tbl := newTable("CODE", "SEVERITY", "TITLE")
	for _, i := range issue.Values() {
		severity := "recoverable"
		if i.Fatal() {
			severity = "fatal"
		}
		tbl.Row(string(i.Code()), severity, i.Title())
	}
	fmt.Fprintln(cmd.OutOrStdout(), tbl)
	fmt.Fprintln(cmd.OutOrStdout(), SubtitleStyle.Render("Run 'rawdex issues <code>' for the full explanation"))

	return nil
}
