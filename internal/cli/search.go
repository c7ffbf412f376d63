// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"strings"

	"rawdex/internal/store"
	"rawdex/pkg/rawkind"
	"rawdex/pkg/rawobj"

	"github.com/spf13/cobra"
)

var (
	searchCategories []string
	searchModules    []string
	searchFlags      []string
	searchLimit      int
	searchPage       int
	searchJSONPath   string

	// searchCmd ranks ingested objects against a fragment query
	searchCmd = &cobra.Command{
		Use:   "search <query>",
		Short: "Search ingested objects by identifier or name fragment",
		Long: `Search the ingested objects. The query matches identifiers, names,
and descriptions: a verbatim occurrence ranks above a word-prefix hit,
which ranks above an in-order fragment hit.

By default the configured sources are ingested first. Pass --json to
query a previous 'rawdex export' document instead, skipping the scan.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearch,
	}
)

func init() {
	searchCmd.Flags().StringSliceVar(&searchCategories, "category", nil, "restrict to object categories")
	searchCmd.Flags().StringSliceVar(&searchModules, "module", nil, "restrict to modules")
	searchCmd.Flags().StringSliceVar(&searchFlags, "flag", nil, "require flags")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "results per page (0 uses the configured limit)")
	searchCmd.Flags().IntVar(&searchPage, "page", 0, "zero-based result page")
	searchCmd.Flags().StringVar(&searchJSONPath, "json", "", "query a JSON export instead of ingesting")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.Context())
	if err != nil {
		return err
	}

	cats, err := parseCategoryTokens(searchCategories)
	if err != nil {
		return err
	}

	st, err := loadOrBuildStore(cmd.Context(), cfg, searchJSONPath)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &ExitError{Code: 1, Err: err}
	}

	limit := cfg.Search.Limit
	if cmd.Flags().Changed("limit") {
		limit = searchLimit
	}
	if limit <= 0 {
		limit = store.DefaultLimit
	}

	q := store.Query{
		Text:       strings.Join(args, " "),
		Categories: cats,
		Modules:    searchModules,
		Flags:      searchFlags,
		Limit:      limit,
		Page:       searchPage,
	}

	matches := st.Search(q)
	total := st.Count(q)
	if total == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), SubtitleStyle.Render("No matches"))
		return nil
	}

	tbl := newTable("MODULE", "IDENTIFIER", "CATEGORY", "NAME")
	for _, m := range matches {
		tbl.Row(m.Object.Module, m.Object.Identifier, m.Object.Category.String(), firstName(m.Object))
	}
	fmt.Fprintln(cmd.OutOrStdout(), tbl)

	pages := (total + limit - 1) / limit
	fmt.Fprintln(cmd.OutOrStdout(), SubtitleStyle.Render(
		fmt.Sprintf("%d match(es), page %d of %d", total, q.Page+1, pages)))

	return nil
}

// parseCategoryTokens resolves --category values against the known
// category tokens, case-insensitively.
func parseCategoryTokens(tokens []string) ([]rawkind.Category, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	cats := make([]rawkind.Category, 0, len(tokens))
	for _, tok := range tokens {
		cat, ok := rawkind.ParseCategory(strings.ToUpper(tok))
		if !ok {
			return nil, fmt.Errorf("unknown category %q", tok)
		}
		cats = append(cats, cat)
	}
	return cats, nil
}

func firstName(o *rawobj.Object) string {
	if len(o.Names) > 0 {
		return o.Names[0]
	}
	return ""
}
