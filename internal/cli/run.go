// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"rawdex/internal/config"
	"rawdex/internal/discovery"
	"rawdex/internal/ingest"
	"rawdex/internal/issue"
	"rawdex/internal/store"
	"rawdex/pkg/rawkind"
)

// loadConfig resolves the effective configuration for a command run,
// honoring the global --config flag.
func loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.NewProvider().Load(ctx, config.LoadOptions{
		ConfigFilePath: cfgFile,
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// discoveryOptions builds the discovery roots from the configuration plus
// any directories given as command arguments. Extra directories scan as
// installed modules. The configured location filter drops disabled roots
// here so discovery never walks them.
func discoveryOptions(cfg *config.Config, extraDirs []string) discovery.Options {
	opts := discovery.Options{AttachMetadata: cfg.Ingest.AttachMetadata}
	if cfg.LocationEnabled(rawkind.LocationVanilla) {
		opts.Vanilla = cfg.Sources.Vanilla
	}
	if cfg.LocationEnabled(rawkind.LocationWorkshop) {
		opts.Workshop = cfg.Sources.Workshop
	}

	installed := make([]string, 0, len(cfg.Sources.Installed)+len(extraDirs))
	if cfg.LocationEnabled(rawkind.LocationInstalled) {
		installed = append(installed, cfg.Sources.Installed...)
	}
	installed = append(installed, extraDirs...)
	opts.Installed = installed

	return opts
}

// discoverModules scans the configured roots, surfacing collision and
// descriptor warnings on stderr.
func discoverModules(cfg *config.Config, extraDirs []string) ([]*discovery.DiscoveredModule, error) {
	opts := discoveryOptions(cfg, extraDirs)
	if len(opts.Vanilla)+len(opts.Installed)+len(opts.Workshop) == 0 {
		return nil, issue.NewErrorContext().
			WithOperation("discover raw modules").
			WithSuggestion("Configure source directories with 'rawdex config init'").
			WithSuggestion("Or pass module directories as arguments").
			Wrap(errors.New("no source directories configured")).
			Build()
	}

	mods, warns := discovery.New(opts).DiscoverAll()
	for _, w := range warns {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+w.Error())
	}
	if len(mods) == 0 {
		return nil, issue.NewErrorContext().
			WithOperation("discover raw modules").
			WithResource(firstRoot(opts)).
			WithSuggestion("Each module needs an info descriptor in its directory").
			WithSuggestion("Check which locations the configuration enables with 'rawdex config show'").
			Wrap(errors.New("no modules found")).
			Build()
	}
	return mods, nil
}

func firstRoot(opts discovery.Options) string {
	for _, roots := range [][]string{opts.Vanilla, opts.Installed, opts.Workshop} {
		if len(roots) > 0 {
			return roots[0]
		}
	}
	return ""
}

// ingestOptions maps the configuration onto ingestion options. Command
// flags layer their overrides on top of the returned value.
func ingestOptions(cfg *config.Config) ingest.Options {
	opts := ingest.Options{
		Workers:        cfg.Ingest.Workers,
		Strict:         cfg.Ingest.Strict,
		SkipVariations: !cfg.Ingest.ApplyVariations,
	}
	if cats, ok := cfg.CategoryFilter(); ok {
		opts.Categories = cats
	}
	return opts
}

// buildStore runs discovery plus a full ingestion and returns the
// populated store alongside the run summary.
func buildStore(ctx context.Context, cfg *config.Config, extraDirs []string, opts ingest.Options) (*store.Store, *ingest.Summary, error) {
	mods, err := discoverModules(cfg, extraDirs)
	if err != nil {
		return nil, nil, err
	}
	return ingest.New(opts).Run(ctx, mods)
}

// loadOrBuildStore reuses a JSON export when one is given and otherwise
// runs a fresh ingestion over the configured sources.
func loadOrBuildStore(ctx context.Context, cfg *config.Config, jsonPath string) (*store.Store, error) {
	if jsonPath != "" {
		f, err := os.Open(jsonPath)
		if err != nil {
			return nil, fmt.Errorf("opening export: %w", err)
		}
		defer f.Close()
		st, err := store.ReadJSON(f)
		if err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load store export").
				WithResource(jsonPath).
				WithSuggestion("Regenerate the file with 'rawdex export --out " + jsonPath + "'").
				Wrap(err).
				Build()
		}
		return st, nil
	}

	st, _, err := buildStore(ctx, cfg, nil, ingestOptions(cfg))
	if err != nil {
		return nil, err
	}
	return st, nil
}
