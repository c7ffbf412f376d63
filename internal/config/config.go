// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"

	"rawdex/internal/issue"
	"rawdex/pkg/cueutil"
)

const (
	// AppName is the application name.
	AppName = "rawdex"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix namespaces environment overrides. The key "ingest.workers"
	// maps to RAWDEX_INGEST_WORKERS.
	EnvPrefix = "RAWDEX"
)

//go:embed config_schema.cue
var configSchema string

// configDirOverride redirects ConfigDir for tests. os.UserHomeDir() doesn't
// reliably respect the HOME environment variable on all platforms (e.g.,
// macOS in CI), so tests point this at a temp directory instead.
var configDirOverride string

// SetConfigDirOverride sets a custom config directory path for tests.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// Reset clears test overrides. Call from test cleanup to restore defaults.
func Reset() {
	configDirOverride = ""
}

// ConfigDir returns the rawdex configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	root, err := platformConfigRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, AppName), nil
}

// platformConfigRoot picks the per-OS base directory that holds the rawdex
// config directory.
func platformConfigRoot() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if dir := os.Getenv("APPDATA"); dir != "" {
			return dir, nil
		}
		return filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming"), nil
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, "Library", "Application Support"), nil
	default: // Linux and friends
		if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
			return dir, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, ".config"), nil
	}
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state. Callers that want caching can wrap this function.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	// Set defaults
	defaults := DefaultConfig()
	v.SetDefault("sources.vanilla", defaults.Sources.Vanilla)
	v.SetDefault("sources.installed", defaults.Sources.Installed)
	v.SetDefault("sources.workshop", defaults.Sources.Workshop)
	v.SetDefault("ingest.workers", defaults.Ingest.Workers)
	v.SetDefault("ingest.strict", defaults.Ingest.Strict)
	v.SetDefault("ingest.categories", defaults.Ingest.Categories)
	v.SetDefault("ingest.locations", defaults.Ingest.Locations)
	v.SetDefault("ingest.apply_variations", defaults.Ingest.ApplyVariations)
	v.SetDefault("ingest.attach_metadata", defaults.Ingest.AttachMetadata)
	v.SetDefault("search.limit", defaults.Search.Limit)
	v.SetDefault("serve.address", defaults.Serve.Address)
	v.SetDefault("serve.host_key", defaults.Serve.HostKey)
	v.SetDefault("log.verbose", defaults.Log.Verbose)

	// Environment overrides take precedence over file values. Every key
	// above has a default, so AutomaticEnv covers the full key set.
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath := ""

	// If a custom config file path is set via --config flag, use it exclusively.
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				WithSuggestion("Run 'rawdex config init' to create a default configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				Build()
		}
		if err := loadCUEIntoViper(v, opts.ConfigFilePath); err != nil {
			return nil, "", wrapLoadError(err, opts.ConfigFilePath)
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
		if err != nil {
			return nil, "", err
		}

		// Try to load the CUE config file
		cuePath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
		if fileExists(cuePath) {
			if err := loadCUEIntoViper(v, cuePath); err != nil {
				return nil, "", wrapLoadError(err, cuePath)
			}
			resolvedPath = cuePath
		} else {
			// Also check current directory
			localCuePath := ConfigFileName + "." + ConfigFileExt
			if fileExists(localCuePath) {
				if err := loadCUEIntoViper(v, localCuePath); err != nil {
					return nil, "", wrapLoadError(err, localCuePath)
				}
				resolvedPath = localCuePath
			}
			// If no config file found, use defaults (no error)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// Validate the constraints the CUE schema cannot express: category and
	// location tokens must resolve against the live tables.
	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Category tokens are uppercase names like CREATURE or INORGANIC").
			WithSuggestion("Valid location names are vanilla, installed, and workshop").
			Wrap(err).
			Build()
	}

	return &cfg, resolvedPath, nil
}

// wrapLoadError dresses a CUE load failure with actionable context.
func wrapLoadError(err error, path string) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithSuggestion("Check that the file contains valid CUE syntax").
		WithSuggestion("Verify the configuration values match the expected schema").
		WithSuggestion("Run 'rawdex config show' to see the effective configuration").
		Wrap(err).
		Build()
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config
// schema, and merges its contents into Viper.
//
// This is a manual CUE flow rather than a struct decode: the result must
// land in a map for Viper to merge, and validation runs with
// Concrete(false) because every config field is optional.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), path)
	}

	// Unify with the schema to validate against the #Config definition
	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.FormatError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	// Merge into Viper (preserves defaults, allows env overrides)
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists reports whether path names an existing regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(cfgDir, 0o755)
}

// configFilePath resolves the config file location, creating the config
// directory on the way.
func configFilePath() (string, error) {
	cfgDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt), nil
}

// CreateDefaultConfig writes a default config file unless one already exists.
func CreateDefaultConfig() error {
	cfgPath, err := configFilePath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(cfgPath); err == nil {
		// Never clobber an existing file.
		return nil
	}
	return writeConfigFile(cfgPath, DefaultConfig())
}

// Save writes the configuration to the config directory.
func Save(cfg *Config) error {
	cfgPath, err := configFilePath()
	if err != nil {
		return err
	}
	return writeConfigFile(cfgPath, cfg)
}

func writeConfigFile(path string, cfg *Config) error {
	if err := os.WriteFile(path, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateCUE generates a CUE representation of the configuration. Empty
// optional values are omitted so the output always passes the schema.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// rawdex configuration file.\n")
	sb.WriteString("// Values are validated against the embedded schema on load.\n")

	writeRoots := func(name string, roots []string) {
		if len(roots) == 0 {
			return
		}
		sb.WriteString(fmt.Sprintf("\t%s: [\n", name))
		for _, root := range roots {
			sb.WriteString(fmt.Sprintf("\t\t%q,\n", root))
		}
		sb.WriteString("\t]\n")
	}

	if len(cfg.Sources.Vanilla)+len(cfg.Sources.Installed)+len(cfg.Sources.Workshop) > 0 {
		sb.WriteString("\nsources: {\n")
		writeRoots("vanilla", cfg.Sources.Vanilla)
		writeRoots("installed", cfg.Sources.Installed)
		writeRoots("workshop", cfg.Sources.Workshop)
		sb.WriteString("}\n")
	}

	sb.WriteString("\ningest: {\n")
	sb.WriteString(fmt.Sprintf("\tworkers: %d\n", cfg.Ingest.Workers))
	sb.WriteString(fmt.Sprintf("\tstrict: %v\n", cfg.Ingest.Strict))
	if len(cfg.Ingest.Categories) > 0 {
		sb.WriteString("\tcategories: [\n")
		for _, tok := range cfg.Ingest.Categories {
			sb.WriteString(fmt.Sprintf("\t\t%q,\n", tok))
		}
		sb.WriteString("\t]\n")
	}
	if len(cfg.Ingest.Locations) > 0 {
		sb.WriteString("\tlocations: [\n")
		for _, tok := range cfg.Ingest.Locations {
			sb.WriteString(fmt.Sprintf("\t\t%q,\n", tok))
		}
		sb.WriteString("\t]\n")
	}
	sb.WriteString(fmt.Sprintf("\tapply_variations: %v\n", cfg.Ingest.ApplyVariations))
	sb.WriteString(fmt.Sprintf("\tattach_metadata: %v\n", cfg.Ingest.AttachMetadata))
	sb.WriteString("}\n")

	sb.WriteString("\nsearch: {\n")
	sb.WriteString(fmt.Sprintf("\tlimit: %d\n", cfg.Search.Limit))
	sb.WriteString("}\n")

	sb.WriteString("\nserve: {\n")
	if cfg.Serve.Address != "" {
		sb.WriteString(fmt.Sprintf("\taddress: %q\n", cfg.Serve.Address))
	}
	if cfg.Serve.HostKey != "" {
		sb.WriteString(fmt.Sprintf("\thost_key: %q\n", cfg.Serve.HostKey))
	}
	sb.WriteString("}\n")

	sb.WriteString("\nlog: {\n")
	sb.WriteString(fmt.Sprintf("\tverbose: %v\n", cfg.Log.Verbose))
	sb.WriteString("}\n")

	return sb.String()
}
