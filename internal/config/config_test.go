// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"rawdex/internal/issue"
	"rawdex/internal/testutil"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if len(cfg.Sources.Vanilla) != 0 || len(cfg.Sources.Installed) != 0 || len(cfg.Sources.Workshop) != 0 {
		t.Errorf("expected default sources to be empty, got %+v", cfg.Sources)
	}

	if cfg.Ingest.Workers != 0 {
		t.Errorf("expected default workers to be 0 (one per CPU), got %d", cfg.Ingest.Workers)
	}

	if cfg.Ingest.Strict {
		t.Error("expected strict resolution to be off by default")
	}

	if len(cfg.Ingest.Categories) != 0 {
		t.Errorf("expected default category filter to be empty, got %v", cfg.Ingest.Categories)
	}

	if len(cfg.Ingest.Locations) != 0 {
		t.Errorf("expected default location filter to be empty, got %v", cfg.Ingest.Locations)
	}

	if !cfg.Ingest.ApplyVariations {
		t.Error("expected apply_variations to be true by default")
	}

	if !cfg.Ingest.AttachMetadata {
		t.Error("expected attach_metadata to be true by default")
	}

	if cfg.Search.Limit != 18 {
		t.Errorf("expected default search limit to be 18, got %d", cfg.Search.Limit)
	}

	if cfg.Serve.Address != "localhost:23234" {
		t.Errorf("expected default serve address localhost:23234, got %q", cfg.Serve.Address)
	}

	if cfg.Serve.HostKey != "" {
		t.Errorf("expected default host key to be empty, got %q", cfg.Serve.HostKey)
	}

	if cfg.Log.Verbose {
		t.Error("expected default verbose to be false")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got: %v", err)
	}
}

func TestConstants(t *testing.T) {
	t.Parallel()

	if AppName != "rawdex" {
		t.Errorf("AppName = %s, want rawdex", AppName)
	}

	if ConfigFileName != "config" {
		t.Errorf("ConfigFileName = %s, want config", ConfigFileName)
	}

	if ConfigFileExt != "cue" {
		t.Errorf("ConfigFileExt = %s, want cue", ConfigFileExt)
	}

	if EnvPrefix != "RAWDEX" {
		t.Errorf("EnvPrefix = %s, want RAWDEX", EnvPrefix)
	}
}

func TestConfigDir(t *testing.T) {
	// Not parallel: manipulates process environment.
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME behavior is Linux-specific")
	}

	testXDGPath := t.TempDir()
	restoreXDG := testutil.MustSetenv(t, "XDG_CONFIG_HOME", testXDGPath)

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}

	expected := filepath.Join(testXDGPath, AppName)
	if dir != expected {
		t.Errorf("ConfigDir() = %s, want %s", dir, expected)
	}

	// With XDG_CONFIG_HOME unset, ~/.config/rawdex is used.
	restoreXDG()
	testutil.MustUnsetenv(t, "XDG_CONFIG_HOME")
	dir, err = ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected = filepath.Join(home, ".config", AppName)
	if dir != expected {
		t.Errorf("ConfigDir() = %s, want %s", dir, expected)
	}
}

func TestConfigDir_Override(t *testing.T) {
	// Not parallel: mutates the package-level override.
	SetConfigDirOverride("/custom/config/dir")
	defer Reset()

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}
	if dir != "/custom/config/dir" {
		t.Errorf("ConfigDir() = %s, want /custom/config/dir", dir)
	}
}

func TestEnsureConfigDir(t *testing.T) {
	// Not parallel: mutates the package-level override.
	configDir := filepath.Join(t.TempDir(), AppName)
	SetConfigDirOverride(configDir)
	defer Reset()

	if err := EnsureConfigDir(); err != nil {
		t.Fatalf("EnsureConfigDir() returned error: %v", err)
	}

	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		t.Errorf("EnsureConfigDir() did not create directory %s", configDir)
	}
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, path, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("loadWithOptions() returned error: %v", err)
	}
	if path != "" {
		t.Errorf("expected empty resolved path for defaults, got %q", path)
	}

	defaults := DefaultConfig()
	if cfg.Search.Limit != defaults.Search.Limit {
		t.Errorf("Search.Limit = %d, want %d", cfg.Search.Limit, defaults.Search.Limit)
	}
	if cfg.Ingest.ApplyVariations != defaults.Ingest.ApplyVariations {
		t.Errorf("ApplyVariations = %v, want %v", cfg.Ingest.ApplyVariations, defaults.Ingest.ApplyVariations)
	}
}

func TestLoad_ValidFile(t *testing.T) {
	t.Parallel()

	cfgDir := t.TempDir()
	content := `sources: {
	vanilla: ["raws/vanilla"]
	installed: ["mods"]
}

ingest: {
	workers: 4
	strict: true
	categories: ["CREATURE", "INORGANIC"]
	locations: ["vanilla", "installed"]
	apply_variations: false
}

search: limit: 25

serve: {
	address: "0.0.0.0:2350"
	host_key: "/etc/rawdex/hostkey"
}

log: verbose: true
`
	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, path, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: cfgDir})
	if err != nil {
		t.Fatalf("loadWithOptions() returned error: %v", err)
	}
	if path != cfgPath {
		t.Errorf("resolved path = %q, want %q", path, cfgPath)
	}

	if len(cfg.Sources.Vanilla) != 1 || cfg.Sources.Vanilla[0] != "raws/vanilla" {
		t.Errorf("Sources.Vanilla = %v, want [raws/vanilla]", cfg.Sources.Vanilla)
	}
	if len(cfg.Sources.Installed) != 1 || cfg.Sources.Installed[0] != "mods" {
		t.Errorf("Sources.Installed = %v, want [mods]", cfg.Sources.Installed)
	}
	if cfg.Ingest.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Ingest.Workers)
	}
	if !cfg.Ingest.Strict {
		t.Error("Strict = false, want true")
	}
	if len(cfg.Ingest.Categories) != 2 || cfg.Ingest.Categories[0] != "CREATURE" || cfg.Ingest.Categories[1] != "INORGANIC" {
		t.Errorf("Categories = %v, want [CREATURE INORGANIC]", cfg.Ingest.Categories)
	}
	if len(cfg.Ingest.Locations) != 2 || cfg.Ingest.Locations[0] != "vanilla" || cfg.Ingest.Locations[1] != "installed" {
		t.Errorf("Locations = %v, want [vanilla installed]", cfg.Ingest.Locations)
	}
	if cfg.Ingest.ApplyVariations {
		t.Error("ApplyVariations = true, want false")
	}
	// attach_metadata is not in the file, the default survives the merge.
	if !cfg.Ingest.AttachMetadata {
		t.Error("AttachMetadata = false, want default true")
	}
	if cfg.Search.Limit != 25 {
		t.Errorf("Search.Limit = %d, want 25", cfg.Search.Limit)
	}
	if cfg.Serve.Address != "0.0.0.0:2350" {
		t.Errorf("Serve.Address = %q, want 0.0.0.0:2350", cfg.Serve.Address)
	}
	if cfg.Serve.HostKey != "/etc/rawdex/hostkey" {
		t.Errorf("Serve.HostKey = %q, want /etc/rawdex/hostkey", cfg.Serve.HostKey)
	}
	if !cfg.Log.Verbose {
		t.Error("Log.Verbose = false, want true")
	}
}

func TestLoad_CustomPath(t *testing.T) {
	t.Parallel()

	customPath := filepath.Join(t.TempDir(), "custom.cue")
	content := "ingest: workers: 2\n"
	if err := os.WriteFile(customPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, path, err := loadWithOptions(context.Background(), LoadOptions{ConfigFilePath: customPath})
	if err != nil {
		t.Fatalf("loadWithOptions() returned error: %v", err)
	}
	if path != customPath {
		t.Errorf("resolved path = %q, want %q", path, customPath)
	}
	if cfg.Ingest.Workers != 2 {
		t.Errorf("Workers = %d, want 2", cfg.Ingest.Workers)
	}
}

func TestLoad_CustomPathNotFound(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nope.cue")
	_, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigFilePath: missing})
	if err == nil {
		t.Fatal("expected error for missing config file")
	}

	errStr := err.Error()
	if !strings.Contains(errStr, "load configuration") {
		t.Errorf("error should contain operation, got: %s", errStr)
	}
	if !strings.Contains(errStr, missing) {
		t.Errorf("error should contain the path, got: %s", errStr)
	}
	if !strings.Contains(errStr, "config file not found") {
		t.Errorf("error should contain 'config file not found', got: %s", errStr)
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatal("expected error to be *issue.ActionableError")
	}
	if len(ae.Suggestions) == 0 {
		t.Error("expected ActionableError to carry suggestions")
	}
	found := false
	for _, s := range ae.Suggestions {
		if strings.Contains(s, "Verify the file path is correct") {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("expected path suggestion, got: %v", ae.Suggestions)
	}
}

func TestLoad_InvalidCUESyntax(t *testing.T) {
	t.Parallel()

	cfgDir := t.TempDir()
	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(cfgPath, []byte("this is not valid CUE {{{{"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	_, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: cfgDir})
	if err == nil {
		t.Fatal("expected error for invalid CUE syntax")
	}
	if !strings.Contains(err.Error(), cfgPath) {
		t.Errorf("error should contain the path, got: %s", err)
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantIn  string
	}{
		{
			name:    "negative workers",
			content: "ingest: workers: -2\n",
			wantIn:  "workers",
		},
		{
			name:    "wrong limit type",
			content: `search: limit: "many"` + "\n",
			wantIn:  "limit",
		},
		{
			name:    "unknown location",
			content: `ingest: locations: ["basement"]` + "\n",
			wantIn:  "locations",
		},
		{
			name:    "lowercase category",
			content: `ingest: categories: ["creature"]` + "\n",
			wantIn:  "categories",
		},
		{
			name:    "unknown top-level key",
			content: "ingets: {workers: 2}\n",
			wantIn:  "ingets",
		},
		{
			name:    "empty source root",
			content: `sources: vanilla: [""]` + "\n",
			wantIn:  "vanilla",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfgDir := t.TempDir()
			cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
			if err := os.WriteFile(cfgPath, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			_, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: cfgDir})
			if err == nil {
				t.Fatal("expected schema validation error")
			}
			if !strings.Contains(err.Error(), tt.wantIn) {
				t.Errorf("error should mention %q, got: %s", tt.wantIn, err)
			}
		})
	}
}

func TestLoad_UnknownCategoryToken(t *testing.T) {
	t.Parallel()

	cfgDir := t.TempDir()
	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	content := `ingest: categories: ["CREATURE", "DRAGONKIN"]` + "\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	// DRAGONKIN passes the CUE shape check but is not a known category.
	_, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: cfgDir})
	if err == nil {
		t.Fatal("expected validation error for unknown category")
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error should wrap ErrInvalidConfig, got: %v", err)
	}

	var cfgErr *InvalidConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error should be *InvalidConfigError, got: %T", err)
	}
	if len(cfgErr.FieldErrors) != 1 {
		t.Fatalf("expected 1 field error, got %d: %v", len(cfgErr.FieldErrors), cfgErr.FieldErrors)
	}
	if !errors.Is(cfgErr.FieldErrors[0], ErrInvalidCategoryToken) {
		t.Errorf("field error should wrap ErrInvalidCategoryToken, got: %v", cfgErr.FieldErrors[0])
	}
	if !strings.Contains(cfgErr.FieldErrors[0].Error(), "DRAGONKIN") {
		t.Errorf("field error should name the offending token, got: %v", cfgErr.FieldErrors[0])
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	// Not parallel: manipulates process environment.
	restoreWorkers := testutil.MustSetenv(t, "RAWDEX_INGEST_WORKERS", "7")
	defer restoreWorkers()
	restoreVerbose := testutil.MustSetenv(t, "RAWDEX_LOG_VERBOSE", "true")
	defer restoreVerbose()

	// Environment beats the file value.
	cfgDir := t.TempDir()
	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(cfgPath, []byte("ingest: workers: 3\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: cfgDir})
	if err != nil {
		t.Fatalf("loadWithOptions() returned error: %v", err)
	}
	if cfg.Ingest.Workers != 7 {
		t.Errorf("Workers = %d, want env override 7", cfg.Ingest.Workers)
	}
	if !cfg.Log.Verbose {
		t.Error("Log.Verbose = false, want env override true")
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	// Not parallel: mutates the package-level override.
	configDir := filepath.Join(t.TempDir(), AppName)
	SetConfigDirOverride(configDir)
	defer Reset()

	if err := CreateDefaultConfig(); err != nil {
		t.Fatalf("CreateDefaultConfig() returned error: %v", err)
	}

	expectedPath := filepath.Join(configDir, ConfigFileName+"."+ConfigFileExt)
	content, err := os.ReadFile(expectedPath)
	if err != nil {
		t.Fatalf("failed to read created config: %v", err)
	}
	if len(content) == 0 {
		t.Error("config file is empty")
	}

	// A second call is a no-op on the existing file.
	if err := CreateDefaultConfig(); err != nil {
		t.Fatalf("CreateDefaultConfig() returned error on second call: %v", err)
	}

	// The generated file loads back cleanly through the schema.
	cfg, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: configDir})
	if err != nil {
		t.Fatalf("generated default config failed to load: %v", err)
	}
	if cfg.Search.Limit != 18 {
		t.Errorf("Search.Limit = %d, want 18", cfg.Search.Limit)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	// Not parallel: mutates the package-level override.
	configDir := filepath.Join(t.TempDir(), AppName)
	SetConfigDirOverride(configDir)
	defer Reset()

	saved := &Config{
		Sources: SourcesConfig{
			Vanilla:   []string{"raws/vanilla"},
			Installed: []string{"mods/installed", "mods/extra"},
		},
		Ingest: IngestConfig{
			Workers:         4,
			Strict:          true,
			Categories:      []CategoryToken{"CREATURE", "INORGANIC"},
			Locations:       []LocationToken{"vanilla", "workshop"},
			ApplyVariations: false,
			AttachMetadata:  false,
		},
		Search: SearchConfig{Limit: 50},
		Serve: ServeConfig{
			Address: "0.0.0.0:2350",
			HostKey: "/tmp/rawdex_hostkey",
		},
		Log: LogConfig{Verbose: true},
	}

	if err := Save(saved); err != nil {
		t.Fatalf("Save() returned error: %v", err)
	}

	loaded, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: configDir})
	if err != nil {
		t.Fatalf("loadWithOptions() returned error: %v", err)
	}

	if len(loaded.Sources.Vanilla) != 1 || loaded.Sources.Vanilla[0] != "raws/vanilla" {
		t.Errorf("Sources.Vanilla = %v, want [raws/vanilla]", loaded.Sources.Vanilla)
	}
	if len(loaded.Sources.Installed) != 2 {
		t.Errorf("Sources.Installed = %v, want two entries", loaded.Sources.Installed)
	}
	if len(loaded.Sources.Workshop) != 0 {
		t.Errorf("Sources.Workshop = %v, want empty", loaded.Sources.Workshop)
	}
	if loaded.Ingest.Workers != 4 || !loaded.Ingest.Strict {
		t.Errorf("Ingest = %+v, want workers 4 strict true", loaded.Ingest)
	}
	if len(loaded.Ingest.Categories) != 2 || loaded.Ingest.Categories[1] != "INORGANIC" {
		t.Errorf("Categories = %v, want [CREATURE INORGANIC]", loaded.Ingest.Categories)
	}
	if len(loaded.Ingest.Locations) != 2 || loaded.Ingest.Locations[1] != "workshop" {
		t.Errorf("Locations = %v, want [vanilla workshop]", loaded.Ingest.Locations)
	}
	if loaded.Ingest.ApplyVariations {
		t.Error("ApplyVariations = true, want false")
	}
	if loaded.Ingest.AttachMetadata {
		t.Error("AttachMetadata = true, want false")
	}
	if loaded.Search.Limit != 50 {
		t.Errorf("Search.Limit = %d, want 50", loaded.Search.Limit)
	}
	if loaded.Serve.Address != "0.0.0.0:2350" || loaded.Serve.HostKey != "/tmp/rawdex_hostkey" {
		t.Errorf("Serve = %+v, want saved values", loaded.Serve)
	}
	if !loaded.Log.Verbose {
		t.Error("Log.Verbose = false, want true")
	}
}

func TestGenerateCUE_OmitsEmptyOptionals(t *testing.T) {
	t.Parallel()

	out := GenerateCUE(DefaultConfig())

	if strings.Contains(out, "sources:") {
		t.Errorf("empty sources should be omitted, got:\n%s", out)
	}
	if strings.Contains(out, "host_key") {
		t.Errorf("empty host key should be omitted, got:\n%s", out)
	}
	if strings.Contains(out, "categories") {
		t.Errorf("empty category filter should be omitted, got:\n%s", out)
	}
	if !strings.Contains(out, "workers: 0") {
		t.Errorf("workers should be emitted, got:\n%s", out)
	}
	if !strings.Contains(out, "apply_variations: true") {
		t.Errorf("apply_variations should be emitted, got:\n%s", out)
	}
	if !strings.Contains(out, "limit: 18") {
		t.Errorf("search limit should be emitted, got:\n%s", out)
	}
	if !strings.Contains(out, `address: "localhost:23234"`) {
		t.Errorf("serve address should be emitted, got:\n%s", out)
	}
}
