// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestProvider_Load_DefaultsWhenNoFile(t *testing.T) {
	t.Parallel()

	p := NewProvider()
	cfg, err := p.Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}

	want := DefaultConfig()
	if cfg.Search.Limit != want.Search.Limit {
		t.Errorf("Search.Limit = %d, want %d", cfg.Search.Limit, want.Search.Limit)
	}
	if cfg.Serve.Address != want.Serve.Address {
		t.Errorf("Serve.Address = %q, want %q", cfg.Serve.Address, want.Serve.Address)
	}
}

func TestProvider_Load_ReadsFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cuePath := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(cuePath, []byte("ingest: workers: 6\n"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	p := NewProvider()
	cfg, err := p.Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Ingest.Workers != 6 {
		t.Errorf("Ingest.Workers = %d, want 6", cfg.Ingest.Workers)
	}
}

func TestProvider_Load_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewProvider()
	_, err := p.Load(ctx, LoadOptions{ConfigDirPath: t.TempDir()})
	if err == nil {
		t.Fatal("Load() with canceled context should fail")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error should wrap context.Canceled, got: %v", err)
	}
}

func TestResolve_ReportsResolvedPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cuePath := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(cuePath, []byte("search: limit: 40\n"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, path, err := Resolve(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if path != cuePath {
		t.Errorf("Resolve() path = %q, want %q", path, cuePath)
	}
	if cfg.Search.Limit != 40 {
		t.Errorf("Search.Limit = %d, want 40", cfg.Search.Limit)
	}
}

func TestResolve_EmptyPathWhenDefaultsUsed(t *testing.T) {
	t.Parallel()

	_, path, err := Resolve(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if path != "" {
		t.Errorf("Resolve() path = %q, want empty for defaults", path)
	}
}

func TestResolve_CustomFilePath(t *testing.T) {
	t.Parallel()

	cuePath := filepath.Join(t.TempDir(), "custom.cue")
	if err := os.WriteFile(cuePath, []byte("log: verbose: true\n"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, path, err := Resolve(context.Background(), LoadOptions{ConfigFilePath: cuePath})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if path != cuePath {
		t.Errorf("Resolve() path = %q, want %q", path, cuePath)
	}
	if !cfg.Log.Verbose {
		t.Error("Log.Verbose = false, want true")
	}
}
