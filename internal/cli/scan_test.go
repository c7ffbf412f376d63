// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"rawdex/internal/config"
	"rawdex/internal/ingest"
	"rawdex/internal/issue"
	"rawdex/internal/store"
)

// writeModuleDir lays out one raw module on disk: the descriptor plus raw
// sources (path relative to the module dir -> content).
func writeModuleDir(t *testing.T, root, dir, descriptor string, files map[string]string) {
	t.Helper()
	moduleDir := filepath.Join(root, dir)
	if err := os.MkdirAll(moduleDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(moduleDir, "info.txt"), []byte(descriptor), 0o644); err != nil {
		t.Fatal(err)
	}
	for rel, content := range files {
		path := filepath.Join(moduleDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

// isolateConfig points the config lookup at a fresh directory so command
// runs see the built-in defaults, and returns that directory for tests
// that want to drop a config file into it.
func isolateConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	config.SetConfigDirOverride(dir)
	t.Cleanup(config.Reset)
	return dir
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, &ingest.Summary{
		Modules:    2,
		Files:      5,
		Objects:    41,
		ByCategory: map[string]int{"CREATURE": 40, "PLANT": 1},
		Reports: []issue.Report{
			{Code: issue.VocabularyCode, Module: "vanilla", File: "creature_std.txt", Line: 12, Detail: "BODY_SIZE wants numbers"},
		},
		Duration: 1500 * time.Millisecond,
	})

	out := buf.String()
	for _, want := range []string{"Scan Summary", "Modules", "Files", "Objects", "CREATURE", "PLANT", "1.5s", "RDX0201", "BODY_SIZE wants numbers"} {
		if !strings.Contains(out, want) {
			t.Errorf("printSummary() output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintReports_Empty(t *testing.T) {
	var buf bytes.Buffer
	printReports(&buf, nil)
	if buf.Len() != 0 {
		t.Errorf("printReports(nil) wrote %q", buf.String())
	}
}

func TestRunScan_EndToEnd(t *testing.T) {
	isolateConfig(t)

	root := t.TempDir()
	writeModuleDir(t, root, "vanilla_creatures",
		"[ID:vanilla_creatures]\n[NUMERIC_VERSION:1]\n",
		map[string]string{
			"objects/creature_standard.txt": `creature_standard

[OBJECT:CREATURE]

[CREATURE:TOAD]
	[NAME:toad:toads:toad]
	[AMPHIBIOUS]

[CREATURE:DRAGON]
	[NAME:dragon:dragons:dragon]
	[FLIER]
`,
		})

	var out, errOut bytes.Buffer
	scanCmd.SetOut(&out)
	scanCmd.SetErr(&errOut)
	scanCmd.SetContext(context.Background())
	t.Cleanup(func() {
		scanCmd.SetOut(nil)
		scanCmd.SetErr(nil)
	})

	if err := runScan(scanCmd, []string{root}); err != nil {
		t.Fatalf("runScan() error: %v\nstderr: %s", err, errOut.String())
	}

	got := out.String()
	for _, want := range []string{"Scan Summary", "Modules", "CREATURE"} {
		if !strings.Contains(got, want) {
			t.Errorf("scan output missing %q:\n%s", want, got)
		}
	}
}

func TestRunScan_WritesExport(t *testing.T) {
	isolateConfig(t)

	root := t.TempDir()
	writeModuleDir(t, root, "vanilla_creatures",
		"[ID:vanilla_creatures]\n",
		map[string]string{
			"objects/creature_standard.txt": `creature_standard

[OBJECT:CREATURE]

[CREATURE:TOAD]
	[NAME:toad:toads:toad]
`,
		})

	exportPath := filepath.Join(t.TempDir(), "export.json")
	scanJSONPath = exportPath
	t.Cleanup(func() { scanJSONPath = "" })

	var out bytes.Buffer
	scanCmd.SetOut(&out)
	scanCmd.SetErr(&out)
	scanCmd.SetContext(context.Background())
	t.Cleanup(func() {
		scanCmd.SetOut(nil)
		scanCmd.SetErr(nil)
	})

	if err := runScan(scanCmd, []string{root}); err != nil {
		t.Fatalf("runScan() error: %v\n%s", err, out.String())
	}

	f, err := os.Open(exportPath)
	if err != nil {
		t.Fatalf("export not written: %v", err)
	}
	defer f.Close()
	st, err := store.ReadJSON(f)
	if err != nil {
		t.Fatalf("export does not load back: %v", err)
	}
	if _, ok := st.Lookup("vanilla_creatures", "TOAD"); !ok {
		t.Error("exported store is missing TOAD")
	}
}

func TestRunScan_NoSources(t *testing.T) {
	isolateConfig(t)

	var out, errOut bytes.Buffer
	scanCmd.SetOut(&out)
	scanCmd.SetErr(&errOut)
	scanCmd.SetContext(context.Background())
	t.Cleanup(func() {
		scanCmd.SetOut(nil)
		scanCmd.SetErr(nil)
	})

	err := runScan(scanCmd, nil)
	if err == nil {
		t.Fatal("runScan() with no sources should fail")
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("runScan() error = %v, want ExitError code 1", err)
	}
	if !strings.Contains(errOut.String(), "no source directories") {
		t.Errorf("stderr = %q, want hint about missing sources", errOut.String())
	}
}
