// SPDX-License-Identifier: MPL-2.0

// Package discovery finds raw definition modules under the configured
// source roots.
//
// A module is any immediate subdirectory of a root that carries an
// info.txt descriptor. Roots scan in location order (vanilla, installed,
// workshop); within a root, directories scan in name order, and the first
// directory to claim a module identifier keeps it.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"rawdex/internal/logging"
	"rawdex/pkg/rawkind"
	"rawdex/pkg/rawmod"
)

// ModuleCollisionError reports one module identifier claimed by two
// directories. The first claim wins.
type ModuleCollisionError struct {
	ModuleID  string
	FirstDir  string
	SecondDir string
}

// Error implements the error interface.
func (e *ModuleCollisionError) Error() string {
	return fmt.Sprintf("module id collision: %q defined in both %s and %s, keeping the first",
		e.ModuleID, e.FirstDir, e.SecondDir)
}

// DiscoveredModule is one module found under a source root.
type DiscoveredModule struct {
	// Module carries the parsed descriptor plus location and directory.
	Module *rawmod.Module
	// RawFiles lists the module's raw source files, sorted by path.
	RawFiles []string
	// Warnings collects recoverable descriptor and bundle problems.
	Warnings []error
}

// Options configures a Discovery. Each location holds zero or more root
// directories, scanned in the order given. Roots that do not exist are
// skipped.
type Options struct {
	Vanilla   []string
	Installed []string
	Workshop  []string

	// AttachMetadata loads the optional module.toml next to each
	// descriptor.
	AttachMetadata bool
}

// Discovery finds modules across source roots.
type Discovery struct {
	opts   Options
	logger *log.Logger
}

// New creates a Discovery over the given roots.
func New(opts Options) *Discovery {
	return &Discovery{
		opts:   opts,
		logger: logging.New("discovery"),
	}
}

// DiscoverAll scans every root in location order. Warnings report
// identifier collisions and skipped descriptors; per-module problems stay
// on the DiscoveredModule.
func (d *Discovery) DiscoverAll() ([]*DiscoveredModule, []error) {
	var (
		found    []*DiscoveredModule
		warnings []error
	)
	claimed := make(map[string]string)

	scan := func(roots []string, loc rawkind.Location) {
		for _, root := range roots {
			mods, warns := d.scanRoot(root, loc)
			warnings = append(warnings, warns...)
			for _, mod := range mods {
				if first, ok := claimed[mod.Module.ID]; ok {
					warnings = append(warnings, &ModuleCollisionError{
						ModuleID:  mod.Module.ID,
						FirstDir:  first,
						SecondDir: mod.Module.Directory,
					})
					continue
				}
				claimed[mod.Module.ID] = mod.Module.Directory
				found = append(found, mod)
			}
		}
	}
	scan(d.opts.Vanilla, rawkind.LocationVanilla)
	scan(d.opts.Installed, rawkind.LocationInstalled)
	scan(d.opts.Workshop, rawkind.LocationWorkshop)

	d.logger.Debug("discovery finished", "modules", len(found), "warnings", len(warnings))
	return found, warnings
}

// scanRoot checks every immediate subdirectory of one root for a module
// descriptor.
func (d *Discovery) scanRoot(root string, loc rawkind.Location) ([]*DiscoveredModule, []error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, nil
	}
	entries, err := os.ReadDir(absRoot)
	if os.IsNotExist(err) {
		d.logger.Debug("skipping missing source root", "root", root)
		return nil, nil
	}
	if err != nil {
		return nil, []error{fmt.Errorf("reading source root %s: %w", root, err)}
	}

	var (
		mods     []*DiscoveredModule
		warnings []error
	)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		mod, err := d.loadModule(filepath.Join(absRoot, entry.Name()), loc)
		if err != nil {
			warnings = append(warnings, err)
			continue
		}
		if mod != nil {
			mods = append(mods, mod)
		}
	}
	return mods, warnings
}

// loadModule reads one module directory. Directories without a descriptor
// are not modules and return (nil, nil); a descriptor that cannot be
// parsed returns an error and the directory is skipped.
func (d *Discovery) loadModule(dir string, loc rawkind.Location) (*DiscoveredModule, error) {
	f, err := os.Open(filepath.Join(dir, rawmod.DescriptorFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("skipping module directory %s: %w", dir, err)
	}
	defer f.Close()

	mod, warnings, err := rawmod.ParseDescriptor(f)
	if err != nil {
		return nil, fmt.Errorf("skipping module directory %s: %w", dir, err)
	}
	mod.Location = loc
	mod.Directory = dir

	out := &DiscoveredModule{Module: mod, Warnings: warnings}
	if d.opts.AttachMetadata {
		bundle, err := loadBundle(dir)
		if err != nil {
			out.Warnings = append(out.Warnings, err)
		} else {
			mod.Bundle = bundle
		}
	}
	out.RawFiles = rawFilesUnder(dir)

	d.logger.Debug("discovered module",
		"id", mod.ID, "location", loc.String(), "raw_files", len(out.RawFiles))
	return out, nil
}

// loadBundle reads the optional metadata bundle. A missing bundle is not
// an error.
func loadBundle(dir string) (*rawmod.Bundle, error) {
	data, err := os.ReadFile(filepath.Join(dir, rawmod.BundleFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading module bundle: %w", err)
	}
	b, err := rawmod.ParseBundle(data)
	if err != nil {
		return nil, fmt.Errorf("parsing module bundle: %w", err)
	}
	return b, nil
}

// rawFilesUnder walks a module directory for raw source files. Everything
// ending in .txt counts except the descriptor itself.
func rawFilesUnder(dir string) []string {
	var files []string
	_ = filepath.WalkDir(dir, func(path string, entry os.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
			return nil
		}
		if entry.Name() == rawmod.DescriptorFile && filepath.Dir(path) == dir {
			return nil
		}
		files = append(files, path)
		return nil
	})
	slices.Sort(files)
	return files
}
