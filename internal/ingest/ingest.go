// SPDX-License-Identifier: MPL-2.0

// Package ingest orchestrates a full run: resolve the module load order,
// split every source file into object units, expand and parse the units on
// a bounded worker pool, and resolve copy markers against the finished
// store. Only an unresolvable load order aborts a run; everything else
// degrades per file or per object and lands in the summary.
package ingest

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"rawdex/internal/discovery"
	"rawdex/internal/issue"
	"rawdex/internal/logging"
	"rawdex/internal/parser"
	"rawdex/internal/resolver"
	"rawdex/internal/store"
	"rawdex/internal/variation"
	"rawdex/pkg/rawkind"
	"rawdex/pkg/rawmod"
	"rawdex/pkg/rawobj"
)

// Options tunes a run.
type Options struct {
	// Workers bounds the parse pool; zero or less means one per CPU.
	Workers int
	// Strict escalates load-order warnings to failures.
	Strict bool
	// SkipVariations stores objects with their mutation calls unexpanded.
	SkipVariations bool
	// Categories restricts which object categories are parsed and stored.
	// Empty means everything.
	Categories []rawkind.Category
}

// Summary describes a finished or aborted run.
type Summary struct {
	Modules    int            `json:"modules"`
	Files      int            `json:"files"`
	Objects    int            `json:"objects"`
	ByCategory map[string]int `json:"by_category,omitempty"`
	Reports    []issue.Report `json:"reports,omitempty"`
	Cancelled  bool           `json:"cancelled,omitempty"`
	Duration   time.Duration  `json:"duration"`
}

// Runner executes ingestion runs. A Runner is stateless between runs and
// safe to reuse.
type Runner struct {
	opts   Options
	logger *log.Logger
}

func New(opts Options) *Runner {
	return &Runner{opts: opts, logger: logging.New("ingest")}
}

// pendingCopy records a stored object whose COPY_TAGS_FROM source can only
// be merged once every object of the run exists.
type pendingCopy struct {
	key  rawobj.Key
	from string
	file string
	line int
}

// Run ingests the discovered modules into a fresh store. The summary is
// never nil. A non-nil error means the load order could not be resolved
// and nothing was ingested; cancellation is not an error, the summary's
// Cancelled flag is set and whatever was committed stays valid.
func (r *Runner) Run(ctx context.Context, mods []*discovery.DiscoveredModule) (*store.Store, *Summary, error) {
	started := time.Now()
	summary := &Summary{ByCategory: make(map[string]int)}

	byID := make(map[string]*discovery.DiscoveredModule, len(mods))
	plain := make([]*rawmod.Module, 0, len(mods))
	for _, m := range mods {
		byID[m.Module.ID] = m
		plain = append(plain, m.Module)
	}

	res, err := resolver.Resolve(plain, r.opts.Strict)
	if err != nil {
		code := resolutionCode(err)
		summary.Reports = append(summary.Reports, issue.Report{Code: code, Detail: err.Error()})
		summary.Duration = time.Since(started)
		return nil, summary, issue.NewErrorContext().
			WithOperation("resolve module load order").
			WithSuggestion(resolutionSuggestion(code)).
			WithCode(code).
			Wrap(err).
			Build()
	}
	for _, w := range res.Warnings {
		summary.Reports = append(summary.Reports, issue.Report{
			Code:   issue.MissingModuleCode,
			Module: warningModule(w),
			Detail: w.Error(),
		})
	}
	summary.Modules = len(res.Order)

	ordered := make([]*discovery.DiscoveredModule, 0, len(res.Order))
	orderedMods := make([]*rawmod.Module, 0, len(res.Order))
	for _, id := range res.Order {
		dm := byID[id]
		ordered = append(ordered, dm)
		orderedMods = append(orderedMods, dm.Module)
	}

	st := store.New()
	st.SetModules(orderedMods)
	reg := variation.NewRegistry()
	var units []*unit

	// First pass, sequential in load order: split sources into units and
	// register mutation templates. A template redefined by a later module
	// replaces the earlier one.
passA:
	for _, dm := range ordered {
		munits := newModuleUnits(dm.Module.ID)
		for _, w := range dm.Warnings {
			r.logger.Warn("module warning", "module", dm.Module.ID, "err", w)
		}
		for _, path := range dm.RawFiles {
			select {
			case <-ctx.Done():
				summary.Cancelled = true
				break passA
			default:
			}
			summary.Files++
			rel := relPath(dm.Module.Directory, path)
			f, err := os.Open(path)
			if err != nil {
				summary.Reports = append(summary.Reports, issue.Report{
					Code:   issue.SourceFormatCode,
					Module: dm.Module.ID,
					File:   rel,
					Detail: fmt.Sprintf("opening source: %v", err),
				})
				continue
			}
			summary.Reports = append(summary.Reports, munits.readSource(f, rel)...)
			f.Close()
		}
		for _, u := range munits.list {
			if u.category != rawkind.CreatureVariation {
				continue
			}
			tmpl, warns := variation.ParseTemplate(u.start.Arg(0), u.body)
			for _, w := range warns {
				summary.Reports = append(summary.Reports, templateReport(u, w))
			}
			if _, err := reg.Add(tmpl); err != nil {
				r.logger.Error("registering template", "template", tmpl.ID, "err", err)
			}
		}
		units = append(units, munits.list...)
		r.logger.Debug("module read", "module", dm.Module.ID, "objects", len(munits.list))
	}
	reg.Freeze()

	if summary.Cancelled {
		sortReports(summary)
		summary.Duration = time.Since(started)
		return st, summary, nil
	}

	// Second pass: expand, parse, and store each unit independently on a
	// bounded pool. Template objects go through too, so they are
	// queryable like everything else.
	eng := variation.NewEngine(reg)
	workers := r.opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var (
		mu       sync.Mutex
		reports  []issue.Report
		pendings []pendingCopy
	)
	jobs := make(chan *unit)
	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for u := range jobs {
				reps, pending := r.process(u, eng, st)
				mu.Lock()
				reports = append(reports, reps...)
				if pending != nil {
					pendings = append(pendings, *pending)
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for _, u := range units {
		if len(r.opts.Categories) > 0 && !slices.Contains(r.opts.Categories, u.category) {
			continue
		}
		select {
		case <-ctx.Done():
			summary.Cancelled = true
			break feed
		case jobs <- u:
		}
	}
	close(jobs)
	wg.Wait()
	summary.Reports = append(summary.Reports, reports...)

	r.resolveCopies(st, res.Order, pendings, summary)

	for _, o := range st.All() {
		summary.ByCategory[o.Category.String()]++
	}
	summary.Objects = st.Len()
	sortReports(summary)
	summary.Duration = time.Since(started)
	r.logger.Info("run finished",
		"modules", summary.Modules,
		"files", summary.Files,
		"objects", summary.Objects,
		"reports", len(summary.Reports),
		"cancelled", summary.Cancelled,
		"duration", summary.Duration)
	return st, summary, nil
}

// process runs one unit through mutation, parsing, and storage. The
// returned pending is non-nil when the stored object still has a copy
// marker to resolve.
func (r *Runner) process(u *unit, eng *variation.Engine, st *store.Store) ([]issue.Report, *pendingCopy) {
	var reports []issue.Report
	report := func(code issue.Code, line int, detail string) {
		reports = append(reports, issue.Report{
			Code:   code,
			Module: u.module,
			File:   u.file,
			Line:   line,
			Detail: detail,
		})
	}

	// The engine sees the body only; an object's start token is not a tag
	// and no operation may touch it. Template definitions are exempt: an
	// APPLY token inside one is an operation, not a call to expand now.
	body := u.body
	if !r.opts.SkipVariations && u.category != rawkind.CreatureVariation {
		out, warns, err := eng.Apply(u.body)
		for _, w := range warns {
			code, line := variationIssue(w)
			if line == 0 {
				line = u.start.Line
			}
			report(code, line, w.Error())
		}
		if err != nil {
			report(issue.TemplateCycleCode, u.start.Line,
				err.Error()+", dropping object "+u.start.Arg(0))
			return reports, nil
		}
		body = out
	}

	obj, parseErrs := parser.Parse(u.module, u.category, u.start, body)
	obj.SourceFile = u.file
	for _, pe := range parseErrs {
		line := u.start.Line
		var tagErr *parser.TagError
		if errors.As(pe, &tagErr) {
			line = tagErr.Line
		}
		report(issue.VocabularyCode, line, pe.Error())
	}

	if err := st.Insert(obj); err != nil {
		report(issue.DuplicateObjectCode, u.start.Line, err.Error())
		return reports, nil
	}
	if u.copyFrom == "" {
		return reports, nil
	}
	return reports, &pendingCopy{key: obj.Key(), from: u.copyFrom, file: u.file, line: u.copyLine}
}

// resolveCopies merges copied tags once every object of the run exists.
// The source is looked up in the destination's own module first, then in
// earlier modules walking backwards through the load order, so the merge
// sees the same world the destination module was built against.
func (r *Runner) resolveCopies(st *store.Store, order []string, pendings []pendingCopy, summary *Summary) {
	if len(pendings) == 0 {
		return
	}
	idx := make(map[string]int, len(order))
	for i, id := range order {
		idx[id] = i
	}
	slices.SortFunc(pendings, func(a, b pendingCopy) int {
		if c := cmp.Compare(idx[a.key.Module], idx[b.key.Module]); c != 0 {
			return c
		}
		if c := cmp.Compare(a.file, b.file); c != 0 {
			return c
		}
		return cmp.Compare(a.line, b.line)
	})
	for _, p := range pendings {
		dst, ok := st.Lookup(p.key.Module, p.key.Identifier)
		if !ok {
			continue
		}
		src := findCopySource(st, order, idx[p.key.Module], p.from)
		if src == nil {
			summary.Reports = append(summary.Reports, issue.Report{
				Code:   issue.DanglingTargetCode,
				Module: p.key.Module,
				File:   p.file,
				Line:   p.line,
				Detail: fmt.Sprintf("COPY_TAGS_FROM %q: no such object in this or any earlier module", p.from),
			})
			continue
		}
		if src != dst {
			mergeCopied(dst, src)
		}
	}
}

func findCopySource(st *store.Store, order []string, destIdx int, from string) *rawobj.Object {
	if src, ok := st.Lookup(order[destIdx], from); ok {
		return src
	}
	for i := destIdx - 1; i >= 0; i-- {
		if src, ok := st.Lookup(order[i], from); ok {
			return src
		}
	}
	return nil
}

// mergeCopied fills dst with whatever src has that dst does not. Own tags
// win: a flag, value, or name already on dst keeps its version, and the
// structured payloads come over only when dst has none of its own.
func mergeCopied(dst, src *rawobj.Object) {
	for _, n := range src.Names {
		if !slices.Contains(dst.Names, n) {
			dst.Names = append(dst.Names, n)
		}
	}
	if dst.Description == "" {
		dst.Description = src.Description
	}
	for _, f := range src.Flags {
		if !dst.HasFlag(f.Name) {
			dst.Flags = append(dst.Flags, f)
		}
	}
	for _, v := range src.Values {
		if _, ok := dst.Value(v.Name); !ok {
			dst.Values = append(dst.Values, v)
		}
	}
	if len(dst.Gaits) == 0 {
		dst.Gaits = slices.Clone(src.Gaits)
	}
	if len(dst.BodySizes) == 0 {
		dst.BodySizes = slices.Clone(src.BodySizes)
	}
	if len(dst.Castes) == 0 {
		dst.Castes = slices.Clone(src.Castes)
	}
}

func resolutionCode(err error) issue.Code {
	var cycle *resolver.CycleError
	if errors.As(err, &cycle) {
		return issue.DependencyCycleCode
	}
	var conflict *resolver.ConflictError
	if errors.As(err, &conflict) {
		return issue.ModuleConflictCode
	}
	return issue.MissingModuleCode
}

func resolutionSuggestion(code issue.Code) string {
	switch code {
	case issue.ModuleConflictCode:
		return "Deactivate one side of the conflicting pair"
	case issue.DependencyCycleCode:
		return "Drop one of the ordering requirements forming the cycle"
	}
	return "Install the missing module, or rerun without strict resolution"
}

func warningModule(err error) string {
	var missing *resolver.MissingError
	if errors.As(err, &missing) {
		return missing.Module
	}
	return ""
}

// variationIssue classifies an expansion warning. A zero line means the
// warning carries no position of its own.
func variationIssue(err error) (issue.Code, int) {
	var missing *variation.MissingTemplateError
	if errors.As(err, &missing) {
		return issue.MissingTemplateCode, 0
	}
	var malformed *variation.MalformedOpError
	if errors.As(err, &malformed) {
		return issue.MalformedOpCode, malformed.Line
	}
	return issue.MalformedOpCode, 0
}

func templateReport(u *unit, err error) issue.Report {
	line := u.start.Line
	var malformed *variation.MalformedOpError
	if errors.As(err, &malformed) && malformed.Line > 0 {
		line = malformed.Line
	}
	return issue.Report{
		Code:   issue.MalformedOpCode,
		Module: u.module,
		File:   u.file,
		Line:   line,
		Detail: err.Error(),
	}
}

// relPath makes source paths stable across roots and platforms.
func relPath(dir, path string) string {
	if rel, err := filepath.Rel(dir, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return filepath.Base(path)
}

// sortReports orders reports by module, file, and line so runs over the
// same inputs produce the same summary regardless of worker scheduling.
func sortReports(summary *Summary) {
	slices.SortStableFunc(summary.Reports, func(a, b issue.Report) int {
		if c := cmp.Compare(a.Module, b.Module); c != 0 {
			return c
		}
		if c := cmp.Compare(a.File, b.File); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Line, b.Line); c != 0 {
			return c
		}
		return cmp.Compare(string(a.Code), string(b.Code))
	})
}
