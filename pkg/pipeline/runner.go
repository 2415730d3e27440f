package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cargodead/pkg/deps"
	"github.com/matzehuels/cargodead/pkg/manifest"
	"github.com/matzehuels/cargodead/pkg/observability"
	"github.com/matzehuels/cargodead/pkg/usage"
)

// Runner analyzes packages one at a time.
//
// The Runner holds no per-run state; it only carries the aggregator (and
// through it the reference cache) and the logger.
type Runner struct {
	Aggregator *usage.Aggregator
	Logger     *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(agg *usage.Aggregator, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Aggregator: agg,
		Logger:     logger,
	}
}

// Run lists the provider's packages and analyzes each in turn. visit, when
// non-nil, is called after every package so results can be reported as they
// arrive. The first error aborts the run; results for packages already
// analyzed are returned alongside it.
func (r *Runner) Run(ctx context.Context, provider deps.Provider, opts Options, visit func(*PackageResult)) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	pkgs, err := provider.Packages(ctx)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("listed workspace members", "provider", provider.Name(), "packages", len(pkgs))

	result := &Result{}
	for _, pkg := range pkgs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		pr, err := r.Analyze(ctx, pkg, opts)
		if err != nil {
			return result, err
		}
		result.Packages = append(result.Packages, pr)
		if visit != nil {
			visit(pr)
		}
	}
	return result, nil
}

// Analyze runs scan, classify, resolve and (in ModeFix) fix for one package.
func (r *Runner) Analyze(ctx context.Context, pkg deps.Package, opts Options) (res *PackageResult, err error) {
	start := time.Now()
	hooks := observability.Analysis()
	hooks.OnPackageStart(ctx, pkg.Name)
	defer func() {
		unused := 0
		if res != nil {
			unused = res.Unused.Count()
			res.Duration = time.Since(start)
		}
		hooks.OnPackageComplete(ctx, pkg.Name, unused, time.Since(start), err)
	}()

	root := filepath.Dir(pkg.ManifestPath)
	used, stats, err := r.Aggregator.Collect(ctx, root)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("collected references",
		"package", pkg.Name,
		"files", stats.Files,
		"parsed", stats.Parsed,
		"cached", stats.Cached,
		"skipped", stats.Skipped,
		"refs", len(used))

	// The manifest is parsed in both modes so a malformed one always fails.
	doc, err := manifest.Load(pkg.ManifestPath)
	if err != nil {
		return nil, err
	}

	declared := deps.Classify(pkg.Dependencies)
	unused := deps.Resolve(declared, used, opts.Filter, deps.ResolveOptions{
		ExactNames: opts.ExactNames,
		Ignored:    pkg.Ignored,
	})
	r.Logger.Debug("resolved dependencies",
		"package", pkg.Name,
		"declared", declared.Count(),
		"unused", unused.Count())
	res = &PackageResult{
		Package:  pkg,
		Declared: declared,
		Unused:   unused,
		Stats:    stats,
	}

	if opts.Mode != ModeFix || unused.Empty() {
		return res, nil
	}
	for _, k := range deps.AllKinds {
		if len(unused[k]) > 0 && !doc.HasTable(k.Table()) {
			r.Logger.Warn("unused dependencies are only declared in target tables, leaving them in place",
				"package", pkg.Name, "kind", k, "names", unused[k])
		}
	}
	res.Removed = doc.Apply(unused)
	if res.Removed == 0 {
		return res, nil
	}
	if err := doc.Save(pkg.ManifestPath); err != nil {
		return nil, fmt.Errorf("fix %s: %w", pkg.Name, err)
	}
	res.Rewritten = true
	hooks.OnManifestWrite(ctx, pkg.ManifestPath, res.Removed)
	r.Logger.Debug("rewrote manifest", "path", pkg.ManifestPath, "removed", res.Removed)
	return res, nil
}
