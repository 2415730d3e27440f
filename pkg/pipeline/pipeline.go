// Package pipeline runs the unused-dependency analysis over a workspace.
//
// For every member package, in the order the provider lists them, the
// [Runner] performs:
//
//  1. Scan: collect references from src/, tests/ and build.rs
//  2. Classify: split the declared dependencies by kind
//  3. Resolve: subtract the references for every selected kind
//  4. Fix (ModeFix only): remove the unused entries from Cargo.toml
//
// Steps 1-3 never modify anything. A manifest is rewritten only when at
// least one entry was actually removed.
//
// # Usage
//
//	agg := usage.NewAggregator(rust.New(), rust.Ext, cache, logger)
//	runner := pipeline.NewRunner(agg, logger)
//	result, err := runner.Run(ctx, provider, pipeline.Options{Mode: pipeline.ModeCheck}, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, pkg := range result.Packages {
//	    fmt.Println(pkg.Package.Name, pkg.Unused.Count())
//	}
package pipeline

import (
	"time"

	"github.com/matzehuels/cargodead/pkg/deps"
	"github.com/matzehuels/cargodead/pkg/errors"
	"github.com/matzehuels/cargodead/pkg/usage"
)

// Mode selects whether unused dependencies are only reported or also removed.
type Mode int

const (
	ModeCheck Mode = iota // Report only
	ModeFix               // Report and remove
)

// String returns the command name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeCheck:
		return "check"
	case ModeFix:
		return "fix"
	default:
		return "unknown"
	}
}

// =============================================================================
// Options - Analysis Configuration
// =============================================================================

// Options configures a run.
type Options struct {
	Mode       Mode
	Filter     deps.Filter
	ExactNames bool // Match declared names without folding `-` to `_`
}

// Validate rejects unknown modes and conflicting kind filters.
func (o Options) Validate() error {
	if o.Mode != ModeCheck && o.Mode != ModeFix {
		return errors.New(errors.ErrCodeInvalidInput, "invalid mode: %d", int(o.Mode))
	}
	return o.Filter.Validate()
}

// =============================================================================
// Results
// =============================================================================

// PackageResult is the outcome for one member package.
type PackageResult struct {
	Package   deps.Package
	Declared  deps.Declared
	Unused    deps.Unused
	Removed   int  // Entries removed from the manifest
	Rewritten bool // Whether the manifest was written
	Stats     usage.Stats
	Duration  time.Duration
}

// Result aggregates a whole run.
type Result struct {
	Packages []*PackageResult
}

// Unused returns the number of unused dependencies across all packages.
func (r *Result) Unused() int {
	n := 0
	for _, p := range r.Packages {
		n += p.Unused.Count()
	}
	return n
}

// Removed returns the number of manifest entries removed.
func (r *Result) Removed() int {
	n := 0
	for _, p := range r.Packages {
		n += p.Removed
	}
	return n
}

// Rewritten returns the number of manifests written.
func (r *Result) Rewritten() int {
	n := 0
	for _, p := range r.Packages {
		if p.Rewritten {
			n++
		}
	}
	return n
}
