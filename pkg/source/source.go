// Package source walks a package's source tree.
//
// Traversal is best effort: an entry that cannot be read is skipped and the
// walk continues, and a directory that does not exist yields nothing.
package source

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
)

// Dirs are the package subdirectories scanned for source files.
var Dirs = []string{"src", "tests"}

// BuildScript is the build script file at a package root.
const BuildScript = "build.rs"

// Walk yields every file under root whose extension is ext, descending into
// subdirectories without a depth limit. Unreadable entries are skipped. The
// walk stops early when ctx is done.
func Walk(ctx context.Context, root, ext string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if ctx.Err() != nil {
				return filepath.SkipAll
			}
			if err != nil {
				return nil
			}
			if d.IsDir() || filepath.Ext(path) != ext {
				return nil
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// Inputs yields the source files attributed to the package rooted at root:
// everything under src/ and tests/ plus build.rs when present.
func Inputs(ctx context.Context, root, ext string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, dir := range Dirs {
			for path := range Walk(ctx, filepath.Join(root, dir), ext) {
				if !yield(path) {
					return
				}
			}
		}
		if ctx.Err() != nil {
			return
		}
		build := filepath.Join(root, BuildScript)
		if info, err := os.Stat(build); err == nil && info.Mode().IsRegular() {
			yield(build)
		}
	}
}
