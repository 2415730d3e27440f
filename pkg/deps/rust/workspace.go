package rust

import (
	"context"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cargodead/pkg/deps"
	"github.com/matzehuels/cargodead/pkg/errors"
)

// Workspace lists workspace members by reading Cargo.toml files directly.
//
// Only the manifests themselves are consulted: dependencies inherited with
// `workspace = true` keep their member-level key, and members are found by
// expanding `[workspace] members` globs relative to the root manifest.
type Workspace struct {
	// ManifestPath is the root manifest. Empty means the nearest Cargo.toml
	// at or above the working directory.
	ManifestPath string
}

// Name implements [deps.Provider].
func (w *Workspace) Name() string { return "manifest" }

// manifestFile holds the parts of a Cargo.toml read by Workspace. The
// dependency tables themselves are read through toml.MetaData so their
// declaration order survives.
type manifestFile struct {
	Package *struct {
		Name     string       `toml:"name"`
		Metadata toolMetadata `toml:"metadata"`
	} `toml:"package"`
	Workspace *struct {
		Members  []string     `toml:"members"`
		Exclude  []string     `toml:"exclude"`
		Metadata toolMetadata `toml:"metadata"`
	} `toml:"workspace"`
}

// Packages implements [deps.Provider].
func (w *Workspace) Packages(ctx context.Context) ([]deps.Package, error) {
	rootPath, err := w.rootManifest()
	if err != nil {
		return nil, err
	}
	root, _, err := readManifest(rootPath)
	if err != nil {
		return nil, err
	}

	var wsIgnored []string
	paths := []string{}
	if root.Package != nil {
		paths = append(paths, rootPath)
	}
	if root.Workspace != nil {
		wsIgnored = root.Workspace.Metadata.CargoDead.Ignored
		members, err := expandMembers(filepath.Dir(rootPath), root.Workspace.Members, root.Workspace.Exclude)
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			if !slices.Contains(paths, m) {
				paths = append(paths, m)
			}
		}
	}

	var out []deps.Package
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pkg, err := readPackage(path, wsIgnored)
		if err != nil {
			return nil, err
		}
		if pkg != nil {
			out = append(out, *pkg)
		}
	}
	return out, nil
}

func (w *Workspace) rootManifest() (string, error) {
	if w.ManifestPath != "" {
		abs, err := filepath.Abs(w.ManifestPath)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", w.ManifestPath)
		}
		return abs, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "get working directory")
	}
	return FindManifest(wd)
}

// FindManifest returns the nearest Cargo.toml at or above dir.
func FindManifest(dir string) (string, error) {
	for d := dir; ; {
		path := filepath.Join(d, errors.ManifestFilename)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, nil
		}
		parent := filepath.Dir(d)
		if parent == d {
			return "", errors.New(errors.ErrCodeFileNotFound, "could not find %s in %s or any parent directory", errors.ManifestFilename, dir)
		}
		d = parent
	}
}

// readPackage reads one member manifest. A manifest without [package]
// yields nil.
func readPackage(path string, wsIgnored []string) (*deps.Package, error) {
	file, md, err := readManifest(path)
	if err != nil {
		return nil, err
	}
	if file.Package == nil {
		return nil, nil
	}

	ignored, err := mergeIgnored(wsIgnored, file.Package.Metadata.CargoDead.Ignored)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s: metadata.cargo-dead", path)
	}
	return &deps.Package{
		ID:           "path+file://" + filepath.ToSlash(filepath.Dir(path)) + "#" + file.Package.Name,
		Name:         file.Package.Name,
		ManifestPath: path,
		Dependencies: declarations(md.Keys()),
		Ignored:      ignored,
	}, nil
}

func readManifest(path string) (*manifestFile, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, toml.MetaData{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, toml.MetaData{}, errors.Wrap(errors.ErrCodeReadFailed, err, "read %s", path)
	}
	var file manifestFile
	md, err := toml.Decode(string(data), &file)
	if err != nil {
		return nil, toml.MetaData{}, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse %s", path)
	}
	return &file, md, nil
}

// declarations extracts dependency declarations from manifest keys, in the
// order they appear. Both the top-level tables and their
// `[target.<cfg>.<table>]` variants count.
func declarations(keys []toml.Key) []deps.Dependency {
	var out []deps.Dependency
	seen := make(map[deps.Dependency]bool)
	for _, key := range keys {
		var table, name string
		switch {
		case len(key) >= 2 && key[0] != "target":
			table, name = key[0], key[1]
		case len(key) >= 4 && key[0] == "target":
			table, name = key[2], key[3]
		default:
			continue
		}
		kind, ok := deps.KindForTable(table)
		if !ok {
			continue
		}
		d := deps.Dependency{Name: name, Kind: kind}
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}

// expandMembers resolves member globs relative to dir into manifest paths,
// dropping excluded directories and directories without a Cargo.toml.
func expandMembers(dir string, members, exclude []string) ([]string, error) {
	excluded := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		excluded[filepath.Clean(filepath.Join(dir, e))] = true
	}

	var out []string
	for _, pattern := range members {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "workspace member pattern %q", pattern)
		}
		slices.Sort(matches)
		for _, m := range matches {
			if excluded[filepath.Clean(m)] {
				continue
			}
			path := filepath.Join(m, errors.ManifestFilename)
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			if !slices.Contains(out, path) {
				out = append(out, path)
			}
		}
	}
	return out, nil
}
