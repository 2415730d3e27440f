package rust

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"strings"

	"github.com/matzehuels/cargodead/pkg/deps"
	"github.com/matzehuels/cargodead/pkg/errors"
)

// CargoMetadata lists workspace members by running `cargo metadata`.
type CargoMetadata struct {
	// ManifestPath is passed as --manifest-path when set. Otherwise cargo
	// discovers the workspace from the working directory.
	ManifestPath string
	// Cargo is the cargo binary. Empty means $CARGO, then "cargo".
	Cargo string
}

// Name implements [deps.Provider].
func (c *CargoMetadata) Name() string { return "cargo-metadata" }

// Packages implements [deps.Provider].
func (c *CargoMetadata) Packages(ctx context.Context) ([]deps.Package, error) {
	args := []string{"metadata", "--format-version", "1", "--no-deps"}
	if c.ManifestPath != "" {
		args = append(args, "--manifest-path", c.ManifestPath)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.binary(), args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "cargo metadata failed"
		}
		return nil, errors.Wrap(errors.ErrCodeMetadataFailed, err, "%s", msg)
	}
	return decodeMetadata(stdout.Bytes())
}

func (c *CargoMetadata) binary() string {
	if c.Cargo != "" {
		return c.Cargo
	}
	if env := os.Getenv("CARGO"); env != "" {
		return env
	}
	return "cargo"
}

// metadata mirrors the parts of `cargo metadata` format version 1 that are
// needed here.
type metadata struct {
	Packages         []metadataPackage `json:"packages"`
	WorkspaceMembers []string          `json:"workspace_members"`
	Metadata         toolMetadata      `json:"metadata"`
}

type metadataPackage struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	ManifestPath string               `json:"manifest_path"`
	Dependencies []metadataDependency `json:"dependencies"`
	Metadata     toolMetadata         `json:"metadata"`
}

type metadataDependency struct {
	Name   string  `json:"name"`
	Rename *string `json:"rename"`
	Kind   *string `json:"kind"`
}

// toolMetadata is a `[package.metadata]` or `[workspace.metadata]` table.
type toolMetadata struct {
	CargoDead ignoreConfig `json:"cargo-dead" toml:"cargo-dead"`
}

type ignoreConfig struct {
	Ignored []string `json:"ignored" toml:"ignored"`
}

// decodeMetadata converts cargo metadata JSON into packages, keeping only
// workspace members in the order cargo lists them.
func decodeMetadata(data []byte) ([]deps.Package, error) {
	var m metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMetadataFailed, err, "decode cargo metadata output")
	}

	members := make(map[string]bool, len(m.WorkspaceMembers))
	for _, id := range m.WorkspaceMembers {
		members[id] = true
	}

	var out []deps.Package
	for _, p := range m.Packages {
		if !members[p.ID] {
			continue
		}
		pkg := deps.Package{
			ID:           p.ID,
			Name:         p.Name,
			ManifestPath: p.ManifestPath,
		}
		for _, d := range p.Dependencies {
			kind := ""
			if d.Kind != nil {
				kind = *d.Kind
			}
			k, err := deps.ParseKind(kind)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeMetadataFailed, err, "package %s", p.Name)
			}
			name := d.Name
			if d.Rename != nil && *d.Rename != "" {
				name = *d.Rename
			}
			pkg.Dependencies = append(pkg.Dependencies, deps.Dependency{Name: name, Kind: k})
		}
		ignored, err := mergeIgnored(m.Metadata.CargoDead.Ignored, p.Metadata.CargoDead.Ignored)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "package %s: metadata.cargo-dead", p.Name)
		}
		pkg.Ignored = ignored
		out = append(out, pkg)
	}
	return out, nil
}

// mergeIgnored concatenates ignore lists, validating and de-duplicating
// the names.
func mergeIgnored(lists ...[]string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, name := range list {
			if err := errors.ValidateCrateName(name); err != nil {
				return nil, err
			}
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out, nil
}
