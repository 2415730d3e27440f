package deps

import (
	"context"
	"fmt"
)

// Kind classifies a declared dependency.
type Kind int

const (
	Regular     Kind = iota // [dependencies]
	Development             // [dev-dependencies]
	Build                   // [build-dependencies]
)

// AllKinds lists every kind in report order.
var AllKinds = []Kind{Regular, Development, Build}

// String returns the kind as cargo metadata spells it.
func (k Kind) String() string {
	switch k {
	case Regular:
		return "normal"
	case Development:
		return "dev"
	case Build:
		return "build"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Table returns the manifest table that declares dependencies of this kind.
func (k Kind) Table() string {
	switch k {
	case Development:
		return "dev-dependencies"
	case Build:
		return "build-dependencies"
	default:
		return "dependencies"
	}
}

// Label returns the singular noun used in reports ("dev-dependency").
func (k Kind) Label() string {
	switch k {
	case Development:
		return "dev-dependency"
	case Build:
		return "build-dependency"
	default:
		return "dependency"
	}
}

// ParseKind converts a cargo metadata kind ("", "normal", "dev", "build")
// into a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", "normal":
		return Regular, nil
	case "dev":
		return Development, nil
	case "build":
		return Build, nil
	default:
		return Regular, fmt.Errorf("unknown dependency kind %q", s)
	}
}

// KindForTable maps a manifest table name to its Kind.
func KindForTable(table string) (Kind, bool) {
	for _, k := range AllKinds {
		if k.Table() == table {
			return k, true
		}
	}
	return Regular, false
}

// Dependency is one declaration in a manifest.
type Dependency struct {
	Name string // Declared name (the manifest key)
	Kind Kind
}

// Package is one workspace member as reported by a Provider.
type Package struct {
	ID           string       // Provider-specific identifier
	Name         string       // Package name
	ManifestPath string       // Absolute path to the package's Cargo.toml
	Dependencies []Dependency // Declarations in manifest order
	Ignored      []string     // Names never reported as unused
}

// Provider lists the member packages of a workspace.
type Provider interface {
	// Packages returns the workspace members in a stable order.
	Packages(ctx context.Context) ([]Package, error)
	// Name identifies the provider in logs.
	Name() string
}
