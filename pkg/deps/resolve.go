package deps

import (
	"strings"

	"github.com/matzehuels/cargodead/pkg/errors"
	"github.com/matzehuels/cargodead/pkg/refs"
)

// Filter narrows analysis to a single kind. With no field set every kind is
// active.
type Filter struct {
	OnlyRegular bool
	OnlyDev     bool
	OnlyBuild   bool
}

// Validate rejects selections with more than one field set.
func (f Filter) Validate() error {
	n := 0
	for _, b := range []bool{f.OnlyRegular, f.OnlyDev, f.OnlyBuild} {
		if b {
			n++
		}
	}
	if n > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "only one of --only-regular, --only-dev, --only-build may be set")
	}
	return nil
}

// Active reports whether kind k is analyzed under f.
func (f Filter) Active(k Kind) bool {
	switch k {
	case Regular:
		return f.OnlyRegular || (!f.OnlyDev && !f.OnlyBuild)
	case Development:
		return f.OnlyDev || (!f.OnlyRegular && !f.OnlyBuild)
	case Build:
		return f.OnlyBuild || (!f.OnlyRegular && !f.OnlyDev)
	}
	return false
}

// Kinds returns the active kinds in report order. It is never empty.
func (f Filter) Kinds() []Kind {
	var out []Kind
	for _, k := range AllKinds {
		if f.Active(k) {
			out = append(out, k)
		}
	}
	return out
}

// ResolveOptions tunes how declared names are matched.
type ResolveOptions struct {
	ExactNames bool     // Disable `-` to `_` folding
	Ignored    []string // Declared names that are never unused
}

// Unused holds unused dependency names per kind, in declaration order.
type Unused map[Kind][]string

// Empty reports whether no kind has an unused dependency.
func (u Unused) Empty() bool {
	return u.Count() == 0
}

// Count returns the total number of unused dependencies.
func (u Unused) Count() int {
	n := 0
	for _, names := range u {
		n += len(names)
	}
	return n
}

// Resolve computes declared minus used for every kind active under f.
// Inactive kinds have no entry.
func Resolve(declared Declared, used refs.Set, f Filter, opts ResolveOptions) Unused {
	ignored := make(map[string]bool, len(opts.Ignored))
	for _, n := range opts.Ignored {
		ignored[n] = true
	}

	out := make(Unused)
	for _, k := range f.Kinds() {
		for _, name := range declared[k] {
			if ignored[name] || used.Has(SourceName(name, opts.ExactNames)) {
				continue
			}
			out[k] = append(out[k], name)
		}
	}
	return out
}

// SourceName returns the identifier a declared name is referenced by in
// source. Unless exact is set, hyphens become underscores.
func SourceName(declared string, exact bool) string {
	if exact {
		return declared
	}
	return strings.ReplaceAll(declared, "-", "_")
}
