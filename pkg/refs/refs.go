package refs

import (
	"errors"
	"slices"
)

// ErrSyntax is returned by an [Extractor] when the source does not parse.
// Callers treat such a file as contributing no references.
var ErrSyntax = errors.New("source does not parse")

// Extractor collects the leading path segments referenced by one source file.
type Extractor interface {
	// Extract returns every identifier that appears as the first segment of
	// a path in src. It returns ErrSyntax (possibly wrapped) when src is not
	// valid source for the extractor's grammar.
	Extract(src []byte) (Set, error)
	// Version identifies the extraction rules. Cached results are keyed by it
	// so a rule change invalidates them.
	Version() string
}

// Set is an unordered set of identifiers. Only presence is meaningful.
type Set map[string]struct{}

// NewSet returns a set holding names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add inserts name. Empty names are ignored.
func (s Set) Add(name string) {
	if name != "" {
		s[name] = struct{}{}
	}
}

// Has reports whether name is in the set.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Merge adds every member of o to s.
func (s Set) Merge(o Set) {
	for n := range o {
		s[n] = struct{}{}
	}
}

// Sorted returns the members in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}
