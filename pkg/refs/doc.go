// Package refs defines the grammar-agnostic side of reference extraction.
//
// An [Extractor] turns the text of one source file into a [Set] of the
// identifiers found in leading-segment position of path expressions: for
// `foo::bar::Baz` that is `foo`, the position where an external crate name
// appears. Implementations work on a syntax tree, never on raw text, so
// comments and string literals contribute nothing.
//
// The Rust implementation lives in [github.com/matzehuels/cargodead/pkg/refs/rust].
// Reconciliation code only depends on this package, so the grammar-specific
// parser can be swapped without touching it.
package refs
