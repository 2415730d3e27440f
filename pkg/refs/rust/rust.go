// Package rust extracts crate references from Rust source using the
// tree-sitter Rust grammar.
//
// A reference is the leading segment of any qualified path: expression and
// type paths, use trees, attribute paths, `extern crate` items, and `a::b`
// token sequences inside macro bodies and attribute arguments. The relative
// segments inside a nested use list (`bar` in `use foo::{bar::Baz}`) are not
// references, and neither are `self`, `super`, `crate` or metavariables.
package rust

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tsrust "github.com/tree-sitter/tree-sitter-rust/bindings/go"

	"github.com/matzehuels/cargodead/pkg/refs"
)

// Ext is the file extension of Rust source files.
const Ext = ".rs"

// version is bumped whenever the extraction rules change.
const version = "rust-ts/2"

var language = sitter.NewLanguage(tsrust.Language())

// Extractor implements [refs.Extractor] for Rust.
type Extractor struct{}

// New returns a Rust extractor.
func New() *Extractor { return &Extractor{} }

func (e *Extractor) Version() string { return version }

// Extract parses src and returns its leading path segments. A file with any
// syntax error yields [refs.ErrSyntax].
func (e *Extractor) Extract(src []byte) (refs.Set, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("load rust grammar: %w", err)
	}

	tree := parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("parse: %w", refs.ErrSyntax)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, refs.ErrSyntax
	}

	w := &walker{src: src, set: refs.Set{}}
	w.visit(root, false)
	return w.set, nil
}

var _ refs.Extractor = (*Extractor)(nil)
