// Package pkg provides the libraries behind cargo-dead, a tool that finds
// dependencies a Cargo package declares but never uses.
//
// # Overview
//
// The pkg directory is organized by pipeline stage:
//
//  1. [source] - Walk a package's src/, tests/ and build.rs
//  2. [refs] - Extract leading path segments from Rust source (tree-sitter)
//  3. [usage] - Union per-file references, memoized in [cache]
//  4. [deps] - Classify declarations by kind and resolve the unused set
//  5. [manifest] - Remove entries from Cargo.toml without reformatting it
//  6. [pipeline] - Run the stages for every workspace member
//
// # Architecture
//
// The data flow for one workspace member:
//
//	deps.Provider (cargo metadata | Cargo.toml)
//	         ↓
//	source.Inputs → refs.Extractor → usage.Aggregator
//	         ↓
//	deps.Classify → deps.Resolve
//	         ↓
//	manifest.Document.Apply (fix only)
//
// Steps before the manifest edit never write anything.
//
// # Supporting Packages
//
//   - [errors] - Coded errors for failures that abort a run
//   - [observability] - Hooks for analysis and cache events
//   - [buildinfo] - Version information set at build time
//
// [source]: github.com/matzehuels/cargodead/pkg/source
// [refs]: github.com/matzehuels/cargodead/pkg/refs
// [usage]: github.com/matzehuels/cargodead/pkg/usage
// [cache]: github.com/matzehuels/cargodead/pkg/cache
// [deps]: github.com/matzehuels/cargodead/pkg/deps
// [manifest]: github.com/matzehuels/cargodead/pkg/manifest
// [pipeline]: github.com/matzehuels/cargodead/pkg/pipeline
// [errors]: github.com/matzehuels/cargodead/pkg/errors
// [observability]: github.com/matzehuels/cargodead/pkg/observability
// [buildinfo]: github.com/matzehuels/cargodead/pkg/buildinfo
package pkg
