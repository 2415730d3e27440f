// Package deps models declared Cargo dependencies and reconciles them
// against the identifiers a package's source actually references.
//
// # Overview
//
// A workspace [Provider] supplies the member packages, each with its
// manifest path and its declared [Dependency] list. For one package:
//
//  1. [Classify] splits the declarations into one ordered name list per [Kind]
//  2. [Resolve] subtracts the used identifiers for every kind the [Filter]
//     selects, producing [Unused]
//
// Both steps are pure functions; nothing here touches the file system.
//
// # Kinds
//
// Cargo distinguishes regular (`[dependencies]`), development
// (`[dev-dependencies]`) and build (`[build-dependencies]`) dependencies.
// A crate may be declared under several kinds; each declaration is tracked
// separately and never merged.
//
// # Name matching
//
// By default a declared name matches a used identifier after folding `-`
// to `_`, the rule cargo itself applies to library target names, so
// `serde-json` is used by `serde_json::to_string`. [ResolveOptions.ExactNames]
// switches to exact-string matching.
//
// # Providers
//
// Implementations live in [github.com/matzehuels/cargodead/pkg/deps/rust]:
// one runs `cargo metadata`, the other reads Cargo.toml files directly.
package deps
