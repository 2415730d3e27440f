// Package rust provides the workspace providers for Cargo projects.
//
// # Overview
//
// Two [deps.Provider] implementations list the member packages of a
// workspace together with their declared dependencies:
//
//   - [CargoMetadata] runs `cargo metadata --format-version 1 --no-deps` and
//     decodes its JSON output. This is the authoritative source and the
//     default whenever cargo is on PATH.
//   - [Workspace] reads Cargo.toml files directly with BurntSushi/toml and
//     expands `[workspace] members` globs itself. It needs no toolchain and
//     is used with --offline-metadata or when cargo is not installed.
//
// # Ignore lists
//
// Both providers read `ignored` arrays from
// `[package.metadata.cargo-dead]` and `[workspace.metadata.cargo-dead]`.
// Names listed there end up in [deps.Package.Ignored] and are never
// reported:
//
//	[package.metadata.cargo-dead]
//	ignored = ["tracing-attributes"]
//
// # Example
//
//	p := &rust.CargoMetadata{ManifestPath: "Cargo.toml"}
//	pkgs, err := p.Packages(ctx)
//
// [deps.Provider]: github.com/matzehuels/cargodead/pkg/deps.Provider
package rust
