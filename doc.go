// Package fixtures builds WebAssembly test fixtures by delegating to
// external toolchains.
//
// Two kinds of fixture are supported: C sources cross-compiled and linked
// into a wasm module with a WASI SDK clang, and WebAssembly text files
// assembled to binary with wat2wasm. The library plans an explicit
// dependency graph from a declarative manifest, rebuilds only stale
// artifacts, and surfaces external tool diagnostics verbatim.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	fixtures/            Root package: plan and drive a fixture build
//	├── manifest/        fixtures.yaml loading and source discovery
//	├── toolchain/       external tool path resolution (WASI SDK, wabt)
//	├── graph/           dependency DAG, staleness, parallel executor
//	├── rules/           compile, link, assemble, and clean rules
//	├── verify/          artifact validation and smoke-run via wazero
//	└── errors/          structured error types
//
// # Quick Start
//
// Build every declared fixture in a directory:
//
//	plan, err := fixtures.Plan(fixtures.Options{Dir: "testdata"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	summary, err := plan.Build(ctx, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Toolchain roots resolve once, at planning time: explicit option, then
// manifest override, then environment (WASI_SDK_PATH, WABT_PATH), then a
// default path relative to the manifest directory. Missing tools are not
// detected at planning time; the first invocation fails instead, with the
// tool's own diagnostics.
package fixtures
