// Package rules turns fixture declarations into executable build targets.
//
// Each rule is a thin, fixed invocation of an external tool: clang in
// compile-only mode for C sources, clang as linker driver for the final
// module, and wat2wasm for text-format fixtures. The rules supply flags and
// paths, pass the tool's streams through verbatim, and propagate its exit
// status; nothing is retried or translated.
package rules
