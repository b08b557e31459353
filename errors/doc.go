// Package errors provides structured error types for the fixture build system.
//
// Errors are categorized by Phase (which build stage failed) and Kind (error
// category). The Error type carries the target being built, the external tool
// involved, and the cause chain — external tool diagnostics are never
// rewritten, only wrapped.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseCompile, errors.KindToolFailed).
//		Target("main.o").
//		Tool("/opt/wasi-sdk/bin/clang").
//		Cause(exitErr).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.ToolMissing(errors.PhaseAssemble, "wat2wasm", lookErr)
//	err := errors.Duplicate("output", "calc.wasm")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
