// Package verify checks produced fixture artifacts.
//
// The build treats .wasm outputs as opaque, but a truncated or corrupt file
// from a misbehaving toolchain is cheaper to catch here than in the test
// suite consuming the fixture. Module compiles the artifact with wazero to
// confirm it is a well-formed module; Run additionally instantiates it with
// WASI and executes its _start, for smoke-testing command fixtures.
package verify

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"

	"github.com/wippyai/wasm-fixtures/errors"
)

// Module compiles the wasm binary at path, reporting whether it is a
// well-formed module. The binary is not instantiated and nothing runs.
func Module(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.IO(errors.PhaseVerify, "read "+path, err)
	}

	r := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfigInterpreter())
	defer r.Close(ctx)

	compiled, err := r.CompileModule(ctx, data)
	if err != nil {
		return errors.New(errors.PhaseVerify, errors.KindInvalidData).
			Target(filepath.Base(path)).
			Detail("not a valid wasm module").
			Cause(err).
			Build()
	}
	return compiled.Close(ctx)
}

// Run instantiates the module at path with WASI preview1 and executes its
// _start export when present, streaming guest output to stdout and stderr.
// A clean guest exit (code zero) is success.
func Run(ctx context.Context, path string, stdout, stderr io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.IO(errors.PhaseRun, "read "+path, err)
	}

	r := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfigInterpreter())
	defer r.Close(ctx)

	wasi_snapshot_preview1.MustInstantiate(ctx, r)

	cfg := wazero.NewModuleConfig().
		WithName(filepath.Base(path)).
		WithStdout(stdout).
		WithStderr(stderr)

	mod, err := r.InstantiateWithConfig(ctx, data, cfg)
	if err != nil {
		var exitErr *sys.ExitError
		if stderrors.As(err, &exitErr) && exitErr.ExitCode() == 0 {
			return nil
		}
		return errors.New(errors.PhaseRun, errors.KindToolFailed).
			Target(filepath.Base(path)).
			Detail("module execution failed").
			Cause(err).
			Build()
	}
	return mod.Close(ctx)
}
