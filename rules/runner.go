package rules

import (
	"context"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"os/exec"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-fixtures/errors"
)

// Runner invokes external tools. The zero value writes tool output to the
// process's own streams, which keeps diagnostics verbatim.
type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes one tool invocation and blocks until it exits. A non-zero
// exit or an unlaunchable tool is returned as a structured error carrying
// the phase, tool, and target; the tool's own diagnostics have already been
// streamed by then.
func (r *Runner) Run(ctx context.Context, phase errors.Phase, target, tool string, args ...string) error {
	Logger().Debug("invoke tool",
		zap.String("phase", string(phase)),
		zap.String("target", target),
		zap.String("tool", tool),
		zap.Strings("args", args))

	cmd := exec.CommandContext(ctx, tool, args...)
	cmd.Stdout = r.stdout()
	cmd.Stderr = r.stderr()

	err := cmd.Run()
	if err == nil {
		return nil
	}
	if stderrors.Is(err, exec.ErrNotFound) || stderrors.Is(err, fs.ErrNotExist) {
		return errors.ToolMissing(phase, tool, err)
	}
	return errors.ToolFailed(phase, tool, target, err)
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func (r *Runner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}
