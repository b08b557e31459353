package graph

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/wasm-fixtures/errors"
)

// writeTarget makes a target whose action writes its single output and
// counts invocations.
func writeTarget(name, out string, inputs, deps []string, calls *atomic.Int32) *Target {
	return &Target{
		Name:    name,
		Outputs: []string{out},
		Inputs:  inputs,
		Deps:    deps,
		Action: func(ctx context.Context) error {
			calls.Add(1)
			return os.WriteFile(out, []byte(name), 0o644)
		},
	}
}

func buildGraph(t *testing.T, dir string, calls *atomic.Int32) *Graph {
	t.Helper()

	srcDummy := filepath.Join(dir, "dummy.c")
	srcMain := filepath.Join(dir, "main.c")
	for _, src := range []string{srcDummy, srcMain} {
		require.NoError(t, os.WriteFile(src, []byte("int x;"), 0o644))
	}

	objDummy := filepath.Join(dir, "dummy.o")
	objMain := filepath.Join(dir, "main.o")
	mod := filepath.Join(dir, "main.wasm")

	g := New()
	require.NoError(t, g.Add(writeTarget("dummy.o", objDummy, []string{srcDummy}, nil, calls)))
	require.NoError(t, g.Add(writeTarget("main.o", objMain, []string{srcMain}, nil, calls)))
	require.NoError(t, g.Add(writeTarget("main.wasm", mod, []string{objDummy, objMain}, []string{"dummy.o", "main.o"}, calls)))
	return g
}

func TestExecutor_Run(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	g := buildGraph(t, dir, &calls)

	sum, err := (&Executor{Jobs: 2}).Run(context.Background(), g, nil)
	require.NoError(t, err)

	ran, fresh, failed, skipped := sum.Counts()
	assert.Equal(t, 3, ran)
	assert.Zero(t, fresh+failed+skipped)
	assert.Equal(t, int32(3), calls.Load())

	for _, out := range []string{"dummy.o", "main.o", "main.wasm"} {
		assert.FileExists(t, filepath.Join(dir, out))
	}
}

// A second run with nothing changed performs zero tool invocations.
func TestExecutor_RerunIsNoop(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	g := buildGraph(t, dir, &calls)

	_, err := (&Executor{}).Run(context.Background(), g, nil)
	require.NoError(t, err)
	require.Equal(t, int32(3), calls.Load())

	sum, err := (&Executor{}).Run(context.Background(), g, nil)
	require.NoError(t, err)

	ran, fresh, _, _ := sum.Counts()
	assert.Zero(t, ran)
	assert.Equal(t, 3, fresh)
	assert.Equal(t, int32(3), calls.Load(), "no additional invocations expected")
}

// Deleting one output rebuilds exactly that target and its dependents.
func TestExecutor_PartialRebuild(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	g := buildGraph(t, dir, &calls)

	_, err := (&Executor{}).Run(context.Background(), g, nil)
	require.NoError(t, err)
	calls.Store(0)

	require.NoError(t, os.Remove(filepath.Join(dir, "main.o")))

	sum, err := (&Executor{}).Run(context.Background(), g, nil)
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load(), "main.o and main.wasm only")
	for _, r := range sum.Results {
		switch r.Target {
		case "dummy.o":
			assert.Equal(t, StatusFresh, r.Status)
		default:
			assert.Equal(t, StatusRan, r.Status)
		}
	}
}

func TestExecutor_StopOnFirstFailure(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.c")
	require.NoError(t, os.WriteFile(src, []byte("int x;"), 0o644))

	boom := errors.ToolFailed(errors.PhaseCompile, "clang", "broken.o", nil)

	g := New()
	require.NoError(t, g.Add(&Target{
		Name:    "broken.o",
		Inputs:  []string{src},
		Outputs: []string{filepath.Join(dir, "broken.o")},
		Action:  func(context.Context) error { return boom },
	}))
	require.NoError(t, g.Add(&Target{
		Name:    "broken.wasm",
		Deps:    []string{"broken.o"},
		Outputs: []string{filepath.Join(dir, "broken.wasm")},
		Action: func(context.Context) error {
			t.Error("dependent of failed target must not run")
			return nil
		},
	}))

	sum, err := (&Executor{Jobs: 1}).Run(context.Background(), g, nil)
	require.ErrorIs(t, err, boom)

	_, _, failed, skipped := sum.Counts()
	assert.Equal(t, 1, failed)
	assert.Equal(t, 1, skipped)
	assert.NoFileExists(t, filepath.Join(dir, "broken.wasm"))
}

func TestExecutor_SubsetRoots(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	g := buildGraph(t, dir, &calls)

	calcSrc := filepath.Join(dir, "calc.wat")
	require.NoError(t, os.WriteFile(calcSrc, []byte("(module)"), 0o644))
	require.NoError(t, g.Add(writeTarget("calc.wasm", filepath.Join(dir, "calc.wasm"), []string{calcSrc}, nil, &calls)))

	_, err := (&Executor{}).Run(context.Background(), g, []string{"calc.wasm"})
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.NoFileExists(t, filepath.Join(dir, "main.wasm"))
}

func TestExecutor_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	g := buildGraph(t, dir, &calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum, err := (&Executor{}).Run(ctx, g, nil)
	require.Error(t, err)

	_, _, _, skipped := sum.Counts()
	assert.Equal(t, 3, skipped)
	assert.Zero(t, calls.Load())
}
