package rules

import (
	"context"

	"github.com/wippyai/wasm-fixtures/errors"
	"github.com/wippyai/wasm-fixtures/graph"
	"github.com/wippyai/wasm-fixtures/manifest"
	"github.com/wippyai/wasm-fixtures/toolchain"
)

// Builder assembles the build graph for a manifest with an already-resolved
// toolchain.
type Builder struct {
	Manifest  *manifest.Manifest
	Toolchain toolchain.Toolchain
	Runner    *Runner
}

// Graph constructs the full dependency graph: one compile target per C
// source, one link target per C fixture, one assemble target per wat
// fixture, and a grouping target per fixture name so fixtures can be
// requested by name.
func (b *Builder) Graph() (*graph.Graph, error) {
	g := graph.New()
	for i := range b.Manifest.Fixtures {
		f := &b.Manifest.Fixtures[i]
		var err error
		switch f.Kind {
		case manifest.KindC:
			err = b.addC(g, f)
		case manifest.KindWat:
			err = b.addWat(g, f)
		default:
			err = errors.InvalidManifest("fixture "+f.Name+": unknown kind "+string(f.Kind), nil)
		}
		if err != nil {
			return nil, err
		}
	}
	return g, nil
}

// addC adds compile targets for each source and a link target for the
// module. Object compilation is independent per source, so the executor is
// free to run them in parallel; the link serializes behind all of them.
func (b *Builder) addC(g *graph.Graph, f *manifest.Fixture) error {
	objs := f.Objects()
	objPaths := make([]string, len(objs))

	for i, src := range f.Sources {
		srcPath := b.Manifest.Path(src)
		objPath := b.Manifest.Path(objs[i])
		objPaths[i] = objPath

		if err := g.Add(&graph.Target{
			Name:    objs[i],
			Inputs:  []string{srcPath},
			Outputs: []string{objPath},
			Action:  b.compileC(objs[i], srcPath, objPath, f.Verbose),
		}); err != nil {
			return err
		}
	}

	outPath := b.Manifest.Path(f.Output)
	if err := g.Add(&graph.Target{
		Name:    f.Output,
		Inputs:  objPaths,
		Outputs: []string{outPath},
		Deps:    objs,
		Action:  b.linkWasm(f.Output, objPaths, outPath),
	}); err != nil {
		return err
	}

	return b.addAlias(g, f)
}

// addWat adds one assemble target per wat fixture.
func (b *Builder) addWat(g *graph.Graph, f *manifest.Fixture) error {
	srcPath := b.Manifest.Path(f.Sources[0])
	outPath := b.Manifest.Path(f.Output)

	if err := g.Add(&graph.Target{
		Name:    f.Output,
		Inputs:  []string{srcPath},
		Outputs: []string{outPath},
		Action:  b.assembleWat(f.Output, srcPath, outPath),
	}); err != nil {
		return err
	}
	return b.addAlias(g, f)
}

// addAlias gives the fixture's name as a buildable target when it differs
// from the output file name.
func (b *Builder) addAlias(g *graph.Graph, f *manifest.Fixture) error {
	if f.Name == f.Output {
		return nil
	}
	return g.Add(&graph.Target{
		Name: f.Name,
		Deps: []string{f.Output},
	})
}

// compileC builds a clang compile-only invocation:
// clang -c -g [-v] --target=wasm32-wasi --sysroot <sysroot> -o <obj> <src>
func (b *Builder) compileC(target, src, obj string, verbose bool) graph.Action {
	args := []string{"-c", "-g"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args,
		"--target="+toolchain.Target,
		"--sysroot", b.Toolchain.Sysroot,
		"-o", obj,
		src,
	)
	return func(ctx context.Context) error {
		return b.Runner.Run(ctx, errors.PhaseCompile, target, b.Toolchain.Clang, args...)
	}
}

// linkWasm builds the link invocation, clang acting as linker driver with
// the same target triple and sysroot as the compile step.
func (b *Builder) linkWasm(target string, objs []string, out string) graph.Action {
	args := []string{
		"--target=" + toolchain.Target,
		"--sysroot", b.Toolchain.Sysroot,
		"-o", out,
	}
	args = append(args, objs...)
	return func(ctx context.Context) error {
		return b.Runner.Run(ctx, errors.PhaseLink, target, b.Toolchain.Clang, args...)
	}
}

// assembleWat builds the text-to-binary invocation:
// wat2wasm <src> -o <out>
func (b *Builder) assembleWat(target, src, out string) graph.Action {
	return func(ctx context.Context) error {
		return b.Runner.Run(ctx, errors.PhaseAssemble, target, b.Toolchain.Wat2Wasm, src, "-o", out)
	}
}
