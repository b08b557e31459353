package fixtures

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/wippyai/wasm-fixtures/graph"
	"github.com/wippyai/wasm-fixtures/manifest"
	"github.com/wippyai/wasm-fixtures/rules"
	"github.com/wippyai/wasm-fixtures/toolchain"
	"github.com/wippyai/wasm-fixtures/verify"
)

// Options configures planning. The zero value plans the current directory
// with default toolchain resolution.
type Options struct {
	// Dir is the fixture directory. Defaults to ".".
	Dir string

	// ManifestPath names an explicit manifest file. When empty,
	// Dir/fixtures.yaml is used if present, otherwise fixtures are
	// discovered from the sources in Dir.
	ManifestPath string

	// SDKRoot and WABTRoot override toolchain roots, winning over the
	// manifest and the environment.
	SDKRoot  string
	WABTRoot string

	// Jobs bounds build parallelism. Zero means one worker per CPU.
	Jobs int

	// Verify validates each built fixture module with wazero.
	Verify bool

	// Runner overrides tool invocation, used by tests.
	Runner *rules.Runner
}

// BuildPlan is a fully-resolved build: manifest, toolchain, and dependency
// graph. Construct it once with Plan, then Build, Clean, or Run against it.
type BuildPlan struct {
	Manifest  *manifest.Manifest
	Toolchain toolchain.Toolchain
	Graph     *graph.Graph

	opts Options
}

// Plan loads the manifest, resolves the toolchain, and constructs the
// dependency graph. All configuration is resolved here; later calls only
// execute.
func Plan(opts Options) (*BuildPlan, error) {
	if opts.Dir == "" {
		opts.Dir = "."
	}

	m, err := loadManifest(opts)
	if err != nil {
		return nil, err
	}

	tc := toolchain.Config{
		SDKRoot:  firstNonEmpty(opts.SDKRoot, m.Toolchain.SDKRoot),
		WABTRoot: firstNonEmpty(opts.WABTRoot, m.Toolchain.WABTRoot),
		BaseDir:  m.Dir,
	}.Resolve()

	runner := opts.Runner
	if runner == nil {
		runner = &rules.Runner{}
	}

	g, err := (&rules.Builder{
		Manifest:  m,
		Toolchain: tc,
		Runner:    runner,
	}).Graph()
	if err != nil {
		return nil, err
	}

	return &BuildPlan{
		Manifest:  m,
		Toolchain: tc,
		Graph:     g,
		opts:      opts,
	}, nil
}

func loadManifest(opts Options) (*manifest.Manifest, error) {
	if opts.ManifestPath != "" {
		return manifest.Load(opts.ManifestPath)
	}
	def := filepath.Join(opts.Dir, manifest.DefaultName)
	if _, err := os.Stat(def); err == nil {
		return manifest.Load(def)
	}
	return manifest.Discover(opts.Dir)
}

// Build executes the graph for the named fixtures, or for every fixture
// when names is nil. With Options.Verify set, each requested fixture's
// module is validated after a successful build.
func (p *BuildPlan) Build(ctx context.Context, names []string) (*graph.Summary, error) {
	roots, outputs, err := p.resolveNames(names)
	if err != nil {
		return nil, err
	}

	summary, err := (&graph.Executor{Jobs: p.opts.Jobs}).Run(ctx, p.Graph, roots)
	if err != nil {
		return summary, err
	}

	if p.opts.Verify {
		for _, out := range outputs {
			if err := verify.Module(ctx, p.Manifest.Path(out)); err != nil {
				return summary, err
			}
		}
	}
	return summary, nil
}

// Clean removes every artifact the graph produces; absent files are not an
// error. The removed paths are returned.
func (p *BuildPlan) Clean() ([]string, error) {
	return rules.Clean(p.Graph)
}

// CleanList returns what Clean would remove, without removing anything.
func (p *BuildPlan) CleanList() []string {
	return rules.CleanList(p.Graph)
}

// Run builds the named fixture if stale, then executes its module with WASI,
// streaming guest output to stdout and stderr.
func (p *BuildPlan) Run(ctx context.Context, name string, stdout, stderr io.Writer) error {
	f, err := p.Manifest.Fixture(name)
	if err != nil {
		return err
	}
	if _, err := p.Build(ctx, []string{name}); err != nil {
		return err
	}
	return verify.Run(ctx, p.Manifest.Path(f.Output), stdout, stderr)
}

// resolveNames maps fixture names to graph roots and their module outputs.
// Nil means all fixtures, preserving declaration order.
func (p *BuildPlan) resolveNames(names []string) (roots []string, outputs []string, err error) {
	if names == nil {
		for i := range p.Manifest.Fixtures {
			f := &p.Manifest.Fixtures[i]
			roots = append(roots, f.Name)
			outputs = append(outputs, f.Output)
		}
		return roots, outputs, nil
	}
	for _, name := range names {
		f, err := p.Manifest.Fixture(name)
		if err != nil {
			return nil, nil, err
		}
		roots = append(roots, f.Name)
		outputs = append(outputs, f.Output)
	}
	return roots, outputs, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
