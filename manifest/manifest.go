package manifest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/wasm-fixtures/errors"
)

// DefaultName is the manifest file looked up when none is given explicitly.
const DefaultName = "fixtures.yaml"

// Kind selects the rule set used to build a fixture.
type Kind string

const (
	// KindC compiles C sources to objects with a WASI SDK clang and links
	// them into a wasm module.
	KindC Kind = "c"
	// KindWat assembles a WebAssembly text file into a binary module.
	KindWat Kind = "wat"
)

// Toolchain holds per-manifest toolchain root overrides.
// Empty fields fall back to environment variables, then to defaults
// relative to the manifest directory.
type Toolchain struct {
	SDKRoot  string `yaml:"sdk_root"`
	WABTRoot string `yaml:"wabt_root"`
}

// Fixture declares one build artifact and the sources it derives from.
type Fixture struct {
	Name    string   `yaml:"name"`
	Kind    Kind     `yaml:"kind"`
	Sources []string `yaml:"sources"`
	Output  string   `yaml:"output"`  // defaults to Name + ".wasm"
	Verbose bool     `yaml:"verbose"` // pass -v to the compiler
}

// Objects returns the object file path for each C source, which is the
// source path with its extension changed to .o. Nil for non-C fixtures.
func (f *Fixture) Objects() []string {
	if f.Kind != KindC {
		return nil
	}
	objs := make([]string, len(f.Sources))
	for i, src := range f.Sources {
		objs[i] = strings.TrimSuffix(src, filepath.Ext(src)) + ".o"
	}
	return objs
}

// Outputs returns every artifact this fixture produces: intermediate
// objects first, the final module last.
func (f *Fixture) Outputs() []string {
	return append(f.Objects(), f.Output)
}

// Manifest is the parsed fixture description.
type Manifest struct {
	Toolchain Toolchain `yaml:"toolchain"`
	Fixtures  []Fixture `yaml:"fixtures"`

	// Dir is the directory the manifest was loaded from. All fixture
	// paths are interpreted relative to it.
	Dir string `yaml:"-"`
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.IO(errors.PhaseManifest, "read "+path, err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, err
	}
	m.Dir = filepath.Dir(path)
	return m, nil
}

// Parse decodes manifest bytes. Unknown fields are rejected so typos in
// fixture declarations fail loudly instead of silently building nothing.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, errors.InvalidManifest("decode yaml", err)
	}

	m.applyDefaults()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) applyDefaults() {
	for i := range m.Fixtures {
		f := &m.Fixtures[i]
		if f.Output == "" && f.Name != "" {
			f.Output = f.Name + ".wasm"
		}
	}
}

// Validate checks structural invariants: known kinds, non-empty sources,
// unique names, and exactly one producer per output path.
func (m *Manifest) Validate() error {
	if len(m.Fixtures) == 0 {
		return errors.InvalidManifest("no fixtures declared", nil)
	}

	names := make(map[string]bool, len(m.Fixtures))
	outputs := make(map[string]bool)

	for i := range m.Fixtures {
		f := &m.Fixtures[i]
		if f.Name == "" {
			return errors.InvalidManifest("fixture without a name", nil)
		}
		if names[f.Name] {
			return errors.Duplicate("fixture", f.Name)
		}
		names[f.Name] = true

		switch f.Kind {
		case KindC:
			if len(f.Sources) == 0 {
				return errors.InvalidManifest("fixture "+f.Name+": no sources", nil)
			}
		case KindWat:
			if len(f.Sources) != 1 {
				return errors.InvalidManifest("fixture "+f.Name+": wat fixtures take exactly one source", nil)
			}
		default:
			return errors.InvalidManifest("fixture "+f.Name+": unknown kind "+string(f.Kind), nil)
		}

		for _, out := range f.Outputs() {
			if outputs[out] {
				return errors.Duplicate("output", out)
			}
			outputs[out] = true
		}
	}
	return nil
}

// Fixture returns the named fixture declaration.
func (m *Manifest) Fixture(name string) (*Fixture, error) {
	for i := range m.Fixtures {
		if m.Fixtures[i].Name == name {
			return &m.Fixtures[i], nil
		}
	}
	return nil, errors.NotFound(errors.PhaseManifest, "fixture", name)
}

// Names returns the declared fixture names in declaration order.
func (m *Manifest) Names() []string {
	names := make([]string, len(m.Fixtures))
	for i := range m.Fixtures {
		names[i] = m.Fixtures[i].Name
	}
	return names
}

// Path resolves a manifest-relative path against the manifest directory.
func (m *Manifest) Path(rel string) string {
	if m.Dir == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(m.Dir, rel)
}
