package manifest

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/wippyai/wasm-fixtures/errors"
)

// Discover synthesizes a manifest from the sources present in dir: one wat
// fixture per *.wat file, and a single C fixture covering every *.c file.
// The C fixture is named after main.c when present, otherwise after the
// first source alphabetically.
func Discover(dir string) (*Manifest, error) {
	wats, err := filepath.Glob(filepath.Join(dir, "*.wat"))
	if err != nil {
		return nil, errors.IO(errors.PhaseManifest, "glob *.wat", err)
	}
	cs, err := filepath.Glob(filepath.Join(dir, "*.c"))
	if err != nil {
		return nil, errors.IO(errors.PhaseManifest, "glob *.c", err)
	}
	sort.Strings(wats)
	sort.Strings(cs)

	m := &Manifest{Dir: dir}

	if len(cs) > 0 {
		name := baseName(cs[0])
		sources := make([]string, len(cs))
		for i, src := range cs {
			sources[i] = filepath.Base(src)
			if baseName(src) == "main" {
				name = "main"
			}
		}
		m.Fixtures = append(m.Fixtures, Fixture{
			Name:    name,
			Kind:    KindC,
			Sources: sources,
			Output:  name + ".wasm",
		})
	}

	for _, src := range wats {
		name := baseName(src)
		m.Fixtures = append(m.Fixtures, Fixture{
			Name:    name,
			Kind:    KindWat,
			Sources: []string{filepath.Base(src)},
			Output:  name + ".wasm",
		})
	}

	if len(m.Fixtures) == 0 {
		return nil, errors.NotFound(errors.PhaseManifest, "fixture sources in", dir)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
