package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/wasm-fixtures/errors"
)

const sampleManifest = `
toolchain:
  sdk_root: /opt/wasi-sdk
fixtures:
  - name: main
    kind: c
    sources: [dummy.c, main.c]
  - name: calc
    kind: wat
    sources: [calc.wat]
`

func TestParse(t *testing.T) {
	m, err := Parse([]byte(sampleManifest))
	require.NoError(t, err)

	require.Len(t, m.Fixtures, 2)
	assert.Equal(t, "/opt/wasi-sdk", m.Toolchain.SDKRoot)
	assert.Equal(t, []string{"main", "calc"}, m.Names())

	c := m.Fixtures[0]
	assert.Equal(t, KindC, c.Kind)
	assert.Equal(t, "main.wasm", c.Output)
	assert.Equal(t, []string{"dummy.o", "main.o"}, c.Objects())
	assert.Equal(t, []string{"dummy.o", "main.o", "main.wasm"}, c.Outputs())

	w := m.Fixtures[1]
	assert.Equal(t, "calc.wasm", w.Output)
	assert.Nil(t, w.Objects())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", `fixtures: []`},
		{"unknown kind", "fixtures:\n  - {name: x, kind: rust, sources: [x.rs]}"},
		{"no sources", "fixtures:\n  - {name: x, kind: c, sources: []}"},
		{"wat multiple sources", "fixtures:\n  - {name: x, kind: wat, sources: [a.wat, b.wat]}"},
		{"missing name", "fixtures:\n  - {kind: wat, sources: [a.wat]}"},
		{"duplicate name", "fixtures:\n  - {name: x, kind: wat, sources: [a.wat]}\n  - {name: x, kind: wat, sources: [b.wat]}"},
		{"duplicate output", "fixtures:\n  - {name: a, kind: wat, sources: [a.wat], output: out.wasm}\n  - {name: b, kind: wat, sources: [b.wat], output: out.wasm}"},
		{"unknown field", "fixtures:\n  - {name: x, kind: wat, srcs: [a.wat]}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultName)
	require.NoError(t, os.WriteFile(path, []byte(sampleManifest), 0o644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, dir, m.Dir)
	assert.Equal(t, filepath.Join(dir, "calc.wat"), m.Path("calc.wat"))

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseManifest, Kind: errors.KindIO})
}

func TestFixtureLookup(t *testing.T) {
	m, err := Parse([]byte(sampleManifest))
	require.NoError(t, err)

	f, err := m.Fixture("calc")
	require.NoError(t, err)
	assert.Equal(t, KindWat, f.Kind)

	_, err = m.Fixture("nope")
	require.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseManifest, Kind: errors.KindNotFound})
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"dummy.c", "main.c", "calc.wat", "mem.wat"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	m, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"main", "calc", "mem"}, m.Names())

	c, err := m.Fixture("main")
	require.NoError(t, err)
	assert.Equal(t, []string{"dummy.c", "main.c"}, c.Sources)
	assert.Equal(t, "main.wasm", c.Output)
}

func TestDiscover_Empty(t *testing.T) {
	_, err := Discover(t.TempDir())
	require.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseManifest, Kind: errors.KindNotFound})
}
