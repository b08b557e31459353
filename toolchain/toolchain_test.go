package toolchain

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func noEnv(string) string { return "" }

func TestResolve_ExplicitOverride(t *testing.T) {
	tc := Config{
		SDKRoot:  "/opt/wasi-sdk",
		WABTRoot: "/opt/wabt",
		BaseDir:  "/fixtures",
		Getenv:   noEnv,
	}.Resolve()

	assert.Equal(t, filepath.Join("/opt/wasi-sdk", "bin", "clang"), tc.Clang)
	assert.Equal(t, filepath.Join("/opt/wasi-sdk", "share", "wasi-sysroot"), tc.Sysroot)
	assert.Equal(t, filepath.Join("/opt/wabt", "bin", "wat2wasm"), tc.Wat2Wasm)
}

func TestResolve_EnvOverride(t *testing.T) {
	env := map[string]string{
		EnvSDKRoot:  "/env/sdk",
		EnvWABTRoot: "/env/wabt",
	}
	tc := Config{
		BaseDir: "/fixtures",
		Getenv:  func(k string) string { return env[k] },
	}.Resolve()

	assert.Equal(t, filepath.Join("/env/sdk", "bin", "clang"), tc.Clang)
	assert.Equal(t, filepath.Join("/env/wabt", "bin", "wat2wasm"), tc.Wat2Wasm)
}

func TestResolve_ExplicitBeatsEnv(t *testing.T) {
	tc := Config{
		SDKRoot: "/explicit/sdk",
		BaseDir: "/fixtures",
		Getenv:  func(string) string { return "/env/sdk" },
	}.Resolve()

	assert.Equal(t, filepath.Join("/explicit/sdk", "bin", "clang"), tc.Clang)
}

func TestResolve_Defaults(t *testing.T) {
	tc := Config{BaseDir: "/fixtures", Getenv: noEnv}.Resolve()

	assert.Equal(t, filepath.Join("/fixtures", "wasi-sdk", "bin", "clang"), tc.Clang)
	assert.Equal(t, filepath.Join("/fixtures", "wasi-sdk", "share", "wasi-sysroot"), tc.Sysroot)
	// wat2wasm resolves from PATH when available, otherwise to the
	// conventional relative location. Either way it is non-empty and
	// ends in wat2wasm.
	assert.Equal(t, "wat2wasm", filepath.Base(tc.Wat2Wasm))
}

// Resolution never stats the filesystem: a nonsense root still resolves,
// and the failure belongs to the first tool invocation instead.
func TestResolve_NoValidation(t *testing.T) {
	tc := Config{SDKRoot: "/does/not/exist", Getenv: noEnv}.Resolve()
	assert.Equal(t, filepath.Join("/does/not/exist", "bin", "clang"), tc.Clang)
}
