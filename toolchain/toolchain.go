// Package toolchain resolves the external tool paths the build delegates to.
//
// Resolution happens once, at build-graph construction time, with a fixed
// precedence: explicit override, environment variable, then a default path
// relative to the manifest's directory. No tool existence check is made here;
// a missing tool surfaces as an invocation failure when its rule first runs.
package toolchain

import (
	"os"
	"os/exec"
	"path/filepath"
)

// Environment variables honored when no explicit override is given.
const (
	EnvSDKRoot  = "WASI_SDK_PATH"
	EnvWABTRoot = "WABT_PATH"
)

// Default root directories, relative to the manifest directory.
const (
	defaultSDKDir  = "wasi-sdk"
	defaultWABTDir = "wabt"
)

// Target is the triple passed to clang for every compile and link.
const Target = "wasm32-wasi"

// Config carries the override inputs for tool resolution.
type Config struct {
	// SDKRoot and WABTRoot are explicit root overrides (CLI flag or
	// manifest). They win over everything else.
	SDKRoot  string
	WABTRoot string

	// BaseDir anchors the default relative roots. Usually the manifest
	// directory.
	BaseDir string

	// Getenv is the environment lookup, injectable for tests.
	// Defaults to os.Getenv.
	Getenv func(string) string
}

// Toolchain holds the resolved tool paths used by the build rules.
type Toolchain struct {
	// Clang is the WASI SDK C compiler, also used as the linker driver.
	Clang string
	// Sysroot is the WASI sysroot passed via --sysroot.
	Sysroot string
	// Wat2Wasm is the text-to-binary assembler.
	Wat2Wasm string
}

// Resolve computes the tool paths from the configured overrides.
func (c Config) Resolve() Toolchain {
	getenv := c.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	sdk := firstNonEmpty(c.SDKRoot, getenv(EnvSDKRoot), filepath.Join(c.BaseDir, defaultSDKDir))

	var tc Toolchain
	tc.Clang = filepath.Join(sdk, "bin", "clang")
	tc.Sysroot = filepath.Join(sdk, "share", "wasi-sysroot")

	switch wabt := firstNonEmpty(c.WABTRoot, getenv(EnvWABTRoot)); {
	case wabt != "":
		tc.Wat2Wasm = filepath.Join(wabt, "bin", "wat2wasm")
	default:
		// No root configured: prefer a wat2wasm already on PATH before
		// falling back to the conventional relative location.
		if path, err := exec.LookPath("wat2wasm"); err == nil {
			tc.Wat2Wasm = path
		} else {
			tc.Wat2Wasm = filepath.Join(c.BaseDir, defaultWABTDir, "bin", "wat2wasm")
		}
	}

	return tc
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
