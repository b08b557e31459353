// Package manifest loads the declarative fixture description.
//
// A fixtures.yaml file declares which test fixtures exist, what kind of
// sources they are built from, and optional toolchain root overrides:
//
//	toolchain:
//	  sdk_root: /opt/wasi-sdk
//	fixtures:
//	  - name: main
//	    kind: c
//	    sources: [dummy.c, main.c]
//	  - name: calc
//	    kind: wat
//	    sources: [calc.wat]
//
// All paths in a manifest are relative to the manifest's own directory.
// When no manifest file exists, Discover synthesizes one from the sources
// present in a directory, generalizing the "one fixture per .wat file"
// pattern.
package manifest
