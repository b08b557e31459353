package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which build stage the error occurred in
type Phase string

const (
	PhaseResolve  Phase = "resolve"  // toolchain path resolution
	PhaseManifest Phase = "manifest" // fixture manifest loading
	PhasePlan     Phase = "plan"     // build graph construction
	PhaseCompile  Phase = "compile"  // C source to object file
	PhaseLink     Phase = "link"     // object files to wasm module
	PhaseAssemble Phase = "assemble" // wat text to wasm binary
	PhaseVerify   Phase = "verify"   // produced artifact validation
	PhaseClean    Phase = "clean"    // artifact removal
	PhaseRun      Phase = "run"      // fixture smoke execution
)

// Kind categorizes the error
type Kind string

const (
	KindToolMissing     Kind = "tool_missing"
	KindToolFailed      Kind = "tool_failed"
	KindInvalidManifest Kind = "invalid_manifest"
	KindDuplicate       Kind = "duplicate"
	KindNotFound        Kind = "not_found"
	KindCycle           Kind = "cycle"
	KindInvalidData     Kind = "invalid_data"
	KindIO              Kind = "io"
	KindCanceled        Kind = "canceled"
)

// Error is the structured error type used throughout the build system
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Target string // graph target or fixture name
	Tool   string // external tool path, when one was involved
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Target != "" {
		b.WriteString(": target ")
		b.WriteString(e.Target)
	}

	if e.Tool != "" {
		if e.Target != "" {
			b.WriteString(", tool ")
		} else {
			b.WriteString(": tool ")
		}
		b.WriteString(e.Tool)
	}

	if e.Detail != "" {
		if e.Target != "" || e.Tool != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Target sets the graph target or fixture name
func (b *Builder) Target(name string) *Builder {
	b.err.Target = name
	return b
}

// Tool sets the external tool path
func (b *Builder) Tool(path string) *Builder {
	b.err.Tool = path
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// ToolMissing creates a missing-tool error: the resolved path does not exist
// or is not executable.
func ToolMissing(phase Phase, tool string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindToolMissing,
		Tool:   tool,
		Detail: "tool not found or not executable",
		Cause:  cause,
	}
}

// ToolFailed creates an error for a non-zero exit from an external tool.
// The tool's own diagnostics travel in cause, verbatim.
func ToolFailed(phase Phase, tool, target string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindToolFailed,
		Tool:   tool,
		Target: target,
		Cause:  cause,
	}
}

// InvalidManifest creates a manifest validation error
func InvalidManifest(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseManifest,
		Kind:   KindInvalidManifest,
		Detail: detail,
		Cause:  cause,
	}
}

// Duplicate creates an error for a name or output declared twice
func Duplicate(what, name string) *Error {
	return &Error{
		Phase:  PhaseManifest,
		Kind:   KindDuplicate,
		Detail: fmt.Sprintf("%s %q declared more than once", what, name),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Cycle creates an error for a dependency cycle in the build graph
func Cycle(path []string) *Error {
	return &Error{
		Phase:  PhasePlan,
		Kind:   KindCycle,
		Detail: "dependency cycle: " + strings.Join(path, " -> "),
	}
}

// IO wraps a filesystem error
func IO(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIO,
		Detail: detail,
		Cause:  cause,
	}
}

// Canceled creates an error for a target abandoned after an earlier failure
func Canceled(target string, cause error) *Error {
	return &Error{
		Phase:  PhasePlan,
		Kind:   KindCanceled,
		Target: target,
		Detail: "build stopped after earlier failure",
		Cause:  cause,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}
