// Package graph provides the dependency graph and executor for fixture builds.
//
// It models each build step as a Target with declared inputs, outputs, and
// prerequisite targets, enabling the executor to determine exactly which
// steps must rerun. Staleness is explicit mtime comparison: a target runs iff
// any output is missing or older than any input.
package graph

import (
	"context"
	"os"
	"time"

	"github.com/wippyai/wasm-fixtures/errors"
)

// Action performs a target's work, typically one external tool invocation.
type Action func(ctx context.Context) error

// Target is one node in the build graph.
// A target with a nil Action is a grouping node: it never runs anything and
// exists only to give a set of prerequisites a buildable name.
type Target struct {
	Name    string
	Outputs []string // files this target writes; exactly one producer each
	Inputs  []string // files staleness is judged against
	Deps    []string // prerequisite target names
	Action  Action
}

// Stale reports whether the target must run: any declared output is missing
// or older than the newest input. A missing input counts as stale so the
// failure surfaces from the tool invocation, not from the freshness check.
func (t *Target) Stale() bool {
	if t.Action == nil {
		return false
	}
	if len(t.Outputs) == 0 {
		return true
	}

	var newest time.Time
	for _, in := range t.Inputs {
		info, err := os.Stat(in)
		if err != nil {
			return true
		}
		if mt := info.ModTime(); mt.After(newest) {
			newest = mt
		}
	}

	for _, out := range t.Outputs {
		info, err := os.Stat(out)
		if err != nil {
			return true
		}
		if info.ModTime().Before(newest) {
			return true
		}
	}
	return false
}

// Graph is the dependency graph of a fixture build.
// Not safe for concurrent mutation; safe for concurrent reads after
// construction.
type Graph struct {
	targets map[string]*Target
	order   []string // insertion order, keeps planning deterministic
}

// New creates an empty graph
func New() *Graph {
	return &Graph{
		targets: make(map[string]*Target),
	}
}

// Add registers a target. Duplicate target names and outputs with more than
// one producer are rejected.
func (g *Graph) Add(t *Target) error {
	if _, exists := g.targets[t.Name]; exists {
		return errors.New(errors.PhasePlan, errors.KindDuplicate).
			Detail("target %q declared more than once", t.Name).Build()
	}
	for _, out := range t.Outputs {
		for _, name := range g.order {
			for _, existing := range g.targets[name].Outputs {
				if existing == out {
					return errors.New(errors.PhasePlan, errors.KindDuplicate).
						Detail("output %q has more than one producer", out).Build()
				}
			}
		}
	}
	g.targets[t.Name] = t
	g.order = append(g.order, t.Name)
	return nil
}

// Target returns the named target.
func (g *Graph) Target(name string) (*Target, bool) {
	t, ok := g.targets[name]
	return t, ok
}

// Targets returns all targets in insertion order.
func (g *Graph) Targets() []*Target {
	result := make([]*Target, len(g.order))
	for i, name := range g.order {
		result[i] = g.targets[name]
	}
	return result
}

// Outputs returns every declared output in insertion order. This is the
// authoritative cleanup list: only files a rule produces appear here.
func (g *Graph) Outputs() []string {
	var outs []string
	for _, name := range g.order {
		outs = append(outs, g.targets[name].Outputs...)
	}
	return outs
}

// Sort returns the targets reachable from roots in dependency order
// (prerequisites before dependents). A nil roots slice means every target.
// Unknown targets and dependency cycles are errors.
func (g *Graph) Sort(roots []string) ([]*Target, error) {
	if roots == nil {
		roots = g.order
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(g.targets))
	var sorted []*Target
	var path []string

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return errors.Cycle(append(path, name))
		}

		t, ok := g.targets[name]
		if !ok {
			return errors.NotFound(errors.PhasePlan, "target", name)
		}

		state[name] = visiting
		path = append(path, name)
		for _, dep := range t.Deps {
			if err := visit(dep); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		state[name] = done
		sorted = append(sorted, t)
		return nil
	}

	for _, root := range roots {
		if err := visit(root); err != nil {
			return nil, err
		}
	}
	return sorted, nil
}
