package fixtures

import (
	"go.uber.org/zap"

	"github.com/wippyai/wasm-fixtures/graph"
	"github.com/wippyai/wasm-fixtures/rules"
)

// SetLogger installs l on every package that logs.
// Packages default to a no-op logger.
func SetLogger(l *zap.Logger) {
	graph.SetLogger(l.Named("graph"))
	rules.SetLogger(l.Named("rules"))
}
