package rules

import (
	"os"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-fixtures/errors"
	"github.com/wippyai/wasm-fixtures/graph"
)

// CleanList returns the files Clean would remove: exactly the outputs the
// graph's rules produce, never sources. The list is the graph's declared
// outputs, so a file no rule produces can never be deleted.
func CleanList(g *graph.Graph) []string {
	return g.Outputs()
}

// Clean removes every artifact the graph produces. It is idempotent:
// already-absent files are not an error. The removed paths are returned.
func Clean(g *graph.Graph) ([]string, error) {
	var removed []string
	for _, out := range CleanList(g) {
		err := os.Remove(out)
		switch {
		case err == nil:
			Logger().Debug("removed artifact", zap.String("path", out))
			removed = append(removed, out)
		case os.IsNotExist(err):
			// Already gone. Clean stays a no-op for it.
		default:
			return removed, errors.IO(errors.PhaseClean, "remove "+out, err)
		}
	}
	return removed, nil
}
