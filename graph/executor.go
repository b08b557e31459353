package graph

import (
	"context"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-fixtures/errors"
)

// Status classifies what the executor did with a target.
type Status int

const (
	// StatusRan means the target was stale and its action ran successfully.
	StatusRan Status = iota
	// StatusFresh means every output was up to date; nothing ran.
	StatusFresh
	// StatusFailed means the action returned an error.
	StatusFailed
	// StatusSkipped means the target was abandoned after an earlier failure.
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusRan:
		return "built"
	case StatusFresh:
		return "up to date"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	}
	return "unknown"
}

// Result records the outcome of one target.
type Result struct {
	Target   string
	Status   Status
	Err      error
	Duration time.Duration
}

// Summary aggregates the results of one executor run, in completion order.
type Summary struct {
	Results []Result
}

// Counts returns how many targets ran, were fresh, failed, or were skipped.
func (s *Summary) Counts() (ran, fresh, failed, skipped int) {
	for _, r := range s.Results {
		switch r.Status {
		case StatusRan:
			ran++
		case StatusFresh:
			fresh++
		case StatusFailed:
			failed++
		case StatusSkipped:
			skipped++
		}
	}
	return
}

// Err returns the first failure, or nil when every target succeeded.
func (s *Summary) Err() error {
	for _, r := range s.Results {
		if r.Status == StatusFailed {
			return r.Err
		}
	}
	return nil
}

// Executor runs a graph with bounded parallelism and stop-on-first-failure
// semantics: independent targets run concurrently, a target starts only after
// all of its prerequisites succeed, and nothing new starts once any target
// has failed. In-flight tool invocations are not interrupted.
type Executor struct {
	// Jobs bounds concurrent target actions. Zero or negative means
	// runtime.NumCPU().
	Jobs int
}

// Run executes the targets reachable from roots. A nil roots slice builds
// the whole graph. The returned summary is complete even on failure; the
// error mirrors Summary.Err.
func (e *Executor) Run(ctx context.Context, g *Graph, roots []string) (*Summary, error) {
	sorted, err := g.Sort(roots)
	if err != nil {
		return nil, err
	}

	jobs := e.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if jobs > len(sorted) {
		jobs = len(sorted)
	}

	// Scheduler state, guarded by mu.
	var (
		mu         sync.Mutex
		summary    Summary
		stopped    bool
		firstErr   error
		pending    = make(map[string]int, len(sorted))
		dependents = make(map[string][]string, len(sorted))
	)

	inSet := make(map[string]bool, len(sorted))
	for _, t := range sorted {
		inSet[t.Name] = true
	}
	for _, t := range sorted {
		for _, dep := range t.Deps {
			if inSet[dep] {
				pending[t.Name]++
				dependents[dep] = append(dependents[dep], t.Name)
			}
		}
	}

	ready := make(chan *Target, len(sorted))
	var wg sync.WaitGroup
	wg.Add(len(sorted))

	record := func(t *Target, status Status, err error, d time.Duration) {
		mu.Lock()
		summary.Results = append(summary.Results, Result{
			Target:   t.Name,
			Status:   status,
			Err:      err,
			Duration: d,
		})
		if status == StatusFailed {
			stopped = true
			if firstErr == nil {
				firstErr = err
			}
		}
		for _, dep := range dependents[t.Name] {
			pending[dep]--
			if pending[dep] == 0 {
				ready <- g.targets[dep]
			}
		}
		mu.Unlock()
		wg.Done()
	}

	work := func(t *Target) {
		mu.Lock()
		abandoned := stopped
		cause := firstErr
		mu.Unlock()

		if abandoned || ctx.Err() != nil {
			if cause == nil {
				cause = ctx.Err()
			}
			record(t, StatusSkipped, errors.Canceled(t.Name, cause), 0)
			return
		}

		if !t.Stale() {
			Logger().Debug("target up to date", zap.String("target", t.Name))
			record(t, StatusFresh, nil, 0)
			return
		}

		start := time.Now()
		var err error
		if t.Action != nil {
			err = t.Action(ctx)
		}
		elapsed := time.Since(start)

		if err != nil {
			Logger().Debug("target failed",
				zap.String("target", t.Name),
				zap.Duration("elapsed", elapsed),
				zap.Error(err))
			record(t, StatusFailed, err, elapsed)
			return
		}

		Logger().Debug("target built",
			zap.String("target", t.Name),
			zap.Duration("elapsed", elapsed))
		record(t, StatusRan, nil, elapsed)
	}

	var workers sync.WaitGroup
	for i := 0; i < jobs; i++ {
		workers.Add(1)
		go func() {
			defer workers.Done()
			for t := range ready {
				work(t)
			}
		}()
	}

	// Seed targets with no unfinished prerequisites.
	mu.Lock()
	for _, t := range sorted {
		if pending[t.Name] == 0 {
			ready <- t
		}
	}
	mu.Unlock()

	wg.Wait()
	close(ready)
	workers.Wait()

	if err := summary.Err(); err != nil {
		return &summary, err
	}
	if err := ctx.Err(); err != nil {
		return &summary, errors.Canceled("build", err)
	}
	return &summary, nil
}
