package health

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Aggregator runs a set of named checkers.
type Aggregator struct {
	timeout  time.Duration
	mu       sync.RWMutex
	checkers map[string]Checker
	order    []string // Maintains registration order
}

// NewAggregator creates an aggregator. Each CheckAll is bounded by timeout,
// 10 seconds when zero.
func NewAggregator(timeout ...time.Duration) *Aggregator {
	t := 10 * time.Second
	if len(timeout) > 0 && timeout[0] > 0 {
		t = timeout[0]
	}
	return &Aggregator{
		timeout:  t,
		checkers: make(map[string]Checker),
		order:    make([]string, 0),
	}
}

// Register adds a checker. Re-registering a name keeps its position.
func (a *Aggregator) Register(name string, checker Checker) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.checkers[name]; !exists {
		a.order = append(a.order, name)
	}
	a.checkers[name] = checker
}

// Unregister removes a checker.
func (a *Aggregator) Unregister(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.checkers, name)
	for i, n := range a.order {
		if n == name {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
}

// CheckerNames returns checker names in registration order.
func (a *Aggregator) CheckerNames() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	names := make([]string, len(a.order))
	copy(names, a.order)
	return names
}

// Check runs a single named checker.
func (a *Aggregator) Check(ctx context.Context, name string) (Result, error) {
	a.mu.RLock()
	checker, ok := a.checkers[name]
	a.mu.RUnlock()

	if !ok {
		return Result{}, ErrCheckerNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return runCheck(ctx, name, checker), nil
}

// CheckAll runs every checker concurrently. Results follow registration
// order.
func (a *Aggregator) CheckAll(ctx context.Context) []Result {
	a.mu.RLock()
	names := make([]string, len(a.order))
	checkers := make([]Checker, len(a.order))
	for i, name := range a.order {
		names[i] = name
		checkers[i] = a.checkers[name]
	}
	a.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	results := make([]Result, len(checkers))
	var g errgroup.Group
	for i := range checkers {
		g.Go(func() error {
			results[i] = runCheck(ctx, names[i], checkers[i])
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// OverallStatus is the worst status in results. No results is healthy.
func OverallStatus(results []Result) Status {
	overall := StatusHealthy
	for _, r := range results {
		if r.Status > overall {
			overall = r.Status
		}
	}
	return overall
}

// Ready runs every check and returns ErrNotReady, joined with each
// unhealthy component's error, when any is unhealthy. Degraded components
// are ready.
func (a *Aggregator) Ready(ctx context.Context) error {
	var errs []error
	for _, r := range a.CheckAll(ctx) {
		if r.Status != StatusUnhealthy {
			continue
		}
		cause := r.Error
		if cause == nil {
			cause = errors.New(r.Message)
		}
		errs = append(errs, fmt.Errorf("%s: %w", r.Name, cause))
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(append([]error{ErrNotReady}, errs...)...)
}

func runCheck(ctx context.Context, name string, checker Checker) Result {
	start := time.Now()
	resultCh := make(chan Result, 1)

	go func() {
		resultCh <- checker.Check(ctx)
	}()

	var result Result
	select {
	case result = <-resultCh:
		if result.Duration == 0 {
			result.Duration = time.Since(start)
		}
		if result.Timestamp.IsZero() {
			result.Timestamp = start
		}
	case <-ctx.Done():
		result = Result{
			Status:    StatusUnhealthy,
			Message:   "check timed out",
			Error:     ErrCheckTimeout,
			Duration:  time.Since(start),
			Timestamp: start,
		}
	}
	result.Name = name
	return result
}
