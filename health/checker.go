package health

import (
	"context"
	"fmt"
	"time"
)

// Status represents the health status of a component.
type Status int

const (
	// StatusHealthy indicates the component is functioning normally.
	StatusHealthy Status = iota
	// StatusDegraded indicates the component responds, but slowly.
	StatusDegraded
	// StatusUnhealthy indicates the component is unreachable.
	StatusUnhealthy
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Result contains the outcome of a health check.
type Result struct {
	Name      string
	Status    Status
	Message   string
	Duration  time.Duration
	Timestamp time.Time
	Error     error
}

// Healthy creates a healthy result.
func Healthy(message string) Result {
	return Result{Status: StatusHealthy, Message: message, Timestamp: time.Now()}
}

// Degraded creates a degraded result.
func Degraded(message string) Result {
	return Result{Status: StatusDegraded, Message: message, Timestamp: time.Now()}
}

// Unhealthy creates an unhealthy result.
func Unhealthy(message string, err error) Result {
	return Result{Status: StatusUnhealthy, Message: message, Error: err, Timestamp: time.Now()}
}

// Checker is the interface for health checks.
type Checker interface {
	Name() string
	Check(ctx context.Context) Result
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc struct {
	name string
	fn   func(context.Context) Result
}

// NewCheckerFunc creates a new CheckerFunc.
func NewCheckerFunc(name string, fn func(context.Context) Result) *CheckerFunc {
	return &CheckerFunc{name: name, fn: fn}
}

// Name returns the name of this checker.
func (f *CheckerFunc) Name() string {
	return f.name
}

// Check performs the health check.
func (f *CheckerFunc) Check(ctx context.Context) Result {
	return f.fn(ctx)
}

// Pinger is anything that can prove it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingChecker grades a Pinger: an error is unhealthy, a reply slower than
// the threshold is degraded.
type PingChecker struct {
	name      string
	target    Pinger
	threshold time.Duration
}

// NewPingChecker creates a PingChecker. A zero threshold never degrades.
func NewPingChecker(name string, target Pinger, threshold time.Duration) *PingChecker {
	return &PingChecker{name: name, target: target, threshold: threshold}
}

// Name returns the checker name.
func (c *PingChecker) Name() string {
	return c.name
}

// Check pings the target.
func (c *PingChecker) Check(ctx context.Context) Result {
	start := time.Now()
	err := c.target.Ping(ctx)
	elapsed := time.Since(start)

	var r Result
	switch {
	case err != nil:
		r = Unhealthy("ping failed", err)
	case c.threshold > 0 && elapsed > c.threshold:
		r = Degraded(fmt.Sprintf("ping took %s", elapsed.Round(time.Millisecond)))
	default:
		r = Healthy("reachable")
	}
	r.Duration = elapsed
	return r
}
