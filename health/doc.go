// Package health reports whether the browser instances behind a run are
// reachable.
//
// A Checker probes one component. PingChecker adapts anything with a
// Ping(ctx) method, such as a rodsession.Session, and grades it by latency.
// An Aggregator runs its checkers concurrently and reports results in
// registration order; Ready turns that into a preflight error.
//
//	agg := health.NewAggregator()
//	agg.Register("chrome", health.NewPingChecker("chrome", session, time.Second))
//	if err := agg.Ready(ctx); err != nil {
//	    return err
//	}
//
// The HTTP handlers expose the same checks for liveness and readiness probes.
package health
