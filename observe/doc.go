// Package observe provides observability primitives for element commands.
//
// It is a pure instrumentation library: no execution, no transport, no I/O
// beyond exporter setup. Middleware implements element.Wrapper so it can be
// chained with the resilience interceptor.
package observe
