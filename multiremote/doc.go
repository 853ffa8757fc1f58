// Package multiremote drives several independent browser instances through a
// single facade.
//
// A Facade holds an ordered set of named instances. FanOut broadcasts one
// command with the same arguments to every instance concurrently and
// aggregates the results in registration order. If any instance fails, the
// aggregate fails with the first error observed and all partial results are
// discarded.
//
// The facade adds no retry or recovery of its own. Per-instance resilience
// comes from the instances themselves, typically Element instances whose
// commands are wrapped by a resilience.Interceptor.
package multiremote
