// Package rodsession backs element handles with a Chrome DevTools session
// driven by go-rod.
//
// A Session wraps one rod page. It implements element.Session and
// element.Scope, satisfies resilience.Driver (implicit wait, re-location,
// interactability wait, HTML snapshots, stale detection), and exposes the
// standard element commands through Commands.
//
// Element identifiers are CDP remote object IDs. rod failures are
// translated into element.ProtocolError values so the dispatch layer can
// classify them by name.
package rodsession
