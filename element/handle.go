package element

import (
	"strconv"
	"strings"
)

// Capabilities describes the browser behind a session.
type Capabilities struct {
	BrowserName    string
	BrowserVersion string
	PlatformName   string
}

// IsSafari reports whether the session drives Safari.
func (c Capabilities) IsSafari() bool {
	return strings.EqualFold(c.BrowserName, "safari")
}

// Session is a remote browser session.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
type Session interface {
	// SessionID returns the remote session identifier.
	SessionID() string

	// Capabilities returns the capabilities negotiated for the session.
	Capabilities() Capabilities
}

// Scope is anything an element can be located from: a session, or another
// element when locating within a subtree.
type Scope interface {
	// Session returns the session that owns the scope, or nil if unknown.
	Session() Session
}

// Locator describes how an element was found so it can be found again.
type Locator struct {
	Using string // css selector | xpath | link text | ...
	Value string
	// Index is the position within a getElements result, or -1 when the
	// element came from a single-element lookup.
	Index int
}

// String returns "using=value" or "using=value[index]".
func (l Locator) String() string {
	s := l.Using + "=" + l.Value
	if l.Index >= 0 {
		s += "[" + strconv.Itoa(l.Index) + "]"
	}
	return s
}

// Handle identifies a remote DOM node.
//
// A Handle is owned by the caller and mutated in place by the dispatch layer:
// ID is replaced when the wait gate resolves a live node, and ID and Parent
// are both replaced when a stale node is re-located. No two commands may run
// against the same Handle concurrently.
type Handle struct {
	ID      string
	Parent  Scope
	Locator Locator
}

// New creates a handle for a node found through loc within parent.
func New(id string, parent Scope, loc Locator) *Handle {
	return &Handle{ID: id, Parent: parent, Locator: loc}
}

// Session walks the parent chain up to the owning session.
func (h *Handle) Session() Session {
	if h == nil || h.Parent == nil {
		return nil
	}
	return h.Parent.Session()
}

// Capabilities returns the owning session's capabilities, or the zero value
// when the handle is detached.
func (h *Handle) Capabilities() Capabilities {
	if s := h.Session(); s != nil {
		return s.Capabilities()
	}
	return Capabilities{}
}

// Adopt copies the identifier of live into h. Parent is left untouched.
func (h *Handle) Adopt(live *Handle) {
	if live == nil || live == h {
		return
	}
	h.ID = live.ID
}

// Rebind copies both the identifier and the parent of fresh into h.
func (h *Handle) Rebind(fresh *Handle) {
	if fresh == nil || fresh == h {
		return
	}
	h.ID = fresh.ID
	h.Parent = fresh.Parent
}

// Found reports whether the handle refers to a located node.
func (h *Handle) Found() bool {
	return h != nil && h.ID != ""
}
