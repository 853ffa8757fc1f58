// Package element defines the data model shared by the element command
// dispatch layer.
//
// A Handle identifies a remote DOM node by an opaque identifier and a
// back-reference to the scope it was located from. Handles are mutable: the
// dispatch layer rewrites a handle's identity in place when an element is
// re-located, so callers holding a *Handle always observe the current node.
//
// # Commands
//
// Every command belongs to one of two closed kinds:
//
//   - KindLocator: primitives used to find elements (getElement,
//     getElements) and to emit events. Wait gates are built on top of them,
//     so they must never be gated themselves.
//
//   - KindElement: everything else (click, getText, setValue, ...).
//
// A Wrapper turns a Command and its CommandFunc into a new CommandFunc. The
// resilience and observe packages both provide wrappers; Chain composes them.
package element
