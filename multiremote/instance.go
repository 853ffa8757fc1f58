package multiremote

import (
	"context"
	"fmt"

	"github.com/jonwraymond/elemops/element"
)

// Instance executes commands against one remote browser.
//
// Contract:
// - Concurrency: Call is invoked from its own goroutine; instances must not
//   share mutable state with each other.
// - Context: Call should honor cancellation.
type Instance interface {
	Call(ctx context.Context, cmd element.Command, args ...any) (any, error)
}

// InstanceFunc adapts a function to Instance.
type InstanceFunc func(ctx context.Context, cmd element.Command, args ...any) (any, error)

// Call calls f.
func (f InstanceFunc) Call(ctx context.Context, cmd element.Command, args ...any) (any, error) {
	return f(ctx, cmd, args...)
}

// Element is an Instance bound to one element handle in one browser.
type Element struct {
	handle   *element.Handle
	commands map[string]element.CommandFunc
}

// NewElement binds commands to h. Each command is wrapped once with wrap
// (for example resilience.Interceptor.Wrap); wrap may be nil.
func NewElement(h *element.Handle, commands map[string]element.CommandFunc, wrap element.Wrapper) *Element {
	bound := make(map[string]element.CommandFunc, len(commands))
	for name, fn := range commands {
		if wrap != nil {
			fn = wrap(element.Lookup(name), fn)
		}
		bound[name] = fn
	}
	return &Element{handle: h, commands: bound}
}

// Handle returns the element handle owned by this instance.
func (e *Element) Handle() *element.Handle {
	return e.handle
}

// Call runs cmd against the bound handle.
func (e *Element) Call(ctx context.Context, cmd element.Command, args ...any) (any, error) {
	fn, ok := e.commands[cmd.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.Name)
	}
	return fn(ctx, e.handle, args...)
}
