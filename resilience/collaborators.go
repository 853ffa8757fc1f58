package resilience

import (
	"context"

	"github.com/jonwraymond/elemops/element"
)

// Waiter is the implicit-wait gate. It blocks until the element behind h is
// present and returns a live handle for it.
//
// Contract:
// - Context: must honor cancellation/deadlines.
// - Errors: owns its own timeout policy; errors are propagated unchanged.
type Waiter interface {
	Wait(ctx context.Context, h *element.Handle, cmd element.Command) (*element.Handle, error)
}

// Refetcher re-locates a stale element using its original locator.
type Refetcher interface {
	Refetch(ctx context.Context, h *element.Handle, cmd element.Command) (*element.Handle, error)
}

// ClickableWaiter blocks until the element can receive pointer input.
type ClickableWaiter interface {
	WaitUntilClickable(ctx context.Context, h *element.Handle) error
}

// Snapshotter returns the element's outer HTML for diagnostics.
type Snapshotter interface {
	HTML(ctx context.Context, h *element.Handle) (string, error)
}

// StalePredicate reports whether a raw error means the element went stale.
// It must be pure.
type StalePredicate func(err error) bool

// Driver bundles every collaborator. Browser drivers usually implement all
// of them on one type.
type Driver interface {
	Waiter
	Refetcher
	ClickableWaiter
	Snapshotter
	IsStale(err error) bool
}

// WaiterFunc adapts a function to Waiter.
type WaiterFunc func(ctx context.Context, h *element.Handle, cmd element.Command) (*element.Handle, error)

// Wait calls f.
func (f WaiterFunc) Wait(ctx context.Context, h *element.Handle, cmd element.Command) (*element.Handle, error) {
	return f(ctx, h, cmd)
}

// RefetcherFunc adapts a function to Refetcher.
type RefetcherFunc func(ctx context.Context, h *element.Handle, cmd element.Command) (*element.Handle, error)

// Refetch calls f.
func (f RefetcherFunc) Refetch(ctx context.Context, h *element.Handle, cmd element.Command) (*element.Handle, error) {
	return f(ctx, h, cmd)
}

// ClickableWaiterFunc adapts a function to ClickableWaiter.
type ClickableWaiterFunc func(ctx context.Context, h *element.Handle) error

// WaitUntilClickable calls f.
func (f ClickableWaiterFunc) WaitUntilClickable(ctx context.Context, h *element.Handle) error {
	return f(ctx, h)
}

// SnapshotterFunc adapts a function to Snapshotter.
type SnapshotterFunc func(ctx context.Context, h *element.Handle) (string, error)

// HTML calls f.
func (f SnapshotterFunc) HTML(ctx context.Context, h *element.Handle) (string, error) {
	return f(ctx, h)
}

// passThrough is the default Waiter: the handle is assumed live.
type passThrough struct{}

func (passThrough) Wait(ctx context.Context, h *element.Handle, cmd element.Command) (*element.Handle, error) {
	return h, nil
}
