package resilience

import (
	"context"
	"fmt"

	"github.com/jonwraymond/elemops/element"
	"github.com/jonwraymond/elemops/observe"
)

// Interceptor wraps element commands with implicit waiting and bounded
// recovery from stale and non-interactable elements.
//
// Contract:
//   - Concurrency: an Interceptor is safe for concurrent use, but commands
//     against the same Handle must be serialized by the caller.
//   - Errors: wait-gate errors and unclassified command errors are returned
//     unchanged.
type Interceptor struct {
	waiter    Waiter
	refetcher Refetcher
	clickable ClickableWaiter
	snapshot  Snapshotter
	isStale   StalePredicate
	wrap      element.Wrapper
	logger    observe.Logger
	metrics   observe.Metrics
}

// InterceptorOption configures an Interceptor.
type InterceptorOption func(*Interceptor)

// NewInterceptor creates a new Interceptor.
//
// Without a Waiter, handles are assumed live. Without a Refetcher or a
// ClickableWaiter the matching recovery is disabled and the original error is
// returned.
func NewInterceptor(opts ...InterceptorOption) *Interceptor {
	ic := &Interceptor{
		waiter:  passThrough{},
		logger:  observe.NewNoopLogger(),
		metrics: observe.NewNoopMetrics(),
	}
	for _, opt := range opts {
		opt(ic)
	}
	return ic
}

// WithWaiter sets the implicit-wait gate.
func WithWaiter(w Waiter) InterceptorOption {
	return func(ic *Interceptor) {
		if w != nil {
			ic.waiter = w
		}
	}
}

// WithRefetcher sets the stale element resolver.
func WithRefetcher(r Refetcher) InterceptorOption {
	return func(ic *Interceptor) {
		ic.refetcher = r
	}
}

// WithClickableWaiter sets the resolver used for non-interactable elements.
func WithClickableWaiter(c ClickableWaiter) InterceptorOption {
	return func(ic *Interceptor) {
		ic.clickable = c
	}
}

// WithSnapshotter sets the HTML source for diagnostic errors.
func WithSnapshotter(s Snapshotter) InterceptorOption {
	return func(ic *Interceptor) {
		ic.snapshot = s
	}
}

// WithStalePredicate adds a classifier for driver-specific stale errors.
func WithStalePredicate(p StalePredicate) InterceptorOption {
	return func(ic *Interceptor) {
		ic.isStale = p
	}
}

// WithDriver sets every collaborator from d. A nil driver is ignored.
func WithDriver(d Driver) InterceptorOption {
	return func(ic *Interceptor) {
		if d == nil {
			return
		}
		ic.waiter = d
		ic.refetcher = d
		ic.clickable = d
		ic.snapshot = d
		ic.isStale = d.IsStale
	}
}

// WithCommandWrapper wraps every attempt of the underlying command, such as
// the observe middleware to trace retries individually.
func WithCommandWrapper(w element.Wrapper) InterceptorOption {
	return func(ic *Interceptor) {
		ic.wrap = w
	}
}

// WithLogger sets the logger for recovery events.
func WithLogger(l observe.Logger) InterceptorOption {
	return func(ic *Interceptor) {
		if l != nil {
			ic.logger = l
		}
	}
}

// WithMetrics sets the recorder for recovery attempts.
func WithMetrics(m observe.Metrics) InterceptorOption {
	return func(ic *Interceptor) {
		if m != nil {
			ic.metrics = m
		}
	}
}

// Wrap returns fn guarded by the interceptor. Its signature matches
// element.Wrapper.
func (ic *Interceptor) Wrap(cmd element.Command, fn element.CommandFunc) element.CommandFunc {
	if fn == nil {
		return func(ctx context.Context, h *element.Handle, args ...any) (any, error) {
			return nil, fmt.Errorf("%w: %s", ErrNilCommand, cmd.Name)
		}
	}

	attempt := fn
	if ic.wrap != nil {
		attempt = ic.wrap(cmd, fn)
	}

	switch cmd.Kind {
	case element.KindLocator:
		// The wait gate is built on locator primitives.
		return attempt
	default:
		return func(ctx context.Context, h *element.Handle, args ...any) (any, error) {
			return ic.execute(ctx, cmd, attempt, h, args)
		}
	}
}

func (ic *Interceptor) execute(ctx context.Context, cmd element.Command, fn element.CommandFunc, h *element.Handle, args []any) (any, error) {
	if h == nil {
		return nil, element.ErrNilHandle
	}

	live, err := ic.waiter.Wait(ctx, h, cmd)
	if err != nil {
		return nil, err
	}
	h.Adopt(live)

	value, err := fn(ctx, h, args...)

	out := ic.classify(h, value, err)
	switch out.kind {
	case outcomeOK:
		return out.value, nil
	case outcomeNotInteractable:
		return ic.recoverInteractable(ctx, cmd, fn, h, args, out.err)
	case outcomeStale:
		return ic.recoverStale(ctx, cmd, fn, h, args, out.err)
	default:
		return out.value, out.err
	}
}

func (ic *Interceptor) recoverInteractable(ctx context.Context, cmd element.Command, fn element.CommandFunc, h *element.Handle, args []any, cause error) (any, error) {
	if ic.clickable == nil {
		return nil, cause
	}
	meta := observe.MetaFor(cmd, h)
	log := ic.logger.WithCommand(meta)

	if waitErr := ic.clickable.WaitUntilClickable(ctx, h); waitErr != nil {
		ierr := &InteractabilityError{Cause: cause, WaitErr: waitErr}
		ierr.HTML, ierr.SnapshotErr = ic.snapshotHTML(ctx, h)

		ic.metrics.RecordRecovery(ctx, meta, outcomeNotInteractable.String(), ierr)
		log.Warn(ctx, "element did not become interactable", observe.Err(waitErr)...)
		return nil, ierr
	}

	log.Debug(ctx, "element became interactable, retrying")
	value, err := fn(ctx, h, args...)
	ic.metrics.RecordRecovery(ctx, meta, outcomeNotInteractable.String(), err)
	return value, err
}

func (ic *Interceptor) recoverStale(ctx context.Context, cmd element.Command, fn element.CommandFunc, h *element.Handle, args []any, cause error) (any, error) {
	if ic.refetcher == nil {
		return nil, cause
	}
	meta := observe.MetaFor(cmd, h)
	log := ic.logger.WithCommand(meta)

	fresh, err := ic.refetcher.Refetch(ctx, h, cmd)
	if err == nil && fresh == nil {
		err = element.ErrNoSuchElement
	}
	if err != nil {
		err = fmt.Errorf("%w: refetch failed: %w", cause, err)
		ic.metrics.RecordRecovery(ctx, meta, outcomeStale.String(), err)
		log.Warn(ctx, "stale element could not be re-located", observe.Err(err)...)
		return nil, err
	}

	log.Debug(ctx, "stale element re-located, retrying",
		field("element.previous_id", h.ID), field("element.id", fresh.ID))
	h.Rebind(fresh)

	value, err := fn(ctx, h, args...)
	ic.metrics.RecordRecovery(ctx, meta, outcomeStale.String(), err)
	return value, err
}

// snapshotHTML never fails: on error it returns a placeholder and the error.
func (ic *Interceptor) snapshotHTML(ctx context.Context, h *element.Handle) (string, error) {
	if ic.snapshot == nil {
		return snapshotUnavailable, nil
	}
	html, err := ic.snapshot.HTML(ctx, h)
	if err != nil {
		return snapshotUnavailable, err
	}
	return html, nil
}

func field(key string, value any) observe.Field {
	return observe.Field{Key: key, Value: value}
}
