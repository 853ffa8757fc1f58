package resilience

import (
	"context"
	"errors"
	"testing"

	"github.com/jonwraymond/elemops/element"
	"github.com/jonwraymond/elemops/observe"
)

// flaky fails every other call with err.
func flaky(err error) element.CommandFunc {
	n := 0
	return func(ctx context.Context, h *element.Handle, args ...any) (any, error) {
		n++
		if n%2 == 1 {
			return nil, err
		}
		return "ok", nil
	}
}

// BenchmarkInterceptor_HappyPath measures the wait gate plus one execution.
func BenchmarkInterceptor_HappyPath(b *testing.B) {
	h, _ := newHandle("chrome")
	fn := NewInterceptor().Wrap(element.GetText, func(ctx context.Context, h *element.Handle, args ...any) (any, error) {
		return "ok", nil
	})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = fn(ctx, h)
	}
}

// BenchmarkInterceptor_LocatorBypass measures locator commands skipping the gate.
func BenchmarkInterceptor_LocatorBypass(b *testing.B) {
	h, _ := newHandle("chrome")
	fn := NewInterceptor().Wrap(element.GetElement, func(ctx context.Context, h *element.Handle, args ...any) (any, error) {
		return h, nil
	})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = fn(ctx, h, "css selector", "#btn")
	}
}

// BenchmarkInterceptor_StaleRecovery measures refetch, rebind and one retry.
func BenchmarkInterceptor_StaleRecovery(b *testing.B) {
	h, sess := newHandle("chrome")
	refetch := RefetcherFunc(func(ctx context.Context, old *element.Handle, cmd element.Command) (*element.Handle, error) {
		return element.New("e-2", sess, old.Locator), nil
	})
	fn := NewInterceptor(WithRefetcher(refetch)).Wrap(element.Click, flaky(staleErr()))
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = fn(ctx, h)
	}
}

// BenchmarkInterceptor_NotInteractableRecovery measures the clickable wait
// plus one retry.
func BenchmarkInterceptor_NotInteractableRecovery(b *testing.B) {
	h, _ := newHandle("chrome")
	clickable := ClickableWaiterFunc(func(ctx context.Context, h *element.Handle) error {
		return nil
	})
	fn := NewInterceptor(WithClickableWaiter(clickable)).Wrap(element.Click, flaky(notInteractableErr()))
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = fn(ctx, h)
	}
}

// BenchmarkInterceptor_NotInteractableTimeout measures building the
// interactability error with an HTML snapshot.
func BenchmarkInterceptor_NotInteractableTimeout(b *testing.B) {
	h, _ := newHandle("chrome")
	waitErr := errors.New("timeout")
	fn := NewInterceptor(
		WithClickableWaiter(ClickableWaiterFunc(func(ctx context.Context, h *element.Handle) error {
			return waitErr
		})),
		WithSnapshotter(SnapshotterFunc(func(ctx context.Context, h *element.Handle) (string, error) {
			return `<button id="btn">Go</button>`, nil
		})),
	).Wrap(element.Click, func(ctx context.Context, h *element.Handle, args ...any) (any, error) {
		return nil, notInteractableErr()
	})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = fn(ctx, h)
	}
}

// BenchmarkInterceptor_WithMiddleware measures the interceptor composed with
// noop observe middleware on every attempt.
func BenchmarkInterceptor_WithMiddleware(b *testing.B) {
	h, _ := newHandle("chrome")
	mw := observe.NewMiddleware(observe.NewNoopTracer(), observe.NewNoopMetrics(), observe.NewNoopLogger())
	fn := NewInterceptor(WithCommandWrapper(mw.Wrap)).Wrap(element.GetText, func(ctx context.Context, h *element.Handle, args ...any) (any, error) {
		return "ok", nil
	})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = fn(ctx, h)
	}
}

// BenchmarkInterceptor_Classify_SafariPayload measures payload inspection.
func BenchmarkInterceptor_Classify_SafariPayload(b *testing.B) {
	h, _ := newHandle("safari")
	ic := NewInterceptor()
	payload := map[string]any{"error": element.NameNoSuchElement}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ic.classify(h, payload, nil)
	}
}

// BenchmarkInterceptor_Concurrent measures parallel wrapped calls.
func BenchmarkInterceptor_Concurrent(b *testing.B) {
	fn := NewInterceptor().Wrap(element.GetText, func(ctx context.Context, h *element.Handle, args ...any) (any, error) {
		return "ok", nil
	})
	ctx := context.Background()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		h, _ := newHandle("chrome")
		for pb.Next() {
			_, _ = fn(ctx, h)
		}
	})
}
