package rodsession

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonwraymond/elemops/element"
	"github.com/jonwraymond/elemops/observe"
)

// Wait is the implicit-wait gate. A handle that already carries an ID is
// returned as is; otherwise its locator is resolved within its parent.
func (s *Session) Wait(ctx context.Context, h *element.Handle, cmd element.Command) (*element.Handle, error) {
	if h.Found() {
		return h, nil
	}
	return s.Locate(ctx, h.Parent, h.Locator)
}

// Refetch re-locates a stale element with its original locator. When the
// parent element is stale too it is re-located first, so the returned
// handle may carry a different parent.
//
// Concurrent refetches of the same locator share one lookup.
func (s *Session) Refetch(ctx context.Context, h *element.Handle, cmd element.Command) (*element.Handle, error) {
	if h == nil {
		return nil, element.ErrNilHandle
	}

	key := refetchKey(s.id, h)
	v, err, shared := s.refetches.Do(key, func() (any, error) {
		parent, err := s.liveParent(ctx, h.Parent, cmd)
		if err != nil {
			return nil, fmt.Errorf("rodsession: refetch parent: %w", err)
		}
		return s.Locate(ctx, parent, h.Locator)
	})
	if err != nil {
		return nil, err
	}

	fresh := v.(*element.Handle)
	s.logger.WithCommand(observe.MetaFor(cmd, h)).Debug(ctx, "element re-located",
		observe.Field{Key: "element.id", Value: fresh.ID},
		observe.Field{Key: "shared", Value: shared},
	)

	// Callers rebind their own handles; never hand out a shared pointer.
	return element.New(fresh.ID, fresh.Parent, fresh.Locator), nil
}

// liveParent returns parent, or a re-located copy of it when it is a stale
// element handle.
func (s *Session) liveParent(ctx context.Context, parent element.Scope, cmd element.Command) (element.Scope, error) {
	ph, ok := parent.(*element.Handle)
	if !ok {
		return parent, nil
	}
	el, err := s.resolve(ctx, ph)
	if err == nil {
		if _, err = el.Describe(0, false); err == nil {
			return ph, nil
		}
		err = translate(err)
	}
	if !errors.Is(err, element.ErrStaleElement) && ph.Found() {
		return nil, err
	}
	return s.Refetch(ctx, ph, cmd)
}

func refetchKey(sessionID string, h *element.Handle) string {
	parent := ""
	if ph, ok := h.Parent.(*element.Handle); ok {
		parent = ph.ID + "|" + ph.Locator.String()
	}
	return sessionID + "|" + parent + "|" + h.Locator.String()
}

// WaitUntilClickable blocks until the element can receive pointer input or
// the clickable wait elapses.
func (s *Session) WaitUntilClickable(ctx context.Context, h *element.Handle) error {
	wctx, cancel := context.WithTimeout(ctx, s.clickableWait)
	defer cancel()

	el, err := s.resolve(wctx, h)
	if err != nil {
		return err
	}
	if _, err := el.WaitInteractable(); err != nil {
		return translate(err)
	}
	return nil
}

// HTML returns the element's outer HTML.
func (s *Session) HTML(ctx context.Context, h *element.Handle) (string, error) {
	el, err := s.resolve(ctx, h)
	if err != nil {
		return "", err
	}
	html, err := el.HTML()
	if err != nil {
		return "", translate(err)
	}
	return html, nil
}

// IsStale reports whether err means the element went stale.
func (s *Session) IsStale(err error) bool {
	return IsStale(err)
}
