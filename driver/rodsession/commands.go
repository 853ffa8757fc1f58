package rodsession

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/jonwraymond/elemops/element"
)

// Commands returns the element commands this session implements, keyed by
// command name. Wrap them with a dispatch layer before use.
func (s *Session) Commands() map[string]element.CommandFunc {
	return map[string]element.CommandFunc{
		element.GetElement.Name:   s.getElement,
		element.GetElements.Name:  s.getElements,
		element.Click.Name:        s.interactive(s.click),
		element.SetValue.Name:     s.interactive(s.setValue),
		element.ClearValue.Name:   s.interactive(s.clearValue),
		element.GetText.Name:      s.run(func(el *rod.Element, _ []any) (any, error) { return el.Text() }),
		element.GetHTML.Name:      s.run(func(el *rod.Element, _ []any) (any, error) { return el.HTML() }),
		element.IsDisplayed.Name:  s.run(func(el *rod.Element, _ []any) (any, error) { return el.Visible() }),
		element.GetAttribute.Name: s.run(getAttribute),
	}
}

type elementFunc func(el *rod.Element, args []any) (any, error)

// run resolves the handle and translates failures.
func (s *Session) run(fn elementFunc) element.CommandFunc {
	return func(ctx context.Context, h *element.Handle, args ...any) (any, error) {
		el, err := s.resolve(ctx, h)
		if err != nil {
			return nil, err
		}
		v, err := fn(el, args)
		if err != nil {
			return nil, translate(err)
		}
		return v, nil
	}
}

// interactive is run for pointer and keyboard commands. rod would otherwise
// poll until the element becomes interactable; here the check fails fast and
// waiting is left to the dispatch layer.
func (s *Session) interactive(fn elementFunc) element.CommandFunc {
	return s.run(func(el *rod.Element, args []any) (any, error) {
		if _, err := el.Interactable(); err != nil {
			return nil, err
		}
		return fn(el, args)
	})
}

func (s *Session) click(el *rod.Element, args []any) (any, error) {
	button := proto.InputMouseButtonLeft
	if len(args) > 0 {
		name, err := stringArg(args, 0, "button")
		if err != nil {
			return nil, err
		}
		button = proto.InputMouseButton(name)
	}
	return nil, el.Click(button, 1)
}

func (s *Session) setValue(el *rod.Element, args []any) (any, error) {
	text, err := stringArg(args, 0, "value")
	if err != nil {
		return nil, err
	}
	if err := el.SelectAllText(); err != nil {
		return nil, err
	}
	return nil, el.Input(text)
}

func (s *Session) clearValue(el *rod.Element, _ []any) (any, error) {
	if err := el.SelectAllText(); err != nil {
		return nil, err
	}
	return nil, el.Input("")
}

func getAttribute(el *rod.Element, args []any) (any, error) {
	name, err := stringArg(args, 0, "name")
	if err != nil {
		return nil, err
	}
	v, err := el.Attribute(name)
	if err != nil || v == nil {
		return nil, err
	}
	return *v, nil
}

// getElement locates a child of h. Arguments are (using, value).
func (s *Session) getElement(ctx context.Context, h *element.Handle, args ...any) (any, error) {
	using, value, err := locatorArgs(args)
	if err != nil {
		return nil, err
	}
	return s.Locate(ctx, scopeOf(h, s), element.Locator{Using: using, Value: value, Index: -1})
}

// getElements locates every child of h. Arguments are (using, value).
func (s *Session) getElements(ctx context.Context, h *element.Handle, args ...any) (any, error) {
	using, value, err := locatorArgs(args)
	if err != nil {
		return nil, err
	}
	return s.LocateAll(ctx, scopeOf(h, s), using, value)
}

// scopeOf treats an unlocated handle as the page.
func scopeOf(h *element.Handle, s *Session) element.Scope {
	if h.Found() {
		return h
	}
	return s
}

func locatorArgs(args []any) (string, string, error) {
	using, err := stringArg(args, 0, "using")
	if err != nil {
		return "", "", err
	}
	value, err := stringArg(args, 1, "value")
	if err != nil {
		return "", "", err
	}
	return using, value, nil
}

func stringArg(args []any, i int, name string) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("%w: missing %s", ErrBadArgument, name)
	}
	s, ok := args[i].(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrBadArgument, name, args[i])
	}
	return s, nil
}
