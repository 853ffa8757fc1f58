package rodsession

import (
	"context"
	"fmt"
	"regexp"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/jonwraymond/elemops/element"
)

// Locator strategies.
const (
	UsingCSS             = "css selector"
	UsingXPath           = "xpath"
	UsingLinkText        = "link text"
	UsingPartialLinkText = "partial link text"
)

// finder is the lookup surface shared by rod pages and elements.
type finder interface {
	Element(selector string) (*rod.Element, error)
	ElementX(xpath string) (*rod.Element, error)
	ElementR(selector, jsRegex string) (*rod.Element, error)
	Elements(selector string) (rod.Elements, error)
	ElementsX(xpath string) (rod.Elements, error)
}

var (
	_ finder = (*rod.Page)(nil)
	_ finder = (*rod.Element)(nil)
)

func findOne(f finder, using, value string) (*rod.Element, error) {
	switch using {
	case UsingCSS, "":
		return f.Element(value)
	case UsingXPath:
		return f.ElementX(value)
	case UsingLinkText:
		return f.ElementR("a", "^"+regexp.QuoteMeta(value)+"$")
	case UsingPartialLinkText:
		return f.ElementR("a", regexp.QuoteMeta(value))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedStrategy, using)
	}
}

func findAll(f finder, using, value string) (rod.Elements, error) {
	switch using {
	case UsingCSS, "":
		return f.Elements(value)
	case UsingXPath:
		return f.ElementsX(value)
	default:
		return nil, fmt.Errorf("%w: %q for multiple elements", ErrUnsupportedStrategy, using)
	}
}

// find resolves loc within f. Indexed locators pick from the full match list.
func find(f finder, loc element.Locator) (*rod.Element, error) {
	if loc.Index < 0 {
		return findOne(f, loc.Using, loc.Value)
	}
	els, err := findAll(f, loc.Using, loc.Value)
	if err != nil {
		return nil, err
	}
	if loc.Index >= len(els) {
		return nil, element.NewProtocolError(element.NameNoSuchElement,
			fmt.Sprintf("%s matched %d elements", loc, len(els)), nil)
	}
	return els[loc.Index], nil
}

// resolve turns a handle back into a rod element bound to ctx.
func (s *Session) resolve(ctx context.Context, h *element.Handle) (*rod.Element, error) {
	if h == nil {
		return nil, element.ErrNilHandle
	}
	if !h.Found() {
		return nil, element.NewProtocolError(element.NameNoSuchElement,
			"handle has not been located: "+h.Locator.String(), nil)
	}
	el, err := s.page.Context(ctx).ElementFromObject(&proto.RuntimeRemoteObject{
		Type:     proto.RuntimeRemoteObjectTypeObject,
		ObjectID: proto.RuntimeRemoteObjectID(h.ID),
	})
	if err != nil {
		return nil, translate(err)
	}
	return el, nil
}

// scope returns the finder for parent. A nil parent or a session means the
// whole page; an element handle means its subtree.
func (s *Session) scope(ctx context.Context, parent element.Scope) (finder, error) {
	switch p := parent.(type) {
	case *element.Handle:
		return s.resolve(ctx, p)
	case nil, *Session:
		return s.page.Context(ctx), nil
	default:
		if p.Session() != s {
			return nil, fmt.Errorf("rodsession: scope belongs to another session")
		}
		return s.page.Context(ctx), nil
	}
}

// lookupContext bounds a lookup by the implicit wait.
func (s *Session) lookupContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.implicitWait <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.implicitWait)
}

func (s *Session) handleFor(el *rod.Element, parent element.Scope, loc element.Locator) *element.Handle {
	if parent == nil {
		parent = s
	}
	return element.New(string(el.Object.ObjectID), parent, loc)
}

// Locate finds one element within parent, waiting up to the implicit wait.
func (s *Session) Locate(ctx context.Context, parent element.Scope, loc element.Locator) (*element.Handle, error) {
	lctx, cancel := s.lookupContext(ctx)
	defer cancel()

	f, err := s.scope(lctx, parent)
	if err != nil {
		return nil, err
	}
	if s.implicitWait <= 0 {
		f = noWait(f)
	}

	el, err := find(f, loc)
	if err != nil {
		return nil, translateLocate(err, loc)
	}
	return s.handleFor(el, parent, loc), nil
}

// LocateAll finds every element matching using/value within parent. It does
// not wait; an empty result is not an error.
func (s *Session) LocateAll(ctx context.Context, parent element.Scope, using, value string) ([]*element.Handle, error) {
	f, err := s.scope(ctx, parent)
	if err != nil {
		return nil, err
	}

	els, err := findAll(f, using, value)
	if err != nil {
		return nil, translate(err)
	}

	out := make([]*element.Handle, len(els))
	for i, el := range els {
		out[i] = s.handleFor(el, parent, element.Locator{Using: using, Value: value, Index: i})
	}
	return out, nil
}

// noWait makes single-element lookups fail immediately instead of polling.
func noWait(f finder) finder {
	switch v := f.(type) {
	case *rod.Page:
		return v.Sleeper(rod.NotFoundSleeper)
	case *rod.Element:
		return v.Sleeper(rod.NotFoundSleeper)
	default:
		return f
	}
}
