package rodsession

import (
	"context"
	"errors"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"

	"github.com/jonwraymond/elemops/element"
)

var (
	// ErrUnsupportedStrategy is returned for locator strategies the driver
	// cannot evaluate.
	ErrUnsupportedStrategy = errors.New("rodsession: unsupported locator strategy")

	// ErrNoBrowser is returned when opening a session without a browser.
	ErrNoBrowser = errors.New("rodsession: no active browser")

	// ErrBadArgument is returned when a command receives arguments of the
	// wrong shape.
	ErrBadArgument = errors.New("rodsession: bad command argument")
)

// CDP messages meaning the node or its execution context is gone.
var staleMessages = []string{
	"Could not find node with given id",
	"No node with given id found",
	"Cannot find context with specified id",
	"Node is detached from document",
	"Cannot find object with id",
}

// IsStale reports whether err means the remote node no longer exists.
func IsStale(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, element.ErrStaleElement) {
		return true
	}
	var onf *rod.ObjectNotFoundError
	if errors.As(err, &onf) {
		return true
	}
	var ce *cdp.Error
	if errors.As(err, &ce) {
		for _, m := range staleMessages {
			if strings.Contains(ce.Message, m) {
				return true
			}
		}
	}
	return false
}

func isNotInteractable(err error) bool {
	var (
		ni *rod.NotInteractableError
		cv *rod.CoveredError
		is *rod.InvisibleShapeError
		np *rod.NoPointerEventsError
	)
	return errors.As(err, &ni) || errors.As(err, &cv) || errors.As(err, &is) || errors.As(err, &np)
}

// translate maps rod and CDP failures onto protocol errors. Errors that are
// already named, or that have no protocol meaning, pass through unchanged.
func translate(err error) error {
	if err == nil || element.ErrorName(err) != "" {
		return err
	}
	switch {
	case IsStale(err):
		return element.NewProtocolError(element.NameStaleElement,
			"element is not attached to the page document", err)
	case isNotInteractable(err):
		return element.NewProtocolError(element.NameNotInteractable,
			"element cannot receive pointer input", err)
	}
	var nf *rod.ElementNotFoundError
	if errors.As(err, &nf) {
		return element.NewProtocolError(element.NameNoSuchElement,
			"unable to locate element", err)
	}
	return err
}

// translateLocate is translate for lookups, where an expired implicit wait
// means nothing matched.
func translateLocate(err error, loc element.Locator) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return element.NewProtocolError(element.NameNoSuchElement,
			"unable to locate element "+loc.String(), err)
	}
	return translate(err)
}
