package resilience

import (
	"errors"
	"fmt"

	"github.com/jonwraymond/elemops/element"
)

// NameInteractabilityTimeout names the error returned when an element that
// was not interactable never became clickable.
const NameInteractabilityTimeout = "webdriverio(middleware): element did not become interactable"

// Sentinel errors for resilience operations.
var (
	// ErrNilCommand is returned when a nil CommandFunc is wrapped.
	ErrNilCommand = errors.New("resilience: command func is nil")

	// ErrInteractabilityTimeout matches any InteractabilityError under errors.Is.
	ErrInteractabilityTimeout = &element.ProtocolError{Name: NameInteractabilityTimeout}
)

// snapshotUnavailable is used in place of the element HTML when the snapshot
// itself fails.
const snapshotUnavailable = "<unavailable>"

// InteractabilityError reports that an element stayed non-interactable after
// waiting for it to become clickable. It unwraps to the original command
// error, the wait error and, if any, the snapshot error.
type InteractabilityError struct {
	// HTML is the element's outer HTML at the time of failure.
	HTML string

	// Cause is the original "element not interactable" error.
	Cause error

	// WaitErr is the error returned by the clickable wait.
	WaitErr error

	// SnapshotErr is set when the HTML snapshot could not be taken.
	SnapshotErr error
}

// ProtocolName returns NameInteractabilityTimeout.
func (e *InteractabilityError) ProtocolName() string {
	return NameInteractabilityTimeout
}

// Message returns the human readable part of the error.
func (e *InteractabilityError) Message() string {
	return fmt.Sprintf("Element %s did not become interactable", e.HTML)
}

func (e *InteractabilityError) Error() string {
	return NameInteractabilityTimeout + ": " + e.Message()
}

// Is matches ErrInteractabilityTimeout.
func (e *InteractabilityError) Is(target error) bool {
	t, ok := target.(*element.ProtocolError)
	return ok && t.Name == NameInteractabilityTimeout
}

func (e *InteractabilityError) Unwrap() []error {
	errs := make([]error, 0, 3)
	for _, err := range []error{e.Cause, e.WaitErr, e.SnapshotErr} {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
