package element

import (
	"errors"
	"fmt"
)

// Protocol error names as reported by remote automation endpoints.
const (
	NameStaleElement    = "stale element reference"
	NameNotInteractable = "element not interactable"
	NameNoSuchElement   = "no such element"
)

// Sentinel errors matched by ProtocolError.Is.
var (
	// ErrStaleElement indicates the node backing a handle no longer exists.
	ErrStaleElement = &ProtocolError{Name: NameStaleElement}

	// ErrNotInteractable indicates the node exists but cannot receive input.
	ErrNotInteractable = &ProtocolError{Name: NameNotInteractable}

	// ErrNoSuchElement indicates a locator matched nothing.
	ErrNoSuchElement = &ProtocolError{Name: NameNoSuchElement}
)

// Model errors.
var (
	// ErrNilHandle is returned when a command is invoked without a handle.
	ErrNilHandle = errors.New("element: handle is nil")

	// ErrNoSession is returned when a handle's parent chain has no session.
	ErrNoSession = errors.New("element: handle has no owning session")
)

// ProtocolError is an error reported by the remote end, identified by name.
//
// Two ProtocolErrors match under errors.Is when their names are equal, so
// callers can test against the sentinels regardless of message.
type ProtocolError struct {
	Name    string
	Message string
	Cause   error
}

// NewProtocolError creates a ProtocolError wrapping cause.
func NewProtocolError(name, message string, cause error) *ProtocolError {
	return &ProtocolError{Name: name, Message: message, Cause: cause}
}

func (e *ProtocolError) Error() string {
	if e.Message == "" {
		return e.Name
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// Is reports whether target is a ProtocolError with the same name.
func (e *ProtocolError) Is(target error) bool {
	t, ok := target.(*ProtocolError)
	if !ok {
		return false
	}
	return t.Name == e.Name
}

func (e *ProtocolError) Unwrap() error {
	return e.Cause
}

// ProtocolName returns the error name.
func (e *ProtocolError) ProtocolName() string {
	return e.Name
}

// Named is implemented by errors that carry a protocol error name.
type Named interface {
	error
	ProtocolName() string
}

// ErrorName returns the protocol error name carried by err, or "" when err
// does not wrap a Named error. The outermost named error wins.
func ErrorName(err error) string {
	var n Named
	if errors.As(err, &n) {
		return n.ProtocolName()
	}
	return ""
}

// ErrorPayload is an error returned by the remote end as a successful
// response body instead of a protocol failure.
type ErrorPayload struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	Stacktrace string `json:"stacktrace"`
}

// PayloadErrorName extracts the "error" field from a success-shaped error
// payload. It recognises ErrorPayload values and decoded JSON objects.
func PayloadErrorName(v any) (string, bool) {
	switch p := v.(type) {
	case ErrorPayload:
		return p.Error, p.Error != ""
	case *ErrorPayload:
		if p == nil {
			return "", false
		}
		return p.Error, p.Error != ""
	case map[string]any:
		s, ok := p["error"].(string)
		return s, ok && s != ""
	case map[string]string:
		s, ok := p["error"]
		return s, ok && s != ""
	default:
		return "", false
	}
}
