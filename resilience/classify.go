package resilience

import "github.com/jonwraymond/elemops/element"

// outcomeKind is the classification of a single command attempt.
type outcomeKind int

const (
	outcomeOK outcomeKind = iota
	outcomeNotInteractable
	outcomeStale
	outcomeFatal
)

func (k outcomeKind) String() string {
	switch k {
	case outcomeOK:
		return "ok"
	case outcomeNotInteractable:
		return "not_interactable"
	case outcomeStale:
		return "stale"
	default:
		return "fatal"
	}
}

// outcome is the tagged result of an attempt: Ok(value), Recoverable(kind)
// or Fatal(err).
type outcome struct {
	kind  outcomeKind
	value any
	err   error
}

// classify turns the raw result of an attempt into an outcome. It is the only
// place where the Safari payload quirk is recognised.
func (ic *Interceptor) classify(h *element.Handle, value any, err error) outcome {
	if err == nil {
		if name, ok := element.PayloadErrorName(value); ok &&
			name == element.NameNoSuchElement && h.Capabilities().IsSafari() {
			return outcome{
				kind: outcomeStale,
				err:  element.NewProtocolError(element.NameStaleElement, "no such element returned as result", nil),
			}
		}
		return outcome{kind: outcomeOK, value: value}
	}

	switch element.ErrorName(err) {
	case element.NameNotInteractable:
		return outcome{kind: outcomeNotInteractable, value: value, err: err}
	case element.NameStaleElement:
		return outcome{kind: outcomeStale, value: value, err: err}
	}
	if ic.isStale != nil && ic.isStale(err) {
		return outcome{kind: outcomeStale, value: value, err: err}
	}
	return outcome{kind: outcomeFatal, value: value, err: err}
}
