package element

import "context"

// Kind classifies commands for the dispatch layer.
type Kind int

const (
	// KindElement is a generic element command. It is gated by the implicit
	// wait and eligible for recovery.
	KindElement Kind = iota

	// KindLocator is a locator primitive or event emission. It bypasses the
	// implicit wait because the wait itself is built on it.
	KindLocator
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindLocator:
		return "locator"
	default:
		return "unknown"
	}
}

// Command names a remote element command.
type Command struct {
	Name string
	Kind Kind
}

// Well-known commands.
var (
	GetElement  = Command{Name: "getElement", Kind: KindLocator}
	GetElements = Command{Name: "getElements", Kind: KindLocator}
	Emit        = Command{Name: "emit", Kind: KindLocator}

	Click        = Command{Name: "click", Kind: KindElement}
	GetText      = Command{Name: "getText", Kind: KindElement}
	GetHTML      = Command{Name: "getHTML", Kind: KindElement}
	GetAttribute = Command{Name: "getAttribute", Kind: KindElement}
	SetValue     = Command{Name: "setValue", Kind: KindElement}
	ClearValue   = Command{Name: "clearValue", Kind: KindElement}
	IsDisplayed  = Command{Name: "isDisplayed", Kind: KindElement}
)

var locatorCommands = map[string]Command{
	GetElement.Name:  GetElement,
	GetElements.Name: GetElements,
	Emit.Name:        Emit,
}

// Lookup returns the Command for name. Locator primitives resolve to their
// KindLocator definition; any other name is a KindElement command.
func Lookup(name string) Command {
	if c, ok := locatorCommands[name]; ok {
		return c
	}
	return Command{Name: name, Kind: KindElement}
}

// CommandFunc executes a command against a handle.
type CommandFunc func(ctx context.Context, h *Handle, args ...any) (any, error)

// Wrapper produces an invocable CommandFunc for a named command.
type Wrapper func(cmd Command, fn CommandFunc) CommandFunc

// Chain composes wrappers. The first wrapper is the outermost.
func Chain(wrappers ...Wrapper) Wrapper {
	return func(cmd Command, fn CommandFunc) CommandFunc {
		for i := len(wrappers) - 1; i >= 0; i-- {
			if wrappers[i] != nil {
				fn = wrappers[i](cmd, fn)
			}
		}
		return fn
	}
}

// Bind fixes fn to h, producing a function of the arguments only.
func Bind(h *Handle, fn CommandFunc) func(ctx context.Context, args ...any) (any, error) {
	return func(ctx context.Context, args ...any) (any, error) {
		return fn(ctx, h, args...)
	}
}
