package multiremote

import (
	"errors"
	"fmt"
)

// Sentinel errors for multiremote operations.
var (
	// ErrUnknownInstance is returned when looking up an unregistered instance.
	ErrUnknownInstance = errors.New("multiremote: unknown instance")

	// ErrUnknownCommand is returned when an instance does not implement a command.
	ErrUnknownCommand = errors.New("multiremote: unknown command")

	// ErrNilInstance is returned when registering a nil instance.
	ErrNilInstance = errors.New("multiremote: instance is nil")
)

// InstanceError attributes a failure to the instance that produced it.
type InstanceError struct {
	Instance string
	Command  string
	Err      error
}

func (e *InstanceError) Error() string {
	return fmt.Sprintf("multiremote: %s on %q: %v", e.Command, e.Instance, e.Err)
}

func (e *InstanceError) Unwrap() error {
	return e.Err
}
