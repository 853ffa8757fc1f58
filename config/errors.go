package config

import "errors"

var (
	// ErrNoInstances indicates a scenario without browser instances.
	ErrNoInstances = errors.New("config: at least one instance is required")

	// ErrInvalidInstance indicates a malformed instance entry.
	ErrInvalidInstance = errors.New("config: invalid instance")

	// ErrInvalidStep indicates a malformed step entry.
	ErrInvalidStep = errors.New("config: invalid step")

	// ErrMissingEnv indicates `${VAR}` references to unset variables.
	ErrMissingEnv = errors.New("config: missing required environment variables")
)
