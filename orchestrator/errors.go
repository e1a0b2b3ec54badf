package orchestrator

import "errors"

var (
	// ErrUnknownAgent is returned by any operation addressing an id that was
	// never registered.
	ErrUnknownAgent = errors.New("orchestrator: unknown agent")
	// ErrAlreadyRegistered names a duplicate registration of one id. Register
	// allocates a fresh id on every call and does not return it.
	ErrAlreadyRegistered = errors.New("orchestrator: agent already registered")
	// ErrAlreadyLaunched is returned by Launch when called more than once
	// for the same agent id.
	ErrAlreadyLaunched = errors.New("orchestrator: agent already launched")
	// ErrTerminalAgent is returned by Send when the recipient has already
	// reached Completed or Failed.
	ErrTerminalAgent = errors.New("orchestrator: agent is terminal")
)
