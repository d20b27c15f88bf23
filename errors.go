package engine

import (
	"errors"
	"fmt"
)

// Common engine errors.
var (
	// ErrNoBackend is returned by New when no backend is registered and
	// none was named explicitly.
	ErrNoBackend = errors.New("engine: no backend available")

	// ErrAlreadyRun is returned by Run when the engine has already been
	// started. An Engine drives exactly one lifecycle.
	ErrAlreadyRun = errors.New("engine: already run")

	// ErrTeardownTimeout indicates OnStop did not return within the
	// configured teardown timeout. It is logged, never returned from Run.
	ErrTeardownTimeout = errors.New("engine: teardown timed out")
)

// Phase identifies which application callback produced an error.
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseUpdate
	PhaseRender
	PhaseEvent
	PhaseStop
)

// String returns the callback name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhaseUpdate:
		return "update"
	case PhaseRender:
		return "render"
	case PhaseEvent:
		return "event"
	case PhaseStop:
		return "stop"
	default:
		return "unknown"
	}
}

// CallbackError wraps an error returned by an application callback.
// Errors from the update, render and event phases are unrecoverable: they
// trigger the stopping sequence and become the terminal result of Run.
type CallbackError struct {
	Phase Phase
	Err   error
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("engine: %s callback: %v", e.Phase, e.Err)
}

func (e *CallbackError) Unwrap() error { return e.Err }

// BackendInitError wraps a backend initialization failure. The engine
// never enters the running state after one.
type BackendInitError struct {
	Backend string
	Err     error
}

func (e *BackendInitError) Error() string {
	return fmt.Sprintf("engine: init backend %q: %v", e.Backend, e.Err)
}

func (e *BackendInitError) Unwrap() error { return e.Err }
