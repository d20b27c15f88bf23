package engine

import "time"

// App is the callback set an application implements to be driven by the
// engine. The engine passes itself into every callback so apps can query
// input, load resources and request lifecycle changes without ambient
// global state.
//
// Error semantics: an error from OnSetup aborts startup; errors from
// OnUpdate, OnRender and OnEvent are unrecoverable and begin the stopping
// sequence; an error from OnStop is logged and otherwise ignored.
type App interface {
	// OnSetup runs once after the backend is initialized, before the
	// first frame.
	OnSetup(e *Engine) error

	// OnUpdate runs once per due update tick. In fixed-step mode delta
	// is always the target interval; in variable-step mode it is the
	// raw elapsed frame time.
	OnUpdate(e *Engine, delta time.Duration) error

	// OnRender runs at most once per loop iteration, after all update
	// ticks for the iteration, and only while the engine is running.
	OnRender(e *Engine) error

	// OnEvent receives each normalized event in arrival order. It also
	// fires while the engine is paused, so resume and quit input is
	// still observed.
	OnEvent(e *Engine, ev Event) error

	// OnStop runs exactly once during the stopping sequence, bounded by
	// the configured teardown timeout.
	OnStop(e *Engine) error
}

// AppFuncs is an App assembled from optional function fields; nil fields
// are no-ops. Handy for small apps and tests that only care about a couple
// of callbacks.
type AppFuncs struct {
	Setup  func(e *Engine) error
	Update func(e *Engine, delta time.Duration) error
	Render func(e *Engine) error
	Event  func(e *Engine, ev Event) error
	Stop   func(e *Engine) error
}

// OnSetup implements App.
func (a *AppFuncs) OnSetup(e *Engine) error {
	if a.Setup == nil {
		return nil
	}
	return a.Setup(e)
}

// OnUpdate implements App.
func (a *AppFuncs) OnUpdate(e *Engine, delta time.Duration) error {
	if a.Update == nil {
		return nil
	}
	return a.Update(e, delta)
}

// OnRender implements App.
func (a *AppFuncs) OnRender(e *Engine) error {
	if a.Render == nil {
		return nil
	}
	return a.Render(e)
}

// OnEvent implements App.
func (a *AppFuncs) OnEvent(e *Engine, ev Event) error {
	if a.Event == nil {
		return nil
	}
	return a.Event(e, ev)
}

// OnStop implements App.
func (a *AppFuncs) OnStop(e *Engine) error {
	if a.Stop == nil {
		return nil
	}
	return a.Stop(e)
}
