/*
Package engine provides an embeddable frame-loop framework: it drives an
application-supplied callback set through a per-frame lifecycle, manages a
windowed surface through a swappable backend, dispatches normalized input
events and caches derived rendering resources (decoded images, shaped
glyph runs) behind bounded LRU caches.

# Quick Start

	type game struct{}

	func (g *game) OnSetup(e *engine.Engine) error  { return nil }
	func (g *game) OnRender(e *engine.Engine) error { return nil }
	func (g *game) OnStop(e *engine.Engine) error   { return nil }

	func (g *game) OnUpdate(e *engine.Engine, dt time.Duration) error {
	    // Fixed-step simulation; dt is always 1/TargetFPS.
	    return nil
	}

	func (g *game) OnEvent(e *engine.Engine, ev engine.Event) error {
	    if key, ok := ev.(engine.KeyEvent); ok && key.Key == engine.KeyEscape {
	        e.RequestStop()
	    }
	    return nil
	}

	func main() {
	    e, err := engine.New(
	        engine.WithTitle("demo"),
	        engine.WithSize(1280, 720),
	        engine.WithTargetFPS(60),
	    )
	    if err != nil {
	        log.Fatal(err)
	    }
	    if err := e.Run(&game{}); err != nil {
	        log.Fatal(err)
	    }
	}

Run blocks until the engine reaches its terminal state and returns nil for
a normal exit or the first unrecoverable error.

# Lifecycle

The engine is a strict state machine: Created, Running, Paused, Stopping,
Stopped. RequestPause, RequestResume and RequestStop are idempotent intent
setters observed at the top of the next loop iteration; callbacks are
never preempted mid-call. While paused, update and render do not fire but
events still dispatch, so resume and quit input is observed.

# Scheduling

Fixed-step mode (the default) runs zero or more update ticks of exactly
1/TargetFPS per displayed frame, which keeps simulation deterministic
given deterministic input. Variable-step mode fires one update and one
render per iteration with the raw elapsed delta. Either way at most one
render fires per iteration: there is no catch-up rendering backlog.

# Backends

The engine reaches the platform only through the Backend interface.
Concrete backends self-register; importing one is enough:

	import _ "github.com/go-theft-auto/engine/backend/opengl"

The built-in "headless" backend runs without a display, which the tests
and CI use.

# Concurrency

The engine core is single-threaded: one goroutine owns the state machine,
scheduler, dispatcher and caches, and update, render and event dispatch
are strictly sequenced within an iteration. The Request methods are the
only API safe to call from other goroutines.
*/
package engine
