package engine

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// pausePollInterval is how often the loop wakes while paused to drain
// events so resume and quit input is still observed.
const pausePollInterval = 10 * time.Millisecond

// Engine owns the backend handle, the resource caches, the event
// dispatcher and the frame scheduler, and drives an App through the frame
// lifecycle. Construct one with New, then call Run; an Engine drives
// exactly one lifecycle.
//
// The engine is single-threaded: update, render and event dispatch are
// strictly sequenced within one loop iteration on the goroutine that calls
// Run. Request methods are safe to call from any goroutine; the loop
// observes them at the top of the next iteration.
type Engine struct {
	cfg     Config
	backend Backend

	clock      *frameClock
	dispatcher *dispatcher
	input      *InputState
	textures   *Textures
	text       *TextShaper

	state atomic.Int32

	pauseReq  atomic.Bool
	resumeReq atomic.Bool
	stopReq   atomic.Bool

	clearColor [4]float32
	started    time.Time
	ran        bool

	// now and sleep are swapped out by tests for deterministic time.
	now   func() time.Time
	sleep func(time.Duration)
}

// New creates an engine from the default configuration with the given
// options applied. The backend is resolved from the registry: the
// configured name if set, otherwise the best available by priority.
func New(opts ...Option) (*Engine, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	var b Backend
	if cfg.Backend != "" {
		b = GetBackend(cfg.Backend)
	} else {
		b = DefaultBackend()
	}
	if b == nil {
		return nil, ErrNoBackend
	}

	e := &Engine{
		cfg:        cfg,
		backend:    b,
		clock:      newFrameClock(cfg.TargetFPS, cfg.FixedStep),
		dispatcher: newDispatcher(cfg.CoalesceMotion),
		input:      NewInputState(),
		textures:   newTextures(cfg.CacheCapacity),
		text:       newTextShaper(cfg.CacheCapacity),
		now:        time.Now,
		sleep:      time.Sleep,
	}
	e.state.Store(int32(StateCreated))
	return e, nil
}

// State returns the current lifecycle state.
func (e *Engine) State() State { return State(e.state.Load()) }

func (e *Engine) setState(s State) {
	e.state.Store(int32(s))
	Logger().Info("engine: state", slog.String("state", s.String()))
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config { return e.cfg }

// Backend returns the resolved backend.
func (e *Engine) Backend() Backend { return e.backend }

// Input returns the held input state maintained by the dispatcher.
func (e *Engine) Input() *InputState { return e.input }

// Textures returns the decoded-image cache.
func (e *Engine) Textures() *Textures { return e.textures }

// Text returns the shaped-glyph cache.
func (e *Engine) Text() *TextShaper { return e.text }

// FrameCount returns the number of completed render ticks.
func (e *Engine) FrameCount() uint64 { return e.clock.frameCount() }

// SetClearColor sets the RGBA clear color passed to the backend with each
// presented frame.
func (e *Engine) SetClearColor(r, g, b, a float32) {
	e.clearColor = [4]float32{r, g, b, a}
}

// RequestPause asks the engine to stop firing update and render callbacks.
// Event dispatch continues while paused. A no-op outside Running.
func (e *Engine) RequestPause() { e.pauseReq.Store(true) }

// RequestResume asks a paused engine to resume. Paused wall time is not
// replayed as update ticks. A no-op outside Paused.
func (e *Engine) RequestResume() { e.resumeReq.Store(true) }

// RequestStop asks the engine to begin the stopping sequence. Idempotent;
// a no-op once stopping has begun. The in-flight callback is never
// preempted: the loop observes the request at the next iteration boundary.
func (e *Engine) RequestStop() { e.stopReq.Store(true) }

// Run initializes the backend, drives app through the frame lifecycle and
// blocks until the engine reaches Stopped. It returns nil on a normal exit
// or the first unrecoverable error encountered.
func (e *Engine) Run(app App) error {
	if e.ran {
		return ErrAlreadyRun
	}
	e.ran = true

	wc := WindowConfig{
		Title:  e.cfg.Title,
		Width:  e.cfg.Width,
		Height: e.cfg.Height,
		VSync:  e.cfg.VSync,
	}
	if err := e.backend.Init(wc); err != nil {
		e.setState(StateStopped)
		return &BackendInitError{Backend: e.backend.Name(), Err: err}
	}

	if err := app.OnSetup(e); err != nil {
		// Setup failure aborts startup: the engine was never running,
		// so OnStop is not owed a call.
		e.backend.Shutdown()
		e.setState(StateStopped)
		return &CallbackError{Phase: PhaseSetup, Err: err}
	}

	// Pause/resume intents recorded before startup do not apply to any
	// state and are discarded. A stop intent survives: stop requested
	// from any non-terminal state must still reach Stopped.
	e.pauseReq.Store(false)
	e.resumeReq.Store(false)

	e.started = e.now()
	e.setState(StateRunning)

	runErr := e.loop(app)

	e.setState(StateStopping)
	e.teardown(app)
	e.backend.Shutdown()
	e.setState(StateStopped)
	return runErr
}

// loop runs until a stop condition and returns the first unrecoverable
// error, or nil for a requested/quit exit.
func (e *Engine) loop(app App) error {
	for {
		if e.stopReq.Load() {
			return nil
		}

		switch e.State() {
		case StateRunning:
			if e.pauseReq.Swap(false) {
				e.setState(StatePaused)
			}
		case StatePaused:
			if e.resumeReq.Swap(false) {
				e.clock.resume(e.now())
				e.setState(StateRunning)
			}
		}
		e.pauseReq.Store(false)
		e.resumeReq.Store(false)

		e.input.beginFrame()
		if err := e.dispatcher.pollAndDispatch(e.backend, e, app, e.input); err != nil {
			return err
		}
		if e.dispatcher.quitRequested() {
			return nil
		}

		if e.State() == StatePaused {
			e.sleep(pausePollInterval)
			continue
		}

		res := e.clock.tick(e.now())
		for i := 0; i < res.updates; i++ {
			delta := e.clock.step()
			if !e.cfg.FixedStep {
				delta = res.delta
			}
			if err := app.OnUpdate(e, delta); err != nil {
				return &CallbackError{Phase: PhaseUpdate, Err: err}
			}
		}
		if res.render {
			if err := app.OnRender(e); err != nil {
				return &CallbackError{Phase: PhaseRender, Err: err}
			}
			fs := FrameState{
				Frame: e.clock.frameCount(),
				Delta: res.delta,
				Clear: e.clearColor,
			}
			if err := e.backend.Present(fs); err != nil {
				return fmt.Errorf("engine: present: %w", err)
			}
		}

		// Frame pacing lives here, in the scheduler's hands; the
		// dispatcher never blocks. With vsync the swap interval paces
		// the loop instead.
		if !e.cfg.VSync {
			if delay := e.clock.nextDelay(e.now()); delay > 0 {
				e.sleep(delay)
			}
		}
	}
}

// teardown runs OnStop once, bounded by the configured timeout. Teardown
// errors are logged and ignored: teardown always completes.
func (e *Engine) teardown(app App) {
	timeout := e.cfg.TeardownTimeout
	if timeout <= 0 {
		timeout = time.Second
	}

	done := make(chan error, 1)
	go func() {
		done <- app.OnStop(e)
	}()

	select {
	case err := <-done:
		if err != nil {
			Logger().Warn("engine: stop callback failed", slog.Any("error", err))
		}
	case <-time.After(timeout):
		Logger().Warn("engine: stop callback timed out",
			slog.Duration("timeout", timeout),
			slog.Any("error", ErrTeardownTimeout))
	}
}
