package engine

import (
	"errors"
	"fmt"
	"image"
	"testing"
	"time"
)

// fakeTime drives the engine loop deterministically: Sleep advances the
// simulated clock instead of blocking.
type fakeTime struct {
	now time.Time
}

func (f *fakeTime) Now() time.Time        { return f.now }
func (f *fakeTime) Sleep(d time.Duration) { f.now = f.now.Add(d) }
func (f *fakeTime) install(e *Engine)     { e.now, e.sleep = f.Now, f.Sleep }

// mockBackend is a configurable in-memory backend.
type mockBackend struct {
	initErr    error
	presentErr error
	everyPoll  []NativeEvent // returned on every PollEvents call
	oncePolls  [][]NativeEvent
	pollCalls  int
	inits      int
	shutdowns  int
	presented  []FrameState
}

func (b *mockBackend) Name() string { return "mock" }

func (b *mockBackend) Init(WindowConfig) error {
	b.inits++
	return b.initErr
}

func (b *mockBackend) PollEvents() []NativeEvent {
	defer func() { b.pollCalls++ }()
	if b.pollCalls < len(b.oncePolls) {
		return append(b.oncePolls[b.pollCalls], b.everyPoll...)
	}
	return b.everyPoll
}

func (b *mockBackend) Present(fs FrameState) error {
	b.presented = append(b.presented, fs)
	return b.presentErr
}

func (b *mockBackend) Shutdown() { b.shutdowns++ }

// newTestEngine builds an engine over a mock backend with deterministic
// time. The backend registers under a per-test name so tests can run in
// parallel without clobbering each other.
func newTestEngine(t *testing.T, b Backend, opts ...Option) (*Engine, *fakeTime) {
	t.Helper()

	name := "mock-" + t.Name()
	RegisterBackend(name, func() Backend { return b })
	t.Cleanup(func() { UnregisterBackend(name) })

	opts = append(opts, WithBackend(name))
	e, err := New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ft := &fakeTime{now: time.Unix(1000, 0)}
	ft.install(e)
	return e, ft
}

func TestRunScenario(t *testing.T) {
	// The full contract in one run: 60 FPS fixed-step, cache capacity 2,
	// five frames, three distinct resource requests, explicit stop.
	b := &mockBackend{}
	e, _ := newTestEngine(t, b,
		WithTargetFPS(60),
		WithFixedStep(true),
		WithCacheCapacity(2),
	)

	// Stub the image loader so Load exercises the cache without disk.
	decodes := 0
	e.textures.load = func(k TextureKey) (*image.RGBA, error) {
		decodes++
		return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
	}

	stops := 0
	maxCached := 0
	app := &AppFuncs{
		Update: func(e *Engine, delta time.Duration) error {
			if delta != time.Second/60 {
				t.Errorf("fixed-step delta = %v, want %v", delta, time.Second/60)
			}
			// Three distinct resources, requested round-robin.
			key := TextureKey{Path: fmt.Sprintf("asset-%d.png", e.FrameCount()%3)}
			if _, err := e.Textures().Load(key); err != nil {
				return err
			}
			if n := e.Textures().Len(); n > maxCached {
				maxCached = n
			}
			return nil
		},
		Render: func(e *Engine) error {
			if e.State() != StateRunning {
				t.Errorf("render fired in state %v", e.State())
			}
			if e.FrameCount() >= 5 { // the counter advances before render
				e.RequestStop()
			}
			return nil
		},
		Stop: func(e *Engine) error {
			stops++
			return nil
		},
	}

	if err := e.Run(app); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := e.FrameCount(); got != 5 {
		t.Errorf("frame count = %d, want 5", got)
	}
	if e.State() != StateStopped {
		t.Errorf("final state = %v, want stopped", e.State())
	}
	if stops != 1 {
		t.Errorf("OnStop ran %d times, want exactly 1", stops)
	}
	if maxCached > 2 {
		t.Errorf("cache held %d entries, capacity is 2", maxCached)
	}
	if decodes < 3 {
		t.Errorf("expected at least 3 decodes across 3 distinct keys, got %d", decodes)
	}
	if len(b.presented) != 5 {
		t.Fatalf("presented %d frames, want 5", len(b.presented))
	}
	for i, fs := range b.presented {
		if fs.Frame != uint64(i+1) {
			t.Errorf("present %d carried frame %d, want %d", i, fs.Frame, i+1)
		}
	}
	if b.shutdowns != 1 {
		t.Errorf("backend shutdown ran %d times, want 1", b.shutdowns)
	}
}

func TestBackendInitFailure(t *testing.T) {
	boom := errors.New("no display")
	b := &mockBackend{initErr: boom}
	e, _ := newTestEngine(t, b)

	setups := 0
	stops := 0
	err := e.Run(&AppFuncs{
		Setup: func(*Engine) error { setups++; return nil },
		Stop:  func(*Engine) error { stops++; return nil },
	})

	var initErr *BackendInitError
	if !errors.As(err, &initErr) {
		t.Fatalf("want *BackendInitError, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Error("error should wrap the backend's error")
	}
	if e.State() != StateStopped {
		t.Errorf("state = %v, want stopped", e.State())
	}
	if setups != 0 {
		t.Error("OnSetup must not run after init failure")
	}
	if stops != 0 {
		t.Error("OnStop must not run: the engine was never running")
	}
}

func TestSetupFailureAbortsStartup(t *testing.T) {
	b := &mockBackend{}
	e, _ := newTestEngine(t, b)

	boom := errors.New("asset missing")
	updates, stops := 0, 0
	err := e.Run(&AppFuncs{
		Setup:  func(*Engine) error { return boom },
		Update: func(*Engine, time.Duration) error { updates++; return nil },
		Stop:   func(*Engine) error { stops++; return nil },
	})

	var cbErr *CallbackError
	if !errors.As(err, &cbErr) || cbErr.Phase != PhaseSetup {
		t.Fatalf("want setup CallbackError, got %v", err)
	}
	if updates != 0 {
		t.Error("no update may fire after a failed setup")
	}
	if stops != 0 {
		t.Error("OnStop is not owed after a failed setup")
	}
	if b.shutdowns != 1 {
		t.Errorf("backend shutdown ran %d times, want 1", b.shutdowns)
	}
	if e.State() != StateStopped {
		t.Errorf("state = %v, want stopped", e.State())
	}
}

func TestUpdateErrorStillRunsStopOnce(t *testing.T) {
	b := &mockBackend{}
	e, _ := newTestEngine(t, b)

	boom := errors.New("simulation exploded")
	stops, renders := 0, 0
	err := e.Run(&AppFuncs{
		Update: func(*Engine, time.Duration) error { return boom },
		Render: func(*Engine) error { renders++; return nil },
		Stop:   func(*Engine) error { stops++; return nil },
	})

	var cbErr *CallbackError
	if !errors.As(err, &cbErr) || cbErr.Phase != PhaseUpdate {
		t.Fatalf("want update CallbackError, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Error("terminal result should wrap the callback's error")
	}
	if stops != 1 {
		t.Errorf("OnStop ran %d times, want exactly 1", stops)
	}
	if renders != 0 {
		t.Error("render must not fire after the update error")
	}
	if e.State() != StateStopped {
		t.Errorf("state = %v, want stopped", e.State())
	}
}

func TestRenderErrorIsTerminal(t *testing.T) {
	b := &mockBackend{}
	e, _ := newTestEngine(t, b)

	boom := errors.New("draw failed")
	err := e.Run(&AppFuncs{
		Render: func(*Engine) error { return boom },
	})

	var cbErr *CallbackError
	if !errors.As(err, &cbErr) || cbErr.Phase != PhaseRender {
		t.Fatalf("want render CallbackError, got %v", err)
	}
}

func TestPresentErrorIsTerminal(t *testing.T) {
	boom := errors.New("swap failed")
	b := &mockBackend{presentErr: boom}
	e, _ := newTestEngine(t, b)

	err := e.Run(&AppFuncs{})
	if !errors.Is(err, boom) {
		t.Fatalf("want wrapped present error, got %v", err)
	}
}

func TestPauseSuppressesTicksButNotEvents(t *testing.T) {
	// The backend emits one key event on every poll so event flow is
	// observable during the pause.
	b := &mockBackend{everyPoll: []NativeEvent{{Kind: NativeKey, Key: KeySpace, Down: true}}}
	e, _ := newTestEngine(t, b, WithTargetFPS(60), WithFixedStep(true))

	var updates, renders, pausedEvents, pausedRenders int
	app := &AppFuncs{
		Update: func(e *Engine, _ time.Duration) error {
			updates++
			if updates == 2 {
				e.RequestPause()
			}
			return nil
		},
		Render: func(e *Engine) error {
			renders++
			if e.State() == StatePaused {
				pausedRenders++
			}
			if renders == 4 {
				e.RequestStop()
			}
			return nil
		},
		Event: func(e *Engine, _ Event) error {
			if e.State() == StatePaused {
				pausedEvents++
				if pausedEvents == 3 {
					e.RequestResume()
				}
			}
			return nil
		},
	}

	if err := e.Run(app); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if pausedEvents < 3 {
		t.Errorf("events fired %d times while paused, want at least 3", pausedEvents)
	}
	if pausedRenders != 0 {
		t.Errorf("%d renders fired while paused, want 0", pausedRenders)
	}
	if updates != 4 {
		t.Errorf("updates = %d, want 4: pause must suppress ticks and resume must not replay them", updates)
	}
	if renders != 4 {
		t.Errorf("renders = %d, want 4", renders)
	}
	if e.State() != StateStopped {
		t.Errorf("state = %v, want stopped", e.State())
	}
}

func TestQuitEventStopsEngine(t *testing.T) {
	b := &mockBackend{oncePolls: [][]NativeEvent{
		nil,
		nil,
		{{Kind: NativeQuit}},
	}}
	e, _ := newTestEngine(t, b)

	stops := 0
	sawQuit := false
	err := e.Run(&AppFuncs{
		Event: func(_ *Engine, ev Event) error {
			if _, ok := ev.(QuitEvent); ok {
				sawQuit = true
			}
			return nil
		},
		Stop: func(*Engine) error { stops++; return nil },
	})

	if err != nil {
		t.Fatalf("quit is a normal exit, got %v", err)
	}
	if !sawQuit {
		t.Error("quit event should also be delivered to the app")
	}
	if stops != 1 {
		t.Errorf("OnStop ran %d times, want 1", stops)
	}
	if e.State() != StateStopped {
		t.Errorf("state = %v, want stopped", e.State())
	}
}

func TestStopRequestedBeforeRun(t *testing.T) {
	b := &mockBackend{}
	e, _ := newTestEngine(t, b)

	e.RequestStop() // Created is non-terminal; stop must still land

	stops, updates := 0, 0
	err := e.Run(&AppFuncs{
		Update: func(*Engine, time.Duration) error { updates++; return nil },
		Stop:   func(*Engine) error { stops++; return nil },
	})

	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if updates != 0 {
		t.Errorf("updates = %d, want 0", updates)
	}
	if stops != 1 {
		t.Errorf("OnStop ran %d times, want 1", stops)
	}
	if e.State() != StateStopped {
		t.Errorf("state = %v, want stopped", e.State())
	}
}

func TestStaleRequestsAreNoOps(t *testing.T) {
	b := &mockBackend{}
	e, _ := newTestEngine(t, b)

	// Neither applies to Created; both must be discarded at startup.
	e.RequestPause()
	e.RequestResume()

	var everPaused bool
	renders := 0
	err := e.Run(&AppFuncs{
		Render: func(e *Engine) error {
			renders++
			if e.State() == StatePaused {
				everPaused = true
			}
			if renders == 3 {
				e.RequestStop()
			}
			return nil
		},
	})

	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if everPaused {
		t.Error("stale pause request applied after startup")
	}
	if renders != 3 {
		t.Errorf("renders = %d, want 3", renders)
	}
}

func TestTeardownTimeout(t *testing.T) {
	b := &mockBackend{}
	e, _ := newTestEngine(t, b, WithTeardownTimeout(20*time.Millisecond))
	e.RequestStop()

	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	start := time.Now()
	err := e.Run(&AppFuncs{
		Stop: func(*Engine) error {
			<-release // hangs well past the timeout
			return nil
		},
	})
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("teardown timeout is logged, not returned: %v", err)
	}
	if elapsed > 2*time.Second {
		t.Errorf("Run blocked %v on a hung OnStop, want ~20ms", elapsed)
	}
	if e.State() != StateStopped {
		t.Errorf("state = %v, want stopped: teardown always completes", e.State())
	}
}

func TestStopErrorIsLoggedOnly(t *testing.T) {
	b := &mockBackend{}
	e, _ := newTestEngine(t, b)
	e.RequestStop()

	err := e.Run(&AppFuncs{
		Stop: func(*Engine) error { return errors.New("flush failed") },
	})
	if err != nil {
		t.Fatalf("OnStop errors must not become the terminal result, got %v", err)
	}
	if e.State() != StateStopped {
		t.Errorf("state = %v, want stopped", e.State())
	}
}

func TestRunTwice(t *testing.T) {
	b := &mockBackend{}
	e, _ := newTestEngine(t, b)
	e.RequestStop()

	if err := e.Run(&AppFuncs{}); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if err := e.Run(&AppFuncs{}); !errors.Is(err, ErrAlreadyRun) {
		t.Fatalf("second Run = %v, want ErrAlreadyRun", err)
	}
}

func TestNewUnknownBackend(t *testing.T) {
	_, err := New(WithBackend("no-such-backend"))
	if !errors.Is(err, ErrNoBackend) {
		t.Fatalf("err = %v, want ErrNoBackend", err)
	}
}

func TestHeadlessBackendRegistered(t *testing.T) {
	b := GetBackend("headless")
	if b == nil {
		t.Fatal("headless backend should self-register")
	}
	if b.Name() != "headless" {
		t.Errorf("name = %q", b.Name())
	}

	if err := b.Init(WindowConfig{Title: "t", Width: 1, Height: 1}); err != nil {
		t.Fatalf("headless init: %v", err)
	}
	if err := b.Present(FrameState{Frame: 1}); err != nil {
		t.Fatalf("headless present: %v", err)
	}
	b.Shutdown()
	b.Shutdown() // idempotent
}

func TestVariableStepDeltaPassesThrough(t *testing.T) {
	b := &mockBackend{}
	e, ft := newTestEngine(t, b, WithTargetFPS(60), WithFixedStep(false))

	var deltas []time.Duration
	renders := 0
	err := e.Run(&AppFuncs{
		Update: func(_ *Engine, d time.Duration) error {
			deltas = append(deltas, d)
			// Uneven frame times: the raw delta must come through.
			ft.now = ft.now.Add(3 * time.Millisecond)
			return nil
		},
		Render: func(e *Engine) error {
			renders++
			if renders == 3 {
				e.RequestStop()
			}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(deltas) != 3 {
		t.Fatalf("got %d updates, want 3 (one per iteration)", len(deltas))
	}
	if deltas[0] != 0 {
		t.Errorf("first delta = %v, want 0", deltas[0])
	}
	for i, d := range deltas[1:] {
		if d <= 0 {
			t.Errorf("delta %d = %v, want the raw positive elapsed time", i+1, d)
		}
	}
}
