package engine

import (
	"sync"
	"time"
)

// WindowConfig describes the window a backend should create during Init.
type WindowConfig struct {
	Title  string
	Width  int
	Height int
	VSync  bool
}

// FrameState describes a completed frame passed to Backend.Present.
type FrameState struct {
	// Frame is the render frame counter, starting at 1 for the first
	// presented frame.
	Frame uint64

	// Delta is the wall-clock time covered by this frame.
	Delta time.Duration

	// Clear is the RGBA clear color for the frame.
	Clear [4]float32
}

// NativeEventKind tags a raw backend event.
type NativeEventKind int

const (
	NativeUnknown NativeEventKind = iota
	NativeQuit
	NativeKey
	NativeMouseMove
	NativeMouseButton
	NativeResize
	NativeFocus
)

// NativeEvent is a raw event produced by a backend's event queue.
// Backends translate their platform key and button codes into engine codes
// (see backend/opengl for the GLFW tables); the Dispatcher maps NativeEvents
// to the normalized Event stream. Events with an unrecognized Kind are
// dropped during dispatch rather than treated as errors.
type NativeEvent struct {
	Kind NativeEventKind

	// Key and Mod are set for NativeKey.
	Key Key
	Mod Mod

	// Button is set for NativeMouseButton.
	Button MouseButton

	// Down is set for NativeKey and NativeMouseButton.
	Down bool

	// X, Y are set for NativeMouseMove and NativeMouseButton.
	X, Y float64

	// W, H are set for NativeResize.
	W, H int

	// Gained is set for NativeFocus.
	Gained bool
}

// Backend is the contract between the engine core and a concrete
// windowing/rendering implementation. The engine reaches the platform only
// through this interface, so backends are swappable (OpenGL/GLFW, headless
// for tests, etc.).
//
// All methods are called from the engine's loop goroutine. PollEvents must
// be non-blocking: it drains whatever is queued and returns. Shutdown must
// be idempotent.
type Backend interface {
	// Name returns the backend identifier (e.g. "opengl", "headless").
	Name() string

	// Init creates the window and rendering surface. It is called exactly
	// once, before any other method. An error aborts engine startup.
	Init(cfg WindowConfig) error

	// PollEvents drains all currently queued platform events and returns
	// them in arrival order. It never blocks waiting for input.
	PollEvents() []NativeEvent

	// Present submits a completed frame for display.
	Present(fs FrameState) error

	// Shutdown releases platform resources. Safe to call more than once.
	Shutdown()
}

// BackendFactory creates a new backend instance.
type BackendFactory func() Backend

// Backend registry. Concrete backends self-register from init() functions
// in their own packages, so importing a backend package is enough to make
// it selectable.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]BackendFactory)

	// Priority order for backend selection (first available wins).
	backendPriority = []string{"opengl", "headless"}
)

// RegisterBackend registers a backend factory under the given name.
// A factory registered under an existing name replaces it.
func RegisterBackend(name string, factory BackendFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// UnregisterBackend removes a backend from the registry. Useful for tests.
func UnregisterBackend(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// AvailableBackends returns the names of all registered backends.
func AvailableBackends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	return names
}

// GetBackend returns a new backend instance by name, or nil if the name is
// not registered.
func GetBackend(name string) Backend {
	registryMu.RLock()
	defer registryMu.RUnlock()

	factory, ok := backends[name]
	if !ok {
		return nil
	}
	return factory()
}

// DefaultBackend returns the best available backend based on priority,
// or nil if none is registered.
func DefaultBackend() Backend {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range backendPriority {
		if factory, ok := backends[name]; ok {
			if b := factory(); b != nil {
				return b
			}
		}
	}
	for _, factory := range backends {
		if b := factory(); b != nil {
			return b
		}
	}
	return nil
}
