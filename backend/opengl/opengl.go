// Package opengl provides a GLFW/OpenGL 4.1 backend for the engine.
//
// Importing the package registers it under the name "opengl", making it
// the default backend when available. GLFW requires the engine loop to run
// on the main OS thread; call runtime.LockOSThread from an init function
// in the application's main package.
package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-theft-auto/engine"
)

func init() {
	engine.RegisterBackend("opengl", func() engine.Backend { return New() })
}

// Backend implements engine.Backend on a GLFW window with an OpenGL 4.1
// core-profile context.
type Backend struct {
	window *glfw.Window

	// queue collects events from GLFW callbacks between polls.
	queue []engine.NativeEvent

	textures map[engine.TextureKey]uint32

	initialized bool
	closeSent   bool
}

// New creates an uninitialized OpenGL backend. The engine calls Init.
func New() *Backend {
	return &Backend{textures: make(map[engine.TextureKey]uint32)}
}

// Name implements engine.Backend.
func (b *Backend) Name() string { return "opengl" }

// Init implements engine.Backend: it creates the window, the GL context
// and installs the event callbacks.
func (b *Backend) Init(cfg engine.WindowConfig) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()

	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	if err := gl.Init(); err != nil {
		window.Destroy()
		glfw.Terminate()
		return fmt.Errorf("gl init: %w", err)
	}

	b.window = window
	b.initialized = true
	b.installCallbacks()
	return nil
}

// PollEvents implements engine.Backend. It pumps GLFW and drains the queue
// filled by the callbacks. Non-blocking.
func (b *Backend) PollEvents() []engine.NativeEvent {
	if !b.initialized {
		return nil
	}
	glfw.PollEvents()

	if b.window.ShouldClose() && !b.closeSent {
		b.closeSent = true
		b.queue = append(b.queue, engine.NativeEvent{Kind: engine.NativeQuit})
	}

	if len(b.queue) == 0 {
		return nil
	}
	drained := b.queue
	b.queue = nil
	return drained
}

// Present implements engine.Backend: clear, then swap.
func (b *Backend) Present(fs engine.FrameState) error {
	if !b.initialized {
		return fmt.Errorf("opengl: present before init")
	}
	w, h := b.window.GetFramebufferSize()
	gl.Viewport(0, 0, int32(w), int32(h))
	gl.ClearColor(fs.Clear[0], fs.Clear[1], fs.Clear[2], fs.Clear[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	b.window.SwapBuffers()
	return nil
}

// Shutdown implements engine.Backend. Idempotent.
func (b *Backend) Shutdown() {
	if !b.initialized {
		return
	}
	for key, tex := range b.textures {
		gl.DeleteTextures(1, &tex)
		delete(b.textures, key)
	}
	b.window.Destroy()
	b.window = nil
	glfw.Terminate()
	b.initialized = false
}

func (b *Backend) installCallbacks() {
	b.window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		engineKey := glfwKeyToEngineKey(key)
		if engineKey == engine.KeyNone {
			b.queue = append(b.queue, engine.NativeEvent{Kind: engine.NativeUnknown})
			return
		}
		switch action {
		case glfw.Press, glfw.Repeat:
			b.queue = append(b.queue, engine.NativeEvent{
				Kind: engine.NativeKey,
				Key:  engineKey,
				Mod:  glfwModsToEngine(mods),
				Down: true,
			})
		case glfw.Release:
			b.queue = append(b.queue, engine.NativeEvent{
				Kind: engine.NativeKey,
				Key:  engineKey,
				Mod:  glfwModsToEngine(mods),
			})
		}
	})

	b.window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		b.queue = append(b.queue, engine.NativeEvent{
			Kind: engine.NativeMouseMove,
			X:    xpos,
			Y:    ypos,
		})
	})

	b.window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		engineButton := glfwMouseButtonToEngine(button)
		if engineButton < 0 {
			b.queue = append(b.queue, engine.NativeEvent{Kind: engine.NativeUnknown})
			return
		}
		x, y := w.GetCursorPos()
		b.queue = append(b.queue, engine.NativeEvent{
			Kind:   engine.NativeMouseButton,
			Button: engineButton,
			Down:   action == glfw.Press,
			X:      x,
			Y:      y,
		})
	})

	b.window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		b.queue = append(b.queue, engine.NativeEvent{
			Kind: engine.NativeResize,
			W:    width,
			H:    height,
		})
	})

	b.window.SetFocusCallback(func(w *glfw.Window, focused bool) {
		b.queue = append(b.queue, engine.NativeEvent{
			Kind:   engine.NativeFocus,
			Gained: focused,
		})
	})
}

// glfwKeyToEngineKey maps GLFW keys to engine keys. Keys outside the
// engine's set map to KeyNone and are dropped during dispatch.
func glfwKeyToEngineKey(key glfw.Key) engine.Key {
	switch key {
	case glfw.KeyTab:
		return engine.KeyTab
	case glfw.KeyLeft:
		return engine.KeyLeft
	case glfw.KeyRight:
		return engine.KeyRight
	case glfw.KeyUp:
		return engine.KeyUp
	case glfw.KeyDown:
		return engine.KeyDown
	case glfw.KeyPageUp:
		return engine.KeyPageUp
	case glfw.KeyPageDown:
		return engine.KeyPageDown
	case glfw.KeyHome:
		return engine.KeyHome
	case glfw.KeyEnd:
		return engine.KeyEnd
	case glfw.KeyInsert:
		return engine.KeyInsert
	case glfw.KeyDelete:
		return engine.KeyDelete
	case glfw.KeyBackspace:
		return engine.KeyBackspace
	case glfw.KeySpace:
		return engine.KeySpace
	case glfw.KeyEnter:
		return engine.KeyEnter
	case glfw.KeyEscape:
		return engine.KeyEscape
	case glfw.KeyA:
		return engine.KeyA
	case glfw.KeyC:
		return engine.KeyC
	case glfw.KeyP:
		return engine.KeyP
	case glfw.KeyQ:
		return engine.KeyQ
	case glfw.KeyR:
		return engine.KeyR
	case glfw.KeyS:
		return engine.KeyS
	case glfw.KeyV:
		return engine.KeyV
	case glfw.KeyX:
		return engine.KeyX
	case glfw.KeyY:
		return engine.KeyY
	case glfw.KeyZ:
		return engine.KeyZ
	case glfw.KeyF1:
		return engine.KeyF1
	case glfw.KeyF2:
		return engine.KeyF2
	case glfw.KeyF3:
		return engine.KeyF3
	case glfw.KeyF4:
		return engine.KeyF4
	case glfw.KeyF5:
		return engine.KeyF5
	case glfw.KeyF6:
		return engine.KeyF6
	case glfw.KeyF7:
		return engine.KeyF7
	case glfw.KeyF8:
		return engine.KeyF8
	case glfw.KeyF9:
		return engine.KeyF9
	case glfw.KeyF10:
		return engine.KeyF10
	case glfw.KeyF11:
		return engine.KeyF11
	case glfw.KeyF12:
		return engine.KeyF12
	default:
		return engine.KeyNone
	}
}

// glfwMouseButtonToEngine maps GLFW mouse buttons to engine buttons.
// Returns -1 for buttons outside the engine's set.
func glfwMouseButtonToEngine(button glfw.MouseButton) engine.MouseButton {
	switch button {
	case glfw.MouseButtonLeft:
		return engine.MouseButtonLeft
	case glfw.MouseButtonRight:
		return engine.MouseButtonRight
	case glfw.MouseButtonMiddle:
		return engine.MouseButtonMiddle
	default:
		return -1
	}
}

func glfwModsToEngine(mods glfw.ModifierKey) engine.Mod {
	var m engine.Mod
	if mods&glfw.ModControl != 0 {
		m |= engine.ModCtrl
	}
	if mods&glfw.ModShift != 0 {
		m |= engine.ModShift
	}
	if mods&glfw.ModAlt != 0 {
		m |= engine.ModAlt
	}
	if mods&glfw.ModSuper != 0 {
		m |= engine.ModSuper
	}
	return m
}
