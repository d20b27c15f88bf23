// Example demonstrates a minimal application driven by the engine: a
// window with a clear color that reacts to input, pauses on P and quits
// on Escape or window close.
//
// Prerequisites:
//
//	Install devbox: https://www.jetify.com/devbox
//	devbox shell              # enter the dev environment (provides Go + OpenGL/X11 headers)
//	go run ./example/         # run this example
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/go-theft-auto/engine"
	"github.com/go-theft-auto/engine/backend/opengl"
)

func init() {
	// GLFW must run on the main thread.
	runtime.LockOSThread()
}

type demo struct {
	hue float32
}

func (d *demo) OnSetup(e *engine.Engine) error {
	e.SetClearColor(0.12, 0.12, 0.14, 1.0)

	// Release GPU textures when the cache evicts their pixels.
	if b, ok := e.Backend().(*opengl.Backend); ok {
		b.AttachTextures(e.Textures())
	}
	return nil
}

func (d *demo) OnUpdate(e *engine.Engine, dt time.Duration) error {
	// Cycle the clear color so there is something to look at.
	d.hue += float32(dt.Seconds()) * 0.1
	if d.hue > 1 {
		d.hue -= 1
	}
	e.SetClearColor(0.1+0.2*d.hue, 0.12, 0.3-0.2*d.hue, 1.0)
	return nil
}

func (d *demo) OnRender(e *engine.Engine) error {
	if e.FrameCount()%60 == 0 {
		stats := e.Stats()
		fmt.Printf("frame %d  %.1f fps\n", stats.Frames, stats.FrameRate)
	}
	return nil
}

func (d *demo) OnEvent(e *engine.Engine, ev engine.Event) error {
	key, ok := ev.(engine.KeyEvent)
	if !ok || !key.Down {
		return nil
	}
	switch key.Key {
	case engine.KeyEscape:
		e.RequestStop()
	case engine.KeyP:
		if e.State() == engine.StatePaused {
			e.RequestResume()
		} else {
			e.RequestPause()
		}
	}
	return nil
}

func (d *demo) OnStop(e *engine.Engine) error {
	fmt.Printf("rendered %d frames\n", e.FrameCount())
	return nil
}

func main() {
	engine.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	e, err := engine.New(
		engine.WithTitle("engine example"),
		engine.WithSize(800, 600),
		engine.WithTargetFPS(60),
		engine.WithVSync(true),
		engine.WithBackend("opengl"),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := e.Run(&demo{}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
