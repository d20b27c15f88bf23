package engine

import (
	"time"

	"github.com/go-theft-auto/engine/cache"
)

// Stats is a point-in-time snapshot of engine runtime counters.
type Stats struct {
	// State is the lifecycle state at snapshot time.
	State State

	// Frames is the number of completed render ticks.
	Frames uint64

	// Uptime is the wall time since the engine entered Running.
	Uptime time.Duration

	// FrameRate is the average frame rate over the whole session.
	FrameRate float64

	// Textures and Glyphs report resource-cache effectiveness.
	Textures cache.Stats
	Glyphs   cache.Stats
}

// Stats returns a snapshot of the engine's runtime counters. Useful for a
// debug overlay or an FPS-in-title display.
func (e *Engine) Stats() Stats {
	s := Stats{
		State:    e.State(),
		Frames:   e.clock.frameCount(),
		Textures: e.textures.Stats(),
		Glyphs:   e.text.Stats(),
	}
	if !e.started.IsZero() {
		s.Uptime = e.now().Sub(e.started)
		if secs := s.Uptime.Seconds(); secs > 0 {
			s.FrameRate = float64(s.Frames) / secs
		}
	}
	return s
}
