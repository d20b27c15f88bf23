package engine

import "log/slog"

// dispatcher converts backend-native events into the normalized Event
// stream and delivers them to the active app in arrival order.
//
// Coalescing policy: consecutive MouseMove events with no intervening
// event of another kind collapse into the single most recent position.
// This bounds callback cost during fast pointer motion; all other event
// kinds are delivered individually and never dropped for backpressure.
type dispatcher struct {
	coalesceMotion bool

	// quit latches once a QuitEvent has been observed. The dispatcher
	// does not own lifecycle state; the engine reads and clears this.
	quit bool
}

func newDispatcher(coalesceMotion bool) *dispatcher {
	return &dispatcher{coalesceMotion: coalesceMotion}
}

// pollAndDispatch drains the backend's queued events, maps each to zero or
// one Event (unrecognized natives are dropped, not errored), mirrors the
// event into the input state and invokes app.OnEvent once per event.
// An OnEvent error stops dispatch immediately and is returned wrapped as a
// CallbackError.
func (d *dispatcher) pollAndDispatch(b Backend, e *Engine, app App, in *InputState) error {
	natives := b.PollEvents()
	if len(natives) == 0 {
		return nil
	}

	var pendingMove *MouseMoveEvent

	deliver := func(ev Event) error {
		in.apply(ev)
		if _, ok := ev.(QuitEvent); ok {
			d.quit = true
		}
		if err := app.OnEvent(e, ev); err != nil {
			return &CallbackError{Phase: PhaseEvent, Err: err}
		}
		return nil
	}

	flushMove := func() error {
		if pendingMove == nil {
			return nil
		}
		ev := *pendingMove
		pendingMove = nil
		return deliver(ev)
	}

	for _, n := range natives {
		ev, ok := mapNative(n)
		if !ok {
			Logger().Debug("engine: dropping unrecognized native event",
				slog.Int("kind", int(n.Kind)))
			continue
		}

		if move, isMove := ev.(MouseMoveEvent); isMove && d.coalesceMotion {
			pendingMove = &move
			continue
		}
		if err := flushMove(); err != nil {
			return err
		}
		if err := deliver(ev); err != nil {
			return err
		}
	}
	return flushMove()
}

// quitRequested reports and clears the quit latch.
func (d *dispatcher) quitRequested() bool {
	q := d.quit
	d.quit = false
	return q
}

// mapNative translates a backend-native event into a normalized Event.
// Unknown kinds map to nothing.
func mapNative(n NativeEvent) (Event, bool) {
	switch n.Kind {
	case NativeQuit:
		return QuitEvent{}, true
	case NativeKey:
		return KeyEvent{Key: n.Key, Mod: n.Mod, Down: n.Down}, true
	case NativeMouseMove:
		return MouseMoveEvent{X: n.X, Y: n.Y}, true
	case NativeMouseButton:
		return MouseButtonEvent{Button: n.Button, Down: n.Down, X: n.X, Y: n.Y}, true
	case NativeResize:
		return ResizeEvent{W: n.W, H: n.H}, true
	case NativeFocus:
		return FocusEvent{Gained: n.Gained}, true
	default:
		return nil, false
	}
}
