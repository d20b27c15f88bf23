package engine

// InputState holds the held-key and held-button state the application can
// poll between events (e.g. from OnUpdate). It is maintained by the event
// dispatcher: every dispatched event is mirrored into it before the app's
// OnEvent callback runs, so queries made from OnEvent already see the
// event applied.
type InputState struct {
	// Mouse position in window coordinates.
	mouseX, mouseY float64

	// Mouse position at the start of the previous frame.
	prevMouseX, prevMouseY float64

	mouseDown [MouseButtonCount]bool
	keyDown   [KeyCount]bool

	mods    Mod
	focused bool
}

// NewInputState creates an empty InputState. The window is assumed focused
// until a FocusEvent says otherwise.
func NewInputState() *InputState {
	return &InputState{focused: true}
}

// beginFrame rolls the previous-frame mouse position. Called once per loop
// iteration before events are dispatched.
func (s *InputState) beginFrame() {
	s.prevMouseX, s.prevMouseY = s.mouseX, s.mouseY
}

// apply mirrors a dispatched event into the held state.
func (s *InputState) apply(ev Event) {
	switch e := ev.(type) {
	case KeyEvent:
		if e.Key >= 0 && e.Key < KeyCount {
			s.keyDown[e.Key] = e.Down
		}
		s.mods = e.Mod
	case MouseMoveEvent:
		s.mouseX, s.mouseY = e.X, e.Y
	case MouseButtonEvent:
		if e.Button >= 0 && e.Button < MouseButtonCount {
			s.mouseDown[e.Button] = e.Down
		}
		s.mouseX, s.mouseY = e.X, e.Y
	case FocusEvent:
		s.focused = e.Gained
		if !e.Gained {
			// Keys released while unfocused never produce events;
			// drop the held state instead of leaving keys stuck.
			s.keyDown = [KeyCount]bool{}
			s.mouseDown = [MouseButtonCount]bool{}
			s.mods = 0
		}
	}
}

// MousePos returns the current mouse position in window coordinates.
func (s *InputState) MousePos() (x, y float64) {
	return s.mouseX, s.mouseY
}

// PrevMousePos returns the mouse position at the start of the previous
// frame, useful for computing per-frame motion deltas.
func (s *InputState) PrevMousePos() (x, y float64) {
	return s.prevMouseX, s.prevMouseY
}

// MouseDown reports whether a mouse button is currently held.
func (s *InputState) MouseDown(button MouseButton) bool {
	if button < 0 || button >= MouseButtonCount {
		return false
	}
	return s.mouseDown[button]
}

// KeyDown reports whether a key is currently held.
func (s *InputState) KeyDown(key Key) bool {
	if key < 0 || key >= KeyCount {
		return false
	}
	return s.keyDown[key]
}

// Modifiers returns the modifier mask from the most recent key event.
func (s *InputState) Modifiers() Mod { return s.mods }

// Focused reports whether the window currently has input focus.
func (s *InputState) Focused() bool { return s.focused }
