package engine

// MouseButton represents a mouse button.
type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
	MouseButtonCount
)

// Key represents a keyboard key.
type Key int

const (
	KeyNone Key = iota
	KeyTab
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyInsert
	KeyDelete
	KeyBackspace
	KeySpace
	KeyEnter
	KeyEscape
	KeyA
	KeyC
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyV
	KeyX
	KeyY
	KeyZ
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyCount
)

// Mod is a bitmask of modifier keys held during a key or button event.
type Mod int

const (
	ModCtrl Mod = 1 << iota
	ModShift
	ModAlt
	ModSuper
)

// Has reports whether all modifiers in m are set.
func (m Mod) Has(mod Mod) bool { return m&mod == mod }

// Event is the normalized engine event delivered to App.OnEvent.
// It is a sealed sum type: the concrete kinds are QuitEvent, KeyEvent,
// MouseMoveEvent, MouseButtonEvent, ResizeEvent and FocusEvent.
// Events are delivered in arrival order and are never persisted by the
// engine after dispatch.
type Event interface{ isEvent() }

// QuitEvent signals a close request from the window system (close button,
// Cmd+Q, etc.). It is delivered to the app and then observed by the engine,
// which begins the stopping sequence.
type QuitEvent struct{}

func (QuitEvent) isEvent() {}

// KeyEvent reports a key press or release.
type KeyEvent struct {
	Key  Key
	Mod  Mod
	Down bool
}

func (KeyEvent) isEvent() {}

// MouseMoveEvent reports the cursor position in window coordinates.
// Consecutive motion events with no other event in between may be coalesced
// into the most recent position; see Dispatcher docs for the policy.
type MouseMoveEvent struct {
	X, Y float64
}

func (MouseMoveEvent) isEvent() {}

// MouseButtonEvent reports a mouse button press or release together with
// the cursor position at the time of the event.
type MouseButtonEvent struct {
	Button MouseButton
	Down   bool
	X, Y   float64
}

func (MouseButtonEvent) isEvent() {}

// ResizeEvent reports a new framebuffer size in pixels.
type ResizeEvent struct {
	W, H int
}

func (ResizeEvent) isEvent() {}

// FocusEvent reports the window gaining or losing input focus.
type FocusEvent struct {
	Gained bool
}

func (FocusEvent) isEvent() {}

// KeyName returns a human-readable name for a key.
func KeyName(k Key) string {
	names := map[Key]string{
		KeyNone:      "--",
		KeyTab:       "Tab",
		KeyLeft:      "Left",
		KeyRight:     "Right",
		KeyUp:        "Up",
		KeyDown:      "Down",
		KeyPageUp:    "PgUp",
		KeyPageDown:  "PgDn",
		KeyHome:      "Home",
		KeyEnd:       "End",
		KeyInsert:    "Ins",
		KeyDelete:    "Del",
		KeyBackspace: "Backspace",
		KeySpace:     "Space",
		KeyEnter:     "Enter",
		KeyEscape:    "Esc",
		KeyA:         "A",
		KeyC:         "C",
		KeyP:         "P",
		KeyQ:         "Q",
		KeyR:         "R",
		KeyS:         "S",
		KeyV:         "V",
		KeyX:         "X",
		KeyY:         "Y",
		KeyZ:         "Z",
		KeyF1:        "F1",
		KeyF2:        "F2",
		KeyF3:        "F3",
		KeyF4:        "F4",
		KeyF5:        "F5",
		KeyF6:        "F6",
		KeyF7:        "F7",
		KeyF8:        "F8",
		KeyF9:        "F9",
		KeyF10:       "F10",
		KeyF11:       "F11",
		KeyF12:       "F12",
	}
	if name, ok := names[k]; ok {
		return name
	}
	return "?"
}
