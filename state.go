package engine

// State is the engine lifecycle state. Transitions are strictly sequential
// and only the engine itself mutates its state:
//
//	Created  --Run ok-->        Running
//	Created  --init failed-->   Stopped
//	Running  --RequestPause-->  Paused
//	Running  --quit/stop/err--> Stopping
//	Paused   --RequestResume--> Running
//	Paused   --quit/stop-->     Stopping
//	Stopping --teardown done--> Stopped
//
// Stopped is terminal. No lifecycle callback fires outside its state:
// OnUpdate and OnRender only in Running, OnStop only in Stopping.
type State int32

const (
	StateCreated State = iota
	StateRunning
	StatePaused
	StateStopping
	StateStopped
)

// String returns the state name for logs and errors.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "invalid"
	}
}

// Terminal reports whether the state is the terminal Stopped state.
func (s State) Terminal() bool { return s == StateStopped }
