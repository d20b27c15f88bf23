package engine

// HeadlessBackend is a windowless backend for tests, CI and tooling. It
// creates no surface, presents nowhere and emits only the events pushed
// into it. Registered under "headless" as the lowest-priority fallback.
type HeadlessBackend struct {
	queue       []NativeEvent
	initialized bool
	cfg         WindowConfig

	presented uint64
}

func init() {
	RegisterBackend("headless", func() Backend { return NewHeadless() })
}

// NewHeadless creates a headless backend.
func NewHeadless() *HeadlessBackend {
	return &HeadlessBackend{}
}

// Name implements Backend.
func (b *HeadlessBackend) Name() string { return "headless" }

// Init implements Backend.
func (b *HeadlessBackend) Init(cfg WindowConfig) error {
	b.cfg = cfg
	b.initialized = true
	return nil
}

// PollEvents implements Backend: it drains whatever was pushed.
func (b *HeadlessBackend) PollEvents() []NativeEvent {
	if len(b.queue) == 0 {
		return nil
	}
	drained := b.queue
	b.queue = nil
	return drained
}

// Present implements Backend.
func (b *HeadlessBackend) Present(FrameState) error {
	b.presented++
	return nil
}

// Shutdown implements Backend. Idempotent.
func (b *HeadlessBackend) Shutdown() {
	b.initialized = false
	b.queue = nil
}

// Push queues native events for the next PollEvents drain. Call it from
// the loop goroutine (e.g. an OnUpdate callback) to script input.
func (b *HeadlessBackend) Push(events ...NativeEvent) {
	b.queue = append(b.queue, events...)
}

// Presented returns how many frames have been presented.
func (b *HeadlessBackend) Presented() uint64 { return b.presented }

// WindowConfig returns the config Init received.
func (b *HeadlessBackend) WindowConfig() WindowConfig { return b.cfg }
