package engine

// Events receives session lifecycle notifications. Implementations must
// not block: the dispatch loop calls them inline.
type Events interface {
	ScanStarted(sessionID string)
	ScanProgress(sessionID string, percent int)
	ScanCompleted(sessionID string)
	ScanStopped(sessionID string)
	ScanFailed(sessionID string, err error)
}

// NopEvents discards all events.
type NopEvents struct{}

func (NopEvents) ScanStarted(string)       {}
func (NopEvents) ScanProgress(string, int) {}
func (NopEvents) ScanCompleted(string)     {}
func (NopEvents) ScanStopped(string)       {}
func (NopEvents) ScanFailed(string, error) {}

// Event is one lifecycle notification as delivered by ChannelEvents.
type Event struct {
	Kind      string // started | progress | completed | stopped | failed
	SessionID string
	Percent   int
	Err       error
}

// ChannelEvents forwards lifecycle events onto a buffered channel the
// caller subscribes to. Events are dropped, not blocked on, when the
// subscriber lags behind.
type ChannelEvents struct {
	C chan Event
}

// NewChannelEvents returns a subscriber with the given buffer size.
func NewChannelEvents(buffer int) *ChannelEvents {
	if buffer <= 0 {
		buffer = 64
	}
	return &ChannelEvents{C: make(chan Event, buffer)}
}

func (e *ChannelEvents) publish(ev Event) {
	select {
	case e.C <- ev:
	default:
	}
}

func (e *ChannelEvents) ScanStarted(id string) {
	e.publish(Event{Kind: "started", SessionID: id})
}

func (e *ChannelEvents) ScanProgress(id string, percent int) {
	e.publish(Event{Kind: "progress", SessionID: id, Percent: percent})
}

func (e *ChannelEvents) ScanCompleted(id string) {
	e.publish(Event{Kind: "completed", SessionID: id})
}

func (e *ChannelEvents) ScanStopped(id string) {
	e.publish(Event{Kind: "stopped", SessionID: id})
}

func (e *ChannelEvents) ScanFailed(id string, err error) {
	e.publish(Event{Kind: "failed", SessionID: id, Err: err})
}
