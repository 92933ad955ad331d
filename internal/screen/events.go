package screen

type EventKind int

const (
	EventToast EventKind = iota
	EventNavigate
)

// Event is a transient notification: a toast message or a one-time
// navigation signal.
type Event struct {
	Kind    EventKind
	Message string
	Route   string
}

// events is a bounded one-shot channel. Each event is delivered to at
// most one live receiver; nothing is replayed, so late subscribers miss
// prior events. When nobody is draining and the buffer fills, new
// events are dropped rather than blocking a completion callback.
type events struct {
	ch chan Event
}

func newEvents() *events {
	return &events{ch: make(chan Event, 8)}
}

func (e *events) publish(ev Event) {
	select {
	case e.ch <- ev:
	default:
	}
}
