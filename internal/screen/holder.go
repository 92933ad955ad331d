package screen

import (
	"context"
	"sync"

	"swapi/internal/client"
)

// FetchFunc produces a screen's payload.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Holder owns one screen's published state and orchestrates its
// fetches. Start/Refresh/Retry block until the fetch completes; the UI
// shell runs them off the render path (`go h.Start(ctx)`) and reads
// State from it at any time.
//
// A trigger while another fetch is in flight does not cancel it; each
// trigger bumps a generation counter and a completion only lands if its
// generation is still current, so the newest trigger wins. Results
// arriving after the screen is gone are dropped, never a panic.
type Holder[T any] struct {
	fetch  FetchFunc[T]
	events *events

	mu    sync.Mutex
	state State[T]
	gen   uint64
}

func NewHolder[T any](fetch FetchFunc[T]) *Holder[T] {
	return &Holder[T]{
		fetch:  fetch,
		events: newEvents(),
		state:  State[T]{Phase: PhaseLoading},
	}
}

// State returns the current snapshot. Safe from the render path.
func (h *Holder[T]) State() State[T] {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Events exposes the one-shot notification channel.
func (h *Holder[T]) Events() <-chan Event {
	return h.events.ch
}

// Start runs the initial fetch. State goes to Loading first unless a
// refresh is already in flight, in which case the visible payload is
// preserved to avoid a flash.
func (h *Holder[T]) Start(ctx context.Context) {
	h.mu.Lock()
	h.gen++
	g := h.gen
	if !h.state.Refreshing {
		h.state = State[T]{Phase: PhaseLoading}
	}
	h.mu.Unlock()

	payload, err := h.fetch(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()
	if g != h.gen {
		return // superseded by a newer trigger
	}
	if err != nil {
		h.state = State[T]{Phase: PhaseFailed, Message: client.Display(err)}
		return
	}
	h.state = State[T]{Phase: PhaseReady, Payload: payload}
}

// Retry re-runs the initial fetch after a failure.
func (h *Holder[T]) Retry(ctx context.Context) { h.Start(ctx) }

// Refresh re-fetches without dropping the visible payload. The
// refreshing flag is cleared on every path, success or failure; a
// failed refresh keeps the old payload and emits exactly one toast.
func (h *Holder[T]) Refresh(ctx context.Context) {
	h.refreshWith(ctx, h.fetch)
}

// refreshWith runs the refresh state machine over an alternate fetch.
// Concrete holders substitute one when a refresh must bypass a cache
// the regular fetch reads from.
func (h *Holder[T]) refreshWith(ctx context.Context, fetch FetchFunc[T]) {
	h.mu.Lock()
	if h.state.Refreshing {
		h.mu.Unlock()
		return // one refresh at a time
	}
	h.gen++
	g := h.gen
	h.state.Refreshing = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		h.state.Refreshing = false
		h.mu.Unlock()
	}()

	payload, err := fetch(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()
	if g != h.gen {
		return
	}
	if err != nil {
		if h.state.Phase == PhaseReady {
			h.events.publish(Event{Kind: EventToast, Message: client.Display(err)})
			return
		}
		h.state = State[T]{Phase: PhaseFailed, Message: client.Display(err), Refreshing: h.state.Refreshing}
		return
	}
	h.state = State[T]{Phase: PhaseReady, Payload: payload, Refreshing: h.state.Refreshing}
}

// setReady publishes a new Ready payload; used by mutating operations
// that re-derive the screen content after a successful call.
func (h *Holder[T]) setReady(payload T) {
	h.mu.Lock()
	h.state = State[T]{Phase: PhaseReady, Payload: payload, Refreshing: h.state.Refreshing}
	h.mu.Unlock()
}

// toastError reports a mutation failure without touching the state.
func (h *Holder[T]) toastError(err error) {
	h.events.publish(Event{Kind: EventToast, Message: client.Display(err)})
}
