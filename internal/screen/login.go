package screen

import (
	"context"
	"sync"

	"swapi/internal/client"
	"swapi/internal/prefs"
)

// LoginHolder drives the login screen. It is not a fetch screen: there
// is nothing to load, only a submit that either navigates away or
// toasts a failure.
type LoginHolder struct {
	api    client.Client
	store  *prefs.Store
	events *events

	mu   sync.Mutex
	busy bool
}

func NewLoginHolder(api client.Client, store *prefs.Store) *LoginHolder {
	return &LoginHolder{api: api, store: store, events: newEvents()}
}

func (h *LoginHolder) Events() <-chan Event { return h.events.ch }

// Busy reports whether a submit is in flight, for the button spinner.
func (h *LoginHolder) Busy() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.busy
}

// Submit attempts a login. Success persists the session flags, arms the
// client with the token and emits a navigate-home signal; any failure
// emits exactly one toast and leaves everything untouched.
func (h *LoginHolder) Submit(ctx context.Context, email, password string) {
	h.mu.Lock()
	if h.busy {
		h.mu.Unlock()
		return
	}
	h.busy = true
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		h.busy = false
		h.mu.Unlock()
	}()

	if email == "" || password == "" {
		h.events.publish(Event{Kind: EventToast, Message: "Enter your email and password."})
		return
	}

	sess, err := h.api.Login(ctx, email, password)
	if err != nil {
		h.events.publish(Event{Kind: EventToast, Message: client.Display(err)})
		return
	}

	h.api.SetToken(sess.Token)
	if _, err := h.store.Update(func(s prefs.Settings) prefs.Settings {
		s.LoggedIn = true
		s.DisplayName = sess.User.DisplayName()
		return s
	}); err != nil {
		h.events.publish(Event{Kind: EventToast, Message: "Signed in, but your session could not be saved."})
	}
	h.events.publish(Event{Kind: EventNavigate, Route: "home"})
}

// Logout clears the token and the persisted session flags. The display
// name resets; onboarding stays complete.
func (h *LoginHolder) Logout() {
	h.api.SetToken("")
	if _, err := h.store.Update(func(s prefs.Settings) prefs.Settings {
		s.LoggedIn = false
		s.DisplayName = ""
		return s
	}); err != nil {
		h.events.publish(Event{Kind: EventToast, Message: "Could not clear your session."})
		return
	}
	h.events.publish(Event{Kind: EventNavigate, Route: "login"})
}
