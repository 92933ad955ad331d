package screen_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"swapi/internal/client"
	"swapi/internal/screen"
)

func drainOne(t *testing.T, ch <-chan screen.Event) screen.Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("expected an event")
		return screen.Event{}
	}
}

func assertNoEvent(t *testing.T, ch <-chan screen.Event) {
	t.Helper()
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event: %+v", ev)
	default:
	}
}

func TestStartTransitions(t *testing.T) {
	ctx := context.Background()

	okHolder := screen.NewHolder(func(ctx context.Context) ([]string, error) {
		return []string{"a", "b"}, nil
	})
	if st := okHolder.State(); st.Phase != screen.PhaseLoading {
		t.Fatalf("initial phase must be loading, got %v", st.Phase)
	}
	okHolder.Start(ctx)
	st := okHolder.State()
	if st.Phase != screen.PhaseReady || len(st.Payload) != 2 {
		t.Fatalf("want ready with payload, got %+v", st)
	}

	failHolder := screen.NewHolder(func(ctx context.Context) ([]string, error) {
		return nil, &client.APIError{Kind: client.FailureConnectivity}
	})
	failHolder.Start(ctx)
	fst := failHolder.State()
	if fst.Phase != screen.PhaseFailed {
		t.Fatalf("want failed, got %+v", fst)
	}
	if fst.Message != "Check your internet connection and try again." {
		t.Fatalf("failure must carry the display string, got %q", fst.Message)
	}
}

func TestRetryAfterFailure(t *testing.T) {
	ctx := context.Background()
	calls := 0
	h := screen.NewHolder(func(ctx context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, errors.New("boom")
		}
		return 42, nil
	})

	h.Start(ctx)
	if st := h.State(); st.Phase != screen.PhaseFailed {
		t.Fatalf("want failed after first fetch, got %+v", st)
	}

	h.Retry(ctx)
	st := h.State()
	if st.Phase != screen.PhaseReady || st.Payload != 42 {
		t.Fatalf("want ready(42) after retry, got %+v", st)
	}
}

func TestRefreshFailureKeepsPayload(t *testing.T) {
	ctx := context.Background()
	calls := 0
	h := screen.NewHolder(func(ctx context.Context) ([]string, error) {
		calls++
		if calls == 1 {
			return []string{"old"}, nil
		}
		return nil, &client.APIError{Kind: client.FailureServer, Message: "feed unavailable"}
	})

	h.Start(ctx)
	h.Refresh(ctx)

	st := h.State()
	if st.Phase != screen.PhaseReady || len(st.Payload) != 1 || st.Payload[0] != "old" {
		t.Fatalf("failed refresh must keep the old payload, got %+v", st)
	}
	if st.Refreshing {
		t.Fatal("refreshing flag not cleared")
	}

	ev := drainOne(t, h.Events())
	if ev.Kind != screen.EventToast || ev.Message != "feed unavailable" {
		t.Fatalf("want one toast with the server message, got %+v", ev)
	}
	assertNoEvent(t, h.Events()) // exactly once, no replay
}

func TestRefreshSuccessReplacesPayload(t *testing.T) {
	ctx := context.Background()
	calls := 0
	h := screen.NewHolder(func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "first", nil
		}
		return "second", nil
	})

	h.Start(ctx)
	h.Refresh(ctx)

	st := h.State()
	if st.Phase != screen.PhaseReady || st.Payload != "second" || st.Refreshing {
		t.Fatalf("want ready(second), got %+v", st)
	}
	assertNoEvent(t, h.Events())
}

func TestRefreshingClearedWhenFetchPanics(t *testing.T) {
	ctx := context.Background()
	calls := 0
	h := screen.NewHolder(func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "loaded", nil
		}
		panic("fetch blew up")
	})

	h.Start(ctx)
	func() {
		defer func() { _ = recover() }()
		h.Refresh(ctx)
	}()

	if st := h.State(); st.Refreshing {
		t.Fatal("refreshing flag must clear even when the fetch panics")
	}
}

func TestNewestTriggerWins(t *testing.T) {
	ctx := context.Background()

	var mu sync.Mutex
	call := 0
	entered := make(chan struct{})
	release := make(chan struct{})

	h := screen.NewHolder(func(ctx context.Context) (string, error) {
		mu.Lock()
		call++
		me := call
		mu.Unlock()
		if me == 1 {
			close(entered)
			<-release // stall the first fetch until the second finished
			return "stale", nil
		}
		return "fresh", nil
	})

	done := make(chan struct{})
	go func() {
		h.Start(ctx)
		close(done)
	}()
	<-entered

	h.Start(ctx) // supersedes the stalled fetch
	close(release)
	<-done

	st := h.State()
	if st.Phase != screen.PhaseReady || st.Payload != "fresh" {
		t.Fatalf("stale completion overwrote newer result: %+v", st)
	}
}
