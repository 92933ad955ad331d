// Package screen implements the state machine every list/detail screen
// shares: one published snapshot per screen, one logical fetch per
// trigger, one-shot events for toasts and navigation.
package screen

type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// State is the single coherent snapshot a screen renders. Snapshots are
// replaced wholesale on every transition, never mutated in place.
// Payload is meaningful only in PhaseReady, Message only in PhaseFailed.
// Refreshing rides alongside so a pull-to-refresh never hides content.
type State[T any] struct {
	Phase      Phase
	Payload    T
	Message    string
	Refreshing bool
}
