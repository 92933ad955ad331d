package screen

import (
	"context"

	"swapi/internal/client"
	"swapi/internal/domain"
)

// SavedHolder drives the favorites screen. The saved list is always
// fetched fresh; it is not part of the feed cache.
type SavedHolder struct {
	*Holder[[]domain.Listing]
	repo *client.Repository
}

func NewSavedHolder(repo *client.Repository) *SavedHolder {
	s := &SavedHolder{repo: repo}
	s.Holder = NewHolder(func(ctx context.Context) ([]domain.Listing, error) {
		return repo.Saved(ctx)
	})
	return s
}

// Unsave toggles a listing off the favorites list. Success drops it
// from the visible payload; failure leaves the list as it was.
func (s *SavedHolder) Unsave(ctx context.Context, id string) {
	saved, err := s.repo.ToggleSave(ctx, id)
	if err != nil {
		s.toastError(err)
		return
	}
	st := s.State()
	if st.Phase != PhaseReady {
		return
	}
	if saved {
		// The server reports it as saved again; nothing to drop.
		return
	}
	out := make([]domain.Listing, 0, len(st.Payload))
	for _, l := range st.Payload {
		if l.ID != id {
			out = append(out, l)
		}
	}
	s.setReady(out)
}
