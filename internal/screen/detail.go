package screen

import (
	"context"

	"swapi/internal/client"
	"swapi/internal/domain"
)

// DetailHolder drives a single listing's detail screen. The lookup goes
// through the repository cache, so opening a detail from a loaded feed
// costs no network call.
type DetailHolder struct {
	*Holder[domain.Listing]
	repo *client.Repository
	id   string
}

func NewDetailHolder(repo *client.Repository, id string) *DetailHolder {
	d := &DetailHolder{repo: repo, id: id}
	d.Holder = NewHolder(func(ctx context.Context) (domain.Listing, error) {
		return repo.ListingByID(ctx, id)
	})
	return d
}

// ToggleSave flips the saved state from the detail screen.
func (d *DetailHolder) ToggleSave(ctx context.Context) {
	saved, err := d.repo.ToggleSave(ctx, d.id)
	if err != nil {
		d.toastError(err)
		return
	}
	st := d.State()
	if st.Phase == PhaseReady {
		l := st.Payload
		l.Saved = saved
		d.setReady(l)
	}
}

// SubmitEdit pushes edited fields and republishes the updated listing.
// On failure the visible listing is unchanged and one toast is emitted.
func (d *DetailHolder) SubmitEdit(ctx context.Context, draft client.ListingDraft) {
	updated, err := d.repo.UpdateListing(ctx, d.id, draft)
	if err != nil {
		d.toastError(err)
		return
	}
	d.setReady(updated)
}

// Delete removes the listing and signals navigation back to the feed.
func (d *DetailHolder) Delete(ctx context.Context) {
	if err := d.repo.DeleteListing(ctx, d.id); err != nil {
		d.toastError(err)
		return
	}
	d.events.publish(Event{Kind: EventNavigate, Route: "feed"})
}
