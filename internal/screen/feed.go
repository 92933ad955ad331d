package screen

import (
	"context"

	"swapi/internal/client"
	"swapi/internal/domain"
)

// FeedHolder drives the listings feed screen: the full feed, a live
// search filter over it, and the inline toggle-save/delete mutations.
type FeedHolder struct {
	*Holder[[]domain.Listing]
	repo *client.Repository

	query string
}

func NewFeedHolder(repo *client.Repository) *FeedHolder {
	f := &FeedHolder{repo: repo}
	f.Holder = NewHolder(func(ctx context.Context) ([]domain.Listing, error) {
		return repo.Filter(ctx, f.query)
	})
	return f
}

// Refresh refetches the feed from the network, replacing the cache
// slot, then re-applies the current query. A plain holder refresh would
// re-read the memoized feed and miss listings created elsewhere.
func (f *FeedHolder) Refresh(ctx context.Context) {
	f.refreshWith(ctx, func(ctx context.Context) ([]domain.Listing, error) {
		if _, err := f.repo.Refresh(ctx); err != nil {
			return nil, err
		}
		return f.repo.Filter(ctx, f.query)
	})
}

// SetQuery narrows the feed with a case-insensitive substring filter and
// re-derives the visible payload from the repository cache. The filter
// failing (cold cache and no network) surfaces like any other fetch
// failure.
func (f *FeedHolder) SetQuery(ctx context.Context, q string) {
	f.query = q
	listings, err := f.repo.Filter(ctx, q)
	if err != nil {
		f.toastError(err)
		return
	}
	f.setReady(listings)
}

// ToggleSave flips the saved state of one listing. Success re-derives
// the payload; failure leaves the screen untouched and emits one toast.
func (f *FeedHolder) ToggleSave(ctx context.Context, id string) {
	if _, err := f.repo.ToggleSave(ctx, id); err != nil {
		f.toastError(err)
		return
	}
	f.rederive(ctx)
}

// Delete removes one of the user's own listings from the marketplace.
func (f *FeedHolder) Delete(ctx context.Context, id string) {
	if err := f.repo.DeleteListing(ctx, id); err != nil {
		f.toastError(err)
		return
	}
	f.rederive(ctx)
}

func (f *FeedHolder) rederive(ctx context.Context) {
	listings, err := f.repo.Filter(ctx, f.query)
	if err != nil {
		// The mutation itself succeeded; keep the stale payload and
		// let the next refresh reconcile.
		f.toastError(err)
		return
	}
	f.setReady(listings)
}
