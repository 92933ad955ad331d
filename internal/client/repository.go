package client

import (
	"context"
	"strings"
	"sync"

	"swapi/internal/domain"
)

// Repository mediates between screen state holders and the Client. It
// memoizes the last successful full-feed fetch in a single slot; the
// cache lives until the Repository is discarded or a mutation
// invalidates it. Derived views (by-id, substring filter) are computed
// fresh on every call.
type Repository struct {
	api Client

	// guards cache and fetched; held across the fill fetch so
	// concurrent readers trigger only one network call.
	mu      sync.Mutex
	cache   []domain.Listing
	fetched bool
}

func NewRepository(api Client) *Repository {
	return &Repository{api: api}
}

// Listings returns the cached feed, fetching it once on a cold cache.
func (r *Repository) Listings(ctx context.Context) ([]domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fill(ctx); err != nil {
		return nil, err
	}
	return append([]domain.Listing(nil), r.cache...), nil
}

// fill populates the cache slot if empty. Callers hold the lock.
func (r *Repository) fill(ctx context.Context) error {
	if r.fetched {
		return nil
	}
	listings, err := r.api.Listings(ctx)
	if err != nil {
		return err
	}
	r.cache = listings
	r.fetched = true
	return nil
}

// ListingByID serves from the cache when populated. A cold cache
// triggers the same fetch the list view uses; an id absent from a
// populated cache is a not-found, with no extra network call.
func (r *Repository) ListingByID(ctx context.Context, id string) (domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fill(ctx); err != nil {
		return domain.Listing{}, err
	}
	for _, l := range r.cache {
		if l.ID == id {
			return l, nil
		}
	}
	return domain.Listing{}, &APIError{Kind: FailureNotFound}
}

// Filter returns the listings whose title, author display name or
// category contains q, case-insensitively. An empty q returns the whole
// feed; a query matching nothing returns an empty slice, not an error.
func (r *Repository) Filter(ctx context.Context, q string) ([]domain.Listing, error) {
	listings, err := r.Listings(ctx)
	if err != nil {
		return nil, err
	}
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return listings, nil
	}
	out := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if matches(l, q) {
			out = append(out, l)
		}
	}
	return out, nil
}

func matches(l domain.Listing, q string) bool {
	return strings.Contains(strings.ToLower(l.Title), q) ||
		strings.Contains(strings.ToLower(l.Author.DisplayName()), q) ||
		strings.Contains(strings.ToLower(string(l.Category)), q) ||
		strings.Contains(strings.ToLower(l.Category.Label()), q)
}

// Invalidate empties the cache slot so the next read refetches.
func (r *Repository) Invalidate() {
	r.mu.Lock()
	r.cache, r.fetched = nil, false
	r.mu.Unlock()
}

// Refresh refetches the feed unconditionally and replaces the slot.
func (r *Repository) Refresh(ctx context.Context) ([]domain.Listing, error) {
	listings, err := r.api.Listings(ctx)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.cache, r.fetched = listings, true
	r.mu.Unlock()
	return append([]domain.Listing(nil), listings...), nil
}

// Sections passes through; the grouped feed is server-derived and not
// cached client-side.
func (r *Repository) Sections(ctx context.Context) ([]domain.Section, error) {
	return r.api.Sections(ctx)
}

func (r *Repository) Saved(ctx context.Context) ([]domain.Listing, error) {
	return r.api.Saved(ctx)
}

func (r *Repository) MyListings(ctx context.Context) ([]domain.Listing, error) {
	return r.api.MyListings(ctx)
}

// CreateListing posts the draft and folds the created listing into the
// cache slot so the feed shows it without a refetch.
func (r *Repository) CreateListing(ctx context.Context, draft ListingDraft) (domain.Listing, error) {
	created, err := r.api.CreateListing(ctx, draft)
	if err != nil {
		return domain.Listing{}, err
	}
	r.mu.Lock()
	if r.fetched {
		r.cache = append([]domain.Listing{created}, r.cache...)
	}
	r.mu.Unlock()
	return created, nil
}

func (r *Repository) UpdateListing(ctx context.Context, id string, draft ListingDraft) (domain.Listing, error) {
	updated, err := r.api.UpdateListing(ctx, id, draft)
	if err != nil {
		return domain.Listing{}, err
	}
	r.mu.Lock()
	for i := range r.cache {
		if r.cache[i].ID == id {
			r.cache[i] = updated
			break
		}
	}
	r.mu.Unlock()
	return updated, nil
}

func (r *Repository) DeleteListing(ctx context.Context, id string) error {
	if err := r.api.DeleteListing(ctx, id); err != nil {
		return err
	}
	r.mu.Lock()
	for i := range r.cache {
		if r.cache[i].ID == id {
			r.cache = append(r.cache[:i], r.cache[i+1:]...)
			break
		}
	}
	r.mu.Unlock()
	return nil
}

// ToggleSave flips the saved state remotely and mirrors the result on
// the cached item.
func (r *Repository) ToggleSave(ctx context.Context, id string) (bool, error) {
	saved, err := r.api.ToggleSave(ctx, id)
	if err != nil {
		return false, err
	}
	r.mu.Lock()
	for i := range r.cache {
		if r.cache[i].ID == id {
			r.cache[i].Saved = saved
			break
		}
	}
	r.mu.Unlock()
	return saved, nil
}
