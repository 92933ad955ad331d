package client_test

import (
	"context"
	"errors"
	"testing"

	"swapi/internal/client"
	"swapi/internal/domain"
)

// fakeAPI scripts the network boundary and counts calls.
type fakeAPI struct {
	listings    []domain.Listing
	listErr     error
	listCalls   int
	deleteErr   error
	deletedIDs  []string
	toggleState bool
	toggleErr   error
}

func (f *fakeAPI) Listings(ctx context.Context) ([]domain.Listing, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.Listing(nil), f.listings...), nil
}

func (f *fakeAPI) DeleteListing(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

func (f *fakeAPI) ToggleSave(ctx context.Context, id string) (bool, error) {
	if f.toggleErr != nil {
		return false, f.toggleErr
	}
	f.toggleState = !f.toggleState
	return f.toggleState, nil
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (client.Session, error) {
	return client.Session{}, nil
}
func (f *fakeAPI) Register(ctx context.Context, in client.RegisterInput) (client.Session, error) {
	return client.Session{}, nil
}
func (f *fakeAPI) ListingByID(ctx context.Context, id string) (domain.Listing, error) {
	return domain.Listing{}, &client.APIError{Kind: client.FailureNotFound}
}
func (f *fakeAPI) Sections(ctx context.Context) ([]domain.Section, error) { return nil, nil }
func (f *fakeAPI) CreateListing(ctx context.Context, d client.ListingDraft) (domain.Listing, error) {
	return domain.Listing{}, nil
}
func (f *fakeAPI) UpdateListing(ctx context.Context, id string, d client.ListingDraft) (domain.Listing, error) {
	return domain.Listing{}, nil
}
func (f *fakeAPI) Saved(ctx context.Context) ([]domain.Listing, error)      { return nil, nil }
func (f *fakeAPI) MyListings(ctx context.Context) ([]domain.Listing, error) { return nil, nil }
func (f *fakeAPI) SetToken(token string)                                    {}

func feedFixture() []domain.Listing {
	return []domain.Listing{
		{ID: "1", Title: "Silla", Price: 100, Category: domain.CategorySale, Author: domain.Author{FirstName: "Ana", LastName: "Torres"}},
		{ID: "2", Title: "Mesa", Price: 250, Category: domain.CategorySale, Author: domain.Author{FirstName: "Luis", LastName: "Mendoza"}},
	}
}

func TestListingsFetchedOnce(t *testing.T) {
	api := &fakeAPI{listings: feedFixture()}
	repo := client.NewRepository(api)
	ctx := context.Background()

	first, err := repo.Listings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 2 || first[0].ID != "1" || first[1].ID != "2" {
		t.Fatalf("order not preserved: %+v", first)
	}

	if _, err := repo.Listings(ctx); err != nil {
		t.Fatal(err)
	}
	if api.listCalls != 1 {
		t.Fatalf("want exactly one fetch, got %d", api.listCalls)
	}
}

func TestByIDUsesCache(t *testing.T) {
	api := &fakeAPI{listings: feedFixture()}
	repo := client.NewRepository(api)
	ctx := context.Background()

	// cold cache: the by-id lookup triggers the list fetch
	l, err := repo.ListingByID(ctx, "2")
	if err != nil {
		t.Fatal(err)
	}
	if l.Title != "Mesa" {
		t.Fatalf("want Mesa, got %+v", l)
	}
	if api.listCalls != 1 {
		t.Fatalf("cold by-id should fetch once, got %d", api.listCalls)
	}

	// warm cache: no further network calls, present or absent
	if _, err := repo.ListingByID(ctx, "1"); err != nil {
		t.Fatal(err)
	}
	_, err = repo.ListingByID(ctx, "9")
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.Kind != client.FailureNotFound {
		t.Fatalf("want not-found for id 9, got %v", err)
	}
	if api.listCalls != 1 {
		t.Fatalf("warm by-id must not refetch, got %d calls", api.listCalls)
	}
}

func TestFilterMatchesTitleAuthorCategory(t *testing.T) {
	api := &fakeAPI{listings: []domain.Listing{
		{ID: "1", Title: "Laptop Dell", Category: domain.CategorySale, Author: domain.Author{FirstName: "Ana"}},
		{ID: "2", Title: "Mesa de madera", Category: domain.CategorySale, Author: domain.Author{FirstName: "Luis", LastName: "Mendoza"}},
		{ID: "3", Title: "Cuarto", Category: domain.CategoryRent, Author: domain.Author{FirstName: "Ana"}},
	}}
	repo := client.NewRepository(api)
	ctx := context.Background()

	// any-case title match
	got, err := repo.Filter(ctx, "dElL")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("dell should match only the laptop: %+v", got)
	}

	// author name match
	got, _ = repo.Filter(ctx, "mendoza")
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("mendoza should match the mesa: %+v", got)
	}

	// category match
	got, _ = repo.Filter(ctx, "rent")
	if len(got) != 1 || got[0].ID != "3" {
		t.Fatalf("rent should match the cuarto: %+v", got)
	}

	// no match is an empty slice, not an error
	got, err = repo.Filter(ctx, "televisor")
	if err != nil {
		t.Fatalf("no-match filter errored: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("want empty result, got %+v", got)
	}
}

func TestDeleteDropsFromCache(t *testing.T) {
	api := &fakeAPI{listings: feedFixture()}
	repo := client.NewRepository(api)
	ctx := context.Background()

	if _, err := repo.Listings(ctx); err != nil {
		t.Fatal(err)
	}
	if err := repo.DeleteListing(ctx, "1"); err != nil {
		t.Fatal(err)
	}

	rest, err := repo.Listings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(rest) != 1 || rest[0].ID != "2" {
		t.Fatalf("id 1 should be gone without a refetch: %+v", rest)
	}
	if api.listCalls != 1 {
		t.Fatalf("delete should not refetch, got %d calls", api.listCalls)
	}
}

func TestRefreshReplacesCacheSlot(t *testing.T) {
	api := &fakeAPI{listings: feedFixture()}
	repo := client.NewRepository(api)
	ctx := context.Background()

	if _, err := repo.Listings(ctx); err != nil {
		t.Fatal(err)
	}
	api.listings = append(api.listings, domain.Listing{ID: "3", Title: "Banco", Category: domain.CategorySale})

	fresh, err := repo.Refresh(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(fresh) != 3 || api.listCalls != 2 {
		t.Fatalf("refresh must refetch: %d listings, %d calls", len(fresh), api.listCalls)
	}

	// the slot now serves the refreshed feed without another call
	cached, err := repo.Listings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(cached) != 3 || api.listCalls != 2 {
		t.Fatalf("refreshed slot not cached: %d listings, %d calls", len(cached), api.listCalls)
	}
}

func TestRefreshFailureKeepsSlot(t *testing.T) {
	api := &fakeAPI{listings: feedFixture()}
	repo := client.NewRepository(api)
	ctx := context.Background()

	if _, err := repo.Listings(ctx); err != nil {
		t.Fatal(err)
	}
	api.listErr = errors.New("down")
	if _, err := repo.Refresh(ctx); err == nil {
		t.Fatal("want refresh error")
	}

	cached, err := repo.Listings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(cached) != 2 || api.listCalls != 2 {
		t.Fatalf("failed refresh must leave the old slot intact: %d listings, %d calls", len(cached), api.listCalls)
	}
}

func TestInvalidateForcesRefetch(t *testing.T) {
	api := &fakeAPI{listings: feedFixture()}
	repo := client.NewRepository(api)
	ctx := context.Background()

	if _, err := repo.Listings(ctx); err != nil {
		t.Fatal(err)
	}
	repo.Invalidate()
	if _, err := repo.Listings(ctx); err != nil {
		t.Fatal(err)
	}
	if api.listCalls != 2 {
		t.Fatalf("want refetch after invalidate, got %d calls", api.listCalls)
	}
}
