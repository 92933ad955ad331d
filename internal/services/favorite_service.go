package services

import (
	"swapi/internal/domain"
	"swapi/internal/repos"
)

type FavoriteService struct {
	Favorites *repos.FavoriteRepo
	Listings  *repos.ListingRepo
}

func NewFavoriteService(f *repos.FavoriteRepo, l *repos.ListingRepo) *FavoriteService {
	return &FavoriteService{Favorites: f, Listings: l}
}

// Toggle flips the saved state and reports the new one. The listing must
// exist and be active.
func (s *FavoriteService) Toggle(userID, listingID string) (bool, error) {
	if _, err := s.Listings.Get(listingID); err != nil {
		return false, err
	}
	return s.Favorites.Toggle(userID, listingID)
}

func (s *FavoriteService) IsSaved(userID, listingID string) (bool, error) {
	return s.Favorites.IsSaved(userID, listingID)
}

func (s *FavoriteService) Saved(userID string) ([]domain.Listing, error) {
	return s.Favorites.ListByUser(userID)
}

// Annotate marks each listing that the user has saved.
func (s *FavoriteService) Annotate(userID string, listings []domain.Listing) ([]domain.Listing, error) {
	set, err := s.Favorites.SavedSet(userID)
	if err != nil {
		return nil, err
	}
	for i := range listings {
		listings[i].Saved = set[listings[i].ID]
	}
	return listings, nil
}
