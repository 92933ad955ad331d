package services

import (
	"time"

	"swapi/internal/domain"
	"swapi/internal/repos"

	"github.com/google/uuid"
)

type ListingService struct {
	Listings *repos.ListingRepo
}

func NewListingService(listings *repos.ListingRepo) *ListingService {
	return &ListingService{Listings: listings}
}

type ListingInput struct {
	Title       string
	Description string
	Price       float64
	Currency    string
	Category    domain.Category
	ImagesJSON  string
}

func (s *ListingService) Create(author *domain.User, in ListingInput) (domain.Listing, error) {
	if in.Currency == "" {
		in.Currency = "MXN"
	}
	if in.ImagesJSON == "" {
		in.ImagesJSON = "[]"
	}
	l := domain.Listing{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Currency:    in.Currency,
		Category:    in.Category,
		ImagesJSON:  in.ImagesJSON,
		AuthorID:    author.ID,
		Active:      true,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.Listings.Create(&l); err != nil {
		return domain.Listing{}, err
	}
	l.Author = author.AsAuthor()
	return l, nil
}

// Update applies non-empty fields of in to the listing. Only the owner
// may update; everyone else gets ErrForbidden.
func (s *ListingService) Update(userID, id string, in ListingInput) (domain.Listing, error) {
	l, err := s.Listings.Get(id)
	if err != nil {
		return domain.Listing{}, err
	}
	if l.AuthorID != userID {
		return domain.Listing{}, domain.ErrForbidden
	}

	if in.Title != "" {
		l.Title = in.Title
	}
	if in.Description != "" {
		l.Description = in.Description
	}
	if in.Price > 0 {
		l.Price = in.Price
	}
	if in.Currency != "" {
		l.Currency = in.Currency
	}
	if in.Category != "" && in.Category != l.Category {
		l.Category = in.Category
	}
	if in.ImagesJSON != "" {
		l.ImagesJSON = in.ImagesJSON
	}

	if err := s.Listings.Update(&l); err != nil {
		return domain.Listing{}, err
	}
	return s.Listings.Get(id)
}

func (s *ListingService) Delete(userID, id string) error {
	l, err := s.Listings.Get(id)
	if err != nil {
		return err
	}
	if l.AuthorID != userID {
		return domain.ErrForbidden
	}
	return s.Listings.Delete(id)
}

func (s *ListingService) Get(id string) (domain.Listing, error) {
	return s.Listings.Get(id)
}

func (s *ListingService) Feed(q string, category domain.Category) ([]domain.Listing, error) {
	return s.Listings.List(q, category)
}

// Sections groups the full feed per category for the home screen.
func (s *ListingService) Sections() ([]domain.Section, error) {
	feed, err := s.Listings.List("", "")
	if err != nil {
		return nil, err
	}
	return domain.GroupIntoSections(feed), nil
}

func (s *ListingService) MyListings(userID string) ([]domain.Listing, error) {
	return s.Listings.ListByAuthor(userID)
}
