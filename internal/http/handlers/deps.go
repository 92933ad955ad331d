package handlers

import (
	"swapi/internal/config"
	"swapi/internal/repos"
	"swapi/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	Auth            *services.AuthService
	AuthHandler     *AuthHandler
	ListingHandler  *ListingHandler
	FavoriteHandler *FavoriteHandler
	ShareHandler    *ShareHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	userRepo := repos.NewUserRepo(db)
	listingRepo := repos.NewListingRepo(db)
	favoriteRepo := repos.NewFavoriteRepo(db)

	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret)
	listingSvc := services.NewListingService(listingRepo)
	favoriteSvc := services.NewFavoriteService(favoriteRepo, listingRepo)

	return &Deps{
		Auth:            authSvc,
		AuthHandler:     &AuthHandler{Auth: authSvc},
		ListingHandler:  &ListingHandler{Listings: listingSvc, Favorites: favoriteSvc},
		FavoriteHandler: &FavoriteHandler{Favorites: favoriteSvc},
		ShareHandler:    &ShareHandler{Listings: listingSvc},
	}
}
