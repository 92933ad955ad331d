package handlers

import (
	"errors"

	"swapi/internal/domain"
	applog "swapi/internal/log"
	"swapi/internal/services"
	"swapi/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type FavoriteHandler struct {
	Favorites *services.FavoriteService
}

// Toggle flips the saved state of a listing for the caller and returns
// the resulting state.
func (h *FavoriteHandler) Toggle(c *fiber.Ctx) error {
	u := currentUser(c)
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "missing listing id")
	}

	saved, err := h.Favorites.Toggle(u.ID, id)
	if errors.Is(err, domain.ErrListingNotFound) {
		return fail(c, fiber.StatusNotFound, "listing not found")
	}
	if err != nil {
		applog.Error(c, "favorites.toggle.fail", err, map[string]any{"listing": id})
		return fail(c, fiber.StatusInternalServerError, "could not update favorites")
	}
	applog.Audit(c, "favorites.toggle", map[string]any{"listing": id, "saved": saved})
	return ok(c, fiber.Map{"saved": saved})
}

func (h *FavoriteHandler) List(c *fiber.Ctx) error {
	u := currentUser(c)
	listings, err := h.Favorites.Saved(u.ID)
	if err != nil {
		applog.Error(c, "favorites.list.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not load favorites")
	}
	return ok(c, fiber.Map{"listings": listings})
}
