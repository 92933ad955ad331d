package handlers

import (
	"errors"

	"swapi/internal/domain"
	applog "swapi/internal/log"
	"swapi/internal/services"
	"swapi/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// ShareHandler renders the public web preview behind a listing's share
// link, for recipients without the app installed.
type ShareHandler struct {
	Listings *services.ListingService
}

func (h *ShareHandler) Page(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "This listing is no longer available"})
	}
	l, err := h.Listings.Get(id)
	if errors.Is(err, domain.ErrListingNotFound) {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "This listing is no longer available"})
	}
	if err != nil {
		applog.Error(c, "share.page.fail", err, map[string]any{"listing": id})
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Something went wrong. Please try again."})
	}
	return c.Render("listing", fiber.Map{
		"Listing": l,
		"Author":  l.Author.DisplayName(),
		"Section": l.Category.Label(),
	})
}
