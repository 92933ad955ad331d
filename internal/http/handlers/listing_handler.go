package handlers

import (
	"errors"

	"swapi/internal/domain"
	applog "swapi/internal/log"
	"swapi/internal/services"
	"swapi/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ListingHandler struct {
	Listings  *services.ListingService
	Favorites *services.FavoriteService
}

type listingBody struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	Category    string  `json:"category"`
	ImagesJSON  string  `json:"images_json"`
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

// Feed lists active listings, optionally narrowed by ?q= and ?category=.
// Saved flags are annotated when the caller is authenticated.
func (h *ListingHandler) Feed(c *fiber.Ctx) error {
	q := c.Query("q")
	var category domain.Category
	if raw := c.Query("category"); raw != "" {
		cat, okCat := validate.CategoryOf(raw)
		if !okCat {
			return fail(c, fiber.StatusBadRequest, "unknown category")
		}
		category = cat
	}

	listings, err := h.Listings.Feed(q, category)
	if err != nil {
		applog.Error(c, "listings.feed.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not load listings")
	}
	if u := currentUser(c); u != nil {
		if listings, err = h.Favorites.Annotate(u.ID, listings); err != nil {
			applog.Error(c, "listings.annotate.fail", err, nil)
			return fail(c, fiber.StatusInternalServerError, "could not load listings")
		}
	}
	return ok(c, fiber.Map{"listings": listings})
}

// Sections serves the grouped home feed.
func (h *ListingHandler) Sections(c *fiber.Ctx) error {
	sections, err := h.Listings.Sections()
	if err != nil {
		applog.Error(c, "listings.sections.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not load home feed")
	}
	return ok(c, fiber.Map{"sections": sections})
}

func (h *ListingHandler) Detail(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "missing listing id")
	}
	l, err := h.Listings.Get(id)
	if errors.Is(err, domain.ErrListingNotFound) {
		return fail(c, fiber.StatusNotFound, "listing not found")
	}
	if err != nil {
		applog.Error(c, "listings.detail.fail", err, map[string]any{"listing": id})
		return fail(c, fiber.StatusInternalServerError, "could not load listing")
	}
	if u := currentUser(c); u != nil {
		if l.Saved, err = h.Favorites.IsSaved(u.ID, l.ID); err != nil {
			applog.Error(c, "listings.detail.fail", err, map[string]any{"listing": id})
			return fail(c, fiber.StatusInternalServerError, "could not load listing")
		}
	}
	return ok(c, fiber.Map{"listing": l})
}

func (h *ListingHandler) parseInput(c *fiber.Ctx, requireAll bool) (services.ListingInput, string, bool) {
	var body listingBody
	if err := c.BodyParser(&body); err != nil {
		return services.ListingInput{}, "malformed request body", false
	}

	in := services.ListingInput{
		Currency:   body.Currency,
		ImagesJSON: body.ImagesJSON,
	}
	if body.Title != "" || requireAll {
		title, okTitle := validate.Title(body.Title)
		if !okTitle {
			return in, "title is required (max 120 chars)", false
		}
		in.Title = title
	}
	if body.Description != "" {
		desc, okDesc := validate.Description(body.Description)
		if !okDesc {
			return in, "description too long", false
		}
		in.Description = desc
	}
	if !validate.PriceValue(body.Price) {
		return in, "price must be non-negative", false
	}
	in.Price = body.Price
	if body.Category != "" || requireAll {
		cat, okCat := validate.CategoryOf(body.Category)
		if !okCat {
			return in, "unknown category", false
		}
		in.Category = cat
	}
	return in, "", true
}

func (h *ListingHandler) Create(c *fiber.Ctx) error {
	u := currentUser(c)
	in, msg, okIn := h.parseInput(c, true)
	if !okIn {
		return fail(c, fiber.StatusBadRequest, msg)
	}

	l, err := h.Listings.Create(u, in)
	if err != nil {
		applog.Error(c, "listings.create.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not create listing")
	}
	applog.Audit(c, "listings.create", map[string]any{"listing": l.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "listing": l})
}

func (h *ListingHandler) Update(c *fiber.Ctx) error {
	u := currentUser(c)
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "missing listing id")
	}
	in, msg, okIn := h.parseInput(c, false)
	if !okIn {
		return fail(c, fiber.StatusBadRequest, msg)
	}

	l, err := h.Listings.Update(u.ID, id, in)
	switch {
	case errors.Is(err, domain.ErrListingNotFound):
		return fail(c, fiber.StatusNotFound, "listing not found")
	case errors.Is(err, domain.ErrForbidden):
		applog.Security(c, "listings.update.forbidden", map[string]any{"listing": id})
		return fail(c, fiber.StatusForbidden, "you can only edit your own listings")
	case err != nil:
		applog.Error(c, "listings.update.fail", err, map[string]any{"listing": id})
		return fail(c, fiber.StatusInternalServerError, "could not update listing")
	}
	applog.Audit(c, "listings.update", map[string]any{"listing": id})
	return ok(c, fiber.Map{"listing": l})
}

func (h *ListingHandler) Delete(c *fiber.Ctx) error {
	u := currentUser(c)
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "missing listing id")
	}

	err := h.Listings.Delete(u.ID, id)
	switch {
	case errors.Is(err, domain.ErrListingNotFound):
		return fail(c, fiber.StatusNotFound, "listing not found")
	case errors.Is(err, domain.ErrForbidden):
		applog.Security(c, "listings.delete.forbidden", map[string]any{"listing": id})
		return fail(c, fiber.StatusForbidden, "you can only delete your own listings")
	case err != nil:
		applog.Error(c, "listings.delete.fail", err, map[string]any{"listing": id})
		return fail(c, fiber.StatusInternalServerError, "could not delete listing")
	}
	applog.Audit(c, "listings.delete", map[string]any{"listing": id})
	return ok(c, fiber.Map{"message": "listing deleted"})
}

func (h *ListingHandler) Mine(c *fiber.Ctx) error {
	u := currentUser(c)
	listings, err := h.Listings.MyListings(u.ID)
	if err != nil {
		applog.Error(c, "listings.mine.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not load your listings")
	}
	return ok(c, fiber.Map{"listings": listings})
}
