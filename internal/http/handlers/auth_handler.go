package handlers

import (
	"errors"

	"swapi/internal/domain"
	applog "swapi/internal/log"
	"swapi/internal/services"
	"swapi/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type credentialsBody struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body credentialsBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "malformed request body")
	}
	email, okEmail := validate.Email(body.Email)
	if !okEmail || body.Password == "" {
		applog.Security(c, "auth.login.fail", map[string]any{"email": body.Email, "reason": "bad_format"})
		return fail(c, fiber.StatusUnauthorized, "Invalid email or password")
	}

	u, tok, err := h.Auth.Login(email, body.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": email})
		return fail(c, fiber.StatusUnauthorized, "Invalid email or password")
	}

	applog.Audit(c, "auth.login.success", map[string]any{"email": email})
	return ok(c, fiber.Map{"message": "welcome back", "token": tok, "user": u})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var body credentialsBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "malformed request body")
	}
	email, okEmail := validate.Email(body.Email)
	if !okEmail {
		return fail(c, fiber.StatusBadRequest, "invalid email address")
	}
	if !validate.Password(body.Password) {
		return fail(c, fiber.StatusBadRequest, "password must be 8-64 chars with upper, lower and digit")
	}
	first, okFirst := validate.Name(body.FirstName)
	if !okFirst {
		return fail(c, fiber.StatusBadRequest, "first name is required")
	}
	last, _ := validate.Name(body.LastName)
	phone, okPhone := validate.Phone(body.Phone)
	if !okPhone {
		return fail(c, fiber.StatusBadRequest, "invalid phone number")
	}

	u, tok, err := h.Auth.Register(email, body.Password, first, last, phone)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return fail(c, fiber.StatusConflict, "email already registered")
		}
		applog.Error(c, "auth.register.fail", err, map[string]any{"email": email})
		return fail(c, fiber.StatusInternalServerError, "could not create account")
	}

	applog.Audit(c, "auth.register.success", map[string]any{"email": email})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true, "message": "account created", "token": tok, "user": u,
	})
}
