package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"swapi/internal/config"
	"swapi/internal/http/handlers"
	"swapi/internal/repos"
)

func newTestApp(t *testing.T) (*fiber.App, *handlers.Deps) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	deps := handlers.NewDeps(db, config.Config{JWTSecret: "test-secret"})
	app := fiber.New()

	app.Post("/api/v1/auth/register", deps.AuthHandler.Register)
	app.Post("/api/v1/auth/login", deps.AuthHandler.Login)

	app.Get("/api/v1/listings", handlers.OptionalUser(deps.Auth), deps.ListingHandler.Feed)
	app.Get("/api/v1/sections", deps.ListingHandler.Sections)
	app.Get("/api/v1/listings/:id", handlers.OptionalUser(deps.Auth), deps.ListingHandler.Detail)
	app.Post("/api/v1/listings", handlers.RequireUser(deps.Auth), deps.ListingHandler.Create)
	app.Put("/api/v1/listings/:id", handlers.RequireUser(deps.Auth), deps.ListingHandler.Update)
	app.Delete("/api/v1/listings/:id", handlers.RequireUser(deps.Auth), deps.ListingHandler.Delete)
	app.Get("/api/v1/my/listings", handlers.RequireUser(deps.Auth), deps.ListingHandler.Mine)

	app.Post("/api/v1/listings/:id/save", handlers.RequireUser(deps.Auth), deps.FavoriteHandler.Toggle)
	app.Get("/api/v1/saved", handlers.RequireUser(deps.Auth), deps.FavoriteHandler.List)

	return app, deps
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	out := map[string]any{}
	_ = json.Unmarshal(raw, &out)
	return resp, out
}

func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	resp, body := doJSON(t, app, "POST", "/api/v1/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d body %v", email, resp.StatusCode, body)
	}
	tok, _ := body["token"].(string)
	if tok == "" {
		t.Fatalf("login %s: no token in %v", email, body)
	}
	return tok
}

func TestLoginEnvelope(t *testing.T) {
	app, _ := newTestApp(t)

	// bad password -> 401 with envelope, no token
	resp, body := doJSON(t, app, "POST", "/api/v1/auth/login", "", map[string]string{
		"email": "ana@swapi.test", "password": "wrongpass",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", resp.StatusCode)
	}
	if ok, _ := body["success"].(bool); ok {
		t.Fatalf("success should be false: %v", body)
	}
	if _, has := body["token"]; has {
		t.Fatalf("failed login must not leak a token: %v", body)
	}

	// good password -> 200 with token and user
	resp, body = doJSON(t, app, "POST", "/api/v1/auth/login", "", map[string]string{
		"email": "ana@swapi.test", "password": "Passw0rd!",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d: %v", resp.StatusCode, body)
	}
	user, _ := body["user"].(map[string]any)
	if user["first_name"] != "Ana" {
		t.Fatalf("unexpected user payload: %v", body)
	}
	if _, has := user["password_hash"]; has {
		t.Fatal("password hash leaked in user payload")
	}
}

func TestRegisterValidation(t *testing.T) {
	app, _ := newTestApp(t)

	// weak password
	resp, _ := doJSON(t, app, "POST", "/api/v1/auth/register", "", map[string]string{
		"email": "new@swapi.test", "password": "short", "first_name": "Nuevo",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("weak password: want 400, got %d", resp.StatusCode)
	}

	// valid
	resp, body := doJSON(t, app, "POST", "/api/v1/auth/register", "", map[string]string{
		"email": "new@swapi.test", "password": "S3cret!!", "first_name": "Nuevo",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: want 201, got %d: %v", resp.StatusCode, body)
	}
	if tok, _ := body["token"].(string); tok == "" {
		t.Fatalf("register should return a token: %v", body)
	}

	// duplicate email
	resp, _ = doJSON(t, app, "POST", "/api/v1/auth/register", "", map[string]string{
		"email": "new@swapi.test", "password": "S3cret!!", "first_name": "Nuevo",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate: want 409, got %d", resp.StatusCode)
	}
}
