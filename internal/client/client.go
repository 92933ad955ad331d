// Package client wraps the Swapi REST API in typed calls with a
// display-safe failure taxonomy, and layers the screen-facing Repository
// (single-slot cache, derived views) on top.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sync"

	"swapi/internal/domain"
)

// Session is what a successful login/register returns.
type Session struct {
	Token string
	User  domain.User
}

// ListingDraft carries the user-editable listing fields for create and
// update calls. Zero-valued fields are left untouched on update.
type ListingDraft struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       float64         `json:"price"`
	Currency    string          `json:"currency,omitempty"`
	Category    domain.Category `json:"category"`
	ImagesJSON  string          `json:"images_json,omitempty"`
}

type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
}

// Client is the network boundary of the app. All calls are plain
// request/response; there is no streaming or push.
type Client interface {
	Login(ctx context.Context, email, password string) (Session, error)
	Register(ctx context.Context, in RegisterInput) (Session, error)

	Listings(ctx context.Context) ([]domain.Listing, error)
	ListingByID(ctx context.Context, id string) (domain.Listing, error)
	Sections(ctx context.Context) ([]domain.Section, error)
	CreateListing(ctx context.Context, draft ListingDraft) (domain.Listing, error)
	UpdateListing(ctx context.Context, id string, draft ListingDraft) (domain.Listing, error)
	DeleteListing(ctx context.Context, id string) error

	ToggleSave(ctx context.Context, id string) (bool, error)
	Saved(ctx context.Context) ([]domain.Listing, error)
	MyListings(ctx context.Context) ([]domain.Listing, error)

	SetToken(token string)
}

type httpClient struct {
	base string
	hc   *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*httpClient)

// WithHTTPClient swaps the underlying http.Client (timeouts, test
// transports).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.hc = hc }
}

func New(baseURL string, opts ...Option) Client {
	c := &httpClient{base: baseURL, hc: http.DefaultClient}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *httpClient) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// do performs one JSON round trip and classifies every failure mode into
// an *APIError. out, when non-nil, receives the decoded 2xx body.
func (c *httpClient) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &APIError{Kind: FailureUnexpected}
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return &APIError{Kind: FailureUnexpected}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.bearer(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		// http.Client.Do failures are transport-level (*url.Error).
		return &APIError{Kind: FailureConnectivity}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Kind: FailureConnectivity, StatusCode: resp.StatusCode}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		kind := FailureServer
		if resp.StatusCode == http.StatusNotFound {
			kind = FailureNotFound
		}
		var env envelope
		_ = json.Unmarshal(raw, &env) // best effort: keep the server's message when decodable
		return &APIError{Kind: kind, StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return &APIError{Kind: FailureUnexpected, StatusCode: resp.StatusCode}
		}
	}
	return nil
}

func (c *httpClient) Login(ctx context.Context, email, password string) (Session, error) {
	var out struct {
		envelope
		Token string      `json:"token"`
		User  domain.User `json:"user"`
	}
	in := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", in, &out); err != nil {
		return Session{}, err
	}
	return Session{Token: out.Token, User: out.User}, nil
}

func (c *httpClient) Register(ctx context.Context, in RegisterInput) (Session, error) {
	var out struct {
		envelope
		Token string      `json:"token"`
		User  domain.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", in, &out); err != nil {
		return Session{}, err
	}
	return Session{Token: out.Token, User: out.User}, nil
}

type listingsBody struct {
	envelope
	Listings []domain.Listing `json:"listings"`
}

func (c *httpClient) Listings(ctx context.Context) ([]domain.Listing, error) {
	var out listingsBody
	if err := c.do(ctx, http.MethodGet, "/api/v1/listings", nil, &out); err != nil {
		return nil, err
	}
	return out.Listings, nil
}

func (c *httpClient) ListingByID(ctx context.Context, id string) (domain.Listing, error) {
	var out struct {
		envelope
		Listing domain.Listing `json:"listing"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/listings/"+url.PathEscape(id), nil, &out); err != nil {
		return domain.Listing{}, err
	}
	return out.Listing, nil
}

func (c *httpClient) Sections(ctx context.Context) ([]domain.Section, error) {
	var out struct {
		envelope
		Sections []domain.Section `json:"sections"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/sections", nil, &out); err != nil {
		return nil, err
	}
	return out.Sections, nil
}

func (c *httpClient) CreateListing(ctx context.Context, draft ListingDraft) (domain.Listing, error) {
	var out struct {
		envelope
		Listing domain.Listing `json:"listing"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/listings", draft, &out); err != nil {
		return domain.Listing{}, err
	}
	return out.Listing, nil
}

func (c *httpClient) UpdateListing(ctx context.Context, id string, draft ListingDraft) (domain.Listing, error) {
	var out struct {
		envelope
		Listing domain.Listing `json:"listing"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/v1/listings/"+url.PathEscape(id), draft, &out); err != nil {
		return domain.Listing{}, err
	}
	return out.Listing, nil
}

func (c *httpClient) DeleteListing(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/listings/"+url.PathEscape(id), nil, nil)
}

func (c *httpClient) ToggleSave(ctx context.Context, id string) (bool, error) {
	var out struct {
		envelope
		Saved bool `json:"saved"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/listings/"+url.PathEscape(id)+"/save", nil, &out); err != nil {
		return false, err
	}
	return out.Saved, nil
}

func (c *httpClient) Saved(ctx context.Context) ([]domain.Listing, error) {
	var out listingsBody
	if err := c.do(ctx, http.MethodGet, "/api/v1/saved", nil, &out); err != nil {
		return nil, err
	}
	return out.Listings, nil
}

func (c *httpClient) MyListings(ctx context.Context) ([]domain.Listing, error) {
	var out listingsBody
	if err := c.do(ctx, http.MethodGet, "/api/v1/my/listings", nil, &out); err != nil {
		return nil, err
	}
	return out.Listings, nil
}
