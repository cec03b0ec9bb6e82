// Package client is a Go SDK for the streamflix HTTP API. It keeps a local
// mirror of profile state in a LocalStore so callers stay usable while the
// backend is unreachable, see Syncer.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"streamflix/internal/models/request_models"
	"streamflix/internal/models/response_models"
)

const (
	DefaultTimeout = 10 * time.Second

	maxBodyBytes = 4 << 20
)

type Config struct {
	BaseURL string
	Timeout time.Duration
	// HTTPClient overrides the default client built from Timeout.
	HTTPClient *http.Client
}

type Client struct {
	baseURL string
	http    *http.Client
	store   LocalStore
}

func NewClient(cfg Config, store LocalStore) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    hc,
		store:   store,
	}
}

func (c *Client) Store() LocalStore {
	return c.store
}

func (c *Client) Signup(ctx context.Context, req request_models.SignUpRequest) (*response_models.AuthResponse, error) {
	return c.authenticate(ctx, "/auth/signup", req)
}

func (c *Client) Login(ctx context.Context, req request_models.LoginRequest) (*response_models.AuthResponse, error) {
	return c.authenticate(ctx, "/auth/login", req)
}

// authenticate stores the session token, user summary and profile list on
// success.
func (c *Client) authenticate(ctx context.Context, path string, body interface{}) (*response_models.AuthResponse, error) {
	var out response_models.AuthResponse
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return nil, err
	}
	if err := c.store.Put(KeyAuthToken, out.AccessToken); err != nil {
		return nil, err
	}
	if err := c.store.Put(KeyUserInfo, out.User); err != nil {
		return nil, err
	}
	if err := c.store.Put(KeyProfiles, out.User.Profiles); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout drops the session from the local store. Mirrors are kept.
func (c *Client) Logout() error {
	for _, key := range []string{KeyAuthToken, KeyUserInfo, KeyActiveProfile} {
		if err := c.store.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) Me(ctx context.Context) (*response_models.UserSummary, error) {
	var out response_models.UserSummary
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Plans(ctx context.Context) ([]response_models.PlanResponse, error) {
	var out []response_models.PlanResponse
	err := c.do(ctx, http.MethodGet, "/plans", nil, &out)
	return out, err
}

func (c *Client) ListProfiles(ctx context.Context) ([]response_models.ProfileResponse, error) {
	var out []response_models.ProfileResponse
	err := c.do(ctx, http.MethodGet, "/profiles", nil, &out)
	return out, err
}

func (c *Client) ProfileLimits(ctx context.Context) (*response_models.ProfileLimitsResponse, error) {
	var out response_models.ProfileLimitsResponse
	if err := c.do(ctx, http.MethodGet, "/profiles/limits", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetProfile(ctx context.Context, profileID string) (*response_models.ProfileResponse, error) {
	var out response_models.ProfileResponse
	if err := c.do(ctx, http.MethodGet, profilePath(profileID, ""), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateProfile(ctx context.Context, req request_models.CreateProfileRequest) (*response_models.ProfileResponse, error) {
	var out response_models.ProfileResponse
	if err := c.do(ctx, http.MethodPost, "/profiles", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, profileID string, req request_models.UpdateProfileRequest) (*response_models.ProfileResponse, error) {
	var out response_models.ProfileResponse
	if err := c.do(ctx, http.MethodPut, profilePath(profileID, ""), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProfile(ctx context.Context, profileID string) error {
	return c.do(ctx, http.MethodDelete, profilePath(profileID, ""), nil, nil)
}

func (c *Client) Watchlist(ctx context.Context, profileID string) ([]response_models.WatchlistItemResponse, error) {
	var out []response_models.WatchlistItemResponse
	err := c.do(ctx, http.MethodGet, profilePath(profileID, "/watchlist"), nil, &out)
	return out, err
}

func (c *Client) AddToWatchlist(ctx context.Context, profileID, contentID string) (*response_models.WatchlistItemResponse, error) {
	var out response_models.WatchlistItemResponse
	req := request_models.AddToWatchlistRequest{ContentID: contentID}
	if err := c.do(ctx, http.MethodPost, profilePath(profileID, "/watchlist"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveFromWatchlist accepts either the content item id or the external
// content id.
func (c *Client) RemoveFromWatchlist(ctx context.Context, profileID, ref string) error {
	return c.do(ctx, http.MethodDelete, profilePath(profileID, "/watchlist/"+url.PathEscape(ref)), nil, nil)
}

func (c *Client) WatchHistory(ctx context.Context, profileID string) ([]response_models.WatchHistoryResponse, error) {
	var out []response_models.WatchHistoryResponse
	err := c.do(ctx, http.MethodGet, profilePath(profileID, "/watch-history"), nil, &out)
	return out, err
}

func (c *Client) ContinueWatching(ctx context.Context, profileID string) ([]response_models.WatchHistoryResponse, error) {
	var out []response_models.WatchHistoryResponse
	err := c.do(ctx, http.MethodGet, profilePath(profileID, "/continue-watching"), nil, &out)
	return out, err
}

func (c *Client) UpdateWatchHistory(ctx context.Context, profileID string, req request_models.WatchHistoryRequest) (*response_models.WatchHistoryResponse, error) {
	var out response_models.WatchHistoryResponse
	if err := c.do(ctx, http.MethodPost, profilePath(profileID, "/watch-history"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Catalog reads are passed through untouched.

func (c *Client) Trending(ctx context.Context) (json.RawMessage, error) {
	return c.raw(ctx, "/movies/trending")
}

func (c *Client) Popular(ctx context.Context) (json.RawMessage, error) {
	return c.raw(ctx, "/movies/popular")
}

func (c *Client) ByGenre(ctx context.Context, genreID string) (json.RawMessage, error) {
	return c.raw(ctx, "/movies/genre/"+url.PathEscape(genreID))
}

func (c *Client) Movie(ctx context.Context, movieID string) (json.RawMessage, error) {
	return c.raw(ctx, "/movies/"+url.PathEscape(movieID))
}

func (c *Client) raw(ctx context.Context, path string) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func profilePath(profileID, suffix string) string {
	return "/profiles/" + url.PathEscape(profileID) + suffix
}

func (c *Client) token() (string, error) {
	var token string
	if _, err := c.store.Get(KeyAuthToken, &token); err != nil {
		return "", err
	}
	return token, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	token, err := c.token()
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &TransportError{Op: method + " " + path, Err: err}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return newAPIError(resp.StatusCode, data)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// Retryable reports whether a failed call may succeed later unchanged:
// transport failures and 5xx answers. 4xx answers are final.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	var te *TransportError
	if errors.As(err, &te) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= http.StatusInternalServerError
	}
	return false
}
