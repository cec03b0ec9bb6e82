package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL  = "https://api.themoviedb.org/3"
	DefaultLanguage = "en-US"
	DefaultTimeout  = 10 * time.Second

	maxBodyBytes = 4 << 20
)

type Config struct {
	BaseURL  string
	APIKey   string
	Language string
	Timeout  time.Duration
}

// Client forwards read-only queries to TMDB and hands back the raw bodies.
// No retry, no caching: every call is one upstream request.
type Client struct {
	baseURL  string
	apiKey   string
	language string
	client   *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		language: cfg.Language,
		client:   &http.Client{Timeout: cfg.Timeout},
	}
}

// StatusError is returned when TMDB answers with a non-2xx status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("TMDB returned %d", e.StatusCode)
}

// Movie is the subset of the details payload stored alongside watch-state.
type Movie struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	Genres       []Genre `json:"genres"`
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type listResponse struct {
	Results json.RawMessage `json:"results"`
}

func (c *Client) Trending(ctx context.Context) (json.RawMessage, error) {
	return c.list(ctx, "/trending/movie/day", nil)
}

func (c *Client) Popular(ctx context.Context) (json.RawMessage, error) {
	return c.list(ctx, "/movie/popular", nil)
}

func (c *Client) ByGenre(ctx context.Context, genreID int) (json.RawMessage, error) {
	return c.list(ctx, "/discover/movie", url.Values{"with_genres": {strconv.Itoa(genreID)}})
}

func (c *Client) MovieDetails(ctx context.Context, movieID int) (json.RawMessage, error) {
	return c.get(ctx, fmt.Sprintf("/movie/%d", movieID), nil)
}

func (c *Client) list(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	body, err := c.get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}

	var res listResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode %s: %w", endpoint, err)
	}
	if len(res.Results) == 0 || string(res.Results) == "null" {
		return json.RawMessage("[]"), nil
	}
	return res.Results, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	u, err := url.Parse(c.baseURL + endpoint)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("api_key", c.apiKey)
	q.Set("language", c.language)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("TMDB returned invalid JSON for %s", endpoint)
	}
	return body, nil
}
