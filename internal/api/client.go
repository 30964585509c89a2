package api

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

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service is the backend surface used by the client. It is implemented by
// *Client and can be faked in tests.
type Service interface {
	ListGames(ctx context.Context, query url.Values) ([]Game, error)
	CreateGame(ctx context.Context, in GameInput) (Game, error)
	UpdateGame(ctx context.Context, id string, in GameInput) (Game, error)
	SetCompleted(ctx context.Context, id string, completed bool) (Game, error)
	DeleteGame(ctx context.Context, id string) error

	ListReviews(ctx context.Context, gameID string) ([]Review, error)
	CreateReview(ctx context.Context, in ReviewInput) (Review, error)
	UpdateReview(ctx context.Context, id string, in ReviewInput) (Review, error)
	DeleteReview(ctx context.Context, id string) error

	SearchGames(ctx context.Context, title string) ([]SearchResult, error)
	DashboardStats(ctx context.Context) (DashboardStats, error)
	Feed(ctx context.Context) ([]Activity, error)
	AddFriend(ctx context.Context, nickname string) error
	ListFriends(ctx context.Context) ([]Friend, error)

	Login(ctx context.Context, creds Credentials) (AuthResponse, error)
	Register(ctx context.Context, reg Registration) (AuthResponse, error)
	UpdateProfile(ctx context.Context, in ProfileInput) (ProfileResponse, error)
	UploadAvatar(ctx context.Context, path string) (ProfileResponse, error)
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

// Client talks to the PLUS ULTRA REST API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultAPIURL    = "http://localhost:3000/api"
	defaultUserAgent = "plusultra/0.1"
	defaultTimeout   = 10 * time.Second
)

type credentialKey struct{}

// WithCredential returns a context that carries the bearer token. Requests
// issued with the returned context authenticate with token, whatever the
// session holds by the time the response arrives.
func WithCredential(ctx context.Context, token string) context.Context {
	if strings.TrimSpace(token) == "" {
		return ctx
	}
	return context.WithValue(ctx, credentialKey{}, token)
}

// CredentialFrom returns the bearer token carried by ctx, if any.
func CredentialFrom(ctx context.Context) string {
	token, _ := ctx.Value(credentialKey{}).(string)
	return token
}

// NewClient builds a Client for the API rooted at apiURL. A zero timeout uses
// the default.
func NewClient(apiURL string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// ListGames returns the library filtered by query. Only the keys present in
// query are sent.
func (c *Client) ListGames(ctx context.Context, query url.Values) ([]Game, error) {
	var games []Game
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint(query, "juegos"), nil, &games); err != nil {
		return nil, err
	}
	return games, nil
}

// CreateGame adds a game and returns it with its backend identity.
func (c *Client) CreateGame(ctx context.Context, in GameInput) (Game, error) {
	var game Game
	if err := c.doJSON(ctx, http.MethodPost, c.endpoint(nil, "juegos"), in, &game); err != nil {
		return Game{}, err
	}
	return game, nil
}

// UpdateGame replaces the writable fields of game id.
func (c *Client) UpdateGame(ctx context.Context, id string, in GameInput) (Game, error) {
	if err := requireID("game", id); err != nil {
		return Game{}, err
	}
	var game Game
	if err := c.doJSON(ctx, http.MethodPut, c.endpoint(nil, "juegos", id), in, &game); err != nil {
		return Game{}, err
	}
	return game, nil
}

// SetCompleted sends a partial update touching only the completion flag.
func (c *Client) SetCompleted(ctx context.Context, id string, completed bool) (Game, error) {
	if err := requireID("game", id); err != nil {
		return Game{}, err
	}
	body := map[string]bool{"completado": completed}
	var game Game
	if err := c.doJSON(ctx, http.MethodPut, c.endpoint(nil, "juegos", id), body, &game); err != nil {
		return Game{}, err
	}
	return game, nil
}

// DeleteGame removes a game and, server-side, its reviews.
func (c *Client) DeleteGame(ctx context.Context, id string) error {
	if err := requireID("game", id); err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodDelete, c.endpoint(nil, "juegos", id), nil, nil)
}

// ListReviews returns the reviews of one game in insertion order.
func (c *Client) ListReviews(ctx context.Context, gameID string) ([]Review, error) {
	if err := requireID("game", gameID); err != nil {
		return nil, err
	}
	var reviews []Review
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint(nil, "reseñas", "juego", gameID), nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// CreateReview adds a review to in.GameID.
func (c *Client) CreateReview(ctx context.Context, in ReviewInput) (Review, error) {
	if err := requireID("game", in.GameID); err != nil {
		return Review{}, err
	}
	var review Review
	if err := c.doJSON(ctx, http.MethodPost, c.endpoint(nil, "reseñas"), in, &review); err != nil {
		return Review{}, err
	}
	return review, nil
}

// UpdateReview replaces the writable fields of review id.
func (c *Client) UpdateReview(ctx context.Context, id string, in ReviewInput) (Review, error) {
	if err := requireID("review", id); err != nil {
		return Review{}, err
	}
	var review Review
	if err := c.doJSON(ctx, http.MethodPut, c.endpoint(nil, "reseñas", id), in, &review); err != nil {
		return Review{}, err
	}
	return review, nil
}

// DeleteReview removes review id.
func (c *Client) DeleteReview(ctx context.Context, id string) error {
	if err := requireID("review", id); err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodDelete, c.endpoint(nil, "reseñas", id), nil, nil)
}

// SearchGames asks the metadata proxy for candidates matching title. A blank
// title returns no results without a request.
func (c *Client) SearchGames(ctx context.Context, title string) ([]SearchResult, error) {
	if strings.TrimSpace(title) == "" {
		return nil, nil
	}
	var results []SearchResult
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint(nil, "search-game", title), nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// DashboardStats fetches the pre-aggregated library statistics.
func (c *Client) DashboardStats(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint(nil, "stats", "dashboard"), nil, &stats); err != nil {
		return DashboardStats{}, err
	}
	return stats, nil
}

// Feed fetches the recent-activity list.
func (c *Client) Feed(ctx context.Context) ([]Activity, error) {
	var activities []Activity
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint(nil, "feed"), nil, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// AddFriend links the current user to the user with nickname.
func (c *Client) AddFriend(ctx context.Context, nickname string) error {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return fmt.Errorf("friend nickname required")
	}
	body := map[string]string{"nickname": nickname}
	return c.doJSON(ctx, http.MethodPost, c.endpoint(nil, "friends", "add"), body, nil)
}

// ListFriends returns the current user's friends. Both a bare array and a
// {"friends": [...]} envelope are accepted.
func (c *Client) ListFriends(ctx context.Context) ([]Friend, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint(nil, "friends", "list"), nil, &raw); err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var friends []Friend
		if err := json.Unmarshal(trimmed, &friends); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return friends, nil
	}
	var envelope struct {
		Friends []Friend `json:"friends"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return envelope.Friends, nil
}

// endpoint builds an absolute URL below the API root. Each segment is escaped
// on its own, so a search title containing "/" stays one segment.
func (c *Client) endpoint(query url.Values, segments ...string) *url.URL {
	u := *c.baseURL
	path := strings.TrimSuffix(u.Path, "/")
	raw := strings.TrimSuffix(u.EscapedPath(), "/")
	for _, seg := range segments {
		path += "/" + seg
		raw += "/" + url.PathEscape(seg)
	}
	u.Path = path
	u.RawPath = raw
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return &u
}

func (c *Client) doJSON(ctx context.Context, method string, target *url.URL, payload, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, dest)
}

func (c *Client) send(req *http.Request, dest any) error {
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if token := CredentialFrom(req.Context()); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug().
			Err(err).
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Str("request_id", requestID).
			Msg("api request failed")
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	log.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Dur("elapsed", time.Since(start)).
		Msg("api request")

	if resp.StatusCode >= 400 {
		return newError(req, resp)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func requireID(kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%s id required", kind)
	}
	return nil
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse api_url %q: unsupported scheme %q", apiURL, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", apiURL)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
