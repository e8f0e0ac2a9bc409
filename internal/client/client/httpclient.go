package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/globetrotter/internal/common"
	"github.com/dmitrijs2005/globetrotter/internal/server/models"
)

const apiPrefix = "/api/v1"

// HTTPClient talks to the JSON API. It is safe for concurrent use.
type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu        sync.Mutex
	tokens    TokenPair
	onRefresh func(ctx context.Context, p TokenPair) error
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) SetTokens(p TokenPair) {
	c.mu.Lock()
	c.tokens = p
	c.mu.Unlock()
}

func (c *HTTPClient) Tokens() TokenPair {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens
}

// OnRefresh registers fn to be called with every pair obtained by a
// transparent refresh, so the caller can persist it.
func (c *HTTPClient) OnRefresh(fn func(ctx context.Context, p TokenPair) error) {
	c.mu.Lock()
	c.onRefresh = fn
	c.mu.Unlock()
}

type response struct {
	header http.Header
	body   []byte
}

// send performs one round trip. Non-2xx answers become *APIError.
func (c *HTTPClient) send(ctx context.Context, method, path string, payload []byte, accessToken string) (*response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set(common.AccessTokenHeaderName, common.BearerPrefix+accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp.StatusCode, data)
	}
	return &response{header: resp.Header, body: data}, nil
}

func decodeError(status int, data []byte) error {
	var e struct {
		Error  string       `json:"error"`
		Fields []FieldError `json:"fields"`
	}
	if err := json.Unmarshal(data, &e); err != nil || e.Error == "" {
		e.Error = http.StatusText(status)
	}
	return &APIError{Status: status, Message: e.Error, Fields: e.Fields, kind: kindOf(status, e.Error)}
}

// authed sends with the current access token and, if it has expired,
// refreshes the pair once and repeats the request.
func (c *HTTPClient) authed(ctx context.Context, method, path string, in any) (*response, error) {
	payload, err := encode(in)
	if err != nil {
		return nil, err
	}

	tokens := c.Tokens()
	if tokens.AccessToken == "" {
		return nil, ErrNotLoggedIn
	}

	resp, err := c.send(ctx, method, path, payload, tokens.AccessToken)
	if !errors.Is(err, common.ErrTokenExpired) || tokens.RefreshToken == "" {
		return resp, err
	}

	fresh, err := c.refresh(ctx, tokens.RefreshToken)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, method, path, payload, fresh.AccessToken)
}

func (c *HTTPClient) refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	var pair TokenPair
	if err := c.public(ctx, http.MethodPost, "/auth/refresh", map[string]string{"refresh_token": refreshToken}, &pair); err != nil {
		return TokenPair{}, err
	}
	c.SetTokens(pair)

	c.mu.Lock()
	hook := c.onRefresh
	c.mu.Unlock()
	if hook != nil {
		if err := hook(ctx, pair); err != nil {
			return TokenPair{}, fmt.Errorf("store refreshed tokens: %w", err)
		}
	}
	return pair, nil
}

func (c *HTTPClient) public(ctx context.Context, method, path string, in, out any) error {
	payload, err := encode(in)
	if err != nil {
		return err
	}
	resp, err := c.send(ctx, method, path, payload, "")
	if err != nil {
		return err
	}
	return decode(resp, out)
}

func (c *HTTPClient) call(ctx context.Context, method, path string, in, out any) error {
	resp, err := c.authed(ctx, method, path, in)
	if err != nil {
		return err
	}
	return decode(resp, out)
}

func encode(in any) ([]byte, error) {
	if in == nil {
		return nil, nil
	}
	b, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return b, nil
}

func decode(resp *response, out any) error {
	if out == nil || len(resp.body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) Register(ctx context.Context, email, name, password string) (*models.User, error) {
	in := map[string]string{"email": email, "name": name, "password": password}
	var out struct {
		User models.User `json:"user"`
	}
	if err := c.public(ctx, http.MethodPost, "/auth/register", in, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Login authenticates and keeps the returned pair for later calls.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (TokenPair, error) {
	var pair TokenPair
	in := map[string]string{"email": email, "password": password}
	if err := c.public(ctx, http.MethodPost, "/auth/login", in, &pair); err != nil {
		return TokenPair{}, err
	}
	c.SetTokens(pair)
	return pair, nil
}

// Logout revokes the refresh token on the server and forgets the pair.
// The local pair is dropped even when the server call fails.
func (c *HTTPClient) Logout(ctx context.Context) error {
	tokens := c.Tokens()
	c.SetTokens(TokenPair{})
	if tokens.RefreshToken == "" {
		return nil
	}
	return c.public(ctx, http.MethodPost, "/auth/logout", map[string]string{"refresh_token": tokens.RefreshToken}, nil)
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	if err := c.call(ctx, http.MethodGet, "/me", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *HTTPClient) ListTrips(ctx context.Context, status string) ([]models.Trip, error) {
	path := "/trips"
	if status != "" {
		path += "?" + url.Values{"status": {status}}.Encode()
	}
	var out struct {
		Trips []models.Trip `json:"trips"`
	}
	if err := c.call(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Trips, nil
}

func (c *HTTPClient) CreateTrip(ctx context.Context, in TripInput) (*models.Trip, error) {
	var out struct {
		Trip models.Trip `json:"trip"`
	}
	if err := c.call(ctx, http.MethodPost, "/trips", in, &out); err != nil {
		return nil, err
	}
	return &out.Trip, nil
}

func tripPath(tripID, suffix string) string {
	return "/trips/" + url.PathEscape(tripID) + suffix
}

func (c *HTTPClient) Itinerary(ctx context.Context, tripID string) (*models.Itinerary, error) {
	var out struct {
		Itinerary models.Itinerary `json:"itinerary"`
	}
	if err := c.call(ctx, http.MethodGet, tripPath(tripID, "/itinerary"), nil, &out); err != nil {
		return nil, err
	}
	return &out.Itinerary, nil
}

func (c *HTTPClient) Budget(ctx context.Context, tripID string) (*models.Budget, error) {
	var out struct {
		Budget models.Budget `json:"budget"`
	}
	if err := c.call(ctx, http.MethodGet, tripPath(tripID, "/budget"), nil, &out); err != nil {
		return nil, err
	}
	return &out.Budget, nil
}

func (c *HTTPClient) Calendar(ctx context.Context, tripID string) ([]models.CalendarDay, error) {
	var out struct {
		Days []models.CalendarDay `json:"days"`
	}
	if err := c.call(ctx, http.MethodGet, tripPath(tripID, "/calendar"), nil, &out); err != nil {
		return nil, err
	}
	return out.Days, nil
}

func (c *HTTPClient) Export(ctx context.Context, tripID, format string) (*ExportFile, error) {
	path := tripPath(tripID, "/export?"+url.Values{"format": {format}}.Encode())
	resp, err := c.authed(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return &ExportFile{
		Filename:    attachmentName(resp.header.Get("Content-Disposition")),
		ContentType: resp.header.Get("Content-Type"),
		Data:        resp.body,
	}, nil
}

func attachmentName(disposition string) string {
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}

func (c *HTTPClient) RequestCoverUpload(ctx context.Context, tripID string) (*models.UploadTask, error) {
	var out struct {
		Upload models.UploadTask `json:"upload"`
	}
	if err := c.call(ctx, http.MethodPost, tripPath(tripID, "/cover"), nil, &out); err != nil {
		return nil, err
	}
	return &out.Upload, nil
}

func (c *HTTPClient) CompleteCoverUpload(ctx context.Context, tripID, storageKey string) error {
	return c.call(ctx, http.MethodPut, tripPath(tripID, "/cover"), map[string]string{"storage_key": storageKey}, nil)
}
