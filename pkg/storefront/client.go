// Package storefront is an HTTP client for the storefront gateway. The
// session is kept in a local store so it survives between runs.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/digitalloot/storefront/pkg/localstore"
)

const (
	KeyUser    = "digitalLoot_user"
	KeyRole    = "digitalLoot_role"
	KeyTokens  = "digitalLoot_tokens"
	apiVersion = "/api/v1"
)

var ErrNotLoggedIn = errors.New("not logged in")

// APIError is returned for every non 2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	AccessExp    int64  `json:"access_exp"`
	RefreshExp   int64  `json:"refresh_exp"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	store      *localstore.Store
}

type Option func(*Client)

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// New returns a client for the gateway at baseURL. A nil store keeps the
// session in memory.
func New(baseURL string, store *localstore.Store, opts ...Option) *Client {
	if store == nil {
		store = localstore.NewMemory()
	}
	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/") + apiVersion,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
			Jar:     jar,
		},
		store: store,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Store() *localstore.Store { return c.store }

// Role returns the role of the logged in user, or "" without a session.
func (c *Client) Role() string {
	role, _ := c.store.Get(KeyRole)
	return role
}

func (c *Client) LoggedIn() bool {
	t, _ := c.tokens()
	return t.AccessToken != ""
}

func (c *Client) tokens() (Tokens, error) {
	var t Tokens
	_, err := c.store.GetJSON(KeyTokens, &t)
	return t, err
}

func (c *Client) saveSession(user *User, role string, t Tokens) error {
	if user != nil {
		if err := c.store.SetJSON(KeyUser, user); err != nil {
			return err
		}
	}
	if role != "" {
		if err := c.store.Set(KeyRole, role); err != nil {
			return err
		}
	}
	return c.store.SetJSON(KeyTokens, t)
}

func (c *Client) clearSession() error {
	for _, k := range []string{KeyUser, KeyRole, KeyTokens} {
		if err := c.store.Remove(k); err != nil {
			return err
		}
	}
	return nil
}

type request struct {
	method  string
	path    string
	query   url.Values
	body    any
	headers map[string]string
	// public requests never carry or refresh the session.
	public bool
}

// do sends r and decodes a JSON response into out.
func (c *Client) do(ctx context.Context, r request, out any) error {
	resp, err := c.roundTrip(ctx, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decode(resp, out)
}

// raw is do for non JSON responses such as exports.
func (c *Client) raw(ctx context.Context, r request) ([]byte, http.Header, error) {
	resp, err := c.roundTrip(ctx, r)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, nil, apiError(resp)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read response: %w", err)
	}
	return body, resp.Header, nil
}

// roundTrip sends r. A 401 on an authenticated request triggers one token
// refresh and a retry.
func (c *Client) roundTrip(ctx context.Context, r request) (*http.Response, error) {
	resp, err := c.send(ctx, r)
	if err != nil || r.public || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}
	resp.Body.Close()

	if err := c.refresh(ctx); err != nil {
		return nil, &APIError{Status: http.StatusUnauthorized, Message: "session expired, log in again"}
	}
	return c.send(ctx, r)
}

func (c *Client) send(ctx context.Context, r request) (*http.Response, error) {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	if !r.public {
		if t, _ := c.tokens(); t.AccessToken != "" {
			req.Header.Set("Authorization", "Bearer "+t.AccessToken)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	return resp, nil
}

func (c *Client) refresh(ctx context.Context) error {
	t, err := c.tokens()
	if err != nil {
		return err
	}
	if t.RefreshToken == "" {
		return ErrNotLoggedIn
	}

	resp, err := c.send(ctx, request{
		method: http.MethodPost,
		path:   "/auth/refresh",
		body:   map[string]string{"refresh_token": t.RefreshToken},
		public: true,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var out struct {
		Tokens
		Role string `json:"role"`
	}
	if err := decode(resp, &out); err != nil {
		if IsStatus(err, http.StatusUnauthorized) {
			_ = c.clearSession()
		}
		return err
	}
	return c.saveSession(nil, out.Role, out.Tokens)
}

func decode(resp *http.Response, out any) error {
	if resp.StatusCode >= 300 {
		return apiError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func apiError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body struct {
		Message string `json:"message"`
	}
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &body) == nil && body.Message != "" {
		msg = body.Message
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}
