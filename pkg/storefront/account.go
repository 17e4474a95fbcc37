package storefront

import (
	"context"
	"errors"
	"net/http"
)

type Registration struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type ProfileUpdate struct {
	FullName *string `json:"full_name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	City     *string `json:"city,omitempty"`
	Country  *string `json:"country,omitempty"`
	Bio      *string `json:"bio,omitempty"`
}

func (c *Client) Register(ctx context.Context, r Registration) (*User, error) {
	if r.ConfirmPassword == "" {
		r.ConfirmPassword = r.Password
	}
	var out User
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/register", body: r, public: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login opens a session and stores the user, role and tokens locally.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var out struct {
		Tokens
		User *User  `json:"user"`
		Role string `json:"role"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/login", body: body, public: true}, &out); err != nil {
		return nil, err
	}
	if err := c.saveSession(out.User, out.Role, out.Tokens); err != nil {
		return nil, err
	}
	return out.User, nil
}

// Logout revokes the refresh token and clears the local session. The local
// session is cleared even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	t, _ := c.tokens()
	var err error
	if t.RefreshToken != "" {
		body := map[string]string{"refresh_token": t.RefreshToken}
		err = c.do(ctx, request{method: http.MethodPost, path: "/auth/logout", body: body, public: true}, nil)
	}
	return errors.Join(err, c.clearSession())
}

// CurrentUser returns the user saved at login without calling the server.
func (c *Client) CurrentUser() (*User, error) {
	var u User
	ok, err := c.store.GetJSON(KeyUser, &u)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotLoggedIn
	}
	return &u, nil
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	return c.profileCall(ctx, http.MethodGet, "/auth/me", nil)
}

func (c *Client) UpdateProfile(ctx context.Context, p ProfileUpdate) (*User, error) {
	return c.profileCall(ctx, http.MethodPatch, "/auth/me", p)
}

func (c *Client) UpdatePreferences(ctx context.Context, p Preferences) (*User, error) {
	return c.profileCall(ctx, http.MethodPut, "/auth/me/preferences", p)
}

func (c *Client) UpdateAvatar(ctx context.Context, avatarURL string) (*User, error) {
	return c.profileCall(ctx, http.MethodPut, "/auth/me/avatar", map[string]string{"avatar_url": avatarURL})
}

// DeleteAccount removes the profile and ends the local session.
func (c *Client) DeleteAccount(ctx context.Context) error {
	if err := c.do(ctx, request{method: http.MethodDelete, path: "/auth/me"}, nil); err != nil {
		return err
	}
	return c.clearSession()
}

func (c *Client) profileCall(ctx context.Context, method, path string, body any) (*User, error) {
	if !c.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	var out User
	if err := c.do(ctx, request{method: method, path: path, body: body}, &out); err != nil {
		return nil, err
	}
	if err := c.store.SetJSON(KeyUser, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
