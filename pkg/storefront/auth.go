package storefront

import (
	"context"
	"errors"
	"net/http"
)

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

func (t tokenResponse) state() *SessionState {
	return &SessionState{AccessToken: t.AccessToken, RefreshToken: t.RefreshToken, User: t.User}
}

// Register creates an account. It does not sign in.
func (c *Client) Register(ctx context.Context, email, password, fullName string) (*User, error) {
	var user User
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/v1/auth/register",
		body: map[string]string{
			"email":     email,
			"password":  password,
			"full_name": fullName,
		},
		headers:   http.Header{idempotencyHeader: []string{newIdempotencyKey()}},
		noRefresh: true,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SignIn exchanges credentials for a session and emits SIGNED_IN.
func (c *Client) SignIn(ctx context.Context, email, password string) (*SessionState, error) {
	var tokens tokenResponse
	err := c.do(ctx, request{
		method:    http.MethodPost,
		path:      "/api/v1/auth/login",
		body:      map[string]string{"email": email, "password": password},
		noRefresh: true,
	}, &tokens)
	if err != nil {
		return nil, err
	}
	state := tokens.state()
	c.session.set(EventSignedIn, state)
	return state.clone(), nil
}

// Refresh rotates the token pair and emits TOKEN_REFRESHED. A rejected refresh token signs
// the session out.
func (c *Client) Refresh(ctx context.Context) error {
	current := c.session.Current()
	if current == nil || current.RefreshToken == "" {
		return errors.New("no session to refresh")
	}
	var tokens tokenResponse
	err := c.do(ctx, request{
		method:    http.MethodPost,
		path:      "/api/v1/auth/refresh",
		body:      map[string]string{"refresh_token": current.RefreshToken},
		noRefresh: true,
	}, &tokens)
	if err != nil {
		if IsUnauthorized(err) {
			c.session.set(EventSignedOut, nil)
		}
		return err
	}
	if tokens.User == nil {
		tokens.User = current.User
	}
	c.session.set(EventTokenRefreshed, tokens.state())
	return nil
}

// SignOut revokes the server session and always clears the local one.
func (c *Client) SignOut(ctx context.Context) error {
	if c.session.AccessToken() == "" {
		return nil
	}
	err := c.do(ctx, request{
		method:    http.MethodPost,
		path:      "/api/v1/auth/logout",
		noRefresh: true,
	}, nil)
	c.session.set(EventSignedOut, nil)
	if err != nil && !IsUnauthorized(err) {
		return err
	}
	return nil
}

// Restore validates a previously persisted session and emits INITIAL_SESSION with the result.
// A nil state with a nil error means the caller is signed out.
func (c *Client) Restore(ctx context.Context) (*SessionState, error) {
	current := c.session.Current()
	if current == nil || current.AccessToken == "" {
		c.session.set(EventInitialSession, nil)
		return nil, nil
	}

	var user User
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/v1/auth/session"}, &user)
	if err != nil {
		if IsUnauthorized(err) {
			c.session.set(EventInitialSession, nil)
			return nil, nil
		}
		return nil, err
	}
	// a refresh during the call may have rotated the tokens
	restored := c.session.Current()
	if restored == nil {
		restored = current
	}
	restored.User = &user
	c.session.set(EventInitialSession, restored)
	return restored.clone(), nil
}
