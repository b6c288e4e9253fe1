// internal/app/apiclient/auth.go
package apiclient

import (
	"context"
	"errors"
	"net/http"

	"github.com/wakaladigital/wakala/internal/domain/models"
)

// ErrNoToken is returned by Login when the API accepted the credentials but
// issued no token.
var ErrNoToken = errors.New("apiclient: login response carried no token")

// Session is what a successful login yields.
type Session struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for an API token.
func (c *Client) Login(ctx context.Context, username, password string) (Session, error) {
	var s Session
	if err := c.post(ctx, "/auth/login", "/auth/login", loginRequest{Username: username, Password: password}, &s); err != nil {
		return Session{}, err
	}
	if s.Token == "" {
		return Session{}, ErrNoToken
	}
	return s, nil
}

// Logout revokes the token the client carries.
func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "/auth/logout", "/auth/logout", struct{}{}, nil)
}

// Ping checks that the API answers HTTP at all. Any status code counts as
// reachable; only transport failures are reported.
func (c *Client) Ping(ctx context.Context) error {
	err := c.do(ctx, request{method: http.MethodGet, path: "/", route: "/"}, nil)
	if err == nil || !IsTransport(err) {
		return nil
	}
	return err
}
