package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Routes consumed by the auth screens. The backend owns everything behind
// them.
const (
	RouteLogin    = "/auth/login"
	RouteRegister = "/auth/register"
)

// AuthUser is the user payload as the wire carries it. The session layer
// converts it into its own User type after validation.
type AuthUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Credentials is a validated successful login: a non-empty bearer token
// and a user with non-empty ID and Role.
type Credentials struct {
	Token string
	User  AuthUser
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string   `json:"token"`
	User  AuthUser `json:"user"`
}

// Login exchanges credentials for a session. An HTTP 401 maps to
// [ErrInvalidCredentials] with the server message attached; a 2xx body
// missing token, user ID, or user role fails with [ErrMalformedResponse]
// and must not be handed to the session manager.
func (c *Client) Login(ctx context.Context, email, password string) (Credentials, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, RouteLogin, loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return Credentials{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, apiErr)
		}
		return Credentials{}, err
	}

	switch {
	case resp.Token == "":
		return Credentials{}, fmt.Errorf("%w: missing token", ErrMalformedResponse)
	case resp.User.ID == "":
		return Credentials{}, fmt.Errorf("%w: missing user id", ErrMalformedResponse)
	case resp.User.Role == "":
		return Credentials{}, fmt.Errorf("%w: missing user role", ErrMalformedResponse)
	}
	return Credentials{Token: resp.Token, User: resp.User}, nil
}

// RegisterRequest is the account creation payload. Validation happens in
// the screen layer before this call; the backend revalidates regardless.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Register creates an account. The success body is unused beyond the
// status; failures carry the server's error message in [*APIError].
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.do(ctx, http.MethodPost, RouteRegister, req, nil)
}
