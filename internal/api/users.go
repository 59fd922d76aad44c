package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ammaryasser21/Mini-instabay/internal/core"
)

// UserClient wraps the user service: authentication and profile reads.
type UserClient struct {
	client
}

func NewUserClient(baseURL string) *UserClient {
	return &UserClient{client: newClient(baseURL)}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token.
func (c *UserClient) Login(ctx context.Context, email, password string) (string, error) {
	var out loginResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/login", "", loginRequest{
		Email:    email,
		Password: password,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Token, nil
}

type registerRequest struct {
	UserName    string `json:"userName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

// Register creates a new account. The caller validates the form first;
// the service enforces its own rules again.
func (c *UserClient) Register(ctx context.Context, reg core.Registration) error {
	return c.doJSON(ctx, http.MethodPost, "/api/v1/auth/register", "", registerRequest{
		UserName:    reg.UserName,
		Email:       reg.Email,
		PhoneNumber: reg.PhoneNumber,
		Password:    reg.Password,
	}, nil)
}

// GetUser fetches the profile for the given user id.
func (c *UserClient) GetUser(ctx context.Context, token, userID string) (core.User, error) {
	var out core.User
	err := c.doJSON(ctx, http.MethodGet, "/api/v1/users/"+url.PathEscape(userID), token, nil, &out)
	if err != nil {
		return core.User{}, err
	}
	return out, nil
}
