package catalogapi

import (
	"context"
	"net/http"
)

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token and the user profile.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, http.MethodPost, "/v1/auth/login", nil, loginInput{Email: email, Password: password}, &out)
	return out, err
}
