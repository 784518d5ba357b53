package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	loginPath   = "/auth/simple/login"
	refreshPath = "/auth/refresh"
)

// TokenResponse is the answer of the directory's authentication endpoints.
type TokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// Login exchanges a username and password for a token.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode login request: %w", err)
	}

	respBody, err := c.makeRequest(ctx, http.MethodPost, c.BaseURL+loginPath, "", body, nil)
	if err != nil {
		return nil, err
	}
	return decodeToken(respBody)
}

// Refresh obtains a fresh token using a refresh token issued by Login.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	cookies := []*http.Cookie{{Name: "refresh_token", Value: refreshToken}}

	respBody, err := c.makeRequest(ctx, http.MethodGet, c.BaseURL+refreshPath, "", nil, cookies)
	if err != nil {
		return nil, err
	}
	return decodeToken(respBody)
}

func decodeToken(body []byte) (*TokenResponse, error) {
	var tokenResponse TokenResponse
	if err := json.Unmarshal(body, &tokenResponse); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if tokenResponse.Token == "" {
		return nil, fmt.Errorf("token response carried no token")
	}
	return &tokenResponse, nil
}
