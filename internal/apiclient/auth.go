package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// refreshTokens exchanges the stored refresh token for a new access token.
// The request carries the token under both keys the gateway has accepted
// over time, and both historical response shapes are parsed.
func (c *Client) refreshTokens(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	_, refresh, _ := c.tokens.Tokens()
	if refresh == "" {
		return errors.New("no refresh token stored")
	}

	payload, err := json.Marshal(map[string]string{
		"refresh_token": refresh,
		"refresh":       refresh,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/refresh/", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return netError()
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return netError()
	}
	if resp.StatusCode >= 400 {
		msg := NormalizeErrorBody(body)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	var parsed struct {
		Access       string `json:"access"`
		Refresh      string `json:"refresh"`
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return err
	}

	access := parsed.Access
	if access == "" {
		access = parsed.AccessToken
	}
	if access == "" {
		return errors.New("refresh response carried no access token")
	}

	newRefresh := parsed.Refresh
	if newRefresh == "" {
		newRefresh = parsed.RefreshToken
	}
	if newRefresh == "" {
		newRefresh = refresh
	}

	return c.tokens.SaveTokens(access, newRefresh)
}

// tokenExpired reports whether the access token's exp claim is in the past.
// The token is not verified here, only read; opaque tokens count as live and
// fall through to the normal 401 path.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
