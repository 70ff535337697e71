// Package apiclient is the single chokepoint for calls to the payment gateway.
// It attaches credentials, performs the one silent 401 refresh-and-retry, and
// normalizes error payloads; the per-resource files on top of it are thin
// request/response mappers with no business logic.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// TokenStore is where the console keeps its gateway credentials. The sqlite
// local state store implements it.
type TokenStore interface {
	Tokens() (access, refresh, csrf string)
	SaveTokens(access, refresh string) error
	ClearTokens() error
}

// Observer receives one call per upstream request, for metrics.
type Observer func(resource, method string, statusCode int, elapsed time.Duration)

type Config struct {
	BaseURL    string
	Tokens     TokenStore
	Timeout    time.Duration
	Logger     *logrus.Logger
	HTTPClient *http.Client

	// NoLogout suppresses the forced logout when a refresh fails (E2E flag).
	NoLogout bool
	// OnLogout runs after tokens are cleared on an unrecoverable 401.
	OnLogout func()

	Observer Observer
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
	logger     *logrus.Logger
	noLogout   bool
	onLogout   func()
	observer   Observer

	refreshMu sync.Mutex
}

// defaultTransport caps connections per host so a slow gateway cannot pile up
// unbounded sockets under the pollers.
func defaultTransport() *http.Transport {
	return &http.Transport{
		MaxConnsPerHost:     100,
		MaxIdleConnsPerHost: 10,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
	}
}

func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: defaultTransport(),
		}
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		tokens:     cfg.Tokens,
		logger:     cfg.Logger,
		noLogout:   cfg.NoLogout,
		onLogout:   cfg.OnLogout,
		observer:   cfg.Observer,
	}
}

func (c *Client) buildRequest(ctx context.Context, method, path string, query url.Values, payload []byte) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	access, _, csrf := c.tokens.Tokens()
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}
	if csrf != "" {
		req.Header.Set("X-CSRF-Token", csrf)
	}

	return req, nil
}

// send performs one request and returns the status code with the full body.
// payload is retained by the caller so a 401 retry can rebuild the request.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte) (int, []byte, http.Header, error) {
	req, err := c.buildRequest(ctx, method, path, query, payload)
	if err != nil {
		return 0, nil, nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(path, method, 0, time.Since(start))
		c.logger.WithError(err).WithField("path", path).Warn("gateway request failed")
		return 0, nil, nil, netError()
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.observe(path, method, resp.StatusCode, time.Since(start))
	if err != nil {
		return 0, nil, nil, netError()
	}
	return resp.StatusCode, body, resp.Header, nil
}

// do runs a request against the gateway, refreshing the access token at most
// once on a 401 and retrying the original call with the new token.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}) ([]byte, http.Header, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, nil, err
		}
	}

	// A token we already know is expired gets refreshed up front instead of
	// burning a round trip on a guaranteed 401.
	if access, refresh, _ := c.tokens.Tokens(); access != "" && refresh != "" && tokenExpired(access) {
		if err := c.refreshTokens(ctx); err != nil {
			c.logger.WithError(err).Debug("proactive token refresh failed, proceeding with stored token")
		}
	}

	code, respBody, header, err := c.send(ctx, method, path, query, payload)
	if err != nil {
		return nil, nil, err
	}

	if code == http.StatusUnauthorized {
		if err := c.refreshTokens(ctx); err != nil {
			c.forceLogout()
			return nil, nil, &APIError{StatusCode: code, Message: "Session expired. Please sign in again."}
		}
		code, respBody, header, err = c.send(ctx, method, path, query, payload)
		if err != nil {
			return nil, nil, err
		}
		if code == http.StatusUnauthorized {
			c.forceLogout()
			return nil, nil, &APIError{StatusCode: code, Message: "Session expired. Please sign in again."}
		}
	}

	if code >= 400 {
		msg := NormalizeErrorBody(respBody)
		if msg == "" {
			msg = http.StatusText(code)
		}
		if code >= 500 {
			c.logger.WithFields(logrus.Fields{"path": path, "status": code}).Error(msg)
		}
		return nil, nil, &APIError{StatusCode: code, Message: msg}
	}

	return respBody, header, nil
}

func (c *Client) forceLogout() {
	if c.noLogout {
		c.logger.Warn("refresh failed, logout suppressed by no-logout flag")
		return
	}
	if err := c.tokens.ClearTokens(); err != nil {
		c.logger.WithError(err).Error("failed to clear tokens on logout")
	}
	if c.onLogout != nil {
		c.onLogout()
	}
}

func (c *Client) observe(path, method string, code int, elapsed time.Duration) {
	if c.observer != nil {
		c.observer(resourceOf(path), method, code, elapsed)
	}
}

// resourceOf collapses a request path to its resource root so metric labels
// stay low-cardinality.
func resourceOf(path string) string {
	parts := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 2)
	if len(parts) == 0 || parts[0] == "" {
		return "unknown"
	}
	return parts[0]
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	body, _, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) error {
	body, _, err := c.do(ctx, http.MethodPost, path, nil, in)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func (c *Client) putJSON(ctx context.Context, path string, in, out interface{}) error {
	body, _, err := c.do(ctx, http.MethodPut, path, nil, in)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	_, _, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// getBytes fetches a binary response (exports, report downloads) and returns
// the body with its content type.
func (c *Client) getBytes(ctx context.Context, path string, query url.Values) ([]byte, string, error) {
	body, header, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, "", err
	}
	return body, header.Get("Content-Type"), nil
}

// decodeList handles both list shapes the gateway uses: a bare JSON array and
// a {results, count} envelope. A missing count defaults to the result length.
func decodeList[T any](data []byte) ([]T, int, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, 0, err
		}
		return items, len(items), nil
	}

	var env struct {
		Results []T `json:"results"`
		Count   int `json:"count"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, 0, err
	}
	if env.Count == 0 {
		env.Count = len(env.Results)
	}
	return env.Results, env.Count, nil
}
