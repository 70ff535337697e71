package apiclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payment-operations-console/internal/models"
)

type memTokens struct {
	mu      sync.Mutex
	access  string
	refresh string
	csrf    string
	cleared bool
}

func (m *memTokens) Tokens() (string, string, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.access, m.refresh, m.csrf
}

func (m *memTokens) SaveTokens(access, refresh string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = access
	m.refresh = refresh
	return nil
}

func (m *memTokens) ClearTokens() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access, m.refresh, m.csrf = "", "", ""
	m.cleared = true
	return nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testClient(t *testing.T, base string, tokens TokenStore) *Client {
	t.Helper()
	return New(Config{BaseURL: base, Tokens: tokens, Logger: quietLogger()})
}

func TestRequestCarriesAuthHeaders(t *testing.T) {
	var gotAuth, gotCSRF string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotCSRF = r.Header.Get("X-CSRF-Token")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, &memTokens{access: "tok-abc", csrf: "csrf-xyz"})
	require.NoError(t, c.getJSON(context.Background(), "/settlements/statistics/", nil, nil))

	assert.Equal(t, "Bearer tok-abc", gotAuth)
	assert.Equal(t, "csrf-xyz", gotCSRF)
}

func TestUnauthorizedRefreshesOnceAndRetries(t *testing.T) {
	var refreshCalls, dataCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
		w.Write([]byte(`{"access": "new-access", "refresh": "new-refresh"}`))
	})
	mux.HandleFunc("/settlements/batches/", func(w http.ResponseWriter, r *http.Request) {
		dataCalls++
		if r.Header.Get("Authorization") != "Bearer new-access" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"results": [], "count": 0}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	tokens := &memTokens{access: "stale", refresh: "old-refresh"}
	c := testClient(t, srv.URL, tokens)

	_, err := c.Settlements().ListBatches(context.Background(), models.BatchFilter{})
	require.NoError(t, err)

	assert.Equal(t, 1, refreshCalls)
	assert.Equal(t, 2, dataCalls)

	access, refresh, _ := tokens.Tokens()
	assert.Equal(t, "new-access", access)
	assert.Equal(t, "new-refresh", refresh)
}

func TestRefreshFailureForcesLogout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "refresh token expired"}`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	tokens := &memTokens{access: "stale", refresh: "dead"}
	var loggedOut bool
	c := New(Config{
		BaseURL:  srv.URL,
		Tokens:   tokens,
		Logger:   quietLogger(),
		OnLogout: func() { loggedOut = true },
	})

	err := c.getJSON(context.Background(), "/settlements/statistics/", nil, nil)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.True(t, tokens.cleared)
	assert.True(t, loggedOut)
}

func TestNoLogoutFlagKeepsTokens(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	tokens := &memTokens{access: "stale", refresh: "dead"}
	c := New(Config{BaseURL: srv.URL, Tokens: tokens, Logger: quietLogger(), NoLogout: true})

	err := c.getJSON(context.Background(), "/settlements/statistics/", nil, nil)
	require.Error(t, err)
	assert.False(t, tokens.cleared)
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	c := testClient(t, "http://127.0.0.1:1", &memTokens{})

	err := c.getJSON(context.Background(), "/settlements/statistics/", nil, nil)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 0, apiErr.StatusCode)
	assert.Equal(t, NetworkErrorMessage, apiErr.Message)
}

func TestErrorResponseIsNormalized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"details": {"reason": ["required"]}}}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, &memTokens{})
	err := c.postJSON(context.Background(), "/settlements/batches/B1/cancel/", map[string]string{}, nil)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "reason: required", apiErr.Message)
}

func TestDecodeListShapes(t *testing.T) {
	type item struct {
		ID string `json:"id"`
	}

	items, count, err := decodeList[item]([]byte(`[{"id": "a"}, {"id": "b"}]`))
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 2, count)

	items, count, err = decodeList[item]([]byte(`{"results": [{"id": "a"}], "count": 40}`))
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 40, count)

	items, count, err = decodeList[item]([]byte(`{"results": [{"id": "a"}]}`))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, _, err = decodeList[item]([]byte(`not json`))
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	sign := func(exp time.Time) string {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()})
		s, err := tok.SignedString([]byte("test-key"))
		require.NoError(t, err)
		return s
	}

	assert.True(t, tokenExpired(sign(time.Now().Add(-time.Minute))))
	assert.False(t, tokenExpired(sign(time.Now().Add(time.Hour))))
	assert.False(t, tokenExpired("opaque-token"))
}

func TestResourceOf(t *testing.T) {
	assert.Equal(t, "settlements", resourceOf("/settlements/batches/"))
	assert.Equal(t, "refunds", resourceOf("/refunds"))
	assert.Equal(t, "unknown", resourceOf("/"))
}
