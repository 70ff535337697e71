package localstate

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payment-operations-console/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	return s
}

func TestTokenRoundTrip(t *testing.T) {
	s := openTestStore(t)

	access, refresh, csrf := s.Tokens()
	assert.Empty(t, access)
	assert.Empty(t, refresh)
	assert.Empty(t, csrf)

	require.NoError(t, s.SaveTokens("acc-1", "ref-1"))
	require.NoError(t, s.SaveCSRFToken("csrf-1"))

	access, refresh, csrf = s.Tokens()
	assert.Equal(t, "acc-1", access)
	assert.Equal(t, "ref-1", refresh)
	assert.Equal(t, "csrf-1", csrf)

	// Saving again overwrites the single row rather than adding another.
	require.NoError(t, s.SaveTokens("acc-2", "ref-2"))
	access, refresh, csrf = s.Tokens()
	assert.Equal(t, "acc-2", access)
	assert.Equal(t, "csrf-1", csrf, "csrf survives a token rotation")

	require.NoError(t, s.ClearTokens())
	access, refresh, csrf = s.Tokens()
	assert.Empty(t, access)
	assert.Empty(t, refresh)
	assert.Empty(t, csrf)
}

func TestPreferenceRoundTrip(t *testing.T) {
	s := openTestStore(t)

	var out models.BatchFilter
	size, err := s.Preference("settlements", &out)
	require.NoError(t, err)
	assert.Zero(t, size)

	saved := models.BatchFilter{Status: models.BatchPending, DateFrom: "2025-01-01", PageSize: 50}
	require.NoError(t, s.SavePreference("settlements", saved, 50))

	size, err = s.Preference("settlements", &out)
	require.NoError(t, err)
	assert.Equal(t, 50, size)
	assert.Equal(t, saved, out)

	// Domains do not leak into each other.
	var other models.RefundFilter
	size, err = s.Preference("refunds", &other)
	require.NoError(t, err)
	assert.Zero(t, size)
	assert.Empty(t, other.Status)

	// Saving again updates in place.
	require.NoError(t, s.SavePreference("settlements", models.BatchFilter{Status: models.BatchFailed}, 20))
	var updated models.BatchFilter
	size, err = s.Preference("settlements", &updated)
	require.NoError(t, err)
	assert.Equal(t, 20, size)
	assert.Equal(t, models.BatchFailed, updated.Status)
}
