package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medquizai/medquiz-backend/internal/config"
	"github.com/medquizai/medquiz-backend/internal/model"
	"github.com/medquizai/medquiz-backend/internal/store"
)

const testClientID = "device-1234"

func newTestAuthService(st store.Store) *AuthService {
	cfg := &config.Config{
		JWTSecret:       "test-secret",
		SessionDuration: 28 * 24 * time.Hour,
		AccessCodes:     []string{"medquiz2024", "anatomy101"},
	}
	return NewAuthService(cfg, st, zerolog.Nop())
}

func writeRecord(t *testing.T, st store.Store, clientID string, record model.AuthorizationRecord) {
	t.Helper()
	raw, err := json.Marshal(record)
	require.NoError(t, err)
	require.NoError(t, st.Set(context.Background(), config.StoreKey.AuthRecord(clientID), string(raw)))
}

func hasRecord(t *testing.T, st store.Store, clientID string) bool {
	t.Helper()
	_, ok, err := st.Get(context.Background(), config.StoreKey.AuthRecord(clientID))
	require.NoError(t, err)
	return ok
}

func TestUnlockNormalizesCode(t *testing.T) {
	cases := []struct {
		name string
		code string
		ok   bool
	}{
		{"canonical", "medquiz2024", true},
		{"upper case", "MEDQUIZ2024", true},
		{"surrounding whitespace", "  medquiz2024  ", true},
		{"mixed case and whitespace", "\tAnatomy101 ", true},
		{"unknown code", "letmein", false},
		{"empty", "", false},
		{"substring of valid code", "medquiz", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := store.NewMemoryStore()
			svc := newTestAuthService(st)

			result, err := svc.Unlock(context.Background(), testClientID, tc.code)
			if !tc.ok {
				assert.ErrorIs(t, err, ErrInvalidAccessCode)
				assert.False(t, hasRecord(t, st, testClientID), "failed unlock must not write a record")
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, result.Token)
			assert.True(t, hasRecord(t, st, testClientID))
		})
	}
}

func TestCheckSessionAfterUnlock(t *testing.T) {
	st := store.NewMemoryStore()
	svc := newTestAuthService(st)

	result, err := svc.Unlock(context.Background(), testClientID, "medquiz2024")
	require.NoError(t, err)

	session := svc.CheckSession(context.Background(), testClientID)
	assert.True(t, session.Authorized)
	assert.Equal(t, result.ExpiresAt, session.ExpiresAt)
}

func TestCheckSessionComputesExpiry(t *testing.T) {
	st := store.NewMemoryStore()
	svc := newTestAuthService(st)

	issuedAt := time.Now().Add(-time.Hour).UnixMilli()
	writeRecord(t, st, testClientID, model.AuthorizationRecord{
		Status:    model.AuthStatusGranted,
		Timestamp: issuedAt,
	})

	session := svc.CheckSession(context.Background(), testClientID)
	require.True(t, session.Authorized)
	assert.Equal(t, issuedAt+(28*24*time.Hour).Milliseconds(), session.ExpiresAt)
}

func TestCheckSessionPurgesExpiredRecord(t *testing.T) {
	st := store.NewMemoryStore()
	svc := newTestAuthService(st)

	writeRecord(t, st, testClientID, model.AuthorizationRecord{
		Status:    model.AuthStatusGranted,
		Timestamp: time.Now().Add(-29 * 24 * time.Hour).UnixMilli(),
	})

	session := svc.CheckSession(context.Background(), testClientID)
	assert.False(t, session.Authorized)
	assert.False(t, hasRecord(t, st, testClientID), "expired record must be purged")
}

func TestCheckSessionPurgesMalformedRecord(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", "garbage{{"},
		{"wrong status", `{"status":"pending","timestamp":1}`},
		{"empty object", `{}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := store.NewMemoryStore()
			svc := newTestAuthService(st)
			key := config.StoreKey.AuthRecord(testClientID)
			require.NoError(t, st.Set(context.Background(), key, tc.raw))

			session := svc.CheckSession(context.Background(), testClientID)
			assert.False(t, session.Authorized)
			assert.False(t, hasRecord(t, st, testClientID), "invalid record must be purged")
		})
	}
}

func TestCheckSessionWithoutRecord(t *testing.T) {
	st := store.NewMemoryStore()
	svc := newTestAuthService(st)

	session := svc.CheckSession(context.Background(), testClientID)
	assert.False(t, session.Authorized)
	assert.Zero(t, session.ExpiresAt)
}

func TestLogoutRemovesRecord(t *testing.T) {
	st := store.NewMemoryStore()
	svc := newTestAuthService(st)

	_, err := svc.Unlock(context.Background(), testClientID, "anatomy101")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), testClientID))
	assert.False(t, hasRecord(t, st, testClientID))

	// Logout with no record is still fine.
	assert.NoError(t, svc.Logout(context.Background(), testClientID))
}

func TestValidateTokenRoundTrip(t *testing.T) {
	st := store.NewMemoryStore()
	svc := newTestAuthService(st)

	result, err := svc.Unlock(context.Background(), testClientID, "medquiz2024")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, testClientID, claims.ClientID)

	_, err = svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
