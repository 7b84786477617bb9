package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testConfig = Config{Secret: "test-secret", Issuer: "gym-manager-test"}

func TestSignParseRoundTrip(t *testing.T) {
	claims := Claims{
		Subject:   "user-1",
		TenantID:  "tenant-1",
		GymID:     "gym-1",
		Role:      "coach",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	token, err := Sign(claims, testConfig)
	require.NoError(t, err)

	parsed, err := Parse(token, testConfig)
	require.NoError(t, err)
	require.Equal(t, "user-1", parsed.Subject)
	require.Equal(t, "tenant-1", parsed.TenantID)
	require.Equal(t, "gym-1", parsed.GymID)
	require.Equal(t, "coach", parsed.Role)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := Sign(Claims{
		Subject:   "user-1",
		TenantID:  "tenant-1",
		Role:      "client",
		ExpiresAt: time.Now().Add(time.Hour),
	}, testConfig)
	require.NoError(t, err)

	_, err = Parse(token, Config{Secret: "other-secret", Issuer: testConfig.Issuer})
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	token, err := Sign(Claims{
		Subject:   "user-1",
		TenantID:  "tenant-1",
		Role:      "client",
		ExpiresAt: time.Now().Add(-time.Minute),
	}, testConfig)
	require.NoError(t, err)

	_, err = Parse(token, testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsEmptyToken(t *testing.T) {
	_, err := Parse("  ", testConfig)
	require.ErrorIs(t, err, ErrMissingToken)
}

func TestHasRole(t *testing.T) {
	claims := &Claims{Role: "gym_owner"}
	require.True(t, claims.HasRole("admin", "gym_owner"))
	require.False(t, claims.HasRole("client"))

	var nilClaims *Claims
	require.False(t, nilClaims.HasRole("admin"))
}
