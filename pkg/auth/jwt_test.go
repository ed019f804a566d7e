package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(accessExpiry time.Duration) TokenService {
	return NewJWTService(Config{
		Secret:        "unit-test-secret",
		RefreshSecret: "unit-test-refresh-secret",
		AccessExpiry:  accessExpiry,
		RefreshExpiry: time.Hour,
		VerifyExpiry:  time.Hour,
	})
}

func TestTokenPairRoundTrip(t *testing.T) {
	svc := newService(time.Hour)
	accountID := uuid.New()

	pair, err := svc.GenerateTokenPair(accountID, "ada@example.com", "patient")
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, accountID, claims.AccountID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "patient", claims.Role)

	claims, err = svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, accountID, claims.AccountID)
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	svc := newService(time.Hour)
	pair, err := svc.GenerateTokenPair(uuid.New(), "ada@example.com", "patient")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateVerificationToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerificationTokenRoundTrip(t *testing.T) {
	svc := newService(time.Hour)
	accountID := uuid.New()

	token, err := svc.GenerateVerificationToken(accountID)
	require.NoError(t, err)

	decoded, err := svc.ValidateVerificationToken(token)
	require.NoError(t, err)
	assert.Equal(t, accountID, decoded)
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := newService(-time.Minute)
	pair, err := svc.GenerateTokenPair(uuid.New(), "ada@example.com", "patient")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestWrongSecretRejected(t *testing.T) {
	issuer := newService(time.Hour)
	verifier := NewJWTService(Config{Secret: "different", RefreshSecret: "also-different"})

	pair, err := issuer.GenerateTokenPair(uuid.New(), "ada@example.com", "patient")
	require.NoError(t, err)

	_, err = verifier.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGarbageTokenRejected(t *testing.T) {
	svc := newService(time.Hour)
	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}
