package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func TestTokenService_IssueAndVerify(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewTokenService("fixture-secret", WithClock(clock.Now))

	token, err := svc.Issue("user-123")
	require.NoError(t, err)

	identity, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", identity.SubjectID)
	assert.Equal(t, clock.now.Add(TokenTTL).Unix(), identity.ExpiresAt.Unix())
}

func TestTokenService_ClaimsShape(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewTokenService("fixture-secret", WithClock(clock.Now))

	token, err := svc.Issue("user-123")
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)

	assert.Equal(t, TokenIssuer, claims.Issuer)
	assert.Equal(t, jwt.ClaimStrings{"user-123"}, claims.Audience)
	assert.Empty(t, claims.Subject)
	assert.LessOrEqual(t, claims.ExpiresAt.Sub(claims.IssuedAt.Time), TokenTTL)
}

func TestTokenService_NotConfigured(t *testing.T) {
	svc := NewTokenService("")

	assert.False(t, svc.Configured())

	_, err := svc.Issue("user-123")
	require.ErrorIs(t, err, ErrTokenNotConfigured)
}

func TestTokenService_Expired(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewTokenService("fixture-secret", WithClock(clock.Now))

	token, err := svc.Issue("user-123")
	require.NoError(t, err)

	clock.now = clock.now.Add(TokenTTL + time.Second)

	_, err = svc.Verify(token)
	require.ErrorIs(t, err, ErrTokenExpired)
	assert.NotErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_StillValidJustBeforeExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewTokenService("fixture-secret", WithClock(clock.Now))

	token, err := svc.Issue("user-123")
	require.NoError(t, err)

	clock.now = clock.now.Add(TokenTTL - time.Second)

	_, err = svc.Verify(token)
	require.NoError(t, err)
}

func TestTokenService_Invalid(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewTokenService("fixture-secret", WithClock(clock.Now))
	other := NewTokenService("another-secret", WithClock(clock.Now))

	forged, err := other.Issue("user-123")
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer:    TokenIssuer,
		Audience:  jwt.ClaimStrings{"user-123"},
		ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Minute)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	wrongIssuer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "someone-else",
		Audience:  jwt.ClaimStrings{"user-123"},
		ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Minute)),
	}).SignedString([]byte("fixture-secret"))
	require.NoError(t, err)

	noAudience, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    TokenIssuer,
		ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Minute)),
	}).SignedString([]byte("fixture-secret"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:   TokenIssuer,
		Audience: jwt.ClaimStrings{"user-123"},
	}).SignedString([]byte("fixture-secret"))
	require.NoError(t, err)

	cases := map[string]string{
		"garbage":       "not-a-token",
		"empty":         "",
		"bad signature": forged,
		"alg none":      noneToken,
		"wrong issuer":  wrongIssuer,
		"no audience":   noAudience,
		"no expiry":     noExpiry,
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Verify(token)
			require.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}

func TestTokenService_ExpiredForgeryIsInvalid(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewTokenService("fixture-secret", WithClock(clock.Now))
	other := NewTokenService("another-secret", WithClock(clock.Now))

	forged, err := other.Issue("user-123")
	require.NoError(t, err)

	clock.now = clock.now.Add(2 * TokenTTL)

	_, err = svc.Verify(forged)
	require.ErrorIs(t, err, ErrTokenInvalid)
}
