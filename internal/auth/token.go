package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"finance-api/internal/model"
)

const (
	TokenIssuer = "Admin"
	TokenTTL    = 59 * time.Minute
)

var (
	ErrTokenNotConfigured = errors.New("token signing secret is not configured")
	ErrTokenInvalid       = errors.New("token is invalid")
	ErrTokenExpired       = errors.New("token is expired")
)

type TokenOption func(*TokenService)

// WithClock replaces time.Now for issuance and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		if now != nil {
			s.now = now
		}
	}
}

// TokenService issues and verifies HS256 identity tokens whose audience is
// the subject's user id.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

func NewTokenService(secret string, opts ...TokenOption) *TokenService {
	s := &TokenService{secret: []byte(secret), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TokenService) Configured() bool {
	return s != nil && len(s.secret) > 0
}

func (s *TokenService) Issue(subjectID string) (string, error) {
	if !s.Configured() {
		return "", ErrTokenNotConfigured
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Issuer:    TokenIssuer,
		Audience:  jwt.ClaimStrings{subjectID},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Verify checks the signature first and the registered claims second, so an
// expired token is only reported as ErrTokenExpired when it is genuine.
func (s *TokenService) Verify(tokenString string) (model.Identity, error) {
	if !s.Configured() {
		return model.Identity{}, ErrTokenNotConfigured
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	claims := &jwt.RegisteredClaims{}
	if _, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}); err != nil {
		return model.Identity{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	validator := jwt.NewValidator(
		jwt.WithIssuer(TokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err := validator.Validate(claims); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.Identity{}, ErrTokenExpired
		}
		return model.Identity{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if len(claims.Audience) != 1 || claims.Audience[0] == "" {
		return model.Identity{}, fmt.Errorf("%w: audience must name exactly one subject", ErrTokenInvalid)
	}

	return model.Identity{
		SubjectID: claims.Audience[0],
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
