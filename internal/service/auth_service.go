package service

import (
	"context"
	"errors"
	"log/slog"

	"finance-api/internal/auth"
	"finance-api/internal/model"
	"finance-api/pkg/apierror"
)

const (
	msgInternal          = "Something went wrong, please try again"
	msgServerConfig      = "Server configuration error"
	msgInvalidLogin      = "Invalid email or password"
	msgUserNotFound      = "User not found"
	msgInvalidToken      = "Invalid or expired token"
	msgTokenUserMismatch = "Invalid token for this user"

	CodeMissingFields     = "MISSING_FIELDS"
	CodePasswordMismatch  = "PASSWORD_MISMATCH"
	CodePasswordTooLong   = "PASSWORD_TOO_LONG"
	CodeInvalidLogin      = "INVALID_CREDENTIALS"
	CodeInvalidToken      = "INVALID_TOKEN"
	CodeTokenUserMismatch = "TOKEN_USER_MISMATCH"
)

// CredentialStore is the part of the user store the auth flows need. Only
// the Credentials lookups return the password hash.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindCredentialsByEmail(ctx context.Context, email string) (model.User, error)
	FindCredentialsByID(ctx context.Context, id string) (model.User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
}

type TokenIssuer interface {
	Configured() bool
	Issue(subjectID string) (string, error)
}

type TokenVerifier interface {
	Verify(token string) (model.Identity, error)
}

type Tokens interface {
	TokenIssuer
	TokenVerifier
}

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext string, digest string) bool
}

type LoginResult struct {
	User  model.User
	Token string
}

type ResetPasswordInput struct {
	UserID          string
	Token           string
	Password        string
	ConfirmPassword string
}

// AuthService runs the login, forgot-password and reset-password flows. It
// keeps no state between calls.
type AuthService struct {
	store        CredentialStore
	tokens       Tokens
	hasher       PasswordHasher
	resetBaseURL string
	log          *slog.Logger
}

func NewAuthService(store CredentialStore, tokens Tokens, hasher PasswordHasher, resetBaseURL string, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		store:        store,
		tokens:       tokens,
		hasher:       hasher,
		resetBaseURL: resetBaseURL,
		log:          logger.With("component", "auth"),
	}
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (LoginResult, error) {
	if email == "" || password == "" {
		s.log.WarnContext(ctx, "login rejected: missing credentials")
		return LoginResult{}, apierror.Validation(CodeMissingFields, "Email and password are required")
	}

	user, err := s.store.FindCredentialsByEmail(ctx, email)
	if errors.Is(err, model.ErrUserNotFound) {
		s.log.ErrorContext(ctx, "login failed: unknown email", "email", email)
		return LoginResult{}, apierror.Auth(CodeInvalidLogin, msgInvalidLogin)
	}
	if err != nil {
		s.log.ErrorContext(ctx, "login failed: credential lookup", "email", email, "error", err)
		return LoginResult{}, apierror.Unknown(msgInternal, err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.log.ErrorContext(ctx, "login failed: password mismatch", "email", email, "user_id", user.ID)
		return LoginResult{}, apierror.Auth(CodeInvalidLogin, msgInvalidLogin)
	}

	token, err := s.issue(ctx, user.ID)
	if err != nil {
		return LoginResult{}, err
	}

	user.PasswordHash = ""
	s.log.InfoContext(ctx, "login succeeded", "user_id", user.ID)
	return LoginResult{User: user, Token: token}, nil
}

// ForgotPassword returns a reset link for the account. Unlike Login it
// reports unknown emails.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if errors.Is(err, model.ErrUserNotFound) {
		s.log.ErrorContext(ctx, "forgot password: user not found", "email", email)
		return "", apierror.NotFound("User not found with this email " + email)
	}
	if err != nil {
		s.log.ErrorContext(ctx, "forgot password: lookup failed", "email", email, "error", err)
		return "", apierror.Unknown(msgInternal, err)
	}

	token, err := s.issue(ctx, user.ID)
	if err != nil {
		return "", err
	}

	if s.resetBaseURL == "" {
		s.log.ErrorContext(ctx, "forgot password: reset url is not configured")
		return "", apierror.Config(msgServerConfig, nil)
	}

	s.log.InfoContext(ctx, "forgot password link issued", "user_id", user.ID)
	return s.resetBaseURL + "/" + user.ID + "/" + token, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	if in.UserID == "" || in.Token == "" {
		s.log.WarnContext(ctx, "reset password rejected: missing id or token")
		return apierror.Validation(CodeMissingFields, "User ID and token are required")
	}

	if in.Password == "" || in.ConfirmPassword == "" {
		s.log.WarnContext(ctx, "reset password rejected: missing password", "user_id", in.UserID)
		return apierror.Validation(CodeMissingFields, "Password and confirm password are required")
	}

	if in.Password != in.ConfirmPassword {
		s.log.WarnContext(ctx, "reset password rejected: passwords differ", "user_id", in.UserID)
		return apierror.Validation(CodePasswordMismatch, "Passwords do not match")
	}

	if _, err := s.store.FindCredentialsByID(ctx, in.UserID); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			s.log.ErrorContext(ctx, "reset password: user not found", "user_id", in.UserID)
			return apierror.NotFound(msgUserNotFound)
		}
		s.log.ErrorContext(ctx, "reset password: lookup failed", "user_id", in.UserID, "error", err)
		return apierror.Unknown(msgInternal, err)
	}

	identity, err := s.tokens.Verify(in.Token)
	switch {
	case errors.Is(err, auth.ErrTokenNotConfigured):
		s.log.ErrorContext(ctx, "reset password: token secret is not configured")
		return apierror.Config(msgServerConfig, err)
	case err != nil:
		s.log.ErrorContext(ctx, "reset password: token rejected", "user_id", in.UserID, "expired", errors.Is(err, auth.ErrTokenExpired))
		return apierror.Wrap(apierror.KindAuth, CodeInvalidToken, msgInvalidToken, err)
	}

	if identity.SubjectID != in.UserID {
		s.log.ErrorContext(ctx, "reset password: token issued for another user", "user_id", in.UserID)
		return apierror.Auth(CodeTokenUserMismatch, msgTokenUserMismatch)
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return s.hashError(ctx, in.UserID, err)
	}

	if err := s.store.UpdatePassword(ctx, in.UserID, digest); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			s.log.ErrorContext(ctx, "reset password: user removed before update", "user_id", in.UserID)
			return apierror.NotFound(msgUserNotFound)
		}
		s.log.ErrorContext(ctx, "reset password: update failed", "user_id", in.UserID, "error", err)
		return apierror.Unknown(msgInternal, err)
	}

	s.log.InfoContext(ctx, "password reset", "user_id", in.UserID)
	return nil
}

func (s *AuthService) issue(ctx context.Context, userID string) (string, error) {
	return issueToken(ctx, s.log, s.tokens, userID, msgServerConfig)
}

func (s *AuthService) hashError(ctx context.Context, userID string, err error) error {
	return hashFailure(ctx, s.log, userID, err)
}

// issueToken maps token issuance failures onto the error taxonomy. A missing
// secret is a configuration error reported with configMessage.
func issueToken(ctx context.Context, log *slog.Logger, tokens TokenIssuer, userID string, configMessage string) (string, error) {
	if !tokens.Configured() {
		log.ErrorContext(ctx, "token secret is not configured", "user_id", userID)
		return "", apierror.Config(configMessage, auth.ErrTokenNotConfigured)
	}

	token, err := tokens.Issue(userID)
	if errors.Is(err, auth.ErrTokenNotConfigured) {
		log.ErrorContext(ctx, "token secret is not configured", "user_id", userID)
		return "", apierror.Config(configMessage, err)
	}
	if err != nil {
		log.ErrorContext(ctx, "token issuance failed", "user_id", userID, "error", err)
		return "", apierror.Unknown(msgInternal, err)
	}
	return token, nil
}

func hashFailure(ctx context.Context, log *slog.Logger, userID string, err error) error {
	if errors.Is(err, auth.ErrPasswordTooLong) {
		log.WarnContext(ctx, "password rejected: too long", "user_id", userID)
		return apierror.Validation(CodePasswordTooLong, "Password is too long")
	}
	log.ErrorContext(ctx, "password hashing failed", "user_id", userID, "error", err)
	return apierror.Unknown(msgInternal, err)
}
