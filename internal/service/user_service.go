package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"finance-api/internal/model"
	"finance-api/pkg/apierror"
)

type UserStore interface {
	Create(ctx context.Context, u model.User) error
	FindByID(ctx context.Context, id string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, id string, update model.UserUpdate) (model.User, error)
	Delete(ctx context.Context, id string) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	ListCreatedSince(ctx context.Context, since time.Time) ([]model.User, error)
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type UserService struct {
	store  UserStore
	tokens TokenIssuer
	hasher PasswordHasher
	log    *slog.Logger
	now    func() time.Time
}

func NewUserService(store UserStore, tokens TokenIssuer, hasher PasswordHasher, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		store:  store,
		tokens: tokens,
		hasher: hasher,
		log:    logger.With("component", "user"),
		now:    time.Now,
	}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (LoginResult, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		s.log.WarnContext(ctx, "register rejected: missing fields")
		return LoginResult{}, apierror.Validation(CodeMissingFields, "Name, email and password are required")
	}

	exists, err := s.store.ExistsByEmail(ctx, in.Email)
	if err != nil {
		s.log.ErrorContext(ctx, "register: email lookup failed", "email", in.Email, "error", err)
		return LoginResult{}, apierror.Unknown(msgInternal, err)
	}
	if exists {
		s.log.WarnContext(ctx, "register rejected: email taken", "email", in.Email)
		return LoginResult{}, apierror.Conflict("User already exists")
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return LoginResult{}, hashFailure(ctx, s.log, "", err)
	}

	now := s.now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: digest,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			s.log.WarnContext(ctx, "register rejected: email taken", "email", in.Email)
			return LoginResult{}, apierror.Conflict("User already exists")
		}
		s.log.ErrorContext(ctx, "register: create failed", "email", in.Email, "error", err)
		return LoginResult{}, apierror.Unknown(msgInternal, err)
	}
	user.PasswordHash = ""

	token, err := issueToken(ctx, s.log, s.tokens, user.ID, "Token generation failed")
	if err != nil {
		return LoginResult{}, err
	}

	s.log.InfoContext(ctx, "user registered", "user_id", user.ID)
	return LoginResult{User: user, Token: token}, nil
}

func (s *UserService) Get(ctx context.Context, id string) (model.User, error) {
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		return model.User{}, s.lookupError(ctx, "get user", id, err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "list users failed", "error", err)
		return nil, apierror.Unknown(msgInternal, err)
	}
	if len(users) == 0 {
		return nil, apierror.NotFound("No users found")
	}
	return users, nil
}

// Update applies profile changes. Credential fields are refused by key, so
// {"password": ""} is rejected the same as a non-empty value.
func (s *UserService) Update(ctx context.Context, id string, fields model.UpdateUserRequest) (model.User, error) {
	if _, ok := fields["password"]; ok {
		s.log.WarnContext(ctx, "update rejected: password field", "user_id", id)
		return model.User{}, apierror.Validation("", "Password cannot be updated via this route")
	}
	if _, ok := fields["email"]; ok {
		s.log.WarnContext(ctx, "update rejected: email field", "user_id", id)
		return model.User{}, apierror.Validation("", "Email cannot be updated via this route")
	}

	var update model.UserUpdate
	if raw, ok := fields["name"]; ok {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil || name == "" {
			return model.User{}, apierror.Validation("INVALID_FIELD", "Name must be a non-empty string")
		}
		update.Name = &name
	}

	if update.Empty() {
		return model.User{}, apierror.Validation(CodeMissingFields, "No fields provided to update")
	}

	user, err := s.store.UpdateProfile(ctx, id, update)
	if err != nil {
		return model.User{}, s.lookupError(ctx, "update user", id, err)
	}

	s.log.InfoContext(ctx, "user updated", "user_id", id)
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id string) (model.User, error) {
	user, err := s.store.Delete(ctx, id)
	if err != nil {
		return model.User{}, s.lookupError(ctx, "delete user", id, err)
	}

	s.log.InfoContext(ctx, "user deleted", "user_id", id)
	return user, nil
}

// ListByPeriod returns users created since the start of the current day,
// week, month or year.
func (s *UserService) ListByPeriod(ctx context.Context, filter string) ([]model.User, error) {
	since, ok := periodStart(filter, s.now())
	if !ok {
		s.log.WarnContext(ctx, "list by period rejected", "filter", filter)
		return nil, apierror.Validation("INVALID_FILTER", "Invalid filter parameter")
	}

	users, err := s.store.ListCreatedSince(ctx, since)
	if err != nil {
		s.log.ErrorContext(ctx, "list by period failed", "filter", filter, "error", err)
		return nil, apierror.Unknown(msgInternal, err)
	}

	s.log.InfoContext(ctx, "list by period", "filter", filter, "count", len(users))
	return users, nil
}

func (s *UserService) lookupError(ctx context.Context, op string, id string, err error) error {
	if errors.Is(err, model.ErrUserNotFound) {
		s.log.WarnContext(ctx, op+": not found", "user_id", id)
		return apierror.NotFound(msgUserNotFound)
	}
	s.log.ErrorContext(ctx, op+" failed", "user_id", id, "error", err)
	return apierror.Unknown(msgInternal, err)
}
