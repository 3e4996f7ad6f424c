package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"

	"finance-api/internal/model"
	"finance-api/pkg/apierror"
)

const (
	msgTransactionNotFound = "Transaction not found"
	msgNotOwner            = "You can only access your own transactions"

	maxFrequencyDays = 100_000
)

type TransactionStore interface {
	Create(ctx context.Context, t model.Transaction) error
	FindByID(ctx context.Context, id string) (model.Transaction, error)
	Update(ctx context.Context, id string, patch model.TransactionPatch) (model.Transaction, error)
	Delete(ctx context.Context, id string) (model.Transaction, error)
	List(ctx context.Context, q model.TransactionQuery) ([]model.Transaction, error)
}

type UserLookup interface {
	FindByID(ctx context.Context, id string) (model.User, error)
}

// TransactionService manages transactions on behalf of an authenticated
// actor. Every method takes the actor's user id; a non-empty actor may only
// touch its own records.
type TransactionService struct {
	store TransactionStore
	users UserLookup
	log   *slog.Logger
	now   func() time.Time
}

func NewTransactionService(store TransactionStore, users UserLookup, logger *slog.Logger) *TransactionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransactionService{
		store: store,
		users: users,
		log:   logger.With("component", "transaction"),
		now:   time.Now,
	}
}

// Create records a transaction. An omitted userId defaults to the actor.
func (s *TransactionService) Create(ctx context.Context, actorID string, in model.TransactionRequest) (model.Transaction, error) {
	if blank(in.Title) || in.Amount == nil || blank(in.Description) || blank(in.Date) ||
		blank(in.Category) || blank(in.TransactionType) {
		s.log.WarnContext(ctx, "create transaction rejected: missing fields", "actor_id", actorID)
		return model.Transaction{}, apierror.Validation(CodeMissingFields, "Please fill all required fields")
	}

	kind, err := transactionType(*in.TransactionType)
	if err != nil {
		return model.Transaction{}, err
	}

	date, ok := parseDate(*in.Date)
	if !ok {
		return model.Transaction{}, invalidDate()
	}

	userID := actorID
	if in.UserID != nil && *in.UserID != "" {
		userID = *in.UserID
	}
	if err := s.authorize(ctx, actorID, userID); err != nil {
		return model.Transaction{}, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return model.Transaction{}, err
	}

	now := s.now().UTC()
	txn := model.Transaction{
		ID:              uuid.NewString(),
		Title:           *in.Title,
		Amount:          *in.Amount,
		Description:     *in.Description,
		Date:            date,
		Category:        *in.Category,
		TransactionType: kind,
		UserID:          userID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.store.Create(ctx, txn); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return model.Transaction{}, apierror.NotFound(msgUserNotFound)
		}
		s.log.ErrorContext(ctx, "create transaction failed", "user_id", userID, "error", err)
		return model.Transaction{}, apierror.Unknown(msgInternal, err)
	}

	s.log.InfoContext(ctx, "transaction created", "transaction_id", txn.ID, "user_id", userID)
	return txn, nil
}

// Update changes only the supplied fields.
func (s *TransactionService) Update(ctx context.Context, actorID string, id string, in model.TransactionRequest) (model.Transaction, error) {
	patch, err := buildPatch(in)
	if err != nil {
		return model.Transaction{}, err
	}
	if patch.Empty() {
		s.log.WarnContext(ctx, "update transaction rejected: no fields", "transaction_id", id)
		return model.Transaction{}, apierror.Validation(CodeMissingFields, "No fields provided to update")
	}

	if _, err := s.owned(ctx, actorID, id); err != nil {
		return model.Transaction{}, err
	}

	if patch.UserID != nil {
		if err := s.authorize(ctx, actorID, *patch.UserID); err != nil {
			return model.Transaction{}, err
		}
		if err := s.requireUser(ctx, *patch.UserID); err != nil {
			return model.Transaction{}, err
		}
	}

	txn, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return model.Transaction{}, s.storeError(ctx, "update transaction", id, err)
	}

	s.log.InfoContext(ctx, "transaction updated", "transaction_id", id)
	return txn, nil
}

func (s *TransactionService) Delete(ctx context.Context, actorID string, id string) (model.Transaction, error) {
	if _, err := s.owned(ctx, actorID, id); err != nil {
		return model.Transaction{}, err
	}

	txn, err := s.store.Delete(ctx, id)
	if err != nil {
		return model.Transaction{}, s.storeError(ctx, "delete transaction", id, err)
	}

	s.log.InfoContext(ctx, "transaction deleted", "transaction_id", id, "user_id", txn.UserID)
	return txn, nil
}

// Get returns the transaction together with its owner's name and email.
func (s *TransactionService) Get(ctx context.Context, actorID string, id string) (model.Transaction, error) {
	return s.owned(ctx, actorID, id)
}

// List filters a user's transactions and splits them by type, newest first.
func (s *TransactionService) List(ctx context.Context, actorID string, f model.TransactionFilterRequest) (model.TransactionList, error) {
	if f.UserID == "" {
		s.log.WarnContext(ctx, "list transactions rejected: missing user id")
		return model.TransactionList{}, apierror.Validation(CodeMissingFields, "User ID is required")
	}
	if err := s.authorize(ctx, actorID, f.UserID); err != nil {
		return model.TransactionList{}, err
	}
	if err := s.requireUser(ctx, f.UserID); err != nil {
		return model.TransactionList{}, err
	}

	q := model.TransactionQuery{UserID: f.UserID}

	if f.Type != "" && f.Type != "all" {
		kind, err := transactionType(f.Type)
		if err != nil {
			return model.TransactionList{}, err
		}
		q.Type = kind
	}

	if f.Frequency != "" && f.Frequency != "custom" {
		days, err := strconv.ParseFloat(string(f.Frequency), 64)
		if err != nil || days < 0 || math.IsNaN(days) || math.IsInf(days, 0) {
			s.log.WarnContext(ctx, "list transactions rejected: frequency", "frequency", f.Frequency, "user_id", f.UserID)
			return model.TransactionList{}, apierror.Validation("INVALID_FREQUENCY", "Invalid frequency value")
		}
		// Longer windows overflow time.Duration; they leave From open.
		if days <= maxFrequencyDays {
			q.From = s.now().Add(-time.Duration(days * float64(24*time.Hour)))
		}
	}

	if f.StartDate != "" && f.EndDate != "" {
		start, okStart := parseDate(f.StartDate)
		end, okEnd := parseDate(f.EndDate)
		if !okStart || !okEnd {
			return model.TransactionList{}, invalidDate()
		}
		q.From, q.To = startOfDay(start), endOfDay(end)
		if q.From.After(q.To) {
			s.log.WarnContext(ctx, "list transactions rejected: inverted range", "user_id", f.UserID,
				"start_date", f.StartDate, "end_date", f.EndDate)
			return model.TransactionList{}, apierror.Validation("INVALID_DATE_RANGE", "Start date must be earlier than end date")
		}
	}

	txns, err := s.store.List(ctx, q)
	if err != nil {
		s.log.ErrorContext(ctx, "list transactions failed", "user_id", f.UserID, "error", err)
		return model.TransactionList{}, apierror.Unknown(msgInternal, err)
	}

	return splitByType(txns), nil
}

func (s *TransactionService) owned(ctx context.Context, actorID string, id string) (model.Transaction, error) {
	txn, err := s.store.FindByID(ctx, id)
	if err != nil {
		return model.Transaction{}, s.storeError(ctx, "find transaction", id, err)
	}
	if err := s.authorize(ctx, actorID, txn.UserID); err != nil {
		return model.Transaction{}, err
	}
	return txn, nil
}

func (s *TransactionService) authorize(ctx context.Context, actorID string, ownerID string) error {
	if actorID != "" && actorID != ownerID {
		s.log.WarnContext(ctx, "transaction access denied", "actor_id", actorID, "owner_id", ownerID)
		return apierror.Forbidden(msgNotOwner)
	}
	return nil
}

func (s *TransactionService) requireUser(ctx context.Context, userID string) error {
	_, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, model.ErrUserNotFound) {
		s.log.ErrorContext(ctx, "transaction owner not found", "user_id", userID)
		return apierror.NotFound(msgUserNotFound)
	}
	if err != nil {
		s.log.ErrorContext(ctx, "transaction owner lookup failed", "user_id", userID, "error", err)
		return apierror.Unknown(msgInternal, err)
	}
	return nil
}

func (s *TransactionService) storeError(ctx context.Context, op string, id string, err error) error {
	switch {
	case errors.Is(err, model.ErrTransactionNotFound):
		s.log.WarnContext(ctx, op+": not found", "transaction_id", id)
		return apierror.NotFound(msgTransactionNotFound)
	case errors.Is(err, model.ErrUserNotFound):
		return apierror.NotFound(msgUserNotFound)
	}
	s.log.ErrorContext(ctx, op+" failed", "transaction_id", id, "error", err)
	return apierror.Unknown(msgInternal, err)
}

func buildPatch(in model.TransactionRequest) (model.TransactionPatch, error) {
	patch := model.TransactionPatch{
		Title:       in.Title,
		Amount:      in.Amount,
		Description: in.Description,
		Category:    in.Category,
		UserID:      in.UserID,
	}

	if in.TransactionType != nil {
		kind, err := transactionType(*in.TransactionType)
		if err != nil {
			return model.TransactionPatch{}, err
		}
		patch.TransactionType = &kind
	}

	if in.Date != nil {
		date, ok := parseDate(*in.Date)
		if !ok {
			return model.TransactionPatch{}, invalidDate()
		}
		patch.Date = &date
	}

	return patch, nil
}

func splitByType(txns []model.Transaction) model.TransactionList {
	if txns == nil {
		txns = make([]model.Transaction, 0)
	}
	list := model.TransactionList{
		Transactions: txns,
		Expenses:     make([]model.Transaction, 0),
		Income:       make([]model.Transaction, 0),
	}
	for _, t := range txns {
		switch t.TransactionType {
		case model.TransactionExpense:
			list.Expenses = append(list.Expenses, t)
		case model.TransactionIncome:
			list.Income = append(list.Income, t)
		}
	}
	return list
}

func transactionType(raw string) (model.TransactionType, error) {
	kind := model.TransactionType(raw)
	if !kind.Valid() {
		return "", apierror.Validation("INVALID_TRANSACTION_TYPE", "Transaction type must be income or expense")
	}
	return kind, nil
}

func invalidDate() error {
	return apierror.Validation("INVALID_DATE", "Dates must be YYYY-MM-DD or RFC 3339")
}

func blank(v *string) bool {
	return v == nil || *v == ""
}
