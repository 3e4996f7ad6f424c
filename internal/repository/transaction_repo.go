package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"finance-api/internal/model"
)

const transactionColumns = `id, title, amount, description, date, category, transaction_type, user_id, created_at, updated_at`

type TransactionRepository struct {
	pool Pool
}

func NewTransactionRepository(pool Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

func (r *TransactionRepository) Create(ctx context.Context, t model.Transaction) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO transactions
		 (id, title, amount, description, date, category, transaction_type, user_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.Title, t.Amount, t.Description, t.Date, t.Category, string(t.TransactionType),
		t.UserID, t.CreatedAt, t.UpdatedAt)
	if isForeignKeyViolation(err) {
		return model.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

// FindByID also loads the owner's name and email.
func (r *TransactionRepository) FindByID(ctx context.Context, id string) (model.Transaction, error) {
	if !validID(id) {
		return model.Transaction{}, model.ErrTransactionNotFound
	}

	var t model.Transaction
	var txType string
	owner := &model.UserSummary{}
	err := r.pool.QueryRow(ctx,
		`SELECT t.id, t.title, t.amount, t.description, t.date, t.category, t.transaction_type,
		        t.user_id, t.created_at, t.updated_at, u.id, u.name, u.email
		 FROM transactions t
		 JOIN users u ON u.id = t.user_id
		 WHERE t.id = $1`, id).
		Scan(&t.ID, &t.Title, &t.Amount, &t.Description, &t.Date, &t.Category, &txType,
			&t.UserID, &t.CreatedAt, &t.UpdatedAt, &owner.ID, &owner.Name, &owner.Email)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Transaction{}, model.ErrTransactionNotFound
	}
	if err != nil {
		return model.Transaction{}, fmt.Errorf("find transaction by id: %w", err)
	}

	t.TransactionType = model.TransactionType(txType)
	t.User = owner
	return t, nil
}

func (r *TransactionRepository) Update(ctx context.Context, id string, patch model.TransactionPatch) (model.Transaction, error) {
	if !validID(id) {
		return model.Transaction{}, model.ErrTransactionNotFound
	}

	sets := make([]string, 0, 8)
	args := []any{id}
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Amount != nil {
		set("amount", *patch.Amount)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Date != nil {
		set("date", *patch.Date)
	}
	if patch.Category != nil {
		set("category", *patch.Category)
	}
	if patch.TransactionType != nil {
		set("transaction_type", string(*patch.TransactionType))
	}
	if patch.UserID != nil {
		set("user_id", *patch.UserID)
	}
	set("updated_at", time.Now().UTC())

	row := r.pool.QueryRow(ctx,
		`UPDATE transactions SET `+strings.Join(sets, ", ")+` WHERE id = $1 RETURNING `+transactionColumns,
		args...)

	t, err := scanTransaction(row)
	if isForeignKeyViolation(err) {
		return model.Transaction{}, model.ErrUserNotFound
	}
	if err != nil && !errors.Is(err, model.ErrTransactionNotFound) {
		return model.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	return t, err
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) (model.Transaction, error) {
	if !validID(id) {
		return model.Transaction{}, model.ErrTransactionNotFound
	}

	row := r.pool.QueryRow(ctx, `DELETE FROM transactions WHERE id = $1 RETURNING `+transactionColumns, id)
	t, err := scanTransaction(row)
	if err != nil && !errors.Is(err, model.ErrTransactionNotFound) {
		return model.Transaction{}, fmt.Errorf("delete transaction: %w", err)
	}
	return t, err
}

// List returns the user's transactions newest first, bounded by the query.
func (r *TransactionRepository) List(ctx context.Context, q model.TransactionQuery) ([]model.Transaction, error) {
	where := []string{"user_id = $1"}
	args := []any{q.UserID}
	add := func(clause string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if q.Type != "" {
		add("transaction_type = $%d", string(q.Type))
	}
	if !q.From.IsZero() {
		add("date >= $%d", q.From)
	}
	if !q.To.IsZero() {
		add("date <= $%d", q.To)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE `+strings.Join(where, " AND ")+` ORDER BY date DESC`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	out := make([]model.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTransaction(row pgx.Row) (model.Transaction, error) {
	var t model.Transaction
	var txType string
	err := row.Scan(&t.ID, &t.Title, &t.Amount, &t.Description, &t.Date, &t.Category, &txType,
		&t.UserID, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Transaction{}, model.ErrTransactionNotFound
	}
	if err != nil {
		return model.Transaction{}, err
	}
	t.TransactionType = model.TransactionType(txType)
	return t, nil
}
