package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance-api/internal/model"
)

const testTransactionID = "3d9b3a2e-6f0c-4b1e-a1f5-2c7e9d8b4f61"

var transactionRowColumns = []string{
	"id", "title", "amount", "description", "date", "category", "transaction_type", "user_id", "created_at", "updated_at",
}

func TestTransactionRepository_Create(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	txn := model.Transaction{
		ID: testTransactionID, Title: "Salary", Amount: 2500.5, Description: "February", Date: now,
		Category: "work", TransactionType: model.TransactionIncome, UserID: testUserID, CreatedAt: now, UpdatedAt: now,
	}

	t.Run("inserted", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`INSERT INTO transactions`).
			WithArgs(testTransactionID, "Salary", 2500.5, "February", now, "work", "income", testUserID, now, now).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, NewTransactionRepository(mock).Create(context.Background(), txn))
	})

	t.Run("owner vanished", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`INSERT INTO transactions`).
			WithArgs(testTransactionID, "Salary", 2500.5, "February", now, "work", "income", testUserID, now, now).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation})

		err := NewTransactionRepository(mock).Create(context.Background(), txn)
		require.ErrorIs(t, err, model.ErrUserNotFound)
	})
}

func TestTransactionRepository_FindByIDPopulatesOwner(t *testing.T) {
	mock := newMockPool(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`JOIN users u ON u.id = t.user_id`).
		WithArgs(testTransactionID).
		WillReturnRows(pgxmock.NewRows(append(append([]string{}, transactionRowColumns...), "uid", "name", "email")).
			AddRow(testTransactionID, "Rent", 900.0, "March rent", now, "housing", "expense", testUserID, now, now,
				testUserID, "Ann", "a@x.com"))

	txn, err := NewTransactionRepository(mock).FindByID(context.Background(), testTransactionID)
	require.NoError(t, err)
	assert.Equal(t, model.TransactionExpense, txn.TransactionType)
	require.NotNil(t, txn.User)
	assert.Equal(t, "Ann", txn.User.Name)
	assert.Equal(t, "a@x.com", txn.User.Email)
}

func TestTransactionRepository_FindByIDMissing(t *testing.T) {
	mock := newMockPool(t)
	repo := NewTransactionRepository(mock)

	_, err := repo.FindByID(context.Background(), "bogus")
	require.ErrorIs(t, err, model.ErrTransactionNotFound)

	mock.ExpectQuery(`FROM transactions t`).
		WithArgs(testTransactionID).
		WillReturnRows(pgxmock.NewRows(transactionRowColumns))

	_, err = repo.FindByID(context.Background(), testTransactionID)
	require.ErrorIs(t, err, model.ErrTransactionNotFound)
}

func TestTransactionRepository_UpdateOnlyProvidedFields(t *testing.T) {
	mock := newMockPool(t)
	now := time.Now().UTC()
	title := "Groceries"
	amount := 42.0

	mock.ExpectQuery(`UPDATE transactions SET title = \$2, amount = \$3, updated_at = \$4 WHERE id = \$1 RETURNING`).
		WithArgs(testTransactionID, "Groceries", 42.0, pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(transactionRowColumns).
			AddRow(testTransactionID, "Groceries", 42.0, "weekly", now, "food", "expense", testUserID, now, now))

	txn, err := NewTransactionRepository(mock).Update(context.Background(), testTransactionID, model.TransactionPatch{
		Title:  &title,
		Amount: &amount,
	})
	require.NoError(t, err)
	assert.Equal(t, "Groceries", txn.Title)
	assert.Equal(t, 42.0, txn.Amount)
}

func TestTransactionRepository_UpdateMissing(t *testing.T) {
	mock := newMockPool(t)
	category := "misc"

	mock.ExpectQuery(`UPDATE transactions SET category = \$2`).
		WithArgs(testTransactionID, "misc", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(transactionRowColumns))

	_, err := NewTransactionRepository(mock).Update(context.Background(), testTransactionID, model.TransactionPatch{Category: &category})
	require.ErrorIs(t, err, model.ErrTransactionNotFound)
}

func TestTransactionRepository_ListBuildsFilter(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)

	tests := []struct {
		name    string
		query   model.TransactionQuery
		pattern string
		args    []any
	}{
		{
			name:    "user only",
			query:   model.TransactionQuery{UserID: testUserID},
			pattern: `WHERE user_id = \$1 ORDER BY date DESC`,
			args:    []any{testUserID},
		},
		{
			name:    "type and range",
			query:   model.TransactionQuery{UserID: testUserID, Type: model.TransactionExpense, From: from, To: to},
			pattern: `WHERE user_id = \$1 AND transaction_type = \$2 AND date >= \$3 AND date <= \$4 ORDER BY date DESC`,
			args:    []any{testUserID, "expense", from, to},
		},
		{
			name:    "lower bound only",
			query:   model.TransactionQuery{UserID: testUserID, From: from},
			pattern: `WHERE user_id = \$1 AND date >= \$2 ORDER BY date DESC`,
			args:    []any{testUserID, from},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockPool(t)
			now := time.Now().UTC()
			mock.ExpectQuery(tt.pattern).
				WithArgs(tt.args...).
				WillReturnRows(pgxmock.NewRows(transactionRowColumns).
					AddRow(testTransactionID, "Rent", 900.0, "rent", now, "housing", "expense", testUserID, now, now))

			list, err := NewTransactionRepository(mock).List(context.Background(), tt.query)
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, model.TransactionExpense, list[0].TransactionType)
		})
	}
}

func TestTransactionRepository_Delete(t *testing.T) {
	mock := newMockPool(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`DELETE FROM transactions WHERE id = \$1 RETURNING`).
		WithArgs(testTransactionID).
		WillReturnRows(pgxmock.NewRows(transactionRowColumns).
			AddRow(testTransactionID, "Rent", 900.0, "rent", now, "housing", "expense", testUserID, now, now))

	txn, err := NewTransactionRepository(mock).Delete(context.Background(), testTransactionID)
	require.NoError(t, err)
	assert.Equal(t, testTransactionID, txn.ID)
}
