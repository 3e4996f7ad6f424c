package model

import "time"

type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

type Transaction struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Amount          float64         `json:"amount"`
	Description     string          `json:"description"`
	Date            time.Time       `json:"date"`
	Category        string          `json:"category"`
	TransactionType TransactionType `json:"transactionType"`
	UserID          string          `json:"userId"`
	User            *UserSummary    `json:"user,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// TransactionPatch carries only the fields a caller supplied.
type TransactionPatch struct {
	Title           *string
	Amount          *float64
	Description     *string
	Date            *time.Time
	Category        *string
	TransactionType *TransactionType
	UserID          *string
}

func (p TransactionPatch) Empty() bool {
	return p.Title == nil && p.Amount == nil && p.Description == nil && p.Date == nil &&
		p.Category == nil && p.TransactionType == nil && p.UserID == nil
}

// TransactionQuery is the store-level filter. Zero values mean "no bound".
type TransactionQuery struct {
	UserID string
	Type   TransactionType
	From   time.Time
	To     time.Time
}

type TransactionList struct {
	Transactions []Transaction `json:"transactions"`
	Expenses     []Transaction `json:"expenses"`
	Income       []Transaction `json:"income"`
}
