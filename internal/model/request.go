package model

import (
	"encoding/json"
	"errors"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest is decoded as raw fields so forbidden keys can be
// detected even when their value is empty.
type UpdateUserRequest map[string]json.RawMessage

type TransactionRequest struct {
	Title           *string  `json:"title"`
	Amount          *float64 `json:"amount"`
	Description     *string  `json:"description"`
	Date            *string  `json:"date"`
	Category        *string  `json:"category"`
	TransactionType *string  `json:"transactionType"`
	UserID          *string  `json:"userId"`
}

type TransactionFilterRequest struct {
	UserID    string `json:"userId"`
	Type      string `json:"type"`
	Frequency Frequency `json:"frequency"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

var errFrequencyType = errors.New("frequency must be a number or a string")

// Frequency is a day count that clients send either as a JSON number or as
// a string ("7", "custom").
type Frequency string

func (f *Frequency) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*f = Frequency(text)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errFrequencyType
	}
	*f = Frequency(n.String())
	return nil
}
