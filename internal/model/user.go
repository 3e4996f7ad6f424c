package model

import "time"

// User is a credential record. PasswordHash is filled only by the store
// methods that explicitly select it and is never serialized.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserUpdate struct {
	Name *string
}

func (u UserUpdate) Empty() bool {
	return u.Name == nil
}

// Identity is what a verified token says about its bearer.
type Identity struct {
	SubjectID string
	ExpiresAt time.Time
}
