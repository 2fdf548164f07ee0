package users

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("user not found")

type Repo interface {
	// UpsertByEmail inserts user or, when the email is taken, refreshes the
	// non-empty profile fields of the existing row. It returns the stored user
	// and whether it was inserted.
	UpsertByEmail(ctx context.Context, user User) (User, bool, error)
	GetByID(ctx context.Context, userID string) (User, error)
}
