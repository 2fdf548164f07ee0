package tracker

import "context"

// Repo persists tracked applications. Every method is scoped to one user.
type Repo interface {
	Create(ctx context.Context, app Application) error
	// ListByUser returns the user's applications, newest first.
	ListByUser(ctx context.Context, userID string) ([]Application, error)
	// UpdateStatus reports whether a record matching both ids was updated.
	UpdateStatus(ctx context.Context, userID, id string, status Status) (bool, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	CountByStatus(ctx context.Context, userID string, status Status) (int64, error)
}
