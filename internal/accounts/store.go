package accounts

import "context"

type store interface {
	// Create inserts a fresh account if none exists and reports whether it did.
	Create(ctx context.Context, userID string, credits int64) (bool, error)
	Get(ctx context.Context, userID string) (Account, error)
	IncrementResumeCreated(ctx context.Context, userID string) error
	// Deduct subtracts cost from the balance and bumps the tailored counter in
	// one conditional write. It returns *DeductionError when nothing matched.
	Deduct(ctx context.Context, userID string, cost int64) (Account, error)
}
