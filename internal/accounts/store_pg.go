package accounts

import (
	"context"
	"database/sql"
	"errors"
)

type pgStore struct {
	DB *sql.DB
}

// NewPGStore constructs a Postgres-backed account store.
func NewPGStore(db *sql.DB) *pgStore {
	return &pgStore{DB: db}
}

func (s *pgStore) Create(ctx context.Context, userID string, credits int64) (bool, error) {
	res, err := s.DB.ExecContext(ctx, `
INSERT INTO accounts (user_id, resume_created, application_tailored, ai_credits)
VALUES ($1, 0, 0, $2)
ON CONFLICT (user_id) DO NOTHING`, userID, credits)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *pgStore) Get(ctx context.Context, userID string) (Account, error) {
	var acc Account
	err := s.DB.QueryRowContext(ctx, `
SELECT user_id, resume_created, application_tailored, ai_credits, created_at, updated_at
FROM accounts WHERE user_id = $1`, userID).Scan(
		&acc.UserID,
		&acc.ResumeCreated,
		&acc.ApplicationTailored,
		&acc.AICredits,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, err
	}
	return acc, nil
}

func (s *pgStore) IncrementResumeCreated(ctx context.Context, userID string) error {
	res, err := s.DB.ExecContext(ctx, `
UPDATE accounts SET resume_created = resume_created + 1, updated_at = now()
WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Deduct relies on the WHERE predicate for atomicity: the balance check and the
// decrement happen in the same statement, so concurrent callers cannot both pass.
func (s *pgStore) Deduct(ctx context.Context, userID string, cost int64) (Account, error) {
	var acc Account
	err := s.DB.QueryRowContext(ctx, `
UPDATE accounts
SET ai_credits = ai_credits - $1,
    application_tailored = application_tailored + 1,
    updated_at = now()
WHERE user_id = $2 AND ai_credits >= $1
RETURNING user_id, resume_created, application_tailored, ai_credits, created_at, updated_at`, cost, userID).Scan(
		&acc.UserID,
		&acc.ResumeCreated,
		&acc.ApplicationTailored,
		&acc.AICredits,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err == nil {
		return acc, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Account{}, err
	}

	var exists bool
	if err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE user_id = $1)`, userID).Scan(&exists); err != nil {
		return Account{}, err
	}
	if !exists {
		return Account{}, &DeductionError{Cause: CauseNoAccount}
	}
	return Account{}, &DeductionError{Cause: CauseLowBalance}
}
