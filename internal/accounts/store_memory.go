package accounts

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu   sync.RWMutex
	data map[string]Account
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string]Account)}
}

func (s *memoryStore) Create(ctx context.Context, userID string, credits int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[userID]; ok {
		return false, nil
	}
	s.data[userID] = Account{
		UserID:    userID,
		AICredits: credits,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return true, nil
}

func (s *memoryStore) Get(ctx context.Context, userID string) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.data[userID]
	if !ok {
		return Account{}, ErrNotFound
	}
	return acc, nil
}

func (s *memoryStore) IncrementResumeCreated(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.data[userID]
	if !ok {
		return ErrNotFound
	}
	acc.ResumeCreated++
	acc.UpdatedAt = time.Now().UTC()
	s.data[userID] = acc
	return nil
}

func (s *memoryStore) Deduct(ctx context.Context, userID string, cost int64) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.data[userID]
	if !ok {
		return Account{}, &DeductionError{Cause: CauseNoAccount}
	}
	if acc.AICredits < cost {
		return Account{}, &DeductionError{Cause: CauseLowBalance}
	}
	acc.AICredits -= cost
	acc.ApplicationTailored++
	acc.UpdatedAt = time.Now().UTC()
	s.data[userID] = acc
	return acc, nil
}

// setCredits is a test hook for arranging balances.
func (s *memoryStore) setCredits(userID string, credits int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc := s.data[userID]
	acc.UserID = userID
	acc.AICredits = credits
	s.data[userID] = acc
}
