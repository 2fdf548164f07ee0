package feedback

import (
	"context"
	"database/sql"
	"sync"
)

type Repo interface {
	Insert(ctx context.Context, e Entry) error
}

type MemoryRepo struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) Insert(ctx context.Context, e Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

// Entries returns a copy of everything stored.
func (r *MemoryRepo) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Insert(ctx context.Context, e Entry) error {
	var userID any
	if e.UserID != "" {
		userID = e.UserID
	}
	_, err := r.DB.ExecContext(ctx, `
INSERT INTO feedback (id, user_id, type, rating, message, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`, e.ID, userID, e.Type, e.Rating, e.Message, e.CreatedAt)
	return err
}
