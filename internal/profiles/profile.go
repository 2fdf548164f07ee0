// Package profiles stores the settings profile shown on a user's account page.
package profiles

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"
)

var ErrNotFound = errors.New("profile not found")

type Profile struct {
	Name      string    `json:"name"`
	Title     string    `json:"title"`
	Bio       string    `json:"bio"`
	UpdatedAt time.Time `json:"-"`
}

type Repo interface {
	Get(ctx context.Context, userID string) (Profile, error)
	Upsert(ctx context.Context, userID string, p Profile) error
}

type MemoryRepo struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{profiles: make(map[string]Profile)}
}

func (r *MemoryRepo) Get(ctx context.Context, userID string) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[userID]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

func (r *MemoryRepo) Upsert(ctx context.Context, userID string, p Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[userID] = p
	return nil
}

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Get(ctx context.Context, userID string) (Profile, error) {
	var p Profile
	err := r.DB.QueryRowContext(ctx, `SELECT name, title, bio, updated_at FROM profiles WHERE user_id = $1`, userID).
		Scan(&p.Name, &p.Title, &p.Bio, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	return p, nil
}

func (r *PGRepo) Upsert(ctx context.Context, userID string, p Profile) error {
	_, err := r.DB.ExecContext(ctx, `
INSERT INTO profiles (user_id, name, title, bio, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id) DO UPDATE SET
  name = EXCLUDED.name,
  title = EXCLUDED.title,
  bio = EXCLUDED.bio,
  updated_at = EXCLUDED.updated_at`, userID, p.Name, p.Title, p.Bio, p.UpdatedAt)
	return err
}
