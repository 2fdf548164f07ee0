package users

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	users   map[string]User
	byEmail map[string]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{users: make(map[string]User), byEmail: make(map[string]string)}
}

func (r *MemoryRepo) UpsertByEmail(ctx context.Context, user User) (User, bool, error) {
	if err := ctx.Err(); err != nil {
		return User{}, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if id, ok := r.byEmail[user.Email]; ok {
		existing := r.users[id]
		existing.FullName = coalesce(user.FullName, existing.FullName)
		existing.GivenName = coalesce(user.GivenName, existing.GivenName)
		existing.FamilyName = coalesce(user.FamilyName, existing.FamilyName)
		existing.PictureURL = coalesce(user.PictureURL, existing.PictureURL)
		existing.UpdatedAt = now
		r.users[id] = existing
		return existing, false, nil
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = user
	r.byEmail[user.Email] = user.ID
	return user, true, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func coalesce(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
