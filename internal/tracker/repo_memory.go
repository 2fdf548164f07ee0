package tracker

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repo for dev and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Application
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Application)}
}

func (r *MemoryRepo) Create(ctx context.Context, app Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[app.ID] = app
	return nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Application, 0)
	for _, app := range r.data {
		if app.UserID == userID {
			out = append(out, app)
		}
	}
	r.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, userID, id string, status Status) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.data[id]
	if !ok || app.UserID != userID {
		return false, nil
	}
	app.Status = status
	r.data[id] = app
	return true, nil
}

func (r *MemoryRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	return r.count(ctx, func(a Application) bool { return a.UserID == userID })
}

func (r *MemoryRepo) CountByStatus(ctx context.Context, userID string, status Status) (int64, error) {
	return r.count(ctx, func(a Application) bool { return a.UserID == userID && a.Status == status })
}

func (r *MemoryRepo) count(ctx context.Context, match func(Application) bool) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, app := range r.data {
		if match(app) {
			n++
		}
	}
	return n, nil
}
