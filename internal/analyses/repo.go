package analyses

import "context"

// Repo persists analysis payloads.
type Repo interface {
	// Save inserts or replaces the record with rec.ID.
	Save(ctx context.Context, rec Record) error
	GetByID(ctx context.Context, id string) (Record, error)
}
