package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepo persists analyses in Postgres with the payload as JSONB.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Save(ctx context.Context, rec Record) error {
	payload, err := json.Marshal(rec.Analysis)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `
INSERT INTO analyses (id, user_id, payload, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload
WHERE analyses.user_id = EXCLUDED.user_id`,
		rec.ID,
		rec.UserID,
		payload,
		rec.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Record, error) {
	var (
		rec     Record
		payload []byte
	)
	err := r.DB.QueryRowContext(ctx, `
SELECT id, user_id, payload, created_at FROM analyses WHERE id = $1`, id).Scan(&rec.ID, &rec.UserID, &payload, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	if err := json.Unmarshal(payload, &rec.Analysis); err != nil {
		return Record{}, err
	}
	return rec, nil
}
